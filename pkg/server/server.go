package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/wordmine/internal/logger"
	"github.com/bastiangx/wordmine/pkg/config"
	"github.com/bastiangx/wordmine/pkg/discover"
	"github.com/bastiangx/wordmine/pkg/pipeline"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles discover requests over a msgpack stream.
type Server struct {
	pipeline *pipeline.Pipeline
	limits   config.ServerConfig
	dec      *msgpack.Decoder
	out      *bufio.Writer
	enc      *msgpack.Encoder
	handled  int
	log      *log.Logger
}

// NewServer creates a server on stdin/stdout.
func NewServer(p *pipeline.Pipeline, limits config.ServerConfig) *Server {
	return NewServerWithIO(p, limits, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server on the given streams.
func NewServerWithIO(p *pipeline.Pipeline, limits config.ServerConfig, r io.Reader, w io.Writer) *Server {
	out := bufio.NewWriter(w)
	return &Server{
		pipeline: p,
		limits:   limits,
		dec:      msgpack.NewDecoder(bufio.NewReader(r)),
		out:      out,
		enc:      msgpack.NewEncoder(out),
		log:      logger.New("ipc"),
	}
}

// Start announces readiness and serves until the input ends.
func (s *Server) Start() error {
	s.log.Debug("Starting Server.")
	if err := s.send(HealthResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debugf("Input closed after %d requests", s.handled)
				return nil
			}
			s.log.Errorf("Reading request: %v", err)
			s.sendError("", "unreadable request stream", CodeBadRequest)
			return err
		}
		s.handled++
		s.handleRequest(raw)
	}
}

// Handled is the number of requests read so far.
func (s *Server) Handled() int {
	return s.handled
}

func (s *Server) handleRequest(raw msgpack.RawMessage) {
	var req DiscoverRequest
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.log.Errorf("Unmarshaling request: %v", err)
		s.sendError("", "invalid msgpack request", CodeBadRequest)
		return
	}

	switch req.Action {
	case ActionDiscover, "":
		s.handleDiscover(req)
	case ActionHealth:
		s.send(HealthResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), CodeBadRequest)
	}
}

func (s *Server) handleDiscover(req DiscoverRequest) {
	if req.Text == "" {
		s.log.Debug("Text is empty in request")
		s.sendError(req.ID, "missing 't' parameter", CodeBadRequest)
		return
	}
	if s.limits.MaxText > 0 && len(req.Text) > s.limits.MaxText {
		s.sendError(req.ID, fmt.Sprintf("text too large: %d bytes, max %d", len(req.Text), s.limits.MaxText), CodeTooLarge)
		return
	}

	key := s.pipeline.Options().SortBy
	if req.Sort != "" {
		k, err := discover.ParseSortKey(req.Sort)
		if err != nil {
			s.sendError(req.ID, err.Error(), CodeBadRequest)
			return
		}
		key = k
	}

	limit := req.Limit
	if limit <= 0 || (s.limits.MaxLimit > 0 && limit > s.limits.MaxLimit) {
		limit = s.limits.MaxLimit
	}

	start := time.Now()
	sentences, err := pipeline.ReadSentences(strings.NewReader(req.Text))
	if err != nil {
		s.sendError(req.ID, "failed to read text", CodeInternalError)
		return
	}
	res := s.pipeline.Discover(sentences, key)

	cands := res.Candidates
	if limit > 0 && len(cands) > limit {
		cands = cands[:limit]
	}
	words := make([]DiscoveredWord, len(cands))
	for i, c := range cands {
		words[i] = DiscoveredWord{Word: c.Word, Freq: c.Freq, PMI: c.PMI, Entropy: c.Entropy}
	}
	elapsed := time.Since(start)
	s.log.Debugf("Request %s: %d of %d words in %v", req.ID, len(words), len(res.Candidates), elapsed)

	s.send(DiscoverResponse{
		ID:        req.ID,
		Words:     words,
		Count:     len(words),
		TimeTaken: elapsed.Microseconds(),
	})
}

// send encodes response and flushes it so the client sees it immediately.
func (s *Server) send(response any) error {
	if err := s.enc.Encode(response); err != nil {
		s.log.Errorf("Marshaling response: %v", err)
		return err
	}
	if err := s.out.Flush(); err != nil {
		s.log.Errorf("Writing response: %v", err)
		return err
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) {
	s.send(DiscoverError{ID: id, Error: message, Code: code})
}
