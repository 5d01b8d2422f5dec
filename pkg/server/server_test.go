package server

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/wordmine/pkg/config"
	"github.com/bastiangx/wordmine/pkg/discover"
	"github.com/bastiangx/wordmine/pkg/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func testPipeline() *pipeline.Pipeline {
	d := discover.DefaultOptions()
	d.MinPMI = 0
	d.MinEntropy = 0
	return pipeline.New(pipeline.Options{Discover: d, SortBy: discover.SortPMI, RankWeight: 100}, nil)
}

// serve runs a server over the encoded requests and returns a decoder over
// its output, positioned after the ready message.
func serve(t *testing.T, limits config.ServerConfig, requests ...any) *msgpack.Decoder {
	t.Helper()
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range requests {
		require.NoError(t, enc.Encode(r))
	}

	var out bytes.Buffer
	s := NewServerWithIO(testPipeline(), limits, &in, &out)
	require.NoError(t, s.Start())
	assert.Equal(t, len(requests), s.Handled())

	dec := msgpack.NewDecoder(&out)
	var ready HealthResponse
	require.NoError(t, dec.Decode(&ready))
	require.Equal(t, "ready", ready.Status)
	return dec
}

func defaultLimits() config.ServerConfig {
	return config.DefaultConfig().Server
}

func TestHealth(t *testing.T) {
	dec := serve(t, defaultLimits(), DiscoverRequest{ID: "h", Action: ActionHealth})
	var resp HealthResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, HealthResponse{ID: "h", Status: "ok"}, resp)
}

func TestDiscover(t *testing.T) {
	dec := serve(t, defaultLimits(),
		DiscoverRequest{ID: "d1", Text: "abcabcabc", Limit: 2, Sort: "freq"},
		DiscoverRequest{ID: "d2", Action: ActionDiscover, Text: "abcabcabc"},
	)

	var first DiscoverResponse
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, "d1", first.ID)
	require.Equal(t, 2, first.Count)
	assert.Equal(t, "abc", first.Words[0].Word)
	assert.Equal(t, 3, first.Words[0].Freq)
	assert.Equal(t, "abca", first.Words[1].Word)

	var second DiscoverResponse
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, "d2", second.ID)
	assert.Equal(t, 9, second.Count)
	assert.Len(t, second.Words, second.Count)
}

func TestDiscoverErrors(t *testing.T) {
	limits := defaultLimits()
	limits.MaxText = 16

	dec := serve(t, limits,
		DiscoverRequest{ID: "empty"},
		DiscoverRequest{ID: "big", Text: strings.Repeat("a", 17)},
		DiscoverRequest{ID: "sort", Text: "abc", Sort: "loudness"},
		DiscoverRequest{ID: "act", Action: "complete", Text: "abc"},
		map[string]any{"id": "typed", "t": 42},
	)

	want := []DiscoverError{
		{ID: "empty", Code: CodeBadRequest},
		{ID: "big", Code: CodeTooLarge},
		{ID: "sort", Code: CodeBadRequest},
		{ID: "act", Code: CodeBadRequest},
		{ID: "", Code: CodeBadRequest},
	}
	for _, w := range want {
		var got DiscoverError
		require.NoError(t, dec.Decode(&got))
		assert.Equal(t, w.ID, got.ID)
		assert.Equal(t, w.Code, got.Code, w.ID)
		assert.NotEmpty(t, got.Error)
	}
}

func TestEmptyInput(t *testing.T) {
	serve(t, defaultLimits())
}
