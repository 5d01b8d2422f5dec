/*
Package server implements msgpack IPC for new-word discovery.

Clients write msgpack messages to stdin and read one msgpack response per
request from stdout. Messages are handled in order, one at a time, and every
discover request scores its text with a fresh engine.

A discover request carries the text, an optional limit and an optional sort
key ("pmi", "entropy" or "freq"):

	{"id": "req_001", "a": "discover", "t": "...", "l": 10, "s": "pmi"}

The response lists new words best first with their frequency, PMI and
neighbor entropy, plus the count and the time taken in microseconds:

	{"id": "req_001", "w": [{"w": "区块链", "f": 12, "p": 9.4, "e": 2.1}], "c": 1, "t": 830}

A health check is {"id": "h", "a": "health"} and answers {"id": "h", "status": "ok"}.

Failures answer with an error message and code: 400 for bad requests and 413
when the text exceeds the configured size.

	{"id": "req_001", "e": "text too large", "c": 413}
*/
package server

const (
	ActionDiscover = "discover"
	ActionHealth   = "health"
)

// Error codes.
const (
	CodeBadRequest    = 400
	CodeTooLarge      = 413
	CodeInternalError = 500
)

// DiscoverRequest asks for the new words of a text. Action defaults to
// discover.
type DiscoverRequest struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"a,omitempty"`
	Text   string `msgpack:"t"`
	Limit  int    `msgpack:"l,omitempty"`
	Sort   string `msgpack:"s,omitempty"`
}

// DiscoveredWord is one ranked new word.
type DiscoveredWord struct {
	Word    string  `msgpack:"w"`
	Freq    int     `msgpack:"f"`
	PMI     float64 `msgpack:"p"`
	Entropy float64 `msgpack:"e"`
}

// DiscoverResponse answers a DiscoverRequest.
type DiscoverResponse struct {
	ID        string           `msgpack:"id"`
	Words     []DiscoveredWord `msgpack:"w"`
	Count     int              `msgpack:"c"`
	TimeTaken int64            `msgpack:"t"`
}

// HealthResponse answers a health check and announces readiness.
type HealthResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// DiscoverError holds basic error information for failed requests.
type DiscoverError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
