/*
Package ipcserver implements a MessagePack IPC for the fuzzy matching
engine.

The server operates on a request/response model: a client streams
MessagePack-encoded values on stdin and receives MessagePack-encoded
values back on stdout. MessagePack is self-delimiting, so no extra
framing is needed between messages. Each request carries an id that is
echoed back on its response so clients can match replies out of order.

A search request looks like:

	{"id": "req_001", "t": "H3llo W0rld!", "th": 0.8, "p": "greedy"}

The server responds with the selected, non-overlapping matches:

	{"id": "req_001", "m": [{...}, {...}], "c": 2, "t": 3}

Errors are reported as a response carrying only id/error/status.
*/
package ipcserver

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/kakserpom/fuzzyac/pkg/fuzzyac"
)

// WireMatch is the over-the-wire shape of a fuzzyac.Match.
type WireMatch struct {
	Pattern    string  `msgpack:"p"`
	Text       string  `msgpack:"m"`
	Start      int     `msgpack:"s"`
	End        int     `msgpack:"e"`
	Similarity float64 `msgpack:"sim"`
}

// SearchRequest is a single search operation.
type SearchRequest struct {
	ID        string  `msgpack:"id"`
	Text      string  `msgpack:"t"`
	Threshold float64 `msgpack:"th"`
	Policy    string  `msgpack:"p,omitempty"` // default|greedy|coverage|unique
}

// SearchResponse carries the selected match set for a SearchRequest.
type SearchResponse struct {
	ID        string      `msgpack:"id"`
	Matches   []WireMatch `msgpack:"m"`
	Count     int         `msgpack:"c"`
	TimeTaken int64       `msgpack:"t"`
}

// ErrorResponse reports a failed request.
type ErrorResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Error  string `msgpack:"error"`
	Status int    `msgpack:"status"`
}

// Server serves SearchRequests against a fixed Automaton over stdin/stdout.
// MessagePack is self-delimiting, so requests and responses are streamed
// back-to-back with no length prefix or line framing.
type Server struct {
	automaton    *fuzzyac.Automaton
	maxTextBytes int
	dec          *msgpack.Decoder
	enc          *msgpack.Encoder
}

// NewServer creates a server bound to a compiled Automaton, using
// stdin/stdout for IPC. maxTextBytes caps the size of a request's text
// field; zero means unlimited.
func NewServer(automaton *fuzzyac.Automaton, maxTextBytes int) *Server {
	return &Server{
		automaton:    automaton,
		maxTextBytes: maxTextBytes,
		dec:          msgpack.NewDecoder(os.Stdin),
		enc:          msgpack.NewEncoder(os.Stdout),
	}
}

// Start begins listening for IPC requests until stdin closes.
func (s *Server) Start() error {
	log.Debug("starting IPC server")
	s.sendResponse(map[string]string{"status": "ready"})

	for {
		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("reading request: %v", err)
			return err
		}
		s.handleRequest(raw)
	}
}

func (s *Server) handleRequest(raw msgpack.RawMessage) {
	var env struct {
		ID      string `msgpack:"id"`
		Command string `msgpack:"cmd"`
	}
	if err := msgpack.Unmarshal(raw, &env); err != nil {
		s.sendError("", "invalid msgpack request", 400)
		log.Errorf("unmarshaling envelope: %v", err)
		return
	}

	switch env.Command {
	case "search", "":
		s.handleSearch(raw)
	case "health":
		s.sendResponse(map[string]string{"id": env.ID, "status": "ok"})
	default:
		s.sendError(env.ID, fmt.Sprintf("unknown command: %s", env.Command), 400)
	}
}

func (s *Server) handleSearch(raw msgpack.RawMessage) {
	var req SearchRequest
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.sendError("", "invalid search request", 400)
		log.Errorf("unmarshaling search request: %v", err)
		return
	}

	if s.maxTextBytes > 0 && len(req.Text) > s.maxTextBytes {
		s.sendError(req.ID, "text exceeds maximum length", 400)
		return
	}

	start := time.Now()
	var matches []fuzzyac.Match
	switch req.Policy {
	case "greedy":
		matches = s.automaton.SearchGreedy(req.Text, req.Threshold)
	case "coverage":
		matches = s.automaton.SearchCoverage(req.Text, req.Threshold)
	case "unique":
		matches = s.automaton.SearchNonOverlappingUnique(req.Text, req.Threshold)
	default:
		matches = s.automaton.Search(req.Text, req.Threshold)
	}
	elapsed := time.Since(start)

	wire := make([]WireMatch, len(matches))
	for i, m := range matches {
		wire[i] = WireMatch{
			Pattern:    m.PatternText,
			Text:       m.Text,
			Start:      m.Start,
			End:        m.End,
			Similarity: m.Similarity,
		}
	}

	s.sendResponse(SearchResponse{
		ID:        req.ID,
		Matches:   wire,
		Count:     len(wire),
		TimeTaken: elapsed.Milliseconds(),
	})
}

// sendResponse encodes response as a MessagePack value onto stdout.
// MessagePack values are self-delimiting, so successive Encode calls need
// no explicit framing for a matching Decoder to split them back apart.
func (s *Server) sendResponse(response interface{}) {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(ErrorResponse{ID: id, Error: message, Status: code})
}
