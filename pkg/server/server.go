package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/mathserve/mathserve/pkg/config"
	"github.com/mathserve/mathserve/pkg/ranker"
	"github.com/mathserve/mathserve/pkg/recognizer"
	"github.com/mathserve/mathserve/pkg/store"
	"github.com/mathserve/mathserve/pkg/term"
)

// Server handles the IPC for recognition and ranking.
type Server struct {
	recognizer *recognizer.Recognizer
	ranker     *ranker.Ranker
	store      *store.Memory
	usage      *store.UsageTracker
	resolver   term.CodeResolver
	cfg        *config.Config
	decoder    *msgpack.Decoder
	encoder    *msgpack.Encoder
}

// NewServer creates a server over stdin/stdout.
func NewServer(rec *recognizer.Recognizer, rk *ranker.Ranker, mem *store.Memory, usage *store.UsageTracker, res term.CodeResolver, cfg *config.Config) *Server {
	return NewServerWithIO(rec, rk, mem, usage, res, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server over an arbitrary transport pair.
func NewServerWithIO(rec *recognizer.Recognizer, rk *ranker.Ranker, mem *store.Memory, usage *store.UsageTracker, res term.CodeResolver, cfg *config.Config, in io.Reader, out io.Writer) *Server {
	return &Server{
		recognizer: rec,
		ranker:     rk,
		store:      mem,
		usage:      usage,
		resolver:   res,
		cfg:        cfg,
		decoder:    msgpack.NewDecoder(bufio.NewReader(in)),
		encoder:    msgpack.NewEncoder(out),
	}
}

// Start begins the request loop. It returns nil on EOF.
func (s *Server) Start() error {
	log.Debug("Starting IPC server")
	s.send(StatusResponse{Status: "ready"})

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "malformed request", 400)
			continue
		}
		s.handle(req)
	}
}

func (s *Server) handle(req Request) {
	switch req.Op {
	case "recognize":
		s.handleRecognize(req)
	case "suggest":
		s.handleSuggest(req)
	case "rank":
		s.handleRank(req)
	case "feedback":
		s.handleFeedback(req)
	case "health":
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown op: %s", req.Op), 400)
	}
}

func (s *Server) handleRecognize(req Request) {
	if req.Text == "" {
		s.sendError(req.ID, "missing 'text'", 400)
		return
	}
	if max := s.cfg.Server.MaxText; max > 0 && len(req.Text) > max {
		s.sendError(req.ID, "text too large", 400)
		return
	}
	started := time.Now()
	occurrences, err := s.recognizer.Recognize(req.Text)
	if err != nil {
		s.sendError(req.ID, err.Error(), errorCode(err))
		return
	}
	s.send(RecognizeResponse{
		ID:          req.ID,
		Occurrences: occurrences,
		Count:       len(occurrences),
		TimeTaken:   time.Since(started).Microseconds(),
	})
}

// handleSuggest completes the prefix against the term store, fills missing
// codes through the resolver, and ranks the candidates.
func (s *Server) handleSuggest(req Request) {
	prefixLen := len([]rune(req.Prefix))
	if prefixLen < s.cfg.Server.MinPrefix {
		s.sendError(req.ID, "prefix too short", 400)
		return
	}
	if s.cfg.Server.MaxPrefix > 0 && prefixLen > s.cfg.Server.MaxPrefix {
		s.sendError(req.ID, "prefix too long", 400)
		return
	}
	limit := s.clampLimit(req.Limit)

	candidates := s.store.CompleteByPrefix(req.Prefix, limit*2)
	for i := range candidates {
		if candidates[i].Code == "" && s.resolver != nil {
			if code, ok := s.resolver.Resolve(candidates[i].Text); ok {
				candidates[i].Code = code
			}
		}
	}

	started := time.Now()
	ranked, err := s.ranker.Rank(candidates, req.Prefix, req.Context)
	degraded := errors.Is(err, term.ErrRankingDegraded)
	if err != nil && !degraded {
		s.sendError(req.ID, err.Error(), errorCode(err))
		return
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	s.send(RankResponse{
		ID:          req.ID,
		Suggestions: ranked,
		Count:       len(ranked),
		Degraded:    degraded,
		TimeTaken:   time.Since(started).Microseconds(),
	})
}

func (s *Server) handleRank(req Request) {
	if req.Query == "" {
		s.sendError(req.ID, "missing 'q'", 400)
		return
	}
	started := time.Now()
	ranked, err := s.ranker.Rank(req.Suggestions, req.Query, req.Context)
	degraded := errors.Is(err, term.ErrRankingDegraded)
	if err != nil && !degraded {
		s.sendError(req.ID, err.Error(), errorCode(err))
		return
	}
	s.send(RankResponse{
		ID:          req.ID,
		Suggestions: ranked,
		Count:       len(ranked),
		Degraded:    degraded,
		TimeTaken:   time.Since(started).Microseconds(),
	})
}

// handleFeedback records the accepted suggestion for ranking drift and
// bumps the usage counter feeding recognition confidence.
func (s *Server) handleFeedback(req Request) {
	if req.Selected == nil {
		s.sendError(req.ID, "missing 'sel'", 400)
		return
	}
	if err := s.ranker.RecordFeedback(req.Query, *req.Selected); err != nil {
		s.sendError(req.ID, err.Error(), errorCode(err))
		return
	}
	if s.usage != nil {
		s.usage.Record(req.Selected.Text)
	}
	s.send(StatusResponse{ID: req.ID, Status: "ok"})
}

func (s *Server) clampLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	}
	if max := s.cfg.Server.MaxLimit; max > 0 && limit > max {
		limit = max
	}
	return limit
}

func (s *Server) send(response any) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, term.ErrInvalidInput):
		return 400
	case errors.Is(err, term.ErrServiceUnavailable):
		return 503
	default:
		return 500
	}
}
