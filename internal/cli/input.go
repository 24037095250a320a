// Package cli is an interactive loop for testing recognition and ranking
// without the msgpack transport.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mathserve/mathserve/pkg/ranker"
	"github.com/mathserve/mathserve/pkg/recognizer"
	"github.com/mathserve/mathserve/pkg/store"
	"github.com/mathserve/mathserve/pkg/term"
)

// InputHandler reads lines from stdin and prints recognitions or ranked
// suggestions depending on the line prefix.
type InputHandler struct {
	recognizer   *recognizer.Recognizer
	ranker       *ranker.Ranker
	store        *store.Memory
	suggestLimit int
}

// NewInputHandler wires the handler to live engine instances.
func NewInputHandler(rec *recognizer.Recognizer, rk *ranker.Ranker, mem *store.Memory, limit int) *InputHandler {
	if limit <= 0 {
		limit = 10
	}
	return &InputHandler{
		recognizer:   rec,
		ranker:       rk,
		store:        mem,
		suggestLimit: limit,
	}
}

// Start begins the interface loop. Plain lines are scanned for terms;
// lines starting with '?' are treated as a typing prefix and ranked.
// The loop terminates when stdin closes.
func (h *InputHandler) Start() error {
	log.Print("mathserve CLI")
	log.Print("type text to recognize terms, or ?prefix for suggestions (Ctrl+C to exit):")
	reader := bufio.NewReader(os.Stdin)

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

func (h *InputHandler) handleInput(line string) {
	if strings.HasPrefix(line, "?") {
		h.showSuggestions(strings.TrimSpace(line[1:]))
		return
	}
	h.showRecognitions(line)
}

func (h *InputHandler) showRecognitions(text string) {
	occurrences, err := h.recognizer.Recognize(text)
	if err != nil {
		log.Errorf("recognize: %v", err)
		return
	}
	if len(occurrences) == 0 {
		log.Print("no terms recognized")
		return
	}
	for _, occ := range occurrences {
		fmt.Printf("  [%d:%d) %s  conf=%.2f  %s  %s\n",
			occ.Start, occ.End, occ.Text, occ.Confidence, occ.Category, occ.Code)
	}
}

func (h *InputHandler) showSuggestions(prefix string) {
	if prefix == "" {
		log.Print("empty prefix")
		return
	}
	candidates := h.store.CompleteByPrefix(prefix, h.suggestLimit*2)
	ranked, err := h.ranker.Rank(candidates, prefix, nil)
	if err != nil && !errors.Is(err, term.ErrRankingDegraded) {
		log.Errorf("rank: %v", err)
		return
	}
	if len(ranked) == 0 {
		log.Print("no suggestions")
		return
	}
	if len(ranked) > h.suggestLimit {
		ranked = ranked[:h.suggestLimit]
	}
	for i, rs := range ranked {
		fmt.Printf("  %2d. %s  score=%.3f  %s  %s\n", i+1, rs.Text, rs.Score, rs.Category, rs.Code)
	}
}
