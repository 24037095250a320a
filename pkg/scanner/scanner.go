// Package scanner finds dictionary terms inside free-form text and scores
// each hit with a heuristic confidence.
package scanner

import (
	"sort"

	"github.com/charmbracelet/log"

	"github.com/mathserve/mathserve/internal/logger"
	"github.com/mathserve/mathserve/internal/textutil"
	"github.com/mathserve/mathserve/pkg/term"
)

// Confidence composition constants. Tuned against hand-labelled course
// notes; changing one usually means re-checking the others.
const (
	baseConfidence     = 0.6
	mathSignalBonus    = 0.2
	mathMarkupBonus    = 0.15
	emphasisBonus      = 0.10
	listItemBonus      = 0.05
	longNameBonus      = 0.05
	longNameRuneCount  = 3
	aliasPenaltyFactor = 0.9
	minConfidence      = 0.1
	maxConfidence      = 1.0
	signalWindowRunes  = 20
)

// Scanner matches every candidate name from a term store against a text,
// longest name first, and never lets two matches overlap.
type Scanner struct {
	store term.Store
	log   *log.Logger
}

// New creates a scanner over the given store.
func New(store term.Store) *Scanner {
	return &Scanner{
		store: store,
		log:   logger.New("scanner"),
	}
}

// candidate is one searchable name: a canonical term name or an alias.
type candidate struct {
	name  string
	runes []rune
	desc  *term.Descriptor
	alias bool
}

// Scan returns every recognized occurrence in text, ordered by start
// position. Occurrences never overlap; when two candidate names cover the
// same span the longer one wins. An internal fault degrades to an empty
// list rather than an error.
func (s *Scanner) Scan(text string) (occurrences []term.Occurrence, err error) {
	if s == nil || s.store == nil {
		return nil, term.ErrServiceUnavailable
	}
	if !textutil.IsValidText(text) {
		return nil, term.ErrInvalidInput
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("Scan recovered from internal fault: %v", r)
			occurrences = []term.Occurrence{}
			err = nil
		}
	}()

	candidates := s.collectCandidates()
	if len(candidates) == 0 {
		return []term.Occurrence{}, nil
	}

	runes := []rune(text)
	excluded := make([]bool, len(runes))
	occurrences = make([]term.Occurrence, 0, 8)

	for _, cand := range candidates {
		if len(cand.runes) == 0 || len(cand.runes) > len(runes) {
			continue
		}
		for start := 0; start+len(cand.runes) <= len(runes); start++ {
			if !matchAt(runes, cand.runes, start) {
				continue
			}
			end := start + len(cand.runes)
			if anyExcluded(excluded, start, end) {
				continue
			}
			if isCompoundFragment(runes, start, end) {
				continue
			}

			conf := s.confidence(runes, start, end, cand)
			occurrences = append(occurrences, term.Occurrence{
				Start:      start,
				End:        end,
				Text:       cand.name,
				Confidence: conf,
				Category:   cand.desc.Category,
				Code:       cand.desc.Code,
				TermID:     cand.desc.ID,
			})
			for i := start; i < end; i++ {
				excluded[i] = true
			}
			start = end - 1
		}
	}

	sort.Slice(occurrences, func(i, j int) bool {
		return occurrences[i].Start < occurrences[j].Start
	})
	return occurrences, nil
}

// collectCandidates gathers every canonical name and alias, ordered by
// (rune length descending, name ascending). The ordering is the tie-break:
// longer names are attempted first, equal lengths fall back to lexicographic
// order so scans are reproducible.
func (s *Scanner) collectCandidates() []candidate {
	terms := s.store.AllTerms()
	candidates := make([]candidate, 0, len(terms)*2)
	for _, d := range terms {
		candidates = append(candidates, candidate{
			name:  d.Name,
			runes: []rune(d.Name),
			desc:  d,
		})
		for _, alias := range d.Aliases {
			if alias == "" {
				continue
			}
			candidates = append(candidates, candidate{
				name:  alias,
				runes: []rune(alias),
				desc:  d,
				alias: true,
			})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		li, lj := len(candidates[i].runes), len(candidates[j].runes)
		if li != lj {
			return li > lj
		}
		return candidates[i].name < candidates[j].name
	})
	return candidates
}

// confidence composes the heuristic score for an accepted match.
func (s *Scanner) confidence(runes []rune, start, end int, cand candidate) float64 {
	conf := baseConfidence
	if hasMathSignal(runes, start, end, signalWindowRunes) {
		conf += mathSignalBonus
	}
	if inMathMarkup(runes, start) {
		conf += mathMarkupBonus
	}
	if inEmphasis(runes, start) {
		conf += emphasisBonus
	}
	if inListItem(runes, start) {
		conf += listItemBonus
	}
	if len(cand.runes) >= longNameRuneCount {
		conf += longNameBonus
	}
	conf = term.Clamp(conf, minConfidence, maxConfidence)
	if cand.alias {
		conf = term.Clamp(conf*aliasPenaltyFactor, minConfidence, maxConfidence)
	}
	return conf
}

func matchAt(text, name []rune, start int) bool {
	for i, r := range name {
		if text[start+i] != r {
			return false
		}
	}
	return true
}

func anyExcluded(excluded []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if excluded[i] {
			return true
		}
	}
	return false
}
