// Package recognizer couples the scanner with historical usage data: terms
// a user keeps accepting are recognized with more confidence over time.
package recognizer

import (
	"github.com/charmbracelet/log"

	"github.com/mathserve/mathserve/internal/logger"
	"github.com/mathserve/mathserve/pkg/scanner"
	"github.com/mathserve/mathserve/pkg/term"
)

const (
	// usageBonusStep is the confidence added per recorded use.
	usageBonusStep = 0.01
	// usageBonusCap stops usage alone from pushing confidence to certainty.
	usageBonusCap = 0.2
)

// Recognizer is the public recognition entry point.
type Recognizer struct {
	scanner *scanner.Scanner
	usage   term.UsageProvider
	log     *log.Logger
}

// New creates a recognizer. usage may be nil, in which case no boost is
// applied.
func New(store term.Store, usage term.UsageProvider) *Recognizer {
	return &Recognizer{
		scanner: scanner.New(store),
		usage:   usage,
		log:     logger.New("recognizer"),
	}
}

// Recognize scans text and boosts each occurrence's confidence by
// min(usageBonusCap, usageCount × usageBonusStep), re-clamped. Nothing else
// is mutated.
func (r *Recognizer) Recognize(text string) ([]term.Occurrence, error) {
	occurrences, err := r.scanner.Scan(text)
	if err != nil {
		return nil, err
	}
	if r.usage == nil {
		return occurrences, nil
	}
	for i := range occurrences {
		count := r.usage.UsageCount(occurrences[i].Text)
		if count <= 0 {
			continue
		}
		bonus := float64(count) * usageBonusStep
		if bonus > usageBonusCap {
			bonus = usageBonusCap
		}
		occurrences[i].Confidence = term.Clamp(occurrences[i].Confidence+bonus, 0.1, 1.0)
	}
	r.log.Debugf("Recognized %d terms in %d chars", len(occurrences), len(text))
	return occurrences, nil
}
