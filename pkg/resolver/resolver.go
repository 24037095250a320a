// Package resolver maps term names to symbolic codes. It is a plain
// dictionary lookup with an edit-distance fallback: deterministic,
// inspectable, and intentionally not a learned model.
package resolver

import (
	"unicode/utf8"

	"github.com/hbollon/go-edlib"

	"github.com/mathserve/mathserve/pkg/term"
)

// maxFallbackDistance is the largest Levenshtein distance the fuzzy
// fallback accepts. Anything farther is a different term, not a typo.
const maxFallbackDistance = 2

// Static resolves codes from a term store.
type Static struct {
	store term.Store
}

// NewStatic creates a resolver over the store.
func NewStatic(store term.Store) *Static {
	return &Static{store: store}
}

// Resolve returns the code for termName. Exact name and alias lookups come
// first; failing those, the nearest stored term within maxFallbackDistance
// is used. Very short names skip the fallback since a one-rune edit there
// would reach unrelated terms.
func (s *Static) Resolve(termName string) (string, bool) {
	if s == nil || s.store == nil || termName == "" {
		return "", false
	}
	if d, ok := s.store.LookupByName(termName); ok {
		return d.Code, true
	}
	if d, ok := s.store.LookupByAlias(termName); ok {
		return d.Code, true
	}
	if utf8.RuneCountInString(termName) < 2 {
		return "", false
	}
	for _, d := range s.store.FindSimilar(termName, 1) {
		if edlib.LevenshteinDistance(termName, d.Name) <= maxFallbackDistance {
			return d.Code, true
		}
	}
	return "", false
}

var _ term.CodeResolver = (*Static)(nil)
