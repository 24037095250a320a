package term

// Store is the read-only vocabulary collaborator. Implementations must be
// safe for concurrent readers.
type Store interface {
	// LookupByName returns the descriptor whose canonical name matches.
	LookupByName(name string) (*Descriptor, bool)

	// LookupByAlias returns the descriptor owning the given alias.
	LookupByAlias(alias string) (*Descriptor, bool)

	// AllTerms enumerates every descriptor. The slice is a snapshot; the
	// descriptors themselves must not be mutated.
	AllTerms() []*Descriptor

	// FindSimilar returns up to k descriptors ranked by edit distance to
	// the query, nearest first.
	FindSimilar(query string, k int) []*Descriptor
}

// UsageProvider reports how often a term has been used historically.
type UsageProvider interface {
	UsageCount(termName string) int
}

// PreferenceProvider supplies the user profile and the per-context
// personalization weight vector.
type PreferenceProvider interface {
	Preferences() (Preferences, error)
	PersonalizationWeights(ctx *Context) (PersonalizationWeights, error)
}

// CodeResolver maps a term name to its symbolic code. Deterministic; the
// fallback behavior (if any) is up to the implementation.
type CodeResolver interface {
	Resolve(termName string) (string, bool)
}
