// Package term holds the value types shared across the recognition and
// ranking engines, plus the collaborator interfaces they consume.
package term

import "time"

// Descriptor describes a single dictionary term. The engines treat it as
// read-only; stores own the canonical copies.
type Descriptor struct {
	ID       string   `toml:"id" msgpack:"id"`
	Name     string   `toml:"name" msgpack:"n"`
	Category string   `toml:"category" msgpack:"cat"`
	Code     string   `toml:"code" msgpack:"c"`
	Aliases  []string `toml:"aliases" msgpack:"a,omitempty"`
}

// Occurrence is a recognized term inside a scanned text. Start and End are
// rune indexes, the span is [Start, End).
type Occurrence struct {
	Start      int     `msgpack:"s"`
	End        int     `msgpack:"e"`
	Text       string  `msgpack:"t"`
	Confidence float64 `msgpack:"conf"`
	Category   string  `msgpack:"cat"`
	Code       string  `msgpack:"c"`
	TermID     string  `msgpack:"id"`
}

// Suggestion is a completion candidate supplied by the caller (or produced
// from a prefix lookup). BaseScore is the caller's prior in [0,1].
type Suggestion struct {
	Text        string  `msgpack:"t"`
	Code        string  `msgpack:"c"`
	Description string  `msgpack:"d,omitempty"`
	Category    string  `msgpack:"cat,omitempty"`
	Type        string  `msgpack:"ty,omitempty"`
	BaseScore   float64 `msgpack:"b,omitempty"`
}

// RankedSuggestion pairs a suggestion with its composite score in [0,1].
// Components keeps the per-factor breakdown for debugging output.
type RankedSuggestion struct {
	Suggestion
	Score      float64            `msgpack:"sc"`
	Components map[string]float64 `msgpack:"comp,omitempty"`
}

// Context is the optional typing context supplied with a ranking call.
type Context struct {
	DetectedCategory string   `msgpack:"cat,omitempty"`
	RecentTerms      []string `msgpack:"recent,omitempty"`
	SurroundingText  string   `msgpack:"text,omitempty"`
}

// FeedbackRecord remembers one accepted suggestion for a query.
type FeedbackRecord struct {
	Query     string
	Selected  Suggestion
	Timestamp time.Time
}

// Preferences is the user profile consulted by the ranker.
type Preferences struct {
	PreferredCategories []string `toml:"preferred_categories"`
	PreferredInputTypes []string `toml:"preferred_input_types"`
	// DifficultyLevel is the user's comfort level in [0,1].
	DifficultyLevel float64 `toml:"difficulty_level"`
}

// PersonalizationWeights scales the per-context personalization nudges.
// Each field is expected in [0,1].
type PersonalizationWeights struct {
	CategoryPreference float64 `toml:"category_preference"`
	UsageFrequency     float64 `toml:"usage_frequency"`
	RecentActivity     float64 `toml:"recent_activity"`
	LearningProgress   float64 `toml:"learning_progress"`
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
