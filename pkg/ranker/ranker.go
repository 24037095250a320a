// Package ranker orders completion suggestions by a weighted composite of
// relevance, context fit, user preference, intrinsic quality, and novelty,
// then spreads the top results across categories and applies bounded
// personalization nudges.
package ranker

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/mathserve/mathserve/internal/logger"
	"github.com/mathserve/mathserve/pkg/term"
)

// Weights are the global component weights. They always sum to 1 and each
// stays within [MinWeight, MaxWeight] so feedback drift cannot collapse the
// composite onto a single factor.
type Weights struct {
	Relevance  float64 `toml:"relevance"`
	Context    float64 `toml:"context"`
	Preference float64 `toml:"preference"`
	Quality    float64 `toml:"quality"`
	Novelty    float64 `toml:"novelty"`
}

const (
	// MinWeight and MaxWeight clamp each component weight before
	// renormalization.
	MinWeight = 0.05
	MaxWeight = 0.50

	// driftStep is the per-feedback weight nudge.
	driftStep = 0.01

	// diversityCategoryBonus and diversityTypeBonus reward suggestions
	// bringing an unseen category or type into the top ranks.
	diversityCategoryBonus = 0.10
	diversityTypeBonus     = 0.05

	// Personalization nudges, scaled by the provider's weight vector.
	// Their sum bounds the whole pass at 0.1.
	nudgeCategory = 0.04
	nudgeUsage    = 0.03
	nudgeRecent   = 0.02
	nudgeProgress = 0.01
)

// DefaultWeights returns the shipped weight split.
func DefaultWeights() Weights {
	return Weights{
		Relevance:  0.30,
		Context:    0.25,
		Preference: 0.20,
		Quality:    0.15,
		Novelty:    0.10,
	}
}

// Options configures a Ranker.
type Options struct {
	Weights          Weights
	FeedbackCapacity int
	CacheSize        int
	CacheTTLSeconds  int
}

// DefaultOptions returns the shipped configuration.
func DefaultOptions() Options {
	return Options{
		Weights:          DefaultWeights(),
		FeedbackCapacity: 256,
		CacheSize:        128,
		CacheTTLSeconds:  300,
	}
}

// Ranker scores and orders suggestions. Safe for concurrent use; the only
// mutable state is the weight vector, the feedback ring, and the result
// cache, all guarded here.
type Ranker struct {
	prefs term.PreferenceProvider

	mu       sync.Mutex
	weights  Weights
	feedback *feedbackRing
	cache    *resultCache

	log *log.Logger
}

// New creates a ranker. prefs may be nil; preference and personalization
// then score neutral and Rank reports term.ErrRankingDegraded.
func New(prefs term.PreferenceProvider, opts Options) *Ranker {
	if opts.FeedbackCapacity <= 0 {
		opts.FeedbackCapacity = DefaultOptions().FeedbackCapacity
	}
	w := normalizeWeights(opts.Weights)
	return &Ranker{
		prefs:    prefs,
		weights:  w,
		feedback: newFeedbackRing(opts.FeedbackCapacity),
		cache:    newResultCache(opts.CacheSize, opts.CacheTTLSeconds),
		log:      logger.New("ranker"),
	}
}

// Rank computes composite scores for the suggestions, applies the diversity
// and personalization passes, and returns the fully ordered list. The input
// slice is not modified. When the preference provider fails, the affected
// components are scored neutral and the (still usable) result is returned
// together with term.ErrRankingDegraded.
func (r *Ranker) Rank(suggestions []term.Suggestion, query string, ctx *term.Context) ([]term.RankedSuggestion, error) {
	if strings.TrimSpace(query) == "" {
		return nil, term.ErrInvalidInput
	}
	if len(suggestions) == 0 {
		return []term.RankedSuggestion{}, nil
	}

	cacheKey := buildCacheKey(query, ctx, suggestions)

	r.mu.Lock()
	if cached, ok := r.cache.get(cacheKey); ok {
		r.mu.Unlock()
		return cached, nil
	}
	weights := r.weights
	noveltyKey := queryKey(query)
	priorCounts := make([]int, len(suggestions))
	everSelected := make([]bool, len(suggestions))
	for i := range suggestions {
		priorCounts[i] = r.feedback.selectionCount(noveltyKey, &suggestions[i])
		everSelected[i] = r.feedback.everSelected(&suggestions[i])
	}
	r.mu.Unlock()

	degraded := false
	var prefs term.Preferences
	havePrefs := false
	if r.prefs != nil {
		var err error
		prefs, err = r.prefs.Preferences()
		if err != nil {
			r.log.Warnf("Preference provider failed, scoring neutral: %v", err)
		} else {
			havePrefs = true
		}
	}
	if !havePrefs {
		degraded = true
	}

	ranked := make([]term.RankedSuggestion, len(suggestions))
	for i, s := range suggestions {
		rel := relevanceScore(s, query)
		ctxScore := contextScore(s, ctx)
		prefScore := 0.5
		if havePrefs {
			prefScore = preferenceScore(s, prefs)
		}
		qual := qualityScore(s)
		nov := noveltyScore(priorCounts[i])

		composite := rel*weights.Relevance +
			ctxScore*weights.Context +
			prefScore*weights.Preference +
			qual*weights.Quality +
			nov*weights.Novelty
		ranked[i] = term.RankedSuggestion{
			Suggestion: s,
			Score:      term.Clamp(composite, 0, 1),
			Components: map[string]float64{
				"relevance":  rel,
				"context":    ctxScore,
				"preference": prefScore,
				"quality":    qual,
				"novelty":    nov,
			},
		}
	}

	// Stable descending sort: ties keep the caller's order.
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	applyDiversity(ranked)

	if !r.personalize(ranked, ctx, prefs, havePrefs, everSelected, suggestions) {
		degraded = true
	}

	// The top result stays pinned: boosts and nudges reorder the tail only.
	tail := ranked[1:]
	sort.SliceStable(tail, func(i, j int) bool { return tail[i].Score > tail[j].Score })

	if degraded {
		// Not cached: a hit would hide the degraded condition from the
		// caller, and the provider may recover before the next call.
		return ranked, term.ErrRankingDegraded
	}

	r.mu.Lock()
	r.cache.put(cacheKey, ranked)
	r.mu.Unlock()
	return ranked, nil
}

// applyDiversity boosts lower-ranked suggestions that introduce a category
// or type unseen above them, then re-sorts everything below rank 1. It only
// reorders; membership never changes.
func applyDiversity(ranked []term.RankedSuggestion) {
	if len(ranked) < 2 {
		return
	}
	seenCategories := map[string]struct{}{ranked[0].Category: {}}
	seenTypes := map[string]struct{}{ranked[0].Type: {}}

	for i := 1; i < len(ranked); i++ {
		boost := 0.0
		if _, ok := seenCategories[ranked[i].Category]; !ok {
			boost += diversityCategoryBonus
		}
		if _, ok := seenTypes[ranked[i].Type]; !ok {
			boost += diversityTypeBonus
		}
		if boost > 0 {
			ranked[i].Score = term.Clamp(ranked[i].Score+boost, 0, 1)
		}
		seenCategories[ranked[i].Category] = struct{}{}
		seenTypes[ranked[i].Type] = struct{}{}
	}

	tail := ranked[1:]
	sort.SliceStable(tail, func(i, j int) bool { return tail[i].Score > tail[j].Score })
}

// personalize adds bounded per-suggestion nudges from the provider's weight
// vector. Returns false when the provider was unavailable.
func (r *Ranker) personalize(ranked []term.RankedSuggestion, ctx *term.Context, prefs term.Preferences, havePrefs bool, everSelected []bool, original []term.Suggestion) bool {
	if r.prefs == nil {
		return false
	}
	vector, err := r.prefs.PersonalizationWeights(ctx)
	if err != nil {
		r.log.Warnf("Personalization weights unavailable: %v", err)
		return false
	}

	// everSelected is indexed by the caller's order; map back by identity.
	selectedByKey := make(map[string]bool, len(original))
	for i := range original {
		selectedByKey[original[i].Text+"\x00"+original[i].Code] = everSelected[i]
	}

	for i := range ranked {
		nudge := 0.0
		if havePrefs && containsFold(prefs.PreferredCategories, ranked[i].Category) {
			nudge += nudgeCategory * term.Clamp(vector.CategoryPreference, 0, 1)
		}
		if selectedByKey[ranked[i].Text+"\x00"+ranked[i].Code] {
			nudge += nudgeUsage * term.Clamp(vector.UsageFrequency, 0, 1)
		}
		if ctx != nil && containsFold(ctx.RecentTerms, ranked[i].Text) {
			nudge += nudgeRecent * term.Clamp(vector.RecentActivity, 0, 1)
		}
		if havePrefs && estimateDifficulty(ranked[i].Code) <= prefs.DifficultyLevel {
			nudge += nudgeProgress * term.Clamp(vector.LearningProgress, 0, 1)
		}
		if nudge > 0 {
			ranked[i].Score = term.Clamp(ranked[i].Score+nudge, 0, 1)
		}
	}
	return true
}

// Weights returns a copy of the current weight vector.
func (r *Ranker) Weights() Weights {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.weights
}

// queryKey normalizes a query to its grouping key for novelty and feedback:
// lowercased, trimmed, first three runes.
func queryKey(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	runes := []rune(q)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}

// buildCacheKey fingerprints the query, the context, and the candidate set.
// Callers may pass arbitrary suggestion lists for the same query, so the
// candidates must be part of the key or a hit could return suggestions the
// caller never passed in.
func buildCacheKey(query string, ctx *term.Context, suggestions []term.Suggestion) string {
	h := fnv.New64a()
	for i := range suggestions {
		h.Write([]byte(suggestions[i].Text))
		h.Write([]byte{0})
		h.Write([]byte(suggestions[i].Code))
		h.Write([]byte{0})
	}

	var b strings.Builder
	b.WriteString(query)
	b.WriteByte('|')
	if ctx != nil {
		b.WriteString(ctx.DetectedCategory)
		b.WriteByte('|')
		b.WriteString(strings.Join(ctx.RecentTerms, ","))
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(len(ctx.SurroundingText)))
	}
	b.WriteByte('|')
	b.WriteString(strconv.FormatUint(h.Sum64(), 16))
	return b.String()
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

func normalizeWeights(w Weights) Weights {
	if w.Relevance == 0 && w.Context == 0 && w.Preference == 0 && w.Quality == 0 && w.Novelty == 0 {
		return DefaultWeights()
	}
	w.Relevance = term.Clamp(w.Relevance, MinWeight, MaxWeight)
	w.Context = term.Clamp(w.Context, MinWeight, MaxWeight)
	w.Preference = term.Clamp(w.Preference, MinWeight, MaxWeight)
	w.Quality = term.Clamp(w.Quality, MinWeight, MaxWeight)
	w.Novelty = term.Clamp(w.Novelty, MinWeight, MaxWeight)
	sum := w.Relevance + w.Context + w.Preference + w.Quality + w.Novelty
	w.Relevance /= sum
	w.Context /= sum
	w.Preference /= sum
	w.Quality /= sum
	w.Novelty /= sum
	return w
}
