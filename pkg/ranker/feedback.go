package ranker

import (
	"strings"
	"time"

	"github.com/mathserve/mathserve/internal/textutil"
	"github.com/mathserve/mathserve/pkg/term"
)

// feedbackRing is the bounded history of accepted suggestions. Oldest
// entries are evicted when capacity is reached. Callers hold the ranker
// mutex.
type feedbackRing struct {
	records  []term.FeedbackRecord
	capacity int
	next     int
	full     bool
}

func newFeedbackRing(capacity int) *feedbackRing {
	return &feedbackRing{
		records:  make([]term.FeedbackRecord, capacity),
		capacity: capacity,
	}
}

func (f *feedbackRing) add(rec term.FeedbackRecord) {
	f.records[f.next] = rec
	f.next = (f.next + 1) % f.capacity
	if f.next == 0 {
		f.full = true
	}
}

func (f *feedbackRing) len() int {
	if f.full {
		return f.capacity
	}
	return f.next
}

// all iterates the live records in insertion order.
func (f *feedbackRing) all(visit func(term.FeedbackRecord)) {
	if f.full {
		for i := f.next; i < f.capacity; i++ {
			visit(f.records[i])
		}
	}
	for i := 0; i < f.next; i++ {
		visit(f.records[i])
	}
}

// selectionCount counts how often this suggestion (by text or code) was
// selected under the given query key.
func (f *feedbackRing) selectionCount(key string, s *term.Suggestion) int {
	count := 0
	f.all(func(rec term.FeedbackRecord) {
		if queryKey(rec.Query) != key {
			return
		}
		if sameSuggestion(&rec.Selected, s) {
			count++
		}
	})
	return count
}

// everSelected reports whether this suggestion was ever accepted, under any
// query.
func (f *feedbackRing) everSelected(s *term.Suggestion) bool {
	found := false
	f.all(func(rec term.FeedbackRecord) {
		if !found && sameSuggestion(&rec.Selected, s) {
			found = true
		}
	})
	return found
}

func sameSuggestion(a, b *term.Suggestion) bool {
	if a.Text != "" && a.Text == b.Text {
		return true
	}
	return a.Code != "" && a.Code == b.Code
}

// RecordFeedback remembers that the user accepted selected for query, and
// drifts the global weights by one step per matched signal: a selection
// with real markup commands argues for quality, a selection textually close
// to the query argues for relevance. Weights are re-clamped and
// renormalized so drift can never produce a degenerate vector. The result
// cache is dropped since cached orders were produced by the old weights.
func (r *Ranker) RecordFeedback(query string, selected term.Suggestion) error {
	if strings.TrimSpace(query) == "" || (selected.Text == "" && selected.Code == "") {
		return term.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.feedback.add(term.FeedbackRecord{
		Query:     query,
		Selected:  selected,
		Timestamp: time.Now(),
	})

	if textutil.CommandCount(selected.Code) > 0 {
		r.weights.Quality += driftStep
	}
	if textutil.Similarity(selected.Text, query) >= 0.8 {
		r.weights.Relevance += driftStep
	}
	r.weights = normalizeWeights(r.weights)

	r.cache.clear()
	r.log.Debugf("Feedback recorded for %q, history=%d", query, r.feedback.len())
	return nil
}

// FeedbackLen returns the number of records currently held.
func (r *Ranker) FeedbackLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.feedback.len()
}
