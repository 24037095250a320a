package store

import (
	"sync"

	"github.com/mathserve/mathserve/pkg/term"
)

// UsageTracker is a mutex-guarded term.UsageProvider. The server feeds it
// from feedback events; the recognizer only reads it.
type UsageTracker struct {
	mu     sync.RWMutex
	counts map[string]int
}

// NewUsageTracker creates an empty tracker.
func NewUsageTracker() *UsageTracker {
	return &UsageTracker{counts: make(map[string]int)}
}

// Record bumps the counter for termName.
func (u *UsageTracker) Record(termName string) {
	if termName == "" {
		return
	}
	u.mu.Lock()
	u.counts[termName]++
	u.mu.Unlock()
}

// SetCount overwrites the counter, used when restoring persisted usage.
func (u *UsageTracker) SetCount(termName string, count int) {
	if termName == "" || count < 0 {
		return
	}
	u.mu.Lock()
	u.counts[termName] = count
	u.mu.Unlock()
}

// UsageCount returns the historical usage count for termName.
func (u *UsageTracker) UsageCount(termName string) int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.counts[termName]
}

var _ term.UsageProvider = (*UsageTracker)(nil)
