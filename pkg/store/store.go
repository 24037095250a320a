// Package store ships the in-process collaborators behind the engines: a
// patricia-indexed term store, a usage counter, and a TOML preference
// profile. The engines only ever see the interfaces in pkg/term.
package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/hbollon/go-edlib"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/mathserve/mathserve/pkg/term"
)

// Memory is an in-memory term.Store. Names and aliases live in separate
// patricia tries so prefix completion can tell them apart.
type Memory struct {
	mu        sync.RWMutex
	byID      map[string]*term.Descriptor
	byName    map[string]*term.Descriptor
	byAlias   map[string]*term.Descriptor
	nameTrie  *patricia.Trie
	aliasTrie *patricia.Trie
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		byID:      make(map[string]*term.Descriptor),
		byName:    make(map[string]*term.Descriptor),
		byAlias:   make(map[string]*term.Descriptor),
		nameTrie:  patricia.NewTrie(),
		aliasTrie: patricia.NewTrie(),
	}
}

// Add inserts or replaces a descriptor. A descriptor without an ID is keyed
// by its name.
func (m *Memory) Add(d *term.Descriptor) {
	if d == nil {
		return
	}
	d.Name = normalizeName(d.Name)
	if d.Name == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id := d.ID
	if id == "" {
		id = d.Name
		d.ID = id
	}
	m.byID[id] = d
	m.byName[d.Name] = d
	m.nameTrie.Set(patricia.Prefix(d.Name), id)
	for _, alias := range d.Aliases {
		alias = normalizeName(alias)
		if alias == "" || alias == d.Name {
			continue
		}
		m.byAlias[alias] = d
		m.aliasTrie.Set(patricia.Prefix(alias), id)
	}
}

// LookupByName returns the descriptor with the given canonical name.
func (m *Memory) LookupByName(name string) (*term.Descriptor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.byName[name]
	return d, ok
}

// LookupByAlias returns the descriptor owning the given alias.
func (m *Memory) LookupByAlias(alias string) (*term.Descriptor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.byAlias[alias]
	return d, ok
}

// AllTerms returns a snapshot of every descriptor, ordered by name so
// callers iterate deterministically.
func (m *Memory) AllTerms() []*term.Descriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*term.Descriptor, 0, len(m.byID))
	for _, d := range m.byID {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of stored terms.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

// FindSimilar returns up to k descriptors ranked by Levenshtein distance
// between the query and the canonical name (aliases count too, mapped back
// to their owner). Nearest first; ties break on name.
func (m *Memory) FindSimilar(query string, k int) []*term.Descriptor {
	if query == "" || k <= 0 {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	type scored struct {
		d    *term.Descriptor
		dist int
	}
	best := make(map[string]scored, len(m.byID))
	consider := func(name string, d *term.Descriptor) {
		dist := edlib.LevenshteinDistance(query, name)
		if prev, ok := best[d.ID]; !ok || dist < prev.dist {
			best[d.ID] = scored{d: d, dist: dist}
		}
	}
	for name, d := range m.byName {
		consider(name, d)
	}
	for alias, d := range m.byAlias {
		consider(alias, d)
	}

	ranked := make([]scored, 0, len(best))
	for _, s := range best {
		ranked = append(ranked, s)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].dist != ranked[j].dist {
			return ranked[i].dist < ranked[j].dist
		}
		return ranked[i].d.Name < ranked[j].d.Name
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	out := make([]*term.Descriptor, len(ranked))
	for i, s := range ranked {
		out[i] = s.d
	}
	return out
}

// CompleteByPrefix walks both tries and returns suggestion candidates whose
// name or alias starts with prefix. Alias hits carry a lower base score so
// the ranker prefers canonical spellings on equal footing.
func (m *Memory) CompleteByPrefix(prefix string, limit int) []term.Suggestion {
	if prefix == "" || limit <= 0 {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []term.Suggestion

	collect := func(trie *patricia.Trie, base float64) {
		_ = trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
			id, ok := item.(string)
			if !ok {
				return nil
			}
			d, ok := m.byID[id]
			if !ok {
				return nil
			}
			if _, dup := seen[d.ID]; dup {
				return nil
			}
			seen[d.ID] = struct{}{}
			out = append(out, term.Suggestion{
				Text:        d.Name,
				Code:        d.Code,
				Description: describeMatch(string(p), d),
				Category:    d.Category,
				Type:        "term",
				BaseScore:   base,
			})
			return nil
		})
	}
	collect(m.nameTrie, 0.6)
	collect(m.aliasTrie, 0.5)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func describeMatch(matched string, d *term.Descriptor) string {
	if matched == d.Name {
		return d.Category + " 术语 " + d.Name
	}
	return d.Category + " 术语 " + d.Name + "（别名 " + matched + "）"
}

var _ term.Store = (*Memory)(nil)

// normalizeName trims the whitespace variants dictionary files tend to
// carry around CJK terms.
func normalizeName(name string) string {
	return strings.TrimSpace(name)
}
