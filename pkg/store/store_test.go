package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathserve/mathserve/pkg/term"
)

func seededStore() *Memory {
	mem := NewMemory()
	mem.Add(&term.Descriptor{Name: "导数", Category: "CALCULUS", Code: `\frac{d}{dx}`, Aliases: []string{"微商"}})
	mem.Add(&term.Descriptor{Name: "二阶导数", Category: "CALCULUS", Code: `\frac{d^2}{dx^2}`})
	mem.Add(&term.Descriptor{Name: "矩阵", Category: "LINEAR_ALGEBRA", Code: `\begin{pmatrix}\end{pmatrix}`})
	mem.Add(&term.Descriptor{Name: "行列式", Category: "LINEAR_ALGEBRA", Code: `\det`, Aliases: []string{"行列式值"}})
	return mem
}

func TestLookups(t *testing.T) {
	mem := seededStore()

	d, ok := mem.LookupByName("导数")
	require.True(t, ok)
	assert.Equal(t, "CALCULUS", d.Category)

	_, ok = mem.LookupByName("微商")
	assert.False(t, ok, "alias must not answer name lookups")

	d, ok = mem.LookupByAlias("微商")
	require.True(t, ok)
	assert.Equal(t, "导数", d.Name)

	_, ok = mem.LookupByAlias("导数")
	assert.False(t, ok)
}

func TestAddNormalizesAndReplaces(t *testing.T) {
	mem := NewMemory()
	mem.Add(&term.Descriptor{Name: "  导数  ", Category: "CALCULUS", Code: "a"})

	d, ok := mem.LookupByName("导数")
	require.True(t, ok)
	assert.Equal(t, "a", d.Code)

	mem.Add(&term.Descriptor{Name: "导数", Category: "CALCULUS", Code: "b"})
	d, _ = mem.LookupByName("导数")
	assert.Equal(t, "b", d.Code)
	assert.Equal(t, 1, mem.Len())
}

func TestAllTermsSortedSnapshot(t *testing.T) {
	mem := seededStore()
	all := mem.AllTerms()
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}
}

func TestFindSimilar(t *testing.T) {
	mem := seededStore()

	similar := mem.FindSimilar("导数", 2)
	require.NotEmpty(t, similar)
	assert.Equal(t, "导数", similar[0].Name, "exact name is distance zero")

	// An alias near-miss maps back to its owner.
	similar = mem.FindSimilar("微离", 1)
	require.Len(t, similar, 1)
	assert.Equal(t, "导数", similar[0].Name)

	assert.Nil(t, mem.FindSimilar("", 3))
	assert.Nil(t, mem.FindSimilar("导数", 0))
}

func TestCompleteByPrefix(t *testing.T) {
	mem := seededStore()

	suggestions := mem.CompleteByPrefix("导", 10)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "导数", suggestions[0].Text)
	assert.Equal(t, "term", suggestions[0].Type)
	assert.InDelta(t, 0.6, suggestions[0].BaseScore, 1e-9)

	// Alias prefix resolves to the owning term with a lower base score.
	suggestions = mem.CompleteByPrefix("微", 10)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "导数", suggestions[0].Text)
	assert.InDelta(t, 0.5, suggestions[0].BaseScore, 1e-9)

	// A term reachable through both name and alias appears once.
	all := mem.CompleteByPrefix("行", 10)
	assert.Len(t, all, 1)

	assert.Empty(t, mem.CompleteByPrefix("战", 10))
	assert.Nil(t, mem.CompleteByPrefix("", 10))
}

func TestUsageTracker(t *testing.T) {
	usage := NewUsageTracker()
	assert.Equal(t, 0, usage.UsageCount("导数"))

	usage.Record("导数")
	usage.Record("导数")
	assert.Equal(t, 2, usage.UsageCount("导数"))

	usage.SetCount("导数", 40)
	assert.Equal(t, 40, usage.UsageCount("导数"))

	usage.Record("")
	usage.SetCount("矩阵", -1)
	assert.Equal(t, 0, usage.UsageCount("矩阵"))
}

func TestProfileDefaults(t *testing.T) {
	p := NewProfile()
	prefs, err := p.Preferences()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, prefs.DifficultyLevel, 1e-9)
	assert.Empty(t, prefs.PreferredCategories)

	weights, err := p.PersonalizationWeights(nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, weights.CategoryPreference, 1e-9)
}

func TestLoadProfileMissingFileKeepsDefaults(t *testing.T) {
	p, err := LoadProfile("/nonexistent/profile.toml")
	require.NoError(t, err)
	prefs, _ := p.Preferences()
	assert.InDelta(t, 0.5, prefs.DifficultyLevel, 1e-9)
}
