package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathserve/mathserve/pkg/store"
	"github.com/mathserve/mathserve/pkg/term"
)

func testResolver() *Static {
	mem := store.NewMemory()
	mem.Add(&term.Descriptor{Name: "导数", Category: "CALCULUS", Code: `\frac{d}{dx}`, Aliases: []string{"微商"}})
	mem.Add(&term.Descriptor{Name: "平方根", Category: "ALGEBRA", Code: `\sqrt{}`, Aliases: []string{"根号"}})
	return NewStatic(mem)
}

func TestResolveExactAndAlias(t *testing.T) {
	r := testResolver()

	code, ok := r.Resolve("导数")
	require.True(t, ok)
	assert.Equal(t, `\frac{d}{dx}`, code)

	code, ok = r.Resolve("微商")
	require.True(t, ok)
	assert.Equal(t, `\frac{d}{dx}`, code)
}

func TestResolveFuzzyFallback(t *testing.T) {
	r := testResolver()

	// One rune off from 平方根 resolves through the fallback.
	code, ok := r.Resolve("平方很")
	require.True(t, ok)
	assert.Equal(t, `\sqrt{}`, code)

	// Too far from anything stored.
	_, ok = r.Resolve("拓扑同胚映射定理")
	assert.False(t, ok)
}

func TestResolveShortNamesSkipFallback(t *testing.T) {
	r := testResolver()
	_, ok := r.Resolve("导")
	assert.False(t, ok)
}

func TestResolveEmptyInputs(t *testing.T) {
	r := testResolver()
	_, ok := r.Resolve("")
	assert.False(t, ok)

	_, ok = NewStatic(nil).Resolve("导数")
	assert.False(t, ok)
}
