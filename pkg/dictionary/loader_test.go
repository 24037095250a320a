package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathserve/mathserve/pkg/store"
	"github.com/mathserve/mathserve/pkg/term"
)

const sampleTOML = `
[[terms]]
name = "导数"
category = "CALCULUS"
code = '\frac{d}{dx}'
aliases = ["微商"]

[[terms]]
name = "矩阵"
category = "LINEAR_ALGEBRA"
code = '\begin{pmatrix}\end{pmatrix}'
`

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatTOML, DetectFormat("terms.toml"))
	assert.Equal(t, FormatSnapshot, DetectFormat("dict_0001.bin"))
	assert.Equal(t, FormatUnknown, DetectFormat("notes.txt"))
	assert.Equal(t, FormatUnknown, DetectFormat("README"))
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0644))

	mem := store.NewMemory()
	n, err := LoadTOML(path, mem)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	d, ok := mem.LookupByName("导数")
	require.True(t, ok)
	assert.Equal(t, `\frac{d}{dx}`, d.Code)

	_, ok = mem.LookupByAlias("微商")
	assert.True(t, ok)
}

func TestLoadTOMLRejectsWrongExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.bin")
	require.NoError(t, os.WriteFile(path, []byte(sampleTOML), 0644))

	_, err := LoadTOML(path, store.NewMemory())
	assert.Error(t, err)
}

func TestSnapshotRoundTrip(t *testing.T) {
	src := store.NewMemory()
	src.Add(&term.Descriptor{Name: "导数", Category: "CALCULUS", Code: "a", Aliases: []string{"微商"}})
	src.Add(&term.Descriptor{Name: "极限", Category: "CALCULUS", Code: "b"})

	path := filepath.Join(t.TempDir(), "dict.bin")
	require.NoError(t, SaveSnapshot(path, src))

	dst := store.NewMemory()
	n, err := LoadSnapshot(path, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	d, ok := dst.LookupByAlias("微商")
	require.True(t, ok)
	assert.Equal(t, "导数", d.Name)
}

func TestLoadSnapshotRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.bin")
	require.NoError(t, os.WriteFile(path, []byte("not msgpack at all"), 0644))

	_, err := LoadSnapshot(path, store.NewMemory())
	assert.Error(t, err)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "terms.toml"), []byte(sampleTOML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644))

	snapSrc := store.NewMemory()
	snapSrc.Add(&term.Descriptor{Name: "极限", Category: "CALCULUS", Code: "b"})
	require.NoError(t, SaveSnapshot(filepath.Join(dir, "extra.bin"), snapSrc))

	mem := store.NewMemory()
	n, err := LoadDir(dir, mem)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, mem.Len())

	_, err = LoadDir(filepath.Join(dir, "missing"), store.NewMemory())
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	mem := store.NewMemory()
	n := Seed(mem)
	assert.Equal(t, n, mem.Len())

	d, ok := mem.LookupByName("导数")
	require.True(t, ok)
	assert.Equal(t, "CALCULUS", d.Category)
	assert.Equal(t, `\frac{d}{dx}`, d.Code)
}
