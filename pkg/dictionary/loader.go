package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/mathserve/mathserve/pkg/store"
	"github.com/mathserve/mathserve/pkg/term"
)

// snapshotVersion guards the msgpack layout. Bump on incompatible change.
const snapshotVersion = 1

type termFile struct {
	Terms []term.Descriptor `toml:"terms"`
}

type snapshot struct {
	Version int               `msgpack:"v"`
	Terms   []term.Descriptor `msgpack:"terms"`
}

// LoadTOML reads a [[terms]] dictionary file into the store and returns the
// number of terms added.
func LoadTOML(path string, dst *store.Memory) (int, error) {
	if err := ValidateFile(path, FormatTOML); err != nil {
		return 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	var file termFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	for i := range file.Terms {
		dst.Add(&file.Terms[i])
	}
	return len(file.Terms), nil
}

// LoadSnapshot reads a msgpack snapshot into the store.
func LoadSnapshot(path string, dst *store.Memory) (int, error) {
	if err := ValidateFile(path, FormatSnapshot); err != nil {
		return 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return 0, fmt.Errorf("decode %s: %w", path, err)
	}
	if snap.Version != snapshotVersion {
		return 0, fmt.Errorf("snapshot %s has version %d, want %d", path, snap.Version, snapshotVersion)
	}
	for i := range snap.Terms {
		dst.Add(&snap.Terms[i])
	}
	return len(snap.Terms), nil
}

// SaveSnapshot writes the store's full term set as a msgpack snapshot.
func SaveSnapshot(path string, src *store.Memory) error {
	descriptors := src.AllTerms()
	snap := snapshot{Version: snapshotVersion, Terms: make([]term.Descriptor, len(descriptors))}
	for i, d := range descriptors {
		snap.Terms[i] = *d
	}
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadDir loads every recognizable dictionary file in dir, TOML first so
// snapshots can override hand-edited entries. Unreadable files are logged
// and skipped; a missing directory is an error.
func LoadDir(dir string, dst *store.Memory) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read dictionary dir %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Slice(paths, func(i, j int) bool {
		fi, fj := DetectFormat(paths[i]), DetectFormat(paths[j])
		if fi != fj {
			return fi == FormatTOML
		}
		return paths[i] < paths[j]
	})

	total := 0
	for _, path := range paths {
		var n int
		var loadErr error
		switch DetectFormat(path) {
		case FormatTOML:
			n, loadErr = LoadTOML(path, dst)
		case FormatSnapshot:
			n, loadErr = LoadSnapshot(path, dst)
		default:
			continue
		}
		if loadErr != nil {
			log.Warnf("Skipping dictionary file %s: %v", path, loadErr)
			continue
		}
		log.Debugf("Loaded %d terms from %s", n, path)
		total += n
	}
	return total, nil
}

// Seed fills the store with a small builtin vocabulary so the binary works
// without any data directory.
func Seed(dst *store.Memory) int {
	seed := []term.Descriptor{
		{Name: "导数", Category: "CALCULUS", Code: `\frac{d}{dx}`, Aliases: []string{"微商"}},
		{Name: "二阶导数", Category: "CALCULUS", Code: `\frac{d^2}{dx^2}`},
		{Name: "偏导数", Category: "CALCULUS", Code: `\frac{\partial}{\partial x}`},
		{Name: "积分", Category: "CALCULUS", Code: `\int`, Aliases: []string{"不定积分"}},
		{Name: "定积分", Category: "CALCULUS", Code: `\int_a^b`},
		{Name: "极限", Category: "CALCULUS", Code: `\lim_{x \to \infty}`},
		{Name: "函数", Category: "ALGEBRA", Code: `f(x)`},
		{Name: "矩阵", Category: "LINEAR_ALGEBRA", Code: `\begin{pmatrix}\end{pmatrix}`},
		{Name: "行列式", Category: "LINEAR_ALGEBRA", Code: `\det`, Aliases: []string{"行列式值"}},
		{Name: "特征值", Category: "LINEAR_ALGEBRA", Code: `\lambda`},
		{Name: "向量", Category: "LINEAR_ALGEBRA", Code: `\vec{v}`},
		{Name: "求和", Category: "ALGEBRA", Code: `\sum_{i=1}^{n}`, Aliases: []string{"连加"}},
		{Name: "平方根", Category: "ALGEBRA", Code: `\sqrt{}`, Aliases: []string{"根号"}},
		{Name: "分数", Category: "ALGEBRA", Code: `\frac{}{}`},
		{Name: "集合", Category: "SET_THEORY", Code: `\{\}`},
		{Name: "子集", Category: "SET_THEORY", Code: `\subseteq`},
		{Name: "并集", Category: "SET_THEORY", Code: `\cup`},
		{Name: "交集", Category: "SET_THEORY", Code: `\cap`},
		{Name: "概率", Category: "PROBABILITY", Code: `P(A)`},
		{Name: "期望", Category: "PROBABILITY", Code: `E(X)`, Aliases: []string{"数学期望"}},
		{Name: "方差", Category: "PROBABILITY", Code: `D(X)`},
		{Name: "正弦", Category: "TRIGONOMETRY", Code: `\sin`},
		{Name: "余弦", Category: "TRIGONOMETRY", Code: `\cos`},
		{Name: "勾股定理", Category: "GEOMETRY", Code: `a^2 + b^2 = c^2`, Aliases: []string{"毕达哥拉斯定理"}},
		{Name: "三角形", Category: "GEOMETRY", Code: `\triangle`},
	}
	for i := range seed {
		dst.Add(&seed[i])
	}
	return len(seed)
}
