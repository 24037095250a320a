package recognizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathserve/mathserve/pkg/store"
	"github.com/mathserve/mathserve/pkg/term"
)

func newTestStore() *store.Memory {
	mem := store.NewMemory()
	mem.Add(&term.Descriptor{Name: "导数", Category: "CALCULUS", Code: `\frac{d}{dx}`})
	mem.Add(&term.Descriptor{Name: "矩阵", Category: "LINEAR_ALGEBRA", Code: `\begin{pmatrix}\end{pmatrix}`})
	return mem
}

func TestRecognizeWithoutUsage(t *testing.T) {
	rec := New(newTestStore(), nil)
	occurrences, err := rec.Recognize("函数的导数是什么")
	require.NoError(t, err)
	require.Len(t, occurrences, 1)
	assert.InDelta(t, 0.6, occurrences[0].Confidence, 1e-9)
}

func TestRecognizeUsageBoost(t *testing.T) {
	cases := []struct {
		count int
		want  float64
		desc  string
	}{
		{0, 0.6, "unused term gets no boost"},
		{5, 0.65, "boost is count times 0.01"},
		{20, 0.8, "boost reaches the cap exactly"},
		{500, 0.8, "boost never exceeds the cap"},
	}
	for _, tc := range cases {
		usage := store.NewUsageTracker()
		usage.SetCount("导数", tc.count)
		rec := New(newTestStore(), usage)

		occurrences, err := rec.Recognize("函数的导数是什么")
		require.NoError(t, err, tc.desc)
		require.Len(t, occurrences, 1, tc.desc)
		assert.InDelta(t, tc.want, occurrences[0].Confidence, 1e-9, tc.desc)
	}
}

func TestRecognizeBoostReclamps(t *testing.T) {
	usage := store.NewUsageTracker()
	usage.SetCount("导数", 100)
	rec := New(newTestStore(), usage)

	// Base 0.6 + keyword 0.2 + capped usage 0.2 lands exactly on 1.0.
	occurrences, err := rec.Recognize("计算导数")
	require.NoError(t, err)
	require.Len(t, occurrences, 1)
	assert.LessOrEqual(t, occurrences[0].Confidence, 1.0)
	assert.InDelta(t, 1.0, occurrences[0].Confidence, 1e-9)
}

func TestRecognizePropagatesErrors(t *testing.T) {
	rec := New(newTestStore(), nil)
	_, err := rec.Recognize("")
	assert.ErrorIs(t, err, term.ErrInvalidInput)
}
