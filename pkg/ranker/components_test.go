package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mathserve/mathserve/pkg/term"
)

func TestRelevanceScore(t *testing.T) {
	cases := []struct {
		s     term.Suggestion
		query string
		want  float64
		desc  string
	}{
		{term.Suggestion{Text: "导数", BaseScore: 1}, "导数", 0.5, "exact text match plus full base"},
		{term.Suggestion{Text: "二阶导数"}, "导数", 0.32, "substring containment scores 0.8"},
		{term.Suggestion{Text: "矩阵"}, "导数", 0.0, "disjoint strings score zero"},
		{term.Suggestion{Text: "导数", Code: "frac"}, "导数frac", 0.62, "code token found in query"},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, relevanceScore(tc.s, tc.query), 1e-9, tc.desc)
	}
}

func TestContextScoreNeutralWithoutContext(t *testing.T) {
	s := term.Suggestion{Text: "导数", Category: "CALCULUS"}
	assert.InDelta(t, 0.5, contextScore(s, nil), 1e-9)
}

func TestContextScoreComposition(t *testing.T) {
	s := term.Suggestion{Text: "导数", Category: "CALCULUS"}
	ctx := &term.Context{
		DetectedCategory: "CALCULUS",
		RecentTerms:      []string{"导数"},
		SurroundingText:  "导数",
	}
	// 0.4 category + 0.3×1.0 recent + 0.3×0.5×1.0 surrounding.
	assert.InDelta(t, 0.85, contextScore(s, ctx), 1e-9)

	ctxOther := &term.Context{DetectedCategory: "GEOMETRY"}
	assert.InDelta(t, 0.0, contextScore(s, ctxOther), 1e-9)
}

func TestPreferenceScore(t *testing.T) {
	prefs := term.Preferences{
		PreferredCategories: []string{"CALCULUS"},
		PreferredInputTypes: []string{"term"},
		DifficultyLevel:     0.0,
	}
	s := term.Suggestion{Category: "CALCULUS", Type: "term", Code: ""}
	// 0.4 + 0.3 + 0.3×(1−0) with an empty code estimating difficulty 0.
	assert.InDelta(t, 1.0, preferenceScore(s, prefs), 1e-9)

	mismatch := term.Suggestion{Category: "GEOMETRY", Type: "formula", Code: ""}
	assert.InDelta(t, 0.3, preferenceScore(mismatch, prefs), 1e-9)
}

func TestEstimateDifficultyCaps(t *testing.T) {
	assert.InDelta(t, 0.0, estimateDifficulty(""), 1e-9)

	// Eight commands cap at 0.5, depth four caps at 0.3, length caps at 0.2.
	heavy := `\frac{\sqrt{\sum{\int{\lim{\sin{\cos{\tan{x}}}}}}}}` +
		`\alpha\beta\gamma\delta\epsilon\zeta\eta\theta\iota\kappa` +
		`0123456789012345678901234567890123456789012345678901234567890123456789`
	assert.InDelta(t, 1.0, estimateDifficulty(heavy), 1e-9)

	simple := estimateDifficulty(`\sqrt{x}`)
	assert.Greater(t, simple, 0.0)
	assert.Less(t, simple, 0.5)
}

func TestQualityScore(t *testing.T) {
	good := term.Suggestion{
		Code:        `\frac{d}{dx}`,
		Description: "微积分术语，表示函数的变化率",
		Type:        "formula",
	}
	bad := term.Suggestion{
		Code:        `\frac{d}{dx`,
		Description: "TODO",
		Type:        "term",
	}
	assert.Greater(t, qualityScore(good), qualityScore(bad))

	for _, s := range []term.Suggestion{good, bad, {}} {
		score := qualityScore(s)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestTypeConsistency(t *testing.T) {
	cases := []struct {
		s    term.Suggestion
		want float64
		desc string
	}{
		{term.Suggestion{Type: "term", Code: `\text{极限}`}, 1, "text-wrapped term"},
		{term.Suggestion{Type: "term", Code: "x+y"}, 1, "plain term code"},
		{term.Suggestion{Type: "term", Code: `\int_a^b`}, 0, "term with formula markup"},
		{term.Suggestion{Type: "formula", Code: `\sum_{i=1}^{n}`}, 1, "formula with commands"},
		{term.Suggestion{Type: "formula", Code: "plain words only"}, 0, "formula with no structure"},
		{term.Suggestion{Type: "symbol", Code: "λ"}, 1, "short symbol"},
		{term.Suggestion{Type: "", Code: "x"}, 0.5, "untyped is neutral"},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, typeConsistency(tc.s), 1e-9, tc.desc)
	}
}

func TestNoveltyScore(t *testing.T) {
	assert.InDelta(t, 0.8, noveltyScore(0), 1e-9)
	assert.InDelta(t, 0.9, noveltyScore(1), 1e-9)
	assert.InDelta(t, 0.5, noveltyScore(5), 1e-9)
	assert.InDelta(t, 0.1, noveltyScore(9), 1e-9)
	assert.InDelta(t, 0.1, noveltyScore(50), 1e-9)
}

func TestQueryKey(t *testing.T) {
	assert.Equal(t, "导数是", queryKey("导数是什么"))
	assert.Equal(t, "导数", queryKey("  导数  "))
	assert.Equal(t, "abc", queryKey("ABCDEF"))
}
