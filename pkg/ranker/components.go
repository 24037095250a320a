package ranker

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/mathserve/mathserve/internal/textutil"
	"github.com/mathserve/mathserve/pkg/term"
)

// relevanceScore measures how well a suggestion answers the query: text
// similarity dominates, code token overlap and description similarity help,
// and the caller's base score acts as a weak prior.
func relevanceScore(s term.Suggestion, query string) float64 {
	score := 0.4*textutil.Similarity(s.Text, query) +
		0.3*textutil.TokenOverlap(s.Code, query) +
		0.2*textutil.Similarity(s.Description, query) +
		0.1*term.Clamp(s.BaseScore, 0, 1)
	return term.Clamp(score, 0, 1)
}

// contextScore measures fit with the typing context. With no context the
// component is neutral so it neither rewards nor punishes anyone.
func contextScore(s term.Suggestion, ctx *term.Context) float64 {
	if ctx == nil {
		return 0.5
	}
	score := 0.0
	if s.Category != "" && strings.EqualFold(s.Category, ctx.DetectedCategory) {
		score += 0.4
	}
	best := 0.0
	for _, recent := range ctx.RecentTerms {
		if sim := textutil.Similarity(s.Text, recent); sim > best {
			best = sim
		}
	}
	score += 0.3 * best
	// Surrounding text is noisy, so its similarity only counts half.
	score += 0.3 * 0.5 * textutil.Similarity(s.Text, ctx.SurroundingText)
	return term.Clamp(score, 0, 1)
}

// preferenceScore measures fit with the user profile.
func preferenceScore(s term.Suggestion, prefs term.Preferences) float64 {
	score := 0.0
	if containsFold(prefs.PreferredCategories, s.Category) {
		score += 0.4
	}
	if containsFold(prefs.PreferredInputTypes, s.Type) {
		score += 0.3
	}
	diff := math.Abs(estimateDifficulty(s.Code) - term.Clamp(prefs.DifficultyLevel, 0, 1))
	score += 0.3 * (1 - diff)
	return term.Clamp(score, 0, 1)
}

// estimateDifficulty derives a difficulty in [0,1] from the structural
// complexity of a code snippet: command count caps at 0.5, brace nesting at
// 0.3, raw length at 0.2.
func estimateDifficulty(code string) float64 {
	commands := math.Min(0.5, 0.1*float64(textutil.CommandCount(code)))
	nesting := math.Min(0.3, 0.1*float64(textutil.BraceDepth(code)))
	length := math.Min(0.2, 0.002*float64(len(code)))
	return commands + nesting + length
}

// qualityScore measures intrinsic suggestion quality independent of the
// query: code well-formedness (weight 0.4), description quality (0.3), and
// type/content consistency (0.3).
func qualityScore(s term.Suggestion) float64 {
	code := 0.4
	if textutil.BracesBalanced(s.Code) {
		code += 0.2
	}
	if textutil.CommandCount(s.Code) > 0 {
		code += 0.2
	}
	if len(s.Code) > 100 {
		code -= 0.1
	}
	score := 0.4*term.Clamp(code, 0, 1) +
		0.3*descriptionQuality(s.Description) +
		0.3*typeConsistency(s)
	return term.Clamp(score, 0, 1)
}

// placeholderTokens disqualify a description as informative.
var placeholderTokens = []string{"todo", "tbd", "placeholder", "待定", "待补充", "xxx"}

// informativeTokens suggest the description actually explains the entry.
var informativeTokens = []string{"术语", "符号", "公式", "定理", "表示", "用于", "记作"}

func descriptionQuality(desc string) float64 {
	if desc == "" {
		return 0
	}
	score := 0.0
	runeLen := utf8.RuneCountInString(desc)
	if runeLen >= 4 && runeLen <= 120 {
		score += 0.4
	}
	lower := strings.ToLower(desc)
	for _, tok := range informativeTokens {
		if strings.Contains(desc, tok) {
			score += 0.3
			break
		}
	}
	clean := true
	for _, tok := range placeholderTokens {
		if strings.Contains(lower, tok) {
			clean = false
			break
		}
	}
	if clean {
		score += 0.3
	}
	return term.Clamp(score, 0, 1)
}

// typeConsistency checks that the declared type matches the code's shape:
// a "term" should be plain or text-wrapped, a "formula" should carry
// commands or relations, a "symbol" should be short.
func typeConsistency(s term.Suggestion) float64 {
	switch strings.ToLower(s.Type) {
	case "term":
		if strings.Contains(s.Code, `\text{`) || textutil.CommandCount(s.Code) == 0 {
			return 1
		}
		return 0
	case "formula":
		if textutil.CommandCount(s.Code) > 0 || strings.ContainsAny(s.Code, "=+-^_") {
			return 1
		}
		return 0
	case "symbol":
		if utf8.RuneCountInString(s.Code) <= 16 {
			return 1
		}
		return 0
	default:
		return 0.5
	}
}

// noveltyScore rewards suggestions never picked under the query's grouping
// key and decays repeat picks toward a floor of 0.1.
func noveltyScore(priorSelections int) float64 {
	if priorSelections == 0 {
		return 0.8
	}
	return math.Max(0.1, 1-0.1*float64(priorSelections))
}
