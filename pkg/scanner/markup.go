package scanner

import (
	"strings"

	"github.com/mathserve/mathserve/internal/textutil"
)

// operatorGlyphs are the math symbols that strengthen a nearby match.
const operatorGlyphs = "+-×÷=≠≈<>≤≥∈∉⊆∪∩∑∏∫√∂∇π∞λ^"

// mathKeywords are verbs and nouns that usually surround real math prose.
var mathKeywords = []string{
	"计算", "求解", "求出", "证明", "推导", "等于", "方程", "公式", "定义域", "取值",
}

// extensionKeywords mark compound-term suffixes. A match glued to one of
// these inside a contiguous script run is usually a fragment of a longer
// unlisted term (e.g. 导数 inside 导数定理) and gets rejected.
var extensionKeywords = []string{
	"定理", "公式", "法则", "方法", "定律", "不等式", "判别式", "准则",
}

// extensionWindow is how many runes around the match the fragment check
// inspects on each side.
const extensionWindow = 4

// isCompoundFragment reports whether the match at [start,end) sits inside a
// contiguous run of script text whose surroundings contain an extension
// keyword. Such matches are fragments of longer compound terms.
func isCompoundFragment(runes []rune, start, end int) bool {
	scriptBefore := start > 0 && textutil.IsScript(runes[start-1]) && !textutil.IsSeparator(runes[start-1])
	scriptAfter := end < len(runes) && textutil.IsScript(runes[end]) && !textutil.IsSeparator(runes[end])
	if !scriptBefore || !scriptAfter {
		return false
	}

	lo := start - extensionWindow
	if lo < 0 {
		lo = 0
	}
	hi := end + extensionWindow
	if hi > len(runes) {
		hi = len(runes)
	}
	around := string(runes[lo:start]) + "|" + string(runes[end:hi])
	for _, kw := range extensionKeywords {
		if strings.Contains(around, kw) {
			return true
		}
	}
	return false
}

// hasMathSignal reports whether an operator glyph or a math keyword appears
// within window runes of the match span. Line-leading list and heading
// markup is stripped first so a Markdown bullet is not read as a minus sign.
func hasMathSignal(runes []rune, start, end, window int) bool {
	lo := start - window
	if lo < 0 {
		lo = 0
	}
	hi := end + window
	if hi > len(runes) {
		hi = len(runes)
	}
	atLineStart := lo == 0 || runes[lo-1] == '\n'
	vicinity := stripLineMarkup(string(runes[lo:hi]), atLineStart)
	if strings.ContainsAny(vicinity, operatorGlyphs) {
		return true
	}
	for _, kw := range mathKeywords {
		if strings.Contains(vicinity, kw) {
			return true
		}
	}
	return false
}

// stripLineMarkup removes list bullets and heading markers at line starts.
// firstIsLineStart tells whether the string begins at a real line start;
// a window cut mid-line must not strip what could be a real operator.
func stripLineMarkup(s string, firstIsLineStart bool) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if i == 0 && !firstIsLineStart {
			continue
		}
		t := strings.TrimLeft(line, " \t")
		switch {
		case strings.HasPrefix(t, "- "), strings.HasPrefix(t, "* "), strings.HasPrefix(t, "+ "):
			t = t[2:]
		default:
			t = strings.TrimLeft(t, "#")
		}
		lines[i] = t
	}
	return strings.Join(lines, "\n")
}

// inMathMarkup reports whether the match starting at start sits inside math
// markup: an odd number of $ delimiters before it, or an unclosed math
// environment or \( group.
func inMathMarkup(runes []rune, start int) bool {
	prefix := string(runes[:start])
	if strings.Count(prefix, "$")%2 == 1 {
		return true
	}
	if strings.LastIndex(prefix, `\begin{`) > strings.LastIndex(prefix, `\end{`) {
		return true
	}
	if strings.LastIndex(prefix, `\(`) > strings.LastIndex(prefix, `\)`) {
		return true
	}
	return false
}

// inEmphasis reports whether the match is inside bold/italic markers or on
// a heading line.
func inEmphasis(runes []rune, start int) bool {
	prefix := string(runes[:start])
	if strings.Count(prefix, "**")%2 == 1 || strings.Count(prefix, "__")%2 == 1 {
		return true
	}
	line := currentLine(prefix)
	return strings.HasPrefix(line, "#")
}

// inListItem reports whether the match's line is a list item.
func inListItem(runes []rune, start int) bool {
	line := currentLine(string(runes[:start]))
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "+ ") {
		return true
	}
	// numbered items: 1. or 1、
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 {
		return false
	}
	rest := line[i:]
	return strings.HasPrefix(rest, ".") || strings.HasPrefix(rest, "、")
}

// currentLine returns the text of the line the prefix ends on, left-trimmed.
func currentLine(prefix string) string {
	if idx := strings.LastIndexByte(prefix, '\n'); idx >= 0 {
		prefix = prefix[idx+1:]
	}
	return strings.TrimLeft(prefix, " \t")
}
