// Package textutil has the rune and string helpers shared by the scanner
// and the ranker.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsHan reports whether r is a CJK ideograph.
func IsHan(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

// IsScript reports whether r belongs to a word run: a Han ideograph or any
// letter. Digits and punctuation act as boundaries.
func IsScript(r rune) bool {
	return IsHan(r) || unicode.IsLetter(r)
}

// IsSeparator checks if a rune is a word-boundary delimiter.
func IsSeparator(r rune) bool {
	return r == ' ' || r == '　' || r == ',' || r == '，' || r == '。' ||
		r == '、' || r == '.' || r == ';' || r == '；' || r == ':' ||
		r == '：' || r == '\n' || r == '\t'
}

// IsValidText reports whether s can be scanned: non-empty after trimming
// and valid UTF-8.
func IsValidText(s string) bool {
	return strings.TrimSpace(s) != "" && utf8.ValidString(s)
}

// Similarity scores two strings in [0,1]: 1.0 for an exact match, 0.8 when
// either contains the other, otherwise the character-set Jaccard overlap.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}
	return Jaccard(a, b)
}

// Jaccard computes the character-set Jaccard overlap of two strings.
func Jaccard(a, b string) float64 {
	as := runeSet(a)
	bs := runeSet(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}
	inter := 0
	for r := range as {
		if _, ok := bs[r]; ok {
			inter++
		}
	}
	union := len(as) + len(bs) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func runeSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

// TokenOverlap splits code on non-alphanumeric runes and reports the
// fraction of its tokens that appear in the query.
func TokenOverlap(code, query string) float64 {
	tokens := strings.FieldsFunc(code, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(tokens) == 0 {
		return 0
	}
	lowerQuery := strings.ToLower(query)
	hits := 0
	for _, tok := range tokens {
		if strings.Contains(lowerQuery, strings.ToLower(tok)) {
			hits++
		}
	}
	return float64(hits) / float64(len(tokens))
}

// BracesBalanced reports whether every '{' in s has a matching '}'.
func BracesBalanced(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// BraceDepth returns the deepest brace nesting level in s.
func BraceDepth(s string) int {
	depth, maxDepth := 0, 0
	for _, r := range s {
		switch r {
		case '{':
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return maxDepth
}

// CommandCount counts backslash-escaped command tokens in s.
func CommandCount(s string) int {
	count := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			next := s[i+1]
			if ('a' <= next && next <= 'z') || ('A' <= next && next <= 'Z') {
				count++
			}
		}
	}
	return count
}
