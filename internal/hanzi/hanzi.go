// Package hanzi provides Chinese-only text normalization helpers.
package hanzi

import "strings"

// Bounds of the ideograph range used for identity keys.
const (
	First rune = '一'
	Last  rune = '龥'
)

// FilterFunc returns true when a rune should be kept.
type FilterFunc func(rune) bool

// IsHanzi reports whether r lies in the CJK Unified Ideographs core range.
func IsHanzi(r rune) bool {
	return r >= First && r <= Last
}

// Normalize strips every rune outside the ideograph range.
func Normalize(text string) string {
	return Filter(text, IsHanzi)
}

// Filter keeps only the runes accepted by keep.
func Filter(text string, keep FilterFunc) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Count returns the number of ideographs in text.
func Count(text string) int {
	n := 0
	for _, r := range text {
		if IsHanzi(r) {
			n++
		}
	}
	return n
}

// Chars splits the ideographs of text into one string per character.
func Chars(text string) []string {
	var out []string
	for _, r := range text {
		if IsHanzi(r) {
			out = append(out, string(r))
		}
	}
	return out
}

// Unique drops repeated characters, keeping the first occurrence.
func Unique(chars []string) []string {
	seen := make(map[string]struct{}, len(chars))
	out := make([]string, 0, len(chars))
	for _, ch := range chars {
		if _, ok := seen[ch]; ok {
			continue
		}
		seen[ch] = struct{}{}
		out = append(out, ch)
	}
	return out
}
