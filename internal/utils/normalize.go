package utils

import (
	"strconv"
	"strings"
	"unicode"
)

// NormalizeRack drops every whitespace rune from a line of input,
// so "h o t e l" and "hotel" are the same rack.
func NormalizeRack(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// FormatWithCommas renders n with thousands separators.
func FormatWithCommas(n int) string {
	if n < 0 {
		return "-" + FormatWithCommas(-n)
	}
	s := strconv.Itoa(n)
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
