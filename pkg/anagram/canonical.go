// Package anagram is the core, turning a rack of tiles into the words an
// anagram dictionary can build from it.
//
// Words are grouped under a canonical key, their runes sorted by code point.
// A rack is searched by expanding blank tiles, canonicalizing every concrete
// rack, and enumerating each subsequence of the key as a candidate lookup.
package anagram

import (
	"slices"
)

// Canonicalize returns the canonical key of word: its runes sorted by code point.
// No case folding or Unicode normalization happens here, callers pick a policy first.
func Canonicalize(word string) string {
	runes := []rune(word)
	slices.Sort(runes)
	return string(runes)
}

// IsCanonical reports whether key is already in canonical order.
func IsCanonical(key string) bool {
	var prev rune
	for i, r := range key {
		if i > 0 && r < prev {
			return false
		}
		prev = r
	}
	return true
}
