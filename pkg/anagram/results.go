package anagram

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/samber/lo"
)

// GroupByLength buckets words by rune length.
func GroupByLength(words []string) map[int][]string {
	return lo.GroupBy(words, func(w string) int {
		return utf8.RuneCountInString(w)
	})
}

// SortByLength orders words longest first, ties alphabetically.
func SortByLength(words []string) {
	slices.SortFunc(words, func(a, b string) int {
		if c := cmp.Compare(utf8.RuneCountInString(b), utf8.RuneCountInString(a)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
}
