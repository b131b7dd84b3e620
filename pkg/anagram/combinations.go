package anagram

import (
	"errors"
	"fmt"
	"iter"
)

const (
	// MaxTiles is the largest key the bitmask enumeration can address.
	MaxTiles = 64
	// MinWordLength is the shortest playable word.
	MinWordLength = 2
)

// ErrRackTooLong is returned when a rack exceeds the enumeration bound.
var ErrRackTooLong = errors.New("rack too long")

// Combinations returns every subsequence of key with at least MinWordLength runes.
//
// Masks 1..2^n-1 are walked in ascending order and bit i selects rune i, so
// Combinations("abc") is [ab ac bc abc]. Positions keep their order and are
// not re-sorted; a canonical key therefore yields canonical candidates.
func Combinations(key string) ([]string, error) {
	seq, err := Subsets(key, MinWordLength)
	if err != nil {
		return nil, err
	}

	var out []string
	for s := range seq {
		out = append(out, s)
	}
	return out, nil
}

// Subsets is the lazy form of Combinations with a caller-chosen minimum length.
// The work is O(2^n * n); callers bound n well below MaxTiles.
func Subsets(key string, minLen int) (iter.Seq[string], error) {
	runes := []rune(key)
	n := len(runes)
	if n > MaxTiles {
		return nil, fmt.Errorf("%w: %d tiles, at most %d", ErrRackTooLong, n, MaxTiles)
	}

	return func(yield func(string) bool) {
		if n == 0 || n < minLen {
			return
		}
		// for n == 64 the shift wraps to 0 and last becomes MaxUint64
		last := uint64(1)<<uint(n) - 1
		buf := make([]rune, 0, n)

		for mask := uint64(1); ; mask++ {
			buf = buf[:0]
			for i := 0; i < n; i++ {
				if mask>>uint(i)&1 == 1 {
					buf = append(buf, runes[i])
				}
			}
			if len(buf) >= minLen {
				if !yield(string(buf)) {
					return
				}
			}
			if mask == last {
				return
			}
		}
	}, nil
}
