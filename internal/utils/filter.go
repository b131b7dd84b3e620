package utils

import (
	"unicode"
)

// ContainsNumbers checks if a string contains any numeric digits
func ContainsNumbers(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// ContainsSpecialChars checks if a string holds anything but letters
// and the blank marker
func ContainsSpecialChars(s string, marker rune) bool {
	for _, r := range s {
		if r != marker && !unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// IsValidRack checks if input should be searched at all.
// A rack is letters and blank markers only; digits, punctuation and
// empty input are rejected.
func IsValidRack(s string, marker rune) bool {
	if len(s) == 0 {
		return false
	}
	if ContainsNumbers(s) {
		return false
	}
	return !ContainsSpecialChars(s, marker)
}
