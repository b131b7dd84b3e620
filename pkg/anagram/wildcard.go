package anagram

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// DefaultMarker stands for a blank tile in a rack.
	DefaultMarker = '?'
	// MaxWildcards is the most blanks a single rack may hold.
	MaxWildcards = 2
)

// DefaultAlphabet is the set of letters a blank can become.
var DefaultAlphabet = []rune("abcdefghijklmnopqrstuvwxyz")

// ErrTooManyWildcards is matched by every *TooManyWildcardsError.
var ErrTooManyWildcards = errors.New("too many wildcards")

// TooManyWildcardsError reports a rack holding more blanks than allowed.
type TooManyWildcardsError struct {
	Count int
	Max   int
}

func (e *TooManyWildcardsError) Error() string {
	return fmt.Sprintf("too many wildcards: %d given, at most %d", e.Count, e.Max)
}

// Is lets errors.Is(err, ErrTooManyWildcards) match.
func (e *TooManyWildcardsError) Is(target error) bool {
	return target == ErrTooManyWildcards
}

// Expander substitutes every alphabet letter for each blank in a rack.
type Expander struct {
	alphabet     []rune
	marker       rune
	maxWildcards int
}

// ExpanderOption configures an Expander.
type ExpanderOption func(*Expander)

// WithAlphabet sets the letters a blank expands to, in output order.
func WithAlphabet(alphabet []rune) ExpanderOption {
	return func(e *Expander) {
		e.alphabet = append([]rune(nil), alphabet...)
	}
}

// WithMarker sets the rune that denotes a blank.
func WithMarker(marker rune) ExpanderOption {
	return func(e *Expander) {
		e.marker = marker
	}
}

// WithMaxWildcards lowers the blank limit. Values outside 0..MaxWildcards are clamped.
func WithMaxWildcards(n int) ExpanderOption {
	return func(e *Expander) {
		e.maxWildcards = min(max(n, 0), MaxWildcards)
	}
}

// NewExpander returns an Expander over DefaultAlphabet with DefaultMarker.
// The marker never counts as a letter: it is dropped from the alphabet.
func NewExpander(opts ...ExpanderOption) *Expander {
	e := &Expander{
		alphabet:     DefaultAlphabet,
		marker:       DefaultMarker,
		maxWildcards: MaxWildcards,
	}
	for _, opt := range opts {
		opt(e)
	}
	if slices.Contains(e.alphabet, e.marker) {
		e.alphabet = slices.DeleteFunc(slices.Clone(e.alphabet), func(r rune) bool {
			return r == e.marker
		})
	}
	return e
}

// Marker returns the blank rune.
func (e *Expander) Marker() rune {
	return e.marker
}

// Count returns the number of blanks in input.
func (e *Expander) Count(input string) int {
	return strings.Count(input, string(e.marker))
}

// Expand returns every concrete rack input can stand for.
//
// With no blanks the result is input alone. Each blank multiplies the result
// by the alphabet size: the first blank takes the outer letter and the next
// one the inner letter, both in alphabet order. More blanks than allowed
// yields a *TooManyWildcardsError and no racks.
func (e *Expander) Expand(input string) ([]string, error) {
	count := e.Count(input)
	if count > e.maxWildcards {
		return nil, &TooManyWildcardsError{Count: count, Max: e.maxWildcards}
	}

	racks := []string{input}
	marker := string(e.marker)
	for range count {
		next := make([]string, 0, len(racks)*len(e.alphabet))
		for _, rack := range racks {
			for _, letter := range e.alphabet {
				next = append(next, strings.Replace(rack, marker, string(letter), 1))
			}
		}
		racks = next
	}
	return racks, nil
}
