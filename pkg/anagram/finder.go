package anagram

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultMaxRack bounds rack length before the exponential enumeration runs.
const DefaultMaxRack = 15

// Lookup resolves a canonical key to the words filed under it.
// A missing key returns nil.
type Lookup interface {
	Lookup(key string) []string
}

// LowerCase folds s to lower case with Unicode rules.
// A fresh caser is used per call since cases.Caser is not safe for concurrent use.
func LowerCase(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Finder answers rack queries against an anagram dictionary.
// It holds no per-query state and may be shared across goroutines
// as long as the dictionary is not mutated.
type Finder struct {
	dict      Lookup
	expander  *Expander
	fold      func(string) string
	maxRack   int
	minLength int
}

// FinderOption configures a Finder.
type FinderOption func(*Finder)

// WithExpander replaces the default blank expander.
func WithExpander(e *Expander) FinderOption {
	return func(f *Finder) {
		f.expander = e
	}
}

// WithFolder sets the case policy applied to each rack before canonicalizing.
// A nil folder leaves racks untouched.
func WithFolder(fold func(string) string) FinderOption {
	return func(f *Finder) {
		f.fold = fold
	}
}

// WithMaxRack sets the rack length limit in tiles, blanks included. 0 disables it.
func WithMaxRack(n int) FinderOption {
	return func(f *Finder) {
		f.maxRack = n
	}
}

// WithMinLength sets the shortest word length considered.
func WithMinLength(n int) FinderOption {
	return func(f *Finder) {
		f.minLength = max(n, 1)
	}
}

// NewFinder returns a Finder over dict.
func NewFinder(dict Lookup, opts ...FinderOption) *Finder {
	f := &Finder{
		dict:      dict,
		expander:  NewExpander(),
		fold:      LowerCase,
		maxRack:   DefaultMaxRack,
		minLength: MinWordLength,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Expander returns the blank expander in use.
func (f *Finder) Expander() *Expander {
	return f.expander
}

// FindAll returns every dictionary word buildable from a subset of seed,
// sorted ascending without duplicates.
//
// Blanks are expanded first, so a rack with too many of them fails with
// ErrTooManyWildcards. Finding nothing is not an error.
func (f *Finder) FindAll(seed string) ([]string, error) {
	racks, err := f.expander.Expand(seed)
	if err != nil {
		return nil, err
	}
	if n := utf8.RuneCountInString(seed); f.maxRack > 0 && n > f.maxRack {
		return nil, fmt.Errorf("%w: %d tiles, at most %d", ErrRackTooLong, n, f.maxRack)
	}

	found := []string{}
	for _, rack := range racks {
		words, err := f.Words(rack)
		if err != nil {
			return nil, err
		}
		found = append(found, words...)
	}

	slices.Sort(found)
	return slices.Compact(found), nil
}

// Words looks up every subset of a concrete rack, without blank expansion.
// Words come back in candidate order then dictionary order, unsorted and
// possibly repeated.
func (f *Finder) Words(rack string) ([]string, error) {
	if f.fold != nil {
		rack = f.fold(rack)
	}
	candidates, err := Subsets(Canonicalize(rack), f.minLength)
	if err != nil {
		return nil, err
	}

	var words []string
	for key := range candidates {
		words = append(words, f.dict.Lookup(key)...)
	}
	return words, nil
}

// FindAll runs a default Finder over dict.
func FindAll(dict Lookup, seed string) ([]string, error) {
	return NewFinder(dict).FindAll(seed)
}
