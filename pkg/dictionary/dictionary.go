// Package dictionary stores the anagram index: canonical keys mapped to the
// words sharing them, kept in a Patricia trie.
//
// A Dictionary is built once from a word list, or decoded from one of the
// persisted formats, and is read-only afterwards. Lookups may run from many
// goroutines at once; Add, Merge and Each must not overlap with them.
package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/bastiangx/wordrack/pkg/anagram"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Dictionary maps canonical keys to words in insertion order.
type Dictionary struct {
	trie  *patricia.Trie
	blank []string // words under the empty key; the trie does not take one
	order []string // keys by first insertion
	fold  func(string) string
	keys  int
	words int
}

// Option configures a Dictionary.
type Option func(*Dictionary)

// WithFolding sets the case policy applied to each word before it is keyed.
// The folded form is what gets stored.
func WithFolding(fold func(string) string) Option {
	return func(d *Dictionary) {
		d.fold = fold
	}
}

// WithoutFolding stores words exactly as given.
func WithoutFolding() Option {
	return WithFolding(nil)
}

// New returns an empty Dictionary that lower-cases words on Add.
func New(opts ...Option) *Dictionary {
	d := &Dictionary{
		trie: patricia.NewTrie(),
		fold: anagram.LowerCase,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Add files word under its canonical key, after the words already there.
// Duplicates are kept.
func (d *Dictionary) Add(word string) {
	if d.fold != nil {
		word = d.fold(word)
	}
	d.addKeyed(anagram.Canonicalize(word), word)
}

func (d *Dictionary) addKeyed(key string, words ...string) {
	if len(words) == 0 {
		return
	}
	if key == "" {
		if d.blank == nil {
			d.keys++
			d.order = append(d.order, key)
		}
		d.blank = append(d.blank, words...)
		d.words += len(words)
		return
	}
	p := patricia.Prefix(key)
	if item := d.trie.Get(p); item != nil {
		d.trie.Set(p, append(item.([]string), words...))
	} else {
		d.trie.Insert(p, append([]string(nil), words...))
		d.keys++
		d.order = append(d.order, key)
	}
	d.words += len(words)
}

// addDecoded files a persisted group whose key matches its raw words.
// Words the fold policy changes move to their folded key.
func (d *Dictionary) addDecoded(key string, words []string) {
	if d.fold == nil {
		d.addKeyed(key, words...)
		return
	}
	for _, w := range words {
		if folded := d.fold(w); folded != w {
			d.addKeyed(anagram.Canonicalize(folded), folded)
			continue
		}
		d.addKeyed(key, w)
	}
}

// Lookup returns the words filed under key, or nil.
// The returned slice belongs to the dictionary and must not be modified.
func (d *Dictionary) Lookup(key string) []string {
	if key == "" {
		return d.blank
	}
	item := d.trie.Get(patricia.Prefix(key))
	if item == nil {
		return nil
	}
	return item.([]string)
}

// Keys returns the number of distinct canonical keys.
func (d *Dictionary) Keys() int {
	return d.keys
}

// Words returns the number of stored words, duplicates included.
func (d *Dictionary) Words() int {
	return d.words
}

// Each calls fn for every key in ascending byte order.
// Iteration stops at the first error fn returns.
func (d *Dictionary) Each(fn func(key string, words []string) error) error {
	if d.blank != nil {
		if err := fn("", d.blank); err != nil {
			return err
		}
	}
	return d.trie.Visit(func(p patricia.Prefix, item patricia.Item) error {
		return fn(string(p), item.([]string))
	})
}

// EachInOrder calls fn for every key in the order keys were first added.
// A word list sorted by frequency thus yields its common groups first.
func (d *Dictionary) EachInOrder(fn func(key string, words []string) error) error {
	for _, key := range d.order {
		if err := fn(key, d.Lookup(key)); err != nil {
			return err
		}
	}
	return nil
}

// Merge appends every group of other to d, keeping other's order.
// Words are not folded again.
func (d *Dictionary) Merge(other *Dictionary) {
	if other == nil {
		return
	}
	_ = other.EachInOrder(func(key string, words []string) error {
		d.addKeyed(key, words...)
		return nil
	})
}

// Build groups a sequence of words into a new Dictionary.
// No word is filtered, blank lines and punctuation included.
func Build(seq iter.Seq[string], opts ...Option) *Dictionary {
	d := New(opts...)
	for word := range seq {
		d.Add(word)
	}
	log.Debugf("Built dictionary: %d words under %d keys", d.words, d.keys)
	return d
}

// BuildFromReader builds a Dictionary from a newline separated word list.
// A trailing carriage return is dropped from each line.
func BuildFromReader(r io.Reader, opts ...Option) (*Dictionary, error) {
	d := New(opts...)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		d.Add(strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	log.Debugf("Built dictionary: %d words under %d keys", d.words, d.keys)
	return d, nil
}
