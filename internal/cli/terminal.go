package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/bastiangx/wordrack/pkg/anagram"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")).Bold(true)
	wordStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	headerStyle = lipgloss.NewStyle().Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func printBanner(w io.Writer, marker rune) {
	fmt.Fprintln(w, headerStyle.Render("wordrack CLI"))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("type your tiles and press Enter, %c for a blank (q to exit):", marker)))
}

func printInvalidRack(w io.Writer, rack string, marker rune) {
	fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("Not a rack: '%s' (letters and %c only)", rack, marker)))
}

func printFindError(w io.Writer, rack string, err error) {
	var tooMany *anagram.TooManyWildcardsError
	switch {
	case errors.As(err, &tooMany):
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("Too many blanks in '%s': %d, at most %d", rack, tooMany.Count, tooMany.Max)))
	case errors.Is(err, anagram.ErrRackTooLong):
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("Rack too long: %v", err)))
	default:
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("Search failed for '%s': %v", rack, err)))
	}
}

func printNoWords(w io.Writer, rack string) {
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("No words found for rack '%s'", rack)))
}

func printWords(w io.Writer, rack string, words []string, limit int, elapsed time.Duration) {
	fmt.Fprintln(w, header(rack, len(words), elapsed))
	shown := capWords(words, limit)
	for i, word := range shown {
		fmt.Fprintf(w, "%3d. %s\n", i+1, wordStyle.Render(word))
	}
	printHidden(w, len(words)-len(shown))
}

// printByLength prints one line per word length, longest first.
func printByLength(w io.Writer, rack string, words []string, limit int, elapsed time.Duration) {
	fmt.Fprintln(w, header(rack, len(words), elapsed))

	sorted := slices.Clone(words)
	anagram.SortByLength(sorted)
	shown := capWords(sorted, limit)

	groups := anagram.GroupByLength(shown)
	lengths := make([]int, 0, len(groups))
	for n := range groups {
		lengths = append(lengths, n)
	}
	slices.Sort(lengths)
	slices.Reverse(lengths)

	for _, n := range lengths {
		styled := make([]string, len(groups[n]))
		for i, word := range groups[n] {
			styled[i] = wordStyle.Render(word)
		}
		fmt.Fprintf(w, "%2d letters (%d): %s\n", n, len(groups[n]), strings.Join(styled, " "))
	}
	printHidden(w, len(words)-len(shown))
}

func header(rack string, count int, elapsed time.Duration) string {
	noun := "words"
	if count == 1 {
		noun = "word"
	}
	return headerStyle.Render(fmt.Sprintf("Found %d %s for rack '%s'", count, noun, rack)) +
		mutedStyle.Render(fmt.Sprintf(" (%v)", elapsed.Round(time.Microsecond)))
}

func capWords(words []string, limit int) []string {
	if limit > 0 && len(words) > limit {
		return words[:limit]
	}
	return words
}

func printHidden(w io.Writer, hidden int) {
	if hidden > 0 {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("... and %d more", hidden)))
	}
}
