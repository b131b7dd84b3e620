package anagram

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandWithoutWildcards(t *testing.T) {
	got, err := NewExpander().Expand("bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, got)
}

func TestExpandOneWildcard(t *testing.T) {
	got, err := NewExpander().Expand("bo?b")
	require.NoError(t, err)

	expected := []string{"boab", "bobb", "bocb", "bodb", "boeb", "bofb", "bogb", "bohb", "boib", "bojb", "bokb", "bolb", "bomb", "bonb", "boob", "bopb", "boqb", "borb", "bosb", "botb", "boub", "bovb", "bowb", "boxb", "boyb", "bozb"}
	assert.Equal(t, expected, got)
}

func TestExpandTwoWildcards(t *testing.T) {
	got, err := NewExpander().Expand("?bo?b")
	require.NoError(t, err)
	require.Len(t, got, 676)

	assert.Equal(t, "aboab", got[0])
	assert.Equal(t, "abobb", got[1])
	assert.Equal(t, "abozb", got[25])
	assert.Equal(t, "bboab", got[26])
	assert.Equal(t, "zbozb", got[675])
	for _, s := range got {
		assert.NotContains(t, s, "?")
	}
}

func TestExpandTooManyWildcards(t *testing.T) {
	testCases := []string{"???", "a?b?c?", "????????"}

	for _, input := range testCases {
		got, err := NewExpander().Expand(input)
		assert.Nil(t, got, "input %q", input)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTooManyWildcards))

		var tooMany *TooManyWildcardsError
		require.True(t, errors.As(err, &tooMany))
		assert.Equal(t, NewExpander().Count(input), tooMany.Count)
		assert.Equal(t, MaxWildcards, tooMany.Max)
	}
}

func TestExpanderOptions(t *testing.T) {
	e := NewExpander(
		WithAlphabet([]rune("xyz")),
		WithMarker('*'),
		WithMaxWildcards(1),
	)
	assert.Equal(t, '*', e.Marker())

	got, err := e.Expand("a*")
	require.NoError(t, err)
	assert.Equal(t, []string{"ax", "ay", "az"}, got)

	// "?" is an ordinary tile once the marker changes
	got, err = e.Expand("a?")
	require.NoError(t, err)
	assert.Equal(t, []string{"a?"}, got)

	_, err = e.Expand("**")
	assert.ErrorIs(t, err, ErrTooManyWildcards)
}

func TestMarkerLeavesAlphabet(t *testing.T) {
	e := NewExpander(WithMarker('a'), WithAlphabet([]rune("abc")))

	got, err := e.Expand("aa")
	require.NoError(t, err)
	assert.Equal(t, []string{"bb", "bc", "cb", "cc"}, got)
	assert.Equal(t, "abcdefghijklmnopqrstuvwxyz", string(DefaultAlphabet))
}

func TestWithMaxWildcardsClamps(t *testing.T) {
	e := NewExpander(WithMaxWildcards(10))
	_, err := e.Expand("???")
	assert.ErrorIs(t, err, ErrTooManyWildcards)

	e = NewExpander(WithMaxWildcards(-1))
	_, err = e.Expand("a?")
	assert.ErrorIs(t, err, ErrTooManyWildcards)
}
