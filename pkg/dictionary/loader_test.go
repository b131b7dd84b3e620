package dictionary

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keys by first appearance: arst, act, ehlot, abert, dgo
var chunkWords = []string{"rats", "arts", "cat", "act", "hotel", "zebra", "dog", "god"}

func writeTestChunks(t *testing.T, groupsPerChunk int) (string, *Dictionary) {
	t.Helper()
	dir := t.TempDir()
	d := Build(slices.Values(chunkWords))
	n, err := WriteChunks(dir, d, groupsPerChunk)
	require.NoError(t, err)
	require.Equal(t, (d.Keys()+groupsPerChunk-1)/groupsPerChunk, n)
	return dir, d
}

func TestWriteChunks(t *testing.T) {
	dir, _ := writeTestChunks(t, 2)

	chunks, err := NewLoader(dir).GetAvailable()
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	for i, chunk := range chunks {
		assert.Equal(t, i+1, chunk.ID)
		assert.Equal(t, filepath.Join(dir, ChunkFilename(i+1)), chunk.Filename)
	}
	assert.Equal(t, []int{2, 2, 1}, []int{chunks[0].GroupCount, chunks[1].GroupCount, chunks[2].GroupCount})

	_, err = WriteChunks(dir, New(), 0)
	assert.Error(t, err)
}

func TestChunkFilename(t *testing.T) {
	assert.Equal(t, "dict_0001.bin", ChunkFilename(1))
	assert.Equal(t, "dict_0042.bin", ChunkFilename(42))
}

func TestLoaderLoadInitial(t *testing.T) {
	dir, d := writeTestChunks(t, 2)

	l := NewLoader(dir)
	require.NoError(t, l.LoadInitial(context.Background(), 0))
	assert.Equal(t, []int{1, 2, 3}, l.LoadedIDs())
	assertSameGroups(t, d, l.Dictionary())

	stats := l.Stats()
	assert.Equal(t, 3, stats.LoadedChunks)
	assert.Equal(t, 3, stats.AvailableChunks)
	assert.Equal(t, d.Keys(), stats.Keys)
	assert.Equal(t, d.Words(), stats.Words)
}

func TestLoaderLoadInitialLimit(t *testing.T) {
	dir, _ := writeTestChunks(t, 2)

	l := NewLoader(dir)
	require.NoError(t, l.LoadInitial(context.Background(), 1))
	assert.Equal(t, []int{1}, l.LoadedIDs())

	// chunk 1 holds the first listed words: arst and act
	assert.Equal(t, []string{"rats", "arts"}, l.Lookup("arst"))
	assert.Equal(t, []string{"cat", "act"}, l.Lookup("act"))
	assert.Nil(t, l.Lookup("ehlot"))
}

func TestLoaderEmptyDir(t *testing.T) {
	l := NewLoader(t.TempDir())
	assert.Error(t, l.LoadInitial(context.Background(), 0))
	assert.Error(t, l.Load(1))
}

func TestLoaderLoadAndEvict(t *testing.T) {
	dir, _ := writeTestChunks(t, 2)
	l := NewLoader(dir)

	require.NoError(t, l.Load(2))
	require.NoError(t, l.Load(2))
	assert.Equal(t, []int{2}, l.LoadedIDs())
	assert.Equal(t, []string{"hotel"}, l.Lookup("ehlot"))
	assert.Nil(t, l.Lookup("arst"))

	before := l.Dictionary()
	require.NoError(t, l.Evict(2))
	assert.Empty(t, l.LoadedIDs())
	assert.Nil(t, l.Lookup("ehlot"))
	assert.Equal(t, []string{"hotel"}, before.Lookup("ehlot"), "old snapshot unchanged")

	assert.Error(t, l.Evict(2))
}

func TestRuntimeLoaderSetDictionarySize(t *testing.T) {
	dir, d := writeTestChunks(t, 2)
	l := NewLoader(dir)
	require.NoError(t, l.LoadInitial(context.Background(), 1))

	rl := NewRuntimeLoader(l)
	assert.Equal(t, 1, rl.TargetChunks())

	require.NoError(t, rl.SetDictionarySize(3))
	assert.Equal(t, []int{1, 2, 3}, l.LoadedIDs())
	assertSameGroups(t, d, l.Dictionary())

	require.NoError(t, rl.SetDictionarySize(2))
	assert.Equal(t, []int{1, 2}, l.LoadedIDs())
	assert.Equal(t, 2, rl.TargetChunks())
	assert.Equal(t, []string{"hotel"}, l.Lookup("ehlot"))
	assert.Nil(t, l.Lookup("dgo"))

	assert.Error(t, rl.SetDictionarySize(0))
	assert.Error(t, rl.SetDictionarySize(4))
	assert.Equal(t, []int{1, 2}, l.LoadedIDs())

	count, err := rl.GetAvailableChunkCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestChunksFollowWordListOrder(t *testing.T) {
	dir := t.TempDir()
	// most common words first, as in a frequency list
	d := Build(slices.Values([]string{"the", "of", "and", "to", "zebra", "quartz"}))
	_, err := WriteChunks(dir, d, 2)
	require.NoError(t, err)

	l := NewLoader(dir)
	require.NoError(t, NewRuntimeLoader(l).SetDictionarySize(1))
	assert.Equal(t, []string{"the"}, l.Lookup("eht"))
	assert.Equal(t, []string{"of"}, l.Lookup("fo"))
	assert.Nil(t, l.Lookup("adn"))

	assert.Nil(t, l.Lookup("abert"))
	assert.Equal(t, 2, l.Dictionary().Keys())
}

func TestRuntimeLoaderSizeOptions(t *testing.T) {
	dir, _ := writeTestChunks(t, 2)
	rl := NewRuntimeLoader(NewLoader(dir))

	options, err := rl.GetDictionarySizeOptions()
	require.NoError(t, err)
	require.Len(t, options, 3)

	assert.Equal(t, DictionarySizeOption{ChunkCount: 1, KeyCount: 2, SizeLabel: "2 keys"}, options[0])
	assert.Equal(t, DictionarySizeOption{ChunkCount: 3, KeyCount: 5, SizeLabel: "5 keys"}, options[2])
}
