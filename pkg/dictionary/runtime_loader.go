package dictionary

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// RuntimeLoader resizes the loaded dictionary while the server runs.
// Chunks are loaded in ascending ID order and evicted from the highest ID down,
// so a size of n always means chunks 1..n: the first words of the source list.
type RuntimeLoader struct {
	chunkLoader  *Loader
	targetChunks int
	mu           sync.Mutex
}

// DictionarySizeOption represents a dictionary size option
type DictionarySizeOption struct {
	ChunkCount int    `msgpack:"n" json:"chunkCount"`
	KeyCount   int    `msgpack:"k" json:"keyCount"`
	SizeLabel  string `msgpack:"l" json:"sizeLabel"`
}

// NewRuntimeLoader creates a new runtime loader
func NewRuntimeLoader(chunkLoader *Loader) *RuntimeLoader {
	return &RuntimeLoader{
		chunkLoader:  chunkLoader,
		targetChunks: len(chunkLoader.LoadedIDs()),
	}
}

// Loader returns the underlying chunk loader
func (rl *RuntimeLoader) Loader() *Loader {
	return rl.chunkLoader
}

// GetAvailableChunkCount returns the total number of available chunk files
func (rl *RuntimeLoader) GetAvailableChunkCount() (int, error) {
	chunks, err := rl.chunkLoader.GetAvailable()
	if err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// SetDictionarySize loads or evicts chunks until exactly targetChunks are loaded
func (rl *RuntimeLoader) SetDictionarySize(targetChunks int) error {
	if targetChunks < 1 {
		return fmt.Errorf("minimum dictionary size is 1 chunk")
	}
	chunks, err := rl.chunkLoader.GetAvailable()
	if err != nil {
		return err
	}
	if targetChunks > len(chunks) {
		return fmt.Errorf("requested %d chunks but only %d are available", targetChunks, len(chunks))
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	log.Debugf("Setting dictionary size: current=%d chunks, target=%d chunks",
		len(rl.chunkLoader.LoadedIDs()), targetChunks)

	wanted := make(map[int]bool, targetChunks)
	for _, chunk := range chunks[:targetChunks] {
		wanted[chunk.ID] = true
		if err := rl.chunkLoader.Load(chunk.ID); err != nil {
			return fmt.Errorf("failed to load chunk %d: %w", chunk.ID, err)
		}
	}

	loaded := rl.chunkLoader.LoadedIDs()
	for i := len(loaded) - 1; i >= 0; i-- {
		if wanted[loaded[i]] {
			continue
		}
		if err := rl.chunkLoader.Evict(loaded[i]); err != nil {
			log.Warnf("Failed to unload chunk %d: %v", loaded[i], err)
		}
	}

	rl.targetChunks = targetChunks
	return nil
}

// TargetChunks returns the size last requested
func (rl *RuntimeLoader) TargetChunks() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.targetChunks
}

// GetDictionarySizeOptions lists one option per available prefix of chunks,
// with the cumulative key count each would load.
func (rl *RuntimeLoader) GetDictionarySizeOptions() ([]DictionarySizeOption, error) {
	chunks, err := rl.chunkLoader.GetAvailable()
	if err != nil {
		return nil, err
	}

	options := make([]DictionarySizeOption, 0, len(chunks))
	totalKeys := 0
	for i, chunk := range chunks {
		totalKeys += chunk.GroupCount
		options = append(options, DictionarySizeOption{
			ChunkCount: i + 1,
			KeyCount:   totalKeys,
			SizeLabel:  fmt.Sprintf("%s keys", formatCount(totalKeys)),
		})
	}
	return options, nil
}

func formatCount(n int) string {
	if n >= 1000 {
		return fmt.Sprintf("%dK", n/1000)
	}
	return fmt.Sprintf("%d", n)
}
