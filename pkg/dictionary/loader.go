package dictionary

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const (
	chunkPrefix = "dict_"
	chunkExt    = ".bin"
)

// ChunkFilename returns the file name of chunk id, e.g. dict_0001.bin.
func ChunkFilename(id int) string {
	return fmt.Sprintf("%s%04d%s", chunkPrefix, id, chunkExt)
}

// WriteChunks splits d into binary chunk files of at most groupsPerChunk keys
// and returns how many files were written. Keys follow their first appearance
// in d, so chunk 1 holds the groups of the words listed first.
func WriteChunks(dir string, d *Dictionary, groupsPerChunk int) (int, error) {
	if groupsPerChunk < 1 {
		return 0, fmt.Errorf("chunk size must be positive, got %d", groupsPerChunk)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create chunk dir %s: %w", dir, err)
	}

	chunks := 0
	current := New(WithoutFolding())
	flush := func() error {
		if current.Keys() == 0 {
			return nil
		}
		chunks++
		path := filepath.Join(dir, ChunkFilename(chunks))
		if err := SaveAs(path, current, FormatChunk); err != nil {
			return err
		}
		current = New(WithoutFolding())
		return nil
	}

	err := d.EachInOrder(func(key string, words []string) error {
		current.addKeyed(key, words...)
		if current.Keys() >= groupsPerChunk {
			return flush()
		}
		return nil
	})
	if err == nil {
		err = flush()
	}
	if err != nil {
		return chunks, err
	}
	log.Debugf("Wrote %d chunks to %s", chunks, dir)
	return chunks, nil
}

// Loader manages loading dictionary chunks from a directory.
// It satisfies anagram.Lookup, answering from the chunks loaded so far.
type Loader struct {
	dirPath string
	opts    []Option
	chunks  map[int]*Dictionary
	dict    *Dictionary
	mu      sync.RWMutex
}

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ID         int
	Filename   string
	GroupCount int
}

// LoaderStats provides statistics about the loaded chunks
type LoaderStats struct {
	LoadedChunks    int
	AvailableChunks int
	Keys            int
	Words           int
}

// NewLoader creates a loader over the chunk files in dirPath
func NewLoader(dirPath string, opts ...Option) *Loader {
	return &Loader{
		dirPath: dirPath,
		opts:    opts,
		chunks:  make(map[int]*Dictionary),
		dict:    New(opts...),
	}
}

// GetAvailable scans the directory for chunk files, sorted by ID
func (l *Loader) GetAvailable() ([]ChunkInfo, error) {
	pattern := filepath.Join(l.dirPath, chunkPrefix+"*"+chunkExt)
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), chunkPrefix), chunkExt)
		id, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		groupCount, err := chunkGroupCount(file)
		if err != nil {
			log.Warnf("Failed to read header of chunk %s: %v", file, err)
		}
		chunks = append(chunks, ChunkInfo{
			ID:         id,
			Filename:   file,
			GroupCount: groupCount,
		})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ID < chunks[j].ID
	})
	return chunks, nil
}

// chunkGroupCount reads the group count from a chunk file's header
func chunkGroupCount(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var groupCount int32
	if err := binary.Read(file, binary.LittleEndian, &groupCount); err != nil {
		return 0, err
	}
	return int(groupCount), nil
}

// LoadInitial reads up to maxChunks chunks in parallel, all of them when maxChunks is 0.
func (l *Loader) LoadInitial(ctx context.Context, maxChunks int) error {
	chunks, err := l.GetAvailable()
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no chunk files found in %s", l.dirPath)
	}
	if maxChunks > 0 && maxChunks < len(chunks) {
		chunks = chunks[:maxChunks]
	}
	log.Debugf("Loading %d chunk files from %s", len(chunks), l.dirPath)

	decoded := make([]*Dictionary, len(chunks))
	g, ctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := l.readChunk(chunk.ID)
			if err != nil {
				return err
			}
			decoded[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i, chunk := range chunks {
		l.chunks[chunk.ID] = decoded[i]
	}
	l.rebuild()
	return nil
}

func (l *Loader) readChunk(id int) (*Dictionary, error) {
	filename := filepath.Join(l.dirPath, ChunkFilename(id))
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open chunk file %s: %w", filename, err)
	}
	defer file.Close()

	d, err := Decode(bufio.NewReader(file), FormatChunk, l.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to decode chunk %d: %w", id, err)
	}
	log.Debugf("Chunk %d read: %d keys", id, d.Keys())
	return d, nil
}

// Load loads a specific chunk by ID
func (l *Loader) Load(id int) error {
	l.mu.RLock()
	_, loaded := l.chunks[id]
	l.mu.RUnlock()
	if loaded {
		return nil
	}

	d, err := l.readChunk(id)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.chunks[id] = d
	l.rebuild()
	return nil
}

// Evict removes a specific chunk from memory
func (l *Loader) Evict(id int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, loaded := l.chunks[id]; !loaded {
		return fmt.Errorf("chunk %d is not loaded", id)
	}
	delete(l.chunks, id)
	l.rebuild()
	log.Debugf("Evicted chunk %d", id)
	return nil
}

// rebuild merges the loaded chunks into a fresh snapshot. Callers hold mu.
func (l *Loader) rebuild() {
	ids := make([]int, 0, len(l.chunks))
	for id := range l.chunks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	merged := New(l.opts...)
	for _, id := range ids {
		merged.Merge(l.chunks[id])
	}
	l.dict = merged
	log.Debugf("Dictionary rebuilt from %d chunks: %d keys", len(ids), merged.Keys())
}

// Dictionary returns the current snapshot. Snapshots are never mutated.
func (l *Loader) Dictionary() *Dictionary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dict
}

// Lookup answers from the current snapshot
func (l *Loader) Lookup(key string) []string {
	return l.Dictionary().Lookup(key)
}

// LoadedIDs returns the sorted IDs of the loaded chunks
func (l *Loader) LoadedIDs() []int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]int, 0, len(l.chunks))
	for id := range l.chunks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Stats returns current loading statistics
func (l *Loader) Stats() LoaderStats {
	available, _ := l.GetAvailable()

	l.mu.RLock()
	defer l.mu.RUnlock()
	return LoaderStats{
		LoadedChunks:    len(l.chunks),
		AvailableChunks: len(available),
		Keys:            l.dict.Keys(),
		Words:           l.dict.Words(),
	}
}
