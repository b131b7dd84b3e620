package dictionary

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bastiangx/wordrack/pkg/anagram"
	"github.com/charmbracelet/log"
	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// sanity bound on the group count header
const maxGroups = 1 << 24

// ErrCorrupt is returned when persisted data does not describe a valid dictionary.
var ErrCorrupt = errors.New("corrupt dictionary")

// Encode writes d to w in the given format.
//
// The binary layout is little endian: an int32 group count, then per group a
// uint16 length-prefixed key, a uint16 word count and that many uint16
// length-prefixed words. Binary and text output keep the order keys were added.
func Encode(w io.Writer, d *Dictionary, format FileFormat) error {
	switch format {
	case FormatBinary, FormatChunk:
		return encodeBinary(w, d)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(groups(d))
	case FormatJSON:
		return json.NewEncoder(w).Encode(groups(d))
	case FormatText:
		return encodeText(w, d)
	case FormatCBOR:
		return cbor.NewEncoder(w).Encode(groups(d))
	}
	return fmt.Errorf("cannot encode format %v", format)
}

// Decode reads a dictionary in the given format.
// Persisted groups must be keyed consistently with their words. With a fold
// policy set, words it changes are filed again under their folded key.
func Decode(r io.Reader, format FileFormat, opts ...Option) (*Dictionary, error) {
	switch format {
	case FormatBinary, FormatChunk:
		return decodeBinary(r, opts...)
	case FormatMsgpack:
		m := make(map[string][]string)
		if err := msgpack.NewDecoder(r).Decode(&m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return fromGroups(m, opts...)
	case FormatJSON:
		m := make(map[string][]string)
		if err := json.NewDecoder(r).Decode(&m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return fromGroups(m, opts...)
	case FormatText:
		return BuildFromReader(r, opts...)
	case FormatCBOR:
		m := make(map[string][]string)
		if err := cbor.NewDecoder(r).Decode(&m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return fromGroups(m, opts...)
	}
	return nil, fmt.Errorf("cannot decode format %v", format)
}

// Save writes d to path in the format its extension names.
func Save(path string, d *Dictionary) error {
	format, err := formatForPath(path)
	if err != nil {
		return err
	}
	return SaveAs(path, d, format)
}

// SaveAs writes d to path in the given format.
func SaveAs(path string, d *Dictionary, format FileFormat) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create dir %s: %w", dir, err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	if err := Encode(bw, d, format); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Debugf("Saved %s dictionary to %s: %d keys", format, path, d.Keys())
	return nil
}

// Load reads a dictionary file, detecting its format.
func Load(path string, opts ...Option) (*Dictionary, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	d, err := Decode(bufio.NewReader(file), format, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.Debugf("Loaded %s dictionary from %s: %d keys, %d words", format, path, d.Keys(), d.Words())
	return d, nil
}

func formatForPath(path string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range []FileFormat{FormatBinary, FormatMsgpack, FormatJSON, FormatText, FormatCBOR} {
		if slices.Contains(supportedFormats[format].Extensions, ext) {
			return format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("no dictionary format for extension %q", ext)
}

func groups(d *Dictionary) map[string][]string {
	m := make(map[string][]string, d.Keys())
	_ = d.Each(func(key string, words []string) error {
		m[key] = words
		return nil
	})
	return m
}

func fromGroups(m map[string][]string, opts ...Option) (*Dictionary, error) {
	d := New(opts...)
	for _, key := range slices.Sorted(maps.Keys(m)) {
		if err := checkGroup(key, m[key]); err != nil {
			return nil, err
		}
		d.addDecoded(key, m[key])
	}
	return d, nil
}

func checkGroup(key string, words []string) error {
	if !anagram.IsCanonical(key) {
		return fmt.Errorf("%w: key %q is not in sorted order", ErrCorrupt, key)
	}
	for _, w := range words {
		if anagram.Canonicalize(w) != key {
			return fmt.Errorf("%w: word %q filed under key %q", ErrCorrupt, w, key)
		}
	}
	return nil
}

func encodeText(w io.Writer, d *Dictionary) error {
	return d.EachInOrder(func(_ string, words []string) error {
		for _, word := range words {
			if _, err := io.WriteString(w, word+"\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

func encodeBinary(w io.Writer, d *Dictionary) error {
	if err := binary.Write(w, binary.LittleEndian, int32(d.Keys())); err != nil {
		return err
	}
	return d.EachInOrder(func(key string, words []string) error {
		if len(words) > math.MaxUint16 {
			return fmt.Errorf("key %q holds %d words, at most %d", key, len(words), math.MaxUint16)
		}
		if err := writeString(w, key); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(len(words))); err != nil {
			return err
		}
		for _, word := range words {
			if err := writeString(w, word); err != nil {
				return err
			}
		}
		return nil
	})
}

func decodeBinary(r io.Reader, opts ...Option) (*Dictionary, error) {
	var groupCount int32
	if err := binary.Read(r, binary.LittleEndian, &groupCount); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if groupCount < 0 || groupCount > maxGroups {
		return nil, fmt.Errorf("%w: group count %d", ErrCorrupt, groupCount)
	}

	d := New(opts...)
	for i := 0; i < int(groupCount); i++ {
		key, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read key %d: %w", i, err)
		}
		var wordCount uint16
		if err := binary.Read(r, binary.LittleEndian, &wordCount); err != nil {
			return nil, fmt.Errorf("failed to read word count for %q: %w", key, err)
		}
		words := make([]string, wordCount)
		for j := range words {
			if words[j], err = readString(r); err != nil {
				return nil, fmt.Errorf("failed to read word under %q: %w", key, err)
			}
		}
		if err := checkGroup(key, words); err != nil {
			return nil, err
		}
		d.addDecoded(key, words)
	}
	return d, nil
}

func writeString(w io.Writer, s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("string of %d bytes is too long", len(s))
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
