package dictionary

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents different dictionary file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatBinary             // Single binary anagram file
	FormatChunk              // One of several dict_NNNN.bin files
	FormatMsgpack            // msgpack map of key -> words
	FormatJSON               // JSON map of key -> words
	FormatText               // Plain word list, one per line
	FormatCBOR               // CBOR map of key -> words, as in dict.cbor
)

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Name        string
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatBinary: {
		Format:      FormatBinary,
		Name:        "bin",
		Description: "Binary Anagram Dictionary",
		Extensions:  []string{".bin"},
		MinSize:     4, // group count header
	},
	FormatChunk: {
		Format:      FormatChunk,
		Name:        "chunk",
		Description: "Chunked Binary Anagram Dictionary",
		Extensions:  []string{".bin"},
		MinSize:     4,
	},
	FormatMsgpack: {
		Format:      FormatMsgpack,
		Name:        "msgpack",
		Description: "MessagePack Anagram Dictionary",
		Extensions:  []string{".msgpack", ".mpk"},
		MinSize:     1,
	},
	FormatJSON: {
		Format:      FormatJSON,
		Name:        "json",
		Description: "JSON Anagram Dictionary",
		Extensions:  []string{".json"},
		MinSize:     2, // {}
	},
	FormatText: {
		Format:      FormatText,
		Name:        "text",
		Description: "Plain Text Word List",
		Extensions:  []string{".txt"},
		MinSize:     1,
	},
	FormatCBOR: {
		Format:      FormatCBOR,
		Name:        "cbor",
		Description: "CBOR Anagram Dictionary",
		Extensions:  []string{".cbor"},
		MinSize:     1,
	},
}

func (f FileFormat) String() string {
	if info, ok := GetFormatInfo(f); ok {
		return info.Name
	}
	return "unknown"
}

// ParseFormat maps a format name such as "msgpack" to its FileFormat.
func ParseFormat(name string) (FileFormat, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for format, info := range supportedFormats {
		if info.Name == name {
			return format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unknown dictionary format %q", name)
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := GetFormatInfo(expectedFormat)
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	switch expectedFormat {
	case FormatBinary, FormatChunk:
		return validateBinaryFormat(filename)
	}

	return nil
}

// validateBinaryFormat checks the group count header of a binary file
func validateBinaryFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var groupCount int32
	if err := binary.Read(file, binary.LittleEndian, &groupCount); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}

	if groupCount < 0 {
		return fmt.Errorf("invalid group count in %s: %d (negative)", filename, groupCount)
	}
	if groupCount > maxGroups {
		return fmt.Errorf("suspicious group count in %s: %d (too large)", filename, groupCount)
	}

	log.Debugf("Binary file %s validated: %d groups", filename, groupCount)
	return nil
}

// DetectFileFormat attempts to detect the format of a file
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	basename := strings.ToLower(filepath.Base(filename))

	// chunk files by naming pattern
	if strings.HasPrefix(basename, chunkPrefix) && ext == ".bin" {
		if err := ValidateFileFormat(filename, FormatChunk); err == nil {
			return FormatChunk, nil
		}
	}

	for _, format := range []FileFormat{FormatBinary, FormatMsgpack, FormatJSON, FormatText, FormatCBOR} {
		info := supportedFormats[format]
		for _, e := range info.Extensions {
			if e != ext {
				continue
			}
			if err := ValidateFileFormat(filename, format); err != nil {
				return FormatUnknown, err
			}
			return format, nil
		}
	}

	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// ListSupportedFormats returns all supported formats ordered by FileFormat
func ListSupportedFormats() []FormatInfo {
	formats := make([]FormatInfo, 0, len(supportedFormats))
	for f := FormatBinary; f <= FormatCBOR; f++ {
		formats = append(formats, supportedFormats[f])
	}
	return formats
}
