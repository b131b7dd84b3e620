package dictionary

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/bastiangx/wordrack/pkg/anagram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertSameGroups(t *testing.T, want, got *Dictionary) {
	t.Helper()
	assert.Equal(t, want.Keys(), got.Keys())
	assert.Equal(t, want.Words(), got.Words())
	_ = want.Each(func(key string, words []string) error {
		assert.Equal(t, words, got.Lookup(key), "key %q", key)
		return nil
	})
}

func TestCodecRoundTrip(t *testing.T) {
	d := Build(slices.Values(slices.Concat(sampleWords, []string{"rats", "été"})))

	for _, format := range []FileFormat{FormatBinary, FormatChunk, FormatMsgpack, FormatJSON, FormatText, FormatCBOR} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, d, format))

			got, err := Decode(&buf, format)
			require.NoError(t, err)
			assertSameGroups(t, d, got)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	d := Build(slices.Values(sampleWords))
	dir := t.TempDir()

	testCases := []struct {
		name   string
		format FileFormat
	}{
		{"anagrams.bin", FormatBinary},
		{"anagrams.msgpack", FormatMsgpack},
		{"anagrams.json", FormatJSON},
		{"words.txt", FormatText},
		{"dict.cbor", FormatCBOR},
		{"chunks/dict_0001.bin", FormatChunk},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			require.NoError(t, SaveAs(path, d, tc.format))

			format, err := DetectFileFormat(path)
			require.NoError(t, err)
			assert.Equal(t, tc.format, format)

			got, err := Load(path)
			require.NoError(t, err)
			assertSameGroups(t, d, got)
		})
	}
}

func TestSaveUsesExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anagrams.msgpack")
	require.NoError(t, Save(path, Build(slices.Values(sampleWords))))

	format, err := DetectFileFormat(path)
	require.NoError(t, err)
	assert.Equal(t, FormatMsgpack, format)

	err = Save(filepath.Join(t.TempDir(), "anagrams.xml"), New())
	assert.Error(t, err)
}

func TestDecodeBinaryCorrupt(t *testing.T) {
	t.Run("negative group count", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, int32(-1)))
		_, err := Decode(&buf, FormatBinary)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("oversized group count", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, int32(maxGroups+1)))
		_, err := Decode(&buf, FormatBinary)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("truncated", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, Build(slices.Values(sampleWords)), FormatBinary))
		_, err := Decode(bytes.NewReader(buf.Bytes()[:buf.Len()-3]), FormatBinary)
		assert.Error(t, err)
	})

	t.Run("word under wrong key", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, int32(1)))
		require.NoError(t, writeString(&buf, "arst"))
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(1)))
		require.NoError(t, writeString(&buf, "cat"))
		_, err := Decode(&buf, FormatBinary)
		assert.ErrorIs(t, err, ErrCorrupt)
	})
}

func TestBinaryKeepsInsertionOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Build(slices.Values(sampleWords)), FormatBinary))

	got, err := Decode(&buf, FormatBinary)
	require.NoError(t, err)

	var keys []string
	_ = got.EachInOrder(func(key string, words []string) error {
		keys = append(keys, key)
		return nil
	})
	assert.Equal(t, []string{"arst", "act", "ehlot", "abert"}, keys)
}

func TestDecodeFoldsMixedCase(t *testing.T) {
	mixed := `{"Helot": ["Hotel"], "ehlot": ["hotel"], "act": ["cat"]}`

	t.Run("json", func(t *testing.T) {
		d, err := Decode(bytes.NewBufferString(mixed), FormatJSON)
		require.NoError(t, err)
		assert.Nil(t, d.Lookup("Helot"))
		assert.Equal(t, []string{"hotel", "hotel"}, d.Lookup("ehlot"))
		assert.Equal(t, 2, d.Keys())

		got, err := anagram.FindAll(d, "HoTeL")
		require.NoError(t, err)
		assert.Equal(t, []string{"hotel"}, got)
	})

	t.Run("raw case kept", func(t *testing.T) {
		d, err := Decode(bytes.NewBufferString(mixed), FormatJSON, WithoutFolding())
		require.NoError(t, err)
		assert.Equal(t, []string{"Hotel"}, d.Lookup("Helot"))
		assert.Equal(t, []string{"hotel"}, d.Lookup("ehlot"))
	})

	t.Run("binary written raw", func(t *testing.T) {
		raw := Build(slices.Values([]string{"Hotel", "Act", "cat"}), WithoutFolding())
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, raw, FormatBinary))

		d, err := Decode(&buf, FormatBinary)
		require.NoError(t, err)
		assert.Equal(t, []string{"hotel"}, d.Lookup("ehlot"))
		assert.Equal(t, []string{"act", "cat"}, d.Lookup("act"))

		got, err := anagram.FindAll(d, "tac")
		require.NoError(t, err)
		assert.Equal(t, []string{"act", "cat"}, got)
	})
}

func TestDecodeRejectsUnsortedKey(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, int32(1)))
	require.NoError(t, writeString(&buf, "tac"))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(0)))

	_, err := Decode(&buf, FormatBinary)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestDecodeMapCorrupt(t *testing.T) {
	_, err := Decode(bytes.NewBufferString(`{"arst": ["cat"]}`), FormatJSON)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = Decode(bytes.NewBufferString(`not json`), FormatJSON)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = Decode(bytes.NewBufferString("\xc1"), FormatMsgpack)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = Decode(bytes.NewBufferString("\xff"), FormatCBOR)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestValidateFileFormat(t *testing.T) {
	dir := t.TempDir()

	tiny := filepath.Join(dir, "tiny.bin")
	require.NoError(t, os.WriteFile(tiny, []byte{1}, 0644))
	assert.Error(t, ValidateFileFormat(tiny, FormatBinary))

	wrongExt := filepath.Join(dir, "words.json")
	require.NoError(t, os.WriteFile(wrongExt, []byte("{}"), 0644))
	assert.Error(t, ValidateFileFormat(wrongExt, FormatBinary))
	assert.NoError(t, ValidateFileFormat(wrongExt, FormatJSON))

	_, err := DetectFileFormat(filepath.Join(dir, "words.csv"))
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for _, info := range ListSupportedFormats() {
		format, err := ParseFormat(info.Name)
		require.NoError(t, err)
		assert.Equal(t, info.Format, format)

		got, ok := GetFormatInfo(format)
		assert.True(t, ok)
		assert.Equal(t, info, got)
	}

	format, err := ParseFormat(" MsgPack ")
	require.NoError(t, err)
	assert.Equal(t, FormatMsgpack, format)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}
