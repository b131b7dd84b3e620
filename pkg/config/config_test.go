package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/wordrack/pkg/anagram"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfigValid(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())

	assert.Equal(t, 15, c.Query.MaxRack)
	assert.Equal(t, 2, c.Query.MinLength)
	assert.Equal(t, "?", c.Query.Wildcard)
	assert.Equal(t, 2, c.Query.MaxWildcards)
	assert.Equal(t, "abcdefghijklmnopqrstuvwxyz", c.Query.Alphabet)
	assert.True(t, c.Query.FoldCase)
	assert.Equal(t, 4096, c.Server.MaxResults)
}

func TestInitConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordrack", "config.toml")

	c, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
	assert.FileExists(t, path)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[query]
max_rack = 10
wildcard = "*"
fold_case = false

[cli]
by_length = true
`)

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, c.Query.MaxRack)
	assert.Equal(t, "*", c.Query.Wildcard)
	assert.False(t, c.Query.FoldCase)
	assert.True(t, c.CLI.ByLength)
	// untouched keys keep their defaults
	assert.Equal(t, 2, c.Query.MaxWildcards)
	assert.Equal(t, 5000, c.Dict.ChunkSize)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := writeConfig(t, `
[query]
max_rack = 12
min_length = "three"

[dict]
chunk_size = 100
format = 7

[server]
max_results = 50
`)

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 12, c.Query.MaxRack)
	assert.Equal(t, 2, c.Query.MinLength)
	assert.Equal(t, 100, c.Dict.ChunkSize)
	assert.Equal(t, "chunk", c.Dict.Format)
	assert.Equal(t, 50, c.Server.MaxResults)
}

func TestLoadConfigUnparsable(t *testing.T) {
	path := writeConfig(t, "[query\nmax_rack = = 3")

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestLoadConfigInvalidFallsBack(t *testing.T) {
	path := writeConfig(t, "[query]\nmax_wildcards = 5\n")

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative max rack", func(c *Config) { c.Query.MaxRack = -1 }},
		{"max rack over tile limit", func(c *Config) { c.Query.MaxRack = anagram.MaxTiles + 1 }},
		{"zero min length", func(c *Config) { c.Query.MinLength = 0 }},
		{"empty wildcard", func(c *Config) { c.Query.Wildcard = "" }},
		{"multi rune wildcard", func(c *Config) { c.Query.Wildcard = "??" }},
		{"too many wildcards", func(c *Config) { c.Query.MaxWildcards = 3 }},
		{"negative wildcards", func(c *Config) { c.Query.MaxWildcards = -1 }},
		{"empty alphabet", func(c *Config) { c.Query.Alphabet = "" }},
		{"wildcard in alphabet", func(c *Config) { c.Query.Wildcard = "a" }},
		{"zero chunk size", func(c *Config) { c.Dict.ChunkSize = 0 }},
		{"negative max chunks", func(c *Config) { c.Dict.MaxChunks = -2 }},
		{"negative max results", func(c *Config) { c.Server.MaxResults = -1 }},
		{"negative cli limit", func(c *Config) { c.CLI.DefaultLimit = -1 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.modify(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestFinderOptions(t *testing.T) {
	c := DefaultConfig()
	c.Query.Wildcard = "*"
	c.Query.Alphabet = "xy"
	c.Query.MaxWildcards = 1

	e := c.Expander()
	assert.Equal(t, '*', e.Marker())

	got, err := e.Expand("a*")
	require.NoError(t, err)
	assert.Equal(t, []string{"ax", "ay"}, got)

	_, err = e.Expand("**")
	assert.ErrorIs(t, err, anagram.ErrTooManyWildcards)

	assert.Len(t, c.FinderOptions(), 3)
	c.Query.FoldCase = false
	assert.Len(t, c.FinderOptions(), 4)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfig(t, "[server]\nmax_results = 10\n")

	c, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 10, c.Server.MaxResults)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	c := DefaultConfig()
	c.Dict.Path = "/srv/words/anagrams.msgpack"
	c.Dict.Format = "msgpack"
	require.NoError(t, SaveConfig(c, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
	assert.Equal(t, filepath.Clean(path), GetActiveConfigPath(path))
}
