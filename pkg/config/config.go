/*
Package config manages TOML config for wordrack.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/wordrack/internal/utils"
	"github.com/bastiangx/wordrack/pkg/anagram"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Query  QueryConfig  `toml:"query"`
	Dict   DictConfig   `toml:"dict"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
}

// QueryConfig controls how racks are expanded and searched.
type QueryConfig struct {
	MaxRack      int    `toml:"max_rack"`
	MinLength    int    `toml:"min_length"`
	Wildcard     string `toml:"wildcard"`
	MaxWildcards int    `toml:"max_wildcards"`
	Alphabet     string `toml:"alphabet"`
	FoldCase     bool   `toml:"fold_case"`
}

// DictConfig holds dictionary options.
type DictConfig struct {
	Path      string `toml:"path"`
	Format    string `toml:"format"`
	ChunkSize int    `toml:"chunk_size"`
	MaxChunks int    `toml:"max_chunks"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxResults int `toml:"max_results"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int  `toml:"default_limit"`
	ByLength     bool `toml:"by_length"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.ExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "wordrack")
	if result := utils.PrepareDir(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "wordrack")
	if result := utils.PrepareDir(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.ExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/wordrack/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Query: QueryConfig{
			MaxRack:      anagram.DefaultMaxRack,
			MinLength:    anagram.MinWordLength,
			Wildcard:     string(anagram.DefaultMarker),
			MaxWildcards: anagram.MaxWildcards,
			Alphabet:     string(anagram.DefaultAlphabet),
			FoldCase:     true,
		},
		Dict: DictConfig{
			Path:      "data/",
			Format:    "chunk",
			ChunkSize: 5000,
			MaxChunks: 0,
		},
		Server: ServerConfig{
			MaxResults: 4096,
		},
		CLI: CliConfig{
			DefaultLimit: 0,
			ByLength:     false,
		},
	}
}

// Validate reports every setting that cannot be used as-is.
func (c *Config) Validate() error {
	var errs []error
	q := c.Query
	if q.MaxRack < 0 || q.MaxRack > anagram.MaxTiles {
		errs = append(errs, fmt.Errorf("query.max_rack must be within 0..%d, got %d", anagram.MaxTiles, q.MaxRack))
	}
	if q.MinLength < 1 {
		errs = append(errs, fmt.Errorf("query.min_length must be at least 1, got %d", q.MinLength))
	}
	if utf8.RuneCountInString(q.Wildcard) != 1 {
		errs = append(errs, fmt.Errorf("query.wildcard must be a single character, got %q", q.Wildcard))
	}
	if q.MaxWildcards < 0 || q.MaxWildcards > anagram.MaxWildcards {
		errs = append(errs, fmt.Errorf("query.max_wildcards must be within 0..%d, got %d", anagram.MaxWildcards, q.MaxWildcards))
	}
	if q.Alphabet == "" {
		errs = append(errs, errors.New("query.alphabet must not be empty"))
	}
	if marker, _ := utf8.DecodeRuneInString(q.Wildcard); q.Wildcard != "" && strings.ContainsRune(q.Alphabet, marker) {
		errs = append(errs, fmt.Errorf("query.wildcard %q must not be a letter of query.alphabet", q.Wildcard))
	}
	if c.Dict.ChunkSize < 1 {
		errs = append(errs, fmt.Errorf("dict.chunk_size must be positive, got %d", c.Dict.ChunkSize))
	}
	if c.Dict.MaxChunks < 0 {
		errs = append(errs, fmt.Errorf("dict.max_chunks must not be negative, got %d", c.Dict.MaxChunks))
	}
	if c.Server.MaxResults < 0 {
		errs = append(errs, fmt.Errorf("server.max_results must not be negative, got %d", c.Server.MaxResults))
	}
	if c.CLI.DefaultLimit < 0 {
		errs = append(errs, fmt.Errorf("cli.default_limit must not be negative, got %d", c.CLI.DefaultLimit))
	}
	return errors.Join(errs...)
}

// Expander builds the blank expander described by the query section.
func (c *Config) Expander() *anagram.Expander {
	marker, _ := utf8.DecodeRuneInString(c.Query.Wildcard)
	return anagram.NewExpander(
		anagram.WithMarker(marker),
		anagram.WithAlphabet([]rune(c.Query.Alphabet)),
		anagram.WithMaxWildcards(c.Query.MaxWildcards),
	)
}

// FinderOptions translates the query section into Finder options.
func (c *Config) FinderOptions() []anagram.FinderOption {
	opts := []anagram.FinderOption{
		anagram.WithExpander(c.Expander()),
		anagram.WithMaxRack(c.Query.MaxRack),
		anagram.WithMinLength(c.Query.MinLength),
	}
	if !c.Query.FoldCase {
		opts = append(opts, anagram.WithFolder(nil))
	}
	return opts
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Settings that fail validation
// are reported and replaced by their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.DecodeTOMLFile(configPath, config); err != nil {
		log.Warnf("%v. Attempting partial recovery...", err)
		config, err = tryPartialParse(configPath)
		if err != nil {
			return nil, err
		}
	}
	if err := config.Validate(); err != nil {
		log.Warnf("Invalid settings in %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// tryPartialParse keeps every well-typed value of a file that failed to decode
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.DecodeTOMLLoose(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if querySection, ok := utils.Section(tempConfig, "query"); ok {
		extractQueryConfig(querySection, &config.Query)
	}
	if dictSection, ok := utils.Section(tempConfig, "dict"); ok {
		extractDictConfig(dictSection, &config.Dict)
	}
	if serverSection, ok := utils.Section(tempConfig, "server"); ok {
		if val, ok := utils.Int(serverSection, "max_results"); ok {
			config.Server.MaxResults = val
		}
	}
	if cliSection, ok := utils.Section(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	return config, nil
}

func extractQueryConfig(data map[string]any, query *QueryConfig) {
	if val, ok := utils.Int(data, "max_rack"); ok {
		query.MaxRack = val
	}
	if val, ok := utils.Int(data, "min_length"); ok {
		query.MinLength = val
	}
	if val, ok := utils.Value[string](data, "wildcard"); ok {
		query.Wildcard = val
	}
	if val, ok := utils.Int(data, "max_wildcards"); ok {
		query.MaxWildcards = val
	}
	if val, ok := utils.Value[string](data, "alphabet"); ok {
		query.Alphabet = val
	}
	if val, ok := utils.Value[bool](data, "fold_case"); ok {
		query.FoldCase = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.Value[string](data, "path"); ok {
		dict.Path = val
	}
	if val, ok := utils.Value[string](data, "format"); ok {
		dict.Format = val
	}
	if val, ok := utils.Int(data, "chunk_size"); ok {
		dict.ChunkSize = val
	}
	if val, ok := utils.Int(data, "max_chunks"); ok {
		dict.MaxChunks = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.Int(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.Value[bool](data, "by_length"); ok {
		cli.ByLength = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return utils.WriteTOMLFile(defaultPath, DefaultConfig())
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.AbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.WriteTOMLFile(configPath, config)
}
