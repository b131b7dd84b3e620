package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// DecodeTOMLFile decodes path into v and reports keys v has no field for.
func DecodeTOMLFile(path string, v any) error {
	meta, err := toml.DecodeFile(path, v)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		log.Warnf("Ignoring unknown keys in %s: %v", path, undecoded)
	}
	return nil
}

// DecodeTOMLLoose decodes path into a generic map, so a file whose values
// do not fit the config types can still be salvaged key by key.
func DecodeTOMLLoose(path string) (map[string]any, error) {
	raw := make(map[string]any)
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return raw, nil
}

// WriteTOMLFile encodes v to a temp file next to path and renames it into place.
func WriteTOMLFile(path string, v any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Section returns the table called name, if there is one.
func Section(raw map[string]any, name string) (map[string]any, bool) {
	table, ok := raw[name].(map[string]any)
	return table, ok
}

// Value returns raw[key] when it holds a T.
func Value[T any](raw map[string]any, key string) (T, bool) {
	v, ok := raw[key].(T)
	return v, ok
}

// Int returns raw[key] as an int. TOML integers decode as int64.
func Int(raw map[string]any, key string) (int, bool) {
	v, ok := raw[key].(int64)
	return int(v), ok
}
