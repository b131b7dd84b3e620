package utils

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// DirStatus reports whether a directory is usable for config or data files.
type DirStatus struct {
	Exists   bool
	Writable bool
	Err      error
}

// FileExists reports whether anything lives at path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dirPath and its parents when missing.
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0o755)
}

// AbsolutePath resolves path against the working dir, "unknown" when empty.
func AbsolutePath(path string) string {
	if path == "" {
		return "unknown"
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// ExecutableDir is the directory holding the running binary.
func ExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// PrepareDir creates dirPath if needed and checks that files can be written there.
func PrepareDir(dirPath string) DirStatus {
	if err := EnsureDir(dirPath); err != nil {
		log.Warnf("Cannot create directory %s: %v", dirPath, err)
		return DirStatus{Err: err}
	}
	return DirStatus{Exists: true, Writable: canWrite(dirPath)}
}

func canWrite(dirPath string) bool {
	tmp, err := os.CreateTemp(dirPath, ".wordrack-write-*")
	if err != nil {
		log.Warnf("Cannot write to directory %s: %v", dirPath, err)
		return false
	}
	name := tmp.Name()
	tmp.Close()
	os.Remove(name)
	return true
}
