package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// PathResolver finds dictionary data relative to the binary, the working
// directory or the user config directory.
type PathResolver struct {
	executableDir string
	workingDir    string
	configDir     string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	// Resolve any symlinks to get the actual binary location
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		workingDir:    cwd,
		configDir:     getConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: execDir=%s, cwd=%s, configDir=%s",
		pr.executableDir, pr.workingDir, pr.configDir)
	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "wordrack")
		}
		return filepath.Join(homeDir, ".config", "wordrack")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "wordrack")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "wordrack")
	default:
		return filepath.Join(homeDir, ".config", "wordrack")
	}
}

// GetDataPath resolves a dictionary file or chunk directory.
// It tries multiple locations in order of preference:
// 1. The path as given (absolute, or relative to the working directory)
// 2. Relative to executable directory
// 3. data/ next to the executable, its parent, and the config dir
func (pr *PathResolver) GetDataPath(userSpecifiedPath string) string {
	candidates := pr.candidates(userSpecifiedPath)
	for _, path := range candidates {
		if IsValidDataPath(path) {
			log.Debugf("Found dictionary data: %s", path)
			return path
		}
		log.Debugf("Dictionary data candidate not valid: %s", path)
	}
	// most likely path, for error reporting
	return candidates[0]
}

func (pr *PathResolver) candidates(userSpecifiedPath string) []string {
	if filepath.IsAbs(userSpecifiedPath) {
		return []string{userSpecifiedPath}
	}
	return []string{
		filepath.Join(pr.workingDir, userSpecifiedPath),
		filepath.Join(pr.executableDir, userSpecifiedPath),
		filepath.Join(pr.executableDir, "data"),
		filepath.Join(filepath.Dir(pr.executableDir), "data"),
		filepath.Join(pr.configDir, "data"),
	}
}

// IsValidDataPath reports whether path is a regular file or a directory
// holding at least one dict_*.bin chunk.
func IsValidDataPath(path string) bool {
	stat, err := os.Stat(path)
	if err != nil {
		return false
	}
	if !stat.IsDir() {
		return stat.Mode().IsRegular()
	}
	matches, err := filepath.Glob(filepath.Join(path, "dict_*.bin"))
	return err == nil && len(matches) > 0
}

// GetConfigDir returns the config directory
func (pr *PathResolver) GetConfigDir() string {
	return pr.configDir
}

// GetRuntimeInfo returns debug information about the current runtime environment
func (pr *PathResolver) GetRuntimeInfo() map[string]string {
	return map[string]string{
		"executable_dir": pr.executableDir,
		"current_dir":    pr.workingDir,
		"config_dir":     pr.configDir,
		"os":             runtime.GOOS,
		"arch":           runtime.GOARCH,
	}
}
