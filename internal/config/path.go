package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading ~ to the home directory, then $VAR references.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if rest, ok := strings.CutPrefix(path, "~"); ok && (rest == "" || rest[0] == '/') {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, rest)
		}
	}

	return os.ExpandEnv(path)
}

// xdgDir joins AppName onto $env, falling back to ~/fallback when unset.
func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, AppName)
	}
	return filepath.Join("~", fallback, AppName)
}

// DataDir is where local backends and backups keep their files.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// ConfigDir is searched for config.yaml and holds the Sheets token cache.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}
