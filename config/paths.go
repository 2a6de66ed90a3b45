package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir holds settings.toml: ONBOARD_CONFIG_DIR, else ~/.config/onboard
// on every platform.
func ConfigDir() string {
	if dir := os.Getenv("ONBOARD_CONFIG_DIR"); dir != "" {
		return ExpandPath(dir)
	}
	return filepath.Join(homeDir(), ".config", "onboard")
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}
	return string(filepath.Separator)
}

// ExpandPath resolves a leading ~/ and $VARS, then cleans the result.
// The empty path stays empty.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		path = filepath.Join(homeDir(), rest)
	}
	return filepath.Clean(os.ExpandEnv(path))
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ensurePrivateDir creates dir if needed and narrows it to 0700: it holds
// keys, tokens and transcripts.
func ensurePrivateDir(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if info.Mode().Perm() != 0700 {
		return os.Chmod(dir, 0700)
	}
	return nil
}
