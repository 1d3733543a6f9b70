package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const appDir = "purse"

// DefaultPath returns <user config dir>/purse/settings.json.
func DefaultPath() string {
	return filepath.Join(configRoot(), appDir, "settings.json")
}

// DefaultLogsDir returns <user config dir>/purse/logs.
func DefaultLogsDir() string {
	return filepath.Join(configRoot(), appDir, "logs")
}

func configRoot() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config")
	}
	return "."
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPath(), nil
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
