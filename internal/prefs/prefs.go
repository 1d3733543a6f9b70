// Package prefs handles purse user interface preferences.
// Preferences are stored in ~/.config/purse/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

// Frontend names accepted by the frontend preference and the -ui flag.
const (
	FrontendAuto     = "auto"
	FrontendDesktop  = "desktop"
	FrontendTerminal = "terminal"
)

// Prefs holds presentation preferences that are not part of the settings record.
type Prefs struct {
	Theme    string `toml:"theme"`
	Locale   string `toml:"locale"`
	Frontend string `toml:"frontend"`
}

const (
	defaultPrefsPath = "~/.config/purse/prefs.toml"
	defaultTheme     = "Nightfox"
	defaultLocale    = "he-IL"
)

// Defaults returns the preferences used when nothing is stored.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme, Locale: defaultLocale, Frontend: FrontendAuto}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if
// the file is missing or unreadable.
func Load(path string) Prefs {
	resolved, err := resolvePath(path)
	if err != nil {
		return Defaults()
	}

	file, err := os.Open(resolved)
	if err != nil {
		return Defaults()
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Defaults()
	}

	p := Defaults()
	if err := toml.Unmarshal(bytes, &p); err != nil {
		return Defaults()
	}
	return p.normalize()
}

func (p Prefs) normalize() Prefs {
	d := Defaults()
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = d.Theme
	}
	p.Locale = strings.TrimSpace(p.Locale)
	if _, err := language.Parse(p.Locale); p.Locale == "" || err != nil {
		p.Locale = d.Locale
	}
	f, err := ParseFrontend(p.Frontend)
	if err != nil {
		f = FrontendAuto
	}
	p.Frontend = f
	return p
}

// Language returns the parsed locale tag.
func (p Prefs) Language() language.Tag {
	tag, err := language.Parse(p.Locale)
	if err != nil {
		return language.MustParse(defaultLocale)
	}
	return tag
}

// ParseFrontend validates a frontend name. Empty means auto.
func ParseFrontend(s string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", FrontendAuto:
		return FrontendAuto, nil
	case FrontendDesktop, "gui":
		return FrontendDesktop, nil
	case FrontendTerminal, "tui":
		return FrontendTerminal, nil
	default:
		return "", fmt.Errorf("unknown frontend %q", s)
	}
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// Update loads the stored preferences, applies fn and saves the result.
func Update(path string, fn func(*Prefs)) error {
	p := Load(path)
	fn(&p)
	return Save(path, p)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
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
