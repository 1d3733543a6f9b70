package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p := Load("")
	if p != Defaults() {
		t.Fatalf("Load = %+v, want %+v", p, Defaults())
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "purse")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	body := "theme = \"Slate\"\nlocale = \"en-US\"\nfrontend = \"terminal\"\n"
	if err := os.WriteFile(filepath.Join(prefsDir, "prefs.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load("")
	want := Prefs{Theme: "Slate", Locale: "en-US", Frontend: FrontendTerminal}
	if p != want {
		t.Fatalf("Load = %+v, want %+v", p, want)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "prefs.toml")
	body := "theme = \"  \"\nlocale = \"not a locale!\"\nfrontend = \"vr\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if p := Load(path); p != Defaults() {
		t.Fatalf("Load = %+v, want defaults", p)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "prefs.toml")
	if err := os.WriteFile(path, []byte("theme = [broken"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if p := Load(path); p != Defaults() {
		t.Fatalf("Load = %+v, want defaults", p)
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "subdir", "prefs.toml")

	want := Prefs{Theme: "Kanagawa", Locale: "de-DE", Frontend: FrontendDesktop}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if got := Load(path); got != want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
}

func TestUpdate_KeepsOtherFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := Save(path, Prefs{Theme: "Slate", Locale: "en-GB", Frontend: FrontendTerminal}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := Update(path, func(p *Prefs) { p.Theme = "Kanagawa" }); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got := Load(path)
	if got.Theme != "Kanagawa" || got.Locale != "en-GB" || got.Frontend != FrontendTerminal {
		t.Fatalf("Load = %+v", got)
	}
}

func TestParseFrontend(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", FrontendAuto, false},
		{"AUTO", FrontendAuto, false},
		{"desktop", FrontendDesktop, false},
		{"gui", FrontendDesktop, false},
		{" tui ", FrontendTerminal, false},
		{"web", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFrontend(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseFrontend(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseFrontend(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLanguage(t *testing.T) {
	if got := (Prefs{Locale: "en-US"}).Language().String(); got != "en-US" {
		t.Fatalf("Language = %q", got)
	}
	if got := (Prefs{Locale: "???"}).Language().String(); got != "he-IL" {
		t.Fatalf("Language fallback = %q", got)
	}
}
