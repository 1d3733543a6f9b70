package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/five82/purse/internal/balance"
	"github.com/five82/purse/internal/settings"
)

type stubFetcher struct {
	rec      *balance.Record
	err      error
	endpoint string
}

func (s *stubFetcher) Fetch(ctx context.Context, endpoint string) (*balance.Record, error) {
	s.endpoint = endpoint
	return s.rec, s.err
}

func newStore(t *testing.T) *settings.Store {
	t.Helper()
	dir := t.TempDir()
	return settings.Load(filepath.Join(dir, "settings.json"), settings.WithLogsDir(filepath.Join(dir, "logs")), settings.WithVersion("1.0.0"))
}

func TestShowSettings(t *testing.T) {
	store := newStore(t)
	var out bytes.Buffer

	if err := New(store, nil, language.English, &out).ShowSettings(); err != nil {
		t.Fatalf("ShowSettings: %v", err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out.String())
	}
	if got["version"] != "1.0.0" || got["settingsPath"] != store.Path() {
		t.Fatalf("output = %v", got)
	}
	if got["apiRefreshInterval"] != 5 {
		t.Fatalf("apiRefreshInterval = %v (%T)", got["apiRefreshInterval"], got["apiRefreshInterval"])
	}
	if _, ok := got["logsDir"]; !ok {
		t.Fatal("logsDir missing")
	}
}

func TestFetch_Card(t *testing.T) {
	amount := 5000.0
	f := &stubFetcher{rec: &balance.Record{FirstName: "Dana", LastName: "Levi", Amount: &amount}}
	var out bytes.Buffer

	if err := New(newStore(t), f, language.AmericanEnglish, &out).Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if f.endpoint != settings.DefaultAPIURL && !strings.HasPrefix(f.endpoint, "http") {
		t.Fatalf("endpoint = %q", f.endpoint)
	}
	if !strings.Contains(out.String(), "Dana Levi") || !strings.Contains(out.String(), "5,000 ₪") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestFetch_Error(t *testing.T) {
	f := &stubFetcher{err: &balance.HTTPError{StatusCode: 503, StatusText: "Service Unavailable", Body: "down"}}
	var out bytes.Buffer

	err := New(newStore(t), f, language.English, &out).Fetch(context.Background())
	var httpErr *balance.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("err = %v, want *HTTPError", err)
	}
	if !strings.Contains(out.String(), "API Error: 503 Service Unavailable - down") {
		t.Fatalf("output = %q", out.String())
	}
}
