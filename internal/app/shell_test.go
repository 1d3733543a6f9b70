package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/five82/purse/internal/balance"
	"github.com/five82/purse/internal/logging"
	"github.com/five82/purse/internal/poller"
	"github.com/five82/purse/internal/render"
	"github.com/five82/purse/internal/settings"
	"github.com/five82/purse/internal/window"
)

type fakeSurface struct {
	mu          sync.Mutex
	closed      bool
	minimized   int
	diagnostics bool
}

func (s *fakeSurface) Show()  {}
func (s *fakeSurface) Hide()  {}
func (s *fakeSurface) Focus() {}

func (s *fakeSurface) Minimize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minimized++
}

func (s *fakeSurface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *fakeSurface) SetDiagnostics(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagnostics = on
}

type fakeDriver struct {
	mu       sync.Mutex
	surfaces map[window.Role]*fakeSurface
}

func (d *fakeDriver) Create(spec window.Spec) (window.Surface, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := &fakeSurface{diagnostics: spec.Diagnostics}
	d.surfaces[spec.Role] = s
	return s, nil
}

func (d *fakeDriver) surface(r window.Role) *fakeSurface {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.surfaces[r]
}

type stubFetcher struct{}

func (stubFetcher) Fetch(context.Context, string) (*balance.Record, error) {
	return nil, errors.New("offline")
}

type fixture struct {
	store   *settings.Store
	logger  *logging.Logger
	driver  *fakeDriver
	windows *window.Manager
	shell   *Shell
	quits   int
	opened  []string
	restart int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{driver: &fakeDriver{surfaces: make(map[window.Role]*fakeSurface)}}
	f.store = settings.Load(filepath.Join(dir, "settings.json"), settings.WithLogsDir(filepath.Join(dir, "logs")))
	f.logger = logging.New(logging.Options{Dir: f.store.LogsDir(), Enabled: true})
	t.Cleanup(func() { _ = f.logger.Close() })

	f.windows = window.NewManager(f.driver, window.Options{
		MinSplash: -1,
		OnQuit:    func() { f.quits++ },
	})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ctl := poller.New(ctx, stubFetcher{})
	presenter := render.NewPresenter(render.Options{Settings: f.store, Poller: ctl, Logger: f.logger})
	t.Cleanup(presenter.Stop)

	f.shell = NewShell(ShellOptions{
		Settings:  f.store,
		Logger:    f.logger,
		Presenter: presenter,
		Windows:   f.windows,
		Restart:   func() { f.restart++ },
		OpenDirectory: func(_ context.Context, dir string) error {
			f.opened = append(f.opened, dir)
			return nil
		},
	})
	return f
}

func TestShell_EnableLogsReconfiguresLogger(t *testing.T) {
	f := newFixture(t)
	off := false
	if _, err := f.shell.SaveSettings(settings.Partial{EnableLogs: &off}); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if f.logger.Enabled() {
		t.Fatal("logger still enabled")
	}
	if got := f.shell.GetSettings().LogsDir; got != "" {
		t.Fatalf("LogsDir = %q, want empty while disabled", got)
	}
}

func TestShell_DevModeTogglesDiagnostics(t *testing.T) {
	f := newFixture(t)
	if _, err := f.windows.OpenMain(false); err != nil {
		t.Fatalf("OpenMain: %v", err)
	}

	on := true
	if _, err := f.shell.SaveSettings(settings.Partial{DevMode: &on}); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if !f.windows.Diagnostics() {
		t.Fatal("manager did not record diagnostics")
	}
	s := f.driver.surface(window.RoleMain)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.diagnostics {
		t.Fatal("main surface diagnostics not enabled")
	}
}

func TestShell_EnvironmentRequiresRestart(t *testing.T) {
	f := newFixture(t)
	env := "staging"
	c, err := f.shell.SaveSettings(settings.Partial{Environment: &env})
	if err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if !c.RestartRequired() {
		t.Fatal("environment change should require a restart")
	}
	if err := f.shell.RestartApp(); err != nil || f.restart != 1 {
		t.Fatalf("RestartApp = %v, restarts = %d", err, f.restart)
	}
}

func TestShell_SaveErrorLeavesSettings(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	store := settings.Load(filepath.Join(blocker, "settings.json"))
	shell := NewShell(ShellOptions{Settings: store, Windows: window.NewManager(&fakeDriver{surfaces: map[window.Role]*fakeSurface{}}, window.Options{})})

	name := "Noa"
	_, err := shell.SaveSettings(settings.Partial{RepresentativeName: &name})
	if !errors.Is(err, settings.ErrSave) {
		t.Fatalf("err = %v, want ErrSave", err)
	}
	if got := shell.GetSettings().RepresentativeName; got == name {
		t.Fatal("in-memory settings changed after a failed save")
	}
}

func TestShell_WindowCommands(t *testing.T) {
	f := newFixture(t)
	if _, err := f.windows.OpenMain(false); err != nil {
		t.Fatalf("OpenMain: %v", err)
	}
	f.shell.ContentLoaded(window.RoleMain)
	if got := f.windows.State(window.RoleMain); got != window.StateVisible {
		t.Fatalf("main state = %s, want visible", got)
	}

	f.shell.OpenSettings()
	if !f.windows.Live(window.RoleSettings) {
		t.Fatal("settings not open")
	}

	f.shell.MinimizeWindow(window.RoleMain)
	if got := f.driver.surface(window.RoleMain).minimized; got != 1 {
		t.Fatalf("minimized = %d, want 1", got)
	}

	f.shell.CloseWindow(window.RoleMain)
	if f.windows.Live(window.RoleMain) || f.windows.Live(window.RoleSettings) {
		t.Fatal("closing main left surfaces live")
	}
	if f.quits != 1 {
		t.Fatalf("quits = %d, want 1", f.quits)
	}
}

func TestShell_OpenLogsDirectory(t *testing.T) {
	f := newFixture(t)
	off := false
	if _, err := f.shell.SaveSettings(settings.Partial{EnableLogs: &off}); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if err := f.shell.OpenLogsDirectory(context.Background()); err != nil {
		t.Fatalf("OpenLogsDirectory: %v", err)
	}
	if len(f.opened) != 1 || f.opened[0] != f.store.LogsDir() {
		t.Fatalf("opened = %v, want %q", f.opened, f.store.LogsDir())
	}
}

func TestShell_WriteLog(t *testing.T) {
	f := newFixture(t)
	f.shell.WriteLog("warn", "UI Rendered Error", map[string]any{"source": "CLIENT"})

	data, err := os.ReadFile(filepath.Join(f.logger.Dir(), logging.FileName(time.Now())))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	line := string(data)
	for _, want := range []string{`"level":"WARN"`, `"message":"UI Rendered Error"`, `"source":"CLIENT"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("log missing %s: %s", want, line)
		}
	}
}

func TestOnAny_RunsOncePerSave(t *testing.T) {
	store := settings.Load(filepath.Join(t.TempDir(), "settings.json"))
	calls := 0
	onAny(store, func(settings.Change) { calls++ },
		settings.FieldRepresentativeName, settings.FieldUserID)

	name, user := "Noa", "42"
	if _, err := store.Save(settings.Partial{RepresentativeName: &name, UserID: &user}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	connected := true
	if _, err := store.Save(settings.Partial{Connected: &connected}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d after unrelated save, want 1", calls)
	}
}
