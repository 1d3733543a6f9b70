package gui

import (
	"context"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/five82/purse/internal/render"
	"github.com/five82/purse/internal/settings"
	"github.com/five82/purse/internal/window"
)

// Commands is the part of the command bus the frontend talks to.
type Commands interface {
	GetSettings(ctx context.Context) (settings.View, error)
	SaveSettings(ctx context.Context, p settings.Partial) (settings.Change, error)
	OpenLogsDirectory(ctx context.Context) error
	RestartApp(ctx context.Context) error
	MinimizeWindow(role window.Role)
	CloseWindow(role window.Role)
	ContentLoaded(role window.Role)
	OpenSettings()
	Refresh()
}

// Options configures a Driver.
type Options struct {
	Context  context.Context
	App      fyne.App
	Commands Commands
	// Activate brings the main window back, creating it if needed.
	Activate func()
	// Reload restarts the display after a rendering fault.
	Reload  func()
	Quit    func()
	LogsDir func() string
	Version string
}

// Driver creates Fyne windows for the window manager.
type Driver struct {
	ctx      context.Context
	app      fyne.App
	cmds     Commands
	activate func()
	reload   func()
	quit     func()
	logsDir  func() string
	version  string

	mu   sync.Mutex
	view render.View
	main *mainWindow
}

var _ window.Driver = (*Driver)(nil)

// NewDriver returns a Driver for opts.App.
func NewDriver(opts Options) *Driver {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logsDir := opts.LogsDir
	if logsDir == nil {
		logsDir = func() string { return "" }
	}
	return &Driver{
		ctx:      ctx,
		app:      opts.App,
		cmds:     opts.Commands,
		activate: opts.Activate,
		reload:   opts.Reload,
		quit:     opts.Quit,
		logsDir:  logsDir,
		version:  opts.Version,
	}
}

// Create implements window.Driver. It may be called from any goroutine
// except Fyne's main goroutine.
func (d *Driver) Create(spec window.Spec) (window.Surface, error) {
	var (
		s   window.Surface
		err error
	)
	fyne.DoAndWait(func() {
		switch spec.Role {
		case window.RoleSplash:
			s = d.newSplash(spec)
		case window.RoleMain:
			s = d.newMain(spec)
		case window.RoleSettings:
			s = d.newSettings(spec)
		default:
			err = fmt.Errorf("create %s window: unsupported role", spec.Role)
		}
	})
	return s, err
}

// Publish replaces the view shown in the main window.
func (d *Driver) Publish(v render.View) {
	d.mu.Lock()
	d.view = v
	mw := d.main
	d.mu.Unlock()
	if mw != nil {
		fyne.Do(func() { mw.update(v) })
	}
}

func (d *Driver) currentView() render.View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view
}

// InstallTray adds the system tray menu when the platform has one.
func (d *Driver) InstallTray() {
	if desk, ok := d.app.(desktop.App); ok {
		desk.SetSystemTrayMenu(d.trayMenu())
	}
}

func (d *Driver) trayMenu() *fyne.Menu {
	show := fyne.NewMenuItem("Show", func() {
		if d.activate != nil {
			go d.activate()
		}
	})
	refresh := fyne.NewMenuItem("Refresh", func() { d.cmds.Refresh() })
	prefs := fyne.NewMenuItem("Settings", func() { d.cmds.OpenSettings() })
	quit := fyne.NewMenuItem("Quit", func() {
		if d.quit != nil {
			d.quit()
		}
	})
	quit.IsQuit = true
	return fyne.NewMenu("purse", show, refresh, fyne.NewMenuItemSeparator(), prefs, quit)
}

// addShortcuts binds Ctrl+, (Cmd+, on macOS) to the settings window.
func (d *Driver) addShortcuts(w fyne.Window) {
	w.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeyComma,
		Modifier: fyne.KeyModifierShortcutDefault,
	}, func(fyne.Shortcut) { d.cmds.OpenSettings() })
}

func (d *Driver) newWindow(title string, spec window.Spec) fyne.Window {
	w := d.app.NewWindow(title)
	w.Resize(fyne.NewSize(float32(spec.Size.Width), float32(spec.Size.Height)))
	w.SetFixedSize(true)
	d.addShortcuts(w)
	return w
}

// surface adapts a Fyne window to window.Surface. Every call is queued on
// the main goroutine in order.
type surface struct {
	w       fyne.Window
	onClose func()
	diag    func(bool)
}

func (s *surface) Show() { fyne.Do(s.w.Show) }
func (s *surface) Hide() { fyne.Do(s.w.Hide) }

// Minimize hides the window; Fyne has no iconify call. The tray's Show item
// brings it back.
func (s *surface) Minimize() { fyne.Do(s.w.Hide) }

func (s *surface) Focus() {
	fyne.Do(func() {
		s.w.Show()
		s.w.RequestFocus()
	})
}

func (s *surface) Close() {
	fyne.Do(func() {
		if s.onClose != nil {
			s.onClose()
		}
		s.w.Close()
	})
}

func (s *surface) SetDiagnostics(on bool) {
	if s.diag != nil {
		fyne.Do(func() { s.diag(on) })
	}
}
