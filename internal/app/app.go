package app

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/five82/purse/internal/balance"
	"github.com/five82/purse/internal/command"
	"github.com/five82/purse/internal/gui"
	"github.com/five82/purse/internal/logging"
	"github.com/five82/purse/internal/poller"
	"github.com/five82/purse/internal/prefs"
	"github.com/five82/purse/internal/render"
	"github.com/five82/purse/internal/settings"
	"github.com/five82/purse/internal/ui"
	"github.com/five82/purse/internal/version"
	"github.com/five82/purse/internal/window"
)

// ErrRestart is returned by Run when the user asked for a relaunch.
var ErrRestart = errors.New("restart requested")

// AppID identifies the desktop application to the OS.
const AppID = "com.five82.purse"

// Options configure the purse application.
type Options struct {
	SettingsPath string // empty uses <user config dir>/purse/settings.json
	PrefsPath    string // empty uses ~/.config/purse/prefs.toml
	Frontend     string // -ui flag; empty defers to prefs, then auto
}

// services are shared by both frontends.
type services struct {
	prefs     prefs.Prefs
	prefsPath string
	settings  *settings.Store
	logger    *logging.Logger
	poller    *poller.Controller
	presenter *render.Presenter
}

// Run boots purse until the main surface closes or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	userPrefs := prefs.Load(opts.PrefsPath)
	frontend, err := chooseFrontend(opts.Frontend, userPrefs.Frontend, environment{})
	if err != nil {
		return err
	}

	svc := newServices(ctx, opts, userPrefs)
	defer svc.logger.Close()

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	if frontend == prefs.FrontendTerminal {
		err = runTerminal(ctx, cancel, svc)
	} else {
		err = runDesktop(ctx, cancel, svc)
	}
	svc.presenter.Stop()
	if err != nil {
		return err
	}
	if errors.Is(context.Cause(ctx), ErrRestart) {
		return ErrRestart
	}
	return nil
}

func newServices(ctx context.Context, opts Options, userPrefs prefs.Prefs) *services {
	store := settings.Load(opts.SettingsPath, settings.WithVersion(version.String()))
	cfg := store.Settings()

	logger := logging.New(logging.Options{Dir: store.LogsDir(), Enabled: cfg.EnableLogs})
	if err := store.LoadErr(); err != nil {
		logger.Warn("Settings file unreadable, using defaults", map[string]any{"path": store.Path(), "error": err.Error()})
	}
	logger.Info("Starting purse", map[string]any{"version": version.String(), "environment": cfg.Environment})

	ctl := poller.New(ctx, balance.NewClient(cfg.Environment))
	return &services{
		prefs:     userPrefs,
		prefsPath: opts.PrefsPath,
		settings:  store,
		logger:    logger,
		poller:    ctl,
		presenter: render.NewPresenter(render.Options{
			Settings: store,
			Poller:   ctl,
			Logger:   logger,
			Locale:   userPrefs.Language(),
			Location: time.Local,
		}),
	}
}

// start opens the splash and the hidden main surface, then begins polling.
func (s *services) start(m *window.Manager) {
	cfg := s.settings.Settings()
	m.SetDiagnostics(cfg.DevMode)
	if _, err := m.OpenSplash(); err != nil {
		s.logger.Error("Failed to open splash window", map[string]any{"error": err.Error()})
	}
	if _, err := m.OpenMain(cfg.DevMode); err != nil {
		s.logger.Error("Failed to open main window", map[string]any{"error": err.Error()})
	}
	s.presenter.Start()
}

func (s *services) logEvent(e window.Event) {
	s.logger.Debug("Window state changed", map[string]any{
		"role":       e.Role.String(),
		"generation": e.Generation,
		"from":       e.From.String(),
		"to":         e.To.String(),
	})
}

func runTerminal(ctx context.Context, cancel context.CancelCauseFunc, svc *services) error {
	drv := ui.NewDriver()
	manager := window.NewManager(drv, window.Options{
		OnQuit: func() {
			cancel(nil)
			drv.Quit()
		},
		OnEvent: svc.logEvent,
	})
	defer manager.Shutdown()

	shell := NewShell(ShellOptions{
		Settings:  svc.settings,
		Logger:    svc.logger,
		Presenter: svc.presenter,
		Windows:   manager,
		Restart: func() {
			cancel(ErrRestart)
			drv.Quit()
		},
	})
	bus := command.NewBus(shell)
	go bus.Run(ctx)

	unsubscribe := svc.presenter.Subscribe(drv.Publish)
	defer unsubscribe()
	svc.start(manager)

	if err := ui.Run(ctx, ui.Options{
		Context:   ctx,
		Driver:    drv,
		Commands:  bus,
		Reload:    svc.presenter.Reload,
		LogsDir:   svc.logger.Dir,
		ThemeName: svc.prefs.Theme,
		PrefsPath: svc.prefsPath,
		Version:   version.String(),
	}); err != nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}

func runDesktop(ctx context.Context, cancel context.CancelCauseFunc, svc *services) error {
	a := fyneapp.NewWithID(AppID)

	// The shell needs the manager, which needs the driver, which needs the
	// bus; the manager is attached before the bus starts.
	shell := NewShell(ShellOptions{
		Settings:  svc.settings,
		Logger:    svc.logger,
		Presenter: svc.presenter,
		Mirror:    true,
		Restart: func() {
			cancel(ErrRestart)
		},
	})
	bus := command.NewBus(shell)

	var manager *window.Manager
	drv := gui.NewDriver(gui.Options{
		Context:  ctx,
		App:      a,
		Commands: bus,
		Activate: func() {
			if _, err := manager.Activate(); err != nil {
				svc.logger.Error("Failed to activate main window", map[string]any{"error": err.Error()})
			}
		},
		Reload:  svc.presenter.Reload,
		Quit:    a.Quit,
		LogsDir: svc.logger.Dir,
		Version: version.String(),
	})
	manager = window.NewManager(drv, window.Options{
		KeepAlive: runtime.GOOS == "darwin",
		OnQuit:    func() { fyne.Do(a.Quit) },
		OnEvent:   svc.logEvent,
	})
	shell.attach(manager)
	go bus.Run(ctx)

	svc.logger.Mirror(svc.settings.Settings().DevMode)
	unsubscribe := svc.presenter.Subscribe(drv.Publish)
	defer unsubscribe()

	drv.InstallTray()
	a.Lifecycle().SetOnStarted(func() {
		go svc.start(manager)
	})
	go func() {
		<-ctx.Done()
		fyne.Do(a.Quit)
	}()

	a.Run()
	return nil
}
