package app

import (
	"context"
	"slices"

	"github.com/five82/purse/internal/command"
	"github.com/five82/purse/internal/logging"
	"github.com/five82/purse/internal/platform"
	"github.com/five82/purse/internal/render"
	"github.com/five82/purse/internal/settings"
	"github.com/five82/purse/internal/window"
)

// ShellOptions wires a Shell.
type ShellOptions struct {
	Settings  *settings.Store
	Logger    *logging.Logger
	Presenter *render.Presenter
	Windows   *window.Manager
	// Mirror copies log records to stderr while developer mode is on.
	Mirror bool
	// Restart ends the run with ErrRestart.
	Restart func()
	// OpenDirectory defaults to platform.OpenDirectory.
	OpenDirectory func(ctx context.Context, dir string) error
}

// Shell answers command bus requests. It owns the window manager and reacts
// to saved settings.
type Shell struct {
	settings  *settings.Store
	log       *logging.Logger
	presenter *render.Presenter
	windows   *window.Manager
	mirror    bool
	restart   func()
	openDir   func(ctx context.Context, dir string) error
}

var _ command.Handler = (*Shell)(nil)

// NewShell returns a Shell and registers its settings reactions.
func NewShell(opts ShellOptions) *Shell {
	openDir := opts.OpenDirectory
	if openDir == nil {
		openDir = platform.OpenDirectory
	}
	s := &Shell{
		settings:  opts.Settings,
		log:       opts.Logger,
		presenter: opts.Presenter,
		windows:   opts.Windows,
		mirror:    opts.Mirror,
		restart:   opts.Restart,
		openDir:   openDir,
	}
	s.react()
	return s
}

func (s *Shell) attach(m *window.Manager) {
	s.windows = m
}

func (s *Shell) react() {
	s.settings.OnChange(settings.FieldEnableLogs, func(c settings.Change) {
		s.log.Reconfigure(c.After.EnableLogs)
		s.log.Info("Logging toggled", map[string]any{"enableLogs": c.After.EnableLogs})
	})
	s.settings.OnChange(settings.FieldDevMode, func(c settings.Change) {
		s.windows.SetDiagnostics(c.After.DevMode)
		if s.mirror {
			s.log.Mirror(c.After.DevMode)
		}
	})
	s.settings.OnChange(settings.FieldEnvironment, func(c settings.Change) {
		s.log.Info("Environment changed, restart required", map[string]any{
			"from": c.Before.Environment,
			"to":   c.After.Environment,
		})
	})
	if s.presenter != nil {
		onAny(s.settings, s.presenter.SettingsChanged,
			settings.FieldAPIRefreshInterval,
			settings.FieldRepresentativeName,
			settings.FieldUserID,
		)
	}
}

// onAny registers r to run once per save that changes any of fields.
func onAny(store *settings.Store, r settings.Reaction, fields ...string) {
	for _, field := range fields {
		store.OnChange(field, func(c settings.Change) {
			for _, name := range c.Fields {
				if slices.Contains(fields, name) {
					if name == field {
						r(c)
					}
					return
				}
			}
		})
	}
}

// GetSettings implements command.Handler.
func (s *Shell) GetSettings() settings.View {
	return s.settings.Get()
}

// SaveSettings implements command.Handler.
func (s *Shell) SaveSettings(p settings.Partial) (settings.Change, error) {
	c, err := s.settings.Save(p)
	if err != nil {
		s.log.Error("Failed to save settings", map[string]any{"error": err.Error()})
		return c, err
	}
	s.log.Info("Settings saved", map[string]any{"fields": c.Fields, "restartRequired": c.RestartRequired()})
	return c, nil
}

func (s *Shell) MinimizeWindow(role window.Role) {
	s.windows.Minimize(role)
}

func (s *Shell) CloseWindow(role window.Role) {
	s.windows.Close(role)
}

func (s *Shell) OpenSettings() {
	if _, err := s.windows.OpenSettings(s.settings.Settings().DevMode); err != nil {
		s.log.Error("Failed to open settings window", map[string]any{"error": err.Error()})
	}
}

func (s *Shell) Refresh() {
	s.presenter.Refresh()
}

func (s *Shell) ContentLoaded(role window.Role) {
	s.windows.ContentLoaded(role)
}

// OpenLogsDirectory opens the configured log directory, even while logging
// is disabled.
func (s *Shell) OpenLogsDirectory(ctx context.Context) error {
	dir := s.settings.LogsDir()
	if err := s.openDir(ctx, dir); err != nil {
		s.log.Error("Failed to open logs directory", map[string]any{"dir": dir, "error": err.Error()})
		return err
	}
	return nil
}

// WriteLog implements command.Handler.
func (s *Shell) WriteLog(level, message string, data map[string]any) {
	s.log.Write(logging.ParseLevel(level), message, data)
}

// RestartApp implements command.Handler.
func (s *Shell) RestartApp() error {
	s.log.Info("Restart requested", nil)
	if s.restart != nil {
		s.restart()
	}
	return nil
}
