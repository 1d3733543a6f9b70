package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/purse/internal/prefs"
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

// Options configures the UI.
type Options struct {
	Context   context.Context
	Driver    *Driver
	Commands  Commands
	Reload    func()
	LogsDir   func() string
	ThemeName string
	PrefsPath string
	Version   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	driver    *Driver
	cmds      Commands
	reload    func()
	logsDir   func() string
	prefsPath string
	version   string

	// UI state
	keys     keyMap
	help     help.Model
	theme    Theme
	spinner  spinner.Model
	diag     viewport.Model
	width    int
	height   int
	ready    bool
	showHelp bool
	status   string

	// Surface state
	frame     frame
	suspends  uint64
	loadedGen uint64
	form      *settingsForm
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Defaults().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logsDir := opts.LogsDir
	if logsDir == nil {
		logsDir = func() string { return "" }
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:       ctx,
		driver:    opts.Driver,
		cmds:      opts.Commands,
		reload:    opts.Reload,
		logsDir:   logsDir,
		prefsPath: prefsPath,
		version:   opts.Version,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		theme:     GetTheme(themeName),
		spinner:   sp,
		diag:      viewport.New(CardWidth, DiagnosticsHeight),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.spinner.Tick,
		tickCmd(TickInterval),
		func() tea.Msg { return syncMsg{} },
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case syncMsg:
		return m.handleSync()

	case tickMsg:
		var cmds []tea.Cmd
		if m.frame.diagnostics {
			cmds = append(cmds, diagnosticsCmd(m.logsDir()))
		}
		cmds = append(cmds, tickCmd(TickInterval))
		return m, tea.Batch(cmds...)

	case diagnosticsMsg:
		m.setDiagnostics(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case settingsLoadedMsg:
		if m.form != nil && m.form.gen == msg.gen {
			if msg.err != nil {
				m.form.err = msg.err.Error()
			} else {
				m.form.load(msg.view)
			}
		}
		return m, nil

	case settingsSavedMsg:
		if m.form != nil && m.form.gen == msg.gen {
			m.form.saved(msg.change, msg.err)
		}
		return m, nil

	case commandDoneMsg:
		m.status = ""
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		if m.form != nil && msg.err != nil {
			m.form.err = msg.err.Error()
		}
		return m, nil
	}

	return m, nil
}

// handleSync copies the driver's state into the model.
func (m Model) handleSync() (tea.Model, tea.Cmd) {
	if m.driver == nil {
		return m, nil
	}
	prev := m.frame
	m.frame = m.driver.frame()
	var cmds []tea.Cmd

	if m.frame.suspends > m.suspends {
		m.suspends = m.frame.suspends
		cmds = append(cmds, tea.Suspend)
	}

	switch {
	case m.frame.settingsGen == 0:
		m.form = nil
	case m.form == nil || m.form.gen != m.frame.settingsGen:
		m.form = newSettingsForm(m.frame.settingsGen)
		cmds = append(cmds, m.loadSettingsCmd(m.form.gen))
	}

	if m.frame.mainGen != 0 && m.frame.mainGen != m.loadedGen && m.frame.view.Kind != render.KindLoading {
		m.loadedGen = m.frame.mainGen
		cmds = append(cmds, m.post(func(c Commands) { c.ContentLoaded(window.RoleMain) }))
	}

	if m.frame.diagnostics && !prev.diagnostics {
		cmds = append(cmds, diagnosticsCmd(m.logsDir()))
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	switch {
	case m.frame.settings && m.form != nil:
		return m.place(m.form.View(m.theme))
	case m.frame.main:
		return m.renderMain()
	case m.frame.splash:
		return m.renderSplash()
	default:
		return ""
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, m.post(func(c Commands) { c.CloseWindow(window.RoleMain) })
	case "ctrl+o":
		return m, m.post(func(c Commands) { c.OpenSettings() })
	}

	if m.frame.settings && m.form != nil {
		return m.handleFormKey(msg)
	}
	if !m.frame.main {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		name := m.theme.Name
		_ = prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.Theme = name })
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.post(func(c Commands) { c.Refresh() })

	case key.Matches(msg, m.keys.Minimize):
		return m, m.post(func(c Commands) { c.MinimizeWindow(window.RoleMain) })

	case key.Matches(msg, m.keys.Quit):
		return m, m.post(func(c Commands) { c.CloseWindow(window.RoleMain) })

	case key.Matches(msg, m.keys.Reload):
		if m.frame.view.Kind == render.KindRecovery && m.reload != nil {
			reload := m.reload
			return m, func() tea.Msg {
				reload()
				return nil
			}
		}
		return m, nil
	}

	if m.frame.diagnostics {
		var cmd tea.Cmd
		m.diag, cmd = m.diag.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, action := m.form.Update(msg, m.keys)
	switch action {
	case actionSave:
		m.form.pending = true
		m.form.err = ""
		m.form.notice = ""
		return m, m.saveSettingsCmd(m.form.gen, m.form.partial())
	case actionClose:
		return m, m.post(func(c Commands) { c.CloseWindow(window.RoleSettings) })
	case actionOpenLogs:
		return m, m.call(func(ctx context.Context, c Commands) error { return c.OpenLogsDirectory(ctx) })
	case actionRestart:
		return m, m.call(func(ctx context.Context, c Commands) error { return c.RestartApp(ctx) })
	}
	return m, cmd
}

// Messages

type tickMsg time.Time

type settingsLoadedMsg struct {
	gen  uint64
	view settings.View
	err  error
}

type settingsSavedMsg struct {
	gen    uint64
	change settings.Change
	err    error
}

type commandDoneMsg struct {
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// post runs a fire-and-forget bus command.
func (m Model) post(fn func(Commands)) tea.Cmd {
	c := m.cmds
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		fn(c)
		return nil
	}
}

// call runs a request/response bus command and reports its error.
func (m Model) call(fn func(context.Context, Commands) error) tea.Cmd {
	c := m.cmds
	if c == nil {
		return nil
	}
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, CommandTimeout)
		defer cancel()
		return commandDoneMsg{err: fn(ctx, c)}
	}
}

func (m Model) loadSettingsCmd(gen uint64) tea.Cmd {
	c := m.cmds
	if c == nil {
		return nil
	}
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, CommandTimeout)
		defer cancel()
		v, err := c.GetSettings(ctx)
		return settingsLoadedMsg{gen: gen, view: v, err: err}
	}
}

func (m Model) saveSettingsCmd(gen uint64, p settings.Partial) tea.Cmd {
	c := m.cmds
	if c == nil {
		return nil
	}
	parent := m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, CommandTimeout)
		defer cancel()
		change, err := c.SaveSettings(ctx, p)
		return settingsSavedMsg{gen: gen, change: change, err: err}
	}
}

// Run drives the program until it quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	if opts.Context == nil {
		opts.Context = ctx
	}
	p := tea.NewProgram(New(opts), tea.WithContext(ctx))
	if opts.Driver != nil {
		opts.Driver.Attach(p)
	}
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
