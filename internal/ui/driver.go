package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/purse/internal/render"
	"github.com/five82/purse/internal/window"
)

// Driver creates terminal screens for the window manager. Screen state lives
// here under a lock; the program is only nudged to redraw, so the order in
// which nudges arrive does not matter.
type Driver struct {
	mu       sync.Mutex
	program  *tea.Program
	screens  map[window.Role]*screen
	gen      uint64
	view     render.View
	suspends uint64
}

var _ window.Driver = (*Driver)(nil)

// NewDriver returns a Driver with no screens.
func NewDriver() *Driver {
	return &Driver{screens: make(map[window.Role]*screen)}
}

// Attach binds the running program. Screens created before Attach are drawn
// on the program's first frame.
func (d *Driver) Attach(p *tea.Program) {
	d.mu.Lock()
	d.program = p
	d.mu.Unlock()
	d.nudge()
}

// Quit stops the program.
func (d *Driver) Quit() {
	d.mu.Lock()
	p := d.program
	d.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

// Publish replaces the view shown on the main screen.
func (d *Driver) Publish(v render.View) {
	d.mu.Lock()
	d.view = v
	d.mu.Unlock()
	d.nudge()
}

// Create implements window.Driver.
func (d *Driver) Create(spec window.Spec) (window.Surface, error) {
	d.mu.Lock()
	d.gen++
	s := &screen{
		driver:      d,
		role:        spec.Role,
		gen:         d.gen,
		visible:     !spec.Hidden,
		devMode:     spec.DevMode,
		diagnostics: spec.Diagnostics,
	}
	d.screens[spec.Role] = s
	d.mu.Unlock()
	d.nudge()
	return s, nil
}

type syncMsg struct{}

// nudge asks the program to redraw. Send blocks until the event loop reads
// the message, so it never runs on the caller's goroutine.
func (d *Driver) nudge() {
	d.mu.Lock()
	p := d.program
	d.mu.Unlock()
	if p != nil {
		go p.Send(syncMsg{})
	}
}

// frame is what the model draws from.
type frame struct {
	view        render.View
	splash      bool
	main        bool
	mainGen     uint64
	settings    bool
	settingsGen uint64
	devMode     bool
	diagnostics bool
	suspends    uint64
}

func (d *Driver) frame() frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	f := frame{view: d.view, suspends: d.suspends}
	if s := d.screens[window.RoleSplash]; s != nil {
		f.splash = s.visible
	}
	if s := d.screens[window.RoleMain]; s != nil {
		f.main = s.visible
		f.mainGen = s.gen
		f.diagnostics = s.diagnostics
	}
	if s := d.screens[window.RoleSettings]; s != nil {
		f.settings = s.visible
		f.settingsGen = s.gen
		f.devMode = s.devMode
	}
	return f
}

type screen struct {
	driver *Driver
	role   window.Role
	gen    uint64

	visible     bool
	devMode     bool
	diagnostics bool
}

func (s *screen) update(fn func()) {
	s.driver.mu.Lock()
	if s.driver.screens[s.role] != s {
		s.driver.mu.Unlock()
		return
	}
	fn()
	s.driver.mu.Unlock()
	s.driver.nudge()
}

func (s *screen) Show()  { s.update(func() { s.visible = true }) }
func (s *screen) Hide()  { s.update(func() { s.visible = false }) }
func (s *screen) Focus() { s.update(func() { s.visible = true }) }

// Minimize suspends the whole program; a terminal has only one screen.
func (s *screen) Minimize() {
	s.update(func() { s.driver.suspends++ })
}

func (s *screen) SetDiagnostics(on bool) {
	s.update(func() { s.diagnostics = on })
}

func (s *screen) Close() {
	s.update(func() { delete(s.driver.screens, s.role) })
}
