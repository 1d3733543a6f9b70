package window

import (
	"fmt"
	"sync"
	"time"
)

// DefaultMinSplash is how long the splash stays up at minimum.
const DefaultMinSplash = 1500 * time.Millisecond

// Event reports a state transition.
type Event struct {
	Role       Role
	Generation uint64
	From, To   State
}

// Options configures a Manager.
type Options struct {
	// MinSplash is the minimum time the splash is shown. Zero means
	// DefaultMinSplash; a negative value disables the minimum.
	MinSplash time.Duration
	// KeepAlive keeps the process running after the main surface closes.
	KeepAlive bool
	// OnQuit runs when the main surface closes and KeepAlive is false.
	OnQuit func()
	// OnEvent observes transitions. It runs with the manager locked and must
	// not call back into it.
	OnEvent func(Event)
}

type entry struct {
	handle  *Handle
	surface Surface
	state   State
	shownAt time.Time

	loaded         bool
	closeRequested bool
	retired        bool
}

// Manager owns every surface and sequences the splash to main hand-off.
// Driver methods are always called without the manager's lock held, so a
// driver may report back (Closed, ContentLoaded) from inside them.
type Manager struct {
	driver    Driver
	minSplash time.Duration
	keepAlive bool
	onQuit    func()
	onEvent   func(Event)
	now       func() time.Time

	mu          sync.Mutex
	arena       map[Role]*entry
	last        map[Role]State
	gen         uint64
	devMode     bool
	diagnostics bool
	handoff     *time.Timer
	shutdown    bool
}

// NewManager returns a Manager creating surfaces through d.
func NewManager(d Driver, opts Options) *Manager {
	minSplash := opts.MinSplash
	if minSplash == 0 {
		minSplash = DefaultMinSplash
	}
	return &Manager{
		driver:    d,
		minSplash: minSplash,
		keepAlive: opts.KeepAlive,
		onQuit:    opts.OnQuit,
		onEvent:   opts.OnEvent,
		now:       time.Now,
		arena:     make(map[Role]*entry),
		last:      make(map[Role]State),
	}
}

// Live reports whether an instance of role exists.
func (m *Manager) Live(role Role) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.arena[role] != nil
}

// State returns the current state of role, or its terminal state when no
// instance is live.
func (m *Manager) State(role Role) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e := m.arena[role]; e != nil {
		return e.state
	}
	return m.last[role]
}

// Handle returns the live handle for role, or nil.
func (m *Manager) Handle(role Role) *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e := m.arena[role]; e != nil {
		return e.handle
	}
	return nil
}

// OpenSplash creates the splash surface and shows it.
func (m *Manager) OpenSplash() (*Handle, error) {
	e, existing := m.begin(RoleSplash)
	if existing {
		return e.handle, nil
	}
	surface, err := m.driver.Create(Spec{Role: RoleSplash, Size: DefaultSize(RoleSplash)})
	return m.finishCreate(e, surface, err)
}

// OpenMain creates the main surface hidden. It is revealed by ContentLoaded.
func (m *Manager) OpenMain(devMode bool) (*Handle, error) {
	m.mu.Lock()
	m.devMode = devMode
	diagnostics := m.diagnostics
	m.mu.Unlock()

	e, existing := m.begin(RoleMain)
	if existing {
		return e.handle, nil
	}
	surface, err := m.driver.Create(Spec{
		Role:        RoleMain,
		Size:        DefaultSize(RoleMain),
		DevMode:     devMode,
		Hidden:      true,
		Diagnostics: diagnostics,
	})
	return m.finishCreate(e, surface, err)
}

// OpenSettings shows the settings surface. A second call while one is live
// focuses the existing instance.
func (m *Manager) OpenSettings(devMode bool) (*Handle, error) {
	m.mu.Lock()
	if e := m.arena[RoleSettings]; e != nil {
		surface := e.surface
		ready := e.state == StateVisible
		m.mu.Unlock()
		if ready && surface != nil {
			surface.Show()
			surface.Focus()
		}
		return e.handle, nil
	}
	var parent Surface
	if main := m.arena[RoleMain]; main != nil {
		parent = main.surface
	}
	m.mu.Unlock()

	e, existing := m.begin(RoleSettings)
	if existing {
		return e.handle, nil
	}
	surface, err := m.driver.Create(Spec{
		Role:    RoleSettings,
		Size:    DefaultSize(RoleSettings),
		DevMode: devMode,
		Parent:  parent,
	})
	return m.finishCreate(e, surface, err)
}

// Activate brings the main surface forward, re-creating it when none is live.
func (m *Manager) Activate() (*Handle, error) {
	m.mu.Lock()
	if e := m.arena[RoleMain]; e != nil {
		surface := e.surface
		visible := e.state == StateVisible
		m.mu.Unlock()
		if visible && surface != nil {
			surface.Show()
			surface.Focus()
		}
		return e.handle, nil
	}
	devMode := m.devMode
	m.mu.Unlock()
	return m.OpenMain(devMode)
}

// Minimize minimizes the live surface of role.
func (m *Manager) Minimize(role Role) {
	m.mu.Lock()
	var surface Surface
	if e := m.arena[role]; e != nil && e.state == StateVisible {
		surface = e.surface
	}
	m.mu.Unlock()
	if surface != nil {
		surface.Minimize()
	}
}

// ContentLoaded records that role finished loading its content. The first
// load of each main instance starts the hand-off; later ones are ignored.
func (m *Manager) ContentLoaded(role Role) {
	if role != RoleMain {
		return
	}
	m.mu.Lock()
	e := m.arena[RoleMain]
	if e == nil || e.loaded {
		m.mu.Unlock()
		return
	}
	e.loaded = true
	creating := e.state == StateCreating
	m.mu.Unlock()

	if !creating {
		m.reveal(e)
	}
}

// SetDiagnostics toggles the diagnostics panel on the main surface and
// remembers the choice for instances created later.
func (m *Manager) SetDiagnostics(on bool) {
	m.mu.Lock()
	m.diagnostics = on
	var surface Surface
	if e := m.arena[RoleMain]; e != nil {
		surface = e.surface
	}
	m.mu.Unlock()
	if surface != nil {
		surface.SetDiagnostics(on)
	}
}

// Diagnostics reports the remembered diagnostics state.
func (m *Manager) Diagnostics() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.diagnostics
}

// Close closes the live instance of role.
func (m *Manager) Close(role Role) {
	m.mu.Lock()
	e := m.arena[role]
	if e == nil || e.state == StateClosing {
		m.mu.Unlock()
		return
	}
	m.set(e, StateClosing)
	m.mu.Unlock()
	m.closeSurface(e)
}

// CloseHandle closes h if it is still the live instance of its role.
func (m *Manager) CloseHandle(h *Handle) {
	if h == nil {
		return
	}
	m.mu.Lock()
	e := m.arena[h.role]
	m.mu.Unlock()
	if e != nil && e.handle == h {
		m.Close(h.role)
	}
}

// Closed is called by a driver when the user closed role's surface directly.
func (m *Manager) Closed(role Role) {
	m.mu.Lock()
	e := m.arena[role]
	if e == nil || e.retired {
		m.mu.Unlock()
		return
	}
	if e.state != StateClosing {
		m.set(e, StateClosing)
	}
	quit := m.retire(e)
	m.mu.Unlock()
	m.afterRetire(e, quit)
}

// Shutdown closes every live surface without triggering OnQuit.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.shutdown = true
	m.stopHandoff()
	roles := make([]Role, 0, len(m.arena))
	for _, r := range []Role{RoleSettings, RoleSplash, RoleMain} {
		if m.arena[r] != nil {
			roles = append(roles, r)
		}
	}
	m.mu.Unlock()
	for _, r := range roles {
		m.Close(r)
	}
}

// begin reserves the arena slot for role. existing is true when an instance
// was already live; the caller must not create another.
func (m *Manager) begin(role Role) (e *entry, existing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e := m.arena[role]; e != nil {
		return e, true
	}
	m.gen++
	e = &entry{handle: newHandle(role, m.gen), state: StateAbsent}
	m.arena[role] = e
	m.set(e, StateCreating)
	return e, false
}

func (m *Manager) finishCreate(e *entry, surface Surface, err error) (*Handle, error) {
	role := e.handle.role
	m.mu.Lock()
	if err != nil {
		e.retired = true
		m.set(e, StateAbsent)
		if m.arena[role] == e {
			delete(m.arena, role)
		}
		close(e.handle.done)
		m.mu.Unlock()
		return nil, fmt.Errorf("create %s window: %w", role, err)
	}
	e.surface = surface

	if e.closeRequested {
		m.mu.Unlock()
		m.closeSurface(e)
		return e.handle, nil
	}

	var show, focus bool
	switch role {
	case RoleSplash:
		m.set(e, StateVisible)
		e.shownAt = m.now()
		show = true
	case RoleMain:
		m.set(e, StateHidden)
	case RoleSettings:
		m.set(e, StateVisible)
		show, focus = true, true
	}
	loaded := e.loaded
	m.mu.Unlock()

	if show {
		surface.Show()
	}
	if focus {
		surface.Focus()
	}
	if role == RoleMain && loaded {
		m.reveal(e)
	}
	return e.handle, nil
}

// reveal shows main once the splash has been up for minSplash, closing the
// splash first.
func (m *Manager) reveal(e *entry) {
	m.mu.Lock()
	if m.arena[RoleMain] != e || e.state != StateHidden {
		m.mu.Unlock()
		return
	}

	splash := m.arena[RoleSplash]
	if splash != nil && (splash.state == StateCreating || splash.state == StateVisible) {
		wait := m.minSplash
		if splash.state == StateVisible {
			wait -= m.now().Sub(splash.shownAt)
		}
		if wait > 0 {
			m.stopHandoff()
			m.handoff = time.AfterFunc(wait, func() { m.reveal(e) })
			m.mu.Unlock()
			return
		}
	}
	m.handoff = nil

	var closing *entry
	if splash != nil && splash.state != StateClosing {
		m.set(splash, StateClosing)
		closing = splash
	}
	m.set(e, StateVisible)
	surface := e.surface
	m.mu.Unlock()

	if closing != nil {
		m.closeSurface(closing)
	}
	surface.Show()
}

// closeSurface closes an entry already marked Closing. An entry still being
// created is closed as soon as its surface exists.
func (m *Manager) closeSurface(e *entry) {
	m.mu.Lock()
	surface := e.surface
	if surface == nil {
		e.closeRequested = true
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	surface.Close()

	m.mu.Lock()
	quit := m.retire(e)
	m.mu.Unlock()
	m.afterRetire(e, quit)
}

// retire moves e to its terminal state and frees the role. It reports
// whether the process should quit. Callers hold m.mu.
func (m *Manager) retire(e *entry) bool {
	if e.retired {
		return false
	}
	e.retired = true
	role := e.handle.role
	terminal := StateClosed
	if role == RoleSettings {
		terminal = StateAbsent
	}
	m.set(e, terminal)
	m.last[role] = terminal
	if m.arena[role] == e {
		delete(m.arena, role)
	}
	close(e.handle.done)

	if role != RoleMain {
		return false
	}
	m.stopHandoff()
	return !m.keepAlive && !m.shutdown
}

func (m *Manager) afterRetire(e *entry, quit bool) {
	if e.handle.role != RoleMain {
		return
	}
	m.Close(RoleSettings)
	m.Close(RoleSplash)
	if quit && m.onQuit != nil {
		m.onQuit()
	}
}

func (m *Manager) stopHandoff() {
	if m.handoff != nil {
		m.handoff.Stop()
		m.handoff = nil
	}
}

func (m *Manager) set(e *entry, to State) {
	from := e.state
	e.state = to
	if m.onEvent != nil && from != to {
		m.onEvent(Event{Role: e.handle.role, Generation: e.handle.gen, From: from, To: to})
	}
}
