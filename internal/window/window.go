package window

import "fmt"

// Role names a logical display surface.
type Role int

const (
	RoleSplash Role = iota
	RoleMain
	RoleSettings
)

func (r Role) String() string {
	switch r {
	case RoleSplash:
		return "splash"
	case RoleMain:
		return "main"
	case RoleSettings:
		return "settings"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole accepts the names produced by Role.String.
func ParseRole(s string) (Role, error) {
	switch s {
	case "splash":
		return RoleSplash, nil
	case "main", "":
		return RoleMain, nil
	case "settings", "about":
		return RoleSettings, nil
	default:
		return 0, fmt.Errorf("unknown window role %q", s)
	}
}

// State is a step in a role's lifecycle.
type State int

const (
	StateAbsent State = iota
	StateCreating
	StateHidden
	StateVisible
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateCreating:
		return "creating"
	case StateHidden:
		return "hidden"
	case StateVisible:
		return "visible"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "absent"
	}
}

// Size is a surface size in device independent pixels or terminal cells,
// depending on the driver.
type Size struct {
	Width, Height int
}

// DefaultSize returns the fixed size a role is created with.
func DefaultSize(r Role) Size {
	if r == RoleSettings {
		return Size{Width: 520, Height: 640}
	}
	return Size{Width: 500, Height: 350}
}

// Spec is what the manager asks a driver to create.
type Spec struct {
	Role    Role
	Size    Size
	DevMode bool
	// Hidden surfaces are created but not shown until the manager says so.
	Hidden bool
	// Parent is the main surface for the settings role, nil otherwise.
	Parent Surface
	// Diagnostics is the initial state of the diagnostics panel.
	Diagnostics bool
}

// Surface is one live window or screen owned by the manager.
type Surface interface {
	Show()
	Hide()
	Minimize()
	Focus()
	Close()
	SetDiagnostics(on bool)
}

// Driver creates surfaces for a frontend.
type Driver interface {
	Create(spec Spec) (Surface, error)
}

// Handle identifies one instance of a role.
type Handle struct {
	role Role
	gen  uint64
	done chan struct{}
}

func newHandle(role Role, gen uint64) *Handle {
	return &Handle{role: role, gen: gen, done: make(chan struct{})}
}

func (h *Handle) Role() Role         { return h.role }
func (h *Handle) Generation() uint64 { return h.gen }

// Done is closed when the instance has closed.
func (h *Handle) Done() <-chan struct{} { return h.done }
