package render

import "sync"

// Supervisor turns render faults into the recovery panel. Once a fault is
// latched every render returns the recovery panel until Reload.
type Supervisor struct {
	mu      sync.Mutex
	fault   error
	onFault func(error)
}

// NewSupervisor returns a Supervisor that reports each latched fault to onFault.
func NewSupervisor(onFault func(error)) *Supervisor {
	return &Supervisor{onFault: onFault}
}

// Render computes the view for in, or the recovery panel.
func (s *Supervisor) Render(in Input) View {
	s.mu.Lock()
	if s.fault != nil {
		v := recovery(s.fault)
		s.mu.Unlock()
		return v
	}
	s.mu.Unlock()

	v, err := Compute(in)
	if err != nil {
		s.Report(err)
		return s.Render(in)
	}
	return v
}

// Report latches err as if it came from Compute. Frontends use it for faults
// in their own drawing code.
func (s *Supervisor) Report(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	if s.fault != nil {
		s.mu.Unlock()
		return
	}
	s.fault = err
	s.mu.Unlock()
	if s.onFault != nil {
		s.onFault(err)
	}
}

// Fault returns the latched fault, if any.
func (s *Supervisor) Fault() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fault
}

// Reload clears the latch.
func (s *Supervisor) Reload() {
	s.mu.Lock()
	s.fault = nil
	s.mu.Unlock()
}

func recovery(err error) View {
	return View{Kind: KindRecovery, Message: err.Error()}
}
