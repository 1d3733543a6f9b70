package state

import (
	"sync"
	"time"

	"github.com/five82/purse/internal/balance"
)

// Snapshot represents the outcome of the latest polling cycle.
type Snapshot struct {
	Record              *balance.Record
	Err                 error
	HasResult           bool
	Seq                 uint64
	LastUpdated         time.Time
	ConsecutiveFailures int
}

// Loading reports whether no cycle has completed yet.
func (s Snapshot) Loading() bool {
	return !s.HasResult
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records the result of cycle seq. A failure replaces the previous
// record: the card never shows stale data next to an error.
func (s *Store) Update(seq uint64, rec *balance.Record, err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.HasResult = true
	s.snapshot.Seq = seq
	s.snapshot.LastUpdated = at

	if err != nil {
		s.snapshot.Record = nil
		s.snapshot.Err = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Record = cloneRecord(rec)
	s.snapshot.Err = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Reset returns the store to the loading state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Record = cloneRecord(s.snapshot.Record)
	return snap
}

func cloneRecord(rec *balance.Record) *balance.Record {
	if rec == nil {
		return nil
	}
	dup := *rec
	if rec.Amount != nil {
		v := *rec.Amount
		dup.Amount = &v
	}
	return &dup
}
