package state

import (
	"errors"
	"testing"
	"time"

	"github.com/five82/purse/internal/balance"
)

func amount(v float64) *float64 { return &v }

func TestStore_StartsLoading(t *testing.T) {
	var s Store
	if !s.Snapshot().Loading() {
		t.Fatal("new store should be loading")
	}
}

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store
	at := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	rec := &balance.Record{FirstName: "A", LastName: "B", Amount: amount(42)}

	s.Update(1, rec, nil, at)
	rec.FirstName = "mutated"
	*rec.Amount = 7

	snap := s.Snapshot()
	if snap.Loading() || snap.Seq != 1 || !snap.LastUpdated.Equal(at) {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Record.FirstName != "A" || *snap.Record.Amount != 42 {
		t.Fatalf("record was not copied: %+v", snap.Record)
	}

	snap.Record.LastName = "changed"
	if s.Snapshot().Record.LastName != "B" {
		t.Fatal("snapshot shares memory with store")
	}
}

func TestStore_ErrorDiscardsRecord(t *testing.T) {
	var s Store
	s.Update(1, &balance.Record{FirstName: "A"}, nil, time.Now())
	s.Update(2, nil, errors.New("API Error: 500 Internal Server Error - boom"), time.Now())

	snap := s.Snapshot()
	if snap.Record != nil {
		t.Fatalf("record kept after failure: %+v", snap.Record)
	}
	if snap.Err == nil || snap.Seq != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}

	s.Update(3, &balance.Record{FirstName: "C"}, nil, time.Now())
	if snap := s.Snapshot(); snap.Err != nil || snap.Record == nil {
		t.Fatalf("success did not clear error: %+v", snap)
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store
	boom := errors.New("boom")

	s.Update(1, nil, boom, time.Now())
	s.Update(2, nil, boom, time.Now())
	if got := s.Snapshot().ConsecutiveFailures; got != 2 {
		t.Fatalf("ConsecutiveFailures = %d, want 2", got)
	}
	s.Update(3, &balance.Record{}, nil, time.Now())
	if got := s.Snapshot().ConsecutiveFailures; got != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0", got)
	}
}

func TestStore_Reset(t *testing.T) {
	var s Store
	s.Update(1, &balance.Record{}, nil, time.Now())
	s.Reset()
	if !s.Snapshot().Loading() {
		t.Fatal("Reset should return to loading")
	}
}
