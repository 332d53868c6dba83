// Package memory keeps every repository in process memory. It backs STORE_DRIVER=memory
// and the service tests.
package memory

import (
	"context"
	"sync"

	"angopay/internal/domain/adjustment"
	"angopay/internal/domain/audit"
	"angopay/internal/domain/core"
	"angopay/internal/domain/leave"
	"angopay/internal/domain/payroll"
	"angopay/internal/domain/termination"
	"angopay/internal/platform/jobs"
)

type state struct {
	employees    map[string]core.Employee
	schedules    map[string]leave.VacationSchedule
	periods      map[string]payroll.Period
	entries      map[string]map[string]payroll.Entry
	adjustments  map[string]adjustment.Adjustment
	terminations []termination.Record
	events       []audit.Event
	runs         map[string]jobs.Run
}

func newState() state {
	return state{
		employees:   map[string]core.Employee{},
		schedules:   map[string]leave.VacationSchedule{},
		periods:     map[string]payroll.Period{},
		entries:     map[string]map[string]payroll.Entry{},
		adjustments: map[string]adjustment.Adjustment{},
		runs:        map[string]jobs.Run{},
	}
}

// clone copies every map so a snapshot survives later writes. Values are stored by value;
// nested pointers are never mutated in place.
func (s state) clone() state {
	out := newState()
	for k, v := range s.employees {
		out.employees[k] = v
	}
	for k, v := range s.schedules {
		out.schedules[k] = v
	}
	for k, v := range s.periods {
		out.periods[k] = v
	}
	for periodID, byEmployee := range s.entries {
		copied := make(map[string]payroll.Entry, len(byEmployee))
		for k, v := range byEmployee {
			copied[k] = v
		}
		out.entries[periodID] = copied
	}
	for k, v := range s.adjustments {
		out.adjustments[k] = v
	}
	out.terminations = append(out.terminations, s.terminations...)
	out.events = append(out.events, s.events...)
	for k, v := range s.runs {
		out.runs[k] = v
	}
	return out
}

type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data state
}

func New() *Store {
	return &Store{data: newState()}
}

type txKey struct{}

// WithinReadWrite serializes fn against other transactions and restores the previous state
// when fn fails. Nested calls join the outer transaction.
func (s *Store) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// lock takes the write lock. Writes outside a transaction also wait for any open
// transaction, so its rollback snapshot cannot discard them.
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

func (s *Store) Ping(context.Context) error {
	return nil
}
