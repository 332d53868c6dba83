package memory

import (
	"context"
	"sort"

	"angopay/internal/domain/adjustment"
	"angopay/internal/domain/audit"
	"angopay/internal/domain/termination"
)

func (s *Store) CreateAdjustment(ctx context.Context, adj *adjustment.Adjustment) error {
	defer s.lock(ctx)()
	s.data.adjustments[adj.ID] = *adj
	return nil
}

func (s *Store) GetAdjustment(_ context.Context, id string) (*adjustment.Adjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	adj, ok := s.data.adjustments[id]
	if !ok {
		return nil, adjustment.ErrAdjustmentNotFound
	}
	return &adj, nil
}

func (s *Store) ListAdjustments(_ context.Context, filter adjustment.ListFilter) ([]adjustment.Adjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []adjustment.Adjustment
	for _, adj := range s.data.adjustments {
		if filter.EmployeeID != "" && adj.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Status != "" && adj.Status != filter.Status {
			continue
		}
		out = append(out, adj)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateAdjustment(ctx context.Context, adj *adjustment.Adjustment) error {
	defer s.lock(ctx)()
	if _, ok := s.data.adjustments[adj.ID]; !ok {
		return adjustment.ErrAdjustmentNotFound
	}
	s.data.adjustments[adj.ID] = *adj
	return nil
}

func (s *Store) CreateRecord(ctx context.Context, rec *termination.Record) error {
	defer s.lock(ctx)()
	s.data.terminations = append(s.data.terminations, *rec)
	return nil
}

func (s *Store) ListRecords(_ context.Context, employeeID string) ([]termination.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []termination.Record
	for _, rec := range s.data.terminations {
		if employeeID == "" || rec.EmployeeID == employeeID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *Store) InsertEvent(ctx context.Context, evt audit.Event) error {
	defer s.lock(ctx)()
	s.data.events = append(s.data.events, evt)
	return nil
}

// ListEvents returns the newest events first.
func (s *Store) ListEvents(_ context.Context, filter audit.Filter, limit, offset int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []audit.Event
	for i := len(s.data.events) - 1; i >= 0; i-- {
		evt := s.data.events[i]
		if filter.Action != "" && evt.Action != filter.Action {
			continue
		}
		if filter.EntityType != "" && evt.EntityType != filter.EntityType {
			continue
		}
		if filter.EntityID != "" && evt.EntityID != filter.EntityID {
			continue
		}
		if filter.ActorID != "" && evt.ActorID != filter.ActorID {
			continue
		}
		matched = append(matched, evt)
	}
	if offset >= len(matched) {
		return []audit.Event{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}
