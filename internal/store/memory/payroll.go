package memory

import (
	"context"
	"sort"
	"time"

	"angopay/internal/domain/payroll"
)

func (s *Store) CreatePeriod(ctx context.Context, period *payroll.Period) error {
	defer s.lock(ctx)()
	for _, existing := range s.data.periods {
		if existing.Year == period.Year && existing.Month == period.Month {
			return payroll.ErrPeriodExists
		}
	}
	s.data.periods[period.ID] = *period
	return nil
}

func (s *Store) GetPeriod(_ context.Context, periodID string) (*payroll.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	period, ok := s.data.periods[periodID]
	if !ok {
		return nil, payroll.ErrPeriodNotFound
	}
	return &period, nil
}

func (s *Store) ListPeriods(_ context.Context) ([]payroll.Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]payroll.Period, 0, len(s.data.periods))
	for _, p := range s.data.periods {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].Month > out[j].Month
	})
	return out, nil
}

func (s *Store) UpdatePeriod(ctx context.Context, period *payroll.Period) error {
	defer s.lock(ctx)()
	if _, ok := s.data.periods[period.ID]; !ok {
		return payroll.ErrPeriodNotFound
	}
	s.data.periods[period.ID] = *period
	return nil
}

func (s *Store) UpdatePeriodTotals(ctx context.Context, periodID string, totals payroll.Totals, employeeCount int, updatedAt time.Time) error {
	defer s.lock(ctx)()
	period, ok := s.data.periods[periodID]
	if !ok {
		return payroll.ErrPeriodNotFound
	}
	period.Totals = totals
	period.EmployeeCount = employeeCount
	period.UpdatedAt = updatedAt
	s.data.periods[periodID] = period
	return nil
}

func (s *Store) ListEntries(_ context.Context, periodID string) ([]payroll.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byEmployee := s.data.entries[periodID]
	out := make([]payroll.Entry, 0, len(byEmployee))
	for _, e := range byEmployee {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeName == out[j].EmployeeName {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return out[i].EmployeeName < out[j].EmployeeName
	})
	return out, nil
}

func (s *Store) GetEntry(_ context.Context, periodID, employeeID string) (*payroll.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.data.entries[periodID][employeeID]
	if !ok {
		return nil, payroll.ErrEntryNotFound
	}
	return &entry, nil
}

func (s *Store) ReplaceEntries(ctx context.Context, periodID string, entries []payroll.Entry) error {
	defer s.lock(ctx)()
	if _, ok := s.data.periods[periodID]; !ok {
		return payroll.ErrPeriodNotFound
	}
	byEmployee := make(map[string]payroll.Entry, len(entries))
	for _, e := range entries {
		byEmployee[e.EmployeeID] = e
	}
	s.data.entries[periodID] = byEmployee
	return nil
}

func (s *Store) SaveEntry(ctx context.Context, entry *payroll.Entry) error {
	defer s.lock(ctx)()
	byEmployee, ok := s.data.entries[entry.PeriodID]
	if !ok {
		return payroll.ErrEntryNotFound
	}
	if _, ok := byEmployee[entry.EmployeeID]; !ok {
		return payroll.ErrEntryNotFound
	}
	byEmployee[entry.EmployeeID] = *entry
	return nil
}

func (s *Store) SetEntriesStatus(ctx context.Context, periodID string, status payroll.Status, at time.Time) error {
	defer s.lock(ctx)()
	for id, e := range s.data.entries[periodID] {
		e.Status = status
		e.UpdatedAt = at
		s.data.entries[periodID][id] = e
	}
	return nil
}
