package memory

import (
	"context"
	"sort"
	"time"

	"angopay/internal/domain/core"
	"angopay/internal/domain/leave"
)

func (s *Store) CreateEmployee(ctx context.Context, emp *core.Employee) error {
	defer s.lock(ctx)()
	for _, existing := range s.data.employees {
		if existing.Code == emp.Code {
			return core.ErrEmployeeCodeExists
		}
	}
	s.data.employees[emp.ID] = *emp
	return nil
}

func (s *Store) GetEmployee(_ context.Context, employeeID string) (*core.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	emp, ok := s.data.employees[employeeID]
	if !ok {
		return nil, core.ErrEmployeeNotFound
	}
	return &emp, nil
}

func (s *Store) ListEmployees(_ context.Context, filter core.ListFilter) ([]core.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Employee, 0, len(s.data.employees))
	for _, emp := range s.data.employees {
		if filter.Status != "" && emp.Status != filter.Status {
			continue
		}
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, emp *core.Employee) error {
	defer s.lock(ctx)()
	if _, ok := s.data.employees[emp.ID]; !ok {
		return core.ErrEmployeeNotFound
	}
	s.data.employees[emp.ID] = *emp
	return nil
}

func (s *Store) CreateSchedule(ctx context.Context, schedule *leave.VacationSchedule) error {
	defer s.lock(ctx)()
	if _, ok := s.data.employees[schedule.EmployeeID]; !ok {
		return core.ErrEmployeeNotFound
	}
	s.data.schedules[schedule.ID] = *schedule
	return nil
}

func (s *Store) ListSchedules(_ context.Context, employeeID string) ([]leave.VacationSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []leave.VacationSchedule
	for _, schedule := range s.data.schedules {
		if employeeID == "" || schedule.EmployeeID == employeeID {
			out = append(out, schedule)
		}
	}
	sortSchedules(out)
	return out, nil
}

func (s *Store) ListSchedulesStarting(_ context.Context, year int, month time.Month) ([]leave.VacationSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []leave.VacationSchedule
	for _, schedule := range s.data.schedules {
		if schedule.StartDate.Year() == year && schedule.StartDate.Month() == month {
			out = append(out, schedule)
		}
	}
	sortSchedules(out)
	return out, nil
}

func (s *Store) MarkSubsidyPaid(ctx context.Context, scheduleID, periodID string, paidAt time.Time) error {
	defer s.lock(ctx)()
	schedule, ok := s.data.schedules[scheduleID]
	if !ok {
		return leave.ErrScheduleNotFound
	}
	if schedule.SubsidyPaid {
		return leave.ErrSubsidyAlreadyPaid
	}
	schedule.SubsidyPaid = true
	schedule.SubsidyPeriodID = periodID
	schedule.SubsidyPaidAt = &paidAt
	s.data.schedules[scheduleID] = schedule
	return nil
}

func sortSchedules(schedules []leave.VacationSchedule) {
	sort.Slice(schedules, func(i, j int) bool {
		if schedules[i].StartDate.Equal(schedules[j].StartDate) {
			return schedules[i].ID < schedules[j].ID
		}
		return schedules[i].StartDate.Before(schedules[j].StartDate)
	})
}
