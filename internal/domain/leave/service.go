package leave

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

type ScheduleInput struct {
	EmployeeID string    `json:"employeeId" yaml:"employeeId"`
	StartDate  time.Time `json:"startDate" yaml:"startDate"`
	EndDate    time.Time `json:"endDate" yaml:"endDate"`
}

func (s *Service) ScheduleVacation(ctx context.Context, in ScheduleInput) (*VacationSchedule, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" {
		return nil, ErrEmployeeRequired
	}
	days, err := CalculateDays(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	schedule := VacationSchedule{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		StartDate:  in.StartDate.UTC(),
		EndDate:    in.EndDate.UTC(),
		Days:       days,
		CreatedAt:  s.now().UTC(),
	}

	existing, err := s.store.ListSchedules(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if overlaps(schedule, other) {
			return nil, fmt.Errorf("schedule %s: %w", other.ID, ErrOverlappingVacations)
		}
	}

	if err := s.store.CreateSchedule(ctx, &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (s *Service) ListSchedules(ctx context.Context, employeeID string) ([]VacationSchedule, error) {
	return s.store.ListSchedules(ctx, employeeID)
}

// SubsidiesDue returns, per employee, the unpaid schedule whose holiday subsidy is owed in
// the payroll of year/month.
func (s *Service) SubsidiesDue(ctx context.Context, year int, month time.Month) (map[string]VacationSchedule, error) {
	nextYear, nextMonth := NextMonth(year, month)
	schedules, err := s.store.ListSchedulesStarting(ctx, nextYear, nextMonth)
	if err != nil {
		return nil, err
	}
	due := make(map[string]VacationSchedule, len(schedules))
	for _, schedule := range schedules {
		if !SubsidyDue(schedule, year, month) {
			continue
		}
		if current, ok := due[schedule.EmployeeID]; ok && current.StartDate.Before(schedule.StartDate) {
			continue
		}
		due[schedule.EmployeeID] = schedule
	}
	return due, nil
}

func (s *Service) MarkSubsidyPaid(ctx context.Context, scheduleID, periodID string) error {
	return s.store.MarkSubsidyPaid(ctx, scheduleID, periodID, s.now().UTC())
}
