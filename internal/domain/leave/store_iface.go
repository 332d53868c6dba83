package leave

import (
	"context"
	"time"
)

type StoreAPI interface {
	CreateSchedule(ctx context.Context, schedule *VacationSchedule) error
	ListSchedules(ctx context.Context, employeeID string) ([]VacationSchedule, error)
	ListSchedulesStarting(ctx context.Context, year int, month time.Month) ([]VacationSchedule, error)
	MarkSubsidyPaid(ctx context.Context, scheduleID, periodID string, paidAt time.Time) error
}
