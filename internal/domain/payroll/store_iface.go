package payroll

import (
	"context"
	"time"

	"angopay/internal/domain/core"
	"angopay/internal/domain/leave"
)

type StoreAPI interface {
	CreatePeriod(ctx context.Context, period *Period) error
	GetPeriod(ctx context.Context, periodID string) (*Period, error)
	ListPeriods(ctx context.Context) ([]Period, error)
	UpdatePeriod(ctx context.Context, period *Period) error
	// UpdatePeriodTotals writes only the aggregate columns and never touches status.
	UpdatePeriodTotals(ctx context.Context, periodID string, totals Totals, employeeCount int, updatedAt time.Time) error
	ListEntries(ctx context.Context, periodID string) ([]Entry, error)
	GetEntry(ctx context.Context, periodID, employeeID string) (*Entry, error)
	// ReplaceEntries swaps the full entry set of a period in one step.
	ReplaceEntries(ctx context.Context, periodID string, entries []Entry) error
	SaveEntry(ctx context.Context, entry *Entry) error
	SetEntriesStatus(ctx context.Context, periodID string, status Status, at time.Time) error
}

type EmployeeSource interface {
	GetEmployee(ctx context.Context, employeeID string) (*core.Employee, error)
	ListEmployees(ctx context.Context, filter core.ListFilter) ([]core.Employee, error)
}

type VacationSource interface {
	SubsidiesDue(ctx context.Context, year int, month time.Month) (map[string]leave.VacationSchedule, error)
	MarkSubsidyPaid(ctx context.Context, scheduleID, periodID string) error
}

type AuditRecorder interface {
	Record(ctx context.Context, actorID, action, entityType, entityID string, before, after any) error
}

type TransactionManager interface {
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
