package adjustment

import (
	"context"

	"angopay/internal/domain/core"
)

type StoreAPI interface {
	CreateAdjustment(ctx context.Context, adj *Adjustment) error
	GetAdjustment(ctx context.Context, id string) (*Adjustment, error)
	ListAdjustments(ctx context.Context, filter ListFilter) ([]Adjustment, error)
	UpdateAdjustment(ctx context.Context, adj *Adjustment) error
}

// EmployeeStore is the part of the employee repository an approval mutates.
type EmployeeStore interface {
	GetEmployee(ctx context.Context, employeeID string) (*core.Employee, error)
	UpdateEmployee(ctx context.Context, emp *core.Employee) error
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
