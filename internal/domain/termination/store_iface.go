package termination

import (
	"context"

	"angopay/internal/domain/core"
)

type StoreAPI interface {
	CreateRecord(ctx context.Context, rec *Record) error
	ListRecords(ctx context.Context, employeeID string) ([]Record, error)
}

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
