package core

import "context"

type ListFilter struct {
	Status string
}

type StoreAPI interface {
	CreateEmployee(ctx context.Context, emp *Employee) error
	GetEmployee(ctx context.Context, employeeID string) (*Employee, error)
	ListEmployees(ctx context.Context, filter ListFilter) ([]Employee, error)
	UpdateEmployee(ctx context.Context, emp *Employee) error
}
