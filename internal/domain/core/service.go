package core

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

type CreateEmployeeInput struct {
	Code         string             `json:"code" yaml:"code"`
	Name         string             `json:"name" yaml:"name"`
	Position     string             `json:"position" yaml:"position"`
	Department   string             `json:"department" yaml:"department"`
	HireDate     time.Time          `json:"hireDate" yaml:"hireDate"`
	Compensation CompensationConfig `json:"compensation" yaml:"compensation"`
}

func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("name required: %w", ErrInvalidEmployee)
	}
	if in.HireDate.IsZero() {
		return nil, fmt.Errorf("hire date required: %w", ErrInvalidEmployee)
	}
	if err := in.Compensation.Validate(); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	emp := &Employee{
		ID:           uuid.NewString(),
		Code:         in.Code,
		Name:         in.Name,
		Position:     strings.TrimSpace(in.Position),
		Department:   strings.TrimSpace(in.Department),
		HireDate:     in.HireDate.UTC(),
		Status:       StatusActive,
		Compensation: in.Compensation,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if emp.Code == "" {
		emp.Code = emp.ID[:8]
	}
	if err := s.store.CreateEmployee(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

func (s *Service) GetEmployee(ctx context.Context, employeeID string) (*Employee, error) {
	return s.store.GetEmployee(ctx, employeeID)
}

func (s *Service) ListEmployees(ctx context.Context, filter ListFilter) ([]Employee, error) {
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, ErrInvalidEmployeeStatus
	}
	return s.store.ListEmployees(ctx, filter)
}

func validStatus(status string) bool {
	for _, candidate := range EmployeeStatuses {
		if candidate == status {
			return true
		}
	}
	return false
}
