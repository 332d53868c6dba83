package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fakeStore struct {
	employees map[string]Employee
}

func (f *fakeStore) CreateEmployee(_ context.Context, emp *Employee) error {
	for _, existing := range f.employees {
		if existing.Code == emp.Code {
			return ErrEmployeeCodeExists
		}
	}
	f.employees[emp.ID] = *emp
	return nil
}

func (f *fakeStore) GetEmployee(_ context.Context, id string) (*Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return &emp, nil
}

func (f *fakeStore) ListEmployees(_ context.Context, filter ListFilter) ([]Employee, error) {
	var out []Employee
	for _, emp := range f.employees {
		if filter.Status == "" || emp.Status == filter.Status {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateEmployee(_ context.Context, emp *Employee) error {
	f.employees[emp.ID] = *emp
	return nil
}

func TestCreateEmployeeDefaults(t *testing.T) {
	store := &fakeStore{employees: map[string]Employee{}}
	svc := NewService(store)

	emp, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		Name:     "  Ana Costa ",
		HireDate: time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
		Compensation: CompensationConfig{
			BaseSalary: decimal.NewFromInt(150000),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emp.Name != "Ana Costa" {
		t.Fatalf("expected trimmed name, got %q", emp.Name)
	}
	if emp.Status != StatusActive {
		t.Fatalf("expected active status, got %s", emp.Status)
	}
	if emp.Code == "" {
		t.Fatal("expected generated code")
	}
}

func TestCreateEmployeeRejectsNegativeSalary(t *testing.T) {
	svc := NewService(&fakeStore{employees: map[string]Employee{}})

	_, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		Name:     "Negative",
		HireDate: time.Now(),
		Compensation: CompensationConfig{
			BaseSalary: decimal.NewFromInt(-1),
		},
	})
	if !errors.Is(err, ErrNegativeCompensation) {
		t.Fatalf("expected ErrNegativeCompensation, got %v", err)
	}
}

func TestListEmployeesInvalidStatus(t *testing.T) {
	svc := NewService(&fakeStore{employees: map[string]Employee{}})
	if _, err := svc.ListEmployees(context.Background(), ListFilter{Status: "retired"}); !errors.Is(err, ErrInvalidEmployeeStatus) {
		t.Fatalf("expected ErrInvalidEmployeeStatus, got %v", err)
	}
}

func TestEmployedIn(t *testing.T) {
	end := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	emp := Employee{
		Status:   StatusActive,
		HireDate: time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC),
		EndDate:  &end,
	}

	cases := []struct {
		year  int
		month time.Month
		want  bool
	}{
		{2023, time.October, false},
		{2023, time.November, true},
		{2024, time.February, true},
		{2024, time.March, false},
	}
	for _, tc := range cases {
		if got := emp.EmployedIn(tc.year, tc.month); got != tc.want {
			t.Fatalf("EmployedIn(%d, %s) = %v, want %v", tc.year, tc.month, got, tc.want)
		}
	}

	emp.Status = StatusInactive
	if emp.EmployedIn(2024, time.January) {
		t.Fatal("inactive employee should not be on payroll")
	}
}
