package sqlite

import (
	"context"
	"fmt"
	"time"

	"angopay/internal/domain/core"
	"angopay/internal/domain/leave"
)

func (s *Store) CreateEmployee(ctx context.Context, emp *core.Employee) error {
	doc, err := encode(emp)
	if err != nil {
		return err
	}
	_, err = s.conn(ctx).ExecContext(ctx,
		`INSERT INTO employees (id, code, status, doc) VALUES (?, ?, ?, ?)`,
		emp.ID, emp.Code, emp.Status, doc)
	if isUniqueViolation(err) {
		return core.ErrEmployeeCodeExists
	}
	return err
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (*core.Employee, error) {
	return getDoc[core.Employee](ctx, s.conn(ctx), core.ErrEmployeeNotFound,
		`SELECT doc FROM employees WHERE id = ?`, employeeID)
}

func (s *Store) ListEmployees(ctx context.Context, filter core.ListFilter) ([]core.Employee, error) {
	return listDocs[core.Employee](ctx, s.conn(ctx),
		`SELECT doc FROM employees WHERE (? = '' OR status = ?) ORDER BY code`,
		filter.Status, filter.Status)
}

func (s *Store) UpdateEmployee(ctx context.Context, emp *core.Employee) error {
	doc, err := encode(emp)
	if err != nil {
		return err
	}
	res, err := s.conn(ctx).ExecContext(ctx,
		`UPDATE employees SET status = ?, doc = ? WHERE id = ?`, emp.Status, doc, emp.ID)
	if err != nil {
		return err
	}
	return requireRow(res, core.ErrEmployeeNotFound)
}

func (s *Store) CreateSchedule(ctx context.Context, v *leave.VacationSchedule) error {
	doc, err := encode(v)
	if err != nil {
		return err
	}
	_, err = s.conn(ctx).ExecContext(ctx,
		`INSERT INTO vacation_schedules (id, employee_id, start_date, doc) VALUES (?, ?, ?, ?)`,
		v.ID, v.EmployeeID, v.StartDate.Format(time.DateOnly), doc)
	return err
}

func (s *Store) ListSchedules(ctx context.Context, employeeID string) ([]leave.VacationSchedule, error) {
	return listDocs[leave.VacationSchedule](ctx, s.conn(ctx), `
    SELECT doc FROM vacation_schedules
    WHERE (? = '' OR employee_id = ?)
    ORDER BY start_date, id`, employeeID, employeeID)
}

func (s *Store) ListSchedulesStarting(ctx context.Context, year int, month time.Month) ([]leave.VacationSchedule, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return listDocs[leave.VacationSchedule](ctx, s.conn(ctx), `
    SELECT doc FROM vacation_schedules
    WHERE start_date >= ? AND start_date < ?
    ORDER BY start_date, id`, from.Format(time.DateOnly), from.AddDate(0, 1, 0).Format(time.DateOnly))
}

func (s *Store) MarkSubsidyPaid(ctx context.Context, scheduleID, periodID string, paidAt time.Time) error {
	c := s.conn(ctx)
	v, err := getDoc[leave.VacationSchedule](ctx, c, leave.ErrScheduleNotFound,
		`SELECT doc FROM vacation_schedules WHERE id = ?`, scheduleID)
	if err != nil {
		return err
	}
	if v.SubsidyPaid {
		return fmt.Errorf("schedule %s: %w", scheduleID, leave.ErrSubsidyAlreadyPaid)
	}
	v.SubsidyPaid = true
	v.SubsidyPeriodID = periodID
	v.SubsidyPaidAt = &paidAt
	doc, err := encode(v)
	if err != nil {
		return err
	}
	_, err = c.ExecContext(ctx, `UPDATE vacation_schedules SET doc = ? WHERE id = ?`, doc, scheduleID)
	return err
}
