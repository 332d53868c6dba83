package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"angopay/internal/domain/core"
	"angopay/internal/domain/leave"
)

const employeeColumns = `id, code, name, position, department, hire_date, end_date, status,
  base_salary, meal_allowance, transport_allowance, family_allowance, other_allowances,
  monthly_bonus, holiday_subsidy, is_retired, created_at, updated_at`

func scanEmployee(row rowScanner) (*core.Employee, error) {
	var emp core.Employee
	c := &emp.Compensation
	if err := row.Scan(&emp.ID, &emp.Code, &emp.Name, &emp.Position, &emp.Department, &emp.HireDate,
		&emp.EndDate, &emp.Status, &c.BaseSalary, &c.MealAllowance, &c.TransportAllowance,
		&c.FamilyAllowance, &c.OtherAllowances, &c.MonthlyBonus, &c.HolidaySubsidy, &c.IsRetired,
		&emp.CreatedAt, &emp.UpdatedAt); err != nil {
		return nil, err
	}
	return &emp, nil
}

func (s *Store) CreateEmployee(ctx context.Context, emp *core.Employee) error {
	c := emp.Compensation
	_, err := s.exec(ctx).Exec(ctx, `
    INSERT INTO employees (`+employeeColumns+`)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
  `, emp.ID, emp.Code, emp.Name, emp.Position, emp.Department, emp.HireDate, emp.EndDate, emp.Status,
		c.BaseSalary, c.MealAllowance, c.TransportAllowance, c.FamilyAllowance, c.OtherAllowances,
		c.MonthlyBonus, c.HolidaySubsidy, c.IsRetired, emp.CreatedAt, emp.UpdatedAt)
	if isUniqueViolation(err) {
		return core.ErrEmployeeCodeExists
	}
	return err
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (*core.Employee, error) {
	row := s.exec(ctx).QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, employeeID)
	emp, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, core.ErrEmployeeNotFound
	}
	return emp, err
}

func (s *Store) ListEmployees(ctx context.Context, filter core.ListFilter) ([]core.Employee, error) {
	rows, err := s.exec(ctx).Query(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE ($1 = '' OR status = $1)
    ORDER BY code
  `, filter.Status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []core.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *emp)
	}
	return out, rows.Err()
}

func (s *Store) UpdateEmployee(ctx context.Context, emp *core.Employee) error {
	c := emp.Compensation
	tag, err := s.exec(ctx).Exec(ctx, `
    UPDATE employees
    SET name = $2, position = $3, department = $4, end_date = $5, status = $6,
        base_salary = $7, meal_allowance = $8, transport_allowance = $9, family_allowance = $10,
        other_allowances = $11, monthly_bonus = $12, holiday_subsidy = $13, is_retired = $14,
        updated_at = $15
    WHERE id = $1
  `, emp.ID, emp.Name, emp.Position, emp.Department, emp.EndDate, emp.Status,
		c.BaseSalary, c.MealAllowance, c.TransportAllowance, c.FamilyAllowance, c.OtherAllowances,
		c.MonthlyBonus, c.HolidaySubsidy, c.IsRetired, emp.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrEmployeeNotFound
	}
	return nil
}

const scheduleColumns = `id, employee_id, start_date, end_date, days, subsidy_paid,
  COALESCE(subsidy_period_id, ''), subsidy_paid_at, created_at`

func scanSchedule(row rowScanner) (leave.VacationSchedule, error) {
	var v leave.VacationSchedule
	err := row.Scan(&v.ID, &v.EmployeeID, &v.StartDate, &v.EndDate, &v.Days, &v.SubsidyPaid,
		&v.SubsidyPeriodID, &v.SubsidyPaidAt, &v.CreatedAt)
	return v, err
}

func (s *Store) CreateSchedule(ctx context.Context, v *leave.VacationSchedule) error {
	_, err := s.exec(ctx).Exec(ctx, `
    INSERT INTO vacation_schedules (id, employee_id, start_date, end_date, days, created_at)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, v.ID, v.EmployeeID, v.StartDate, v.EndDate, v.Days, v.CreatedAt)
	return err
}

func (s *Store) ListSchedules(ctx context.Context, employeeID string) ([]leave.VacationSchedule, error) {
	return s.querySchedules(ctx, `
    SELECT `+scheduleColumns+`
    FROM vacation_schedules
    WHERE ($1 = '' OR employee_id = $1)
    ORDER BY start_date, id
  `, employeeID)
}

func (s *Store) ListSchedulesStarting(ctx context.Context, year int, month time.Month) ([]leave.VacationSchedule, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return s.querySchedules(ctx, `
    SELECT `+scheduleColumns+`
    FROM vacation_schedules
    WHERE start_date >= $1 AND start_date < $2
    ORDER BY start_date, id
  `, from, from.AddDate(0, 1, 0))
}

func (s *Store) querySchedules(ctx context.Context, query string, args ...any) ([]leave.VacationSchedule, error) {
	rows, err := s.exec(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []leave.VacationSchedule
	for rows.Next() {
		v, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) MarkSubsidyPaid(ctx context.Context, scheduleID, periodID string, paidAt time.Time) error {
	tag, err := s.exec(ctx).Exec(ctx, `
    UPDATE vacation_schedules
    SET subsidy_paid = true, subsidy_period_id = $2, subsidy_paid_at = $3
    WHERE id = $1 AND NOT subsidy_paid
  `, scheduleID, periodID, paidAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("schedule %s: %w", scheduleID, leave.ErrSubsidyAlreadyPaid)
	}
	return nil
}
