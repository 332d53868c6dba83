package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"angopay/internal/domain/payroll"
)

const periodColumns = `id, year, month, status, include_thirteenth_month, total_gross, total_net,
  total_deductions, total_employer_cost, employee_count, generated_at, calculated_at,
  approved_at, approved_by, paid_at, created_at, updated_at`

func scanPeriod(row rowScanner) (*payroll.Period, error) {
	var (
		p      payroll.Period
		month  int
		status string
	)
	if err := row.Scan(&p.ID, &p.Year, &month, &status, &p.IncludeThirteenthMonth,
		&p.Totals.Gross, &p.Totals.Net, &p.Totals.Deductions, &p.Totals.EmployerCost,
		&p.EmployeeCount, &p.GeneratedAt, &p.CalculatedAt, &p.ApprovedAt, &p.ApprovedBy,
		&p.PaidAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Month = time.Month(month)
	p.Status = payroll.Status(status)
	return &p, nil
}

func (s *Store) CreatePeriod(ctx context.Context, p *payroll.Period) error {
	_, err := s.exec(ctx).Exec(ctx, `
    INSERT INTO payroll_periods (id, year, month, status, include_thirteenth_month, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, p.ID, p.Year, int(p.Month), string(p.Status), p.IncludeThirteenthMonth, p.CreatedAt, p.UpdatedAt)
	if isUniqueViolation(err) {
		return payroll.ErrPeriodExists
	}
	return err
}

func (s *Store) GetPeriod(ctx context.Context, periodID string) (*payroll.Period, error) {
	row := s.exec(ctx).QueryRow(ctx, `SELECT `+periodColumns+` FROM payroll_periods WHERE id = $1`, periodID)
	p, err := scanPeriod(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, payroll.ErrPeriodNotFound
	}
	return p, err
}

func (s *Store) ListPeriods(ctx context.Context) ([]payroll.Period, error) {
	rows, err := s.exec(ctx).Query(ctx, `SELECT `+periodColumns+` FROM payroll_periods ORDER BY year DESC, month DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []payroll.Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) UpdatePeriod(ctx context.Context, p *payroll.Period) error {
	tag, err := s.exec(ctx).Exec(ctx, `
    UPDATE payroll_periods
    SET status = $2, include_thirteenth_month = $3, total_gross = $4, total_net = $5,
        total_deductions = $6, total_employer_cost = $7, employee_count = $8,
        generated_at = $9, calculated_at = $10, approved_at = $11, approved_by = $12,
        paid_at = $13, updated_at = $14
    WHERE id = $1
  `, p.ID, string(p.Status), p.IncludeThirteenthMonth, p.Totals.Gross, p.Totals.Net,
		p.Totals.Deductions, p.Totals.EmployerCost, p.EmployeeCount, p.GeneratedAt,
		p.CalculatedAt, p.ApprovedAt, p.ApprovedBy, p.PaidAt, p.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPeriodNotFound
	}
	return nil
}

func (s *Store) UpdatePeriodTotals(ctx context.Context, periodID string, t payroll.Totals, employeeCount int, updatedAt time.Time) error {
	tag, err := s.exec(ctx).Exec(ctx, `
    UPDATE payroll_periods
    SET total_gross = $2, total_net = $3, total_deductions = $4, total_employer_cost = $5,
        employee_count = $6, updated_at = $7
    WHERE id = $1
  `, periodID, t.Gross, t.Net, t.Deductions, t.EmployerCost, employeeCount, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPeriodNotFound
	}
	return nil
}

const entryColumns = `id, period_id, employee_id, employee_name, position, inputs_json,
  earnings_json, deductions_json, inss_base, inss_employer, irt_taxable_gross, taxable_income,
  gross_salary, total_deductions, net_salary, total_employer_cost, holiday_schedule_id,
  warnings_json, status, created_at, updated_at`

func scanEntry(row rowScanner) (*payroll.Entry, error) {
	var (
		e                                          payroll.Entry
		inputs, earnings, deductions, warningsJSON []byte
		status                                     string
	)
	if err := row.Scan(&e.ID, &e.PeriodID, &e.EmployeeID, &e.EmployeeName, &e.Position,
		&inputs, &earnings, &deductions, &e.INSSBase, &e.INSSEmployer, &e.IRTTaxableGross,
		&e.TaxableIncome, &e.GrossSalary, &e.TotalDeductions, &e.NetSalary, &e.TotalEmployerCost,
		&e.HolidayScheduleID, &warningsJSON, &status, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Status = payroll.Status(status)
	for _, part := range []struct {
		raw []byte
		dst any
	}{
		{inputs, &e.Inputs},
		{earnings, &e.Earnings},
		{deductions, &e.Deductions},
		{warningsJSON, &e.Warnings},
	} {
		if len(part.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(part.raw, part.dst); err != nil {
			return nil, fmt.Errorf("decode entry %s: %w", e.ID, err)
		}
	}
	return &e, nil
}

func entryArgs(e *payroll.Entry) ([]any, error) {
	inputs, err := json.Marshal(e.Inputs)
	if err != nil {
		return nil, err
	}
	earnings, err := json.Marshal(e.Earnings)
	if err != nil {
		return nil, err
	}
	deductions, err := json.Marshal(e.Deductions)
	if err != nil {
		return nil, err
	}
	warnings := e.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return nil, err
	}
	return []any{
		e.ID, e.PeriodID, e.EmployeeID, e.EmployeeName, e.Position, inputs, earnings, deductions,
		e.INSSBase, e.INSSEmployer, e.IRTTaxableGross, e.TaxableIncome, e.GrossSalary,
		e.TotalDeductions, e.NetSalary, e.TotalEmployerCost, e.HolidayScheduleID, warningsJSON,
		string(e.Status), e.CreatedAt, e.UpdatedAt,
	}, nil
}

func (s *Store) ListEntries(ctx context.Context, periodID string) ([]payroll.Entry, error) {
	rows, err := s.exec(ctx).Query(ctx, `
    SELECT `+entryColumns+`
    FROM payroll_entries
    WHERE period_id = $1
    ORDER BY employee_name, employee_id
  `, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []payroll.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *Store) GetEntry(ctx context.Context, periodID, employeeID string) (*payroll.Entry, error) {
	row := s.exec(ctx).QueryRow(ctx, `
    SELECT `+entryColumns+`
    FROM payroll_entries
    WHERE period_id = $1 AND employee_id = $2
  `, periodID, employeeID)
	e, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, payroll.ErrEntryNotFound
	}
	return e, err
}

const insertEntry = `
    INSERT INTO payroll_entries (` + entryColumns + `)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`

// ReplaceEntries must run inside a transaction to be atomic; the service guarantees that.
func (s *Store) ReplaceEntries(ctx context.Context, periodID string, entries []payroll.Entry) error {
	exec := s.exec(ctx)
	if _, err := exec.Exec(ctx, `DELETE FROM payroll_entries WHERE period_id = $1`, periodID); err != nil {
		return err
	}
	for i := range entries {
		args, err := entryArgs(&entries[i])
		if err != nil {
			return err
		}
		if _, err := exec.Exec(ctx, insertEntry, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) SaveEntry(ctx context.Context, e *payroll.Entry) error {
	args, err := entryArgs(e)
	if err != nil {
		return err
	}
	_, err = s.exec(ctx).Exec(ctx, insertEntry+`
    ON CONFLICT (period_id, employee_id) DO UPDATE SET
      employee_name = EXCLUDED.employee_name, position = EXCLUDED.position,
      inputs_json = EXCLUDED.inputs_json, earnings_json = EXCLUDED.earnings_json,
      deductions_json = EXCLUDED.deductions_json, inss_base = EXCLUDED.inss_base,
      inss_employer = EXCLUDED.inss_employer, irt_taxable_gross = EXCLUDED.irt_taxable_gross,
      taxable_income = EXCLUDED.taxable_income, gross_salary = EXCLUDED.gross_salary,
      total_deductions = EXCLUDED.total_deductions, net_salary = EXCLUDED.net_salary,
      total_employer_cost = EXCLUDED.total_employer_cost,
      holiday_schedule_id = EXCLUDED.holiday_schedule_id, warnings_json = EXCLUDED.warnings_json,
      status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
  `, args...)
	return err
}

func (s *Store) SetEntriesStatus(ctx context.Context, periodID string, status payroll.Status, at time.Time) error {
	_, err := s.exec(ctx).Exec(ctx, `
    UPDATE payroll_entries SET status = $2, updated_at = $3 WHERE period_id = $1
  `, periodID, string(status), at)
	return err
}
