package sqlite

import (
	"context"
	"time"

	"angopay/internal/domain/payroll"
)

func (s *Store) CreatePeriod(ctx context.Context, p *payroll.Period) error {
	doc, err := encode(p)
	if err != nil {
		return err
	}
	_, err = s.conn(ctx).ExecContext(ctx,
		`INSERT INTO payroll_periods (id, year, month, doc) VALUES (?, ?, ?, ?)`,
		p.ID, p.Year, int(p.Month), doc)
	if isUniqueViolation(err) {
		return payroll.ErrPeriodExists
	}
	return err
}

func (s *Store) GetPeriod(ctx context.Context, periodID string) (*payroll.Period, error) {
	return getDoc[payroll.Period](ctx, s.conn(ctx), payroll.ErrPeriodNotFound,
		`SELECT doc FROM payroll_periods WHERE id = ?`, periodID)
}

func (s *Store) ListPeriods(ctx context.Context) ([]payroll.Period, error) {
	return listDocs[payroll.Period](ctx, s.conn(ctx),
		`SELECT doc FROM payroll_periods ORDER BY year DESC, month DESC`)
}

func (s *Store) UpdatePeriod(ctx context.Context, p *payroll.Period) error {
	doc, err := encode(p)
	if err != nil {
		return err
	}
	res, err := s.conn(ctx).ExecContext(ctx, `UPDATE payroll_periods SET doc = ? WHERE id = ?`, doc, p.ID)
	if err != nil {
		return err
	}
	return requireRow(res, payroll.ErrPeriodNotFound)
}

// UpdatePeriodTotals patches the aggregate fields in place so a concurrent status change
// stored in the same document is kept.
func (s *Store) UpdatePeriodTotals(ctx context.Context, periodID string, totals payroll.Totals, employeeCount int, updatedAt time.Time) error {
	totalsDoc, err := encode(totals)
	if err != nil {
		return err
	}
	stamp, err := encode(updatedAt)
	if err != nil {
		return err
	}
	res, err := s.conn(ctx).ExecContext(ctx, `
    UPDATE payroll_periods
    SET doc = json_set(doc, '$.totals', json(?), '$.employeeCount', ?, '$.updatedAt', json(?))
    WHERE id = ?`, totalsDoc, employeeCount, stamp, periodID)
	if err != nil {
		return err
	}
	return requireRow(res, payroll.ErrPeriodNotFound)
}

func (s *Store) ListEntries(ctx context.Context, periodID string) ([]payroll.Entry, error) {
	return listDocs[payroll.Entry](ctx, s.conn(ctx), `
    SELECT doc FROM payroll_entries
    WHERE period_id = ?
    ORDER BY employee_name, employee_id`, periodID)
}

func (s *Store) GetEntry(ctx context.Context, periodID, employeeID string) (*payroll.Entry, error) {
	return getDoc[payroll.Entry](ctx, s.conn(ctx), payroll.ErrEntryNotFound,
		`SELECT doc FROM payroll_entries WHERE period_id = ? AND employee_id = ?`, periodID, employeeID)
}

func (s *Store) ReplaceEntries(ctx context.Context, periodID string, entries []payroll.Entry) error {
	return s.WithinReadWrite(ctx, func(ctx context.Context) error {
		if _, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM payroll_entries WHERE period_id = ?`, periodID); err != nil {
			return err
		}
		for i := range entries {
			if err := s.SaveEntry(ctx, &entries[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) SaveEntry(ctx context.Context, e *payroll.Entry) error {
	doc, err := encode(e)
	if err != nil {
		return err
	}
	_, err = s.conn(ctx).ExecContext(ctx, `
    INSERT INTO payroll_entries (period_id, employee_id, employee_name, doc) VALUES (?, ?, ?, ?)
    ON CONFLICT (period_id, employee_id) DO UPDATE SET
      employee_name = excluded.employee_name, doc = excluded.doc`,
		e.PeriodID, e.EmployeeID, e.EmployeeName, doc)
	return err
}

func (s *Store) SetEntriesStatus(ctx context.Context, periodID string, status payroll.Status, at time.Time) error {
	return s.WithinReadWrite(ctx, func(ctx context.Context) error {
		entries, err := s.ListEntries(ctx, periodID)
		if err != nil {
			return err
		}
		for i := range entries {
			entries[i].Status = status
			entries[i].UpdatedAt = at
			if err := s.SaveEntry(ctx, &entries[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
