package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"angopay/internal/domain/adjustment"
)

const adjustmentColumns = `id, employee_id, type, previous_salary, new_salary, change_amount,
  change_percent, previous_position, new_position, reason, effective_date, status, requested_by,
  approved_by, rejected_by, rejection_reason, decided_at, created_at, updated_at`

func scanAdjustment(row rowScanner) (*adjustment.Adjustment, error) {
	var (
		a            adjustment.Adjustment
		kind, status string
	)
	if err := row.Scan(&a.ID, &a.EmployeeID, &kind, &a.PreviousSalary, &a.NewSalary, &a.ChangeAmount,
		&a.ChangePercent, &a.PreviousPosition, &a.NewPosition, &a.Reason, &a.EffectiveDate, &status,
		&a.RequestedBy, &a.ApprovedBy, &a.RejectedBy, &a.RejectionReason, &a.DecidedAt,
		&a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Type = adjustment.Type(kind)
	a.Status = adjustment.Status(status)
	return &a, nil
}

func (s *Store) CreateAdjustment(ctx context.Context, a *adjustment.Adjustment) error {
	_, err := s.exec(ctx).Exec(ctx, `
    INSERT INTO salary_adjustments (`+adjustmentColumns+`)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
  `, a.ID, a.EmployeeID, string(a.Type), a.PreviousSalary, a.NewSalary, a.ChangeAmount,
		a.ChangePercent, a.PreviousPosition, a.NewPosition, a.Reason, a.EffectiveDate,
		string(a.Status), a.RequestedBy, a.ApprovedBy, a.RejectedBy, a.RejectionReason,
		a.DecidedAt, a.CreatedAt, a.UpdatedAt)
	return err
}

func (s *Store) GetAdjustment(ctx context.Context, id string) (*adjustment.Adjustment, error) {
	row := s.exec(ctx).QueryRow(ctx, `SELECT `+adjustmentColumns+` FROM salary_adjustments WHERE id = $1`, id)
	a, err := scanAdjustment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, adjustment.ErrAdjustmentNotFound
	}
	return a, err
}

func (s *Store) ListAdjustments(ctx context.Context, filter adjustment.ListFilter) ([]adjustment.Adjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM salary_adjustments WHERE 1=1`
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.exec(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []adjustment.Adjustment
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (s *Store) UpdateAdjustment(ctx context.Context, a *adjustment.Adjustment) error {
	tag, err := s.exec(ctx).Exec(ctx, `
    UPDATE salary_adjustments
    SET status = $2, approved_by = $3, rejected_by = $4, rejection_reason = $5,
        decided_at = $6, updated_at = $7
    WHERE id = $1
  `, a.ID, string(a.Status), a.ApprovedBy, a.RejectedBy, a.RejectionReason, a.DecidedAt, a.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return adjustment.ErrAdjustmentNotFound
	}
	return nil
}
