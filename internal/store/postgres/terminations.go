package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"angopay/internal/domain/termination"
)

func (s *Store) CreateRecord(ctx context.Context, rec *termination.Record) error {
	pkg, err := json.Marshal(rec.Package)
	if err != nil {
		return err
	}
	_, err = s.exec(ctx).Exec(ctx, `
    INSERT INTO terminations (id, employee_id, employee_name, termination_date, reason,
      notice_honored, unused_leave_days, final_base_salary, package_json, created_by, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
  `, rec.ID, rec.EmployeeID, rec.EmployeeName, rec.TerminationDate, string(rec.Reason),
		rec.NoticeHonored, rec.UnusedLeaveDays, rec.FinalBaseSalary, pkg, rec.CreatedBy, rec.CreatedAt)
	return err
}

func (s *Store) ListRecords(ctx context.Context, employeeID string) ([]termination.Record, error) {
	rows, err := s.exec(ctx).Query(ctx, `
    SELECT id, employee_id, employee_name, termination_date, reason, notice_honored,
      unused_leave_days, final_base_salary, package_json, created_by, created_at
    FROM terminations
    WHERE ($1 = '' OR employee_id = $1)
    ORDER BY created_at DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []termination.Record
	for rows.Next() {
		var (
			rec    termination.Record
			reason string
			pkg    []byte
		)
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.TerminationDate, &reason,
			&rec.NoticeHonored, &rec.UnusedLeaveDays, &rec.FinalBaseSalary, &pkg, &rec.CreatedBy,
			&rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Reason = termination.Reason(reason)
		if err := json.Unmarshal(pkg, &rec.Package); err != nil {
			return nil, fmt.Errorf("decode termination %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
