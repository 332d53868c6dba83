package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"angopay/internal/platform/jobs"
)

func (s *Store) StartRun(ctx context.Context, jobType string) (string, error) {
	id := uuid.NewString()
	_, err := s.exec(ctx).Exec(ctx, `
    INSERT INTO job_runs (id, job_type, status, started_at) VALUES ($1, $2, $3, now())
  `, id, jobType, jobs.StatusRunning)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) FinishRun(ctx context.Context, runID, status string, details json.RawMessage) error {
	_, err := s.exec(ctx).Exec(ctx, `
    UPDATE job_runs SET status = $2, details_json = $3, completed_at = now() WHERE id = $1
  `, runID, status, nullJSON(details))
	return err
}

func (s *Store) ListRuns(ctx context.Context, jobType string) ([]jobs.Run, error) {
	rows, err := s.exec(ctx).Query(ctx, `
    SELECT id, job_type, status, details_json, started_at, completed_at
    FROM job_runs
    WHERE ($1 = '' OR job_type = $1)
    ORDER BY started_at DESC
  `, jobType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []jobs.Run
	for rows.Next() {
		var run jobs.Run
		var details []byte
		if err := rows.Scan(&run.ID, &run.Type, &run.Status, &details, &run.StartedAt, &run.CompletedAt); err != nil {
			return nil, err
		}
		run.Details = details
		out = append(out, run)
	}
	return out, rows.Err()
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := s.exec(ctx).Exec(ctx, `SELECT 1`)
	return err
}
