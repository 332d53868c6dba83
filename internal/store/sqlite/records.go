package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"angopay/internal/domain/adjustment"
	"angopay/internal/domain/audit"
	"angopay/internal/domain/termination"
	"angopay/internal/platform/jobs"
)

func (s *Store) CreateAdjustment(ctx context.Context, a *adjustment.Adjustment) error {
	doc, err := encode(a)
	if err != nil {
		return err
	}
	_, err = s.conn(ctx).ExecContext(ctx, `
    INSERT INTO salary_adjustments (id, employee_id, status, created_at, doc) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.EmployeeID, string(a.Status), a.CreatedAt.UTC().Format(timeLayout), doc)
	return err
}

func (s *Store) GetAdjustment(ctx context.Context, id string) (*adjustment.Adjustment, error) {
	return getDoc[adjustment.Adjustment](ctx, s.conn(ctx), adjustment.ErrAdjustmentNotFound,
		`SELECT doc FROM salary_adjustments WHERE id = ?`, id)
}

func (s *Store) ListAdjustments(ctx context.Context, filter adjustment.ListFilter) ([]adjustment.Adjustment, error) {
	return listDocs[adjustment.Adjustment](ctx, s.conn(ctx), `
    SELECT doc FROM salary_adjustments
    WHERE (? = '' OR employee_id = ?) AND (? = '' OR status = ?)
    ORDER BY created_at DESC`,
		filter.EmployeeID, filter.EmployeeID, string(filter.Status), string(filter.Status))
}

func (s *Store) UpdateAdjustment(ctx context.Context, a *adjustment.Adjustment) error {
	doc, err := encode(a)
	if err != nil {
		return err
	}
	res, err := s.conn(ctx).ExecContext(ctx,
		`UPDATE salary_adjustments SET status = ?, doc = ? WHERE id = ?`, string(a.Status), doc, a.ID)
	if err != nil {
		return err
	}
	return requireRow(res, adjustment.ErrAdjustmentNotFound)
}

func (s *Store) CreateRecord(ctx context.Context, rec *termination.Record) error {
	doc, err := encode(rec)
	if err != nil {
		return err
	}
	_, err = s.conn(ctx).ExecContext(ctx,
		`INSERT INTO terminations (id, employee_id, created_at, doc) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.EmployeeID, rec.CreatedAt.UTC().Format(timeLayout), doc)
	return err
}

func (s *Store) ListRecords(ctx context.Context, employeeID string) ([]termination.Record, error) {
	return listDocs[termination.Record](ctx, s.conn(ctx), `
    SELECT doc FROM terminations
    WHERE (? = '' OR employee_id = ?)
    ORDER BY created_at DESC`, employeeID, employeeID)
}

func (s *Store) InsertEvent(ctx context.Context, evt audit.Event) error {
	doc, err := encode(evt)
	if err != nil {
		return err
	}
	_, err = s.conn(ctx).ExecContext(ctx, `
    INSERT INTO audit_events (id, actor_id, action, entity_type, entity_id, doc)
    VALUES (?, ?, ?, ?, ?, ?)`,
		evt.ID, evt.ActorID, evt.Action, evt.EntityType, evt.EntityID, doc)
	return err
}

// ListEvents returns the newest events first.
func (s *Store) ListEvents(ctx context.Context, filter audit.Filter, limit, offset int) ([]audit.Event, error) {
	if limit <= 0 {
		limit = -1
	}
	out, err := listDocs[audit.Event](ctx, s.conn(ctx), `
    SELECT doc FROM audit_events
    WHERE (? = '' OR action = ?) AND (? = '' OR entity_type = ?)
      AND (? = '' OR entity_id = ?) AND (? = '' OR actor_id = ?)
    ORDER BY seq DESC
    LIMIT ? OFFSET ?`,
		filter.Action, filter.Action, filter.EntityType, filter.EntityType,
		filter.EntityID, filter.EntityID, filter.ActorID, filter.ActorID, limit, offset)
	if out == nil && err == nil {
		out = []audit.Event{}
	}
	return out, err
}

func (s *Store) StartRun(ctx context.Context, jobType string) (string, error) {
	run := jobs.Run{ID: uuid.NewString(), Type: jobType, Status: jobs.StatusRunning, StartedAt: time.Now().UTC()}
	doc, err := encode(run)
	if err != nil {
		return "", err
	}
	_, err = s.conn(ctx).ExecContext(ctx,
		`INSERT INTO job_runs (id, job_type, started_at, doc) VALUES (?, ?, ?, ?)`,
		run.ID, run.Type, run.StartedAt.Format(timeLayout), doc)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

func (s *Store) FinishRun(ctx context.Context, runID, status string, details json.RawMessage) error {
	c := s.conn(ctx)
	run, err := getDoc[jobs.Run](ctx, c, nil, `SELECT doc FROM job_runs WHERE id = ?`, runID)
	if err != nil || run == nil {
		return err
	}
	now := time.Now().UTC()
	run.Status = status
	run.Details = details
	run.CompletedAt = &now
	doc, err := encode(run)
	if err != nil {
		return err
	}
	_, err = c.ExecContext(ctx, `UPDATE job_runs SET doc = ? WHERE id = ?`, doc, runID)
	return err
}

func (s *Store) ListRuns(ctx context.Context, jobType string) ([]jobs.Run, error) {
	return listDocs[jobs.Run](ctx, s.conn(ctx), `
    SELECT doc FROM job_runs
    WHERE (? = '' OR job_type = ?)
    ORDER BY started_at DESC`, jobType, jobType)
}
