package postgres

import (
	"context"
	"fmt"

	"angopay/internal/domain/audit"
)

func (s *Store) InsertEvent(ctx context.Context, evt audit.Event) error {
	_, err := s.exec(ctx).Exec(ctx, `
    INSERT INTO audit_events (id, actor_id, action, entity_type, entity_id, request_id,
      before_json, after_json, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
  `, evt.ID, evt.ActorID, evt.Action, evt.EntityType, evt.EntityID, evt.RequestID,
		nullJSON(evt.Before), nullJSON(evt.After), evt.CreatedAt)
	return err
}

func (s *Store) ListEvents(ctx context.Context, filter audit.Filter, limit, offset int) ([]audit.Event, error) {
	query := `
    SELECT id, actor_id, action, entity_type, entity_id, request_id, before_json, after_json, created_at
    FROM audit_events
    WHERE 1=1`
	var args []any
	for _, cond := range []struct {
		column string
		value  string
	}{
		{"action", filter.Action},
		{"entity_type", filter.EntityType},
		{"entity_id", filter.EntityID},
		{"actor_id", filter.ActorID},
	} {
		if cond.value == "" {
			continue
		}
		args = append(args, cond.value)
		query += fmt.Sprintf(" AND %s = $%d", cond.column, len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.exec(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []audit.Event{}
	for rows.Next() {
		var evt audit.Event
		var before, after []byte
		if err := rows.Scan(&evt.ID, &evt.ActorID, &evt.Action, &evt.EntityType, &evt.EntityID,
			&evt.RequestID, &before, &after, &evt.CreatedAt); err != nil {
			return nil, err
		}
		evt.Before = before
		evt.After = after
		out = append(out, evt)
	}
	return out, rows.Err()
}

func nullJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
