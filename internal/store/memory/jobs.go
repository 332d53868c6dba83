package memory

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"angopay/internal/platform/jobs"
)

func (s *Store) StartRun(ctx context.Context, jobType string) (string, error) {
	defer s.lock(ctx)()
	run := jobs.Run{ID: uuid.NewString(), Type: jobType, Status: jobs.StatusRunning, StartedAt: time.Now().UTC()}
	s.data.runs[run.ID] = run
	return run.ID, nil
}

func (s *Store) FinishRun(ctx context.Context, runID, status string, details json.RawMessage) error {
	defer s.lock(ctx)()
	run, ok := s.data.runs[runID]
	if !ok {
		return nil
	}
	now := time.Now().UTC()
	run.Status = status
	run.Details = details
	run.CompletedAt = &now
	s.data.runs[runID] = run
	return nil
}

func (s *Store) ListRuns(_ context.Context, jobType string) ([]jobs.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []jobs.Run
	for _, run := range s.data.runs {
		if jobType == "" || run.Type == jobType {
			out = append(out, run)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}
