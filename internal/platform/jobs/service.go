package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

const (
	// JobRecomputeAggregates refreshes every payroll period after an external sync.
	JobRecomputeAggregates = "payroll_recompute"

	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type Run struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	Details     json.RawMessage `json:"details,omitempty"`
	StartedAt   time.Time       `json:"startedAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

// RunStore records job executions. Failures to record are logged, never fatal.
type RunStore interface {
	StartRun(ctx context.Context, jobType string) (string, error)
	FinishRun(ctx context.Context, runID, status string, details json.RawMessage) error
}

type Service struct {
	runs     RunStore
	queue    chan job
	logger   *slog.Logger
	observer func(jobType, status string)
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(runs RunStore, queueSize int, logger *slog.Logger) *Service {
	if queueSize <= 0 {
		queueSize = 128
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		runs:   runs,
		queue:  make(chan job, queueSize),
		logger: logger,
	}
}

// Observe registers fn to be called after every run with its final status.
// It must be called before Start.
func (s *Service) Observe(fn func(jobType, status string)) {
	s.observer = fn
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
}

// Enqueue schedules run on the worker. It reports false when the queue is full.
func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		s.logger.Warn("job queue full", "jobType", jobType)
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				s.logger.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if s.runs != nil {
		id, err := s.runs.StartRun(ctx, j.Type)
		if err != nil {
			s.logger.Warn("job run insert failed", "err", err)
		}
		runID = id
	}

	details, err := j.Run(ctx)
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
		details = map[string]any{"error": err.Error(), "result": details}
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		s.logger.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if updErr := s.runs.FinishRun(ctx, runID, status, detailsJSON); updErr != nil {
			s.logger.Warn("job run update failed", "err", updErr)
		}
	}
	if s.observer != nil {
		s.observer(j.Type, status)
	}
	return details, err
}
