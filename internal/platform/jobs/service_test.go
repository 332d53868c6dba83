package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRuns struct {
	mu       sync.Mutex
	started  []string
	finished map[string]string
	details  map[string]json.RawMessage
}

func newRecordingRuns() *recordingRuns {
	return &recordingRuns{finished: map[string]string{}, details: map[string]json.RawMessage{}}
}

func (r *recordingRuns) StartRun(_ context.Context, jobType string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, jobType)
	return "run-" + strconv.Itoa(len(r.started)), nil
}

func (r *recordingRuns) FinishRun(_ context.Context, runID, status string, details json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished[runID] = status
	r.details[runID] = details
	return nil
}

func (r *recordingRuns) status(runID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished[runID]
}

func TestRunNowRecordsCompletion(t *testing.T) {
	runs := newRecordingRuns()
	svc := New(runs, 1, nil)

	result, err := svc.RunNow(context.Background(), JobRecomputeAggregates, func(context.Context) (any, error) {
		return map[string]int{"periods": 3}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"periods": 3}, result)
	assert.Equal(t, StatusCompleted, runs.status("run-1"))
	assert.JSONEq(t, `{"periods":3}`, string(runs.details["run-1"]))
}

func TestRunNowRecordsFailure(t *testing.T) {
	runs := newRecordingRuns()
	svc := New(runs, 1, nil)
	boom := errors.New("boom")

	_, err := svc.RunNow(context.Background(), JobRecomputeAggregates, func(context.Context) (any, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StatusFailed, runs.status("run-1"))
}

func TestWorkerProcessesQueue(t *testing.T) {
	runs := newRecordingRuns()
	svc := New(runs, 4, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	done := make(chan struct{})
	require.True(t, svc.Enqueue(JobRecomputeAggregates, func(context.Context) (any, error) {
		close(done)
		return nil, nil
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not executed")
	}
	assert.Eventually(t, func() bool { return runs.status("run-1") == StatusCompleted }, 2*time.Second, 10*time.Millisecond)
}

func TestEnqueueFullQueue(t *testing.T) {
	svc := New(nil, 1, nil)
	noop := func(context.Context) (any, error) { return nil, nil }

	assert.True(t, svc.Enqueue("a", noop))
	assert.False(t, svc.Enqueue("b", noop))
}

func TestObserverSeesFinalStatus(t *testing.T) {
	svc := New(nil, 1, nil)
	var seen []string
	svc.Observe(func(jobType, status string) { seen = append(seen, jobType+":"+status) })

	_, _ = svc.RunNow(context.Background(), "ok", func(context.Context) (any, error) { return nil, nil })
	_, _ = svc.RunNow(context.Background(), "bad", func(context.Context) (any, error) { return nil, errors.New("x") })

	assert.Equal(t, []string{"ok:" + StatusCompleted, "bad:" + StatusFailed}, seen)
}
