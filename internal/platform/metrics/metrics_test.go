package metrics

import (
	"testing"
	"time"
)

func TestSnapshotCounts(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(404, 20*time.Millisecond)
	c.Record(500, 30*time.Millisecond)
	c.RecordEntries(3, 1)
	c.RecordPeriodPaid()
	c.RecordJob("payroll_recompute", "completed")
	c.RecordJob("payroll_recompute", "failed")

	snap := c.Snapshot()
	expect := map[string]uint64{
		"requestsTotal":        3,
		"errorsTotal":          1,
		"clientErrorsTotal":    1,
		"totalDurationMs":      60,
		"entriesComputedTotal": 3,
		"entryWarningsTotal":   1,
		"periodsPaidTotal":     1,
		"jobsCompletedTotal":   1,
		"jobsFailedTotal":      1,
	}
	for key, want := range expect {
		if got := snap[key].(uint64); got != want {
			t.Fatalf("%s = %d, want %d", key, got, want)
		}
	}
	if avg := snap["avgDurationMs"].(float64); avg != 20 {
		t.Fatalf("avgDurationMs = %v, want 20", avg)
	}
}

func TestSnapshotEmpty(t *testing.T) {
	if avg := New().Snapshot()["avgDurationMs"].(float64); avg != 0 {
		t.Fatalf("expected zero average, got %v", avg)
	}
}
