// Package metrics keeps in-process counters exposed as a JSON snapshot on /metrics.
package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	clientErrors    uint64
	totalDurationMs uint64

	entriesComputed uint64
	entryWarnings   uint64
	periodsPaid     uint64
	jobsCompleted   uint64
	jobsFailed      uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	switch {
	case status >= 500:
		atomic.AddUint64(&c.errorRequests, 1)
	case status >= 400:
		atomic.AddUint64(&c.clientErrors, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordEntries counts payroll entries produced by one generation and the warnings
// attached to them.
func (c *Collector) RecordEntries(entries, warnings int) {
	atomic.AddUint64(&c.entriesComputed, uint64(entries))
	atomic.AddUint64(&c.entryWarnings, uint64(warnings))
}

func (c *Collector) RecordPeriodPaid() {
	atomic.AddUint64(&c.periodsPaid, 1)
}

// RecordJob matches the jobs.Service observer signature.
func (c *Collector) RecordJob(_ string, status string) {
	if status == "failed" {
		atomic.AddUint64(&c.jobsFailed, 1)
		return
	}
	atomic.AddUint64(&c.jobsCompleted, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":        total,
		"errorsTotal":          atomic.LoadUint64(&c.errorRequests),
		"clientErrorsTotal":    atomic.LoadUint64(&c.clientErrors),
		"avgDurationMs":        avg,
		"totalDurationMs":      totalMs,
		"entriesComputedTotal": atomic.LoadUint64(&c.entriesComputed),
		"entryWarningsTotal":   atomic.LoadUint64(&c.entryWarnings),
		"periodsPaidTotal":     atomic.LoadUint64(&c.periodsPaid),
		"jobsCompletedTotal":   atomic.LoadUint64(&c.jobsCompleted),
		"jobsFailedTotal":      atomic.LoadUint64(&c.jobsFailed),
	}
}
