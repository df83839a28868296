// Package metrics provides in-memory runtime statistics collection plus the
// Prometheus collectors exposed on /metrics.
package metrics

import (
	"math"
	"sync"
	"time"
)

// OperationMetrics holds aggregated metrics for a single operation type.
type OperationMetrics struct {
	Count     int64
	Failures  int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64   `json:"count"`
	Failures    int64   `json:"failures"`
	TotalTimeMs int64   `json:"total_time_ms"`
	AvgTimeMs   float64 `json:"avg_time_ms"`
	MinTimeMs   int64   `json:"min_time_ms"`
	MaxTimeMs   int64   `json:"max_time_ms"`
}

// Snapshot represents the full server statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64            `json:"uptime_seconds"`
	ChaosFaults   int64              `json:"chaos_faults"`
	JobsList      *OperationSnapshot `json:"jobs_list,omitempty"`
	JobReorder    *OperationSnapshot `json:"job_reorder,omitempty"`
	CandidateList *OperationSnapshot `json:"candidate_list,omitempty"`
	StageMove     *OperationSnapshot `json:"stage_move,omitempty"`
	StoreWrite    *OperationSnapshot `json:"store_write,omitempty"`
}

// Operation names for the collector.
const (
	OpJobsList      = "jobs_list"
	OpJobReorder    = "job_reorder"
	OpCandidateList = "candidate_list"
	OpStageMove     = "stage_move"
	OpStoreWrite    = "store_write"
)

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe.
type Collector struct {
	mu          sync.RWMutex
	startTime   time.Time
	chaosFaults int64
	ops         map[string]*OperationMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{
			MinTime: time.Duration(math.MaxInt64),
		}
		c.ops[op] = m
	}
	return m
}

// RecordTiming records timing for a successful operation.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	c.record(op, duration, false)
}

// RecordFailure records timing for a failed operation.
func (c *Collector) RecordFailure(op string, duration time.Duration) {
	c.record(op, duration, true)
}

func (c *Collector) record(op string, duration time.Duration, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	if failed {
		m.Failures++
	}
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// RecordChaosFault counts one injected simulated failure.
func (c *Collector) RecordChaosFault() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chaosFaults++
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(m *OperationMetrics) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}

	return &OperationSnapshot{
		Count:       m.Count,
		Failures:    m.Failures,
		TotalTimeMs: m.TotalTime.Milliseconds(),
		AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
		MinTimeMs:   m.MinTime.Milliseconds(),
		MaxTimeMs:   m.MaxTime.Milliseconds(),
	}
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		ChaosFaults:   c.chaosFaults,
		JobsList:      snapshotOp(c.ops[OpJobsList]),
		JobReorder:    snapshotOp(c.ops[OpJobReorder]),
		CandidateList: snapshotOp(c.ops[OpCandidateList]),
		StageMove:     snapshotOp(c.ops[OpStageMove]),
		StoreWrite:    snapshotOp(c.ops[OpStoreWrite]),
	}
}
