package agedpool

import (
	"sync/atomic"
	"time"
)

// MetricsPolicy defines hooks used by the pool to report queueing,
// execution, and aging activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {

	// IncSubmitted increments the accepted submissions counter.
	IncSubmitted()

	// IncExecuted increments the executed tasks counter.
	IncExecuted()

	// IncFailed increments the counter of tasks whose final attempt
	// returned an error or panicked.
	IncFailed()

	// IncCancelled increments the counter of tasks cancelled while still
	// queued during an immediate shutdown.
	IncCancelled()

	// IncRejected increments the counter of submissions refused because
	// the pool had begun shutdown.
	IncRejected()

	// IncRebuilds increments the counter of heap rebuilds triggered by
	// the aging monitor.
	IncRebuilds()

	// SetQueued records the current queue depth.
	SetQueued(n int64)

	// SetMaxAge records the longest wait time observed among queued
	// tasks during the latest aging pass.
	SetMaxAge(d time.Duration)
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	submitted atomic.Uint64
	executed  atomic.Uint64
	failed    atomic.Uint64
	cancelled atomic.Uint64
	rejected  atomic.Uint64
	rebuilds  atomic.Uint64

	_ [16]byte // padding to avoid false sharing with the gauges

	queued atomic.Int64
	maxAge atomic.Int64 // nanoseconds
}

// Submitted returns the total number of accepted submissions.
func (m *AtomicMetrics) Submitted() uint64 { return m.submitted.Load() }

// Executed returns the total number of executed tasks.
func (m *AtomicMetrics) Executed() uint64 { return m.executed.Load() }

// Failed returns the total number of tasks that ended in an error.
func (m *AtomicMetrics) Failed() uint64 { return m.failed.Load() }

// Cancelled returns the total number of tasks cancelled at shutdown.
func (m *AtomicMetrics) Cancelled() uint64 { return m.cancelled.Load() }

// Rejected returns the total number of refused submissions.
func (m *AtomicMetrics) Rejected() uint64 { return m.rejected.Load() }

// Rebuilds returns the total number of aging-triggered heap rebuilds.
func (m *AtomicMetrics) Rebuilds() uint64 { return m.rebuilds.Load() }

// Queued returns the queue depth at the last update.
func (m *AtomicMetrics) Queued() int64 { return m.queued.Load() }

// MaxAge returns the longest queued wait observed by the latest aging pass.
func (m *AtomicMetrics) MaxAge() time.Duration {
	return time.Duration(m.maxAge.Load())
}

func (m *AtomicMetrics) IncSubmitted() { m.submitted.Add(1) }
func (m *AtomicMetrics) IncExecuted()  { m.executed.Add(1) }
func (m *AtomicMetrics) IncFailed()    { m.failed.Add(1) }
func (m *AtomicMetrics) IncCancelled() { m.cancelled.Add(1) }
func (m *AtomicMetrics) IncRejected()  { m.rejected.Add(1) }
func (m *AtomicMetrics) IncRebuilds()  { m.rebuilds.Add(1) }

func (m *AtomicMetrics) SetQueued(n int64) { m.queued.Store(n) }

func (m *AtomicMetrics) SetMaxAge(d time.Duration) { m.maxAge.Store(int64(d)) }

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
//
// It can be used when metrics collection is disabled and
// zero overhead is desired.
type NoopMetrics struct{}

func (m *NoopMetrics) IncSubmitted()             {}
func (m *NoopMetrics) IncExecuted()              {}
func (m *NoopMetrics) IncFailed()                {}
func (m *NoopMetrics) IncCancelled()             {}
func (m *NoopMetrics) IncRejected()              {}
func (m *NoopMetrics) IncRebuilds()              {}
func (m *NoopMetrics) SetQueued(n int64)         {}
func (m *NoopMetrics) SetMaxAge(d time.Duration) {}
