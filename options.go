package agedpool

import (
	"errors"
	"runtime"
	"time"
)

const (
	// DefaultAgingInterval is the wait-time quantum after which a queued
	// task earns one priority bonus.
	DefaultAgingInterval = 2 * time.Second

	// DefaultAgingIncrement is the priority bonus granted per elapsed
	// aging interval.
	DefaultAgingIncrement = 20

	minTickInterval = 10 * time.Millisecond
)

// Options configure a Pool.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type Options struct {
	// Workers is the number of parallel worker goroutines.
	Workers int

	// AgingInterval is the wait-time quantum for the aging bonus:
	// a task queued for n*AgingInterval has earned n*AgingIncrement
	// priority on top of its original priority.
	AgingInterval time.Duration

	// AgingIncrement is the priority boost applied per elapsed interval.
	AgingIncrement int

	// TickInterval is how often the aging monitor re-scans the queue.
	// Defaults to half of AgingInterval so a task never waits a full
	// extra quantum past the point it earned a bonus.
	TickInterval time.Duration

	// MaxPriority caps the aged priority of any task. Zero means no cap:
	// priorities grow without bound, as in the uncapped aging policy.
	MaxPriority int

	// Retry is the pool-wide retry policy applied to failing tasks.
	// The zero value means a single attempt with no retries.
	Retry RetryPolicy

	// Metrics receives queueing and execution activity.
	// Defaults to NoopMetrics.
	Metrics MetricsPolicy

	// OnTaskError is invoked with the final error of a fire-and-forget
	// task. Tasks submitted through SubmitResult deliver their error to
	// the caller instead.
	OnTaskError func(error)

	// OnInternalError is invoked for non-task failures inside the pool.
	OnInternalError func(error)
}

func (o *Options) FillDefaults() {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.AgingInterval <= 0 {
		o.AgingInterval = DefaultAgingInterval
	}
	if o.AgingIncrement <= 0 {
		o.AgingIncrement = DefaultAgingIncrement
	}
	if o.TickInterval <= 0 {
		o.TickInterval = o.AgingInterval / 2
	}
	if o.TickInterval < minTickInterval {
		o.TickInterval = minTickInterval
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
}

// Validate checks that explicitly supplied values are consistent.
// It returns the first error found.
func (o *Options) Validate() error {
	if o.Workers < 0 {
		return errors.New("agedpool: workers must be >= 1")
	}
	if o.AgingInterval < 0 {
		return errors.New("agedpool: aging_interval must be positive")
	}
	if o.AgingIncrement < 0 {
		return errors.New("agedpool: aging_increment must be >= 0")
	}
	if o.MaxPriority < 0 {
		return errors.New("agedpool: max_priority must be >= 0")
	}
	if o.TickInterval < 0 {
		return errors.New("agedpool: tick_interval must be positive")
	}
	if o.Retry.Attempts < 0 {
		return errors.New("agedpool: retry.attempts must be >= 0")
	}
	return nil
}
