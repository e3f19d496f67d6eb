// Package agedpool provides a fixed-size worker pool that dispatches
// tasks by priority and ages queued work to prevent starvation.
//
// Scheduling model
//
// Tasks are kept in a max-heap ordered by their current priority, ties
// broken by earliest arrival. Workers always extract the root, so the
// highest-priority queued task runs next — as ordered at the instant of
// extraction, not the instant of submission.
//
// A dedicated monitor goroutine re-ages the queue on a fixed tick:
//
//	bonus   = floor(waited / AgingInterval) * AgingIncrement
//	current = min(original + bonus, MaxPriority)   // cap optional
//
// Priorities only ever increase. After any change the heap is rebuilt and
// every worker is woken, so a task that has waited long enough overtakes
// younger, nominally higher-priority work instead of starving behind it.
//
// Concurrency model
//
// One mutex and one condition variable guard the heap. Submitters insert
// under the lock and wake one worker; the monitor mutates priorities under
// the same lock and wakes all workers; workers extract under the lock and
// execute outside it. Lock-hold time is bounded to the O(log n) or O(n)
// structural operations — never a task body, never a sleep.
//
// Results and failures
//
// Submit is fire-and-forget; the final error of a failing task goes to the
// OnTaskError hook. SubmitResult returns a single-use Handle through which
// the task's typed value or error is delivered. Failing tasks may be
// retried with backoff per the pool's RetryPolicy. Panics are recovered
// and surfaced as errors; they never terminate a worker.
//
// Shutdown
//
// Shutdown(ctx, Drain) stops intake and lets all queued work finish;
// Shutdown(ctx, Immediate) additionally resolves still-queued tasks with
// ErrTaskCancelled while in-flight tasks run to completion. Both join all
// workers and the monitor before returning. Submissions after shutdown
// has begun fail with ErrPoolClosed — they are never silently queued.
package agedpool
