package agedpool

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// TaskFunc is the function executed by a worker for a fire-and-forget task.
type TaskFunc func(ctx context.Context) error

// ResultFunc is the function executed by a worker for a task submitted
// through SubmitResult. The returned value is delivered to the caller via
// the task's Handle.
type ResultFunc[R any] func(ctx context.Context) (R, error)

// result is the untyped cell carried on a task's completion channel.
// Exactly one of the pool's code paths writes it: the worker that executed
// the task, or Shutdown when cancelling records still queued. Those sets
// are disjoint under the pool mutex, so the channel is single-assignment
// by construction.
type result struct {
	val any
	err error
}

// Handle is the completion handle returned by SubmitResult.
//
// It supports a single consumer: Wait blocks until the worker resolves the
// task (value or failure), the pool cancels it at shutdown, or ctx expires.
type Handle[R any] struct {
	ch <-chan result
}

// Wait blocks until the task's outcome is available.
//
// A task that failed returns the zero value of R and the task's error.
// A task cancelled by an immediate shutdown returns ErrTaskCancelled.
func (h *Handle[R]) Wait(ctx context.Context) (R, error) {
	var zero R
	select {
	case res := <-h.ch:
		if res.err != nil {
			return zero, res.err
		}
		v, _ := res.val.(R)
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// task is a single queued unit of work. All mutable fields (curPrio, index)
// are guarded by the pool mutex while the task sits in the heap; once a
// worker extracts it, the worker owns it exclusively.
type task struct {
	id   ulid.ULID
	name string

	// origPrio is the submitter-supplied priority. Immutable.
	origPrio int

	// curPrio starts at origPrio and only ever increases as the aging
	// monitor applies wait-time bonuses.
	curPrio int

	// arrival is the submission timestamp used to compute the aging bonus
	// and to break ties between equal-priority tasks.
	arrival time.Time

	ctx context.Context
	fn  func(ctx context.Context) (any, error)

	// done is nil for fire-and-forget tasks. Buffered with capacity 1 so
	// the resolving side never blocks on a caller that is not waiting.
	done chan result

	// index is the task's current position in the heap slice, maintained
	// by taskHeap.Swap. -1 once extracted.
	index int
}

func newTask(ctx context.Context, priority int, name string, fn func(ctx context.Context) (any, error), wantResult bool) *task {
	t := &task{
		id:       ulid.Make(),
		name:     name,
		origPrio: priority,
		curPrio:  priority,
		arrival:  time.Now(),
		ctx:      ctx,
		fn:       fn,
		index:    -1,
	}
	if wantResult {
		t.done = make(chan result, 1)
	}
	return t
}

// resolve delivers the task outcome to its handle, if any.
// Callers must guarantee they are the task's sole resolver.
func (t *task) resolve(val any, err error) {
	if t.done == nil {
		return
	}
	t.done <- result{val: val, err: err}
}
