package agedpool

import (
	"context"
	"errors"
	"sync"

	lg "github.com/Andrej220/go-utils/zlog"
)

var (
	// ErrPoolClosed is returned by Submit and SubmitResult once shutdown
	// has begun. The task is never queued.
	ErrPoolClosed = errors.New("agedpool: pool closed")

	// ErrTaskCancelled resolves the handle of a task that was still
	// queued when an immediate shutdown tore the pool down.
	ErrTaskCancelled = errors.New("agedpool: task cancelled at shutdown")

	// ErrNilFunc is returned when a submitted task has a nil function.
	ErrNilFunc = errors.New("agedpool: task func is nil")
)

// ShutdownMode selects how Shutdown treats work that is still queued.
type ShutdownMode int

const (
	// Drain stops accepting new submissions but lets every queued task,
	// including aged-up ones, run to completion before workers exit.
	Drain ShutdownMode = iota

	// Immediate stops accepting new submissions and cancels tasks that
	// have not started; in-flight tasks still finish.
	Immediate
)

func (m ShutdownMode) String() string {
	switch m {
	case Drain:
		return "drain"
	case Immediate:
		return "immediate"
	default:
		return "unknown"
	}
}

// Pool executes submitted tasks on a fixed set of workers, always
// dispatching the highest-priority queued task, while a background monitor
// ages queued tasks so low-priority work cannot starve.
//
// One mutex and one condition variable guard the task heap; they are the
// sole synchronization between submitters, workers, and the monitor.
// Task bodies always run outside the lock.
type Pool struct {
	opts Options

	mu    sync.Mutex
	cond  *sync.Cond
	tasks taskHeap

	// running is true from New until Shutdown begins. Guarded by mu.
	running bool

	// stopCh tells the aging monitor to exit. The monitor does not wait
	// for the heap to empty: aging is irrelevant once no dispatch follows.
	stopCh   chan struct{}
	stopOnce sync.Once

	wg sync.WaitGroup
}

// New creates a Pool and starts its workers and aging monitor.
// Zero-valued options are replaced with defaults; see Options.
func New(opts Options) *Pool {
	opts.FillDefaults()

	p := &Pool{
		opts:    opts,
		tasks:   make(taskHeap, 0, 64),
		running: true,
		stopCh:  make(chan struct{}),
	}
	p.cond = sync.NewCond(&p.mu)

	for i := 0; i < p.opts.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	p.wg.Add(1)
	go p.monitor()
	return p
}

// Submit queues a fire-and-forget task and returns immediately.
// The final error of a failing task goes to Options.OnTaskError.
// It returns ErrPoolClosed if shutdown has begun.
func (p *Pool) Submit(ctx context.Context, priority int, name string, fn TaskFunc) error {
	if fn == nil {
		return ErrNilFunc
	}
	_, err := p.enqueue(ctx, priority, name, func(c context.Context) (any, error) {
		return nil, fn(c)
	}, false)
	return err
}

// SubmitResult queues a task whose result is delivered through the
// returned Handle. It returns ErrPoolClosed if shutdown has begun.
func SubmitResult[R any](p *Pool, ctx context.Context, priority int, name string, fn ResultFunc[R]) (*Handle[R], error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	ch, err := p.enqueue(ctx, priority, name, func(c context.Context) (any, error) {
		return fn(c)
	}, true)
	if err != nil {
		return nil, err
	}
	return &Handle[R]{ch: ch}, nil
}

// enqueue inserts a new task under the pool lock and wakes one worker.
// The running check and the insert happen under the same lock acquisition,
// so a submission either fully precedes shutdown (and is drained or
// cancelled per mode) or is rejected — there is no in-between state.
func (p *Pool) enqueue(ctx context.Context, priority int, name string, fn func(context.Context) (any, error), wantResult bool) (chan result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	t := newTask(ctx, priority, name, fn, wantResult)

	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		p.opts.Metrics.IncRejected()
		return nil, ErrPoolClosed
	}
	p.tasks.insert(t)
	queued := p.tasks.Len()
	p.cond.Signal()
	p.mu.Unlock()

	p.opts.Metrics.IncSubmitted()
	p.opts.Metrics.SetQueued(int64(queued))
	lg.FromContext(ctx).Info("task submitted",
		lg.String("task_id", t.id.String()),
		lg.String("name", t.name),
		lg.Int("priority", t.origPrio),
	)
	return t.done, nil
}

// Shutdown stops the pool and joins every worker and the monitor before
// returning, unless ctx expires first.
//
// In Drain mode all queued tasks run to completion. In Immediate mode
// tasks that have not started are resolved with ErrTaskCancelled and only
// in-flight tasks finish. Calling Shutdown again is safe; a later
// Immediate call cancels whatever is still queued from an earlier drain.
func (p *Pool) Shutdown(ctx context.Context, mode ShutdownMode) error {
	p.mu.Lock()
	p.running = false
	p.stopOnce.Do(func() { close(p.stopCh) })

	var cancelled int
	if mode == Immediate {
		for _, t := range p.tasks {
			t.resolve(nil, ErrTaskCancelled)
			p.opts.Metrics.IncCancelled()
			cancelled++
		}
		p.tasks = p.tasks[:0]
	}
	p.cond.Broadcast()
	p.mu.Unlock()

	if cancelled > 0 {
		p.opts.Metrics.SetQueued(0)
	}
	lg.FromContext(ctx).Info("pool shutting down",
		lg.String("mode", mode.String()),
		lg.Int("cancelled", cancelled),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.wg.Wait()
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop is a blocking drain shutdown.
func (p *Pool) Stop() { _ = p.Shutdown(context.Background(), Drain) }

// Queued returns the number of tasks currently waiting for a worker.
func (p *Pool) Queued() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tasks.Len()
}

// Running reports whether the pool still accepts submissions.
func (p *Pool) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
