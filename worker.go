package agedpool

import (
	"fmt"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
)

// worker is the dispatch loop of one worker goroutine.
//
// It blocks on the shared condition while the heap is empty and the pool
// is running. A wake-up means one of: a new insert, an aging rebuild that
// may have changed which task sits at the root, or shutdown. Extraction
// happens under the lock; execution never does.
func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for p.tasks.Len() == 0 && p.running {
			p.cond.Wait()
		}
		if p.tasks.Len() == 0 {
			// not running and nothing left to drain
			p.mu.Unlock()
			return
		}
		t := p.tasks.extractMax()
		queued := p.tasks.Len()
		p.mu.Unlock()

		p.opts.Metrics.SetQueued(int64(queued))
		p.runTask(t)
	}
}

// runTask executes a single extracted task outside any lock, applying the
// pool retry policy and resolving the task's handle exactly once.
func (p *Pool) runTask(t *task) {
	logger := lg.FromContext(t.ctx).With(
		lg.String("task_id", t.id.String()),
		lg.String("name", t.name),
	)
	logger.Info("task starting",
		lg.Int("priority", t.curPrio),
		lg.String("waited", time.Since(t.arrival).String()),
	)

	val, err := p.attempt(t)

	p.opts.Metrics.IncExecuted()
	if err != nil {
		p.opts.Metrics.IncFailed()
		logger.Error("task failed", lg.Any("error", err))
		if t.done == nil {
			p.reportTaskError(err)
		}
	} else {
		logger.Info("task finished")
	}
	t.resolve(val, err)
}

// attempt runs the task function up to the policy's attempt count,
// backing off between failures. Panics are recovered per attempt and
// converted to errors so a misbehaving task never kills its worker.
func (p *Pool) attempt(t *task) (any, error) {
	pol := p.opts.Retry.normalize()
	logger := lg.FromContext(t.ctx).With(lg.String("task_id", t.id.String()))

	bo := boff.New(pol.Initial, pol.Max, time.Now().UnixNano())

	var val any
	var err error
	for attempt := 1; attempt <= pol.Attempts; attempt++ {
		val, err = p.invoke(t)
		if err == nil {
			return val, nil
		}
		if attempt == pol.Attempts {
			break
		}

		delay := bo.Next()
		logger.Warn("task attempt failed; backing off",
			lg.Int("attempt", attempt),
			lg.String("sleep", delay.String()),
			lg.Any("error", err),
		)
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-t.ctx.Done():
			if !timer.Stop() {
				<-timer.C // drain if timer already fired
			}
			logger.Info("task abandoned during backoff", lg.Any("reason", t.ctx.Err()))
			return nil, t.ctx.Err()
		}
	}
	return nil, err
}

// invoke calls the task function with panic recovery.
func (p *Pool) invoke(t *task) (val any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("agedpool: task panicked: %v", r)
		}
	}()
	return t.fn(t.ctx)
}
