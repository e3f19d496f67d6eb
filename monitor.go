package agedpool

import (
	"time"
)

// monitor is the aging loop. It runs for the lifetime of the pool on its
// own goroutine, periodically re-aging every queued task and rebuilding
// the heap when any priority changed.
//
// The broadcast happens after the lock is released: a rebuild may have
// changed which task sits at the root, so every blocked worker must
// re-check, not just one.
func (p *Pool) monitor() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			// Shutdown. The heap need not be empty: aging is pointless
			// once no further dispatch will occur.
			return
		case <-ticker.C:
			if p.applyAging(time.Now()) {
				p.cond.Broadcast()
			}
		}
	}
}

// applyAging recomputes every queued task's current priority from its wait
// time and rebuilds the heap if anything changed. It reports whether a
// rebuild happened.
//
// The bonus is floor(elapsed/AgingInterval)*AgingIncrement on top of the
// original priority, clamped to MaxPriority when a cap is set. Priorities
// only ever increase, so a task that was eligible for selection can never
// become ineligible through the passage of time.
func (p *Pool) applyAging(now time.Time) bool {
	var maxAge time.Duration
	changed := false

	p.mu.Lock()
	for _, t := range p.tasks {
		age := now.Sub(t.arrival)
		if age > maxAge {
			maxAge = age
		}
		bonus := int(age/p.opts.AgingInterval) * p.opts.AgingIncrement
		if bonus <= 0 {
			continue
		}
		next := t.origPrio + bonus
		if p.opts.MaxPriority > 0 && next > p.opts.MaxPriority {
			next = p.opts.MaxPriority
		}
		if next > t.curPrio {
			t.curPrio = next
			changed = true
		}
	}
	if changed {
		p.tasks.rebuild()
	}
	p.mu.Unlock()

	p.opts.Metrics.SetMaxAge(maxAge)
	if changed {
		p.opts.Metrics.IncRebuilds()
	}
	return changed
}
