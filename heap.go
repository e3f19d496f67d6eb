package agedpool

import "container/heap"

// taskHeap is a max-heap of queued tasks ordered by current priority,
// ties broken by earliest arrival so equal-priority work keeps submission
// order even after a rebuild.
//
// The heap is a pure data structure: every method assumes the caller holds
// the pool mutex. The aging monitor mutates curPrio fields in place and
// then calls rebuild, so between those two steps the slice may violate the
// heap property — extraction is only valid again after rebuild returns.
type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].curPrio != h[j].curPrio {
		return h[i].curPrio > h[j].curPrio
	}
	return h[i].arrival.Before(h[j].arrival)
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	t := x.(*task)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil // allow GC
	t.index = -1
	*h = old[:n-1]
	return t
}

// insert places t into the heap in O(log n).
func (h *taskHeap) insert(t *task) {
	heap.Push(h, t)
}

// extractMax removes and returns the highest-priority task, or nil if the
// heap is empty. O(log n).
func (h *taskHeap) extractMax() *task {
	if h.Len() == 0 {
		return nil
	}
	return heap.Pop(h).(*task)
}

// rebuild re-establishes the heap property after curPrio fields were
// mutated externally (the aging pass). O(n).
func (h *taskHeap) rebuild() {
	heap.Init(h)
}
