package engine

import "container/heap"

// TopKCollector keeps the K best scoring hits in a min-heap. Ties go to
// the lower DocID.
type TopKCollector struct {
	k int
	h hitHeap
}

// NewTopKCollector creates a collector for the top K hits.
func NewTopKCollector(k int) *TopKCollector {
	if k <= 0 {
		k = 10
	}
	return &TopKCollector{k: k, h: make(hitHeap, 0, k)}
}

// Collect adds a hit if it ranks among the best K so far.
func (c *TopKCollector) Collect(hit Hit) {
	if c.h.Len() < c.k {
		heap.Push(&c.h, hit)
		return
	}
	if worse(c.h[0], hit) {
		c.h[0] = hit
		heap.Fix(&c.h, 0)
	}
}

// Len returns the number of hits collected so far.
func (c *TopKCollector) Len() int {
	return c.h.Len()
}

// Results drains the collector, best hit first.
func (c *TopKCollector) Results() []Hit {
	result := make([]Hit, c.h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = heap.Pop(&c.h).(Hit)
	}
	return result
}

// worse reports whether a ranks below b.
func worse(a, b Hit) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.DocID > b.DocID
}

type hitHeap []Hit

func (h hitHeap) Len() int           { return len(h) }
func (h hitHeap) Less(i, j int) bool { return worse(h[i], h[j]) }
func (h hitHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *hitHeap) Push(x any)        { *h = append(*h, x.(Hit)) }
func (h *hitHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
