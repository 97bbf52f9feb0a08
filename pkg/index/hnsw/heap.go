// This file defines the min-heap and max-heap used during graph traversal and
// construction. Both are built on container/heap and specialized for
// candidate search results.
package hnsw

import "container/heap"

// candidate pairs a node id with its distance to the current query.
type candidate struct {
	id   int
	dist float64
}

// minHeap orders candidates ascending by distance: the top is the nearest
// unexpanded candidate, used to pick what to explore next.
type minHeap []candidate

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)         { *h = append(*h, x.(candidate)) }
func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// maxHeap orders candidates descending by distance: the top is the worst
// member of the current result set, so it can be evicted cheaply once the
// set grows past its cap.
type maxHeap []candidate

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return h[i].dist > h[j].dist }
func (h maxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x any)         { *h = append(*h, x.(candidate)) }
func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func newMinHeap(capacity int) *minHeap {
	h := make(minHeap, 0, capacity)
	heap.Init(&h)
	return &h
}

func newMaxHeap(capacity int) *maxHeap {
	h := make(maxHeap, 0, capacity)
	heap.Init(&h)
	return &h
}

// drain empties a heap into a plain slice, in no particular final order.
func drainMax(h *maxHeap) []candidate {
	out := make([]candidate, 0, h.Len())
	for h.Len() > 0 {
		out = append(out, heap.Pop(h).(candidate))
	}
	return out
}
