package tree

// distHeap is a bounded max-heap of distances: the top is the current k-th
// best (the worst distance still kept), matching the search algorithm's
// pq.top() comparisons.
type distHeap []float64

func (h distHeap) Len() int            { return len(h) }
func (h distHeap) Less(i, j int) bool  { return h[i] > h[j] }
func (h distHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *distHeap) Push(x any)         { *h = append(*h, x.(float64)) }
func (h *distHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func newDistHeap() *distHeap {
	return &distHeap{}
}
