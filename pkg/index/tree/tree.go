// Package tree implements the binary-space-partition shell shared by the
// KD-tree and RP-tree indexes: a strict binary tree of leaves (small point
// buckets) and internal nodes (a split predicate and two children), built by
// recursive median-split partitioning and searched by a bounded max-heap
// descent with hyperplane pruning.
//
// KdTreeIndex and RpTreeIndex differ only in how a node's split is chosen and
// projected — axis-aligned vs. random-direction — so that difference is
// captured in a small projector capability per node, and everything else
// (the recursion, the leaf cap, the pruning rule, the result shape) is
// shared.
package tree

import (
	"container/heap"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/sanonone/knnindex/pkg/vector"
)

// DefaultLeafCap bounds the number of points a leaf may hold before a node
// is split further, absent an explicit override.
const DefaultLeafCap = 100

var (
	// ErrEmptyDataset is returned by Build when given zero vectors.
	ErrEmptyDataset = errors.New("tree: dataset is empty")
	// ErrDimensionMismatch is returned when vectors of differing length are
	// passed to Build, or a query's dimension does not match the tree's.
	ErrDimensionMismatch = errors.New("tree: dimension mismatch")
)

// projector picks and evaluates a node's split. A KD node projects onto one
// axis; an RP node projects onto a random direction via inner product.
type projector interface {
	project(v vector.Vector) float64
}

type node struct {
	isLeaf bool
	points []vector.Vector // leaf only, owned copies

	proj     projector // internal only
	splitVal float64
	left     *node
	right    *node
}

// chooseSplitFunc picks a projector for an internal node given the points it
// will partition. It may reorder points (the tree build mutates its working
// slice by sorting it along the chosen projection).
type chooseSplitFunc func(points []vector.Vector) projector

func build(points []vector.Vector, choose chooseSplitFunc, leafCap int) *node {
	if len(points) <= leafCap {
		leaf := make([]vector.Vector, len(points))
		for i, p := range points {
			cp := make(vector.Vector, len(p))
			copy(cp, p)
			leaf[i] = cp
		}
		return &node{isLeaf: true, points: leaf}
	}

	proj := choose(points)
	sort.Slice(points, func(i, j int) bool {
		return proj.project(points[i]) < proj.project(points[j])
	})
	mid := len(points) / 2

	return &node{
		proj:     proj,
		splitVal: proj.project(points[mid]),
		left:     build(points[:mid], choose, leafCap),
		right:    build(points[mid:], choose, leafCap),
	}
}

// searchKNearest performs the bounded-heap descent described in the package
// doc: nearer before farther, farther only when the result set isn't full
// yet or the split might still hide something closer.
func searchKNearest(root *node, query vector.Vector, k int) []float64 {
	pq := newDistHeap()
	searchRecursive(root, query, k, pq)

	out := make([]float64, pq.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(pq).(float64)
	}
	return out
}

func searchRecursive(n *node, query vector.Vector, k int, pq *distHeap) {
	if n == nil {
		return
	}
	if n.isLeaf {
		for _, p := range n.points {
			d := vector.Dist(query, p)
			heap.Push(pq, d)
			if pq.Len() > k {
				heap.Pop(pq)
			}
		}
		return
	}

	s := n.proj.project(query)
	nearer, farther := n.left, n.right
	if s > n.splitVal {
		nearer, farther = n.right, n.left
	}

	searchRecursive(nearer, query, k, pq)
	if pq.Len() < k || math.Abs(s-n.splitVal) < (*pq)[0] {
		searchRecursive(farther, query, k, pq)
	}
}

// leaves returns every point stored across the tree's leaves, in traversal
// order, used for the multiset-exhaustiveness property.
func leaves(n *node) []vector.Vector {
	if n == nil {
		return nil
	}
	if n.isLeaf {
		return n.points
	}
	return append(leaves(n.left), leaves(n.right)...)
}

func validateBuildInput(points []vector.Vector) (int, error) {
	if len(points) == 0 {
		return 0, ErrEmptyDataset
	}
	dim := len(points[0])
	for i, p := range points {
		if len(p) != dim {
			return 0, fmt.Errorf("%w: row %d has %d components, want %d", ErrDimensionMismatch, i, len(p), dim)
		}
	}
	return dim, nil
}
