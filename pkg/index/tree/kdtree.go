package tree

import (
	"github.com/sanonone/knnindex/pkg/vector"
)

// kdProjector projects a vector onto a single axis. It is the KD-tree's
// split capability: the axis of maximum spread over the points being
// partitioned, ties broken by lowest index.
type kdProjector struct {
	dim int
}

func (p kdProjector) project(v vector.Vector) float64 { return v[p.dim] }

func chooseKdSplit(points []vector.Vector) projector {
	dim := len(points[0])
	splitDim := 0
	maxSpread := -1.0
	for i := 0; i < dim; i++ {
		min, max := points[0][i], points[0][i]
		for _, p := range points[1:] {
			if p[i] < min {
				min = p[i]
			}
			if p[i] > max {
				max = p[i]
			}
		}
		if spread := max - min; spread > maxSpread {
			maxSpread = spread
			splitDim = i
		}
	}
	return kdProjector{dim: splitDim}
}

// KdTreeIndex is an exact k-nearest-neighbor index over axis-aligned binary
// space partitions: each internal node splits its points at the median
// along the dimension of maximum spread, and search descends with bounded-
// box pruning that never misses a closer point.
type KdTreeIndex struct {
	root    *node
	dim     int
	leafCap int
}

// NewKdTreeIndex returns an unbuilt KD-tree index using DefaultLeafCap.
func NewKdTreeIndex() *KdTreeIndex { return &KdTreeIndex{leafCap: DefaultLeafCap} }

// NewKdTreeIndexWithLeafCap returns an unbuilt KD-tree index whose leaves
// split at leafCap points instead of DefaultLeafCap. leafCap <= 0 falls back
// to DefaultLeafCap.
func NewKdTreeIndexWithLeafCap(leafCap int) *KdTreeIndex {
	if leafCap <= 0 {
		leafCap = DefaultLeafCap
	}
	return &KdTreeIndex{leafCap: leafCap}
}

// Build partitions the dataset into the tree. Unlike HnswIndex, Build may be
// called again: a prior tree is simply discarded, matching the source's
// "clear old root if exists" behavior.
func (idx *KdTreeIndex) Build(points []vector.Vector) error {
	dim, err := validateBuildInput(points)
	if err != nil {
		return err
	}
	working := make([]vector.Vector, len(points))
	copy(working, points)

	idx.dim = dim
	idx.root = build(working, chooseKdSplit, idx.leafCap)
	return nil
}

// SearchKNearest returns the Euclidean distances, ascending, from query to
// its k nearest neighbors in the dataset the tree was built from. Up to
// ties, this is exact: it returns the same multiset of distances as brute
// force. k <= 0 returns an empty result; k > the dataset size returns every
// point's distance.
func (idx *KdTreeIndex) SearchKNearest(query vector.Vector, k int) ([]float64, error) {
	if len(query) != idx.dim {
		return nil, ErrDimensionMismatch
	}
	if k <= 0 {
		return []float64{}, nil
	}
	return searchKNearest(idx.root, query, k), nil
}

// Leaves returns every point stored in the tree's leaves, for verifying
// the tree-exhaustiveness invariant.
func (idx *KdTreeIndex) Leaves() []vector.Vector { return leaves(idx.root) }
