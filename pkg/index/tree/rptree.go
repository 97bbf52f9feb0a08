package tree

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sanonone/knnindex/pkg/vector"
)

const defaultSeed = 42

// rpProjector projects a vector onto a fixed random direction via inner
// product. dir is not normalized — by design (§4.D's correctness note): the
// pruning bound |proj - splitVal| equals the true perpendicular distance
// only when ||dir|| = 1, so this index's pruning is a heuristic, not an
// exact bound. Normalizing dir would change that and is explicitly not done
// here.
type rpProjector struct {
	dir vector.Vector
}

func (p rpProjector) project(v vector.Vector) float64 { return vector.Dot(v, p.dir) }

// RpTreeIndex is an approximate k-nearest-neighbor index over random-
// hyperplane binary space partitions: each internal node splits its points
// at the median projection onto an independently drawn Gaussian direction.
// It shares KdTreeIndex's build/search shell; only the split capability
// differs.
type RpTreeIndex struct {
	root    *node
	dim     int
	gen     *distuv.Normal
	leafCap int
}

// NewRpTreeIndex returns an unbuilt RP-tree index whose direction draws are
// seeded deterministically and whose leaves split at DefaultLeafCap points.
// Two indexes built from the same seed and dataset produce bitwise identical
// trees — this instance-local generator is what makes that possible (the
// source this is built from instead shares one process-wide generator across
// every tree, which the spec calls out as worth fixing in a rewrite).
func NewRpTreeIndex(seed int64) *RpTreeIndex {
	return NewRpTreeIndexWithLeafCap(seed, DefaultLeafCap)
}

// NewRpTreeIndexWithLeafCap is NewRpTreeIndex with an explicit leaf cap.
// leafCap <= 0 falls back to DefaultLeafCap.
func NewRpTreeIndexWithLeafCap(seed int64, leafCap int) *RpTreeIndex {
	if leafCap <= 0 {
		leafCap = DefaultLeafCap
	}
	return &RpTreeIndex{
		gen:     &distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(uint64(seed))},
		leafCap: leafCap,
	}
}

// NewRpTreeIndexDefaultSeed returns an unbuilt RP-tree index seeded with the
// same constant (42) the source this is built from hard-codes.
func NewRpTreeIndexDefaultSeed() *RpTreeIndex {
	return NewRpTreeIndex(defaultSeed)
}

func (idx *RpTreeIndex) chooseSplit(points []vector.Vector) projector {
	dir := make(vector.Vector, len(points[0]))
	for i := range dir {
		dir[i] = idx.gen.Rand()
	}
	return rpProjector{dir: dir}
}

// Build partitions the dataset into the tree. As with KdTreeIndex, Build may
// be called again; a prior tree is discarded.
func (idx *RpTreeIndex) Build(points []vector.Vector) error {
	dim, err := validateBuildInput(points)
	if err != nil {
		return err
	}
	working := make([]vector.Vector, len(points))
	copy(working, points)

	idx.dim = dim
	idx.root = build(working, idx.chooseSplit, idx.leafCap)
	return nil
}

// SearchKNearest returns the Euclidean distances, ascending, from query to
// its (approximate) k nearest neighbors. Because the split hyperplanes are
// not axis-aligned and the pruning bound is heuristic (see rpProjector's
// doc), this search can miss a true nearest neighbor that KdTreeIndex would
// find; it is not a drop-in exactness replacement.
func (idx *RpTreeIndex) SearchKNearest(query vector.Vector, k int) ([]float64, error) {
	if len(query) != idx.dim {
		return nil, ErrDimensionMismatch
	}
	if k <= 0 {
		return []float64{}, nil
	}
	return searchKNearest(idx.root, query, k), nil
}

// Leaves returns every point stored in the tree's leaves, for verifying the
// tree-exhaustiveness invariant.
func (idx *RpTreeIndex) Leaves() []vector.Vector { return leaves(idx.root) }
