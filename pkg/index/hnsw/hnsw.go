// Package hnsw implements the Hierarchical Navigable Small World graph: a
// layered proximity graph that answers approximate k-nearest-neighbor
// queries by greedy descent through sparse upper layers into a dense base
// layer that holds every point.
//
// The index keeps its own copy of the dataset's vectors; nodes are addressed
// by their position in that copy (their arena id), and neighbor lists are
// plain id slices — there are no owning pointers between nodes, which keeps
// the inherently cyclic neighbor relation easy to reason about and to walk.
package hnsw

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"

	"github.com/sanonone/knnindex/pkg/vector"
)

// Open Question #1 (preserved): when a neighbor's connection list at a layer
// is already at its cap, the newly linked candidate is appended and then the
// list's *last* element is dropped — which is always the node that was just
// appended, so the link back to the new node is lost. The canonical HNSW paper instead keeps the best M
// neighbors by distance ("heuristic selection"). This implementation keeps
// the drop-tail behavior because the spec this is built from explicitly
// flags it as a property to preserve and test, not a bug to silently fix.
//
// Open Question #2 (preserved): searchLayerDescent never evicts from its
// result set once a candidate is admitted, so that set can grow past M
// during a single traversal — only lowerBound gates further admission.
//
// Open Question #5 (resolved, not preserved): the source this was built from
// shares one process-wide random generator across every index instance. This
// index carries its own *rand.Rand, seeded explicitly, so that two indexes
// built from the same seed produce bitwise identical graphs regardless of
// what else is running.
//
// Open Question #6 (resolved, not preserved): the ef-sized layer search
// admits a candidate whenever nearest hasn't reached capacity yet, regardless
// of distance, so the candidate list insert() builds from it reliably
// reaches efConstruction in size once the graph is well-connected — far more
// than neighborCap. The source links every one of those candidates
// bidirectionally and only prunes the *reciprocal* side (the existing
// node's list), leaving the node being inserted with an unbounded list of
// its own. That breaks the cap invariant outright rather than bending it the
// way the drop-tail policy does, so here the linked set itself is capped to
// the neighborCap closest candidates (the list is already sorted ascending)
// before either side is linked.

var (
	// ErrEmptyDataset is returned by Build when the dataset has no vectors.
	ErrEmptyDataset = errors.New("hnsw: dataset is empty")
	// ErrDimensionMismatch is returned when a query's dimension does not
	// match the dimension the index was built with.
	ErrDimensionMismatch = errors.New("hnsw: dimension mismatch")
	// ErrAlreadyBuilt is returned by Build on an index that has already
	// been built once; this index has no documented reset semantics.
	ErrAlreadyBuilt = errors.New("hnsw: index already built")
)

const (
	defaultM              = 16
	defaultEfConstruction = 200
)

// Index is a single-shot, read-only-after-build HNSW graph over float64
// vectors under Euclidean distance.
type Index struct {
	m              int
	maxM           int
	maxM0          int
	efConstruction int
	ml             float64

	rng *rand.Rand

	vectors  [][]float64
	nodes    []*node
	dim      int
	built    bool
	entry    int
	maxLayer int
}

// New creates an HNSW index. m <= 0 and efConstruction <= 0 fall back to the
// conventional defaults (16 and 200). seed fixes the per-index layer-draw
// generator so that Build is deterministic.
func New(m, efConstruction int, seed int64) *Index {
	if m <= 0 {
		m = defaultM
	}
	if efConstruction <= 0 {
		efConstruction = defaultEfConstruction
	}
	return &Index{
		m:              m,
		maxM:           m,
		maxM0:          m * 2,
		efConstruction: efConstruction,
		ml:             1.0 / math.Log(2.0),
		rng:            rand.New(rand.NewSource(seed)),
		maxLayer:       -1,
	}
}

// randomLayer draws layer(i) = floor(-ln(U) * ml), U ~ Uniform(0,1).
func (idx *Index) randomLayer() int {
	u := idx.rng.Float64()
	for u == 0 {
		u = idx.rng.Float64()
	}
	return int(-math.Log(u) * idx.ml)
}

func (idx *Index) distanceToQuery(query []float64, id int) float64 {
	return vector.Dist(query, idx.vectors[id])
}

// Build constructs the graph from the dataset's vectors, processed in input
// order. Build is single-shot: calling it twice on the same Index returns
// ErrAlreadyBuilt, matching the source's "undefined behavior if called
// twice" contract with an explicit error instead.
func (idx *Index) Build(vectors [][]float64) error {
	if idx.built {
		return ErrAlreadyBuilt
	}
	if len(vectors) == 0 {
		return ErrEmptyDataset
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: row %d has %d components, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
	}

	idx.dim = dim
	idx.vectors = make([][]float64, len(vectors))
	idx.nodes = make([]*node, len(vectors))
	for i, v := range vectors {
		cp := make([]float64, len(v))
		copy(cp, v)
		idx.vectors[i] = cp
	}

	for i := range vectors {
		idx.insert(i)
		if (i+1)%5000 == 0 {
			log.Printf("hnsw: indexed %d points", i+1)
		}
	}

	idx.built = true
	return nil
}

// insert runs the descent and insertion phases for point i, whose vector is
// already stored at idx.vectors[i].
func (idx *Index) insert(i int) {
	layer := idx.randomLayer()
	idx.nodes[i] = newNode(i, layer)

	if i == 0 {
		idx.entry = 0
		idx.maxLayer = layer
		return
	}

	query := idx.vectors[i]
	entryPoints := []int{idx.entry}

	for lc := idx.maxLayer; lc > layer; lc-- {
		nearest := idx.searchLayerDescent(query, entryPoints, lc)
		best, ok := bestOf(nearest)
		if !ok {
			break
		}
		entryPoints = []int{best.id}
	}

	for lc := min(layer, idx.maxLayer); lc >= 0; lc-- {
		found := sortedAscending(idx.searchLayerEf(query, entryPoints, lc, idx.efConstruction))

		neighborCap := idx.maxM
		if lc == 0 {
			neighborCap = idx.maxM0
		}

		linked := found
		if len(linked) > neighborCap {
			linked = linked[:neighborCap]
		}

		idx.nodes[i].neighbors[lc] = make([]int, 0, len(linked))
		for _, c := range linked {
			idx.nodes[i].neighbors[lc] = append(idx.nodes[i].neighbors[lc], c.id)

			other := idx.nodes[c.id]
			if lc >= len(other.neighbors) {
				continue
			}
			other.neighbors[lc] = append(other.neighbors[lc], i)
			if len(other.neighbors[lc]) > neighborCap {
				other.neighbors[lc] = other.neighbors[lc][:len(other.neighbors[lc])-1]
			}
		}

		ids := make([]int, len(found))
		for j, c := range found {
			ids[j] = c.id
		}
		entryPoints = ids
	}

	if layer > idx.maxLayer {
		idx.maxLayer = layer
		idx.entry = i
	}
}

// SearchKNearest returns the Euclidean distances from query to its k nearest
// neighbors, ascending, fewer than k if the graph holds fewer points. ef is
// the query-time candidate-set size; the effective ef is max(ef, k).
func (idx *Index) SearchKNearest(query []float64, k int, ef int) ([]float64, error) {
	if len(query) != idx.dim {
		return nil, fmt.Errorf("%w: query has %d components, want %d", ErrDimensionMismatch, len(query), idx.dim)
	}
	if k <= 0 || idx.maxLayer == -1 {
		return []float64{}, nil
	}

	entryPoints := []int{idx.entry}
	for lc := idx.maxLayer; lc > 0; lc-- {
		nearest := idx.searchLayerDescent(query, entryPoints, lc)
		best, ok := bestOf(nearest)
		if !ok {
			break
		}
		entryPoints = []int{best.id}
	}

	effectiveEf := ef
	if k > effectiveEf {
		effectiveEf = k
	}
	found := sortedAscending(idx.searchLayerEf(query, entryPoints, 0, effectiveEf))

	if k > len(found) {
		k = len(found)
	}
	distances := make([]float64, k)
	for i := 0; i < k; i++ {
		distances[i] = found[i].dist
	}
	return distances, nil
}
