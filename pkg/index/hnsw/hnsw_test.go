package hnsw

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/sanonone/knnindex/pkg/vector"
)

func randomVectors(n, dim int, seed int64) [][]float64 {
	r := rand.New(rand.NewSource(seed))
	out := make([][]float64, n)
	for i := range out {
		v := make([]float64, dim)
		for j := range v {
			v[j] = r.Float64()
		}
		out[i] = v
	}
	return out
}

func bruteForceDists(points [][]float64, query []float64, k int) []float64 {
	dists := make([]float64, len(points))
	for i, p := range points {
		dists[i] = vector.Dist(query, p)
	}
	sort.Float64s(dists)
	if k > len(dists) {
		k = len(dists)
	}
	return dists[:k]
}

func TestBuildRejectsEmptyDataset(t *testing.T) {
	idx := New(16, 200, 1)
	if err := idx.Build(nil); err == nil {
		t.Fatal("expected an empty dataset error")
	}
}

func TestBuildRejectsDimensionMismatch(t *testing.T) {
	idx := New(16, 200, 1)
	err := idx.Build([][]float64{{1, 2}, {1, 2, 3}})
	if err == nil {
		t.Fatal("expected a dimension mismatch error")
	}
}

func TestBuildTwiceIsRejected(t *testing.T) {
	idx := New(16, 200, 1)
	if err := idx.Build([][]float64{{1, 2}, {3, 4}}); err != nil {
		t.Fatal(err)
	}
	if err := idx.Build([][]float64{{1, 2}, {3, 4}}); err != ErrAlreadyBuilt {
		t.Fatalf("got %v, want ErrAlreadyBuilt", err)
	}
}

func TestSearchRejectsDimensionMismatch(t *testing.T) {
	idx := New(16, 200, 1)
	if err := idx.Build([][]float64{{1, 2}, {3, 4}}); err != nil {
		t.Fatal(err)
	}
	if _, err := idx.SearchKNearest([]float64{1, 2, 3}, 1, 10); err == nil {
		t.Fatal("expected a dimension mismatch error")
	}
}

func TestSinglePointDataset(t *testing.T) {
	idx := New(16, 200, 1)
	if err := idx.Build([][]float64{{3, 4}}); err != nil {
		t.Fatal(err)
	}
	got, err := idx.SearchKNearest([]float64{0, 0}, 5, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || math.Abs(got[0]-5) > 1e-9 {
		t.Errorf("got %v, want [5]", got)
	}
}

// S3: 200 copies of the zero vector in R^4; any query point returns five
// zero distances.
func TestIdenticalPointsScenario(t *testing.T) {
	points := make([][]float64, 200)
	for i := range points {
		points[i] = make([]float64, 4)
	}
	idx := New(16, 200, 1)
	if err := idx.Build(points); err != nil {
		t.Fatal(err)
	}
	got, err := idx.SearchKNearest(points[0], 5, 50)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 0, 0, 0, 0}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i, d := range got {
		if d != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

// the standard-basis vectors, exact recall expected at this scale since
// every point is directly reachable.
func TestStandardBasisRecall(t *testing.T) {
	dim := 10
	points := make([][]float64, dim)
	for i := 0; i < dim; i++ {
		v := make([]float64, dim)
		v[i] = 1
		points[i] = v
	}
	idx := New(16, 200, 1)
	if err := idx.Build(points); err != nil {
		t.Fatal(err)
	}
	got, err := idx.SearchKNearest(make([]float64, dim), 3, 50)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1.0, 1.0, 1.0}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestSortedAscendingOutput(t *testing.T) {
	points := randomVectors(500, 8, 11)
	idx := New(16, 200, 5)
	if err := idx.Build(points); err != nil {
		t.Fatal(err)
	}
	got, err := idx.SearchKNearest(randomVectors(1, 8, 99)[0], 20, 100)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Fatalf("results not sorted ascending: %v", got)
		}
	}
}

func TestSizeBound(t *testing.T) {
	points := randomVectors(5, 4, 2)
	idx := New(16, 200, 2)
	if err := idx.Build(points); err != nil {
		t.Fatal(err)
	}
	got, err := idx.SearchKNearest(points[0], 100, 200)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(points) {
		t.Errorf("len(got) = %d, want %d", len(got), len(points))
	}
}

func TestDeterministicGivenSeed(t *testing.T) {
	points := randomVectors(400, 6, 3)
	query := randomVectors(1, 6, 777)[0]

	idxA := New(16, 200, 42)
	if err := idxA.Build(points); err != nil {
		t.Fatal(err)
	}
	gotA, err := idxA.SearchKNearest(query, 10, 100)
	if err != nil {
		t.Fatal(err)
	}

	idxB := New(16, 200, 42)
	if err := idxB.Build(points); err != nil {
		t.Fatal(err)
	}
	gotB, err := idxB.SearchKNearest(query, 10, 100)
	if err != nil {
		t.Fatal(err)
	}

	for i := range gotA {
		if gotA[i] != gotB[i] {
			t.Fatalf("same-seed builds diverged: %v vs %v", gotA, gotB)
		}
	}
}

// Every node's neighbor ids must be valid arena indices, and every layer's
// neighbor list must respect its cap (maxM above layer 0, maxM0 at layer 0).
func TestNeighborListsWithinCapAndValid(t *testing.T) {
	points := randomVectors(800, 5, 4)
	idx := New(12, 100, 4)
	if err := idx.Build(points); err != nil {
		t.Fatal(err)
	}

	for id, n := range idx.nodes {
		for lc, neighbors := range n.neighbors {
			neighborCap := idx.maxM
			if lc == 0 {
				neighborCap = idx.maxM0
			}
			if len(neighbors) > neighborCap {
				t.Errorf("node %d layer %d has %d neighbors, cap is %d", id, lc, len(neighbors), neighborCap)
			}
			for _, other := range neighbors {
				if other < 0 || other >= len(idx.nodes) {
					t.Errorf("node %d layer %d has out-of-range neighbor %d", id, lc, other)
				}
				if other == id {
					t.Errorf("node %d layer %d lists itself as a neighbor", id, lc)
				}
			}
		}
	}
}

// Bidirectionality holds exactly when no neighbor list ever hits its cap: a
// small dataset relative to M guarantees that, so this confirms the linking
// logic itself is symmetric. TestNeighborListsWithinCapAndValid covers the
// cap side; with a larger dataset, drop-tail eviction (see DESIGN.md's Open
// Question #1) can break bidirectionality for an evicted edge, which is a
// preserved property of this implementation, not a bug.
func TestBidirectionalLinkingBelowCap(t *testing.T) {
	points := randomVectors(20, 4, 13)
	idx := New(16, 200, 13)
	if err := idx.Build(points); err != nil {
		t.Fatal(err)
	}

	for i, n := range idx.nodes {
		for lc, neighbors := range n.neighbors {
			for _, j := range neighbors {
				found := false
				for _, back := range idx.nodes[j].neighbors[lc] {
					if back == i {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("layer %d: %d lists %d as a neighbor, but not vice versa", lc, i, j)
				}
			}
		}
	}
}

// The entry point must sit at the graph's max layer.
func TestEntryPointInvariant(t *testing.T) {
	points := randomVectors(300, 4, 9)
	idx := New(16, 200, 9)
	if err := idx.Build(points); err != nil {
		t.Fatal(err)
	}
	if idx.nodes[idx.entry].maxLayer != idx.maxLayer {
		t.Errorf("entry point %d has maxLayer %d, want %d", idx.entry, idx.nodes[idx.entry].maxLayer, idx.maxLayer)
	}
}

// Approximate recall against brute force should be high on a modest,
// well-connected random dataset — a smoke test, not an exactness guarantee.
func TestRecallAgainstBruteForce(t *testing.T) {
	points := randomVectors(1000, 8, 123)
	idx := New(16, 200, 123)
	if err := idx.Build(points); err != nil {
		t.Fatal(err)
	}

	const k = 10
	const trials = 20
	var totalRecall float64
	queries := randomVectors(trials, 8, 456)
	for _, q := range queries {
		got, err := idx.SearchKNearest(q, k, 200)
		if err != nil {
			t.Fatal(err)
		}
		want := bruteForceDists(points, q, k)

		hit := 0
		for i := range got {
			if i < len(want) && math.Abs(got[i]-want[i]) < 1e-6 {
				hit++
			}
		}
		totalRecall += float64(hit) / float64(len(want))
	}
	avgRecall := totalRecall / float64(trials)
	if avgRecall < 0.9 {
		t.Errorf("average recall@%d = %.2f, want >= 0.9", k, avgRecall)
	}
}
