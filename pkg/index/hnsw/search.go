package hnsw

import (
	"container/heap"
	"math"
	"sort"
)

// searchLayerDescent is "Variant 1": used while descending from the graph's
// top layer down to the target node's assigned layer. It admits any neighbor
// while nearest holds fewer than M candidates, and afterwards only those
// closer than lowerBound; it never evicts from nearest once admitted, so
// nearest can grow past M during traversal.
// This is intentional; see the package-level note on Open Question #2.
func (idx *Index) searchLayerDescent(query []float64, entryPoints []int, layer int) []candidate {
	return idx.searchLayer(query, entryPoints, layer, idx.m, false)
}

// searchLayerEf is "Variant 2": used during insertion and for the final
// layer-0 query. It keeps up to ef candidates in nearest, evicting the
// current worst (the max-heap top) whenever admission pushes the set past
// that cap, and re-seeding lowerBound from the new top. See Open Question #3
// on why lowerBound is reseeded from a heap top rather than tracked
// separately.
func (idx *Index) searchLayerEf(query []float64, entryPoints []int, layer int, ef int) []candidate {
	return idx.searchLayer(query, entryPoints, layer, ef, true)
}

// searchLayer is the shared traversal shared by both variants; evictOnCap
// selects Variant 2's eviction behavior.
func (idx *Index) searchLayer(query []float64, entryPoints []int, layer int, capacity int, evictOnCap bool) []candidate {
	visited := NewBitSet(uint32(len(idx.nodes)))
	candidates := newMinHeap(capacity)
	nearest := newMaxHeap(capacity)

	lowerBound := math.Inf(1)
	for _, ep := range entryPoints {
		d := idx.distanceToQuery(query, ep)
		if d < lowerBound {
			lowerBound = d
		}
		heap.Push(candidates, candidate{id: ep, dist: d})
		heap.Push(nearest, candidate{id: ep, dist: d})
		visited.Add(uint32(ep))
	}

	for candidates.Len() > 0 {
		c := heap.Pop(candidates).(candidate)
		if c.dist > lowerBound {
			break
		}

		for _, n := range idx.nodes[c.id].neighbors[layer] {
			if visited.Has(uint32(n)) {
				continue
			}
			visited.Add(uint32(n))
			d := idx.distanceToQuery(query, n)

			if evictOnCap {
				if d < lowerBound || nearest.Len() < capacity {
					heap.Push(candidates, candidate{id: n, dist: d})
					heap.Push(nearest, candidate{id: n, dist: d})
					if nearest.Len() > capacity {
						heap.Pop(nearest)
						lowerBound = (*nearest)[0].dist
					} else if d < lowerBound {
						lowerBound = d
					}
				}
			} else {
				if d < lowerBound || nearest.Len() < capacity {
					heap.Push(candidates, candidate{id: n, dist: d})
					heap.Push(nearest, candidate{id: n, dist: d})
					if d < lowerBound {
						lowerBound = d
					}
				}
			}
		}
	}

	return drainMax(nearest)
}

// bestOf returns the minimum-distance candidate in a result list, used to
// pick the single entry point forwarded to the next-lower layer during
// descent.
func bestOf(candidates []candidate) (candidate, bool) {
	if len(candidates) == 0 {
		return candidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.dist < best.dist {
			best = c
		}
	}
	return best, true
}

// sortedAscending returns a copy of candidates sorted by ascending distance.
// The layer search's return order carries no algorithmic meaning (per spec),
// but insertion's bidirectional linking and the final query's "first k" both
// need a deterministic convention, so every caller that depends on order
// sorts explicitly here rather than trusting heap drain order.
func sortedAscending(candidates []candidate) []candidate {
	out := make([]candidate, len(candidates))
	copy(out, candidates)
	sort.Slice(out, func(i, j int) bool { return out[i].dist < out[j].dist })
	return out
}
