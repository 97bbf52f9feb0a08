// Package metrics holds the Prometheus instrumentation shared by every index
// implementation: how long a build takes, how long a query takes, and how
// many results a query actually returned (which can fall short of k on a
// small dataset).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BuildDuration measures how long Build takes, labeled by index kind
	// (kdtree, rptree, hnsw).
	BuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "knnindex_build_duration_seconds",
			Help:    "Duration of index Build calls in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"index_kind"},
	)

	// SearchDuration measures how long a single SearchKNearest call takes.
	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "knnindex_search_duration_seconds",
			Help:    "Duration of SearchKNearest calls in seconds",
			Buckets: []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"index_kind"},
	)

	// ResultsReturned tracks how many distances a query actually returned,
	// which is min(k, dataset size) rather than always k.
	ResultsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "knnindex_search_results_returned",
			Help:    "Number of results returned by a SearchKNearest call",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		},
		[]string{"index_kind"},
	)

	// IndexedVectors tracks the size of the dataset an index was last built
	// from.
	IndexedVectors = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "knnindex_indexed_vectors",
			Help: "Number of vectors held by the most recent Build call",
		},
		[]string{"index_kind"},
	)
)
