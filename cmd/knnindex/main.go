// Command knnindex loads a CSV vector dataset, builds one of the three index
// engines, and reports the nearest neighbors of a chosen query row, timing
// build and search the way the original "=== HNSW k-NN Search ===" driver did.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/sanonone/knnindex/internal/config"
	"github.com/sanonone/knnindex/pkg/dataset"
	"github.com/sanonone/knnindex/pkg/index/hnsw"
	"github.com/sanonone/knnindex/pkg/index/tree"
	"github.com/sanonone/knnindex/pkg/metrics"
	"github.com/sanonone/knnindex/pkg/vector"
)

// rawVectors converts a slice of the named vector.Vector type to the plain
// [][]float64 that hnsw.Index.Build expects; Go does not convert slice types
// implicitly even when their elements are assignable.
func rawVectors(vectors []vector.Vector) [][]float64 {
	out := make([][]float64, len(vectors))
	for i, v := range vectors {
		out[i] = v
	}
	return out
}

func main() {
	datasetPath := flag.String("dataset", "", "Path to the CSV vector dataset (required)")
	indexKind := flag.String("index", "hnsw", "Index engine to build: kd, rp, or hnsw")
	k := flag.Int("k", 10, "Number of nearest neighbors to return")
	ef := flag.Int("ef", 200, "HNSW query-time candidate set size")
	configPath := flag.String("config", "", "Optional YAML file overriding build parameters")
	queryRow := flag.Int("query-row", 0, "Index into the dataset to use as the query vector")
	flag.Parse()

	if *datasetPath == "" {
		log.Fatal("knnindex: -dataset is required")
	}

	params, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("knnindex: %v", err)
	}

	log.Printf("knnindex: loading dataset from %s", *datasetPath)
	ds, err := dataset.LoadCSV(*datasetPath)
	if err != nil {
		log.Fatalf("knnindex: %v", err)
	}
	log.Printf("knnindex: loaded %d vectors, dimension %d", ds.Len(), ds.Dim())

	if *queryRow < 0 || *queryRow >= ds.Len() {
		log.Fatalf("knnindex: -query-row %d is out of range for %d rows", *queryRow, ds.Len())
	}
	query := ds.At(*queryRow)

	log.Printf("knnindex: building %s index...", *indexKind)
	buildStart := time.Now()

	var distances []float64
	var buildTime time.Duration
	switch *indexKind {
	case "kd":
		idx := tree.NewKdTreeIndexWithLeafCap(params.LeafCap)
		if err := idx.Build(ds.Vectors()); err != nil {
			log.Fatalf("knnindex: build failed: %v", err)
		}
		buildTime = time.Since(buildStart)
		metrics.BuildDuration.WithLabelValues("kdtree").Observe(buildTime.Seconds())
		metrics.IndexedVectors.WithLabelValues("kdtree").Set(float64(ds.Len()))

		searchStart := time.Now()
		distances, err = idx.SearchKNearest(query, *k)
		metrics.SearchDuration.WithLabelValues("kdtree").Observe(time.Since(searchStart).Seconds())
	case "rp":
		idx := tree.NewRpTreeIndexWithLeafCap(params.Seed, params.LeafCap)
		if err := idx.Build(ds.Vectors()); err != nil {
			log.Fatalf("knnindex: build failed: %v", err)
		}
		buildTime = time.Since(buildStart)
		metrics.BuildDuration.WithLabelValues("rptree").Observe(buildTime.Seconds())
		metrics.IndexedVectors.WithLabelValues("rptree").Set(float64(ds.Len()))

		searchStart := time.Now()
		distances, err = idx.SearchKNearest(query, *k)
		metrics.SearchDuration.WithLabelValues("rptree").Observe(time.Since(searchStart).Seconds())
	case "hnsw":
		idx := hnsw.New(params.M, params.EfConstruction, params.Seed)
		if buildErr := idx.Build(rawVectors(ds.Vectors())); buildErr != nil {
			log.Fatalf("knnindex: build failed: %v", buildErr)
		}
		buildTime = time.Since(buildStart)
		metrics.BuildDuration.WithLabelValues("hnsw").Observe(buildTime.Seconds())
		metrics.IndexedVectors.WithLabelValues("hnsw").Set(float64(ds.Len()))

		searchStart := time.Now()
		distances, err = idx.SearchKNearest(query, *k, *ef)
		metrics.SearchDuration.WithLabelValues("hnsw").Observe(time.Since(searchStart).Seconds())
	default:
		log.Fatalf("knnindex: unknown -index %q, want kd, rp, or hnsw", *indexKind)
	}
	log.Printf("knnindex: index built in %s", buildTime)

	if err != nil {
		log.Fatalf("knnindex: search failed: %v", err)
	}
	kindLabel := map[string]string{"kd": "kdtree", "rp": "rptree", "hnsw": "hnsw"}[*indexKind]
	metrics.ResultsReturned.WithLabelValues(kindLabel).Observe(float64(len(distances)))

	log.Printf("knnindex: %d-NN distances for row %d: %v", *k, *queryRow, distances)
}
