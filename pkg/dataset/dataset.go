// Package dataset holds an ordered collection of equal-dimension vectors and
// the CSV loader that produces one. This is the "external collaborator" side
// of the library: parsing is intentionally dumb (skip the header, drop
// non-numeric tokens, keep anything with at least one numeric field) and
// carries none of the index engines' invariants.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sanonone/knnindex/pkg/vector"
)

// ErrDimensionMismatch is returned when rows of differing length are loaded
// into a Dataset that requires uniform dimension.
var ErrDimensionMismatch = errors.New("dataset: dimension mismatch")

// Dataset is an ordered collection of vectors, all of equal dimension. A
// vector's position is its stable identity inside any index built from it.
type Dataset struct {
	vectors []vector.Vector
	dim     int
}

// New wraps a slice of vectors as a Dataset, requiring them to share a
// dimension. The spec permits either rejecting mismatched rows or assuming
// uniform dimension; this implementation rejects.
func New(vectors []vector.Vector) (*Dataset, error) {
	if len(vectors) == 0 {
		return &Dataset{vectors: vectors}, nil
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: row %d has %d components, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
	}
	return &Dataset{vectors: vectors, dim: dim}, nil
}

// Len returns the number of vectors in the dataset.
func (d *Dataset) Len() int { return len(d.vectors) }

// Dim returns the shared dimension of every vector in the dataset. Zero for
// an empty dataset.
func (d *Dataset) Dim() int { return d.dim }

// At returns the vector at position i.
func (d *Dataset) At(i int) vector.Vector { return d.vectors[i] }

// Vectors returns the dataset's backing slice. The tree and HNSW indexes
// copy it before building, so their Build leaves its order unchanged.
func (d *Dataset) Vectors() []vector.Vector { return d.vectors }

// LoadCSV reads a dataset from a CSV file: the first line is a header and is
// skipped, empty lines are skipped, and each remaining line is split on
// commas and parsed as float64 — tokens that fail to parse are silently
// dropped, but a row is kept as long as at least one of its fields parsed.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: cannot open %s: %w", path, err)
	}
	defer f.Close()

	var rows []vector.Vector
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	headerSkipped := false
	for scanner.Scan() {
		line := scanner.Text()
		if !headerSkipped {
			headerSkipped = true
			continue
		}
		if line == "" {
			continue
		}

		tokens := strings.Split(line, ",")
		row := make(vector.Vector, 0, len(tokens))
		for _, tok := range tokens {
			val, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
			if err != nil {
				continue
			}
			row = append(row, val)
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dataset: reading %s: %w", path, err)
	}

	return New(rows)
}
