// Package vector provides the fixed-width real vector type shared by every
// index in this module, along with its arithmetic and distance operations.
//
// Dist is deliberately the literal sqrt-of-sum-of-squares formulation rather
// than a squared-distance shortcut: the tree indexes' pruning tests compare
// a real distance (the current k-th best) against a real distance (the
// perpendicular distance to a split), and squaring only one side of that
// comparison would be wrong.
package vector

import (
	"errors"
	"log"
	"math"

	"github.com/klauspost/cpuid/v2"
	"gonum.org/v1/gonum/floats"
)

// ErrLengthMismatch is returned by operations over two vectors of unequal
// length.
var ErrLengthMismatch = errors.New("vector: length mismatch")

func init() {
	// Informational only: the spec requires the literal sqrt formulation
	// regardless of what the CPU can accelerate, so detected features never
	// change which code path runs here.
	log.Printf("knnindex: CPU vector extensions: AVX2=%v AVX512F=%v", cpuid.CPU.Has(cpuid.AVX2), cpuid.CPU.Has(cpuid.AVX512F))
}

// Vector is an ordered sequence of float64 components. The zero value is a
// zero-length vector.
type Vector []float64

// New returns a copy of components as a Vector.
func New(components ...float64) Vector {
	v := make(Vector, len(components))
	copy(v, components)
	return v
}

// Add returns a new vector containing the elementwise sum of a and b.
// Undefined (panics, via gonum/floats) if a and b have different lengths.
func Add(a, b Vector) Vector {
	out := make(Vector, len(a))
	copy(out, a)
	floats.Add(out, b)
	return out
}

// Sub returns a new vector containing the elementwise difference a - b.
// Undefined if a and b have different lengths.
func Sub(a, b Vector) Vector {
	out := make(Vector, len(a))
	copy(out, a)
	floats.SubTo(out, a, b)
	return out
}

// Dot returns the inner product of a and b. Undefined if they have different
// lengths.
func Dot(a, b Vector) float64 {
	return floats.Dot(a, b)
}

// Norm returns the L2 norm of v.
func Norm(v Vector) float64 {
	return math.Sqrt(Dot(v, v))
}

// Dist returns the Euclidean distance between a and b:
// sqrt(sum((a_i - b_i)^2)). Lengths are not checked: if a is longer than b
// it panics with an index out of range, and if b is longer its extra
// components are ignored.
func Dist(a, b Vector) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// SameLength reports whether a and b have equal length. The index packages
// compare lengths themselves when validating Build input and do not call it.
func SameLength(a, b Vector) bool {
	return len(a) == len(b)
}
