package fpcase

import (
	"math"
	"strings"
)

// Expectation is the acceptance set of one case: an Interval for scalar
// results, a Vector or Matrix of intervals for composite results.
type Expectation interface {
	// Shape is the shape of the result the expectation accepts.
	Shape() Shape
	// Accepts reports whether an observed result is acceptable.
	Accepts(v Value) bool
	// IsFinite reports whether every component is bounded.
	IsFinite() bool
	String() string
}

// Shape implements Expectation.
func (iv Interval) Shape() Shape { return ScalarShape }

// Accepts implements Expectation.
func (iv Interval) Accepts(v Value) bool {
	return v.shape.IsScalar() && iv.Contains(v.elems[0])
}

// Vector is the element-wise acceptance set of a vector result.
type Vector []Interval

// Shape implements Expectation.
func (vec Vector) Shape() Shape { return VectorShape(len(vec)) }

// Accepts implements Expectation.
func (vec Vector) Accepts(v Value) bool {
	if v.shape != vec.Shape() {
		return false
	}
	for i, iv := range vec {
		if !iv.Contains(v.elems[i]) {
			return false
		}
	}
	return true
}

// IsFinite implements Expectation.
func (vec Vector) IsFinite() bool {
	for _, iv := range vec {
		if !iv.IsFinite() {
			return false
		}
	}
	return true
}

func (vec Vector) String() string {
	parts := make([]string, len(vec))
	for i, iv := range vec {
		parts[i] = iv.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Matrix is the element-wise acceptance set of a matrix result, indexed
// m[col][row].
type Matrix [][]Interval

// Shape implements Expectation.
func (m Matrix) Shape() Shape {
	if len(m) == 0 {
		return ScalarShape
	}
	return MatrixShape(len(m), len(m[0]))
}

// Accepts implements Expectation.
func (m Matrix) Accepts(v Value) bool {
	if v.shape != m.Shape() {
		return false
	}
	rows := v.shape.Rows
	for c, col := range m {
		for r, iv := range col {
			if !iv.Contains(v.elems[c*rows+r]) {
				return false
			}
		}
	}
	return true
}

// IsFinite implements Expectation.
func (m Matrix) IsFinite() bool {
	for _, col := range m {
		if !Vector(col).IsFinite() {
			return false
		}
	}
	return true
}

func (m Matrix) String() string {
	parts := make([]string, len(m))
	for i, col := range m {
		parts[i] = Vector(col).String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ToVector lifts element intervals into a Vector. If any element is
// unbounded the whole vector is, since one undefined lane makes the result
// undefined.
func ToVector(ivs []Interval) Vector {
	out := make(Vector, len(ivs))
	if !Vector(ivs).IsFinite() {
		for i := range out {
			out[i] = Any()
		}
		return out
	}
	copy(out, ivs)
	return out
}

// ToMatrix lifts element intervals m[col][row] into a Matrix, with the same
// all-or-nothing rule as ToVector.
func ToMatrix(m [][]Interval) Matrix {
	out := make(Matrix, len(m))
	finite := Matrix(m).IsFinite()
	for c, col := range m {
		out[c] = make([]Interval, len(col))
		for r := range col {
			if finite {
				out[c][r] = col[r]
			} else {
				out[c][r] = Any()
			}
		}
	}
	return out
}

// sameFloat compares floats bit-for-bit, treating NaNs as equal.
func sameFloat(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b) || (math.IsNaN(a) && math.IsNaN(b))
}
