package fpcase

import (
	"fmt"
	"slices"
	"strings"
)

// Shape describes a scalar, vector or matrix. Vectors have Cols == 0;
// scalars have both dimensions zero.
type Shape struct {
	Cols, Rows int
}

// ScalarShape is the shape of a single value.
var ScalarShape = Shape{}

// VectorShape returns the shape of an n-component vector.
func VectorShape(n int) Shape { return Shape{Rows: n} }

// MatrixShape returns the shape of a matrix with the given columns and rows.
func MatrixShape(cols, rows int) Shape { return Shape{Cols: cols, Rows: rows} }

// IsScalar reports whether s describes a single value.
func (s Shape) IsScalar() bool { return s.Cols == 0 && s.Rows == 0 }

// IsVector reports whether s describes a vector.
func (s Shape) IsVector() bool { return s.Cols == 0 && s.Rows > 0 }

// IsMatrix reports whether s describes a matrix.
func (s Shape) IsMatrix() bool { return s.Cols > 0 && s.Rows > 0 }

// Len returns the number of scalar elements.
func (s Shape) Len() int {
	switch {
	case s.IsScalar():
		return 1
	case s.IsVector():
		return s.Rows
	}
	return s.Cols * s.Rows
}

// String returns the WGSL-style shape name without an element type,
// e.g. "scalar", "vec3", "mat2x4".
func (s Shape) String() string {
	switch {
	case s.IsScalar():
		return "scalar"
	case s.IsVector():
		return fmt.Sprintf("vec%d", s.Rows)
	}
	return fmt.Sprintf("mat%dx%d", s.Cols, s.Rows)
}

// Value is a scalar, vector or matrix input tagged with its precision.
// Matrix elements are stored column-major.
type Value struct {
	kind  Kind
	shape Shape
	elems []float64
}

// Scalar returns a scalar value of the trait's kind.
func (t *Trait) Scalar(x float64) Value {
	return Value{kind: t.kind, shape: ScalarShape, elems: []float64{x}}
}

// Vector returns a vector value of the trait's kind.
func (t *Trait) Vector(xs []float64) Value {
	return Value{kind: t.kind, shape: VectorShape(len(xs)), elems: slices.Clone(xs)}
}

// Matrix returns a matrix value from columns m[col][row].
// All columns must have the same length.
func (t *Trait) Matrix(m [][]float64) Value {
	cols, rows := matrixDims(m)
	elems := make([]float64, 0, cols*rows)
	for _, col := range m {
		if len(col) != rows {
			panic("fpcase: ragged matrix")
		}
		elems = append(elems, col...)
	}
	return Value{kind: t.kind, shape: MatrixShape(cols, rows), elems: elems}
}

// NewValue builds a value from a kind, shape and column-major elements.
// It fails with ErrDimensionMismatch if len(elems) does not match the shape.
func NewValue(kind Kind, shape Shape, elems []float64) (Value, error) {
	if len(elems) != shape.Len() {
		return Value{}, fmt.Errorf("%w: %s needs %d elements, got %d",
			ErrDimensionMismatch, shape, shape.Len(), len(elems))
	}
	return Value{kind: kind, shape: shape, elems: slices.Clone(elems)}, nil
}

// Kind returns the precision of the value.
func (v Value) Kind() Kind { return v.kind }

// Shape returns the shape of the value.
func (v Value) Shape() Shape { return v.shape }

// Elems returns a copy of the column-major elements.
func (v Value) Elems() []float64 { return slices.Clone(v.elems) }

// At returns element i in column-major order.
func (v Value) At(i int) float64 { return v.elems[i] }

// Len returns the number of scalar elements.
func (v Value) Len() int { return len(v.elems) }

// Equal reports whether two values have the same kind, shape and bits-equal elements.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.shape == o.shape &&
		slices.EqualFunc(v.elems, o.elems, sameFloat)
}

// String formats the value, e.g. "f32(1.5)" or "vec2<f16>(1, 2)".
func (v Value) String() string {
	parts := make([]string, len(v.elems))
	for i, e := range v.elems {
		parts[i] = formatFloat(e)
	}
	if v.shape.IsScalar() {
		return fmt.Sprintf("%s(%s)", v.kind, parts[0])
	}
	return fmt.Sprintf("%s<%s>(%s)", v.shape, v.kind, strings.Join(parts, ", "))
}

func matrixDims(m [][]float64) (cols, rows int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}
