package fpcase

import (
	"fmt"
	"slices"
)

// keep reports whether a case survives the filter.
func (t *Trait) keep(filter Filter, inputs []Value, expected Expectation) bool {
	if filter == FilterUnfiltered {
		return true
	}
	for _, in := range inputs {
		for _, e := range in.elems {
			if !t.IsFinite(e) {
				return false
			}
		}
	}
	return expected.IsFinite()
}

func (t *Trait) quantizeVector(v []float64) []float64 {
	return t.quantizeAll(slices.Clone(v))
}

func (t *Trait) quantizeMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for c, col := range m {
		out[c] = t.quantizeVector(col)
	}
	return out
}

// checkVectors fails with ErrDimensionMismatch if any vector is not dim long.
func checkVectors(dim int, vs [][]float64) error {
	for i, v := range vs {
		if len(v) != dim {
			return fmt.Errorf("%w: sample %d is vec%d, want vec%d", ErrDimensionMismatch, i, len(v), dim)
		}
	}
	return nil
}

// checkMatrices fails with ErrDimensionMismatch if any matrix is not cols×rows.
func checkMatrices(cols, rows int, ms [][][]float64) error {
	for i, m := range ms {
		if len(m) != cols {
			return fmt.Errorf("%w: sample %d has %d columns, want mat%dx%d", ErrDimensionMismatch, i, len(m), cols, rows)
		}
		for _, col := range m {
			if len(col) != rows {
				return fmt.Errorf("%w: sample %d has a %d-row column, want mat%dx%d", ErrDimensionMismatch, i, len(col), cols, rows)
			}
		}
	}
	return nil
}

// ScalarToIntervalCases builds one case per quantized input.
func (t *Trait) ScalarToIntervalCases(xs []float64, filter Filter, op ScalarToInterval) Table {
	out := make(Table, 0, len(xs))
	for _, x := range xs {
		x = t.Quantize(x)
		inputs := []Value{t.Scalar(x)}
		expected := op(x)
		if t.keep(filter, inputs, expected) {
			out = append(out, Case{Inputs: inputs, Expected: expected})
		}
	}
	return out
}

// ScalarPairToIntervalCases builds one case per element of xs × ys.
func (t *Trait) ScalarPairToIntervalCases(xs, ys []float64, filter Filter, op ScalarPairToInterval) Table {
	out := make(Table, 0, len(xs)*len(ys))
	for _, x := range xs {
		x = t.Quantize(x)
		for _, y := range ys {
			y = t.Quantize(y)
			inputs := []Value{t.Scalar(x), t.Scalar(y)}
			expected := op(x, y)
			if t.keep(filter, inputs, expected) {
				out = append(out, Case{Inputs: inputs, Expected: expected})
			}
		}
	}
	return out
}

// ScalarPairToPointSetCases builds cases for operations whose result is one
// of a few discrete values. For each pair the general interval is kept as-is
// when it is a single point or unbounded; otherwise it is replaced by the
// point set of alternatives, so results strictly between them are rejected.
func (t *Trait) ScalarPairToPointSetCases(xs, ys []float64, filter Filter, op ScalarPairToInterval, alternatives ...float64) Table {
	alt := AnyOf(alternatives...)
	return t.ScalarPairToIntervalCases(xs, ys, filter, func(x, y float64) Interval {
		iv := op(x, y)
		if iv.IsPoint() || !iv.IsFinite() {
			return iv
		}
		return alt
	})
}

// VectorScalarToVectorCases builds one case per element of vs × ss. Every
// vector must have dim components.
func (t *Trait) VectorScalarToVectorCases(dim int, vs [][]float64, ss []float64, filter Filter, op VectorScalarToVector) (Table, error) {
	if err := checkVectors(dim, vs); err != nil {
		return nil, err
	}
	out := make(Table, 0, len(vs)*len(ss))
	for _, v := range vs {
		v = t.quantizeVector(v)
		for _, s := range ss {
			s = t.Quantize(s)
			inputs := []Value{t.Vector(v), t.Scalar(s)}
			expected := op(v, s)
			if t.keep(filter, inputs, expected) {
				out = append(out, Case{Inputs: inputs, Expected: expected})
			}
		}
	}
	return out, nil
}

// ScalarVectorToVectorCases builds one case per element of ss × vs. Every
// vector must have dim components.
func (t *Trait) ScalarVectorToVectorCases(dim int, ss []float64, vs [][]float64, filter Filter, op ScalarVectorToVector) (Table, error) {
	if err := checkVectors(dim, vs); err != nil {
		return nil, err
	}
	out := make(Table, 0, len(vs)*len(ss))
	for _, s := range ss {
		s = t.Quantize(s)
		for _, v := range vs {
			v = t.quantizeVector(v)
			inputs := []Value{t.Scalar(s), t.Vector(v)}
			expected := op(s, v)
			if t.keep(filter, inputs, expected) {
				out = append(out, Case{Inputs: inputs, Expected: expected})
			}
		}
	}
	return out, nil
}

// VectorPairToVectorCases builds one case per element of as × bs. Every
// vector must have dim components.
func (t *Trait) VectorPairToVectorCases(dim int, as, bs [][]float64, filter Filter, op VectorPairToVector) (Table, error) {
	if err := checkVectors(dim, as); err != nil {
		return nil, err
	}
	if err := checkVectors(dim, bs); err != nil {
		return nil, err
	}
	out := make(Table, 0, len(as)*len(bs))
	for _, a := range as {
		a = t.quantizeVector(a)
		for _, b := range bs {
			b = t.quantizeVector(b)
			inputs := []Value{t.Vector(a), t.Vector(b)}
			expected := op(a, b)
			if t.keep(filter, inputs, expected) {
				out = append(out, Case{Inputs: inputs, Expected: expected})
			}
		}
	}
	return out, nil
}

// MatrixPairToMatrixCases builds one case per element of as × bs. Every
// matrix must be cols×rows.
func (t *Trait) MatrixPairToMatrixCases(cols, rows int, as, bs [][][]float64, filter Filter, op MatrixPairToMatrix) (Table, error) {
	if err := checkMatrices(cols, rows, as); err != nil {
		return nil, err
	}
	if err := checkMatrices(cols, rows, bs); err != nil {
		return nil, err
	}
	out := make(Table, 0, len(as)*len(bs))
	for _, a := range as {
		a = t.quantizeMatrix(a)
		for _, b := range bs {
			b = t.quantizeMatrix(b)
			inputs := []Value{t.Matrix(a), t.Matrix(b)}
			expected := op(a, b)
			if t.keep(filter, inputs, expected) {
				out = append(out, Case{Inputs: inputs, Expected: expected})
			}
		}
	}
	return out, nil
}

// MatrixToScalarCases builds one case per matrix. Every matrix must be
// cols×rows.
func (t *Trait) MatrixToScalarCases(cols, rows int, ms [][][]float64, filter Filter, op MatrixToScalarInterval) (Table, error) {
	if err := checkMatrices(cols, rows, ms); err != nil {
		return nil, err
	}
	out := make(Table, 0, len(ms))
	for _, m := range ms {
		m = t.quantizeMatrix(m)
		inputs := []Value{t.Matrix(m)}
		expected := op(m)
		if t.keep(filter, inputs, expected) {
			out = append(out, Case{Inputs: inputs, Expected: expected})
		}
	}
	return out, nil
}
