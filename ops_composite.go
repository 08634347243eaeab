package fpcase

import "fmt"

// DivisionVectorScalarInterval returns the element-wise acceptance vector
// of v / s.
func (t *Trait) DivisionVectorScalarInterval(v []float64, s float64) Vector {
	out := make([]Interval, len(v))
	for i, e := range v {
		out[i] = t.DivisionInterval(e, s)
	}
	return ToVector(out)
}

// DivisionScalarVectorInterval returns the element-wise acceptance vector
// of s / v.
func (t *Trait) DivisionScalarVectorInterval(s float64, v []float64) Vector {
	out := make([]Interval, len(v))
	for i, e := range v {
		out[i] = t.DivisionInterval(s, e)
	}
	return ToVector(out)
}

// ElementwiseVectorInterval applies op lane by lane. It fails with
// ErrDimensionMismatch when the vectors differ in length.
func (t *Trait) ElementwiseVectorInterval(a, b []float64, op ScalarPairToInterval) (Vector, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: vec%d and vec%d", ErrDimensionMismatch, len(a), len(b))
	}
	out := make([]Interval, len(a))
	for i := range a {
		out[i] = op(a[i], b[i])
	}
	return ToVector(out), nil
}

// SubtractionMatrixMatrixInterval returns the element-wise acceptance matrix
// of a - b. Mismatched shapes yield an unbounded matrix shaped like a.
func (t *Trait) SubtractionMatrixMatrixInterval(a, b [][]float64) Matrix {
	return t.elementwiseMatrix(a, b, t.SubtractionInterval)
}

// AdditionMatrixMatrixInterval returns the element-wise acceptance matrix
// of a + b.
func (t *Trait) AdditionMatrixMatrixInterval(a, b [][]float64) Matrix {
	return t.elementwiseMatrix(a, b, t.AdditionInterval)
}

func (t *Trait) elementwiseMatrix(a, b [][]float64, op ScalarPairToInterval) Matrix {
	cols, rows := matrixDims(a)
	bc, br := matrixDims(b)
	same := cols == bc && rows == br
	out := make([][]Interval, cols)
	for c := range a {
		out[c] = make([]Interval, rows)
		for r := range a[c] {
			if same {
				out[c][r] = op(a[c][r], b[c][r])
			} else {
				out[c][r] = Any()
			}
		}
	}
	return ToMatrix(out)
}

// DeterminantInterval returns the acceptance interval of determinant(m) for
// a square matrix m[col][row], evaluated by cofactor expansion in interval
// arithmetic so every intermediate product and sum carries its rounding.
// Non-square or empty matrices yield Any.
func (t *Trait) DeterminantInterval(m [][]float64) Interval {
	n, rows := matrixDims(m)
	if n == 0 || n != rows {
		return Any()
	}
	ivs := make([][]Interval, n)
	for c := range m {
		if len(m[c]) != n {
			return Any()
		}
		ivs[c] = make([]Interval, n)
		for r, e := range m[c] {
			ivs[c][r] = t.ToInterval(e)
		}
	}
	return t.determinantOf(ivs)
}

func (t *Trait) determinantOf(m [][]Interval) Interval {
	switch len(m) {
	case 1:
		return m[0][0]
	case 2:
		return t.SubtractionIntervalOf(
			t.MultiplicationIntervalOf(m[0][0], m[1][1]),
			t.MultiplicationIntervalOf(m[1][0], m[0][1]))
	}
	// Expand along row 0.
	var acc Interval
	for c := range m {
		term := t.MultiplicationIntervalOf(m[c][0], t.determinantOf(minor(m, c)))
		switch {
		case c == 0:
			acc = term
		case c%2 == 1:
			acc = t.SubtractionIntervalOf(acc, term)
		default:
			acc = t.AdditionIntervalOf(acc, term)
		}
	}
	return acc
}

// minor drops row 0 and column col.
func minor(m [][]Interval, col int) [][]Interval {
	out := make([][]Interval, 0, len(m)-1)
	for c := range m {
		if c == col {
			continue
		}
		out = append(out, m[c][1:])
	}
	return out
}
