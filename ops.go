package fpcase

import "math"

// Interval function signatures consumed by the case builders.
type (
	ScalarToInterval       func(x float64) Interval
	ScalarPairToInterval   func(x, y float64) Interval
	VectorScalarToVector   func(v []float64, s float64) Vector
	ScalarVectorToVector   func(s float64, v []float64) Vector
	VectorPairToVector     func(a, b []float64) Vector
	MatrixPairToMatrix     func(a, b [][]float64) Matrix
	MatrixToScalarInterval func(m [][]float64) Interval
)

// Error bounds in ULPs, from the WGSL accuracy tables.
const (
	divisionULP    = 2.5
	inverseSqrtULP = 2
)

// runScalar evaluates impl on every value an implementation may see for x.
// Non-finite inputs and inputs rejected by domain map to Any.
func (t *Trait) runScalar(x float64, domain func(float64) bool, impl func(float64) Interval) Interval {
	if !t.IsFinite(x) {
		return Any()
	}
	var results []Interval
	for _, fx := range t.flushedInputs(x) {
		if domain != nil && !domain(fx) {
			return Any()
		}
		results = append(results, impl(fx))
	}
	return t.flushOutput(Span(results...))
}

// runScalarPair is the two-operand form of runScalar.
func (t *Trait) runScalarPair(x, y float64, domain func(x, y float64) bool, impl func(x, y float64) Interval) Interval {
	if !t.IsFinite(x) || !t.IsFinite(y) {
		return Any()
	}
	var results []Interval
	for _, fx := range t.flushedInputs(x) {
		for _, fy := range t.flushedInputs(y) {
			if domain != nil && !domain(fx, fy) {
				return Any()
			}
			results = append(results, impl(fx, fy))
		}
	}
	return t.flushOutput(Span(results...))
}

// AdditionInterval returns the acceptance interval of x + y (correctly rounded).
func (t *Trait) AdditionInterval(x, y float64) Interval {
	return t.runScalarPair(x, y, nil, func(x, y float64) Interval {
		return t.CorrectlyRoundedInterval(x + y)
	})
}

// SubtractionInterval returns the acceptance interval of x - y (correctly rounded).
func (t *Trait) SubtractionInterval(x, y float64) Interval {
	return t.runScalarPair(x, y, nil, func(x, y float64) Interval {
		return t.CorrectlyRoundedInterval(x - y)
	})
}

// MultiplicationInterval returns the acceptance interval of x * y (correctly rounded).
func (t *Trait) MultiplicationInterval(x, y float64) Interval {
	return t.runScalarPair(x, y, nil, func(x, y float64) Interval {
		return t.CorrectlyRoundedInterval(x * y)
	})
}

// divisorInDomain reports whether |y| lies in [minNormal, 1/minNormal].
func (t *Trait) divisorInDomain(y float64) bool {
	a := math.Abs(y)
	return a >= t.c.Positive.Min && a <= 1/t.c.Positive.Min
}

// DivisionInterval returns the acceptance interval of x / y: 2.5 ULP, with
// the divisor's magnitude restricted to [minNormal, 1/minNormal]. Division
// by zero, by a value that may flush to zero, or by a huge divisor yields Any.
func (t *Trait) DivisionInterval(x, y float64) Interval {
	return t.runScalarPair(x, y,
		func(_, y float64) bool { return t.divisorInDomain(y) },
		func(x, y float64) Interval { return t.ULPInterval(x/y, divisionULP) })
}

// InverseSqrtInterval returns the acceptance interval of 1/sqrt(x): 2 ULP,
// defined for x >= the smallest positive normal. Other inputs yield Any.
func (t *Trait) InverseSqrtInterval(x float64) Interval {
	return t.runScalar(x,
		func(x float64) bool { return x >= t.c.Positive.Min },
		func(x float64) Interval { return t.ULPInterval(1/math.Sqrt(x), inverseSqrtULP) })
}

// SqrtInterval returns the acceptance interval of sqrt(x), which WGSL
// permits to be computed as 1.0 / inverseSqrt(x). Negative inputs yield Any.
func (t *Trait) SqrtInterval(x float64) Interval {
	return t.DivisionIntervalOf(Point(1), t.InverseSqrtInterval(x))
}

// StepInterval returns the acceptance interval of step(edge, x): 1 when
// edge < x, 0 when edge > x. When edge and x are equal, or may become
// equal by flushing, either result is acceptable and the interval is the
// point set {0, 1}. Non-finite operands yield Any.
func (t *Trait) StepInterval(edge, x float64) Interval {
	if !t.IsFinite(edge) || !t.IsFinite(x) {
		return Any()
	}
	var results []float64
	for _, fe := range t.flushedInputs(edge) {
		for _, fx := range t.flushedInputs(x) {
			switch {
			case fe < fx:
				results = append(results, 1)
			case fe > fx:
				results = append(results, 0)
			default:
				results = append(results, 0, 1)
			}
		}
	}
	return AnyOf(results...)
}

// AdditionIntervalOf returns the acceptance interval of a + b over every
// pair of values drawn from the operand intervals.
func (t *Trait) AdditionIntervalOf(a, b Interval) Interval {
	return t.cornerOp(a, b, t.AdditionInterval)
}

// SubtractionIntervalOf returns the acceptance interval of a - b over
// interval operands.
func (t *Trait) SubtractionIntervalOf(a, b Interval) Interval {
	return t.cornerOp(a, b, t.SubtractionInterval)
}

// MultiplicationIntervalOf returns the acceptance interval of a * b over
// interval operands.
func (t *Trait) MultiplicationIntervalOf(a, b Interval) Interval {
	return t.cornerOp(a, b, t.MultiplicationInterval)
}

// DivisionIntervalOf returns the acceptance interval of a / b over interval
// operands. A divisor interval that contains zero yields Any.
func (t *Trait) DivisionIntervalOf(a, b Interval) Interval {
	if !b.IsFinite() {
		return Any()
	}
	if lo, hi := b.Bounds(); lo <= 0 && hi >= 0 {
		return Any()
	}
	return t.cornerOp(a, b, t.DivisionInterval)
}

// cornerOp spans op over the corners of the operand box. Valid for
// operations monotonic in each operand over the box.
func (t *Trait) cornerOp(a, b Interval, op ScalarPairToInterval) Interval {
	if !a.IsFinite() || !b.IsFinite() {
		return Any()
	}
	alo, ahi := a.Bounds()
	blo, bhi := b.Bounds()
	return Span(op(alo, blo), op(alo, bhi), op(ahi, blo), op(ahi, bhi))
}
