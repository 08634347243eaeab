package fpcase

import (
	"math"

	"github.com/x448/float16"
)

// Trait is a floating-point precision together with the interval functions
// defined over it. Traits are immutable; use F16, F32, Abstract or For.
type Trait struct {
	kind Kind
	c    Constants
}

// Predefined traits.
var (
	F16      = &Trait{kind: KindF16, c: f16Constants}
	F32      = &Trait{kind: KindF32, c: f32Constants}
	Abstract = &Trait{kind: KindAbstract, c: abstractConstants}
)

// For returns the trait of the given kind.
func For(k Kind) *Trait {
	switch k {
	case KindF16:
		return F16
	case KindF32:
		return F32
	case KindAbstract:
		return Abstract
	}
	panic("fpcase: unknown kind " + k.String())
}

// Kind returns the precision this trait describes.
func (t *Trait) Kind() Kind { return t.kind }

// Constants returns the bit-layout configuration of the trait.
func (t *Trait) Constants() Constants { return t.c }

// Quantize rounds x to the nearest value representable in the trait,
// ties to even. Values beyond the finite range become infinities.
func (t *Trait) Quantize(x float64) float64 {
	switch t.kind {
	case KindF32:
		return float64(float32(x))
	case KindF16:
		return float64(float16.Fromfloat32(roundToOddF32(x)).Float32())
	}
	return x
}

// roundToOddF32 narrows x to float32 with round-to-odd, so a second
// rounding to a format with at most 22 significand bits is correct.
func roundToOddF32(x float64) float32 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return float32(x)
	}
	r := float32(x)
	if math.Abs(float64(r)) > math.Abs(x) {
		r = math.Nextafter32(r, 0)
	}
	if float64(r) != x {
		r = math.Float32frombits(math.Float32bits(r) | 1)
	}
	return r
}

// IsRepresentable reports whether x is exactly representable in the trait.
func (t *Trait) IsRepresentable(x float64) bool {
	return math.IsNaN(x) || t.Quantize(x) == x
}

// IsFinite reports whether x is a finite value of the trait.
func (t *Trait) IsFinite(x float64) bool {
	return !math.IsNaN(x) && math.Abs(x) <= t.c.Positive.Max
}

// IsSubnormal reports whether x is a non-zero value below the normal range.
func (t *Trait) IsSubnormal(x float64) bool {
	a := math.Abs(x)
	return a > 0 && a < t.c.Positive.Min
}

// NextUp returns the smallest representable value greater than x, which
// must itself be representable.
func (t *Trait) NextUp(x float64) float64 {
	switch t.kind {
	case KindF32:
		return float64(math.Nextafter32(float32(x), float32(math.Inf(1))))
	case KindF16:
		return nextUpF16(x)
	}
	return math.Nextafter(x, math.Inf(1))
}

// NextDown returns the largest representable value less than x, which must
// itself be representable.
func (t *Trait) NextDown(x float64) float64 {
	return -t.NextUp(-x)
}

func nextUpF16(x float64) float64 {
	switch {
	case math.IsNaN(x) || math.IsInf(x, 1):
		return x
	case x == 0:
		return float64(float16.Frombits(0x0001).Float32())
	}
	b := float16.Fromfloat32(float32(x)).Bits()
	if x > 0 {
		b++
	} else {
		b--
	}
	return float64(float16.Frombits(b).Float32())
}

// roundDown returns the largest representable value <= x.
func (t *Trait) roundDown(x float64) float64 {
	q := t.Quantize(x)
	if q > x {
		q = t.NextDown(q)
	}
	return q
}

// roundUp returns the smallest representable value >= x.
func (t *Trait) roundUp(x float64) float64 {
	q := t.Quantize(x)
	if q < x {
		q = t.NextUp(q)
	}
	return q
}

// ULP returns the distance between the two representable values that
// bracket |x|. When the trait flushes subnormals, every value below the
// normal range has the ULP of the smallest normal.
func (t *Trait) ULP(x float64) float64 {
	if math.IsNaN(x) {
		return math.NaN()
	}
	a := math.Abs(x)
	largest := t.c.Positive.Max
	if a >= largest {
		return largest - t.NextDown(largest)
	}
	if t.c.FlushesSubnormals && a < t.c.Positive.Min {
		return t.c.Positive.Min
	}
	b := t.roundDown(a)
	return t.NextUp(b) - b
}

// CorrectlyRoundedInterval returns the interval of representable values a
// correctly rounded result for the exact value x may take: x itself when it
// is representable, otherwise its two neighbours.
func (t *Trait) CorrectlyRoundedInterval(x float64) Interval {
	if !t.IsFinite(x) {
		return Any()
	}
	q := t.Quantize(x)
	switch {
	case q == x:
		return Point(x)
	case q < x:
		return t.bounded(q, t.NextUp(q))
	default:
		return t.bounded(t.NextDown(q), q)
	}
}

// ULPInterval returns n widened by k ULPs in each direction, rounded
// outward to representable values.
func (t *Trait) ULPInterval(n, k float64) Interval {
	if !t.IsFinite(n) {
		return Any()
	}
	u := t.ULP(n)
	return t.bounded(t.roundDown(n-k*u), t.roundUp(n+k*u))
}

// ToInterval returns the point interval of x when x is a finite value of
// the trait, otherwise Any.
func (t *Trait) ToInterval(x float64) Interval {
	if !t.IsFinite(x) {
		return Any()
	}
	return Point(x)
}

// bounded builds [lo, hi], or Any when either bound leaves the finite range.
func (t *Trait) bounded(lo, hi float64) Interval {
	if !t.IsFinite(lo) || !t.IsFinite(hi) {
		return Any()
	}
	return span(lo, hi)
}

// flushedInputs returns the values an implementation may actually operate on
// when given x: x itself, plus zero when x is subnormal and may be flushed.
func (t *Trait) flushedInputs(x float64) []float64 {
	if t.c.FlushesSubnormals && t.IsSubnormal(x) {
		return []float64{x, 0}
	}
	return []float64{x}
}

// flushOutput widens iv to include zero when it contains subnormal values
// that an implementation may flush.
func (t *Trait) flushOutput(iv Interval) Interval {
	if !t.c.FlushesSubnormals || iv.form != FormRange {
		return iv
	}
	minNormal := t.c.Positive.Min
	touchesSubnormal := iv.lo < minNormal && iv.hi > -minNormal && !(iv.lo == 0 && iv.hi == 0)
	if !touchesSubnormal || (iv.lo <= 0 && iv.hi >= 0) {
		return iv
	}
	return span(math.Min(iv.lo, 0), math.Max(iv.hi, 0))
}
