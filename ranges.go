package fpcase

import (
	"fmt"
	"math"
	"math/bits"
	"slices"

	"github.com/x448/float16"
)

// checkRange validates sampling bounds and counts.
func checkRange(lo, hi float64, count int) error {
	switch {
	case count <= 0:
		return fmt.Errorf("%w: count %d must be positive", ErrInvalidRange, count)
	case math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0):
		return fmt.Errorf("%w: bounds [%v, %v] must be finite", ErrInvalidRange, lo, hi)
	case lo > hi:
		return fmt.Errorf("%w: min %v > max %v", ErrInvalidRange, lo, hi)
	}
	return nil
}

// lerp interpolates between a and b without overshooting b and returns b
// exactly at t == 1.
func lerp(a, b, t float64) float64 {
	if (a <= 0 && b >= 0) || (a >= 0 && b <= 0) {
		return t*b + (1-t)*a
	}
	if t == 1 {
		return b
	}
	x := a + t*(b-a)
	if (t > 1) == (b > a) {
		return math.Max(b, x)
	}
	return math.Min(b, x)
}

// LinearRange returns count evenly spaced values from lo to hi inclusive.
// A count of one yields just lo.
func LinearRange(lo, hi float64, count int) ([]float64, error) {
	if err := checkRange(lo, hi, count); err != nil {
		return nil, err
	}
	if count == 1 {
		return []float64{lo}, nil
	}
	out := make([]float64, count)
	for i := range out {
		out[i] = lerp(lo, hi, float64(i)/float64(count-1))
	}
	return out, nil
}

// BiasedRange returns count values from lo to hi inclusive whose density
// increases quadratically towards lo.
func BiasedRange(lo, hi float64, count int) ([]float64, error) {
	if err := checkRange(lo, hi, count); err != nil {
		return nil, err
	}
	if count == 1 {
		return []float64{lo}, nil
	}
	out := make([]float64, count)
	for i := range out {
		t := lerp(0, 1, float64(i)/float64(count-1))
		out[i] = lerp(lo, hi, t*t)
	}
	return out, nil
}

// LinearRange is LinearRange with every sample quantized to the trait.
func (t *Trait) LinearRange(lo, hi float64, count int) ([]float64, error) {
	out, err := LinearRange(lo, hi, count)
	if err != nil {
		return nil, err
	}
	return t.quantizeAll(out), nil
}

// BiasedRange is BiasedRange with every sample quantized to the trait.
func (t *Trait) BiasedRange(lo, hi float64, count int) ([]float64, error) {
	out, err := BiasedRange(lo, hi, count)
	if err != nil {
		return nil, err
	}
	return t.quantizeAll(out), nil
}

func (t *Trait) quantizeAll(xs []float64) []float64 {
	for i, x := range xs {
		xs[i] = t.Quantize(x)
	}
	return xs
}

// RangeCounts sets how many samples FullRange draws from each region.
type RangeCounts struct {
	NegNormal, NegSubnormal, PosSubnormal, PosNormal int
}

// DefaultRangeCounts is the sampling density used by ScalarRange.
var DefaultRangeCounts = RangeCounts{NegNormal: 50, NegSubnormal: 10, PosSubnormal: 10, PosNormal: 50}

// FullRange returns an ascending sample of the whole finite range: negative
// normals, negative subnormals, zero, positive subnormals, positive normals.
// Within each region samples are evenly spaced in bit-pattern space, which
// spreads them logarithmically by value. At least one region count must be
// positive.
func (t *Trait) FullRange(counts RangeCounts) ([]float64, error) {
	total := 0
	for _, n := range []int{counts.NegNormal, counts.NegSubnormal, counts.PosSubnormal, counts.PosNormal} {
		if n < 0 {
			return nil, fmt.Errorf("%w: negative region count %d", ErrInvalidRange, n)
		}
		total += n
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: every region count is zero", ErrInvalidRange)
	}
	c := t.c
	out := make([]float64, 0, total+1)
	out = append(out, negated(t.bitRange(c.Positive.Min, c.Positive.Max, counts.NegNormal))...)
	out = append(out, negated(t.bitRange(c.PositiveSubnormal.Min, c.PositiveSubnormal.Max, counts.NegSubnormal))...)
	out = append(out, 0)
	out = append(out, t.bitRange(c.PositiveSubnormal.Min, c.PositiveSubnormal.Max, counts.PosSubnormal)...)
	out = append(out, t.bitRange(c.Positive.Min, c.Positive.Max, counts.PosNormal)...)
	return out, nil
}

// ScalarRange returns FullRange with DefaultRangeCounts.
func (t *Trait) ScalarRange() []float64 {
	out, err := t.FullRange(DefaultRangeCounts)
	if err != nil {
		panic(err)
	}
	return out
}

// bitRange returns count positive values between lo and hi (inclusive,
// both positive and representable), evenly spaced by bit pattern.
func (t *Trait) bitRange(lo, hi float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	a, b := t.bits(lo), t.bits(hi)
	if count == 1 {
		return []float64{lo}
	}
	out := make([]float64, count)
	d := b - a
	for i := range out {
		h, l := bits.Mul64(d, uint64(i))
		q, _ := bits.Div64(h, l, uint64(count-1))
		out[i] = t.fromBits(a + q)
	}
	return out
}

// negated mirrors an ascending list of positive values into an ascending
// list of negative values.
func negated(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[len(xs)-1-i] = -x
	}
	return out
}

func (t *Trait) bits(x float64) uint64 {
	switch t.kind {
	case KindF32:
		return uint64(math.Float32bits(float32(x)))
	case KindF16:
		return uint64(float16.Fromfloat32(float32(x)).Bits())
	}
	return math.Float64bits(x)
}

func (t *Trait) fromBits(b uint64) float64 {
	switch t.kind {
	case KindF32:
		return float64(math.Float32frombits(uint32(b)))
	case KindF16:
		return float64(float16.Frombits(uint16(b)).Float32())
	}
	return math.Float64frombits(b)
}

// SparseScalarRange returns a short ascending list of values that exercise
// the edges of the trait: extremes of each region, signed zeros, and a few
// ordinary magnitudes.
func (t *Trait) SparseScalarRange() []float64 {
	c := t.c
	return []float64{
		c.Negative.Min, -10, -1, -0.125, c.Negative.Max,
		c.NegativeSubnormal.Min, c.NegativeSubnormal.Max,
		math.Copysign(0, -1), 0,
		c.PositiveSubnormal.Min, c.PositiveSubnormal.Max,
		c.Positive.Min, 0.125, 1, 10, c.Positive.Max,
	}
}

// vectorPatterns place the interesting value (NaN marker) into each lane in
// turn; the other lanes carry small fixed values.
var vectorPatterns = map[int][][]float64{
	2: {{nan, 1}, {1, nan}, {nan, -1}, {-1, nan}},
	3: {{nan, 1, 2}, {1, nan, -2}, {-1, -2, nan}},
	4: {{nan, -1, -2, 1}, {1, nan, -1, 2}, {-2, 1, nan, -1}, {2, -1, 1, nan}},
}

var nan = math.NaN()

// SparseVectorRange returns a sub-sampled set of dim-component vectors: each
// sparse scalar appears in every lane once, the other lanes fixed. dim must
// be 2, 3 or 4.
func (t *Trait) SparseVectorRange(dim int) ([][]float64, error) {
	patterns, ok := vectorPatterns[dim]
	if !ok {
		return nil, fmt.Errorf("%w: vector dimension %d not in [2, 4]", ErrInvalidRange, dim)
	}
	scalars := t.SparseScalarRange()
	out := make([][]float64, 0, len(scalars)*len(patterns))
	for _, f := range scalars {
		for _, p := range patterns {
			v := slices.Clone(p)
			for i := range v {
				if math.IsNaN(v[i]) {
					v[i] = f
				}
			}
			out = append(out, v)
		}
	}
	return out, nil
}

// SparseMatrixRange returns one cols×rows matrix per sparse scalar. The
// scalar moves through the elements in column-major order; the remaining
// elements hold small integers with alternating sign.
func (t *Trait) SparseMatrixRange(cols, rows int) ([][][]float64, error) {
	if cols < 2 || cols > 4 || rows < 2 || rows > 4 {
		return nil, fmt.Errorf("%w: matrix shape %dx%d not in [2, 4]", ErrInvalidRange, cols, rows)
	}
	scalars := t.SparseScalarRange()
	out := make([][][]float64, len(scalars))
	for idx, f := range scalars {
		hot := idx % (cols * rows)
		m := make([][]float64, cols)
		for c := range m {
			m[c] = make([]float64, rows)
			for r := range m[c] {
				e := c*rows + r
				switch {
				case e == hot:
					m[c][r] = f
				case (idx+e)%2 == 0:
					m[c][r] = float64(e + 1)
				default:
					m[c][r] = -float64(e + 1)
				}
			}
		}
		out[idx] = m
	}
	return out, nil
}
