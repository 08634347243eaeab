package fpcase

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Form identifies which variant of the Interval union is populated.
type Form uint8

const (
	// FormRange is a closed range [lo, hi].
	FormRange Form = iota
	// FormPoints is a small set of discrete acceptable values.
	FormPoints
	// FormAny accepts every value, including NaN and infinities.
	FormAny
)

// String returns the form name.
func (f Form) String() string {
	switch f {
	case FormRange:
		return "range"
	case FormPoints:
		return "points"
	case FormAny:
		return "any"
	default:
		return fmt.Sprintf("Form(%d)", uint8(f))
	}
}

// Interval is an acceptance interval: the set of results a conforming
// implementation may produce. The zero value is the point interval [0, 0].
//
// Interval is immutable.
type Interval struct {
	form   Form
	lo, hi float64
	points []float64 // sorted, unique; FormPoints only
}

// Point returns the interval containing exactly x.
func Point(x float64) Interval {
	return Interval{form: FormRange, lo: x, hi: x}
}

// Any returns the unbounded interval.
func Any() Interval {
	return Interval{form: FormAny, lo: math.Inf(-1), hi: math.Inf(1)}
}

// NewInterval returns the closed range [lo, hi].
// It fails with ErrInvalidRange if lo > hi or either bound is NaN.
func NewInterval(lo, hi float64) (Interval, error) {
	if math.IsNaN(lo) || math.IsNaN(hi) || lo > hi {
		return Interval{}, fmt.Errorf("%w: interval [%v, %v]", ErrInvalidRange, lo, hi)
	}
	return span(lo, hi), nil
}

// span builds [lo, hi] for bounds already known to be ordered.
func span(lo, hi float64) Interval {
	if lo > hi || math.IsNaN(lo) || math.IsNaN(hi) {
		panic(fmt.Sprintf("fpcase: span bounds out of order: [%v, %v]", lo, hi))
	}
	if math.IsInf(lo, -1) && math.IsInf(hi, 1) {
		return Any()
	}
	return Interval{form: FormRange, lo: lo, hi: hi}
}

// AnyOf returns a point-set interval accepting exactly the given values.
// A single value yields a point interval. With no values AnyOf returns Any.
func AnyOf(values ...float64) Interval {
	pts := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Any()
		}
		pts = append(pts, v)
	}
	slices.Sort(pts)
	pts = slices.CompactFunc(pts, func(a, b float64) bool { return a == b })
	switch len(pts) {
	case 0:
		return Any()
	case 1:
		return Point(pts[0])
	}
	return Interval{form: FormPoints, lo: pts[0], hi: pts[len(pts)-1], points: pts}
}

// Span returns the smallest range containing every given interval.
// If any interval is unbounded, or no interval is given, the result is Any.
func Span(ivs ...Interval) Interval {
	if len(ivs) == 0 {
		return Any()
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, iv := range ivs {
		if iv.form == FormAny {
			return Any()
		}
		lo = math.Min(lo, iv.lo)
		hi = math.Max(hi, iv.hi)
	}
	return span(lo, hi)
}

// Form reports which variant of the union the interval holds.
func (iv Interval) Form() Form { return iv.form }

// IsPoint reports whether the interval holds exactly one value.
func (iv Interval) IsPoint() bool {
	return iv.form == FormRange && iv.lo == iv.hi
}

// IsFinite reports whether the interval is bounded.
func (iv Interval) IsFinite() bool {
	return iv.form != FormAny && !math.IsInf(iv.lo, 0) && !math.IsInf(iv.hi, 0)
}

// Contains reports whether v is an acceptable result.
// NaN is only accepted by the unbounded interval.
func (iv Interval) Contains(v float64) bool {
	switch iv.form {
	case FormAny:
		return true
	case FormPoints:
		return slices.Contains(iv.points, v)
	}
	if math.IsNaN(v) {
		return false
	}
	return iv.lo <= v && v <= iv.hi
}

// Bounds returns the lowest and highest acceptable values.
// For point sets these are the extreme points; values between them are not
// necessarily acceptable.
func (iv Interval) Bounds() (lo, hi float64) {
	return iv.lo, iv.hi
}

// Points returns a copy of the members of a point-set interval, or nil for
// other forms.
func (iv Interval) Points() []float64 {
	if iv.form != FormPoints {
		return nil
	}
	return slices.Clone(iv.points)
}

// Equal reports whether two intervals accept exactly the same values.
func (iv Interval) Equal(o Interval) bool {
	if iv.form != o.form {
		return false
	}
	switch iv.form {
	case FormAny:
		return true
	case FormPoints:
		return slices.Equal(iv.points, o.points)
	}
	return iv.lo == o.lo && iv.hi == o.hi
}

// String formats the interval as "[lo, hi]", "{a, b}" or "any".
func (iv Interval) String() string {
	switch iv.form {
	case FormAny:
		return "any"
	case FormPoints:
		parts := make([]string, len(iv.points))
		for i, p := range iv.points {
			parts[i] = formatFloat(p)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "[" + formatFloat(iv.lo) + ", " + formatFloat(iv.hi) + "]"
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
