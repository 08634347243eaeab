package fpcase

import (
	"fmt"
	"math"
)

// Kind enumerates the supported floating-point precisions.
type Kind uint8

const (
	// KindF16 is IEEE-754 binary16.
	KindF16 Kind = iota
	// KindF32 is IEEE-754 binary32.
	KindF32
	// KindAbstract is WGSL AbstractFloat, modelled as binary64.
	KindAbstract
)

// Kinds lists every Kind in declaration order.
var Kinds = []Kind{KindF16, KindF32, KindAbstract}

// String returns the WGSL-flavoured name: "f16", "f32" or "abstract".
func (k Kind) String() string {
	switch k {
	case KindF16:
		return "f16"
	case KindF32:
		return "f32"
	case KindAbstract:
		return "abstract"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind parses the output of Kind.String.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("fpcase: unknown precision %q", s)
}

// Range is an inclusive pair of bounds.
type Range struct {
	Min, Max float64
}

// Constants is the bit-layout configuration of one precision. Negative
// bounds mirror the positive ones.
type Constants struct {
	Bits         int
	ExponentBits int
	MantissaBits int

	// Positive normal range: [smallest normal, largest finite].
	Positive Range
	// Negative normal range: [-largest finite, -smallest normal].
	Negative Range
	// Positive subnormal range: [smallest subnormal, largest subnormal].
	PositiveSubnormal Range
	// Negative subnormal range: [-largest subnormal, -smallest subnormal].
	NegativeSubnormal Range

	// FlushesSubnormals reports whether implementations may flush
	// subnormal inputs and outputs to zero.
	FlushesSubnormals bool
}

func newConstants(bits, exponentBits, mantissaBits int, minNormal, largest, minSubnormal float64, flush bool) Constants {
	maxSubnormal := minNormal - minSubnormal
	return Constants{
		Bits:              bits,
		ExponentBits:      exponentBits,
		MantissaBits:      mantissaBits,
		Positive:          Range{Min: minNormal, Max: largest},
		Negative:          Range{Min: -largest, Max: -minNormal},
		PositiveSubnormal: Range{Min: minSubnormal, Max: maxSubnormal},
		NegativeSubnormal: Range{Min: -maxSubnormal, Max: -minSubnormal},
		FlushesSubnormals: flush,
	}
}

var (
	f16Constants = newConstants(16, 5, 10,
		0x1p-14, 65504, 0x1p-24, true)
	f32Constants = newConstants(32, 8, 23,
		0x1p-126, math.MaxFloat32, 0x1p-149, true)
	abstractConstants = newConstants(64, 11, 52,
		0x1p-1022, math.MaxFloat64, math.SmallestNonzeroFloat64, false)
)
