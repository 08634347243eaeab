package suites

import (
	"math"

	"github.com/gogpu/fpcase"
)

// InverseSqrtName is the cache name of the inverseSqrt suite.
const InverseSqrtName = "inverseSqrt"

// InverseSqrt returns the inverseSqrt suite. Inputs are 100 values spread
// linearly over (0, 1] followed by 1000 values in [1, limit] biased towards
// 1, where limit is 2^32 for f32 and 2^15 for f16.
func InverseSqrt() Suite {
	gen := func(t *fpcase.Trait, limit float64) fpcase.Generator {
		return func() (fpcase.Table, error) {
			low, err := t.LinearRange(t.Constants().Positive.Min, 1, 100)
			if err != nil {
				return nil, err
			}
			high, err := t.BiasedRange(1, limit, 1000)
			if err != nil {
				return nil, err
			}
			return t.ScalarToIntervalCases(append(low, high...), fpcase.FilterUnfiltered, t.InverseSqrtInterval), nil
		}
	}

	return Suite{
		Name: InverseSqrtName,
		Op:   fpcase.OpInverseSqrt,
		Variants: map[string]Variant{
			"f32": {Kind: fpcase.KindF32, Generate: gen(fpcase.F32, math.Exp2(32))},
			"f16": {Kind: fpcase.KindF16, Generate: gen(fpcase.F16, math.Exp2(15))},
		},
	}
}
