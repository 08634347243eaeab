package suites

import "github.com/gogpu/fpcase"

// SqrtName is the cache name of the sqrt suite.
const SqrtName = "sqrt"

// Sqrt returns the sqrt suite: f32 and f16, const and non-const, over the
// full scalar range.
func Sqrt() Suite {
	return Suite{
		Name: SqrtName,
		Op:   fpcase.OpSqrt,
		Variants: perKindAndConst(func(t *fpcase.Trait, isConst bool) fpcase.Generator {
			return func() (fpcase.Table, error) {
				return t.ScalarToIntervalCases(t.ScalarRange(), filterFor(isConst), t.SqrtInterval), nil
			}
		}),
	}
}
