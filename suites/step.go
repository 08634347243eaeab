package suites

import "github.com/gogpu/fpcase"

// StepName is the cache name of the step suite.
const StepName = "step"

// Step returns the step suite over ScalarRange × ScalarRange for f32 and
// f16. When edge and x coincide (possibly after flushing) the result may be
// 0 or 1 but nothing in between, so those cases accept exactly {0, 1}.
func Step() Suite {
	gen := func(t *fpcase.Trait) fpcase.Generator {
		return func() (fpcase.Table, error) {
			r := t.ScalarRange()
			return t.ScalarPairToPointSetCases(r, r, fpcase.FilterUnfiltered, t.StepInterval, 0, 1), nil
		}
	}
	return Suite{
		Name: StepName,
		Op:   fpcase.OpStep,
		Variants: map[string]Variant{
			"f32": {Kind: fpcase.KindF32, Generate: gen(fpcase.F32)},
			"f16": {Kind: fpcase.KindF16, Generate: gen(fpcase.F16)},
		},
	}
}
