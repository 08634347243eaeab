package suites

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/gogpu/fpcase"
)

// DivisionName is the cache name of the abstract-float division suite.
const DivisionName = "binary/af_division"

// Division returns the abstract-float division suite: scalar / scalar,
// vecN / scalar and scalar / vecN over the sparse ranges.
func Division() Suite {
	t := fpcase.Abstract
	variant := func(gen fpcase.Generator) Variant {
		return Variant{Kind: fpcase.KindAbstract, Const: true, Generate: gen}
	}

	scalar := map[string]Variant{
		"scalar": variant(func() (fpcase.Table, error) {
			return t.ScalarPairToIntervalCases(
				t.SparseScalarRange(), t.SparseScalarRange(),
				fpcase.FilterFinite, t.DivisionInterval), nil
		}),
	}

	dims := []int{2, 3, 4}
	vectorScalar := lo.SliceToMap(dims, func(dim int) (string, Variant) {
		return fmt.Sprintf("vec%d_scalar", dim), variant(func() (fpcase.Table, error) {
			vs, err := t.SparseVectorRange(dim)
			if err != nil {
				return nil, err
			}
			return t.VectorScalarToVectorCases(dim, vs, t.SparseScalarRange(),
				fpcase.FilterFinite, t.DivisionVectorScalarInterval)
		})
	})
	scalarVector := lo.SliceToMap(dims, func(dim int) (string, Variant) {
		return fmt.Sprintf("scalar_vec%d", dim), variant(func() (fpcase.Table, error) {
			vs, err := t.SparseVectorRange(dim)
			if err != nil {
				return nil, err
			}
			return t.ScalarVectorToVectorCases(dim, t.SparseScalarRange(), vs,
				fpcase.FilterFinite, t.DivisionScalarVectorInterval)
		})
	})

	return Suite{
		Name:     DivisionName,
		Op:       fpcase.OpDivision,
		Variants: merge(scalar, vectorScalar, scalarVector),
	}
}
