package suites

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/gogpu/fpcase"
)

// DeterminantName is the cache name of the determinant suite.
const DeterminantName = "determinant"

// determinantSamples is the number of small-integer matrices per dimension.
const determinantSamples = 24

// Determinant returns the determinant suite: f32 and f16 const/non-const
// and abstract variants for 2x2, 3x3 and 4x4 matrices.
//
// Inputs are small integers in [-6, 6] so the exact determinant stays well
// inside f16 range; the non-const variants add the sparse matrix range,
// whose extreme values exercise the unbounded paths.
func Determinant() Suite {
	dims := []int{2, 3, 4}

	gen := func(t *fpcase.Trait, n int, isConst bool) fpcase.Generator {
		return func() (fpcase.Table, error) {
			ms := smallIntegerMatrices(n, determinantSamples)
			if !isConst {
				sparse, err := t.SparseMatrixRange(n, n)
				if err != nil {
					return nil, err
				}
				ms = append(ms, sparse...)
			}
			return t.MatrixToScalarCases(n, n, ms, filterFor(isConst), t.DeterminantInterval)
		}
	}

	concrete := lo.FlatMap([]*fpcase.Trait{fpcase.F32, fpcase.F16}, func(t *fpcase.Trait, _ int) []map[string]Variant {
		return lo.FlatMap(dims, func(n int, _ int) []map[string]Variant {
			return lo.Map([]bool{true, false}, func(isConst bool, _ int) map[string]Variant {
				name := fmt.Sprintf("%s_mat%dx%d_%s", t.Kind(), n, n, constName(isConst))
				return map[string]Variant{name: {Kind: t.Kind(), Const: isConst, Generate: gen(t, n, isConst)}}
			})
		})
	})
	abstract := lo.SliceToMap(dims, func(n int) (string, Variant) {
		return fmt.Sprintf("abstract_mat%dx%d", n, n),
			Variant{Kind: fpcase.KindAbstract, Const: true, Generate: gen(fpcase.Abstract, n, true)}
	})

	return Suite{
		Name:     DeterminantName,
		Op:       fpcase.OpDeterminant,
		Variants: merge(append(concrete, abstract)...),
	}
}

// smallIntegerMatrices returns count deterministic n×n matrices with
// integer elements in [-6, 6]. The first matrix is the identity.
func smallIntegerMatrices(n, count int) [][][]float64 {
	out := make([][][]float64, count)
	for s := range out {
		m := make([][]float64, n)
		for c := range m {
			m[c] = make([]float64, n)
			for r := range m[c] {
				switch {
				case s == 0 && c == r:
					m[c][r] = 1
				case s == 0:
					m[c][r] = 0
				default:
					e := c*n + r
					m[c][r] = float64((s*7+e*5+s*e)%13 - 6)
				}
			}
		}
		out[s] = m
	}
	return out
}
