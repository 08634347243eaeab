package suites

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/gogpu/fpcase"
)

// MatrixSubtractionName is the cache name of the abstract-float matrix
// subtraction suite.
const MatrixSubtractionName = "binary/af_matrix_subtraction"

// MatrixSubtraction returns one matCxR variant for every C, R in 2..4.
func MatrixSubtraction() Suite {
	t := fpcase.Abstract
	dims := []int{2, 3, 4}

	variants := merge(lo.FlatMap(dims, func(cols int, _ int) []map[string]Variant {
		return lo.Map(dims, func(rows int, _ int) map[string]Variant {
			name := fmt.Sprintf("mat%dx%d", cols, rows)
			return map[string]Variant{name: {
				Kind:  fpcase.KindAbstract,
				Const: true,
				Generate: func() (fpcase.Table, error) {
					ms, err := t.SparseMatrixRange(cols, rows)
					if err != nil {
						return nil, err
					}
					return t.MatrixPairToMatrixCases(cols, rows, ms, ms,
						fpcase.FilterFinite, t.SubtractionMatrixMatrixInterval)
				},
			}}
		})
	})...)

	return Suite{Name: MatrixSubtractionName, Op: fpcase.OpSubtraction, Variants: variants}
}
