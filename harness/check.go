package harness

import (
	"fmt"

	"github.com/gogpu/fpcase"
)

// Failure is a result outside its case's acceptance set.
type Failure struct {
	Index int
	Case  fpcase.Case
	Got   fpcase.Value
}

func (f Failure) String() string {
	return fmt.Sprintf("case %d: %v: got %v", f.Index, f.Case, f.Got)
}

// Check compares results against the expectations of table, in order.
// It fails with ErrOutputSize when the counts differ.
func Check(table fpcase.Table, results []fpcase.Value) ([]Failure, error) {
	if len(results) != len(table) {
		return nil, fmt.Errorf("%w: %d results for %d cases", ErrOutputSize, len(results), len(table))
	}
	var failures []Failure
	for i, c := range table {
		if !c.Expected.Accepts(results[i]) {
			failures = append(failures, Failure{Index: i, Case: c, Got: results[i]})
		}
	}
	if len(failures) > 0 {
		fpcase.Logger().Debug("harness: check failed",
			"cases", len(table), "failures", len(failures), "first", failures[0].String())
	}
	return failures, nil
}
