// Package suites registers the case tables of each operation under test.
//
// Every suite is a cache name (e.g. "binary/af_division") with a fixed set
// of variants. A variant records the precision it is generated for and
// whether the shader under test evaluates it at compile time, which decides
// the filter: const-evaluated variants keep only cases with bounded
// expectations, since a const overflow is a compile error, not a result.
package suites

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/gogpu/fpcase"
)

// Variant is one generated table of a suite.
type Variant struct {
	Kind     fpcase.Kind
	Const    bool
	Generate fpcase.Generator
}

// Suite is a named set of variants for one operation.
type Suite struct {
	Name     string
	Op       fpcase.Op
	Variants map[string]Variant
}

// Generators returns the variant generators in the form Cache.Register expects.
func (s Suite) Generators() map[string]fpcase.Generator {
	return lo.MapValues(s.Variants, func(v Variant, _ string) fpcase.Generator {
		return v.Generate
	})
}

// All returns every suite, sorted by name.
func All() []Suite {
	all := []Suite{
		Division(),
		MatrixSubtraction(),
		Sqrt(),
		InverseSqrt(),
		Step(),
		Determinant(),
	}
	slices.SortFunc(all, func(a, b Suite) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return all
}

// Lookup returns the suite registered under name.
func Lookup(name string) (Suite, bool) {
	return lo.Find(All(), func(s Suite) bool { return s.Name == name })
}

// Register installs every suite into c.
func Register(c *fpcase.Cache) error {
	for _, s := range All() {
		if _, err := c.Register(s.Name, s.Generators()); err != nil {
			return fmt.Errorf("suites: %w", err)
		}
	}
	return nil
}

// filterFor maps the const-evaluation flag to a builder filter.
func filterFor(isConst bool) fpcase.Filter {
	if isConst {
		return fpcase.FilterFinite
	}
	return fpcase.FilterUnfiltered
}

// constName returns "const" or "non_const".
func constName(isConst bool) string {
	if isConst {
		return "const"
	}
	return "non_const"
}

// merge combines per-parameter variant maps; later keys win.
func merge(parts ...map[string]Variant) map[string]Variant {
	return lo.Assign(parts...)
}

// perKindAndConst builds "<kind>_<const|non_const>" variants for f32 and f16.
func perKindAndConst(build func(t *fpcase.Trait, isConst bool) fpcase.Generator) map[string]Variant {
	return merge(lo.FlatMap([]*fpcase.Trait{fpcase.F32, fpcase.F16}, func(t *fpcase.Trait, _ int) []map[string]Variant {
		return lo.Map([]bool{true, false}, func(isConst bool, _ int) map[string]Variant {
			name := t.Kind().String() + "_" + constName(isConst)
			return map[string]Variant{name: {Kind: t.Kind(), Const: isConst, Generate: build(t, isConst)}}
		})
	})...)
}
