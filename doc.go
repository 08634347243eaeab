// Package fpcase generates and caches floating-point conformance cases for
// WGSL shader-execution tests.
//
// # Overview
//
// A conformance test for a numeric builtin (division, sqrt, step,
// determinant, ...) needs a table of inputs paired with the set of results a
// conforming implementation may produce. fpcase builds those tables:
//
//   - A [Trait] describes a precision (f16, f32 or abstract) and computes
//     acceptance intervals that account for rounding, ULP error bounds and
//     subnormal flushing.
//   - Range generators ([LinearRange], [BiasedRange], [Trait.ScalarRange],
//     [Trait.SparseVectorRange], ...) produce deterministic sample inputs.
//   - Case builders ([Trait.ScalarPairToIntervalCases],
//     [Trait.MatrixPairToMatrixCases], ...) evaluate an interval function
//     over the samples and assemble a [Table].
//   - A [Cache] memoizes tables by cache and variant name, running every
//     generator at most once for the lifetime of the cache.
//
// # Quick Start
//
//	c := fpcase.NewCache()
//	sqrt, err := c.Register("sqrt", map[string]fpcase.Generator{
//	    "f32": func() (fpcase.Table, error) {
//	        return fpcase.F32.ScalarToIntervalCases(
//	            fpcase.F32.ScalarRange(), fpcase.FilterFinite, fpcase.F32.SqrtInterval), nil
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cases, err := sqrt.Get(ctx, "f32")
//
// # Acceptance intervals
//
// An [Interval] is a tagged union: a closed range, a small set of discrete
// points, or the unbounded interval that accepts anything. Point sets are
// never widened to their hull; step(edge, x) with edge == x accepts exactly
// 0 or 1, never 0.5.
//
// # Thread Safety
//
// Traits, intervals, values and tables are immutable and safe to share.
// Cache is safe for concurrent use.
package fpcase
