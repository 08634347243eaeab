package suites

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/fpcase"
)

func variantNames(s Suite) []string {
	names := make([]string, 0, len(s.Variants))
	for n := range s.Variants {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func TestVariantNames(t *testing.T) {
	tests := []struct {
		suite Suite
		want  []string
	}{
		{Division(), []string{
			"scalar", "scalar_vec2", "scalar_vec3", "scalar_vec4",
			"vec2_scalar", "vec3_scalar", "vec4_scalar",
		}},
		{MatrixSubtraction(), []string{
			"mat2x2", "mat2x3", "mat2x4", "mat3x2", "mat3x3", "mat3x4",
			"mat4x2", "mat4x3", "mat4x4",
		}},
		{Sqrt(), []string{"f16_const", "f16_non_const", "f32_const", "f32_non_const"}},
		{InverseSqrt(), []string{"f16", "f32"}},
		{Step(), []string{"f16", "f32"}},
		{Determinant(), []string{
			"abstract_mat2x2", "abstract_mat3x3", "abstract_mat4x4",
			"f16_mat2x2_const", "f16_mat2x2_non_const",
			"f16_mat3x3_const", "f16_mat3x3_non_const",
			"f16_mat4x4_const", "f16_mat4x4_non_const",
			"f32_mat2x2_const", "f32_mat2x2_non_const",
			"f32_mat3x3_const", "f32_mat3x3_non_const",
			"f32_mat4x4_const", "f32_mat4x4_non_const",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.suite.Name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, variantNames(tt.suite)); diff != "" {
				t.Errorf("variants mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAllSortedAndLookup(t *testing.T) {
	all := All()
	if !slices.IsSortedFunc(all, func(a, b Suite) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	}) {
		t.Error("All() is not sorted by name")
	}
	if s, ok := Lookup(StepName); !ok || s.Op != fpcase.OpStep {
		t.Errorf("Lookup(%q) = %v, %v", StepName, s.Name, ok)
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup of unknown suite succeeded")
	}
}

func TestRegister(t *testing.T) {
	c := fpcase.NewCache()
	if err := Register(c); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if diff := cmp.Diff([]string{
		DivisionName, MatrixSubtractionName, DeterminantName, InverseSqrtName, SqrtName, StepName,
	}, c.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if err := Register(c); !errors.Is(err, fpcase.ErrAlreadyRegistered) {
		t.Errorf("second Register() error = %v, want ErrAlreadyRegistered", err)
	}
}

func get(t *testing.T, s Suite, variant string) fpcase.Table {
	t.Helper()
	v, ok := s.Variants[variant]
	if !ok {
		t.Fatalf("%s has no variant %q", s.Name, variant)
	}
	table, err := v.Generate()
	if err != nil {
		t.Fatalf("%s/%s: %v", s.Name, variant, err)
	}
	return table
}

func TestDivisionVectorScalarShapes(t *testing.T) {
	table := get(t, Division(), "vec3_scalar")
	if len(table) == 0 {
		t.Fatal("empty table")
	}
	for _, c := range table {
		if c.Inputs[0].Shape() != fpcase.VectorShape(3) || !c.Inputs[1].Shape().IsScalar() {
			t.Fatalf("unexpected input shapes in %v", c)
		}
		if c.Expected.Shape() != fpcase.VectorShape(3) {
			t.Fatalf("expectation shape %v, want vec3", c.Expected.Shape())
		}
		if !c.Expected.IsFinite() {
			t.Fatalf("finite-filtered table holds unbounded case %v", c)
		}
	}
}

func TestMatrixSubtractionShapes(t *testing.T) {
	for _, c := range get(t, MatrixSubtraction(), "mat2x4") {
		if c.Expected.Shape() != fpcase.MatrixShape(2, 4) {
			t.Fatalf("expectation shape %v, want mat2x4", c.Expected.Shape())
		}
	}
}

func TestSqrtFilters(t *testing.T) {
	s := Sqrt()
	for _, c := range get(t, s, "f32_const") {
		if !c.Expected.IsFinite() {
			t.Fatalf("const table holds unbounded case %v", c)
		}
	}
	if got, want := len(get(t, s, "f32_non_const")), len(fpcase.F32.ScalarRange()); got != want {
		t.Errorf("non_const cases = %d, want %d", got, want)
	}
	if !s.Variants["f16_const"].Const || s.Variants["f16_non_const"].Const {
		t.Error("const flags not set from variant names")
	}
}

func TestInverseSqrtCount(t *testing.T) {
	if got := len(get(t, InverseSqrt(), "f16")); got != 1100 {
		t.Errorf("cases = %d, want 1100", got)
	}
}

func TestStepNeverAcceptsBetweenZeroAndOne(t *testing.T) {
	table := get(t, Step(), "f32")
	sawEqual := false
	for _, c := range table {
		iv, ok := c.Expected.(fpcase.Interval)
		if !ok {
			t.Fatalf("expectation %T, want Interval", c.Expected)
		}
		if !iv.IsFinite() {
			continue
		}
		if iv.Contains(0.5) {
			t.Fatalf("case %v accepts 0.5", c)
		}
		if c.Inputs[0].At(0) == c.Inputs[1].At(0) {
			sawEqual = true
			if !iv.Contains(0) || !iv.Contains(1) {
				t.Fatalf("step(x, x) case %v must accept 0 and 1", c)
			}
		}
	}
	if !sawEqual {
		t.Error("no case with edge == x")
	}
}

func TestDeterminantCounts(t *testing.T) {
	d := Determinant()
	if got := len(get(t, d, "abstract_mat3x3")); got != determinantSamples {
		t.Errorf("abstract_mat3x3 cases = %d, want %d", got, determinantSamples)
	}
	if got := len(get(t, d, "f32_mat2x2_non_const")); got != determinantSamples+16 {
		t.Errorf("f32_mat2x2_non_const cases = %d, want %d", got, determinantSamples+16)
	}
	identity := get(t, d, "f16_mat4x4_const")[0]
	if !identity.Expected.(fpcase.Interval).Equal(fpcase.Point(1)) {
		t.Errorf("determinant(identity) = %v, want [1, 1]", identity.Expected)
	}
}

func TestSmallIntegerMatricesInRange(t *testing.T) {
	for _, m := range smallIntegerMatrices(4, determinantSamples) {
		for _, col := range m {
			for _, e := range col {
				if e < -6 || e > 6 || e != float64(int(e)) {
					t.Fatalf("element %v outside [-6, 6] integers", e)
				}
			}
		}
	}
}

func TestGenerationIsDeterministic(t *testing.T) {
	ctx := context.Background()
	first := fpcase.NewCache()
	second := fpcase.NewCache()
	for _, c := range []*fpcase.Cache{first, second} {
		if err := Register(c); err != nil {
			t.Fatal(err)
		}
	}
	for _, key := range [][2]string{
		{DivisionName, "scalar_vec2"},
		{MatrixSubtractionName, "mat3x2"},
		{DeterminantName, "f16_mat3x3_non_const"},
	} {
		a, err := first.Get(ctx, key[0], key[1])
		if err != nil {
			t.Fatal(err)
		}
		b, err := second.Get(ctx, key[0], key[1])
		if err != nil {
			t.Fatal(err)
		}
		da, _ := a.Digest()
		db, _ := b.Digest()
		if da != db {
			t.Errorf("%s/%s digests differ: %s vs %s", key[0], key[1], da, db)
		}
	}
}
