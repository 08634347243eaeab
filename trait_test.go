package fpcase

import (
	"math"
	"testing"
)

func TestFor(t *testing.T) {
	for _, k := range Kinds {
		if got := For(k).Kind(); got != k {
			t.Errorf("For(%v).Kind() = %v", k, got)
		}
		parsed, err := ParseKind(k.String())
		if err != nil || parsed != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), parsed, err)
		}
	}
	if _, err := ParseKind("f64"); err == nil {
		t.Error("ParseKind(f64) succeeded")
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		name  string
		trait *Trait
		x     float64
		want  float64
	}{
		{"f32 exact", F32, 1.5, 1.5},
		{"f32 inexact", F32, 0.1, float64(float32(0.1))},
		{"f32 overflow", F32, 1e300, math.Inf(1)},
		{"f16 exact", F16, 65504, 65504},
		{"f16 tie to even", F16, 1 + 0x1p-11, 1},
		{"f16 above tie", F16, 1 + 0x1p-11 + 0x1p-20, 1 + 0x1p-10},
		// Naive f64 -> f32 -> f16 rounds this to the tie and then to 1.
		{"f16 no double rounding", F16, 1 + 0x1p-11 + 0x1p-40, 1 + 0x1p-10},
		{"f16 subnormal", F16, 0x1p-24, 0x1p-24},
		{"f16 overflow", F16, 1e6, math.Inf(1)},
		{"abstract identity", Abstract, 0.1, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.trait.Quantize(tt.x)
			if got != tt.want {
				t.Errorf("Quantize(%v) = %v, want %v", tt.x, got, tt.want)
			}
			if again := tt.trait.Quantize(got); again != got {
				t.Errorf("Quantize not idempotent: %v -> %v", got, again)
			}
		})
	}
}

func TestQuantizeIdempotentOverRange(t *testing.T) {
	for _, tr := range []*Trait{F16, F32, Abstract} {
		xs, err := LinearRange(-1000, 1000, 997)
		if err != nil {
			t.Fatal(err)
		}
		for _, x := range xs {
			q := tr.Quantize(x)
			if tr.Quantize(q) != q || !tr.IsRepresentable(q) {
				t.Fatalf("%v: Quantize(%v) = %v is not a fixed point", tr.Kind(), x, q)
			}
		}
	}
}

func TestNextUpDown(t *testing.T) {
	tests := []struct {
		name        string
		trait       *Trait
		x, up, down float64
	}{
		{"f32 one", F32, 1, 1 + 0x1p-23, 1 - 0x1p-24},
		{"f16 one", F16, 1, 1 + 0x1p-10, 1 - 0x1p-11},
		{"f16 zero", F16, 0, 0x1p-24, -0x1p-24},
		{"f16 negative", F16, -2, -2 + 0x1p-10, -2 - 0x1p-9},
		{"abstract one", Abstract, 1, 1 + 0x1p-52, 1 - 0x1p-53},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.trait.NextUp(tt.x); got != tt.up {
				t.Errorf("NextUp(%v) = %v, want %v", tt.x, got, tt.up)
			}
			if got := tt.trait.NextDown(tt.x); got != tt.down {
				t.Errorf("NextDown(%v) = %v, want %v", tt.x, got, tt.down)
			}
		})
	}
}

func TestULP(t *testing.T) {
	tests := []struct {
		name  string
		trait *Trait
		x     float64
		want  float64
	}{
		{"f32 one", F32, 1, 0x1p-23},
		{"f32 1.5", F32, 1.5, 0x1p-23},
		{"f32 negative", F32, -1, 0x1p-23},
		{"f32 flushed subnormal", F32, 0x1p-140, 0x1p-126},
		{"f32 max", F32, math.MaxFloat32, 0x1p104},
		{"f16 one", F16, 1, 0x1p-10},
		{"f16 1024", F16, 1024, 1},
		{"abstract one", Abstract, 1, 0x1p-52},
		{"abstract subnormal", Abstract, 0x1p-1050, 0x1p-1074},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.trait.ULP(tt.x); got != tt.want {
				t.Errorf("ULP(%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}

func TestCorrectlyRoundedInterval(t *testing.T) {
	if iv := F32.CorrectlyRoundedInterval(1); !iv.Equal(Point(1)) {
		t.Errorf("CorrectlyRoundedInterval(1) = %v, want [1, 1]", iv)
	}

	iv := F32.CorrectlyRoundedInterval(0.1)
	lo, hi := iv.Bounds()
	if !iv.Contains(float64(float32(0.1))) || lo >= 0.1 || hi <= 0.1 {
		t.Errorf("CorrectlyRoundedInterval(0.1) = %v does not bracket 0.1", iv)
	}
	if F32.NextUp(lo) != hi {
		t.Errorf("CorrectlyRoundedInterval(0.1) = %v is wider than one ULP", iv)
	}

	if F16.CorrectlyRoundedInterval(1e6).IsFinite() {
		t.Error("out-of-range value must be unbounded")
	}
}

func TestULPInterval(t *testing.T) {
	iv := F32.ULPInterval(1, 2)
	if lo, hi := iv.Bounds(); lo != 1-2*0x1p-23 || hi != 1+2*0x1p-23 {
		t.Errorf("ULPInterval(1, 2) = %v", iv)
	}
	if F32.ULPInterval(math.Inf(1), 1).IsFinite() {
		t.Error("ULPInterval(inf) must be unbounded")
	}
	if F32.ULPInterval(math.MaxFloat32, 1).IsFinite() {
		t.Error("ULPInterval at the largest value must overflow to unbounded")
	}
}

func TestIsSubnormal(t *testing.T) {
	if !F32.IsSubnormal(0x1p-130) || F32.IsSubnormal(0x1p-126) || F32.IsSubnormal(0) {
		t.Error("F32.IsSubnormal wrong")
	}
	if !F16.IsSubnormal(-0x1p-20) {
		t.Error("F16.IsSubnormal(-2^-20) = false")
	}
}

func TestIsFinite(t *testing.T) {
	if !F16.IsFinite(65504) || F16.IsFinite(65536) || F16.IsFinite(math.NaN()) {
		t.Error("F16.IsFinite wrong")
	}
	if !Abstract.IsFinite(1e300) {
		t.Error("Abstract.IsFinite(1e300) = false")
	}
}
