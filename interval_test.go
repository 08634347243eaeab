package fpcase

import (
	"errors"
	"math"
	"testing"
)

func TestPoint(t *testing.T) {
	iv := Point(1)
	if !iv.IsPoint() || !iv.IsFinite() {
		t.Errorf("Point(1) IsPoint=%v IsFinite=%v", iv.IsPoint(), iv.IsFinite())
	}
	if !iv.Contains(1) || iv.Contains(math.Nextafter(1, 2)) || iv.Contains(math.NaN()) {
		t.Error("Point(1) membership wrong")
	}
	if iv.Form() != FormRange {
		t.Errorf("Form() = %v, want range", iv.Form())
	}
}

func TestNewInterval(t *testing.T) {
	tests := []struct {
		name    string
		lo, hi  float64
		wantErr bool
		form    Form
	}{
		{"ordinary", 1, 2, false, FormRange},
		{"point", 3, 3, false, FormRange},
		{"inverted", 2, 1, true, 0},
		{"nan", math.NaN(), 1, true, 0},
		{"unbounded", math.Inf(-1), math.Inf(1), false, FormAny},
		{"half open", 0, math.Inf(1), false, FormRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, err := NewInterval(tt.lo, tt.hi)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRange) {
					t.Errorf("NewInterval() error = %v, want ErrInvalidRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewInterval() error = %v", err)
			}
			if iv.Form() != tt.form {
				t.Errorf("Form() = %v, want %v", iv.Form(), tt.form)
			}
		})
	}

	half, _ := NewInterval(0, math.Inf(1))
	if half.IsFinite() {
		t.Error("[0, +inf] reported finite")
	}
}

func TestAny(t *testing.T) {
	iv := Any()
	if iv.IsFinite() || iv.IsPoint() {
		t.Error("Any() must be unbounded and not a point")
	}
	for _, v := range []float64{0, -1e300, math.Inf(1), math.NaN()} {
		if !iv.Contains(v) {
			t.Errorf("Any() rejects %v", v)
		}
	}
}

func TestAnyOf(t *testing.T) {
	iv := AnyOf(1, 0, 1)
	if iv.Form() != FormPoints {
		t.Fatalf("Form() = %v, want points", iv.Form())
	}
	if !iv.Contains(0) || !iv.Contains(1) {
		t.Error("AnyOf(0, 1) rejects a member")
	}
	if iv.Contains(0.5) {
		t.Error("AnyOf(0, 1) accepts 0.5")
	}
	if lo, hi := iv.Bounds(); lo != 0 || hi != 1 {
		t.Errorf("Bounds() = %v, %v", lo, hi)
	}
	if got := iv.Points(); len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("Points() = %v, want [0 1]", got)
	}
	if !iv.IsFinite() || iv.IsPoint() {
		t.Error("AnyOf(0, 1) must be finite and not a point")
	}

	if single := AnyOf(3, 3); !single.IsPoint() || !single.Contains(3) {
		t.Errorf("AnyOf(3, 3) = %v, want point", single)
	}
	if AnyOf().Form() != FormAny || AnyOf(1, math.NaN()).Form() != FormAny {
		t.Error("AnyOf of nothing or NaN must be Any")
	}
	if Point(1).Points() != nil {
		t.Error("Points() of a range must be nil")
	}
}

func TestSpan(t *testing.T) {
	tests := []struct {
		name string
		ivs  []Interval
		want string
	}{
		{"points", []Interval{Point(3), Point(1)}, "[1, 3]"},
		{"overlap", []Interval{mustInterval(0, 2), mustInterval(1, 5)}, "[0, 5]"},
		{"point set hull", []Interval{AnyOf(0, 1), Point(5)}, "[0, 5]"},
		{"with any", []Interval{Point(1), Any()}, "any"},
		{"empty", nil, "any"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Span(tt.ivs...).String(); got != tt.want {
				t.Errorf("Span() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIntervalEqual(t *testing.T) {
	tests := []struct {
		a, b Interval
		want bool
	}{
		{Point(1), Point(1), true},
		{Point(1), Point(2), false},
		{mustInterval(0, 1), AnyOf(0, 1), false},
		{AnyOf(0, 1), AnyOf(1, 0), true},
		{Any(), Any(), true},
		{Any(), mustInterval(0, 1), false},
	}
	for _, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.want {
			t.Errorf("%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestIntervalString(t *testing.T) {
	if got := mustInterval(-1.5, 2).String(); got != "[-1.5, 2]" {
		t.Errorf("String() = %q", got)
	}
	if got := AnyOf(1, 0).String(); got != "{0, 1}" {
		t.Errorf("String() = %q", got)
	}
	if got := Any().String(); got != "any" {
		t.Errorf("String() = %q", got)
	}
}

func TestZeroInterval(t *testing.T) {
	var iv Interval
	if !iv.IsPoint() || !iv.Contains(0) {
		t.Errorf("zero Interval = %v, want [0, 0]", iv)
	}
}

func mustInterval(lo, hi float64) Interval {
	iv, err := NewInterval(lo, hi)
	if err != nil {
		panic(err)
	}
	return iv
}
