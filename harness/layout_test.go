package harness

import (
	"testing"

	"github.com/gogpu/fpcase"
)

func TestLayoutOf(t *testing.T) {
	tests := []struct {
		name        string
		kind        fpcase.Kind
		shape       fpcase.Shape
		size, align int
	}{
		{"f32", fpcase.KindF32, fpcase.ScalarShape, 4, 4},
		{"f16", fpcase.KindF16, fpcase.ScalarShape, 2, 2},
		{"vec2<f32>", fpcase.KindF32, fpcase.VectorShape(2), 8, 8},
		{"vec3<f32>", fpcase.KindF32, fpcase.VectorShape(3), 12, 16},
		{"vec4<f32>", fpcase.KindF32, fpcase.VectorShape(4), 16, 16},
		{"vec3<f16>", fpcase.KindF16, fpcase.VectorShape(3), 6, 8},
		{"mat2x2<f32>", fpcase.KindF32, fpcase.MatrixShape(2, 2), 16, 8},
		{"mat2x3<f32>", fpcase.KindF32, fpcase.MatrixShape(2, 3), 32, 16},
		{"mat3x2<f32>", fpcase.KindF32, fpcase.MatrixShape(3, 2), 24, 8},
		{"mat4x4<f32>", fpcase.KindF32, fpcase.MatrixShape(4, 4), 64, 16},
		{"mat2x3<f16>", fpcase.KindF16, fpcase.MatrixShape(2, 3), 16, 8},
		{"mat3x3<f16>", fpcase.KindF16, fpcase.MatrixShape(3, 3), 24, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wgslType(tt.kind, tt.shape); got != tt.name {
				t.Errorf("wgslType() = %q, want %q", got, tt.name)
			}
			l := layoutOf(tt.kind, tt.shape)
			if l.size != tt.size || l.align != tt.align {
				t.Errorf("layoutOf() = {size %d, align %d}, want {size %d, align %d}",
					l.size, l.align, tt.size, tt.align)
			}
		})
	}
}

func TestStructLayout(t *testing.T) {
	tests := []struct {
		name    string
		kind    fpcase.Kind
		shapes  []fpcase.Shape
		offsets []int
		size    int
	}{
		{
			name:    "vec3 then scalar packs into padding",
			kind:    fpcase.KindF32,
			shapes:  []fpcase.Shape{fpcase.VectorShape(3), fpcase.ScalarShape},
			offsets: []int{0, 12},
			size:    16,
		},
		{
			name:    "scalar then vec3 aligns to 16",
			kind:    fpcase.KindF32,
			shapes:  []fpcase.Shape{fpcase.ScalarShape, fpcase.VectorShape(3)},
			offsets: []int{0, 16},
			size:    32,
		},
		{
			name:    "f16 scalar pair",
			kind:    fpcase.KindF16,
			shapes:  []fpcase.Shape{fpcase.ScalarShape, fpcase.ScalarShape},
			offsets: []int{0, 2},
			size:    4,
		},
		{
			name:    "matrix pair",
			kind:    fpcase.KindF32,
			shapes:  []fpcase.Shape{fpcase.MatrixShape(3, 2), fpcase.MatrixShape(3, 2)},
			offsets: []int{0, 24},
			size:    48,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sl := newStructLayout("Input", tt.kind, operandNames(len(tt.shapes)), tt.shapes)
			for i, f := range sl.Fields {
				if f.Offset != tt.offsets[i] {
					t.Errorf("field %s offset = %d, want %d", f.Name, f.Offset, tt.offsets[i])
				}
			}
			if sl.Size != tt.size || sl.Stride != tt.size {
				t.Errorf("size/stride = %d/%d, want %d", sl.Size, sl.Stride, tt.size)
			}
		})
	}
}

func TestStructDeclaration(t *testing.T) {
	sl := newStructLayout("Input", fpcase.KindF16, []string{"a", "b"},
		[]fpcase.Shape{fpcase.VectorShape(2), fpcase.ScalarShape})
	want := "struct Input {\n  a: vec2<f16>,\n  b: f16,\n};\n"
	if got := sl.Declaration(); got != want {
		t.Errorf("Declaration() =\n%s\nwant\n%s", got, want)
	}
}

func TestElementOffset(t *testing.T) {
	shape := fpcase.MatrixShape(2, 3)
	// Columns of a mat2x3<f32> are 16 bytes apart.
	want := []int{0, 4, 8, 16, 20, 24}
	for i, w := range want {
		if got := elementOffset(fpcase.KindF32, shape, i); got != w {
			t.Errorf("elementOffset(%d) = %d, want %d", i, got, w)
		}
	}
}
