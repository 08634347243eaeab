package harness

import (
	"fmt"

	"github.com/gogpu/fpcase"
)

// typeLayout is the size and alignment of a host-shareable WGSL type.
type typeLayout struct {
	size, align int
}

func roundUp(k, n int) int {
	return (n + k - 1) / k * k
}

// scalarSize returns the byte width of one element of kind.
func scalarSize(kind fpcase.Kind) int {
	if kind == fpcase.KindF16 {
		return 2
	}
	return 4
}

// vectorLayout follows the WGSL rules: vec2 aligns to twice the element
// size, vec3 and vec4 to four times.
func vectorLayout(kind fpcase.Kind, n int) typeLayout {
	s := scalarSize(kind)
	if n == 2 {
		return typeLayout{size: 2 * s, align: 2 * s}
	}
	return typeLayout{size: n * s, align: 4 * s}
}

// layoutOf returns the layout of a value of the given kind and shape.
// Matrices are arrays of column vectors whose stride is the column size
// rounded up to the column alignment.
func layoutOf(kind fpcase.Kind, shape fpcase.Shape) typeLayout {
	switch {
	case shape.IsScalar():
		s := scalarSize(kind)
		return typeLayout{size: s, align: s}
	case shape.IsVector():
		return vectorLayout(kind, shape.Rows)
	}
	col := vectorLayout(kind, shape.Rows)
	return typeLayout{size: shape.Cols * roundUp(col.align, col.size), align: col.align}
}

// columnStride returns the distance between matrix columns.
func columnStride(kind fpcase.Kind, rows int) int {
	col := vectorLayout(kind, rows)
	return roundUp(col.align, col.size)
}

// wgslType returns the WGSL spelling of a value type, e.g. "vec3<f16>".
func wgslType(kind fpcase.Kind, shape fpcase.Shape) string {
	switch {
	case shape.IsScalar():
		return kind.String()
	case shape.IsVector():
		return fmt.Sprintf("vec%d<%s>", shape.Rows, kind)
	}
	return fmt.Sprintf("mat%dx%d<%s>", shape.Cols, shape.Rows, kind)
}

// Field is one member of a buffer struct.
type Field struct {
	Name   string
	Shape  fpcase.Shape
	Offset int
}

// StructLayout describes a WGSL struct laid out for a storage buffer and
// its stride as an array element.
type StructLayout struct {
	Name   string
	Kind   fpcase.Kind
	Fields []Field
	Size   int
	Align  int
	Stride int
}

// newStructLayout places fields in order, each at the next offset that
// satisfies its alignment.
func newStructLayout(name string, kind fpcase.Kind, names []string, shapes []fpcase.Shape) StructLayout {
	sl := StructLayout{Name: name, Kind: kind, Align: 1}
	offset := 0
	for i, shape := range shapes {
		l := layoutOf(kind, shape)
		offset = roundUp(l.align, offset)
		sl.Fields = append(sl.Fields, Field{Name: names[i], Shape: shape, Offset: offset})
		offset += l.size
		sl.Align = max(sl.Align, l.align)
	}
	sl.Size = roundUp(sl.Align, offset)
	sl.Stride = roundUp(sl.Align, sl.Size)
	return sl
}

// Declaration returns the WGSL struct declaration.
func (sl StructLayout) Declaration() string {
	s := "struct " + sl.Name + " {\n"
	for _, f := range sl.Fields {
		s += "  " + f.Name + ": " + wgslType(sl.Kind, f.Shape) + ",\n"
	}
	return s + "};\n"
}
