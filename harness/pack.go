package harness

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/x448/float16"

	"github.com/gogpu/fpcase"
)

// pack lays out the inputs of every case as an array of sl records.
// Padding bytes are zero.
func pack(sl StructLayout, table fpcase.Table) []byte {
	buf := make([]byte, len(table)*sl.Stride)
	for i, c := range table {
		base := i * sl.Stride
		for j, f := range sl.Fields {
			putValue(buf[base+f.Offset:], c.Inputs[j])
		}
	}
	return buf
}

// putValue writes v at the start of dst using the element offsets of its
// host-shareable layout.
func putValue(dst []byte, v fpcase.Value) {
	kind, shape := v.Kind(), v.Shape()
	for i, e := range v.Elems() {
		putScalar(dst[elementOffset(kind, shape, i):], kind, e)
	}
}

// elementOffset returns the byte offset of column-major element i.
func elementOffset(kind fpcase.Kind, shape fpcase.Shape, i int) int {
	s := scalarSize(kind)
	if !shape.IsMatrix() {
		return i * s
	}
	col, row := i/shape.Rows, i%shape.Rows
	return col*columnStride(kind, shape.Rows) + row*s
}

func putScalar(dst []byte, kind fpcase.Kind, x float64) {
	if kind == fpcase.KindF16 {
		binary.LittleEndian.PutUint16(dst, float16.Fromfloat32(float32(x)).Bits())
		return
	}
	binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(x)))
}

func getScalar(src []byte, kind fpcase.Kind) float64 {
	if kind == fpcase.KindF16 {
		return float64(float16.Frombits(binary.LittleEndian.Uint16(src)).Float32())
	}
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(src)))
}

// Decode reads one result per case from the contents of the output buffer.
func (p *Program) Decode(output []byte) ([]fpcase.Value, error) {
	if len(output) != p.OutputSize() {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrOutputSize, len(output), p.OutputSize())
	}
	field := p.Output.Fields[0]
	n := p.result.Len()
	out := make([]fpcase.Value, p.Cases)
	for i := range out {
		base := i*p.Output.Stride + field.Offset
		elems := make([]float64, n)
		for e := range elems {
			elems[e] = getScalar(output[base+elementOffset(p.Kind, p.result, e):], p.Kind)
		}
		v, err := fpcase.NewValue(p.Kind, p.result, elems)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Encode lays out results as the shader would write them. It is the
// inverse of Decode and lets executors and tests fabricate output buffers.
func (p *Program) Encode(results []fpcase.Value) ([]byte, error) {
	if len(results) != p.Cases {
		return nil, fmt.Errorf("%w: got %d results, want %d", ErrOutputSize, len(results), p.Cases)
	}
	buf := make([]byte, p.OutputSize())
	offset := p.Output.Fields[0].Offset
	for i, r := range results {
		if r.Kind() != p.Kind || r.Shape() != p.result {
			return nil, fmt.Errorf("%w: result %d is %s %s, want %s %s",
				fpcase.ErrDimensionMismatch, i, r.Kind(), r.Shape(), p.Kind, p.result)
		}
		putValue(buf[i*p.Output.Stride+offset:], r)
	}
	return buf, nil
}
