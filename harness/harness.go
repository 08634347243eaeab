// Package harness turns case tables into WGSL compute programs and checks
// the results they produce.
//
// A [Program] holds everything an executor needs to run one table on a GPU:
// the WGSL source, the packed input buffer, the bind-group layout, and
// descriptors for the buffers and the shader module. After dispatch the
// executor reads the output buffer back and hands it to [Program.Decode];
// [Check] then compares every result against its case's expectation.
//
// Only f16 and f32 tables can be run; abstract floats have no runtime
// representation.
package harness

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/fpcase"
)

var (
	// ErrUnsupportedKind reports a table whose precision has no runtime type.
	ErrUnsupportedKind = errors.New("harness: unsupported kind")

	// ErrEmptyTable reports a table with no cases.
	ErrEmptyTable = errors.New("harness: empty table")

	// ErrNonFiniteConst reports a const-evaluated table holding a case that
	// is not finite, which would be a shader-creation error rather than a
	// result.
	ErrNonFiniteConst = errors.New("harness: non-finite case in const table")

	// ErrOutputSize reports an output buffer whose size does not match the program.
	ErrOutputSize = errors.New("harness: output size mismatch")
)

// InputSource selects how case inputs reach the shader.
type InputSource uint8

const (
	// SourceConst inlines inputs as literals so the operation is
	// evaluated at shader-creation time.
	SourceConst InputSource = iota
	// SourceStorageRead reads inputs from a read-only storage buffer.
	SourceStorageRead
	// SourceStorageReadWrite reads inputs from a read-write storage buffer.
	SourceStorageReadWrite
)

// InputSources lists every InputSource.
var InputSources = []InputSource{SourceConst, SourceStorageRead, SourceStorageReadWrite}

// String returns "const", "storage_r" or "storage_rw".
func (s InputSource) String() string {
	switch s {
	case SourceConst:
		return "const"
	case SourceStorageRead:
		return "storage_r"
	case SourceStorageReadWrite:
		return "storage_rw"
	}
	return fmt.Sprintf("InputSource(%d)", uint8(s))
}

// ParseInputSource parses the output of InputSource.String.
func ParseInputSource(s string) (InputSource, error) {
	for _, src := range InputSources {
		if src.String() == s {
			return src, nil
		}
	}
	return 0, fmt.Errorf("harness: unknown input source %q", s)
}

// DefaultBatchSize is the largest number of cases Batches puts in one program.
const DefaultBatchSize = 1024

// Program is one compute shader evaluating an operation over a table.
type Program struct {
	Op     fpcase.Op
	Kind   fpcase.Kind
	Source InputSource

	// WGSL is the complete shader source. The entry point is "main".
	WGSL string

	// Cases is the number of results the shader writes.
	Cases int

	// Input is the layout of one input record; nil for SourceConst.
	Input *StructLayout
	// Output is the layout of one output record.
	Output StructLayout

	inputs []byte
	result fpcase.Shape
}

// Build generates the program for op over every case of table.
//
// All cases must share input and result shapes. Tables of abstract kind
// fail with ErrUnsupportedKind; const tables holding unbounded expectations
// or non-finite inputs fail with ErrNonFiniteConst.
func Build(op fpcase.Op, kind fpcase.Kind, src InputSource, table fpcase.Table) (*Program, error) {
	if kind != fpcase.KindF16 && kind != fpcase.KindF32 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
	if len(table) == 0 {
		return nil, ErrEmptyTable
	}

	first := table[0]
	if len(first.Inputs) != op.Arity() {
		return nil, fmt.Errorf("%w: %s takes %d operands, case has %d",
			fpcase.ErrDimensionMismatch, op, op.Arity(), len(first.Inputs))
	}
	inShapes := make([]fpcase.Shape, len(first.Inputs))
	for i, in := range first.Inputs {
		inShapes[i] = in.Shape()
	}
	result := first.Expected.Shape()

	for i, c := range table {
		if err := checkCase(i, c, kind, inShapes, result); err != nil {
			return nil, err
		}
		if src == SourceConst && !constSafe(c) {
			return nil, fmt.Errorf("%w: case %d: %v", ErrNonFiniteConst, i, c)
		}
	}

	p := &Program{
		Op:     op,
		Kind:   kind,
		Source: src,
		Cases:  len(table),
		Output: newStructLayout("Output", kind, []string{"value"}, []fpcase.Shape{result}),
		result: result,
	}
	if src != SourceConst {
		in := newStructLayout("Input", kind, operandNames(len(inShapes)), inShapes)
		p.Input = &in
		p.inputs = pack(in, table)
	}
	p.WGSL = generateWGSL(p, table)

	fpcase.Logger().Debug("harness: built program",
		"op", op.String(), "kind", kind.String(), "source", src.String(),
		"cases", p.Cases, "wgsl_bytes", len(p.WGSL))
	return p, nil
}

// Batches splits table into programs of at most size cases each.
// A size of zero or less uses DefaultBatchSize.
func Batches(op fpcase.Op, kind fpcase.Kind, src InputSource, table fpcase.Table, size int) ([]*Program, error) {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if len(table) == 0 {
		return nil, ErrEmptyTable
	}
	var out []*Program
	for start := 0; start < len(table); start += size {
		end := min(start+size, len(table))
		p, err := Build(op, kind, src, table[start:end])
		if err != nil {
			return nil, fmt.Errorf("batch at case %d: %w", start, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func checkCase(i int, c fpcase.Case, kind fpcase.Kind, inShapes []fpcase.Shape, result fpcase.Shape) error {
	if len(c.Inputs) != len(inShapes) {
		return fmt.Errorf("%w: case %d has %d inputs, want %d",
			fpcase.ErrDimensionMismatch, i, len(c.Inputs), len(inShapes))
	}
	for j, in := range c.Inputs {
		if in.Kind() != kind {
			return fmt.Errorf("%w: case %d input %d is %s", ErrUnsupportedKind, i, j, in.Kind())
		}
		if in.Shape() != inShapes[j] {
			return fmt.Errorf("%w: case %d input %d is %s, want %s",
				fpcase.ErrDimensionMismatch, i, j, in.Shape(), inShapes[j])
		}
	}
	if c.Expected.Shape() != result {
		return fmt.Errorf("%w: case %d result is %s, want %s",
			fpcase.ErrDimensionMismatch, i, c.Expected.Shape(), result)
	}
	return nil
}

// constSafe reports whether a case can be compiled as a const expression.
func constSafe(c fpcase.Case) bool {
	if !c.Expected.IsFinite() {
		return false
	}
	for _, in := range c.Inputs {
		for _, e := range in.Elems() {
			if math.IsNaN(e) || math.IsInf(e, 0) {
				return false
			}
		}
	}
	return true
}

func operandNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = string(rune('a' + i))
	}
	return names
}

// Inputs returns a copy of the packed input buffer contents, or nil for
// SourceConst.
func (p *Program) Inputs() []byte {
	if p.inputs == nil {
		return nil
	}
	out := make([]byte, len(p.inputs))
	copy(out, p.inputs)
	return out
}

// ResultShape returns the shape of each result.
func (p *Program) ResultShape() fpcase.Shape { return p.result }

// OutputSize returns the size in bytes of the output buffer.
func (p *Program) OutputSize() int { return p.Cases * p.Output.Stride }
