package harness

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/fpcase"
)

// generateWGSL writes the shader for p. Storage programs loop over the
// input array; const programs write one statement per case with every
// operand spelled as a literal.
func generateWGSL(p *Program, table fpcase.Table) string {
	var b strings.Builder

	if p.Kind == fpcase.KindF16 {
		b.WriteString("enable f16;\n\n")
	}
	if p.Input != nil {
		b.WriteString(p.Input.Declaration())
		b.WriteString("\n")
	}
	b.WriteString(p.Output.Declaration())
	b.WriteString("\n")

	fmt.Fprintf(&b, "@group(0) @binding(%d) var<storage, read_write> outputs: array<Output, %d>;\n",
		bindingOutputs, p.Cases)
	if p.Input != nil {
		access := "read"
		if p.Source == SourceStorageReadWrite {
			access = "read_write"
		}
		fmt.Fprintf(&b, "@group(0) @binding(%d) var<storage, %s> inputs: array<Input, %d>;\n",
			bindingInputs, access, p.Cases)
	}

	b.WriteString("\n@compute @workgroup_size(1)\nfn main() {\n")
	if p.Input != nil {
		args := make([]string, len(p.Input.Fields))
		for i, f := range p.Input.Fields {
			args[i] = "inputs[i]." + f.Name
		}
		b.WriteString("  var i = 0u;\n")
		fmt.Fprintf(&b, "  while (i < %du) {\n", p.Cases)
		fmt.Fprintf(&b, "    outputs[i].value = %s;\n", p.Op.WGSL(args...))
		b.WriteString("    i = i + 1u;\n")
		b.WriteString("  }\n")
	} else {
		for i, c := range table {
			args := make([]string, len(c.Inputs))
			for j, in := range c.Inputs {
				args[j] = valueLiteral(in)
			}
			fmt.Fprintf(&b, "  outputs[%d].value = %s;\n", i, p.Op.WGSL(args...))
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// scalarLiteral spells a finite value of kind as a suffixed WGSL literal.
// Negative values are parenthesized so they can appear as operands.
func scalarLiteral(kind fpcase.Kind, x float64) string {
	suffix := "f"
	if kind == fpcase.KindF16 {
		suffix = "h"
	}
	s := strconv.FormatFloat(math.Abs(x), 'e', -1, 32) + suffix
	if math.Signbit(x) {
		return "(-" + s + ")"
	}
	return s
}

// valueLiteral spells a value as a WGSL constructor expression.
func valueLiteral(v fpcase.Value) string {
	elems := v.Elems()
	if v.Shape().IsScalar() {
		return scalarLiteral(v.Kind(), elems[0])
	}
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = scalarLiteral(v.Kind(), e)
	}
	return wgslType(v.Kind(), v.Shape()) + "(" + strings.Join(parts, ", ") + ")"
}
