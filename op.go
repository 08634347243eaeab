package fpcase

import "fmt"

// Op enumerates the operations fpcase knows how to build intervals for.
type Op uint8

const (
	OpAddition Op = iota
	OpSubtraction
	OpMultiplication
	OpDivision
	OpSqrt
	OpInverseSqrt
	OpStep
	OpDeterminant
)

// Ops lists every Op in declaration order.
var Ops = []Op{
	OpAddition, OpSubtraction, OpMultiplication, OpDivision,
	OpSqrt, OpInverseSqrt, OpStep, OpDeterminant,
}

type opInfo struct {
	name    string
	arity   int
	infix   string // WGSL operator for binary operators
	builtin string // WGSL builtin function name otherwise
}

var opTable = [...]opInfo{
	OpAddition:       {name: "addition", arity: 2, infix: "+"},
	OpSubtraction:    {name: "subtraction", arity: 2, infix: "-"},
	OpMultiplication: {name: "multiplication", arity: 2, infix: "*"},
	OpDivision:       {name: "division", arity: 2, infix: "/"},
	OpSqrt:           {name: "sqrt", arity: 1, builtin: "sqrt"},
	OpInverseSqrt:    {name: "inverseSqrt", arity: 1, builtin: "inverseSqrt"},
	OpStep:           {name: "step", arity: 2, builtin: "step"},
	OpDeterminant:    {name: "determinant", arity: 1, builtin: "determinant"},
}

func (op Op) info() opInfo {
	if int(op) >= len(opTable) {
		panic(fmt.Sprintf("fpcase: unknown op %d", uint8(op)))
	}
	return opTable[op]
}

// String returns the operation name as used in cache names.
func (op Op) String() string {
	if int(op) >= len(opTable) {
		return fmt.Sprintf("Op(%d)", uint8(op))
	}
	return opTable[op].name
}

// Arity returns the number of operands.
func (op Op) Arity() int { return op.info().arity }

// WGSL returns the WGSL expression applying op to the given operand
// expressions, e.g. "(a / b)" or "sqrt(a)".
func (op Op) WGSL(args ...string) string {
	info := op.info()
	if len(args) != info.arity {
		panic(fmt.Sprintf("fpcase: %s takes %d operands, got %d", info.name, info.arity, len(args)))
	}
	if info.infix != "" {
		return "(" + args[0] + " " + info.infix + " " + args[1] + ")"
	}
	expr := info.builtin + "("
	for i, a := range args {
		if i > 0 {
			expr += ", "
		}
		expr += a
	}
	return expr + ")"
}

// ParseOp parses the output of Op.String.
func ParseOp(s string) (Op, error) {
	for _, op := range Ops {
		if op.String() == s {
			return op, nil
		}
	}
	return 0, fmt.Errorf("fpcase: unknown operation %q", s)
}

// ScalarFunc returns the single-operand scalar interval function for op.
func (t *Trait) ScalarFunc(op Op) (ScalarToInterval, bool) {
	switch op {
	case OpSqrt:
		return t.SqrtInterval, true
	case OpInverseSqrt:
		return t.InverseSqrtInterval, true
	}
	return nil, false
}

// ScalarPairFunc returns the two-operand scalar interval function for op.
func (t *Trait) ScalarPairFunc(op Op) (ScalarPairToInterval, bool) {
	switch op {
	case OpAddition:
		return t.AdditionInterval, true
	case OpSubtraction:
		return t.SubtractionInterval, true
	case OpMultiplication:
		return t.MultiplicationInterval, true
	case OpDivision:
		return t.DivisionInterval, true
	case OpStep:
		return t.StepInterval, true
	}
	return nil, false
}

// StrictInterval evaluates a scalar operation, failing with
// ErrUndefinedInterval instead of returning Any when an operand is not a
// finite value of the trait, lies outside the operation's domain, or yields
// a result with no finite bound.
func (t *Trait) StrictInterval(op Op, args ...float64) (Interval, error) {
	if op == OpDeterminant {
		return Interval{}, fmt.Errorf("%w: %s is not a scalar operation", ErrUndefinedInterval, op)
	}
	if len(args) != op.Arity() {
		return Interval{}, fmt.Errorf("%w: %s takes %d operands, got %d",
			ErrUndefinedInterval, op, op.Arity(), len(args))
	}
	for _, a := range args {
		if !t.IsFinite(a) {
			return Interval{}, fmt.Errorf("%w: %s of non-finite %v", ErrUndefinedInterval, op, a)
		}
	}
	switch op {
	case OpDivision:
		if !t.divisorInDomain(args[1]) {
			return Interval{}, fmt.Errorf("%w: %s by %v", ErrUndefinedInterval, op, args[1])
		}
	case OpSqrt, OpInverseSqrt:
		if args[0] < t.c.Positive.Min {
			return Interval{}, fmt.Errorf("%w: %s of %v", ErrUndefinedInterval, op, args[0])
		}
	}
	var iv Interval
	if f, ok := t.ScalarFunc(op); ok {
		iv = f(args[0])
	} else {
		f, _ := t.ScalarPairFunc(op)
		iv = f(args[0], args[1])
	}
	if !iv.IsFinite() {
		return Interval{}, fmt.Errorf("%w: %s%v has no finite bound", ErrUndefinedInterval, op, args)
	}
	return iv, nil
}
