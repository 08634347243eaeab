package fpcase

import (
	"slices"
	"strings"
)

// Case is one test vector: the inputs handed to the implementation under
// test and the acceptance set for its result.
type Case struct {
	Inputs   []Value
	Expected Expectation
}

// String formats the case as "inputs -> expected".
func (c Case) String() string {
	parts := make([]string, len(c.Inputs))
	for i, in := range c.Inputs {
		parts[i] = in.String()
	}
	return strings.Join(parts, ", ") + " -> " + c.Expected.String()
}

// Table is an ordered, immutable collection of cases for one variant.
type Table []Case

// Clone returns a copy of t whose case list and input lists may be modified
// freely. Values and expectations are immutable and shared.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for i, c := range t {
		out[i] = Case{Inputs: slices.Clone(c.Inputs), Expected: c.Expected}
	}
	return out
}

// Filter selects which generated cases a builder keeps.
type Filter uint8

const (
	// FilterFinite drops cases whose inputs or expectation are unbounded.
	FilterFinite Filter = iota
	// FilterUnfiltered keeps every case, including those that accept anything.
	FilterUnfiltered
)

// String returns "finite" or "unfiltered".
func (f Filter) String() string {
	if f == FilterFinite {
		return "finite"
	}
	return "unfiltered"
}
