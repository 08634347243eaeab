package fpcase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	jsoncanonicalizer "github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
)

// jsonFloat encodes a float as a JSON number, or as one of the strings
// "inf", "-inf", "nan" and "-0" when JSON numbers cannot carry it.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	x := float64(f)
	switch {
	case math.IsNaN(x):
		return []byte(`"nan"`), nil
	case math.IsInf(x, 1):
		return []byte(`"inf"`), nil
	case math.IsInf(x, -1):
		return []byte(`"-inf"`), nil
	case x == 0 && math.Signbit(x):
		return []byte(`"-0"`), nil
	}
	return json.Marshal(x)
}

func jsonFloats(xs []float64) []jsonFloat {
	out := make([]jsonFloat, len(xs))
	for i, x := range xs {
		out[i] = jsonFloat(x)
	}
	return out
}

// MarshalJSON encodes the interval as "any", {"range": [lo, hi]} or
// {"points": [...]}.
func (iv Interval) MarshalJSON() ([]byte, error) {
	switch iv.form {
	case FormAny:
		return []byte(`"any"`), nil
	case FormPoints:
		return json.Marshal(map[string][]jsonFloat{"points": jsonFloats(iv.points)})
	}
	return json.Marshal(map[string][]jsonFloat{"range": {jsonFloat(iv.lo), jsonFloat(iv.hi)}})
}

// MarshalJSON encodes the value as {"kind", "shape", "elems"}.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  string      `json:"kind"`
		Shape string      `json:"shape"`
		Elems []jsonFloat `json:"elems"`
	}{v.kind.String(), v.shape.String(), jsonFloats(v.elems)})
}

// MarshalJSON encodes the case as {"inputs", "expected"}.
func (c Case) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Inputs   []Value     `json:"inputs"`
		Expected Expectation `json:"expected"`
	}{c.Inputs, c.Expected})
}

// CanonicalJSON returns the table encoded as RFC 8785 canonical JSON.
// Equal tables always produce identical bytes.
func (t Table) CanonicalJSON() ([]byte, error) {
	cases := []Case(t)
	if cases == nil {
		cases = []Case{}
	}
	raw, err := json.Marshal(cases)
	if err != nil {
		return nil, fmt.Errorf("fpcase: encode table: %w", err)
	}
	out, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("fpcase: canonicalize table: %w", err)
	}
	return out, nil
}

// Digest returns the hex SHA-256 of the table's canonical JSON.
func (t Table) Digest() (string, error) {
	b, err := t.CanonicalJSON()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
