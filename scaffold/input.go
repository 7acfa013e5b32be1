// Package scaffold is the outer harness: it decodes JSON inputs, drives a
// circuit function through mock, keygen, prove, and verify, and owns the
// on-disk artifacts (keys, proofs, pinning) those stages exchange.
package scaffold

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/consensys/gnark/constraint"

	"github.com/plonkish-zk/scaffold/field"
)

// Element is a field element in a JSON input file, written as a decimal
// string, a 0x-prefixed hex string, or a bare JSON number.
type Element string

func (e *Element) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = Element(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("scaffold: field element must be a string or number, got %s", data)
	}
	*e = Element(n.String())
	return nil
}

// Parse converts the textual element into the field.
func (e Element) Parse(f field.Field) (constraint.Element, error) {
	v, ok := field.ParseElement(f, string(e))
	if !ok {
		return constraint.Element{}, fmt.Errorf("scaffold: %q is not a field element", string(e))
	}
	return v, nil
}

// MustParse is Parse for inputs already validated, e.g. in tests.
func (e Element) MustParse(f field.Field) constraint.Element {
	v, err := e.Parse(f)
	if err != nil {
		panic(err)
	}
	return v
}

// ReadInput decodes the JSON input file for a circuit run.
func ReadInput[T any](path string) (T, error) {
	var input T
	data, err := os.ReadFile(path)
	if err != nil {
		return input, fmt.Errorf("scaffold: read input: %w", err)
	}
	if err := json.Unmarshal(data, &input); err != nil {
		return input, fmt.Errorf("scaffold: decode input %s: %w", path, err)
	}
	return input, nil
}
