// Package trace records the execution trace of a circuit function: every
// witness value is appended to a per-phase advice column, and constraints
// (vertical gates, copies, fixed values, lookups) are anchored to cell
// offsets inside that column. The recorded trace is what the layout planner
// and the proving backend consume.
package trace

import "github.com/consensys/gnark/constraint"

// Cell locates an assigned value inside a context's trace.
type Cell struct {
	Context int
	Offset  int
}

// AssignedValue is a witness value together with the cell holding it.
// It is created exclusively by a Context and never mutated afterwards;
// deriving a new value always assigns a fresh cell.
type AssignedValue struct {
	Val  constraint.Element
	Cell Cell
}

// Value returns the witness value.
func (a AssignedValue) Value() constraint.Element { return a.Val }

// BoolValue is an AssignedValue whose cell has been constrained to 0 or 1.
// Combinators that are only sound for boolean selectors take a BoolValue so
// that the obligation is visible in the signature instead of a comment.
type BoolValue struct {
	AssignedValue
}

type cellKind uint8

const (
	kindExisting cellKind = iota
	kindWitness
	kindConstant
)

// QuantumCell describes one cell of a region before it is assigned: a
// reference to an existing cell (which adds an equality constraint to its
// source), a fresh witness, or a fixed constant.
type QuantumCell struct {
	kind cellKind
	val  constraint.Element
	cell Cell
}

// Existing references a previously assigned value. Assigning it copies the
// value into a new cell and constrains the two cells equal.
func Existing(a AssignedValue) QuantumCell {
	return QuantumCell{kind: kindExisting, val: a.Val, cell: a.Cell}
}

// ExistingBool references a boolean-constrained value.
func ExistingBool(b BoolValue) QuantumCell {
	return Existing(b.AssignedValue)
}

// Witness is a fresh, unconstrained witness value.
func Witness(v constraint.Element) QuantumCell {
	return QuantumCell{kind: kindWitness, val: v}
}

// Constant is a cell constrained to a fixed value known at keygen time.
func Constant(v constraint.Element) QuantumCell {
	return QuantumCell{kind: kindConstant, val: v}
}

// Value returns the witness value the cell will carry.
func (q QuantumCell) Value() constraint.Element { return q.val }

// Assigned reports whether the cell references an already assigned value,
// and returns that value when it does.
func (q QuantumCell) Assigned() (AssignedValue, bool) {
	if q.kind != kindExisting {
		return AssignedValue{}, false
	}
	return AssignedValue{Val: q.val, Cell: q.cell}, true
}

// ConstantConstraint fixes a cell to a circuit constant.
type ConstantConstraint struct {
	Cell Cell
	Val  constraint.Element
}
