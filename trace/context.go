package trace

import (
	"fmt"

	"github.com/consensys/gnark/constraint"
)

// Context is a single-threaded constraint-recording stream. Chip operations
// append cells to its advice trace and activate the vertical gate
//
//	advice[r] + advice[r+1]*advice[r+2] - advice[r+3] = 0
//
// at selected offsets. Growth is monotonic: there is no rollback, and once
// the layout has been planned the context is frozen and further assignments
// panic. A Context must not be used from multiple goroutines.
type Context struct {
	id         int
	lookupBits int

	advice    []constraint.Element
	selectors []int
	copies    [][2]Cell
	constants []ConstantConstraint
	lookups   []Cell

	frozen bool
}

// NewContext returns an empty recording stream. lookupBits is zero when the
// circuit was built without a lookup table; Lookup then panics.
func NewContext(id, lookupBits int) *Context {
	return &Context{id: id, lookupBits: lookupBits}
}

func (ctx *Context) ID() int         { return ctx.id }
func (ctx *Context) LookupBits() int { return ctx.lookupBits }

// Rows returns the number of cells assigned so far.
func (ctx *Context) Rows() int { return len(ctx.advice) }

// Advice exposes the recorded trace for layout planning and checking.
func (ctx *Context) Advice() []constraint.Element  { return ctx.advice }
func (ctx *Context) Selectors() []int              { return ctx.selectors }
func (ctx *Context) Copies() [][2]Cell             { return ctx.copies }
func (ctx *Context) Constants() []ConstantConstraint {
	return ctx.constants
}
func (ctx *Context) Lookups() []Cell { return ctx.lookups }

// Freeze forbids further assignments. Called by the builder once the layout
// is planned (or, for phase 0, once the challenge has been derived).
func (ctx *Context) Freeze() { ctx.frozen = true }

func (ctx *Context) mustBeOpen() {
	if ctx.frozen {
		panic("trace: assignment on a frozen context")
	}
}

// LoadWitness appends value to the trace and returns a handle to the new
// cell. No constraint is emitted; the cell is merely reserved.
func (ctx *Context) LoadWitness(v constraint.Element) AssignedValue {
	ctx.mustBeOpen()
	cell := Cell{Context: ctx.id, Offset: len(ctx.advice)}
	ctx.advice = append(ctx.advice, v)
	return AssignedValue{Val: v, Cell: cell}
}

// AssignWitnesses loads a batch of witnesses in assignment order.
func (ctx *Context) AssignWitnesses(vs ...constraint.Element) []AssignedValue {
	out := make([]AssignedValue, len(vs))
	for i, v := range vs {
		out[i] = ctx.LoadWitness(v)
	}
	return out
}

// LoadConstant assigns value and constrains the cell to that fixed value.
func (ctx *Context) LoadConstant(v constraint.Element) AssignedValue {
	a := ctx.LoadWitness(v)
	ctx.constants = append(ctx.constants, ConstantConstraint{Cell: a.Cell, Val: v})
	return a
}

// ConstrainEqual emits an equality constraint between two handles. If the
// witness values already differ this is a logic bug in the caller; the
// circuit becomes unsatisfiable and the mock checker reports it.
func (ctx *Context) ConstrainEqual(a, b AssignedValue) {
	ctx.mustBeOpen()
	ctx.copies = append(ctx.copies, [2]Cell{a.Cell, b.Cell})
}

// ConstrainConstant fixes an already assigned cell to a constant value.
func (ctx *Context) ConstrainConstant(a AssignedValue, v constraint.Element) {
	ctx.mustBeOpen()
	ctx.constants = append(ctx.constants, ConstantConstraint{Cell: a.Cell, Val: v})
}

// Lookup asserts that the cell's value is a member of the range table,
// i.e. lies in [0, 2^lookupBits).
func (ctx *Context) Lookup(a AssignedValue) {
	ctx.mustBeOpen()
	if ctx.lookupBits == 0 {
		panic("trace: lookup on a context built without a lookup table")
	}
	ctx.lookups = append(ctx.lookups, a.Cell)
}

// AssignRegion assigns a contiguous run of cells and activates the vertical
// gate at the given offsets relative to the start of the region. Existing
// cells emit a copy constraint back to their source; Constant cells emit a
// fixed-value constraint. It returns the assigned values in region order.
func (ctx *Context) AssignRegion(cells []QuantumCell, gateOffsets ...int) []AssignedValue {
	ctx.mustBeOpen()
	start := len(ctx.advice)
	out := make([]AssignedValue, len(cells))
	for i, q := range cells {
		cell := Cell{Context: ctx.id, Offset: start + i}
		ctx.advice = append(ctx.advice, q.val)
		switch q.kind {
		case kindExisting:
			ctx.copies = append(ctx.copies, [2]Cell{q.cell, cell})
		case kindConstant:
			ctx.constants = append(ctx.constants, ConstantConstraint{Cell: cell, Val: q.val})
		}
		out[i] = AssignedValue{Val: q.val, Cell: cell}
	}
	for _, off := range gateOffsets {
		if off < 0 || start+off+3 >= start+len(cells) {
			panic(fmt.Sprintf("trace: gate at offset %d overflows region of %d cells", off, len(cells)))
		}
		ctx.selectors = append(ctx.selectors, start+off)
	}
	return out
}

// AssignRegionLast is AssignRegion returning only the last assigned cell,
// which is the output slot of most single-gate regions.
func (ctx *Context) AssignRegionLast(cells []QuantumCell, gateOffsets ...int) AssignedValue {
	out := ctx.AssignRegion(cells, gateOffsets...)
	return out[len(out)-1]
}
