package trace

import (
	"testing"

	"github.com/consensys/gnark/constraint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func el(v uint64) constraint.Element {
	// tests only need distinguishable values, not field arithmetic
	return constraint.Element{v}
}

func TestLoadWitnessAppendsCells(t *testing.T) {
	ctx := NewContext(0, 0)
	a := ctx.LoadWitness(el(7))
	b := ctx.LoadWitness(el(8))
	assert.Equal(t, Cell{Context: 0, Offset: 0}, a.Cell)
	assert.Equal(t, Cell{Context: 0, Offset: 1}, b.Cell)
	assert.Equal(t, 2, ctx.Rows())
	assert.Equal(t, el(7), ctx.Advice()[0])
}

func TestAssignRegionKinds(t *testing.T) {
	ctx := NewContext(0, 0)
	x := ctx.LoadWitness(el(3))

	out := ctx.AssignRegion([]QuantumCell{
		Constant(el(5)), Existing(x), Witness(el(9)), Witness(el(32)),
	}, 0)
	require.Len(t, out, 4)

	// Existing adds a copy constraint back to its source cell
	require.Len(t, ctx.Copies(), 1)
	assert.Equal(t, x.Cell, ctx.Copies()[0][0])
	assert.Equal(t, out[1].Cell, ctx.Copies()[0][1])

	// Constant pins the new cell
	require.Len(t, ctx.Constants(), 1)
	assert.Equal(t, out[0].Cell, ctx.Constants()[0].Cell)
	assert.Equal(t, el(5), ctx.Constants()[0].Val)

	// the gate offset refers to rows inside the region
	require.Len(t, ctx.Selectors(), 1)
	assert.Equal(t, x.Cell.Offset+1, ctx.Selectors()[0])
}

func TestAssignRegionGateOffsetBounds(t *testing.T) {
	ctx := NewContext(0, 0)
	cells := []QuantumCell{Witness(el(1)), Witness(el(2))}
	assert.Panics(t, func() { ctx.AssignRegion(cells, 5) })
	assert.Panics(t, func() { ctx.AssignRegion(cells, -1) })
}

func TestFrozenContextRejectsAssignment(t *testing.T) {
	ctx := NewContext(0, 0)
	ctx.LoadWitness(el(1))
	ctx.Freeze()
	assert.Panics(t, func() { ctx.LoadWitness(el(2)) })
	assert.Panics(t, func() { ctx.AssignRegion([]QuantumCell{Witness(el(3))}) })
}

func TestLookupRequiresTable(t *testing.T) {
	ctx := NewContext(0, 0)
	a := ctx.LoadWitness(el(1))
	assert.Panics(t, func() { ctx.Lookup(a) })

	withTable := NewContext(0, 8)
	b := withTable.LoadWitness(el(1))
	withTable.Lookup(b)
	assert.Len(t, withTable.Lookups(), 1)
}

func TestQuantumCellAssigned(t *testing.T) {
	ctx := NewContext(0, 0)
	x := ctx.LoadWitness(el(4))

	got, ok := Existing(x).Assigned()
	require.True(t, ok)
	assert.Equal(t, x, got)

	_, ok = Witness(el(4)).Assigned()
	assert.False(t, ok)
	_, ok = Constant(el(4)).Assigned()
	assert.False(t, ok)
}
