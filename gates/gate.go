// Package gates provides the primitive constrained operations every circuit
// is built from. Each operation computes the output witness natively and, in
// the same call, records the vertical gate rows that prove the relation, so
// a recorded trace is satisfiable exactly when every witness was computed
// honestly.
package gates

import (
	"github.com/consensys/gnark/constraint"

	"github.com/plonkish-zk/scaffold/field"
	"github.com/plonkish-zk/scaffold/trace"
)

// GateChip is a stateless library of arithmetic primitives over the vertical
// gate a + b*c = d. It carries only the field engine and a precomputed table
// of powers of two.
type GateChip struct {
	F field.Field

	zero constraint.Element
	one  constraint.Element
	pow2 []constraint.Element
}

func NewGateChip(f field.Field) *GateChip {
	n := f.FieldBitLen() + 1
	pow2 := make([]constraint.Element, n)
	pow2[0] = f.One()
	two := f.FromInterface(2)
	for i := 1; i < n; i++ {
		pow2[i] = f.Mul(pow2[i-1], two)
	}
	return &GateChip{
		F:    f,
		zero: constraint.Element{},
		one:  f.One(),
		pow2: pow2,
	}
}

// Pow2 returns 2^i as a field element.
func (g *GateChip) Pow2(i int) constraint.Element { return g.pow2[i] }

// assigned materializes a QuantumCell into an AssignedValue, so that an
// input referenced more than once inside a region is tied to one cell.
func (g *GateChip) assigned(ctx *trace.Context, q trace.QuantumCell) trace.AssignedValue {
	if a, ok := q.Assigned(); ok {
		return a
	}
	return ctx.LoadWitness(q.Value())
}

// Add returns a + b. Constraint: a + b*1 - out = 0.
func (g *GateChip) Add(ctx *trace.Context, a, b trace.QuantumCell) trace.AssignedValue {
	sum := g.F.Add(a.Value(), b.Value())
	return ctx.AssignRegionLast([]trace.QuantumCell{a, b, trace.Constant(g.one), trace.Witness(sum)}, 0)
}

// Sub returns a - b, via out + b*1 = a.
func (g *GateChip) Sub(ctx *trace.Context, a, b trace.QuantumCell) trace.AssignedValue {
	diff := g.F.Sub(a.Value(), b.Value())
	out := ctx.AssignRegion([]trace.QuantumCell{trace.Witness(diff), b, trace.Constant(g.one), a}, 0)
	return out[0]
}

// Neg returns -a, via out + a*1 = 0.
func (g *GateChip) Neg(ctx *trace.Context, a trace.QuantumCell) trace.AssignedValue {
	v := g.F.Neg(a.Value())
	out := ctx.AssignRegion([]trace.QuantumCell{trace.Witness(v), a, trace.Constant(g.one), trace.Constant(g.zero)}, 0)
	return out[0]
}

// Mul returns a * b. Constraint: 0 + a*b - out = 0.
func (g *GateChip) Mul(ctx *trace.Context, a, b trace.QuantumCell) trace.AssignedValue {
	prod := g.F.Mul(a.Value(), b.Value())
	return ctx.AssignRegionLast([]trace.QuantumCell{trace.Constant(g.zero), a, b, trace.Witness(prod)}, 0)
}

// MulAdd returns a*b + c in a single row.
func (g *GateChip) MulAdd(ctx *trace.Context, a, b, c trace.QuantumCell) trace.AssignedValue {
	v := g.F.Add(g.F.Mul(a.Value(), b.Value()), c.Value())
	return ctx.AssignRegionLast([]trace.QuantumCell{c, a, b, trace.Witness(v)}, 0)
}

// AssertBit constrains a to be 0 or 1 via a*a = a and returns the
// boolean-typed handle.
func (g *GateChip) AssertBit(ctx *trace.Context, a trace.QuantumCell) trace.BoolValue {
	av := g.assigned(ctx, a)
	e := trace.Existing(av)
	out := ctx.AssignRegionLast([]trace.QuantumCell{trace.Constant(g.zero), e, e, e}, 0)
	return trace.BoolValue{AssignedValue: out}
}

// LoadBit assigns v (which must be 0 or 1) and bit-constrains it.
func (g *GateChip) LoadBit(ctx *trace.Context, v constraint.Element) trace.BoolValue {
	return g.AssertBit(ctx, trace.Witness(v))
}

// And returns a AND b for boolean-constrained inputs.
func (g *GateChip) And(ctx *trace.Context, a, b trace.BoolValue) trace.BoolValue {
	return trace.BoolValue{AssignedValue: g.Mul(ctx, trace.ExistingBool(a), trace.ExistingBool(b))}
}

// Not returns 1 - a.
func (g *GateChip) Not(ctx *trace.Context, a trace.BoolValue) trace.BoolValue {
	return trace.BoolValue{AssignedValue: g.Sub(ctx, trace.Constant(g.one), trace.ExistingBool(a))}
}

// Or returns a + b - a*b.
func (g *GateChip) Or(ctx *trace.Context, a, b trace.BoolValue) trace.BoolValue {
	p := g.Mul(ctx, trace.ExistingBool(a), trace.ExistingBool(b))
	s := g.Add(ctx, trace.ExistingBool(a), trace.ExistingBool(b))
	return trace.BoolValue{AssignedValue: g.Sub(ctx, trace.Existing(s), trace.Existing(p))}
}

// Xor returns a + b - 2ab.
func (g *GateChip) Xor(ctx *trace.Context, a, b trace.BoolValue) trace.BoolValue {
	p := g.Mul(ctx, trace.ExistingBool(a), trace.ExistingBool(b))
	s := g.Add(ctx, trace.ExistingBool(a), trace.ExistingBool(b))
	minusTwo := g.F.Neg(g.F.FromInterface(2))
	out := g.MulAdd(ctx, trace.Existing(p), trace.Constant(minusTwo), trace.Existing(s))
	return trace.BoolValue{AssignedValue: out}
}

// IsZero returns 1 if a == 0 and 0 otherwise. It witnesses the inverse of a
// and emits both out + a*inv = 1 and a*out = 0; omitting the second check
// would let a malicious prover claim out = 1 for nonzero a.
func (g *GateChip) IsZero(ctx *trace.Context, a trace.QuantumCell) trace.BoolValue {
	av := g.assigned(ctx, a)
	var inv, outVal constraint.Element
	if av.Val.IsZero() {
		outVal = g.one
	} else {
		inv, _ = g.F.Inverse(av.Val)
	}
	out := ctx.AssignRegion([]trace.QuantumCell{
		trace.Witness(outVal), trace.Existing(av), trace.Witness(inv), trace.Constant(g.one),
	}, 0)[0]
	ctx.AssignRegion([]trace.QuantumCell{
		trace.Constant(g.zero), trace.Existing(av), trace.Existing(out), trace.Constant(g.zero),
	}, 0)
	return trace.BoolValue{AssignedValue: out}
}

// IsEqual returns 1 if a == b.
func (g *GateChip) IsEqual(ctx *trace.Context, a, b trace.QuantumCell) trace.BoolValue {
	return g.IsZero(ctx, trace.Existing(g.Sub(ctx, a, b)))
}

// Select returns a when cond = 1 and b when cond = 0, via
// cond*(a-b) + b - out = 0. The BoolValue input carries the boolean
// constraint the gate needs to be sound.
func (g *GateChip) Select(ctx *trace.Context, a, b trace.QuantumCell, cond trace.BoolValue) trace.AssignedValue {
	diff := g.Sub(ctx, a, b)
	return g.MulAdd(ctx, trace.Existing(diff), trace.ExistingBool(cond), b)
}

// Sum returns the sum of the given cells.
func (g *GateChip) Sum(ctx *trace.Context, vals []trace.QuantumCell) trace.AssignedValue {
	if len(vals) == 0 {
		return ctx.LoadConstant(g.zero)
	}
	acc := g.assigned(ctx, vals[0])
	for _, v := range vals[1:] {
		acc = g.Add(ctx, trace.Existing(acc), v)
	}
	return acc
}

// InnerProduct returns Σ a_i * b_i as a chain of mul-add rows.
func (g *GateChip) InnerProduct(ctx *trace.Context, a, b []trace.QuantumCell) trace.AssignedValue {
	if len(a) != len(b) {
		panic("gates: inner product length mismatch")
	}
	if len(a) == 0 {
		return ctx.LoadConstant(g.zero)
	}
	acc := g.Mul(ctx, a[0], b[0])
	for i := 1; i < len(a); i++ {
		acc = g.MulAdd(ctx, a[i], b[i], trace.Existing(acc))
	}
	return acc
}

// NumToBits decomposes a into n bits, little endian. Each bit is boolean
// constrained and the recombination Σ bit_i * 2^i is constrained equal to a.
// Unsatisfiable when a >= 2^n.
func (g *GateChip) NumToBits(ctx *trace.Context, a trace.AssignedValue, n int) []trace.BoolValue {
	bi := g.F.ToBigInt(a.Val)
	bits := make([]trace.BoolValue, n)
	for i := 0; i < n; i++ {
		var v constraint.Element
		if bi.Bit(i) == 1 {
			v = g.one
		}
		bits[i] = g.LoadBit(ctx, v)
	}
	recombined := g.BitsToNum(ctx, bits)
	ctx.ConstrainEqual(recombined, a)
	return bits
}

// BitsToNum recombines little-endian bits with powers-of-two coefficients.
func (g *GateChip) BitsToNum(ctx *trace.Context, bits []trace.BoolValue) trace.AssignedValue {
	return g.BitSlice(ctx, bits, 0, len(bits))
}

// BitSlice recombines bits[start:end] into Σ bits[start+i] * 2^i. This is
// how instruction words are decoded into their fields.
func (g *GateChip) BitSlice(ctx *trace.Context, bits []trace.BoolValue, start, end int) trace.AssignedValue {
	a := make([]trace.QuantumCell, end-start)
	b := make([]trace.QuantumCell, end-start)
	for i := range a {
		a[i] = trace.ExistingBool(bits[start+i])
		b[i] = trace.Constant(g.pow2[i])
	}
	return g.InnerProduct(ctx, a, b)
}

// SelectByIndicator returns Σ ind_i * vals_i. The caller is responsible for
// the indicator being one-hot; with an all-zero indicator the result is 0.
func (g *GateChip) SelectByIndicator(ctx *trace.Context, ind []trace.BoolValue, vals []trace.QuantumCell) trace.AssignedValue {
	iq := make([]trace.QuantumCell, len(ind))
	for i, b := range ind {
		iq[i] = trace.ExistingBool(b)
	}
	return g.InnerProduct(ctx, iq, vals)
}

// SelectFromIdx multiplexes over a fixed-size list with a dynamic index.
// Every entry participates in the constraint, so the cost grows linearly
// with the list; it is meant for small, bounded address spaces. An index
// outside the list yields 0.
func (g *GateChip) SelectFromIdx(ctx *trace.Context, vals []trace.QuantumCell, idx trace.AssignedValue) trace.AssignedValue {
	ind := make([]trace.BoolValue, len(vals))
	for i := range vals {
		ind[i] = g.IsEqual(ctx, trace.Existing(idx), trace.Constant(g.F.FromInterface(i)))
	}
	return g.SelectByIndicator(ctx, ind, vals)
}

// AssertIsConst fixes an assigned cell to a constant.
func (g *GateChip) AssertIsConst(ctx *trace.Context, a trace.AssignedValue, c constraint.Element) {
	ctx.ConstrainConstant(a, c)
}
