package gates

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/plonkish-zk/scaffold/field"
	"github.com/plonkish-zk/scaffold/trace"
)

// RangeChip proves magnitude bounds by decomposing values into limbs of
// LookupBits bits each and sending every limb to the lookup table. All
// comparisons reduce to range checks.
type RangeChip struct {
	*GateChip

	LookupBits int
}

func NewRangeChip(f field.Field, lookupBits int) *RangeChip {
	if lookupBits <= 0 {
		panic("gates: range chip requires positive lookup bits")
	}
	return &RangeChip{GateChip: NewGateChip(f), LookupBits: lookupBits}
}

// RangeCheck constrains a < 2^bits. The value is split into
// ceil(bits/LookupBits) limbs, each limb is looked up, the recombination is
// constrained equal to a, and when bits is not a multiple of LookupBits the
// top limb is additionally checked shifted into the full lookup width.
func (r *RangeChip) RangeCheck(ctx *trace.Context, a trace.AssignedValue, bits int) {
	if bits <= 0 {
		panic("gates: range check on non-positive width")
	}
	k := (bits + r.LookupBits - 1) / r.LookupBits
	rem := bits - (k-1)*r.LookupBits

	bi := r.F.ToBigInt(a.Val)
	limbs := make([]trace.AssignedValue, k)
	for i := 0; i < k; i++ {
		var lv uint64
		for j := 0; j < r.LookupBits; j++ {
			lv |= uint64(bi.Bit(i*r.LookupBits+j)) << uint(j)
		}
		limbs[i] = ctx.LoadWitness(r.F.FromInterface(lv))
		ctx.Lookup(limbs[i])
	}

	qs := make([]trace.QuantumCell, k)
	ps := make([]trace.QuantumCell, k)
	for i := 0; i < k; i++ {
		qs[i] = trace.Existing(limbs[i])
		ps[i] = trace.Constant(r.pow2[i*r.LookupBits])
	}
	recombined := r.InnerProduct(ctx, qs, ps)
	ctx.ConstrainEqual(recombined, a)

	if rem != r.LookupBits {
		// limb_top * 2^(LookupBits-rem) must still fit the table, which
		// pins limb_top below 2^rem.
		shifted := r.Mul(ctx, trace.Existing(limbs[k-1]), trace.Constant(r.pow2[r.LookupBits-rem]))
		ctx.Lookup(shifted)
	}
}

// CheckLessThan constrains a < b, both already known to fit in bits bits.
// It range checks the shifted difference a + 2^bits - b; the check passes
// iff the subtraction did not borrow, i.e. a < b.
func (r *RangeChip) CheckLessThan(ctx *trace.Context, a, b trace.QuantumCell, bits int) {
	shifted := r.Add(ctx, a, trace.Constant(r.pow2[bits]))
	diff := r.Sub(ctx, trace.Existing(shifted), b)
	r.RangeCheck(ctx, diff, bits)
}

// IsLessThan returns 1 if a < b and 0 otherwise, for a, b < 2^bits. The
// borrow bit of a + 2^bits - b is extracted by decomposition.
func (r *RangeChip) IsLessThan(ctx *trace.Context, a, b trace.QuantumCell, bits int) trace.BoolValue {
	shifted := r.Add(ctx, a, trace.Constant(r.pow2[bits]))
	diff := r.Sub(ctx, trace.Existing(shifted), b)
	dbits := r.NumToBits(ctx, diff, bits+1)
	return r.Not(ctx, dbits[bits])
}

// DivMod returns (a / b, a mod b) for a nonzero constant divisor b, with
// a < 2^aBits. It witnesses quotient and remainder, constrains
// quo*b + rem = a, rem < b, and quo < 2^aBits so the identity cannot wrap
// the field.
func (r *RangeChip) DivMod(ctx *trace.Context, a trace.QuantumCell, b uint64, aBits int) (trace.AssignedValue, trace.AssignedValue, error) {
	if b == 0 {
		return trace.AssignedValue{}, trace.AssignedValue{}, fmt.Errorf("gates: division by zero constant")
	}
	ai := r.F.ToBigInt(a.Value())
	if ai.BitLen() > aBits {
		return trace.AssignedValue{}, trace.AssignedValue{}, fmt.Errorf("gates: dividend %s exceeds %d bits", ai, aBits)
	}
	var quo, rem big.Int
	quo.DivMod(ai, new(big.Int).SetUint64(b), &rem)

	qv := ctx.LoadWitness(r.F.FromInterface(&quo))
	rv := ctx.LoadWitness(r.F.FromInterface(&rem))

	recomposed := r.MulAdd(ctx, trace.Existing(qv), trace.Constant(r.F.FromInterface(b)), trace.Existing(rv))
	av := r.assigned(ctx, a)
	ctx.ConstrainEqual(recomposed, av)

	r.RangeCheck(ctx, qv, aBits)
	bBits := bits.Len64(b)
	r.RangeCheck(ctx, rv, bBits)
	r.CheckLessThan(ctx, trace.Existing(rv), trace.Constant(r.F.FromInterface(b)), bBits)
	return qv, rv, nil
}
