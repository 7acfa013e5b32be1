// Package rlchash provides hashing whose results are usable immediately,
// in phase 0, while the constraints proving them correct are deferred to
// phase 1. Each call records a query and hands back the claimed digest; a
// later Finalize recomputes every digest under constraints and binds the
// claimed values to the computed ones through one randomized linear
// combination in the challenge. Skipping Finalize leaves the digests
// unconstrained, so every query is registered with the builder as an
// obligation and sealing with an unfinalized hasher fails.
package rlchash

import (
	"fmt"

	"github.com/consensys/gnark/constraint"

	"github.com/plonkish-zk/scaffold/builder"
	"github.com/plonkish-zk/scaffold/gates"
	"github.com/plonkish-zk/scaffold/poseidon"
	"github.com/plonkish-zk/scaffold/trace"
)

// Hasher accumulates hash queries during phase 0.
type Hasher struct {
	b      *builder.Builder
	rng    *gates.RangeChip
	params *poseidon.Params

	queries   []*query
	finalized bool
}

type query struct {
	inputs  []trace.AssignedValue
	length  *trace.AssignedValue // nil for fixed-length queries
	maxLen  int
	claimed trace.AssignedValue
}

// Phase0Result is the claimed digest of one query. It is also the
// obligation handle the builder tracks: the result counts as consumed only
// once the hasher that issued it has been finalized.
type Phase0Result struct {
	h     *Hasher
	index int
	// Digest is usable immediately; its correctness is proven in phase 1.
	Digest trace.AssignedValue
}

func (r *Phase0Result) Consumed() bool { return r.h.finalized }
func (r *Phase0Result) Describe() string {
	return fmt.Sprintf("rlchash: query %d hashed but never finalized", r.index)
}

func NewHasher(b *builder.Builder, rng *gates.RangeChip) *Hasher {
	return &Hasher{b: b, rng: rng, params: poseidon.NewParams(b.F)}
}

// Hash records a fixed-length query over the given cells and returns the
// claimed digest.
func (h *Hasher) Hash(ctx *trace.Context, inputs []trace.AssignedValue) *Phase0Result {
	return h.record(ctx, inputs, nil, len(inputs))
}

// HashVarLen records a query over inputs[0:length]. The digest equals the
// fixed-width digest of the padded vector inputs[0:length] || 1 || 0…0 of
// maxLen+1 elements, so the constraint count does not depend on length.
// Finalize range checks length <= len(inputs).
func (h *Hasher) HashVarLen(ctx *trace.Context, inputs []trace.AssignedValue, length trace.AssignedValue) *Phase0Result {
	return h.record(ctx, inputs, &length, len(inputs))
}

func (h *Hasher) record(ctx *trace.Context, inputs []trace.AssignedValue, length *trace.AssignedValue, maxLen int) *Phase0Result {
	if h.finalized {
		panic("rlchash: hash query after finalize")
	}
	digest := h.nativeDigest(inputs, length, maxLen)
	claimed := ctx.LoadWitness(digest)

	q := &query{inputs: inputs, length: length, maxLen: maxLen, claimed: claimed}
	h.queries = append(h.queries, q)

	r := &Phase0Result{h: h, index: len(h.queries) - 1, Digest: claimed}
	h.b.RegisterObligation(r)
	return r
}

func (h *Hasher) nativeDigest(inputs []trace.AssignedValue, length *trace.AssignedValue, maxLen int) constraint.Element {
	f := h.b.F
	padded := make([]constraint.Element, maxLen+1)
	n := maxLen
	if length != nil {
		u, ok := f.Uint64(length.Val)
		if !ok || u > uint64(maxLen) {
			panic(fmt.Sprintf("rlchash: length out of range for %d inputs", maxLen))
		}
		n = int(u)
	}
	for i := 0; i < n; i++ {
		padded[i] = inputs[i].Val
	}
	padded[n] = f.One()

	hs := poseidon.NewHasher(f, h.params)
	hs.Update(padded...)
	return hs.Squeeze()
}

// Finalize recomputes every recorded digest under constraints in the
// phase-1 context and binds claimed to computed values with the challenge:
//
//	Σ_q challenge^(q+1) * (claimed_q - computed_q) = 0
//
// With the challenge derived after every claimed digest was committed, a
// single dishonest digest makes the sum a nonzero polynomial evaluated at
// an unpredictable point.
func (h *Hasher) Finalize(ctx1 *trace.Context, challenge trace.AssignedValue) {
	if h.finalized {
		panic("rlchash: double finalize")
	}
	g := h.rng.GateChip
	f := h.b.F

	pow := challenge
	var acc trace.AssignedValue
	accSet := false
	for _, q := range h.queries {
		computed := h.constrainedDigest(ctx1, q)
		diff := g.Sub(ctx1, trace.Existing(q.claimed), trace.Existing(computed))
		term := g.Mul(ctx1, trace.Existing(pow), trace.Existing(diff))
		if !accSet {
			acc = term
			accSet = true
		} else {
			acc = g.Add(ctx1, trace.Existing(acc), trace.Existing(term))
		}
		pow = g.Mul(ctx1, trace.Existing(pow), trace.Existing(challenge))
	}
	if accSet {
		g.AssertIsConst(ctx1, acc, f.FromInterface(0))
	}
	h.finalized = true
}

// constrainedDigest rebuilds the padded vector under constraints and runs
// the sponge chip over it.
func (h *Hasher) constrainedDigest(ctx *trace.Context, q *query) trace.AssignedValue {
	g := h.rng.GateChip
	f := h.b.F

	padded := make([]trace.AssignedValue, q.maxLen+1)
	if q.length == nil {
		copy(padded, q.inputs)
		padded[q.maxLen] = ctx.LoadConstant(f.One())
	} else {
		// length <= maxLen, so the terminator index is in range
		lenBits := bitWidth(q.maxLen)
		h.rng.RangeCheck(ctx, *q.length, lenBits+1)
		h.rng.CheckLessThan(ctx, trace.Existing(*q.length), trace.Constant(f.FromInterface(q.maxLen+1)), lenBits+1)
		for i := range padded {
			iCell := trace.Constant(f.FromInterface(i))
			keep := h.rng.IsLessThan(ctx, iCell, trace.Existing(*q.length), lenBits+1)
			isEnd := g.IsEqual(ctx, iCell, trace.Existing(*q.length))
			var inCell trace.QuantumCell
			if i < len(q.inputs) {
				inCell = trace.Existing(q.inputs[i])
			} else {
				inCell = trace.Constant(constraint.Element{})
			}
			kept := g.Select(ctx, inCell, trace.Constant(constraint.Element{}), keep)
			padded[i] = g.Select(ctx, trace.Constant(f.One()), trace.Existing(kept), isEnd)
		}
	}

	chip := poseidon.NewChip(ctx, g, h.params)
	chip.Update(padded...)
	return chip.Squeeze()
}

func bitWidth(v int) int {
	n := 0
	for v > 0 {
		n++
		v >>= 1
	}
	if n == 0 {
		n = 1
	}
	return n
}
