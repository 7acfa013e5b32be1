package poseidon

import (
	"github.com/plonkish-zk/scaffold/gates"
	"github.com/plonkish-zk/scaffold/trace"
)

// Chip constrains the same permutation Permute computes natively. Sponge
// semantics, padding included, mirror Hasher exactly; a native digest and a
// constrained digest of the same input are always equal.
type Chip struct {
	gate   *gates.GateChip
	params *Params
	ctx    *trace.Context
	state  []trace.AssignedValue
	// pending matches Hasher.pending
	pending int
}

func NewChip(ctx *trace.Context, gate *gates.GateChip, p *Params) *Chip {
	c := &Chip{gate: gate, params: p, ctx: ctx}
	c.reset()
	return c
}

func (c *Chip) reset() {
	var zero = c.gate.F.FromInterface(0)
	c.state = make([]trace.AssignedValue, c.params.NumStates)
	for i := range c.state {
		c.state[i] = c.ctx.LoadConstant(zero)
	}
	c.pending = 0
}

func (c *Chip) Update(vs ...trace.AssignedValue) {
	for _, v := range vs {
		slot := c.pending + 1
		c.state[slot] = c.gate.Add(c.ctx, trace.Existing(c.state[slot]), trace.Existing(v))
		c.pending++
		if c.pending == c.params.Rate {
			c.permute()
			c.pending = 0
		}
	}
}

func (c *Chip) Squeeze() trace.AssignedValue {
	slot := c.pending + 1
	c.state[slot] = c.gate.Add(c.ctx, trace.Existing(c.state[slot]), trace.Constant(c.gate.F.One()))
	c.permute()
	out := c.state[0]
	c.reset()
	return out
}

// Hash2 compresses two values into one, for Merkle paths.
func (c *Chip) Hash2(a, b trace.AssignedValue) trace.AssignedValue {
	c.Update(a, b)
	return c.Squeeze()
}

func (c *Chip) permute() {
	round := 0
	for i := 0; i < c.params.NumHalfFullRounds; i++ {
		c.fullRound(round)
		round++
	}
	for i := 0; i < c.params.NumPartialRounds; i++ {
		c.partialRound(round)
		round++
	}
	for i := 0; i < c.params.NumHalfFullRounds; i++ {
		c.fullRound(round)
		round++
	}
}

func (c *Chip) fullRound(round int) {
	for j := range c.state {
		t := c.gate.Add(c.ctx, trace.Existing(c.state[j]), trace.Constant(c.params.RoundConstants[round][j]))
		c.state[j] = c.sBox(t)
	}
	c.applyMds()
}

func (c *Chip) partialRound(round int) {
	for j := range c.state {
		c.state[j] = c.gate.Add(c.ctx, trace.Existing(c.state[j]), trace.Constant(c.params.RoundConstants[round][j]))
	}
	c.state[0] = c.sBox(c.state[0])
	c.applyMds()
}

func (c *Chip) sBox(x trace.AssignedValue) trace.AssignedValue {
	x2 := c.gate.Mul(c.ctx, trace.Existing(x), trace.Existing(x))
	x4 := c.gate.Mul(c.ctx, trace.Existing(x2), trace.Existing(x2))
	return c.gate.Mul(c.ctx, trace.Existing(x4), trace.Existing(x))
}

func (c *Chip) applyMds() {
	out := make([]trace.AssignedValue, len(c.state))
	for i := range out {
		a := make([]trace.QuantumCell, len(c.state))
		b := make([]trace.QuantumCell, len(c.state))
		for j := range c.state {
			a[j] = trace.Existing(c.state[j])
			b[j] = trace.Constant(c.params.MdsMatrix[i][j])
		}
		out[i] = c.gate.InnerProduct(c.ctx, a, b)
	}
	c.state = out
}
