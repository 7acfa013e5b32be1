package builder

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/std/hash/mimc"
	"github.com/consensys/gnark/std/rangecheck"

	"github.com/plonkish-zk/scaffold/trace"
)

// lowerPlan is the sealed trace flattened to a single advice vector. Cell
// addresses become indices into that vector; the plan is what the replay
// circuit walks when re-emitting constraints inside gnark.
type lowerPlan struct {
	numAdvice  int
	lookupBits int

	gates     [][4]int
	copies    [][2]int
	constants []struct {
		idx int
		val *big.Int
	}
	lookups []int
	publics []int

	// challenge binding: advice[:phase0Rows] hashes to advice[challengeIdx]
	phase0Rows   int
	challengeIdx int
}

// plan flattens the builder's contexts: phase 0 advice first, then phase 1.
func (b *Builder) plan() (*lowerPlan, error) {
	if err := b.Seal(); err != nil {
		return nil, err
	}
	starts := make([]int, len(b.phases))
	total := 0
	for i, ctx := range b.phases {
		starts[i] = total
		total += ctx.Rows()
	}
	flat := func(c trace.Cell) int { return starts[c.Context] + c.Offset }

	p := &lowerPlan{
		numAdvice:    total,
		lookupBits:   b.cfg.LookupBits,
		challengeIdx: -1,
	}
	for _, ctx := range b.phases {
		base := starts[ctx.ID()]
		for _, q := range ctx.Selectors() {
			p.gates = append(p.gates, [4]int{base + q, base + q + 1, base + q + 2, base + q + 3})
		}
		for _, cp := range ctx.Copies() {
			p.copies = append(p.copies, [2]int{flat(cp[0]), flat(cp[1])})
		}
		for _, cc := range ctx.Constants() {
			p.constants = append(p.constants, struct {
				idx int
				val *big.Int
			}{flat(cc.Cell), b.F.ToBigInt(cc.Val)})
		}
		for _, lc := range ctx.Lookups() {
			p.lookups = append(p.lookups, flat(lc))
		}
	}
	for _, pub := range b.publics {
		p.publics = append(p.publics, flat(pub.Cell))
	}
	if ch, _, ok := b.Challenge(); ok {
		p.phase0Rows = b.phases[0].Rows()
		p.challengeIdx = flat(ch.Cell)
	}
	return p, nil
}

// replayCircuit re-emits the recorded constraints over a flat secret advice
// vector and the public instance vector. Its shape depends only on the
// trace structure, never on witness values, so keygen and prover runs of
// the same circuit compile to the same constraint system.
type replayCircuit struct {
	Advice   []frontend.Variable
	Instance []frontend.Variable `gnark:",public"`

	plan *lowerPlan
}

func (c *replayCircuit) Define(api frontend.API) error {
	p := c.plan
	for _, g := range p.gates {
		// vertical gate: a + b*c = d
		lhs := api.Add(c.Advice[g[0]], api.Mul(c.Advice[g[1]], c.Advice[g[2]]))
		api.AssertIsEqual(lhs, c.Advice[g[3]])
	}
	for _, cp := range p.copies {
		api.AssertIsEqual(c.Advice[cp[0]], c.Advice[cp[1]])
	}
	for _, cc := range p.constants {
		api.AssertIsEqual(c.Advice[cc.idx], cc.val)
	}
	if len(p.lookups) > 0 {
		rc := rangecheck.New(api)
		for _, idx := range p.lookups {
			rc.Check(c.Advice[idx], p.lookupBits)
		}
	}
	for i, idx := range p.publics {
		api.AssertIsEqual(c.Advice[idx], c.Instance[i])
	}
	if p.challengeIdx >= 0 {
		h, err := mimc.NewMiMC(api)
		if err != nil {
			return err
		}
		h.Write(c.Advice[:p.phase0Rows]...)
		api.AssertIsEqual(h.Sum(), c.Advice[p.challengeIdx])
	}
	return nil
}

// Compile lowers the sealed trace to a PLONK constraint system over BN254.
func (b *Builder) Compile() (constraint.ConstraintSystem, error) {
	p, err := b.plan()
	if err != nil {
		return nil, err
	}
	shape := &replayCircuit{
		Advice:   make([]frontend.Variable, p.numAdvice),
		Instance: make([]frontend.Variable, len(p.publics)),
		plan:     p,
	}
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), scs.NewBuilder, shape)
	if err != nil {
		return nil, fmt.Errorf("builder: lower to plonk: %w", err)
	}
	return ccs, nil
}

// Assignment returns the full witness for the sealed trace: advice values
// in flat order plus the public instance values.
func (b *Builder) Assignment() (frontend.Circuit, error) {
	p, err := b.plan()
	if err != nil {
		return nil, err
	}
	advice := make([]frontend.Variable, 0, p.numAdvice)
	for _, ctx := range b.phases {
		for _, v := range ctx.Advice() {
			advice = append(advice, b.F.ToBigInt(v))
		}
	}
	instance := make([]frontend.Variable, len(b.publics))
	for i, pub := range b.publics {
		instance[i] = b.F.ToBigInt(pub.Val)
	}
	return &replayCircuit{Advice: advice, Instance: instance, plan: p}, nil
}
