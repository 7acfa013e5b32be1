// Package quadratic constrains x² + 72 with x and the result public. It is
// the smallest complete circuit in the repo and exists mostly as a template.
package quadratic

import (
	"github.com/plonkish-zk/scaffold/builder"
	"github.com/plonkish-zk/scaffold/gates"
	"github.com/plonkish-zk/scaffold/scaffold"
	"github.com/plonkish-zk/scaffold/trace"
)

type Input struct {
	X scaffold.Element `json:"x"`
}

func Circuit(b *builder.Builder, input Input) error {
	xv, err := input.X.Parse(b.F)
	if err != nil {
		return err
	}
	ctx := b.Main(0)
	gate := gates.NewGateChip(b.F)

	x := ctx.LoadWitness(xv)
	b.MakePublic(x)

	xSq := gate.Mul(ctx, trace.Existing(x), trace.Existing(x))
	out := gate.Add(ctx, trace.Existing(xSq), trace.Constant(b.F.FromInterface(72)))
	b.MakePublic(out)
	return nil
}

// CircuitRegion computes the same relation in a single gate row,
// 72 + x*x = out, through the raw region API.
func CircuitRegion(b *builder.Builder, input Input) error {
	xv, err := input.X.Parse(b.F)
	if err != nil {
		return err
	}
	ctx := b.Main(0)

	c := b.F.FromInterface(72)
	x := ctx.LoadWitness(xv)
	b.MakePublic(x)

	out := b.F.Add(b.F.Mul(xv, xv), c)
	res := ctx.AssignRegionLast([]trace.QuantumCell{
		trace.Constant(c), trace.Existing(x), trace.Existing(x), trace.Witness(out),
	}, 0)
	b.MakePublic(res)
	return nil
}
