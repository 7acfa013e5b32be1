// Package intdiv constrains integer division by 32 of a 16-bit input. The
// sound circuit witnesses quotient and remainder with full range checks.
// The package also keeps an intentionally broken variant, CircuitUnsound,
// that "divides" with a modular inverse; its tests demonstrate the exploit
// rather than correctness. Do not copy the unsound variant anywhere.
package intdiv

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
	rng := gates.NewRangeChip(b.F, b.Config().LookupBits)

	x := ctx.LoadWitness(xv)
	b.MakePublic(x)

	rng.RangeCheck(ctx, x, 16)
	quot, _, err := rng.DivMod(ctx, trace.Existing(x), 32, 16)
	if err != nil {
		return err
	}
	b.MakePublic(quot)
	return nil
}

// CircuitUnsound computes quot = x * 32⁻¹ and rem = 0, then checks
// quot*32 + rem = x. The check holds in the field for every x, so a prover
// can claim any multiple-of-32 decomposition it likes: quot is not the
// integer quotient unless 32 divides x.
func CircuitUnsound(b *builder.Builder, input Input) error {
	xv, err := input.X.Parse(b.F)
	if err != nil {
		return err
	}
	ctx := b.Main(0)
	rng := gates.NewRangeChip(b.F, b.Config().LookupBits)
	f := b.F

	x := ctx.LoadWitness(xv)
	b.MakePublic(x)

	inv32, _ := f.Inverse(f.FromInterface(32))
	quot := ctx.LoadWitness(f.Mul(xv, inv32))
	rem := ctx.LoadWitness(f.FromInterface(0))

	// the missing quot range check is the hole
	rng.CheckLessThan(ctx, trace.Existing(rem), trace.Constant(f.FromInterface(32)), 6)

	xCheck := rng.MulAdd(ctx, trace.Existing(quot), trace.Constant(f.FromInterface(32)), trace.Existing(rem))
	ctx.ConstrainEqual(x, xCheck)

	b.MakePublic(quot)
	return nil
}
