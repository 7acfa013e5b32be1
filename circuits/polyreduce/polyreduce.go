// Package polyreduce reduces each coefficient of a degree-bounded
// polynomial modulo a small constant, outputting the reduced coefficients.
package polyreduce

import (
	"fmt"

	"github.com/plonkish-zk/scaffold/builder"
	"github.com/plonkish-zk/scaffold/gates"
	"github.com/plonkish-zk/scaffold/scaffold"
	"github.com/plonkish-zk/scaffold/trace"
)

const (
	// number of coefficients
	Degree = 4
	// reduction modulus
	Modulus = 11
	// coefficients must fit this width for DivMod to be exact
	CoeffBits = 16
)

type Input struct {
	Poly []scaffold.Element `json:"poly"`
}

func Circuit(b *builder.Builder, input Input) error {
	if len(input.Poly) != Degree {
		return fmt.Errorf("polyreduce: want %d coefficients, got %d", Degree, len(input.Poly))
	}
	ctx := b.Main(0)
	rng := gates.NewRangeChip(b.F, b.Config().LookupBits)

	for _, coeff := range input.Poly {
		cv, err := coeff.Parse(b.F)
		if err != nil {
			return err
		}
		c := ctx.LoadWitness(cv)
		rng.RangeCheck(ctx, c, CoeffBits)
		_, rem, err := rng.DivMod(ctx, trace.Existing(c), Modulus, CoeffBits)
		if err != nil {
			return err
		}
		b.MakePublic(rem)
	}
	return nil
}
