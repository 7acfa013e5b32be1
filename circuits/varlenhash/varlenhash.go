// Package varlenhash demonstrates the two-phase hashing contract end to
// end: a fixed-length digest and a variable-length digest are claimed in
// phase 0 and both are proven in phase 1 under the derived challenge.
package varlenhash

import (
	"fmt"

	"github.com/plonkish-zk/scaffold/builder"
	"github.com/plonkish-zk/scaffold/gates"
	"github.com/plonkish-zk/scaffold/rlchash"
	"github.com/plonkish-zk/scaffold/scaffold"
	"github.com/plonkish-zk/scaffold/trace"
)

type Input struct {
	Values []scaffold.Element `json:"values"`
	// number of leading values the variable-length digest covers
	Len scaffold.Element `json:"len"`
}

func Circuit(b *builder.Builder, input Input) error {
	if len(input.Values) == 0 {
		return fmt.Errorf("varlenhash: empty input")
	}
	f := b.F
	ctx0 := b.Main(0)
	rng := gates.NewRangeChip(f, b.Config().LookupBits)
	hasher := rlchash.NewHasher(b, rng)

	values := make([]trace.AssignedValue, len(input.Values))
	for i, e := range input.Values {
		v, err := e.Parse(f)
		if err != nil {
			return err
		}
		values[i] = ctx0.LoadWitness(v)
	}
	lenV, err := input.Len.Parse(f)
	if err != nil {
		return err
	}
	length := ctx0.LoadWitness(lenV)

	// digests are usable right away, before the challenge exists
	fixed := hasher.Hash(ctx0, values)
	variable := hasher.HashVarLen(ctx0, values, length)
	b.MakePublic(fixed.Digest)
	b.MakePublic(variable.Digest)

	challenge := b.ChallengeCell()
	hasher.Finalize(b.Main(1), challenge)
	return nil
}
