package builder

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark/constraint"

	"github.com/plonkish-zk/scaffold/field"
)

// deriveChallenge hashes the frozen phase-0 advice column with MiMC and
// returns the digest as a field element. The in-circuit MiMC gadget emitted
// at lowering enforces exactly this computation over the same cells, so a
// prover cannot pick phase-1 witnesses first and the challenge second.
//
// The digest is curve specific; the scaffold's proving backend is BN254.
// RecomputeChallenge re-derives the challenge from the recorded phase-0
// advice, for native verification of the binding.
func (b *Builder) RecomputeChallenge() (constraint.Element, bool) {
	if b.challenge == nil {
		return constraint.Element{}, false
	}
	return deriveChallenge(b.F, b.phases[0].Advice()), true
}

func deriveChallenge(f field.Field, advice []constraint.Element) constraint.Element {
	h := mimc.NewMiMC()
	buf := make([]byte, mimc.BlockSize)
	for _, a := range advice {
		bi := f.ToBigInt(a)
		bi.FillBytes(buf)
		// values are reduced field elements, Write cannot fail
		h.Write(buf)
	}
	return f.FromInterface(h.Sum(nil))
}
