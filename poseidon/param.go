// Package poseidon implements the Poseidon permutation over the scalar
// field, both natively and as in-trace constraints, with a rate-2 sponge on
// top. Native and constrained evaluation share one parameter set so the two
// always agree.
package poseidon

import (
	"math/rand"

	"github.com/consensys/gnark/constraint"

	"github.com/plonkish-zk/scaffold/field"
)

const (
	// width of the permutation state
	NumStates = 3
	// elements absorbed per permutation call
	Rate = 2

	numFullRounds    = 8
	numPartialRounds = 57
)

type Params struct {
	NumStates         int
	Rate              int
	NumFullRounds     int
	NumHalfFullRounds int
	NumPartialRounds  int
	// one row per round, NumStates constants each
	RoundConstants [][]constraint.Element
	// Cauchy matrix, guaranteed invertible
	MdsMatrix [][]constraint.Element
}

// TODO: replace the seeded generator with Grain-LFSR constant derivation
func NewParams(f field.Field) *Params {
	rng := rand.New(rand.NewSource(0x706f736569646f6e))

	totalRounds := numFullRounds + numPartialRounds
	rc := make([][]constraint.Element, totalRounds)
	for i := range rc {
		rc[i] = make([]constraint.Element, NumStates)
		for j := range rc[i] {
			rc[i][j] = randomElement(f, rng)
		}
	}

	// mds[i][j] = 1 / (x_i + y_j) with x_i = i, y_j = NumStates + j, so
	// every denominator is nonzero and distinct.
	mds := make([][]constraint.Element, NumStates)
	for i := range mds {
		mds[i] = make([]constraint.Element, NumStates)
		for j := range mds[i] {
			d := f.FromInterface(i + NumStates + j)
			inv, ok := f.Inverse(d)
			if !ok {
				panic("poseidon: singular mds denominator")
			}
			mds[i][j] = inv
		}
	}

	return &Params{
		NumStates:         NumStates,
		Rate:              Rate,
		NumFullRounds:     numFullRounds,
		NumHalfFullRounds: numFullRounds / 2,
		NumPartialRounds:  numPartialRounds,
		RoundConstants:    rc,
		MdsMatrix:         mds,
	}
}

func randomElement(f field.Field, rng *rand.Rand) constraint.Element {
	// four limbs cover the 254-bit modulus; FromInterface reduces
	b := make([]byte, 32)
	for i := range b {
		b[i] = byte(rng.Intn(256))
	}
	return f.FromInterface(b)
}
