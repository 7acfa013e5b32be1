package poseidon

import (
	"github.com/consensys/gnark/constraint"

	"github.com/plonkish-zk/scaffold/field"
)

// Permute applies the Poseidon permutation to a state of NumStates elements
// in place. Rounds are ARK, S-box, MDS; partial rounds apply the S-box to
// state[0] only.
func Permute(f field.Field, p *Params, state []constraint.Element) {
	if len(state) != p.NumStates {
		panic("poseidon: bad state width")
	}
	round := 0
	for i := 0; i < p.NumHalfFullRounds; i++ {
		fullRound(f, p, state, round)
		round++
	}
	for i := 0; i < p.NumPartialRounds; i++ {
		partialRound(f, p, state, round)
		round++
	}
	for i := 0; i < p.NumHalfFullRounds; i++ {
		fullRound(f, p, state, round)
		round++
	}
}

func fullRound(f field.Field, p *Params, state []constraint.Element, round int) {
	for j := range state {
		state[j] = f.Add(state[j], p.RoundConstants[round][j])
		state[j] = sBox(f, state[j])
	}
	applyMds(f, p, state)
}

func partialRound(f field.Field, p *Params, state []constraint.Element, round int) {
	for j := range state {
		state[j] = f.Add(state[j], p.RoundConstants[round][j])
	}
	state[0] = sBox(f, state[0])
	applyMds(f, p, state)
}

// x^5
func sBox(f field.Field, x constraint.Element) constraint.Element {
	x2 := f.Mul(x, x)
	x4 := f.Mul(x2, x2)
	return f.Mul(x4, x)
}

func applyMds(f field.Field, p *Params, state []constraint.Element) {
	out := make([]constraint.Element, len(state))
	for i := range out {
		var acc constraint.Element
		for j := range state {
			acc = f.Add(acc, f.Mul(p.MdsMatrix[i][j], state[j]))
		}
		out[i] = acc
	}
	copy(state, out)
}

// Hasher is a native rate-2 sponge. Absorbed elements are added into the
// rate portion of the state, with a permutation every Rate elements and a
// final permutation before squeezing.
type Hasher struct {
	f      field.Field
	params *Params
	state  []constraint.Element
	// absorbed elements not yet permuted, < Rate
	pending int
}

func NewHasher(f field.Field, p *Params) *Hasher {
	return &Hasher{f: f, params: p, state: make([]constraint.Element, p.NumStates)}
}

func (h *Hasher) Update(vs ...constraint.Element) {
	for _, v := range vs {
		h.state[h.pending+1] = h.f.Add(h.state[h.pending+1], v)
		h.pending++
		if h.pending == h.params.Rate {
			Permute(h.f, h.params, h.state)
			h.pending = 0
		}
	}
}

// Squeeze pads the pending input and returns the first state element. The
// hasher is reset afterwards.
func (h *Hasher) Squeeze() constraint.Element {
	// domain separation between full and partial final blocks
	h.state[h.pending+1] = h.f.Add(h.state[h.pending+1], h.f.One())
	Permute(h.f, h.params, h.state)
	out := h.state[0]
	h.state = make([]constraint.Element, h.params.NumStates)
	h.pending = 0
	return out
}

// Hash2 is the two-to-one compression used for Merkle tree nodes.
func Hash2(f field.Field, p *Params, a, b constraint.Element) constraint.Element {
	h := NewHasher(f, p)
	h.Update(a, b)
	return h.Squeeze()
}
