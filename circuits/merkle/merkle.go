// Package merkle verifies a Poseidon Merkle inclusion proof: a leaf is
// hashed up the tree against the supplied siblings, taking the left or
// right slot at each level as the path bit says, and the result is
// constrained equal to the public root.
package merkle

import (
	"fmt"

	"github.com/consensys/gnark/constraint"

	"github.com/plonkish-zk/scaffold/builder"
	"github.com/plonkish-zk/scaffold/field"
	"github.com/plonkish-zk/scaffold/gates"
	"github.com/plonkish-zk/scaffold/poseidon"
	"github.com/plonkish-zk/scaffold/scaffold"
	"github.com/plonkish-zk/scaffold/trace"
)

type Input struct {
	Leaf scaffold.Element `json:"leaf"`
	// PathBits[i] is 0 when the current node is the left child at level i
	PathBits []scaffold.Element `json:"path_bits"`
	Siblings []scaffold.Element `json:"siblings"`
	Root     scaffold.Element   `json:"root"`
}

func Circuit(b *builder.Builder, input Input) error {
	if len(input.PathBits) != len(input.Siblings) {
		return fmt.Errorf("merkle: %d path bits for %d siblings", len(input.PathBits), len(input.Siblings))
	}
	f := b.F
	ctx := b.Main(0)
	gate := gates.NewGateChip(f)
	params := poseidon.NewParams(f)

	leafV, err := input.Leaf.Parse(f)
	if err != nil {
		return err
	}
	rootV, err := input.Root.Parse(f)
	if err != nil {
		return err
	}
	cur := ctx.LoadWitness(leafV)
	b.MakePublic(cur)

	// one working pair per level, a fresh sponge each time
	for i := range input.Siblings {
		sibV, err := input.Siblings[i].Parse(f)
		if err != nil {
			return err
		}
		bitV, err := input.PathBits[i].Parse(f)
		if err != nil {
			return err
		}
		sib := ctx.LoadWitness(sibV)
		bit := gate.AssertBit(ctx, trace.Witness(bitV))

		left := gate.Select(ctx, trace.Existing(sib), trace.Existing(cur), bit)
		right := gate.Select(ctx, trace.Existing(cur), trace.Existing(sib), bit)
		chip := poseidon.NewChip(ctx, gate, params)
		cur = chip.Hash2(left, right)
	}

	root := ctx.LoadWitness(rootV)
	ctx.ConstrainEqual(cur, root)
	b.MakePublic(root)
	return nil
}

// ComputeRoot builds the root natively from a full leaf layer, returning
// the root plus the sibling path and path bits for the given leaf index.
// Tests and input generation use it; nothing here records constraints.
func ComputeRoot(f field.Field, leaves []constraint.Element, index int) (root constraint.Element, siblings []constraint.Element, bits []int) {
	params := poseidon.NewParams(f)
	level := append([]constraint.Element(nil), leaves...)
	for len(level) > 1 {
		siblings = append(siblings, level[index^1])
		bits = append(bits, index&1)
		next := make([]constraint.Element, len(level)/2)
		for j := range next {
			next[j] = poseidon.Hash2(f, params, level[2*j], level[2*j+1])
		}
		level = next
		index /= 2
	}
	return level[0], siblings, bits
}
