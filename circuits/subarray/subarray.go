// Package subarray extracts array[start:end] shifted to the front, zero
// padded to the full array length. The shift is a barrel shifter driven by
// the bits of start; the cut is a comparison mask against end - start.
package subarray

import (
	"fmt"

	"github.com/plonkish-zk/scaffold/builder"
	"github.com/plonkish-zk/scaffold/gates"
	"github.com/plonkish-zk/scaffold/scaffold"
	"github.com/plonkish-zk/scaffold/trace"
)

const (
	// fixed array length
	Size = 16
	// bits needed to index the array
	IndexBits = 4
)

type Input struct {
	Array []scaffold.Element `json:"array"`
	Start scaffold.Element   `json:"start"`
	End   scaffold.Element   `json:"end"`
}

func Circuit(b *builder.Builder, input Input) error {
	if len(input.Array) != Size {
		return fmt.Errorf("subarray: want %d elements, got %d", Size, len(input.Array))
	}
	f := b.F
	ctx := b.Main(0)
	rng := gates.NewRangeChip(f, b.Config().LookupBits)

	values := make([]trace.AssignedValue, Size)
	for i, e := range input.Array {
		v, err := e.Parse(f)
		if err != nil {
			return err
		}
		values[i] = ctx.LoadWitness(v)
		b.MakePublic(values[i])
	}
	startV, err := input.Start.Parse(f)
	if err != nil {
		return err
	}
	endV, err := input.End.Parse(f)
	if err != nil {
		return err
	}
	start := ctx.LoadWitness(startV)
	end := ctx.LoadWitness(endV)
	b.MakePublic(start)
	b.MakePublic(end)

	// start <= end <= Size keeps end - start from wrapping
	rng.RangeCheck(ctx, start, IndexBits)
	rng.RangeCheck(ctx, end, IndexBits+1)
	rng.CheckLessThan(ctx, trace.Existing(end), trace.Constant(f.FromInterface(Size+1)), IndexBits+1)
	rng.CheckLessThan(ctx, trace.Existing(start), trace.Constant(f.FromInterface(Size+1)), IndexBits+1)

	startBits := rng.NumToBits(ctx, start, IndexBits)
	subLen := rng.Sub(ctx, trace.Existing(end), trace.Existing(start))
	rng.RangeCheck(ctx, subLen, IndexBits+1)

	// barrel shift left by start, rotating, one bit per stage
	current := values
	for i := 0; i < IndexBits; i++ {
		shift := 1 << uint(i)
		next := make([]trace.AssignedValue, Size)
		for idx := range current {
			rotated := current[(idx+shift)%Size]
			next[idx] = rng.Select(ctx, trace.Existing(rotated), trace.Existing(current[idx]), startBits[i])
		}
		current = next
	}

	// zero everything at or past subLen
	for i := 0; i < Size; i++ {
		keep := rng.IsLessThan(ctx, trace.Constant(f.FromInterface(i)), trace.Existing(subLen), IndexBits+1)
		out := rng.Mul(ctx, trace.ExistingBool(keep), trace.Existing(current[i]))
		b.MakePublic(out)
	}
	return nil
}
