package checker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plonkish-zk/scaffold/builder"
	"github.com/plonkish-zk/scaffold/checker"
	"github.com/plonkish-zk/scaffold/field/bn254"
	"github.com/plonkish-zk/scaffold/trace"
)

func TestCheckReportsEveryFailure(t *testing.T) {
	f := &bn254.Field{}
	b, err := builder.NewBuilder(f, builder.StageMock, builder.Config{Degree: 10, LookupBits: 8})
	require.NoError(t, err)
	ctx := b.Main(0)

	// broken gate: 1 + 2*3 != 9
	ctx.AssignRegion([]trace.QuantumCell{
		trace.Witness(f.FromInterface(1)), trace.Witness(f.FromInterface(2)),
		trace.Witness(f.FromInterface(3)), trace.Witness(f.FromInterface(9)),
	}, 0)
	// broken copy: 5 != 6
	a := ctx.LoadWitness(f.FromInterface(5))
	c := ctx.LoadWitness(f.FromInterface(6))
	ctx.ConstrainEqual(a, c)
	// broken constant
	ctx.ConstrainConstant(a, f.FromInterface(50))
	// broken lookup: 300 does not fit 8 bits
	big := ctx.LoadWitness(f.FromInterface(300))
	ctx.Lookup(big)

	err = checker.Check(b)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "gate")
	assert.Contains(t, msg, "copy constraint")
	assert.Contains(t, msg, "constant constraint")
	assert.Contains(t, msg, "lookup")
	// all four failures surface at once
	assert.Equal(t, 4, strings.Count(msg, "violated"))
}

func TestCheckAcceptsSatisfiedTrace(t *testing.T) {
	f := &bn254.Field{}
	b, err := builder.NewBuilder(f, builder.StageMock, builder.Config{Degree: 10, LookupBits: 8})
	require.NoError(t, err)
	ctx := b.Main(0)

	// 1 + 2*3 = 7
	ctx.AssignRegion([]trace.QuantumCell{
		trace.Witness(f.FromInterface(1)), trace.Witness(f.FromInterface(2)),
		trace.Witness(f.FromInterface(3)), trace.Witness(f.FromInterface(7)),
	}, 0)
	assert.NoError(t, checker.Check(b))
}

func TestCheckChallengeBinding(t *testing.T) {
	f := &bn254.Field{}
	b, err := builder.NewBuilder(f, builder.StageMock, builder.Config{Degree: 10, LookupBits: 8})
	require.NoError(t, err)
	b.Main(0).LoadWitness(f.FromInterface(11))
	b.ChallengeCell()
	assert.NoError(t, checker.Check(b))
}
