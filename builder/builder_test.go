package builder_test

import (
	"path/filepath"
	"testing"

	"github.com/consensys/gnark/constraint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plonkish-zk/scaffold/builder"
	"github.com/plonkish-zk/scaffold/field/bn254"
)

func newMock(t *testing.T, cfg builder.Config) *builder.Builder {
	t.Helper()
	b, err := builder.NewBuilder(&bn254.Field{}, builder.StageMock, cfg)
	require.NoError(t, err)
	return b
}

func TestConfigValidation(t *testing.T) {
	f := &bn254.Field{}
	for _, cfg := range []builder.Config{
		{Degree: 0, LookupBits: 8},
		{Degree: -3},
		{Degree: 10, LookupBits: -1},
		{Degree: 10, LookupBits: 10},
		{Degree: 10, LookupBits: 11},
		{Degree: 10, MinimumRows: 1 << 10},
	} {
		_, err := builder.NewBuilder(f, builder.StageMock, cfg)
		assert.Error(t, err, "%+v", cfg)
	}
	_, err := builder.NewBuilder(f, builder.StageKeygen, builder.Config{Degree: 10, LookupBits: 8, MinimumRows: 9})
	assert.NoError(t, err)
}

func TestMainPhaseOneRequiresChallenge(t *testing.T) {
	b := newMock(t, builder.Config{Degree: 10, LookupBits: 8})
	assert.NotNil(t, b.Main(0))
	assert.Panics(t, func() { b.Main(1) })

	b.Main(0).LoadWitness(b.F.FromInterface(5))
	ch := b.ChallengeCell()
	assert.NotNil(t, b.Main(1))
	assert.Equal(t, 1, ch.Cell.Context)
	assert.False(t, ch.Val.IsZero())
}

func TestChallengeBindsPhaseZeroAdvice(t *testing.T) {
	run := func(seed uint64) constraint.Element {
		b := newMock(t, builder.Config{Degree: 10, LookupBits: 8})
		ctx := b.Main(0)
		ctx.LoadWitness(b.F.FromInterface(seed))
		ctx.LoadWitness(b.F.FromInterface(seed + 1))
		return b.ChallengeCell().Val
	}
	assert.Equal(t, run(3), run(3), "challenge must be deterministic")
	assert.NotEqual(t, run(3), run(4), "challenge must depend on the advice")
}

func TestChallengeFreezesPhaseZero(t *testing.T) {
	b := newMock(t, builder.Config{Degree: 10, LookupBits: 8})
	ctx0 := b.Main(0)
	ctx0.LoadWitness(b.F.FromInterface(1))
	b.ChallengeCell()
	assert.Panics(t, func() { ctx0.LoadWitness(b.F.FromInterface(2)) })

	// phase 1 stays open
	b.Main(1).LoadWitness(b.F.FromInterface(3))
}

type fakeObligation struct{ paid bool }

func (o *fakeObligation) Consumed() bool   { return o.paid }
func (o *fakeObligation) Describe() string { return "fake debt" }

func TestSealEnforcesObligations(t *testing.T) {
	b := newMock(t, builder.Config{Degree: 10, LookupBits: 8})
	b.Main(0).LoadWitness(b.F.FromInterface(1))

	o := &fakeObligation{}
	b.RegisterObligation(o)
	err := b.Seal()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fake debt")

	o.paid = true
	assert.NoError(t, b.Seal())
}

func TestFitConfig(t *testing.T) {
	b := newMock(t, builder.Config{Degree: 6, LookupBits: 4, MinimumRows: 4})
	ctx := b.Main(0)
	for i := 0; i < 100; i++ {
		ctx.LoadWitness(b.F.FromInterface(i))
	}
	layout, err := b.FitConfig()
	require.NoError(t, err)
	// 2^6 - 4 = 60 usable rows per column
	assert.Equal(t, 2, layout.NumAdvice)
	assert.Equal(t, []int{60}, layout.BreakPoints)
	assert.Equal(t, 100, layout.TotalRows)
}

func TestFitConfigRejectsOversizedLookupTable(t *testing.T) {
	// degree 5 leaves 2 usable rows, the 2^4 table cannot fit
	b := newMock(t, builder.Config{Degree: 5, LookupBits: 4, MinimumRows: 30})
	b.Main(0).LoadWitness(b.F.FromInterface(1))
	_, err := b.FitConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookup table")
}

func TestLayoutValidate(t *testing.T) {
	a := &builder.Layout{Degree: 10, LookupBits: 8, NumAdvice: 2, NumInstances: 3, TotalRows: 100, BreakPoints: []int{60}}
	same := *a
	assert.NoError(t, a.Validate(&same))

	drift := same
	drift.TotalRows = 101
	assert.Error(t, a.Validate(&drift))

	drift = same
	drift.Degree = 11
	assert.Error(t, a.Validate(&drift))

	drift = same
	drift.BreakPoints = []int{61}
	assert.Error(t, a.Validate(&drift))
}

func TestPinningRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.pinning.json")
	l := &builder.Layout{Degree: 12, LookupBits: 8, NumAdvice: 3, NumInstances: 2, TotalRows: 9000, BreakPoints: []int{4087, 8174}}
	require.NoError(t, builder.WritePinning(path, l))
	got, err := builder.ReadPinning(path)
	require.NoError(t, err)
	assert.Equal(t, l, got)

	_, err = builder.ReadPinning(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
