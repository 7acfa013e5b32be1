package quadratic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plonkish-zk/scaffold/builder"
	"github.com/plonkish-zk/scaffold/circuits/quadratic"
	"github.com/plonkish-zk/scaffold/test"
)

func TestThreeSquaredPlus72(t *testing.T) {
	a := test.NewAssert(t)
	b := a.Mock(func(b *builder.Builder) error {
		return quadratic.Circuit(b, quadratic.Input{X: "3"})
	}, test.DefaultConfig())

	publics := b.Publics()
	assert.Len(t, publics, 2)
	f := test.Field()
	assert.Equal(t, f.FromInterface(3), publics[0].Val)
	assert.Equal(t, f.FromInterface(81), publics[1].Val)
}

func TestRegionVariantAgrees(t *testing.T) {
	a := test.NewAssert(t)
	b := a.Mock(func(b *builder.Builder) error {
		return quadratic.CircuitRegion(b, quadratic.Input{X: "3"})
	}, test.DefaultConfig())

	publics := b.Publics()
	assert.Len(t, publics, 2)
	assert.Equal(t, test.Field().FromInterface(81), publics[1].Val)
}

func TestHexInput(t *testing.T) {
	a := test.NewAssert(t)
	b := a.Mock(func(b *builder.Builder) error {
		return quadratic.Circuit(b, quadratic.Input{X: "0x10"})
	}, test.DefaultConfig())
	// 16^2 + 72
	assert.Equal(t, test.Field().FromInterface(328), b.Publics()[1].Val)
}

func TestMalformedInputRejected(t *testing.T) {
	a := test.NewAssert(t)
	a.MockFailed(func(b *builder.Builder) error {
		return quadratic.Circuit(b, quadratic.Input{X: "not a number"})
	}, test.DefaultConfig())
}
