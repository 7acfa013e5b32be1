package polyreduce_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plonkish-zk/scaffold/builder"
	"github.com/plonkish-zk/scaffold/circuits/polyreduce"
	"github.com/plonkish-zk/scaffold/scaffold"
	"github.com/plonkish-zk/scaffold/test"
)

func TestReducesEveryCoefficient(t *testing.T) {
	a := test.NewAssert(t)
	f := test.Field()

	coeffs := []uint64{0, 10, 11, 255}
	input := polyreduce.Input{}
	for _, c := range coeffs {
		input.Poly = append(input.Poly, scaffold.Element(fmt.Sprint(c)))
	}
	b := a.Mock(func(b *builder.Builder) error {
		return polyreduce.Circuit(b, input)
	}, test.DefaultConfig())

	publics := b.Publics()
	assert.Len(t, publics, polyreduce.Degree)
	for i, c := range coeffs {
		assert.Equal(t, f.FromInterface(c%polyreduce.Modulus), publics[i].Val, "coeff %d", i)
	}
}

func TestWrongDegreeRejected(t *testing.T) {
	a := test.NewAssert(t)
	a.MockFailed(func(b *builder.Builder) error {
		return polyreduce.Circuit(b, polyreduce.Input{Poly: []scaffold.Element{"1", "2"}})
	}, test.DefaultConfig())
}

func TestOversizedCoefficientRejected(t *testing.T) {
	a := test.NewAssert(t)
	a.MockFailed(func(b *builder.Builder) error {
		return polyreduce.Circuit(b, polyreduce.Input{
			Poly: []scaffold.Element{"1", "2", "3", "65536"},
		})
	}, test.DefaultConfig())
}
