// Package test holds assertion helpers shared by the circuit tests: they
// synthesize a circuit in mock mode and check the recorded trace natively.
package test

import (
	"testing"

	"github.com/plonkish-zk/scaffold/builder"
	"github.com/plonkish-zk/scaffold/checker"
	"github.com/plonkish-zk/scaffold/field"
	"github.com/plonkish-zk/scaffold/field/bn254"
)

type Assert struct {
	t *testing.T
}

func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t}
}

// DefaultConfig is a shape large enough for every circuit in this repo.
func DefaultConfig() builder.Config {
	return builder.Config{Degree: 14, LookupBits: 8, MinimumRows: 9}
}

func Field() field.Field { return &bn254.Field{} }

// Mock synthesizes the circuit and returns the builder for inspection; the
// trace must check out.
func (a *Assert) Mock(fn func(b *builder.Builder) error, cfg builder.Config) *builder.Builder {
	a.t.Helper()
	b, err := builder.NewBuilder(Field(), builder.StageMock, cfg)
	if err != nil {
		a.t.Fatal(err)
	}
	if err := fn(b); err != nil {
		a.t.Fatal(err)
	}
	if err := checker.Check(b); err != nil {
		a.t.Fatalf("mock check should succeed: %v", err)
	}
	return b
}

// MockSucceeded is Mock without keeping the builder.
func (a *Assert) MockSucceeded(fn func(b *builder.Builder) error, cfg builder.Config) {
	a.t.Helper()
	a.Mock(fn, cfg)
}

// MockFailed synthesizes the circuit and requires the native check (or the
// seal) to reject it.
func (a *Assert) MockFailed(fn func(b *builder.Builder) error, cfg builder.Config) {
	a.t.Helper()
	b, err := builder.NewBuilder(Field(), builder.StageMock, cfg)
	if err != nil {
		a.t.Fatal(err)
	}
	if err := fn(b); err != nil {
		// synthesis itself rejected the input
		return
	}
	if err := checker.Check(b); err == nil {
		a.t.Fatal("mock check should fail")
	}
}
