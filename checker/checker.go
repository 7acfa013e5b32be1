// Package checker evaluates a recorded trace natively, without any proving
// backend. It is the mock-stage workhorse: every gate row, copy, constant,
// lookup, and the challenge binding is checked, and every failure is
// reported rather than only the first one.
package checker

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark/constraint"

	"github.com/plonkish-zk/scaffold/builder"
	"github.com/plonkish-zk/scaffold/trace"
)

// Check verifies every constraint of the sealed builder. The returned error
// joins one entry per failing constraint; nil means the witness satisfies
// the whole trace.
func Check(b *builder.Builder) error {
	if err := b.Seal(); err != nil {
		return err
	}
	f := b.F
	var errs []error

	for _, ctx := range b.Phases() {
		advice := ctx.Advice()
		for _, q := range ctx.Selectors() {
			a, bb, c, d := advice[q], advice[q+1], advice[q+2], advice[q+3]
			got := f.Add(a, f.Mul(bb, c))
			if got != d {
				errs = append(errs, fmt.Errorf(
					"phase %d row %d: gate a + b*c = d violated: %s + %s*%s = %s, cell holds %s",
					ctx.ID(), q, f.String(a), f.String(bb), f.String(c), f.String(got), f.String(d)))
			}
		}
		for _, cp := range ctx.Copies() {
			va := cellValue(b, cp[0])
			vb := cellValue(b, cp[1])
			if va != vb {
				errs = append(errs, fmt.Errorf(
					"copy constraint (%d,%d) = (%d,%d) violated: %s != %s",
					cp[0].Context, cp[0].Offset, cp[1].Context, cp[1].Offset, f.String(va), f.String(vb)))
			}
		}
		for _, cc := range ctx.Constants() {
			v := cellValue(b, cc.Cell)
			if v != cc.Val {
				errs = append(errs, fmt.Errorf(
					"constant constraint at (%d,%d) violated: cell holds %s, fixed to %s",
					cc.Cell.Context, cc.Cell.Offset, f.String(v), f.String(cc.Val)))
			}
		}
		if bits := ctx.LookupBits(); bits > 0 {
			for _, lc := range ctx.Lookups() {
				v := cellValue(b, lc)
				if f.ToBigInt(v).BitLen() > bits {
					errs = append(errs, fmt.Errorf(
						"lookup at (%d,%d) violated: %s is not below 2^%d",
						lc.Context, lc.Offset, f.String(v), bits))
				}
			}
		}
	}

	if ch, val, ok := b.Challenge(); ok {
		want, _ := b.RecomputeChallenge()
		if val != want {
			errs = append(errs, fmt.Errorf(
				"challenge binding violated: cell (%d,%d) holds %s, phase-0 advice hashes to %s",
				ch.Cell.Context, ch.Cell.Offset, f.String(val), f.String(want)))
		}
	}

	return errors.Join(errs...)
}

func cellValue(b *builder.Builder, c trace.Cell) constraint.Element {
	return b.Main(c.Context).Advice()[c.Offset]
}
