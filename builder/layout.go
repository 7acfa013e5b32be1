package builder

import (
	"fmt"

	"github.com/consensys/gnark/logger"
)

// Layout is the result of fitting a sealed trace into 2^Degree rows. It
// fixes everything a prover run must reproduce for its proof to verify
// against keygen-time keys.
type Layout struct {
	Degree       int   `json:"degree"`
	LookupBits   int   `json:"lookup_bits"`
	NumAdvice    int   `json:"num_advice"`
	NumInstances int   `json:"num_instances"`
	TotalRows    int   `json:"total_rows"`
	BreakPoints  []int `json:"break_points"`
}

// FitConfig sizes the sealed trace. Each advice column holds at most
// 2^Degree - MinimumRows cells, so the trace is cut into columns at the
// recorded break points. Errors when the configuration cannot hold even the
// lookup table plus blinding.
func (b *Builder) FitConfig() (*Layout, error) {
	if !b.sealed {
		if err := b.Seal(); err != nil {
			return nil, err
		}
	}
	usable := (1 << uint(b.cfg.Degree)) - b.cfg.MinimumRows
	if b.cfg.LookupBits > 0 && (1<<uint(b.cfg.LookupBits)) > usable {
		return nil, fmt.Errorf("builder: lookup table (2^%d rows) exceeds the %d usable rows at degree %d",
			b.cfg.LookupBits, usable, b.cfg.Degree)
	}

	total := 0
	for _, ctx := range b.phases {
		total += ctx.Rows()
	}
	if total == 0 {
		return nil, fmt.Errorf("builder: empty trace")
	}

	numAdvice := (total + usable - 1) / usable
	breaks := make([]int, 0, numAdvice-1)
	for r := usable; r < total; r += usable {
		breaks = append(breaks, r)
	}

	l := &Layout{
		Degree:       b.cfg.Degree,
		LookupBits:   b.cfg.LookupBits,
		NumAdvice:    numAdvice,
		NumInstances: len(b.publics),
		TotalRows:    total,
		BreakPoints:  breaks,
	}
	log := logger.Logger()
	log.Info().
		Int("degree", l.Degree).
		Int("rows", l.TotalRows).
		Int("advice", l.NumAdvice).
		Int("instances", l.NumInstances).
		Msg("fitted circuit layout")
	return l, nil
}

// Validate checks a prover-stage layout against the keygen-time pinning.
// Any drift means the prover would build a different circuit than the keys
// commit to, so mismatches are fatal.
func (l *Layout) Validate(pinned *Layout) error {
	if l.Degree != pinned.Degree {
		return fmt.Errorf("builder: degree %d does not match pinned %d", l.Degree, pinned.Degree)
	}
	if l.LookupBits != pinned.LookupBits {
		return fmt.Errorf("builder: lookup bits %d do not match pinned %d", l.LookupBits, pinned.LookupBits)
	}
	if l.NumAdvice != pinned.NumAdvice {
		return fmt.Errorf("builder: %d advice columns do not match pinned %d", l.NumAdvice, pinned.NumAdvice)
	}
	if l.NumInstances != pinned.NumInstances {
		return fmt.Errorf("builder: %d instances do not match pinned %d", l.NumInstances, pinned.NumInstances)
	}
	if l.TotalRows != pinned.TotalRows {
		return fmt.Errorf("builder: %d rows do not match pinned %d", l.TotalRows, pinned.TotalRows)
	}
	if len(l.BreakPoints) != len(pinned.BreakPoints) {
		return fmt.Errorf("builder: break point count mismatch")
	}
	for i := range l.BreakPoints {
		if l.BreakPoints[i] != pinned.BreakPoints[i] {
			return fmt.Errorf("builder: break point %d at row %d does not match pinned row %d",
				i, l.BreakPoints[i], pinned.BreakPoints[i])
		}
	}
	return nil
}
