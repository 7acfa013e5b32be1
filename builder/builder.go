// Package builder assembles recorded traces into circuits. It owns phase
// management, the public-instance list, challenge derivation, and the
// lowering of a frozen trace into a PLONK constraint system.
package builder

import (
	"fmt"

	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/logger"

	"github.com/plonkish-zk/scaffold/field"
	"github.com/plonkish-zk/scaffold/trace"
)

// Stage selects what a synthesis run is for. The same circuit function runs
// in every stage; only the surrounding machinery changes.
type Stage int

const (
	// StageMock records the trace and checks every constraint natively.
	StageMock Stage = iota
	// StageKeygen records the trace, sizes the circuit, and produces keys.
	StageKeygen
	// StageProver records the trace against a pinned layout and proves.
	StageProver
)

func (s Stage) String() string {
	switch s {
	case StageMock:
		return "mock"
	case StageKeygen:
		return "keygen"
	case StageProver:
		return "prover"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Config fixes the circuit shape. It is explicit: nothing is read from the
// process environment.
type Config struct {
	// log2 of the number of rows
	Degree int `mapstructure:"degree" json:"degree"`
	// width of the range lookup table; 0 disables lookups entirely
	LookupBits int `mapstructure:"lookup_bits" json:"lookup_bits"`
	// rows reserved for blinding at the bottom of each column
	MinimumRows int `mapstructure:"minimum_rows" json:"minimum_rows"`
}

func (c Config) validate() error {
	if c.Degree <= 0 || c.Degree > 28 {
		return fmt.Errorf("builder: degree %d out of range", c.Degree)
	}
	if c.LookupBits < 0 {
		return fmt.Errorf("builder: negative lookup bits")
	}
	if c.LookupBits >= c.Degree {
		return fmt.Errorf("builder: lookup table of 2^%d rows cannot fit in 2^%d rows", c.LookupBits, c.Degree)
	}
	if c.MinimumRows < 0 || c.MinimumRows >= 1<<uint(c.Degree) {
		return fmt.Errorf("builder: minimum rows %d leaves no usable rows at degree %d", c.MinimumRows, c.Degree)
	}
	return nil
}

// Obligation is a protocol debt registered during phase 0 that must be paid
// before the circuit is sealed. Sealing a builder with unpaid obligations is
// an error, not a silently weaker circuit.
type Obligation interface {
	Consumed() bool
	Describe() string
}

// Builder holds the per-run synthesis state.
type Builder struct {
	F     field.Field
	stage Stage
	cfg   Config

	phases  []*trace.Context
	publics []trace.AssignedValue

	challenge    *trace.AssignedValue
	challengeVal constraint.Element

	obligations []Obligation
	sealed      bool
}

func NewBuilder(f field.Field, stage Stage, cfg Config) (*Builder, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	b := &Builder{F: f, stage: stage, cfg: cfg}
	b.phases = append(b.phases, trace.NewContext(0, cfg.LookupBits))
	return b, nil
}

func (b *Builder) Stage() Stage   { return b.stage }
func (b *Builder) Config() Config { return b.cfg }

// Main returns the context of the given phase. Phase 1 exists only after
// the challenge has been derived.
func (b *Builder) Main(phase int) *trace.Context {
	if phase < 0 || phase >= len(b.phases) {
		panic(fmt.Sprintf("builder: phase %d does not exist (challenge not derived?)", phase))
	}
	return b.phases[phase]
}

// Phases returns the recorded contexts in phase order.
func (b *Builder) Phases() []*trace.Context { return b.phases }

// MakePublic appends a cell to the public instance list. Order of calls is
// the instance order, and must match between keygen and prove.
func (b *Builder) MakePublic(a trace.AssignedValue) {
	if b.sealed {
		panic("builder: MakePublic after seal")
	}
	b.publics = append(b.publics, a)
}

// Publics returns the public instance cells in declaration order.
func (b *Builder) Publics() []trace.AssignedValue { return b.publics }

// ChallengeCell freezes phase 0, derives the challenge from its advice, and
// opens phase 1 with the challenge as its first cell. Everything assigned
// afterwards may depend on the challenge; nothing in phase 0 can.
func (b *Builder) ChallengeCell() trace.AssignedValue {
	if b.challenge != nil {
		return *b.challenge
	}
	ctx0 := b.phases[0]
	ctx0.Freeze()
	b.challengeVal = deriveChallenge(b.F, ctx0.Advice())

	ctx1 := trace.NewContext(1, b.cfg.LookupBits)
	b.phases = append(b.phases, ctx1)
	cell := ctx1.LoadWitness(b.challengeVal)
	b.challenge = &cell

	log := logger.Logger()
	log.Debug().Int("phase0Rows", ctx0.Rows()).Msg("derived challenge, opened phase 1")
	return cell
}

// Challenge reports the challenge cell and value, if one was derived.
func (b *Builder) Challenge() (trace.AssignedValue, constraint.Element, bool) {
	if b.challenge == nil {
		return trace.AssignedValue{}, constraint.Element{}, false
	}
	return *b.challenge, b.challengeVal, true
}

// RegisterObligation records a debt that Seal will enforce.
func (b *Builder) RegisterObligation(o Obligation) {
	b.obligations = append(b.obligations, o)
}

// Seal freezes all phases and verifies every registered obligation was
// consumed. After Seal the trace is immutable and ready for checking,
// layout, or lowering.
func (b *Builder) Seal() error {
	if b.sealed {
		return nil
	}
	var unpaid []string
	for _, o := range b.obligations {
		if !o.Consumed() {
			unpaid = append(unpaid, o.Describe())
		}
	}
	if len(unpaid) > 0 {
		return fmt.Errorf("builder: sealed with unconsumed obligations: %v", unpaid)
	}
	for _, ctx := range b.phases {
		ctx.Freeze()
	}
	b.sealed = true
	return nil
}
