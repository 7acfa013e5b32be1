package toyvm_test

import (
	"fmt"
	"testing"

	"github.com/consensys/gnark/constraint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plonkish-zk/scaffold/builder"
	"github.com/plonkish-zk/scaffold/circuits/toyvm"
	"github.com/plonkish-zk/scaffold/scaffold"
	"github.com/plonkish-zk/scaffold/test"
)

// encode packs an instruction word from its fields.
func encode(offDst, offOp0, offOp1 uint64, dstReg, op0Reg, op1Src, resLogic, pcUpdate, apUpdate, opcode uint64) uint64 {
	return offDst |
		offOp0<<16 |
		offOp1<<32 |
		dstReg<<48 |
		op0Reg<<49 |
		op1Src<<50 |
		resLogic<<53 |
		pcUpdate<<55 |
		apUpdate<<58 |
		opcode<<60
}

func makeState(memory []uint64, pc, ap, fp uint64) (toyvm.Input, toyvm.State) {
	f := test.Field()
	in := toyvm.Input{
		PC: scaffold.Element(fmt.Sprint(pc)),
		AP: scaffold.Element(fmt.Sprint(ap)),
		FP: scaffold.Element(fmt.Sprint(fp)),
	}
	native := toyvm.State{PC: f.FromInterface(pc), AP: f.FromInterface(ap), FP: f.FromInterface(fp)}
	for _, w := range memory {
		in.Memory = append(in.Memory, scaffold.Element(fmt.Sprint(w)))
		native.Memory = append(native.Memory, f.FromInterface(w))
	}
	return in, native
}

// runStep proves the transition and returns (next pc, ap, fp) from the
// public outputs.
func runStep(t *testing.T, in toyvm.Input) [3]constraint.Element {
	t.Helper()
	a := test.NewAssert(t)
	b := a.Mock(func(b *builder.Builder) error {
		return toyvm.Circuit(b, in)
	}, test.DefaultConfig())
	publics := b.Publics()
	require.Len(t, publics, 3)
	return [3]constraint.Element{publics[0].Val, publics[1].Val, publics[2].Val}
}

func TestCircuitMatchesInterpreter(t *testing.T) {
	f := test.Field()

	cases := []struct {
		name   string
		memory []uint64
		pc     uint64
	}{
		{
			// op0 = mem[ap+1] = 3, op1 = mem[op0+2] = 70, res = op0+op1,
			// ap advances by one
			name: "add and advance ap",
			memory: []uint64{
				encode(0, 1, 2, 0, 0, 0, 1, 0, 2, 0),
				7, 3, 50, 60, 70, 80, 90,
			},
		},
		{
			// immediate operand: op1 = mem[pc+1], pc advances by 2
			name: "immediate load",
			memory: []uint64{
				encode(0, 0, 1, 0, 0, 1, 0, 0, 0, 0),
				41, 3, 4, 5, 6, 7, 8,
			},
		},
		{
			// res = op0 * op1, absolute jump to res
			name: "mul and jump",
			memory: []uint64{
				encode(0, 1, 2, 0, 0, 4, 2, 1, 0, 0),
				3, 2, 6, 4, 4, 4, 4,
			},
		},
		{
			// jnz with nonzero dst jumps by op1
			name: "jnz taken",
			memory: []uint64{
				encode(1, 0, 1, 0, 0, 4, 0, 4, 0, 0),
				5, 2, 9, 9, 9, 9, 9,
			},
		},
		{
			// jnz with zero dst falls through
			name: "jnz not taken",
			memory: []uint64{
				encode(2, 0, 1, 0, 0, 4, 0, 4, 0, 0),
				5, 2, 0, 9, 9, 9, 9,
			},
		},
		{
			// call: fp and ap both move to ap+2
			name: "call",
			memory: []uint64{
				encode(0, 0, 0, 0, 0, 0, 0, 0, 0, 1),
				1, 2, 3, 4, 5, 6, 7,
			},
		},
		{
			// ret: fp restored from dst
			name:   "ret",
			memory: []uint64{encode(2, 0, 0, 1, 0, 0, 0, 0, 0, 2), 1, 2, 3, 4, 5, 6, 7},
		},
		{
			// undefined op1 selector: op1 = 0, size = 0
			name:   "undefined op1 source",
			memory: []uint64{encode(0, 0, 0, 0, 0, 3, 0, 0, 0, 0), 1, 2, 3, 4, 5, 6, 7},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in, native := makeState(tc.memory, tc.pc, 1, 2)
			got := runStep(t, in)
			want := toyvm.Step(f, native)
			assert.Equal(t, want.PC, got[0], "pc")
			assert.Equal(t, want.AP, got[1], "ap")
			assert.Equal(t, want.FP, got[2], "fp")
		})
	}
}

func TestAssertEqualOpcode(t *testing.T) {
	f := test.Field()

	// opcode 4 with dst = mem[ap+1] = 6 and res = op1 = mem[ap+2] = 6
	good := []uint64{encode(1, 0, 2, 0, 0, 4, 0, 0, 0, 4), 0, 6, 6}
	in, native := makeState(good, 0, 1, 1)
	require.True(t, toyvm.Satisfiable(f, native))
	runStep(t, in)

	// same instruction with dst != res must be unprovable
	bad := []uint64{encode(1, 0, 2, 0, 0, 4, 0, 0, 0, 4), 0, 6, 7}
	inBad, nativeBad := makeState(bad, 0, 1, 1)
	require.False(t, toyvm.Satisfiable(f, nativeBad))
	a := test.NewAssert(t)
	a.MockFailed(func(b *builder.Builder) error {
		return toyvm.Circuit(b, inBad)
	}, test.DefaultConfig())
}

func TestOutOfRangeMemoryReadsZero(t *testing.T) {
	f := test.Field()
	// off_op1 points far past memory: op1 must read as 0
	mem := []uint64{encode(0, 0, 60, 0, 0, 4, 0, 0, 1, 0), 1, 2, 3}
	in, native := makeState(mem, 0, 1, 1)
	got := runStep(t, in)
	want := toyvm.Step(f, native)
	assert.Equal(t, want.PC, got[0])
	assert.Equal(t, want.AP, got[1])
}

func TestEmptyMemoryRejected(t *testing.T) {
	a := test.NewAssert(t)
	a.MockFailed(func(b *builder.Builder) error {
		return toyvm.Circuit(b, toyvm.Input{PC: "0", AP: "0", FP: "0"})
	}, test.DefaultConfig())
}
