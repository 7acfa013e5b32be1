// Package toyvm constrains one step of a small register VM. An instruction
// word is fetched from memory at pc, decoded bit by bit, and the next
// (pc, ap, fp) state is computed entirely with multiplexers so the circuit
// shape is independent of which instruction executes.
//
// Instruction word, 63 bits, little endian:
//
//	[0:16)   off_dst    [16:32)  off_op0    [32:48)  off_op1
//	[48]     dst_reg    [49]     op0_reg
//	[50:53)  op1_src    0 mem[op0+off]  1 mem[pc+off]  2 mem[fp+off]
//	                    4 mem[ap+off]   3 and others: op1 = 0
//	[53:55)  res_logic  0 op1  1 op0+op1  2 op0*op1  3: res = 0
//	[55:58)  pc_update  0 pc+size  1 res  2 pc+res
//	                    4 jnz: pc+op1 if dst != 0 else pc+size
//	[58:60)  ap_update  0 ap  1 ap+res  2 ap+1
//	[60:63)  opcode     0 nop  1 call  2 ret  4 assert dst == res
//
// Field values outside the listed ones fall out of the multiplexer range
// and select 0; the transition stays deterministic, it just computes a
// useless state. Memory reads out of range also yield 0.
package toyvm

import (
	"fmt"

	"github.com/plonkish-zk/scaffold/builder"
	"github.com/plonkish-zk/scaffold/field"
	"github.com/plonkish-zk/scaffold/gates"
	"github.com/plonkish-zk/scaffold/scaffold"
	"github.com/plonkish-zk/scaffold/trace"
)

const instructionBits = 63

type Input struct {
	Memory []scaffold.Element `json:"memory"`
	PC     scaffold.Element   `json:"pc"`
	AP     scaffold.Element   `json:"ap"`
	FP     scaffold.Element   `json:"fp"`
}

func Circuit(b *builder.Builder, input Input) error {
	if len(input.Memory) == 0 {
		return fmt.Errorf("toyvm: empty memory")
	}
	f := b.F
	ctx := b.Main(0)
	gate := gates.NewGateChip(f)

	memory := make([]trace.AssignedValue, len(input.Memory))
	memCells := make([]trace.QuantumCell, len(input.Memory))
	for i, e := range input.Memory {
		v, err := e.Parse(f)
		if err != nil {
			return err
		}
		memory[i] = ctx.LoadWitness(v)
		memCells[i] = trace.Existing(memory[i])
	}
	pc, err := loadReg(ctx, f, input.PC)
	if err != nil {
		return err
	}
	ap, err := loadReg(ctx, f, input.AP)
	if err != nil {
		return err
	}
	fp, err := loadReg(ctx, f, input.FP)
	if err != nil {
		return err
	}

	read := func(addr trace.AssignedValue) trace.AssignedValue {
		return gate.SelectFromIdx(ctx, memCells, addr)
	}

	instruction := read(pc)
	bits := gate.NumToBits(ctx, instruction, instructionBits)

	offDst := gate.BitSlice(ctx, bits, 0, 16)
	offOp0 := gate.BitSlice(ctx, bits, 16, 32)
	offOp1 := gate.BitSlice(ctx, bits, 32, 48)
	dstReg := bits[48]
	op0Reg := bits[49]
	op1Src := gate.BitSlice(ctx, bits, 50, 53)
	resLogic := gate.BitSlice(ctx, bits, 53, 55)
	pcUpdate := gate.BitSlice(ctx, bits, 55, 58)
	apUpdate := gate.BitSlice(ctx, bits, 58, 60)
	opcode := gate.BitSlice(ctx, bits, 60, 63)

	// op0: register base picked by op0_reg
	op0FromAp := read(gate.Add(ctx, trace.Existing(ap), trace.Existing(offOp0)))
	op0FromFp := read(gate.Add(ctx, trace.Existing(fp), trace.Existing(offOp0)))
	op0 := gate.Select(ctx, trace.Existing(op0FromFp), trace.Existing(op0FromAp), op0Reg)

	// op1 and the instruction size share the op1_src selector
	op1Choices := []trace.QuantumCell{
		trace.Existing(read(gate.Add(ctx, trace.Existing(op0), trace.Existing(offOp1)))),
		trace.Existing(read(gate.Add(ctx, trace.Existing(pc), trace.Existing(offOp1)))),
		trace.Existing(read(gate.Add(ctx, trace.Existing(fp), trace.Existing(offOp1)))),
		trace.Constant(f.FromInterface(0)),
		trace.Existing(read(gate.Add(ctx, trace.Existing(ap), trace.Existing(offOp1)))),
	}
	sizeChoices := []trace.QuantumCell{
		trace.Constant(f.One()),
		trace.Constant(f.FromInterface(2)),
		trace.Constant(f.One()),
		trace.Constant(f.FromInterface(0)),
		trace.Constant(f.One()),
	}
	op1 := gate.SelectFromIdx(ctx, op1Choices, op1Src)
	size := gate.SelectFromIdx(ctx, sizeChoices, op1Src)

	// res
	sum := gate.Add(ctx, trace.Existing(op0), trace.Existing(op1))
	prod := gate.Mul(ctx, trace.Existing(op0), trace.Existing(op1))
	res := gate.SelectFromIdx(ctx, []trace.QuantumCell{
		trace.Existing(op1), trace.Existing(sum), trace.Existing(prod), trace.Constant(f.FromInterface(0)),
	}, resLogic)

	// dst
	dstBase := gate.Select(ctx, trace.Existing(fp), trace.Existing(ap), dstReg)
	dst := read(gate.Add(ctx, trace.Existing(dstBase), trace.Existing(offDst)))

	// next pc
	seqPc := gate.Add(ctx, trace.Existing(pc), trace.Existing(size))
	relPc := gate.Add(ctx, trace.Existing(pc), trace.Existing(res))
	jnzPc := gate.Add(ctx, trace.Existing(pc), trace.Existing(op1))
	dstNonzero := gate.Not(ctx, gate.IsZero(ctx, trace.Existing(dst)))
	jnzTarget := gate.Select(ctx, trace.Existing(jnzPc), trace.Existing(seqPc), dstNonzero)
	nextPc := gate.SelectFromIdx(ctx, []trace.QuantumCell{
		trace.Existing(seqPc), trace.Existing(res), trace.Existing(relPc),
		trace.Constant(f.FromInterface(0)), trace.Existing(jnzTarget),
	}, pcUpdate)

	// next ap / fp
	apBase := gate.SelectFromIdx(ctx, []trace.QuantumCell{
		trace.Existing(ap),
		trace.Existing(gate.Add(ctx, trace.Existing(ap), trace.Existing(res))),
		trace.Existing(gate.Add(ctx, trace.Existing(ap), trace.Constant(f.One()))),
	}, apUpdate)

	isCall := gate.IsEqual(ctx, trace.Existing(opcode), trace.Constant(f.One()))
	isRet := gate.IsEqual(ctx, trace.Existing(opcode), trace.Constant(f.FromInterface(2)))
	isAssert := gate.IsEqual(ctx, trace.Existing(opcode), trace.Constant(f.FromInterface(4)))

	apPlus2 := gate.Add(ctx, trace.Existing(ap), trace.Constant(f.FromInterface(2)))
	nextAp := gate.Select(ctx, trace.Existing(apPlus2), trace.Existing(apBase), isCall)

	nextFp := gate.Select(ctx, trace.Existing(dst), trace.Existing(fp), isRet)
	nextFp = gate.Select(ctx, trace.Existing(apPlus2), trace.Existing(nextFp), isCall)

	// assert-equal opcode: dst must equal res
	gap := gate.Sub(ctx, trace.Existing(dst), trace.Existing(res))
	enforced := gate.Mul(ctx, trace.ExistingBool(isAssert), trace.Existing(gap))
	gate.AssertIsConst(ctx, enforced, f.FromInterface(0))

	b.MakePublic(nextPc)
	b.MakePublic(nextAp)
	b.MakePublic(nextFp)
	return nil
}

func loadReg(ctx *trace.Context, f field.Field, e scaffold.Element) (trace.AssignedValue, error) {
	v, err := e.Parse(f)
	if err != nil {
		return trace.AssignedValue{}, err
	}
	return ctx.LoadWitness(v), nil
}
