package toyvm

import (
	"math/big"

	"github.com/consensys/gnark/constraint"

	"github.com/plonkish-zk/scaffold/field"
)

// State is the native VM state used by the reference interpreter.
type State struct {
	Memory []constraint.Element
	PC     constraint.Element
	AP     constraint.Element
	FP     constraint.Element
}

type evaluation struct {
	dst, res constraint.Element
	nextPC   constraint.Element
	nextAP   constraint.Element
	nextFP   constraint.Element
	assertEq bool
}

// Step executes one instruction natively with exactly the semantics the
// circuit constrains, including the out-of-range-reads-as-zero and
// unknown-selector-as-zero behavior. Tests compare the two.
func Step(f field.Field, s State) State {
	e := eval(f, s)
	return State{Memory: s.Memory, PC: e.nextPC, AP: e.nextAP, FP: e.nextFP}
}

// Satisfiable reports whether the circuit's assert-equal obligation holds:
// opcode 4 requires dst == res.
func Satisfiable(f field.Field, s State) bool {
	e := eval(f, s)
	return !e.assertEq || e.dst == e.res
}

func eval(f field.Field, s State) evaluation {
	read := func(addr constraint.Element) constraint.Element {
		bi := f.ToBigInt(addr)
		if bi.Cmp(big.NewInt(int64(len(s.Memory)))) >= 0 {
			return constraint.Element{}
		}
		return s.Memory[bi.Int64()]
	}

	inst := f.ToBigInt(read(s.PC))
	slice := func(start, end int) uint64 {
		var v uint64
		for i := start; i < end; i++ {
			v |= uint64(inst.Bit(i)) << uint(i-start)
		}
		return v
	}
	offDst := f.FromInterface(slice(0, 16))
	offOp0 := f.FromInterface(slice(16, 32))
	offOp1 := f.FromInterface(slice(32, 48))

	op0Base := s.AP
	if slice(49, 50) == 1 {
		op0Base = s.FP
	}
	op0 := read(f.Add(op0Base, offOp0))

	var op1, size constraint.Element
	size = f.One()
	switch slice(50, 53) {
	case 0:
		op1 = read(f.Add(op0, offOp1))
	case 1:
		op1 = read(f.Add(s.PC, offOp1))
		size = f.FromInterface(2)
	case 2:
		op1 = read(f.Add(s.FP, offOp1))
	case 4:
		op1 = read(f.Add(s.AP, offOp1))
	default:
		size = constraint.Element{}
	}

	var res constraint.Element
	switch slice(53, 55) {
	case 0:
		res = op1
	case 1:
		res = f.Add(op0, op1)
	case 2:
		res = f.Mul(op0, op1)
	}

	dstBase := s.AP
	if slice(48, 49) == 1 {
		dstBase = s.FP
	}
	dst := read(f.Add(dstBase, offDst))

	var e evaluation
	e.dst, e.res = dst, res

	switch slice(55, 58) {
	case 0:
		e.nextPC = f.Add(s.PC, size)
	case 1:
		e.nextPC = res
	case 2:
		e.nextPC = f.Add(s.PC, res)
	case 4:
		if dst.IsZero() {
			e.nextPC = f.Add(s.PC, size)
		} else {
			e.nextPC = f.Add(s.PC, op1)
		}
	}

	switch slice(58, 60) {
	case 0:
		e.nextAP = s.AP
	case 1:
		e.nextAP = f.Add(s.AP, res)
	case 2:
		e.nextAP = f.Add(s.AP, f.One())
	}

	e.nextFP = s.FP
	switch slice(60, 63) {
	case 1:
		apPlus2 := f.Add(s.AP, f.FromInterface(2))
		e.nextAP = apPlus2
		e.nextFP = apPlus2
	case 2:
		e.nextFP = dst
	case 4:
		e.assertEq = true
	}
	return e
}
