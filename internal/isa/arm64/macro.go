// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package arm64 implements the stub macro assembler for 64-bit ARM.
package arm64

import (
	"github.com/pkg/errors"

	"gate.computer/stubcode/arch"
	"gate.computer/stubcode/asm"
	"gate.computer/stubcode/internal/isa"
	"gate.computer/stubcode/internal/isa/arm64/in"
)

const (
	FuncAlignment = 16
	PadWord       = 0xd4200000 // BRK #0 instruction
)

var regs = [isa.NumRegs]in.R{
	isa.Result:  0,
	isa.Scratch: 16, // IP0
	isa.Arg0:    1,
	isa.Arg1:    2,
	isa.Thread:  26,
	isa.Pool:    27,
	isa.SP:      in.RegSP,
	isa.FP:      in.RegFP,
}

var conditions = [isa.NumConds]in.Cond{
	isa.Equal:          in.EQ,
	isa.NotEqual:       in.NE,
	isa.Less:           in.LT,
	isa.GreaterOrEqual: in.GE,
	isa.Below:          in.LO,
	isa.AboveOrEqual:   in.HS,
	isa.Above:          in.HI,
	isa.Overflow:       in.VS,
}

type MacroAssembler struct {
	features arch.Features
}

func New(f arch.Features) *MacroAssembler {
	return &MacroAssembler{f}
}

func (*MacroAssembler) Arch() arch.Arch             { return arch.ARM64 }
func (m *MacroAssembler) Features() arch.Features { return m.features }

func (*MacroAssembler) AlignFunc(a *asm.Assembler) {
	a.Align(FuncAlignment, PadWord, 4)
}

func (*MacroAssembler) EnterFrame(a *asm.Assembler) {
	a.PutUint32(in.STPpre.RtRt2RnI7(in.RegFP, in.RegLink, in.RegSP, in.Int7(-2)))
	a.PutUint32(in.ADDi.RdRnI12S(in.RegFP, in.RegSP, 0, 0))
}

func (*MacroAssembler) LeaveFrame(a *asm.Assembler) {
	a.PutUint32(in.ADDi.RdRnI12S(in.RegSP, in.RegFP, 0, 0))
	a.PutUint32(in.LDPpost.RtRt2RnI7(in.RegFP, in.RegLink, in.RegSP, in.Int7(2)))
}

func (*MacroAssembler) Ret(a *asm.Assembler) {
	a.PutUint32(in.RET.Rn(in.RegLink))
}

func (*MacroAssembler) Trap(a *asm.Assembler) {
	a.PutUint32(in.BRK.I16(0))
}

// Push keeps the stack pointer 16-byte aligned.
func (*MacroAssembler) Push(a *asm.Assembler, r isa.Reg) {
	a.PutUint32(in.STRpre.RtRnI9(hw(r), in.RegSP, in.Int9(-16)))
}

func (*MacroAssembler) Pop(a *asm.Assembler, r isa.Reg) {
	a.PutUint32(in.LDRpost.RtRnI9(hw(r), in.RegSP, in.Int9(16)))
}

func (*MacroAssembler) MoveReg(a *asm.Assembler, dest, source isa.Reg) {
	if dest == isa.SP || source == isa.SP {
		a.PutUint32(in.ADDi.RdRnI12S(hw(dest), hw(source), 0, 0))
	} else {
		a.PutUint32(in.ORRs.RdRnRmS(hw(dest), in.RegZero, hw(source), in.LSL, 0))
	}
}

func (*MacroAssembler) MoveImm(a *asm.Assembler, r isa.Reg, value int64) {
	if r == isa.SP {
		panic(errors.New("immediate move to stack pointer"))
	}

	x := uint64(value)
	a.PutUint32(in.MOVZ.RdI16Hw(hw(r), in.Uint16(x), 0))

	for shift := uint32(1); shift < 4; shift++ {
		if chunk := in.Uint16(x >> (shift * 16)); chunk != 0 {
			a.PutUint32(in.MOVK.RdI16Hw(hw(r), chunk, shift))
		}
	}
}

func (m *MacroAssembler) LoadPool(a *asm.Assembler, r isa.Reg, index int) {
	m.LoadMem(a, r, isa.Pool, int32(index*8))
}

func (*MacroAssembler) LoadMem(a *asm.Assembler, dest, base isa.Reg, offset int32) {
	a.PutUint32(in.LDR.RtRnI12(hw(dest), hw(base), scaledOffset(offset)))
}

func (*MacroAssembler) StoreMem(a *asm.Assembler, base isa.Reg, offset int32, source isa.Reg) {
	a.PutUint32(in.STR.RtRnI12(hw(source), hw(base), scaledOffset(offset)))
}

func (*MacroAssembler) AddImm(a *asm.Assembler, r isa.Reg, value int32) {
	switch {
	case value >= 0 && value <= 0xfff:
		a.PutUint32(in.ADDi.RdRnI12S(hw(r), hw(r), uint32(value), 0))

	case value < 0 && value >= -0xfff:
		a.PutUint32(in.SUBi.RdRnI12S(hw(r), hw(r), uint32(-value), 0))

	default:
		panic(errors.Errorf("add immediate out of range: %d", value))
	}
}

func (*MacroAssembler) AddReg(a *asm.Assembler, dest, source isa.Reg) {
	a.PutUint32(in.ADDSs.RdRnRmS(hw(dest), hw(dest), hw(source), in.LSL, 0))
}

func (*MacroAssembler) CompareReg(a *asm.Assembler, x, y isa.Reg) {
	a.PutUint32(in.SUBSs.RdRnRmS(in.RegZero, hw(x), hw(y), in.LSL, 0))
}

func (*MacroAssembler) CompareImm(a *asm.Assembler, r isa.Reg, value int32) {
	switch {
	case value >= 0 && value <= 0xfff:
		a.PutUint32(in.SUBSi.RdRnI12S(in.RegZero, hw(r), uint32(value), 0))

	case value < 0 && value >= -0xfff:
		a.PutUint32(in.ADDSi.RdRnI12S(in.RegZero, hw(r), uint32(-value), 0))

	default:
		panic(errors.Errorf("compare immediate out of range: %d", value))
	}
}

func (*MacroAssembler) TestSmiTag(a *asm.Assembler, r isa.Reg) {
	a.PutUint32(in.ANDSi.RdRnNImmrImms(in.RegZero, hw(r), 1, 0, 0))
}

func (*MacroAssembler) BranchIf(a *asm.Assembler, c isa.Cond, l *asm.Label) {
	a.AddSite(l, asm.Branch19, a.Addr)
	a.PutUint32(in.Bc.CondI19(conditions[c], 0))
}

func (*MacroAssembler) Jump(a *asm.Assembler, l *asm.Label) {
	a.AddSite(l, asm.Branch26, a.Addr)
	a.PutUint32(in.B.I26(0))
}

func (*MacroAssembler) CallReg(a *asm.Assembler, r isa.Reg) {
	a.PutUint32(in.BLR.Rn(hw(r)))
}

func (*MacroAssembler) JumpReg(a *asm.Assembler, r isa.Reg) {
	a.PutUint32(in.BR.Rn(hw(r)))
}

func (*MacroAssembler) ClearUpperVectors(*asm.Assembler) {}

func hw(r isa.Reg) in.R {
	return regs[r]
}

func scaledOffset(offset int32) uint32 {
	if offset < 0 || offset&7 != 0 || offset>>3 > 0xfff {
		panic(errors.Errorf("memory offset cannot be encoded: %d", offset))
	}
	return uint32(offset >> 3)
}
