// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package x86 implements the stub macro assembler for x86-64 and IA-32.
package x86

import (
	"github.com/pkg/errors"

	"gate.computer/stubcode/arch"
	"gate.computer/stubcode/asm"
	"gate.computer/stubcode/internal/isa"
	"gate.computer/stubcode/internal/isa/x86/in"
)

const (
	FuncAlignment = 16
	PaddingByte   = 0xcc // INT3 instruction
)

var amd64Regs = [isa.NumRegs]in.R{
	isa.Result:  in.RegAX,
	isa.Scratch: 11,
	isa.Arg0:    in.RegDI,
	isa.Arg1:    in.RegSI,
	isa.Thread:  14,
	isa.Pool:    15,
	isa.SP:      in.RegSP,
	isa.FP:      in.RegBP,
}

var ia32Regs = [isa.NumRegs]in.R{
	isa.Result:  in.RegAX,
	isa.Scratch: in.RegCX,
	isa.Arg0:    in.RegDX,
	isa.Arg1:    in.RegBX,
	isa.Thread:  in.RegSI,
	isa.Pool:    in.RegDI,
	isa.SP:      in.RegSP,
	isa.FP:      in.RegBP,
}

var conditions = [isa.NumConds]in.Cond{
	isa.Equal:          in.CondE,
	isa.NotEqual:       in.CondNE,
	isa.Less:           in.CondL,
	isa.GreaterOrEqual: in.CondGE,
	isa.Below:          in.CondB,
	isa.AboveOrEqual:   in.CondAE,
	isa.Above:          in.CondA,
	isa.Overflow:       in.CondO,
}

type MacroAssembler struct {
	arch     arch.Arch
	features arch.Features
	size     in.Size
	regs     *[isa.NumRegs]in.R
}

// NewAMD64 macro assembler for the 64-bit instruction set.
func NewAMD64(f arch.Features) *MacroAssembler {
	return &MacroAssembler{arch.AMD64, f, in.Size64, &amd64Regs}
}

// NewIA32 macro assembler for the 32-bit instruction set.  Vector state is
// never cleared, so AVX is ignored.
func NewIA32(f arch.Features) *MacroAssembler {
	f.AVX = false
	return &MacroAssembler{arch.IA32, f, in.Size32, &ia32Regs}
}

func (m *MacroAssembler) Arch() arch.Arch         { return m.arch }
func (m *MacroAssembler) Features() arch.Features { return m.features }

func (m *MacroAssembler) wordSize() int32 {
	return int32(m.arch.WordSize())
}

func (*MacroAssembler) AlignFunc(a *asm.Assembler) {
	a.Align(FuncAlignment, PaddingByte, 1)
}

func (m *MacroAssembler) EnterFrame(a *asm.Assembler) {
	in.PUSHo.Reg(a, in.RegBP)
	in.MOVmr.RegReg(a, m.size, in.RegSP, in.RegBP)
}

func (*MacroAssembler) LeaveFrame(a *asm.Assembler) {
	in.LEAVE.Simple(a)
}

func (*MacroAssembler) Ret(a *asm.Assembler) {
	in.RET.Simple(a)
}

func (*MacroAssembler) Trap(a *asm.Assembler) {
	in.INT3.Simple(a)
}

func (m *MacroAssembler) Push(a *asm.Assembler, r isa.Reg) {
	in.PUSHo.Reg(a, m.hw(r))
}

func (m *MacroAssembler) Pop(a *asm.Assembler, r isa.Reg) {
	in.POPo.Reg(a, m.hw(r))
}

func (m *MacroAssembler) MoveReg(a *asm.Assembler, dest, source isa.Reg) {
	in.MOVmr.RegReg(a, m.size, m.hw(source), m.hw(dest))
}

func (m *MacroAssembler) MoveImm(a *asm.Assembler, r isa.Reg, value int64) {
	switch {
	case value == int64(int32(value)):
		if m.size == in.Size64 {
			in.MOVi.RegImm32(a, m.size, m.hw(r), int32(value)) // Sign-extended.
		} else {
			in.MOV64i.RegImm32(a, m.hw(r), int32(value))
		}

	case m.size == in.Size64:
		in.MOV64i.RegImm64(a, m.hw(r), value)

	default:
		panic(errors.Errorf("immediate value does not fit in 32 bits: %d", value))
	}
}

func (m *MacroAssembler) LoadPool(a *asm.Assembler, r isa.Reg, index int) {
	m.LoadMem(a, r, isa.Pool, int32(index)*m.wordSize())
}

func (m *MacroAssembler) LoadMem(a *asm.Assembler, dest, base isa.Reg, offset int32) {
	in.MOV.RegMemDisp(a, m.size, m.hw(dest), m.hw(base), offset)
}

func (m *MacroAssembler) StoreMem(a *asm.Assembler, base isa.Reg, offset int32, source isa.Reg) {
	in.MOVmr.RegMemDisp(a, m.size, m.hw(source), m.hw(base), offset)
}

func (m *MacroAssembler) AddImm(a *asm.Assembler, r isa.Reg, value int32) {
	in.ADDi.RegImm32(a, m.size, m.hw(r), value)
}

func (m *MacroAssembler) AddReg(a *asm.Assembler, dest, source isa.Reg) {
	in.ADD.RegReg(a, m.size, m.hw(dest), m.hw(source))
}

func (m *MacroAssembler) CompareReg(a *asm.Assembler, x, y isa.Reg) {
	in.CMPmr.RegReg(a, m.size, m.hw(y), m.hw(x))
}

func (m *MacroAssembler) CompareImm(a *asm.Assembler, r isa.Reg, value int32) {
	in.CMPi.RegImm32(a, m.size, m.hw(r), value)
}

func (m *MacroAssembler) TestSmiTag(a *asm.Assembler, r isa.Reg) {
	in.TESTi.RegImm32(a, in.Size32, m.hw(r), 1)
}

func (*MacroAssembler) BranchIf(a *asm.Assembler, c isa.Cond, l *asm.Label) {
	addr := a.Addr
	disp := in.Jcccd.CondStub(a, conditions[c])
	a.AddSite(l, asm.Rel32, addr+int32(disp))
}

func (*MacroAssembler) Jump(a *asm.Assembler, l *asm.Label) {
	addr := a.Addr
	disp := in.JMPcd.Stub(a)
	a.AddSite(l, asm.Rel32, addr+int32(disp))
}

func (m *MacroAssembler) CallReg(a *asm.Assembler, r isa.Reg) {
	in.CALL.Reg(a, m.hw(r))
}

func (m *MacroAssembler) JumpReg(a *asm.Assembler, r isa.Reg) {
	in.JMP.Reg(a, m.hw(r))
}

func (m *MacroAssembler) ClearUpperVectors(a *asm.Assembler) {
	if m.features.AVX {
		in.VZEROUPPER.Simple(a)
	}
}

func (m *MacroAssembler) hw(r isa.Reg) in.R {
	return m.regs[r]
}
