// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package isa defines the instruction-level interface between stub recipes
// and the architecture-specific encoders.
package isa

import (
	"gate.computer/stubcode/arch"
	"gate.computer/stubcode/asm"
	"gate.computer/stubcode/stub"
)

// Reg is a register role.  Each architecture maps roles to hardware
// registers.
type Reg uint8

const (
	Result  = Reg(iota) // Return value.
	Scratch             // Clobbered freely; holds call targets.
	Arg0                // First argument.
	Arg1                // Second argument.
	Thread              // Current thread state; callee-saved.
	Pool                // Object pool of the executing code; callee-saved.
	SP                  // Stack pointer.
	FP                  // Frame pointer.

	NumRegs
)

type Cond uint8

const (
	Equal = Cond(iota)
	NotEqual
	Less           // Signed.
	GreaterOrEqual // Signed.
	Below          // Unsigned.
	AboveOrEqual   // Unsigned.
	Above          // Unsigned.
	Overflow       // Signed arithmetic overflow.

	NumConds
)

// MacroAssembler emits instructions for a single architecture.  Methods
// panic if an operand cannot be encoded.
type MacroAssembler interface {
	Arch() arch.Arch
	Features() arch.Features

	// AlignFunc pads the code to the function alignment with trap
	// instructions.
	AlignFunc(a *asm.Assembler)

	EnterFrame(a *asm.Assembler)
	LeaveFrame(a *asm.Assembler)
	Ret(a *asm.Assembler)
	Trap(a *asm.Assembler)

	Push(a *asm.Assembler, r Reg)
	Pop(a *asm.Assembler, r Reg)

	MoveReg(a *asm.Assembler, dest, source Reg)
	MoveImm(a *asm.Assembler, r Reg, value int64)

	// LoadPool loads the word at the given object pool index.
	LoadPool(a *asm.Assembler, r Reg, index int)
	LoadMem(a *asm.Assembler, dest, base Reg, offset int32)
	StoreMem(a *asm.Assembler, base Reg, offset int32, source Reg)

	AddImm(a *asm.Assembler, r Reg, value int32)
	AddReg(a *asm.Assembler, dest, source Reg)

	CompareReg(a *asm.Assembler, x, y Reg)
	CompareImm(a *asm.Assembler, r Reg, value int32)
	TestSmiTag(a *asm.Assembler, r Reg) // Sets NotEqual if r is not a small integer.

	BranchIf(a *asm.Assembler, c Cond, l *asm.Label)
	Jump(a *asm.Assembler, l *asm.Label)
	CallReg(a *asm.Assembler, r Reg)
	JumpReg(a *asm.Assembler, r Reg)

	// ClearUpperVectors before transitioning to native code.
	ClearUpperVectors(a *asm.Assembler)
}

// AllocationLayout describes the instances which a class allocation stub
// creates.
type AllocationLayout struct {
	ClassID          uint32
	InstanceSize     int // Bytes, including the header.
	NumTypeArguments int
}

// Backend provides the emission callbacks of an architecture.
type Backend interface {
	Arch() arch.Arch

	// StubEmitter returns false if the architecture doesn't support the
	// kind.
	StubEmitter(k stub.Kind) (asm.EmitFunc, bool)

	AllocationEmitter(layout AllocationLayout) asm.EmitFunc
}
