// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package in

// R is a hardware register number.  31 is either the stack pointer or the
// zero register depending on the instruction.
type R uint8

const (
	RegFP   = R(29)
	RegLink = R(30)
	RegSP   = R(31)
	RegZero = R(31)
)

type (
	CondImm19        uint32
	Fixed            uint32
	Imm16            uint32
	Imm26            uint32
	Reg              uint32
	RegImm16Hw       uint32
	RegRegBitmask    uint32
	RegRegImm9       uint32
	RegRegImm12      uint32
	RegRegImm12Shift uint32
	RegRegRegImm7    uint32
	RegRegRegShift   uint32
)

func (op CondImm19) CondI19(cond Cond, imm uint32) uint32 {
	return uint32(op) | imm<<5 | uint32(cond)
}

func (op Fixed) Word() uint32 {
	return uint32(op)
}

func (op Imm16) I16(imm uint32) uint32 {
	return uint32(op) | imm<<5
}

func (op Imm26) I26(imm uint32) uint32 {
	return uint32(op) | imm
}

func (op Reg) Rn(rn R) uint32 {
	return uint32(op) | uint32(rn)<<5
}

func (op RegImm16Hw) RdI16Hw(rd R, imm, hw uint32) uint32 {
	return uint32(op) | hw<<21 | imm<<5 | uint32(rd)
}

// RdRnNImmrImms encodes a bitmask immediate.
func (op RegRegBitmask) RdRnNImmrImms(rd, rn R, n, immr, imms uint32) uint32 {
	return uint32(op) | n<<22 | immr<<16 | imms<<10 | uint32(rn)<<5 | uint32(rd)
}

func (op RegRegImm9) RtRnI9(rt, rn R, imm uint32) uint32 {
	return uint32(op) | imm<<12 | uint32(rn)<<5 | uint32(rt)
}

// RtRnI12 takes the scaled (word) offset.
func (op RegRegImm12) RtRnI12(rt, rn R, imm uint32) uint32 {
	return uint32(op) | imm<<10 | uint32(rn)<<5 | uint32(rt)
}

func (op RegRegImm12Shift) RdRnI12S(rd, rn R, imm, shift uint32) uint32 {
	return uint32(op) | shift<<22 | imm<<10 | uint32(rn)<<5 | uint32(rd)
}

// RtRt2RnI7 takes the scaled (word) offset.
func (op RegRegRegImm7) RtRt2RnI7(rt, rt2, rn R, imm uint32) uint32 {
	return uint32(op) | imm<<15 | uint32(rt2)<<10 | uint32(rn)<<5 | uint32(rt)
}

func (op RegRegRegShift) RdRnRmS(rd, rn, rm R, shift Shift, amount uint32) uint32 {
	return uint32(op) | uint32(shift) | uint32(rm)<<16 | amount<<10 | uint32(rn)<<5 | uint32(rd)
}
