// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package in

import (
	"encoding/binary"
)

// R is a hardware register number.
type R byte

const (
	RegAX = R(0)
	RegCX = R(1)
	RegDX = R(2)
	RegBX = R(3)
	RegSP = R(4)
	RegBP = R(5)
	RegSI = R(6)
	RegDI = R(7)
)

// Text is the destination of encoded instructions.
type Text interface {
	Extend(n int) []byte
}

type output struct {
	buf    [16]byte
	offset uint8
}

func (o *output) len() int           { return int(o.offset) }
func (o *output) copy(target []byte) { copy(target, o.buf[:o.offset]) }

func (o *output) put(text Text) {
	o.copy(text.Extend(o.len()))
}

func (o *output) byte(b byte) {
	o.buf[o.offset] = b
	o.offset++
}

// word appends the two bytes of a big-endian word.
func (o *output) word(w uint16) {
	binary.BigEndian.PutUint16(o.buf[o.offset:], w)
	o.offset += 2
}

func (o *output) rexIf(wrxb rexWRXB) {
	o.buf[o.offset] = Rex | byte(wrxb)
	o.offset += bit(wrxb != 0)
}

func (o *output) mod(mod Mod, ro ModRO, rm ModRM) {
	o.buf[o.offset] = byte(mod) | byte(ro) | byte(rm)
	o.offset++
}

func (o *output) int(val int32, size uint8) {
	// Little-endian byte order works for any size
	binary.LittleEndian.PutUint32(o.buf[o.offset:], uint32(val))
	o.offset += size
}

func (o *output) int32(val int32) {
	o.int(val, 4)
}

func (o *output) int64(val int64) {
	binary.LittleEndian.PutUint64(o.buf[o.offset:], uint64(val))
	o.offset += 8
}

func (o *output) memory(ro ModRO, base R, disp int32) {
	mod, size := dispModSize(disp)
	if base&7 == RegBP && mod == ModMem {
		mod, size = ModMemDisp8, 1 // [rbp] and [r13] require displacement
	}

	if base&7 == RegSP {
		o.mod(mod, ro, ModRMSIB)
		o.byte(sibBaseOnly)
	} else {
		o.mod(mod, ro, regRM(base))
	}
	o.int(disp, size)
}

// NP

type NP byte

func (op NP) Simple(text Text) {
	text.Extend(1)[0] = byte(op)
}

// RM

type RM byte

func (op RM) RegReg(text Text, s Size, r, rm R) {
	var o output
	o.rexIf(sizeRexW(s) | regRexR(r) | regRexB(rm))
	o.byte(byte(op))
	o.mod(ModReg, regRO(r), regRM(rm))
	o.put(text)
}

func (op RM) RegMemDisp(text Text, s Size, r, base R, disp int32) {
	var o output
	o.rexIf(sizeRexW(s) | regRexR(r) | regRexB(base))
	o.byte(byte(op))
	o.memory(regRO(r), base, disp)
	o.put(text)
}

// MI

type MI uint16

func (op MI) opcode() byte { return byte(op >> 8) }
func (op MI) ro() ModRO    { return ModRO(op) }

func (op MI) RegImm32(text Text, s Size, rm R, val int32) {
	var o output
	o.rexIf(sizeRexW(s) | regRexB(rm))
	o.byte(op.opcode())
	o.mod(ModReg, op.ro(), regRM(rm))
	o.int32(val)
	o.put(text)
}

// O

type O byte

// Reg encodes a single-register instruction without operand size prefix.
func (op O) Reg(text Text, r R) {
	var o output
	o.rexIf(regRexB(r))
	o.byte(byte(op) + byte(r&7))
	o.put(text)
}

// RegImm64 is MOV r64, imm64.
func (op O) RegImm64(text Text, r R, val int64) {
	var o output
	o.rexIf(RexW | regRexB(r))
	o.byte(byte(op) + byte(r&7))
	o.int64(val)
	o.put(text)
}

// RegImm32 is MOV r32, imm32.
func (op O) RegImm32(text Text, r R, val int32) {
	var o output
	o.rexIf(regRexB(r))
	o.byte(byte(op) + byte(r&7))
	o.int32(val)
	o.put(text)
}

// M

type M uint16

func (op M) opcode() byte { return byte(op >> 8) }
func (op M) ro() ModRO    { return ModRO(op) }

// Reg encodes an instruction with default 64-bit operand size in long mode.
func (op M) Reg(text Text, rm R) {
	var o output
	o.rexIf(regRexB(rm))
	o.byte(op.opcode())
	o.mod(ModReg, op.ro(), regRM(rm))
	o.put(text)
}

// Dd

type Dd byte

// Stub writes the opcode and a zero displacement, and returns the offset of
// the displacement from the start of the instruction.
func (op Dd) Stub(text Text) (dispOffset int) {
	b := text.Extend(5)
	b[0] = byte(op)
	binary.LittleEndian.PutUint32(b[1:], 0)
	return 1
}

// D2d

type D2d uint16

func (op D2d) CondStub(text Text, cond Cond) (dispOffset int) {
	var o output
	o.word(uint16(op) | uint16(cond))
	o.int32(0)
	o.put(text)
	return 2
}

// VEX3 is a fixed instruction with a VEX prefix.

type VEX3 uint32

func (op VEX3) Simple(text Text) {
	b := text.Extend(3)
	b[0] = byte(op >> 16)
	b[1] = byte(op >> 8)
	b[2] = byte(op)
}
