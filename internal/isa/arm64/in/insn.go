// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package in encodes the 64-bit arm64 instructions used by stubs.
package in

const (
	// Conditional branch (immediate)
	Bc = CondImm19(0x2a<<25 | 0<<24 | 0<<4)

	// Exception generation
	BRK = Imm16(0xd4<<24 | 1<<21 | 0<<2 | 0<<0)

	// Hints
	NOP = Fixed(0xd503201f)

	// Unconditional branch (immediate)
	B  = Imm26(0<<31 | 5<<26)
	BL = Imm26(1<<31 | 5<<26)

	// Unconditional branch (register)
	BR  = Reg(0x6b<<25 | 0<<21 | 0x1f<<16 | 0<<10 | 0<<0)
	BLR = Reg(0x6b<<25 | 1<<21 | 0x1f<<16 | 0<<10 | 0<<0)
	RET = Reg(0x6b<<25 | 2<<21 | 0x1f<<16 | 0<<10 | 0<<0)

	// Load/store register (immediate post-indexed)
	LDRpost = RegRegImm9(1<<31 | 7<<27 | 0<<24 | 1<<22 | 0<<21 | 1<<10 | 1<<30)

	// Load/store register (immediate pre-indexed)
	STRpre = RegRegImm9(1<<31 | 7<<27 | 0<<24 | 0<<22 | 0<<21 | 3<<10 | 1<<30)

	// Load/store register (unsigned immediate)
	STR = RegRegImm12(1<<31 | 7<<27 | 1<<24 | 0<<22 | 1<<30)
	LDR = RegRegImm12(1<<31 | 7<<27 | 1<<24 | 1<<22 | 1<<30)

	// Load/store register pair (pre/post-indexed)
	STPpre  = RegRegRegImm7(2<<30 | 5<<27 | 3<<23 | 0<<22)
	LDPpost = RegRegRegImm7(2<<30 | 5<<27 | 1<<23 | 1<<22)

	// Add/subtract (immediate)
	ADDi  = RegRegImm12Shift(1<<31 | 0<<30 | 0<<29 | 0x11<<24)
	ADDSi = RegRegImm12Shift(1<<31 | 0<<30 | 1<<29 | 0x11<<24)
	SUBi  = RegRegImm12Shift(1<<31 | 1<<30 | 0<<29 | 0x11<<24)
	SUBSi = RegRegImm12Shift(1<<31 | 1<<30 | 1<<29 | 0x11<<24)

	// Move wide (immediate)
	MOVZ = RegImm16Hw(1<<31 | 2<<29 | 0x25<<23)
	MOVK = RegImm16Hw(1<<31 | 3<<29 | 0x25<<23)

	// Add/subtract (shifted register)
	ADDSs = RegRegRegShift(1<<31 | 0<<30 | 1<<29 | 0x0b<<24 | 0<<21)
	SUBSs = RegRegRegShift(1<<31 | 1<<30 | 1<<29 | 0x0b<<24 | 0<<21)

	// Logical (shifted register)
	ORRs = RegRegRegShift(1<<31 | 1<<29 | 0x0a<<24 | 0<<21)

	// Logical (immediate)
	ANDSi = RegRegBitmask(1<<31 | 3<<29 | 0x24<<23)
)

func Int7(i int32) uint32    { return uint32(i) & 0x7f }
func Int9(i int32) uint32    { return uint32(i) & 0x1ff }
func Uint12(i uint64) uint32 { return uint32(i) & 0xfff }
func Uint16(i uint64) uint32 { return uint32(i) & 0xffff }
func Int19(i int32) uint32   { return uint32(i) & 0x7ffff }
func Int26(i int32) uint32   { return uint32(i) & 0x3ffffff }

type Cond uint32

const (
	EQ = Cond(0x0) // equal to
	NE = Cond(0x1) // not equal to
	CS = Cond(0x2) // carry set
	CC = Cond(0x3) // carry clear
	MI = Cond(0x4) // minus, negative
	PL = Cond(0x5) // positive or zero
	VS = Cond(0x6) // signed overflow
	VC = Cond(0x7) // no signed overflow
	HI = Cond(0x8) // greater than (unsigned)
	LS = Cond(0x9) // less than or equal to (unsigned)
	GE = Cond(0xa) // greater than or equal to (signed)
	LT = Cond(0xb) // less than (signed)
	GT = Cond(0xc) // greater than (signed)
	LE = Cond(0xd) // less than or equal to (signed)

	HS = CS // greater than or equal to (unsigned)
	LO = CC // less than (unsigned)
)

type Shift uint32

const (
	LSL = Shift(0 << 22)
	LSR = Shift(1 << 22)
	ASR = Shift(2 << 22)
)
