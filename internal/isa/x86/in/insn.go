// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package in encodes the x86 instructions used by stubs, for both the 32-bit
// and the 64-bit instruction sets.
package in

const (
	// Opcode bits of some instructions are located at this offset in the ModRM
	// byte (ModRO part).
	opcodeBase = 3
)

const (
	ADD    = RM(0x03)
	CMPmr  = RM(0x39) // CMP r/m, r
	MOVmr  = RM(0x89) // MOV r/m, r
	MOV    = RM(0x8b)
	ADDi   = MI(0x81<<8 | 0<<opcodeBase)
	CMPi   = MI(0x81<<8 | 7<<opcodeBase)
	TESTi  = MI(0xf7<<8 | 0<<opcodeBase)
	MOVi   = MI(0xc7<<8 | 0<<opcodeBase)
	PUSHo  = O(0x50)
	POPo   = O(0x58)
	MOV64i = O(0xb8)
	NOP    = NP(0x90)
	RET    = NP(0xc3)
	LEAVE  = NP(0xc9)
	INT3   = NP(0xcc)
	CALLcd = Dd(0xe8)
	JMPcd  = Dd(0xe9)
	CALL   = M(0xff<<8 | 2<<opcodeBase)
	JMP    = M(0xff<<8 | 4<<opcodeBase)
	Jcccd  = D2d(0x0f<<8 | 0x80)

	VZEROUPPER = VEX3(0xc5<<16 | 0xf8<<8 | 0x77)
)

type Cond byte

const (
	CondO  = Cond(0x0)
	CondB  = Cond(0x2)
	CondAE = Cond(0x3)
	CondE  = Cond(0x4)
	CondNE = Cond(0x5)
	CondBE = Cond(0x6)
	CondA  = Cond(0x7)
	CondL  = Cond(0xc)
	CondGE = Cond(0xd)
	CondLE = Cond(0xe)
	CondG  = Cond(0xf)
)
