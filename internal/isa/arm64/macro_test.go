// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arm64

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gate.computer/stubcode/arch"
	"gate.computer/stubcode/asm"
	"gate.computer/stubcode/internal/isa"
)

func words(b []byte) (ws []uint32) {
	for len(b) >= 4 {
		ws = append(ws, binary.LittleEndian.Uint32(b))
		b = b[4:]
	}
	return
}

func TestFrame(t *testing.T) {
	m := New(arch.Features{})
	a := asm.New(arch.ARM64, m.Features(), nil, 0)

	m.EnterFrame(a)
	m.LeaveFrame(a)
	m.Ret(a)

	assert.Equal(t, []uint32{0xa9bf7bfd, 0x910003fd, 0x910003bf, 0xa8c17bfd, 0xd65f03c0}, words(a.Bytes()))
}

func TestMoveImm(t *testing.T) {
	m := New(arch.Features{})
	a := asm.New(arch.ARM64, m.Features(), nil, 0)

	m.MoveImm(a, isa.Result, 0x1234)
	assert.Equal(t, 4, a.Len())

	m.MoveImm(a, isa.Result, -1)
	assert.Equal(t, 4+16, a.Len())
}

func TestMoveRegStackPointer(t *testing.T) {
	m := New(arch.Features{})
	a := asm.New(arch.ARM64, m.Features(), nil, 0)

	m.MoveReg(a, isa.Result, isa.SP)
	m.MoveReg(a, isa.Result, isa.Arg0)

	assert.Equal(t, []uint32{0x910003e0, 0xaa0103e0}, words(a.Bytes()))
}

func TestLoadPool(t *testing.T) {
	m := New(arch.Features{})
	a := asm.New(arch.ARM64, m.Features(), nil, 0)

	m.LoadPool(a, isa.Result, 2)
	assert.Equal(t, []uint32{0xf9400b60}, words(a.Bytes()))
}

func TestUnencodable(t *testing.T) {
	m := New(arch.Features{})
	a := asm.New(arch.ARM64, m.Features(), nil, 0)

	assert.Panics(t, func() { m.LoadMem(a, isa.Result, isa.Thread, 4) })
	assert.Panics(t, func() { m.LoadMem(a, isa.Result, isa.Thread, -8) })
	assert.Panics(t, func() { m.AddImm(a, isa.Result, 0x1000) })
	assert.Panics(t, func() { m.MoveImm(a, isa.SP, 0) })
}

func TestBranches(t *testing.T) {
	m := New(arch.Features{})
	a := asm.New(arch.ARM64, m.Features(), nil, 0)

	l := a.NewLabel()
	m.BranchIf(a, isa.NotEqual, l)
	m.Jump(a, l)
	a.Bind(l)
	m.Ret(a)
	m.AlignFunc(a)

	text, _ := a.Finalize()
	require.Len(t, text, 16)
	assert.Equal(t, []uint32{0x54000041, 0x14000001, 0xd65f03c0, PadWord}, words(text))
}
