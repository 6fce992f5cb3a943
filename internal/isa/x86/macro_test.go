// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x86

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gate.computer/stubcode/arch"
	"gate.computer/stubcode/asm"
	"gate.computer/stubcode/internal/isa"
)

func TestFrameAMD64(t *testing.T) {
	m := NewAMD64(arch.Features{})
	a := asm.New(m.Arch(), m.Features(), nil, 0)

	m.EnterFrame(a)
	m.LeaveFrame(a)
	m.Ret(a)

	assert.Equal(t, []byte{0x55, 0x48, 0x89, 0xe5, 0xc9, 0xc3}, a.Bytes())
}

func TestFrameIA32(t *testing.T) {
	m := NewIA32(arch.Features{})
	a := asm.New(m.Arch(), m.Features(), nil, 0)

	m.EnterFrame(a)
	m.LeaveFrame(a)
	m.Ret(a)

	assert.Equal(t, []byte{0x55, 0x89, 0xe5, 0xc9, 0xc3}, a.Bytes())
}

func TestMoveImm(t *testing.T) {
	m := NewAMD64(arch.Features{})
	a := asm.New(m.Arch(), m.Features(), nil, 0)

	m.MoveImm(a, isa.Result, -1)
	assert.Equal(t, []byte{0x48, 0xc7, 0xc0, 0xff, 0xff, 0xff, 0xff}, a.Bytes())

	m.MoveImm(a, isa.Result, 1<<40)
	assert.Equal(t, 7+10, a.Len())

	m32 := NewIA32(arch.Features{})
	b := asm.New(m32.Arch(), m32.Features(), nil, 0)
	m32.MoveImm(b, isa.Result, 5)
	assert.Equal(t, []byte{0xb8, 0x05, 0x00, 0x00, 0x00}, b.Bytes())
	assert.Panics(t, func() { m32.MoveImm(b, isa.Result, 1<<40) })
}

func TestLoadPool(t *testing.T) {
	m := NewAMD64(arch.Features{})
	a := asm.New(m.Arch(), m.Features(), nil, 0)
	m.LoadPool(a, isa.Result, 2)
	assert.Equal(t, []byte{0x49, 0x8b, 0x47, 0x10}, a.Bytes())

	m32 := NewIA32(arch.Features{})
	b := asm.New(m32.Arch(), m32.Features(), nil, 0)
	m32.LoadPool(b, isa.Result, 2)
	assert.Equal(t, []byte{0x8b, 0x47, 0x08}, b.Bytes())
}

func TestBranches(t *testing.T) {
	m := NewAMD64(arch.Features{})
	a := asm.New(m.Arch(), m.Features(), nil, 0)

	l := a.NewLabel()
	m.BranchIf(a, isa.Equal, l)
	m.Jump(a, l)
	a.Bind(l)
	m.Ret(a)
	m.AlignFunc(a)

	text, _ := a.Finalize()
	require.Len(t, text, 16)
	assert.Equal(t, []byte{0x0f, 0x84, 5, 0, 0, 0}, text[:6])
	assert.Equal(t, []byte{0xe9, 0, 0, 0, 0}, text[6:11])
	assert.Equal(t, byte(0xc3), text[11])
	assert.Equal(t, []byte{0xcc, 0xcc, 0xcc, 0xcc}, text[12:])
}

func TestClearUpperVectors(t *testing.T) {
	m := NewAMD64(arch.Features{AVX: true})
	a := asm.New(m.Arch(), m.Features(), nil, 0)
	m.ClearUpperVectors(a)
	assert.Equal(t, []byte{0xc5, 0xf8, 0x77}, a.Bytes())

	m32 := NewIA32(arch.Features{AVX: true})
	b := asm.New(m32.Arch(), m32.Features(), nil, 0)
	m32.ClearUpperVectors(b)
	assert.Empty(t, b.Bytes())
}
