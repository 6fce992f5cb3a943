// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gate.computer/stubcode/arch"
	"gate.computer/stubcode/buffer"
	"gate.computer/stubcode/pool"
)

func TestRel32ForwardAndBackward(t *testing.T) {
	a := New(arch.AMD64, arch.Features{}, nil, 0)

	back := a.NewLabel()
	fwd := a.NewLabel()

	a.Bind(back)
	a.PutByte(0x90)

	a.PutByte(0xe9) // jmp fwd
	a.AddSite(fwd, Rel32, a.Addr)
	a.PutUint32(0)

	a.PutByte(0xe9) // jmp back
	a.AddSite(back, Rel32, a.Addr)
	a.PutUint32(0)

	a.Bind(fwd)
	a.PutByte(0xc3)

	text, p := a.Finalize()
	require.Len(t, text, 12)
	assert.Equal(t, 0, p.Len())

	assert.Equal(t, int32(5), int32(binary.LittleEndian.Uint32(text[2:]))) // 6 -> 11
	assert.Equal(t, int32(-11), int32(binary.LittleEndian.Uint32(text[7:]))) // 11 -> 0
}

func TestRel8(t *testing.T) {
	a := New(arch.AMD64, arch.Features{}, nil, 0)
	l := a.NewLabel()

	a.PutByte(0xeb)
	a.AddSite(l, Rel8, a.Addr)
	a.PutByte(0)
	a.PutByte(0x90)
	a.Bind(l)

	text, _ := a.Finalize()
	assert.Equal(t, []byte{0xeb, 1, 0x90}, text)
}

func TestBranch26(t *testing.T) {
	a := New(arch.ARM64, arch.Features{}, nil, 0)
	l := a.NewLabel()

	a.AddSite(l, Branch26, a.Addr)
	a.PutUint32(0x14000000) // b
	a.PutUint32(0xd503201f) // nop
	a.Bind(l)
	a.PutUint32(0xd65f03c0) // ret

	text, _ := a.Finalize()
	assert.Equal(t, uint32(0x14000002), binary.LittleEndian.Uint32(text))
}

func TestBranch19(t *testing.T) {
	a := New(arch.ARM64, arch.Features{}, nil, 0)
	l := a.NewLabel()

	a.Bind(l)
	a.PutUint32(0xd503201f) // nop
	a.AddSite(l, Branch19, a.Addr)
	a.PutUint32(0x54000000) // b.eq

	text, _ := a.Finalize()
	assert.Equal(t, uint32(0x54000000|0x7ffff<<5), binary.LittleEndian.Uint32(text[4:]))
}

func TestUnboundLabel(t *testing.T) {
	a := New(arch.AMD64, arch.Features{}, nil, 0)
	l := a.NewLabel()
	a.AddSite(l, Rel32, a.Addr)
	a.PutUint32(0)

	assert.Panics(t, func() { a.Finalize() })
}

func TestAlign(t *testing.T) {
	a := New(arch.AMD64, arch.Features{}, nil, 0)
	a.PutByte(0xc3)
	a.Align(8, 0xcc, 1)
	assert.Equal(t, []byte{0xc3, 0xcc, 0xcc, 0xcc, 0xcc, 0xcc, 0xcc, 0xcc}, a.Bytes())

	b := New(arch.ARM64, arch.Features{}, nil, 0)
	b.PutUint32(0xd65f03c0)
	b.Align(16, 0xd4200000, 4)
	assert.Equal(t, 16, b.Len())
}

func TestSizeLimit(t *testing.T) {
	a := New(arch.AMD64, arch.Features{}, nil, 4)
	a.PutUint32(0)
	assert.PanicsWithValue(t, buffer.ErrSizeLimit, func() { a.PutByte(0) })
}

func TestFinalizeConsumesPool(t *testing.T) {
	b := pool.NewBuilder()
	a := New(arch.AMD64, arch.Features{}, b, 0)
	a.Pool().AddImmediate(7)

	_, p := a.Finalize()
	assert.Equal(t, 1, p.Len())
	assert.True(t, b.Consumed())
	assert.Panics(t, func() { a.Finalize() })
}
