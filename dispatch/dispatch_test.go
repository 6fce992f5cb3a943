// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gate.computer/stubcode/arch"
	"gate.computer/stubcode/asm"
	"gate.computer/stubcode/code"
	"gate.computer/stubcode/internal/stubgen"
	"gate.computer/stubcode/pool"
	"gate.computer/stubcode/stub"
)

type testTable struct {
	heap    *code.Heap
	backend *stubgen.Backend
	entries [stub.NumKinds]*code.Code
	puts    int
}

func newTestTable(t *testing.T) *testTable {
	b, err := stubgen.ForArch(arch.AMD64, arch.Features{})
	require.NoError(t, err)

	tt := &testTable{heap: code.NewHeap(0), backend: b}
	t.Cleanup(func() { tt.heap.Close() })
	return tt
}

func (tt *testTable) EntryAt(k stub.Kind) *code.Code { return tt.entries[k] }

func (tt *testTable) EntryAtPut(k stub.Kind, c *code.Code) {
	if tt.entries[k] != nil {
		panic("slot filled twice")
	}
	tt.entries[k] = c
	tt.puts++
}

func (tt *testTable) StubEmitter(k stub.Kind) (asm.EmitFunc, bool) {
	return tt.backend.StubEmitter(k)
}

func (tt *testTable) Generate(name string, pb *pool.Builder, emit asm.EmitFunc) (*code.Code, error) {
	a := asm.New(arch.AMD64, arch.Features{}, pb, 0)
	emit(a)
	text, p := a.Finalize()
	return tt.heap.Finalize(name, text, p)
}

func TestInitMissHandler(t *testing.T) {
	tt := newTestTable(t)
	ct := NewCacheTable(tt)

	assert.Nil(t, ct.MissHandler())
	require.NoError(t, ct.InitMissHandler())
	require.NoError(t, ct.InitMissHandler())

	assert.Equal(t, 1, tt.puts)
	require.NotNil(t, ct.MissHandler())
	assert.Equal(t, "MegamorphicMiss", ct.MissHandler().Name())
}

func TestCache(t *testing.T) {
	tt := newTestTable(t)
	ct := NewCacheTable(tt)
	require.NoError(t, ct.InitMissHandler())

	c := ct.Lookup("toString", 1)
	assert.Same(t, c, ct.Lookup("toString", 1))
	assert.NotSame(t, c, ct.Lookup("toString", 2))
	assert.Equal(t, 2, ct.Len())

	target, found := c.Lookup(7)
	assert.False(t, found)
	assert.Equal(t, ct.MissHandler().EntryPoint(), target)
	assert.Equal(t, target, c.MissTarget())

	c.Insert(9, 0x9000)
	c.Insert(7, 0x7000)
	target, found = c.Lookup(7)
	assert.True(t, found)
	assert.Equal(t, uintptr(0x7000), target)
	assert.Equal(t, 2, c.Len())

	assert.Equal(t, []uint64{7, 0x7000, 9, 0x9000, 0, 0}, c.Buckets())
	assert.Panics(t, func() { c.Insert(0, 1) })

	assert.Zero(t, c.Target())
}
