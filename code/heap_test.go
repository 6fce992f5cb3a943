// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package code

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	werrors "gate.computer/stubcode/errors"
	"gate.computer/stubcode/internal/execmem"
	"gate.computer/stubcode/pool"
)

func TestFinalize(t *testing.T) {
	h := NewHeap(0)
	defer h.Close()

	p := new(pool.Builder)
	p.AddImmediate(42)

	c, err := h.Finalize("Test", []byte{1, 2, 3, 4}, p.Finalize())
	require.NoError(t, err)

	assert.True(t, c.IsFinalized())
	assert.Equal(t, "Test", c.Name())
	assert.Equal(t, 4, c.Size())
	assert.Equal(t, []byte{1, 2, 3, 4}, c.Bytes())
	assert.Equal(t, 1, c.Pool().Len())

	assert.False(t, c.Contains(c.EntryPoint()-1))
	assert.True(t, c.Contains(c.EntryPoint()))
	assert.True(t, c.Contains(c.EntryPoint()+3))
	assert.False(t, c.Contains(c.EntryPoint()+4))

	allocated, limit := h.Stats()
	assert.Equal(t, int64(execmem.PageSize()), allocated)
	assert.Zero(t, limit)
}

func TestDisjoint(t *testing.T) {
	h := NewHeap(0)
	defer h.Close()

	a, err := h.Finalize("A", []byte{0xc3}, nil)
	require.NoError(t, err)
	b, err := h.Finalize("B", []byte{0xc3}, nil)
	require.NoError(t, err)

	assert.NotEqual(t, a.EntryPoint(), b.EntryPoint())
	assert.False(t, a.Contains(b.EntryPoint()))
	assert.False(t, b.Contains(a.EntryPoint()))
}

func TestZeroCode(t *testing.T) {
	var c Code
	assert.False(t, c.IsFinalized())
	assert.False(t, c.Contains(0))

	var nilCode *Code
	assert.False(t, nilCode.IsFinalized())
}

func TestLimit(t *testing.T) {
	h := NewHeap(int64(execmem.PageSize()))
	defer h.Close()

	_, err := h.Finalize("A", []byte{0xc3}, nil)
	require.NoError(t, err)

	_, err = h.Finalize("B", []byte{0xc3}, nil)
	assert.Equal(t, werrors.ErrOutOfExecutableMemory, err)
}

func TestClose(t *testing.T) {
	h := NewHeap(0)

	_, err := h.Finalize("A", []byte{0xc3}, nil)
	require.NoError(t, err)
	assert.NoError(t, h.Close())

	allocated, _ := h.Stats()
	assert.Zero(t, allocated)

	_, err = h.Finalize("B", []byte{0xc3}, nil)
	assert.Error(t, err)
}

func TestFree(t *testing.T) {
	h := NewHeap(int64(execmem.PageSize()))
	defer h.Close()

	a, err := h.Finalize("A", []byte{0xc3}, nil)
	require.NoError(t, err)
	require.NoError(t, h.Free(a))

	allocated, _ := h.Stats()
	assert.Zero(t, allocated)
	assert.Panics(t, func() { h.Free(a) })

	_, err = h.Finalize("B", []byte{0xc3}, nil)
	assert.NoError(t, err)
}
