// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runtimeEntry string

func TestBuilderDeduplicates(t *testing.T) {
	var b Builder

	i0 := b.AddObject("null")
	i1 := b.AddImmediate(42)
	i2 := b.AddNativeFunction(runtimeEntry("AllocateObject"))

	assert.Equal(t, i0, b.AddObject("null"))
	assert.Equal(t, i1, b.AddImmediate(42))
	assert.Equal(t, i2, b.AddNativeFunction(runtimeEntry("AllocateObject")))
	assert.Equal(t, 3, b.Len())

	// Same value with a different entry type is a different entry.
	i3 := b.AddNativeFunction("null")
	assert.NotEqual(t, i0, i3)

	p := b.Finalize()
	require.Equal(t, 4, p.Len())
	assert.Equal(t, Entry{Type: TaggedObject, Object: "null"}, p.At(i0))
	assert.Equal(t, Entry{Type: Immediate, Raw: 42}, p.At(i1))
	assert.Equal(t, NativeFunction, p.At(i2).Type)
}

func TestBuilderIsSingleUse(t *testing.T) {
	b := NewBuilder()
	b.AddImmediate(1)
	b.Finalize()

	assert.True(t, b.Consumed())
	assert.Panics(t, func() { b.AddImmediate(2) })
	assert.Panics(t, func() { b.Finalize() })
}

func TestNilPool(t *testing.T) {
	var p *Pool
	assert.Equal(t, 0, p.Len())
}

func TestByteOffset(t *testing.T) {
	assert.Equal(t, int32(24), ByteOffset(3, 8))
	assert.Equal(t, int32(12), ByteOffset(3, 4))
}
