// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gate.computer/stubcode/stub"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		s string
		a Arch
	}{
		{"amd64", AMD64},
		{"x86-64", AMD64},
		{"AArch64", ARM64},
		{"386", IA32},
		{"ia32", IA32},
	} {
		t.Run(tc.s, func(t *testing.T) {
			a, err := Parse(tc.s)
			require.NoError(t, err)
			assert.Equal(t, tc.a, a)
		})
	}

	_, err := Parse("mips")
	assert.Error(t, err)
}

func TestSupports(t *testing.T) {
	for _, a := range []Arch{AMD64, ARM64} {
		for _, k := range stub.Kinds() {
			assert.True(t, Supports(a, k), "%v %v", a, k)
		}
	}

	assert.False(t, Supports(IA32, stub.BuildMethodExtractor))
	assert.False(t, Supports(IA32, stub.InvokeCompiledCodeFromBytecode))
	assert.True(t, Supports(IA32, stub.InvokeCompiledCode))
	assert.True(t, Supports(IA32, stub.JumpToFrame))

	assert.False(t, Supports(Unknown, stub.JumpToFrame))
	assert.False(t, Supports(AMD64, stub.NumKinds))
}

func TestWordSize(t *testing.T) {
	assert.Equal(t, 8, AMD64.WordSize())
	assert.Equal(t, 8, ARM64.WordSize())
	assert.Equal(t, 4, IA32.WordSize())
}

func TestCrossFeatures(t *testing.T) {
	for _, a := range []Arch{AMD64, ARM64, IA32} {
		if a != Host() {
			assert.Equal(t, Features{}, HostFeatures(a))
		}
	}
}
