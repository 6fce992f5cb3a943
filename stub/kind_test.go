// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamesAreUnique(t *testing.T) {
	seen := make(map[string]Kind)

	for _, k := range Kinds() {
		name := k.String()
		require.NotEmpty(t, name, "kind %d", int(k))

		if prev, found := seen[name]; found {
			t.Fatalf("%v and %v share name %q", int(prev), int(k), name)
		}
		seen[name] = k

		parsed, ok := Parse(name)
		require.True(t, ok)
		assert.Equal(t, k, parsed)
	}
}

func TestInvalidKind(t *testing.T) {
	assert.False(t, NumKinds.Valid())
	assert.False(t, Kind(-1).Valid())
	assert.Equal(t, "stub.Kind(-1)", Kind(-1).String())

	_, ok := Parse("NoSuchStub")
	assert.False(t, ok)
}

func TestDeferred(t *testing.T) {
	var deferred []Kind
	for _, k := range Kinds() {
		if k.Deferred() {
			deferred = append(deferred, k)
		}
	}
	assert.Equal(t, []Kind{MegamorphicMiss, BuildMethodExtractor}, deferred)
}

func TestUnoptimizedStaticCall(t *testing.T) {
	for n, expect := range []Kind{
		ZeroArgsUnoptimizedStaticCall,
		OneArgUnoptimizedStaticCall,
		TwoArgsUnoptimizedStaticCall,
	} {
		assert.Equal(t, expect, UnoptimizedStaticCall(n))
	}

	assert.Panics(t, func() { UnoptimizedStaticCall(-1) })
	assert.Panics(t, func() { UnoptimizedStaticCall(MaxArgsTested + 1) })
}

func TestCheckInlineCache(t *testing.T) {
	assert.Equal(t, OneArgCheckInlineCache, CheckInlineCache(1))
	assert.Equal(t, TwoArgsCheckInlineCache, CheckInlineCache(2))
	assert.Panics(t, func() { CheckInlineCache(0) })
}
