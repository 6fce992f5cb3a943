// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package class

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClass(t *testing.T) {
	c := New(42, "Point", 24, 0)
	assert.Equal(t, ID(42), c.ID())
	assert.Equal(t, "Point", c.Name())
	assert.Equal(t, 24, c.InstanceSize())
	assert.Zero(t, c.NumTypeArguments())

	assert.False(t, c.IsFinalized())
	c.Finalize()
	assert.True(t, c.IsFinalized())
}
