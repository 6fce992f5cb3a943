// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package class provides a minimal class description for allocation stub
// generation.
package class

import (
	"sync/atomic"
)

// ID of a class.  Zero is reserved.
type ID uint32

// Class is safe for concurrent use.
type Class struct {
	id               ID
	name             string
	instanceSize     int
	numTypeArguments int
	finalized        atomic.Bool
}

// New unfinalized class.  Instance size is in bytes, including the object
// header.
func New(id ID, name string, instanceSize, numTypeArguments int) *Class {
	return &Class{
		id:               id,
		name:             name,
		instanceSize:     instanceSize,
		numTypeArguments: numTypeArguments,
	}
}

func (c *Class) ID() ID                { return c.id }
func (c *Class) Name() string          { return c.name }
func (c *Class) InstanceSize() int     { return c.instanceSize }
func (c *Class) NumTypeArguments() int { return c.numTypeArguments }
func (c *Class) IsFinalized() bool     { return c.finalized.Load() }

// Finalize the layout.  Allocation stubs can be generated only for
// finalized classes.
func (c *Class) Finalize() {
	c.finalized.Store(true)
}
