// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package code contains finalized machine code objects and the executable
// memory heap which owns them.
package code

import (
	"fmt"

	"gate.computer/stubcode/internal/execmem"
	"gate.computer/stubcode/pool"
)

// Code is an immutable, finalized piece of machine code.  The zero value is
// not finalized.
type Code struct {
	name  string
	entry uintptr
	text  []byte
	pool  *pool.Pool

	region *execmem.Region
}

func (c *Code) Name() string { return c.name }

// EntryPoint is the address of the first instruction.
func (c *Code) EntryPoint() uintptr { return c.entry }

func (c *Code) Size() int { return len(c.text) }

// Contains reports whether pc is within [EntryPoint, EntryPoint+Size).
func (c *Code) Contains(pc uintptr) bool {
	return c.entry != 0 && pc >= c.entry && pc-c.entry < uintptr(len(c.text))
}

// Bytes of the machine code.  The slice must not be modified.
func (c *Code) Bytes() []byte { return c.text }

// Pool may be nil.
func (c *Code) Pool() *pool.Pool { return c.pool }

func (c *Code) IsFinalized() bool {
	return c != nil && c.entry != 0
}

func (c *Code) String() string {
	return fmt.Sprintf("%s@%#x+%d", c.name, c.entry, len(c.text))
}

// Finalizer copies generated code into executable memory.  Implementations
// must be safe for concurrent use.
type Finalizer interface {
	Finalize(name string, text []byte, p *pool.Pool) (*Code, error)
}
