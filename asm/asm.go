// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm provides the assembly context which stub emission callbacks
// write into.
package asm

import (
	"github.com/pkg/errors"

	"gate.computer/stubcode/arch"
	"gate.computer/stubcode/buffer"
	"gate.computer/stubcode/pool"
)

// DefaultMaxSize of a single stub's code.
const DefaultMaxSize = 16 * 1024

// EmitFunc generates one stub.  It may panic with buffer.ErrSizeLimit or
// another error value; Generate converts such panics into errors.
type EmitFunc func(a *Assembler)

// Assembler accumulates the instructions of a single stub.  Addr caches the
// current length of the code buffer.
type Assembler struct {
	Arch     arch.Arch
	Features arch.Features
	Addr     int32

	text   buffer.Limited
	pool   *pool.Builder
	labels []*Label
	done   bool
}

// New assembler for the architecture.  The pool builder receives the indirect
// constants; it is consumed by Finalize.
func New(a arch.Arch, f arch.Features, p *pool.Builder, maxSize int) *Assembler {
	if p == nil {
		p = pool.NewBuilder()
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Assembler{
		Arch:     a,
		Features: f,
		text:     buffer.MakeLimited(nil, maxSize),
		pool:     p,
	}
}

// Pool builder backing the indirect constant references.
func (a *Assembler) Pool() *pool.Builder {
	return a.pool
}

// Bytes emitted so far.
func (a *Assembler) Bytes() []byte {
	return a.text.Bytes()
}

func (a *Assembler) Len() int {
	return int(a.Addr)
}

func (a *Assembler) PutByte(x byte) {
	a.text.PutByte(x)
	a.Addr++
}

func (a *Assembler) PutBytes(b []byte) {
	copy(a.Extend(len(b)), b)
}

func (a *Assembler) PutUint32(x uint32) {
	a.text.PutUint32(x)
	a.Addr += 4
}

func (a *Assembler) PutUint64(x uint64) {
	a.text.PutUint64(x)
	a.Addr += 8
}

func (a *Assembler) Extend(n int) (b []byte) {
	b = a.text.Extend(n)
	a.Addr += int32(n)
	return
}

// Align the current address to a multiple of n using padding byte.  Padding
// is emitted in units of the instruction size (1 or 4 bytes).
func (a *Assembler) Align(n int, pad uint32, padSize int) {
	for int(a.Addr)&(n-1) != 0 {
		switch padSize {
		case 1:
			a.PutByte(byte(pad))

		case 4:
			a.PutUint32(pad)

		default:
			panic(errors.Errorf("invalid padding unit %d", padSize))
		}
	}
}

// NewLabel which is patched by Finalize.
func (a *Assembler) NewLabel() *Label {
	l := new(Label)
	a.labels = append(a.labels, l)
	return l
}

// Bind the label to the current address.
func (a *Assembler) Bind(l *Label) {
	if l.bound {
		panic(errors.New("label bound twice"))
	}
	l.addr = a.Addr
	l.bound = true
}

// AddSite registers a branch site which refers to the label.  For x86 the
// address is that of the displacement field; for arm64 it is that of the
// instruction.
func (a *Assembler) AddSite(l *Label, typ SiteType, addr int32) {
	l.addSite(typ, addr)
}

// Finalize patches branch sites and consumes the pool builder.  The
// assembler cannot be used afterwards.
func (a *Assembler) Finalize() (text []byte, p *pool.Pool) {
	if a.done {
		panic(errors.New("assembler finalized twice"))
	}
	a.done = true

	text = a.text.Bytes()
	for _, l := range a.labels {
		if len(l.sites) > 0 {
			l.patch(text)
		}
	}

	p = a.pool.Finalize()
	return
}
