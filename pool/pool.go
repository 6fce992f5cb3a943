// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pool accumulates the constants which generated code addresses
// indirectly.
package pool

import (
	"fmt"
)

type EntryType uint8

const (
	TaggedObject = EntryType(iota) // Reference visited by the garbage collector.
	Immediate                      // Raw machine word.
	NativeFunction                 // Address of a runtime entry.
)

func (t EntryType) String() string {
	switch t {
	case TaggedObject:
		return "object"

	case Immediate:
		return "immediate"

	case NativeFunction:
		return "native"

	default:
		return fmt.Sprintf("pool.EntryType(%d)", t)
	}
}

type Entry struct {
	Type   EntryType
	Object any    // TaggedObject and NativeFunction
	Raw    uint64 // Immediate
}

// Builder is a single-use accumulator.  The zero value is ready to use.
type Builder struct {
	entries  []Entry
	objects  map[any]int
	raws     map[uint64]int
	consumed bool
}

func NewBuilder() *Builder {
	return new(Builder)
}

func (b *Builder) mustBeOpen() {
	if b.consumed {
		panic("object pool builder used after finalization")
	}
}

// AddObject returns the index of the object, appending it if it isn't
// already in the pool.  The object must be comparable.
func (b *Builder) AddObject(x any) int {
	return b.addObject(TaggedObject, x)
}

// AddNativeFunction returns the index of a runtime entry reference.
func (b *Builder) AddNativeFunction(x any) int {
	return b.addObject(NativeFunction, x)
}

func (b *Builder) addObject(t EntryType, x any) int {
	b.mustBeOpen()

	key := objectKey{t, x}
	if i, found := b.objects[key]; found {
		return i
	}
	if b.objects == nil {
		b.objects = make(map[any]int)
	}

	i := len(b.entries)
	b.entries = append(b.entries, Entry{Type: t, Object: x})
	b.objects[key] = i
	return i
}

type objectKey struct {
	t EntryType
	x any
}

// AddImmediate returns the index of a raw word.
func (b *Builder) AddImmediate(x uint64) int {
	b.mustBeOpen()

	if i, found := b.raws[x]; found {
		return i
	}
	if b.raws == nil {
		b.raws = make(map[uint64]int)
	}

	i := len(b.entries)
	b.entries = append(b.entries, Entry{Type: Immediate, Raw: x})
	b.raws[x] = i
	return i
}

// Len is the number of entries added so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Finalize consumes the builder.
func (b *Builder) Finalize() *Pool {
	b.mustBeOpen()
	b.consumed = true

	p := &Pool{entries: b.entries}
	b.entries = nil
	b.objects = nil
	b.raws = nil
	return p
}

// Consumed reports whether Finalize has been called.
func (b *Builder) Consumed() bool {
	return b.consumed
}

// Pool is an immutable object pool.
type Pool struct {
	entries []Entry
}

// Len doesn't panic for nil pool.
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

func (p *Pool) At(i int) Entry {
	return p.entries[i]
}

// ByteOffset of an entry relative to the start of the pool's data, for word
// size w.
func ByteOffset(index, w int) int32 {
	return int32(index * w)
}
