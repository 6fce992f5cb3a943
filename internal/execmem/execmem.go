// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package execmem maps machine code into memory.
package execmem

import (
	"unsafe"

	"github.com/pkg/errors"
)

// Region holds a copy of machine code.  Its address doesn't change until
// it is released.
type Region struct {
	mem  []byte // Whole mapping.
	size int    // Code length.
}

// Alloc copies text into a new region.  The region is sealed against
// writing before it is returned.
func Alloc(text []byte) (*Region, error) {
	if len(text) == 0 {
		return nil, errors.New("empty code")
	}

	mem, err := mapCopy(text, RoundSize(len(text)))
	if err != nil {
		return nil, errors.Wrap(err, "mapping executable memory")
	}

	return &Region{mem, len(text)}, nil
}

// Bytes of the code.  The slice must not be modified.
func (r *Region) Bytes() []byte {
	return r.mem[:r.size:r.size]
}

// Addr of the first instruction.
func (r *Region) Addr() uintptr {
	return uintptr(unsafe.Pointer(&r.mem[0]))
}

// MappedSize is the code length rounded up to the page size.
func (r *Region) MappedSize() int {
	return len(r.mem)
}

// Release the memory.  The region must not be used afterwards.
func (r *Region) Release() error {
	mem := r.mem
	r.mem = nil
	r.size = 0
	if mem == nil {
		return nil
	}
	return unmap(mem)
}

// RoundSize up to the page size.
func RoundSize(n int) int {
	mask := PageSize() - 1
	return (n + mask) &^ mask
}
