// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package code

import (
	"sync"

	"github.com/pkg/errors"

	werrors "gate.computer/stubcode/errors"
	"gate.computer/stubcode/internal/execmem"
	"gate.computer/stubcode/pool"
)

// Heap allocates a separate mapping for each code object.  The mappings
// stay alive until the heap is closed, so a Code returned by Finalize is
// valid until then.
type Heap struct {
	limit int64

	mu        sync.Mutex
	regions   []*execmem.Region
	allocated int64
	closed    bool
}

// NewHeap with the given limit on mapped bytes.  Zero means no limit.
func NewHeap(limit int64) *Heap {
	return &Heap{limit: limit}
}

// Finalize implements Finalizer.
func (h *Heap) Finalize(name string, text []byte, p *pool.Pool) (*Code, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, errors.New("code heap is closed")
	}

	if h.limit > 0 && h.allocated+int64(execmem.RoundSize(len(text))) > h.limit {
		return nil, werrors.ErrOutOfExecutableMemory
	}

	r, err := execmem.Alloc(text)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}

	h.regions = append(h.regions, r)
	h.allocated += int64(r.MappedSize())

	return &Code{
		name:  name,
		entry: r.Addr(),
		text:  r.Bytes(),
		pool:  p,

		region: r,
	}, nil
}

// Free the memory of a code object which was never published.  It panics if
// the code wasn't finalized by this heap.
func (h *Heap) Free(c *Code) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, r := range h.regions {
		if r == c.region {
			h.regions = append(h.regions[:i], h.regions[i+1:]...)
			h.allocated -= int64(r.MappedSize())
			c.region = nil
			return r.Release()
		}
	}

	panic(errors.Errorf("code %s doesn't belong to heap", c.name))
}

// Stats returns the number of mapped bytes and the limit.
func (h *Heap) Stats() (allocated, limit int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.allocated, h.limit
}

// Close releases all memory.  Code objects finalized by the heap must not
// be used afterwards.
func (h *Heap) Close() (first error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, r := range h.regions {
		if err := r.Release(); err != nil && first == nil {
			first = err
		}
	}

	h.regions = nil
	h.allocated = 0
	h.closed = true
	return
}

var _ Finalizer = (*Heap)(nil)
