// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dispatch maintains megamorphic call caches.  It is the component
// which installs the deferred megamorphic miss handler into the stub table.
package dispatch

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"gate.computer/stubcode/asm"
	"gate.computer/stubcode/class"
	"gate.computer/stubcode/code"
	"gate.computer/stubcode/pool"
	"gate.computer/stubcode/stub"
)

// Table is the privileged view of the stub table.
type Table interface {
	EntryAt(k stub.Kind) *code.Code

	// EntryAtPut panics if the slot is already filled.
	EntryAtPut(k stub.Kind, c *code.Code)

	StubEmitter(k stub.Kind) (asm.EmitFunc, bool)
	Generate(name string, pb *pool.Builder, emit asm.EmitFunc) (*code.Code, error)
}

type cacheKey struct {
	selector       string
	argsDescriptor uint64
}

// CacheTable holds one cache per call selector.
type CacheTable struct {
	table Table

	mu     sync.Mutex
	caches map[cacheKey]*Cache
}

func NewCacheTable(t Table) *CacheTable {
	return &CacheTable{
		table:  t,
		caches: make(map[cacheKey]*Cache),
	}
}

// InitMissHandler generates and installs the miss handler stub unless it
// has already been installed.
func (ct *CacheTable) InitMissHandler() error {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	if ct.table.EntryAt(stub.MegamorphicMiss) != nil {
		return nil
	}

	emit, ok := ct.table.StubEmitter(stub.MegamorphicMiss)
	if !ok {
		return errors.New("megamorphic miss handler is not supported by architecture")
	}

	c, err := ct.table.Generate(stub.MegamorphicMiss.String(), nil, emit)
	if err != nil {
		return err
	}

	ct.table.EntryAtPut(stub.MegamorphicMiss, c)
	return nil
}

// MissHandler is nil until InitMissHandler has succeeded.
func (ct *CacheTable) MissHandler() *code.Code {
	return ct.table.EntryAt(stub.MegamorphicMiss)
}

// Lookup finds or creates the cache of a call selector.
func (ct *CacheTable) Lookup(selector string, argsDescriptor uint64) *Cache {
	key := cacheKey{selector, argsDescriptor}

	ct.mu.Lock()
	defer ct.mu.Unlock()

	c := ct.caches[key]
	if c == nil {
		c = &Cache{
			Selector:       selector,
			ArgsDescriptor: argsDescriptor,
			table:          ct.table,
			targets:        make(map[class.ID]uintptr),
		}
		ct.caches[key] = c
	}
	return c
}

func (ct *CacheTable) Len() int {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	return len(ct.caches)
}

// Cache maps receiver classes to call targets for one selector.
type Cache struct {
	Selector       string
	ArgsDescriptor uint64

	table Table

	mu      sync.RWMutex
	targets map[class.ID]uintptr
}

// Insert or replace the target of a receiver class.
func (c *Cache) Insert(id class.ID, target uintptr) {
	if id == 0 {
		panic("class id zero terminates the bucket array")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.targets[id] = target
}

// Lookup returns the miss handler's entry point if the class is not
// cached.
func (c *Cache) Lookup(id class.ID) (target uintptr, found bool) {
	c.mu.RLock()
	target, found = c.targets[id]
	c.mu.RUnlock()

	if !found {
		target = c.MissTarget()
	}
	return
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.targets)
}

// Target is the entry point which call sites using the cache are patched
// to.  It is zero if the stub table is not initialized.
func (c *Cache) Target() uintptr {
	return entryPoint(c.table.EntryAt(stub.MegamorphicCall))
}

// MissTarget is zero if the miss handler is not installed.
func (c *Cache) MissTarget() uintptr {
	return entryPoint(c.table.EntryAt(stub.MegamorphicMiss))
}

// Buckets in the layout probed by the megamorphic call stub: (class id,
// target) word pairs ordered by class id, terminated by a zero pair.
func (c *Cache) Buckets() []uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]class.ID, 0, len(c.targets))
	for id := range c.targets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	buckets := make([]uint64, 0, 2*len(ids)+2)
	for _, id := range ids {
		buckets = append(buckets, uint64(id), uint64(c.targets[id]))
	}
	return append(buckets, 0, 0)
}

func entryPoint(c *code.Code) uintptr {
	if c == nil {
		return 0
	}
	return c.EntryPoint()
}
