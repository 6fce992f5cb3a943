// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package codeindex maps addresses to code objects.
package codeindex

import (
	"sync"

	"github.com/google/btree"

	"gate.computer/stubcode/code"
)

type item struct {
	entry uintptr
	code  *code.Code
}

func less(a, b item) bool {
	return a.entry < b.entry
}

// Index of non-overlapping code objects ordered by entry point.
type Index struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[item]
}

func New() *Index {
	return &Index{tree: btree.NewG(16, less)}
}

func (x *Index) Insert(c *code.Code) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.tree.ReplaceOrInsert(item{c.EntryPoint(), c})
}

// Lookup the code object which contains pc.
func (x *Index) Lookup(pc uintptr) (found *code.Code) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	x.tree.DescendLessOrEqual(item{entry: pc}, func(i item) bool {
		if i.code.Contains(pc) {
			found = i.code
		}
		return false
	})
	return
}

func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return x.tree.Len()
}

// Ascend calls f in address order until it returns false.
func (x *Index) Ascend(f func(*code.Code) bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	x.tree.Ascend(func(i item) bool {
		return f(i.code)
	})
}

func (x *Index) Clear() {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.tree.Clear(false)
}
