// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stubcode

import (
	"github.com/pkg/errors"

	"gate.computer/stubcode/asm"
	"gate.computer/stubcode/code"
	"gate.computer/stubcode/dispatch"
	"gate.computer/stubcode/pool"
	"gate.computer/stubcode/stub"
)

// privileged gives the dispatch collaborator write access to the table.
type privileged struct {
	s *StubCode
}

func (p privileged) EntryAt(k stub.Kind) *code.Code {
	return p.s.Entry(k)
}

func (p privileged) EntryAtPut(k stub.Kind, c *code.Code) {
	if !k.Valid() {
		panic(errors.Errorf("invalid stub kind: %v", k))
	}
	if !c.IsFinalized() {
		panic(errors.Errorf("unfinalized code for stub %v", k))
	}
	if !p.s.entries[k].CompareAndSwap(nil, c) {
		panic(errors.Errorf("stub table slot %v filled twice", k))
	}
}

func (p privileged) StubEmitter(k stub.Kind) (asm.EmitFunc, bool) {
	return p.s.backend.StubEmitter(k)
}

func (p privileged) Generate(name string, pb *pool.Builder, emit asm.EmitFunc) (*code.Code, error) {
	return p.s.generate(name, pb, emit, modeShared)
}

var _ dispatch.Table = privileged{}
