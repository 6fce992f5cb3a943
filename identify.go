// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stubcode

import (
	"gate.computer/stubcode/code"
	"gate.computer/stubcode/object/stack"
	"gate.computer/stubcode/stub"
)

var _ stack.Identifier = (*StubCode)(nil)

// NameOfStub finds the shared stub which contains pc.  It doesn't allocate
// memory or take locks, so it may be called from a signal handler.
func (s *StubCode) NameOfStub(pc uintptr) (string, bool) {
	for i := range s.entries {
		if c := s.entries[i].Load(); c != nil && c.Contains(pc) {
			return c.Name(), true
		}
	}
	return "", false
}

// InInvocationStub reports whether pc is within the stub which enters
// compiled code from native code, or the one which enters it from the
// interpreter.
func (s *StubCode) InInvocationStub(pc uintptr, interpreted bool) bool {
	k := stub.InvokeCompiledCode
	if interpreted {
		k = stub.InvokeCompiledCodeFromBytecode
	}
	return s.inStub(k, pc)
}

func (s *StubCode) InJumpToFrameStub(pc uintptr) bool {
	return s.inStub(stub.JumpToFrame, pc)
}

func (s *StubCode) inStub(k stub.Kind, pc uintptr) bool {
	c := s.entries[k].Load()
	return c != nil && c.Contains(pc)
}

// LookupCode finds the shared or lazily generated stub which contains pc.
// Unlike NameOfStub it takes a read lock.
func (s *StubCode) LookupCode(pc uintptr) *code.Code {
	for i := range s.entries {
		if c := s.entries[i].Load(); c != nil && c.Contains(pc) {
			return c
		}
	}
	return s.index.Lookup(pc)
}

// Entries of the shared table in declaration order.  Absent entries are
// skipped.
func (s *StubCode) Entries() []*code.Code {
	var list []*code.Code
	for i := range s.entries {
		if c := s.entries[i].Load(); c != nil {
			list = append(list, c)
		}
	}
	return list
}

// Generated calls f for each lazily or explicitly generated stub in address
// order, until f returns false.
func (s *StubCode) Generated(f func(*code.Code) bool) {
	s.index.Ascend(f)
}
