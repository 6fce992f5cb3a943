// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stack classifies call stack frames which return into stubs.
package stack

import (
	"encoding/binary"
	"fmt"
)

// Identifier is implemented by the stub table.
type Identifier interface {
	NameOfStub(pc uintptr) (string, bool)
	InInvocationStub(pc uintptr, interpreted bool) bool
	InJumpToFrameStub(pc uintptr) bool
}

type FrameKind uint8

const (
	ManagedFrame     = FrameKind(iota) // Return address outside stubs.
	InvocationFrame                    // Entry from native code.
	InterpreterFrame                   // Entry from the interpreter.
	JumpToFrameFrame                   // Exception or rewind resumption.
	StubFrame                          // Other shared stub.
)

func (k FrameKind) String() string {
	switch k {
	case ManagedFrame:
		return "managed"

	case InvocationFrame:
		return "invocation"

	case InterpreterFrame:
		return "interpreter"

	case JumpToFrameFrame:
		return "jump-to-frame"

	case StubFrame:
		return "stub"

	default:
		return fmt.Sprintf("stack.FrameKind(%d)", k)
	}
}

type Frame struct {
	RetAddr uintptr
	Kind    FrameKind
	Stub    string // Name of a shared stub.
}

// Classify return addresses, innermost first.  The walk stops after the
// first invocation frame, which is the outermost transition into managed
// code.
func Classify(retAddrs []uintptr, id Identifier) (frames []Frame) {
	for _, pc := range retAddrs {
		f := Frame{RetAddr: pc}
		name, found := id.NameOfStub(pc)

		switch {
		case id.InInvocationStub(pc, false):
			f.Kind = InvocationFrame

		case id.InInvocationStub(pc, true):
			f.Kind = InterpreterFrame

		case id.InJumpToFrameStub(pc):
			f.Kind = JumpToFrameFrame

		case found:
			f.Kind = StubFrame
		}

		if found {
			f.Stub = name
		}

		frames = append(frames, f)

		if f.Kind == InvocationFrame || f.Kind == InterpreterFrame {
			break
		}
	}

	return
}

// Trace decodes little-endian return addresses of the given word size from
// stack memory and classifies them.
func Trace(stack []byte, wordSize int, id Identifier) ([]Frame, error) {
	if wordSize != 4 && wordSize != 8 {
		return nil, fmt.Errorf("invalid word size %d", wordSize)
	}
	if n := len(stack); n == 0 || n%wordSize != 0 {
		return nil, fmt.Errorf("invalid stack size %d", n)
	}

	retAddrs := make([]uintptr, 0, len(stack)/wordSize)
	for len(stack) > 0 {
		if wordSize == 8 {
			retAddrs = append(retAddrs, uintptr(binary.LittleEndian.Uint64(stack)))
		} else {
			retAddrs = append(retAddrs, uintptr(binary.LittleEndian.Uint32(stack)))
		}
		stack = stack[wordSize:]
	}

	return Classify(retAddrs, id), nil
}
