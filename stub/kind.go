// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stub enumerates the shared stub kinds.
package stub

import (
	"fmt"
)

// Kind identifies a statically enumerated stub.  The declaration order is
// the order in which shared stubs are generated.
type Kind int

const (
	GetCStackPointer = Kind(iota)
	JumpToFrame
	RunExceptionHandler
	DeoptForRewind
	WriteBarrier
	CallToRuntime
	CallNativeCFunction
	CallBootstrapNative
	CallStaticFunction
	CallClosureNoSuchMethod
	FixCallersTarget
	FixAllocationStubTarget
	InvokeCompiledCode
	InvokeCompiledCodeFromBytecode
	AllocateContext
	AllocateArray
	CloneContext
	Deoptimize
	DeoptimizeLazyFromReturn
	DeoptimizeLazyFromThrow
	StackOverflow
	NullError
	ICCallThroughCode
	MegamorphicCall
	MegamorphicMiss
	ZeroArgsUnoptimizedStaticCall
	OneArgUnoptimizedStaticCall
	TwoArgsUnoptimizedStaticCall
	OneArgCheckInlineCache
	TwoArgsCheckInlineCache
	SmiAddInlineCache
	SubtypeTestCache
	InterpretCall
	BuildMethodExtractor

	NumKinds
)

// Instantiation cache layout shared with generated code.
const (
	NoInstantiator           = 0
	InstantiationSizeInWords = 3
)

var names = [NumKinds]string{
	GetCStackPointer:               "GetCStackPointer",
	JumpToFrame:                    "JumpToFrame",
	RunExceptionHandler:            "RunExceptionHandler",
	DeoptForRewind:                 "DeoptForRewind",
	WriteBarrier:                   "WriteBarrier",
	CallToRuntime:                  "CallToRuntime",
	CallNativeCFunction:            "CallNativeCFunction",
	CallBootstrapNative:            "CallBootstrapNative",
	CallStaticFunction:             "CallStaticFunction",
	CallClosureNoSuchMethod:        "CallClosureNoSuchMethod",
	FixCallersTarget:               "FixCallersTarget",
	FixAllocationStubTarget:        "FixAllocationStubTarget",
	InvokeCompiledCode:             "InvokeCompiledCode",
	InvokeCompiledCodeFromBytecode: "InvokeCompiledCodeFromBytecode",
	AllocateContext:                "AllocateContext",
	AllocateArray:                  "AllocateArray",
	CloneContext:                   "CloneContext",
	Deoptimize:                     "Deoptimize",
	DeoptimizeLazyFromReturn:       "DeoptimizeLazyFromReturn",
	DeoptimizeLazyFromThrow:        "DeoptimizeLazyFromThrow",
	StackOverflow:                  "StackOverflow",
	NullError:                      "NullError",
	ICCallThroughCode:              "ICCallThroughCode",
	MegamorphicCall:                "MegamorphicCall",
	MegamorphicMiss:                "MegamorphicMiss",
	ZeroArgsUnoptimizedStaticCall:  "ZeroArgsUnoptimizedStaticCall",
	OneArgUnoptimizedStaticCall:    "OneArgUnoptimizedStaticCall",
	TwoArgsUnoptimizedStaticCall:   "TwoArgsUnoptimizedStaticCall",
	OneArgCheckInlineCache:         "OneArgCheckInlineCache",
	TwoArgsCheckInlineCache:        "TwoArgsCheckInlineCache",
	SmiAddInlineCache:              "SmiAddInlineCache",
	SubtypeTestCache:               "SubtypeTestCache",
	InterpretCall:                  "InterpretCall",
	BuildMethodExtractor:           "BuildMethodExtractor",
}

// Valid reports whether k is one of the enumerated kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < NumKinds
}

func (k Kind) String() string {
	if k.Valid() {
		return names[k]
	}
	return fmt.Sprintf("stub.Kind(%d)", int(k))
}

// Deferred kinds are not generated during table initialization.
// MegamorphicMiss is installed by the dispatch cache table, and
// BuildMethodExtractor is generated on first request.
func (k Kind) Deferred() bool {
	switch k {
	case MegamorphicMiss, BuildMethodExtractor:
		return true

	default:
		return false
	}
}

// Kinds returns all kinds in generation order.
func Kinds() []Kind {
	kinds := make([]Kind, NumKinds)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Parse a diagnostic name.
func Parse(name string) (Kind, bool) {
	for i, s := range names {
		if s == name {
			return Kind(i), true
		}
	}
	return 0, false
}
