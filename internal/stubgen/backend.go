// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stubgen contains the stub recipes, expressed in terms of the
// architecture-neutral macro assembler.
package stubgen

import (
	"github.com/pkg/errors"

	"gate.computer/stubcode/arch"
	"gate.computer/stubcode/asm"
	"gate.computer/stubcode/internal/isa"
	"gate.computer/stubcode/internal/isa/arm64"
	"gate.computer/stubcode/internal/isa/x86"
	"gate.computer/stubcode/stub"
)

type recipe func(g *gen, a *asm.Assembler)

var recipes = [stub.NumKinds]recipe{
	stub.GetCStackPointer:               (*gen).getCStackPointer,
	stub.JumpToFrame:                    (*gen).jumpToFrame,
	stub.RunExceptionHandler:            (*gen).runExceptionHandler,
	stub.DeoptForRewind:                 (*gen).deoptForRewind,
	stub.WriteBarrier:                   (*gen).writeBarrier,
	stub.CallToRuntime:                  (*gen).callToRuntime,
	stub.CallNativeCFunction:            wrappedCall(RuntimeNativeWrapper),
	stub.CallBootstrapNative:            wrappedCall(RuntimeBootstrapNativeWrapper),
	stub.CallStaticFunction:             patchingCall(RuntimePatchStaticCall),
	stub.CallClosureNoSuchMethod:        throwingCall(RuntimeInvokeClosureNSM),
	stub.FixCallersTarget:               patchingCall(RuntimeFixCallersTarget),
	stub.FixAllocationStubTarget:        patchingCall(RuntimeFixAllocationStub),
	stub.InvokeCompiledCode:             invokeCompiledCode(false),
	stub.InvokeCompiledCodeFromBytecode: invokeCompiledCode(true),
	stub.AllocateContext:                (*gen).allocateContext,
	stub.AllocateArray:                  (*gen).allocateArray,
	stub.CloneContext:                   (*gen).cloneContext,
	stub.Deoptimize:                     deoptimize(deoptEager),
	stub.DeoptimizeLazyFromReturn:       deoptimize(deoptLazyFromReturn),
	stub.DeoptimizeLazyFromThrow:        deoptimize(deoptLazyFromThrow),
	stub.StackOverflow:                  (*gen).stackOverflow,
	stub.NullError:                      throwingCall(RuntimeNullError),
	stub.ICCallThroughCode:              (*gen).icCallThroughCode,
	stub.MegamorphicCall:                (*gen).megamorphicCall,
	stub.MegamorphicMiss:                (*gen).megamorphicMiss,
	stub.ZeroArgsUnoptimizedStaticCall:  unoptimizedStaticCall(0),
	stub.OneArgUnoptimizedStaticCall:    unoptimizedStaticCall(1),
	stub.TwoArgsUnoptimizedStaticCall:   unoptimizedStaticCall(2),
	stub.OneArgCheckInlineCache:         checkInlineCache(1),
	stub.TwoArgsCheckInlineCache:        checkInlineCache(2),
	stub.SmiAddInlineCache:              (*gen).smiAddInlineCache,
	stub.SubtypeTestCache:               (*gen).subtypeTestCache,
	stub.InterpretCall:                  (*gen).interpretCall,
	stub.BuildMethodExtractor:           (*gen).buildMethodExtractor,
}

// Backend implements isa.Backend on top of a macro assembler.
type Backend struct {
	g gen
}

// New backend which emits instructions using m.
func New(m isa.MacroAssembler) *Backend {
	return &Backend{gen{m, int32(m.Arch().WordSize())}}
}

// ForArch selects the macro assembler of the architecture.
func ForArch(a arch.Arch, f arch.Features) (*Backend, error) {
	switch a {
	case arch.AMD64:
		return New(x86.NewAMD64(f)), nil

	case arch.IA32:
		return New(x86.NewIA32(f)), nil

	case arch.ARM64:
		return New(arm64.New(f)), nil

	default:
		return nil, errors.Errorf("no stub backend for architecture %v", a)
	}
}

func (b *Backend) Arch() arch.Arch {
	return b.g.m.Arch()
}

func (b *Backend) StubEmitter(k stub.Kind) (asm.EmitFunc, bool) {
	if !k.Valid() || !arch.Supports(b.Arch(), k) {
		return nil, false
	}

	r := recipes[k]
	g := &b.g
	return func(a *asm.Assembler) {
		r(g, a)
		g.m.AlignFunc(a)
	}, true
}

func (b *Backend) AllocationEmitter(layout isa.AllocationLayout) asm.EmitFunc {
	g := &b.g
	return func(a *asm.Assembler) {
		g.allocateObject(a, layout)
		g.m.AlignFunc(a)
	}
}

var _ isa.Backend = (*Backend)(nil)
