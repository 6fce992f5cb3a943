// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stubgen

import (
	"gate.computer/stubcode/asm"
	"gate.computer/stubcode/internal/isa"
	"gate.computer/stubcode/stub"
)

type gen struct {
	m isa.MacroAssembler
	w int32 // Word size.
}

func (g *gen) word(slot int) int32 {
	return int32(slot) * g.w
}

// imm converts a word-sized bit pattern into a MoveImm operand.
func (g *gen) imm(x uint64) int64 {
	if g.w == 4 {
		return int64(int32(uint32(x)))
	}
	return int64(x)
}

func (g *gen) setVMTag(a *asm.Assembler, tag int64) {
	g.m.MoveImm(a, isa.Scratch, tag)
	g.m.StoreMem(a, isa.Thread, g.word(threadVMTag), isa.Scratch)
}

func (g *gen) clearSlot(a *asm.Assembler, slot int) {
	g.m.MoveImm(a, isa.Scratch, 0)
	g.m.StoreMem(a, isa.Thread, g.word(slot), isa.Scratch)
}

// callTarget transitions to native code, calls the function in the scratch
// register and returns to compiled code.  A frame must have been entered.
func (g *gen) callTarget(a *asm.Assembler) {
	g.m.StoreMem(a, isa.Thread, g.word(threadTopExitFrame), isa.FP)
	g.m.StoreMem(a, isa.Thread, g.word(threadVMTag), isa.Scratch)
	g.m.ClearUpperVectors(a)
	g.m.CallReg(a, isa.Scratch)
	g.setVMTag(a, vmTagCompiled)
	g.clearSlot(a, threadTopExitFrame)
}

// callRuntime loads the entry from the object pool and calls it.  The
// result is in the result register.
func (g *gen) callRuntime(a *asm.Assembler, entry RuntimeEntry) {
	g.m.LoadPool(a, isa.Scratch, a.Pool().AddNativeFunction(entry))
	g.callTarget(a)
}

// tailCallCode jumps to the entry point of the code object in r.
func (g *gen) tailCallCode(a *asm.Assembler, r isa.Reg) {
	g.m.LoadMem(a, isa.Scratch, r, g.word(codeEntryPoint))
	g.m.JumpReg(a, isa.Scratch)
}

func (g *gen) tailCallThreadEntry(a *asm.Assembler, slot int) {
	g.m.LoadMem(a, isa.Scratch, isa.Thread, g.word(slot))
	g.m.JumpReg(a, isa.Scratch)
}

func (g *gen) getCStackPointer(a *asm.Assembler) {
	g.m.MoveReg(a, isa.Result, isa.SP)
	g.m.Ret(a)
}

// jumpToFrame resumes at program counter arg0 with stack pointer arg1.
func (g *gen) jumpToFrame(a *asm.Assembler) {
	g.m.MoveReg(a, isa.SP, isa.Arg1)
	g.setVMTag(a, vmTagCompiled)
	g.clearSlot(a, threadTopExitFrame)
	g.m.JumpReg(a, isa.Arg0)
}

func (g *gen) runExceptionHandler(a *asm.Assembler) {
	g.m.LoadMem(a, isa.Result, isa.Thread, g.word(threadActiveException))
	g.m.LoadMem(a, isa.Arg1, isa.Thread, g.word(threadActiveStacktrace))
	g.clearSlot(a, threadActiveException)
	g.clearSlot(a, threadActiveStacktrace)
	g.tailCallThreadEntry(a, threadResumePC)
}

func (g *gen) deoptForRewind(a *asm.Assembler) {
	g.m.EnterFrame(a)
	g.callRuntime(a, RuntimeRewindPostDeopt)
	g.m.Trap(a) // Rewinding doesn't return.
}

// writeBarrier records the object in arg0 in the store buffer.
func (g *gen) writeBarrier(a *asm.Assembler) {
	done := a.NewLabel()
	restore := a.NewLabel()

	g.m.TestSmiTag(a, isa.Arg0)
	g.m.BranchIf(a, isa.Equal, done)

	g.m.Push(a, isa.Result)
	g.m.Push(a, isa.Arg1)
	g.m.LoadMem(a, isa.Arg1, isa.Thread, g.word(threadStoreBufferBlock))
	g.m.LoadMem(a, isa.Result, isa.Arg1, g.word(storeBufferTop))
	g.m.AddReg(a, isa.Result, isa.Arg1)
	g.m.StoreMem(a, isa.Result, g.word(storeBufferPointers), isa.Arg0)
	g.m.LoadMem(a, isa.Result, isa.Arg1, g.word(storeBufferTop))
	g.m.AddImm(a, isa.Result, g.w)
	g.m.StoreMem(a, isa.Arg1, g.word(storeBufferTop), isa.Result)
	g.m.CompareImm(a, isa.Result, g.word(storeBufferCapacity))
	g.m.BranchIf(a, isa.Less, restore)

	g.m.EnterFrame(a)
	g.m.Push(a, isa.Arg0)
	g.callRuntime(a, RuntimeStoreBufferBlock)
	g.m.Pop(a, isa.Arg0)
	g.m.LeaveFrame(a)

	a.Bind(restore)
	g.m.Pop(a, isa.Arg1)
	g.m.Pop(a, isa.Result)

	a.Bind(done)
	g.m.Ret(a)
}

// callToRuntime calls the runtime function in the scratch register.
func (g *gen) callToRuntime(a *asm.Assembler) {
	g.m.EnterFrame(a)
	g.callTarget(a)
	g.m.LeaveFrame(a)
	g.m.Ret(a)
}

// wrappedCall passes the native function in the scratch register to a
// runtime wrapper.
func wrappedCall(wrapper RuntimeEntry) recipe {
	return func(g *gen, a *asm.Assembler) {
		g.m.EnterFrame(a)
		g.m.MoveReg(a, isa.Arg1, isa.Scratch)
		g.callRuntime(a, wrapper)
		g.m.LeaveFrame(a)
		g.m.Ret(a)
	}
}

// patchingCall asks the runtime for the code object which should have been
// called, and jumps to it with the arguments intact.
func patchingCall(entry RuntimeEntry) recipe {
	return func(g *gen, a *asm.Assembler) {
		g.m.EnterFrame(a)
		g.m.Push(a, isa.Arg0)
		g.m.Push(a, isa.Arg1)
		g.callRuntime(a, entry)
		g.m.Pop(a, isa.Arg1)
		g.m.Pop(a, isa.Arg0)
		g.m.LeaveFrame(a)
		g.tailCallCode(a, isa.Result)
	}
}

// throwingCall invokes a runtime function which never returns.
func throwingCall(entry RuntimeEntry) recipe {
	return func(g *gen, a *asm.Assembler) {
		g.m.EnterFrame(a)
		g.callRuntime(a, entry)
		g.m.Trap(a)
	}
}

// invokeCompiledCode is the transition from native code: arg0 is the code
// object (or the function with bytecode) and arg1 is the thread.
func invokeCompiledCode(fromBytecode bool) recipe {
	return func(g *gen, a *asm.Assembler) {
		g.m.EnterFrame(a)
		g.m.Push(a, isa.Thread)
		g.m.Push(a, isa.Pool)
		g.m.MoveReg(a, isa.Thread, isa.Arg1)

		g.m.LoadMem(a, isa.Scratch, isa.Thread, g.word(threadTopExitFrame))
		g.m.Push(a, isa.Scratch)
		g.clearSlot(a, threadTopExitFrame)
		g.setVMTag(a, vmTagCompiled)

		if fromBytecode {
			g.m.LoadPool(a, isa.Arg1, a.Pool().AddNativeFunction(RuntimeInterpretCall))
			g.m.MoveReg(a, isa.Scratch, isa.Arg1)
		} else {
			g.m.LoadMem(a, isa.Pool, isa.Arg0, g.word(codeObjectPool))
			g.m.LoadMem(a, isa.Scratch, isa.Arg0, g.word(codeEntryPoint))
		}
		g.m.CallReg(a, isa.Scratch)

		g.m.Pop(a, isa.Scratch)
		g.m.StoreMem(a, isa.Thread, g.word(threadTopExitFrame), isa.Scratch)
		g.m.Pop(a, isa.Pool)
		g.m.Pop(a, isa.Thread)
		g.setVMTag(a, vmTagNative)
		g.m.LeaveFrame(a)
		g.m.Ret(a)
	}
}

// bumpAllocate reserves size bytes (register, or none if isa.NumRegs) plus
// header bytes from the thread's allocation area.  The untagged object address is left in the
// result register; the slow label is taken if the area is exhausted.
func (g *gen) bumpAllocate(a *asm.Assembler, size isa.Reg, header int32, slow *asm.Label) {
	g.m.LoadMem(a, isa.Result, isa.Thread, g.word(threadTop))
	g.m.MoveReg(a, isa.Scratch, isa.Result)
	if size != isa.NumRegs {
		g.m.AddReg(a, isa.Scratch, size)
	}
	g.m.AddImm(a, isa.Scratch, header)

	g.m.Push(a, isa.Arg0)
	g.m.LoadMem(a, isa.Arg0, isa.Thread, g.word(threadEnd))
	g.m.CompareReg(a, isa.Scratch, isa.Arg0)
	g.m.Pop(a, isa.Arg0)
	g.m.BranchIf(a, isa.AboveOrEqual, slow)

	g.m.StoreMem(a, isa.Thread, g.word(threadTop), isa.Scratch)
}

// allocateContext allocates a context with arg0 bytes of variables.
func (g *gen) allocateContext(a *asm.Assembler) {
	slow := a.NewLabel()

	g.bumpAllocate(a, isa.Arg0, g.word(contextHeaderWords), slow)
	g.m.MoveImm(a, isa.Scratch, g.imm(tags(contextClassID, 0, g.w)))
	g.m.StoreMem(a, isa.Result, g.word(objectTags), isa.Scratch)
	g.m.StoreMem(a, isa.Result, g.word(contextNumVariables), isa.Arg0)
	g.m.AddImm(a, isa.Result, heapObjectTag)
	g.m.Ret(a)

	a.Bind(slow)
	g.m.EnterFrame(a)
	g.m.Push(a, isa.Arg0)
	g.callRuntime(a, RuntimeAllocateContext)
	g.m.Pop(a, isa.Arg0)
	g.m.LeaveFrame(a)
	g.m.Ret(a)
}

// allocateArray allocates an array with arg0 bytes of elements and type
// arguments arg1.
func (g *gen) allocateArray(a *asm.Assembler) {
	slow := a.NewLabel()

	g.bumpAllocate(a, isa.Arg0, g.word(arrayHeaderWords), slow)
	g.m.MoveImm(a, isa.Scratch, g.imm(tags(arrayClassID, 0, g.w)))
	g.m.StoreMem(a, isa.Result, g.word(objectTags), isa.Scratch)
	g.m.StoreMem(a, isa.Result, g.word(arrayTypeArguments), isa.Arg1)
	g.m.StoreMem(a, isa.Result, g.word(arrayLength), isa.Arg0)
	g.m.AddImm(a, isa.Result, heapObjectTag)
	g.m.Ret(a)

	a.Bind(slow)
	g.m.EnterFrame(a)
	g.m.Push(a, isa.Arg0)
	g.m.Push(a, isa.Arg1)
	g.callRuntime(a, RuntimeAllocateArray)
	g.m.Pop(a, isa.Arg1)
	g.m.Pop(a, isa.Arg0)
	g.m.LeaveFrame(a)
	g.m.Ret(a)
}

func (g *gen) cloneContext(a *asm.Assembler) {
	g.m.EnterFrame(a)
	g.m.Push(a, isa.Arg0)
	g.callRuntime(a, RuntimeCloneContext)
	g.m.Pop(a, isa.Arg0)
	g.m.LeaveFrame(a)
	g.m.Ret(a)
}

// deoptimize replaces the optimized frame with unoptimized frames.  The
// result register (return value or exception) is preserved.
func deoptimize(kind int64) recipe {
	return func(g *gen, a *asm.Assembler) {
		g.m.EnterFrame(a)
		g.m.Push(a, isa.Result)
		g.m.Push(a, isa.Arg1)
		g.m.MoveImm(a, isa.Arg0, kind)
		g.callRuntime(a, RuntimeDeoptimizeCopyFrame)
		g.m.MoveReg(a, isa.Arg0, isa.Result)
		g.callRuntime(a, RuntimeDeoptimizeFillFrame)
		g.m.Pop(a, isa.Arg1)
		g.m.Pop(a, isa.Result)
		g.m.LeaveFrame(a)
		g.m.Ret(a)
	}
}

func (g *gen) stackOverflow(a *asm.Assembler) {
	g.m.EnterFrame(a)
	g.callRuntime(a, RuntimeStackOverflow)
	g.m.LeaveFrame(a)
	g.m.Ret(a)
}

// icCallThroughCode checks the receiver class id in arg0 against the
// single-entry cache pointed to by arg1.
func (g *gen) icCallThroughCode(a *asm.Assembler) {
	miss := a.NewLabel()

	g.m.LoadMem(a, isa.Scratch, isa.Arg1, 0)
	g.m.CompareReg(a, isa.Scratch, isa.Arg0)
	g.m.BranchIf(a, isa.NotEqual, miss)
	g.m.LoadMem(a, isa.Scratch, isa.Arg1, g.w)
	g.m.JumpReg(a, isa.Scratch)

	a.Bind(miss)
	g.tailCallThreadEntry(a, threadMegamorphicMissEntry)
}

// megamorphicCall probes the bucket array pointed to by arg1 for the
// receiver class id in arg0.  Buckets are (class id, target) pairs and the
// array is terminated by class id zero.
func (g *gen) megamorphicCall(a *asm.Assembler) {
	loop := a.NewLabel()
	found := a.NewLabel()
	miss := a.NewLabel()

	a.Bind(loop)
	g.m.LoadMem(a, isa.Scratch, isa.Arg1, 0)
	g.m.CompareReg(a, isa.Scratch, isa.Arg0)
	g.m.BranchIf(a, isa.Equal, found)
	g.m.CompareImm(a, isa.Scratch, 0)
	g.m.BranchIf(a, isa.Equal, miss)
	g.m.AddImm(a, isa.Arg1, 2*g.w)
	g.m.Jump(a, loop)

	a.Bind(found)
	g.m.LoadMem(a, isa.Scratch, isa.Arg1, g.w)
	g.m.JumpReg(a, isa.Scratch)

	a.Bind(miss)
	g.tailCallThreadEntry(a, threadMegamorphicMissEntry)
}

func (g *gen) megamorphicMiss(a *asm.Assembler) {
	g.m.EnterFrame(a)
	g.m.Push(a, isa.Arg0)
	g.m.Push(a, isa.Arg1)
	g.callRuntime(a, RuntimeMegamorphicCacheMiss)
	g.m.Pop(a, isa.Arg1)
	g.m.Pop(a, isa.Arg0)
	g.m.LeaveFrame(a)
	g.tailCallCode(a, isa.Result)
}

// unoptimizedStaticCall increments the usage counter of the call site data
// in arg1 and jumps to the target recorded after the tested class ids.
func unoptimizedStaticCall(numArgsTested int) recipe {
	return func(g *gen, a *asm.Assembler) {
		g.m.LoadMem(a, isa.Scratch, isa.Arg1, g.word(icDataUsageCounter))
		g.m.AddImm(a, isa.Scratch, 1)
		g.m.StoreMem(a, isa.Arg1, g.word(icDataUsageCounter), isa.Scratch)
		g.m.LoadMem(a, isa.Scratch, isa.Arg1, g.word(icDataEntries))
		g.m.LoadMem(a, isa.Scratch, isa.Scratch, g.word(numArgsTested))
		g.tailCallCode(a, isa.Scratch)
	}
}

// checkInlineCache searches the entries of the call site data in arg1.
// The first class id is in arg0 and the second (if tested) in the result
// register.
func checkInlineCache(numArgsTested int) recipe {
	missEntry := RuntimeInlineCacheMissOneArg
	if numArgsTested == 2 {
		missEntry = RuntimeInlineCacheMissTwoArgs
	}

	return func(g *gen, a *asm.Assembler) {
		loop := a.NewLabel()
		next := a.NewLabel()
		miss := a.NewLabel()

		g.m.LoadMem(a, isa.Arg1, isa.Arg1, g.word(icDataEntries))

		a.Bind(loop)
		g.m.LoadMem(a, isa.Scratch, isa.Arg1, 0)
		g.m.CompareReg(a, isa.Scratch, isa.Arg0)
		g.m.BranchIf(a, isa.NotEqual, next)
		if numArgsTested == 2 {
			g.m.LoadMem(a, isa.Scratch, isa.Arg1, g.w)
			g.m.CompareReg(a, isa.Scratch, isa.Result)
			g.m.BranchIf(a, isa.NotEqual, next)
		}
		g.m.LoadMem(a, isa.Scratch, isa.Arg1, g.word(numArgsTested))
		g.tailCallCode(a, isa.Scratch)

		a.Bind(next)
		g.m.LoadMem(a, isa.Scratch, isa.Arg1, 0)
		g.m.CompareImm(a, isa.Scratch, 0)
		g.m.BranchIf(a, isa.Equal, miss)
		g.m.AddImm(a, isa.Arg1, g.word(numArgsTested+1))
		g.m.Jump(a, loop)

		a.Bind(miss)
		g.m.EnterFrame(a)
		g.m.Push(a, isa.Arg0)
		g.m.Push(a, isa.Result)
		g.callRuntime(a, missEntry)
		g.m.MoveReg(a, isa.Arg1, isa.Result)
		g.m.Pop(a, isa.Result)
		g.m.Pop(a, isa.Arg0)
		g.m.LeaveFrame(a)
		g.tailCallCode(a, isa.Arg1)
	}
}

// smiAddInlineCache adds two small integers, or falls back to the generic
// two-argument inline cache check.
func (g *gen) smiAddInlineCache(a *asm.Assembler) {
	miss := a.NewLabel()

	g.m.TestSmiTag(a, isa.Arg0)
	g.m.BranchIf(a, isa.NotEqual, miss)
	g.m.TestSmiTag(a, isa.Arg1)
	g.m.BranchIf(a, isa.NotEqual, miss)
	g.m.MoveReg(a, isa.Result, isa.Arg0)
	g.m.AddReg(a, isa.Result, isa.Arg1)
	g.m.BranchIf(a, isa.Overflow, miss)
	g.m.Ret(a)

	a.Bind(miss)
	g.tailCallThreadEntry(a, threadTwoArgsCheckInlineCacheEntry)
}

// subtypeTestCache looks up the instance class id in arg0 and the
// instantiator type arguments in the result register from the cache in
// arg1.  Entries are stub.InstantiationSizeInWords long; the result is the
// cached answer, or zero if the cache misses.
func (g *gen) subtypeTestCache(a *asm.Assembler) {
	loop := a.NewLabel()
	next := a.NewLabel()
	miss := a.NewLabel()

	a.Bind(loop)
	g.m.LoadMem(a, isa.Scratch, isa.Arg1, 0)
	g.m.CompareImm(a, isa.Scratch, 0)
	g.m.BranchIf(a, isa.Equal, miss)
	g.m.CompareReg(a, isa.Scratch, isa.Arg0)
	g.m.BranchIf(a, isa.NotEqual, next)
	g.m.LoadMem(a, isa.Scratch, isa.Arg1, g.w)
	g.m.CompareReg(a, isa.Scratch, isa.Result)
	g.m.BranchIf(a, isa.NotEqual, next)
	g.m.LoadMem(a, isa.Result, isa.Arg1, 2*g.w)
	g.m.Ret(a)

	a.Bind(next)
	g.m.AddImm(a, isa.Arg1, g.word(stub.InstantiationSizeInWords))
	g.m.Jump(a, loop)

	a.Bind(miss)
	g.m.MoveImm(a, isa.Result, 0)
	g.m.Ret(a)
}

func (g *gen) interpretCall(a *asm.Assembler) {
	g.m.EnterFrame(a)
	g.m.Push(a, isa.Arg0)
	g.m.Push(a, isa.Arg1)
	g.callRuntime(a, RuntimeInterpretCall)
	g.m.Pop(a, isa.Arg1)
	g.m.Pop(a, isa.Arg0)
	g.m.LeaveFrame(a)
	g.m.Ret(a)
}

// buildMethodExtractor allocates a closure which binds the receiver in arg0
// to the function in arg1.
func (g *gen) buildMethodExtractor(a *asm.Assembler) {
	g.m.EnterFrame(a)
	g.m.Push(a, isa.Arg0)
	g.m.Push(a, isa.Arg1)
	g.callRuntime(a, RuntimeAllocateClosure)
	g.m.Pop(a, isa.Arg1)
	g.m.Pop(a, isa.Arg0)
	g.m.LeaveFrame(a)
	g.m.Ret(a)
}

// allocateObject is the class-specific allocation stub.  Type arguments are
// passed in arg1.
func (g *gen) allocateObject(a *asm.Assembler, layout isa.AllocationLayout) {
	size := (int32(layout.InstanceSize) + 2*g.w - 1) &^ (2*g.w - 1)
	if size < 2*g.w {
		size = 2 * g.w
	}

	if size <= maxInlineInstanceSize && layout.ClassID <= maxTaggedClassID {
		slow := a.NewLabel()

		g.bumpAllocate(a, isa.NumRegs, size, slow)
		g.m.MoveImm(a, isa.Scratch, g.imm(tags(layout.ClassID, int(size), g.w)))
		g.m.StoreMem(a, isa.Result, g.word(objectTags), isa.Scratch)

		first := g.word(objectTags + 1)
		if layout.NumTypeArguments > 0 {
			g.m.StoreMem(a, isa.Result, g.word(instanceTypeArguments), isa.Arg1)
			first = g.word(instanceTypeArguments + 1)
		}
		if first < size {
			g.m.MoveImm(a, isa.Scratch, 0)
			for offset := first; offset < size; offset += g.w {
				g.m.StoreMem(a, isa.Result, offset, isa.Scratch)
			}
		}

		g.m.AddImm(a, isa.Result, heapObjectTag)
		g.m.Ret(a)

		a.Bind(slow)
	}

	g.m.EnterFrame(a)
	g.m.Push(a, isa.Arg1)
	g.m.LoadPool(a, isa.Arg0, a.Pool().AddObject(ClassRef(layout.ClassID)))
	g.callRuntime(a, RuntimeAllocateObject)
	g.m.Pop(a, isa.Arg1)
	g.m.LeaveFrame(a)
	g.m.Ret(a)
}
