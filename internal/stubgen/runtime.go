// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stubgen

// RuntimeEntry identifies a runtime function.  Stubs refer to them through
// native function entries of their object pool.
type RuntimeEntry string

const (
	RuntimeAllocateArray          = RuntimeEntry("AllocateArray")
	RuntimeAllocateClosure        = RuntimeEntry("AllocateClosure")
	RuntimeAllocateContext        = RuntimeEntry("AllocateContext")
	RuntimeAllocateObject         = RuntimeEntry("AllocateObject")
	RuntimeBootstrapNativeWrapper = RuntimeEntry("BootstrapNativeWrapper")
	RuntimeCloneContext           = RuntimeEntry("CloneContext")
	RuntimeDeoptimizeCopyFrame    = RuntimeEntry("DeoptimizeCopyFrame")
	RuntimeDeoptimizeFillFrame    = RuntimeEntry("DeoptimizeFillFrame")
	RuntimeFixAllocationStub      = RuntimeEntry("FixAllocationStubTarget")
	RuntimeFixCallersTarget       = RuntimeEntry("FixCallersTarget")
	RuntimeInlineCacheMissOneArg  = RuntimeEntry("InlineCacheMissHandlerOneArg")
	RuntimeInlineCacheMissTwoArgs = RuntimeEntry("InlineCacheMissHandlerTwoArgs")
	RuntimeInterpretCall          = RuntimeEntry("InterpretCall")
	RuntimeInvokeClosureNSM       = RuntimeEntry("InvokeClosureNoSuchMethod")
	RuntimeMegamorphicCacheMiss   = RuntimeEntry("MegamorphicCacheMissHandler")
	RuntimeNativeWrapper          = RuntimeEntry("NativeWrapper")
	RuntimeNullError              = RuntimeEntry("NullError")
	RuntimePatchStaticCall        = RuntimeEntry("PatchStaticCall")
	RuntimeRewindPostDeopt        = RuntimeEntry("RewindPostDeopt")
	RuntimeStackOverflow          = RuntimeEntry("StackOverflow")
	RuntimeStoreBufferBlock       = RuntimeEntry("StoreBufferBlockProcess")
)

// ClassRef is the object pool entry of a class referenced by its allocation
// stub.
type ClassRef uint32
