// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stubgen

import (
	"github.com/pkg/errors"
)

// Thread state slots, in words.
const (
	threadVMTag = iota
	threadTopExitFrame
	threadStackLimit
	threadTop
	threadEnd
	threadStoreBufferBlock
	threadActiveException
	threadActiveStacktrace
	threadResumePC
	threadMegamorphicMissEntry
	threadTwoArgsCheckInlineCacheEntry
)

// VM tags stored in the thread state while executing.
const (
	vmTagNative   = 0
	vmTagCompiled = 1
)

// Object field slots, in words.  Object pointers carry heapObjectTag in
// their low bit.
const (
	heapObjectTag = 1

	objectTags = 0

	codeEntryPoint = 1
	codeObjectPool = 2

	icDataEntries      = 1
	icDataUsageCounter = 2

	contextNumVariables = 1
	contextHeaderWords  = 3

	arrayTypeArguments = 1
	arrayLength        = 2
	arrayHeaderWords   = 3

	instanceTypeArguments = 1

	storeBufferTop      = 0
	storeBufferPointers = 1
	storeBufferCapacity = 256
)

// Class ids of the objects allocated by shared stubs.
const (
	contextClassID = 2
	arrayClassID   = 3
)

// Instances larger than this are always allocated by the runtime.
const maxInlineInstanceSize = 1024

// Class ids wider than the header's class id field are always allocated by
// the runtime.
const maxTaggedClassID = 0xffff

// Deoptimization kinds passed to the runtime.
const (
	deoptEager = iota
	deoptLazyFromReturn
	deoptLazyFromThrow
)

// tags word of an object header.
func tags(classID uint32, size int, wordSize int32) uint64 {
	sizeTag := uint64(size) / uint64(2*wordSize)
	if sizeTag > 0xff {
		sizeTag = 0 // Size is looked up from the class.
	}
	if classID > maxTaggedClassID {
		panic(errors.Errorf("class id %d doesn't fit in object header", classID))
	}
	return uint64(classID)<<16 | sizeTag<<8
}
