// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stub

import (
	"fmt"
)

// MaxArgsTested is the largest number of leading arguments checked by an
// unoptimized static call's inline cache.
const MaxArgsTested = 2

var unoptimizedStaticCalls = [MaxArgsTested + 1]Kind{
	ZeroArgsUnoptimizedStaticCall,
	OneArgUnoptimizedStaticCall,
	TwoArgsUnoptimizedStaticCall,
}

// UnoptimizedStaticCall selects the static call stub which tests the given
// number of arguments.  It panics if numArgsTested is out of range.
func UnoptimizedStaticCall(numArgsTested int) Kind {
	if numArgsTested < 0 || numArgsTested > MaxArgsTested {
		panic(fmt.Sprintf("unsupported number of tested arguments: %d", numArgsTested))
	}
	return unoptimizedStaticCalls[numArgsTested]
}

// CheckInlineCache selects the optimized inline cache check stub for one or
// two tested arguments.
func CheckInlineCache(numArgsTested int) Kind {
	switch numArgsTested {
	case 1:
		return OneArgCheckInlineCache

	case 2:
		return TwoArgsCheckInlineCache

	default:
		panic(fmt.Sprintf("unsupported number of tested arguments: %d", numArgsTested))
	}
}
