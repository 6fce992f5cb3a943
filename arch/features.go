// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arch

import (
	"golang.org/x/sys/cpu"
)

// Features which affect stub code.
type Features struct {
	AVX bool // Runtime calls clear upper vector state.
	LSE bool // Atomic instructions for write barrier card marking.
}

// HostFeatures detects the features of the host CPU for the architecture.
// Cross-compiled targets get baseline features.
func HostFeatures(a Arch) (f Features) {
	if a != Host() {
		return
	}

	switch a {
	case AMD64, IA32:
		f.AVX = cpu.X86.HasAVX

	case ARM64:
		f.LSE = cpu.ARM64.HasATOMICS
	}
	return
}
