// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package arch describes code generation targets and which stubs they can
// provide.
package arch

import (
	"fmt"
	"runtime"
	"strings"

	"gate.computer/stubcode/stub"
)

type Arch int

const (
	Unknown = Arch(iota)
	AMD64
	ARM64
	IA32
)

func (a Arch) String() string {
	switch a {
	case AMD64:
		return "amd64"

	case ARM64:
		return "arm64"

	case IA32:
		return "386"

	default:
		return "unknown"
	}
}

// WordSize in bytes.
func (a Arch) WordSize() int {
	if a == IA32 {
		return 4
	}
	return 8
}

// Host architecture, or Unknown if it isn't a code generation target.
func Host() Arch {
	a, _ := Parse(runtime.GOARCH)
	return a
}

// Parse GOARCH-style name.  Empty string means the host.
func Parse(s string) (Arch, error) {
	switch strings.ToLower(s) {
	case "":
		if a := Host(); a != Unknown {
			return a, nil
		}
		return Unknown, fmt.Errorf("host architecture %s is not supported", runtime.GOARCH)

	case "amd64", "x86-64", "x64":
		return AMD64, nil

	case "arm64", "aarch64":
		return ARM64, nil

	case "386", "ia32", "x86":
		return IA32, nil

	default:
		return Unknown, fmt.Errorf("unknown architecture: %q", s)
	}
}

var unsupported = map[Arch][]stub.Kind{
	IA32: {
		stub.BuildMethodExtractor,
		stub.InvokeCompiledCodeFromBytecode,
		stub.InterpretCall,
	},
}

// Supports reports whether a stub of the given kind can be generated for the
// architecture.  Unsupported kinds are a capability gap: callers fall back to
// slower paths.
func Supports(a Arch, k stub.Kind) bool {
	if a == Unknown || !k.Valid() {
		return false
	}
	for _, x := range unsupported[a] {
		if x == k {
			return false
		}
	}
	return true
}
