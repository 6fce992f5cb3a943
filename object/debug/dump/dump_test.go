// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dump

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gate.computer/stubcode/arch"
)

func TestRegisterNames(t *testing.T) {
	for _, c := range []struct {
		arch arch.Arch
		in   string
		out  string
	}{
		{arch.AMD64, "0x10(%r15), %rax", "0x10(pool), result"},
		{arch.AMD64, "%rsi, %rsp", "arg1, sp"},
		{arch.IA32, "%edx, 8(%edi)", "arg0, 8(pool)"},
		{arch.ARM64, "x0, [x27, #0x10]", "result, [pool, #0x10]"},
		{arch.ARM64, "x1, x16, x10", "arg0, scratch, x10"},
		{arch.Unknown, "%rax", "%rax"},
	} {
		assert.Equal(t, c.out, registerNames(c.arch).Replace(c.in))
	}
}
