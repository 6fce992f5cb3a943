// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dump disassembles stub code for debugging.
package dump

import (
	"io"
	"regexp"
	"strings"

	"gate.computer/stubcode/arch"
	"gate.computer/stubcode/code"
)

// Code disassembles a finalized code object at its entry point.
func Code(w io.Writer, c *code.Code, a arch.Arch) error {
	return Text(w, c.Name(), c.Bytes(), c.EntryPoint(), a)
}

type replacer interface {
	Replace(s string) string
}

var (
	amd64Regs = strings.NewReplacer(
		"%rax", "result",
		"%eax", "result",
		"%r11", "scratch",
		"%rdi", "arg0",
		"%rsi", "arg1",
		"%r14", "thread",
		"%r15", "pool",
		"%rsp", "sp",
		"%rbp", "fp",
	)

	ia32Regs = strings.NewReplacer(
		"%eax", "result",
		"%ecx", "scratch",
		"%edx", "arg0",
		"%ebx", "arg1",
		"%esi", "thread",
		"%edi", "pool",
		"%esp", "sp",
		"%ebp", "fp",
	)
)

type regexpReplacer []struct {
	re   *regexp.Regexp
	name string
}

func (rr regexpReplacer) Replace(s string) string {
	for _, r := range rr {
		s = r.re.ReplaceAllString(s, r.name)
	}
	return s
}

var arm64Regs = regexpReplacer{
	{regexp.MustCompile(`\bx0\b`), "result"},
	{regexp.MustCompile(`\bx16\b`), "scratch"},
	{regexp.MustCompile(`\bx1\b`), "arg0"},
	{regexp.MustCompile(`\bx2\b`), "arg1"},
	{regexp.MustCompile(`\bx26\b`), "thread"},
	{regexp.MustCompile(`\bx27\b`), "pool"},
	{regexp.MustCompile(`\bx29\b`), "fp"},
}

// registerNames replaces hardware register names with their roles in stub
// code.
func registerNames(a arch.Arch) replacer {
	switch a {
	case arch.AMD64:
		return amd64Regs

	case arch.IA32:
		return ia32Regs

	case arch.ARM64:
		return arm64Regs

	default:
		return strings.NewReplacer()
	}
}
