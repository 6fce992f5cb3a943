// Copyright (c) 2016 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build cgo

package dump

import (
	"fmt"
	"io"
	"strings"

	"github.com/bnagy/gapstone"
	"github.com/pkg/errors"

	"gate.computer/stubcode/arch"
)

// Text disassembles machine code located at textAddr.
func Text(w io.Writer, name string, text []byte, textAddr uintptr, a arch.Arch) (err error) {
	var (
		engine gapstone.Engine
		pad    uint
	)

	switch a {
	case arch.AMD64:
		engine, err = gapstone.New(gapstone.CS_ARCH_X86, gapstone.CS_MODE_64)
		pad = gapstone.X86_INS_INT3

	case arch.IA32:
		engine, err = gapstone.New(gapstone.CS_ARCH_X86, gapstone.CS_MODE_32)
		pad = gapstone.X86_INS_INT3

	case arch.ARM64:
		engine, err = gapstone.New(gapstone.CS_ARCH_ARM64, gapstone.CS_MODE_LITTLE_ENDIAN)
		pad = gapstone.ARM64_INS_BRK

	default:
		return errors.Errorf("disassembly not supported for architecture %v", a)
	}
	if err != nil {
		return
	}
	defer engine.Close()

	if a != arch.ARM64 {
		err = engine.SetOption(gapstone.CS_OPT_SYNTAX, gapstone.CS_OPT_SYNTAX_ATT)
		if err != nil {
			return
		}
	}

	insns, err := engine.Disasm(text, 0, 0)
	if err != nil {
		return
	}
	if len(insns) == 0 {
		return errors.Errorf("%s: no instructions", name)
	}

	lastAddr := textAddr + uintptr(insns[len(insns)-1].Address)
	addrWidth := (len(fmt.Sprintf("%x", lastAddr)) + 7) &^ 7

	var addrFmt string
	if textAddr == 0 { // relative
		addrFmt = fmt.Sprintf("%%%dx", addrWidth)
	} else {
		addrFmt = fmt.Sprintf("%%0%dx", addrWidth)
	}

	regs := registerNames(a)

	fmt.Fprintf(w, "\n%s:\n", name)

	skipPad := false

	for _, insn := range insns {
		switch insn.Id {
		case pad:
			if skipPad {
				continue
			}
			skipPad = true

		default:
			skipPad = false
		}

		fmt.Fprintf(w, addrFmt, textAddr+uintptr(insn.Address))
		fmt.Fprint(w, "\t", strings.TrimSpace(fmt.Sprintf("%s\t%s", insn.Mnemonic, regs.Replace(insn.OpStr))), "\n")
	}

	return nil
}
