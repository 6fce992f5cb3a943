// Copyright (c) 2016 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// SiteType determines how a branch site is patched.
type SiteType uint8

const (
	Rel32    = SiteType(iota) // x86 32-bit displacement relative to the next instruction.
	Rel8                      // x86 8-bit displacement relative to the next instruction.
	Branch26                  // arm64 B/BL: word offset in bits 0-25.
	Branch19                  // arm64 B.cond/CBZ: word offset in bits 5-23.
)

type site struct {
	typ  SiteType
	addr int32 // Displacement field for x86, instruction for arm64.
}

// Label is a branch target within a stub.
type Label struct {
	sites []site
	addr  int32
	bound bool
}

func (l *Label) addSite(typ SiteType, addr int32) {
	l.sites = append(l.sites, site{typ, addr})
}

// Bound reports whether the label address is known.
func (l *Label) Bound() bool {
	return l.bound
}

// Addr of a bound label.
func (l *Label) Addr() int32 {
	if !l.bound {
		panic(errors.New("label address undefined while updating branch instruction"))
	}
	return l.addr
}

func (l *Label) patch(text []byte) {
	for _, s := range l.sites {
		switch s.typ {
		case Rel32:
			disp := l.Addr() - (s.addr + 4)
			binary.LittleEndian.PutUint32(text[s.addr:], uint32(disp))

		case Rel8:
			disp := l.Addr() - (s.addr + 1)
			if disp < -128 || disp > 127 {
				panic(errors.Errorf("short branch displacement %d out of range", disp))
			}
			text[s.addr] = uint8(int8(disp))

		case Branch26:
			offset := (l.Addr() - s.addr) / 4
			insn := binary.LittleEndian.Uint32(text[s.addr:])
			insn = insn&^0x03ffffff | uint32(offset)&0x03ffffff
			binary.LittleEndian.PutUint32(text[s.addr:], insn)

		case Branch19:
			offset := (l.Addr() - s.addr) / 4
			insn := binary.LittleEndian.Uint32(text[s.addr:])
			insn = insn&^(0x7ffff<<5) | (uint32(offset)&0x7ffff)<<5
			binary.LittleEndian.PutUint32(text[s.addr:], insn)
		}
	}
}
