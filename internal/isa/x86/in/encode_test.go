// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package in

import (
	"bytes"
	"testing"
)

type text struct {
	bytes.Buffer
}

func (t *text) Extend(n int) []byte {
	offset := t.Len()
	t.Write(make([]byte, n))
	return t.Bytes()[offset:]
}

// Expected bytes are valid encodings of the named instructions, though GNU as
// may pick shorter immediate forms.
func TestEncode(t *testing.T) {
	for _, tc := range []struct {
		name   string
		encode func(*text)
		expect []byte
	}{
		{"ret", func(x *text) { RET.Simple(x) }, []byte{0xc3}},
		{"push %rbp", func(x *text) { PUSHo.Reg(x, RegBP) }, []byte{0x55}},
		{"push %r14", func(x *text) { PUSHo.Reg(x, 14) }, []byte{0x41, 0x56}},
		{"pop %r15", func(x *text) { POPo.Reg(x, 15) }, []byte{0x41, 0x5f}},
		{"mov %rsp,%rbp", func(x *text) { MOVmr.RegReg(x, Size64, RegSP, RegBP) }, []byte{0x48, 0x89, 0xe5}},
		{"mov %esp,%ebp", func(x *text) { MOVmr.RegReg(x, Size32, RegSP, RegBP) }, []byte{0x89, 0xe5}},
		{"mov 0x10(%r15),%rax", func(x *text) { MOV.RegMemDisp(x, Size64, RegAX, 15, 0x10) }, []byte{0x49, 0x8b, 0x47, 0x10}},
		{"mov 0x100(%r14),%r11", func(x *text) { MOV.RegMemDisp(x, Size64, 11, 14, 0x100) }, []byte{0x4d, 0x8b, 0x9e, 0x00, 0x01, 0x00, 0x00}},
		{"mov (%rsp),%rax", func(x *text) { MOV.RegMemDisp(x, Size64, RegAX, RegSP, 0) }, []byte{0x48, 0x8b, 0x04, 0x24}},
		{"mov %rdi,0x0(%rbp)", func(x *text) { MOVmr.RegMemDisp(x, Size64, RegDI, RegBP, 0) }, []byte{0x48, 0x89, 0x7d, 0x00}},
		{"add $0x8,%rcx", func(x *text) { ADDi.RegImm32(x, Size64, RegCX, 8) }, []byte{0x48, 0x81, 0xc1, 0x08, 0x00, 0x00, 0x00}},
		{"cmp $0x0,%rsi", func(x *text) { CMPi.RegImm32(x, Size64, RegSI, 0) }, []byte{0x48, 0x81, 0xfe, 0x00, 0x00, 0x00, 0x00}},
		{"test $0x1,%edx", func(x *text) { TESTi.RegImm32(x, Size32, RegDX, 1) }, []byte{0xf7, 0xc2, 0x01, 0x00, 0x00, 0x00}},
		{"cmp %rsi,%rdi", func(x *text) { CMPmr.RegReg(x, Size64, RegSI, RegDI) }, []byte{0x48, 0x39, 0xf7}},
		{"call *%r11", func(x *text) { CALL.Reg(x, 11) }, []byte{0x41, 0xff, 0xd3}},
		{"jmp *%rcx", func(x *text) { JMP.Reg(x, RegCX) }, []byte{0xff, 0xe1}},
		{"movabs $0x1122334455667788,%rax", func(x *text) { MOV64i.RegImm64(x, RegAX, 0x1122334455667788) }, []byte{0x48, 0xb8, 0x88, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11}},
		{"mov $0x7,%ebx", func(x *text) { MOV64i.RegImm32(x, RegBX, 7) }, []byte{0xbb, 0x07, 0x00, 0x00, 0x00}},
		{"jne .", func(x *text) { Jcccd.CondStub(x, CondNE) }, []byte{0x0f, 0x85, 0, 0, 0, 0}},
		{"jmp .", func(x *text) { JMPcd.Stub(x) }, []byte{0xe9, 0, 0, 0, 0}},
		{"vzeroupper", func(x *text) { VZEROUPPER.Simple(x) }, []byte{0xc5, 0xf8, 0x77}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var x text
			tc.encode(&x)
			if !bytes.Equal(x.Bytes(), tc.expect) {
				t.Errorf("% x != % x", x.Bytes(), tc.expect)
			}
		})
	}
}
