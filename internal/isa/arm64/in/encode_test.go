// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package in

import (
	"fmt"
	"testing"
)

// Expected words are from GNU as.
func TestEncode(t *testing.T) {
	for i, tc := range []struct {
		insn   uint32
		expect uint32
	}{
		{RET.Rn(RegLink), 0xd65f03c0},                          // ret
		{BLR.Rn(16), 0xd63f0200},                               // blr x16
		{BR.Rn(16), 0xd61f0200},                                // br x16
		{BRK.I16(0), 0xd4200000},                               // brk #0
		{NOP.Word(), 0xd503201f},                               // nop
		{LDR.RtRnI12(0, 27, 2), 0xf9400b60},                    // ldr x0, [x27, #16]
		{STR.RtRnI12(1, 26, 1), 0xf9000741},                    // str x1, [x26, #8]
		{STRpre.RtRnI9(1, RegSP, Int9(-16)), 0xf81f0fe1},       // str x1, [sp, #-16]!
		{LDRpost.RtRnI9(1, RegSP, Int9(16)), 0xf84107e1},       // ldr x1, [sp], #16
		{STPpre.RtRt2RnI7(RegFP, RegLink, RegSP, Int7(-2)), 0xa9bf7bfd}, // stp x29, x30, [sp, #-16]!
		{LDPpost.RtRt2RnI7(RegFP, RegLink, RegSP, Int7(2)), 0xa8c17bfd}, // ldp x29, x30, [sp], #16
		{ADDi.RdRnI12S(RegFP, RegSP, 0, 0), 0x910003fd},       // mov x29, sp
		{SUBi.RdRnI12S(2, 2, 8, 0), 0xd1002042},                // sub x2, x2, #8
		{SUBSi.RdRnI12S(RegZero, 1, 0, 0), 0xf100003f},         // cmp x1, #0
		{ADDSi.RdRnI12S(RegZero, 1, 1, 0), 0xb100043f},         // cmn x1, #1
		{MOVZ.RdI16Hw(0, 0x1234, 0), 0xd2824680},               // mov x0, #0x1234
		{MOVK.RdI16Hw(0, 0x5678, 1), 0xf2aacf00},               // movk x0, #0x5678, lsl #16
		{ORRs.RdRnRmS(0, RegZero, 1, LSL, 0), 0xaa0103e0},      // mov x0, x1
		{ADDSs.RdRnRmS(0, 0, 2, LSL, 0), 0xab020000},           // adds x0, x0, x2
		{SUBSs.RdRnRmS(RegZero, 1, 2, LSL, 0), 0xeb02003f},     // cmp x1, x2
		{ANDSi.RdRnNImmrImms(RegZero, 1, 1, 0, 0), 0xf240003f}, // tst x1, #1
		{Bc.CondI19(NE, Int19(2)), 0x54000041},                 // b.ne .+8
		{B.I26(Int26(-1)), 0x17ffffff},                         // b .-4
	} {
		if tc.insn != tc.expect {
			t.Error(i, fmt.Sprintf("0x%08x != 0x%08x", tc.insn, tc.expect))
		}
	}
}
