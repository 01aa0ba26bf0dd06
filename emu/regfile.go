// Package emu provides functional emulation of the LunaCore CPU: the
// register file, memories, ALU, condition unit, and the fetch/decode/
// execute/retire cycle that ties them together.
package emu

import "github.com/lunacore/lunacore/insts"

// RegFile holds the eight 16-bit architectural registers.
//
// Register 7 (in) is read-only: WriteReg silently drops writes to it,
// matching spec.md §4.5's note that cmp/tst are expressed as ALU ops
// targeting in specifically to harvest flags without clobbering a real
// register.
type RegFile struct {
	R [8]uint16

	// Flags holds the four architectural condition flags.
	Flags Flags
}

// Flags are the four NZCV condition bits.
type Flags struct {
	N, Z, C, V bool
}

// ReadReg reads a register by index.
func (r *RegFile) ReadReg(reg insts.Reg) uint16 {
	return r.R[reg&0x7]
}

// WriteReg writes a register by index. Writes to `in` (register 7) are
// dropped silently — this is intentional, not an error (spec.md §7).
func (r *RegFile) WriteReg(reg insts.Reg, value uint16) {
	if reg == insts.In {
		return
	}
	r.R[reg&0x7] = value
}
