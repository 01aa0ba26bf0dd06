// Package disasm renders LunaCore instruction words as human-readable
// assembly text. It is a presentation collaborator only — spec.md §4.6 —
// and the execute path in package emu never depends on it.
package disasm

import (
	"fmt"
	"io"

	"github.com/lunacore/lunacore/insts"
)

// condMnemonics maps each condition code to its canonical jump mnemonic
// suffix. Several codes have an alternate spelling (spec.md §4.3); this
// table picks the first-listed one for disassembly output, except for AL,
// which prints as jmp.
var condMnemonics = [16]string{
	insts.CondZ:   "jz",
	insts.CondNZ:  "jnz",
	insts.CondLT:  "jlt",
	insts.CondLE:  "jle",
	insts.CondGT:  "jgt",
	insts.CondGE:  "jge",
	insts.CondULT: "jult",
	insts.CondULE: "jule",
	insts.CondUGT: "jugt",
	insts.CondUGE: "juge",
	insts.CondMI:  "jmi",
	insts.CondPL:  "jpl",
	insts.CondVS:  "jvs",
	insts.CondVC:  "jvc",
	insts.CondAL:  "jmp",
	insts.CondNV:  "jnv",
}

// Instruction disassembles the instruction at instr[0:2], given the
// register-file view of pc the decode phase would compute for it, into a
// single line of assembly text. It is pure and infallible: every 16-bit
// pattern maps to some printable form.
func Instruction(w0, w1, regsPC uint16) string {
	// op == 0b11 is reserved: no Kind decodes it, so Decode would panic.
	// The disassembler must never panic (spec.md §4.6), so this one
	// pattern gets a raw fallback instead of going through Decode.
	if w0>>14 == 0b11 {
		return fmt.Sprintf("??? (reserved 0x%04X)", w0)
	}

	inst := insts.NewDecoder().Decode(w0, w1)

	switch inst.Kind {
	case insts.KindDP:
		return dpText(inst)
	case insts.KindMem:
		return memText(inst)
	case insts.KindBranchOffset:
		return branchText(inst, regsPC)
	default:
		return fmt.Sprintf("??? (kind %v)", inst.Kind)
	}
}

func dpText(inst insts.Instruction) string {
	op := inst.Cmd.String()
	src2 := src2Text(inst.Src2)
	if inst.Cmd == insts.AluMOV && inst.Tn == insts.T0 {
		return fmt.Sprintf("%s %s, %s", op, inst.Td, src2)
	}
	return fmt.Sprintf("%s %s, %s, %s", op, inst.Td, inst.Tn, src2)
}

func memText(inst insts.Instruction) string {
	switch inst.Sel {
	case insts.SelPush:
		return fmt.Sprintf("%s %s", stackMnemonic("push", inst.B), src2Text(inst.Src2))
	case insts.SelPop:
		return fmt.Sprintf("%s %s", stackMnemonic("pop", inst.B), inst.Td)
	default:
		mnemonic := "lod"
		if inst.Sel == insts.SelSav {
			mnemonic = "sav"
		}
		if inst.B {
			mnemonic += "b"
		}
		if z, ok := inst.Src2.(insts.ZeroImm3); ok && z == 0 {
			return fmt.Sprintf("%s %s, [%s]", mnemonic, inst.Td, inst.Tn)
		}
		return fmt.Sprintf("%s %s, [%s + %s]", mnemonic, inst.Td, inst.Tn, src2Text(inst.Src2))
	}
}

func stackMnemonic(base string, b bool) string {
	if b {
		return base + "b"
	}
	return base
}

func branchText(inst insts.Instruction, regsPC uint16) string {
	mnemonic := condMnemonics[inst.Cond]
	var offset uint16
	switch o := inst.Offset.(type) {
	case insts.SignImm9:
		offset = uint16(o)
	case insts.WideImm16:
		offset = uint16(o)
	}
	target := regsPC + offset
	return fmt.Sprintf("%s 0x%04X", mnemonic, target)
}

func src2Text(s insts.Src2) string {
	switch v := s.(type) {
	case insts.RegSrc2:
		return v.Reg.String()
	case insts.ZeroImm3:
		return fmt.Sprintf("!%d", v)
	case insts.OneImm3:
		return fmt.Sprintf("!%d", v)
	case insts.WideImm16:
		return fmt.Sprintf("!0x%04X", uint16(v))
	default:
		return "!?"
	}
}

// Disassembler walks a flat instruction-memory word stream, rendering
// each instruction to a listing line: its word address, raw words, and
// disassembled text.
type Disassembler struct {
	Words []uint16
}

// NewDisassembler wraps words for listing.
func NewDisassembler(words []uint16) *Disassembler {
	return &Disassembler{Words: words}
}

// Disassemble writes one line per instruction to w.
func (d *Disassembler) Disassemble(w io.Writer) error {
	addr := uint16(0)
	for int(addr) < len(d.Words) {
		w0 := d.Words[addr]
		var w1 uint16
		if int(addr)+1 < len(d.Words) {
			w1 = d.Words[addr+1]
		}

		wide := insts.IsWideWord(w0)
		nextWide := false
		if !wide && int(addr)+1 < len(d.Words) {
			nextWide = insts.IsWideWord(w1)
		}
		regsPC := addr + 2
		if wide || nextWide {
			regsPC++
		}

		text := Instruction(w0, w1, regsPC)
		if wide {
			if _, err := fmt.Fprintf(w, "%04X: %04X %04X  %s\n", addr, w0, w1, text); err != nil {
				return err
			}
			addr += 2
		} else {
			if _, err := fmt.Fprintf(w, "%04X: %04X       %s\n", addr, w0, text); err != nil {
				return err
			}
			addr++
		}
	}
	return nil
}
