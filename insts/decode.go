package insts

// Decoder turns raw instruction words into typed Instructions. It holds
// no state; it exists as a type (rather than a bare function) so callers
// that want to swap in tracing or caching decoders can do so behind the
// same interface the emulator uses.
type Decoder struct{}

// NewDecoder creates a Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// IsWideWord classifies a single raw word as the head of a wide (two-word)
// instruction, without needing the following word. The emulator's decode
// phase uses this to look one instruction ahead (spec.md §4.5's
// next_wide) without performing a full decode of what might not even be
// the start of an instruction.
func IsWideWord(w0 uint16) bool {
	switch field(w0, 15, 14) {
	case opDP, opMem:
		return field(w0, 13, 12) == immWide
	case opBranch:
		return field(w0, 13, 13) == 1
	default:
		return false
	}
}

// IsReservedOp reports whether w0's op field (bits 15-14) is the one
// 2-bit pattern with no defined Kind. Decode panics on this pattern;
// callers that may see arbitrary memory contents (the emulator's
// fetch stage, the disassembler) must check this first.
func IsReservedOp(w0 uint16) bool {
	return field(w0, 15, 14) == opReserved
}

// Decode classifies w0 and, if the instruction is wide, folds in w1 (the
// second word — an immediate or a branch offset). It never returns a
// BranchLabel: that variant is assembler-only and is never written to the
// wire (spec.md §3.2).
func (d *Decoder) Decode(w0, w1 uint16) Instruction {
	switch field(w0, 15, 14) {
	case opDP:
		return decodeDP(w0, w1)
	case opMem:
		return decodeMem(w0, w1)
	case opBranch:
		return decodeBranch(w0, w1)
	default:
		panic("insts: Decode: reserved op 0b11 has no instruction kind")
	}
}

func decodeSrc2(mode, payload, wideWord uint16) Src2 {
	switch mode {
	case immReg:
		return RegSrc2{Reg: Reg(payload & 0x7)}
	case immZero3:
		return ZeroImm3(payload & 0x7)
	case immOne3:
		return OneImm3(OneExtend3(uint8(payload)))
	case immWide:
		return WideImm16(wideWord)
	default:
		panic("insts: decodeSrc2: imm mode has only two bits, all four cases handled")
	}
}

func decodeDP(w0, w1 uint16) Instruction {
	mode := field(w0, 13, 12)
	return Instruction{
		Kind: KindDP,
		Cmd:  AluOp(field(w0, 11, 9)),
		Td:   Reg(field(w0, 8, 6)),
		Tn:   Reg(field(w0, 5, 3)),
		Src2: decodeSrc2(mode, field(w0, 2, 0), w1),
	}
}

func decodeMem(w0, w1 uint16) Instruction {
	mode := field(w0, 13, 12)
	b, sel := unpackBSL(field(w0, 11, 9))
	td := Reg(field(w0, 8, 6))
	tn := Reg(field(w0, 5, 3))

	inst := Instruction{
		Kind: KindMem,
		B:    b,
		Sel:  sel,
		Tn:   tn,
	}

	switch sel {
	case SelPop:
		inst.Td = td
		inst.Src2 = RegSrc2{Reg: T0}
	case SelPush:
		if mode == immReg {
			inst.Src2 = RegSrc2{Reg: td}
		} else {
			inst.Src2 = decodeSrc2(mode, field(w0, 2, 0), w1)
		}
	default: // SelSav, SelLod
		inst.Td = td
		inst.Src2 = decodeSrc2(mode, field(w0, 2, 0), w1)
	}

	return inst
}

func decodeBranch(w0, w1 uint16) Instruction {
	cond := Cond(field(w0, 12, 9))
	if field(w0, 13, 13) == 1 {
		return Instruction{
			Kind:   KindBranchOffset,
			Cond:   cond,
			Offset: WideImm16(w1),
		}
	}
	return Instruction{
		Kind:   KindBranchOffset,
		Cond:   cond,
		Offset: SignImm9(SignExtend9(field(w0, 8, 0))),
	}
}
