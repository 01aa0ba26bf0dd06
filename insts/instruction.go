package insts

import "fmt"

// Kind classifies the four instruction variants of spec.md §3.2. The sum
// is closed: everything that dispatches on Kind must handle all four, and
// a default case that panics keeps a missed addition from compiling into
// silently-wrong behavior.
type Kind uint8

const (
	KindDP Kind = iota
	KindMem
	KindBranchOffset
	KindBranchLabel
)

func (k Kind) String() string {
	switch k {
	case KindDP:
		return "DP"
	case KindMem:
		return "Mem"
	case KindBranchOffset:
		return "BranchOffset"
	case KindBranchLabel:
		return "BranchLabel"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// AluOp is the 3-bit cmd field of a DP instruction and the ALU's op
// selector (spec.md §4.4).
type AluOp uint8

const (
	AluADD AluOp = iota
	AluSUB
	AluAND
	AluOR
	AluXOR
	AluMOV
	AluSHL
	AluSHR
)

var aluMnemonics = [8]string{"add", "sub", "and", "or", "xor", "mov", "shl", "shr"}

func (op AluOp) String() string {
	if int(op) < len(aluMnemonics) {
		return aluMnemonics[op]
	}
	return "alu?"
}

// MemSel is the 2-bit SL sub-op of a Mem instruction's bsl field.
type MemSel uint8

const (
	SelSav MemSel = iota
	SelLod
	SelPush
	SelPop
)

// Cond is the 4-bit branch condition field (spec.md §4.3).
type Cond uint8

const (
	CondZ   Cond = 0x0 // Z/EQ
	CondNZ  Cond = 0x1 // NZ/NE
	CondLT  Cond = 0x2
	CondLE  Cond = 0x3
	CondGT  Cond = 0x4
	CondGE  Cond = 0x5
	CondULT Cond = 0x6 // ULT/CC
	CondULE Cond = 0x7
	CondUGT Cond = 0x8
	CondUGE Cond = 0x9 // UGE/CS
	CondMI  Cond = 0xA
	CondPL  Cond = 0xB
	CondVS  Cond = 0xC
	CondVC  Cond = 0xD
	CondAL  Cond = 0xE // AL/MP
	CondNV  Cond = 0xF
)

// Src2 is the second DP/Mem operand: a register, a small zero- or
// one-extended immediate, or a wide 16-bit immediate (spec.md §3.2). The
// interface is sealed — only types in this package implement it — so an
// exhaustive type switch here is the only place a new variant can hide.
type Src2 interface {
	isSrc2()
}

// RegSrc2 selects a register as the second operand.
type RegSrc2 struct{ Reg Reg }

// ZeroImm3 is a 3-bit immediate in 0..7, zero-extended.
type ZeroImm3 uint8

// OneImm3 is a 3-bit immediate representing -8..-1, encoded in 3 bits and
// one-extended (sign bit always 1) on decode.
type OneImm3 int8

// WideImm16 is a full 16-bit immediate carried in a second instruction
// word. It doubles as both a Src2 and an Offset (spec.md §3.2).
type WideImm16 uint16

func (RegSrc2) isSrc2()   {}
func (ZeroImm3) isSrc2()  {}
func (OneImm3) isSrc2()   {}
func (WideImm16) isSrc2() {}

// Offset is a BranchOffset's displacement: a signed 9-bit immediate or a
// wide 16-bit one (spec.md §3.2). Also sealed.
type Offset interface {
	isOffset()
}

// SignImm9 is a signed 9-bit branch displacement.
type SignImm9 int16

func (SignImm9) isOffset()  {}
func (WideImm16) isOffset() {}

// Instruction is the typed, decoded representation of one LunaCore
// instruction. Only the fields relevant to Kind are meaningful; this
// mirrors the "single struct tagged by format" shape used throughout the
// instruction-decoding side of this codebase, rather than one Go type per
// variant, so a decoder can build one value without an allocation per
// format.
type Instruction struct {
	Kind Kind

	// DP and Mem share these.
	Td, Tn Reg
	Src2   Src2

	// DP only.
	Cmd AluOp

	// Mem only.
	B   bool // byte-mode
	Sel MemSel

	// BranchOffset and BranchLabel share this.
	Cond Cond

	// BranchOffset only.
	Offset Offset

	// BranchLabel only (never encoded directly — see Encode).
	Label string
}

// IsWide reports whether the instruction occupies two consecutive words:
// a DP/Mem with a WideImm16 Src2, a BranchOffset with a WideImm16 Offset,
// or a BranchLabel (always assumed wide during layout, spec.md §4.2
// pass 1).
func (i Instruction) IsWide() bool {
	switch i.Kind {
	case KindDP, KindMem:
		_, wide := i.Src2.(WideImm16)
		return wide
	case KindBranchOffset:
		_, wide := i.Offset.(WideImm16)
		return wide
	case KindBranchLabel:
		return true
	default:
		panic(fmt.Sprintf("insts: IsWide: unhandled kind %v", i.Kind))
	}
}

// Words reports how many 16-bit words the instruction occupies: 1 or 2.
func (i Instruction) Words() int {
	if i.IsWide() {
		return 2
	}
	return 1
}
