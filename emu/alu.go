package emu

import "github.com/lunacore/lunacore/insts"

// ALU implements the eight LunaCore arithmetic/logic operations and the
// NZCV flag-update rules of spec.md §4.4. It is stateless: Eval returns
// both the 16-bit result and the flags that op would produce, leaving it
// to the caller whether to commit them to the architectural Flags (only
// DP instructions do — see emulator.go).
type ALU struct{}

// NewALU returns an ALU. It carries no state; the constructor exists so
// callers can treat it uniformly with the other execution units.
func NewALU() *ALU {
	return &ALU{}
}

// Eval computes op(a, b) and the flags that result would set.
func (alu *ALU) Eval(op insts.AluOp, a, b uint16) (result uint16, flags Flags) {
	switch op {
	case insts.AluADD:
		wide := uint32(a) + uint32(b)
		result = uint16(wide)
		flags = Flags{
			N: result&0x8000 != 0,
			Z: result == 0,
			C: wide > 0xFFFF,
			V: addOverflow(a, b, result),
		}
	case insts.AluSUB:
		result = a - b
		flags = Flags{
			N: result&0x8000 != 0,
			Z: result == 0,
			C: a < b,
			V: subOverflow(a, b, result),
		}
	case insts.AluAND:
		result = a & b
		flags = logicFlags(result)
	case insts.AluOR:
		result = a | b
		flags = logicFlags(result)
	case insts.AluXOR:
		result = a ^ b
		flags = logicFlags(result)
	case insts.AluMOV:
		result = b
		shamt := uint(b % 16)
		flags = Flags{
			N: result&0x8000 != 0,
			Z: result == 0,
			C: movShiftCarry(a, shamt),
		}
	case insts.AluSHL:
		shamt := uint(b % 16)
		result = a << shamt
		flags = logicFlags(result)
	case insts.AluSHR:
		shamt := uint(b % 16)
		result = a >> shamt
		flags = logicFlags(result)
	default:
		panic("emu: ALU.Eval: unhandled AluOp")
	}
	return result, flags
}

// AddWord performs a flag-free 16-bit add, the condition-free ADD path
// used for address and push/pop arithmetic (spec.md §4.5: "Push/pop
// intentionally use the condition-free ADD path").
func (alu *ALU) AddWord(a, b uint16) uint16 {
	return a + b
}

func logicFlags(result uint16) Flags {
	return Flags{
		N: result&0x8000 != 0,
		Z: result == 0,
	}
}

func addOverflow(a, b, result uint16) bool {
	signA := a & 0x8000
	signB := b & 0x8000
	signR := result & 0x8000
	return signA == signB && signR != signA
}

func subOverflow(a, b, result uint16) bool {
	signA := a & 0x8000
	signB := b & 0x8000
	signR := result & 0x8000
	return signA != signB && signR != signA
}

// movShiftCarry implements the documented-quirky MOV carry rule: bit
// 16-(b mod 16) of a (spec.md §4.4, §9 Open Questions). A shift amount of
// 0 has no defined bit-16 and reads as clear.
func movShiftCarry(a uint16, shamt uint) bool {
	if shamt == 0 {
		return false
	}
	bit := 16 - shamt
	return (uint32(a)>>bit)&1 != 0
}
