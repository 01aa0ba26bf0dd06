package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lunacore/lunacore/emu"
	"github.com/lunacore/lunacore/insts"
)

// predicate mirrors spec.md §4.3's truth table directly, independent of the
// ConditionUnit implementation, so the exhaustive comparison below is an
// actual check rather than the implementation agreeing with itself.
func predicate(cond insts.Cond, f emu.Flags) bool {
	switch cond {
	case insts.CondZ:
		return f.Z
	case insts.CondNZ:
		return !f.Z
	case insts.CondLT:
		return f.N != f.V
	case insts.CondLE:
		return f.Z || (f.N != f.V)
	case insts.CondGT:
		return !f.Z && (f.N == f.V)
	case insts.CondGE:
		return f.N == f.V
	case insts.CondULT:
		return !f.C
	case insts.CondULE:
		return !f.C || !f.Z
	case insts.CondUGT:
		return f.C && !f.Z
	case insts.CondUGE:
		return f.C
	case insts.CondMI:
		return f.N
	case insts.CondPL:
		return !f.N
	case insts.CondVS:
		return f.V
	case insts.CondVC:
		return !f.V
	case insts.CondAL:
		return true
	case insts.CondNV:
		return false
	default:
		panic("unreachable")
	}
}

var _ = Describe("ConditionUnit", func() {
	It("matches the predicate table exhaustively over all 16 NZCV patterns", func() {
		cu := emu.NewConditionUnit()
		for bits := 0; bits < 16; bits++ {
			f := emu.Flags{
				N: bits&0x8 != 0,
				Z: bits&0x4 != 0,
				C: bits&0x2 != 0,
				V: bits&0x1 != 0,
			}
			for cond := insts.Cond(0); cond < 16; cond++ {
				Expect(cu.Check(cond, f)).To(Equal(predicate(cond, f)),
					"cond=%04b flags=%+v", uint8(cond), f)
			}
		}
	})
})
