package emu

import "github.com/lunacore/lunacore/insts"

// ConditionUnit evaluates the 16 LunaCore branch predicates against a
// Flags snapshot (spec.md §4.3). It is pure and stateless, the same shape
// as the reference simulator's branch-condition checker.
type ConditionUnit struct{}

// NewConditionUnit returns a ConditionUnit.
func NewConditionUnit() *ConditionUnit {
	return &ConditionUnit{}
}

// Check evaluates cond against flags.
func (c *ConditionUnit) Check(cond insts.Cond, flags Flags) bool {
	switch cond {
	case insts.CondZ:
		return flags.Z
	case insts.CondNZ:
		return !flags.Z
	case insts.CondLT:
		return flags.N != flags.V
	case insts.CondLE:
		return flags.Z || (flags.N != flags.V)
	case insts.CondGT:
		return !flags.Z && (flags.N == flags.V)
	case insts.CondGE:
		return flags.N == flags.V
	case insts.CondULT:
		return !flags.C
	case insts.CondULE:
		return !flags.C || !flags.Z
	case insts.CondUGT:
		return flags.C && !flags.Z
	case insts.CondUGE:
		return flags.C
	case insts.CondMI:
		return flags.N
	case insts.CondPL:
		return !flags.N
	case insts.CondVS:
		return flags.V
	case insts.CondVC:
		return !flags.V
	case insts.CondAL:
		return true
	case insts.CondNV:
		return false
	default:
		panic("emu: ConditionUnit.Check: cond is a 4-bit field, all 16 cases handled")
	}
}
