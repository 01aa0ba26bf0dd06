package asm

import "github.com/lunacore/lunacore/insts"

var dpOps = map[string]insts.AluOp{
	"add": insts.AluADD,
	"sub": insts.AluSUB,
	"and": insts.AluAND,
	"or":  insts.AluOR,
	"xor": insts.AluXOR,
	"mov": insts.AluMOV,
	"shl": insts.AluSHL,
	"shr": insts.AluSHR,
}

type memForm struct {
	B   bool
	Sel insts.MemSel
}

var memOps = map[string]memForm{
	"sav":  {B: false, Sel: insts.SelSav},
	"savb": {B: true, Sel: insts.SelSav},
	"lod":  {B: false, Sel: insts.SelLod},
	"lodb": {B: true, Sel: insts.SelLod},
}

var stackOps = map[string]memForm{
	"push":  {B: false, Sel: insts.SelPush},
	"pushb": {B: true, Sel: insts.SelPush},
	"pop":   {B: false, Sel: insts.SelPop},
	"popb":  {B: true, Sel: insts.SelPop},
}

// condSuffixes maps a jump mnemonic's suffix (the part after "j") to the
// condition it selects (spec.md §4.3). jmp falls out of this table for
// free: "mp" is AL's alternate mnemonic, so "jmp" resolves exactly like
// "jal" does.
var condSuffixes = map[string]insts.Cond{
	"z": insts.CondZ, "eq": insts.CondZ,
	"nz": insts.CondNZ, "ne": insts.CondNZ,
	"lt": insts.CondLT,
	"le": insts.CondLE,
	"gt": insts.CondGT,
	"ge": insts.CondGE,
	"ult": insts.CondULT, "cc": insts.CondULT,
	"ule": insts.CondULE,
	"ugt": insts.CondUGT,
	"uge": insts.CondUGE, "cs": insts.CondUGE,
	"mi": insts.CondMI,
	"pl": insts.CondPL,
	"vs": insts.CondVS,
	"vc": insts.CondVC,
	"al": insts.CondAL, "mp": insts.CondAL,
	"nv": insts.CondNV,
}
