package asm

import (
	"strconv"
	"strings"

	"github.com/lunacore/lunacore/insts"
)

// stmt is one parsed source line: an optional label, and at most one
// instruction. A label-only line has HasInst false.
type stmt struct {
	LineNo int
	Source string
	Label  string
	HasInst bool
	Inst   insts.Instruction
	PC     uint16 // filled in by layout
}

// parseAll runs pass 1's parse half: tokenizing and building the
// statement list, without yet knowing any label's address.
func parseAll(file, source string) ([]stmt, error) {
	var stmts []stmt
	for i, raw := range strings.Split(source, "\n") {
		lineNo := i + 1
		toks := tokenize(raw)
		if len(toks) == 0 {
			continue
		}

		s := stmt{LineNo: lineNo, Source: strings.TrimRight(raw, "\r")}
		if strings.HasSuffix(toks[0], ":") {
			s.Label = strings.TrimSuffix(toks[0], ":")
			toks = toks[1:]
		}

		if len(toks) > 0 {
			inst, err := parseInstruction(file, lineNo, toks[0], toks[1:])
			if err != nil {
				return nil, err
			}
			s.HasInst = true
			s.Inst = inst
		}

		stmts = append(stmts, s)
	}
	return stmts, nil
}

func parseInstruction(file string, line int, mnemonic string, ops []string) (insts.Instruction, error) {
	switch mnemonic {
	case "inc", "dec":
		return parseIncDec(file, line, mnemonic, ops)
	case "not":
		return parseNot(file, line, ops)
	case "cmp", "tst":
		return parseCmpTst(file, line, mnemonic, ops)
	case "ret":
		if err := arity(file, line, mnemonic, ops, 0); err != nil {
			return insts.Instruction{}, err
		}
		return insts.Instruction{Kind: insts.KindMem, Sel: insts.SelPop, Td: insts.Pc, Tn: insts.Sp, Src2: insts.RegSrc2{Reg: insts.T0}}, nil
	case "nop":
		if err := arity(file, line, mnemonic, ops, 0); err != nil {
			return insts.Instruction{}, err
		}
		return insts.Instruction{Kind: insts.KindBranchOffset, Cond: insts.CondNV, Offset: insts.SignImm9(0)}, nil
	}

	if op, ok := dpOps[mnemonic]; ok {
		return parseDP(file, line, mnemonic, op, ops)
	}
	if form, ok := memOps[mnemonic]; ok {
		return parseMem(file, line, mnemonic, form, ops)
	}
	if form, ok := stackOps[mnemonic]; ok {
		return parseStack(file, line, mnemonic, form, ops)
	}
	if cond, ok := jumpCond(mnemonic); ok {
		return parseBranch(file, line, mnemonic, cond, ops)
	}

	return insts.Instruction{}, errf(file, line, "unknown opcode %q", mnemonic)
}

func jumpCond(mnemonic string) (insts.Cond, bool) {
	if !strings.HasPrefix(mnemonic, "j") || len(mnemonic) < 2 {
		return 0, false
	}
	cond, ok := condSuffixes[mnemonic[1:]]
	return cond, ok
}

func arity(file string, line int, mnemonic string, ops []string, want int) error {
	if len(ops) != want {
		return errf(file, line, "%q expects %d operand(s), got %d", mnemonic, want, len(ops))
	}
	return nil
}

func parseReg(file string, line int, tok string) (insts.Reg, error) {
	reg, ok := insts.LookupReg(tok)
	if !ok {
		return 0, errf(file, line, "invalid register name %q", tok)
	}
	return reg, nil
}

func parseSrc2(file string, line int, tok string) (insts.Src2, error) {
	if strings.HasPrefix(tok, "!") {
		return parseImmediate(file, line, tok)
	}
	reg, err := parseReg(file, line, tok)
	if err != nil {
		return nil, err
	}
	return insts.RegSrc2{Reg: reg}, nil
}

func parseImmediate(file string, line int, tok string) (insts.Src2, error) {
	digits := strings.TrimPrefix(tok, "!")
	v, err := strconv.ParseInt(digits, 0, 32)
	if err != nil {
		return nil, errf(file, line, "unparseable immediate %q", tok)
	}
	switch {
	case v >= 0 && v <= 7:
		return insts.ZeroImm3(v), nil
	case v >= -8 && v < 0:
		return insts.OneImm3(v), nil
	case v >= -32768 && v <= 65535:
		return insts.WideImm16(uint16(v)), nil
	default:
		return nil, errf(file, line, "immediate %d out of range for a 16-bit slot", v)
	}
}

func parseDP(file string, line int, mnemonic string, op insts.AluOp, ops []string) (insts.Instruction, error) {
	switch len(ops) {
	case 3:
		td, err := parseReg(file, line, ops[0])
		if err != nil {
			return insts.Instruction{}, err
		}
		tn, err := parseReg(file, line, ops[1])
		if err != nil {
			return insts.Instruction{}, err
		}
		src2, err := parseSrc2(file, line, ops[2])
		if err != nil {
			return insts.Instruction{}, err
		}
		return insts.Instruction{Kind: insts.KindDP, Cmd: op, Td: td, Tn: tn, Src2: src2}, nil

	case 2:
		td, err := parseReg(file, line, ops[0])
		if err != nil {
			return insts.Instruction{}, err
		}
		src2, err := parseSrc2(file, line, ops[1])
		if err != nil {
			return insts.Instruction{}, err
		}
		tn := td
		if mnemonic == "mov" {
			tn = insts.T0
		}
		return insts.Instruction{Kind: insts.KindDP, Cmd: op, Td: td, Tn: tn, Src2: src2}, nil

	default:
		return insts.Instruction{}, errf(file, line, "%q expects 2 or 3 operands, got %d", mnemonic, len(ops))
	}
}

func parseIncDec(file string, line int, mnemonic string, ops []string) (insts.Instruction, error) {
	if err := arity(file, line, mnemonic, ops, 1); err != nil {
		return insts.Instruction{}, err
	}
	r, err := parseReg(file, line, ops[0])
	if err != nil {
		return insts.Instruction{}, err
	}
	op := insts.AluADD
	if mnemonic == "dec" {
		op = insts.AluSUB
	}
	return insts.Instruction{Kind: insts.KindDP, Cmd: op, Td: r, Tn: r, Src2: insts.ZeroImm3(1)}, nil
}

func parseNot(file string, line int, ops []string) (insts.Instruction, error) {
	if err := arity(file, line, "not", ops, 1); err != nil {
		return insts.Instruction{}, err
	}
	r, err := parseReg(file, line, ops[0])
	if err != nil {
		return insts.Instruction{}, err
	}
	return insts.Instruction{Kind: insts.KindDP, Cmd: insts.AluXOR, Td: r, Tn: r, Src2: insts.OneImm3(-1)}, nil
}

func parseCmpTst(file string, line int, mnemonic string, ops []string) (insts.Instruction, error) {
	if err := arity(file, line, mnemonic, ops, 2); err != nil {
		return insts.Instruction{}, err
	}
	a, err := parseReg(file, line, ops[0])
	if err != nil {
		return insts.Instruction{}, err
	}
	b, err := parseSrc2(file, line, ops[1])
	if err != nil {
		return insts.Instruction{}, err
	}
	op := insts.AluSUB
	if mnemonic == "tst" {
		op = insts.AluAND
	}
	return insts.Instruction{Kind: insts.KindDP, Cmd: op, Td: insts.In, Tn: a, Src2: b}, nil
}

func parseMem(file string, line int, mnemonic string, form memForm, ops []string) (insts.Instruction, error) {
	if len(ops) < 3 || ops[1] != "[" || ops[len(ops)-1] != "]" {
		return insts.Instruction{}, errf(file, line, "bad memory-operand bracketing in %q", mnemonic)
	}
	td, err := parseReg(file, line, ops[0])
	if err != nil {
		return insts.Instruction{}, err
	}
	inner := ops[2 : len(ops)-1]

	var tn insts.Reg
	var src2 insts.Src2
	switch len(inner) {
	case 1:
		tn, err = parseReg(file, line, inner[0])
		if err != nil {
			return insts.Instruction{}, err
		}
		src2 = insts.ZeroImm3(0)
	case 3:
		if inner[1] != "+" {
			return insts.Instruction{}, errf(file, line, "bad memory-operand bracketing in %q", mnemonic)
		}
		tn, err = parseReg(file, line, inner[0])
		if err != nil {
			return insts.Instruction{}, err
		}
		src2, err = parseSrc2(file, line, inner[2])
		if err != nil {
			return insts.Instruction{}, err
		}
	default:
		return insts.Instruction{}, errf(file, line, "bad memory-operand bracketing in %q", mnemonic)
	}

	return insts.Instruction{Kind: insts.KindMem, B: form.B, Sel: form.Sel, Td: td, Tn: tn, Src2: src2}, nil
}

func parseStack(file string, line int, mnemonic string, form memForm, ops []string) (insts.Instruction, error) {
	if err := arity(file, line, mnemonic, ops, 1); err != nil {
		return insts.Instruction{}, err
	}
	inst := insts.Instruction{Kind: insts.KindMem, B: form.B, Sel: form.Sel, Tn: insts.Sp}
	if form.Sel == insts.SelPop {
		td, err := parseReg(file, line, ops[0])
		if err != nil {
			return insts.Instruction{}, err
		}
		inst.Td = td
		inst.Src2 = insts.RegSrc2{Reg: insts.T0}
		return inst, nil
	}
	src2, err := parseSrc2(file, line, ops[0])
	if err != nil {
		return insts.Instruction{}, err
	}
	inst.Src2 = src2
	return inst, nil
}

func parseBranch(file string, line int, mnemonic string, cond insts.Cond, ops []string) (insts.Instruction, error) {
	if err := arity(file, line, mnemonic, ops, 1); err != nil {
		return insts.Instruction{}, err
	}
	return insts.Instruction{Kind: insts.KindBranchLabel, Cond: cond, Label: ops[0]}, nil
}
