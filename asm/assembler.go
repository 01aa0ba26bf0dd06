// Package asm assembles LunaCore source text into the flat 16-bit-word
// binary format emu and loader consume (spec.md §4.2). Assembly runs in
// three passes — layout, validation, lowering — matching the order the
// specification lays them out in, so a reader can check one against the
// other line for line.
package asm

import "github.com/lunacore/lunacore/insts"

// Listing carries the per-line layout the assembler computed, for
// diagnostics and for tools (lunasm's layout subcommand, disassembly
// listings) that want pc-to-source correspondence without re-parsing.
type Listing struct {
	Lines   []ListingLine
	Symbols map[string]uint16
}

// ListingLine is one assembled source line: its word offset, the words it
// encoded to (empty for a label-only line), and the original source text.
type ListingLine struct {
	PC     uint16
	Words  []uint16
	Line   int
	Source string
}

// Assemble translates source into a flat word stream. filename is used
// only to annotate diagnostics.
func Assemble(filename, source string) ([]uint16, error) {
	words, _, err := AssembleWithListing(filename, source)
	return words, err
}

// AssembleWithListing is Assemble plus the per-line layout, for callers
// that want to present it (a listing file, a `layout` CLI subcommand).
func AssembleWithListing(filename, source string) ([]uint16, *Listing, error) {
	stmts, err := parseAll(filename, source)
	if err != nil {
		return nil, nil, err
	}

	labels, err := layout(filename, stmts)
	if err != nil {
		return nil, nil, err
	}

	if err := validateLabels(filename, stmts, labels); err != nil {
		return nil, nil, err
	}

	lower(stmts, labels)

	var words []uint16
	listing := &Listing{Symbols: labels}
	for _, s := range stmts {
		var w []uint16
		if s.HasInst {
			w = s.Inst.Encode()
		}
		words = append(words, w...)
		listing.Lines = append(listing.Lines, ListingLine{PC: s.PC, Words: w, Line: s.LineNo, Source: s.Source})
	}

	return words, listing, nil
}

// layout is pass 1: assign each instruction a pc, advancing by its word
// count, and record every label at the pc of the line that follows it.
// Every BranchLabel is assumed wide regardless of actual distance — a
// deliberate over-approximation that never shrinks a wide branch to
// short, so layout never needs a second, fix-point pass.
func layout(file string, stmts []stmt) (map[string]uint16, error) {
	labels := make(map[string]uint16)
	var pc uint16

	for i := range stmts {
		s := &stmts[i]
		if s.Label != "" {
			if _, dup := labels[s.Label]; dup {
				return nil, errf(file, s.LineNo, "duplicate label %q", s.Label)
			}
			labels[s.Label] = pc
		}
		s.PC = pc
		if s.HasInst {
			pc += uint16(s.Inst.Words())
		}
	}

	return labels, nil
}

// validateLabels is pass 2: every BranchLabel must name a label that pass
// 1 recorded.
func validateLabels(file string, stmts []stmt, labels map[string]uint16) error {
	for _, s := range stmts {
		if !s.HasInst || s.Inst.Kind != insts.KindBranchLabel {
			continue
		}
		if _, ok := labels[s.Inst.Label]; !ok {
			return errf(file, s.LineNo, "unknown label %q", s.Inst.Label)
		}
	}
	return nil
}

// lower is pass 3: replace every BranchLabel with the wide BranchOffset
// it resolves to. The `+3` accounts for the two words of the branch
// itself (fetch pc is 2 words ahead by the time regs.pc is read) plus the
// wide marker word.
func lower(stmts []stmt, labels map[string]uint16) {
	for i := range stmts {
		s := &stmts[i]
		if !s.HasInst || s.Inst.Kind != insts.KindBranchLabel {
			continue
		}
		target := labels[s.Inst.Label]
		offset := int32(target) - (int32(s.PC) + 3)
		s.Inst = insts.Instruction{
			Kind:   insts.KindBranchOffset,
			Cond:   s.Inst.Cond,
			Offset: insts.WideImm16(uint16(offset)),
		}
	}
}
