package asm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lunacore/lunacore/asm"
	"github.com/lunacore/lunacore/emu"
	"github.com/lunacore/lunacore/insts"
)

func decodeOne(words []uint16) insts.Instruction {
	var w1 uint16
	if len(words) > 1 {
		w1 = words[1]
	}
	return insts.NewDecoder().Decode(words[0], w1)
}

var _ = Describe("Assemble", func() {
	Describe("DP mnemonics", func() {
		It("parses the 3-operand form", func() {
			words, err := asm.Assemble("t.s", "add t0, t1, t2")
			Expect(err).NotTo(HaveOccurred())
			Expect(decodeOne(words)).To(Equal(insts.Instruction{
				Kind: insts.KindDP, Cmd: insts.AluADD, Td: insts.T0, Tn: insts.T1, Src2: insts.RegSrc2{Reg: insts.T2},
			}))
		})

		It("parses the 2-operand self form", func() {
			words, err := asm.Assemble("t.s", "add t0, !3")
			Expect(err).NotTo(HaveOccurred())
			Expect(decodeOne(words)).To(Equal(insts.Instruction{
				Kind: insts.KindDP, Cmd: insts.AluADD, Td: insts.T0, Tn: insts.T0, Src2: insts.ZeroImm3(3),
			}))
		})

		It("parses mov's 2-operand form with tn canonicalized to t0", func() {
			words, err := asm.Assemble("t.s", "mov t3, !0x8888")
			Expect(err).NotTo(HaveOccurred())
			Expect(decodeOne(words)).To(Equal(insts.Instruction{
				Kind: insts.KindDP, Cmd: insts.AluMOV, Td: insts.T3, Tn: insts.T0, Src2: insts.WideImm16(0x8888),
			}))
		})
	})

	Describe("aliases", func() {
		DescribeTable("expand to the documented DP form",
			func(source string, want insts.Instruction) {
				words, err := asm.Assemble("t.s", source)
				Expect(err).NotTo(HaveOccurred())
				Expect(decodeOne(words)).To(Equal(want))
			},
			Entry("inc", "inc t0", insts.Instruction{Kind: insts.KindDP, Cmd: insts.AluADD, Td: insts.T0, Tn: insts.T0, Src2: insts.ZeroImm3(1)}),
			Entry("dec", "dec t1", insts.Instruction{Kind: insts.KindDP, Cmd: insts.AluSUB, Td: insts.T1, Tn: insts.T1, Src2: insts.ZeroImm3(1)}),
			Entry("not", "not t2", insts.Instruction{Kind: insts.KindDP, Cmd: insts.AluXOR, Td: insts.T2, Tn: insts.T2, Src2: insts.OneImm3(-1)}),
			Entry("cmp", "cmp t0, t1", insts.Instruction{Kind: insts.KindDP, Cmd: insts.AluSUB, Td: insts.In, Tn: insts.T0, Src2: insts.RegSrc2{Reg: insts.T1}}),
			Entry("tst", "tst t0, !1", insts.Instruction{Kind: insts.KindDP, Cmd: insts.AluAND, Td: insts.In, Tn: insts.T0, Src2: insts.ZeroImm3(1)}),
			Entry("ret", "ret", insts.Instruction{Kind: insts.KindMem, Sel: insts.SelPop, Td: insts.Pc, Tn: insts.Sp, Src2: insts.RegSrc2{Reg: insts.T0}}),
			Entry("nop", "nop", insts.Instruction{Kind: insts.KindBranchOffset, Cond: insts.CondNV, Offset: insts.SignImm9(0)}),
		)
	})

	Describe("memory forms", func() {
		It("parses the no-offset bracket form", func() {
			words, err := asm.Assemble("t.s", "lod t0, [ bp ]")
			Expect(err).NotTo(HaveOccurred())
			Expect(decodeOne(words)).To(Equal(insts.Instruction{
				Kind: insts.KindMem, Sel: insts.SelLod, Td: insts.T0, Tn: insts.Bp, Src2: insts.ZeroImm3(0),
			}))
		})

		It("parses the displaced bracket form", func() {
			words, err := asm.Assemble("t.s", "savb t2, [bp + !4]")
			Expect(err).NotTo(HaveOccurred())
			Expect(decodeOne(words)).To(Equal(insts.Instruction{
				Kind: insts.KindMem, Sel: insts.SelSav, B: true, Td: insts.T2, Tn: insts.Bp, Src2: insts.ZeroImm3(4),
			}))
		})

		It("rejects a missing closing bracket", func() {
			_, err := asm.Assemble("t.s", "lod t0, [ bp")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("stack mnemonics", func() {
		It("parses a register push", func() {
			words, err := asm.Assemble("t.s", "push t1")
			Expect(err).NotTo(HaveOccurred())
			Expect(decodeOne(words)).To(Equal(insts.Instruction{
				Kind: insts.KindMem, Sel: insts.SelPush, Tn: insts.Sp, Src2: insts.RegSrc2{Reg: insts.T1},
			}))
		})

		It("parses an immediate pushb", func() {
			words, err := asm.Assemble("t.s", "pushb !-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(decodeOne(words)).To(Equal(insts.Instruction{
				Kind: insts.KindMem, Sel: insts.SelPush, B: true, Tn: insts.Sp, Src2: insts.OneImm3(-1),
			}))
		})

		It("parses pop into a register", func() {
			words, err := asm.Assemble("t.s", "pop t3")
			Expect(err).NotTo(HaveOccurred())
			Expect(decodeOne(words)).To(Equal(insts.Instruction{
				Kind: insts.KindMem, Sel: insts.SelPop, Td: insts.T3, Tn: insts.Sp, Src2: insts.RegSrc2{Reg: insts.T0},
			}))
		})
	})

	Describe("branches", func() {
		It("resolves a forward label to a wide offset", func() {
			words, err := asm.Assemble("t.s", "jz target\nmov t0, !0x1234\ntarget:\nmov t1, !1")
			Expect(err).NotTo(HaveOccurred())
			inst := decodeOne(words)
			Expect(inst.Kind).To(Equal(insts.KindBranchOffset))
			Expect(inst.Cond).To(Equal(insts.CondZ))
			Expect(inst.Offset).To(Equal(insts.WideImm16(1)))
		})

		It("treats jmp as the unconditional alias", func() {
			words, err := asm.Assemble("t.s", "jmp here\nhere:\nnop")
			Expect(err).NotTo(HaveOccurred())
			Expect(decodeOne(words).Cond).To(Equal(insts.CondAL))
		})
	})

	Describe("layout", func() {
		It("records a label at the pc of the following instruction", func() {
			_, listing, err := asm.AssembleWithListing("t.s", "mov t0, !0x1234\nhere:\nmov t1, !0")
			Expect(err).NotTo(HaveOccurred())
			Expect(listing.Symbols["here"]).To(Equal(uint16(2)))
		})
	})

	Describe("diagnostics", func() {
		It("reports a duplicate label with its line", func() {
			_, err := asm.Assemble("prog.s", "a:\nnop\na:\nnop\n")
			Expect(err).To(HaveOccurred())
			var aerr *asm.Error
			Expect(err).To(BeAssignableToTypeOf(aerr))
			Expect(err.(*asm.Error).File).To(Equal("prog.s"))
			Expect(err.(*asm.Error).Line).To(Equal(3))
		})

		It("reports an unknown label in a branch", func() {
			_, err := asm.Assemble("prog.s", "jmp nowhere")
			Expect(err).To(HaveOccurred())
			Expect(err.(*asm.Error).Msg).To(ContainSubstring("unknown label"))
		})

		It("reports an unknown opcode", func() {
			_, err := asm.Assemble("prog.s", "frobnicate t0")
			Expect(err).To(HaveOccurred())
			Expect(err.(*asm.Error).Msg).To(ContainSubstring("unknown opcode"))
		})

		It("reports an invalid register name", func() {
			_, err := asm.Assemble("prog.s", "add t9, t0, t0")
			Expect(err).To(HaveOccurred())
			Expect(err.(*asm.Error).Msg).To(ContainSubstring("invalid register"))
		})

		It("reports an operand arity mismatch", func() {
			_, err := asm.Assemble("prog.s", "add t0, t1, t2, t3")
			Expect(err).To(HaveOccurred())
		})

		It("reports bad memory-operand bracketing", func() {
			_, err := asm.Assemble("prog.s", "lod t0, bp")
			Expect(err).To(HaveOccurred())
			Expect(err.(*asm.Error).Msg).To(ContainSubstring("bracketing"))
		})

		It("reports an unparseable immediate", func() {
			_, err := asm.Assemble("prog.s", "mov t0, !notanumber")
			Expect(err).To(HaveOccurred())
			Expect(err.(*asm.Error).Msg).To(ContainSubstring("unparseable immediate"))
		})

		It("emits no binary on error", func() {
			words, err := asm.Assemble("prog.s", "mov t0, !notanumber")
			Expect(err).To(HaveOccurred())
			Expect(words).To(BeNil())
		})
	})

	Describe("end-to-end scenario 6: assemble and run the natural-sum program", func() {
		It("sums 1..104 into t3 and returns sp to 0", func() {
			source := `
				push !104
				push pc
				jmp sum
				pop t3
			park:
				jmp park
			sum:
				pop t2
				pop t0
				mov t1, !0
			loop:
				add t1, t1, t0
				sub t0, t0, !1
				jnz loop
				push t1
				push t2
				ret
			`
			words, err := asm.Assemble("sum.s", source)
			Expect(err).NotTo(HaveOccurred())

			imem := emu.NewInstrMemory()
			imem.Load(words)
			e := emu.NewEmulator(imem, emu.NewDataMemory())
			_, err = e.Run(400)
			Expect(err).NotTo(HaveOccurred())

			Expect(e.Regs().ReadReg(insts.T3)).To(Equal(uint16(5460)))
			Expect(e.Regs().ReadReg(insts.Sp)).To(Equal(uint16(0)))
		})
	})
})
