package emu

import (
	"fmt"

	"github.com/lunacore/lunacore/insts"
)

// Emulator executes LunaCore instructions one at a time. It owns the
// register file and both memories, and mirrors the reference simulator's
// split between a pure fetch/decode/execute cycle and the execution units
// (ALU, condition unit) it dispatches into.
type Emulator struct {
	regs *RegFile
	imem *InstrMemory
	dmem *DataMemory

	decoder *insts.Decoder
	alu     *ALU
	cond    *ConditionUnit

	fetchPC uint16

	instructionCount uint64
}

// Option configures an Emulator at construction time.
type Option func(*Emulator)

// WithStackPointer sets the initial value of the sp register.
func WithStackPointer(sp uint16) Option {
	return func(e *Emulator) {
		e.regs.WriteReg(insts.Sp, sp)
	}
}

// WithInput sets the initial value of the read-only in register.
func WithInput(v uint16) Option {
	return func(e *Emulator) {
		e.regs.R[insts.In] = v
	}
}

// NewEmulator creates an Emulator over the given instruction and data
// memories.
func NewEmulator(imem *InstrMemory, dmem *DataMemory, opts ...Option) *Emulator {
	e := &Emulator{
		regs:    &RegFile{},
		imem:    imem,
		dmem:    dmem,
		decoder: insts.NewDecoder(),
		alu:     NewALU(),
		cond:    NewConditionUnit(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Regs returns the register file.
func (e *Emulator) Regs() *RegFile { return e.regs }

// DataMem returns the data memory.
func (e *Emulator) DataMem() *DataMemory { return e.dmem }

// InstrMem returns the instruction memory.
func (e *Emulator) InstrMem() *InstrMemory { return e.imem }

// FetchPC returns the architectural fetch pc — the address of the
// instruction that will execute on the next Step.
func (e *Emulator) FetchPC() uint16 { return e.fetchPC }

// SetFetchPC forces the fetch pc, so execution can start mid-program.
func (e *Emulator) SetFetchPC(pc uint16) { e.fetchPC = pc }

// SetInput overwrites the read-only in register with an externally
// supplied value, modeling the one I/O device spec.md §1 allows.
func (e *Emulator) SetInput(v uint16) { e.regs.R[insts.In] = v }

// InstructionCount returns how many instructions Step has retired.
func (e *Emulator) InstructionCount() uint64 { return e.instructionCount }

// Step executes exactly one instruction: fetch, decode, execute, retire
// (spec.md §4.5). It returns a non-nil error only for an architectural
// fault (spec.md §7), which the caller should treat as fatal.
func (e *Emulator) Step() error {
	w0, w1 := e.imem.Fetch2(e.fetchPC)
	if insts.IsReservedOp(w0) {
		return fmt.Errorf("emu: corrupt encoding: reserved op at pc 0x%04X: 0x%04X", e.fetchPC, w0)
	}
	inst := e.decoder.Decode(w0, w1)
	wide := inst.IsWide()
	nextWide := insts.IsWideWord(w1) && !wide

	view := e.fetchPC + 2
	if wide || nextWide {
		view++
	}
	e.regs.WriteReg(insts.Pc, view)

	pcOverwritten, err := e.execute(inst, wide)
	if err != nil {
		return err
	}

	if !pcOverwritten {
		step := uint16(1)
		if wide {
			step = 2
		}
		e.fetchPC += step
	}

	e.instructionCount++
	return nil
}

// Run steps the emulator until it has executed maxCycles instructions (0
// means unbounded) or a fault occurs.
func (e *Emulator) Run(maxCycles uint64) (cycles uint64, err error) {
	for maxCycles == 0 || cycles < maxCycles {
		if err := e.Step(); err != nil {
			return cycles, err
		}
		cycles++
	}
	return cycles, nil
}

func (e *Emulator) execute(inst insts.Instruction, wide bool) (pcOverwritten bool, err error) {
	switch inst.Kind {
	case insts.KindDP:
		return e.executeDP(inst), nil
	case insts.KindMem:
		return e.executeMem(inst)
	case insts.KindBranchOffset:
		return e.executeBranch(inst), nil
	default:
		return false, fmt.Errorf("emu: corrupt encoding: decoded instruction has kind %v", inst.Kind)
	}
}

func (e *Emulator) src2Value(s insts.Src2) uint16 {
	switch v := s.(type) {
	case insts.RegSrc2:
		return e.regs.ReadReg(v.Reg)
	case insts.ZeroImm3:
		return uint16(v)
	case insts.OneImm3:
		return uint16(int16(v))
	case insts.WideImm16:
		return uint16(v)
	default:
		panic("emu: src2Value: unhandled Src2 variant")
	}
}

func (e *Emulator) executeDP(inst insts.Instruction) (pcOverwritten bool) {
	a := e.regs.ReadReg(inst.Tn)
	b := e.src2Value(inst.Src2)
	result, flags := e.alu.Eval(inst.Cmd, a, b)
	e.regs.Flags = flags
	e.regs.WriteReg(inst.Td, result)
	if inst.Td == insts.Pc {
		e.fetchPC = result
		return true
	}
	return false
}

func (e *Emulator) executeMem(inst insts.Instruction) (pcOverwritten bool, err error) {
	switch inst.Sel {
	case insts.SelSav:
		addr := e.alu.AddWord(e.regs.ReadReg(inst.Tn), e.src2Value(inst.Src2))
		value := e.regs.ReadReg(inst.Td)
		if inst.B {
			e.dmem.WriteByte(addr, byte(value))
		} else if werr := e.dmem.WriteWord(addr, value); werr != nil {
			return false, werr
		}
		return false, nil

	case insts.SelLod:
		addr := e.alu.AddWord(e.regs.ReadReg(inst.Tn), e.src2Value(inst.Src2))
		var value uint16
		if inst.B {
			value = uint16(e.dmem.ReadByte(addr))
		} else {
			v, rerr := e.dmem.ReadWord(addr)
			if rerr != nil {
				return false, rerr
			}
			value = v
		}
		e.regs.WriteReg(inst.Td, value)
		if inst.Td == insts.Pc {
			e.fetchPC = value
			return true, nil
		}
		return false, nil

	case insts.SelPush:
		step := uint16(2)
		if inst.B {
			step = 1
		}
		newSP := e.regs.ReadReg(insts.Sp) - step
		writeData := e.src2Value(inst.Src2)
		if inst.B {
			e.dmem.WriteByte(newSP, byte(writeData))
		} else if werr := e.dmem.WriteWord(newSP, writeData); werr != nil {
			return false, werr
		}
		e.regs.WriteReg(insts.Sp, newSP)
		return false, nil

	case insts.SelPop:
		step := uint16(2)
		if inst.B {
			step = 1
		}
		addr := e.regs.ReadReg(insts.Sp)
		var value uint16
		if inst.B {
			value = uint16(e.dmem.ReadByte(addr))
		} else {
			v, rerr := e.dmem.ReadWord(addr)
			if rerr != nil {
				return false, rerr
			}
			value = v
		}
		e.regs.WriteReg(inst.Td, value)
		e.regs.WriteReg(insts.Sp, e.regs.ReadReg(insts.Sp)+step)
		if inst.Td == insts.Pc {
			e.fetchPC = value
			return true, nil
		}
		return false, nil

	default:
		return false, fmt.Errorf("emu: corrupt encoding: mem selector %v", inst.Sel)
	}
}

func (e *Emulator) executeBranch(inst insts.Instruction) (pcOverwritten bool) {
	if !e.cond.Check(inst.Cond, e.regs.Flags) {
		return false
	}
	var offset uint16
	switch o := inst.Offset.(type) {
	case insts.SignImm9:
		offset = uint16(int16(o))
	case insts.WideImm16:
		offset = uint16(o)
	default:
		panic("emu: executeBranch: unhandled Offset variant")
	}
	target := e.alu.AddWord(e.regs.ReadReg(insts.Pc), offset)
	e.fetchPC = target
	return true
}
