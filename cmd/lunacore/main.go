// Package main provides lunacore, the LunaCore emulator driver.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lunacore/lunacore/disasm"
	"github.com/lunacore/lunacore/emu"
	"github.com/lunacore/lunacore/insts"
	"github.com/lunacore/lunacore/loader"
)

var (
	dmemPath = flag.String("dmem", "", "data RAM preload image")
	runFlag  = flag.Bool("run", false, "run to completion instead of starting the REPL")
	maxCyc   = flag.Uint64("max-cycles", 0, "cycle budget for -run (0 = unbounded)")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: lunacore [options] <program.bin>\n\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	words, err := loader.LoadProgram(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "lunacore: %v\n", err)
		os.Exit(1)
	}

	imem := emu.NewInstrMemory()
	imem.Load(words)
	dmem := emu.NewDataMemory()

	if *dmemPath != "" {
		image, err := loader.LoadDataImage(*dmemPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lunacore: %v\n", err)
			os.Exit(1)
		}
		if err := dmem.Preload(image); err != nil {
			fmt.Fprintf(os.Stderr, "lunacore: %v\n", err)
			os.Exit(1)
		}
	}

	e := emu.NewEmulator(imem, dmem)

	if *runFlag {
		cycles, err := e.Run(*maxCyc)
		fmt.Printf("ran %d cycles\n", cycles)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lunacore: fault: %v\n", err)
			os.Exit(1)
		}
		return
	}

	newREPL(e).run()
}

// repl is an interactive single-instruction stepper over an Emulator,
// modeled on spec.md §6's command set.
type repl struct {
	e          *emu.Emulator
	scanner    *bufio.Scanner
	breakpoint uint16
	hasBreak   bool
}

func newREPL(e *emu.Emulator) *repl {
	return &repl{e: e, scanner: bufio.NewScanner(os.Stdin)}
}

func (r *repl) run() {
	fmt.Println("lunacore REPL — type 'help' for commands")
	for {
		fmt.Print("> ")
		if !r.scanner.Scan() {
			return
		}
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if r.dispatch(fields[0], fields[1:]) {
			return
		}
	}
}

// dispatch runs one command and reports whether the REPL should exit.
func (r *repl) dispatch(cmd string, args []string) bool {
	switch cmd {
	case "run", "r":
		r.cmdRun()
	case "step", "s":
		n := 1
		if len(args) > 0 {
			if v, err := strconv.Atoi(args[0]); err == nil {
				n = v
			}
		}
		r.cmdStep(n)
	case "state":
		r.printRegs()
		r.printFlags()
	case "regs":
		r.printRegs()
	case "flags":
		r.printFlags()
	case "memory":
		r.cmdMemory(args)
	case "break":
		r.cmdBreak(args)
	case "help":
		printHelp()
	case "quit", "q", "exit":
		return true
	default:
		fmt.Printf("unknown command %q — type 'help'\n", cmd)
	}
	return false
}

func (r *repl) cmdRun() {
	for {
		if r.hasBreak && r.e.FetchPC() == r.breakpoint {
			fmt.Printf("hit breakpoint at 0x%04X\n", r.breakpoint)
			return
		}
		if int(r.e.FetchPC()) >= r.e.InstrMem().Len() {
			fmt.Printf("reached end of program at 0x%04X\n", r.e.FetchPC())
			return
		}
		if err := r.e.Step(); err != nil {
			fmt.Printf("fault: %v\n", err)
			return
		}
	}
}

func (r *repl) cmdStep(n int) {
	for i := 0; i < n; i++ {
		pc := r.e.FetchPC()
		w0, w1 := r.e.InstrMem().Fetch2(pc)
		if err := r.e.Step(); err != nil {
			fmt.Printf("fault: %v\n", err)
			return
		}
		fmt.Printf("0x%04X: %s\n", pc, disasm.Instruction(w0, w1, r.e.Regs().ReadReg(insts.Pc)))
	}
}

func (r *repl) printRegs() {
	regs := r.e.Regs()
	fmt.Printf("t0=%04X t1=%04X t2=%04X t3=%04X bp=%04X sp=%04X pc=%04X in=%04X\n",
		regs.ReadReg(insts.T0), regs.ReadReg(insts.T1), regs.ReadReg(insts.T2), regs.ReadReg(insts.T3),
		regs.ReadReg(insts.Bp), regs.ReadReg(insts.Sp), regs.ReadReg(insts.Pc), regs.ReadReg(insts.In))
	fmt.Printf("fetch_pc=%04X instructions=%d\n", r.e.FetchPC(), r.e.InstructionCount())
}

func (r *repl) printFlags() {
	f := r.e.Regs().Flags
	fmt.Printf("N=%t Z=%t C=%t V=%t\n", f.N, f.Z, f.C, f.V)
}

func (r *repl) cmdMemory(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: memory <addr> [count]")
		return
	}
	addr, err := strconv.ParseUint(args[0], 0, 16)
	if err != nil {
		fmt.Printf("bad address %q: %v\n", args[0], err)
		return
	}
	count := 16
	if len(args) > 1 {
		if v, err := strconv.Atoi(args[1]); err == nil {
			count = v
		}
	}
	dmem := r.e.DataMem()
	for i := 0; i < count; i++ {
		if i%8 == 0 {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%04X:", uint16(addr)+uint16(i))
		}
		fmt.Printf(" %02X", dmem.ReadByte(uint16(addr)+uint16(i)))
	}
	fmt.Println()
}

func (r *repl) cmdBreak(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: break <addr>")
		return
	}
	addr, err := strconv.ParseUint(args[0], 0, 16)
	if err != nil {
		fmt.Printf("bad address %q: %v\n", args[0], err)
		return
	}
	r.breakpoint = uint16(addr)
	r.hasBreak = true
	fmt.Printf("breakpoint set at 0x%04X\n", r.breakpoint)
}

func printHelp() {
	fmt.Println(`commands:
  run, r            run until a breakpoint, a fault, or the end of the program
  step, s [n]       execute n instructions (default 1), printing each
  state             print registers and flags
  regs              print registers only
  flags             print NZCV only
  memory <a> [n]    dump n bytes of data memory starting at a
  break <addr>      set a breakpoint at a fetch pc
  help              print this text
  quit              exit the REPL`)
}
