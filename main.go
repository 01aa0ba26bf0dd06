// Package main provides a pointer to LunaCore's real entry points.
// LunaCore is a toolchain for a small 16-bit register-machine ISA: an
// assembler, a cycle-level emulator, and a standalone disassembler.
//
// For the real CLIs, use:
//
//	go run ./cmd/lunasm assemble <source.s>
//	go run ./cmd/lunacore <program.bin>
//	go run ./cmd/lunadump <program.bin>
package main

import "fmt"

func main() {
	fmt.Println("LunaCore - 16-bit register-machine ISA toolchain")
	fmt.Println("")
	fmt.Println("This binary is a pointer, not the toolchain itself. Use:")
	fmt.Println("  go run ./cmd/lunasm assemble <source.s>   assemble a program")
	fmt.Println("  go run ./cmd/lunacore <program.bin>       run or step a program")
	fmt.Println("  go run ./cmd/lunadump <program.bin>       disassemble a program")
}
