// Package main provides lunadump, the standalone LunaCore disassembler.
package main

import (
	"fmt"
	"os"

	cli "github.com/urfave/cli/v2"

	"github.com/lunacore/lunacore/disasm"
	"github.com/lunacore/lunacore/loader"
)

func main() {
	app := cli.NewApp()
	app.Name = "lunadump"
	app.Usage = "Disassemble a LunaCore binary"
	app.ArgsUsage = "file.bin"
	app.Action = func(c *cli.Context) error {
		if c.Args().Len() < 1 {
			return cli.Exit("missing binary file argument", 1)
		}

		words, err := loader.LoadProgram(c.Args().First())
		if err != nil {
			return cli.Exit(err, 1)
		}

		if err := disasm.NewDisassembler(words).Disassemble(os.Stdout); err != nil {
			return cli.Exit(fmt.Sprintf("writing disassembly: %v", err), 1)
		}
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
