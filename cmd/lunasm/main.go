// Package main provides lunasm, the LunaCore assembler driver.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lunacore/lunacore/asm"
	"github.com/lunacore/lunacore/loader"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lunasm",
		Short: "lunasm assembles LunaCore source into the flat binary format",
	}

	var output string
	var withListing bool

	assembleCmd := &cobra.Command{
		Use:   "assemble [source.s]",
		Short: "Assemble a source file into a LunaCore binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			words, listing, err := asm.AssembleWithListing(path, string(src))
			if err != nil {
				return err
			}

			if output == "" {
				output = strings.TrimSuffix(path, ".s") + ".bin"
			}
			if err := loader.WriteProgram(output, words); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d words)\n", output, len(words))

			if withListing {
				printListing(os.Stdout, listing)
			}
			return nil
		},
	}
	assembleCmd.Flags().StringVarP(&output, "output", "o", "", "output binary path (default: source with .bin extension)")
	assembleCmd.Flags().BoolVar(&withListing, "listing", false, "print a pc: word  source-line table after assembling")

	layoutCmd := &cobra.Command{
		Use:   "layout [source.s]",
		Short: "Assemble the source and print the label -> pc table as JSON (all passes run, so unknown labels are reported)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			_, listing, err := asm.AssembleWithListing(path, string(src))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(listing.Symbols)
		},
	}

	rootCmd.AddCommand(assembleCmd, layoutCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func printListing(w *os.File, listing *asm.Listing) {
	for _, line := range listing.Lines {
		if len(line.Words) == 0 {
			fmt.Fprintf(w, "%-15s %4d  %s\n", "", line.Line, line.Source)
			continue
		}
		var words strings.Builder
		for i, word := range line.Words {
			if i > 0 {
				words.WriteByte(' ')
			}
			fmt.Fprintf(&words, "%04X", word)
		}
		fmt.Fprintf(w, "%04X: %-8s %4d  %s\n", line.PC, words.String(), line.Line, line.Source)
	}
}
