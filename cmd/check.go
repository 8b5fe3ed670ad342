package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"firestige.xyz/tcpcraft/internal/core/encoder"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a packet description or scenario file without crafting",
	Long: `Check runs the flag-grammar and layout validation for a packet
description, or for every entry of a scenario file, without building any
wire image.

Examples:
  tcpcraft check --flags "FP."
  tcpcraft check --flags .3
  tcpcraft check -f scenario.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		runCheckCommand(cmd)
	},
}

func init() {
	addCraftFlags(checkCmd)
}

func runCheckCommand(cmd *cobra.Command) {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError("failed to load config", err)
	}

	specs, err := collectSpecs(cmd, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "INVALID: %v\n", err)
		os.Exit(1)
	}

	for i, spec := range specs {
		if err := encoder.Validate(spec); err != nil {
			fmt.Fprintf(os.Stderr, "INVALID: packet %d: %v\n", i, err)
			os.Exit(1)
		}
	}

	fmt.Printf("VALID: %d packet(s)\n", len(specs))
}
