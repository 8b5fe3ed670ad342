// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"firestige.xyz/tcpcraft/internal/config"
	"firestige.xyz/tcpcraft/internal/log"
)

var (
	// Global flags
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tcpcraft",
	Short: "tcpcraft - deterministic TCP segment wire-image crafting",
	Long: `tcpcraft turns a symbolic description of a TCP segment (flag letters,
sequence numbers, window, options, ECN/AccECN codepoint, optional UDP
encapsulation) into an exact network-byte-order wire image, suitable for
injection tooling or comparison against captured traffic.

Checksums and IP addresses/ports are left zero; they belong to the
injection layer, not the wire-image encoder.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (optional)")

	rootCmd.AddCommand(craftCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(inspectCmd)
}

// loadConfig loads the configured or default GlobalConfig and initializes
// logging.
func loadConfig() (*config.GlobalConfig, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	log.Init(cfg.Log)
	return cfg, nil
}

// exitWithError prints error message and exits with code 1
func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
