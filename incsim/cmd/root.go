// Package cmd provides the command-line interface for incsim.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/incsim/logging"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "incsim",
	Short: "incsim simulates the incrementer firmware loop.",
	Long: `incsim simulates the incrementer firmware loop on a discrete-event ` +
		`engine. It can trace the core registers into SQLite, serve a ` +
		`monitoring API, and convert the firmware ROM images into VHDL text.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newROMCmd())
	rootCmd.AddCommand(newTraceCmd())
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		logging.Logger("cli").WithError(err).Error("incsim failed")
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
