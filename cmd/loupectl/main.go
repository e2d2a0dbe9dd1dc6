// Loupectl is a command-line utility for Loupedeck Live control surfaces.
//
// It provides serial port discovery and probing, a live event monitor, and
// direct device commands (brightness, button colors, haptics, and drawing
// images to the displays).
//
// Usage:
//
//	loupectl [command] [flags]
//
// See 'loupectl --help' for available commands. Set LOUPEKIT_LOG_LEVEL to
// "debug" for wire-level logging.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/loupekit/internal/logging"
	"github.com/muurk/loupekit/internal/version"
)

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "loupectl",
	Short: "Loupedeck Live control utility",
	Long: `A standalone utility for driving Loupedeck Live control surfaces
over their serial connection.

Provides port discovery, device probing, a live event monitor, and direct
commands for brightness, button colors, haptic feedback, and drawing
images to the device displays.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeFromEnv()
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(brightnessCmd)
	rootCmd.AddCommand(colorCmd)
	rootCmd.AddCommand(vibrateCmd)
	rootCmd.AddCommand(drawCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(resetCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("loupectl %s\n", version.Full())
	},
}
