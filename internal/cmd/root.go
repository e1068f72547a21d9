// Package cmd wires the muxrd server's cobra command tree, following the
// teacher's root-command-with-subcommands structure.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command with all subcommands.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "muxrd",
		Short: "Terminal multiplexer server",
		Long:  "muxrd owns a PTY attached to a child process and publishes its screen model to clients attached over a Unix domain socket.",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
