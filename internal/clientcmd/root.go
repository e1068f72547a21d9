// Package clientcmd wires the muxr client's cobra command tree, mirroring
// the teacher's attach/run subcommand split.
package clientcmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the muxr client's root cobra command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "muxr",
		Short: "Terminal multiplexer client",
		Long:  "muxr attaches to a muxrd server over its Unix domain socket, rendering grid snapshots and forwarding key input.",
	}

	rootCmd.AddCommand(
		newAttachCmd(),
		newRunCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
