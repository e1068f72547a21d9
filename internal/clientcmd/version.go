package clientcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"muxr/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the muxr version",
		RunE: func(c *cobra.Command, args []string) error {
			fmt.Fprintln(c.OutOrStdout(), version.DisplayVersion())
			return nil
		},
	}
}
