// Command muxr is the terminal-multiplexer client: it attaches to a
// muxrd server over its Unix domain socket, renders grid snapshots, and
// forwards key input.
package main

import (
	"fmt"
	"os"

	"muxr/internal/clientcmd"
)

func main() {
	if err := clientcmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
