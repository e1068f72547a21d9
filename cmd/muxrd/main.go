// Command muxrd is the terminal-multiplexer server: it owns a PTY
// attached to a child process and publishes the resulting screen model to
// attached clients over a Unix domain socket.
package main

import (
	"fmt"
	"os"

	"muxr/internal/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
