package clientcmd

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"muxr/internal/config"
)

func newRunCmd() *cobra.Command {
	var socketPath string

	runCmd := &cobra.Command{
		Use:   "run -- command [args...]",
		Short: "Start a muxrd server for command and attach to it",
		Args:  cobra.ArbitraryArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if socketPath == "" {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
				socketPath = cfg.SocketPath
			}
			return runAndAttach(socketPath, args)
		},
	}

	runCmd.Flags().StringVar(&socketPath, "socket", "", "socket path (default from config, or "+config.DefaultSocketPath+")")
	return runCmd
}

// runAndAttach spawns "muxrd run" as a detached child and attaches once its
// socket appears.
func runAndAttach(socketPath string, args []string) error {
	muxrd, err := exec.LookPath("muxrd")
	if err != nil {
		return fmt.Errorf("locating muxrd on PATH: %w", err)
	}

	daemonArgs := append([]string{"run", "--socket", socketPath, "--"}, args...)
	child := exec.Command(muxrd, daemonArgs...)
	child.Stderr = os.Stderr
	if err := child.Start(); err != nil {
		return fmt.Errorf("starting muxrd: %w", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(socketPath); err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	return runAttach(socketPath)
}
