package clientcmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"muxr/internal/client"
	"muxr/internal/config"
)

func newAttachCmd() *cobra.Command {
	var socketPath string

	attachCmd := &cobra.Command{
		Use:   "attach",
		Short: "Attach to a running muxrd server",
		RunE: func(c *cobra.Command, args []string) error {
			if socketPath == "" {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
				socketPath = cfg.SocketPath
			}
			return runAttach(socketPath)
		},
	}

	attachCmd.Flags().StringVar(&socketPath, "socket", "", "socket path (default from config, or "+config.DefaultSocketPath+")")
	return attachCmd
}

func runAttach(socketPath string) error {
	cl, err := client.Dial(socketPath)
	if err != nil {
		return err
	}
	if err := cl.EnterRawMode(); err != nil {
		return err
	}
	defer cl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGWINCH)
	go func() {
		for sig := range sigCh {
			if sig == syscall.SIGWINCH {
				if w, h, err := termSize(); err == nil {
					cl.SendResize(h, w)
				}
				continue
			}
			cancel()
			return
		}
	}()

	return cl.Run(ctx)
}
