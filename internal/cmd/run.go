package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"muxr/internal/config"
	"muxr/internal/grid"
	"muxr/internal/ptymaster"
	"muxr/internal/server"
)

func newRunCmd() *cobra.Command {
	var socketPath string
	var execStr string
	var rows, cols int

	runCmd := &cobra.Command{
		Use:   "run -- command [args...]",
		Short: "Start the server, attaching a child process to a new PTY",
		Args:  cobra.ArbitraryArgs,
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if socketPath == "" {
				socketPath = cfg.SocketPath
			}
			if rows == 0 {
				rows = cfg.Rows
			}
			if cols == 0 {
				cols = cfg.Cols
			}

			name, childArgs, err := resolveCommand(execStr, args)
			if err != nil {
				return err
			}

			return runServer(socketPath, name, childArgs, rows, cols)
		},
	}

	runCmd.Flags().StringVar(&socketPath, "socket", "", "socket path (default from config, or "+config.DefaultSocketPath+")")
	runCmd.Flags().StringVar(&execStr, "exec", "", "child command as a single shell-quoted string, e.g. --exec \"bash -l\"")
	runCmd.Flags().IntVar(&rows, "rows", 0, "grid rows (default from config, or 24)")
	runCmd.Flags().IntVar(&cols, "cols", 0, "grid columns (default from config, or 80)")
	return runCmd
}

// resolveCommand supports either argv-style trailing args or a single
// shell-quoted --exec string, split with shlex the way the teacher splits
// user-supplied command lines.
func resolveCommand(execStr string, args []string) (string, []string, error) {
	if execStr != "" {
		fields, err := shlex.Split(execStr)
		if err != nil {
			return "", nil, fmt.Errorf("parsing --exec: %w", err)
		}
		if len(fields) == 0 {
			return "", nil, fmt.Errorf("--exec produced no command")
		}
		return fields[0], fields[1:], nil
	}
	if len(args) == 0 {
		shell := os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/sh"
		}
		return shell, nil, nil
	}
	return args[0], args[1:], nil
}

func runServer(socketPath, name string, args []string, rows, cols int) error {
	lockPath := socketPath + ".lock"
	fl := flock.New(lockPath)
	locked, err := fl.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring server lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another muxrd instance already owns %s", socketPath)
	}
	defer fl.Unlock()

	pty, err := ptymaster.Start(name, args, uint16(rows), uint16(cols), nil)
	if err != nil {
		return err
	}
	defer pty.Close()

	g := grid.WithDimensions(rows, cols)
	logger := log.New(os.Stderr, "muxrd: ", log.LstdFlags)
	srv := server.New(socketPath, g, pty, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return srv.Run(ctx)
}
