// Package ptymaster provides the PTY master/slave pair used to drive a
// child process, grounded on the teacher's creack/pty usage in
// virtualterminal.StartPTY.
package ptymaster

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// ErrWriteTimeout is returned by WriteTimeout when the child is not
// reading its PTY's slave side within the given deadline.
var ErrWriteTimeout = errors.New("ptymaster: write timeout")

// namerMu serializes the one call site (pty.Open, via StartWithSize) that
// ultimately resolves a slave device name. ptsname(3) is not thread-safe;
// every invocation in the process must be serialized through this mutex,
// per §5/§9.
var namerMu sync.Mutex

// PTY pairs a started child process with its master file handle.
type PTY struct {
	Master *os.File
	Cmd    *exec.Cmd
}

// Start launches name/args attached to a new PTY of the given size. The
// child is given its own session and the slave as controlling tty
// (setsid + TIOCSCTTY), matching §4.5/§6.
func Start(name string, args []string, rows, cols uint16, env []string) (*PTY, error) {
	cmd := exec.Command(name, args...)
	if env != nil {
		cmd.Env = env
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
	}

	namerMu.Lock()
	master, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: rows, Cols: cols})
	namerMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("ptymaster: start: %w", err)
	}
	return &PTY{Master: master, Cmd: cmd}, nil
}

// WriteTimeout writes p to the PTY master, returning ErrWriteTimeout if the
// write hasn't completed within timeout — a hung child (not draining its
// PTY's slave side) must not be able to block the caller forever.
func (p *PTY) WriteTimeout(b []byte, timeout time.Duration) (int, error) {
	type result struct {
		n   int
		err error
	}
	ch := make(chan result, 1)
	go func() {
		n, err := p.Master.Write(b)
		ch <- result{n, err}
	}()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-ch:
		return r.n, r.err
	case <-timer.C:
		return 0, ErrWriteTimeout
	}
}

// Setsize resizes the PTY's window size.
func (p *PTY) Setsize(rows, cols uint16) error {
	if err := pty.Setsize(p.Master, &pty.Winsize{Rows: rows, Cols: cols}); err != nil {
		return fmt.Errorf("ptymaster: setsize: %w", err)
	}
	return nil
}

// Close closes the master side.
func (p *PTY) Close() error {
	return p.Master.Close()
}
