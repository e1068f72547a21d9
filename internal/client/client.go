// Package client implements the Client core (I): it attaches to the
// server's socket, drives the delta renderer, and ships key events back.
package client

import (
	"bufio"
	"context"
	"io"
	"log"
	"net"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"muxr/internal/muxrerr"
	"muxr/internal/protocol"
	"muxr/internal/render"
)

const readBufSize = 4096

// Client connects to the server socket, renders grid snapshots to Out,
// and forwards key events read from In.
type Client struct {
	conn     net.Conn
	Out      io.Writer
	In       io.Reader
	Rows     int
	Cols     int
	Logger   *log.Logger
	renderer *render.Renderer

	restoreFn func() error

	// One-shot meta-escape state (§4.8): the key after an "Alt-!" is
	// either a double-tap re-send, a quit on q/Q, or discarded.
	metaArmed bool
}

// Dial connects to the server's socket and captures terminal dimensions
// once at startup.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, muxrerr.Wrap(muxrerr.IO, "dial server socket", err)
	}
	c := &Client{
		conn:     conn,
		Out:      os.Stdout,
		In:       os.Stdin,
		Logger:   log.Default(),
		renderer: render.New(),
	}
	c.Rows, c.Cols = 24, 80
	if isatty.IsTerminal(os.Stdout.Fd()) {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			c.Cols, c.Rows = w, h
		}
	}
	return c, nil
}

// EnterRawMode puts stdin into raw mode if it is a tty, recording a
// restore function for Close. Mirrors the teacher's isatty-guarded
// raw-mode entry before attach.
func (c *Client) EnterRawMode() error {
	fd := int(os.Stdin.Fd())
	if !isatty.IsTerminal(uintptr(fd)) {
		return nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return muxrerr.Wrap(muxrerr.OS, "enter raw mode", err)
	}
	c.restoreFn = func() error { return term.Restore(fd, state) }
	return nil
}

// Close restores the tty (if it was put into raw mode) and closes the
// connection.
func (c *Client) Close() error {
	if c.restoreFn != nil {
		c.restoreFn()
	}
	return c.conn.Close()
}

// Run drives the render loop (decode snapshot, render, flush) and the
// input loop (read keys, frame, send) concurrently until either fails or
// ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	errCh := make(chan error, 2)
	go func() { errCh <- c.renderLoop(ctx) }()
	go func() { errCh <- c.inputLoop(ctx) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}

func (c *Client) renderLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		payload, err := protocol.ReadFrame(c.conn)
		if err != nil {
			return muxrerr.Wrap(muxrerr.Codec, "read grid frame", err)
		}
		g, err := protocol.DecodeGrid(payload)
		if err != nil {
			return muxrerr.Wrap(muxrerr.Codec, "decode grid", err)
		}
		if err := c.renderer.Render(c.Out, g, c.Rows, c.Cols); err != nil {
			return muxrerr.Wrap(muxrerr.IO, "render grid", err)
		}
		if f, ok := c.Out.(interface{ Flush() error }); ok {
			f.Flush()
		}
	}
}

func (c *Client) inputLoop(ctx context.Context) error {
	r := bufio.NewReaderSize(c.In, readBufSize)
	var pending []byte
	buf := make([]byte, readBufSize)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		n, err := r.Read(buf)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return muxrerr.Wrap(muxrerr.IO, "read tty input", err)
		}
		data := append(pending, buf[:n]...)
		keys, consumed := DecodeKeys(data)
		pending = append(pending[:0], data[consumed:]...)

		for _, k := range keys {
			quit, err := c.handleKey(k)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

// handleKey applies the one-shot "Alt-!" meta-escape state and forwards
// everything else as a framed input Event.
func (c *Client) handleKey(k protocol.Key) (quit bool, err error) {
	isMeta := k.Kind == protocol.KeyAlt && k.R == '!'

	if c.metaArmed {
		c.metaArmed = false
		switch {
		case isMeta:
			return false, c.sendKey(k) // double-tap: re-send the literal meta key
		case k.Kind == protocol.KeyChar && (k.R == 'q' || k.R == 'Q'):
			return true, nil
		default:
			return false, nil // discard
		}
	}

	if isMeta {
		c.metaArmed = true
		return false, nil
	}

	return false, c.sendKey(k)
}

func (c *Client) sendKey(k protocol.Key) error {
	payload := protocol.EncodeEvent(protocol.Event{Kind: protocol.EventKey, Key: k})
	if err := protocol.WriteFrame(c.conn, payload); err != nil {
		return muxrerr.Wrap(muxrerr.IO, "send key event", err)
	}
	return nil
}

// SendResize frames and sends a resize Event (§C.7 of the full spec).
func (c *Client) SendResize(rows, cols int) error {
	payload := protocol.EncodeEvent(protocol.Event{Kind: protocol.EventResize, Rows: rows, Cols: cols})
	if err := protocol.WriteFrame(c.conn, payload); err != nil {
		return muxrerr.Wrap(muxrerr.IO, "send resize event", err)
	}
	c.Rows, c.Cols = rows, cols
	return nil
}
