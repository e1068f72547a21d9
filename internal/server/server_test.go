package server

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"muxr/internal/grid"
	"muxr/internal/protocol"
	"muxr/internal/ptymaster"
)

// pipePTY returns a PTY whose master end hits EOF immediately (the write
// end is closed right away), so ptyReaderLoop exits promptly in tests that
// don't care about PTY traffic.
func pipePTY(t *testing.T) *ptymaster.PTY {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	w.Close()
	t.Cleanup(func() { r.Close() })
	return &ptymaster.PTY{Master: r}
}

func TestStartOnceRejectsSecondRun(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "test.sock")
	// Keep the pipe's write end open until the end of the test: EOF on the
	// PTY is fatal to Run, which would unbind the socket before it is seen.
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { r.Close() })
	s := New(sockPath, grid.New(), &ptymaster.PTY{Master: r}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	// Give the first Run a moment to bind the socket before racing it.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(sockPath); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("server never bound its socket")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := s.Run(context.Background()); err == nil {
		t.Fatal("expected error from second Run")
	}

	cancel()
	w.Close()
	<-errCh
}

func TestBroadcastDropsOverflowingClient(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "test.sock"), grid.New(), pipePTY(t), nil)

	full := &clientConn{id: uuid.New(), send: make(chan []byte)} // unbuffered, will overflow immediately
	ok := &clientConn{id: uuid.New(), send: make(chan []byte, 4)}
	s.clients[full.id] = full
	s.clients[ok.id] = ok

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	done := make(chan struct{})
	go func() { s.broadcastLoop(ctx); close(done) }()

	select {
	case <-ok.send:
	case <-time.After(time.Second):
		t.Fatal("healthy client never received a broadcast")
	}

	<-done

	s.clientsMu.Lock()
	_, fullStillPresent := s.clients[full.id]
	s.clientsMu.Unlock()
	if fullStillPresent {
		t.Fatal("overflowing client should have been dropped from the roster")
	}
}

func TestAcceptLoopMergesClientInput(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "test.sock")
	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	s := New(sockPath, grid.New(), pipePTY(t), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.acceptLoop(ctx, ln)

	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	ev := protocol.Event{Kind: protocol.EventKey, Key: protocol.Key{Kind: protocol.KeyChar, R: 'x'}}
	if err := protocol.WriteFrame(conn, protocol.EncodeEvent(ev)); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-s.inputCh:
		if got.Key.R != 'x' {
			t.Fatalf("got %+v, want Char('x')", got)
		}
	case <-time.After(time.Second):
		t.Fatal("input event never reached the server's merged channel")
	}
}
