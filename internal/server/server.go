// Package server implements the Server core (S): it owns the PTY master,
// the shared Grid, and the client roster, and runs the four cooperating
// loops described in §4.6 — acceptor, PTY reader, broadcast, and
// per-client read/write.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"muxr/internal/apply"
	"muxr/internal/grid"
	"muxr/internal/muxrerr"
	"muxr/internal/protocol"
	"muxr/internal/ptymaster"
	"muxr/internal/vtparser"
)

const (
	broadcastInterval = 100 * time.Millisecond
	ptyReadBufSize    = 1024
	clientSendBuf     = 16
	ptyWriteTimeout   = 3 * time.Second
)

// Server owns the PTY master, the shared Grid, and the attached-client
// roster.
type Server struct {
	SocketPath string
	PTY        *ptymaster.PTY
	Logger     *log.Logger

	gridMu sync.Mutex
	grid   *grid.Grid

	clientsMu sync.Mutex
	clients   map[uuid.UUID]*clientConn

	inputCh chan protocol.Event

	startOnce sync.Once
	started   bool
	startMu   sync.Mutex
}

// clientConn is one attached client's send channel and identity.
type clientConn struct {
	id   uuid.UUID
	send chan []byte
}

// New constructs a Server around an already-started PTY and grid.
func New(socketPath string, g *grid.Grid, pty *ptymaster.PTY, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		SocketPath: socketPath,
		PTY:        pty,
		Logger:     logger,
		grid:       g,
		clients:    make(map[uuid.UUID]*clientConn),
		inputCh:    make(chan protocol.Event, 64),
	}
}

// Run binds the listening socket and runs until any loop fails, at which
// point the others are cancelled. The listening socket may be consumed
// only once.
func (s *Server) Run(ctx context.Context) error {
	s.startMu.Lock()
	if s.started {
		s.startMu.Unlock()
		return muxrerr.Wrap(muxrerr.Protocol, "server can only be started once", nil)
	}
	s.started = true
	s.startMu.Unlock()

	if err := os.Remove(s.SocketPath); err != nil && !os.IsNotExist(err) {
		return muxrerr.Wrap(muxrerr.IO, fmt.Sprintf("removing stale socket %s", s.SocketPath), err)
	}
	ln, err := net.Listen("unix", s.SocketPath)
	if err != nil {
		return muxrerr.Wrap(muxrerr.IO, "listen on socket", err)
	}
	defer ln.Close()
	defer os.Remove(s.SocketPath)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.acceptLoop(gctx, ln) })
	g.Go(func() error { return s.ptyReaderLoop(gctx) })
	g.Go(func() error { return s.broadcastLoop(gctx) })
	g.Go(func() error { return s.ptyWriterLoop(gctx) })

	return g.Wait()
}

// ptyReaderLoop reads bytes from the PTY master and drives Apply bound to
// the shared Grid, one read batch per grid-lock acquisition (§4.6.2).
func (s *Server) ptyReaderLoop(ctx context.Context) error {
	parser := vtparser.New()
	buf := make([]byte, ptyReadBufSize)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		n, err := s.PTY.Master.Read(buf)
		if n > 0 {
			s.gridMu.Lock()
			perf := apply.NewPerformer(s.grid, s.Logger)
			parser.AdvanceBytes(perf, buf[:n])
			s.gridMu.Unlock()
		}
		if err != nil {
			// The child's byte stream is no longer readable; this is
			// fatal to the server per §7 (decode errors on this path
			// are unrecoverable).
			return muxrerr.Wrap(muxrerr.IO, "pty reader", err)
		}
	}
}

// ptyWriterLoop drains merged input events from all clients and writes
// the corresponding bytes (or resize) to the PTY.
func (s *Server) ptyWriterLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-s.inputCh:
			switch ev.Kind {
			case protocol.EventKey:
				b := protocol.KeyToPTYBytes(ev.Key)
				if len(b) > 0 {
					if _, err := s.PTY.WriteTimeout(b, ptyWriteTimeout); err != nil {
						if errors.Is(err, ptymaster.ErrWriteTimeout) {
							s.Logger.Printf("server: child not draining pty, killing it")
							if s.PTY.Cmd != nil && s.PTY.Cmd.Process != nil {
								s.PTY.Cmd.Process.Kill()
							}
							return muxrerr.Wrap(muxrerr.IO, "pty write timed out", err)
						}
						s.Logger.Printf("server: pty write failed: %v", err)
					}
				}
			case protocol.EventResize:
				if ev.Rows > 0 && ev.Cols > 0 {
					s.gridMu.Lock()
					s.grid = grid.WithDimensions(ev.Rows, ev.Cols)
					s.gridMu.Unlock()
					if err := s.PTY.Setsize(uint16(ev.Rows), uint16(ev.Cols)); err != nil {
						s.Logger.Printf("server: pty resize failed: %v", err)
					}
				}
			}
		}
	}
}

// broadcastLoop snapshots the grid every 100ms and fans it out to every
// attached client, dropping clients whose channel is full (§4.6.3).
func (s *Server) broadcastLoop(ctx context.Context) error {
	ticker := time.NewTicker(broadcastInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.gridMu.Lock()
			snapshot := s.grid.Clone()
			s.gridMu.Unlock()

			payload := protocol.EncodeGrid(snapshot)

			s.clientsMu.Lock()
			for id, c := range s.clients {
				select {
				case c.send <- payload:
				default:
					delete(s.clients, id)
					close(c.send)
					s.Logger.Printf("server: dropping slow client %s", id)
				}
			}
			s.clientsMu.Unlock()
		}
	}
}
