package server

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/google/uuid"

	"muxr/internal/protocol"
)

// acceptLoop accepts on the listening socket (already bound by Run) and
// spawns a reader/writer pair per incoming connection (§4.6.1/§4.6.4).
// Errors on a single incoming connection are logged and skipped; errors
// on the listen fd itself are fatal, matching §7's acceptor policy.
func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go s.handleConn(ctx, conn)
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	id := uuid.New()
	c := &clientConn{id: id, send: make(chan []byte, clientSendBuf)}

	s.clientsMu.Lock()
	s.clients[id] = c
	s.clientsMu.Unlock()
	s.Logger.Printf("server: client %s connected", id)

	done := make(chan struct{})
	go s.clientWriteLoop(conn, c, done)
	s.clientReadLoop(ctx, conn, id)

	s.clientsMu.Lock()
	if existing, ok := s.clients[id]; ok && existing == c {
		delete(s.clients, id)
		close(c.send)
	}
	s.clientsMu.Unlock()
	<-done
	conn.Close()
	s.Logger.Printf("server: client %s disconnected", id)
}

func (s *Server) clientWriteLoop(conn net.Conn, c *clientConn, done chan struct{}) {
	defer close(done)
	for payload := range c.send {
		if err := protocol.WriteFrame(conn, payload); err != nil {
			return
		}
	}
}

// clientReadLoop decodes framed input Events from conn and merges them
// into the server's shared input channel, in arrival order (§5).
func (s *Server) clientReadLoop(ctx context.Context, conn net.Conn, id uuid.UUID) {
	for {
		payload, err := protocol.ReadFrame(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.Logger.Printf("server: client %s read error: %v", id, err)
			}
			return
		}
		ev, err := protocol.DecodeEvent(payload)
		if err != nil {
			s.Logger.Printf("server: client %s decode error: %v", id, err)
			continue
		}
		select {
		case s.inputCh <- ev:
		case <-ctx.Done():
			return
		}
	}
}
