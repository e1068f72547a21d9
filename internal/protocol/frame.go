// Package protocol implements the wire codec: length-prefixed framing of
// Grid snapshots and input Events, matching the bincode-style
// self-describing binary encoding and the "length includes itself"
// framing semantics of §4.4.
package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// sizeFieldLen is the width of the native size_t-equivalent length prefix.
// 64-bit Unix platforms (the only supported target) use an 8-byte size_t.
const sizeFieldLen = 8

// WireVersion identifies the Grid/Event encoding this package implements.
// A client and server built from different WireVersions are not expected
// to interoperate; bump this whenever a Grid/Event/frame layout changes.
const WireVersion = 1

// WriteFrame writes payload as a complete frame: [length][payload], where
// length is the total frame size including the length field itself.
func WriteFrame(w io.Writer, payload []byte) error {
	total := uint64(sizeFieldLen + len(payload))
	var header [sizeFieldLen]byte
	binary.NativeEndian.PutUint64(header[:], total)
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("protocol: write frame header: %w", err)
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("protocol: write frame payload: %w", err)
		}
	}
	return nil
}

// ReadFrame reads one complete frame and returns its payload (with the
// length prefix stripped). A short read or EOF mid-frame is returned as an
// error; the caller treats this as fatal to the connection per §4.4/§7.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [sizeFieldLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("protocol: read frame header: %w", err)
	}
	total := binary.NativeEndian.Uint64(header[:])
	if total < sizeFieldLen {
		return nil, fmt.Errorf("protocol: frame length %d smaller than header", total)
	}
	payloadLen := total - sizeFieldLen
	payload := make([]byte, payloadLen)
	if payloadLen > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, fmt.Errorf("protocol: read frame payload: %w", err)
		}
	}
	return payload, nil
}
