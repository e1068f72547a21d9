package protocol

import (
	"encoding/binary"
	"fmt"
)

// KeyKind tags the Key union.
type KeyKind byte

const (
	KeyBackspace KeyKind = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyDelete
	KeyInsert
	KeyF
	KeyChar
	KeyAlt
	KeyCtrl
	KeyNull
	KeyEsc
)

// Key is a tagged union mirroring §6: Backspace, Left, Right, Up, Down,
// Home, End, PageUp, PageDown, Delete, Insert, F(u8), Char(rune),
// Alt(rune), Ctrl(rune), Null, Esc.
type Key struct {
	Kind KeyKind
	F    uint8 // valid when Kind == KeyF
	R    rune  // valid when Kind is KeyChar, KeyAlt, or KeyCtrl
}

// MessageKind tags the top-level wire message.
type MessageKind byte

const (
	MessageGrid MessageKind = iota
	MessageEvent
)

// EventKind tags the Event union. §6 defines only Key; resize propagation
// (§C.7 of the full spec) is carried as a second variant over the same
// input channel.
type EventKind byte

const (
	EventKey EventKind = iota
	EventResize
)

// Event is the client-to-server input message.
type Event struct {
	Kind EventKind
	Key  Key // valid when Kind == EventKey
	Rows int // valid when Kind == EventResize
	Cols int
}

func putUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.NativeEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func takeUint32(buf []byte) (uint32, []byte, error) {
	if len(buf) < 4 {
		return 0, nil, fmt.Errorf("protocol: short read decoding uint32")
	}
	return binary.NativeEndian.Uint32(buf[:4]), buf[4:], nil
}

// EncodeKey appends the self-describing encoding of k to buf.
func EncodeKey(buf []byte, k Key) []byte {
	buf = append(buf, byte(k.Kind))
	switch k.Kind {
	case KeyF:
		buf = append(buf, k.F)
	case KeyChar, KeyAlt, KeyCtrl:
		buf = putUint32(buf, uint32(k.R))
	}
	return buf
}

// DecodeKey decodes a Key from the front of buf, returning the remainder.
func DecodeKey(buf []byte) (Key, []byte, error) {
	if len(buf) < 1 {
		return Key{}, nil, fmt.Errorf("protocol: short read decoding key tag")
	}
	kind := KeyKind(buf[0])
	buf = buf[1:]
	k := Key{Kind: kind}
	switch kind {
	case KeyF:
		if len(buf) < 1 {
			return Key{}, nil, fmt.Errorf("protocol: short read decoding key F payload")
		}
		k.F = buf[0]
		buf = buf[1:]
	case KeyChar, KeyAlt, KeyCtrl:
		v, rest, err := takeUint32(buf)
		if err != nil {
			return Key{}, nil, err
		}
		k.R = rune(v)
		buf = rest
	case KeyBackspace, KeyLeft, KeyRight, KeyUp, KeyDown, KeyHome, KeyEnd,
		KeyPageUp, KeyPageDown, KeyDelete, KeyInsert, KeyNull, KeyEsc:
		// No payload.
	default:
		return Key{}, nil, fmt.Errorf("protocol: unknown key kind %d", kind)
	}
	return k, buf, nil
}

// EncodeEvent serializes e as a self-describing payload (without the frame
// length prefix — see WriteFrame).
func EncodeEvent(e Event) []byte {
	buf := make([]byte, 0, 16)
	buf = append(buf, byte(MessageEvent))
	buf = append(buf, byte(e.Kind))
	switch e.Kind {
	case EventKey:
		buf = EncodeKey(buf, e.Key)
	case EventResize:
		buf = putUint32(buf, uint32(int32(e.Rows)))
		buf = putUint32(buf, uint32(int32(e.Cols)))
	}
	return buf
}

// DecodeEvent decodes an Event payload (as produced by EncodeEvent,
// including its MessageKind tag).
func DecodeEvent(payload []byte) (Event, error) {
	if len(payload) < 2 {
		return Event{}, fmt.Errorf("protocol: short event payload")
	}
	if MessageKind(payload[0]) != MessageEvent {
		return Event{}, fmt.Errorf("protocol: expected event message, got kind %d", payload[0])
	}
	kind := EventKind(payload[1])
	rest := payload[2:]
	switch kind {
	case EventKey:
		k, _, err := DecodeKey(rest)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: EventKey, Key: k}, nil
	case EventResize:
		rows, rest, err := takeUint32(rest)
		if err != nil {
			return Event{}, err
		}
		cols, _, err := takeUint32(rest)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: EventResize, Rows: int(int32(rows)), Cols: int(int32(cols))}, nil
	default:
		return Event{}, fmt.Errorf("protocol: unknown event kind %d", kind)
	}
}
