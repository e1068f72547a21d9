package client

import (
	"unicode/utf8"

	"muxr/internal/protocol"
)

// DecodeKeys decodes as many complete keys as possible from buf (raw bytes
// read from the client's tty in raw mode), returning the decoded keys and
// the number of bytes consumed. A trailing incomplete escape sequence is
// left unconsumed so the caller can prepend it to the next read.
func DecodeKeys(buf []byte) (keys []protocol.Key, consumed int) {
	i := 0
	for i < len(buf) {
		k, n, ok := decodeOne(buf[i:])
		if !ok {
			break
		}
		if n == 0 {
			break
		}
		keys = append(keys, k)
		i += n
	}
	return keys, i
}

func decodeOne(buf []byte) (protocol.Key, int, bool) {
	b := buf[0]
	switch {
	case b == 0x1B:
		return decodeEscape(buf)
	case b == 0x7F:
		return protocol.Key{Kind: protocol.KeyBackspace}, 1, true
	case b == 0x00:
		return protocol.Key{Kind: protocol.KeyNull}, 1, true
	case b >= 0x01 && b <= 0x1A:
		return protocol.Key{Kind: protocol.KeyCtrl, R: rune('a' + b - 1)}, 1, true
	case b < 0x80:
		return protocol.Key{Kind: protocol.KeyChar, R: rune(b)}, 1, true
	default:
		n := utf8SeqLen(b)
		if n == 0 {
			return protocol.Key{}, 1, true // drop stray continuation byte
		}
		if len(buf) < n {
			return protocol.Key{}, 0, false // wait for the rest
		}
		r, _ := utf8.DecodeRune(buf[:n])
		return protocol.Key{Kind: protocol.KeyChar, R: r}, n, true
	}
}

func utf8SeqLen(first byte) int {
	switch {
	case first&0xE0 == 0xC0:
		return 2
	case first&0xF0 == 0xE0:
		return 3
	case first&0xF8 == 0xF0:
		return 4
	default:
		return 0
	}
}

// decodeEscape decodes a lone ESC (Key Esc), ESC+char (Alt(char)), or an
// xterm CSI/SS3 function-key sequence. If only the leading ESC is
// available so far, the caller waits for more bytes rather than guessing.
func decodeEscape(buf []byte) (protocol.Key, int, bool) {
	if len(buf) < 2 {
		return protocol.Key{}, 0, false
	}
	switch buf[1] {
	case '[':
		return decodeCSI(buf)
	case 'O':
		return decodeSS3(buf)
	default:
		k, n, ok := decodeOne(buf[1:])
		if !ok {
			return protocol.Key{}, 0, false
		}
		if k.Kind == protocol.KeyChar {
			return protocol.Key{Kind: protocol.KeyAlt, R: k.R}, 1 + n, true
		}
		// A bare ESC followed by a non-printable byte: treat the ESC
		// on its own and let the next byte be reprocessed.
		return protocol.Key{Kind: protocol.KeyEsc}, 1, true
	}
}

var csiFinalKeys = map[byte]protocol.KeyKind{
	'A': protocol.KeyUp,
	'B': protocol.KeyDown,
	'C': protocol.KeyRight,
	'D': protocol.KeyLeft,
	'H': protocol.KeyHome,
	'F': protocol.KeyEnd,
}

var csiTildeKeys = map[int]protocol.KeyKind{
	1: protocol.KeyHome,
	2: protocol.KeyInsert,
	3: protocol.KeyDelete,
	4: protocol.KeyEnd,
	5: protocol.KeyPageUp,
	6: protocol.KeyPageDown,
}

func decodeCSI(buf []byte) (protocol.Key, int, bool) {
	i := 2
	for i < len(buf) && buf[i] >= '0' && buf[i] <= '9' {
		i++
	}
	if i >= len(buf) {
		return protocol.Key{}, 0, false
	}
	final := buf[i]
	if final == '~' {
		n := atoi(buf[2:i])
		if kind, ok := csiTildeKeys[n]; ok {
			return protocol.Key{Kind: kind}, i + 1, true
		}
		return protocol.Key{Kind: protocol.KeyEsc}, i + 1, true
	}
	if kind, ok := csiFinalKeys[final]; ok {
		return protocol.Key{Kind: kind}, i + 1, true
	}
	return protocol.Key{Kind: protocol.KeyEsc}, i + 1, true
}

var ss3FinalKeys = map[byte]uint8{
	'P': 1, 'Q': 2, 'R': 3, 'S': 4,
}

func decodeSS3(buf []byte) (protocol.Key, int, bool) {
	if len(buf) < 3 {
		return protocol.Key{}, 0, false
	}
	if n, ok := ss3FinalKeys[buf[2]]; ok {
		return protocol.Key{Kind: protocol.KeyF, F: n}, 3, true
	}
	return protocol.Key{Kind: protocol.KeyEsc}, 3, true
}

func atoi(b []byte) int {
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}
