package protocol

import "unicode/utf8"

// KeyToPTYBytes renders a Key as the byte sequence the server writes into
// the PTY master on the child's behalf, completing the I -> M -> S -> T
// path described in §2's control-flow summary.
func KeyToPTYBytes(k Key) []byte {
	switch k.Kind {
	case KeyBackspace:
		return []byte{0x7F}
	case KeyLeft:
		return []byte("\x1b[D")
	case KeyRight:
		return []byte("\x1b[C")
	case KeyUp:
		return []byte("\x1b[A")
	case KeyDown:
		return []byte("\x1b[B")
	case KeyHome:
		return []byte("\x1b[H")
	case KeyEnd:
		return []byte("\x1b[F")
	case KeyPageUp:
		return []byte("\x1b[5~")
	case KeyPageDown:
		return []byte("\x1b[6~")
	case KeyDelete:
		return []byte("\x1b[3~")
	case KeyInsert:
		return []byte("\x1b[2~")
	case KeyF:
		return fKeyBytes(k.F)
	case KeyChar:
		buf := make([]byte, utf8.RuneLen(k.R))
		utf8.EncodeRune(buf, k.R)
		return buf
	case KeyAlt:
		buf := make([]byte, 1, 1+utf8.RuneLen(k.R))
		buf[0] = 0x1B
		tmp := make([]byte, utf8.RuneLen(k.R))
		utf8.EncodeRune(tmp, k.R)
		return append(buf, tmp...)
	case KeyCtrl:
		return []byte{ctrlByte(k.R)}
	case KeyNull:
		return []byte{0x00}
	case KeyEsc:
		return []byte{0x1B}
	default:
		return nil
	}
}

// ctrlByte computes the control byte for Ctrl(c): clears bits 6 and 7 per
// the classic ASCII control-code convention (Ctrl-A..Ctrl-Z -> 0x01..0x1A).
func ctrlByte(r rune) byte {
	c := byte(r)
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	return c & 0x1F
}

var fKeySeqs = map[uint8]string{
	1: "\x1bOP", 2: "\x1bOQ", 3: "\x1bOR", 4: "\x1bOS",
	5: "\x1b[15~", 6: "\x1b[17~", 7: "\x1b[18~", 8: "\x1b[19~",
	9: "\x1b[20~", 10: "\x1b[21~", 11: "\x1b[23~", 12: "\x1b[24~",
}

func fKeyBytes(n uint8) []byte {
	if s, ok := fKeySeqs[n]; ok {
		return []byte(s)
	}
	return nil
}
