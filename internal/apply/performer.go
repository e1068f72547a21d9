package apply

import (
	"log"
	"strconv"
	"strings"

	"muxr/internal/grid"
)

// Performer adapts vtparser.Perform onto a Grid, applying one Command per
// callback. It holds no lock: the caller (the PTY-reader loop) must hold
// the grid lock for the duration of a parser batch.
type Performer struct {
	Grid   *grid.Grid
	Logger *log.Logger
}

// NewPerformer constructs a Performer over g. If logger is nil, unknown
// sequences are silently dropped rather than logged.
func NewPerformer(g *grid.Grid, logger *log.Logger) *Performer {
	return &Performer{Grid: g, Logger: logger}
}

func (p *Performer) logf(format string, args ...any) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}

func (p *Performer) Print(r rune) {
	Apply(p.Grid, Print{Rune: r})
}

// Execute routes C0/C1 control bytes per the control-byte table in §4.3.
func (p *Performer) Execute(b byte) {
	switch b {
	case 0x0D:
		Apply(p.Grid, CarriageReturn{})
	case 0x0A, 0x0B, 0x0C:
		Apply(p.Grid, Linefeed{})
	case 0x08:
		Apply(p.Grid, Backspace{})
	case 0x09:
		Apply(p.Grid, PutTab{N: 1})
	case 0x85:
		Apply(p.Grid, Newline{})
	default:
		p.logf("vtparser: ignored execute byte 0x%02x", b)
	}
}

func (p *Performer) Hook(params []int, intermediates []byte, ignore bool, final byte) {
	p.logf("vtparser: ignored DCS hook (final=%q)", final)
}

func (p *Performer) Put(b byte) {}

func (p *Performer) Unhook() {}

// OscDispatch handles the xterm palette-set/reset convention (OSC 4 /
// OSC 104), mapped onto SetColor/ResetColor. Everything else is ignored.
func (p *Performer) OscDispatch(params [][]byte, bellTerminated bool) {
	if len(params) == 0 {
		return
	}
	switch string(params[0]) {
	case "4":
		for i := 1; i+1 < len(params); i += 2 {
			idx, err := strconv.Atoi(string(params[i]))
			if err != nil {
				continue
			}
			color, ok := parseXParseColor(string(params[i+1]))
			if !ok {
				continue
			}
			Apply(p.Grid, SetColor{Index: idx, Color: color})
		}
	case "104":
		if len(params) == 1 {
			Apply(p.Grid, ResetColor{Index: -1})
			return
		}
		for _, f := range params[1:] {
			idx, err := strconv.Atoi(string(f))
			if err != nil {
				continue
			}
			Apply(p.Grid, ResetColor{Index: idx})
		}
	default:
		p.logf("vtparser: ignored OSC %s", string(params[0]))
	}
}

// parseXParseColor parses the minimal "rgb:RR/GG/BB" (or RRRR/GGGG/BBBB)
// form xterm uses for OSC 4 palette-set requests.
func parseXParseColor(s string) (grid.Color, bool) {
	s = strings.TrimPrefix(s, "rgb:")
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return grid.Color{}, false
	}
	var vals [3]uint8
	for i, part := range parts {
		if len(part) > 2 {
			part = part[:2]
		}
		v, err := strconv.ParseUint(part, 16, 16)
		if err != nil {
			return grid.Color{}, false
		}
		vals[i] = uint8(v)
	}
	return grid.Color{R: vals[0], G: vals[1], B: vals[2]}, true
}

// CsiDispatch maps the small set of cursor-motion primitives named in
// §4.3 onto their commands. Anything else is accepted and ignored, per
// the non-goal excluding CSI parameter handling beyond those primitives.
func (p *Performer) CsiDispatch(params []int, intermediates []byte, ignore bool, final byte) {
	n := param(params, 0, 1)
	switch final {
	case 'A':
		Apply(p.Grid, MoveUp{N: n})
	case 'B':
		Apply(p.Grid, MoveDown{N: n})
	case 'C':
		Apply(p.Grid, MoveForward{N: n})
	case 'D':
		Apply(p.Grid, MoveBackward{N: n})
	case 'E':
		Apply(p.Grid, MoveDownAndReturn{N: n})
	case 'F':
		Apply(p.Grid, MoveUpAndReturn{N: n})
	case 'G', '`':
		Apply(p.Grid, GotoCol{Col: param(params, 0, 1) - 1})
	case 'd':
		Apply(p.Grid, GotoRow{Row: param(params, 0, 1) - 1})
	case 'H', 'f':
		row := param(params, 0, 1) - 1
		col := param(params, 1, 1) - 1
		Apply(p.Grid, Goto{Row: row, Col: col})
	case 'q':
		if len(intermediates) == 1 && intermediates[0] == ' ' {
			Apply(p.Grid, SetCursorStyle{Style: decscusrStyle(param(params, 0, 0))})
		}
	default:
		p.logf("vtparser: ignored CSI final %q params=%v", final, params)
	}
}

func decscusrStyle(n int) grid.CursorStyle {
	switch n {
	case 0, 1, 2:
		return grid.CursorBlock
	case 3, 4:
		return grid.CursorUnderline
	case 5, 6:
		return grid.CursorBeam
	default:
		return grid.CursorBlock
	}
}

func param(params []int, idx, def int) int {
	if idx >= len(params) || params[idx] == 0 {
		return def
	}
	return params[idx]
}

// EscDispatch maps the two-character escapes needed for NEL-equivalent
// motions; everything else is accepted and ignored.
func (p *Performer) EscDispatch(intermediates []byte, ignore bool, final byte) {
	switch final {
	case 'D': // IND: move down, no return
		Apply(p.Grid, MoveDown{N: 1})
	case 'M': // RI: move up, no return
		Apply(p.Grid, MoveUp{N: 1})
	case 'E': // NEL
		Apply(p.Grid, Newline{})
	default:
		p.logf("vtparser: ignored ESC final %q", final)
	}
}
