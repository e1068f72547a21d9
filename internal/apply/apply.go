package apply

import "muxr/internal/grid"

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Apply runs one command against g. It holds no lock itself: callers pass
// in a grid reference already protected by the caller's lock. The server's
// PTY-reader loop holds that lock for one whole read batch, which may
// apply many commands.
func Apply(g *grid.Grid, cmd Command) {
	switch c := cmd.(type) {
	case Print:
		applyPrint(g, c.Rune)
	case CarriageReturn:
		cur := g.Cursor()
		cur.Col = 0
		g.SetCursor(cur)
	case Linefeed:
		cur := g.Cursor()
		cur.Row = cur.Row + 1
		if cur.Row >= g.Rows() {
			cur.Row = g.Rows() - 1
		}
		g.SetCursor(cur)
	case Newline:
		Apply(g, CarriageReturn{})
		Apply(g, Linefeed{})
	case Backspace:
		cur := g.Cursor()
		if cur.Col > 0 {
			cur.Col--
		}
		g.SetCursor(cur)
	case PutTab:
		cur := g.Cursor()
		col := cur.Col
		for i := 0; i < c.N; i++ {
			col = ((col / 8) + 1) * 8
		}
		cur.Col = clamp(col, 0, g.Columns()-1)
		g.SetCursor(cur)
	case GotoRow:
		cur := g.Cursor()
		cur.Row = clamp(c.Row, 0, g.Rows()-1)
		g.SetCursor(cur)
	case GotoCol:
		cur := g.Cursor()
		cur.Col = clamp(c.Col, 0, g.Columns()-1)
		g.SetCursor(cur)
	case Goto:
		g.SetCursor(grid.Cursor{
			Row:     clamp(c.Row, 0, g.Rows()-1),
			Col:     clamp(c.Col, 0, g.Columns()-1),
			Color:   g.Cursor().Color,
			Style:   g.Cursor().Style,
			Visible: g.Cursor().Visible,
		})
	case MoveUp:
		cur := g.Cursor()
		cur.Row = clamp(cur.Row-c.N, 0, g.Rows()-1)
		g.SetCursor(cur)
	case MoveDown:
		cur := g.Cursor()
		cur.Row = clamp(cur.Row+c.N, 0, g.Rows()-1)
		g.SetCursor(cur)
	case MoveBackward:
		cur := g.Cursor()
		cur.Col = clamp(cur.Col-c.N, 0, g.Columns()-1)
		g.SetCursor(cur)
	case MoveForward:
		cur := g.Cursor()
		cur.Col = clamp(cur.Col+c.N, 0, g.Columns()-1)
		g.SetCursor(cur)
	case MoveDownAndReturn:
		Apply(g, MoveDown{N: c.N})
		Apply(g, CarriageReturn{})
	case MoveUpAndReturn:
		Apply(g, MoveUp{N: c.N})
		Apply(g, CarriageReturn{})
	case SetCursorStyle:
		cur := g.Cursor()
		cur.Style = c.Style
		g.SetCursor(cur)
	case SetColor, ResetColor:
		// Palette updates are accepted but currently have no defined
		// rendering effect; see the design notes on palette commands.
	}
}

// applyPrint implements the print advance-and-wrap rule: write the rune at
// the current cursor preserving style/colors, then advance, wrapping at
// the right edge and scrolling the ring when a wrap would fall off the
// bottom.
func applyPrint(g *grid.Grid, r rune) {
	cur := g.Cursor()
	prev := g.Cell(cur.Row, cur.Col)
	g.SetCell(cur.Row, cur.Col, grid.Cell{
		Style:      prev.Style,
		Foreground: prev.Foreground,
		Background: prev.Background,
		Content:    r,
		HasContent: true,
	})

	if cur.Col < g.Columns()-1 {
		cur.Col++
	} else {
		cur.Col = 0
		cur.Row++
		if cur.Row >= g.Rows() {
			cur.Row = g.Rows() - 1
			g.ScrollDown(1)
		}
	}
	g.SetCursor(cur)
}
