// Package render implements the Delta renderer (R): given successive Grid
// snapshots, it writes minimal styled ANSI output to a client's tty.
package render

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"muxr/internal/grid"
)

// styleSeqs pairs each non-blink CellStyle flag with its SGR
// enable/disable codes. BLINK_SLOW and BLINK_FAST are not listed here: they
// share one blink on/off pair (5/25), handled in writeCell, per §4.7.
var styleSeqs = []struct {
	flag    grid.CellStyle
	enable  string
	disable string
}{
	{grid.Bold, "1", "22"},
	{grid.Dim, "2", "22"},
	{grid.Italic, "3", "23"},
	{grid.Underscore, "4", "24"},
	{grid.Reverse, "7", "27"},
	{grid.Strike, "9", "29"},
}

// Renderer converts a Grid into minimal ANSI output. Each call sweeps the
// grid in row-major order with a previous-cell accumulator seeded fresh to
// the default cell (§4.7); no state is carried between calls, so rendering
// the same grid twice produces byte-identical output.
type Renderer struct{}

// New constructs a Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render writes g to w for the given physical terminal dimensions,
// emitting a cursor-goto per row and minimal style/color transitions per
// cell relative to the immediately preceding cell in the sweep.
func (r *Renderer) Render(w io.Writer, g *grid.Grid, rows, cols int) error {
	prev := grid.DefaultCell
	for row := 0; row < rows; row++ {
		if _, err := fmt.Fprintf(w, "\x1b[%d;1H", row+1); err != nil {
			return err
		}
		for col := 0; col < cols; col++ {
			cell := g.Cell(row, col)
			if err := writeCell(w, prev, cell); err != nil {
				return err
			}
			prev = cell
		}
	}
	return nil
}

func writeCell(w io.Writer, prev, cell grid.Cell) error {
	var seqs []string

	for _, s := range styleSeqs {
		was, is := prev.Style.Has(s.flag), cell.Style.Has(s.flag)
		if was == is {
			continue
		}
		if is {
			seqs = append(seqs, s.enable)
		} else {
			seqs = append(seqs, s.disable)
		}
	}
	blinkWas := prev.Style.Has(grid.BlinkSlow) || prev.Style.Has(grid.BlinkFast)
	blinkIs := cell.Style.Has(grid.BlinkSlow) || cell.Style.Has(grid.BlinkFast)
	if blinkWas != blinkIs {
		if blinkIs {
			seqs = append(seqs, "5")
		} else {
			seqs = append(seqs, "25")
		}
	}

	if cell.Foreground != prev.Foreground {
		seqs = append(seqs, rgbColor(cell.Foreground).Sequence(false))
	}
	if cell.Background != prev.Background {
		seqs = append(seqs, rgbColor(cell.Background).Sequence(true))
	}

	if len(seqs) > 0 {
		sgr := "\x1b["
		for i, s := range seqs {
			if i > 0 {
				sgr += ";"
			}
			sgr += s
		}
		sgr += "m"
		if _, err := io.WriteString(w, sgr); err != nil {
			return err
		}
	}

	content := " "
	if cell.HasContent {
		content = string(cell.Content)
	}
	_, err := io.WriteString(w, content)
	return err
}

func rgbColor(c grid.Color) termenv.RGBColor {
	return termenv.RGBColor(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
