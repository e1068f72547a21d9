package vtparser_test

import (
	"strings"
	"testing"

	"github.com/vito/midterm"

	"muxr/internal/apply"
	"muxr/internal/grid"
	"muxr/internal/vtparser"
)

// cellsToLine reads one row of a Grid back out as a plain string, the same
// shape midterm.Terminal.Content exposes per row.
func cellsToLine(g *grid.Grid, row, cols int) string {
	var b strings.Builder
	for c := 0; c < cols; c++ {
		cell := g.Cell(row, c)
		if !cell.HasContent {
			b.WriteByte(' ')
		} else {
			b.WriteRune(cell.Content)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// TestPlainTextMatchesMidterm cross-checks our hand-rolled parser against
// vito/midterm, a real VT implementation already in the dependency tree,
// for plain, escape-free text: both should lay out the same printable
// characters onto the same rows and columns.
func TestPlainTextMatchesMidterm(t *testing.T) {
	const rows, cols = 5, 20
	input := []byte("hello, world!\r\nsecond line here\r\nthird")

	mt := midterm.NewTerminal(rows, cols)
	if _, err := mt.Write(input); err != nil {
		t.Fatalf("midterm write: %v", err)
	}

	g := grid.WithDimensions(rows, cols)
	perf := apply.NewPerformer(g, nil)
	p := vtparser.New()
	p.AdvanceBytes(perf, input)

	for row := 0; row < rows; row++ {
		want := strings.TrimRight(string(mt.Content[row]), " ")
		got := cellsToLine(g, row, cols)
		if want != got {
			t.Fatalf("row %d: midterm=%q ours=%q", row, want, got)
		}
	}
}
