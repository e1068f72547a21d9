package grid

import "testing"

func TestDefaultShape(t *testing.T) {
	g := New()
	if g.Rows() != DefaultRows || g.Columns() != DefaultCols {
		t.Fatalf("got (%d,%d), want (%d,%d)", g.Rows(), g.Columns(), DefaultRows, DefaultCols)
	}
	if c := g.Cursor(); c != DefaultCursor {
		t.Fatalf("cursor = %+v, want default", c)
	}
}

func TestOutOfBoundsReadsReturnSentinel(t *testing.T) {
	g := WithDimensions(3, 2)
	cases := [][2]int{{3, 0}, {0, 2}, {-1, 0}, {0, -1}}
	for _, c := range cases {
		got := g.Cell(c[0], c[1])
		if got != sentinel {
			t.Fatalf("Cell(%d,%d) = %+v, want sentinel", c[0], c[1], got)
		}
	}
}

func TestOutOfBoundsWritesAreNoOps(t *testing.T) {
	g := WithDimensions(3, 2)
	before := g.Clone()
	g.SetCell(3, 0, Cell{Content: 'x', HasContent: true})
	g.SetCell(0, 2, Cell{Content: 'x', HasContent: true})
	for r := 0; r < 3; r++ {
		for c := 0; c < 2; c++ {
			if g.Cell(r, c) != before.Cell(r, c) {
				t.Fatalf("grid mutated by out-of-bounds write at row %d col %d", r, c)
			}
		}
	}
}

func TestScrollDownClearsAndAdvancesTop(t *testing.T) {
	g := WithDimensions(3, 1)
	g.SetCell(0, 0, Cell{Content: 'a', HasContent: true})
	g.SetCell(1, 0, Cell{Content: 'b', HasContent: true})
	g.SetCell(2, 0, Cell{Content: 'c', HasContent: true})

	g.ScrollDown(1)
	if g.Top() != 1 {
		t.Fatalf("top = %d, want 1", g.Top())
	}
	if g.Cell(0, 0).Content != 'b' || g.Cell(1, 0).Content != 'c' {
		t.Fatalf("unexpected rows after scroll: %v %v", g.Cell(0, 0), g.Cell(1, 0))
	}
	if g.Cell(2, 0).HasContent {
		t.Fatalf("new bottom row should be cleared, got %+v", g.Cell(2, 0))
	}
}

func TestRingIntegrityAfterKScrolls(t *testing.T) {
	g := WithDimensions(4, 1)
	letters := []rune{'a', 'b', 'c', 'd'}
	for r, ch := range letters {
		g.SetCell(r, 0, Cell{Content: ch, HasContent: true})
	}
	before := make([]Cell, 4)
	for r := 0; r < 4; r++ {
		before[r] = g.Cell(r, 0)
	}

	k := 2
	g.ScrollDown(k)
	if g.Top() < 0 || g.Top() >= g.Rows() {
		t.Fatalf("top out of range: %d", g.Top())
	}
	for r := k; r < 4; r++ {
		want := before[r]
		got := g.Cell(r-k, 0)
		if got.Content != want.Content {
			t.Fatalf("cell(%d) after %d scrolls = %v, want %v", r-k, k, got, want)
		}
	}
}

func TestScrollDownClampsToRows(t *testing.T) {
	g := WithDimensions(2, 1)
	g.ScrollDown(100)
	if g.Top() < 0 || g.Top() >= 2 {
		t.Fatalf("top out of range after oversized scroll: %d", g.Top())
	}
}
