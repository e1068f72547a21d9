package protocol

import (
	"fmt"

	"muxr/internal/grid"
)

// EncodeGrid serializes g's exact internal representation (physical cell
// storage, top, cursor) as a self-describing payload, tagged as a Grid
// message. Encoding the physical layout directly (rather than the
// top-realized logical view) is what makes deserialize(serialize(x)) == x
// hold for every Grid, including mid-scroll states.
func EncodeGrid(g *grid.Grid) []byte {
	rows, cols := g.Rows(), g.Columns()
	buf := make([]byte, 0, 16+rows*cols*8)
	buf = append(buf, byte(MessageGrid))
	buf = putUint32(buf, uint32(rows))
	buf = putUint32(buf, uint32(cols))
	buf = putUint32(buf, uint32(g.Top()))
	buf = encodeCursor(buf, g.Cursor())

	cells := g.RawCells()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			buf = encodeCell(buf, cells[r][c])
		}
	}
	return buf
}

func encodeCursor(buf []byte, cur grid.Cursor) []byte {
	buf = putUint32(buf, uint32(int32(cur.Row)))
	buf = putUint32(buf, uint32(int32(cur.Col)))
	buf = append(buf, cur.Color.R, cur.Color.G, cur.Color.B)
	buf = append(buf, byte(cur.Style))
	visible := byte(0)
	if cur.Visible {
		visible = 1
	}
	buf = append(buf, visible)
	return buf
}

func decodeCursor(buf []byte) (grid.Cursor, []byte, error) {
	row, buf, err := takeUint32(buf)
	if err != nil {
		return grid.Cursor{}, nil, err
	}
	col, buf, err := takeUint32(buf)
	if err != nil {
		return grid.Cursor{}, nil, err
	}
	if len(buf) < 5 {
		return grid.Cursor{}, nil, fmt.Errorf("protocol: short read decoding cursor tail")
	}
	color := grid.Color{R: buf[0], G: buf[1], B: buf[2]}
	style := grid.CursorStyle(buf[3])
	visible := buf[4] != 0
	buf = buf[5:]
	return grid.Cursor{
		Row:     int(int32(row)),
		Col:     int(int32(col)),
		Color:   color,
		Style:   style,
		Visible: visible,
	}, buf, nil
}

func encodeCell(buf []byte, c grid.Cell) []byte {
	buf = append(buf, byte(c.Style))
	buf = append(buf, c.Foreground.R, c.Foreground.G, c.Foreground.B)
	buf = append(buf, c.Background.R, c.Background.G, c.Background.B)
	hasContent := byte(0)
	if c.HasContent {
		hasContent = 1
	}
	buf = append(buf, hasContent)
	buf = putUint32(buf, uint32(c.Content))
	return buf
}

func decodeCell(buf []byte) (grid.Cell, []byte, error) {
	if len(buf) < 8 {
		return grid.Cell{}, nil, fmt.Errorf("protocol: short read decoding cell header")
	}
	style := grid.CellStyle(buf[0])
	fg := grid.Color{R: buf[1], G: buf[2], B: buf[3]}
	bg := grid.Color{R: buf[4], G: buf[5], B: buf[6]}
	hasContent := buf[7] != 0
	buf = buf[8:]
	content, buf, err := takeUint32(buf)
	if err != nil {
		return grid.Cell{}, nil, err
	}
	return grid.Cell{
		Style:      style,
		Foreground: fg,
		Background: bg,
		Content:    rune(content),
		HasContent: hasContent,
	}, buf, nil
}

// DecodeGrid decodes a Grid payload as produced by EncodeGrid.
func DecodeGrid(payload []byte) (*grid.Grid, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("protocol: empty grid payload")
	}
	if MessageKind(payload[0]) != MessageGrid {
		return nil, fmt.Errorf("protocol: expected grid message, got kind %d", payload[0])
	}
	buf := payload[1:]

	rowsU, buf, err := takeUint32(buf)
	if err != nil {
		return nil, err
	}
	colsU, buf, err := takeUint32(buf)
	if err != nil {
		return nil, err
	}
	topU, buf, err := takeUint32(buf)
	if err != nil {
		return nil, err
	}
	cursor, buf, err := decodeCursor(buf)
	if err != nil {
		return nil, err
	}

	rows, cols, top := int(rowsU), int(colsU), int(topU)
	cells := make([][]grid.Cell, rows)
	for r := 0; r < rows; r++ {
		row := make([]grid.Cell, cols)
		for c := 0; c < cols; c++ {
			var cell grid.Cell
			cell, buf, err = decodeCell(buf)
			if err != nil {
				return nil, fmt.Errorf("protocol: decoding cell (%d,%d): %w", r, c, err)
			}
			row[c] = cell
		}
		cells[r] = row
	}
	return grid.FromRaw(rows, cols, top, cursor, cells), nil
}
