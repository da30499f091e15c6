package chart

// cellKind orders what occupies a character cell; higher kinds win.
type cellKind int

const (
	kindEmpty cellKind = iota
	kindGrid
	kindLine
	kindPoint
	kindSelected
)

const (
	gridHorizontal = '┈'
	gridVertical   = '┊'
	gridCross      = '┼'
	pointMarker    = '●'
	selectedMarker = '◆'
	brailleBase    = 0x2800
)

// brailleBits maps a dot position inside a cell (row 0-3, column 0-1) to its
// bit in the Unicode braille block.
var brailleBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

type cell struct {
	kind cellKind
	char rune
	dots rune
}

// canvas is a character grid addressed either by cell or by braille dot,
// with two dot columns and four dot rows per cell.
type canvas struct {
	width  int
	height int
	cells  [][]cell
}

func newCanvas(width, height int) *canvas {
	cells := make([][]cell, height)
	for i := range cells {
		cells[i] = make([]cell, width)
	}
	return &canvas{width: width, height: height, cells: cells}
}

func (c *canvas) inBounds(col, row int) bool {
	return col >= 0 && col < c.width && row >= 0 && row < c.height
}

func (c *canvas) hline(row int) {
	for col := 0; col < c.width; col++ {
		c.grid(col, row, gridHorizontal)
	}
}

func (c *canvas) vline(col int) {
	for row := 0; row < c.height; row++ {
		c.grid(col, row, gridVertical)
	}
}

func (c *canvas) grid(col, row int, ch rune) {
	if !c.inBounds(col, row) {
		return
	}
	cl := &c.cells[row][col]
	switch cl.kind {
	case kindEmpty:
		cl.kind = kindGrid
		cl.char = ch
	case kindGrid:
		if cl.char != ch {
			cl.char = gridCross
		}
	}
}

func (c *canvas) dot(x, y int) {
	col, row := x/2, y/4
	if x < 0 || y < 0 || !c.inBounds(col, row) {
		return
	}
	cl := &c.cells[row][col]
	cl.dots |= brailleBits[y%4][x%2]
	if cl.kind < kindLine {
		cl.kind = kindLine
	}
}

// line draws between two dot coordinates with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		c.dot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *canvas) mark(col, row int, kind cellKind, ch rune) {
	if !c.inBounds(col, row) {
		return
	}
	cl := &c.cells[row][col]
	if cl.kind > kind {
		return
	}
	cl.kind = kind
	cl.char = ch
}

func (cl cell) glyph() rune {
	switch cl.kind {
	case kindLine:
		return brailleBase + cl.dots
	case kindEmpty:
		return ' '
	default:
		return cl.char
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
