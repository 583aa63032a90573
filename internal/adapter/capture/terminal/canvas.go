package terminal

import "sort"

// Each terminal cell packs a 2x4 grid of braille dots, so the canvas
// draws on a micro grid twice as wide and four times as tall as the
// visible cell grid.
const (
	microPerCellX = 2
	microPerCellY = 4
)

// brailleBit maps micro offsets within a cell to the dot bit of the
// corresponding braille rune (U+2800 plus mask).
var brailleBit = [microPerCellX][microPerCellY]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

type canvas struct {
	w, h  int
	cells [][]uint8
}

func newCanvas(w, h int) *canvas {
	cells := make([][]uint8, h)
	for i := range cells {
		cells[i] = make([]uint8, w)
	}
	return &canvas{w: w, h: h, cells: cells}
}

func (c *canvas) microWidth() int {
	return c.w * microPerCellX
}

func (c *canvas) microHeight() int {
	return c.h * microPerCellY
}

func (c *canvas) set(mx, my int) {
	if mx < 0 || my < 0 || mx >= c.microWidth() || my >= c.microHeight() {
		return
	}
	c.cells[my/microPerCellY][mx/microPerCellX] |= brailleBit[mx%microPerCellX][my%microPerCellY]
}

// line draws with Bresenham on the micro grid. Segments entirely outside
// the canvas on one side are rejected up front so deeply zoomed views do
// not walk millions of off-screen steps.
func (c *canvas) line(x0, y0, x1, y1 int) {
	w, h := c.microWidth(), c.microHeight()
	if (x0 < 0 && x1 < 0) || (y0 < 0 && y1 < 0) || (x0 >= w && x1 >= w) || (y0 >= h && y1 >= h) {
		return
	}

	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.set(x0, y0)
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

// rect draws an axis-aligned rectangle outline between two micro points.
func (c *canvas) rect(x0, y0, x1, y1 int) {
	c.line(x0, y0, x1, y0)
	c.line(x1, y0, x1, y1)
	c.line(x1, y1, x0, y1)
	c.line(x0, y1, x0, y0)
}

// fillRings fills the area enclosed by the rings with the even-odd rule,
// one scanline at a time. Crossings from hole rings toggle the fill off,
// which keeps lakes empty.
func (c *canvas) fillRings(rings [][][2]int) {
	var edges [][4]int
	yTop, yBot := c.microHeight(), -1
	for _, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		for i := range ring {
			a := ring[i]
			b := ring[(i+1)%len(ring)]
			if a[1] == b[1] {
				continue
			}
			edges = append(edges, [4]int{a[0], a[1], b[0], b[1]})
			yTop = min(yTop, min(a[1], b[1]))
			yBot = max(yBot, max(a[1], b[1]))
		}
	}
	if len(edges) == 0 {
		return
	}

	yTop = max(yTop, 0)
	yBot = min(yBot, c.microHeight()-1)

	var xs []int
	for y := yTop; y <= yBot; y++ {
		xs = xs[:0]
		for _, e := range edges {
			x0, y0, x1, y1 := e[0], e[1], e[2], e[3]
			// half-open span so shared vertices count once
			if (y >= y0 && y < y1) || (y >= y1 && y < y0) {
				t := float64(y-y0) / float64(y1-y0)
				xs = append(xs, x0+int(t*float64(x1-x0)))
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := max(0, xs[i]); x <= xs[i+1]; x++ {
				c.set(x, y)
			}
		}
	}
}

// rows renders the canvas to one string per cell row. Empty cells are
// spaces so callers can overlay markers by position.
func (c *canvas) rows() []string {
	out := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		row := make([]rune, c.w)
		for x := 0; x < c.w; x++ {
			mask := c.cells[y][x]
			if mask == 0 {
				row[x] = ' '
			} else {
				row[x] = rune(0x2800 + int(mask))
			}
		}
		out[y] = string(row)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
