// Package preview draws documents on the terminal.
package preview

import "strings"

// Canvas is a fixed-size grid of runes. (0,0) is the top-left cell.
type Canvas struct {
	width, height int
	cells         [][]rune
}

// NewCanvas returns a blank canvas. Sizes below 1 are raised to 1.
func NewCanvas(width, height int) *Canvas {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	cells := make([][]rune, height)
	for y := range cells {
		cells[y] = []rune(strings.Repeat(" ", width))
	}
	return &Canvas{width: width, height: height, cells: cells}
}

// Width returns the number of columns.
func (c *Canvas) Width() int { return c.width }

// Height returns the number of rows.
func (c *Canvas) Height() int { return c.height }

// Set writes r at (x, y). Out-of-range cells are ignored.
func (c *Canvas) Set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y][x] = r
}

// At returns the rune at (x, y), or a space when out of range.
func (c *Canvas) At(x, y int) rune {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return ' '
	}
	return c.cells[y][x]
}

// Line draws a segment with Bresenham's algorithm.
func (c *Canvas) Line(x0, y0, x1, y1 int, r rune) {
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
		c.Set(x0, y0, r)
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

// Text writes s left to right starting at (x, y).
func (c *Canvas) Text(x, y int, s string) {
	for i, r := range []rune(s) {
		c.Set(x+i, y, r)
	}
}

// String joins the rows with newlines, trailing spaces kept.
func (c *Canvas) String() string {
	rows := make([]string, c.height)
	for y, row := range c.cells {
		rows[y] = string(row)
	}
	return strings.Join(rows, "\n")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
