package tui

import (
	"strings"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/geometry"
)

// Canvas is a rune grid that maps world meters onto terminal cells. The
// origin sits in the middle; a cell is twice as tall as it is wide.
type Canvas struct {
	width, height int
	scale         float64 // cells per meter, horizontally
	cells         [][]rune
}

func NewCanvas(width, height int, scale float64) *Canvas {
	cells := make([][]rune, height)
	for i := range cells {
		cells[i] = make([]rune, width)
	}
	c := &Canvas{width: width, height: height, scale: scale, cells: cells}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = ' '
		}
	}
}

func (c *Canvas) Scale() float64 { return c.scale }

func (c *Canvas) SetScale(s float64) {
	if s > 0 {
		c.scale = s
	}
}

// Project maps a world point to a cell.
func (c *Canvas) Project(p dynamo.Point) (int, int) {
	x := c.width/2 + int(p.X*c.scale)
	y := c.height/2 - int(p.Y*c.scale/2)
	return x, y
}

func (c *Canvas) Set(x, y int, r rune) {
	if x >= 0 && x < c.width && y >= 0 && y < c.height {
		c.cells[y][x] = r
	}
}

func (c *Canvas) At(x, y int) rune {
	if x >= 0 && x < c.width && y >= 0 && y < c.height {
		return c.cells[y][x]
	}
	return 0
}

func (c *Canvas) Plot(p dynamo.Point, r rune) {
	x, y := c.Project(p)
	c.Set(x, y, r)
}

// Line draws with Bresenham's algorithm between two cells.
func (c *Canvas) Line(x1, y1, x2, y2 int, r rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		c.Set(x1, y1, r)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func (c *Canvas) Segment(a, b dynamo.Point, r rune) {
	x1, y1 := c.Project(a)
	x2, y2 := c.Project(b)
	c.Line(x1, y1, x2, y2, r)
}

func (c *Canvas) Polygon(p geometry.Polygon, r rune) {
	for _, e := range p.Edges() {
		c.Segment(e.A, e.B, r)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.cells {
		b.WriteString(string(row))
		if i < len(c.cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
