package render

import (
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// Canvas represents a 2D grid of cells for ASCII rendering. It is a Sink:
// pixel coordinates are scaled onto cells, one pixel per cell until Fit is
// called.
type Canvas struct {
	width  int
	height int
	cells  [][]Cell

	// cells per pixel
	sx, sy float64
}

// Cell represents a single character cell with style. A zero Char marks the
// right half of a wide rune.
type Cell struct {
	Char  rune
	Style tcell.Style
}

// NewCanvas creates a new blank canvas
func NewCanvas(width, height int) *Canvas {
	cells := make([][]Cell, height)
	for i := range cells {
		cells[i] = make([]Cell, width)
		for j := range cells[i] {
			cells[i][j] = Cell{
				Char:  ' ',
				Style: tcell.StyleDefault,
			}
		}
	}

	return &Canvas{
		width:  width,
		height: height,
		cells:  cells,
		sx:     1,
		sy:     1,
	}
}

// Fit scales a pixWidth x pixHeight pixel image onto the whole canvas.
func (c *Canvas) Fit(pixWidth, pixHeight float64) {
	if pixWidth > 0 {
		c.sx = float64(c.width) / pixWidth
	}
	if pixHeight > 0 {
		c.sy = float64(c.height) / pixHeight
	}
}

// SetScale sets the cells per pixel on each axis.
func (c *Canvas) SetScale(sx, sy float64) {
	if sx > 0 && sy > 0 {
		c.sx, c.sy = sx, sy
	}
}

// Set sets the character and style at the given position
// Coordinates are 0-indexed with (0,0) at top-left
func (c *Canvas) Set(x, y int, char rune, style tcell.Style) {
	if x >= 0 && x < c.width && y >= 0 && y < c.height {
		c.cells[y][x] = Cell{Char: char, Style: style}
	}
}

// Get retrieves the cell at the given position
func (c *Canvas) Get(x, y int) Cell {
	if x >= 0 && x < c.width && y >= 0 && y < c.height {
		return c.cells[y][x]
	}
	return Cell{Char: ' ', Style: tcell.StyleDefault}
}

// Clear resets the entire canvas to spaces with default style
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = Cell{Char: ' ', Style: tcell.StyleDefault}
		}
	}
}

// DrawText draws a string at the given position, advancing two cells for
// wide runes.
func (c *Canvas) DrawText(x, y int, text string, style tcell.Style) {
	for _, char := range text {
		w := runewidth.RuneWidth(char)
		if w == 0 {
			continue
		}
		c.Set(x, y, char, style)
		if w == 2 {
			c.Set(x+1, y, 0, style)
		}
		x += w
	}
}

// DrawBox draws a box outline using box-drawing characters
func (c *Canvas) DrawBox(x, y, width, height int, style tcell.Style) {
	if width < 2 || height < 2 {
		return
	}

	c.Set(x, y, '┌', style)
	c.Set(x+width-1, y, '┐', style)
	c.Set(x, y+height-1, '└', style)
	c.Set(x+width-1, y+height-1, '┘', style)

	for i := 1; i < width-1; i++ {
		c.Set(x+i, y, '─', style)
		c.Set(x+i, y+height-1, '─', style)
	}

	for i := 1; i < height-1; i++ {
		c.Set(x, y+i, '│', style)
		c.Set(x+width-1, y+i, '│', style)
	}
}

// DrawLine implements Bresenham's line algorithm for drawing lines on the canvas
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, char rune, style tcell.Style) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)

	sx := -1
	if x0 < x1 {
		sx = 1
	}

	sy := -1
	if y0 < y1 {
		sy = 1
	}

	err := dx - dy

	for {
		c.Set(x0, y0, char, style)

		if x0 == x1 && y0 == y1 {
			break
		}

		e2 := 2 * err

		if e2 > -dy {
			err -= dy
			x0 += sx
		}

		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Width returns the canvas width
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height
func (c *Canvas) Height() int {
	return c.height
}

// Blit renders the canvas to a tcell screen
func (c *Canvas) Blit(screen tcell.Screen, offsetX, offsetY int) {
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			cell := c.cells[y][x]
			if cell.Char == 0 {
				continue
			}
			screen.SetContent(offsetX+x, offsetY+y, cell.Char, nil, cell.Style)
		}
	}
}

// String dumps the canvas as text, one line per row with trailing blanks
// removed.
func (c *Canvas) String() string {
	var b strings.Builder
	for y, row := range c.cells {
		var line strings.Builder
		for _, cell := range row {
			if cell.Char != 0 {
				line.WriteRune(cell.Char)
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		if y < len(c.cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Line draws l with a character matching its slope.
func (c *Canvas) Line(l Line) {
	x0, y0 := c.cell(l.From.X, l.From.Y)
	x1, y1 := c.cell(l.To.X, l.To.Y)
	c.DrawLine(x0, y0, x1, y1, slopeChar(x1-x0, y1-y0), c.style(l.Color))
}

// Circle draws a ring of 'o', a filled disc of '█', or a single '●' when the
// circle is smaller than a cell.
func (c *Canvas) Circle(ci Circle) {
	style := c.style(ci.Color)
	cx, cy := ci.Center.X*c.sx, ci.Center.Y*c.sy
	rx, ry := ci.Radius*c.sx, ci.Radius*c.sy
	if rx < 1 && ry < 1 {
		x, y := c.cell(ci.Center.X, ci.Center.Y)
		c.Set(x, y, '●', style)
		return
	}
	if ci.Fill {
		for y := int(math.Floor(cy - ry)); y <= int(math.Ceil(cy+ry)); y++ {
			dy := (float64(y) + 0.5 - cy) / ry
			if dy < -1 || dy > 1 {
				continue
			}
			half := rx * math.Sqrt(1-dy*dy)
			for x := int(math.Floor(cx - half)); x < int(math.Ceil(cx+half)); x++ {
				c.Set(x, y, '█', style)
			}
		}
		return
	}
	steps := int(2*math.Pi*math.Max(rx, ry))*2 + 8
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x := int(math.Floor(cx + rx*math.Cos(a)))
		y := int(math.Floor(cy + ry*math.Sin(a)))
		c.Set(x, y, 'o', style)
	}
}

// Text draws t on a single row, shifted left by AnchorX of its width.
func (c *Canvas) Text(t Text) {
	x, y := c.cell(t.At.X, t.At.Y)
	x -= int(math.Round(float64(runewidth.StringWidth(t.Text)) * t.AnchorX))
	c.DrawText(x, y, t.Text, c.style(t.Color))
}

// CellAt returns the cell a canvas pixel falls in.
func (c *Canvas) CellAt(px, py float64) (int, int) {
	return c.cell(px, py)
}

func (c *Canvas) cell(px, py float64) (int, int) {
	return int(math.Floor(px * c.sx)), int(math.Floor(py * c.sy))
}

// style maps black ink to the terminal's default foreground.
func (c *Canvas) style(col colorful.Color) tcell.Style {
	if col == (colorful.Color{}) {
		return tcell.StyleDefault
	}
	return TermStyle(col)
}

func slopeChar(dx, dy int) rune {
	switch {
	case dx == 0 && dy == 0:
		return '·'
	case abs(dy)*2 < abs(dx):
		return '-'
	case abs(dx)*2 < abs(dy):
		return '|'
	case (dx > 0) == (dy < 0):
		return '/'
	default:
		return '\\'
	}
}

// abs returns the absolute value of an integer
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
