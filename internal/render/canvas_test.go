package render

import (
	"strings"
	"testing"

	"mapoverlay/internal/geo"

	"github.com/gdamore/tcell/v2"
)

func TestCanvasLineAndText(t *testing.T) {
	c := NewCanvas(10, 4)
	c.Line(Line{From: geo.PixelPoint{X: 0, Y: 2}, To: geo.PixelPoint{X: 9, Y: 2}})
	c.Line(Line{From: geo.PixelPoint{X: 9, Y: 0}, To: geo.PixelPoint{X: 9, Y: 3}})
	c.Text(Text{At: geo.PixelPoint{X: 2, Y: 0}, Text: "abc"})

	want := strings.Join([]string{
		"  abc    |",
		"         |",
		"---------|",
		"         |",
	}, "\n")
	if got := c.String(); got != want {
		t.Errorf("canvas =\n%s\nwant\n%s", got, want)
	}
}

func TestCanvasDrawBox(t *testing.T) {
	c := NewCanvas(5, 3)
	c.DrawBox(0, 0, c.Width(), c.Height(), StyleBorder)
	want := "┌───┐\n│   │\n└───┘"
	if got := c.String(); got != want {
		t.Errorf("box =\n%s\nwant\n%s", got, want)
	}

	c.Clear()
	c.DrawBox(1, 1, 1, 1, StyleBorder)
	if got := c.String(); got != "\n\n" {
		t.Errorf("degenerate box drew %q", got)
	}
}

func TestCanvasTextAnchorAndWideRunes(t *testing.T) {
	c := NewCanvas(12, 1)
	c.Text(Text{At: geo.PixelPoint{X: 6, Y: 0}, Text: "ab", AnchorX: 0.5})
	if got := c.String(); got != "     ab" {
		t.Errorf("centred text = %q", got)
	}

	c.Clear()
	c.Text(Text{At: geo.PixelPoint{X: 0, Y: 0}, Text: "地図x"})
	if got := c.String(); got != "地図x" {
		t.Errorf("wide text = %q", got)
	}
	if cell := c.Get(4, 0); cell.Char != 'x' {
		t.Errorf("cell 4 = %q, want x after two wide runes", cell.Char)
	}
}

func TestCanvasFitAndCircle(t *testing.T) {
	c := NewCanvas(20, 10)
	c.Fit(200, 100)
	c.Circle(Circle{Center: geo.PixelPoint{X: 105, Y: 55}, Radius: 3})
	if cell := c.Get(10, 5); cell.Char != '●' {
		t.Errorf("small circle drew %q at (10, 5)", cell.Char)
	}

	c.Clear()
	c.Circle(Circle{Center: geo.PixelPoint{X: 100, Y: 50}, Radius: 40, Fill: true})
	if cell := c.Get(10, 5); cell.Char != '█' {
		t.Errorf("filled circle centre = %q", cell.Char)
	}
	if cell := c.Get(0, 0); cell.Char != ' ' {
		t.Errorf("filled circle reached corner: %q", cell.Char)
	}

	c.Clear()
	c.Circle(Circle{Center: geo.PixelPoint{X: 100, Y: 50}, Radius: 40})
	if cell := c.Get(10, 5); cell.Char != ' ' {
		t.Errorf("ring centre = %q, want blank", cell.Char)
	}
	if cell := c.Get(14, 5); cell.Char != 'o' {
		t.Errorf("ring east edge = %q, want o", cell.Char)
	}
}

func TestSlopeChar(t *testing.T) {
	tests := []struct {
		dx, dy int
		want   rune
	}{
		{5, 0, '-'}, {0, 5, '|'}, {4, -4, '/'}, {-4, 4, '/'}, {4, 4, '\\'}, {0, 0, '·'},
	}
	for _, tt := range tests {
		if got := slopeChar(tt.dx, tt.dy); got != tt.want {
			t.Errorf("slopeChar(%d, %d) = %q, want %q", tt.dx, tt.dy, got, tt.want)
		}
	}
}

func TestCanvasBlit(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(20, 5)

	c := NewCanvas(5, 2)
	c.Text(Text{At: geo.PixelPoint{X: 0, Y: 1}, Text: "hi", Color: ColorTrail})
	c.Blit(screen, 3, 2)

	mainc, _, style, _ := screen.GetContent(3, 3)
	if mainc != 'h' {
		t.Errorf("blitted rune = %q, want h", mainc)
	}
	if fg, _, _ := style.Decompose(); fg != TermColor(ColorTrail) {
		t.Errorf("blitted colour = %v", fg)
	}
}
