package render

import (
	"math"

	"mapoverlay/internal/geo"

	"github.com/lucasb-eyer/go-colorful"
)

// Sink receives draw primitives. Sinks are not safe for concurrent use.
type Sink interface {
	Line(Line)
	Circle(Circle)
	Text(Text)
}

// Primitive is a drawable element produced by a layout.
type Primitive interface {
	Draw(Sink)
}

// Line is a straight stroke between two canvas pixels
type Line struct {
	From  geo.PixelPoint
	To    geo.PixelPoint
	Color colorful.Color
	Width float64
}

// Circle is a ring or disc centred on a canvas pixel
type Circle struct {
	Center geo.PixelPoint
	Radius float64 // pixels
	Color  colorful.Color
	Width  float64
	Fill   bool
}

// Text is a string placed relative to a canvas pixel. AnchorX and AnchorY
// follow gg.Context.DrawStringAnchored: (0, 0) puts the text's left baseline
// at At, AnchorX 0.5 centres it horizontally.
type Text struct {
	At      geo.PixelPoint
	Text    string
	Size    float64
	Color   colorful.Color
	AnchorX float64
	AnchorY float64
}

func (l Line) Draw(s Sink)   { s.Line(l) }
func (c Circle) Draw(s Sink) { s.Circle(c) }
func (t Text) Draw(s Sink)   { s.Text(t) }

// DrawAll sends every primitive to s in order.
func DrawAll(s Sink, prims []Primitive) {
	for _, p := range prims {
		p.Draw(s)
	}
}

// Measure returns the rendered width in pixels of s at the given font size.
type Measure func(s string, size float64) float64

// offset moves p by dist pixels along a bearing in degrees counter-clockwise
// from the canvas's horizontal-right axis.
func offset(p geo.PixelPoint, dist, bearing float64) geo.PixelPoint {
	rad := bearing * math.Pi / 180
	return geo.PixelPoint{
		X: p.X + dist*math.Cos(rad),
		Y: p.Y - dist*math.Sin(rad),
	}
}

// pixelBearing is the canvas bearing from a to b.
func pixelBearing(a, b geo.PixelPoint) float64 {
	return math.Atan2(a.Y-b.Y, b.X-a.X) * 180 / math.Pi
}

func pixelDistance(a, b geo.PixelPoint) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
