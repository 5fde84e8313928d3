package render

import (
	"fmt"
	"math"

	"mapoverlay/internal/geo"

	"github.com/lucasb-eyer/go-colorful"
)

// PenState is the position and heading a relative drawing call starts from.
// Heading is in degrees counter-clockwise from east on the unrotated map.
type PenState struct {
	Pos     geo.PixelPoint
	Heading float64
}

// Pen draws through a frame. Every method returns a new Pen and leaves the
// receiver untouched, so a chain of moves never shares hidden state.
type Pen struct {
	frame *geo.Frame
	state PenState

	Color colorful.Color
	Width float64
}

// NewPen returns a pen at pos, heading east.
func NewPen(frame *geo.Frame, pos geo.Position) (Pen, error) {
	p, err := frame.Resolve(pos)
	if err != nil {
		return Pen{}, err
	}
	return Pen{frame: frame, state: PenState{Pos: p}, Color: ColorInk, Width: 1}, nil
}

// State returns the pen's current position and heading.
func (p Pen) State() PenState { return p.state }

// WithStyle returns the pen with a new colour and stroke width.
func (p Pen) WithStyle(c colorful.Color, width float64) Pen {
	p.Color = c
	p.Width = width
	return p
}

// At moves the pen without drawing.
func (p Pen) At(pos geo.Position) (Pen, error) {
	px, err := p.frame.Resolve(pos)
	if err != nil {
		return p, err
	}
	p.state.Pos = px
	return p, nil
}

// Turn rotates the heading counter-clockwise by deg.
func (p Pen) Turn(deg float64) Pen {
	p.state.Heading = normalize(p.state.Heading + deg)
	return p
}

// Face sets the heading.
func (p Pen) Face(deg float64) Pen {
	p.state.Heading = normalize(deg)
	return p
}

// LineSeg draws length units along the heading and leaves the pen at the end.
func (p Pen) LineSeg(length float64, unit geo.Unit) (Pen, Line, error) {
	end, err := p.frame.AddToPoint(p.state.Pos, length, unit, p.state.Heading)
	if err != nil {
		return p, Line{}, fmt.Errorf("line segment: %w", err)
	}
	l := Line{From: p.state.Pos, To: end, Color: p.Color, Width: p.Width}
	p.state.Pos = end
	return p, l, nil
}

// LineTo draws to pos and turns the pen to the direction it travelled.
func (p Pen) LineTo(pos geo.Position) (Pen, Line, error) {
	end, err := p.frame.Resolve(pos)
	if err != nil {
		return p, Line{}, fmt.Errorf("line to: %w", err)
	}
	l := Line{From: p.state.Pos, To: end, Color: p.Color, Width: p.Width}
	if pixelDistance(p.state.Pos, end) > 0 {
		p.state.Heading = normalize(pixelBearing(p.state.Pos, end) - p.frame.Rotation())
	}
	p.state.Pos = end
	return p, l, nil
}

// Circle returns a circle of the given ground radius centred on the pen.
func (p Pen) Circle(radius float64, unit geo.Unit, fill bool) (Circle, error) {
	if unit == "" {
		unit = p.frame.Unit()
	}
	m, err := unit.Meters()
	if err != nil {
		return Circle{}, fmt.Errorf("circle: %w", err)
	}
	return Circle{
		Center: p.state.Pos,
		Radius: p.frame.MetersToPixel(radius * m),
		Color:  p.Color,
		Width:  p.Width,
		Fill:   fill,
	}, nil
}

// Text returns s centred on the pen.
func (p Pen) Text(s string, size float64) Text {
	return Text{At: p.state.Pos, Text: s, Size: size, Color: p.Color, AnchorX: 0.5, AnchorY: 0.5}
}

func normalize(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
