package render

import (
	"fmt"

	"mapoverlay/internal/geo"

	"github.com/lucasb-eyer/go-colorful"
)

// CompassRose draws four cardinal arms and a ring. The arms follow the
// frame's rotation so north always points at geographic north. A nil Center
// places the rose in the top right corner of the canvas.
type CompassRose struct {
	Center   geo.Position
	Radius   float64 // pixels
	FontSize float64
	Color    colorful.Color
	Width    float64
}

const compassMargin = 10

var cardinals = []struct {
	label   string
	bearing float64
	scale   float64
}{
	{"N", 90, 1},
	{"E", 0, 0.7},
	{"S", 270, 0.7},
	{"W", 180, 0.7},
}

// Display returns the rose's primitives for frame.
func (c CompassRose) Display(frame *geo.Frame) ([]Primitive, error) {
	if c.Radius <= 0 {
		return nil, fmt.Errorf("%w: compass radius %g", geo.ErrInvalidConfiguration, c.Radius)
	}
	center, err := c.center(frame)
	if err != nil {
		return nil, fmt.Errorf("compass centre: %w", err)
	}
	size := c.FontSize
	if size == 0 {
		size = defaultFontSize
	}
	width := c.Width
	if width == 0 {
		width = 1
	}

	prims := []Primitive{Circle{Center: center, Radius: c.Radius * 0.4, Color: c.Color, Width: width}}
	for _, card := range cardinals {
		b := card.bearing + frame.Rotation()
		tip := offset(center, c.Radius*card.scale, b)
		prims = append(prims, Line{From: center, To: tip, Color: c.Color, Width: width})
		if card.label == "N" {
			// arrow head
			prims = append(prims,
				Line{From: tip, To: offset(tip, c.Radius*0.2, b+150), Color: c.Color, Width: width},
				Line{From: tip, To: offset(tip, c.Radius*0.2, b-150), Color: c.Color, Width: width},
			)
		}
		prims = append(prims, Text{
			At:      offset(center, c.Radius*card.scale+labelGap+size/2, b),
			Text:    card.label,
			Size:    size,
			Color:   c.Color,
			AnchorX: 0.5,
			AnchorY: 0.5,
		})
	}
	return prims, nil
}

func (c CompassRose) center(frame *geo.Frame) (geo.PixelPoint, error) {
	if c.Center == nil {
		w, _ := frame.Size()
		return geo.PixelPoint{X: w - c.Radius - compassMargin, Y: c.Radius + compassMargin}, nil
	}
	return frame.Resolve(c.Center)
}
