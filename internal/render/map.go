package render

import (
	"fmt"

	"mapoverlay/internal/debug"
	"mapoverlay/internal/geo"

	"github.com/lucasb-eyer/go-colorful"
)

const defaultMarkerRadius = 3

// Marker is a labelled point of interest
type Marker struct {
	Name   string
	At     geo.Position
	Radius float64 // pixels
	Color  colorful.Color
	Fill   bool
}

// Trail is a polyline through a sequence of positions
type Trail struct {
	Name   string
	Points []geo.Position
	Color  colorful.Color
	Width  float64
}

// Layers collects everything drawn over a map.
type Layers struct {
	Trails    []Trail
	Markers   []Marker
	Scales    []ScaleSpec
	Compass   *CompassRose
	LabelSize float64
}

// GeoPoints returns every geographic position in the layers, for bounding.
func (l Layers) GeoPoints() []geo.GeoPoint {
	var out []geo.GeoPoint
	add := func(p geo.Position) {
		if g, ok := p.(geo.GeoPoint); ok {
			out = append(out, g)
		}
	}
	for _, t := range l.Trails {
		for _, p := range t.Points {
			add(p)
		}
	}
	for _, m := range l.Markers {
		add(m.At)
	}
	return out
}

// MapRenderer turns layers into primitives through a frame
type MapRenderer struct {
	frame   *geo.Frame
	layers  Layers
	measure Measure
}

// NewMapRenderer creates a new map renderer. A nil measure falls back to
// ApproxMeasure.
func NewMapRenderer(frame *geo.Frame, layers Layers, measure Measure) *MapRenderer {
	if measure == nil {
		measure = ApproxMeasure
	}
	return &MapRenderer{frame: frame, layers: layers, measure: measure}
}

// Frame returns the renderer's frame.
func (m *MapRenderer) Frame() *geo.Frame { return m.frame }

// Layers returns the renderer's layers.
func (m *MapRenderer) Layers() Layers { return m.layers }

// UpdateFrame updates the renderer's frame
func (m *MapRenderer) UpdateFrame(frame *geo.Frame) {
	m.frame = frame
}

// RenderMap draws every layer to s.
func (m *MapRenderer) RenderMap(s Sink) error {
	prims, err := m.Primitives()
	if err != nil {
		return err
	}
	DrawAll(s, prims)
	return nil
}

// Primitives lays out every layer in drawing order: trails, markers and
// their labels, scale bars, then the compass rose on top.
func (m *MapRenderer) Primitives() ([]Primitive, error) {
	var prims []Primitive

	trails, err := m.renderTrails()
	if err != nil {
		return nil, err
	}
	prims = append(prims, trails...)

	markers, err := m.renderMarkers()
	if err != nil {
		return nil, err
	}
	prims = append(prims, markers...)

	for i, spec := range m.layers.Scales {
		layout, err := NewScaleLayout(m.frame, spec, m.measure)
		if err != nil {
			return nil, fmt.Errorf("scale bar %d: %w", i, err)
		}
		p, err := layout.Display()
		if err != nil {
			return nil, fmt.Errorf("scale bar %d: %w", i, err)
		}
		prims = append(prims, p...)
	}

	if m.layers.Compass != nil {
		p, err := m.layers.Compass.Display(m.frame)
		if err != nil {
			return nil, err
		}
		prims = append(prims, p...)
	}
	return prims, nil
}

func (m *MapRenderer) renderTrails() ([]Primitive, error) {
	var prims []Primitive
	for _, t := range m.layers.Trails {
		if len(t.Points) == 0 {
			continue
		}
		width := t.Width
		if width == 0 {
			width = 2
		}
		pen, err := NewPen(m.frame, t.Points[0])
		if err != nil {
			return nil, fmt.Errorf("trail %q: %w", t.Name, err)
		}
		pen = pen.WithStyle(t.Color, width)
		for _, p := range t.Points[1:] {
			var l Line
			pen, l, err = pen.LineTo(p)
			if err != nil {
				return nil, fmt.Errorf("trail %q: %w", t.Name, err)
			}
			prims = append(prims, l)
		}
		if debug.Enabled() {
			debug.Log("trail laid out", "name", t.Name, "points", len(t.Points))
		}
	}
	return prims, nil
}

type box struct {
	minX, minY, maxX, maxY float64
}

func (b box) overlaps(o box) bool {
	return b.minX < o.maxX && o.minX < b.maxX && b.minY < o.maxY && o.minY < b.maxY
}

// renderMarkers draws every marker, then labels them in order, skipping a
// label that would run off the canvas or overlap a marker or an earlier label.
func (m *MapRenderer) renderMarkers() ([]Primitive, error) {
	size := m.layers.LabelSize
	if size == 0 {
		size = defaultFontSize
	}
	width, height := m.frame.Size()

	type placedMarker struct {
		Marker
		pos geo.PixelPoint
		r   float64
	}
	markers := make([]placedMarker, 0, len(m.layers.Markers))
	var prims []Primitive
	for _, mk := range m.layers.Markers {
		p, err := m.frame.Resolve(mk.At)
		if err != nil {
			return nil, fmt.Errorf("marker %q: %w", mk.Name, err)
		}
		r := mk.Radius
		if r == 0 {
			r = defaultMarkerRadius
		}
		markers = append(markers, placedMarker{Marker: mk, pos: p, r: r})
		prims = append(prims, Circle{Center: p, Radius: r, Color: mk.Color, Width: 1, Fill: mk.Fill})
	}

	dots := make([]box, len(markers))
	for i, mk := range markers {
		dots[i] = box{mk.pos.X - mk.r, mk.pos.Y - mk.r, mk.pos.X + mk.r, mk.pos.Y + mk.r}
	}

	var labels []box
	for i, mk := range markers {
		if mk.Name == "" {
			continue
		}
		x := mk.pos.X + mk.r + labelGap
		lb := box{x, mk.pos.Y - size/2, x + m.measure(mk.Name, size), mk.pos.Y + size/2}

		skip := lb.minX < 0 || lb.minY < 0 || lb.maxX > width || lb.maxY > height
		for j, d := range dots {
			if j != i && lb.overlaps(d) {
				skip = true
				break
			}
		}
		for _, other := range labels {
			if skip {
				break
			}
			skip = lb.overlaps(other)
		}
		if skip {
			if debug.Enabled() {
				debug.Log("marker label skipped", "name", mk.Name, "x", mk.pos.X, "y", mk.pos.Y)
			}
			continue
		}
		labels = append(labels, lb)
		prims = append(prims, Text{
			At:      geo.PixelPoint{X: x, Y: mk.pos.Y},
			Text:    mk.Name,
			Size:    size,
			Color:   mk.Color,
			AnchorX: 0,
			AnchorY: 0.5,
		})
	}
	return prims, nil
}
