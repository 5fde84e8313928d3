package config

import (
	"fmt"
	"math"

	"mapoverlay/internal/debug"
	"mapoverlay/internal/geo"
	"mapoverlay/internal/render"

	"github.com/lucasb-eyer/go-colorful"
)

func (p LatLong) point() geo.GeoPoint { return geo.GeoPoint{Lat: p.Lat, Long: p.Long} }

func (p PositionConfig) set() bool { return p.Geo != nil || p.Ground != nil || p.Pixel != nil }

// Spec converts p to the geo package's optional-field form.
func (p PositionConfig) Spec() geo.PositionSpec {
	var s geo.PositionSpec
	if p.Geo != nil {
		g := p.Geo.point()
		s.Geo = &g
	}
	if p.Ground != nil {
		s.Ground = &geo.GroundPoint{X: p.Ground.X, Y: p.Ground.Y}
	}
	if p.Pixel != nil {
		s.Pixel = &geo.PixelPoint{X: p.Pixel.X, Y: p.Pixel.Y}
	}
	return s
}

// Position returns the single position p names.
func (p PositionConfig) Position() (geo.Position, error) {
	return p.Spec().Position()
}

// Background returns the output background colour.
func (c *Config) Background() colorful.Color {
	bg, _ := render.ParseColor(c.Output.Background, render.ColorPaper)
	return bg
}

// Layers converts the configured points, trails, scales and compass.
func (c *Config) Layers() (render.Layers, error) {
	layers := render.Layers{LabelSize: c.Output.LabelSize}

	for i, t := range c.Trails {
		trail := render.Trail{Name: t.Name, Width: t.Width}
		var err error
		if trail.Color, err = render.ParseColor(t.Color, render.ColorTrail); err != nil {
			return layers, fmt.Errorf("trails[%d]: %w", i, err)
		}
		for j, p := range t.Points {
			pos, err := p.Position()
			if err != nil {
				return layers, fmt.Errorf("trails[%d].points[%d]: %w", i, j, err)
			}
			trail.Points = append(trail.Points, pos)
		}
		layers.Trails = append(layers.Trails, trail)
	}

	for i, p := range c.Points {
		pos, err := p.Position()
		if err != nil {
			return layers, fmt.Errorf("points[%d]: %w", i, err)
		}
		col, err := render.ParseColor(p.Color, render.ColorMarker)
		if err != nil {
			return layers, fmt.Errorf("points[%d]: %w", i, err)
		}
		layers.Markers = append(layers.Markers, render.Marker{
			Name:   p.Name,
			At:     pos,
			Radius: p.Radius,
			Color:  col,
			Fill:   p.Fill,
		})
	}

	for i, s := range c.Scales {
		spec, err := c.scaleSpec(s)
		if err != nil {
			return layers, fmt.Errorf("scales[%d]: %w", i, err)
		}
		layers.Scales = append(layers.Scales, spec)
	}

	if c.Compass.Enabled {
		rose, err := c.compass()
		if err != nil {
			return layers, fmt.Errorf("compass: %w", err)
		}
		layers.Compass = &rose
	}
	return layers, nil
}

func (c *Config) scaleSpec(s ScaleConfig) (render.ScaleSpec, error) {
	start, err := s.Start.Position()
	if err != nil {
		return render.ScaleSpec{}, fmt.Errorf("start: %w", err)
	}
	spec := render.ScaleSpec{
		Start:      start,
		Length:     s.Length,
		Bearing:    s.Bearing,
		Marks:      s.Marks,
		BigMarks:   s.BigMarks,
		Unit:       geo.Unit(s.Unit),
		TicDir:     s.TicDir,
		TickLength: s.TickLength,
		FontSize:   s.FontSize,
		Width:      s.Width,
	}
	if spec.Unit == "" {
		spec.Unit = geo.Unit(c.Map.Unit)
	}
	if s.End != nil {
		if spec.End, err = s.End.Position(); err != nil {
			return spec, fmt.Errorf("end: %w", err)
		}
	}
	if spec.Color, err = render.ParseColor(s.Color, render.ColorScaleBar); err != nil {
		return spec, err
	}
	return spec, nil
}

func (c *Config) compass() (render.CompassRose, error) {
	rose := render.CompassRose{
		Radius:   c.Compass.Radius,
		FontSize: c.Compass.FontSize,
	}
	if c.Compass.Center.set() {
		center, err := c.Compass.Center.Position()
		if err != nil {
			return rose, err
		}
		rose.Center = center
	}
	var err error
	rose.Color, err = render.ParseColor(c.Compass.Color, render.ColorCompass)
	return rose, err
}

// Frame builds the map frame. Without explicit corners the frame is bounded
// around the geographic positions in layers.
func (c *Config) Frame(layers render.Layers) (*geo.Frame, error) {
	m := c.Map
	fc := geo.FrameConfig{
		Width:  m.Width,
		Height: m.Height,
		Unit:   geo.Unit(m.Unit),
	}
	if !m.Expand {
		fc.Rotation = m.Rotation
	}

	switch {
	case m.Corners != nil:
		fc.Geo = &geo.GeoRect{UL: m.Corners.UL.point(), LR: m.Corners.LR.point()}
	case m.Ground != nil:
		fc.Ground = &geo.GroundRect{
			UL:     geo.GroundPoint{X: m.Ground.UL.X, Y: m.Ground.UL.Y},
			LR:     geo.GroundPoint{X: m.Ground.LR.X, Y: m.Ground.LR.Y},
			Anchor: m.Ground.Anchor.point(),
		}
	case m.Extent != nil:
		unit := geo.Unit(m.Extent.Unit)
		if unit == "" {
			unit = fc.Unit
		}
		fc.Extent = &geo.Extent{
			Anchor:      m.Extent.Anchor.point(),
			Width:       m.Extent.Width,
			Height:      m.Extent.Height,
			Unit:        unit,
			OffsetEast:  m.Extent.OffsetEast,
			OffsetSouth: m.Extent.OffsetSouth,
		}
	default:
		growth := m.Growth
		if growth == 0 {
			growth = math.Max(geo.DefaultGrowth, geo.RequiredGrowth(fc.Rotation, m.Width, m.Height))
		}
		calc := geo.BoundsCalculator{Growth: growth, Width: m.Width, Height: m.Height}
		border := geo.BorderSpec{Meters: m.Border.Meters, Degrees: m.Border.Degrees, Pixels: m.Border.Pixels}
		ul, lr, err := calc.Bound(layers.GeoPoints(), fc.Rotation, border)
		if err != nil {
			return nil, fmt.Errorf("bound points: %w", err)
		}
		fc.Geo = &geo.GeoRect{UL: ul, LR: lr}
	}

	f, err := geo.NewFrame(fc)
	if err != nil {
		return nil, err
	}
	if m.Expand && m.Rotation != 0 {
		f = f.Rotate(m.Rotation, true)
	}
	if r := m.Crop; r != nil {
		f, err = f.Crop(geo.PixelRect{
			Min: geo.PixelPoint{X: r.MinX, Y: r.MinY},
			Max: geo.PixelPoint{X: r.MaxX, Y: r.MaxY},
		})
		if err != nil {
			return nil, fmt.Errorf("crop: %w", err)
		}
	}

	c0 := f.Corners()
	w, h := f.PixelSize()
	debug.Log("frame built", "ul", c0.UL, "lr", c0.LR, "width", w, "height", h, "rotation", f.Rotation())
	return f, nil
}
