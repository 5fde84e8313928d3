package geo

import "fmt"

// GeoPoint is a geographic coordinate in degrees on a spherical Earth.
// Range checking is left to callers.
type GeoPoint struct {
	Lat  float64
	Long float64
}

// GroundPoint is a ground-distance coordinate in meters.
// X grows east; Y grows toward the lower-right corner of the map (south)
// so that it follows pixel row order.
type GroundPoint struct {
	X float64
	Y float64
}

// PixelPoint is a canvas coordinate with (0, 0) at top-left and y growing down.
// Values are kept unrounded until rasterization.
type PixelPoint struct {
	X float64
	Y float64
}

// Position is one of PixelPoint, GroundPoint or GeoPoint.
type Position interface {
	isPosition()
}

func (GeoPoint) isPosition()    {}
func (GroundPoint) isPosition() {}
func (PixelPoint) isPosition()  {}

func (p GeoPoint) String() string    { return fmt.Sprintf("(%.6f, %.6f)", p.Lat, p.Long) }
func (p GroundPoint) String() string { return fmt.Sprintf("(%.2fm, %.2fm)", p.X, p.Y) }
func (p PixelPoint) String() string  { return fmt.Sprintf("(%.1fpx, %.1fpx)", p.X, p.Y) }

// PositionSpec is the optional-field form of a Position, as it arrives from
// configuration. Exactly one field must be set.
type PositionSpec struct {
	Pixel  *PixelPoint
	Ground *GroundPoint
	Geo    *GeoPoint
}

// Position validates the spec and returns the single position it names.
func (s PositionSpec) Position() (Position, error) {
	var (
		pos   Position
		count int
	)
	if s.Pixel != nil {
		pos = *s.Pixel
		count++
	}
	if s.Ground != nil {
		pos = *s.Ground
		count++
	}
	if s.Geo != nil {
		pos = *s.Geo
		count++
	}
	switch {
	case count == 0:
		return nil, ErrMissingPosition
	case count > 1:
		return nil, fmt.Errorf("%w: %d positions given", ErrAmbiguousPosition, count)
	}
	return pos, nil
}

// GeoRect is a geographic rectangle given by its upper-left and lower-right corners.
type GeoRect struct {
	UL GeoPoint
	LR GeoPoint
}

// Contains reports whether p lies inside the rectangle, edges included.
func (r GeoRect) Contains(p GeoPoint) bool {
	minLat, maxLat := r.LR.Lat, r.UL.Lat
	if minLat > maxLat {
		minLat, maxLat = maxLat, minLat
	}
	minLong, maxLong := r.UL.Long, r.LR.Long
	if minLong > maxLong {
		minLong, maxLong = maxLong, minLong
	}
	return p.Lat >= minLat && p.Lat <= maxLat &&
		p.Long >= minLong && p.Long <= maxLong
}

// GroundRect is a ground-distance rectangle. Anchor is the geographic
// location of the UL corner.
type GroundRect struct {
	UL     GroundPoint
	LR     GroundPoint
	Anchor GeoPoint
}

// Extent describes a map by a geographic anchor and its physical size.
// The anchor sits at the canvas centre shifted by OffsetEast/OffsetSouth,
// all lengths in Unit.
type Extent struct {
	Anchor      GeoPoint
	Width       float64
	Height      float64
	Unit        Unit
	OffsetEast  float64
	OffsetSouth float64
}

// PixelRect is a pixel-space box, Min inclusive and Max exclusive.
type PixelRect struct {
	Min PixelPoint
	Max PixelPoint
}

// Dx returns the box width.
func (r PixelRect) Dx() float64 { return r.Max.X - r.Min.X }

// Dy returns the box height.
func (r PixelRect) Dy() float64 { return r.Max.Y - r.Min.Y }

// Empty reports whether the box has no area.
func (r PixelRect) Empty() bool { return r.Dx() <= 0 || r.Dy() <= 0 }
