package geo

import (
	"fmt"
	"math"
)

// FrameConfig selects how a Frame is built. Exactly one of Geo, Ground and
// Extent must be set.
type FrameConfig struct {
	Geo    *GeoRect
	Ground *GroundRect
	Extent *Extent

	Width    int     // canvas width in pixels
	Height   int     // canvas height in pixels
	Rotation float64 // degrees counter-clockwise, applied about the canvas centre
	Unit     Unit    // default linear unit, meters when empty
}

// TransformKind identifies an entry in a frame's transform history.
type TransformKind int

const (
	TransformRotate TransformKind = iota
	TransformCrop
)

// String returns a string representation of the transform kind
func (k TransformKind) String() string {
	switch k {
	case TransformRotate:
		return "rotate"
	case TransformCrop:
		return "crop"
	default:
		return "unknown"
	}
}

// Transform records one Rotate or Crop applied to derive a frame.
type Transform struct {
	Kind   TransformKind
	Delta  float64   // rotate only
	Expand bool      // rotate only
	Box    PixelRect // crop only
}

// Frame maps between geographic, ground-distance and pixel coordinates for
// one map canvas.
//
// The geographic corners always describe the unrotated content. Pixel
// positions are found by linear interpolation inside those corners and then
// rotated about the content centre, so the x and y scales are independent and
// pixels need not be square. A Frame is immutable: Rotate and Crop return new
// frames and leave the receiver untouched.
type Frame struct {
	corners  GeoRect
	groundUL GroundPoint
	groundLR GroundPoint

	// content size: the pixel rectangle the corners map onto before rotation
	baseW float64
	baseH float64

	// canvas size: equal to the content size unless an expanding rotation grew it
	width  float64
	height float64

	rotation float64
	unit     Unit

	history []Transform
}

// NewFrame builds a frame from cfg.
func NewFrame(cfg FrameConfig) (*Frame, error) {
	modes := 0
	for _, set := range []bool{cfg.Geo != nil, cfg.Ground != nil, cfg.Extent != nil} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		return nil, fmt.Errorf("%w: exactly one of geo corners, ground corners or extent is required, got %d",
			ErrInvalidConfiguration, modes)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: canvas size %dx%d", ErrInvalidConfiguration, cfg.Width, cfg.Height)
	}
	unit := cfg.Unit
	if unit == "" {
		unit = Meters
	}
	if _, err := unit.Meters(); err != nil {
		return nil, err
	}

	w, h := float64(cfg.Width), float64(cfg.Height)
	var (
		f   *Frame
		err error
	)
	switch {
	case cfg.Geo != nil:
		f, err = newGeoFrame(*cfg.Geo, w, h, unit)
	case cfg.Ground != nil:
		f, err = newGroundFrame(*cfg.Ground, w, h, unit)
	default:
		f, err = newExtentFrame(*cfg.Extent, w, h, unit)
	}
	if err != nil {
		return nil, err
	}
	f.rotation = normalizeDegrees(cfg.Rotation)
	return f, nil
}

// newGeoFrame derives ground corners from the geographic corners with an
// equirectangular approximation scaled by the cosine of the mean latitude.
func newGeoFrame(r GeoRect, w, h float64, unit Unit) (*Frame, error) {
	if r.UL.Lat == r.LR.Lat || r.UL.Long == r.LR.Long {
		return nil, fmt.Errorf("%w: degenerate corners %v %v", ErrInvalidConfiguration, r.UL, r.LR)
	}
	latAvg := radians((r.UL.Lat + r.LR.Lat) / 2)
	return &Frame{
		corners:  r,
		groundUL: GroundPoint{},
		groundLR: GroundPoint{
			X: math.Cos(latAvg) * (r.LR.Long - r.UL.Long) / 360 * EquatorCircumference,
			Y: (r.UL.Lat - r.LR.Lat) / 360 * EquatorCircumference,
		},
		baseW:  w,
		baseH:  h,
		width:  w,
		height: h,
		unit:   unit,
	}, nil
}

// newGroundFrame keeps the ground corners as given and places the geographic
// corners by inverting the equirectangular approximation from the anchor.
func newGroundFrame(g GroundRect, w, h float64, unit Unit) (*Frame, error) {
	dx := g.LR.X - g.UL.X
	dy := g.LR.Y - g.UL.Y
	if dx == 0 || dy == 0 {
		return nil, fmt.Errorf("%w: degenerate ground corners %v %v", ErrInvalidConfiguration, g.UL, g.LR)
	}
	lrLat := g.Anchor.Lat - dy/EquatorCircumference*360
	latAvg := radians((g.Anchor.Lat + lrLat) / 2)
	lrLong := g.Anchor.Long + dx/(EquatorCircumference*math.Cos(latAvg))*360

	return &Frame{
		corners:  GeoRect{UL: g.Anchor, LR: GeoPoint{Lat: lrLat, Long: lrLong}},
		groundUL: g.UL,
		groundLR: g.LR,
		baseW:    w,
		baseH:    h,
		width:    w,
		height:   h,
		unit:     unit,
	}, nil
}

// newExtentFrame centres a map of the given physical size on the anchor,
// less its offset, and hands the corners to newGeoFrame.
func newExtentFrame(e Extent, w, h float64, unit Unit) (*Frame, error) {
	eu := e.Unit
	if eu == "" {
		eu = unit
	}
	m, err := eu.Meters()
	if err != nil {
		return nil, err
	}
	if e.Width <= 0 || e.Height <= 0 {
		return nil, fmt.Errorf("%w: extent %gx%g %s", ErrInvalidConfiguration, e.Width, e.Height, eu)
	}

	metersPerDegLat := EquatorCircumference / 360
	centre := GeoPoint{Lat: e.Anchor.Lat + e.OffsetSouth*m/metersPerDegLat}
	centre.Long = e.Anchor.Long - e.OffsetEast*m/(metersPerDegLat*math.Cos(radians(centre.Lat)))

	halfLat := e.Height * m / 2 / metersPerDegLat
	halfLong := e.Width * m / 2 / (metersPerDegLat * math.Cos(radians(centre.Lat)))

	return newGeoFrame(GeoRect{
		UL: GeoPoint{Lat: centre.Lat + halfLat, Long: centre.Long - halfLong},
		LR: GeoPoint{Lat: centre.Lat - halfLat, Long: centre.Long + halfLong},
	}, w, h, unit)
}

// Corners returns the geographic corners of the unrotated content.
func (f *Frame) Corners() GeoRect { return f.corners }

// GroundCorners returns the ground-distance corners of the unrotated content.
func (f *Frame) GroundCorners() (ul, lr GroundPoint) { return f.groundUL, f.groundLR }

// Size returns the canvas size in pixels.
func (f *Frame) Size() (width, height float64) { return f.width, f.height }

// PixelSize returns the canvas size rounded to whole pixels.
func (f *Frame) PixelSize() (width, height int) {
	return int(math.Round(f.width)), int(math.Round(f.height))
}

// ContentSize returns the size of the unrotated content in pixels.
func (f *Frame) ContentSize() (width, height float64) { return f.baseW, f.baseH }

// Rotation returns the map rotation in degrees counter-clockwise, in [0, 360).
func (f *Frame) Rotation() float64 { return f.rotation }

// Unit returns the frame's default linear unit.
func (f *Frame) Unit() Unit { return f.unit }

// Transforms returns the rotate and crop operations that produced the frame,
// oldest first.
func (f *Frame) Transforms() []Transform {
	out := make([]Transform, len(f.history))
	copy(out, f.history)
	return out
}

// Contains reports whether p lies on the canvas.
func (f *Frame) Contains(p PixelPoint) bool {
	return p.X >= 0 && p.X <= f.width && p.Y >= 0 && p.Y <= f.height
}

// GeoToPixel converts a geographic point to canvas pixels.
func (f *Frame) GeoToPixel(p GeoPoint) PixelPoint {
	fx := (p.Long - f.corners.UL.Long) / (f.corners.LR.Long - f.corners.UL.Long)
	fy := (p.Lat - f.corners.UL.Lat) / (f.corners.LR.Lat - f.corners.UL.Lat)
	return f.contentToCanvas(PixelPoint{X: fx * f.baseW, Y: fy * f.baseH})
}

// PixelToGeo is the inverse of GeoToPixel.
func (f *Frame) PixelToGeo(p PixelPoint) GeoPoint {
	c := f.canvasToContent(p)
	return GeoPoint{
		Lat:  f.corners.UL.Lat + c.Y/f.baseH*(f.corners.LR.Lat-f.corners.UL.Lat),
		Long: f.corners.UL.Long + c.X/f.baseW*(f.corners.LR.Long-f.corners.UL.Long),
	}
}

// GroundToPixel converts a ground point to canvas pixels.
func (f *Frame) GroundToPixel(g GroundPoint) PixelPoint {
	fx := (g.X - f.groundUL.X) / (f.groundLR.X - f.groundUL.X)
	fy := (g.Y - f.groundUL.Y) / (f.groundLR.Y - f.groundUL.Y)
	return f.contentToCanvas(PixelPoint{X: fx * f.baseW, Y: fy * f.baseH})
}

// PixelToGround is the inverse of GroundToPixel.
func (f *Frame) PixelToGround(p PixelPoint) GroundPoint {
	c := f.canvasToContent(p)
	return GroundPoint{
		X: f.groundUL.X + c.X/f.baseW*(f.groundLR.X-f.groundUL.X),
		Y: f.groundUL.Y + c.Y/f.baseH*(f.groundLR.Y-f.groundUL.Y),
	}
}

// GeoToGround converts a geographic point to ground meters.
func (f *Frame) GeoToGround(p GeoPoint) GroundPoint { return f.PixelToGround(f.GeoToPixel(p)) }

// GroundToGeo converts ground meters to a geographic point.
func (f *Frame) GroundToGeo(g GroundPoint) GeoPoint { return f.PixelToGeo(f.GroundToPixel(g)) }

// Resolve returns the canvas pixel for any kind of position.
func (f *Frame) Resolve(pos Position) (PixelPoint, error) {
	switch p := pos.(type) {
	case PixelPoint:
		return p, nil
	case GroundPoint:
		return f.GroundToPixel(p), nil
	case GeoPoint:
		return f.GeoToPixel(p), nil
	case nil:
		return PixelPoint{}, ErrMissingPosition
	}
	return PixelPoint{}, fmt.Errorf("%w: unsupported position %T", ErrInvalidConfiguration, pos)
}

// ResolveGeo returns the geographic point for any kind of position.
func (f *Frame) ResolveGeo(pos Position) (GeoPoint, error) {
	if g, ok := pos.(GeoPoint); ok {
		return g, nil
	}
	p, err := f.Resolve(pos)
	if err != nil {
		return GeoPoint{}, err
	}
	return f.PixelToGeo(p), nil
}

// metersPerPixel averages the x and y scales of the content.
func (f *Frame) metersPerPixel() float64 {
	x := math.Abs(f.groundLR.X-f.groundUL.X) / f.baseW
	y := math.Abs(f.groundLR.Y-f.groundUL.Y) / f.baseH
	return (x + y) / 2
}

// MetersToPixel converts a ground length to pixels with the averaged scale.
// The result is only exact when the x and y scales agree.
func (f *Frame) MetersToPixel(m float64) float64 { return m / f.metersPerPixel() }

// PixelToMeters is the inverse of MetersToPixel.
func (f *Frame) PixelToMeters(px float64) float64 { return px * f.metersPerPixel() }

// AddToPoint moves origin by length units along bearing, in degrees
// counter-clockwise from east on the unrotated map. The frame rotation is
// added so the result lands where the geography is drawn.
func (f *Frame) AddToPoint(origin PixelPoint, length float64, unit Unit, bearing float64) (PixelPoint, error) {
	if unit == "" {
		unit = f.unit
	}
	m, err := unit.Meters()
	if err != nil {
		return PixelPoint{}, err
	}
	if length == 0 {
		return origin, nil
	}
	px := f.MetersToPixel(length * m)
	b := radians(bearing + f.rotation)
	return PixelPoint{
		X: origin.X + px*math.Cos(b),
		Y: origin.Y - px*math.Sin(b),
	}, nil
}

// AddToPointGeo moves a geographic origin by length units along bearing
// using spherical geodesy rather than the pixel scale.
func (f *Frame) AddToPointGeo(origin GeoPoint, length float64, unit Unit, bearing float64) (GeoPoint, error) {
	if unit == "" {
		unit = f.unit
	}
	m, err := unit.Meters()
	if err != nil {
		return GeoPoint{}, err
	}
	return Project(origin, length*m, bearing), nil
}

// Rotate returns a frame rotated by a further delta degrees counter-clockwise.
// With expand the canvas grows (or shrinks) to the bounding box of the
// rotated content; otherwise the canvas keeps its size and corners are cut.
// The geographic corners keep describing the unrotated content.
func (f *Frame) Rotate(delta float64, expand bool) *Frame {
	nf := f.clone()
	nf.rotation = normalizeDegrees(f.rotation + delta)
	if expand {
		rad := radians(nf.rotation)
		c, s := math.Abs(math.Cos(rad)), math.Abs(math.Sin(rad))
		nf.width = expandedSide(f.baseW*c + f.baseH*s)
		nf.height = expandedSide(f.baseW*s + f.baseH*c)
	}
	nf.history = append(nf.history, Transform{Kind: TransformRotate, Delta: delta, Expand: expand})
	return nf
}

// expandedSide rounds a rotated extent up to whole pixels, ignoring the
// floating-point dust left by right-angle rotations.
func expandedSide(v float64) float64 {
	return math.Ceil(v - 1e-6)
}

// Crop returns a frame for the sub-rectangle box of the canvas. The new
// geographic corners are the current geography under box's corners, and the
// rotation is folded into the new frame, which starts unrotated.
func (f *Frame) Crop(box PixelRect) (*Frame, error) {
	if box.Empty() {
		return nil, fmt.Errorf("%w: empty crop box %v-%v", ErrInvalidConfiguration, box.Min, box.Max)
	}
	ul := f.PixelToGeo(box.Min)
	lr := f.PixelToGeo(box.Max)
	nf, err := newGeoFrame(GeoRect{UL: ul, LR: lr}, box.Dx(), box.Dy(), f.unit)
	if err != nil {
		return nil, err
	}
	nf.history = append(f.Transforms(), Transform{Kind: TransformCrop, Box: box})
	return nf, nil
}

func (f *Frame) clone() *Frame {
	nf := *f
	nf.history = f.Transforms()
	return &nf
}

// contentToCanvas rotates a content pixel about the content centre and
// shifts it into the (possibly expanded) canvas.
func (f *Frame) contentToCanvas(p PixelPoint) PixelPoint {
	cx, cy := f.baseW/2, f.baseH/2
	if f.rotation != 0 {
		p = rotateAbout(p, cx, cy, -f.rotation)
	}
	return PixelPoint{
		X: p.X + (f.width-f.baseW)/2,
		Y: p.Y + (f.height-f.baseH)/2,
	}
}

func (f *Frame) canvasToContent(p PixelPoint) PixelPoint {
	p = PixelPoint{
		X: p.X - (f.width-f.baseW)/2,
		Y: p.Y - (f.height-f.baseH)/2,
	}
	if f.rotation != 0 {
		p = rotateAbout(p, f.baseW/2, f.baseH/2, f.rotation)
	}
	return p
}

// rotateAbout applies the standard rotation formula by deg about (cx, cy).
// With y pointing down a positive angle turns clockwise on screen.
func rotateAbout(p PixelPoint, cx, cy, deg float64) PixelPoint {
	rad := radians(deg)
	cos, sin := math.Cos(rad), math.Sin(rad)
	dx, dy := p.X-cx, p.Y-cy
	return PixelPoint{
		X: cx + cos*dx - sin*dy,
		Y: cy + sin*dx + cos*dy,
	}
}
