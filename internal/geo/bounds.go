package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

const (
	// DefaultGrowth scales the rotation enlargement beyond the plain
	// half-range·sin(θ) growth.
	DefaultGrowth = 1.2

	// DefaultEpsilon pushes every bound outward so edge points stay inside.
	DefaultEpsilon = 1e-9
)

// BorderSpec is an extra margin around computed bounds. At most one field
// may be non-zero.
type BorderSpec struct {
	Meters  float64
	Degrees float64
	Pixels  float64
}

func (b BorderSpec) validate() error {
	set := 0
	for _, v := range []float64{b.Meters, b.Degrees, b.Pixels} {
		if v < 0 {
			return fmt.Errorf("%w: negative border %g", ErrInvalidConfiguration, v)
		}
		if v != 0 {
			set++
		}
	}
	if set > 1 {
		return fmt.Errorf("%w: meters=%g degrees=%g pixels=%g", ErrAmbiguousUnit, b.Meters, b.Degrees, b.Pixels)
	}
	return nil
}

// BoundsCalculator finds a geographic rectangle that keeps a set of points on
// the canvas once the map is rotated.
type BoundsCalculator struct {
	Growth  float64 // DefaultGrowth when zero
	Epsilon float64 // DefaultEpsilon when zero

	// Canvas size, needed only for pixel borders.
	Width  int
	Height int
}

// Bound computes bounds with the default calculator.
func Bound(points []GeoPoint, rotation float64, border BorderSpec) (ul, lr GeoPoint, err error) {
	return BoundsCalculator{}.Bound(points, rotation, border)
}

// Bound returns the upper-left and lower-right corners of a rectangle that
// contains every point after the map is rotated by rotation degrees and
// drawn through a frame built from the rectangle.
func (c BoundsCalculator) Bound(points []GeoPoint, rotation float64, border BorderSpec) (ul, lr GeoPoint, err error) {
	if len(points) == 0 {
		return GeoPoint{}, GeoPoint{}, fmt.Errorf("%w: no points to bound", ErrInvalidConfiguration)
	}
	if err := border.validate(); err != nil {
		return GeoPoint{}, GeoPoint{}, err
	}
	growth := c.Growth
	if growth == 0 {
		growth = DefaultGrowth
	}
	eps := c.Epsilon
	if eps == 0 {
		eps = DefaultEpsilon
	}

	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = orb.Point{p.Long, p.Lat}
	}
	b := mp.Bound()
	minLong, minLat := b.Min.X(), b.Min.Y()
	maxLong, maxLat := b.Max.X(), b.Max.Y()

	if rotation != 0 {
		s := math.Abs(math.Sin(radians(rotation)))
		latChg := growth * (maxLat - minLat) / 2 * s
		longChg := growth * (maxLong - minLong) / 2 * s
		maxLat += latChg
		minLat -= latChg
		maxLong += longChg
		minLong -= longChg
	}

	maxLat += eps
	minLat -= eps
	maxLong += eps
	minLong -= eps

	ul = GeoPoint{Lat: maxLat, Long: minLong}
	lr = GeoPoint{Lat: minLat, Long: maxLong}

	switch {
	case border.Degrees != 0:
		ul = GeoPoint{Lat: ul.Lat + border.Degrees, Long: ul.Long - border.Degrees}
		lr = GeoPoint{Lat: lr.Lat - border.Degrees, Long: lr.Long + border.Degrees}
	case border.Meters != 0:
		ul = Move(ul, -border.Meters, -border.Meters)
		lr = Move(lr, border.Meters, border.Meters)
	case border.Pixels != 0:
		ul, lr, err = c.pixelBorder(ul, lr, border.Pixels)
		if err != nil {
			return GeoPoint{}, GeoPoint{}, err
		}
	}
	return ul, lr, nil
}

// pixelBorder widens the rectangle so that, drawn on a Width x Height
// canvas, the original rectangle sits px pixels in from every edge.
func (c BoundsCalculator) pixelBorder(ul, lr GeoPoint, px float64) (GeoPoint, GeoPoint, error) {
	w, h := float64(c.Width), float64(c.Height)
	if w <= 2*px || h <= 2*px {
		return GeoPoint{}, GeoPoint{}, fmt.Errorf("%w: pixel border %g needs a canvas larger than %dx%d",
			ErrInvalidConfiguration, px, c.Width, c.Height)
	}
	dLong := (lr.Long - ul.Long) * px / (w - 2*px)
	dLat := (ul.Lat - lr.Lat) * px / (h - 2*px)
	return GeoPoint{Lat: ul.Lat + dLat, Long: ul.Long - dLong},
		GeoPoint{Lat: lr.Lat - dLat, Long: lr.Long + dLong}, nil
}

// RequiredGrowth returns the smallest growth factor that keeps rotated
// content on a width x height canvas. Square canvases never need more
// than DefaultGrowth; wide or tall canvases can.
func RequiredGrowth(rotation float64, width, height int) float64 {
	rad := radians(rotation)
	s, c := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	if s < 1e-12 || width <= 0 || height <= 0 {
		return 0
	}
	w, h := float64(width), float64(height)
	kx := h/w - (1-c)/s
	ky := w/h - (1-c)/s
	return math.Max(0, math.Max(kx, ky))
}
