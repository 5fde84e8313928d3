package geo

import (
	"errors"
	"math"
	"testing"
)

var (
	testUL = GeoPoint{Lat: 42.38188, Long: -71.178746}
	testLR = GeoPoint{Lat: 42.373827, Long: -71.173339}
)

// newTestFrame returns the 640x640 frame over the test corners.
func newTestFrame(t *testing.T, rotation float64) *Frame {
	t.Helper()
	f, err := NewFrame(FrameConfig{
		Geo:      &GeoRect{UL: testUL, LR: testLR},
		Width:    640,
		Height:   640,
		Rotation: rotation,
	})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	return f
}

func closePixel(a, b PixelPoint, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

func closeGeo(a, b GeoPoint, tol float64) bool {
	return math.Abs(a.Lat-b.Lat) <= tol && math.Abs(a.Long-b.Long) <= tol
}

func TestFrameCornersMapToCanvasCorners(t *testing.T) {
	f := newTestFrame(t, 0)
	if got := f.GeoToPixel(testUL); !closePixel(got, PixelPoint{0, 0}, 1e-9) {
		t.Errorf("GeoToPixel(ul) = %v, want (0, 0)", got)
	}
	if got := f.GeoToPixel(testLR); !closePixel(got, PixelPoint{640, 640}, 1e-9) {
		t.Errorf("GeoToPixel(lr) = %v, want (640, 640)", got)
	}
}

func TestFrameGroundCorners(t *testing.T) {
	f := newTestFrame(t, 0)
	ul, lr := f.GroundCorners()
	if ul != (GroundPoint{}) {
		t.Errorf("ground ul = %v, want origin", ul)
	}
	latAvg := radians((testUL.Lat + testLR.Lat) / 2)
	wantX := math.Cos(latAvg) * (testLR.Long - testUL.Long) / 360 * EquatorCircumference
	wantY := (testUL.Lat - testLR.Lat) / 360 * EquatorCircumference
	if lr.X != wantX || lr.Y != wantY {
		t.Errorf("ground lr = %v, want (%v, %v)", lr, wantX, wantY)
	}
	// Roughly 445 m east-west and 896 m north-south: non-square pixels.
	if lr.X < 400 || lr.X > 500 || lr.Y < 850 || lr.Y > 950 {
		t.Errorf("ground lr = %v out of expected range", lr)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	samples := []GeoPoint{testUL, testLR}
	for i := 0; i <= 10; i++ {
		for j := 0; j <= 10; j++ {
			samples = append(samples, GeoPoint{
				Lat:  testUL.Lat + (testLR.Lat-testUL.Lat)*float64(i)/10,
				Long: testUL.Long + (testLR.Long-testUL.Long)*float64(j)/10,
			})
		}
	}

	for _, rot := range []float64{0, 1, 45, 90, 180, 269} {
		f := newTestFrame(t, rot)
		for _, p := range samples {
			if got := f.PixelToGeo(f.GeoToPixel(p)); !closeGeo(got, p, 1e-9) {
				t.Errorf("rotation %v: round trip of %v gave %v", rot, p, got)
			}
		}
		expanded := f.Rotate(17, true)
		for _, p := range samples {
			if got := expanded.PixelToGeo(expanded.GeoToPixel(p)); !closeGeo(got, p, 1e-9) {
				t.Errorf("rotation %v+17 expanded: round trip of %v gave %v", rot, p, got)
			}
		}
	}
}

func TestFrameGroundRoundTrip(t *testing.T) {
	f := newTestFrame(t, 45)
	for _, g := range []GroundPoint{{0, 0}, {100, 200}, {445, 896}, {-20, 37.5}} {
		if got := f.PixelToGround(f.GroundToPixel(g)); math.Abs(got.X-g.X) > 1e-6 || math.Abs(got.Y-g.Y) > 1e-6 {
			t.Errorf("ground round trip of %v gave %v", g, got)
		}
	}
	centre := GeoPoint{Lat: (testUL.Lat + testLR.Lat) / 2, Long: (testUL.Long + testLR.Long) / 2}
	if got := f.GroundToGeo(f.GeoToGround(centre)); !closeGeo(got, centre, 1e-9) {
		t.Errorf("geo->ground->geo of %v gave %v", centre, got)
	}
}

func TestFrameRotationMovesContentCounterClockwise(t *testing.T) {
	f := newTestFrame(t, 90)
	// East edge midpoint sits right of centre unrotated; after a 90 degree
	// counter-clockwise map rotation it must appear above the centre.
	eastMid := GeoPoint{Lat: (testUL.Lat + testLR.Lat) / 2, Long: testLR.Long}
	got := f.GeoToPixel(eastMid)
	if !closePixel(got, PixelPoint{320, 0}, 1e-6) {
		t.Errorf("east midpoint at 90 degrees = %v, want (320, 0)", got)
	}
}

func TestNewFrameModes(t *testing.T) {
	geoRect := &GeoRect{UL: testUL, LR: testLR}
	ground := &GroundRect{LR: GroundPoint{X: 400, Y: 300}, Anchor: testUL}
	extent := &Extent{Anchor: testUL, Width: 1, Height: 1, Unit: "m"}

	tests := []struct {
		name string
		cfg  FrameConfig
		err  error
	}{
		{"none", FrameConfig{Width: 10, Height: 10}, ErrInvalidConfiguration},
		{"geo and ground", FrameConfig{Geo: geoRect, Ground: ground, Width: 10, Height: 10}, ErrInvalidConfiguration},
		{"all three", FrameConfig{Geo: geoRect, Ground: ground, Extent: extent, Width: 10, Height: 10}, ErrInvalidConfiguration},
		{"zero size", FrameConfig{Geo: geoRect}, ErrInvalidConfiguration},
		{"bad unit", FrameConfig{Geo: geoRect, Width: 10, Height: 10, Unit: "parsec"}, ErrUnknownUnit},
		{"degenerate", FrameConfig{Geo: &GeoRect{UL: testUL, LR: testUL}, Width: 10, Height: 10}, ErrInvalidConfiguration},
		{"geo", FrameConfig{Geo: geoRect, Width: 10, Height: 10}, nil},
		{"ground", FrameConfig{Ground: ground, Width: 10, Height: 10}, nil},
		{"extent", FrameConfig{Extent: extent, Width: 10, Height: 10}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFrame(tt.cfg)
			if tt.err == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Fatalf("error = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestGroundFrame(t *testing.T) {
	f, err := NewFrame(FrameConfig{
		Ground: &GroundRect{UL: GroundPoint{X: 100, Y: 50}, LR: GroundPoint{X: 500, Y: 350}, Anchor: testUL},
		Width:  400,
		Height: 300,
	})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	if got := f.GroundToPixel(GroundPoint{X: 100, Y: 50}); !closePixel(got, PixelPoint{0, 0}, 1e-9) {
		t.Errorf("ground ul at %v", got)
	}
	if got := f.GroundToPixel(GroundPoint{X: 500, Y: 350}); !closePixel(got, PixelPoint{400, 300}, 1e-9) {
		t.Errorf("ground lr at %v", got)
	}
	if got := f.GeoToPixel(testUL); !closePixel(got, PixelPoint{0, 0}, 1e-9) {
		t.Errorf("anchor at %v, want (0, 0)", got)
	}
	// 400 m over 400 px and 300 m over 300 px: one meter per pixel.
	if got := f.MetersToPixel(10); math.Abs(got-10) > 1e-9 {
		t.Errorf("MetersToPixel(10) = %v, want 10", got)
	}
}

func TestExtentFrame(t *testing.T) {
	anchor := GeoPoint{Lat: 42.376, Long: -71.177}
	f, err := NewFrame(FrameConfig{
		Extent: &Extent{Anchor: anchor, Width: 1000, Height: 500, Unit: Feet},
		Width:  800,
		Height: 400,
	})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	if got := f.GeoToPixel(anchor); !closePixel(got, PixelPoint{400, 200}, 1e-6) {
		t.Errorf("anchor at %v, want canvas centre", got)
	}
	_, lr := f.GroundCorners()
	if math.Abs(lr.X-304.8) > 1e-6 || math.Abs(lr.Y-152.4) > 1e-6 {
		t.Errorf("ground lr = %v, want (304.8, 152.4)", lr)
	}

	shifted, err := NewFrame(FrameConfig{
		Extent: &Extent{Anchor: anchor, Width: 1000, Height: 500, Unit: Feet, OffsetEast: 100},
		Width:  800,
		Height: 400,
	})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	got := shifted.GeoToPixel(anchor)
	if math.Abs(got.X-480) > 1e-3 || math.Abs(got.Y-200) > 1e-3 {
		t.Errorf("offset anchor at %v, want (480, 200)", got)
	}
}

func TestMetersPixelInverse(t *testing.T) {
	f := newTestFrame(t, 0)
	for _, m := range []float64{0, 1, 12.5, 400} {
		if got := f.PixelToMeters(f.MetersToPixel(m)); math.Abs(got-m) > 1e-9 {
			t.Errorf("PixelToMeters(MetersToPixel(%v)) = %v", m, got)
		}
	}
	ul, lr := f.GroundCorners()
	want := ((lr.X-ul.X)/640 + (lr.Y-ul.Y)/640) / 2
	if got := f.PixelToMeters(1); math.Abs(got-want) > 1e-12 {
		t.Errorf("PixelToMeters(1) = %v, want average scale %v", got, want)
	}
}

func TestAddToPoint(t *testing.T) {
	f := newTestFrame(t, 0)
	origin := PixelPoint{X: 100, Y: 100}
	step := f.MetersToPixel(100)

	got, err := f.AddToPoint(origin, 100, Meters, 0)
	if err != nil {
		t.Fatalf("AddToPoint: %v", err)
	}
	if !closePixel(got, PixelPoint{100 + step, 100}, 1e-9) {
		t.Errorf("east: got %v", got)
	}

	got, _ = f.AddToPoint(origin, 100, Meters, 90)
	if !closePixel(got, PixelPoint{100, 100 - step}, 1e-9) {
		t.Errorf("north: got %v", got)
	}

	got, _ = f.AddToPoint(origin, 0, Meters, 33)
	if got != origin {
		t.Errorf("zero length moved to %v", got)
	}

	if _, err := f.AddToPoint(origin, 1, "km", 0); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("AddToPoint km error = %v, want ErrUnknownUnit", err)
	}
}

func TestAddToPointFollowsRotation(t *testing.T) {
	f := newTestFrame(t, 90)
	origin := PixelPoint{X: 320, Y: 320}
	got, err := f.AddToPoint(origin, 50, Meters, 0)
	if err != nil {
		t.Fatalf("AddToPoint: %v", err)
	}
	step := f.MetersToPixel(50)
	// East on the ground is drawn straight up once the map turns 90 degrees.
	if !closePixel(got, PixelPoint{320, 320 - step}, 1e-9) {
		t.Errorf("got %v, want (320, %v)", got, 320-step)
	}
}

func TestAddToPointGeo(t *testing.T) {
	f := newTestFrame(t, 0)
	origin := GeoPoint{Lat: 42.377, Long: -71.176}
	got, err := f.AddToPointGeo(origin, 100, Meters, 90)
	if err != nil {
		t.Fatalf("AddToPointGeo: %v", err)
	}
	if got.Lat <= origin.Lat {
		t.Errorf("bearing 90 should move north, got %v", got)
	}
	if d := Distance(origin, got); math.Abs(d-100) > 1e-6 {
		t.Errorf("moved %v m, want 100", d)
	}
	if _, err := f.AddToPointGeo(origin, 1, "km", 0); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("error = %v, want ErrUnknownUnit", err)
	}
}

func TestRotateReturnsNewFrame(t *testing.T) {
	f, err := NewFrame(FrameConfig{Geo: &GeoRect{UL: testUL, LR: testLR}, Width: 640, Height: 480})
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	r := f.Rotate(90, true)
	if f.Rotation() != 0 {
		t.Errorf("receiver rotation changed to %v", f.Rotation())
	}
	if w, h := f.Size(); w != 640 || h != 480 {
		t.Errorf("receiver size changed to %vx%v", w, h)
	}
	if w, h := r.Size(); w != 480 || h != 640 {
		t.Errorf("expanded size = %vx%v, want 480x640", w, h)
	}
	if r.Corners() != f.Corners() {
		t.Errorf("corners changed on rotate: %v", r.Corners())
	}

	r45 := f.Rotate(45, true)
	w, h := r45.PixelSize()
	wantW := int(math.Ceil((640 + 480) * math.Sqrt2 / 2))
	if w != wantW || h != wantW {
		t.Errorf("45 degree expanded size = %dx%d, want %dx%d", w, h, wantW, wantW)
	}

	kept := f.Rotate(30, false)
	if w, h := kept.Size(); w != 640 || h != 480 {
		t.Errorf("non-expanding rotate resized to %vx%v", w, h)
	}

	back := f.Rotate(-90, false)
	if back.Rotation() != 270 {
		t.Errorf("Rotate(-90) rotation = %v, want 270", back.Rotation())
	}
	if full := f.Rotate(200, false).Rotate(160, false); full.Rotation() != 0 {
		t.Errorf("full turn rotation = %v, want 0", full.Rotation())
	}

	hist := r.Transforms()
	if len(hist) != 1 || hist[0].Kind != TransformRotate || hist[0].Delta != 90 || !hist[0].Expand {
		t.Errorf("history = %+v", hist)
	}
	if len(f.Transforms()) != 0 {
		t.Errorf("receiver history = %+v", f.Transforms())
	}
}

func TestExpandedRotationKeepsCentre(t *testing.T) {
	f := newTestFrame(t, 0)
	centre := f.PixelToGeo(PixelPoint{X: 320, Y: 320})
	r := f.Rotate(30, true)
	w, h := r.Size()
	if got := r.GeoToPixel(centre); !closePixel(got, PixelPoint{w / 2, h / 2}, 1e-9) {
		t.Errorf("centre at %v, want (%v, %v)", got, w/2, h/2)
	}
}

func TestCrop(t *testing.T) {
	f := newTestFrame(t, 0)
	box := PixelRect{Min: PixelPoint{100, 100}, Max: PixelPoint{300, 200}}
	c, err := f.Crop(box)
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if w, h := c.Size(); w != 200 || h != 100 {
		t.Errorf("cropped size = %vx%v, want 200x100", w, h)
	}
	p := f.PixelToGeo(PixelPoint{150, 150})
	if got := c.GeoToPixel(p); !closePixel(got, PixelPoint{50, 50}, 1e-6) {
		t.Errorf("point at %v in cropped frame, want (50, 50)", got)
	}
	if _, err := f.Crop(PixelRect{Min: PixelPoint{10, 10}, Max: PixelPoint{10, 50}}); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("empty crop error = %v", err)
	}
}

func TestCropBakesInRotation(t *testing.T) {
	f := newTestFrame(t, 180)
	box := PixelRect{Min: PixelPoint{0, 0}, Max: PixelPoint{320, 320}}
	c, err := f.Crop(box)
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if c.Rotation() != 0 {
		t.Errorf("cropped rotation = %v, want 0", c.Rotation())
	}
	if got := c.Corners().UL; !closeGeo(got, f.PixelToGeo(box.Min), 1e-12) {
		t.Errorf("cropped ul = %v", got)
	}
	// A half-turn is linear, so the baked frame agrees with the rotated one.
	p := f.PixelToGeo(PixelPoint{100, 250})
	if got := c.GeoToPixel(p); !closePixel(got, PixelPoint{100, 250}, 1e-6) {
		t.Errorf("point at %v, want (100, 250)", got)
	}
	hist := c.Transforms()
	if len(hist) != 1 || hist[0].Kind != TransformCrop || hist[0].Box != box {
		t.Errorf("history = %+v", hist)
	}

	chained, err := f.Rotate(10, true).Crop(PixelRect{Max: PixelPoint{100, 100}})
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if kinds := chained.Transforms(); len(kinds) != 2 || kinds[0].Kind != TransformRotate || kinds[1].Kind != TransformCrop {
		t.Errorf("chained history = %+v", kinds)
	}
}

func TestResolve(t *testing.T) {
	f := newTestFrame(t, 0)

	px, err := f.Resolve(PixelPoint{X: 5, Y: 6})
	if err != nil || px != (PixelPoint{X: 5, Y: 6}) {
		t.Errorf("pixel resolve = %v, %v", px, err)
	}
	px, err = f.Resolve(testLR)
	if err != nil || !closePixel(px, PixelPoint{640, 640}, 1e-9) {
		t.Errorf("geo resolve = %v, %v", px, err)
	}
	ul, lr := f.GroundCorners()
	px, err = f.Resolve(GroundPoint{X: (ul.X + lr.X) / 2, Y: (ul.Y + lr.Y) / 2})
	if err != nil || !closePixel(px, PixelPoint{320, 320}, 1e-9) {
		t.Errorf("ground resolve = %v, %v", px, err)
	}
	if _, err := f.Resolve(nil); !errors.Is(err, ErrMissingPosition) {
		t.Errorf("nil resolve error = %v", err)
	}

	g, err := f.ResolveGeo(PixelPoint{X: 0, Y: 0})
	if err != nil || !closeGeo(g, testUL, 1e-12) {
		t.Errorf("ResolveGeo = %v, %v", g, err)
	}
}

func TestPositionSpec(t *testing.T) {
	pix := &PixelPoint{X: 1, Y: 2}
	gnd := &GroundPoint{X: 3, Y: 4}
	gp := &GeoPoint{Lat: 5, Long: 6}

	if _, err := (PositionSpec{}).Position(); !errors.Is(err, ErrMissingPosition) {
		t.Errorf("empty spec error = %v", err)
	}
	if _, err := (PositionSpec{Pixel: pix, Geo: gp}).Position(); !errors.Is(err, ErrAmbiguousPosition) {
		t.Errorf("two positions error = %v", err)
	}
	if _, err := (PositionSpec{Pixel: pix, Ground: gnd, Geo: gp}).Position(); !errors.Is(err, ErrAmbiguousPosition) {
		t.Errorf("three positions error = %v", err)
	}
	pos, err := (PositionSpec{Ground: gnd}).Position()
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	if pos != (GroundPoint{X: 3, Y: 4}) {
		t.Errorf("Position = %v", pos)
	}
}

func TestGeoRectContains(t *testing.T) {
	r := GeoRect{UL: testUL, LR: testLR}
	if !r.Contains(testUL) || !r.Contains(testLR) {
		t.Error("corners should be contained")
	}
	if r.Contains(GeoPoint{Lat: 43, Long: -71.175}) {
		t.Error("point north of the rect contained")
	}
}
