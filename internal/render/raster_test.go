package render

import (
	"bytes"
	"image/png"
	"testing"

	"mapoverlay/internal/geo"
)

func newTestRaster(t *testing.T, w, h int) *Raster {
	t.Helper()
	r, err := NewRaster(w, h, ColorPaper)
	if err != nil {
		t.Fatalf("NewRaster: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func rgb(r *Raster, x, y int) (uint32, uint32, uint32) {
	cr, cg, cb, _ := r.Image().At(x, y).RGBA()
	return cr >> 8, cg >> 8, cb >> 8
}

func TestRasterLine(t *testing.T) {
	r := newTestRaster(t, 100, 100)
	r.Line(Line{From: geo.PixelPoint{X: 10, Y: 50}, To: geo.PixelPoint{X: 90, Y: 50}, Color: ColorTrail, Width: 4})
	if err := r.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	if cr, cg, _ := rgb(r, 50, 50); cr < 0xc0 || cg > 0x40 {
		t.Errorf("pixel on line = (%d, %d), want red", cr, cg)
	}
	if cr, cg, cb := rgb(r, 50, 20); cr < 0xf0 || cg < 0xf0 || cb < 0xf0 {
		t.Errorf("pixel off line = (%d, %d, %d), want white", cr, cg, cb)
	}
}

func TestRasterCircle(t *testing.T) {
	r := newTestRaster(t, 100, 100)
	r.Circle(Circle{Center: geo.PixelPoint{X: 50, Y: 50}, Radius: 20, Color: ColorMarker, Fill: true})
	if _, _, cb := rgb(r, 50, 50); cb < 0xc0 {
		t.Errorf("disc centre blue = %d", cb)
	}

	r = newTestRaster(t, 100, 100)
	r.Circle(Circle{Center: geo.PixelPoint{X: 50, Y: 50}, Radius: 20, Color: ColorInk, Width: 2})
	if cr, _, _ := rgb(r, 50, 50); cr < 0xf0 {
		t.Errorf("ring centre = %d, want white", cr)
	}
	if cr, _, _ := rgb(r, 70, 50); cr > 0x80 {
		t.Errorf("ring edge = %d, want dark", cr)
	}
}

func TestRasterText(t *testing.T) {
	r := newTestRaster(t, 120, 40)
	r.Text(Text{At: geo.PixelPoint{X: 5, Y: 30}, Text: "Hello", Size: 20, Color: ColorInk})
	dark := 0
	for y := 0; y < 40; y++ {
		for x := 0; x < 120; x++ {
			if cr, _, _ := rgb(r, x, y); cr < 0x80 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("no text pixels drawn")
	}
}

func TestRasterMeasure(t *testing.T) {
	r := newTestRaster(t, 10, 10)
	one := r.Measure("M", 12)
	four := r.Measure("MMMM", 12)
	if one <= 0 || four <= one {
		t.Errorf("Measure M = %v, MMMM = %v", one, four)
	}
	if big := r.Measure("M", 24); big <= one {
		t.Errorf("Measure at 24 = %v, not larger than at 12 (%v)", big, one)
	}
}

func TestRasterEncodePNG(t *testing.T) {
	r := newTestRaster(t, 64, 32)
	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("decoded size = %v", b)
	}
}

func TestRasterScaleBar(t *testing.T) {
	r := newTestRaster(t, 640, 640)
	layout, err := NewScaleLayout(meterFrame(t), ScaleSpec{
		Start: geo.PixelPoint{X: 20, Y: 600}, Length: 300, Marks: 10, BigMarks: 5, Unit: geo.Meters, Width: 2,
	}, r.Measure)
	if err != nil {
		t.Fatalf("NewScaleLayout: %v", err)
	}
	prims, err := layout.Display()
	if err != nil {
		t.Fatalf("Display: %v", err)
	}
	DrawAll(r, prims)
	if err := r.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	if cr, _, _ := rgb(r, 175, 600); cr > 0x80 {
		t.Errorf("scale bar pixel = %d, want dark", cr)
	}
}

func TestNewRasterSize(t *testing.T) {
	if _, err := NewRaster(0, 10, ColorPaper); err == nil {
		t.Error("NewRaster(0, 10) succeeded")
	}
}
