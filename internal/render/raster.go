package render

import (
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/gofont/goregular"
)

// Raster is a Sink that paints onto an RGBA image with gg. Drawing errors
// are kept and reported by Err.
type Raster struct {
	dc     *gg.Context
	source *text.FontSource
	faces  map[float64]text.Face
	err    error
}

// NewRaster creates a width x height image filled with background.
func NewRaster(width, height int, background colorful.Color) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster size %dx%d", width, height)
	}
	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	dc := gg.NewContext(width, height)
	bg := background.Clamped()
	dc.ClearWithColor(gg.RGB(bg.R, bg.G, bg.B))
	return &Raster{dc: dc, source: source, faces: make(map[float64]text.Face)}, nil
}

// Line strokes l.
func (r *Raster) Line(l Line) {
	r.setColor(l.Color)
	r.dc.SetLineWidth(lineWidth(l.Width))
	r.dc.DrawLine(l.From.X, l.From.Y, l.To.X, l.To.Y)
	r.keep(r.dc.Stroke())
}

// Circle strokes or fills c.
func (r *Raster) Circle(c Circle) {
	r.setColor(c.Color)
	r.dc.SetLineWidth(lineWidth(c.Width))
	r.dc.DrawCircle(c.Center.X, c.Center.Y, c.Radius)
	if c.Fill {
		r.keep(r.dc.Fill())
		return
	}
	r.keep(r.dc.Stroke())
}

// Text draws t with the Go Regular face at t.Size.
func (r *Raster) Text(t Text) {
	r.setColor(t.Color)
	r.dc.SetFont(r.face(t.Size))
	r.dc.DrawStringAnchored(t.Text, t.At.X, t.At.Y, t.AnchorX, t.AnchorY)
}

// Measure returns the advance width of s at size in pixels.
func (r *Raster) Measure(s string, size float64) float64 {
	w, _ := text.Measure(s, r.face(size))
	return w
}

// Err returns the first drawing error.
func (r *Raster) Err() error { return r.err }

// Image returns the painted image.
func (r *Raster) Image() image.Image {
	_ = r.dc.FlushGPU()
	return r.dc.Image()
}

// EncodePNG writes the image as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	_ = r.dc.FlushGPU()
	return r.dc.EncodePNG(w)
}

// SavePNG writes the image to a PNG file.
func (r *Raster) SavePNG(path string) error {
	_ = r.dc.FlushGPU()
	return r.dc.SavePNG(path)
}

// Close releases the drawing context and the font.
func (r *Raster) Close() error {
	err := r.dc.Close()
	if ferr := r.source.Close(); err == nil {
		err = ferr
	}
	return err
}

func (r *Raster) face(size float64) text.Face {
	if size <= 0 {
		size = defaultFontSize
	}
	f, ok := r.faces[size]
	if !ok {
		f = r.source.Face(size)
		r.faces[size] = f
	}
	return f
}

func (r *Raster) setColor(c colorful.Color) {
	c = c.Clamped()
	r.dc.SetRGB(c.R, c.G, c.B)
}

func (r *Raster) keep(err error) {
	if err != nil && r.err == nil {
		r.err = err
	}
}

func lineWidth(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return w
}
