package ui

import (
	"math"

	"mapoverlay/internal/debug"
	"mapoverlay/internal/geo"
	"mapoverlay/internal/render"

	"github.com/gdamore/tcell/v2"
)

const (
	rotateStep = 15.0
	minZoomPx  = 16.0
)

// MapView displays the overlay scaled onto the terminal
type MapView struct {
	renderer    *render.MapRenderer
	canvas      *render.Canvas
	base        *geo.Frame
	history     []*geo.Frame // frames replaced by zooming in
	width       int
	height      int
	aspectRatio float64
}

// NewMapView creates a new map view. aspectRatio is the height of a terminal
// cell divided by its width.
func NewMapView(width, height int, renderer *render.MapRenderer, aspectRatio float64) *MapView {
	if aspectRatio <= 0 {
		aspectRatio = 2
	}
	m := &MapView{
		renderer:    renderer,
		base:        renderer.Frame(),
		width:       width,
		height:      height,
		aspectRatio: aspectRatio,
	}
	m.UpdateDimensions(width, height)
	return m
}

// Draw renders the map view to the screen, highlighting the selected item
func (m *MapView) Draw(screen tcell.Screen, selected *LegendItem) error {
	m.canvas.Clear()

	// outline the map area; layers draw over it
	w, h := m.Frame().Size()
	cols, rows := m.canvas.CellAt(w, h)
	m.canvas.DrawBox(0, 0, min(cols+1, m.canvas.Width()), min(rows+1, m.canvas.Height()), render.StyleBorder)

	if err := m.renderer.RenderMap(m.canvas); err != nil {
		return err
	}

	if selected != nil && selected.At != nil {
		if p, err := m.Frame().Resolve(selected.At); err == nil {
			x, y := m.canvas.CellAt(p.X, p.Y)
			m.canvas.Set(x, y, '◆', render.StyleSelected)
		}
	}

	m.canvas.Blit(screen, 0, 0)
	return nil
}

// Frame returns the frame currently displayed
func (m *MapView) Frame() *geo.Frame {
	return m.renderer.Frame()
}

// UpdateDimensions updates the view dimensions when the screen is resized
func (m *MapView) UpdateDimensions(width, height int) {
	m.width = width
	m.height = height
	m.canvas = render.NewCanvas(width, height)
	m.fit()
}

// fit scales the frame into the view with square pixels on screen.
func (m *MapView) fit() {
	pw, ph := m.Frame().Size()
	if pw <= 0 || ph <= 0 || m.width <= 0 || m.height <= 0 {
		return
	}
	sx := math.Min(float64(m.width)/pw, float64(m.height)*m.aspectRatio/ph)
	m.canvas.SetScale(sx, sx/m.aspectRatio)
}

func (m *MapView) setFrame(f *geo.Frame) {
	m.renderer.UpdateFrame(f)
	m.fit()
	if debug.Enabled() {
		w, h := f.Size()
		c := f.Corners()
		debug.Log("preview frame changed", "ul", c.UL.String(), "lr", c.LR.String(),
			"width", w, "height", h, "rotation", f.Rotation(), "transforms", len(f.Transforms()))
	}
}

// Rotate turns the map by delta degrees counter-clockwise, growing the
// canvas so no corner is cut.
func (m *MapView) Rotate(delta float64) {
	m.setFrame(m.Frame().Rotate(delta, true))
}

// ZoomIn crops the central half of the map. The crop is taken on the
// unrotated content and the rotation reapplied, so the view keeps its angle.
func (m *MapView) ZoomIn() {
	f := m.Frame()
	rot := f.Rotation()
	flat := f
	if rot != 0 {
		flat = f.Rotate(-rot, true)
	}
	w, h := flat.Size()
	if w/2 < minZoomPx || h/2 < minZoomPx {
		return
	}
	nf, err := flat.Crop(geo.PixelRect{
		Min: geo.PixelPoint{X: w / 4, Y: h / 4},
		Max: geo.PixelPoint{X: w * 3 / 4, Y: h * 3 / 4},
	})
	if err != nil {
		debug.Log("zoom in failed", "err", err)
		return
	}
	if rot != 0 {
		nf = nf.Rotate(rot, true)
	}
	m.history = append(m.history, f)
	m.setFrame(nf)
}

// ZoomOut returns to the frame before the last zoom in
func (m *MapView) ZoomOut() {
	if len(m.history) == 0 {
		return
	}
	f := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	m.setFrame(f)
}

// Reset restores the frame the view was created with
func (m *MapView) Reset() {
	m.history = nil
	m.setFrame(m.base)
}
