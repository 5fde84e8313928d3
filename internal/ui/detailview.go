package ui

import (
	"fmt"
	"strings"

	"mapoverlay/internal/geo"
	"mapoverlay/internal/render"

	"github.com/gdamore/tcell/v2"
)

// DetailView displays the current frame and the selected legend item
type DetailView struct {
	frame         *geo.Frame
	item          *LegendItem
	x, y          int
	width, height int
}

// NewDetailView creates a new detail view
func NewDetailView(x, y, width, height int) *DetailView {
	return &DetailView{
		x:      x,
		y:      y,
		width:  width,
		height: height,
	}
}

// SetFrame sets the frame to describe
func (d *DetailView) SetFrame(f *geo.Frame) {
	d.frame = f
}

// SetItem sets the legend item to describe
func (d *DetailView) SetItem(item *LegendItem) {
	d.item = item
}

// Lines returns the text shown in the panel
func (d *DetailView) Lines() []string {
	if d.frame == nil {
		return []string{"No frame"}
	}
	f := d.frame
	c := f.Corners()
	gul, glr := f.GroundCorners()
	w, h := f.Size()
	cw, ch := f.ContentSize()
	unit := f.Unit()
	m, _ := unit.Meters()

	lines := []string{
		fmt.Sprintf("Upper left:  %s", c.UL),
		fmt.Sprintf("Lower right: %s", c.LR),
		fmt.Sprintf("Ground:      %.0f x %.0f %s", (glr.X-gul.X)/m, (glr.Y-gul.Y)/m, unit.Suffix()),
		fmt.Sprintf("Canvas:      %.0f x %.0f px", w, h),
		fmt.Sprintf("Content:     %.0f x %.0f px", cw, ch),
		fmt.Sprintf("Scale:       %.3f %s/px", f.PixelToMeters(1)/m, unit.Suffix()),
		fmt.Sprintf("Rotation:    %.1f°", f.Rotation()),
	}

	if ts := f.Transforms(); len(ts) > 0 {
		kinds := make([]string, len(ts))
		for i, t := range ts {
			kinds[i] = t.Kind.String()
		}
		lines = append(lines, fmt.Sprintf("Transforms:  %s", strings.Join(kinds, ", ")))
	}

	if d.item != nil {
		lines = append(lines, "", fmt.Sprintf("Selected:    %s", d.item.ListDisplay()))
		if d.item.At != nil {
			if g, err := f.ResolveGeo(d.item.At); err == nil {
				lines = append(lines, fmt.Sprintf("Position:    %s", g))
			}
			if p, err := f.Resolve(d.item.At); err == nil {
				lines = append(lines, fmt.Sprintf("Pixel:       %s", p))
			}
		}
	}
	return lines
}

// Draw renders the detail view to the screen
func (d *DetailView) Draw(screen tcell.Screen) {
	clearPanel(screen, d.x, d.y, d.width, d.height)
	drawBorder(screen, d.x, d.y, d.width, d.height)
	drawCentered(screen, d.x, d.y, d.width, "Frame", render.StyleTitle)

	for i, line := range d.Lines() {
		if d.y+1+i >= d.y+d.height-1 {
			break
		}
		drawText(screen, d.x+2, d.y+1+i, d.width-4, line, render.StyleLabel, false)
	}

	drawCentered(screen, d.x, d.y+d.height-1, d.width, "Press ESC to return", render.StyleLabel.Dim(true))
}

// UpdateDimensions updates the view dimensions
func (d *DetailView) UpdateDimensions(x, y, width, height int) {
	d.x = x
	d.y = y
	d.width = width
	d.height = height
}
