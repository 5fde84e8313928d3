package render

import "github.com/mattn/go-runewidth"

// glyphAspect is the assumed average glyph advance as a fraction of the font size.
const glyphAspect = 0.7

// ApproxMeasure estimates label width as cell count times size times 0.7.
// East Asian wide runes count as two cells.
func ApproxMeasure(s string, size float64) float64 {
	return float64(runewidth.StringWidth(s)) * size * glyphAspect
}
