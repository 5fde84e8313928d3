package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette used when a configuration leaves a colour unset
var (
	ColorInk      = colorful.Color{R: 0, G: 0, B: 0}
	ColorPaper    = colorful.Color{R: 1, G: 1, B: 1}
	ColorTrail    = colorful.Color{R: 0.85, G: 0.1, B: 0.1}
	ColorMarker   = colorful.Color{R: 0.1, G: 0.3, B: 0.9}
	ColorCompass  = colorful.Color{R: 0.2, G: 0.2, B: 0.2}
	ColorScaleBar = colorful.Color{R: 0, G: 0, B: 0}
)

// Terminal styles for the preview chrome
var (
	StyleBorder       = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	StyleLabel        = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	StyleTitle        = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	StyleListItem     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	StyleListSelected = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	StyleSelected     = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true).Reverse(true)
)

var namedColors = map[string]string{
	"black":  "#000000",
	"white":  "#ffffff",
	"red":    "#d91a1a",
	"green":  "#1a9933",
	"blue":   "#1a4de6",
	"yellow": "#e6c619",
	"orange": "#f28c1a",
	"gray":   "#808080",
	"grey":   "#808080",
	"cyan":   "#19b3b3",
}

// ParseColor accepts a colour name or a #rrggbb hex string. An empty string
// yields def.
func ParseColor(s string, def colorful.Color) (colorful.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return def, nil
	}
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return def, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return c, nil
}

// TermColor converts c to a true-colour terminal colour.
func TermColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// TermStyle returns a foreground style for drawing c on a terminal.
func TermStyle(c colorful.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(TermColor(c))
}
