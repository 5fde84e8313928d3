package ui

import (
	"fmt"

	"mapoverlay/internal/geo"
	"mapoverlay/internal/render"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// LegendItem is one marker or trail listed in the legend
type LegendItem struct {
	Name   string
	Kind   string // "marker" or "trail"
	At     geo.Position
	Points int
}

// ListDisplay returns the item's one-line legend entry
func (i LegendItem) ListDisplay() string {
	name := i.Name
	if name == "" {
		name = "(unnamed)"
	}
	if i.Kind == "trail" {
		return fmt.Sprintf("~ %s (%d pts)", name, i.Points)
	}
	return "● " + name
}

// LegendItems lists the markers and trails of layers, trails first.
func LegendItems(layers render.Layers) []LegendItem {
	items := make([]LegendItem, 0, len(layers.Trails)+len(layers.Markers))
	for _, t := range layers.Trails {
		item := LegendItem{Name: t.Name, Kind: "trail", Points: len(t.Points)}
		if len(t.Points) > 0 {
			item.At = t.Points[0]
		}
		items = append(items, item)
	}
	for _, mk := range layers.Markers {
		items = append(items, LegendItem{Name: mk.Name, Kind: "marker", At: mk.At, Points: 1})
	}
	return items
}

// ListView displays a scrollable legend
type ListView struct {
	items         []LegendItem
	selectedIndex int
	scrollOffset  int
	maxVisible    int
	x, y          int
	width, height int
}

// NewListView creates a new legend view
func NewListView(x, y, width, height int) *ListView {
	maxVisible := height - 2 // Account for border
	if maxVisible < 1 {
		maxVisible = 1
	}

	return &ListView{
		items:      make([]LegendItem, 0),
		maxVisible: maxVisible,
		x:          x,
		y:          y,
		width:      width,
		height:     height,
	}
}

// Update refreshes the legend
func (l *ListView) Update(items []LegendItem) {
	l.items = items

	if l.selectedIndex >= len(l.items) {
		l.selectedIndex = len(l.items) - 1
	}
	if l.selectedIndex < 0 {
		l.selectedIndex = 0
	}

	l.adjustScroll()
}

// SelectNext moves selection down
func (l *ListView) SelectNext() {
	if l.selectedIndex < len(l.items)-1 {
		l.selectedIndex++
		l.adjustScroll()
	}
}

// SelectPrev moves selection up
func (l *ListView) SelectPrev() {
	if l.selectedIndex > 0 {
		l.selectedIndex--
		l.adjustScroll()
	}
}

// adjustScroll adjusts scroll offset to keep selected item visible
func (l *ListView) adjustScroll() {
	if l.selectedIndex >= l.scrollOffset+l.maxVisible {
		l.scrollOffset = l.selectedIndex - l.maxVisible + 1
	}

	if l.selectedIndex < l.scrollOffset {
		l.scrollOffset = l.selectedIndex
	}

	if l.scrollOffset < 0 {
		l.scrollOffset = 0
	}
}

// GetSelected returns the currently selected item
func (l *ListView) GetSelected() *LegendItem {
	if l.selectedIndex >= 0 && l.selectedIndex < len(l.items) {
		return &l.items[l.selectedIndex]
	}
	return nil
}

// Draw renders the list view to the screen
func (l *ListView) Draw(screen tcell.Screen) {
	clearPanel(screen, l.x, l.y, l.width, l.height)
	drawBorder(screen, l.x, l.y, l.width, l.height)
	drawCentered(screen, l.x, l.y, l.width, "Legend", render.StyleTitle)

	visibleCount := min(l.maxVisible, len(l.items)-l.scrollOffset)
	for i := 0; i < visibleCount; i++ {
		idx := l.scrollOffset + i
		style := render.StyleListItem
		if idx == l.selectedIndex {
			style = render.StyleListSelected
		}
		drawText(screen, l.x+1, l.y+i+1, l.width-2, l.items[idx].ListDisplay(), style, true)
	}

	if len(l.items) > l.maxVisible {
		screen.SetContent(l.x+l.width-2, l.y, '↕', nil, render.StyleLabel)
	}
}

// UpdateDimensions updates the view dimensions
func (l *ListView) UpdateDimensions(x, y, width, height int) {
	l.x = x
	l.y = y
	l.width = width
	l.height = height
	l.maxVisible = height - 2
	if l.maxVisible < 1 {
		l.maxVisible = 1
	}
	l.adjustScroll()
}

// clearPanel blanks the inside of a bordered panel so it is opaque
func clearPanel(screen tcell.Screen, x, y, width, height int) {
	for row := y + 1; row < y+height-1; row++ {
		for col := x + 1; col < x+width-1; col++ {
			screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
		}
	}
}

// drawBorder draws a panel border
func drawBorder(screen tcell.Screen, x, y, width, height int) {
	style := render.StyleBorder

	screen.SetContent(x, y, '┌', nil, style)
	screen.SetContent(x+width-1, y, '┐', nil, style)
	screen.SetContent(x, y+height-1, '└', nil, style)
	screen.SetContent(x+width-1, y+height-1, '┘', nil, style)

	for i := 1; i < width-1; i++ {
		screen.SetContent(x+i, y, '─', nil, style)
		screen.SetContent(x+i, y+height-1, '─', nil, style)
	}

	for i := 1; i < height-1; i++ {
		screen.SetContent(x, y+i, '│', nil, style)
		screen.SetContent(x+width-1, y+i, '│', nil, style)
	}
}

func drawCentered(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	drawText(screen, x+(width-runewidth.StringWidth(text))/2, y, width, text, style, false)
}

// drawText writes text clipped to width cells, padding with blanks when pad is set.
func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style, pad bool) {
	col := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if col+w > width {
			break
		}
		screen.SetContent(x+col, y, r, nil, style)
		col += w
	}
	for ; pad && col < width; col++ {
		screen.SetContent(x+col, y, ' ', nil, style)
	}
}
