package ui

import (
	"context"
	"time"

	"mapoverlay/internal/debug"
	"mapoverlay/internal/render"

	"github.com/gdamore/tcell/v2"
)

// ViewMode represents the current view mode
type ViewMode int

const (
	ViewModeMap ViewMode = iota
	ViewModeDetail
)

const (
	listWidth    = 30
	listHeight   = 12
	detailWidth  = 50
	detailHeight = 16
)

// App is the terminal preview controller
type App struct {
	screen      tcell.Screen
	mapView     *MapView
	listView    *ListView
	detailView  *DetailView
	currentView ViewMode
	dirty       bool
	err         error
	quit        chan struct{}
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewApp creates a preview of renderer's layers on an initialised screen.
// The app takes ownership of the screen and finalises it when Run returns.
func NewApp(screen tcell.Screen, renderer *render.MapRenderer, aspectRatio float64) *App {
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()

	width, height := screen.Size()

	listView := NewListView(0, height-listHeight, listWidth, listHeight)
	listView.Update(LegendItems(renderer.Layers()))

	detailView := NewDetailView(0, height-detailHeight, detailWidth, detailHeight)
	detailView.SetFrame(renderer.Frame())

	return &App{
		screen:      screen,
		mapView:     NewMapView(width, height, renderer, aspectRatio),
		listView:    listView,
		detailView:  detailView,
		currentView: ViewModeMap,
		dirty:       true,
		quit:        make(chan struct{}),
	}
}

// Run starts the application main loop. It returns when the user quits,
// ctx is cancelled or drawing fails.
func (a *App) Run(ctx context.Context) error {
	a.ctx, a.cancel = context.WithCancel(ctx)
	defer a.cleanup()

	events := make(chan tcell.Event)
	go a.pollEvents(events)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	a.render()
	for {
		select {
		case <-a.ctx.Done():
			return a.err
		case <-a.quit:
			return a.err

		case <-ticker.C:
			if a.dirty {
				a.render()
			}
			if a.err != nil {
				return a.err
			}

		case ev := <-events:
			if !a.handleEvent(ev) {
				return a.err
			}
		}
	}
}

// pollEvents forwards screen events until the screen is finalised
func (a *App) pollEvents(events chan<- tcell.Event) {
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-a.ctx.Done():
			return
		}
	}
}

// render renders the current view to the screen
func (a *App) render() {
	a.screen.Clear()

	selected := a.listView.GetSelected()
	if err := a.mapView.Draw(a.screen, selected); err != nil {
		debug.Log("render failed", "err", err)
		a.err = err
		return
	}

	switch a.currentView {
	case ViewModeMap:
		a.listView.Draw(a.screen)
	case ViewModeDetail:
		a.detailView.SetFrame(a.mapView.Frame())
		a.detailView.SetItem(selected)
		a.detailView.Draw(a.screen)
	}

	a.screen.Show()
	a.dirty = false
}

// handleEvent processes keyboard events. It returns false when the app
// should stop.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape:
			if a.currentView == ViewModeDetail {
				a.currentView = ViewModeMap
			} else {
				close(a.quit)
				return false
			}

		case tcell.KeyEnter:
			if a.currentView == ViewModeMap {
				a.currentView = ViewModeDetail
			} else {
				a.currentView = ViewModeMap
			}

		case tcell.KeyUp:
			a.listView.SelectPrev()

		case tcell.KeyDown:
			a.listView.SelectNext()

		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				close(a.quit)
				return false

			case '[':
				a.mapView.Rotate(-rotateStep)

			case ']':
				a.mapView.Rotate(rotateStep)

			case '+', '=':
				a.mapView.ZoomIn()

			case '-', '_':
				a.mapView.ZoomOut()

			case '0':
				a.mapView.Reset()
			}
		}
		a.dirty = true

	case *tcell.EventResize:
		a.handleResize()
	}

	return true
}

// handleResize handles terminal resize events
func (a *App) handleResize() {
	a.screen.Sync()
	width, height := a.screen.Size()

	a.mapView.UpdateDimensions(width, height)
	a.listView.UpdateDimensions(0, height-listHeight, listWidth, listHeight)
	a.detailView.UpdateDimensions(0, height-detailHeight, detailWidth, detailHeight)
	a.dirty = true
}

// cleanup performs cleanup before exit
func (a *App) cleanup() {
	if a.cancel != nil {
		a.cancel()
	}

	if a.screen != nil {
		a.screen.Fini()
	}
}
