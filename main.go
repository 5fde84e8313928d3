package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mapoverlay/internal/config"
	"mapoverlay/internal/debug"
	"mapoverlay/internal/geo"
	"mapoverlay/internal/render"
	"mapoverlay/internal/ui"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

func main() {
	// Parse command line flags
	help := flag.Bool("h", false, "Show help message")
	configPath := flag.String("config", "", "Config file (default: mapoverlay.yaml in . or ./configs)")
	output := flag.String("o", "", "Write the overlay to a PNG file")
	preview := flag.Bool("preview", false, "Show the overlay in the terminal")
	debugLog := flag.String("d", "", "Debug log file (e.g., debug.log)")
	aspectRatio := flag.Float64("a", 0, "Character aspect ratio for the preview (1.0-4.0, default from config)")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("mapoverlay - Geographic annotation overlays for raster maps")
		fmt.Println("\nUsage: mapoverlay [options]")
		fmt.Println("\nOptions:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *aspectRatio != 0 && (*aspectRatio < 1.0 || *aspectRatio > 4.0) {
		fail("Aspect ratio must be between 1.0 and 4.0")
	}

	if *debugLog != "" {
		closeLog := openDebugLog(*debugLog)
		defer closeLog()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail("%v", err)
	}

	if *debugLog == "" && cfg.Log.DebugFile != "" {
		closeLog := openDebugLog(cfg.Log.DebugFile)
		defer closeLog()
	}

	if *output != "" {
		cfg.Output.PNG = *output
	}
	if *preview {
		cfg.Output.Preview = true
	}
	if *aspectRatio != 0 {
		cfg.Output.Aspect = *aspectRatio
	}
	if cfg.Output.PNG == "" && !cfg.Output.Preview {
		fail("nothing to do: set output.png or output.preview (or use -o / -preview)")
	}

	layers, err := cfg.Layers()
	if err != nil {
		fail("%v", err)
	}
	frame, err := cfg.Frame(layers)
	if err != nil {
		fail("failed to build map frame: %v", err)
	}

	if cfg.Output.PNG != "" {
		if err := renderPNG(cfg.Output.PNG, frame, layers, cfg.Background()); err != nil {
			fail("failed to render %s: %v", cfg.Output.PNG, err)
		}
		w, h := frame.PixelSize()
		fmt.Printf("Wrote %s (%dx%d)\n", cfg.Output.PNG, w, h)
	}

	if cfg.Output.Preview {
		if err := runPreview(frame, layers, cfg.Output.Aspect); err != nil {
			fail("%v", err)
		}
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// openDebugLog points the debug logger at path and returns its closer.
func openDebugLog(path string) func() {
	logFile, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to create debug log: %v\n", err)
		return func() {}
	}
	debug.SetOutput(logFile)
	debug.Log("mapoverlay debug log started")
	return func() {
		debug.SetOutput(nil)
		logFile.Close()
	}
}

func renderPNG(path string, frame *geo.Frame, layers render.Layers, background colorful.Color) error {
	w, h := frame.PixelSize()
	r, err := render.NewRaster(w, h, background)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := render.NewMapRenderer(frame, layers, r.Measure).RenderMap(r); err != nil {
		return err
	}
	if err := r.Err(); err != nil {
		return err
	}
	if err := r.SavePNG(path); err != nil {
		return err
	}
	debug.Log("output written", "path", path, "width", w, "height", h)
	return nil
}

func runPreview(frame *geo.Frame, layers render.Layers, aspectRatio float64) (err error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := ui.NewApp(screen, render.NewMapRenderer(frame, layers, nil), aspectRatio)

	// Recover so the terminal is always restored
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return app.Run(ctx)
}
