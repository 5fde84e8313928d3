package render

import (
	"fmt"
	"math"
	"strconv"

	"mapoverlay/internal/debug"
	"mapoverlay/internal/geo"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	defaultTickLength = 6
	defaultFontSize   = 12
	labelGap          = 2
)

// ScaleSpec describes a scale bar. The end is either End or Length units
// along Bearing from Start.
type ScaleSpec struct {
	Start   geo.Position
	End     geo.Position
	Length  float64
	Bearing float64 // degrees counter-clockwise from east on the unrotated map

	Marks    float64 // tick spacing in Unit
	BigMarks int     // every BigMarks-th tick is long and labelled
	Unit     geo.Unit
	TicDir   int // +1 puts ticks to the left of the direction of travel, -1 to the right

	TickLength float64 // pixels, long ticks are twice this
	FontSize   float64
	Color      colorful.Color
	Width      float64
}

// ScaleLayout is a validated scale bar bound to a frame.
type ScaleLayout struct {
	frame   *geo.Frame
	spec    ScaleSpec
	measure Measure
	unitLen float64
}

// NewScaleLayout validates spec against frame. A nil measure falls back to
// ApproxMeasure.
func NewScaleLayout(frame *geo.Frame, spec ScaleSpec, measure Measure) (*ScaleLayout, error) {
	if frame == nil {
		return nil, fmt.Errorf("%w: scale bar needs a frame", geo.ErrInvalidConfiguration)
	}
	if spec.Start == nil {
		return nil, fmt.Errorf("scale start: %w", geo.ErrMissingPosition)
	}
	switch {
	case spec.End != nil && spec.Length != 0:
		return nil, fmt.Errorf("scale end given as point and as length: %w", geo.ErrAmbiguousPosition)
	case spec.End == nil && spec.Length == 0:
		return nil, fmt.Errorf("scale end: %w", geo.ErrMissingPosition)
	case spec.Length < 0:
		return nil, fmt.Errorf("%w: negative scale length %g", geo.ErrInvalidConfiguration, spec.Length)
	}
	if spec.Unit == "" {
		spec.Unit = frame.Unit()
	}
	unitLen, err := spec.Unit.Meters()
	if err != nil {
		return nil, err
	}
	if spec.Marks <= 0 || math.IsNaN(spec.Marks) || math.IsInf(spec.Marks, 0) {
		return nil, fmt.Errorf("%w: tick spacing %g %s", geo.ErrInvalidConfiguration, spec.Marks, spec.Unit)
	}
	if spec.BigMarks <= 0 {
		return nil, fmt.Errorf("%w: big tick multiple %d", geo.ErrInvalidConfiguration, spec.BigMarks)
	}
	if spec.TicDir == 0 {
		spec.TicDir = 1
	}
	if spec.TickLength == 0 {
		spec.TickLength = defaultTickLength
	}
	if spec.FontSize == 0 {
		spec.FontSize = defaultFontSize
	}
	if spec.Width == 0 {
		spec.Width = 1
	}
	if measure == nil {
		measure = ApproxMeasure
	}
	return &ScaleLayout{frame: frame, spec: spec, measure: measure, unitLen: unitLen}, nil
}

// Spec returns the normalised scale spec.
func (s *ScaleLayout) Spec() ScaleSpec { return s.spec }

// ScaleLabel is a tick label and its estimated span along the bar, in
// meters from the start.
type ScaleLabel struct {
	Distance float64
	Text     string
	Start    float64
	End      float64
}

// Display lays out the bar, its ticks and labels. It does not change the
// layout and returns the same primitives on every call.
func (s *ScaleLayout) Display() ([]Primitive, error) {
	prims, _, err := s.layout()
	return prims, err
}

func (s *ScaleLayout) layout() ([]Primitive, []ScaleLabel, error) {
	from, to, err := s.endpoints()
	if err != nil {
		return nil, nil, err
	}
	spec := s.spec
	pixLen := pixelDistance(from, to)
	total := s.frame.PixelToMeters(pixLen)
	spacing := spec.Marks * s.unitLen
	barBearing := pixelBearing(from, to)
	tickBearing := barBearing + float64(spec.TicDir)*90

	prims := []Primitive{Line{From: from, To: to, Color: spec.Color, Width: spec.Width}}

	at := func(dist float64) geo.PixelPoint {
		if total == 0 {
			return from
		}
		f := dist / total
		return geo.PixelPoint{X: from.X + f*(to.X-from.X), Y: from.Y + f*(to.Y-from.Y)}
	}

	// The bar length comes back from pixels, so allow for rounding at the far end.
	limit := total + spacing*1e-9
	prevEnd := math.Inf(-1)
	var placed []ScaleLabel
	var lastAt geo.PixelPoint
	for i := 0; ; i++ {
		dist := float64(i) * spacing
		if dist > limit {
			break
		}
		big := i%spec.BigMarks == 0
		tl := spec.TickLength
		width := spec.Width
		if big {
			tl *= 2
			width *= 2
		}
		base := at(dist)
		tip := offset(base, tl, tickBearing)
		prims = append(prims, Line{From: base, To: tip, Color: spec.Color, Width: width})
		if !big {
			continue
		}

		lbl := s.label(dist)
		nextStart := math.Inf(1)
		if next := dist + float64(spec.BigMarks)*spacing; next <= limit {
			nextStart = s.label(next).Start
		}
		if lbl.Start > prevEnd && lbl.End < nextStart {
			pos := offset(tip, labelGap+spec.FontSize/2, tickBearing)
			prims = append(prims, Text{
				At: pos, Text: lbl.Text, Size: spec.FontSize, Color: spec.Color,
				AnchorX: 0.5, AnchorY: 0.5,
			})
			prevEnd = lbl.End
			placed = append(placed, lbl)
			lastAt = pos
		} else if debug.Enabled() {
			debug.Log("scale label skipped", "label", lbl.Text, "start", lbl.Start, "prev_end", prevEnd, "next_start", nextStart)
		}
	}

	suffix := spec.Unit.Suffix()
	if suffix != "" {
		if len(placed) > 0 {
			halfPx := s.measure(placed[len(placed)-1].Text, spec.FontSize) / 2
			prims = append(prims, Text{
				At:   geo.PixelPoint{X: lastAt.X + halfPx + labelGap*2, Y: lastAt.Y},
				Text: suffix, Size: spec.FontSize, Color: spec.Color,
				AnchorX: 0, AnchorY: 0.5,
			})
		} else {
			pos := offset(offset(to, spec.TickLength*2+labelGap+spec.FontSize/2, tickBearing), labelGap, barBearing)
			prims = append(prims, Text{
				At: pos, Text: suffix, Size: spec.FontSize, Color: spec.Color,
				AnchorX: 0, AnchorY: 0.5,
			})
		}
	}
	return prims, placed, nil
}

// Labels returns the labels Display places, left to right.
func (s *ScaleLayout) Labels() ([]ScaleLabel, error) {
	_, labels, err := s.layout()
	return labels, err
}

func (s *ScaleLayout) label(dist float64) ScaleLabel {
	text := strconv.FormatFloat(math.Round(dist/s.unitLen), 'f', -1, 64)
	half := s.frame.PixelToMeters(s.measure(text, s.spec.FontSize)) / 2
	return ScaleLabel{Distance: dist, Text: text, Start: dist - half, End: dist + half}
}

func (s *ScaleLayout) endpoints() (from, to geo.PixelPoint, err error) {
	from, err = s.frame.Resolve(s.spec.Start)
	if err != nil {
		return from, to, fmt.Errorf("scale start: %w", err)
	}
	if s.spec.End != nil {
		to, err = s.frame.Resolve(s.spec.End)
		if err != nil {
			return from, to, fmt.Errorf("scale end: %w", err)
		}
		return from, to, nil
	}
	to, err = s.frame.AddToPoint(from, s.spec.Length, s.spec.Unit, s.spec.Bearing)
	if err != nil {
		return from, to, fmt.Errorf("scale end: %w", err)
	}
	return from, to, nil
}
