package render

import (
	"math"

	"github.com/musevid/musevid/internal/feature"
)

// amplitudeHeadroom mirrors the plotting range of +/-1.1 so full-scale
// samples do not touch the frame edges.
const amplitudeHeadroom = 1.1

// lineRenderer plots the amplitude window as a connected line across the
// frame width.
type lineRenderer struct {
	cfg StyleConfig
}

func (r *lineRenderer) Render(f feature.Frame) (*Bitmap, error) {
	if err := checkWindow(f); err != nil {
		return nil, err
	}

	b := NewBitmap(r.cfg.Width, r.cfg.Height, r.cfg.Background)
	stroke := r.cfg.LineWidth
	if stroke < 1 {
		stroke = 1
	}

	prevX, prevY := 0, amplitudeY(f.Values[0], r.cfg.Height)
	for x := 1; x < r.cfg.Width; x++ {
		v := sampleAt(f.Values, x, r.cfg.Width)
		y := amplitudeY(v, r.cfg.Height)
		b.ThickLine(prevX, prevY, x, y, stroke, r.cfg.Foreground)
		prevX, prevY = x, y
	}

	if r.cfg.Gradient {
		hl := r.cfg.HighlightColor()
		prevX, prevY = 0, amplitudeY(f.Values[0], r.cfg.Height)
		for x := 1; x < r.cfg.Width; x++ {
			v := sampleAt(f.Values, x, r.cfg.Width)
			y := amplitudeY(v, r.cfg.Height)
			b.Line(prevX, prevY, x, y, hl)
			prevX, prevY = x, y
		}
	}

	return b, nil
}

// fillRenderer draws a symmetric filled area between -|a| and +|a|.
type fillRenderer struct {
	cfg StyleConfig
}

func (r *fillRenderer) Render(f feature.Frame) (*Bitmap, error) {
	if err := checkWindow(f); err != nil {
		return nil, err
	}

	b := NewBitmap(r.cfg.Width, r.cfg.Height, r.cfg.Background)
	center := r.cfg.Height / 2
	scale := float64(r.cfg.Height) / 2 / amplitudeHeadroom

	for x := 0; x < r.cfg.Width; x++ {
		a := math.Abs(sampleAt(f.Values, x, r.cfg.Width))
		if a > 1 {
			a = 1
		}
		h := int(a * scale)
		b.FillRect(x, center-h, x+1, center+h+1, r.cfg.Foreground)
	}

	if r.cfg.Gradient {
		hl := r.cfg.HighlightColor()
		// Bright center seam through the filled area.
		b.HSpan(0, r.cfg.Width, center, hl)
	}

	return b, nil
}

// sampleAt picks the window sample for a given x column.
func sampleAt(values []float64, x, width int) float64 {
	idx := x * len(values) / width
	if idx >= len(values) {
		idx = len(values) - 1
	}
	return values[idx]
}

// amplitudeY maps a sample in [-1,1] to a y coordinate, top row 0.
func amplitudeY(v float64, height int) int {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	center := float64(height) / 2
	y := int(center - v/amplitudeHeadroom*center)
	if y < 0 {
		y = 0
	}
	if y >= height {
		y = height - 1
	}
	return y
}

var (
	_ Renderer = (*lineRenderer)(nil)
	_ Renderer = (*fillRenderer)(nil)
)
