package render

import (
	"math"

	"github.com/musevid/musevid/internal/feature"
)

const (
	// bottomMarginFrac is the fraction of the frame height reserved below
	// the bar baseline.
	bottomMarginFrac = 0.10
	// maxBarFrac is the tallest bar height as a fraction of the frame.
	maxBarFrac = 0.8
	// pulsePeriodSec is the breathing period of the pulse style.
	pulsePeriodSec = 2.0
)

// barGeometry holds the shared bar layout: slot width frameWidth/(bands+1),
// a bar inside each slot minus the inter-bar gap, baseline at a 10% bottom
// margin, and bars growing upward to at most 80% of the frame height.
type barGeometry struct {
	bands    int
	slot     float64
	gap      int
	barWidth int
	baseline int
	maxBarH  int
}

func newBarGeometry(cfg StyleConfig) barGeometry {
	slot := float64(cfg.Width) / float64(cfg.Bands+1)
	gap := int(slot * 0.15)
	if gap < 1 {
		gap = 1
	}
	barWidth := int(slot) - gap
	if barWidth < 1 {
		barWidth = 1
	}
	return barGeometry{
		bands:    cfg.Bands,
		slot:     slot,
		gap:      gap,
		barWidth: barWidth,
		baseline: cfg.Height - int(float64(cfg.Height)*bottomMarginFrac),
		maxBarH:  int(float64(cfg.Height) * maxBarFrac),
	}
}

// barX returns the left x coordinate of band i's bar.
func (g barGeometry) barX(i int) int {
	return int(g.slot/2 + float64(i)*g.slot)
}

// barHeight maps a normalized energy to a pixel height.
func (g barGeometry) barHeight(energy float64) int {
	return int(clamp01(energy) * float64(g.maxBarH))
}

// capHeight is the height of the highlight cap drawn on top of a bar.
func capHeight(h int) int {
	c := h / 5
	if c < 2 {
		c = 2
	}
	return c
}

// lerpRGB interpolates between two colors, t in [0,1].
func lerpRGB(a, b RGB, t float64) RGB {
	t = clamp01(t)
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return RGB{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B)}
}

// barRenderer draws plain rectangular bars.
type barRenderer struct {
	cfg  StyleConfig
	geom barGeometry
}

func (r *barRenderer) Render(f feature.Frame) (*Bitmap, error) {
	if err := checkBands(f, r.geom.bands); err != nil {
		return nil, err
	}
	b := NewBitmap(r.cfg.Width, r.cfg.Height, r.cfg.Background)
	hl := r.cfg.HighlightColor()

	for i, e := range f.Values {
		h := r.geom.barHeight(e)
		if h == 0 {
			continue
		}
		x := r.geom.barX(i)
		top := r.geom.baseline - h
		b.FillRect(x, top, x+r.geom.barWidth, r.geom.baseline, r.cfg.Foreground)
		if r.cfg.Gradient {
			b.FillRect(x, top, x+r.geom.barWidth, top+capHeight(h), hl)
		}
	}
	return b, nil
}

// roundedBarRenderer draws bars with a circular cap.
type roundedBarRenderer struct {
	cfg  StyleConfig
	geom barGeometry
}

func (r *roundedBarRenderer) Render(f feature.Frame) (*Bitmap, error) {
	if err := checkBands(f, r.geom.bands); err != nil {
		return nil, err
	}
	b := NewBitmap(r.cfg.Width, r.cfg.Height, r.cfg.Background)
	hl := r.cfg.HighlightColor()
	radius := r.geom.barWidth / 2

	for i, e := range f.Values {
		h := r.geom.barHeight(e)
		if h == 0 {
			continue
		}
		x := r.geom.barX(i)
		cx := x + r.geom.barWidth/2
		top := r.geom.baseline - h

		if h > radius {
			b.FillRect(x, top+radius, x+r.geom.barWidth, r.geom.baseline, r.cfg.Foreground)
			b.FillCircle(cx, top+radius, radius, r.cfg.Foreground)
		} else {
			b.FillRect(x, top, x+r.geom.barWidth, r.geom.baseline, r.cfg.Foreground)
		}
		if r.cfg.Gradient {
			glow := radius - 1
			if glow < 1 {
				glow = 1
			}
			b.FillCircle(cx, top+radius, glow, hl)
		}
	}
	return b, nil
}

// circleStackRenderer draws each bar as a vertical stack of discs.
type circleStackRenderer struct {
	cfg  StyleConfig
	geom barGeometry
}

func (r *circleStackRenderer) Render(f feature.Frame) (*Bitmap, error) {
	if err := checkBands(f, r.geom.bands); err != nil {
		return nil, err
	}
	b := NewBitmap(r.cfg.Width, r.cfg.Height, r.cfg.Background)
	hl := r.cfg.HighlightColor()
	d := r.geom.barWidth
	if d < 2 {
		d = 2
	}
	radius := d / 2

	for i, e := range f.Values {
		h := r.geom.barHeight(e)
		count := h / d
		if count == 0 && h > 0 {
			count = 1
		}
		cx := r.geom.barX(i) + r.geom.barWidth/2
		for j := 0; j < count; j++ {
			cy := r.geom.baseline - j*d - radius
			c := r.cfg.Foreground
			if r.cfg.Gradient && j == count-1 {
				c = hl
			}
			b.FillCircle(cx, cy, radius, c)
		}
	}
	return b, nil
}

// triangleSpikeRenderer draws each bar as an isosceles spike.
type triangleSpikeRenderer struct {
	cfg  StyleConfig
	geom barGeometry
}

func (r *triangleSpikeRenderer) Render(f feature.Frame) (*Bitmap, error) {
	if err := checkBands(f, r.geom.bands); err != nil {
		return nil, err
	}
	b := NewBitmap(r.cfg.Width, r.cfg.Height, r.cfg.Background)
	hl := r.cfg.HighlightColor()

	for i, e := range f.Values {
		h := r.geom.barHeight(e)
		if h == 0 {
			continue
		}
		x := r.geom.barX(i)
		cx := x + r.geom.barWidth/2
		top := r.geom.baseline - h
		capH := capHeight(h)

		for y := top; y < r.geom.baseline; y++ {
			// Row width grows linearly from apex to base.
			frac := float64(y-top) / float64(h)
			half := int(frac * float64(r.geom.barWidth) / 2)
			c := r.cfg.Foreground
			if r.cfg.Gradient && y < top+capH {
				c = hl
			}
			b.HSpan(cx-half, cx+half+1, y, c)
		}
	}
	return b, nil
}

// waterfallRenderer draws bars with a vertical color gradient from the
// foreground at the base to the highlight color at the tip.
type waterfallRenderer struct {
	cfg  StyleConfig
	geom barGeometry
}

func (r *waterfallRenderer) Render(f feature.Frame) (*Bitmap, error) {
	if err := checkBands(f, r.geom.bands); err != nil {
		return nil, err
	}
	b := NewBitmap(r.cfg.Width, r.cfg.Height, r.cfg.Background)
	hl := r.cfg.HighlightColor()

	for i, e := range f.Values {
		h := r.geom.barHeight(e)
		if h == 0 {
			continue
		}
		x := r.geom.barX(i)
		top := r.geom.baseline - h

		for y := top; y < r.geom.baseline; y++ {
			t := float64(r.geom.baseline-y) / float64(r.geom.maxBarH)
			b.HSpan(x, x+r.geom.barWidth, y, lerpRGB(r.cfg.Foreground, hl, t))
		}
		if r.cfg.Gradient {
			b.FillRect(x, top, x+r.geom.barWidth, top+capHeight(h), hl)
		}
	}
	return b, nil
}

// neonOutlineRenderer draws outlined bars with a dim interior fill.
type neonOutlineRenderer struct {
	cfg  StyleConfig
	geom barGeometry
}

func (r *neonOutlineRenderer) Render(f feature.Frame) (*Bitmap, error) {
	if err := checkBands(f, r.geom.bands); err != nil {
		return nil, err
	}
	b := NewBitmap(r.cfg.Width, r.cfg.Height, r.cfg.Background)
	hl := r.cfg.HighlightColor()
	dim := RGB{r.cfg.Foreground.R / 3, r.cfg.Foreground.G / 3, r.cfg.Foreground.B / 3}

	for i, e := range f.Values {
		h := r.geom.barHeight(e)
		if h == 0 {
			continue
		}
		x := r.geom.barX(i)
		top := r.geom.baseline - h
		right := x + r.geom.barWidth

		b.FillRect(x, top, right, r.geom.baseline, dim)
		// 1-pixel outline.
		b.HSpan(x, right, top, r.cfg.Foreground)
		b.HSpan(x, right, r.geom.baseline-1, r.cfg.Foreground)
		b.FillRect(x, top, x+1, r.geom.baseline, r.cfg.Foreground)
		b.FillRect(right-1, top, right, r.geom.baseline, r.cfg.Foreground)
		if r.cfg.Gradient {
			// Outer glow outline one pixel out.
			b.HSpan(x-1, right+1, top-1, hl)
			b.FillRect(x-1, top-1, x, r.geom.baseline, hl)
			b.FillRect(right, top-1, right+1, r.geom.baseline, hl)
		}
	}
	return b, nil
}

// symmetricBarRenderer anchors bars at the vertical center, growing half
// the height up and half down.
type symmetricBarRenderer struct {
	cfg  StyleConfig
	geom barGeometry
}

func (r *symmetricBarRenderer) Render(f feature.Frame) (*Bitmap, error) {
	if err := checkBands(f, r.geom.bands); err != nil {
		return nil, err
	}
	b := NewBitmap(r.cfg.Width, r.cfg.Height, r.cfg.Background)
	hl := r.cfg.HighlightColor()
	center := r.cfg.Height / 2

	for i, e := range f.Values {
		h := r.geom.barHeight(e)
		if h == 0 {
			continue
		}
		half := h / 2
		if half < 1 {
			half = 1
		}
		x := r.geom.barX(i)
		b.FillRect(x, center-half, x+r.geom.barWidth, center+half, r.cfg.Foreground)
		if r.cfg.Gradient {
			capH := capHeight(h)
			b.FillRect(x, center-half, x+r.geom.barWidth, center-half+capH, hl)
			b.FillRect(x, center+half-capH, x+r.geom.barWidth, center+half, hl)
		}
	}
	return b, nil
}

// pulseBarRenderer scales bar heights by a breathing factor derived from
// the frame timestamp. It is deterministic: the factor depends only on the
// frame index and the configured frame rate.
type pulseBarRenderer struct {
	cfg  StyleConfig
	geom barGeometry
}

// pulseFactor returns 0.8 + 0.4*sin(2*pi*(t mod P)/P) for t = index/fps.
func (r *pulseBarRenderer) pulseFactor(index int) float64 {
	t := float64(index) / float64(r.cfg.FPS)
	phase := math.Mod(t, pulsePeriodSec) / pulsePeriodSec
	return 0.8 + 0.4*math.Sin(2*math.Pi*phase)
}

func (r *pulseBarRenderer) Render(f feature.Frame) (*Bitmap, error) {
	if err := checkBands(f, r.geom.bands); err != nil {
		return nil, err
	}
	b := NewBitmap(r.cfg.Width, r.cfg.Height, r.cfg.Background)
	hl := r.cfg.HighlightColor()
	factor := r.pulseFactor(f.Index)

	for i, e := range f.Values {
		h := int(float64(r.geom.barHeight(e)) * factor)
		if h == 0 {
			continue
		}
		x := r.geom.barX(i)
		top := r.geom.baseline - h
		b.FillRect(x, top, x+r.geom.barWidth, r.geom.baseline, r.cfg.Foreground)
		if r.cfg.Gradient {
			b.FillRect(x, top, x+r.geom.barWidth, top+capHeight(h), hl)
		}
	}
	return b, nil
}

var (
	_ Renderer = (*barRenderer)(nil)
	_ Renderer = (*roundedBarRenderer)(nil)
	_ Renderer = (*circleStackRenderer)(nil)
	_ Renderer = (*triangleSpikeRenderer)(nil)
	_ Renderer = (*waterfallRenderer)(nil)
	_ Renderer = (*neonOutlineRenderer)(nil)
	_ Renderer = (*symmetricBarRenderer)(nil)
	_ Renderer = (*pulseBarRenderer)(nil)
)
