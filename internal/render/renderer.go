package render

import (
	"errors"
	"fmt"

	"github.com/musevid/musevid/internal/feature"
)

// ErrRender is returned when drawing fails for a frame, typically because
// the feature vector does not match the configured geometry.
var ErrRender = errors.New("render failed")

// Renderer turns one feature frame into a bitmap. Implementations are
// pure: identical inputs always produce byte-identical bitmaps, including
// the time-dependent pulse style, whose only time input is the frame index.
type Renderer interface {
	Render(f feature.Frame) (*Bitmap, error)
}

// New validates the style configuration and resolves the variant to its
// renderer. This is the single dispatch point; no string matching happens
// at render time.
func New(cfg StyleConfig) (Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Variant {
	case VariantLine:
		return &lineRenderer{cfg: cfg}, nil
	case VariantFill:
		return &fillRenderer{cfg: cfg}, nil
	case VariantBars:
		return &barRenderer{cfg: cfg, geom: newBarGeometry(cfg)}, nil
	case VariantRoundedBars:
		return &roundedBarRenderer{cfg: cfg, geom: newBarGeometry(cfg)}, nil
	case VariantCircleStack:
		return &circleStackRenderer{cfg: cfg, geom: newBarGeometry(cfg)}, nil
	case VariantTriangleSpike:
		return &triangleSpikeRenderer{cfg: cfg, geom: newBarGeometry(cfg)}, nil
	case VariantWaterfall:
		return &waterfallRenderer{cfg: cfg, geom: newBarGeometry(cfg)}, nil
	case VariantNeonOutline:
		return &neonOutlineRenderer{cfg: cfg, geom: newBarGeometry(cfg)}, nil
	case VariantSymmetricBars:
		return &symmetricBarRenderer{cfg: cfg, geom: newBarGeometry(cfg)}, nil
	case VariantPulseBars:
		return &pulseBarRenderer{cfg: cfg, geom: newBarGeometry(cfg)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, cfg.Variant)
	}
}

// checkBands verifies the feature vector length for bar styles.
func checkBands(f feature.Frame, bands int) error {
	if len(f.Values) != bands {
		return fmt.Errorf("%w: frame %d has %d values, style expects %d bands",
			ErrRender, f.Index, len(f.Values), bands)
	}
	return nil
}

// checkWindow verifies the feature vector for waveform styles.
func checkWindow(f feature.Frame) error {
	if len(f.Values) == 0 {
		return fmt.Errorf("%w: frame %d has an empty amplitude window", ErrRender, f.Index)
	}
	return nil
}
