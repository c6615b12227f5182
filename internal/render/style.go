// Package render maps feature frames to RGB bitmaps. Each visual style is
// one Renderer implementation; the variant is resolved to a concrete
// renderer once at job setup, never by string matching per frame.
package render

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Static errors for style configuration.
var (
	// ErrUnknownVariant is returned when the style variant is not one of
	// the closed set.
	ErrUnknownVariant = errors.New("unknown style variant")
	// ErrInvalidStyle is returned when the style configuration fails
	// validation.
	ErrInvalidStyle = errors.New("invalid style configuration")
)

// RGB is an 8-bit-per-channel color.
type RGB struct {
	R, G, B uint8
}

// highlightOffset is added to each channel when deriving the default
// highlight color from the foreground.
const highlightOffset = 70

// Brightened returns the color with every channel raised by the given
// offset, clamped to 255.
func (c RGB) Brightened(offset int) RGB {
	clamp := func(v int) uint8 {
		if v > 255 {
			return 255
		}
		return uint8(v)
	}
	return RGB{
		R: clamp(int(c.R) + offset),
		G: clamp(int(c.G) + offset),
		B: clamp(int(c.B) + offset),
	}
}

// Named color presets, matching the configuration surface's display names.
var (
	Lime    = RGB{50, 205, 50}
	Green   = RGB{0, 128, 0}
	Blue    = RGB{0, 0, 255}
	Black   = RGB{0, 0, 0}
	White   = RGB{255, 255, 255}
	Yellow  = RGB{255, 255, 0}
	Cyan    = RGB{0, 255, 255}
	Magenta = RGB{255, 0, 255}
	Gray    = RGB{128, 128, 128}
)

// presets maps preset names to colors. The table is never mutated after
// package init.
var presets = map[string]RGB{
	"lime":    Lime,
	"green":   Green,
	"blue":    Blue,
	"black":   Black,
	"white":   White,
	"yellow":  Yellow,
	"cyan":    Cyan,
	"magenta": Magenta,
	"gray":    Gray,
}

// PresetColor looks up a named color preset.
func PresetColor(name string) (RGB, bool) {
	c, ok := presets[name]
	return c, ok
}

// PresetNames returns the available color preset names.
func PresetNames() []string {
	return []string{"lime", "green", "blue", "black", "white", "yellow", "cyan", "magenta", "gray"}
}

// Variant identifies one visual style from the closed set.
type Variant string

// The closed set of style variants.
const (
	// VariantLine plots the amplitude window as a connected line.
	VariantLine Variant = "line"
	// VariantFill draws a symmetric filled area between -|a| and +|a|.
	VariantFill Variant = "fill"
	// VariantBars draws plain vertical energy bars.
	VariantBars Variant = "bars"
	// VariantRoundedBars draws bars with rounded caps.
	VariantRoundedBars Variant = "rounded"
	// VariantCircleStack draws each bar as a stack of discs.
	VariantCircleStack Variant = "circles"
	// VariantTriangleSpike draws each bar as a triangular spike.
	VariantTriangleSpike Variant = "spikes"
	// VariantWaterfall draws bars with a vertical color gradient.
	VariantWaterfall Variant = "waterfall"
	// VariantNeonOutline draws outlined bars with a dim interior.
	VariantNeonOutline Variant = "neon"
	// VariantSymmetricBars draws bars mirrored around the vertical center.
	VariantSymmetricBars Variant = "symmetric"
	// VariantPulseBars scales bar heights with a breathing time factor.
	VariantPulseBars Variant = "pulse"
)

// Family groups variants by the feature extraction mode they consume.
type Family string

const (
	// FamilyWaveform variants consume windowed amplitude samples.
	FamilyWaveform Family = "waveform"
	// FamilyBars variants consume per-band energies.
	FamilyBars Family = "bars"
)

// Family returns the extraction family for the variant.
func (v Variant) Family() Family {
	switch v {
	case VariantLine, VariantFill:
		return FamilyWaveform
	default:
		return FamilyBars
	}
}

// IsValid reports whether the variant belongs to the closed set.
func (v Variant) IsValid() bool {
	switch v {
	case VariantLine, VariantFill, VariantBars, VariantRoundedBars,
		VariantCircleStack, VariantTriangleSpike, VariantWaterfall,
		VariantNeonOutline, VariantSymmetricBars, VariantPulseBars:
		return true
	}
	return false
}

// Variants returns all style variants.
func Variants() []Variant {
	return []Variant{
		VariantLine, VariantFill, VariantBars, VariantRoundedBars,
		VariantCircleStack, VariantTriangleSpike, VariantWaterfall,
		VariantNeonOutline, VariantSymmetricBars, VariantPulseBars,
	}
}

// StyleConfig is the immutable per-job rendering configuration. It is
// constructed once before a job starts and passed by value through the
// pipeline; nothing mutates it mid-job.
type StyleConfig struct {
	// Variant selects the rendering style.
	Variant Variant `validate:"required"`
	// Width and Height are the bitmap dimensions in pixels.
	Width  int `validate:"gt=0"`
	Height int `validate:"gt=0"`
	// FPS is the output frame rate.
	FPS int `validate:"gt=0"`
	// WindowSec is the amplitude window duration (waveform family only).
	WindowSec float64 `validate:"gte=0"`
	// Bands is the number of mel bands (bar family only).
	Bands int `validate:"gte=0"`
	// LineWidth is the stroke width for the waveform styles, in pixels.
	LineWidth int `validate:"gte=0"`
	// Foreground is the waveform/bar color.
	Foreground RGB
	// Background fills the frame before drawing.
	Background RGB
	// Highlight is used by the gradient/highlight pass. The zero value
	// selects the default: Foreground brightened by a fixed offset.
	Highlight RGB
	// Gradient enables the extra highlight/glow pass.
	Gradient bool
}

var validate = validator.New()

// Validate checks the configuration, including the family-specific
// geometry parameters.
func (c StyleConfig) Validate() error {
	if !c.Variant.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownVariant, c.Variant)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidStyle, err)
	}
	switch c.Variant.Family() {
	case FamilyWaveform:
		if c.WindowSec <= 0 {
			return fmt.Errorf("%w: window duration must be positive for %s styles", ErrInvalidStyle, FamilyWaveform)
		}
	case FamilyBars:
		if c.Bands <= 0 {
			return fmt.Errorf("%w: band count must be positive for %s styles", ErrInvalidStyle, FamilyBars)
		}
	}
	return nil
}

// HighlightColor returns the configured highlight color, or the default
// derived from the foreground when unset.
func (c StyleConfig) HighlightColor() RGB {
	if c.Highlight == (RGB{}) {
		return c.Foreground.Brightened(highlightOffset)
	}
	return c.Highlight
}
