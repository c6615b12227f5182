package feature

import (
	"math"

	"github.com/musevid/musevid/internal/audio"
)

// WindowSampler extracts raw amplitude windows for the waveform styles.
// Frame k's window starts at sample round(k/fps * sampleRate) and spans
// windowSec seconds; samples past the end of the signal are zero-filled so
// the final frames taper to silence instead of truncating early.
type WindowSampler struct {
	fps       int
	windowSec float64
}

// NewWindowSampler creates a windowed amplitude sampler.
func NewWindowSampler(fps int, windowSec float64) *WindowSampler {
	return &WindowSampler{fps: fps, windowSec: windowSec}
}

// Extract implements Extractor.
func (s *WindowSampler) Extract(sig audio.Signal) ([]Frame, error) {
	duration := sig.Duration()
	if duration == 0 {
		return nil, ErrEmptySignal
	}

	windowLen := int(math.Round(s.windowSec * float64(sig.SampleRate)))
	if windowLen == 0 {
		return nil, ErrDegenerateWindow
	}

	total := TotalFrames(duration, s.fps)
	frames := make([]Frame, 0, total)

	for k := 0; k < total; k++ {
		start := int(math.Round(float64(k) / float64(s.fps) * float64(sig.SampleRate)))
		values := make([]float64, windowLen)

		if start < len(sig.Samples) {
			copy(values, sig.Samples[start:])
		}

		frames = append(frames, Frame{Index: k, Values: values})
	}

	return frames, nil
}

var _ Extractor = (*WindowSampler)(nil)
