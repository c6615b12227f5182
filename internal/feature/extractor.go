// Package feature converts an audio signal into the ordered sequence of
// per-frame feature vectors that drive the renderer. Two extraction modes
// exist: a windowed amplitude sampler for the waveform styles and a mel
// band energy sampler for the bar styles.
package feature

import (
	"errors"

	"github.com/musevid/musevid/internal/audio"
)

// Static errors for feature extraction.
var (
	// ErrEmptySignal is returned when the input signal has zero duration.
	ErrEmptySignal = errors.New("audio signal has zero duration")
	// ErrDegenerateWindow is returned when the computed analysis window
	// length is zero (misconfigured fps, window duration or sample rate).
	ErrDegenerateWindow = errors.New("computed analysis window is empty")
)

// Frame is the numeric summary of the audio for one output video frame.
// Its implicit timestamp is Index/fps.
type Frame struct {
	// Index is the output frame number, starting at 0.
	Index int
	// Values is the feature vector: windowed amplitude samples or one
	// energy value per mel band. Its length is constant within a job.
	Values []float64
}

// Extractor produces the full ordered frame sequence for a signal.
type Extractor interface {
	// Extract returns exactly TotalFrames(duration, fps) frames in
	// increasing index order.
	Extract(sig audio.Signal) ([]Frame, error)
}

// TotalFrames returns the number of video frames for a signal duration at
// the given frame rate: floor(duration * fps).
func TotalFrames(duration float64, fps int) int {
	return int(duration * float64(fps))
}
