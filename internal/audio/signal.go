// Package audio provides the decoded audio signal type and the decoders
// that produce it from files on disk.
package audio

import (
	"errors"
	"math"
)

// Static errors for audio decoding.
var (
	// ErrUnsupportedFormat is returned when no decoder handles the file extension.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrNoAudioData is returned when a file decodes to zero samples.
	ErrNoAudioData = errors.New("no audio data in file")
)

// Signal is a decoded, mono audio signal with samples normalized to [-1, 1].
// The visualization core only reads it; ownership stays with the caller.
type Signal struct {
	// Samples are mono float samples in [-1, 1].
	Samples []float64
	// SampleRate is the number of samples per second.
	SampleRate int
}

// Duration returns the signal length in seconds.
func (s Signal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// Empty reports whether the signal carries no audio.
func (s Signal) Empty() bool {
	return len(s.Samples) == 0 || s.SampleRate <= 0
}

// Peak returns the maximum absolute sample value.
func (s Signal) Peak() float64 {
	peak := 0.0
	for _, v := range s.Samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// Normalized returns a copy of the signal scaled so its peak is 1.0.
// A silent signal is returned unchanged.
func (s Signal) Normalized() Signal {
	peak := s.Peak()
	out := Signal{
		Samples:    make([]float64, len(s.Samples)),
		SampleRate: s.SampleRate,
	}
	if peak == 0 {
		copy(out.Samples, s.Samples)
		return out
	}
	for i, v := range s.Samples {
		out.Samples[i] = v / peak
	}
	return out
}

// downmix averages interleaved multi-channel samples into mono.
func downmix(interleaved []float64, channels int) []float64 {
	if channels <= 1 {
		return interleaved
	}
	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}
