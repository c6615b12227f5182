package feature

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/musevid/musevid/internal/audio"
)

const (
	// fftSize is the fixed STFT analysis window length in samples.
	fftSize = 2048
	// dbFloor clamps band energies this far below the track peak.
	dbFloor = -80.0
)

// SpectralSampler extracts mel band energies for the bar styles. Each
// output frame is one STFT column: a Hann-windowed 2048-sample slice
// centered at k*hop with hop = round(sampleRate/fps), projected onto a
// triangular mel filter bank, converted to dB relative to the track peak
// and normalized into [0,1] across the entire feature matrix.
type SpectralSampler struct {
	fps   int
	bands int
}

// NewSpectralSampler creates a mel band energy sampler.
func NewSpectralSampler(fps, bands int) *SpectralSampler {
	return &SpectralSampler{fps: fps, bands: bands}
}

// Extract implements Extractor.
func (s *SpectralSampler) Extract(sig audio.Signal) ([]Frame, error) {
	duration := sig.Duration()
	if duration == 0 {
		return nil, ErrEmptySignal
	}

	hop := int(math.Round(float64(sig.SampleRate) / float64(s.fps)))
	if hop == 0 {
		return nil, ErrDegenerateWindow
	}

	total := TotalFrames(duration, s.fps)
	bank := newMelBank(s.bands, fftSize, sig.SampleRate)
	window := hannWindow(fftSize)

	// Band power matrix, frames x bands.
	power := make([][]float64, total)
	peak := 0.0
	buf := make([]float64, fftSize)

	for k := 0; k < total; k++ {
		center := k * hop
		windowedSlice(sig.Samples, center, window, buf)

		spectrum := fft.FFTReal(buf)

		// Positive frequencies only, squared magnitude.
		bins := make([]float64, fftSize/2+1)
		for i := range bins {
			m := cmplx.Abs(spectrum[i])
			bins[i] = m * m
		}

		power[k] = bank.apply(bins)
		for _, p := range power[k] {
			if p > peak {
				peak = p
			}
		}
	}

	frames := make([]Frame, total)

	if peak == 0 {
		// Entirely silent signal: a defined all-zero matrix, never NaN.
		for k := range frames {
			frames[k] = Frame{Index: k, Values: make([]float64, s.bands)}
		}
		return frames, nil
	}

	// dB relative to the track peak, then global min/max normalization.
	minDB, maxDB := 0.0, dbFloor
	db := make([][]float64, total)
	for k := range power {
		db[k] = make([]float64, s.bands)
		for b, p := range power[k] {
			v := dbFloor
			if p > 0 {
				v = math.Max(10*math.Log10(p/peak), dbFloor)
			}
			db[k][b] = v
			if v < minDB {
				minDB = v
			}
			if v > maxDB {
				maxDB = v
			}
		}
	}

	span := maxDB - minDB
	for k := range db {
		values := make([]float64, s.bands)
		if span > 0 {
			for b, v := range db[k] {
				values[b] = (v - minDB) / span
			}
		}
		frames[k] = Frame{Index: k, Values: values}
	}

	return frames, nil
}

// windowedSlice fills dst with the Hann-windowed signal slice centered at
// center; samples outside the signal are zero.
func windowedSlice(samples []float64, center int, window, dst []float64) {
	half := len(dst) / 2
	start := center - half
	for i := range dst {
		idx := start + i
		if idx >= 0 && idx < len(samples) {
			dst[i] = samples[idx] * window[i]
		} else {
			dst[i] = 0
		}
	}
}

// hannWindow returns an N-point Hann window.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

var _ Extractor = (*SpectralSampler)(nil)
