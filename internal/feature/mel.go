package feature

import "math"

// melBank is a triangular perceptual filter bank projecting linear FFT
// bins onto mel-spaced bands spanning 0 Hz to Nyquist.
type melBank struct {
	// weights is bands x (fftSize/2+1).
	weights [][]float64
}

// hzToMel converts a frequency in Hz to the mel scale.
func hzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

// melToHz converts a mel value back to Hz.
func melToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

// newMelBank builds a filter bank with the given number of bands for an
// FFT of size fftSize at the given sample rate.
func newMelBank(bands, fftSize, sampleRate int) *melBank {
	nyquist := float64(sampleRate) / 2
	numBins := fftSize/2 + 1

	// bands+2 mel points: each filter spans three consecutive points.
	points := make([]float64, bands+2)
	maxMel := hzToMel(nyquist)
	for i := range points {
		hz := melToHz(maxMel * float64(i) / float64(bands+1))
		points[i] = hz * float64(fftSize) / float64(sampleRate)
	}

	weights := make([][]float64, bands)
	for b := 0; b < bands; b++ {
		w := make([]float64, numBins)
		lo, mid, hi := points[b], points[b+1], points[b+2]
		for i := 0; i < numBins; i++ {
			f := float64(i)
			switch {
			case f <= lo || f >= hi:
				// outside the triangle
			case f <= mid:
				if mid > lo {
					w[i] = (f - lo) / (mid - lo)
				}
			default:
				if hi > mid {
					w[i] = (hi - f) / (hi - mid)
				}
			}
		}
		weights[b] = w
	}

	return &melBank{weights: weights}
}

// apply projects a power spectrum onto the mel bands.
func (m *melBank) apply(bins []float64) []float64 {
	out := make([]float64, len(m.weights))
	for b, w := range m.weights {
		sum := 0.0
		n := len(bins)
		if len(w) < n {
			n = len(w)
		}
		for i := 0; i < n; i++ {
			sum += w[i] * bins[i]
		}
		out[b] = sum
	}
	return out
}
