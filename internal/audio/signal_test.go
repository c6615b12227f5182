package audio

import (
	"math"
	"testing"
)

func TestSignalDuration(t *testing.T) {
	tests := []struct {
		name string
		sig  Signal
		want float64
	}{
		{"3 seconds at 44100", Signal{Samples: make([]float64, 132300), SampleRate: 44100}, 3.0},
		{"empty signal", Signal{SampleRate: 44100}, 0},
		{"zero sample rate", Signal{Samples: make([]float64, 100)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sig.Duration(); got != tt.want {
				t.Errorf("Duration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSignalEmpty(t *testing.T) {
	if !(Signal{}).Empty() {
		t.Error("zero-value signal should be empty")
	}
	sig := Signal{Samples: []float64{0.1}, SampleRate: 8000}
	if sig.Empty() {
		t.Error("signal with samples should not be empty")
	}
}

func TestSignalNormalized(t *testing.T) {
	sig := Signal{Samples: []float64{0.1, -0.5, 0.25}, SampleRate: 8000}
	norm := sig.Normalized()

	if got := norm.Peak(); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("normalized peak = %v, want 1.0", got)
	}
	// Original must be untouched.
	if sig.Samples[1] != -0.5 {
		t.Error("Normalized mutated the source signal")
	}
	// Relative shape preserved.
	if math.Abs(norm.Samples[0]-0.2) > 1e-12 {
		t.Errorf("normalized sample = %v, want 0.2", norm.Samples[0])
	}
}

func TestSignalNormalizedSilence(t *testing.T) {
	sig := Signal{Samples: make([]float64, 1000), SampleRate: 8000}
	norm := sig.Normalized()
	for i, v := range norm.Samples {
		if v != 0 {
			t.Fatalf("silent signal sample %d = %v after normalization, want 0", i, v)
		}
	}
}

func TestDownmix(t *testing.T) {
	stereo := []float64{1, 0, 0.5, 0.5, -1, 1}
	mono := downmix(stereo, 2)

	want := []float64{0.5, 0.5, 0}
	if len(mono) != len(want) {
		t.Fatalf("downmix produced %d samples, want %d", len(mono), len(want))
	}
	for i := range want {
		if math.Abs(mono[i]-want[i]) > 1e-12 {
			t.Errorf("mono[%d] = %v, want %v", i, mono[i], want[i])
		}
	}
}
