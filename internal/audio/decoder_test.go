package audio

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeTestWAV writes a mono 16-bit WAV file containing a 440 Hz sine.
func writeTestWAV(t *testing.T, path string, sampleRate int, seconds float64) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	defer func() { _ = f.Close() }()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	n := int(seconds * float64(sampleRate))
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, n),
	}
	for i := 0; i < n; i++ {
		v := 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate))
		buf.Data[i] = int(v * 32767)
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close wav: %v", err)
	}
}

func TestDecodeWAV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	writeTestWAV(t, path, 22050, 1.0)

	dec := NewDecoder("")
	sig, err := dec.Decode(context.Background(), path)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if sig.SampleRate != 22050 {
		t.Errorf("sample rate = %d, want 22050", sig.SampleRate)
	}
	if got := sig.Duration(); math.Abs(got-1.0) > 0.01 {
		t.Errorf("duration = %v, want ~1.0", got)
	}
	// Decode normalizes the peak to 1.0.
	if got := sig.Peak(); math.Abs(got-1.0) > 1e-6 {
		t.Errorf("peak = %v, want 1.0", got)
	}
}

func TestDecodeUnsupportedExtension(t *testing.T) {
	dec := NewDecoder("")
	_, err := dec.Decode(context.Background(), "song.xyz")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDecodeCorruptWAV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.wav")
	if err := os.WriteFile(path, []byte("not a wav file at all"), 0600); err != nil {
		t.Fatal(err)
	}

	dec := NewDecoder("")
	if _, err := dec.Decode(context.Background(), path); err == nil {
		t.Error("expected error decoding corrupt wav")
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"track.wav", true},
		{"track.MP3", true},
		{"track.flac", true},
		{"track.aac", true},
		{"track.m4a", true},
		{"track.ogg", true},
		{"track.txt", false},
		{"track", false},
	}

	for _, tt := range tests {
		if got := IsSupported(tt.path); got != tt.want {
			t.Errorf("IsSupported(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
