package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SupportedExtensions lists the audio file extensions the decoder accepts.
var SupportedExtensions = []string{".wav", ".mp3", ".flac", ".aac", ".m4a", ".ogg"}

// IsSupported reports whether the file's extension is a known audio format.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Decoder turns audio files into mono, peak-normalized Signals.
// WAV, MP3 and OGG are decoded natively; the remaining formats fall back
// to an ffmpeg PCM pipe.
type Decoder struct {
	ffmpegPath string
}

// NewDecoder creates a Decoder. If ffmpegPath is empty, it defaults to
// "ffmpeg" (found via PATH).
func NewDecoder(ffmpegPath string) *Decoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Decoder{ffmpegPath: ffmpegPath}
}

// Decode reads and decodes the audio file at path into a mono Signal with
// its peak normalized to 1.0. Returns ErrUnsupportedFormat for unknown
// extensions and ErrNoAudioData for files that decode to zero samples.
func (d *Decoder) Decode(ctx context.Context, path string) (Signal, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		sig Signal
		err error
	)
	switch ext {
	case ".wav":
		sig, err = d.decodeWAV(path)
	case ".mp3":
		sig, err = d.decodeMP3(path)
	case ".ogg":
		sig, err = d.decodeVorbis(path)
	case ".flac", ".aac", ".m4a":
		sig, err = d.decodeFFmpeg(ctx, path)
	default:
		return Signal{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return Signal{}, err
	}

	if sig.Empty() {
		return Signal{}, fmt.Errorf("%w: %s", ErrNoAudioData, filepath.Base(path))
	}

	return sig.Normalized(), nil
}

// open wraps os.Open with a decode-scoped error message.
func open(path string) (*os.File, error) {
	f, err := os.Open(path) // #nosec G304 - path comes from the caller's own file listing
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	return f, nil
}
