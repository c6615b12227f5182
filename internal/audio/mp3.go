package audio

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

// decodeMP3 decodes an MP3 file using hajimehoshi/go-mp3.
// The decoder always emits 16-bit little-endian stereo PCM.
func (d *Decoder) decodeMP3(path string) (Signal, error) {
	f, err := open(path)
	if err != nil {
		return Signal{}, err
	}
	defer func() { _ = f.Close() }()

	dec, err := gomp3.NewDecoder(f)
	if err != nil {
		return Signal{}, fmt.Errorf("decode mp3 %s: %w", path, err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return Signal{}, fmt.Errorf("decode mp3 %s: %w", path, err)
	}

	// 4 bytes per stereo frame: L int16, R int16.
	frames := len(raw) / 4
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		l := int16(uint16(raw[i*4]) | uint16(raw[i*4+1])<<8)
		r := int16(uint16(raw[i*4+2]) | uint16(raw[i*4+3])<<8)
		mono[i] = (float64(l) + float64(r)) / 2 / 32768.0
	}

	return Signal{
		Samples:    mono,
		SampleRate: dec.SampleRate(),
	}, nil
}
