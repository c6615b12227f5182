package audio

import (
	"fmt"

	"github.com/go-audio/wav"
)

// decodeWAV decodes a RIFF/WAVE file using go-audio/wav.
func (d *Decoder) decodeWAV(path string) (Signal, error) {
	f, err := open(path)
	if err != nil {
		return Signal{}, err
	}
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Signal{}, fmt.Errorf("decode wav %s: invalid file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Signal{}, fmt.Errorf("decode wav %s: %w", path, err)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(dec.BitDepth)
	}
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	interleaved := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		interleaved[i] = float64(v) / scale
	}

	return Signal{
		Samples:    downmix(interleaved, buf.Format.NumChannels),
		SampleRate: buf.Format.SampleRate,
	}, nil
}
