package audio

import (
	"fmt"

	"github.com/jfreymuth/oggvorbis"
)

// decodeVorbis decodes an Ogg/Vorbis file using jfreymuth/oggvorbis.
func (d *Decoder) decodeVorbis(path string) (Signal, error) {
	f, err := open(path)
	if err != nil {
		return Signal{}, err
	}
	defer func() { _ = f.Close() }()

	data, format, err := oggvorbis.ReadAll(f)
	if err != nil {
		return Signal{}, fmt.Errorf("decode ogg %s: %w", path, err)
	}

	interleaved := make([]float64, len(data))
	for i, v := range data {
		interleaved[i] = float64(v)
	}

	return Signal{
		Samples:    downmix(interleaved, format.Channels),
		SampleRate: format.SampleRate,
	}, nil
}
