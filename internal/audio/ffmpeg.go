package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os/exec"
)

// ffmpegDecodeRate is the sample rate ffmpeg resamples to when decoding
// formats without a native Go decoder.
const ffmpegDecodeRate = 44100

// decodeFFmpeg decodes flac/aac/m4a by piping raw signed 16-bit mono PCM
// out of an ffmpeg process.
func (d *Decoder) decodeFFmpeg(ctx context.Context, path string) (Signal, error) {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, d.ffmpegPath,
		"-i", path,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", ffmpegDecodeRate),
		"-loglevel", "error",
		"pipe:1",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return Signal{}, fmt.Errorf("ffmpeg decode cancelled: %w", ctx.Err())
		}
		return Signal{}, fmt.Errorf("ffmpeg decode %s: %w, stderr: %s", path, err, stderr.String())
	}

	raw := stdout.Bytes()
	if len(raw)%2 != 0 {
		raw = raw[:len(raw)-1]
	}

	samples := make([]float64, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
		samples[i] = float64(v) / 32768.0
	}

	return Signal{
		Samples:    samples,
		SampleRate: ffmpegDecodeRate,
	}, nil
}
