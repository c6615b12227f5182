// Package pipeline orchestrates one visualization job from decoded audio
// to the final muxed video, and runs batches of jobs one at a time. The
// collaborators are injected as ports so the sequencing logic stays
// independent of ffmpeg and the filesystem.
package pipeline

import (
	"context"

	"github.com/musevid/musevid/internal/audio"
	"github.com/musevid/musevid/internal/encode"
	"github.com/musevid/musevid/internal/feature"
	"github.com/musevid/musevid/internal/render"
)

// Sink receives human-readable progress lines. The sink belongs to the
// caller and may disappear mid-job; the runner guards every invocation so
// a panicking sink never kills the job. Sinks must not block.
type Sink func(msg string)

// AudioDecoder turns an input file into a normalized signal.
type AudioDecoder interface {
	Decode(ctx context.Context, path string) (audio.Signal, error)
}

// FrameWriter accepts rendered frames in strict index order and finishes
// the scratch video on Close.
type FrameWriter interface {
	WriteFrame(index int, f encode.Frame) error
	Close() (int, error)
}

// EncoderOpener starts a scratch video writer for the job geometry.
type EncoderOpener func(ctx context.Context, outPath string, cfg render.StyleConfig) (FrameWriter, error)

// AudioMuxer combines the scratch video with the original audio file.
type AudioMuxer interface {
	Mux(ctx context.Context, videoPath, audioPath, outPath string) error
}

// ExtractorFor selects the extraction strategy for a style: waveform
// variants consume windowed amplitude samples, bar variants consume mel
// band energies.
func ExtractorFor(cfg render.StyleConfig) feature.Extractor {
	if cfg.Variant.Family() == render.FamilyWaveform {
		return feature.NewWindowSampler(cfg.FPS, cfg.WindowSec)
	}
	return feature.NewSpectralSampler(cfg.FPS, cfg.Bands)
}
