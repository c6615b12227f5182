// Package bootstrap provides dependency initialization for musevid.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/musevid/musevid/internal/audio"
	"github.com/musevid/musevid/internal/config"
	"github.com/musevid/musevid/internal/encode"
	"github.com/musevid/musevid/internal/job"
	"github.com/musevid/musevid/internal/mux"
	"github.com/musevid/musevid/internal/pipeline"
	"github.com/musevid/musevid/internal/render"
	"github.com/musevid/musevid/internal/storage"
)

// Dependencies holds all initialized collaborators for a batch run.
type Dependencies struct {
	Runner *pipeline.Runner
	Batch  *pipeline.Batch
	Muxer  *mux.Muxer
	Repo   job.Repository
}

// NewDependencies creates and wires all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger, sink pipeline.Sink) (*Dependencies, error) {
	store, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	decoder := audio.NewDecoder(cfg.FFmpegPath)
	muxer := mux.NewMuxer(cfg.FFmpegPath)
	repo := job.NewMemoryRepository()

	opener := func(ctx context.Context, outPath string, style render.StyleConfig) (pipeline.FrameWriter, error) {
		return encode.Open(ctx, cfg.FFmpegPath, outPath, style.Width, style.Height, style.FPS)
	}

	runner := pipeline.NewRunner(decoder, opener, muxer, store, repo, logger,
		pipeline.WithSink(sink),
		pipeline.WithWorkers(cfg.RenderWorkers),
		pipeline.WithUpload(cfg.S3Enabled()),
	)

	return &Dependencies{
		Runner: runner,
		Batch:  pipeline.NewBatch(runner, repo, logger),
		Muxer:  muxer,
		Repo:   repo,
	}, nil
}

// initStorage creates the appropriate storage backend based on configuration.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Storage(cfg.TempDir, s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.TempDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local storage configured",
		slog.String("temp_dir", cfg.TempDir),
	)
	return localStore, nil
}
