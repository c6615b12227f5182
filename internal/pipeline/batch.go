package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/musevid/musevid/internal/audio"
	"github.com/musevid/musevid/internal/job"
	"github.com/musevid/musevid/internal/render"
)

// Summary tallies the outcome of a batch run.
type Summary struct {
	Completed int
	Failed    int
	Cancelled int
	// Jobs holds a clone of every job in batch order.
	Jobs []*job.VideoJob
}

// Batch processes a list of input files one at a time. One corrupt file
// never affects the others; cancellation is honored only between files,
// so a started job always runs to completion or failure.
type Batch struct {
	runner *Runner
	repo   job.Repository
	logger *slog.Logger
}

// NewBatch creates a Batch around the given runner. The repository is
// the same one the runner persists into; the batch reads the final job
// states back from it.
func NewBatch(runner *Runner, repo job.Repository, logger *slog.Logger) *Batch {
	if logger == nil {
		logger = slog.Default()
	}
	return &Batch{runner: runner, repo: repo, logger: logger}
}

// Run processes every input sequentially, writing outputs into outDir.
// It returns a summary; per-file errors are recorded on the jobs, not
// returned. Summary entries are the persisted job records, so the
// summary reflects exactly what the repository holds.
func (b *Batch) Run(ctx context.Context, inputs []string, outDir string, style render.StyleConfig) Summary {
	var sum Summary

	for _, input := range inputs {
		j := job.New(input, filepath.Join(outDir, OutputName(input, style.Variant)), style)

		if ctx.Err() != nil {
			_ = j.Cancel()
			sum.Cancelled++
			// The record must outlive the cancelled context.
			b.save(context.Background(), j)
			sum.Jobs = append(sum.Jobs, b.persisted(j))
			continue
		}

		if err := b.runner.Run(ctx, j); err != nil {
			sum.Failed++
			b.logger.Error("job failed",
				slog.String("job_id", j.ID),
				slog.String("input", input),
				slog.String("error", err.Error()),
			)
		} else {
			sum.Completed++
			b.logger.Info("job completed",
				slog.String("job_id", j.ID),
				slog.String("output", j.OutputVideoPath),
			)
		}
		sum.Jobs = append(sum.Jobs, b.persisted(j))
	}

	b.report(sum)
	return sum
}

// save persists a job the runner never saw, such as a cancelled one.
func (b *Batch) save(ctx context.Context, j *job.VideoJob) {
	if b.repo == nil {
		return
	}
	if err := b.repo.Save(ctx, j); err != nil {
		b.logger.Warn("could not persist job state",
			slog.String("job_id", j.ID),
			slog.String("error", err.Error()),
		)
	}
}

// persisted reads the job back from the repository, falling back to the
// in-memory state when the repository is absent or missing the record.
func (b *Batch) persisted(j *job.VideoJob) *job.VideoJob {
	if b.repo == nil {
		return j.Clone()
	}
	rec, err := b.repo.FindByID(context.Background(), j.ID)
	if err != nil {
		b.logger.Warn("job missing from repository",
			slog.String("job_id", j.ID),
			slog.String("error", err.Error()),
		)
		return j.Clone()
	}
	return rec
}

// report logs the per-job outcome from the persisted records, then the
// batch totals.
func (b *Batch) report(sum Summary) {
	if b.repo != nil {
		if jobs, err := b.repo.List(context.Background()); err == nil {
			for _, j := range jobs {
				b.logger.Info("job report",
					slog.String("job_id", j.ID),
					slog.String("input", j.InputAudioPath),
					slog.String("status", string(j.Status)),
					slog.Int("progress", j.Progress),
				)
			}
		}
	}
	b.logger.Info("all files processed",
		slog.Int("completed", sum.Completed),
		slog.Int("failed", sum.Failed),
		slog.Int("cancelled", sum.Cancelled),
	)
}

// OutputName derives the output file name for an input: the input base
// name with the style variant appended, always an .mp4 container.
func OutputName(input string, variant render.Variant) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_%s.mp4", base, variant)
}

// CollectInputs resolves a path into the list of audio files to process.
// A file path yields itself; a directory yields its supported audio
// files in lexical order, non-recursively.
func CollectInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}

	if !info.IsDir() {
		if !audio.IsSupported(path) {
			return nil, fmt.Errorf("%w: %s", audio.ErrUnsupportedFormat, filepath.Ext(path))
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var inputs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if audio.IsSupported(e.Name()) {
			inputs = append(inputs, filepath.Join(path, e.Name()))
		}
	}
	return inputs, nil
}
