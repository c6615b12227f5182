package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/musevid/musevid/internal/feature"
	"github.com/musevid/musevid/internal/job"
	"github.com/musevid/musevid/internal/render"
	"github.com/musevid/musevid/internal/storage"
)

// progressEverySec is how often the render loop reports, in output video
// seconds.
const progressEverySec = 5

// Runner executes one visualization job end to end. Errors never cross
// the job boundary: the runner reports them through the sink, records
// them on the job, and returns them for the batch layer to tally.
type Runner struct {
	decoder AudioDecoder
	opener  EncoderOpener
	muxer   AudioMuxer
	store   storage.Storage
	repo    job.Repository
	logger  *slog.Logger

	sink    Sink
	workers int
	upload  bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithSink installs the progress callback.
func WithSink(s Sink) Option {
	return func(r *Runner) { r.sink = s }
}

// WithWorkers sets the render worker count. Zero means one per CPU.
func WithWorkers(n int) Option {
	return func(r *Runner) { r.workers = n }
}

// WithUpload enables uploading the finished video through the storage
// backend. Skipped with a warning when S3 is not configured.
func WithUpload(enabled bool) Option {
	return func(r *Runner) { r.upload = enabled }
}

// NewRunner creates a Runner with the given collaborators.
func NewRunner(
	decoder AudioDecoder,
	opener EncoderOpener,
	muxer AudioMuxer,
	store storage.Storage,
	repo job.Repository,
	logger *slog.Logger,
	opts ...Option,
) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		decoder: decoder,
		opener:  opener,
		muxer:   muxer,
		store:   store,
		repo:    repo,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the job: decode, extract, render+encode, mux, cleanup.
// The scratch file is removed on every exit path; cleanup failures are
// logged as warnings and never escalated.
func (r *Runner) Run(ctx context.Context, j *job.VideoJob) error {
	if err := j.Start(); err != nil {
		return err
	}
	r.save(ctx, j)
	r.notify("processing %s", filepath.Base(j.InputAudioPath))

	sig, err := r.decoder.Decode(ctx, j.InputAudioPath)
	if err != nil {
		return r.fail(ctx, j, fmt.Errorf("decode audio: %w", err))
	}

	frames, err := ExtractorFor(j.Style).Extract(sig)
	if err != nil {
		return r.fail(ctx, j, fmt.Errorf("extract features: %w", err))
	}
	if len(frames) == 0 {
		return r.fail(ctx, j, fmt.Errorf("extract features: %w", feature.ErrEmptySignal))
	}
	j.SetTotalFrames(len(frames))
	r.save(ctx, j)
	r.notify("extracted %d frames (%.1fs of audio)", len(frames), sig.Duration())

	renderer, err := render.New(j.Style)
	if err != nil {
		return r.fail(ctx, j, fmt.Errorf("resolve style: %w", err))
	}

	scratch, err := r.store.ScratchFile(ctx, "silent_*.mp4")
	if err != nil {
		return r.fail(ctx, j, fmt.Errorf("reserve scratch file: %w", err))
	}
	defer r.cleanup(j, scratch)

	enc, err := r.opener(ctx, scratch, j.Style)
	if err != nil {
		return r.fail(ctx, j, fmt.Errorf("open scratch writer: %w", err))
	}

	if err := r.renderAll(ctx, j, frames, renderer, enc); err != nil {
		_, _ = enc.Close()
		return r.fail(ctx, j, err)
	}

	written, err := enc.Close()
	if err != nil {
		return r.fail(ctx, j, fmt.Errorf("finish scratch video: %w", err))
	}
	if written != len(frames) {
		return r.fail(ctx, j, fmt.Errorf("scratch video has %d frames, want %d", written, len(frames)))
	}

	r.notify("muxing audio into %s", filepath.Base(j.OutputVideoPath))
	if err := r.muxer.Mux(ctx, scratch, j.InputAudioPath, j.OutputVideoPath); err != nil {
		return r.fail(ctx, j, fmt.Errorf("mux: %w", err))
	}

	r.uploadIfConfigured(ctx, j)

	if err := j.Complete(); err != nil {
		return err
	}
	j.UpdateProgress(100)
	r.save(ctx, j)
	r.notify("finished %s", filepath.Base(j.OutputVideoPath))
	return nil
}

// renderAll renders frames across a worker pool and hands them to the
// encoder in strictly increasing index order. Rendering is pure, so the
// pool order does not affect the output.
func (r *Runner) renderAll(ctx context.Context, j *job.VideoJob, frames []feature.Frame, renderer render.Renderer, enc FrameWriter) error {
	workers := r.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(frames) {
		workers = len(frames)
	}

	type result struct {
		index int
		bmp   *render.Bitmap
		err   error
	}

	in := make(chan feature.Frame)
	out := make(chan result, workers)
	done := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range in {
				bmp, err := renderer.Render(f)
				select {
				case out <- result{index: f.Index, bmp: bmp, err: err}:
				case <-done:
					return
				}
			}
		}()
	}

	go func() {
		defer close(in)
		for _, f := range frames {
			select {
			case in <- f:
			case <-done:
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	interval := j.Style.FPS * progressEverySec
	if interval <= 0 {
		interval = 1
	}

	pending := make(map[int]*render.Bitmap)
	next := 0
	var firstErr error

	for res := range out {
		if firstErr != nil {
			continue // drain so the workers can exit
		}
		if res.err != nil {
			firstErr = fmt.Errorf("render frame %d: %w", res.index, res.err)
			close(done)
			continue
		}
		pending[res.index] = res.bmp

		for {
			bmp, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if err := enc.WriteFrame(next, bmp); err != nil {
				firstErr = fmt.Errorf("encode frame %d: %w", next, err)
				close(done)
				break
			}
			next++
			if next%interval == 0 && next < len(frames) {
				j.UpdateProgress(next * 100 / len(frames))
				r.save(ctx, j)
				r.notify("rendered %d/%d frames", next, len(frames))
			}
		}
	}

	return firstErr
}

// uploadIfConfigured pushes the finished video through the storage
// backend. Missing S3 configuration downgrades to a warning.
func (r *Runner) uploadIfConfigured(ctx context.Context, j *job.VideoJob) {
	if !r.upload {
		return
	}

	rc, err := r.store.LoadTemp(ctx, j.OutputVideoPath)
	if err != nil {
		r.logger.Warn("skipping upload, cannot open finished video",
			slog.String("job_id", j.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	defer func() { _ = rc.Close() }()

	url, err := r.store.UploadToS3(ctx, filepath.Base(j.OutputVideoPath), rc)
	if err != nil {
		if errors.Is(err, storage.ErrS3NotConfigured) {
			r.logger.Warn("upload requested but S3 is not configured",
				slog.String("job_id", j.ID))
			return
		}
		r.logger.Warn("upload failed",
			slog.String("job_id", j.ID),
			slog.String("error", err.Error()),
		)
		return
	}
	j.SetVideoURL(url)
	r.notify("uploaded %s", url)
}

// fail records the error on the job, reports it through the sink and
// returns it for the batch layer. The error stops this job only.
func (r *Runner) fail(ctx context.Context, j *job.VideoJob, err error) error {
	r.notify("error: %v", err)
	if ferr := j.Fail(err.Error()); ferr != nil {
		r.logger.Warn("could not mark job failed",
			slog.String("job_id", j.ID),
			slog.String("error", ferr.Error()),
		)
	}
	r.save(ctx, j)
	return err
}

// cleanup removes the scratch file. Best-effort: a locked or missing
// file is a warning, never a job failure.
func (r *Runner) cleanup(j *job.VideoJob, scratch string) {
	// Cleanup must run even when the job context is already cancelled.
	if err := r.store.CleanupTemp(context.Background(), []string{scratch}); err != nil {
		r.logger.Warn("scratch cleanup failed",
			slog.String("job_id", j.ID),
			slog.String("path", scratch),
			slog.String("error", err.Error()),
		)
	}
}

func (r *Runner) save(ctx context.Context, j *job.VideoJob) {
	if r.repo == nil {
		return
	}
	if err := r.repo.Save(ctx, j); err != nil {
		r.logger.Warn("could not persist job state",
			slog.String("job_id", j.ID),
			slog.String("error", err.Error()),
		)
	}
}

// notify invokes the sink with a formatted line. The recover guard keeps
// a misbehaving sink from taking the worker down.
func (r *Runner) notify(format string, args ...any) {
	if r.sink == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("progress sink panicked", slog.Any("panic", rec))
		}
	}()
	r.sink(fmt.Sprintf(format, args...))
}
