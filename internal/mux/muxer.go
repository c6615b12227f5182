// Package mux combines the scratch silent video with the original audio
// file into the final deliverable container by invoking ffmpeg.
package mux

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// MuxError represents a non-zero exit of the external muxing process,
// carrying the exit code and the captured diagnostic output.
type MuxError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *MuxError) Error() string {
	return fmt.Sprintf("mux error (exit %d): %v\nargs: %v\nstderr: %s",
		e.ExitCode, e.Err, e.Args, e.Stderr)
}

func (e *MuxError) Unwrap() error {
	return e.Err
}

// Muxer invokes the external encoding process.
type Muxer struct {
	ffmpegPath string
}

// NewMuxer creates a Muxer. If ffmpegPath is empty, it defaults to
// "ffmpeg" (found via PATH).
func NewMuxer(ffmpegPath string) *Muxer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Muxer{ffmpegPath: ffmpegPath}
}

// buildArgs constructs the mux invocation: video stream copied, audio
// re-encoded to AAC, output trimmed to the shortest input stream.
func buildArgs(videoPath, audioPath, outPath string) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", "aac",
		"-shortest",
		"-loglevel", "error",
		outPath,
	}
}

// Mux merges the silent video and the audio file into outPath, creating
// the parent directory if absent. The call blocks until the external
// process exits; a non-zero exit yields a *MuxError.
func (m *Muxer) Mux(ctx context.Context, videoPath, audioPath, outPath string) error {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	args := buildArgs(videoPath, audioPath, outPath)
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, m.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("mux cancelled: %w", ctx.Err())
		}
		exitCode := -1
		if cmd.ProcessState != nil {
			exitCode = cmd.ProcessState.ExitCode()
		}
		return &MuxError{
			Args:     args,
			ExitCode: exitCode,
			Stderr:   stderr.String(),
			Err:      err,
		}
	}
	return nil
}

// CheckFFmpeg verifies the ffmpeg binary is callable. Used before a batch
// starts so the failure surfaces once instead of per file.
func (m *Muxer) CheckFFmpeg(ctx context.Context) error {
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, m.ffmpegPath, "-version")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg not available at %q: %w", m.ffmpegPath, err)
	}
	return nil
}
