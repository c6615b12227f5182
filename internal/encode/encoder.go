// Package encode streams rendered bitmaps into a silent video container.
// Frames are piped as raw rgb24 into an ffmpeg process in a single forward
// pass; no random access is required or supported.
package encode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// Static errors for the encoder.
var (
	// ErrEncoderClosed is returned when writing after Close.
	ErrEncoderClosed = errors.New("encoder is closed")
	// ErrFrameOutOfOrder is returned when a frame index does not follow
	// the previous one.
	ErrFrameOutOfOrder = errors.New("frame index out of order")
	// ErrFrameSize is returned when a bitmap does not match the
	// configured dimensions.
	ErrFrameSize = errors.New("frame size mismatch")
)

// EncodeError represents a failure of the scratch video writer, including
// the ffmpeg invocation and its captured stderr.
type EncodeError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode error: %v\nargs: %v\nstderr: %s", e.Err, e.Args, e.Stderr)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// Frame is the minimal surface the encoder needs from a rendered bitmap.
type Frame interface {
	// Bytes returns the rgb24 pixel data, 3 bytes per pixel, row-major.
	Bytes() []byte
}

// Encoder writes rgb24 frames at a fixed rate into a scratch silent video.
// Frames must arrive in strictly increasing index order starting at 0.
type Encoder struct {
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stderr    *bytes.Buffer
	args      []string
	frameSize int
	next      int
	closed    bool
}

// buildArgs constructs the ffmpeg invocation for the scratch writer. The
// pad filter forces even output dimensions for the H.264/yuv420p encode.
func buildArgs(width, height, fps int, outPath string) []string {
	return []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgb24",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", "pipe:0",
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		outPath,
	}
}

// Open starts the scratch writer process. If ffmpegPath is empty it
// defaults to "ffmpeg". Returns *EncodeError when the writer cannot be
// opened.
func Open(ctx context.Context, ffmpegPath, outPath string, width, height, fps int) (*Encoder, error) {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if width <= 0 || height <= 0 || fps <= 0 {
		return nil, &EncodeError{Err: fmt.Errorf("invalid geometry %dx%d@%d", width, height, fps)}
	}

	args := buildArgs(width, height, fps, outPath)
	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &EncodeError{Args: args, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &EncodeError{Args: args, Stderr: stderr.String(), Err: err}
	}

	return &Encoder{
		cmd:       cmd,
		stdin:     stdin,
		stderr:    &stderr,
		args:      args,
		frameSize: width * height * 3,
	}, nil
}

// WriteFrame appends one frame. The index must be exactly one past the
// previously written frame (starting at 0).
func (e *Encoder) WriteFrame(index int, f Frame) error {
	if e.closed {
		return ErrEncoderClosed
	}
	if index != e.next {
		return fmt.Errorf("%w: got %d, want %d", ErrFrameOutOfOrder, index, e.next)
	}
	data := f.Bytes()
	if len(data) != e.frameSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrFrameSize, len(data), e.frameSize)
	}

	if _, err := e.stdin.Write(data); err != nil {
		return &EncodeError{Args: e.args, Stderr: e.stderrString(), Err: err}
	}
	e.next++
	return nil
}

// FramesWritten returns the number of frames accepted so far.
func (e *Encoder) FramesWritten() int {
	return e.next
}

// Close finishes the stream and waits for the writer process to exit.
// It returns the total frame count written.
func (e *Encoder) Close() (int, error) {
	if e.closed {
		return e.next, nil
	}
	e.closed = true

	if err := e.stdin.Close(); err != nil {
		return e.next, &EncodeError{Args: e.args, Stderr: e.stderrString(), Err: err}
	}
	if e.cmd != nil {
		if err := e.cmd.Wait(); err != nil {
			return e.next, &EncodeError{Args: e.args, Stderr: e.stderrString(), Err: err}
		}
	}
	return e.next, nil
}

func (e *Encoder) stderrString() string {
	if e.stderr == nil {
		return ""
	}
	return e.stderr.String()
}
