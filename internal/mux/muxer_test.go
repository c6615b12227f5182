package mux

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH, skipping test")
	}
}

func TestBuildArgs(t *testing.T) {
	args := buildArgs("silent.mp4", "song.mp3", "out/final.mp4")
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-i silent.mp4",
		"-i song.mp3",
		"-c:v copy",
		"-c:a aac",
		"-shortest",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
	if args[len(args)-1] != "out/final.mp4" {
		t.Errorf("output path must be the final argument, got %q", args[len(args)-1])
	}
}

func TestMuxCreatesOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "nested", "deeper", "final.mp4")

	m := NewMuxer(filepath.Join(dir, "missing-ffmpeg"))
	err := m.Mux(context.Background(), "a.mp4", "b.mp3", out)
	// The process itself fails (binary missing), but the directory must
	// already exist by then.
	if err == nil {
		t.Fatal("expected error from missing ffmpeg binary")
	}
	if _, statErr := os.Stat(filepath.Dir(out)); statErr != nil {
		t.Errorf("output directory was not created: %v", statErr)
	}
}

func TestMuxFailureCarriesDiagnostics(t *testing.T) {
	skipIfNoFFmpeg(t)

	dir := t.TempDir()
	// Nonexistent inputs make ffmpeg exit non-zero with a diagnostic.
	m := NewMuxer("")
	err := m.Mux(context.Background(),
		filepath.Join(dir, "missing.mp4"),
		filepath.Join(dir, "missing.mp3"),
		filepath.Join(dir, "out.mp4"))

	var muxErr *MuxError
	if !errors.As(err, &muxErr) {
		t.Fatalf("got %v, want *MuxError", err)
	}
	if muxErr.ExitCode == 0 {
		t.Error("expected non-zero exit code")
	}
	if muxErr.Stderr == "" {
		t.Error("expected captured stderr diagnostics")
	}
}

func TestNewMuxerDefaultPath(t *testing.T) {
	m := NewMuxer("")
	if m.ffmpegPath != "ffmpeg" {
		t.Errorf("default path = %q, want ffmpeg", m.ffmpegPath)
	}
}

func TestCheckFFmpeg(t *testing.T) {
	skipIfNoFFmpeg(t)
	if err := NewMuxer("").CheckFFmpeg(context.Background()); err != nil {
		t.Errorf("CheckFFmpeg failed: %v", err)
	}

	m := NewMuxer("/nonexistent/ffmpeg")
	if err := m.CheckFFmpeg(context.Background()); err == nil {
		t.Error("expected error for missing binary")
	}
}
