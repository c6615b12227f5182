package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/musevid/musevid/internal/render"
)

func TestUsageMentionsInterruptBehavior(t *testing.T) {
	var buf bytes.Buffer
	flag.CommandLine.SetOutput(&buf)
	defer flag.CommandLine.SetOutput(os.Stderr)

	usage()

	out := buf.String()
	if !strings.Contains(out, "Ctrl-C") || !strings.Contains(out, "aborts the file being processed") {
		t.Errorf("usage text does not describe interrupt behavior:\n%s", out)
	}
}

func TestBuildStyle(t *testing.T) {
	cfg, err := buildStyle("bars", "lime", "black", "", 30, 64, 3.0, 1280, 720, 2, false)
	if err != nil {
		t.Fatalf("buildStyle failed: %v", err)
	}
	if cfg.Variant != render.VariantBars || cfg.Bands != 64 {
		t.Errorf("unexpected style config: %+v", cfg)
	}

	if _, err := buildStyle("spiral", "lime", "black", "", 30, 64, 3.0, 1280, 720, 2, false); err == nil {
		t.Error("expected an error for an unknown style")
	}
	if _, err := buildStyle("bars", "chartreuse", "black", "", 30, 64, 3.0, 1280, 720, 2, false); err == nil {
		t.Error("expected an error for an unknown color preset")
	}
}

func TestDefaultOutDir(t *testing.T) {
	dir := t.TempDir()
	if got, want := defaultOutDir(dir), filepath.Join(dir, "videos"); got != want {
		t.Errorf("defaultOutDir(dir) = %s, want %s", got, want)
	}

	file := filepath.Join(dir, "song.wav")
	if err := os.WriteFile(file, []byte("riff"), 0600); err != nil {
		t.Fatal(err)
	}
	if got, want := defaultOutDir(file), filepath.Join(dir, "videos"); got != want {
		t.Errorf("defaultOutDir(file) = %s, want %s", got, want)
	}
}
