// Package main provides the musevid command line entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/musevid/musevid/internal/audio"
	"github.com/musevid/musevid/internal/bootstrap"
	"github.com/musevid/musevid/internal/config"
	"github.com/musevid/musevid/internal/pipeline"
	"github.com/musevid/musevid/internal/render"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// usage prints the command synopsis and the flag defaults.
func usage() {
	w := flag.CommandLine.Output()
	fmt.Fprintf(w, "Usage: musevid -in <file|folder> [options]\n\n")
	fmt.Fprintf(w, "Renders a visualization video for every supported audio file.\n")
	fmt.Fprintf(w, "An interrupt (Ctrl-C) aborts the file being processed and skips the rest.\n\nOptions:\n")
	flag.PrintDefaults()
}

func run() error {
	flag.Usage = usage
	var (
		in        = flag.String("in", "", "input audio file or folder (required)")
		out       = flag.String("out", "", "output folder (default <input>/videos)")
		style     = flag.String("style", "bars", "style variant: "+variantList())
		color     = flag.String("color", "lime", "foreground color preset: "+strings.Join(render.PresetNames(), ", "))
		bg        = flag.String("bg", "black", "background color preset")
		highlight = flag.String("highlight", "", "highlight color preset (default derived from foreground)")
		fps       = flag.Int("fps", 30, "output frame rate")
		bands     = flag.Int("bands", 64, "mel band count (bar styles)")
		window    = flag.Float64("window", 3.0, "amplitude window in seconds (waveform styles)")
		width     = flag.Int("width", 1280, "video width in pixels")
		height    = flag.Int("height", 720, "video height in pixels")
		lineWidth = flag.Int("linewidth", 2, "stroke width for waveform styles")
		gradient  = flag.Bool("gradient", false, "enable the gradient/highlight pass")
	)
	flag.Parse()

	if *in == "" {
		flag.Usage()
		return fmt.Errorf("-in is required")
	}

	// Ambient settings come from the environment
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	styleCfg, err := buildStyle(*style, *color, *bg, *highlight, *fps, *bands, *window, *width, *height, *lineWidth, *gradient)
	if err != nil {
		return err
	}

	logger.Info("starting musevid",
		slog.String("style", string(styleCfg.Variant)),
		slog.Int("fps", styleCfg.FPS),
		slog.String("log_format", cfg.LogFormat),
		slog.String("temp_dir", cfg.TempDir),
		slog.Bool("s3_enabled", cfg.S3Enabled()),
	)

	sink := func(msg string) { fmt.Println(msg) }
	deps, err := bootstrap.NewDependencies(cfg, logger, sink)
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	// Cancellation is honored between files, never mid-job.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Surface a missing ffmpeg once, before the batch starts.
	if err := deps.Muxer.CheckFFmpeg(ctx); err != nil {
		return err
	}

	inputs, err := pipeline.CollectInputs(*in)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no supported audio files in %s (formats: %s)",
			*in, strings.Join(audio.SupportedExtensions, ", "))
	}

	outDir := *out
	if outDir == "" {
		outDir = defaultOutDir(*in)
	}
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("create output folder: %w", err)
	}

	sum := deps.Batch.Run(ctx, inputs, outDir, styleCfg)
	if sum.Completed == 0 && sum.Failed > 0 {
		return fmt.Errorf("all %d files failed", sum.Failed)
	}
	return nil
}

// buildStyle assembles and validates the per-job style configuration from
// the command line.
func buildStyle(variant, color, bg, highlight string, fps, bands int, window float64, width, height, lineWidth int, gradient bool) (render.StyleConfig, error) {
	v := render.Variant(variant)
	if !v.IsValid() {
		return render.StyleConfig{}, fmt.Errorf("unknown style %q (choose one of: %s)", variant, variantList())
	}

	fg, err := lookupColor(color, "color")
	if err != nil {
		return render.StyleConfig{}, err
	}
	bgc, err := lookupColor(bg, "bg")
	if err != nil {
		return render.StyleConfig{}, err
	}
	var hl render.RGB
	if highlight != "" {
		hl, err = lookupColor(highlight, "highlight")
		if err != nil {
			return render.StyleConfig{}, err
		}
	}

	cfg := render.StyleConfig{
		Variant:    v,
		Width:      width,
		Height:     height,
		FPS:        fps,
		WindowSec:  window,
		Bands:      bands,
		LineWidth:  lineWidth,
		Foreground: fg,
		Background: bgc,
		Highlight:  hl,
		Gradient:   gradient,
	}
	if err := cfg.Validate(); err != nil {
		return render.StyleConfig{}, err
	}
	return cfg, nil
}

func lookupColor(name, flagName string) (render.RGB, error) {
	c, ok := render.PresetColor(name)
	if !ok {
		return render.RGB{}, fmt.Errorf("unknown -%s preset %q (choose one of: %s)",
			flagName, name, strings.Join(render.PresetNames(), ", "))
	}
	return c, nil
}

// defaultOutDir places outputs in a videos/ folder next to (or inside)
// the input.
func defaultOutDir(in string) string {
	if info, err := os.Stat(in); err == nil && info.IsDir() {
		return filepath.Join(in, "videos")
	}
	return filepath.Join(filepath.Dir(in), "videos")
}

func variantList() string {
	names := make([]string, 0, len(render.Variants()))
	for _, v := range render.Variants() {
		names = append(names, string(v))
	}
	return strings.Join(names, ", ")
}
