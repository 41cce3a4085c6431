// Command xsynth imposes the spectral envelope of a modulator recording on a
// carrier recording and writes the result as a WAV file.
//
// Usage:
//
//	xsynth [flags] [carrier modulator output]
//
// Settings come from defaults, an optional YAML file (-config), an optional
// env file (-env), XSYNTH_* environment variables and flags, in increasing
// priority. Every config key is also a flag of the same name.
//
// Examples:
//
//	xsynth voice.wav synth.wav out.wav
//	xsynth -lpc_order 32 -fft_size 2048 -hop_size 512 voice.wav synth.wav out.wav
//	xsynth -config xsynth.yaml -window hann -envelope_mode global
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-xsynth/internal/config"
	"github.com/cwbudde/algo-xsynth/internal/pipeline"
)

var usageText = map[string]string{
	"carrier":          "carrier WAV file (pitch and timing)",
	"modulator":        "modulator WAV file (spectral envelope)",
	"output":           "output WAV file",
	"lpc_order":        "LPC order",
	"fft_size":         "FFT and frame size, power of two",
	"hop_size":         "frame advance in samples",
	"window":           "synthesis window: rectangular, hann, hamming",
	"envelope_mode":    "frame (per-frame LPC) or global (one LPC for the whole modulator)",
	"chirp":            "bandwidth expansion factor in (0, 1], 1 disables",
	"max_gain_db":      "envelope gain cap in dB",
	"workers":          "frame workers, 0 uses all CPUs",
	"rate_policy":      "on sample rate mismatch: resample or strict",
	"resample_quality": "modulator resampling quality: fast, balanced, best",
	"normalize_peak":   "output peak after normalization, 0 disables",
	"dither":           "16-bit output dither: none, rpdf, tpdf",
	"noise_shaping":    "dither noise shaping: none, efb, 3fc, 9fc",
	"timeout":          "abort the run after this duration, 0 disables",
	"log_level":        "trace, debug, info, warn, error",
	"log_format":       "text or json",
	"metrics_file":     "write Prometheus textfile metrics here",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("xsynth", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "YAML configuration file")
	envFile := fs.String("env", "", "env file with XSYNTH_* variables")
	quiet := fs.Bool("q", false, "do not print the run report")

	defaults := config.Default()
	keys := config.Keys()
	for _, key := range keys {
		fs.String(key, "", fmt.Sprintf("%s (default %s)", usageText[key], defaultText(defaults, key)))
	}

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: xsynth [flags] [carrier modulator output]\n\n")
		fmt.Fprintf(stderr, "LPC cross-synthesis: shapes the carrier with the modulator's spectral envelope.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  xsynth voice.wav synth.wav out.wav\n")
		fmt.Fprintf(stderr, "  xsynth -fft_size 2048 -lpc_order 32 voice.wav synth.wav out.wav\n")
		fmt.Fprintf(stderr, "  xsynth -config xsynth.yaml\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		return 2
	}

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if setErr == nil && slices.Contains(keys, f.Name) {
			setErr = cfg.Set(f.Name, f.Value.String())
		}
	})

	if setErr != nil {
		fmt.Fprintf(stderr, "error: %v\n", setErr)
		return 2
	}

	switch fs.NArg() {
	case 0:
	case 3:
		cfg.Carrier, cfg.Modulator, cfg.Output = fs.Arg(0), fs.Arg(1), fs.Arg(2)
	default:
		fs.Usage()
		return 2
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	logger, err := pipeline.NewLogger(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	rep, err := pipeline.Run(ctx, cfg, pipeline.WithLogger(logger))
	if err != nil {
		logger.WithError(err).Error("cross-synthesis failed")
		return 1
	}

	if !*quiet {
		printReport(stdout, cfg, rep)
	}

	return 0
}

func defaultText(c config.Config, key string) string {
	switch key {
	case "lpc_order":
		return fmt.Sprint(c.LPCOrder)
	case "fft_size":
		return fmt.Sprint(c.FFTSize)
	case "hop_size":
		return fmt.Sprint(c.HopSize)
	case "window":
		return c.Window
	case "envelope_mode":
		return c.EnvelopeMode
	case "chirp":
		return fmt.Sprint(c.Chirp)
	case "max_gain_db":
		return fmt.Sprint(c.MaxGainDB)
	case "workers":
		return fmt.Sprint(c.Workers)
	case "rate_policy":
		return c.RatePolicy
	case "resample_quality":
		return c.ResampleQuality
	case "normalize_peak":
		return fmt.Sprint(c.NormalizePeak)
	case "timeout":
		return c.Timeout.String()
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "dither":
		return c.Dither
	case "noise_shaping":
		return c.NoiseShaping
	default:
		return "none"
	}
}

func printReport(w io.Writer, cfg config.Config, rep pipeline.Report) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	rows := []struct {
		k string
		v any
	}{
		{"Run", rep.RunID},
		{"Output", cfg.Output},
		{"Sample rate [Hz]", rep.SampleRate},
		{"Frames", rep.Frames},
		{"Input samples", rep.InputSamples},
		{"Output samples", rep.OutputSamples},
		{"Resampled", rep.Resampled},
		{"Trimmed", rep.Trimmed},
		{"Gain", fmt.Sprintf("%.4f", rep.Gain)},
		{"Output RMS", fmt.Sprintf("%.4f", rep.OutputRMS)},
		{"Output peak", fmt.Sprintf("%.4f", rep.OutputPeak)},
		{"Clipped", rep.Clipped},
		{"Loudness [LUFS]", fmt.Sprintf("%.1f", rep.OutputLoudness)},
		{"Dither", cfg.Dither + "/" + cfg.NoiseShaping},
		{"Modulator centroid [Hz]", fmt.Sprintf("%.1f", rep.ModulatorCentroid)},
		{"Output centroid [Hz]", fmt.Sprintf("%.1f", rep.OutputCentroid)},
		{"Duration", rep.Duration},
	}

	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%v\n", r.k, r.v); err != nil {
			logrus.WithError(err).Warn("failed to write report row")
			return
		}
	}

	if err := tw.Flush(); err != nil {
		logrus.WithError(err).Warn("failed to flush report")
	}
}
