// Package pipeline runs a complete cross-synthesis job: load, reconcile,
// synthesize, normalize, save and report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-xsynth/dsp/dither"
	"github.com/cwbudde/algo-xsynth/dsp/resample"
	"github.com/cwbudde/algo-xsynth/dsp/window"
	"github.com/cwbudde/algo-xsynth/dsp/xsynth"
	"github.com/cwbudde/algo-xsynth/internal/audio"
	"github.com/cwbudde/algo-xsynth/internal/config"
	"github.com/cwbudde/algo-xsynth/internal/metrics"
	"github.com/cwbudde/algo-xsynth/measure/loudness"
	"github.com/cwbudde/algo-xsynth/stats/frequency"
	timestats "github.com/cwbudde/algo-xsynth/stats/time"
)

// ErrSampleRateMismatch indicates carrier and modulator rates differ under
// the strict rate policy.
var ErrSampleRateMismatch = errors.New("pipeline: sample rate mismatch")

// Report describes a finished run.
type Report struct {
	RunID         string
	Frames        int
	InputSamples  int // per signal, after trimming
	OutputSamples int
	SampleRate    int
	Resampled     bool
	Trimmed       bool
	Gain          float64 // normalization gain, 1 when disabled
	OutputRMS     float64
	OutputPeak    float64
	Clipped       int
	// OutputLoudness is the integrated loudness in LUFS, -Inf when the
	// output is silent, shorter than 400 ms or sampled too low to weight.
	OutputLoudness float64
	// Centroids of the long-term average spectra in Hz.
	ModulatorCentroid float64
	OutputCentroid    float64
	Duration          time.Duration
}

// Option configures Run.
type Option func(*options)

type options struct {
	logger   logrus.FieldLogger
	recorder *metrics.Recorder
}

// WithLogger sets the run logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRecorder records the run into r. Without it Run creates a private
// recorder only when cfg.MetricsFile is set.
func WithRecorder(r *metrics.Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// Run executes the job described by cfg.
func Run(ctx context.Context, cfg config.Config, opts ...Option) (Report, error) {
	o := options{logger: discardLogger()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if o.recorder == nil && cfg.MetricsFile != "" {
		o.recorder = metrics.New()
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	rep, err := run(ctx, cfg, o.logger)

	if o.recorder != nil {
		if err != nil {
			o.recorder.ObserveFailure()
		} else {
			o.recorder.ObserveSuccess(metrics.Run{
				Frames:   rep.Frames,
				Samples:  rep.OutputSamples,
				Clipped:  rep.Clipped,
				Peak:     rep.OutputPeak,
				Loudness: rep.OutputLoudness,
				Duration: rep.Duration,
			})
		}

		if cfg.MetricsFile != "" {
			if werr := o.recorder.WriteTextfile(cfg.MetricsFile); werr != nil {
				o.logger.WithError(werr).Warn("metrics export failed")
			}
		}
	}

	return rep, err
}

func run(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (Report, error) {
	start := time.Now()

	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}

	rep := Report{RunID: uuid.NewString(), Gain: 1}
	log := logger.WithField("run_id", rep.RunID)

	carrier, err := audio.Load(cfg.Carrier)
	if err != nil {
		return rep, fmt.Errorf("load carrier: %w", err)
	}

	modulator, err := audio.Load(cfg.Modulator)
	if err != nil {
		return rep, fmt.Errorf("load modulator: %w", err)
	}

	log.WithFields(logrus.Fields{
		"carrier_samples":   len(carrier.Samples),
		"carrier_rate":      carrier.SampleRate,
		"modulator_samples": len(modulator.Samples),
		"modulator_rate":    modulator.SampleRate,
	}).Debug("inputs loaded")

	modSamples, err := reconcileRate(cfg, carrier, modulator)
	if err != nil {
		return rep, err
	}

	rep.Resampled = modulator.SampleRate != carrier.SampleRate
	if rep.Resampled {
		log.WithFields(logrus.Fields{
			"from": modulator.SampleRate,
			"to":   carrier.SampleRate,
		}).Info("modulator resampled to carrier rate")
	}

	car, mod, trimmed := audio.TrimToShorter(carrier.Samples, modSamples)
	rep.Trimmed = trimmed
	rep.InputSamples = len(car)
	rep.SampleRate = carrier.SampleRate

	if trimmed {
		log.WithFields(logrus.Fields{
			"carrier_samples":   len(carrier.Samples),
			"modulator_samples": len(modSamples),
			"kept":              len(car),
		}).Warn("inputs differ in length, trimming to the shorter one")
	}

	engine, err := newEngine(cfg, carrier.SampleRate, log)
	if err != nil {
		return rep, err
	}

	out, err := engine.Process(ctx, car, mod)
	if err != nil {
		return rep, fmt.Errorf("synthesize: %w", err)
	}

	rep.Frames = engine.Params().FrameCount(len(car))

	if cfg.NormalizePeak > 0 {
		rep.Gain = audio.Normalize(out, cfg.NormalizePeak)
	}

	rep.Clipped = audio.Clip(out)

	st := timestats.Calculate(out)
	rep.OutputSamples = st.Length
	rep.OutputRMS = st.RMS
	rep.OutputPeak = st.Peak

	rep.OutputLoudness, err = loudness.Measure(out, float64(carrier.SampleRate))
	if err != nil {
		log.WithError(err).Debug("loudness not measured")
		rep.OutputLoudness = math.Inf(-1)
	}

	rep.ModulatorCentroid, err = centroid(mod, cfg, carrier.SampleRate)
	if err != nil {
		return rep, err
	}

	rep.OutputCentroid, err = centroid(out, cfg, carrier.SampleRate)
	if err != nil {
		return rep, err
	}

	q, err := newQuantizer(cfg)
	if err != nil {
		return rep, err
	}

	err = audio.Save(cfg.Output, audio.Signal{Samples: out, SampleRate: carrier.SampleRate}, audio.WithQuantizer(q))
	if err != nil {
		return rep, fmt.Errorf("save output: %w", err)
	}

	rep.Duration = time.Since(start)

	log.WithFields(logrus.Fields{
		"frames":             rep.Frames,
		"output":             cfg.Output,
		"output_samples":     rep.OutputSamples,
		"sample_rate":        rep.SampleRate,
		"peak":               rep.OutputPeak,
		"clipped":            rep.Clipped,
		"loudness_lufs":      rep.OutputLoudness,
		"modulator_centroid": rep.ModulatorCentroid,
		"output_centroid":    rep.OutputCentroid,
		"duration":           rep.Duration,
	}).Info("cross-synthesis finished")

	return rep, nil
}

// reconcileRate returns the modulator samples at the carrier rate.
func reconcileRate(cfg config.Config, carrier, modulator audio.Signal) ([]float64, error) {
	if carrier.SampleRate == modulator.SampleRate {
		return modulator.Samples, nil
	}

	if strings.EqualFold(cfg.RatePolicy, config.RatePolicyStrict) {
		return nil, fmt.Errorf("%w: carrier %d Hz, modulator %d Hz",
			ErrSampleRateMismatch, carrier.SampleRate, modulator.SampleRate)
	}

	q, err := resample.ParseQuality(cfg.ResampleQuality)
	if err != nil {
		return nil, err
	}

	out, err := resample.Convert(modulator.Samples,
		float64(modulator.SampleRate), float64(carrier.SampleRate), resample.WithQuality(q))
	if err != nil {
		return nil, fmt.Errorf("resample modulator: %w", err)
	}

	return out, nil
}

func newEngine(cfg config.Config, rate int, log logrus.FieldLogger) (*xsynth.Engine, error) {
	params, err := xsynth.NewParams(cfg.FFTSize, cfg.HopSize, cfg.LPCOrder, float64(rate))
	if err != nil {
		return nil, err
	}

	win, err := window.ParseType(cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	mode, err := xsynth.ParseEnvelopeMode(cfg.EnvelopeMode)
	if err != nil {
		return nil, err
	}

	return xsynth.New(params,
		xsynth.WithWorkers(cfg.Workers),
		xsynth.WithWindow(win),
		xsynth.WithChirp(cfg.Chirp),
		xsynth.WithMaxGainDB(cfg.MaxGainDB),
		xsynth.WithEnvelopeMode(mode),
		xsynth.WithLogger(log),
	)
}

func newQuantizer(cfg config.Config) (*dither.Quantizer, error) {
	typ, err := dither.ParseType(cfg.Dither)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	shaping, err := dither.ParseShaping(cfg.NoiseShaping)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	return dither.NewQuantizer(dither.WithType(typ), dither.WithShaping(shaping))
}

func centroid(x []float64, cfg config.Config, rate int) (float64, error) {
	avg, err := frequency.AverageSpectrum(x, cfg.FFTSize, cfg.HopSize)
	if err != nil {
		return 0, fmt.Errorf("spectrum summary: %w", err)
	}

	return frequency.Centroid(avg, float64(rate)), nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}
