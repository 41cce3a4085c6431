package xsynth

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-xsynth/dsp/frame"
	"github.com/cwbudde/algo-xsynth/dsp/lpc"
	"github.com/cwbudde/algo-xsynth/dsp/spectrum"
	"github.com/cwbudde/algo-xsynth/dsp/window"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Engine performs cross-synthesis with a fixed parameter set. An Engine is
// safe for concurrent use; every Process call allocates its own worker state.
type Engine struct {
	params Params
	cfg    engineConfig
	synth  []float64 // synthesis window, nil for rectangular
}

// New validates params and opts and returns an Engine.
func New(params Params, opts ...Option) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	cfg := defaultEngineConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	e := &Engine{params: params, cfg: cfg}
	if cfg.window != window.TypeRectangular {
		e.synth = window.Generate(cfg.window, params.FFTSize, window.WithPeriodic())
	}

	return e, nil
}

// Params returns the engine parameters.
func (e *Engine) Params() Params { return e.params }

// Workers returns the configured worker bound.
func (e *Engine) Workers() int { return e.cfg.workers }

// Window returns the synthesis window type.
func (e *Engine) Window() window.Type { return e.cfg.window }

// Chirp returns the bandwidth expansion factor.
func (e *Engine) Chirp() float64 { return e.cfg.chirp }

// MaxGainDB returns the envelope cap in decibels.
func (e *Engine) MaxGainDB() float64 { return e.cfg.maxGainDB }

// Mode returns the envelope estimation mode.
func (e *Engine) Mode() EnvelopeMode { return e.cfg.mode }

// Process cross-synthesizes carrier with the spectral envelope of modulator.
//
// Both signals must contain the same number of full frames and at least one.
// Samples beyond the last full frame are ignored. The result has length
// Params.OutputLength(len(carrier)). Process returns ctx.Err() if ctx is
// cancelled before all frames are done.
func (e *Engine) Process(ctx context.Context, carrier, modulator []float64) ([]float64, error) {
	start := time.Now()
	p := e.params

	n := p.FrameCount(len(carrier))
	if m := p.FrameCount(len(modulator)); m != n {
		return nil, fmt.Errorf("%w: carrier %d frames, modulator %d frames", ErrFrameCountMismatch, n, m)
	}

	if n == 0 {
		return nil, fmt.Errorf("%w: need at least %d samples, carrier has %d, modulator has %d",
			ErrInsufficientSamples, p.FFTSize, len(carrier), len(modulator))
	}

	var global []float64
	if e.cfg.mode == ModeGlobal {
		env, err := e.globalEnvelope(modulator)
		if err != nil {
			return nil, err
		}
		global = env
	}

	slots := make([][]float64, n)

	workers := e.cfg.workers
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)

		g.Go(func() error {
			return e.processRange(gctx, carrier, modulator, global, slots[lo:hi], lo)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out, err := e.merge(slots)
	if err != nil {
		return nil, err
	}

	e.cfg.logger.WithFields(logrus.Fields{
		"frames":   n,
		"workers":  workers,
		"mode":     e.cfg.mode.String(),
		"window":   e.cfg.window.String(),
		"samples":  len(out),
		"duration": time.Since(start),
	}).Debug("cross-synthesis complete")

	return out, nil
}

// FrameEnvelope returns the capped LPC envelope of one modulator frame. It
// allocates fresh FFT state and is meant for inspection, not hot loops.
func (e *Engine) FrameEnvelope(modulatorFrame []float64) ([]float64, error) {
	if len(modulatorFrame) != e.params.FFTSize {
		return nil, fmt.Errorf("%w: frame has %d samples, want %d",
			frame.ErrFrameLength, len(modulatorFrame), e.params.FFTSize)
	}

	w, err := e.newWorker()
	if err != nil {
		return nil, err
	}

	return w.envelope(modulatorFrame)
}

// ShapeFrame returns the spectrum of carrierFrame with every bin multiplied
// by envelope. Phases are preserved exactly.
func (e *Engine) ShapeFrame(carrierFrame, envelope []float64) ([]complex128, error) {
	if len(carrierFrame) != e.params.FFTSize {
		return nil, fmt.Errorf("%w: frame has %d samples, want %d",
			frame.ErrFrameLength, len(carrierFrame), e.params.FFTSize)
	}

	tr, err := spectrum.NewTransformer(e.params.FFTSize)
	if err != nil {
		return nil, err
	}

	spec := make([]complex128, e.params.FFTSize)
	if err := shapeSpectrum(tr, spec, carrierFrame, envelope); err != nil {
		return nil, err
	}

	return spec, nil
}

func (e *Engine) globalEnvelope(modulator []float64) ([]float64, error) {
	w, err := e.newWorker()
	if err != nil {
		return nil, err
	}

	return w.envelope(modulator)
}

func (e *Engine) processRange(ctx context.Context, carrier, modulator, global []float64, slots [][]float64, first int) error {
	w, err := e.newWorker()
	if err != nil {
		return err
	}

	p := e.params
	for j := range slots {
		if err := ctx.Err(); err != nil {
			return err
		}

		i := first + j

		car, err := frame.View(carrier, i, p.FFTSize, p.HopSize)
		if err != nil {
			return err
		}

		env := global
		if env == nil {
			mod, err := frame.View(modulator, i, p.FFTSize, p.HopSize)
			if err != nil {
				return err
			}

			if env, err = w.envelope(mod); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
		}

		out, err := w.synthesize(car, env)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}

		slots[j] = out
	}

	return nil
}

func (e *Engine) merge(slots [][]float64) ([]float64, error) {
	p := e.params
	acc := frame.NewAccumulator(frame.OutputLength(len(slots), p.FFTSize, p.HopSize))

	for i, s := range slots {
		off := frame.Offset(i, p.HopSize)

		var err error
		if e.synth == nil {
			err = acc.Add(off, s)
		} else {
			err = acc.AddWindowed(off, s, e.synth)
		}

		if err != nil {
			return nil, err
		}
	}

	if e.synth == nil {
		return acc.Samples(), nil
	}

	return acc.Normalized(windowNormFloor), nil
}

// worker holds the per-goroutine FFT state.
type worker struct {
	order int
	chirp float64
	tr    *spectrum.Transformer
	env   *lpc.Synthesizer
	spec  []complex128
	gain  []float64
}

func (e *Engine) newWorker() (*worker, error) {
	p := e.params

	tr, err := spectrum.NewTransformer(p.FFTSize)
	if err != nil {
		return nil, err
	}

	synth, err := lpc.NewSynthesizer(p.FFTSize, p.SampleRate, lpc.WithMaxGainDB(e.cfg.maxGainDB))
	if err != nil {
		return nil, err
	}

	return &worker{
		order: p.LPCOrder,
		chirp: e.cfg.chirp,
		tr:    tr,
		env:   synth,
		spec:  make([]complex128, p.FFTSize),
	}, nil
}

// envelope estimates the LPC model of x and returns a freshly allocated
// magnitude envelope.
func (w *worker) envelope(x []float64) ([]float64, error) {
	c, err := lpc.Estimate(x, w.order)
	if errors.Is(err, lpc.ErrNonFinite) {
		return nil, fmt.Errorf("%w: modulator: %v", ErrNonFinite, err)
	}

	if err != nil {
		return nil, err
	}

	if w.chirp != 1 {
		if c, err = lpc.BandwidthExpand(c, w.chirp); err != nil {
			return nil, err
		}
	}

	return w.env.Envelope(nil, c)
}

func (w *worker) synthesize(carrierFrame, env []float64) ([]float64, error) {
	if err := shapeSpectrum(w.tr, w.spec, carrierFrame, env); err != nil {
		return nil, err
	}

	out := make([]float64, w.tr.Size())
	if err := w.tr.Inverse(out, w.spec); err != nil {
		return nil, err
	}

	for _, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrNonFinite
		}
	}

	return out, nil
}

func shapeSpectrum(tr *spectrum.Transformer, dst []complex128, carrierFrame, env []float64) error {
	if err := tr.Forward(dst, carrierFrame); err != nil {
		return err
	}

	return spectrum.ApplyGain(dst, env)
}
