package lpc

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-xsynth/dsp/spectrum"
)

const (
	defaultMaxGainDB = 60.0
	maxMaxGainDB     = 240.0
)

// EnvelopeOption configures a Synthesizer.
type EnvelopeOption func(*envelopeConfig) error

type envelopeConfig struct {
	maxGainDB float64
}

// WithMaxGainDB caps envelope magnitudes at db decibels (20*log10). The
// default is 60 dB. Bins whose denominator |A| is zero or NaN are set to
// the cap as well; an infinite |A| yields a gain of zero.
func WithMaxGainDB(db float64) EnvelopeOption {
	return func(cfg *envelopeConfig) error {
		if db < 0 || db > maxMaxGainDB || math.IsNaN(db) {
			return fmt.Errorf("lpc: max gain must be in [0, %g] dB: %g", maxMaxGainDB, db)
		}

		cfg.maxGainDB = db

		return nil
	}
}

// Synthesizer converts LPC vectors into magnitude envelopes sampled at the
// bins of an fftSize-point FFT. It reuses one FFT plan and is not safe for
// concurrent use.
type Synthesizer struct {
	fftSize    int
	sampleRate float64
	maxGain    float64

	tr   *spectrum.Transformer
	spec []complex128
	mag  []float64
}

// NewSynthesizer creates an envelope synthesizer.
func NewSynthesizer(fftSize int, sampleRate float64, opts ...EnvelopeOption) (*Synthesizer, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("lpc: sample rate must be > 0: %f", sampleRate)
	}

	cfg := envelopeConfig{maxGainDB: defaultMaxGainDB}
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	tr, err := spectrum.NewTransformer(fftSize)
	if err != nil {
		return nil, fmt.Errorf("lpc: envelope transform: %w", err)
	}

	return &Synthesizer{
		fftSize:    fftSize,
		sampleRate: sampleRate,
		maxGain:    math.Pow(10, cfg.maxGainDB/20),
		tr:         tr,
		spec:       make([]complex128, fftSize),
		mag:        make([]float64, fftSize),
	}, nil
}

// FFTSize returns the number of envelope bins.
func (s *Synthesizer) FFTSize() int { return s.fftSize }

// SampleRate returns the sample rate used for bin frequencies.
func (s *Synthesizer) SampleRate() float64 { return s.sampleRate }

// MaxGain returns the linear magnitude cap.
func (s *Synthesizer) MaxGain() float64 { return s.maxGain }

// BinFrequency returns the frequency in Hz of envelope bin k.
func (s *Synthesizer) BinFrequency(k int) float64 {
	return spectrum.BinFrequency(k, s.fftSize, s.sampleRate)
}

// Envelope evaluates |1/A(e^jw)| at the fftSize bin frequencies
// w_k = 2*pi*k/fftSize and writes the result into dst, which is grown if it
// is too short. The coefficient vector is zero-padded to fftSize and
// transformed, which is equivalent to evaluating A on the unit circle.
func (s *Synthesizer) Envelope(dst []float64, c Coefficients) ([]float64, error) {
	if len(c) == 0 || c[0] != 1 {
		return nil, fmt.Errorf("%w: leading coefficient must be 1", ErrInvalidCoefficients)
	}

	if len(c) > s.fftSize {
		return nil, fmt.Errorf("%w: order %d needs fft size > %d, have %d",
			ErrInvalidOrder, c.Order(), c.Order(), s.fftSize)
	}

	if cap(dst) < s.fftSize {
		dst = make([]float64, s.fftSize)
	}
	dst = dst[:s.fftSize]

	if err := s.tr.Forward(s.spec, c); err != nil {
		return nil, err
	}

	spectrum.MagnitudeInto(s.mag, s.spec)

	for k, m := range s.mag {
		dst[k] = cappedGain(m, s.maxGain)
	}

	return dst, nil
}

// Envelope is a one-shot helper around NewSynthesizer and
// (*Synthesizer).Envelope.
func Envelope(c Coefficients, fftSize int, sampleRate float64, opts ...EnvelopeOption) ([]float64, error) {
	s, err := NewSynthesizer(fftSize, sampleRate, opts...)
	if err != nil {
		return nil, err
	}

	return s.Envelope(nil, c)
}

// cappedGain returns 1/m limited to maxGain. m == 0 and NaN map to maxGain.
func cappedGain(m, maxGain float64) float64 {
	g := 1 / m
	if math.IsNaN(g) || g > maxGain {
		return maxGain
	}

	return g
}
