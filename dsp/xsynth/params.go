package xsynth

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-xsynth/dsp/frame"
	"github.com/cwbudde/algo-xsynth/dsp/spectrum"
)

// Params is the fixed configuration of one synthesis run. The window length
// of every frame equals FFTSize.
type Params struct {
	FFTSize    int
	HopSize    int
	LPCOrder   int
	SampleRate float64
}

// NewParams validates and returns a parameter set.
func NewParams(fftSize, hopSize, lpcOrder int, sampleRate float64) (Params, error) {
	p := Params{
		FFTSize:    fftSize,
		HopSize:    hopSize,
		LPCOrder:   lpcOrder,
		SampleRate: sampleRate,
	}

	if err := p.Validate(); err != nil {
		return Params{}, err
	}

	return p, nil
}

// Validate checks that FFTSize is a power of two >= 2, HopSize is in
// [1, FFTSize], LPCOrder is in [1, FFTSize) and SampleRate is finite and
// positive.
func (p Params) Validate() error {
	if p.FFTSize < 2 || !spectrum.IsPowerOf2(p.FFTSize) {
		return fmt.Errorf("%w: fft size must be a power of two >= 2: %d", ErrInvalidParameter, p.FFTSize)
	}

	if p.HopSize <= 0 || p.HopSize > p.FFTSize {
		return fmt.Errorf("%w: hop size must be in [1, %d]: %d", ErrInvalidParameter, p.FFTSize, p.HopSize)
	}

	if p.LPCOrder <= 0 || p.LPCOrder >= p.FFTSize {
		return fmt.Errorf("%w: lpc order must be in [1, %d): %d", ErrInvalidParameter, p.FFTSize, p.LPCOrder)
	}

	if p.SampleRate <= 0 || math.IsNaN(p.SampleRate) || math.IsInf(p.SampleRate, 0) {
		return fmt.Errorf("%w: sample rate must be > 0: %f", ErrInvalidParameter, p.SampleRate)
	}

	return nil
}

// FrameCount returns the number of full frames in a signal of length samples.
func (p Params) FrameCount(length int) int {
	return frame.Count(length, p.FFTSize, p.HopSize)
}

// OutputLength returns the synthesized length for an input of length
// samples: (n-1)*hop + fftSize, or 0 when no frame fits.
func (p Params) OutputLength(length int) int {
	return frame.OutputLength(p.FrameCount(length), p.FFTSize, p.HopSize)
}
