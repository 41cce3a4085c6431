package xsynth

import "errors"

var (
	// ErrInvalidParameter indicates inconsistent synthesis parameters or options.
	ErrInvalidParameter    = errors.New("xsynth: invalid parameter")
	// ErrInsufficientSamples indicates a signal shorter than one FFT frame.
	ErrInsufficientSamples = errors.New("xsynth: insufficient samples")
	// ErrFrameCountMismatch indicates carrier and modulator yield different frame counts.
	ErrFrameCountMismatch  = errors.New("xsynth: carrier and modulator frame counts differ")
	// ErrNonFinite indicates NaN or Inf in a modulator frame or in a
	// synthesized frame (from non-finite carrier samples).
	ErrNonFinite           = errors.New("xsynth: non-finite sample")
)
