package lpc

import "errors"

var (
	// ErrInsufficientSamples indicates a frame with no more samples than the order.
	ErrInsufficientSamples = errors.New("lpc: insufficient samples")
	// ErrInvalidOrder indicates a negative order or one too large for the FFT size.
	ErrInvalidOrder        = errors.New("lpc: invalid order")
	// ErrInvalidChirp indicates a bandwidth expansion factor outside (0, 1].
	ErrInvalidChirp        = errors.New("lpc: invalid chirp factor")
	// ErrNonFinite indicates a frame containing NaN or Inf samples.
	ErrNonFinite = errors.New("lpc: non-finite samples")
	// ErrInvalidCoefficients indicates a vector that is empty or does not start with 1.
	ErrInvalidCoefficients = errors.New("lpc: invalid coefficient vector")
)
