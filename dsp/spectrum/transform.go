package spectrum

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Transformer performs fixed-size forward and inverse FFTs on real signals.
type Transformer struct {
	size int
	plan *algofft.Plan[complex128]
	work []complex128
}

// NewTransformer creates a transformer for size-point FFTs.
// size must be a power of two and at least 2.
func NewTransformer(size int) (*Transformer, error) {
	if !IsPowerOf2(size) || size < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}

	return &Transformer{
		size: size,
		plan: plan,
		work: make([]complex128, size),
	}, nil
}

// Size returns the transform length.
func (t *Transformer) Size() int { return t.size }

// Forward writes the complex spectrum of src into dst.
//
// src may be shorter than the transform size and is zero-padded. dst must
// have exactly Size() elements.
func (t *Transformer) Forward(dst []complex128, src []float64) error {
	if len(dst) != t.size {
		return fmt.Errorf("%w: dst has %d bins, want %d", ErrLengthMismatch, len(dst), t.size)
	}

	if len(src) > t.size {
		return fmt.Errorf("%w: src has %d samples, max %d", ErrLengthMismatch, len(src), t.size)
	}

	for i, v := range src {
		t.work[i] = complex(v, 0)
	}

	for i := len(src); i < t.size; i++ {
		t.work[i] = 0
	}

	err := t.plan.Forward(dst, t.work)
	if err != nil {
		return fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}

	return nil
}

// Inverse writes the real part of the inverse transform of src into dst.
//
// The imaginary residue is discarded, so src is expected to be conjugate
// symmetric. Both slices must have exactly Size() elements. src is not
// modified.
func (t *Transformer) Inverse(dst []float64, src []complex128) error {
	if len(src) != t.size || len(dst) != t.size {
		return fmt.Errorf("%w: got src=%d dst=%d, want %d", ErrLengthMismatch, len(src), len(dst), t.size)
	}

	err := t.plan.Inverse(t.work, src)
	if err != nil {
		return fmt.Errorf("spectrum: inverse FFT failed: %w", err)
	}

	for i, c := range t.work {
		dst[i] = real(c)
	}

	return nil
}

// IsPowerOf2 reports whether n is a positive power of two.
func IsPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}
