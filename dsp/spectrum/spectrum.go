package spectrum

import (
	"fmt"
	"math/cmplx"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// partsBuf holds pooled scratch memory for complex-to-real unpacking.
type partsBuf struct {
	data []float64
}

var partsPool = sync.Pool{
	New: func() any { return &partsBuf{} },
}

func splitParts(in []complex128) (re, im []float64, buf *partsBuf) {
	n := len(in)
	buf = partsPool.Get().(*partsBuf)
	if cap(buf.data) < 2*n {
		buf.data = make([]float64, 2*n)
	}
	buf.data = buf.data[:2*n]
	re, im = buf.data[:n], buf.data[n:]

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	return re, im, buf
}

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	MagnitudeInto(out, in)

	return out
}

// MagnitudeInto computes |X[k]| into dst, which must be as long as in.
//
// The SIMD kernels of algo-vecmath do the square roots; scratch buffers are
// pooled, so in steady state this does not allocate.
func MagnitudeInto(dst []float64, in []complex128) {
	if len(in) == 0 {
		return
	}

	re, im, buf := splitParts(in)
	vecmath.Magnitude(dst[:len(in)], re, im)
	partsPool.Put(buf)
}

// Phase returns arg(X[k]) for each complex spectrum bin in radians.
func Phase(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = cmplx.Phase(c)
	}

	return out
}

// ApplyGain scales every bin of spec in place by the real gain of the same
// index. The phase of each bin is left unchanged.
func ApplyGain(spec []complex128, gain []float64) error {
	if len(spec) != len(gain) {
		return fmt.Errorf("%w: %d bins, %d gains", ErrLengthMismatch, len(spec), len(gain))
	}

	for k, g := range gain {
		spec[k] = complex(real(spec[k])*g, imag(spec[k])*g)
	}

	return nil
}

// BinFrequency returns the center frequency in Hz of bin k for an
// fftSize-point transform at sampleRate.
func BinFrequency(k, fftSize int, sampleRate float64) float64 {
	if fftSize <= 0 {
		return 0
	}

	return float64(k) * sampleRate / float64(fftSize)
}
