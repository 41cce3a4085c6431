// Package spectrum provides the FFT primitive used by the cross-synthesis
// core together with a few spectrum-domain helpers.
//
// [Transformer] wraps a fixed-size algo-fft plan behind a real-in/real-out
// contract: Forward takes real samples (zero-padded up to the plan size) and
// produces the full complex spectrum, Inverse takes a conjugate-symmetric
// spectrum and returns the real part of the normalized inverse transform.
//
// A Transformer owns scratch memory and is not safe for concurrent use.
// Parallel callers create one per goroutine.
package spectrum
