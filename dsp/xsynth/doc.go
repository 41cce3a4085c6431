// Package xsynth implements LPC spectral cross-synthesis.
//
// For every STFT frame the engine fits an LPC model to the modulator, turns
// it into a magnitude envelope and multiplies the carrier spectrum by that
// envelope. Only magnitudes change; carrier phases pass through untouched.
// The shaped frames are inverse transformed and overlap-added.
//
// Frames are independent, so Process fans them out to a bounded pool of
// workers. Each worker owns its FFT plans and writes only its own output
// slots; the overlap-add merge runs sequentially afterwards. Parameters are
// immutable values and are shared without locking.
//
// With the default rectangular window the overlap-add is unnormalized, which
// reproduces plain frame summation: overlap regions gain energy unless the
// hop equals the FFT size. Selecting a tapered window applies it to each
// synthesized frame and divides the result by the summed window weights.
package xsynth
