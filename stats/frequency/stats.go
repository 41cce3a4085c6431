// Package frequency describes the spectral shape of a signal.
//
// The cross-synthesis report compares the long-term spectrum of the output
// with that of the modulator: when the envelope transfer works, their
// centroids track each other while the carrier's fine structure remains.
package frequency

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-xsynth/dsp/frame"
	"github.com/cwbudde/algo-xsynth/dsp/spectrum"
	"github.com/cwbudde/algo-xsynth/dsp/window"
)

// Shape holds spectral shape descriptors of a one-sided magnitude spectrum.
type Shape struct {
	Centroid float64 // Hz
	Spread   float64 // Hz, standard deviation around Centroid
	Flatness float64 // Wiener entropy, 0..1
	Rolloff  float64 // Hz below which 85% of the energy lies
}

const defaultRolloff = 0.85

// binFreq returns the frequency of bin i of a one-sided spectrum with
// binCount bins, so fftSize = 2*(binCount-1).
func binFreq(i int, sampleRate float64, binCount int) float64 {
	return float64(i) * sampleRate / float64(2*(binCount-1))
}

// Describe computes all descriptors. magnitude covers bins 0 (DC) through
// Nyquist and is linear, not dB.
func Describe(magnitude []float64, sampleRate float64) Shape {
	if len(magnitude) < 2 {
		return Shape{}
	}

	var sum, energy float64
	for _, v := range magnitude {
		sum += v
		energy += v * v
	}

	c := centroid(magnitude, sampleRate, sum)

	return Shape{
		Centroid: c,
		Spread:   spread(magnitude, sampleRate, c, sum),
		Flatness: Flatness(magnitude),
		Rolloff:  rolloff(magnitude, sampleRate, defaultRolloff, energy),
	}
}

// Centroid returns sum(f_i*|X_i|) / sum(|X_i|) in Hz.
func Centroid(magnitude []float64, sampleRate float64) float64 {
	var sum float64
	for _, v := range magnitude {
		sum += v
	}

	return centroid(magnitude, sampleRate, sum)
}

func centroid(magnitude []float64, sampleRate, sum float64) float64 {
	n := len(magnitude)
	if n < 2 || sum == 0 {
		return 0
	}

	var weighted float64
	for i, v := range magnitude {
		weighted += binFreq(i, sampleRate, n) * v
	}

	return weighted / sum
}

func spread(magnitude []float64, sampleRate, cent, sum float64) float64 {
	n := len(magnitude)
	if n < 2 || sum == 0 {
		return 0
	}

	var acc float64
	for i, v := range magnitude {
		d := binFreq(i, sampleRate, n) - cent
		acc += d * d * v
	}

	return math.Sqrt(acc / sum)
}

// Flatness returns geometric mean / arithmetic mean over bins 1..N-1.
// Any zero bin yields 0.
func Flatness(magnitude []float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}

	var sumLin, sumLog float64
	for _, v := range magnitude[1:] {
		if v <= 0 {
			return 0
		}

		sumLin += v
		sumLog += math.Log(v)
	}

	bins := float64(n - 1)

	return math.Exp(sumLog/bins) / (sumLin / bins)
}

// Rolloff returns the frequency below which fraction of the spectral energy
// lies.
func Rolloff(magnitude []float64, sampleRate, fraction float64) float64 {
	var energy float64
	for _, v := range magnitude {
		energy += v * v
	}

	return rolloff(magnitude, sampleRate, fraction, energy)
}

func rolloff(magnitude []float64, sampleRate, fraction, energy float64) float64 {
	n := len(magnitude)
	if n < 2 || energy == 0 {
		return 0
	}

	var cum float64
	for i, v := range magnitude {
		cum += v * v
		if cum >= fraction*energy {
			return binFreq(i, sampleRate, n)
		}
	}

	return binFreq(n-1, sampleRate, n)
}

// AverageSpectrum returns the mean one-sided magnitude spectrum of signal
// over Hann-windowed frames of fftSize samples spaced hop apart. A signal
// shorter than one frame is zero-padded into a single frame.
func AverageSpectrum(signal []float64, fftSize, hop int) ([]float64, error) {
	tr, err := spectrum.NewTransformer(fftSize)
	if err != nil {
		return nil, err
	}

	if hop <= 0 {
		return nil, fmt.Errorf("frequency: hop must be > 0: %d", hop)
	}

	win := window.Generate(window.TypeHann, fftSize, window.WithPeriodic())
	buf := make([]float64, fftSize)
	spec := make([]complex128, fftSize)
	mag := make([]float64, fftSize)
	avg := make([]float64, fftSize/2+1)

	frames := frame.Count(len(signal), fftSize, hop)
	if frames == 0 {
		frames = 1
	}

	for i := range frames {
		clear(buf)
		copy(buf, signal[min(frame.Offset(i, hop), len(signal)):])

		if err := window.ApplyCoefficientsInPlace(buf, win); err != nil {
			return nil, err
		}

		if err := tr.Forward(spec, buf); err != nil {
			return nil, err
		}

		spectrum.MagnitudeInto(mag, spec)

		for k := range avg {
			avg[k] += mag[k]
		}
	}

	for k := range avg {
		avg[k] /= float64(frames)
	}

	return avg, nil
}
