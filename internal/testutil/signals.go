// Package testutil holds deterministic signal generators and tolerance
// assertions shared by the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates length samples of a sine at freqHz.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates uniform white noise in [-amplitude, amplitude)
// from a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Silence returns length zero samples.
func Silence(length int) []float64 {
	return make([]float64, length)
}

// AR2 filters seeded white noise through a two-pole resonator with pole
// radius r at normalized angle theta (radians per sample). The result has
// a known LPC model [1, -2r cos(theta), r^2].
func AR2(seed int64, r, theta float64, length int) []float64 {
	a1 := -2 * r * math.Cos(theta)
	a2 := r * r
	noise := DeterministicNoise(seed, 1, length)
	out := make([]float64, length)
	for n := range out {
		y := noise[n]
		if n >= 1 {
			y -= a1 * out[n-1]
		}
		if n >= 2 {
			y -= a2 * out[n-2]
		}
		out[n] = y
	}
	return out
}

// Energy returns the sum of squares of x.
func Energy(x []float64) float64 {
	var e float64
	for _, v := range x {
		e += v * v
	}
	return e
}
