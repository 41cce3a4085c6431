// Package time summarizes the level of a time-domain signal.
package time

import "math"

// Stats holds level statistics of a signal.
//
//nolint:revive
type Stats struct {
	Length         int
	DC             float64 // mean
	RMS            float64
	RMS_dB         float64
	Peak           float64 // max |x|
	Peak_dB        float64
	PeakPos        int
	CrestFactor    float64 // peak / RMS (linear)
	CrestFactor_dB float64
	Energy         float64 // sum of squares
	ZeroCrossings  int
	// Clipped counts samples with |x| >= 1, the full-scale limit of the
	// integer sample formats.
	Clipped int
}

// ampTodB converts an amplitude to decibels. Returns -Inf for zero.
func ampTodB(v float64) float64 {
	a := math.Abs(v)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}

func emptyStats() Stats {
	return Stats{
		RMS_dB:  math.Inf(-1),
		Peak_dB: math.Inf(-1),
	}
}

// Calculate computes all statistics in one pass.
func Calculate(signal []float64) Stats {
	var acc Accumulator
	acc.Update(signal)

	return acc.Result()
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// Peak returns the largest absolute sample value.
func Peak(signal []float64) float64 {
	var peak float64
	for _, x := range signal {
		peak = math.Max(peak, math.Abs(x))
	}

	return peak
}

// DC returns the mean of the signal using Kahan summation.
func DC(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sum, c float64
	for _, x := range signal {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}

	return sum / float64(len(signal))
}

// CrestFactor returns peak / RMS, or 0 for a silent signal.
func CrestFactor(signal []float64) float64 {
	r := RMS(signal)
	if r == 0 {
		return 0
	}

	return Peak(signal) / r
}

// Accumulator collects Stats across consecutive blocks. Results match
// Calculate on the concatenated input exactly.
type Accumulator struct {
	n       int
	sum     float64
	comp    float64
	sumSq   float64
	peak    float64
	peakPos int
	zc      int
	clipped int
	last    float64
}

// Update adds a block of samples.
func (a *Accumulator) Update(samples []float64) {
	for _, x := range samples {
		y := x - a.comp
		t := a.sum + y
		a.comp = (t - a.sum) - y
		a.sum = t

		a.sumSq += x * x

		if m := math.Abs(x); m > a.peak || a.n == 0 {
			a.peak = m
			a.peakPos = a.n
		}

		if math.Abs(x) >= 1 {
			a.clipped++
		}

		if a.n > 0 && a.last*x < 0 {
			a.zc++
		}

		a.last = x
		a.n++
	}
}

// Result returns the statistics gathered so far.
func (a *Accumulator) Result() Stats {
	if a.n == 0 {
		return emptyStats()
	}

	nf := float64(a.n)
	rms := math.Sqrt(a.sumSq / nf)

	s := Stats{
		Length:         a.n,
		DC:             a.sum / nf,
		RMS:            rms,
		RMS_dB:         ampTodB(rms),
		Peak:           a.peak,
		Peak_dB:        ampTodB(a.peak),
		PeakPos:        a.peakPos,
		Energy:         a.sumSq,
		ZeroCrossings:  a.zc,
		Clipped:        a.clipped,
	}

	if rms > 0 {
		s.CrestFactor = a.peak / rms
		s.CrestFactor_dB = ampTodB(s.CrestFactor)
	}

	return s
}

// Reset clears the accumulator for reuse.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}
