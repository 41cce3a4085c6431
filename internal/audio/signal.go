package audio

import (
	"fmt"
	"math"
	"time"
)

// Signal is a mono sample buffer with its rate.
type Signal struct {
	Samples    []float64
	SampleRate int
	// Channels is the channel count of the source before downmixing.
	Channels int
}

// Duration returns the playing time of the signal.
func (s Signal) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}

	return time.Duration(float64(len(s.Samples)) / float64(s.SampleRate) * float64(time.Second))
}

// Validate reports ErrEmptySignal for a signal without samples and
// ErrUnsupportedFormat for a non-positive rate.
func (s Signal) Validate() error {
	if len(s.Samples) == 0 {
		return ErrEmptySignal
	}

	if s.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrUnsupportedFormat, s.SampleRate)
	}

	return nil
}

// Clip limits samples to [-1, 1] in place and returns how many were changed.
func Clip(samples []float64) int {
	n := 0

	for i, v := range samples {
		switch {
		case v > 1:
			samples[i] = 1
			n++
		case v < -1:
			samples[i] = -1
			n++
		}
	}

	return n
}

// Normalize scales samples in place so the largest magnitude equals peak
// and returns the gain applied. Silent input is left alone with gain 1.
func Normalize(samples []float64, peak float64) float64 {
	var m float64
	for _, v := range samples {
		m = math.Max(m, math.Abs(v))
	}

	if m == 0 || peak <= 0 {
		return 1
	}

	g := peak / m
	for i := range samples {
		samples[i] *= g
	}

	return g
}

// TrimToShorter returns both slices cut to the shorter length and whether
// anything was cut.
func TrimToShorter(a, b []float64) ([]float64, []float64, bool) {
	n := min(len(a), len(b))

	return a[:n], b[:n], len(a) != len(b)
}
