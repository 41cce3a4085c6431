package frame

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Accumulator is an output arena indexed by sample offset. Writes add into
// the region [offset, offset+len(frame)); nothing is ever overwritten.
//
// An Accumulator is not safe for concurrent use. The cross-synthesis engine
// fills it in a single sequential merge pass.
type Accumulator struct {
	data   []float64
	weight []float64
}

// NewAccumulator returns a zeroed accumulator of n samples.
func NewAccumulator(n int) *Accumulator {
	if n < 0 {
		n = 0
	}

	return &Accumulator{data: make([]float64, n)}
}

// Len returns the accumulator length in samples.
func (a *Accumulator) Len() int { return len(a.data) }

// Add sums frame into the accumulator starting at offset.
func (a *Accumulator) Add(offset int, frame []float64) error {
	if err := a.checkRegion(offset, len(frame)); err != nil {
		return err
	}

	vecmath.AddBlockInPlace(a.data[offset:offset+len(frame)], frame)

	return nil
}

// AddWindowed multiplies frame by weights, sums the product at offset and
// records the weights for Normalized. frame is not modified.
func (a *Accumulator) AddWindowed(offset int, frame, weights []float64) error {
	if len(frame) != len(weights) {
		return fmt.Errorf("%w: %d samples, %d weights", ErrFrameLength, len(frame), len(weights))
	}

	if err := a.checkRegion(offset, len(frame)); err != nil {
		return err
	}

	if a.weight == nil {
		a.weight = make([]float64, len(a.data))
	}

	region := a.data[offset : offset+len(frame)]
	wsum := a.weight[offset : offset+len(frame)]

	for i, x := range frame {
		region[i] += x * weights[i]
		wsum[i] += weights[i]
	}

	return nil
}

// Samples returns the raw accumulated signal. The slice aliases the
// accumulator.
func (a *Accumulator) Samples() []float64 {
	return a.data
}

// Normalized returns a copy of the accumulated signal divided by the
// accumulated weights wherever those exceed floor. Samples with weight at
// or below floor are copied unchanged. Without windowed writes this equals
// a copy of Samples.
func (a *Accumulator) Normalized(floor float64) []float64 {
	out := make([]float64, len(a.data))
	copy(out, a.data)

	if a.weight == nil {
		return out
	}

	for i, w := range a.weight {
		if w > floor {
			out[i] /= w
		}
	}

	return out
}

func (a *Accumulator) checkRegion(offset, n int) error {
	if offset < 0 || offset+n > len(a.data) {
		return fmt.Errorf("%w: [%d, %d) outside [0, %d)", ErrOutOfRange, offset, offset+n, len(a.data))
	}

	return nil
}
