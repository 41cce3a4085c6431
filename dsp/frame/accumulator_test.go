package frame

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-xsynth/dsp/window"
	"github.com/cwbudde/algo-xsynth/internal/testutil"
)

func TestAccumulatorAddNeverOverwrites(t *testing.T) {
	acc := NewAccumulator(6)

	if err := acc.Add(0, []float64{1, 2, 3}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := acc.Add(2, []float64{10, 20, 30, 40}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, acc.Samples(), []float64{1, 2, 13, 20, 30, 40}, 0)
}

func TestAccumulatorOutOfRange(t *testing.T) {
	acc := NewAccumulator(4)

	if err := acc.Add(2, []float64{1, 1, 1}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Add past end error = %v", err)
	}
	if err := acc.Add(-1, []float64{1}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Add negative offset error = %v", err)
	}
	if err := acc.AddWindowed(0, []float64{1, 2}, []float64{1}); !errors.Is(err, ErrFrameLength) {
		t.Fatalf("AddWindowed mismatch error = %v", err)
	}
}

func TestAccumulatorNormalizedHannReconstruction(t *testing.T) {
	const (
		size = 64
		hop  = 16
	)

	signal := testutil.DeterministicSine(1000, 16000, 0.7, 512)
	frames, err := Split(signal, size, hop)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	w := window.Generate(window.TypeHann, size, window.WithPeriodic())
	acc := NewAccumulator(OutputLength(len(frames), size, hop))
	for i, f := range frames {
		if err := acc.AddWindowed(Offset(i, hop), f, w); err != nil {
			t.Fatalf("AddWindowed() error = %v", err)
		}
	}

	out := acc.Normalized(1e-9)
	testutil.RequireFinite(t, out)

	// The first sample has zero Hann weight and stays at zero; everything
	// else is reconstructed exactly.
	for i := 1; i < len(out); i++ {
		if d := math.Abs(out[i] - signal[i]); d > 1e-12 {
			t.Fatalf("sample %d: got %g want %g", i, out[i], signal[i])
		}
	}
}

func TestAccumulatorNormalizedWithoutWeightsCopies(t *testing.T) {
	acc := NewAccumulator(3)
	_ = acc.Add(0, []float64{1, 2, 3})

	out := acc.Normalized(0)
	out[0] = 42
	if acc.Samples()[0] != 1 {
		t.Fatal("Normalized must return a copy")
	}
}
