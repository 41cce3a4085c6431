package frequency

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-xsynth/internal/testutil"
)

func TestDescribeShortInput(t *testing.T) {
	if s := Describe(nil, 8000); s != (Shape{}) {
		t.Fatalf("Describe(nil) = %+v", s)
	}

	if s := Describe([]float64{3}, 8000); s != (Shape{}) {
		t.Fatalf("Describe(single bin) = %+v", s)
	}
}

func TestCentroidOfSingleBin(t *testing.T) {
	mag := make([]float64, 513)
	mag[64] = 1

	if got := Centroid(mag, 16000); math.Abs(got-1000) > 1e-9 {
		t.Fatalf("Centroid() = %g, want 1000", got)
	}

	s := Describe(mag, 16000)
	if s.Spread != 0 {
		t.Fatalf("Spread = %g, want 0", s.Spread)
	}

	if s.Flatness != 0 {
		t.Fatalf("Flatness = %g, want 0 with zero bins", s.Flatness)
	}

	if math.Abs(s.Rolloff-1000) > 1e-9 {
		t.Fatalf("Rolloff = %g, want 1000", s.Rolloff)
	}
}

func TestFlatnessOrdering(t *testing.T) {
	flat := []float64{1, 1, 1, 1, 1, 1}
	peaky := []float64{1, 0.01, 0.01, 5, 0.01, 0.01}

	if f := Flatness(flat); math.Abs(f-1) > 1e-12 {
		t.Fatalf("Flatness(flat) = %g, want 1", f)
	}

	if Flatness(peaky) >= 0.5 {
		t.Fatalf("Flatness(peaky) = %g, want well below 1", Flatness(peaky))
	}
}

func TestRolloffFraction(t *testing.T) {
	mag := []float64{0, 1, 1, 1, 1}

	if got := Rolloff(mag, 8000, 0.5); got != 2000 {
		t.Fatalf("Rolloff(0.5) = %g, want 2000", got)
	}

	if got := Rolloff(make([]float64, 5), 8000, 0.5); got != 0 {
		t.Fatalf("Rolloff(silence) = %g, want 0", got)
	}
}

func TestAverageSpectrumFindsTone(t *testing.T) {
	const rate = 16000.0

	sig := testutil.DeterministicSine(2000, rate, 0.5, 8192)

	avg, err := AverageSpectrum(sig, 512, 256)
	if err != nil {
		t.Fatalf("AverageSpectrum() error = %v", err)
	}

	if len(avg) != 257 {
		t.Fatalf("len(avg) = %d, want 257", len(avg))
	}

	peak := 0
	for k, v := range avg {
		if v > avg[peak] {
			peak = k
		}
	}

	if peak != 64 {
		t.Fatalf("peak bin = %d, want 64", peak)
	}

	if c := Centroid(avg, rate); math.Abs(c-2000) > 50 {
		t.Fatalf("Centroid() = %g, want near 2000", c)
	}
}

func TestAverageSpectrumShortSignal(t *testing.T) {
	avg, err := AverageSpectrum([]float64{1, 0, 0}, 8, 4)
	if err != nil {
		t.Fatalf("AverageSpectrum() error = %v", err)
	}

	if len(avg) != 5 {
		t.Fatalf("len(avg) = %d, want 5", len(avg))
	}

	// First Hann tap is zero, so the lone impulse vanishes.
	for k, v := range avg {
		if v != 0 {
			t.Fatalf("bin %d = %g, want 0", k, v)
		}
	}
}

func TestAverageSpectrumValidation(t *testing.T) {
	if _, err := AverageSpectrum(make([]float64, 64), 48, 16); err == nil {
		t.Fatal("expected error for non power-of-two size")
	}

	if _, err := AverageSpectrum(make([]float64, 64), 16, 0); err == nil {
		t.Fatal("expected error for zero hop")
	}
}
