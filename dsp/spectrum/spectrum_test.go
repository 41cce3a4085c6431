package spectrum

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"
)

func TestMagnitudePhase(t *testing.T) {
	bins := []complex128{3 + 4i, -1 - 1i, 0}

	mag := Magnitude(bins)
	if len(mag) != len(bins) {
		t.Fatalf("Magnitude length mismatch: got=%d want=%d", len(mag), len(bins))
	}

	if math.Abs(mag[0]-5) > 1e-12 {
		t.Fatalf("Magnitude[0]=%f want=5", mag[0])
	}

	if math.Abs(mag[1]-math.Sqrt2) > 1e-12 {
		t.Fatalf("Magnitude[1]=%f want=%f", mag[1], math.Sqrt2)
	}

	if mag[2] != 0 {
		t.Fatalf("Magnitude[2]=%f want=0", mag[2])
	}

	phase := Phase(bins)
	if math.Abs(phase[0]-math.Atan2(4, 3)) > 1e-12 {
		t.Fatalf("Phase[0]=%f mismatch", phase[0])
	}
}

func TestMagnitudeEmpty(t *testing.T) {
	if got := Magnitude(nil); got != nil {
		t.Fatalf("Magnitude(nil) = %v, want nil", got)
	}

	if got := Phase(nil); got != nil {
		t.Fatalf("Phase(nil) = %v, want nil", got)
	}
}

func TestMagnitudeIntoReusesPool(t *testing.T) {
	dst := make([]float64, 3)
	for range 4 {
		MagnitudeInto(dst, []complex128{1, 1i, -2})
	}

	want := []float64{1, 1, 2}
	for i := range want {
		if math.Abs(dst[i]-want[i]) > 1e-12 {
			t.Fatalf("dst[%d]=%f want=%f", i, dst[i], want[i])
		}
	}
}

func TestApplyGainPreservesPhase(t *testing.T) {
	spec := []complex128{1 + 1i, -2 + 0.5i, 0.25 - 3i, -1 - 1i}
	orig := append([]complex128(nil), spec...)
	gain := []float64{2, 0.5, 10, 1e-3}

	if err := ApplyGain(spec, gain); err != nil {
		t.Fatalf("ApplyGain() error = %v", err)
	}

	for k := range spec {
		if d := math.Abs(cmplx.Phase(spec[k]) - cmplx.Phase(orig[k])); d > 1e-12 {
			t.Fatalf("bin %d phase changed by %g", k, d)
		}

		if d := math.Abs(cmplx.Abs(spec[k]) - gain[k]*cmplx.Abs(orig[k])); d > 1e-12 {
			t.Fatalf("bin %d magnitude mismatch: diff=%g", k, d)
		}
	}
}

func TestApplyGainLengthMismatch(t *testing.T) {
	err := ApplyGain(make([]complex128, 4), make([]float64, 3))
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("ApplyGain() error = %v, want ErrLengthMismatch", err)
	}
}

func TestBinFrequency(t *testing.T) {
	tests := []struct {
		k, size int
		rate    float64
		want    float64
	}{
		{0, 1024, 16000, 0},
		{1, 1024, 16000, 15.625},
		{512, 1024, 16000, 8000},
		{3, 0, 16000, 0},
	}

	for _, tc := range tests {
		if got := BinFrequency(tc.k, tc.size, tc.rate); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("BinFrequency(%d, %d, %g) = %g, want %g", tc.k, tc.size, tc.rate, got, tc.want)
		}
	}
}

func TestIsPowerOf2(t *testing.T) {
	for _, n := range []int{1, 2, 4, 1024, 1 << 20} {
		if !IsPowerOf2(n) {
			t.Fatalf("IsPowerOf2(%d) = false", n)
		}
	}

	for _, n := range []int{0, -2, 3, 1000, 1023} {
		if IsPowerOf2(n) {
			t.Fatalf("IsPowerOf2(%d) = true", n)
		}
	}
}
