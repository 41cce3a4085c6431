package window

import (
	"math"
	"testing"
)

func TestGenerateRectangular(t *testing.T) {
	w := Generate(TypeRectangular, 16)
	for i, v := range w {
		if v != 1 {
			t.Fatalf("w[%d] = %v, want 1", i, v)
		}
	}
}

func TestGenerateSymmetricEndpoints(t *testing.T) {
	tests := []struct {
		typ  Type
		edge float64
	}{
		{TypeHann, 0},
		{TypeHamming, 0.08},
	}

	for _, tc := range tests {
		t.Run(tc.typ.String(), func(t *testing.T) {
			w := Generate(tc.typ, 33)
			if math.Abs(w[0]-tc.edge) > 1e-12 || math.Abs(w[32]-tc.edge) > 1e-12 {
				t.Fatalf("edges = %v, %v, want %v", w[0], w[32], tc.edge)
			}
			if math.Abs(w[16]-1) > 1e-12 {
				t.Fatalf("center = %v, want 1", w[16])
			}
		})
	}
}

func TestGenerateEdgeLengths(t *testing.T) {
	if w := Generate(TypeHann, 0); w != nil {
		t.Fatalf("Generate(0) = %v, want nil", w)
	}
	if w := Generate(TypeHann, 1); len(w) != 1 || w[0] != 1 {
		t.Fatalf("Generate(1) = %v, want [1]", w)
	}
}

func TestPeriodicHannIsCOLAAtHalfOverlap(t *testing.T) {
	w := Generate(TypeHann, 1024, WithPeriodic())
	sum, err := OverlapSum(w, 512)
	if err != nil {
		t.Fatalf("OverlapSum() error = %v", err)
	}
	for i, v := range sum {
		if math.Abs(v-1) > 1e-12 {
			t.Fatalf("sum[%d] = %v, want 1", i, v)
		}
	}
}

func TestParseType(t *testing.T) {
	for typ, name := range typeNames {
		got, err := ParseType("  " + name + " ")
		if err != nil || got != typ {
			t.Fatalf("ParseType(%q) = %v, %v", name, got, err)
		}
	}

	if _, err := ParseType("HANN"); err != nil {
		t.Fatalf("ParseType should be case-insensitive: %v", err)
	}

	if _, err := ParseType("kaiser"); err == nil {
		t.Fatal("expected error for unknown window")
	}
}

func TestApplyCoefficientsInPlace(t *testing.T) {
	buf := []float64{1, 2, 3}
	if err := ApplyCoefficientsInPlace(buf, []float64{0.5, 0.5, 2}); err != nil {
		t.Fatalf("ApplyCoefficientsInPlace() error = %v", err)
	}
	want := []float64{0.5, 1, 6}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}

	if err := ApplyCoefficientsInPlace(buf, []float64{1}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestOverlapSumValidation(t *testing.T) {
	if _, err := OverlapSum(nil, 4); err == nil {
		t.Fatal("expected error for empty coefficients")
	}
	if _, err := OverlapSum([]float64{1}, 0); err == nil {
		t.Fatal("expected error for zero hop")
	}
}

func TestTypeStringUnknown(t *testing.T) {
	if got := Type(42).String(); got != "window(42)" {
		t.Fatalf("String() = %q", got)
	}
}
