package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails tb unless got and want have equal length
// and every pair is within eps.
func RequireSliceNearlyEqual(tb testing.TB, got, want []float64, eps float64) {
	tb.Helper()

	if len(got) != len(want) {
		tb.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	if i, ok := firstViolation(len(got), func(i int) bool { return math.Abs(got[i]-want[i]) <= eps }); !ok {
		tb.Fatalf("index %d: got %v, want %v (eps %v)", i, got[i], want[i], eps)
	}
}

// RequireFinite fails tb on the first NaN or Inf.
func RequireFinite(tb testing.TB, data []float64) {
	tb.Helper()

	if i, ok := firstViolation(len(data), func(i int) bool { return !math.IsNaN(data[i]) && !math.IsInf(data[i], 0) }); !ok {
		tb.Fatalf("index %d: non-finite value %v", i, data[i])
	}
}

// RequireNonNegative fails tb on the first value below zero or NaN.
// Envelopes and magnitude spectra must pass.
func RequireNonNegative(tb testing.TB, data []float64) {
	tb.Helper()

	if i, ok := firstViolation(len(data), func(i int) bool { return data[i] >= 0 }); !ok {
		tb.Fatalf("index %d: negative value %v", i, data[i])
	}
}

// RequireBounded fails tb when any |value| exceeds limit.
func RequireBounded(tb testing.TB, data []float64, limit float64) {
	tb.Helper()

	if i, ok := firstViolation(len(data), func(i int) bool { return math.Abs(data[i]) <= limit }); !ok {
		tb.Fatalf("index %d: |%v| exceeds %v", i, data[i], limit)
	}
}

func firstViolation(n int, ok func(int) bool) (int, bool) {
	for i := range n {
		if !ok(i) {
			return i, false
		}
	}

	return -1, true
}
