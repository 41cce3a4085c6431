package dither

import (
	"errors"
	"math"
	"testing"
)

func mustQuantizer(t *testing.T, opts ...Option) *Quantizer {
	t.Helper()

	q, err := NewQuantizer(opts...)
	if err != nil {
		t.Fatalf("NewQuantizer() error = %v", err)
	}

	return q
}

func TestQuantizerDefaultRounds(t *testing.T) {
	q := mustQuantizer(t)

	if q.BitDepth() != 16 || q.Type() != TypeNone || q.Shaping() != ShapingNone {
		t.Fatalf("defaults = %d %v %v", q.BitDepth(), q.Type(), q.Shaping())
	}

	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{0.5, 16384},
		{1.5, 32767},
		{-2, -32768},
		{math.NaN(), 0},
		{1.0 / 32767, 1},
	}

	for _, tt := range tests {
		if got := q.Quantize(tt.in); got != tt.want {
			t.Errorf("Quantize(%g) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestQuantizerBitDepth(t *testing.T) {
	q := mustQuantizer(t, WithBitDepth(8))

	if got := q.Quantize(1); got != 127 {
		t.Fatalf("Quantize(1) = %d, want 127", got)
	}

	if got := q.Quantize(-5); got != -128 {
		t.Fatalf("Quantize(-5) = %d, want -128", got)
	}
}

func TestQuantizerDeterministic(t *testing.T) {
	src := make([]float64, 4096)
	for i := range src {
		src[i] = 0.25 * math.Sin(float64(i)*0.031)
	}

	opts := []Option{WithType(TypeTriangular), WithShaping(Shaping9FC), WithSeed(42)}

	a := make([]int, len(src))
	b := make([]int, len(src))

	qa := mustQuantizer(t, opts...)
	qa.QuantizeBlock(a, src)
	mustQuantizer(t, opts...).QuantizeBlock(b, src)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d: %d vs %d", i, a[i], b[i])
		}
	}

	qa.Reset()
	qa.QuantizeBlock(b, src)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("after Reset sample %d: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestTriangularDitherErrorBounds(t *testing.T) {
	q := mustQuantizer(t, WithType(TypeTriangular))

	var sum float64

	const n = 50000
	for i := range n {
		x := 0.001 * math.Sin(float64(i)*0.05)
		e := float64(q.Quantize(x)) - x*q.Scale()

		if math.Abs(e) > 1.5 {
			t.Fatalf("sample %d: error %g exceeds 1.5 LSB", i, e)
		}

		sum += e
	}

	if mean := sum / n; math.Abs(mean) > 0.02 {
		t.Fatalf("mean error = %g LSB, want near 0", mean)
	}
}

func TestRectangularDitherErrorBounds(t *testing.T) {
	q := mustQuantizer(t, WithType(TypeRectangular), WithSeed(7))

	for i := range 10000 {
		x := 0.3 * math.Cos(float64(i)*0.013)
		e := float64(q.Quantize(x)) - x*q.Scale()

		if math.Abs(e) > 1+1e-9 {
			t.Fatalf("sample %d: error %g exceeds 1 LSB", i, e)
		}
	}
}

// lag1 returns the normalized lag-one autocorrelation of x.
func lag1(x []float64) float64 {
	var r0, r1 float64
	for i, v := range x {
		r0 += v * v
		if i > 0 {
			r1 += v * x[i-1]
		}
	}

	return r1 / r0
}

func TestShapingMovesNoiseUp(t *testing.T) {
	const n = 20000

	src := make([]float64, n)
	for i := range src {
		src[i] = 0.3 * math.Sin(float64(i)*0.0271)
	}

	totalError := func(s Shaping) []float64 {
		q := mustQuantizer(t, WithType(TypeTriangular), WithShaping(s))
		e := make([]float64, n)
		for i, x := range src {
			e[i] = float64(q.Quantize(x)) - x*q.Scale()
		}

		return e
	}

	if r := lag1(totalError(ShapingNone)); math.Abs(r) > 0.05 {
		t.Fatalf("unshaped lag-1 correlation = %g, want near 0", r)
	}

	// First-order feedback turns white error r[n] into r[n]-r[n-1].
	if r := lag1(totalError(ShapingEFB)); r > -0.4 {
		t.Fatalf("EFB lag-1 correlation = %g, want about -0.5", r)
	}
}

func TestQuantizerOptionValidation(t *testing.T) {
	bad := []Option{
		WithBitDepth(1),
		WithBitDepth(33),
		WithType(Type(9)),
		WithAmplitude(-1),
		WithAmplitude(math.Inf(1)),
		WithAmplitude(math.NaN()),
		WithShaping(Shaping(-1)),
	}

	for i, opt := range bad {
		if _, err := NewQuantizer(opt); !errors.Is(err, ErrInvalidOption) {
			t.Errorf("option %d: error = %v, want ErrInvalidOption", i, err)
		}
	}

	if _, err := NewQuantizer(nil, WithAmplitude(0)); err != nil {
		t.Fatalf("nil option: %v", err)
	}
}

func TestParseNames(t *testing.T) {
	for _, ty := range []Type{TypeNone, TypeRectangular, TypeTriangular} {
		got, err := ParseType(ty.String())
		if err != nil || got != ty {
			t.Fatalf("ParseType(%q) = %v, %v", ty.String(), got, err)
		}
	}

	if got, err := ParseType(" TPDF "); err != nil || got != TypeTriangular {
		t.Fatalf("ParseType(TPDF) = %v, %v", got, err)
	}

	for _, s := range []Shaping{ShapingNone, ShapingEFB, Shaping3FC, Shaping9FC} {
		got, err := ParseShaping(s.String())
		if err != nil || got != s {
			t.Fatalf("ParseShaping(%q) = %v, %v", s.String(), got, err)
		}
	}

	if _, err := ParseType("gaussian"); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("ParseType(gaussian) error = %v", err)
	}

	if _, err := ParseShaping("sbm"); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("ParseShaping(sbm) error = %v", err)
	}

	if Shaping9FC.Coefficients()[0] != 2.412 || ShapingNone.Coefficients() != nil {
		t.Fatal("unexpected shaping coefficients")
	}
}
