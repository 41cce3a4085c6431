package resample

import (
	"errors"
	"math"
	"testing"
)

func TestNewRationalValidation(t *testing.T) {
	for _, tc := range [][2]int{{0, 1}, {1, 0}, {-2, 3}} {
		if _, err := NewRational(tc[0], tc[1]); !errors.Is(err, ErrInvalidRatio) {
			t.Fatalf("NewRational(%d, %d) error = %v", tc[0], tc[1], err)
		}
	}
}

func TestOptionValidation(t *testing.T) {
	bad := []Option{
		WithQuality(Quality(7)),
		WithTapsPerPhase(0),
		WithCutoffScale(0),
		WithCutoffScale(1.5),
		WithKaiserBeta(-1),
		WithMaxDenominator(0),
	}

	for i, opt := range bad {
		if _, err := NewRational(2, 1, opt); !errors.Is(err, ErrInvalidOption) {
			t.Fatalf("option %d: error = %v, want ErrInvalidOption", i, err)
		}
	}
}

func TestNewForRatesValidation(t *testing.T) {
	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewForRates(r, 48000); !errors.Is(err, ErrInvalidRate) {
			t.Fatalf("NewForRates(%g, 48000) error = %v", r, err)
		}

		if _, err := NewForRates(48000, r); !errors.Is(err, ErrInvalidRate) {
			t.Fatalf("NewForRates(48000, %g) error = %v", r, err)
		}
	}
}

func TestRatioReduction(t *testing.T) {
	r, err := NewRational(320, 294)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}

	if up, down := r.Ratio(); up != 160 || down != 147 {
		t.Fatalf("ratio = %d/%d, want 160/147", up, down)
	}
}

func TestNewForRatesCommon(t *testing.T) {
	tests := []struct {
		in, out  float64
		up, down int
	}{
		{44100, 48000, 160, 147},
		{48000, 44100, 147, 160},
		{16000, 44100, 441, 160},
		{22050, 11025, 1, 2},
	}

	for _, tc := range tests {
		r, err := NewForRates(tc.in, tc.out)
		if err != nil {
			t.Fatalf("NewForRates() error = %v", err)
		}

		if up, down := r.Ratio(); up != tc.up || down != tc.down {
			t.Fatalf("%g->%g ratio = %d/%d, want %d/%d", tc.in, tc.out, up, down, tc.up, tc.down)
		}
	}
}

func TestOutputLenMatchesProcess(t *testing.T) {
	r, err := NewRational(3, 2)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}

	in := sine(1000, 48000, 257)
	want := r.OutputLen(len(in))

	if got := len(r.Process(in)); got != want {
		t.Fatalf("len(out) = %d, want %d", got, want)
	}
}

func TestStreamingMatchesSingleBlock(t *testing.T) {
	r1, err := NewRational(160, 147)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}

	r2, err := NewRational(160, 147)
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}

	in := sine(1000, 44100, 8192)
	whole := r1.Process(in)

	var chunked []float64
	for i := 0; i < len(in); i += 257 {
		chunked = append(chunked, r2.Process(in[i:min(len(in), i+257)])...)
	}

	if len(chunked) != len(whole) {
		t.Fatalf("chunked len=%d whole len=%d", len(chunked), len(whole))
	}

	for i := range whole {
		if d := math.Abs(whole[i] - chunked[i]); d > 1e-12 {
			t.Fatalf("sample %d diff=%g", i, d)
		}
	}

	r2.Reset()

	again := r2.Process(in)
	for i := range whole {
		if again[i] != whole[i] {
			t.Fatalf("after Reset sample %d = %g, want %g", i, again[i], whole[i])
		}
	}
}

func TestQualityPassbandAndStopband(t *testing.T) {
	tests := []struct {
		quality       Quality
		maxPassbandDB float64
		minStopbandDB float64
	}{
		{QualityFast, 0.7, 20},
		{QualityBalanced, 0.35, 35},
		{QualityBest, 0.2, 50},
	}

	for _, tc := range tests {
		t.Run(tc.quality.String(), func(t *testing.T) {
			pass, err := Resample(sine(2000, 48000, 32768), 1, 2, WithQuality(tc.quality))
			if err != nil {
				t.Fatalf("Resample() error = %v", err)
			}

			stop, err := Resample(sine(17000, 48000, 32768), 1, 2, WithQuality(tc.quality))
			if err != nil {
				t.Fatalf("Resample() error = %v", err)
			}

			ref := rms(sine(2000, 48000, 32768)[4096:])

			if d := math.Abs(db(rms(pass[2048:14336]) / ref)); d > tc.maxPassbandDB {
				t.Fatalf("passband droop %.2f dB > %.2f dB", d, tc.maxPassbandDB)
			}

			if a := -db(rms(stop[2048:14336]) / ref); a < tc.minStopbandDB {
				t.Fatalf("stopband attenuation %.2f dB < %.2f dB", a, tc.minStopbandDB)
			}
		})
	}
}

func TestConvertLengthAndAlignment(t *testing.T) {
	tests := []struct{ in, out float64 }{
		{44100, 48000},
		{48000, 44100},
		{8000, 16000},
		{22050, 16000},
	}

	for _, tc := range tests {
		in := sine(100, tc.in, 4000)

		out, err := Convert(in, tc.in, tc.out)
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}

		want := int(math.Round(4000 * tc.out / tc.in))
		if len(out) != want {
			t.Fatalf("%g->%g len = %d, want %d", tc.in, tc.out, len(out), want)
		}

		ideal := sine(100, tc.out, want)
		for i := 200; i < want-200; i++ {
			if d := math.Abs(out[i] - ideal[i]); d > 0.05 {
				t.Fatalf("%g->%g sample %d = %g, want %g", tc.in, tc.out, i, out[i], ideal[i])
			}
		}
	}
}

func TestConvertEqualRatesCopies(t *testing.T) {
	in := []float64{1, 2, 3}

	out, err := Convert(in, 16000, 16000)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	out[0] = 9
	if in[0] != 1 {
		t.Fatal("Convert() aliased its input")
	}

	if len(out) != 3 || out[2] != 3 {
		t.Fatalf("Convert() = %v", out)
	}
}

func TestConvertEmpty(t *testing.T) {
	out, err := Convert(nil, 44100, 48000)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if len(out) != 0 {
		t.Fatalf("len(out) = %d, want 0", len(out))
	}
}

func TestPrototypeDCGain(t *testing.T) {
	r, err := NewRational(3, 1, WithTapsPerPhase(24), WithKaiserBeta(6))
	if err != nil {
		t.Fatalf("NewRational() error = %v", err)
	}

	var sum float64
	for _, v := range r.Prototype() {
		sum += v
	}

	if math.Abs(sum-3) > 1e-9 {
		t.Fatalf("prototype DC gain = %g, want 3", sum)
	}

	if r.TapsPerPhase() != 24 || len(r.Prototype()) != 72 {
		t.Fatalf("taps = %d/%d", r.TapsPerPhase(), len(r.Prototype()))
	}

	if r.Quality() != QualityBalanced {
		t.Fatalf("Quality() = %v", r.Quality())
	}
}

func sine(freq, rate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / rate)
	}

	return out
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	var s float64
	for _, v := range x {
		s += v * v
	}

	return math.Sqrt(s / float64(len(x)))
}

func db(ratio float64) float64 {
	if ratio <= 0 {
		return -300
	}

	return 20 * math.Log10(ratio)
}

func TestParseQuality(t *testing.T) {
	for _, q := range []Quality{QualityFast, QualityBalanced, QualityBest} {
		got, err := ParseQuality(" " + q.String())
		if err != nil || got != q {
			t.Fatalf("ParseQuality(%q) = %v, %v", q.String(), got, err)
		}
	}

	if _, err := ParseQuality("BEST"); err != nil {
		t.Fatalf("ParseQuality(BEST) error = %v", err)
	}

	if _, err := ParseQuality("ultra"); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("ParseQuality(ultra) error = %v", err)
	}
}
