package resample

import (
	"fmt"
	"math"
)

// designPrototype returns a Kaiser-windowed sinc low-pass at the up-sampled
// rate, scaled to a DC gain of up so that zero stuffing keeps unit level.
func designPrototype(up, down int, p Profile) ([]float64, error) {
	if p.TapsPerPhase <= 0 {
		return nil, fmt.Errorf("%w: taps per phase must be > 0: %d", ErrInvalidOption, p.TapsPerPhase)
	}

	if !(p.CutoffScale > 0 && p.CutoffScale <= 1) {
		return nil, fmt.Errorf("%w: cutoff scale must be in (0, 1]: %g", ErrInvalidOption, p.CutoffScale)
	}

	n := p.TapsPerPhase * up
	fc := p.CutoffScale * 0.5 / float64(max(up, down))

	taps := make([]float64, n)
	mid := 0.5 * float64(n-1)

	var sum float64
	for i := range taps {
		x := float64(i) - mid
		taps[i] = 2 * fc * sinc(2*fc*x) * kaiser(i, n, p.KaiserBeta)
		sum += taps[i]
	}

	if sum == 0 {
		return nil, fmt.Errorf("%w: prototype filter has zero DC gain", ErrInvalidOption)
	}

	g := float64(up) / sum
	for i := range taps {
		taps[i] *= g
	}

	return taps, nil
}

// splitPhases decomposes taps into up branches, branch p holding
// taps[p], taps[p+up], ...
func splitPhases(taps []float64, up int) [][]float64 {
	out := make([][]float64, up)
	for p := range out {
		for i := p; i < len(taps); i += up {
			out[p] = append(out[p], taps[i])
		}
	}

	return out
}

// approximateRatio returns the best continued-fraction approximation of v
// with a denominator of at most maxDen.
func approximateRatio(v float64, maxDen int) (num, den int) {
	if !(v > 0) || math.IsInf(v, 0) {
		return 1, 1
	}

	h0, k0 := 1.0, 0.0
	h1, k1 := math.Floor(v), 1.0

	for x := v; ; {
		f := x - math.Floor(x)
		if f == 0 {
			break
		}

		x = 1 / f
		a := math.Floor(x)

		k2 := a*k1 + k0
		if k2 > float64(maxDen) {
			break
		}

		h0, h1 = h1, a*h1+h0
		k0, k1 = k1, k2
	}

	num, den = int(math.Round(h1)), int(math.Round(k1))
	if num <= 0 || den <= 0 {
		return 1, 1
	}

	g := gcd(num, den)

	return num / g, den / g
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}

	if a < 0 {
		a = -a
	}

	if a == 0 {
		return 1
	}

	return a
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}

	return math.Sin(math.Pi*x) / (math.Pi * x)
}

func kaiser(i, n int, beta float64) float64 {
	if n <= 1 || beta == 0 {
		return 1
	}

	t := 2*float64(i)/float64(n-1) - 1

	return besselI0(beta*math.Sqrt(math.Max(0, 1-t*t))) / besselI0(beta)
}

// besselI0 evaluates the zeroth-order modified Bessel function by its power
// series.
func besselI0(x float64) float64 {
	sum, term := 1.0, 1.0
	q := x * x / 4

	for k := 1; k < 64; k++ {
		term *= q / float64(k*k)
		sum += term

		if term < 1e-16*sum {
			break
		}
	}

	return sum
}
