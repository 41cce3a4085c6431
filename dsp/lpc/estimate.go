package lpc

import (
	"fmt"
	"math"
)

// Coefficients is an LPC vector [1, a1, ..., ap].
type Coefficients []float64

// Order returns p, the number of prediction taps.
func (c Coefficients) Order() int {
	if len(c) == 0 {
		return 0
	}

	return len(c) - 1
}

// Identity returns the pass-through filter [1, 0, ..., 0] of the given order.
func Identity(order int) Coefficients {
	if order < 0 {
		order = 0
	}

	c := make(Coefficients, order+1)
	c[0] = 1

	return c
}

// Stable reports whether every pole of 1/A(z) lies strictly inside the unit
// circle, using the step-down recursion to recover reflection coefficients.
func (c Coefficients) Stable() bool {
	p := c.Order()
	if p == 0 {
		return len(c) == 1
	}

	a := make([]float64, p+1)
	copy(a, c)
	prev := make([]float64, p+1)

	for m := p; m >= 1; m-- {
		k := a[m]
		if !(math.Abs(k) < 1) {
			return false
		}

		den := 1 - k*k
		for j := 1; j < m; j++ {
			prev[j] = (a[j] - k*a[m-j]) / den
		}

		copy(a[1:m], prev[1:m])
	}

	return true
}

// Result is a full LPC analysis of one frame.
type Result struct {
	Coefficients Coefficients
	// Reflection holds k1..kp. Entries after an early stop are zero.
	Reflection []float64
	// ErrorEnergy is the final forward prediction error energy.
	ErrorEnergy float64
}

// Autocorrelate returns the biased autocorrelation r[0..maxLag] of x,
// r[k] = sum_n x[n] x[n+k]. Lags at or beyond len(x) are zero.
func Autocorrelate(x []float64, maxLag int) []float64 {
	if maxLag < 0 {
		return nil
	}

	r := make([]float64, maxLag+1)
	for k := 0; k <= maxLag && k < len(x); k++ {
		var sum float64
		for n := 0; n+k < len(x); n++ {
			sum += x[n] * x[n+k]
		}
		r[k] = sum
	}

	return r
}

// Estimate returns the order-p LPC vector that minimizes the mean-square
// forward prediction error over frame.
func Estimate(frame []float64, order int) (Coefficients, error) {
	res, err := Analyze(frame, order)
	if err != nil {
		return nil, err
	}

	return res.Coefficients, nil
}

// Analyze runs the autocorrelation method on frame and also reports the
// reflection coefficients and the residual energy.
//
// len(frame) must exceed order. A frame whose energy is not finite (NaN or
// Inf samples, or overflow) is ErrNonFinite. If the frame is silent the
// identity filter is returned with zero error energy. If the error energy
// collapses during the recursion (a perfectly predictable frame) the
// recursion stops and the higher-order coefficients stay zero.
func Analyze(frame []float64, order int) (Result, error) {
	if order < 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}

	if len(frame) <= order {
		return Result{}, fmt.Errorf("%w: frame has %d samples, order %d needs at least %d",
			ErrInsufficientSamples, len(frame), order, order+1)
	}

	r := Autocorrelate(frame, order)
	if math.IsNaN(r[0]) || math.IsInf(r[0], 0) {
		return Result{}, fmt.Errorf("%w: frame energy %g", ErrNonFinite, r[0])
	}

	return levinsonDurbin(r, order), nil
}

// levinsonDurbin solves the Toeplitz normal equations for r[0..order].
func levinsonDurbin(r []float64, order int) Result {
	a := Identity(order)
	k := make([]float64, order)

	res := Result{Coefficients: a, Reflection: k}
	if !(r[0] > 0) {
		return res
	}

	e := r[0]
	res.ErrorEnergy = e
	if order == 0 {
		return res
	}

	tmp := make([]float64, order+1)

	for i := 1; i <= order; i++ {
		acc := r[i]
		for j := 1; j < i; j++ {
			acc += a[j] * r[i-j]
		}

		ki := -acc / e
		k[i-1] = ki

		copy(tmp[1:i], a[1:i])
		for j := 1; j < i; j++ {
			a[j] = tmp[j] + ki*tmp[i-j]
		}
		a[i] = ki

		e *= 1 - ki*ki
		if !(e > 0) {
			e = 0
			break
		}
	}

	res.ErrorEnergy = e

	return res
}

// BandwidthExpand returns a copy of c with a_k scaled by chirp^k. Poles move
// radially from z to chirp*z, widening every resonance. chirp must be in
// (0, 1]; 1 returns an unchanged copy.
func BandwidthExpand(c Coefficients, chirp float64) (Coefficients, error) {
	if !(chirp > 0 && chirp <= 1) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidChirp, chirp)
	}

	out := make(Coefficients, len(c))
	g := 1.0
	for i, v := range c {
		out[i] = v * g
		g *= chirp
	}

	return out, nil
}
