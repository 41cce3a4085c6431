package dither

import (
	"fmt"
	"strings"
)

// Shaping names a fixed error-feedback filter.
type Shaping int

const (
	ShapingNone Shaping = iota
	// ShapingEFB feeds back the previous error only (first-order highpass).
	ShapingEFB
	// Shaping3FC is a third-order F-weighted curve.
	Shaping3FC
	// Shaping9FC is a ninth-order F-weighted curve.
	Shaping9FC
)

var shapingNames = map[Shaping]string{
	ShapingNone: "none",
	ShapingEFB:  "efb",
	Shaping3FC:  "3fc",
	Shaping9FC:  "9fc",
}

var shapingCoeffs = map[Shaping][]float64{
	ShapingEFB: {1},
	Shaping3FC: {1.623, -0.982, 0.109},
	Shaping9FC: {
		2.412, -3.370, 3.937, -4.174, 3.353,
		-2.205, 1.281, -0.569, 0.0847,
	},
}

// String returns the short lower-case name.
func (s Shaping) String() string {
	if name, ok := shapingNames[s]; ok {
		return name
	}

	return fmt.Sprintf("shaping(%d)", int(s))
}

// Valid reports whether s is a known shaping curve.
func (s Shaping) Valid() bool {
	_, ok := shapingNames[s]
	return ok
}

// Coefficients returns a copy of the feedback taps, nil for ShapingNone.
func (s Shaping) Coefficients() []float64 {
	src := shapingCoeffs[s]
	if len(src) == 0 {
		return nil
	}

	out := make([]float64, len(src))
	copy(out, src)

	return out
}

// ParseShaping resolves a shaping name such as "9fc" (case-insensitive).
func ParseShaping(name string) (Shaping, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for s, n := range shapingNames {
		if n == key {
			return s, nil
		}
	}

	return 0, fmt.Errorf("%w: unknown noise shaping %q", ErrInvalidOption, name)
}

// errorFeedback subtracts a weighted history of past quantization errors
// from each input sample. history is a ring buffer with the newest error
// at pos.
type errorFeedback struct {
	coeffs  []float64
	history []float64
	pos     int
}

func newErrorFeedback(coeffs []float64) *errorFeedback {
	return &errorFeedback{coeffs: coeffs, history: make([]float64, len(coeffs))}
}

func (f *errorFeedback) shape(x float64) float64 {
	n := len(f.coeffs)
	for i, c := range f.coeffs {
		x -= c * f.history[(f.pos-i+n)%n]
	}

	return x
}

// record stores the error made on the sample just shaped.
func (f *errorFeedback) record(e float64) {
	n := len(f.coeffs)
	if n == 0 {
		return
	}

	f.pos = (f.pos + 1) % n
	f.history[f.pos] = e
}

func (f *errorFeedback) reset() {
	clear(f.history)
	f.pos = 0
}
