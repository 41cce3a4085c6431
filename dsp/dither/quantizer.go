package dither

import (
	"fmt"
	"math"
	"math/rand/v2"
)

const (
	defaultBitDepth = 16
	defaultSeed     = 0x5eed
	minBitDepth     = 2
	maxBitDepth     = 32
)

type config struct {
	bitDepth  int
	ditherTyp Type
	amplitude float64
	shaping   Shaping
	seed      uint64
}

// Option configures a Quantizer.
type Option func(*config) error

// WithBitDepth sets the target word length (2..32, default 16).
func WithBitDepth(bits int) Option {
	return func(c *config) error {
		if bits < minBitDepth || bits > maxBitDepth {
			return fmt.Errorf("%w: bit depth must be in [%d, %d]: %d", ErrInvalidOption, minBitDepth, maxBitDepth, bits)
		}

		c.bitDepth = bits

		return nil
	}
}

// WithType sets the dither distribution (default TypeNone).
func WithType(t Type) Option {
	return func(c *config) error {
		if !t.Valid() {
			return fmt.Errorf("%w: dither type %d", ErrInvalidOption, int(t))
		}

		c.ditherTyp = t

		return nil
	}
}

// WithAmplitude scales the dither noise in LSB (default 1).
func WithAmplitude(lsb float64) Option {
	return func(c *config) error {
		if !(lsb >= 0) || math.IsInf(lsb, 0) {
			return fmt.Errorf("%w: amplitude must be >= 0 and finite: %g", ErrInvalidOption, lsb)
		}

		c.amplitude = lsb

		return nil
	}
}

// WithShaping enables error-feedback noise shaping (default ShapingNone).
func WithShaping(s Shaping) Option {
	return func(c *config) error {
		if !s.Valid() {
			return fmt.Errorf("%w: shaping %d", ErrInvalidOption, int(s))
		}

		c.shaping = s

		return nil
	}
}

// WithSeed seeds the noise generator. Quantizers built with equal options
// produce equal output.
func WithSeed(seed uint64) Option {
	return func(c *config) error {
		c.seed = seed
		return nil
	}
}

// Quantizer maps samples in [-1, 1] to signed integers of a fixed bit
// depth. Full scale 1.0 maps to 2^(bits-1)-1; results are clamped to the
// word range. A Quantizer carries noise-shaping state and is not safe for
// concurrent use.
type Quantizer struct {
	bitDepth  int
	ditherTyp Type
	amplitude float64
	shaping   Shaping
	seed      uint64

	scale  float64
	lo, hi int
	fb     *errorFeedback
	rng    *rand.Rand
}

// NewQuantizer returns a quantizer. Without options it rounds to 16 bits
// with neither dither nor shaping.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	cfg := config{
		bitDepth:  defaultBitDepth,
		ditherTyp: TypeNone,
		amplitude: 1,
		shaping:   ShapingNone,
		seed:      defaultSeed,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	full := math.Exp2(float64(cfg.bitDepth - 1))

	q := &Quantizer{
		bitDepth:  cfg.bitDepth,
		ditherTyp: cfg.ditherTyp,
		amplitude: cfg.amplitude,
		shaping:   cfg.shaping,
		seed:      cfg.seed,
		scale:     full - 1,
		lo:        -int(full),
		hi:        int(full) - 1,
		fb:        newErrorFeedback(cfg.shaping.Coefficients()),
	}
	q.Reset()

	return q, nil
}

// BitDepth returns the target word length.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// Type returns the dither distribution.
func (q *Quantizer) Type() Type { return q.ditherTyp }

// Shaping returns the noise-shaping curve.
func (q *Quantizer) Shaping() Shaping { return q.shaping }

// Scale returns the integer value of full scale.
func (q *Quantizer) Scale() float64 { return q.scale }

// Quantize converts one sample. NaN maps to zero.
func (q *Quantizer) Quantize(x float64) int {
	if math.IsNaN(x) {
		x = 0
	}

	shaped := q.fb.shape(x * q.scale)
	v := math.Round(shaped + q.noise())

	n := int(max(float64(q.lo), min(float64(q.hi), v)))
	q.fb.record(float64(n) - shaped)

	return n
}

// QuantizeBlock converts src into dst, which must be at least as long.
func (q *Quantizer) QuantizeBlock(dst []int, src []float64) {
	for i, x := range src {
		dst[i] = q.Quantize(x)
	}
}

// Reset clears the shaping history and reseeds the noise generator.
func (q *Quantizer) Reset() {
	q.fb.reset()
	q.rng = rand.New(rand.NewPCG(q.seed, q.seed^0x9e3779b97f4a7c15))
}

func (q *Quantizer) noise() float64 {
	switch q.ditherTyp {
	case TypeRectangular:
		return q.amplitude * (q.rng.Float64() - 0.5)
	case TypeTriangular:
		return q.amplitude * (q.rng.Float64() - q.rng.Float64())
	default:
		return 0
	}
}
