package resample

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidRatio indicates a non-positive up or down factor.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates a non-positive or non-finite sample rate.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
	// ErrInvalidOption indicates an out-of-range option value.
	ErrInvalidOption = errors.New("resample: invalid option")
)

// Quality selects an anti-aliasing preset.
type Quality int

const (
	QualityFast Quality = iota
	QualityBalanced
	QualityBest
)

// String returns "fast", "balanced" or "best".
func (q Quality) String() string {
	switch q {
	case QualityFast:
		return "fast"
	case QualityBalanced:
		return "balanced"
	case QualityBest:
		return "best"
	default:
		return fmt.Sprintf("quality(%d)", int(q))
	}
}

// ParseQuality resolves "fast", "balanced" or "best" (case-insensitive).
func ParseQuality(name string) (Quality, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for q := range profiles {
		if q.String() == key {
			return q, nil
		}
	}

	return 0, fmt.Errorf("%w: unknown quality %q", ErrInvalidOption, name)
}

// Profile holds the filter parameters behind a Quality preset.
type Profile struct {
	TapsPerPhase      int
	CutoffScale       float64
	KaiserBeta        float64
	NominalStopbandDB float64
}

var profiles = map[Quality]Profile{
	QualityFast:     {TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5.0, NominalStopbandDB: 55},
	QualityBalanced: {TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5, NominalStopbandDB: 75},
	QualityBest:     {TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9.0, NominalStopbandDB: 90},
}

// QualityProfile returns the preset for q. Unknown values map to
// QualityBalanced.
func QualityProfile(q Quality) Profile {
	if p, ok := profiles[q]; ok {
		return p
	}

	return profiles[QualityBalanced]
}

const defaultMaxDenominator = 4096

type config struct {
	profile Profile
	quality Quality
	maxDen  int
}

// Option configures a Converter.
type Option func(*config) error

// WithQuality selects a preset. Later filter overrides still apply.
func WithQuality(q Quality) Option {
	return func(cfg *config) error {
		if _, ok := profiles[q]; !ok {
			return fmt.Errorf("%w: unknown quality %d", ErrInvalidOption, int(q))
		}

		cfg.quality = q
		cfg.profile = profiles[q]

		return nil
	}
}

// WithTapsPerPhase overrides the polyphase branch length.
func WithTapsPerPhase(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return fmt.Errorf("%w: taps per phase must be > 0: %d", ErrInvalidOption, n)
		}

		cfg.profile.TapsPerPhase = n

		return nil
	}
}

// WithCutoffScale scales the anti-aliasing cutoff. 1 is the Nyquist limit of
// the slower rate.
func WithCutoffScale(v float64) Option {
	return func(cfg *config) error {
		if !(v > 0 && v <= 1) {
			return fmt.Errorf("%w: cutoff scale must be in (0, 1]: %g", ErrInvalidOption, v)
		}

		cfg.profile.CutoffScale = v

		return nil
	}
}

// WithKaiserBeta overrides the Kaiser window shape.
func WithKaiserBeta(beta float64) Option {
	return func(cfg *config) error {
		if !(beta >= 0) || math.IsInf(beta, 0) {
			return fmt.Errorf("%w: kaiser beta must be >= 0: %g", ErrInvalidOption, beta)
		}

		cfg.profile.KaiserBeta = beta

		return nil
	}
}

// WithMaxDenominator bounds the denominator used to approximate a rate ratio.
func WithMaxDenominator(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return fmt.Errorf("%w: max denominator must be > 0: %d", ErrInvalidOption, n)
		}

		cfg.maxDen = n

		return nil
	}
}

func buildConfig(opts []Option) (config, error) {
	cfg := config{
		quality: QualityBalanced,
		profile: profiles[QualityBalanced],
		maxDen:  defaultMaxDenominator,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}

	return cfg, nil
}

// Converter is a streaming rational resampler. It is not safe for
// concurrent use.
type Converter struct {
	up, down int
	quality  Quality
	taps     []float64
	phases   [][]float64
	branch   int // longest polyphase branch

	phase   int // position within the up-sampled grid
	next    int // absolute index of the newest input sample feeding the next output
	seen    int // absolute input samples consumed
	history []float64
}

// NewRational returns a Converter for the ratio up/down, reduced to lowest
// terms.
func NewRational(up, down int, opts ...Option) (*Converter, error) {
	if up <= 0 || down <= 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidRatio, up, down)
	}

	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	g := gcd(up, down)
	up /= g
	down /= g

	taps, err := designPrototype(up, down, cfg.profile)
	if err != nil {
		return nil, err
	}

	phases := splitPhases(taps, up)

	branch := 0
	for _, ph := range phases {
		branch = max(branch, len(ph))
	}

	return &Converter{
		up:      up,
		down:    down,
		quality: cfg.quality,
		taps:    taps,
		phases:  phases,
		branch:  branch,
		history: make([]float64, 0, max(0, branch-1)),
	}, nil
}

// NewForRates returns a Converter from inRate to outRate, approximating the
// ratio by a fraction whose denominator does not exceed the configured bound.
func NewForRates(inRate, outRate float64, opts ...Option) (*Converter, error) {
	if err := checkRate(inRate); err != nil {
		return nil, err
	}

	if err := checkRate(outRate); err != nil {
		return nil, err
	}

	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	up, down := approximateRatio(outRate/inRate, cfg.maxDen)

	return NewRational(up, down, opts...)
}

func checkRate(rate float64) error {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidRate, rate)
	}

	return nil
}

// Ratio returns the reduced conversion factors.
func (c *Converter) Ratio() (up, down int) { return c.up, c.down }

// Quality returns the preset the converter was built from.
func (c *Converter) Quality() Quality { return c.quality }

// TapsPerPhase returns the length of the longest polyphase branch.
func (c *Converter) TapsPerPhase() int { return c.branch }

// Prototype returns a copy of the prototype low-pass taps.
func (c *Converter) Prototype() []float64 {
	return append([]float64(nil), c.taps...)
}

// Latency returns the filter group delay in output samples.
func (c *Converter) Latency() float64 {
	return 0.5 * float64(len(c.taps)-1) / float64(c.down)
}

// Reset clears all streaming state.
func (c *Converter) Reset() {
	c.phase = 0
	c.next = 0
	c.seen = 0
	c.history = c.history[:0]
}

// OutputLen returns how many samples the next Process call produces for
// n input samples.
func (c *Converter) OutputLen(n int) int {
	if n <= 0 {
		return 0
	}

	last := c.seen + n - 1
	count := 0

	for i, ph := c.next, c.phase; i <= last; {
		count++
		ph += c.down
		i += ph / c.up
		ph %= c.up
	}

	return count
}

// Process converts one block. State carries over, so consecutive calls
// produce the same samples as a single call on the concatenated input.
func (c *Converter) Process(input []float64) []float64 {
	if len(input) == 0 {
		return nil
	}

	out := make([]float64, 0, c.OutputLen(len(input)))

	buf := make([]float64, 0, len(c.history)+len(input))
	buf = append(buf, c.history...)
	buf = append(buf, input...)

	base := c.seen - len(c.history)
	last := c.seen + len(input) - 1

	for c.next <= last {
		var acc float64

		for k, h := range c.phases[c.phase] {
			idx := c.next - k
			if idx < base {
				break
			}

			acc += h * buf[idx-base]
		}

		out = append(out, acc)

		c.phase += c.down
		c.next += c.phase / c.up
		c.phase %= c.up
	}

	c.seen += len(input)

	keep := min(max(0, c.branch-1), len(buf))
	c.history = append(c.history[:0], buf[len(buf)-keep:]...)

	return out
}
