// Package loudness measures programme loudness following EBU R128 and
// ITU-R BS.1770.
package loudness

import (
	"errors"
	"fmt"
	"math"
)

const (
	momentarySeconds = 0.4
	shortTermSeconds = 3.0
	// Gating blocks are momentary windows started every 100 ms.
	blockStepSeconds = 0.1

	absoluteGate = -70.0
	relativeGate = -10.0

	// Floor reports silence instead of -Inf from the running windows.
	Floor = -120.0
)

// ErrInvalidOption indicates an unusable meter option.
var ErrInvalidOption = errors.New("loudness: invalid option")

type config struct {
	sampleRate float64
	channels   int
}

// Option configures a Meter.
type Option func(*config) error

// WithSampleRate sets the input rate in Hz (default 48000).
func WithSampleRate(rate float64) Option {
	return func(c *config) error {
		// The 38 Hz highpass and the 1.5 kHz shelf must sit below Nyquist.
		if !(rate > 2*shelfFreq) || math.IsInf(rate, 0) {
			return fmt.Errorf("%w: sample rate %g", ErrInvalidOption, rate)
		}

		c.sampleRate = rate

		return nil
	}
}

// WithChannels sets the interleaved channel count (default 1). Every
// channel has unit weight.
func WithChannels(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return fmt.Errorf("%w: %d channels", ErrInvalidOption, n)
		}

		c.channels = n

		return nil
	}
}

// Meter accumulates K-weighted power over sliding windows and gating
// blocks. It is not safe for concurrent use.
type Meter struct {
	sampleRate float64
	channels   int

	filters []kWeighting

	// Ring buffers of per-frame K-weighted power summed over channels.
	mom, short       []float64
	momSum, shortSum float64
	momPos, shortPos int

	step      int
	sinceStep int
	frames    int64
	blocks    []float64
	peak      float64
}

// NewMeter returns a meter ready for input.
func NewMeter(opts ...Option) (*Meter, error) {
	cfg := config{sampleRate: 48000, channels: 1}
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	m := &Meter{
		sampleRate: cfg.sampleRate,
		channels:   cfg.channels,
		filters:    make([]kWeighting, cfg.channels),
		mom:        make([]float64, int(math.Round(momentarySeconds*cfg.sampleRate))),
		short:      make([]float64, int(math.Round(shortTermSeconds*cfg.sampleRate))),
		step:       max(1, int(math.Round(blockStepSeconds*cfg.sampleRate))),
	}

	for i := range m.filters {
		m.filters[i] = newKWeighting(cfg.sampleRate)
	}

	return m, nil
}

// SampleRate returns the configured input rate.
func (m *Meter) SampleRate() float64 { return m.sampleRate }

// Channels returns the interleaved channel count.
func (m *Meter) Channels() int { return m.channels }

// Reset discards all history.
func (m *Meter) Reset() {
	for i := range m.filters {
		m.filters[i].reset()
	}

	clear(m.mom)
	clear(m.short)
	m.momSum, m.shortSum = 0, 0
	m.momPos, m.shortPos = 0, 0
	m.sinceStep = 0
	m.frames = 0
	m.blocks = m.blocks[:0]
	m.peak = 0
}

// ProcessBlock consumes interleaved frames. A trailing partial frame is
// ignored.
func (m *Meter) ProcessBlock(block []float64) {
	for i := 0; i+m.channels <= len(block); i += m.channels {
		m.processFrame(block[i : i+m.channels])
	}
}

func (m *Meter) processFrame(frame []float64) {
	var power float64

	for ch, x := range frame {
		m.peak = max(m.peak, math.Abs(x))
		y := m.filters[ch].process(x)
		power += y * y
	}

	m.momSum += power - m.mom[m.momPos]
	m.mom[m.momPos] = power
	m.momPos = (m.momPos + 1) % len(m.mom)

	m.shortSum += power - m.short[m.shortPos]
	m.short[m.shortPos] = power
	m.shortPos = (m.shortPos + 1) % len(m.short)

	m.frames++
	m.sinceStep++

	if m.sinceStep >= m.step {
		m.sinceStep = 0
		if m.frames >= int64(len(m.mom)) {
			m.blocks = append(m.blocks, max(0, m.momSum)/float64(len(m.mom)))
		}
	}
}

// Momentary returns the loudness of the last 400 ms in LUFS.
func (m *Meter) Momentary() float64 {
	return toLUFS(m.momSum / float64(len(m.mom)))
}

// ShortTerm returns the loudness of the last 3 s in LUFS.
func (m *Meter) ShortTerm() float64 {
	return toLUFS(m.shortSum / float64(len(m.short)))
}

// Integrated returns the gated programme loudness in LUFS, or -Inf when
// no block passes the gates (including input shorter than 400 ms).
func (m *Meter) Integrated() float64 {
	var (
		sum float64
		n   int
	)

	for _, b := range m.blocks {
		if toLUFS(b) > absoluteGate {
			sum += b
			n++
		}
	}

	if n == 0 {
		return math.Inf(-1)
	}

	gate := toLUFS(sum/float64(n)) + relativeGate
	sum, n = 0, 0

	for _, b := range m.blocks {
		if l := toLUFS(b); l > absoluteGate && l > gate {
			sum += b
			n++
		}
	}

	if n == 0 {
		return math.Inf(-1)
	}

	return toLUFS(sum / float64(n))
}

// Peak returns the largest absolute sample seen since the last Reset.
func (m *Meter) Peak() float64 { return m.peak }

// Measure returns the integrated loudness of a mono signal.
func Measure(samples []float64, sampleRate float64) (float64, error) {
	m, err := NewMeter(WithSampleRate(sampleRate))
	if err != nil {
		return 0, err
	}

	m.ProcessBlock(samples)

	return m.Integrated(), nil
}

func toLUFS(meanSquare float64) float64 {
	if !(meanSquare > 0) {
		return Floor
	}

	return -0.691 + 10*math.Log10(meanSquare)
}
