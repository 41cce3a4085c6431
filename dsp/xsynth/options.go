package xsynth

import (
	"fmt"
	"io"
	"math"
	"runtime"
	"strings"

	"github.com/cwbudde/algo-xsynth/dsp/window"
	"github.com/sirupsen/logrus"
)

const (
	defaultMaxGainDB = 60.0
	maxMaxGainDB     = 240.0
	windowNormFloor  = 1e-12
)

// EnvelopeMode selects where the modulator envelope comes from.
type EnvelopeMode int

const (
	// ModeFrame fits a new LPC model to every modulator frame.
	ModeFrame EnvelopeMode = iota
	// ModeGlobal fits one LPC model to the whole modulator and applies the
	// same envelope to every carrier frame.
	ModeGlobal
)

// String returns "frame" or "global".
func (m EnvelopeMode) String() string {
	switch m {
	case ModeFrame:
		return "frame"
	case ModeGlobal:
		return "global"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseEnvelopeMode resolves "frame" or "global".
func ParseEnvelopeMode(s string) (EnvelopeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "frame":
		return ModeFrame, nil
	case "global":
		return ModeGlobal, nil
	default:
		return 0, fmt.Errorf("%w: unknown envelope mode %q", ErrInvalidParameter, s)
	}
}

// Option configures an Engine at construction time.
type Option func(*engineConfig) error

type engineConfig struct {
	workers   int
	window    window.Type
	chirp     float64
	maxGainDB float64
	mode      EnvelopeMode
	logger    logrus.FieldLogger
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		workers:   runtime.GOMAXPROCS(0),
		window:    window.TypeRectangular,
		chirp:     1,
		maxGainDB: defaultMaxGainDB,
		mode:      ModeFrame,
		logger:    discardLogger(),
	}
}

// WithWorkers bounds the number of concurrent frame workers. 0 selects
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(cfg *engineConfig) error {
		if n < 0 {
			return fmt.Errorf("%w: workers must be >= 0: %d", ErrInvalidParameter, n)
		}

		if n == 0 {
			n = runtime.GOMAXPROCS(0)
		}

		cfg.workers = n

		return nil
	}
}

// WithWindow selects the synthesis window. TypeRectangular (the default)
// keeps plain unnormalized overlap-add.
func WithWindow(t window.Type) Option {
	return func(cfg *engineConfig) error {
		switch t {
		case window.TypeRectangular, window.TypeHann, window.TypeHamming:
			cfg.window = t
			return nil
		default:
			return fmt.Errorf("%w: unsupported window %v", ErrInvalidParameter, t)
		}
	}
}

// WithChirp applies bandwidth expansion a_k *= chirp^k to every LPC vector
// before envelope evaluation. 1 (the default) disables it.
func WithChirp(chirp float64) Option {
	return func(cfg *engineConfig) error {
		if !(chirp > 0 && chirp <= 1) {
			return fmt.Errorf("%w: chirp must be in (0, 1]: %g", ErrInvalidParameter, chirp)
		}

		cfg.chirp = chirp

		return nil
	}
}

// WithMaxGainDB caps envelope magnitudes at db decibels. Default 60 dB.
func WithMaxGainDB(db float64) Option {
	return func(cfg *engineConfig) error {
		if db < 0 || db > maxMaxGainDB || math.IsNaN(db) {
			return fmt.Errorf("%w: max gain must be in [0, %g] dB: %g", ErrInvalidParameter, maxMaxGainDB, db)
		}

		cfg.maxGainDB = db

		return nil
	}
}

// WithEnvelopeMode selects per-frame or whole-signal envelope estimation.
func WithEnvelopeMode(m EnvelopeMode) Option {
	return func(cfg *engineConfig) error {
		if m != ModeFrame && m != ModeGlobal {
			return fmt.Errorf("%w: unknown envelope mode %d", ErrInvalidParameter, m)
		}

		cfg.mode = m

		return nil
	}
}

// WithLogger sets the logger for run summaries. nil discards output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(cfg *engineConfig) error {
		if l == nil {
			l = discardLogger()
		}

		cfg.logger = l

		return nil
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}
