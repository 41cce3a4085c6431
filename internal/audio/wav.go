package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/youpy/go-wav"

	"github.com/cwbudde/algo-xsynth/dsp/dither"
)

const (
	readChunk = 4096
	scale16   = 1 << 15
	scale32   = 1 << 31
)

// Source is what the WAV decoder needs: sequential and random access.
// *os.File and *bytes.Reader qualify.
type Source interface {
	io.Reader
	io.ReaderAt
}

// Load reads a WAV file.
func Load(path string) (Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return Signal{}, fmt.Errorf("audio: open %s: %w", path, err)
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return Signal{}, fmt.Errorf("audio: read %s: %w", path, err)
	}

	return s, nil
}

// Read decodes a WAV stream into a mono Signal.
func Read(r Source) (Signal, error) {
	rd := wav.NewReader(r)

	format, err := rd.Format()
	if err != nil {
		return Signal{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	if format.AudioFormat != wav.AudioFormatPCM {
		return Signal{}, fmt.Errorf("%w: audio format %d", ErrUnsupportedFormat, format.AudioFormat)
	}

	var full float64
	switch format.BitsPerSample {
	case 16:
		full = scale16
	case 32:
		full = scale32
	default:
		return Signal{}, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedFormat, format.BitsPerSample)
	}

	channels := int(format.NumChannels)
	if channels < 1 || channels > 2 {
		return Signal{}, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, channels)
	}

	var out []float64

	for {
		samples, err := rd.ReadSamples(readChunk)
		for _, smp := range samples {
			var sum float64
			for ch := range channels {
				sum += float64(rd.IntValue(smp, uint(ch)))
			}

			out = append(out, sum/float64(channels)/full)
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return Signal{}, fmt.Errorf("audio: decode samples: %w", err)
		}
	}

	if len(out) == 0 {
		return Signal{}, ErrEmptySignal
	}

	return Signal{
		Samples:    out,
		SampleRate: int(format.SampleRate),
		Channels:   channels,
	}, nil
}

// WriteOption configures Write and Save.
type WriteOption func(*writeConfig)

type writeConfig struct {
	quantizer *dither.Quantizer
}

// WithQuantizer converts samples through q instead of plain rounding.
// q must target 16 bits.
func WithQuantizer(q *dither.Quantizer) WriteOption {
	return func(c *writeConfig) {
		c.quantizer = q
	}
}

// Save writes s to path as 16-bit mono PCM.
func Save(path string, s Signal, opts ...WriteOption) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audio: create %s: %w", path, err)
	}

	if err := Write(f, s, opts...); err != nil {
		f.Close()
		return fmt.Errorf("audio: write %s: %w", path, err)
	}

	return f.Close()
}

// Write encodes s as 16-bit mono PCM. Samples outside [-1, 1] are clipped
// on the way out; s is not modified.
func Write(w io.Writer, s Signal, opts ...WriteOption) error {
	if err := s.Validate(); err != nil {
		return err
	}

	var cfg writeConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	q := cfg.quantizer
	if q == nil {
		var err error
		if q, err = dither.NewQuantizer(); err != nil {
			return err
		}
	}

	if q.BitDepth() != 16 {
		return fmt.Errorf("%w: quantizer targets %d bits", ErrUnsupportedFormat, q.BitDepth())
	}

	out := make([]wav.Sample, len(s.Samples))
	for i, v := range s.Samples {
		out[i] = wav.Sample{Values: [2]int{q.Quantize(v)}}
	}

	buf := &bytes.Buffer{}
	ww := wav.NewWriter(buf, uint32(len(out)), 1, uint32(s.SampleRate), 16)

	if err := ww.WriteSamples(out); err != nil {
		return fmt.Errorf("audio: encode samples: %w", err)
	}

	_, err := io.Copy(w, buf)

	return err
}
