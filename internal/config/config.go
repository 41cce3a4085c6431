// Package config assembles the settings of a synthesis run.
//
// Sources are layered, later ones winning: built-in defaults, a YAML file,
// the process environment (optionally seeded from a .env file) and finally
// command-line flags, which the caller applies to the returned Config.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig indicates a missing or out-of-range setting.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Rate policies for carrier/modulator sample-rate mismatches.
const (
	RatePolicyResample = "resample"
	RatePolicyStrict   = "strict"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "XSYNTH_"

// Config is the full run configuration.
type Config struct {
	Carrier   string `yaml:"carrier"`
	Modulator string `yaml:"modulator"`
	Output    string `yaml:"output"`

	LPCOrder     int     `yaml:"lpc_order"`
	FFTSize      int     `yaml:"fft_size"`
	HopSize      int     `yaml:"hop_size"`
	Window       string  `yaml:"window"`
	EnvelopeMode string  `yaml:"envelope_mode"`
	Chirp        float64 `yaml:"chirp"`
	MaxGainDB    float64 `yaml:"max_gain_db"`
	Workers      int     `yaml:"workers"`

	RatePolicy      string  `yaml:"rate_policy"`
	ResampleQuality string  `yaml:"resample_quality"`
	NormalizePeak   float64 `yaml:"normalize_peak"`
	Dither          string  `yaml:"dither"`
	NoiseShaping    string  `yaml:"noise_shaping"`

	Timeout     time.Duration `yaml:"timeout"`
	LogLevel    string        `yaml:"log_level"`
	LogFormat   string        `yaml:"log_format"`
	MetricsFile string        `yaml:"metrics_file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LPCOrder:        20,
		FFTSize:         1024,
		HopSize:         512,
		Window:          "rectangular",
		EnvelopeMode:    "frame",
		Chirp:           1,
		MaxGainDB:       60,
		RatePolicy:      RatePolicyResample,
		ResampleQuality: "balanced",
		NormalizePeak:   0.99,
		Dither:          "tpdf",
		NoiseShaping:    "none",
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load returns defaults overlaid with the YAML file at path (skipped when
// empty), the env file at envFile (skipped when empty; variables already set
// in the process win) and XSYNTH_* environment variables.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}

		if err := cfg.MergeYAML(bytes.NewReader(data)); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("config: env file %s: %w", envFile, err)
		}
	}

	if err := cfg.MergeEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// MergeYAML overlays the keys present in r. Unknown keys are an error.
func (c *Config) MergeYAML(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}

// MergeEnv overlays XSYNTH_* variables found through lookup.
func (c *Config) MergeEnv(lookup func(string) (string, bool)) error {
	for _, f := range c.fields() {
		v, ok := lookup(EnvPrefix + strings.ToUpper(f.key))
		if !ok {
			continue
		}

		if err := f.set(strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%w: %s%s=%q: %v", ErrInvalidConfig, EnvPrefix, strings.ToUpper(f.key), v, err)
		}
	}

	return nil
}

// Set assigns one setting by its YAML key, parsing value as the field type.
func (c *Config) Set(key, value string) error {
	for _, f := range c.fields() {
		if f.key == key {
			if err := f.set(value); err != nil {
				return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, value, err)
			}

			return nil
		}
	}

	return fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, key)
}

// Keys lists every settable key in declaration order.
func Keys() []string {
	var c Config

	fields := c.fields()
	keys := make([]string, len(fields))

	for i, f := range fields {
		keys[i] = f.key
	}

	return keys
}

// Validate checks every setting and reports the first offending key.
func (c Config) Validate() error {
	check := func(ok bool, key string, v any) error {
		if ok {
			return nil
		}

		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, v)
	}

	pow2 := c.FFTSize >= 2 && c.FFTSize&(c.FFTSize-1) == 0

	for _, err := range []error{
		check(c.Carrier != "", "carrier", "required"),
		check(c.Modulator != "", "modulator", "required"),
		check(c.Output != "", "output", "required"),
		check(pow2, "fft_size", c.FFTSize),
		check(c.HopSize >= 1 && c.HopSize <= c.FFTSize, "hop_size", c.HopSize),
		check(c.LPCOrder >= 1 && c.LPCOrder < c.FFTSize, "lpc_order", c.LPCOrder),
		check(oneOf(c.Window, "rectangular", "hann", "hamming"), "window", c.Window),
		check(oneOf(c.EnvelopeMode, "frame", "global"), "envelope_mode", c.EnvelopeMode),
		check(c.Chirp > 0 && c.Chirp <= 1, "chirp", c.Chirp),
		check(c.MaxGainDB >= 0 && c.MaxGainDB <= 240, "max_gain_db", c.MaxGainDB),
		check(c.Workers >= 0, "workers", c.Workers),
		check(oneOf(c.RatePolicy, RatePolicyResample, RatePolicyStrict), "rate_policy", c.RatePolicy),
		check(oneOf(c.ResampleQuality, "fast", "balanced", "best"), "resample_quality", c.ResampleQuality),
		check(c.NormalizePeak >= 0 && c.NormalizePeak <= 1, "normalize_peak", c.NormalizePeak),
		check(oneOf(c.Dither, "none", "rpdf", "tpdf"), "dither", c.Dither),
		check(oneOf(c.NoiseShaping, "none", "efb", "3fc", "9fc"), "noise_shaping", c.NoiseShaping),
		check(c.Timeout >= 0, "timeout", c.Timeout),
		check(oneOf(c.LogLevel, "trace", "debug", "info", "warn", "warning", "error"), "log_level", c.LogLevel),
		check(oneOf(c.LogFormat, "text", "json"), "log_format", c.LogFormat),
	} {
		if err != nil {
			return err
		}
	}

	return nil
}

func oneOf(v string, allowed ...string) bool {
	v = strings.ToLower(v)
	for _, a := range allowed {
		if v == a {
			return true
		}
	}

	return false
}

type field struct {
	key string
	set func(string) error
}

func (c *Config) fields() []field {
	return []field{
		{"carrier", setString(&c.Carrier)},
		{"modulator", setString(&c.Modulator)},
		{"output", setString(&c.Output)},
		{"lpc_order", setInt(&c.LPCOrder)},
		{"fft_size", setInt(&c.FFTSize)},
		{"hop_size", setInt(&c.HopSize)},
		{"window", setString(&c.Window)},
		{"envelope_mode", setString(&c.EnvelopeMode)},
		{"chirp", setFloat(&c.Chirp)},
		{"max_gain_db", setFloat(&c.MaxGainDB)},
		{"workers", setInt(&c.Workers)},
		{"rate_policy", setString(&c.RatePolicy)},
		{"resample_quality", setString(&c.ResampleQuality)},
		{"normalize_peak", setFloat(&c.NormalizePeak)},
		{"dither", setString(&c.Dither)},
		{"noise_shaping", setString(&c.NoiseShaping)},
		{"timeout", setDuration(&c.Timeout)},
		{"log_level", setString(&c.LogLevel)},
		{"log_format", setString(&c.LogFormat)},
		{"metrics_file", setString(&c.MetricsFile)},
	}
}

func setString(p *string) func(string) error {
	return func(v string) error {
		*p = v
		return nil
	}
}

func setInt(p *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}

		*p = n

		return nil
	}
}

func setFloat(p *float64) func(string) error {
	return func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}

		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.New("not finite")
		}

		*p = f

		return nil
	}
}

func setDuration(p *time.Duration) func(string) error {
	return func(v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}

		*p = d

		return nil
	}
}
