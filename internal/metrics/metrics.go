// Package metrics records synthesis runs as Prometheus metrics.
//
// A batch tool has no scrape endpoint, so the registry is exported in the
// node_exporter textfile format after each run.
package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run results used as the "result" label.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

const namespace = "xsynth"

// Recorder owns a private registry and the run collectors.
type Recorder struct {
	reg      *prometheus.Registry
	runs     *prometheus.CounterVec
	frames   prometheus.Counter
	samples  prometheus.Counter
	clipped  prometheus.Counter
	duration prometheus.Histogram
	peak     prometheus.Gauge
	loudness prometheus.Gauge
}

// New returns a Recorder with all collectors registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		reg: reg,
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Synthesis runs by result.",
		}, []string{"result"}),
		frames: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "STFT frames cross-synthesized.",
		}),
		samples: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "output_samples_total",
			Help:      "Samples written to output files.",
		}),
		clipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clipped_samples_total",
			Help:      "Output samples limited to full scale.",
		}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of successful runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		peak: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "output_peak",
			Help:      "Peak absolute sample of the last output.",
		}),
		loudness: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "output_loudness_lufs",
			Help:      "Integrated loudness of the last output with a measurable level.",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Run summarizes one successful run.
type Run struct {
	Frames   int
	Samples  int
	Clipped  int
	Peak     float64
	Loudness float64 // LUFS; -Inf leaves the gauge untouched
	Duration time.Duration
}

// ObserveSuccess records a completed run.
func (r *Recorder) ObserveSuccess(run Run) {
	r.runs.WithLabelValues(ResultSuccess).Inc()
	r.frames.Add(float64(run.Frames))
	r.samples.Add(float64(run.Samples))
	r.clipped.Add(float64(run.Clipped))
	r.duration.Observe(run.Duration.Seconds())
	r.peak.Set(run.Peak)

	if !math.IsInf(run.Loudness, 0) && !math.IsNaN(run.Loudness) {
		r.loudness.Set(run.Loudness)
	}
}

// ObserveFailure records a failed run.
func (r *Recorder) ObserveFailure() {
	r.runs.WithLabelValues(ResultError).Inc()
}

// WriteTextfile atomically writes the registry to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}

	return nil
}
