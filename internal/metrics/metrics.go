// Package metrics exposes the outcome of a run as Prometheus metrics, written
// in the text format for the node_exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/es-debug/nginx-latency-report/internal/stats"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nginx_latency"

type Metrics struct {
	registry *prometheus.Registry

	lines        *prometheus.CounterVec
	urls         prometheus.Gauge
	badLineRatio prometheus.Gauge
	runDuration  prometheus.Gauge
	lastSuccess  prometheus.Gauge
	reportedURLs prometheus.Gauge
}

// New registers the run metrics on a private registry labelled with runID.
func New(runID string) *Metrics {
	labels := prometheus.Labels{"run_id": runID}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lines: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Name:        "lines_total",
				Help:        "Log lines read, by parse result",
				ConstLabels: labels,
			},
			[]string{"result"},
		),
		urls: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "urls",
			Help:        "Distinct URLs with a non-zero request time",
			ConstLabels: labels,
		}),
		badLineRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "bad_line_ratio",
			Help:        "Share of lines that could not be parsed",
			ConstLabels: labels,
		}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "run_duration_seconds",
			Help:        "Wall time spent analyzing the log file",
			ConstLabels: labels,
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "last_success_timestamp_seconds",
			Help:        "Unix time of the last report written",
			ConstLabels: labels,
		}),
		reportedURLs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "reported_urls",
			Help:        "URLs in the written report",
			ConstLabels: labels,
		}),
	}

	m.registry.MustRegister(m.lines, m.urls, m.badLineRatio, m.runDuration, m.lastSuccess, m.reportedURLs)

	return m
}

// Observe records the parse outcome of one log file.
func (m *Metrics) Observe(quality stats.Quality, urls int, elapsed time.Duration) {
	m.lines.WithLabelValues("parsed").Add(float64(quality.Good - quality.Ignored))
	m.lines.WithLabelValues("ignored").Add(float64(quality.Ignored))
	m.lines.WithLabelValues("failed").Add(float64(quality.Bad))
	m.urls.Set(float64(urls))
	m.badLineRatio.Set(quality.ErrorRatio())
	m.runDuration.Set(elapsed.Seconds())
}

// ReportWritten marks a successful run.
func (m *Metrics) ReportWritten(rows int, at time.Time) {
	m.reportedURLs.Set(float64(rows))
	m.lastSuccess.Set(float64(at.Unix()))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile atomically writes all metrics to path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}
