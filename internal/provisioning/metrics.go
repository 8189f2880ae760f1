package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records provisioning measurements on a private registry so a run
// can be exported as a node-exporter textfile.
type Metrics struct {
	registry *prometheus.Registry

	phaseDuration *prometheus.HistogramVec
	artifacts     *prometheus.CounterVec
	advisories    *prometheus.CounterVec
	runs          *prometheus.CounterVec
}

// NewMetrics creates and registers the provisioning collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dsinstall",
				Subsystem: "provisioning",
				Name:      "phase_duration_seconds",
				Help:      "Duration of provisioning phases in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms to ~16s
			},
			[]string{"phase", "result"},
		),
		artifacts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dsinstall",
				Subsystem: "provisioning",
				Name:      "artifacts_total",
				Help:      "Generated files by outcome",
			},
			[]string{"outcome"},
		),
		advisories: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dsinstall",
				Subsystem: "provisioning",
				Name:      "advisories_total",
				Help:      "Non-fatal advisories by phase",
			},
			[]string{"phase"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dsinstall",
				Subsystem: "provisioning",
				Name:      "runs_total",
				Help:      "Provisioning runs by flow and result",
			},
			[]string{"flow", "result"},
		),
	}
	m.registry.MustRegister(m.phaseDuration, m.artifacts, m.advisories, m.runs)
	return m
}

// ObservePhase records a phase duration. Safe on a nil receiver.
func (m *Metrics) ObservePhase(phase, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.phaseDuration.WithLabelValues(phase, result).Observe(d.Seconds())
}

// RecordArtifact counts a generated file. Safe on a nil receiver.
func (m *Metrics) RecordArtifact(outcome string) {
	if m == nil {
		return
	}
	m.artifacts.WithLabelValues(outcome).Inc()
}

// RecordAdvisory counts an advisory. Safe on a nil receiver.
func (m *Metrics) RecordAdvisory(phase string) {
	if m == nil {
		return
	}
	m.advisories.WithLabelValues(phase).Inc()
}

// RecordRun counts a finished run. Safe on a nil receiver.
func (m *Metrics) RecordRun(flow, result string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(flow, result).Inc()
}

// Gatherer exposes the registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the current values in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
