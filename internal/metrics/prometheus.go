// Package metrics exports the outcome of a pipeline run in the Prometheus
// text format, for node_exporter's textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/backmassage/wavprep/internal/pipeline"
)

// Metrics contains the gauges describing one pipeline run.
type Metrics struct {
	registry *prometheus.Registry

	StageDuration *prometheus.GaugeVec
	StageSuccess  *prometheus.GaugeVec

	RunSuccess       prometheus.Gauge
	RunDuration      prometheus.Gauge
	RunLastTimestamp prometheus.Gauge
	RunInfo          *prometheus.GaugeVec

	InputFiles    prometheus.Gauge
	PromotedFiles prometheus.Gauge
	PromotedBytes prometheus.Gauge
}

// NewMetrics creates the run metrics on a private registry, so repeated
// exports in one process never collide with the default registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,

		StageDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wavprep_stage_duration_seconds",
			Help: "Wall time of each pipeline stage in the last run",
		}, []string{"stage"}),
		StageSuccess: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wavprep_stage_success",
			Help: "1 if the stage succeeded in the last run, 0 otherwise",
		}, []string{"stage"}),

		RunSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wavprep_run_success",
			Help: "1 if the last run completed and promoted its output",
		}),
		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wavprep_run_duration_seconds",
			Help: "Wall time of the last run",
		}),
		RunLastTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wavprep_run_last_timestamp_seconds",
			Help: "Unix time at which the last run started",
		}),
		RunInfo: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wavprep_run_info",
			Help: "Identifier of the last run",
		}, []string{"run_id"}),

		InputFiles: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wavprep_input_files",
			Help: "Audio files discovered in the input directory",
		}),
		PromotedFiles: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wavprep_promoted_files",
			Help: "Files moved into the output directory",
		}),
		PromotedBytes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wavprep_promoted_bytes",
			Help: "Bytes moved into the output directory",
		}),
	}
}

// Record sets every gauge from stats.
func (m *Metrics) Record(stats pipeline.RunStats) {
	for _, st := range stats.Stages {
		m.StageDuration.WithLabelValues(st.Name).Set(st.Duration.Seconds())
		m.StageSuccess.WithLabelValues(st.Name).Set(boolGauge(st.Status == pipeline.StatusSucceeded))
	}
	m.RunSuccess.Set(boolGauge(stats.Success))
	m.RunDuration.Set(stats.Duration.Seconds())
	if !stats.Started.IsZero() {
		m.RunLastTimestamp.Set(float64(stats.Started.Unix()))
	}
	if stats.RunID != "" {
		m.RunInfo.WithLabelValues(stats.RunID).Set(1)
	}
	m.InputFiles.Set(float64(stats.InputFiles))
	m.PromotedFiles.Set(float64(stats.PromotedFiles))
	m.PromotedBytes.Set(float64(stats.PromotedBytes))
}

// WriteFile writes the registry to path. The file is replaced atomically.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}

// Export records stats on a fresh registry and writes it to path.
func Export(path string, stats pipeline.RunStats) error {
	m := NewMetrics()
	m.Record(stats)
	return m.WriteFile(path)
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
