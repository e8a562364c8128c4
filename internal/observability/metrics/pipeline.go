package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics contains Prometheus metrics for signal pipeline runs
type PipelineMetrics struct {
	runsTotal     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	errorsTotal   *prometheus.CounterVec
	outputSamples *prometheus.HistogramVec

	collectors []prometheus.Collector
}

// NewPipelineMetrics creates and registers pipeline metrics on registry
func NewPipelineMetrics(registry prometheus.Registerer) (*PipelineMetrics, error) {
	m := &PipelineMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *PipelineMetrics) initMetrics() {
	m.runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tonecapture_pipeline_runs_total",
			Help: "Total number of pipeline stage runs",
		},
		[]string{"stage", "status"},
	)

	m.stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tonecapture_pipeline_stage_duration_seconds",
			Help:    "Time taken by each pipeline stage",
			Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount15), // 1ms to ~16s
		},
		[]string{"stage"},
	)

	m.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tonecapture_pipeline_errors_total",
			Help: "Total number of pipeline errors by error category",
		},
		[]string{"stage", "error_type"},
	)

	m.outputSamples = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tonecapture_pipeline_output_samples",
			Help:    "Length in samples of buffers produced by each stage",
			Buckets: prometheus.ExponentialBuckets(BucketStart64, BucketFactor4, BucketCount12), // 64 to ~268M
		},
		[]string{"stage"},
	)

	m.collectors = []prometheus.Collector{
		m.runsTotal,
		m.stageDuration,
		m.errorsTotal,
		m.outputSamples,
	}
}

// Describe implements the Collector interface
func (m *PipelineMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *PipelineMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// RecordOperation records one stage run and its outcome
func (m *PipelineMetrics) RecordOperation(stage, status string) {
	m.runsTotal.WithLabelValues(stage, status).Inc()
}

// RecordDuration records how long a stage took
func (m *PipelineMetrics) RecordDuration(stage string, seconds float64) {
	m.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordError records a failed stage by error category
func (m *PipelineMetrics) RecordError(stage, errorType string) {
	m.errorsTotal.WithLabelValues(stage, errorType).Inc()
}

// RecordOutputSamples records the length of a produced buffer
func (m *PipelineMetrics) RecordOutputSamples(stage string, samples int) {
	m.outputSamples.WithLabelValues(stage).Observe(float64(samples))
}

var _ PipelineRecorder = (*PipelineMetrics)(nil)
