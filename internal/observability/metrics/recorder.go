// Package metrics provides Prometheus collectors for tonecapture.
package metrics

// Recorder defines a minimal interface for recording metrics.
// Components depend on it rather than on a concrete collector so tests can
// substitute TestRecorder.
type Recorder interface {
	// RecordOperation records an operation with its status.
	RecordOperation(operation, status string)

	// RecordDuration records the duration of an operation in seconds.
	RecordDuration(operation string, seconds float64)

	// RecordError records an error occurrence with its type.
	RecordError(operation, errorType string)
}

// PipelineRecorder extends Recorder with the length of produced buffers.
type PipelineRecorder interface {
	Recorder

	// RecordOutputSamples records the sample count a stage produced.
	RecordOutputSamples(stage string, samples int)
}

// NoOpRecorder discards everything.
type NoOpRecorder struct{}

func (NoOpRecorder) RecordOperation(string, string)  {}
func (NoOpRecorder) RecordDuration(string, float64)  {}
func (NoOpRecorder) RecordError(string, string)      {}
func (NoOpRecorder) RecordOutputSamples(string, int) {}

var _ PipelineRecorder = NoOpRecorder{}
