package metrics

import (
	"maps"
	"sync"
)

// TestRecorder captures recorded metrics in memory for verification in
// tests. It implements PipelineRecorder.
type TestRecorder struct {
	mu         sync.RWMutex
	operations map[string]map[string]int // operation -> status -> count
	durations  map[string][]float64      // operation -> list of durations
	errors     map[string]map[string]int // operation -> errorType -> count
	samples    map[string][]int          // stage -> output lengths
	cache      map[string]int            // result -> lookups
}

// NewTestRecorder creates a new test recorder instance.
func NewTestRecorder() *TestRecorder {
	return &TestRecorder{
		operations: make(map[string]map[string]int),
		durations:  make(map[string][]float64),
		errors:     make(map[string]map[string]int),
		samples:    make(map[string][]int),
		cache:      make(map[string]int),
	}
}

// RecordOperation implements the Recorder interface for testing.
func (r *TestRecorder) RecordOperation(operation, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.operations[operation] == nil {
		r.operations[operation] = make(map[string]int)
	}
	r.operations[operation][status]++
}

// RecordDuration implements the Recorder interface for testing.
func (r *TestRecorder) RecordDuration(operation string, seconds float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.durations[operation] = append(r.durations[operation], seconds)
}

// RecordError implements the Recorder interface for testing.
func (r *TestRecorder) RecordError(operation, errorType string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.errors[operation] == nil {
		r.errors[operation] = make(map[string]int)
	}
	r.errors[operation][errorType]++
}

// RecordOutputSamples implements PipelineRecorder for testing.
func (r *TestRecorder) RecordOutputSamples(stage string, samples int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.samples[stage] = append(r.samples[stage], samples)
}

// RecordCacheLookup records a device cache hit or miss.
func (r *TestRecorder) RecordCacheLookup(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache[result]++
}

// GetCacheLookups returns how many lookups ended with result.
func (r *TestRecorder) GetCacheLookups(result string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.cache[result]
}

// GetOperationCount returns the count of a specific operation and status.
func (r *TestRecorder) GetOperationCount(operation, status string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if statusMap, ok := r.operations[operation]; ok {
		return statusMap[status]
	}
	return 0
}

// GetDurations returns all recorded durations for a specific operation.
func (r *TestRecorder) GetDurations(operation string) []float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if durations, ok := r.durations[operation]; ok {
		result := make([]float64, len(durations))
		copy(result, durations)
		return result
	}
	return nil
}

// GetErrorCount returns the count of a specific error type for an operation.
func (r *TestRecorder) GetErrorCount(operation, errorType string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if errorMap, ok := r.errors[operation]; ok {
		return errorMap[errorType]
	}
	return 0
}

// GetOutputSamples returns the output lengths recorded for stage.
func (r *TestRecorder) GetOutputSamples(stage string) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]int(nil), r.samples[stage]...)
}

// GetAllOperations returns a copy of all recorded operations.
func (r *TestRecorder) GetAllOperations() map[string]map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]map[string]int, len(r.operations))
	for op, statusMap := range r.operations {
		result[op] = maps.Clone(statusMap)
	}
	return result
}

// Reset clears all recorded metrics.
func (r *TestRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.operations = make(map[string]map[string]int)
	r.durations = make(map[string][]float64)
	r.errors = make(map[string]map[string]int)
	r.samples = make(map[string][]int)
	r.cache = make(map[string]int)
}

var _ PipelineRecorder = (*TestRecorder)(nil)
