package observability

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amafra/tonecapture/internal/observability/metrics"
)

// TestNewMetricsConcurrency verifies that NewMetrics can be called concurrently
// since every instance owns its registry
func TestNewMetricsConcurrency(t *testing.T) {
	t.Parallel()

	const numGoroutines = 20

	var wg sync.WaitGroup
	for range numGoroutines {
		wg.Go(func() {
			m, err := NewMetrics()
			if !assert.NoError(t, err) {
				return
			}
			assert.NotNil(t, m.Registry())
			assert.NotNil(t, m.Catalog)
			assert.NotNil(t, m.Pipeline)
		})
	}
	wg.Wait()
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)

	m.Catalog.RecordOperation(metrics.OpCreateManufacturer, metrics.StatusSuccess)
	m.Catalog.RecordOperation(metrics.OpCreateManufacturer, metrics.StatusSuccess)
	m.Pipeline.RecordDuration(metrics.StageApply, 0.5)
	m.Pipeline.RecordDuration(metrics.StageApply, 0.25)

	samples, err := m.Snapshot()
	require.NoError(t, err)

	byName := map[string]Sample{}
	for _, s := range samples {
		byName[s.String()] = s
	}

	counter, ok := byName[`tonecapture_catalog_operations_total{operation="create_manufacturer",status="success"} 2`]
	require.True(t, ok, "counter sample missing from %v", samples)
	assert.InDelta(t, 2, counter.Value, 0)

	assert.Contains(t, byName, `tonecapture_pipeline_stage_duration_seconds_count{stage="apply"} 2`)
	assert.Contains(t, byName, `tonecapture_pipeline_stage_duration_seconds_sum{stage="apply"} 0.75`)
}
