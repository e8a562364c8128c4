package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWithoutCategoryFallsBackToGeneric(t *testing.T) {
	t.Parallel()

	ee := New(fmt.Errorf("test error")).Build()

	assert.Equal(t, "test error", ee.Error())
	assert.Equal(t, CategoryGeneric, ee.Category)
}

func TestBuildKeepsExplicitComponentAndContext(t *testing.T) {
	t.Parallel()

	ee := New(NewStd("boom")).
		Component("catalog").
		Category(CategoryConflict).
		Context("field", "name").
		Build()

	assert.Equal(t, "catalog", ee.GetComponent())
	assert.Equal(t, "conflict", ee.GetCategory())
	assert.Equal(t, map[string]any{"field": "name"}, ee.GetContext())
}

func TestEnhancedErrorUnwrapsToSentinel(t *testing.T) {
	t.Parallel()

	sentinel := NewStd("record not found")
	err := fmt.Errorf("lookup: %w", New(sentinel).Category(CategoryNotFound).Build())

	require.ErrorIs(t, err, sentinel)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsCategory(err, CategoryConflict))
}

func TestSentinelsInSameCategoryStayDistinct(t *testing.T) {
	t.Parallel()

	errA := Newf("first").Category(CategoryValidation).Build()
	errB := Newf("second").Category(CategoryValidation).Build()

	assert.ErrorIs(t, fmt.Errorf("wrap: %w", errA), errA)
	assert.NotErrorIs(t, errA, errB)
	assert.NotErrorIs(t, fmt.Errorf("wrap: %w", errB), errA)
}

func TestDetectCategoryFromMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		msg      string
		expected ErrorCategory
	}{
		{"not_found", "device not found", CategoryNotFound},
		{"duplicate", "duplicate key", CategoryConflict},
		{"file", "failed to open file", CategoryFileIO},
		{"mismatch", "sample rate mismatch", CategoryValidation},
		{"plain", "something odd", CategoryGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(NewStd(tt.msg)).Build().Category)
		})
	}
}

func TestPriorityFallsBackToMedium(t *testing.T) {
	t.Parallel()

	ee := New(NewStd("x")).Priority("urgent").Build()
	assert.Equal(t, PriorityMedium, ee.GetPriority())

	ee = New(NewStd("x")).Priority(PriorityHigh).Build()
	assert.Equal(t, PriorityHigh, ee.GetPriority())
}

func TestFileContextAnonymizesPath(t *testing.T) {
	t.Parallel()

	ee := FileError(NewStd("read failed"), "/data/irs/v30.wav", 2048)
	ctx := ee.GetContext()

	assert.Equal(t, "absolute-path", ctx["file_type"])
	assert.Equal(t, "wav", ctx["file_extension"])
	assert.Equal(t, "small", ctx["file_size_category"])
}
