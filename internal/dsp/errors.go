package dsp

import (
	"github.com/amafra/tonecapture/internal/errors"
)

// Pipeline precondition errors. Returned errors wrap these, test with errors.Is.
var (
	// ErrSampleRateMismatch is returned when buffers that must share a rate do not
	ErrSampleRateMismatch = errors.Newf("sample rate mismatch").Component("dsp").Category(errors.CategoryValidation).Build()

	// ErrSilentSignal is returned when normalizing an all-zero buffer
	ErrSilentSignal = errors.Newf("signal is silent").Component("dsp").Category(errors.CategoryAudio).Build()

	// ErrEmptyInput is returned for empty buffers or an empty buffer list
	ErrEmptyInput = errors.Newf("empty input").Component("dsp").Category(errors.CategoryValidation).Build()

	// ErrInvalidSampleRate is returned for zero, negative or non-finite rates
	ErrInvalidSampleRate = errors.Newf("invalid sample rate").Component("dsp").Category(errors.CategoryValidation).Build()

	// ErrNonFinite is returned when a buffer holds NaN or Inf samples
	ErrNonFinite = errors.Newf("signal contains non-finite samples").Component("dsp").Category(errors.CategoryAudio).Build()
)
