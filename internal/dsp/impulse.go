package dsp

import (
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// ApplyImpulseResponse resamples ir to the signal's rate, convolves and
// normalizes the result:
//
//	Normalize(Convolve(signal, Resample(ir, signal.SampleRate)))
func ApplyImpulseResponse(signal, ir Buffer, opts ...Option) (Buffer, error) {
	if err := checkRate(signal.SampleRate); err != nil {
		return Buffer{}, fmt.Errorf("apply: %w", err)
	}

	resampled, err := Resample(ir, signal.SampleRate, opts...)
	if err != nil {
		return Buffer{}, fmt.Errorf("apply: %w", err)
	}

	wet, err := Convolve(signal, resampled, opts...)
	if err != nil {
		return Buffer{}, fmt.Errorf("apply: %w", err)
	}

	out, err := Normalize(wet)
	if err != nil {
		return Buffer{}, fmt.Errorf("apply: %w", err)
	}
	return out, nil
}

// AverageImpulseResponses zero-pads every buffer at the tail to the longest
// length, takes the elementwise mean and normalizes it. All buffers must
// share one sample rate.
func AverageImpulseResponses(bufs []Buffer) (Buffer, error) {
	if len(bufs) == 0 {
		return Buffer{}, fmt.Errorf("average: %w", ErrEmptyInput)
	}

	rate := bufs[0].SampleRate
	if err := checkRate(rate); err != nil {
		return Buffer{}, fmt.Errorf("average: %w", err)
	}

	maxLen := 0
	for i, b := range bufs {
		if b.SampleRate != rate {
			return Buffer{}, fmt.Errorf("average: %w: buffer %d is %g Hz, expected %g Hz",
				ErrSampleRateMismatch, i, b.SampleRate, rate)
		}
		maxLen = max(maxLen, len(b.Samples))
	}
	if maxLen == 0 {
		return Buffer{}, fmt.Errorf("average: %w", ErrEmptyInput)
	}

	// Positions past a buffer's end contribute zero.
	sum := make([]float64, maxLen)
	for _, b := range bufs {
		vecmath.AddBlockInPlace(sum[:len(b.Samples)], b.Samples)
	}

	mean := make([]float64, maxLen)
	vecmath.ScaleBlock(mean, sum, 1/float64(len(bufs)))

	out, err := Normalize(Buffer{Samples: mean, SampleRate: rate})
	if err != nil {
		return Buffer{}, fmt.Errorf("average: %w", err)
	}
	return out, nil
}
