package dsp

import (
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// Normalize scales buf so its peak absolute sample is 1.0. It fails on
// empty input, on NaN/Inf samples and on an all-zero buffer.
func Normalize(buf Buffer) (Buffer, error) {
	if len(buf.Samples) == 0 {
		return Buffer{}, fmt.Errorf("normalize: %w", ErrEmptyInput)
	}

	var peak float64
	for i, v := range buf.Samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Buffer{}, fmt.Errorf("normalize: %w at sample %d", ErrNonFinite, i)
		}
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 {
		return Buffer{}, fmt.Errorf("normalize: %w", ErrSilentSignal)
	}

	out := make([]float64, len(buf.Samples))
	if peak == 1 {
		copy(out, buf.Samples)
	} else {
		vecmath.ScaleBlock(out, buf.Samples, 1/peak)
	}

	return Buffer{Samples: out, SampleRate: buf.SampleRate}, nil
}
