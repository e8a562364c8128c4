package dsp

import (
	"fmt"
	"math"
	"time"
)

// Buffer is a mono signal with its sample rate in Hz. Pipeline functions
// treat buffers as immutable.
type Buffer struct {
	Samples    []float64
	SampleRate float64
}

// NewBuffer returns a buffer over samples at rate.
func NewBuffer(samples []float64, rate float64) Buffer {
	return Buffer{Samples: samples, SampleRate: rate}
}

// Len returns the number of samples.
func (b Buffer) Len() int {
	return len(b.Samples)
}

// Duration returns the playback length of the buffer.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / b.SampleRate * float64(time.Second))
}

// Clone returns a deep copy.
func (b Buffer) Clone() Buffer {
	return Buffer{Samples: append([]float64(nil), b.Samples...), SampleRate: b.SampleRate}
}

// String implements fmt.Stringer.
func (b Buffer) String() string {
	return fmt.Sprintf("Buffer{%d samples @ %g Hz}", len(b.Samples), b.SampleRate)
}

// Peak returns the maximum absolute sample value, 0 for an empty buffer.
func Peak(b Buffer) float64 {
	var peak float64
	for _, v := range b.Samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

func validRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0) && !math.IsNaN(rate)
}

func checkRate(rate float64) error {
	if !validRate(rate) {
		return fmt.Errorf("%w: %g", ErrInvalidSampleRate, rate)
	}
	return nil
}
