package dsp

import (
	"fmt"
	"math"
	"time"
)

// DefaultToneAmplitude is the amplitude of generated test tones.
const DefaultToneAmplitude = 0.5

// SineWave generates a sine tone of freq Hz lasting duration at rate.
func SineWave(freq float64, duration time.Duration, rate, amplitude float64) (Buffer, error) {
	if err := checkRate(rate); err != nil {
		return Buffer{}, err
	}
	if freq <= 0 || freq >= rate/2 || math.IsNaN(freq) {
		return Buffer{}, fmt.Errorf("sine wave: frequency %g Hz outside (0, %g)", freq, rate/2)
	}

	n := int(math.Round(duration.Seconds() * rate))
	if n <= 0 {
		return Buffer{}, fmt.Errorf("sine wave: %w: duration %s", ErrEmptyInput, duration)
	}

	samples := make([]float64, n)
	step := 2 * math.Pi * freq / rate
	for i := range samples {
		samples[i] = amplitude * math.Sin(step*float64(i))
	}

	return Buffer{Samples: samples, SampleRate: rate}, nil
}
