package dsp

import (
	"fmt"
	"strings"
)

// Quality selects the anti-aliasing filter of the resampler.
type Quality int

const (
	// QualityFast prioritizes lower CPU usage.
	QualityFast Quality = iota
	// QualityBalanced is the default trade-off.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation and passband flatness.
	QualityBest
)

// String returns the configuration name of q.
func (q Quality) String() string {
	switch q {
	case QualityFast:
		return "fast"
	case QualityBest:
		return "best"
	default:
		return "balanced"
	}
}

// ParseQuality maps a configuration name to a Quality.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast":
		return QualityFast, nil
	case "", "balanced":
		return QualityBalanced, nil
	case "best":
		return QualityBest, nil
	default:
		return QualityBalanced, fmt.Errorf("unknown resample quality %q", s)
	}
}

// Profile holds the windowed-sinc parameters of a quality mode.
type Profile struct {
	TapsPerPhase int     // kernel taps per output sample, at unity ratio
	CutoffScale  float64 // fraction of the Nyquist frequency kept
	KaiserBeta   float64
}

// QualityProfile returns the filter parameters for q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5.0}
	case QualityBest:
		return Profile{TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9.0}
	default:
		return Profile{TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5}
	}
}

// defaultDirectThreshold is the kernel length up to which convolution
// stays in the time domain.
const defaultDirectThreshold = 64

type config struct {
	quality         Quality
	directThreshold int
}

// Option configures pipeline functions.
type Option func(*config)

// WithQuality selects the resampler quality.
func WithQuality(q Quality) Option {
	return func(c *config) {
		c.quality = q
	}
}

// WithDirectThreshold sets the kernel length up to which Convolve uses the
// direct method. Values below 1 keep the default.
func WithDirectThreshold(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.directThreshold = n
		}
	}
}

func applyOptions(opts []Option) config {
	cfg := config{
		quality:         QualityBalanced,
		directThreshold: defaultDirectThreshold,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
