package dsp

import (
	"fmt"
	"math"
)

// Resample converts buf to targetRate with Kaiser-windowed sinc
// interpolation. The output holds round(len * target / source) samples.
//
// When buf.SampleRate == targetRate (exact comparison) buf is returned
// unchanged, sharing its sample slice.
func Resample(buf Buffer, targetRate float64, opts ...Option) (Buffer, error) {
	if err := checkRate(buf.SampleRate); err != nil {
		return Buffer{}, err
	}
	if err := checkRate(targetRate); err != nil {
		return Buffer{}, err
	}
	if buf.SampleRate == targetRate {
		return buf, nil
	}
	if len(buf.Samples) == 0 {
		return Buffer{}, fmt.Errorf("resample: %w", ErrEmptyInput)
	}

	ratio := targetRate / buf.SampleRate
	outLen := int(math.Round(float64(len(buf.Samples)) * ratio))
	if outLen == 0 {
		return Buffer{}, fmt.Errorf("resample: %w: %d samples shrink to nothing at %g Hz", ErrEmptyInput, len(buf.Samples), targetRate)
	}

	cfg := applyOptions(opts)
	k := newSincKernel(ratio, QualityProfile(cfg.quality))

	out := make([]float64, outLen)
	for i := range out {
		out[i] = k.interpolate(buf.Samples, float64(i)/ratio)
	}

	return Buffer{Samples: out, SampleRate: targetRate}, nil
}

// sincKernel is a continuous windowed-sinc low-pass evaluated at
// fractional input positions.
type sincKernel struct {
	fc        float64 // cutoff in cycles per input sample
	halfWidth float64 // support radius in input samples
	beta      float64
	i0Beta    float64
}

func newSincKernel(ratio float64, p Profile) sincKernel {
	// Downsampling narrows the passband to the target Nyquist and widens
	// the kernel to keep the same number of taps per output sample.
	scale := math.Min(1, ratio)

	return sincKernel{
		fc:        0.5 * scale * p.CutoffScale,
		halfWidth: 0.5 * float64(p.TapsPerPhase) / scale,
		beta:      p.KaiserBeta,
		i0Beta:    i0(p.KaiserBeta),
	}
}

// interpolate evaluates the band-limited signal at input position t.
func (k sincKernel) interpolate(x []float64, t float64) float64 {
	lo := max(int(math.Ceil(t-k.halfWidth)), 0)
	hi := min(int(math.Floor(t+k.halfWidth)), len(x)-1)

	var acc float64
	for j := lo; j <= hi; j++ {
		acc += x[j] * k.tap(t-float64(j))
	}
	return acc
}

func (k sincKernel) tap(u float64) float64 {
	return 2 * k.fc * sinc(2*k.fc*u) * k.window(u/k.halfWidth)
}

// window is the Kaiser window on [-1, 1].
func (k sincKernel) window(x float64) float64 {
	if k.beta == 0 {
		return 1
	}
	if x <= -1 || x >= 1 {
		return 0
	}
	return i0(k.beta*math.Sqrt(1-x*x)) / k.i0Beta
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}
	pix := math.Pi * x
	return math.Sin(pix) / pix
}

// i0 is the zeroth-order modified Bessel function of the first kind,
// evaluated by its power series.
func i0(x float64) float64 {
	sum := 1.0
	term := 1.0

	x2 := (x * x) / 4
	for k := 1; k < 64; k++ {
		term *= x2 / float64(k*k)
		sum += term
		if term < 1e-16*sum {
			break
		}
	}

	return sum
}
