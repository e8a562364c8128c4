package dsp

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
)

// minFFTBlock is the smallest overlap-add input block.
const minFFTBlock = 256

// Convolve returns the full linear convolution of signal and ir, holding
// len(signal)+len(ir)-1 samples at the shared sample rate. Both buffers
// must have the same rate; resample first when they differ.
//
// Short kernels are convolved directly, longer ones with FFT overlap-add.
func Convolve(signal, ir Buffer, opts ...Option) (Buffer, error) {
	if len(signal.Samples) == 0 || len(ir.Samples) == 0 {
		return Buffer{}, fmt.Errorf("convolve: %w", ErrEmptyInput)
	}
	if err := checkRate(signal.SampleRate); err != nil {
		return Buffer{}, err
	}
	if signal.SampleRate != ir.SampleRate {
		return Buffer{}, fmt.Errorf("convolve: %w: signal %g Hz, impulse response %g Hz",
			ErrSampleRateMismatch, signal.SampleRate, ir.SampleRate)
	}

	cfg := applyOptions(opts)

	// Convolution commutes; iterate over the longer input.
	long, kernel := signal.Samples, ir.Samples
	if len(kernel) > len(long) {
		long, kernel = kernel, long
	}

	var (
		out []float64
		err error
	)
	if len(kernel) <= cfg.directThreshold {
		out = convolveDirect(long, kernel)
	} else {
		out, err = convolveOverlapAdd(long, kernel)
		if err != nil {
			return Buffer{}, err
		}
	}

	return Buffer{Samples: out, SampleRate: signal.SampleRate}, nil
}

// convolveDirect accumulates scaled copies of the kernel.
func convolveDirect(a, b []float64) []float64 {
	n, m := len(a), len(b)
	dst := make([]float64, n+m-1)
	temp := make([]float64, m)

	for i := range n {
		if a[i] == 0 {
			continue
		}
		vecmath.ScaleBlock(temp, b, a[i])
		vecmath.AddBlockInPlace(dst[i:i+m], temp)
	}

	return dst
}

// convolveOverlapAdd splits input into blocks, convolves each block with
// the kernel in the frequency domain and adds the overlapping tails.
func convolveOverlapAdd(input, kernel []float64) ([]float64, error) {
	kernelLen := len(kernel)
	blockSize := max(nextPowerOf2(kernelLen), minFFTBlock)
	fftSize := nextPowerOf2(blockSize + kernelLen - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("convolve: failed to create FFT plan: %w", err)
	}

	kernelFFT := make([]complex128, fftSize)
	for i, v := range kernel {
		kernelFFT[i] = complex(v, 0)
	}
	if err := plan.Forward(kernelFFT, kernelFFT); err != nil {
		return nil, fmt.Errorf("convolve: kernel FFT failed: %w", err)
	}

	outputLen := len(input) + kernelLen - 1
	output := make([]float64, outputLen)
	scratch := make([]complex128, fftSize)

	for start := 0; start < len(input); start += blockSize {
		end := min(start+blockSize, len(input))

		clear(scratch)
		for i, v := range input[start:end] {
			scratch[i] = complex(v, 0)
		}

		if err := plan.Forward(scratch, scratch); err != nil {
			return nil, fmt.Errorf("convolve: forward FFT failed: %w", err)
		}
		for i := range scratch {
			scratch[i] *= kernelFFT[i]
		}
		if err := plan.Inverse(scratch, scratch); err != nil {
			return nil, fmt.Errorf("convolve: inverse FFT failed: %w", err)
		}

		resultLen := end - start + kernelLen - 1
		for i := 0; i < resultLen && start+i < outputLen; i++ {
			output[start+i] += real(scratch[i])
		}
	}

	return output, nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
