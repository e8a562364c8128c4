// Package dsp implements the impulse response pipeline: band-limited
// resampling, linear convolution, peak normalization and IR averaging.
//
// Every function is pure. Inputs are never modified and a failed call
// returns no partial buffer. The principal entry point is
// ApplyImpulseResponse:
//
//	wet, err := dsp.ApplyImpulseResponse(dry, ir, dsp.WithQuality(dsp.QualityBest))
//
// which resamples ir to the dry signal's rate, convolves and normalizes the
// result to a peak of 1.0.
package dsp
