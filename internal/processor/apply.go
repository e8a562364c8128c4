package processor

import (
	"context"
	"time"

	"github.com/amafra/tonecapture/internal/dsp"
	"github.com/amafra/tonecapture/internal/logger"
	"github.com/amafra/tonecapture/internal/observability/metrics"
)

// ApplyToneFile convolves dry with the impulse response of an IR tone file
// and returns the normalized result at dry's sample rate. NAM files are
// rejected with ErrNotImpulseResponse. Pipeline errors are returned
// wrapped, so errors.Is matches the dsp sentinels.
func (p *Processor) ApplyToneFile(ctx context.Context, dry dsp.Buffer, toneFileID uint) (dsp.Buffer, error) {
	ir, err := p.impulseResponse(ctx, toneFileID)
	if err != nil {
		return dsp.Buffer{}, err
	}

	p.log.WithContext(ctx).Debug("applying impulse response",
		logger.Uint64("tone_file_id", uint64(toneFileID)),
		logger.String("filename", ir.Filename),
		logger.Int("speakers", len(ir.Speakers())),
		logger.Int("microphones", len(ir.Microphones())))

	return p.ApplyFile(ctx, dry, ir.Path)
}

// ApplyFile convolves dry with the impulse response stored at path.
func (p *Processor) ApplyFile(ctx context.Context, dry dsp.Buffer, path string) (dsp.Buffer, error) {
	irBuf, err := p.decode(ctx, path)
	if err != nil {
		return dsp.Buffer{}, err
	}
	return p.Apply(ctx, dry, irBuf)
}

// Apply runs the impulse response pipeline on decoded buffers.
func (p *Processor) Apply(ctx context.Context, dry, ir dsp.Buffer) (dsp.Buffer, error) {
	start := time.Now()
	out, err := dsp.ApplyImpulseResponse(dry, ir, p.dspOptions()...)
	p.observe(metrics.StageApply, start, out.Len(), err)
	if err != nil {
		return dsp.Buffer{}, err
	}

	p.log.WithContext(ctx).Info("impulse response applied",
		logger.Int("dry_samples", dry.Len()),
		logger.Int("ir_samples", ir.Len()),
		logger.Float64("ir_rate", ir.SampleRate),
		logger.Int("output_samples", out.Len()),
		logger.Duration("elapsed", time.Since(start)))
	return out, nil
}
