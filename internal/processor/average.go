package processor

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amafra/tonecapture/internal/dsp"
	"github.com/amafra/tonecapture/internal/logger"
	"github.com/amafra/tonecapture/internal/observability/metrics"
)

// AverageToneFiles loads the IR files ids concurrently, resamples each to
// targetRate and returns their normalized average. The first failure
// cancels the remaining loads and is returned.
func (p *Processor) AverageToneFiles(ctx context.Context, ids []uint, targetRate float64) (dsp.Buffer, error) {
	if len(ids) == 0 {
		return dsp.Buffer{}, fmt.Errorf("average: %w", dsp.ErrEmptyInput)
	}
	if targetRate <= 0 || math.IsNaN(targetRate) || math.IsInf(targetRate, 0) {
		return dsp.Buffer{}, fmt.Errorf("average: %w: %g", dsp.ErrInvalidSampleRate, targetRate)
	}

	bufs := make([]dsp.Buffer, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxParallel)

	for i, id := range ids {
		g.Go(func() error {
			buf, err := p.loadResampled(gctx, id, targetRate)
			if err != nil {
				return fmt.Errorf("tone file %d: %w", id, err)
			}
			bufs[i] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dsp.Buffer{}, err
	}

	return p.Average(ctx, bufs)
}

// Average averages buffers that already share one sample rate.
func (p *Processor) Average(ctx context.Context, bufs []dsp.Buffer) (dsp.Buffer, error) {
	start := time.Now()
	out, err := dsp.AverageImpulseResponses(bufs)
	p.observe(metrics.StageAverage, start, out.Len(), err)
	if err != nil {
		return dsp.Buffer{}, err
	}

	p.log.WithContext(ctx).Info("impulse responses averaged",
		logger.Int("count", len(bufs)),
		logger.Float64("rate", out.SampleRate),
		logger.Int("output_samples", out.Len()))
	return out, nil
}

// loadResampled resolves, decodes and resamples one IR file.
func (p *Processor) loadResampled(ctx context.Context, id uint, targetRate float64) (dsp.Buffer, error) {
	ir, err := p.impulseResponse(ctx, id)
	if err != nil {
		return dsp.Buffer{}, err
	}

	buf, err := p.decode(ctx, ir.Path)
	if err != nil {
		return dsp.Buffer{}, err
	}

	start := time.Now()
	resampled, err := dsp.Resample(buf, targetRate, p.dspOptions()...)
	p.observe(metrics.StageResample, start, resampled.Len(), err)
	if err != nil {
		return dsp.Buffer{}, err
	}
	return resampled, nil
}
