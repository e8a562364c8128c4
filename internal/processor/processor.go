// Package processor connects the catalog to the signal pipeline: it
// resolves tone files to decoded impulse responses and runs them through
// internal/dsp.
package processor

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/amafra/tonecapture/internal/audiofile"
	"github.com/amafra/tonecapture/internal/catalog"
	"github.com/amafra/tonecapture/internal/conf"
	"github.com/amafra/tonecapture/internal/dsp"
	"github.com/amafra/tonecapture/internal/errors"
	"github.com/amafra/tonecapture/internal/logger"
	"github.com/amafra/tonecapture/internal/observability/metrics"
)

// ToneFileFinder resolves tone file ids. *catalog.Catalog implements it.
type ToneFileFinder interface {
	FindToneFile(ctx context.Context, id uint) (catalog.ToneFile, error)
}

// Processor applies and averages cataloged impulse responses. It holds no
// per-call state and is safe for concurrent use.
type Processor struct {
	finder          ToneFileFinder
	decoder         audiofile.Decoder
	metrics         metrics.PipelineRecorder
	log             logger.Logger
	quality         dsp.Quality
	directThreshold int
	maxParallel     int
}

// Option configures a Processor.
type Option func(*Processor)

// WithQuality selects the resampler quality.
func WithQuality(q dsp.Quality) Option {
	return func(p *Processor) { p.quality = q }
}

// WithDirectThreshold sets the kernel length up to which convolution runs
// in the time domain.
func WithDirectThreshold(n int) Option {
	return func(p *Processor) { p.directThreshold = n }
}

// WithMaxParallel bounds how many files AverageToneFiles decodes at once.
// Values below 1 use GOMAXPROCS.
func WithMaxParallel(n int) Option {
	return func(p *Processor) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		p.maxParallel = n
	}
}

// OptionsFromSettings maps the audio settings onto processor options.
func OptionsFromSettings(s *conf.AudioSettings) ([]Option, error) {
	q, err := dsp.ParseQuality(s.ResampleQuality)
	if err != nil {
		return nil, errors.New(err).
			Component("processor").
			Category(errors.CategoryConfiguration).
			Context("resample_quality", s.ResampleQuality).
			Build()
	}
	return []Option{
		WithQuality(q),
		WithDirectThreshold(s.DirectConvolutionMax),
		WithMaxParallel(s.MaxParallel),
	}, nil
}

// New creates a Processor. A nil decoder reads files from disk; nil
// metrics and logger discard their output.
func New(finder ToneFileFinder, decoder audiofile.Decoder, rec metrics.PipelineRecorder, log logger.Logger, opts ...Option) *Processor {
	if decoder == nil {
		decoder = audiofile.FileDecoder{}
	}
	if rec == nil {
		rec = metrics.NoOpRecorder{}
	}
	if log == nil {
		log = logger.NewSlogLogger(io.Discard, logger.LogLevelInfo, nil)
	}

	p := &Processor{
		finder:      finder,
		decoder:     decoder,
		metrics:     rec,
		log:         log.Module("processor"),
		quality:     dsp.QualityBalanced,
		maxParallel: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Processor) dspOptions() []dsp.Option {
	return []dsp.Option{
		dsp.WithQuality(p.quality),
		dsp.WithDirectThreshold(p.directThreshold),
	}
}

// impulseResponse resolves id to an IR file.
func (p *Processor) impulseResponse(ctx context.Context, id uint) (*catalog.IRFile, error) {
	tf, err := p.finder.FindToneFile(ctx, id)
	if err != nil {
		return nil, err
	}
	ir, ok := tf.(*catalog.IRFile)
	if !ok {
		return nil, notImpulseResponse(tf)
	}
	return ir, nil
}

// decode loads path and records the decode stage.
func (p *Processor) decode(ctx context.Context, path string) (dsp.Buffer, error) {
	start := time.Now()
	buf, err := p.decoder.Decode(ctx, path)
	p.observe(metrics.StageDecode, start, buf.Len(), err)
	if err != nil {
		return dsp.Buffer{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return buf, nil
}

// observe records one stage run.
func (p *Processor) observe(stage string, start time.Time, samples int, err error) {
	p.metrics.RecordDuration(stage, time.Since(start).Seconds())
	if err != nil {
		p.metrics.RecordOperation(stage, metrics.StatusError)
		p.metrics.RecordError(stage, errorCategory(err))
		return
	}
	p.metrics.RecordOperation(stage, metrics.StatusSuccess)
	p.metrics.RecordOutputSamples(stage, samples)
}

func errorCategory(err error) string {
	var ee *errors.EnhancedError
	if errors.As(err, &ee) {
		return ee.GetCategory()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return string(errors.CategoryCancellation)
	}
	return string(errors.CategoryGeneric)
}
