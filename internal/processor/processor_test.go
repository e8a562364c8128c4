package processor

import (
	"context"
	"math"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amafra/tonecapture/internal/audiofile"
	"github.com/amafra/tonecapture/internal/catalog"
	"github.com/amafra/tonecapture/internal/conf"
	"github.com/amafra/tonecapture/internal/dsp"
	"github.com/amafra/tonecapture/internal/errors"
	"github.com/amafra/tonecapture/internal/observability/metrics"
	"github.com/amafra/tonecapture/internal/testutil"
)

// fakeFinder serves tone files from memory.
type fakeFinder map[uint]catalog.ToneFile

func (f fakeFinder) FindToneFile(_ context.Context, id uint) (catalog.ToneFile, error) {
	tf, ok := f[id]
	if !ok {
		return nil, catalog.ErrRecordNotFound
	}
	return tf, nil
}

func irFile(id uint, path string) *catalog.IRFile {
	return &catalog.IRFile{ToneFileBase: catalog.ToneFileBase{ID: id, Path: path, Filename: filepath.Base(path)}}
}

// fakeDecoder serves buffers by path and tracks concurrent decodes.
type fakeDecoder struct {
	bufs  map[string]dsp.Buffer
	delay time.Duration

	active  atomic.Int32
	maxSeen atomic.Int32
	mu      sync.Mutex
	calls   []string
}

func (d *fakeDecoder) Decode(ctx context.Context, path string) (dsp.Buffer, error) {
	n := d.active.Add(1)
	defer d.active.Add(-1)
	for {
		seen := d.maxSeen.Load()
		if n <= seen || d.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	d.mu.Lock()
	d.calls = append(d.calls, path)
	d.mu.Unlock()

	if d.delay > 0 {
		select {
		case <-time.After(d.delay):
		case <-ctx.Done():
			return dsp.Buffer{}, ctx.Err()
		}
	}

	buf, ok := d.bufs[path]
	if !ok {
		return dsp.Buffer{}, audiofile.ErrInvalidFile
	}
	return buf, nil
}

func TestApplyToneFile(t *testing.T) {
	t.Parallel()

	finder := fakeFinder{1: irFile(1, "/irs/v30.wav")}
	decoder := &fakeDecoder{bufs: map[string]dsp.Buffer{
		"/irs/v30.wav": dsp.NewBuffer([]float64{1, 0.5, 0.25, 0.125}, 96000),
	}}
	rec := metrics.NewTestRecorder()
	p := New(finder, decoder, rec, nil)

	dry, err := dsp.SineWave(440, 50*time.Millisecond, 48000, 0.5)
	require.NoError(t, err)

	out, err := p.ApplyToneFile(context.Background(), dry, 1)
	require.NoError(t, err)

	assert.InDelta(t, 48000, out.SampleRate, 0)
	assert.Equal(t, dry.Len()+2-1, out.Len(), "IR is resampled to half length before convolution")
	assert.InDelta(t, 1.0, dsp.Peak(out), 1e-9)

	assert.Equal(t, 1, rec.GetOperationCount(metrics.StageDecode, metrics.StatusSuccess))
	assert.Equal(t, 1, rec.GetOperationCount(metrics.StageApply, metrics.StatusSuccess))
	assert.Equal(t, []int{out.Len()}, rec.GetOutputSamples(metrics.StageApply))
}

func TestApplyToneFileRejectsNAM(t *testing.T) {
	t.Parallel()

	nam := &catalog.NAMFile{ToneFileBase: catalog.ToneFileBase{ID: 2, Path: "/models/plexi.nam"}}
	decoder := &fakeDecoder{}
	p := New(fakeFinder{2: nam}, decoder, nil, nil)

	_, err := p.ApplyToneFile(context.Background(), dsp.NewBuffer([]float64{1}, 48000), 2)
	require.ErrorIs(t, err, ErrNotImpulseResponse)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
	assert.Empty(t, decoder.calls, "NAM files must not be decoded")

	_, err = p.ApplyToneFile(context.Background(), dsp.NewBuffer([]float64{1}, 48000), 3)
	require.ErrorIs(t, err, catalog.ErrRecordNotFound)
}

func TestApplyPropagatesPipelineErrors(t *testing.T) {
	t.Parallel()

	rec := metrics.NewTestRecorder()
	p := New(fakeFinder{}, &fakeDecoder{}, rec, nil)
	ctx := context.Background()

	_, err := p.Apply(ctx, dsp.NewBuffer([]float64{0, 0}, 48000), dsp.NewBuffer([]float64{1}, 48000))
	require.ErrorIs(t, err, dsp.ErrSilentSignal)

	_, err = p.Apply(ctx, dsp.NewBuffer(nil, 48000), dsp.NewBuffer([]float64{1}, 48000))
	require.ErrorIs(t, err, dsp.ErrEmptyInput)

	_, err = p.Apply(ctx, dsp.NewBuffer([]float64{1}, 0), dsp.NewBuffer([]float64{1}, 48000))
	require.ErrorIs(t, err, dsp.ErrInvalidSampleRate)

	assert.Equal(t, 3, rec.GetOperationCount(metrics.StageApply, metrics.StatusError))

	_, err = p.ApplyFile(ctx, dsp.NewBuffer([]float64{1}, 48000), "/missing.wav")
	require.ErrorIs(t, err, audiofile.ErrInvalidFile)
	assert.Equal(t, 1, rec.GetOperationCount(metrics.StageDecode, metrics.StatusError))
}

func TestAverageToneFiles(t *testing.T) {
	t.Parallel()

	finder := fakeFinder{
		1: irFile(1, "/irs/a.wav"),
		2: irFile(2, "/irs/b.wav"),
	}
	decoder := &fakeDecoder{bufs: map[string]dsp.Buffer{
		"/irs/a.wav": dsp.NewBuffer([]float64{1, 1}, 48000),
		"/irs/b.wav": dsp.NewBuffer([]float64{1, 1, 1, 1}, 48000),
	}}
	p := New(finder, decoder, nil, nil)

	out, err := p.AverageToneFiles(context.Background(), []uint{1, 2}, 48000)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1, 0.5, 0.5}, out.Samples, 1e-12)
	assert.InDelta(t, 48000, out.SampleRate, 0)
}

func TestAverageToneFilesResamples(t *testing.T) {
	t.Parallel()

	impulse := make([]float64, 480)
	impulse[0] = 1
	finder := fakeFinder{1: irFile(1, "/irs/44k.wav"), 2: irFile(2, "/irs/96k.wav")}
	decoder := &fakeDecoder{bufs: map[string]dsp.Buffer{
		"/irs/44k.wav": dsp.NewBuffer(impulse[:441], 44100),
		"/irs/96k.wav": dsp.NewBuffer(append(impulse, impulse...), 96000),
	}}
	rec := metrics.NewTestRecorder()
	p := New(finder, decoder, rec, nil)

	out, err := p.AverageToneFiles(context.Background(), []uint{1, 2}, 48000)
	require.NoError(t, err)
	assert.Equal(t, 480, out.Len())
	assert.InDelta(t, 1.0, dsp.Peak(out), 1e-9)
	assert.Equal(t, 2, rec.GetOperationCount(metrics.StageResample, metrics.StatusSuccess))
}

func TestAverageToneFilesErrors(t *testing.T) {
	t.Parallel()

	nam := &catalog.NAMFile{ToneFileBase: catalog.ToneFileBase{ID: 3, Path: "/models/amp.nam"}}
	finder := fakeFinder{1: irFile(1, "/irs/a.wav"), 3: nam}
	decoder := &fakeDecoder{bufs: map[string]dsp.Buffer{"/irs/a.wav": dsp.NewBuffer([]float64{1}, 48000)}}
	p := New(finder, decoder, nil, nil)
	ctx := context.Background()

	_, err := p.AverageToneFiles(ctx, nil, 48000)
	require.ErrorIs(t, err, dsp.ErrEmptyInput)

	_, err = p.AverageToneFiles(ctx, []uint{1}, math.NaN())
	require.ErrorIs(t, err, dsp.ErrInvalidSampleRate)

	_, err = p.AverageToneFiles(ctx, []uint{1, 3}, 48000)
	require.ErrorIs(t, err, ErrNotImpulseResponse)

	_, err = p.AverageToneFiles(ctx, []uint{1, 9}, 48000)
	require.ErrorIs(t, err, catalog.ErrRecordNotFound)
}

func TestAverageToneFilesBoundsParallelism(t *testing.T) {
	t.Parallel()

	finder := fakeFinder{}
	decoder := &fakeDecoder{bufs: map[string]dsp.Buffer{}, delay: 20 * time.Millisecond}
	ids := make([]uint, 8)
	for i := range ids {
		id := uint(i + 1)
		path := filepath.Join("/irs", string(rune('a'+i))+".wav")
		finder[id] = irFile(id, path)
		decoder.bufs[path] = dsp.NewBuffer([]float64{1, float64(i)}, 48000)
		ids[i] = id
	}

	p := New(finder, decoder, nil, nil, WithMaxParallel(2))
	_, err := p.AverageToneFiles(context.Background(), ids, 48000)
	require.NoError(t, err)

	assert.LessOrEqual(t, decoder.maxSeen.Load(), int32(2))
	assert.Len(t, decoder.calls, len(ids))
}

func TestAverageToneFilesHonorsCancellation(t *testing.T) {
	t.Parallel()

	finder := fakeFinder{1: irFile(1, "/irs/a.wav"), 2: irFile(2, "/irs/b.wav")}
	decoder := &fakeDecoder{
		bufs:  map[string]dsp.Buffer{"/irs/a.wav": dsp.NewBuffer([]float64{1}, 48000), "/irs/b.wav": dsp.NewBuffer([]float64{1}, 48000)},
		delay: time.Second,
	}
	p := New(finder, decoder, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.AverageToneFiles(ctx, []uint{1, 2}, 48000)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestOptionsFromSettings(t *testing.T) {
	t.Parallel()

	opts, err := OptionsFromSettings(&conf.AudioSettings{ResampleQuality: "best", MaxParallel: 3, DirectConvolutionMax: 128})
	require.NoError(t, err)

	p := New(fakeFinder{}, nil, nil, nil, opts...)
	assert.Equal(t, dsp.QualityBest, p.quality)
	assert.Equal(t, 3, p.maxParallel)
	assert.Equal(t, 128, p.directThreshold)
	assert.IsType(t, audiofile.FileDecoder{}, p.decoder)

	_, err = OptionsFromSettings(&conf.AudioSettings{ResampleQuality: "ultra"})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestProcessorWithCatalog(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	cat := testutil.NewTestCatalog(t)

	irPath := filepath.Join(dir, "irs", "v30_sm57.wav")
	require.NoError(t, audiofile.Encode(irPath, dsp.NewBuffer([]float64{0.8, 0.4, -0.2, 0.1}, 48000), 24))

	ir, err := cat.CreateToneFile(ctx, catalog.KindIR, irPath, "", "")
	require.NoError(t, err)
	spk, err := cat.CreateDevice(ctx, catalog.KindSpeaker, "V30", nil)
	require.NoError(t, err)
	_, err = cat.Link(ctx, ir.Base().ID, spk.Base().ID, "cab", 1)
	require.NoError(t, err)

	p := New(cat, nil, nil, nil)
	dry := dsp.NewBuffer([]float64{0, 1, 0, -0.5, 0}, 48000)

	out, err := p.ApplyToneFile(ctx, dry, ir.Base().ID)
	require.NoError(t, err)
	assert.Equal(t, dry.Len()+4-1, out.Len())
	assert.InDelta(t, 1.0, dsp.Peak(out), 1e-9)
}
