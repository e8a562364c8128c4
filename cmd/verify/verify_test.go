package verify

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/amafra/tonecapture/cmd/seed"
	"github.com/amafra/tonecapture/internal/audiofile"
	"github.com/amafra/tonecapture/internal/catalog"
	"github.com/amafra/tonecapture/internal/dsp"
	"github.com/amafra/tonecapture/internal/observability"
	"github.com/amafra/tonecapture/internal/testutil"
)

func seededReport(t *testing.T) *Report {
	t.Helper()

	ctx := context.Background()
	cat := testutil.NewTestCatalog(t)
	require.NoError(t, seed.Seed(ctx, cat, &bytes.Buffer{}))

	_, err := cat.CreateToneFile(ctx, catalog.KindNAM, "/data/nam/plexi.nam", "", "")
	require.NoError(t, err)

	report, err := BuildReport(ctx, cat)
	require.NoError(t, err)
	return report
}

func TestWriteText(t *testing.T) {
	t.Parallel()

	report := seededReport(t)
	report.Metrics = []observability.Sample{{Name: "tonecapture_up", Value: 1}}

	out := &bytes.Buffer{}
	require.NoError(t, Write(out, report, FormatText))
	text := out.String()

	assert.Contains(t, text, "--- Manufacturers ---\nManufacturer(Celestion)\nManufacturer(Shure)\n")
	assert.Contains(t, text, "--- Speakers ---\nSpeaker(Celestion Vintage 30)\n")
	assert.Contains(t, text, "--- Microphones ---\nMicrophone(Shure SM-57)\n")
	assert.Contains(t, text, "  Path: /data/irs/celestion_v30_sm57.wav\n")
	assert.Contains(t, text, "    - Speaker(Celestion Vintage 30)\n    - Microphone(Shure SM-57)\n")
	assert.Contains(t, text, "--- NAM Files ---\nNAMFile(plexi.nam")
	assert.Contains(t, text, "--- Metrics ---\ntonecapture_up 1")
}

func TestWriteYAML(t *testing.T) {
	t.Parallel()

	report := seededReport(t)
	out := &bytes.Buffer{}
	require.NoError(t, Write(out, report, "YAML"))

	var decoded Report
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded.Manufacturers, 2)
	require.Len(t, decoded.Devices, 2)
	require.Len(t, decoded.ToneFiles, 2)

	ir := decoded.ToneFiles[0]
	assert.Equal(t, "ir", ir.Kind)
	assert.False(t, ir.HasEmbedding)
	require.Len(t, ir.Chain, 2)
	assert.Equal(t, ChainEntry{Order: 1, Role: "Speaker", Device: "Speaker(Celestion Vintage 30)"}, ir.Chain[0])
	assert.Empty(t, decoded.Metrics)
}

func TestWriteRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	require.Error(t, Write(&bytes.Buffer{}, &Report{}, "xml"))
}

func TestBuildReportReadsAudioHeaders(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cat := testutil.NewTestCatalog(t)

	path := filepath.Join(t.TempDir(), "v30.wav")
	require.NoError(t, audiofile.Encode(path, dsp.NewBuffer(make([]float64, 480), 48000), 24))
	_, err := cat.CreateToneFile(ctx, catalog.KindIR, path, "", "")
	require.NoError(t, err)
	_, err = cat.CreateToneFile(ctx, catalog.KindIR, filepath.Join(t.TempDir(), "gone.wav"), "", "")
	require.NoError(t, err)

	report, err := BuildReport(ctx, cat)
	require.NoError(t, err)
	require.Len(t, report.ToneFiles, 2)

	present := report.ToneFiles[0]
	require.NotNil(t, present.Audio)
	assert.Equal(t, AudioEntry{SampleRate: 48000, Samples: 480, Channels: 1, BitDepth: 24}, *present.Audio)
	assert.Empty(t, present.AudioError)

	missing := report.ToneFiles[1]
	assert.Nil(t, missing.Audio)
	assert.NotEmpty(t, missing.AudioError)

	out := &bytes.Buffer{}
	require.NoError(t, Write(out, report, FormatText))
	assert.Contains(t, out.String(), "  Audio: 48000 Hz, 24-bit PCM, 1 ch, 480 samples\n")
	assert.Contains(t, out.String(), "  Audio: unavailable (")
}
