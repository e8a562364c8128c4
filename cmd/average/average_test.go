package average

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amafra/tonecapture/internal/audiofile"
	"github.com/amafra/tonecapture/internal/catalog"
	"github.com/amafra/tonecapture/internal/conf"
	"github.com/amafra/tonecapture/internal/dsp"
	"github.com/amafra/tonecapture/internal/runtime"
	"github.com/amafra/tonecapture/internal/testutil"
)

func TestAverageWritesNormalizedResponse(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	settings := testutil.Settings(t)
	settings.Audio.ResampleQuality = conf.ResampleFast
	rc, err := runtime.New(settings, runtime.WithConsole(&bytes.Buffer{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })

	cat, err := rc.Catalog()
	require.NoError(t, err)

	ids := make([]string, 0, 2)
	for i, samples := range [][]float64{{1, 0.5}, {0.5, 0.5, 0.25, 0.25}} {
		path := filepath.Join(dir, fmt.Sprintf("ir%d.wav", i))
		require.NoError(t, audiofile.Encode(path, dsp.NewBuffer(samples, 48000), 24))
		tf, err := cat.CreateToneFile(context.Background(), catalog.KindIR, path, "", "")
		require.NoError(t, err)
		ids = append(ids, fmt.Sprint(tf.Base().ID))
	}

	outPath := filepath.Join(dir, "avg.wav")
	cmd := Command(rc)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs(append(ids, "-o", outPath))
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Wrote "+outPath)

	avg, err := audiofile.Decode(outPath)
	require.NoError(t, err)
	assert.Len(t, avg.Samples, 4)
	assert.InDelta(t, 1.0, dsp.Peak(avg), 1e-3)
}

func TestAverageRejectsBadIDs(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{{}, {"0"}, {"abc"}} {
		cmd := Command(&runtime.Context{})
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		require.Error(t, cmd.Execute(), args)
	}
}
