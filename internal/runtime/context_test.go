package runtime

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amafra/tonecapture/internal/catalog"
	"github.com/amafra/tonecapture/internal/logger"
	"github.com/amafra/tonecapture/internal/testutil"
)

func TestContextOpensCatalogOnce(t *testing.T) {
	t.Parallel()

	console := &bytes.Buffer{}
	rc, err := New(testutil.Settings(t), WithConsole(console))
	require.NoError(t, err)
	assert.Len(t, rc.RunID, 36)

	first, err := rc.Catalog()
	require.NoError(t, err)
	second, err := rc.Catalog()
	require.NoError(t, err)
	assert.Same(t, first, second)

	ctx := rc.WithRunID(context.Background())
	assert.Equal(t, rc.RunID, logger.TraceIDFromContext(ctx))

	_, err = first.CreateManufacturer(ctx, "Celestion")
	require.NoError(t, err)
	_, err = first.CreateManufacturer(ctx, "Celestion")
	require.ErrorIs(t, err, catalog.ErrDuplicateRecord)

	samples, err := rc.Metrics.Snapshot()
	require.NoError(t, err)
	assert.NotEmpty(t, samples)

	p, err := rc.Processor()
	require.NoError(t, err)
	assert.NotNil(t, p)

	require.NoError(t, rc.Close())
}

func TestContextDebugRaisesConsoleLevel(t *testing.T) {
	t.Parallel()

	settings := testutil.Settings(t)
	settings.Debug = true
	console := &bytes.Buffer{}

	rc, err := New(settings, WithConsole(console))
	require.NoError(t, err)
	rc.Log.Debug("debug line")
	require.NoError(t, rc.Close())

	assert.Contains(t, console.String(), "debug line")
	assert.Equal(t, "info", settings.Logging.Console.Level, "settings must not be mutated")
}

func TestContextRejectsBadSettings(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	require.Error(t, err)

	settings := testutil.Settings(t)
	settings.Database.Type = "postgres"
	rc, err := New(settings, WithConsole(&bytes.Buffer{}))
	require.NoError(t, err)
	_, err = rc.Catalog()
	require.Error(t, err)
	require.NoError(t, rc.Close())
}

func TestZeroContext(t *testing.T) {
	t.Parallel()

	rc := &Context{}
	_, err := rc.Catalog()
	require.Error(t, err)
	require.NoError(t, rc.Close())
}
