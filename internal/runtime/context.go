// Package runtime holds the per-invocation state of the tonecapture CLI:
// loaded settings, the central logger, metrics and the lazily opened
// catalog. It is separate from user configuration.
package runtime

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/amafra/tonecapture/internal/catalog"
	"github.com/amafra/tonecapture/internal/conf"
	"github.com/amafra/tonecapture/internal/datastore"
	"github.com/amafra/tonecapture/internal/logger"
	"github.com/amafra/tonecapture/internal/observability"
	"github.com/amafra/tonecapture/internal/processor"
)

// Context contains the state shared by every command of one run.
type Context struct {
	// RunID identifies this invocation in every log line.
	RunID    string
	Settings *conf.Settings
	Log      logger.Logger
	Metrics  *observability.Metrics

	central *logger.CentralLogger

	mu      sync.Mutex
	store   datastore.Manager
	catalog *catalog.Catalog
}

// Option configures a Context.
type Option func(*options)

type options struct {
	console io.Writer
}

// WithConsole redirects console logging, stderr by default.
func WithConsole(w io.Writer) Option {
	return func(o *options) { o.console = w }
}

// New builds the logger and metrics for settings. The database is opened on
// first use.
func New(settings *conf.Settings, opts ...Option) (*Context, error) {
	c := &Context{}
	if err := c.Init(settings, opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// Init fills a zero Context. The CLI creates the Context before flags and
// configuration are parsed and initializes it once they are.
func (c *Context) Init(settings *conf.Settings, opts ...Option) error {
	if settings == nil {
		return fmt.Errorf("settings cannot be nil")
	}

	o := options{console: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	logCfg := settings.Logging
	if settings.Debug {
		logCfg.DefaultLevel = string(logger.LogLevelDebug)
		if logCfg.Console != nil {
			console := *logCfg.Console
			console.Level = string(logger.LogLevelDebug)
			logCfg.Console = &console
		}
	}

	central, err := logger.NewCentralLogger(&logCfg, logger.WithConsoleWriter(o.console))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	m, err := observability.NewMetrics()
	if err != nil {
		_ = central.Close()
		return err
	}

	c.RunID = uuid.NewString()
	c.Settings = settings
	c.Log = central.Module("cli")
	c.Metrics = m
	c.central = central
	return nil
}

// WithRunID returns ctx carrying the run id as trace id.
func (c *Context) WithRunID(ctx context.Context) context.Context {
	return logger.WithTraceID(ctx, c.RunID)
}

// Logger returns the logger for module.
func (c *Context) Logger(module string) logger.Logger {
	return c.central.Module(module)
}

// Catalog opens and migrates the configured database on first call and
// returns the catalog over it.
func (c *Context) Catalog() (*catalog.Catalog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.catalog != nil {
		return c.catalog, nil
	}
	if c.central == nil {
		return nil, fmt.Errorf("runtime context is not initialized")
	}

	store, err := datastore.NewManager(c.Settings, c.central.Module("datastore"))
	if err != nil {
		return nil, err
	}
	if err := store.Initialize(); err != nil {
		_ = store.Close()
		return nil, err
	}

	c.store = store
	c.catalog = catalog.New(store.DB(),
		catalog.WithLogger(c.central.Module("catalog")),
		catalog.WithDeviceCacheTTL(c.Settings.Database.DeviceCacheTTL),
		catalog.WithMetrics(c.Metrics.Catalog))

	c.Log.Debug("catalog opened",
		logger.String("location", store.Path()),
		logger.Bool("mysql", store.IsMySQL()))
	return c.catalog, nil
}

// Processor returns a processor over the catalog configured from the audio
// settings.
func (c *Context) Processor() (*processor.Processor, error) {
	cat, err := c.Catalog()
	if err != nil {
		return nil, err
	}
	opts, err := processor.OptionsFromSettings(&c.Settings.Audio)
	if err != nil {
		return nil, err
	}
	return processor.New(cat, nil, c.Metrics.Pipeline, c.central.Module("processor"), opts...), nil
}

// Close closes the database and flushes the logs.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var storeErr error
	if c.store != nil {
		storeErr = c.store.Close()
		c.store = nil
		c.catalog = nil
	}
	if c.central == nil {
		return storeErr
	}
	if err := c.central.Close(); err != nil && storeErr == nil {
		return err
	}
	return storeErr
}
