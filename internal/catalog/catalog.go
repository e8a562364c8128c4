package catalog

import (
	"context"
	"io"
	"time"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/amafra/tonecapture/internal/datastore/repository"
	"github.com/amafra/tonecapture/internal/errors"
	"github.com/amafra/tonecapture/internal/logger"
	"github.com/amafra/tonecapture/internal/observability/metrics"
)

// Device cache defaults.
const (
	DefaultDeviceCacheTTL = 5 * time.Minute
	deviceCacheCleanup    = 10 * time.Minute
)

// cacheRecorder is implemented by recorders that track device cache hits.
type cacheRecorder interface {
	RecordCacheLookup(result string)
}

// Catalog is the device catalog, tone file catalog and device-link registry
// over one database. It is safe for concurrent use.
type Catalog struct {
	db      *gorm.DB
	repos   *repository.Set
	devices *cache.Cache
	metrics metrics.Recorder
	log     logger.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger; the catalog logs under module "catalog".
func WithLogger(l logger.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.log = l.Module("catalog")
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(c *Catalog) {
		if r != nil {
			c.metrics = r
		}
	}
}

// WithDeviceCacheTTL sets how long FindDevice results are cached. Zero or
// negative disables caching.
//
// The cache is per Catalog. Renames and deletes made through this Catalog
// invalidate it, but a device deleted through another process sharing the
// database keeps being returned until its entry expires. Disable the cache
// when several writers share one database.
func WithDeviceCacheTTL(ttl time.Duration) Option {
	return func(c *Catalog) {
		if ttl <= 0 {
			c.devices = nil
			return
		}
		c.devices = cache.New(ttl, deviceCacheCleanup)
	}
}

// New creates a Catalog over db, which must already be migrated.
func New(db *gorm.DB, opts ...Option) *Catalog {
	c := &Catalog{
		db:      db,
		repos:   repository.NewSet(db),
		devices: cache.New(DefaultDeviceCacheTTL, deviceCacheCleanup),
		metrics: metrics.NoOpRecorder{},
		log:     logger.NewSlogLogger(io.Discard, logger.LogLevelInfo, nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// tx runs fn in one transaction.
func (c *Catalog) tx(ctx context.Context, fn func(repos *repository.Set) error) error {
	return repository.RunInTx(ctx, c.db, fn)
}

// observe records metrics for one operation and logs failures that are not
// ordinary caller mistakes.
func (c *Catalog) observe(ctx context.Context, operation string, start time.Time, err error) {
	status := statusOf(err)
	c.metrics.RecordOperation(operation, status)
	c.metrics.RecordDuration(operation, time.Since(start).Seconds())

	if err == nil {
		return
	}

	var ee *errors.EnhancedError
	category := string(errors.CategoryGeneric)
	if errors.As(err, &ee) {
		category = ee.GetCategory()
	}
	c.metrics.RecordError(operation, category)

	if status == metrics.StatusError {
		c.log.WithContext(ctx).Error("catalog operation failed",
			logger.String("operation", operation),
			logger.Error(err))
	}
}

func (c *Catalog) recordCache(result string) {
	if r, ok := c.metrics.(cacheRecorder); ok {
		r.RecordCacheLookup(result)
	}
}
