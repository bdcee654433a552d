package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/factionmap/internal/dataset"
	"github.com/matzehuels/factionmap/pkg/buildinfo"
	"github.com/matzehuels/factionmap/pkg/cache"
	"github.com/matzehuels/factionmap/pkg/config"
	"github.com/matzehuels/factionmap/pkg/httputil"
	"github.com/matzehuels/factionmap/pkg/observability"
	"github.com/matzehuels/factionmap/pkg/pipeline"
	"github.com/matzehuels/factionmap/pkg/source"
	"github.com/matzehuels/factionmap/pkg/source/local"
	"github.com/matzehuels/factionmap/pkg/source/sheet"
	"github.com/matzehuels/factionmap/pkg/store"
	"github.com/matzehuels/factionmap/pkg/store/mongo"
	"github.com/matzehuels/factionmap/pkg/store/sqlite"
)

// backend bundles the collaborators a command needs. Close releases all of
// them.
type backend struct {
	runner  *pipeline.Runner
	primary source.Provider
	store   store.Store
}

// newBackend opens the cache and the snapshot store and wires them behind
// the fallback source: primary (sheet or local files), then the snapshot,
// then the built-in dataset.
func (c *CLI) newBackend(ctx context.Context) (*backend, error) {
	observability.SetSourceHooks(observability.LogSourceHooks{Logger: c.Logger})
	if c.Logger.GetLevel() <= log.DebugLevel {
		installLogHooks(c.Logger)
	}

	ch, err := openCache(ctx, c.Config.Cache)
	if err != nil {
		return nil, err
	}
	st, err := openStore(ctx, c.Config.Store)
	if err != nil {
		ch.Close()
		return nil, err
	}

	keyer := cacheKeyer()
	b := &backend{
		primary: c.newPrimary(ch, keyer),
		store:   st,
	}
	fb := &source.Fallback{
		Primary: b.primary,
		Default: dataset.Provider(),
		Logger:  c.Logger,
	}
	if st != nil {
		fb.Snapshot = st
	}
	b.runner = pipeline.NewRunner(fb, ch, keyer, c.Logger)
	b.runner.TTL = c.Config.Cache.TTL
	return b, nil
}

func (b *backend) Close() error {
	err := b.runner.Close()
	if b.store != nil {
		err = errors.Join(err, b.store.Close())
	}
	return err
}

// newPrimary returns the configured primary source, or nil when only the
// snapshot and the built-in dataset are available.
func (c *CLI) newPrimary(ch cache.Cache, keyer cache.Keyer) source.Provider {
	d := c.Config.Data
	switch {
	case d.UseSheet():
		client := httputil.NewClient(ch, keyer, cache.TTLSheet, map[string]string{
			"User-Agent": buildinfo.UserAgent(),
		}).WithRetry(3, time.Second)
		p := sheet.New(client, d.SheetFamiliesURL, d.SheetRelationshipsURL, d.SheetTimelineURL)
		p.Refresh = c.flags.refresh
		return p
	case d.Families != "" || d.Events != "":
		return local.New(d.Families, d.Events)
	}
	return nil
}

// openCache returns the layout and artifact cache for cfg.
func openCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	switch cfg.Driver {
	case config.DriverFile:
		fc, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("open file cache: %w", err)
		}
		return fc, nil
	case config.DriverRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		return rc, nil
	default:
		return cache.NewNullCache(), nil
	}
}

// cacheGeneration prefixes every cache key. Bump it whenever the encoding
// of cached layouts or artifacts changes.
const cacheGeneration = "g2:"

func cacheKeyer() cache.Keyer {
	return cache.NewScopedKeyer(nil, cacheGeneration)
}

// openStore returns the snapshot store for cfg, or nil for driver none.
func openStore(ctx context.Context, cfg config.Store) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverMongo:
		s, err := mongo.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, nil
	}
}

// installLogHooks routes pipeline, cache and HTTP events to the logger.
func installLogHooks(l *log.Logger) {
	observability.SetPipelineHooks(observability.LogPipelineHooks{Logger: l})
	observability.SetCacheHooks(observability.LogCacheHooks{Logger: l})
	observability.SetHTTPHooks(observability.LogHTTPHooks{Logger: l})
}
