package source

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/observability"
)

// Snapshot persists the last good dataset. Loading a snapshot that was never
// saved returns an empty slice and no error. store.Store satisfies it.
type Snapshot interface {
	SaveFamilies(ctx context.Context, families []family.Family) error
	LoadFamilies(ctx context.Context) ([]family.Family, error)
	SaveEvents(ctx context.Context, events []family.HistoricalEvent) error
	LoadEvents(ctx context.Context) ([]family.HistoricalEvent, error)
}

// Fallback tries Primary, then the Snapshot, then Default. A non-empty
// primary result is written to the Snapshot. Snapshot and Default may be
// nil.
type Fallback struct {
	Primary  Provider
	Snapshot Snapshot
	Default  Provider
	Logger   *log.Logger
}

func (f *Fallback) Name() string {
	if f.Primary == nil {
		return "fallback"
	}
	return f.Primary.Name()
}

func (f *Fallback) logger() *log.Logger {
	if f.Logger == nil {
		return log.New(io.Discard)
	}
	return f.Logger
}

// Families loads the family records.
func (f *Fallback) Families(ctx context.Context) ([]family.Family, error) {
	hooks := observability.Pipeline()
	name := f.Name()
	hooks.OnLoadStart(ctx, name)
	start := time.Now()

	fs, err := load(ctx, f, "families",
		Provider.Families,
		func(ctx context.Context) ([]family.Family, error) { return f.Snapshot.LoadFamilies(ctx) },
		func(ctx context.Context, v []family.Family) error { return f.Snapshot.SaveFamilies(ctx, v) },
	)
	hooks.OnLoadComplete(ctx, name, len(fs), time.Since(start), err)
	return fs, err
}

// Events loads the chronicle events.
func (f *Fallback) Events(ctx context.Context) ([]family.HistoricalEvent, error) {
	return load(ctx, f, "events",
		Provider.Events,
		func(ctx context.Context) ([]family.HistoricalEvent, error) { return f.Snapshot.LoadEvents(ctx) },
		func(ctx context.Context, v []family.HistoricalEvent) error { return f.Snapshot.SaveEvents(ctx, v) },
	)
}

func load[T any](
	ctx context.Context,
	f *Fallback,
	what string,
	fetch func(Provider, context.Context) ([]T, error),
	restore func(context.Context) ([]T, error),
	persist func(context.Context, []T) error,
) ([]T, error) {
	logger := f.logger()

	var primaryErr error
	if f.Primary != nil {
		v, err := fetch(f.Primary, ctx)
		if err == nil && len(v) == 0 {
			err = ErrNoData
		}
		if err == nil {
			if f.Snapshot != nil {
				observability.Source().OnSnapshotSaved(ctx, what, len(v), persist(ctx, v))
			}
			logger.Debug("loaded", "what", what, "source", f.Primary.Name(), "count", len(v))
			return v, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		primaryErr = err
	}

	// from is the link that last failed, reported when the next one serves.
	from, cause := "", primaryErr
	if f.Primary != nil {
		from = f.Primary.Name()
	}

	if f.Snapshot != nil {
		v, err := restore(ctx)
		if err == nil && len(v) > 0 {
			if from != "" {
				observability.Source().OnFallback(ctx, what, from, "snapshot", cause)
			}
			logger.Debug("loaded", "what", what, "source", "snapshot", "count", len(v))
			return v, nil
		}
		if err != nil {
			logger.Warn("snapshot unreadable", "what", what, "err", err)
			cause = err
		} else if cause == nil {
			cause = ErrNoData
		}
		from = "snapshot"
	}

	if f.Default != nil {
		v, err := fetch(f.Default, ctx)
		if err == nil && len(v) > 0 {
			if from != "" {
				observability.Source().OnFallback(ctx, what, from, f.Default.Name(), cause)
			}
			logger.Debug("loaded", "what", what, "source", f.Default.Name(), "count", len(v))
			return v, nil
		}
	}

	if primaryErr != nil {
		return nil, fmt.Errorf("load %s: %w", what, primaryErr)
	}
	return nil, fmt.Errorf("load %s: %w", what, ErrNoData)
}

var _ Provider = (*Fallback)(nil)
