package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/factionmap/pkg/cache"
	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/core/render/social/layout"
	"github.com/matzehuels/factionmap/pkg/observability"
)

// GenerateLayout packs every family of ds into the social map. With
// opts.AliveOnly, families outside their lifetime in opts.Year are left out.
// It never fails: the layout engine accepts any dataset.
func GenerateLayout(ds Dataset, opts Options) layout.Layout {
	opts.SetLayoutDefaults()
	families := ds.Families
	if opts.AliveOnly {
		families = make([]family.Family, 0, len(ds.Families))
		for _, f := range ds.Families {
			if family.Alive(f, opts.Year) {
				families = append(families, f)
			}
		}
	}
	return layout.Build(families, opts.Year,
		layout.WithRelaxPasses(opts.Passes()),
		layout.WithLogger(opts.Logger))
}

// LayoutWithCacheInfo packs the social map with caching and returns cache
// hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, ds Dataset, opts Options) (layout.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, false, err
	}
	r.applyLogger(&opts)

	hash := ds.Hash
	if hash == "" {
		var err error
		if hash, err = cache.HashJSON(ds.Families); err != nil {
			return layout.Layout{}, false, err
		}
	}
	cacheKey := r.Keyer.LayoutKey(hash, opts.Year, opts.LayoutKeyOpts())

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var cached layout.Layout
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, true, nil
		}
		// A corrupt entry is recomputed and overwritten.
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Year, len(ds.Families))
	start := time.Now()
	l := GenerateLayout(ds, opts)
	hooks.OnLayoutComplete(ctx, opts.Year, time.Since(start), nil)

	if data, err := json.Marshal(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLLayout))
	}
	return l, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, ds Dataset, opts Options) (layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, ds, opts)
	return l, err
}
