package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/factionmap/pkg/cache"
	"github.com/matzehuels/factionmap/pkg/core/render/social/layout"
	"github.com/matzehuels/factionmap/pkg/errors"
	"github.com/matzehuels/factionmap/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for its collaborators: it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Source source.Provider
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the default expiry of cached layouts and artifacts.
	TTL time.Duration
}

// NewRunner creates a runner reading from src.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(src source.Provider, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Source: src,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     newRunID(),
		Artifacts: make(map[string][]byte),
	}
	logger := opts.Logger.With("run", result.RunID)

	// Stage 1: Load
	loadStart := time.Now()
	ds, err := r.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Dataset = ds
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.FamilyCount = len(ds.Families)
	result.Stats.EventCount = len(ds.Events)

	logger.Info("loaded dataset",
		"source", ds.Source,
		"families", len(ds.Families),
		"events", len(ds.Events),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(l.Nodes)
	result.Stats.OverlapRatio = layout.OverlapRatio(l)
	result.CacheInfo.LayoutHit = layoutHit

	logger.Info("computed layout",
		"year", l.Year,
		"nodes", len(l.Nodes),
		"overlap", fmt.Sprintf("%.3f", result.Stats.OverlapRatio),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the dataset from the runner's source. Events are optional: a
// source without events yields an empty list.
func (r *Runner) Load(ctx context.Context) (Dataset, error) {
	if r.Source == nil {
		return Dataset{}, errors.New(errors.ErrCodeInternal, "pipeline has no source")
	}
	families, err := r.Source.Families(ctx)
	if err != nil {
		return Dataset{}, err
	}
	events, err := r.Source.Events(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return Dataset{}, ctx.Err()
		}
		r.Logger.Debug("no events", "source", r.Source.Name(), "error", err)
		events = nil
	}
	hash, err := cache.HashJSON(families)
	if err != nil {
		return Dataset{}, errors.Wrap(errors.ErrCodeInternal, err, "hash dataset")
	}
	return Dataset{
		Source:   r.Source.Name(),
		Families: families,
		Events:   events,
		Hash:     hash,
	}, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// newRunID returns a time-ordered run id, falling back to a random one.
func newRunID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
