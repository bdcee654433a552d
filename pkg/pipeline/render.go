package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/factionmap/pkg/cache"
	"github.com/matzehuels/factionmap/pkg/core/render/nodelink"
	"github.com/matzehuels/factionmap/pkg/core/render/social/layout"
	"github.com/matzehuels/factionmap/pkg/core/render/social/sink"
	"github.com/matzehuels/factionmap/pkg/errors"
	"github.com/matzehuels/factionmap/pkg/observability"
)

// Render generates output artifacts in the requested formats. The social
// map formats use l; the relationship graph formats use the dataset.
func Render(ctx context.Context, l layout.Layout, ds Dataset, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, buildSVGOptions(opts)...)
		case FormatJSON:
			data, err = sink.RenderJSON(l, buildJSONOptions(opts)...)
		case FormatDOT, FormatGraph:
			if dot == "" {
				dot = nodelink.ToDOT(ds.Families, l.Year, nodelink.Options{
					Detailed: opts.Detailed,
					Selected: opts.SelectedID,
				})
			}
			if format == FormatDOT {
				data = []byte(dot)
			} else {
				data, err = nodelink.RenderSVG(ctx, dot)
			}
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if opts.SelectedID != "" {
		svgOpts = append(svgOpts, sink.WithSelected(opts.SelectedID))
	}
	if opts.NoHeaders {
		svgOpts = append(svgOpts, sink.WithoutHeaders())
	}
	if opts.NoImages {
		svgOpts = append(svgOpts, sink.WithoutImages())
	}
	return svgOpts
}

func buildJSONOptions(opts Options) []sink.JSONOption {
	jsonOpts := []sink.JSONOption{
		sink.WithJSONIndent(),
		sink.WithJSONRelaxPasses(opts.Passes()),
	}
	if opts.SelectedID != "" {
		jsonOpts = append(jsonOpts, sink.WithJSONSelected(opts.SelectedID))
	}
	return jsonOpts
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. The hit flag is true only when every format came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, ds Dataset, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Graph formats depend on relationships, which the layout omits.
	layoutHash, err := cache.HashJSON(struct {
		Layout  layout.Layout `json:"layout"`
		Dataset string        `json:"dataset"`
	}{l, ds.Hash})
	if err != nil {
		return nil, false, fmt.Errorf("hash layout for cache key: %w", err)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, l, ds, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLArtifact))
	}
	return rendered, false, nil
}

// RenderArtifacts is a convenience wrapper that calls RenderWithCacheInfo
// and discards the cache hit info.
func (r *Runner) RenderArtifacts(ctx context.Context, l layout.Layout, ds Dataset, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, ds, opts)
	return artifacts, err
}

// RenderFromLayoutData renders output from a serialized layout, as stored
// in the cache.
func RenderFromLayoutData(ctx context.Context, layoutData []byte, ds Dataset, opts Options) (map[string][]byte, error) {
	l, err := ParseLayout(layoutData)
	if err != nil {
		return nil, err
	}
	opts.SetRenderDefaults()
	return Render(ctx, l, ds, opts)
}

// ParseLayout decodes a layout written by the json format or the layout
// command.
func ParseLayout(data []byte) (layout.Layout, error) {
	var l layout.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return layout.Layout{}, fmt.Errorf("parse layout: %w", err)
	}
	if err := errors.ValidateYear(l.Year); err != nil {
		return layout.Layout{}, fmt.Errorf("parse layout: %w", err)
	}
	return l, nil
}
