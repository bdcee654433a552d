// Package pkg provides the core libraries for Factionmap.
//
// # Overview
//
// Factionmap shows the political landscape of Florence between 1215 and 1450.
// For any year it works out which faction each family belonged to, whether it
// was in exile, whether it counted among the magnates, and where it sits on a
// social map split into Ghibellines, Guelfs, Whites, Blacks and exiles. The pkg
// directory is organized into these areas:
//
//  1. [core] - Domain logic (state resolution, timeline, layout, rendering)
//  2. [source] and [store] - Where families and chronicle events come from
//  3. [cache] and [httputil] - Layout cache and the cached HTTP client
//  4. [pipeline] - Orchestration (load → layout → render)
//
// # Architecture
//
// The typical data flow:
//
//	Spreadsheet / local files / snapshot / built-in data
//	         ↓
//	    [source] package (fallback chain)
//	         ↓
//	    [core/family] package (resolve state for a year)
//	         ↓
//	    [render/social/layout] package (lanes, anchors, relaxation)
//	         ↓
//	    SVG/JSON/DOT output
//
// # Quick Start
//
// Resolve one family and lay out a year:
//
//	import (
//	    "github.com/matzehuels/factionmap/pkg/core/family"
//	    "github.com/matzehuels/factionmap/pkg/core/render/social/layout"
//	    "github.com/matzehuels/factionmap/pkg/core/render/social/sink"
//	)
//
//	st := family.Resolve(f, 1302)
//	fmt.Println(st.Group, st.Exiled)
//
//	l := layout.Build(families, 1302, layout.WithRelaxPasses(3))
//	svg := sink.RenderSVG(l, sink.WithSelected("1003"))
//
// Or let the pipeline do all of it, including caching:
//
//	runner := pipeline.NewRunner(src, cache.NewNullCache(), nil, logger)
//	res, _ := runner.Execute(ctx, pipeline.Options{Year: 1302, Formats: []string{"svg"}})
//
// # Main Packages
//
// [core/family] - Family records, the year resolver and district lookup.
//
// [core/timeline] - Chronicle events and the playback clock.
//
// [core/geo] - Map pins and family connections.
//
// [render/social/layout] - The social map layout.
//
// [render/social/sink] - SVG and JSON output for a layout.
//
// [render/nodelink] - The family relationship graph using Graphviz.
//
// [errors] - Error codes and input validation shared by the CLI and API.
//
// [config] - TOML config with environment overrides.
//
// [io] - Dataset export to YAML or JSON.
//
// [core]: https://pkg.go.dev/github.com/matzehuels/factionmap/pkg/core
// [core/family]: https://pkg.go.dev/github.com/matzehuels/factionmap/pkg/core/family
// [core/timeline]: https://pkg.go.dev/github.com/matzehuels/factionmap/pkg/core/timeline
// [core/geo]: https://pkg.go.dev/github.com/matzehuels/factionmap/pkg/core/geo
// [render/social/layout]: https://pkg.go.dev/github.com/matzehuels/factionmap/pkg/core/render/social/layout
// [render/social/sink]: https://pkg.go.dev/github.com/matzehuels/factionmap/pkg/core/render/social/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/factionmap/pkg/core/render/nodelink
// [source]: https://pkg.go.dev/github.com/matzehuels/factionmap/pkg/source
// [store]: https://pkg.go.dev/github.com/matzehuels/factionmap/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/factionmap/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/factionmap/pkg/httputil
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/factionmap/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/matzehuels/factionmap/pkg/errors
// [config]: https://pkg.go.dev/github.com/matzehuels/factionmap/pkg/config
// [io]: https://pkg.go.dev/github.com/matzehuels/factionmap/pkg/io
package pkg
