// Package pipeline provides the load → layout → render pipeline for the
// social map.
//
// The CLI and the HTTP server both go through a [Runner], so they share the
// same defaults, caching and logging. Each stage can be run on its own or as
// part of [Runner.Execute].
//
// # Stages
//
//  1. Load: read families and chronicle events from a [source.Provider]
//  2. Layout: resolve every family for the year and pack the social map
//  3. Render: produce SVG, JSON, DOT or a Graphviz relationship graph
//
// # Usage
//
//	runner := pipeline.NewRunner(provider, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Year:    1300,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// Layouts are cached under a hash of the dataset, the year and the packing
// options; artifacts under a hash of the layout and the render options.
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/factionmap/pkg/cache"
	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/core/render/social/layout"
	"github.com/matzehuels/factionmap/pkg/errors"
)

// DefaultYear is the year rendered when none is given: the White/Black
// schism.
const DefaultYear = family.YearSchism

// Format constants for output formats.
const (
	FormatSVG   = "svg"   // social map
	FormatJSON  = "json"  // social map layout
	FormatDOT   = "dot"   // relationship graph source
	FormatGraph = "graph" // relationship graph rendered by Graphviz
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatJSON:  true,
	FormatDOT:   true,
	FormatGraph: true,
}

// Options contains all configuration for the pipeline. It supports JSON
// serialization for API requests.
type Options struct {
	// Load options
	Refresh bool `json:"refresh,omitempty"`

	// Layout options
	Year        int  `json:"year"`
	RelaxPasses *int `json:"relax_passes,omitempty"`
	AliveOnly   bool `json:"alive_only,omitempty"` // drop families outside their lifetime

	// Render options
	Formats    []string `json:"formats,omitempty"`
	SelectedID string   `json:"selected,omitempty"`
	NoHeaders  bool     `json:"no_headers,omitempty"`
	NoImages   bool     `json:"no_images,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"` // faction and status in graph labels

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Dataset is a loaded set of families and events with its content hash.
type Dataset struct {
	Source   string
	Families []family.Family
	Events   []family.HistoricalEvent
	Hash     string
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and API responses.
	RunID string

	// Dataset is the loaded data.
	Dataset Dataset

	// Layout is the packed social map.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	FamilyCount  int
	NodeCount    int
	EventCount   int
	OverlapRatio float64
	LoadTime     time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: svg, json, dot, graph)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// ValidateAndSetDefaults checks the options and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Year == 0 {
		o.Year = DefaultYear
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errors.ValidateYear(o.Year); err != nil {
		return err
	}
	if o.RelaxPasses != nil && *o.RelaxPasses < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "relax passes must be >= 0, got %d", *o.RelaxPasses)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.SelectedID != "" {
		if err := errors.ValidateFamilyID(o.SelectedID); err != nil {
			return err
		}
	}
	return nil
}

// Passes returns the relaxation pass count, defaulting to
// [layout.DefaultRelaxPasses].
func (o *Options) Passes() int {
	if o.RelaxPasses == nil {
		return layout.DefaultRelaxPasses
	}
	return *o.RelaxPasses
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{RelaxPasses: o.Passes(), AliveOnly: o.AliveOnly}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   fmt.Sprintf("%s:detailed=%t", format, o.Detailed),
		Selected: o.SelectedID,
		Headers:  !o.NoHeaders,
		Images:   !o.NoImages,
	}
}
