package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/factionmap/pkg/pipeline"
)

// renderOpts holds the flags of the render command that are not pipeline
// options.
type renderOpts struct {
	formats    string
	output     string
	passes     int
	fromLayout string
}

// outputExt maps a format to its file suffix.
var outputExt = map[string]string{
	pipeline.FormatSVG:   ".svg",
	pipeline.FormatJSON:  ".json",
	pipeline.FormatDOT:   ".dot",
	pipeline.FormatGraph: ".relations.svg",
}

// renderCommand creates the render command: load, layout and render in one
// step.
func (c *CLI) renderCommand() *cobra.Command {
	var ro renderOpts
	opts := pipeline.Options{}
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the social map and relationship graph for a year",
		Long: `Render the social map and relationship graph for a year.

Formats:
  svg    social map with lanes, faction zones and family boxes
  json   social map layout with per-group counts and overlap ratio
  dot    relationship graph in Graphviz DOT
  graph  relationship graph rendered to SVG

Each format is written to <output><ext>. With --layout, a file written by
the layout command is rendered instead of computing a new layout.`,
		Example: `  factionmap render --year 1300 -f svg,json
  factionmap render --year 1302 -f graph --selected 1003 -o cerchi-donati
  factionmap render --layout layout-1300.json -f svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = pipeline.ParseFormats(ro.formats)
			if cmd.Flags().Changed("passes") {
				opts.RelaxPasses = &ro.passes
			} else {
				opts.RelaxPasses = &c.Config.Layout.RelaxPasses
			}
			opts.Refresh = c.flags.refresh
			return c.runRender(cmd.Context(), opts, ro)
		},
	}

	cmd.Flags().StringVarP(&ro.formats, "format", "f", pipeline.FormatSVG, "output formats: svg, json, dot, graph (comma-separated)")
	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output base path (default: factionmap-<year>)")
	cmd.Flags().StringVar(&ro.fromLayout, "layout", "", "render a layout written by the layout command")
	cmd.Flags().IntVarP(&opts.Year, "year", "y", opts.Year, "year to render")
	cmd.Flags().IntVar(&ro.passes, "passes", 0, "zone relaxation passes (default from config)")
	cmd.Flags().BoolVar(&opts.AliveOnly, "alive-only", false, "leave out families outside their lifetime")
	cmd.Flags().StringVar(&opts.SelectedID, "selected", "", "highlight a family and its relationships")
	cmd.Flags().BoolVar(&opts.NoHeaders, "no-headers", false, "omit lane and zone headers (svg)")
	cmd.Flags().BoolVar(&opts.NoImages, "no-images", false, "omit coat-of-arms images (svg)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label graph nodes with faction and status (dot, graph)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, ro renderOpts) error {
	opts.Logger = c.Logger

	b, err := c.newBackend(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer b.Close()

	var (
		artifacts map[string][]byte
		year      = opts.Year
		nodes     int
		families  int
		cached    bool
	)

	spin := startSpinner(ctx, fmt.Sprintf("Rendering %d...", opts.Year))
	start := time.Now()

	if ro.fromLayout != "" {
		artifacts, year, err = c.renderSaved(ctx, b, opts, ro.fromLayout)
		if err != nil {
			spin.Fail("Render failed")
			return err
		}
	} else {
		result, err := b.runner.Execute(ctx, opts)
		if err != nil {
			spin.Fail("Render failed")
			return err
		}
		artifacts = result.Artifacts
		nodes, families = result.Stats.NodeCount, result.Stats.FamilyCount
		cached = result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
	}
	spin.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := ro.output
	if base == "" {
		base = fmt.Sprintf("%s-%d", appName, year)
	}
	paths, err := writeArtifacts(base, artifacts)
	if err != nil {
		return err
	}

	printSuccess("Rendered %d in %s", year, time.Since(start).Round(time.Millisecond))
	for _, p := range paths {
		printFile(p)
	}
	if nodes > 0 {
		printStats(nodes, families, cached)
	}
	return nil
}

// renderSaved renders the layout stored at path. It returns the layout's
// year so the default output name matches it.
func (c *CLI) renderSaved(ctx context.Context, b *backend, opts pipeline.Options, path string) (map[string][]byte, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read layout %s: %w", path, err)
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, 0, err
	}
	ds, err := b.runner.Load(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("load dataset: %w", err)
	}
	l, err := pipeline.ParseLayout(data)
	if err != nil {
		return nil, 0, fmt.Errorf("layout %s: %w", path, err)
	}
	artifacts, err := pipeline.Render(ctx, l, ds, opts)
	if err != nil {
		return nil, 0, err
	}
	return artifacts, l.Year, nil
}

// writeArtifacts writes each artifact to base plus its extension and
// returns the paths in format order.
func writeArtifacts(base string, artifacts map[string][]byte) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + outputExt[f]
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
