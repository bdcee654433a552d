package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/factionmap/pkg/pipeline"
)

// layoutCommand creates the layout command for computing the social map.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		passes int
	)
	opts := pipeline.Options{}
	opts.SetLayoutDefaults()

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute the social-map layout for a year",
		Long: `Compute the social-map layout for a year.

The layout command resolves every family alive in the given year, groups them
into faction zones on the noble, grassi and popolo lanes, and packs the zones
without overlap. The output is a layout.json file (same format as
'render -f json').

Results are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("passes") {
				opts.RelaxPasses = &passes
			} else {
				opts.RelaxPasses = &c.Config.Layout.RelaxPasses
			}
			return c.runLayout(cmd.Context(), opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: layout-<year>.json)")
	cmd.Flags().IntVarP(&opts.Year, "year", "y", opts.Year, "year to lay out")
	cmd.Flags().IntVar(&passes, "passes", 0, "zone relaxation passes (default from config)")
	cmd.Flags().BoolVar(&opts.AliveOnly, "alive-only", false, "leave out families outside their lifetime")

	return cmd
}

// runLayout loads the dataset, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string) error {
	opts.Logger = c.Logger
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	b, err := c.newBackend(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer b.Close()

	spin := startSpinner(ctx, fmt.Sprintf("Computing %d layout...", opts.Year))

	ds, err := b.runner.Load(ctx)
	if err != nil {
		spin.Fail("Load failed")
		return fmt.Errorf("load dataset: %w", err)
	}
	l, cacheHit, err := b.runner.LayoutWithCacheInfo(ctx, ds, opts)
	if err != nil {
		spin.Fail("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spin.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = fmt.Sprintf("layout-%d.json", opts.Year)
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(l.Nodes), len(ds.Families), cacheHit)
	printGroups(l.GroupCounts())
	printNewline()
	printNextStep("Render", fmt.Sprintf("%s render --year %d", appName, opts.Year))

	return nil
}
