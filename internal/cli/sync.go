package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/factionmap/pkg/core/family"
	fmerrors "github.com/matzehuels/factionmap/pkg/errors"
	"github.com/matzehuels/factionmap/pkg/source"
)

// syncCommand creates the sync command, which copies the primary source
// into the snapshot store.
func (c *CLI) syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Copy the spreadsheet or local files into the snapshot store",
		Long: `Copy the spreadsheet or local files into the snapshot store.

The snapshot is what every command falls back to when the primary source is
unreachable. Use --sheet (or data.sheet_families_url) to sync the published
spreadsheet, or --families/--events to sync local files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSync(cmd.Context())
		},
	}
}

func (c *CLI) runSync(ctx context.Context) error {
	b, err := c.newBackend(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	if b.primary == nil {
		return fmerrors.New(fmerrors.ErrCodeInvalidInput, "nothing to sync: set --sheet or --families")
	}
	if b.store == nil {
		return fmerrors.New(fmerrors.ErrCodeInvalidInput, "nothing to sync to: store driver is %s", c.Config.Store.Driver)
	}

	prog := newProgress(c.Logger)
	spin := startSpinner(ctx, "Fetching "+b.primary.Name()+"...")
	families, events, err := fetchAll(ctx, b.primary)
	if err != nil {
		spin.Fail("Fetch failed")
		return err
	}
	spin.Stop()

	if err := b.store.SaveFamilies(ctx, families); err != nil {
		return fmt.Errorf("save families: %w", err)
	}
	if len(events) > 0 {
		if err := b.store.SaveEvents(ctx, events); err != nil {
			return fmt.Errorf("save events: %w", err)
		}
	}

	prog.done(fmt.Sprintf("Synced %d families", len(families)))
	printSuccess("Snapshot updated")
	printKeyValue("Source", b.primary.Name())
	printKeyValue("Store", c.Config.Store.Driver)
	printKeyValue("Families", StyleNumber.Render(fmt.Sprint(len(families))))
	if len(events) > 0 {
		printKeyValue("Events", StyleNumber.Render(fmt.Sprint(len(events))))
	} else {
		printDetail("No events in source; stored events left unchanged")
	}
	return nil
}

// fetchAll reads families and events from p. Families are required; a
// source without events yields none.
func fetchAll(ctx context.Context, p source.Provider) ([]family.Family, []family.HistoricalEvent, error) {
	families, err := p.Families(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch families: %w", err)
	}
	if len(families) == 0 {
		return nil, nil, fmt.Errorf("fetch families: %w", source.ErrNoData)
	}
	for _, f := range families {
		if err := fmerrors.ValidateFamily(f); err != nil {
			return nil, nil, err
		}
	}

	events, err := p.Events(ctx)
	if err != nil && !errors.Is(err, source.ErrNoData) {
		return nil, nil, fmt.Errorf("fetch events: %w", err)
	}
	return families, events, nil
}
