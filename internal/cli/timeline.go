package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/factionmap/pkg/core/timeline"
	fmerrors "github.com/matzehuels/factionmap/pkg/errors"
)

// timelineCommand creates the interactive timeline command.
func (c *CLI) timelineCommand() *cobra.Command {
	var (
		year int
		once bool
	)

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Step through the years interactively",
		Long: `Step through the years interactively.

The timeline shows how many families stand in each group of the social map
and the latest chronicle event for the current year.

Keys:
  ←/→         previous/next year
  shift+←/→   previous/next chronicle event ([ and ] also work)
  space       play/pause
  q           quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTimeline(cmd.Context(), cmd.OutOrStdout(), year, once)
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "start year (default: timeline.min_year)")
	cmd.Flags().BoolVar(&once, "print", false, "print the view for the start year and exit")

	return cmd
}

func (c *CLI) runTimeline(ctx context.Context, w io.Writer, year int, once bool) error {
	tc := c.Config.Timeline
	clock := timeline.NewClock(tc.MinYear, tc.MaxYear)
	if year != 0 {
		if err := fmerrors.ValidateYear(year); err != nil {
			return err
		}
		clock.Set(year)
	}

	b, err := c.newBackend(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	ds, err := b.runner.Load(ctx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	m := NewTimelineModel(ds, clock, tc.PlayInterval, c.Config.Layout.RelaxPasses)

	if once {
		_, err := fmt.Fprintln(w, m.View())
		return err
	}

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return ctx.Err()
}
