package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/errors"
	"github.com/matzehuels/factionmap/pkg/pipeline"
)

// stateReport is the JSON form of the state command.
type stateReport struct {
	family.State
	Name     string `json:"name"`
	Year     int    `json:"year"`
	District string `json:"district"`
	Alive    bool   `json:"alive"`
}

// stateCommand creates the state command for resolving one family.
func (c *CLI) stateCommand() *cobra.Command {
	var (
		year   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "state <family-id>",
		Short: "Resolve a family's faction, status and exile for a year",
		Long: `Resolve a family's faction, status and exile for a year.

The state command prints the faction and status in force that year, whether
the family is exiled or counted among the magnates, its visual group on the
social map and the district it belongs to.`,
		Example: `  factionmap state 1003 --year 1301
  factionmap state 1039_2 --year 1302 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runState(cmd.Context(), cmd.OutOrStdout(), args[0], year, asJSON)
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", pipeline.DefaultYear, "year to resolve")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func (c *CLI) runState(ctx context.Context, w io.Writer, id string, year int, asJSON bool) error {
	if err := errors.ValidateFamilyID(id); err != nil {
		return err
	}
	if err := errors.ValidateYear(year); err != nil {
		return err
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
	f, ok := family.NewIndex(ds.Families).Get(id)
	if !ok {
		return errors.New(errors.ErrCodeFamilyNotFound, "family %s not found in %s", id, ds.Source)
	}

	report := stateReport{
		State:    family.Resolve(f, year),
		Name:     f.Name,
		Year:     year,
		District: family.District(f, year),
		Alive:    family.Alive(f, year),
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printState(report)
	return nil
}

func printState(r stateReport) {
	fmt.Println(StyleTitle.Render(fmt.Sprintf("%s (%s) in %d", r.Name, r.FamilyID, r.Year)))
	printKeyValue("Faction", r.Faction)
	printKeyValue("Status", r.Status)
	printKeyValue("Group", StyleHighlight.Render(string(r.Group)))
	printKeyValue("Exiled", yesNo(r.Exiled))
	printKeyValue("Magnate", yesNo(r.Magnate))
	printKeyValue("District", r.District)
	printKeyValue("Anchor", strconv.FormatFloat(r.Position.X, 'f', -1, 64)+", "+strconv.FormatFloat(r.Position.Y, 'f', -1, 64))
	if !r.Alive {
		printWarning("No record of the family in %d", r.Year)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
