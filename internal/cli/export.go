package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	fmio "github.com/matzehuels/factionmap/pkg/io"
)

// exportCommand creates the export command, which writes the loaded dataset
// to a file the --families and --events flags can read back.
func (c *CLI) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.yaml|file.json>",
		Short: "Write the loaded families and events to a file",
		Long: `Write the loaded families and events to a file.

The dataset is loaded the same way as for every other command (spreadsheet
or local files, then the snapshot store, then the built-in data) and written
as a single YAML or JSON document. The file can be edited and passed back
with --families and --events.`,
		Example: `  factionmap export florence.yaml
  factionmap --sheet export sheet-snapshot.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runExport(ctx context.Context, path string) error {
	if _, err := fmio.FormatFor(path); err != nil {
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
	if err := fmio.ExportFile(path, ds.Families, ds.Events); err != nil {
		return err
	}

	printSuccess("Exported %d families and %d events", len(ds.Families), len(ds.Events))
	printFile(path)
	printNewline()
	printNextStep("Use it", fmt.Sprintf("%s --families %s --events %s render", appName, path, path))
	return nil
}
