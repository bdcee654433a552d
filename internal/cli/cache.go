package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/factionmap/pkg/cache"
	"github.com/matzehuels/factionmap/pkg/config"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or empty the layout, render and spreadsheet cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every cached entry of the configured driver",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.clearCache(cmd)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print where the cache lives",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), cacheLocation(c.Config.Cache))
				return nil
			},
		},
	)
	return cmd
}

func (c *CLI) clearCache(cmd *cobra.Command) error {
	cfg := c.Config.Cache
	ch, err := openCache(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer ch.Close()

	cl, ok := ch.(cache.Clearer)
	if !ok {
		printInfo("Caching is off, nothing to clear")
		return nil
	}
	n, err := cl.Clear(cmd.Context())
	if err != nil {
		return fmt.Errorf("clear %s cache: %w", cfg.Driver, err)
	}
	printSuccess("Cleared %d cached entries", n)
	printDetail("%s", cacheLocation(cfg))
	return nil
}

// cacheLocation names the directory or Redis URL behind cfg.
func cacheLocation(cfg config.Cache) string {
	switch cfg.Driver {
	case config.DriverRedis:
		return cfg.RedisURL
	case config.DriverFile:
		return cfg.Dir
	}
	return "(disabled)"
}
