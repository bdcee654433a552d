package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/factionmap/pkg/buildinfo"
	"github.com/matzehuels/factionmap/pkg/config"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "factionmap"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before each command runs.
	Config config.Config

	flags globalFlags
}

// globalFlags are the persistent flags that override the config file.
type globalFlags struct {
	configPath string
	families   string
	events     string
	sheet      bool
	store      string
	cache      string
	noCache    bool
	refresh    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Factionmap shows the Florentine factions year by year",
		Long: `Factionmap resolves the faction, status and exile of every Florentine
family for a given year between 1215 and 1450, and packs them onto a
social map of Ghibellines, Guelfs, Whites, Blacks and exiles.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	pf.StringVar(&c.flags.families, "families", "", "families file or glob (YAML or JSON)")
	pf.StringVar(&c.flags.events, "events", "", "events file or glob (YAML or JSON)")
	pf.BoolVar(&c.flags.sheet, "sheet", false, "load families from the published spreadsheet")
	pf.StringVar(&c.flags.store, "store", "", "snapshot store: sqlite, mongo, none")
	pf.StringVar(&c.flags.cache, "cache", "", "layout cache: file, redis, none")
	pf.BoolVar(&c.flags.noCache, "no-cache", false, "disable caching")
	pf.BoolVar(&c.flags.refresh, "refresh", false, "bypass cached spreadsheet responses")

	root.AddCommand(c.stateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.timelineCommand())
	root.AddCommand(c.syncCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and environment, then applies the
// persistent flags that were set explicitly.
func (c *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.flags.configPath)
	if err != nil {
		return err
	}
	c.applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("config loaded",
		"store", cfg.Store.Driver,
		"cache", cfg.Cache.Driver,
		"sheet", cfg.Data.UseSheet(),
		"families", cfg.Data.Families)
	return nil
}

func (c *CLI) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool { return cmd.Flags().Changed(name) }

	if changed("families") {
		cfg.Data.Families = c.flags.families
	}
	if changed("events") {
		cfg.Data.Events = c.flags.events
	}
	if changed("sheet") {
		cfg.Data.Sheet = c.flags.sheet
	}
	if changed("store") {
		cfg.Store.Driver = c.flags.store
	}
	if changed("cache") {
		cfg.Cache.Driver = c.flags.cache
	}
	if c.flags.noCache {
		cfg.Cache.Driver = config.DriverNone
	}
}
