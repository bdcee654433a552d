package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/factionmap/internal/server"
	"github.com/matzehuels/factionmap/pkg/errors"
	"github.com/matzehuels/factionmap/pkg/pipeline"
	"github.com/matzehuels/factionmap/pkg/source/local"
)

// serveOpts holds the serve flags that override the config.
type serveOpts struct {
	addr  string
	year  int
	watch bool
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var so serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolver, layouts and renders over HTTP",
		Long: `Serve the resolver, layouts and renders over HTTP.

Routes live under /api/v1: families, families/{id}/state, layout,
social.svg, relations.dot, relations.svg, connections, pins, districts,
events and timeline/jump. GET /health reports the loaded dataset.

With --watch and local data files, the dataset is reloaded whenever a
matching file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = so.addr
			}
			if cmd.Flags().Changed("watch") {
				c.Config.Server.Watch = so.watch
			}
			return c.runServe(cmd.Context(), so.year)
		},
	}

	cmd.Flags().StringVar(&so.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().IntVarP(&so.year, "year", "y", pipeline.DefaultYear, "year used when a request has none")
	cmd.Flags().BoolVar(&so.watch, "watch", false, "reload when local data files change")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, year int) error {
	if err := errors.ValidateYear(year); err != nil {
		return err
	}

	b, err := c.newBackend(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	sc := c.Config.Server
	proxies, err := sc.Proxies()
	if err != nil {
		return err
	}
	srv := server.New(b.runner, server.Options{
		Addr:           sc.Addr,
		RateLimitRPS:   sc.RateLimitRPS,
		RateLimitBurst: sc.RateLimitBurst,
		TrustedProxies: proxies,
		RelaxPasses:    c.Config.Layout.RelaxPasses,
		DefaultYear:    year,
		Logger:         c.Logger,
	})
	if err := srv.Reload(ctx); err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	if sc.Watch {
		lp, ok := b.primary.(*local.Provider)
		if !ok {
			printWarning("--watch needs local data files; not watching")
		} else {
			w, err := local.NewWatcher(lp.Patterns()...)
			if err != nil {
				return fmt.Errorf("watch data files: %w", err)
			}
			defer w.Close()
			go srv.Watch(ctx, w)
			c.Logger.Info("watching data files", "patterns", lp.Patterns())
		}
	}

	return srv.ListenAndServe(ctx)
}
