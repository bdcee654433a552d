// Package server exposes the resolver, the social map and the chronicle
// over HTTP.
//
// All routes are read-only GETs under /api/v1. The dataset is loaded once at
// start and swapped atomically on [Server.Reload], so a failed reload keeps
// serving the previous data.
package server

import (
	"context"
	"errors"
	"net/http"
	"net/netip"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/factionmap/pkg/pipeline"
	"github.com/matzehuels/factionmap/pkg/source/local"
)

// Timeouts for the HTTP server.
const (
	ReadHeaderTimeout = 5 * time.Second
	WriteTimeout      = 60 * time.Second
	IdleTimeout       = 120 * time.Second
	RequestTimeout    = 30 * time.Second
	ShutdownTimeout   = 10 * time.Second
)

// Options configures a [Server].
type Options struct {
	Addr           string
	RateLimitRPS   float64
	RateLimitBurst int
	// TrustedProxies are the peers whose forwarding headers name the client.
	TrustedProxies []netip.Prefix
	RelaxPasses    int
	// DefaultYear is used when a request has no year parameter.
	DefaultYear int
	Logger      *log.Logger
}

// Server serves the API from a pipeline runner.
type Server struct {
	runner  *pipeline.Runner
	opts    Options
	logger  *log.Logger
	limiter *Limiter
	router  chi.Router

	mu sync.RWMutex
	ds pipeline.Dataset
}

// New builds a server. Call [Server.Reload] before serving.
func New(runner *pipeline.Runner, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = runner.Logger
	}
	if opts.DefaultYear == 0 {
		opts.DefaultYear = pipeline.DefaultYear
	}
	s := &Server{
		runner:  runner,
		opts:    opts,
		logger:  opts.Logger,
		limiter: NewLimiter(opts.RateLimitRPS, opts.RateLimitBurst, opts.TrustedProxies...),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(s.logger))
	r.Use(Recover)
	r.Use(s.limiter.Middleware)
	r.Use(chimw.Timeout(RequestTimeout))
	r.Use(chimw.CleanPath)

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/families", s.handleFamilies)
		api.Get("/families/{id}", s.handleFamily)
		api.Get("/families/{id}/state", s.handleState)
		api.Get("/layout", s.handleLayout)
		api.Get("/social.svg", s.handleSocialSVG)
		api.Get("/relations.dot", s.handleRelationsDOT)
		api.Get("/relations.svg", s.handleRelationsSVG)
		api.Get("/connections", s.handleConnections)
		api.Get("/pins", s.handlePins)
		api.Get("/districts", s.handleDistricts)
		api.Get("/events", s.handleEvents)
		api.Get("/timeline/jump", s.handleJump)
	})
	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Dataset returns the dataset being served.
func (s *Server) Dataset() pipeline.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds
}

// Reload loads the dataset again and swaps it in. On failure the current
// dataset is kept and the error returned.
func (s *Server) Reload(ctx context.Context) error {
	ds, err := s.runner.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	prev := s.ds.Hash
	s.ds = ds
	s.mu.Unlock()
	s.logger.Info("dataset loaded",
		"source", ds.Source,
		"families", len(ds.Families),
		"events", len(ds.Events),
		"changed", prev != ds.Hash)
	return nil
}

// Watch reloads the dataset whenever w reports a change, until ctx is done.
func (s *Server) Watch(ctx context.Context, w *local.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-w.Changes:
			if !ok {
				return
			}
			s.logger.Debug("data file changed", "path", c.Path, "removed", c.Removed)
			if err := s.Reload(ctx); err != nil {
				s.logger.Warn("reload failed, keeping previous dataset", "error", err)
			}
		}
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: ReadHeaderTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	go s.limiter.Run(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.opts.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
