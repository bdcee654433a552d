package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

var (
	_ PipelineHooks = LogPipelineHooks{}
	_ SourceHooks   = LogSourceHooks{}
	_ CacheHooks    = LogCacheHooks{}
	_ HTTPHooks     = LogHTTPHooks{}
)

// LogPipelineHooks writes pipeline events to a logger at debug level.
// Failures are logged at warn level.
type LogPipelineHooks struct {
	Logger *log.Logger
}

func (h LogPipelineHooks) OnLoadStart(_ context.Context, source string) {
	h.Logger.Debug("loading families", "source", source)
}

func (h LogPipelineHooks) OnLoadComplete(_ context.Context, source string, n int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("load failed", "source", source, "err", err)
		return
	}
	h.Logger.Debug("loaded families", "source", source, "families", n, "took", d.Round(time.Millisecond))
}

func (h LogPipelineHooks) OnLayoutStart(_ context.Context, year, n int) {
	h.Logger.Debug("layout", "year", year, "nodes", n)
}

func (h LogPipelineHooks) OnLayoutComplete(_ context.Context, year int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("layout failed", "year", year, "err", err)
		return
	}
	h.Logger.Debug("layout done", "year", year, "took", d.Round(time.Microsecond))
}

func (h LogPipelineHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("rendering", "formats", formats)
}

func (h LogPipelineHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("render failed", "formats", formats, "err", err)
		return
	}
	h.Logger.Debug("rendered", "formats", formats, "took", d.Round(time.Microsecond))
}

// LogSourceHooks writes fallbacks at warn level and snapshot writes at
// debug level.
type LogSourceHooks struct {
	Logger *log.Logger
}

func (h LogSourceHooks) OnFallback(_ context.Context, what, from, to string, err error) {
	h.Logger.Warn("falling back", "what", what, "from", from, "to", to, "err", err)
}

func (h LogSourceHooks) OnSnapshotSaved(_ context.Context, what string, n int, err error) {
	if err != nil {
		h.Logger.Warn("snapshot not saved", "what", what, "err", err)
		return
	}
	h.Logger.Debug("snapshot saved", "what", what, "count", n)
}

// LogCacheHooks writes cache events to a logger at debug level.
type LogCacheHooks struct {
	Logger *log.Logger
}

func (h LogCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "kind", keyType)
}

func (h LogCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "kind", keyType)
}

func (h LogCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "kind", keyType, "bytes", size)
}

// LogHTTPHooks writes outgoing request events to a logger at debug level.
type LogHTTPHooks struct {
	Logger *log.Logger
}

func (h LogHTTPHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h LogHTTPHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h LogHTTPHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}
