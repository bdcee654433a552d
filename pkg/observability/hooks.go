// Package observability lets the application watch the year pipeline, the
// source fallback chain, the caches and the spreadsheet fetcher without the
// libraries knowing who is listening.
//
// Every category has a hook interface with a no-op default. The command or
// server that owns the process registers real hooks once at startup:
//
//	observability.SetPipelineHooks(observability.LogPipelineHooks{Logger: logger})
//	observability.SetSourceHooks(observability.LogSourceHooks{Logger: logger})
//
// and library code reports through the accessors:
//
//	observability.Source().OnFallback(ctx, "families", "sheet", "snapshot", err)
//
// The Log* hook types in this package forward every event to a charm
// logger; they back the CLI's --verbose output.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the year pipeline.
type PipelineHooks interface {
	// source names the provider ("built-in", "sheet", a file pattern).
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, familyCount int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, year, nodeCount int)
	OnLayoutComplete(ctx context.Context, year int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// SourceHooks receives events from the fallback chain. what is "families"
// or "events".
type SourceHooks interface {
	// OnFallback reports that from could not serve what and to is used
	// instead. err is the reason from failed.
	OnFallback(ctx context.Context, what, from, to string, err error)

	// OnSnapshotSaved reports a write of a fresh primary read to the
	// snapshot store.
	OnSnapshotSaved(ctx context.Context, what string, count int, err error)
}

// CacheHooks receives events from cache lookups. kind is the cache
// namespace ("layout", "artifact", "http").
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// HTTPHooks receives events from outgoing spreadsheet requests.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError records a transport failure (timeout, refused connection).
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int, int)                           {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, time.Duration, error)       {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                           {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)  {}

// NoopSourceHooks ignores every source event.
type NoopSourceHooks struct{}

func (NoopSourceHooks) OnFallback(context.Context, string, string, string, error) {}
func (NoopSourceHooks) OnSnapshotSaved(context.Context, string, int, error)       {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every HTTP event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// slot holds one registered hook. atomic.Pointer needs a concrete type, so
// the interface value is boxed.
type slot[T any] struct{ p atomic.Pointer[T] }

func (s *slot[T]) load(def T) T {
	if v := s.p.Load(); v != nil {
		return *v
	}
	return def
}

func (s *slot[T]) store(v T) { s.p.Store(&v) }

func (s *slot[T]) reset() { s.p.Store(nil) }

var (
	pipelineSlot slot[PipelineHooks]
	sourceSlot   slot[SourceHooks]
	cacheSlot    slot[CacheHooks]
	httpSlot     slot[HTTPHooks]
)

// SetPipelineHooks registers h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.store(h)
	}
}

// SetSourceHooks registers h. A nil h is ignored.
func SetSourceHooks(h SourceHooks) {
	if h != nil {
		sourceSlot.store(h)
	}
}

// SetCacheHooks registers h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.store(h)
	}
}

// SetHTTPHooks registers h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.store(h)
	}
}

func Pipeline() PipelineHooks { return pipelineSlot.load(NoopPipelineHooks{}) }
func Source() SourceHooks     { return sourceSlot.load(NoopSourceHooks{}) }
func Cache() CacheHooks       { return cacheSlot.load(NoopCacheHooks{}) }
func HTTP() HTTPHooks         { return httpSlot.load(NoopHTTPHooks{}) }

// Reset restores the no-op hooks. Tests that register hooks call it in
// t.Cleanup.
func Reset() {
	pipelineSlot.reset()
	sourceSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
