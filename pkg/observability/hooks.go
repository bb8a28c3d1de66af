// Package observability lets a binary attach metrics or tracing to the
// render pipeline, the preview cache and the preview server.
//
// Libraries report events through the accessors [Pipeline], [Cache] and
// [HTTP]. Until main installs its own implementation, every accessor returns
// a no-op, so callers never check for nil:
//
//	observability.SetPipelineHooks(promHooks{})
//
//	hooks := observability.Pipeline()
//	hooks.OnComposeStart(ctx, "boho", 4242)
//	hooks.OnComposeComplete(ctx, "boho", time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks observes artwork generation.
type PipelineHooks interface {
	OnComposeStart(ctx context.Context, mode string, seed int64)
	OnComposeComplete(ctx context.Context, mode string, duration time.Duration, err error)

	// OnTextureStage fires after each texture pass.
	OnTextureStage(ctx context.Context, stage string)

	// OnExport fires once per derivative; err is set when it was skipped.
	OnExport(ctx context.Context, kind, path string, size int, duration time.Duration, err error)

	OnBatchComplete(ctx context.Context, total, failed int, duration time.Duration)
}

// CacheHooks observes preview cache lookups. kind names the cached artifact.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, kind string)
	OnCacheMiss(ctx context.Context, kind string)
	OnCacheSet(ctx context.Context, kind string, size int)
}

// HTTPHooks observes requests handled by the preview server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, status int, duration time.Duration)
}

// NoopPipelineHooks discards pipeline events. Embed it to implement only
// the events you care about.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnComposeStart(context.Context, string, int64)                       {}
func (NoopPipelineHooks) OnComposeComplete(context.Context, string, time.Duration, error)     {}
func (NoopPipelineHooks) OnTextureStage(context.Context, string)                              {}
func (NoopPipelineHooks) OnExport(context.Context, string, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnBatchComplete(context.Context, int, int, time.Duration)            {}

// NoopCacheHooks discards cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks discards server events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var hooks = newRegistry()

func newRegistry() *registry {
	return &registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	}
}

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.pipeline = h
	hooks.mu.Unlock()
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.cache = h
	hooks.mu.Unlock()
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.http = h
	hooks.mu.Unlock()
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.pipeline
}

// Cache returns the installed cache hooks.
func Cache() CacheHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.cache
}

// HTTP returns the installed server hooks.
func HTTP() HTTPHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.http
}

// Reset reinstalls the no-op hooks.
func Reset() {
	fresh := newRegistry()
	hooks.mu.Lock()
	hooks.pipeline, hooks.cache, hooks.http = fresh.pipeline, fresh.cache, fresh.http
	hooks.mu.Unlock()
}
