// Package observability lets the binary watch conversions without the
// conversion packages knowing about any metrics or tracing backend.
//
// The pipeline, the cache layer and the HTTP service report events to
// the hooks registered here. Nothing is registered by default, so
// library users pay for a no-op call and nothing else. main (or a test)
// installs hooks once at startup:
//
//	hooks := observability.NewLogHooks(logger)
//	observability.SetPipelineHooks(hooks)
//	observability.SetCacheHooks(hooks)
//
// Each stage reports once, when it finishes, with its duration and
// error:
//
//	observability.Pipeline().OnConverted(ctx, name, summary, elapsed, err)
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// ConvertSummary counts what one conversion produced.
type ConvertSummary struct {
	Shapes      int
	Routed      int
	Degraded    int
	Diagnostics int
}

// PipelineHooks receives one event per finished pipeline stage.
type PipelineHooks interface {
	// OnDecoded follows gzip detection and XML parsing. kind is the
	// detected document kind, empty on failure.
	OnDecoded(ctx context.Context, name string, size int, kind string, d time.Duration, err error)

	// OnConverted follows assembly of the ODG drawing.
	OnConverted(ctx context.Context, name string, s ConvertSummary, d time.Duration, err error)

	// OnExported follows rendering of graph by-products such as DOT or SVG.
	OnExported(ctx context.Context, formats []string, d time.Duration, err error)
}

// CacheHooks receives cache traffic. entry is "document" or "graph".
type CacheHooks interface {
	OnLookup(ctx context.Context, entry string, hit bool)
	OnStore(ctx context.Context, entry string, size int)
}

// HTTPHooks receives events from diaconv serve.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, status int, d time.Duration)

	// OnError reports a request answered with an error body.
	OnError(ctx context.Context, method, path string, err error)
}

// NoopPipelineHooks ignores every event. Embed it to implement only
// some methods.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnDecoded(context.Context, string, int, string, time.Duration, error) {}
func (NoopPipelineHooks) OnConverted(context.Context, string, ConvertSummary, time.Duration, error) {
}
func (NoopPipelineHooks) OnExported(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnLookup(context.Context, string, bool) {}
func (NoopCacheHooks) OnStore(context.Context, string, int)   {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// registry is replaced as a whole, so readers never lock.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var (
	current  atomic.Pointer[registry]
	updateMu sync.Mutex
)

func init() { Reset() }

func update(f func(*registry)) {
	updateMu.Lock()
	defer updateMu.Unlock()
	r := *current.Load()
	f(&r)
	current.Store(&r)
}

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

func Pipeline() PipelineHooks { return current.Load().pipeline }
func Cache() CacheHooks       { return current.Load().cache }
func HTTP() HTTPHooks         { return current.Load().http }

// Reset uninstalls all hooks.
func Reset() {
	updateMu.Lock()
	defer updateMu.Unlock()
	current.Store(&registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	})
}
