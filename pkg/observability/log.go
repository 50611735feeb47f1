package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event as a debug line. It implements all hook
// interfaces and backs the CLI's --verbose output.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l}
}

func (h *LogHooks) OnDecoded(_ context.Context, name string, size int, kind string, d time.Duration, err error) {
	h.done("decoded", err, "input", name, "bytes", size, "kind", kind, "elapsed", d)
}

func (h *LogHooks) OnConverted(_ context.Context, name string, s ConvertSummary, d time.Duration, err error) {
	h.done("converted", err, "input", name, "shapes", s.Shapes, "routed", s.Routed,
		"degraded", s.Degraded, "diagnostics", s.Diagnostics, "elapsed", d)
}

func (h *LogHooks) OnExported(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("exported", err, "formats", formats, "elapsed", d)
}

func (h *LogHooks) OnLookup(_ context.Context, entry string, hit bool) {
	if hit {
		h.logger.Debug("cache hit", "entry", entry)
	} else {
		h.logger.Debug("cache miss", "entry", entry)
	}
}

func (h *LogHooks) OnStore(_ context.Context, entry string, size int) {
	h.logger.Debug("cache store", "entry", entry, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "elapsed", d)
}

func (h *LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.logger.Error("request failed", "method", method, "path", path, "err", err)
}

func (h *LogHooks) done(msg string, err error, kv ...any) {
	if err != nil {
		h.logger.Warn(msg, append(kv, "err", err)...)
		return
	}
	h.logger.Debug(msg, kv...)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
