package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/diaconv/pkg/cache"
	"github.com/matzehuels/diaconv/pkg/dia"
	"github.com/matzehuels/diaconv/pkg/graph"
	"github.com/matzehuels/diaconv/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and service use it to avoid duplicating caching logic.
//
// The Runner holds no results, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Document is a converted input as it is kept in the cache.
type Document struct {
	Kind        dia.Format  `json:"kind"`
	ODG         []byte      `json:"odg"`
	Graph       graph.Graph `json:"graph"`
	Shapes      int         `json:"shapes"`
	Routed      int         `json:"routed"`
	Degraded    int         `json:"degraded"`
	PageWidth   float64     `json:"page_width,omitempty"`
	PageHeight  float64     `json:"page_height,omitempty"`
	Diagnostics []string    `json:"diagnostics,omitempty"`

	decodeTime  time.Duration
	convertTime time.Duration
}

// Execute runs the complete decode → convert → export pipeline with
// caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{
		ID:        uuid.NewString(),
		InputHash: cache.Hash(opts.Data),
		Artifacts: make(map[string][]byte),
	}

	// Stages 1 and 2: Decode and convert
	doc, hit, err := r.ConvertWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", opts.Name, err)
	}
	result.Kind = doc.Kind
	result.Graph = doc.Graph
	result.Diagnostics = doc.Diagnostics
	result.Stats = Stats{
		Shapes:      doc.Shapes,
		Routed:      doc.Routed,
		Degraded:    doc.Degraded,
		PageWidth:   doc.PageWidth,
		PageHeight:  doc.PageHeight,
		DecodeTime:  doc.decodeTime,
		ConvertTime: doc.convertTime,
	}
	result.CacheInfo = CacheInfo{ConvertHit: hit, GraphHit: hit}
	if opts.Wants(FormatODG) {
		result.Artifacts[FormatODG] = doc.ODG
	}

	opts.Logger.Info("converted document",
		"id", result.ID,
		"name", opts.Name,
		"kind", doc.Kind,
		"shapes", doc.Shapes,
		"routed", doc.Routed,
		"degraded", doc.Degraded,
		"cached", hit,
		"duration", doc.decodeTime+doc.convertTime)
	for _, d := range doc.Diagnostics {
		opts.Logger.Warn(d, "name", opts.Name)
	}

	// Stage 3: Export
	if opts.NeedsGraph() {
		exportStart := time.Now()
		artifacts, err := Export(doc.Graph, opts)
		result.Stats.ExportTime = time.Since(exportStart)
		observability.Pipeline().OnExported(ctx, opts.Formats, result.Stats.ExportTime, err)
		if err != nil {
			return nil, err
		}
		for f, data := range artifacts {
			result.Artifacts[f] = data
		}
		opts.Logger.Info("exported graph",
			"nodes", len(doc.Graph.Nodes),
			"edges", len(doc.Graph.Edges),
			"formats", opts.Formats,
			"duration", result.Stats.ExportTime)
	}

	return result, nil
}

// ConvertWithCacheInfo decodes and converts opts.Data with caching and
// reports whether the document came from the cache.
func (r *Runner) ConvertWithCacheInfo(ctx context.Context, opts Options) (*Document, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	inputHash := cache.Hash(opts.Data)
	cacheKey := r.Keyer.DocumentKey(inputHash, opts.DocumentKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var doc Document
			if err := json.Unmarshal(data, &doc); err == nil {
				observability.Cache().OnLookup(ctx, "document", true)
				return &doc, true, nil
			}
			// A corrupt entry is recomputed and overwritten.
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "err", err)
		}
		observability.Cache().OnLookup(ctx, "document", false)
	}

	doc, err := r.convert(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(doc); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.DocumentTTL); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnStore(ctx, "document", len(data))
		}
	}
	r.storeGraph(ctx, r.Keyer.GraphKey(inputHash, opts.DocumentKeyOpts()), doc.Graph)

	return doc, false, nil
}

// Convert is a convenience wrapper that calls ConvertWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Convert(ctx context.Context, opts Options) (*Document, error) {
	doc, _, err := r.ConvertWithCacheInfo(ctx, opts)
	return doc, err
}

// GraphWithCacheInfo returns the connectivity graph of opts.Data. A
// graph stored by an earlier conversion with the same templates, router
// and fonts is used when present, whether or not that run indented its
// XML.
func (r *Runner) GraphWithCacheInfo(ctx context.Context, opts Options) (graph.Graph, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Graph{}, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.GraphKey(cache.Hash(opts.Data), opts.DocumentKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if g, err := graph.UnmarshalGraph(data); err == nil {
				observability.Cache().OnLookup(ctx, "graph", true)
				return g, true, nil
			}
		}
		observability.Cache().OnLookup(ctx, "graph", false)
	}

	doc, hit, err := r.ConvertWithCacheInfo(ctx, opts)
	if err != nil {
		return graph.Graph{}, false, err
	}
	return doc.Graph, hit, nil
}

// Graph is a convenience wrapper that calls GraphWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Graph(ctx context.Context, opts Options) (graph.Graph, error) {
	g, _, err := r.GraphWithCacheInfo(ctx, opts)
	return g, err
}

// convert runs the decode and convert stages without the cache.
func (r *Runner) convert(ctx context.Context, opts Options) (*Document, error) {
	hooks := observability.Pipeline()

	decodeStart := time.Now()
	root, kind, err := Decode(opts.Name, opts.Data)
	decodeTime := time.Since(decodeStart)
	hooks.OnDecoded(ctx, opts.Name, len(opts.Data), kindName(kind, err), decodeTime, err)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("decoded input", "name", opts.Name, "kind", kind, "duration", decodeTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	convertStart := time.Now()
	odg, res, err := Convert(root, kind, opts)
	convertTime := time.Since(convertStart)
	var summary observability.ConvertSummary
	if res != nil {
		summary = observability.ConvertSummary{Shapes: res.Shapes, Routed: res.Routed, Degraded: res.Degraded}
		if res.Diagnostics != nil {
			summary.Diagnostics = len(res.Diagnostics.Items())
		}
	}
	hooks.OnConverted(ctx, opts.Name, summary, convertTime, err)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Kind:        kind,
		ODG:         odg,
		Graph:       res.Graph(),
		Shapes:      res.Shapes,
		Routed:      res.Routed,
		Degraded:    res.Degraded,
		PageWidth:   res.PageWidth,
		PageHeight:  res.PageHeight,
		decodeTime:  decodeTime,
		convertTime: convertTime,
	}
	if res.Diagnostics != nil {
		for _, d := range res.Diagnostics.Items() {
			doc.Diagnostics = append(doc.Diagnostics, d.Error())
		}
	}
	return doc, nil
}

func (r *Runner) storeGraph(ctx context.Context, key string, g graph.Graph) {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.GraphTTL); err == nil {
		observability.Cache().OnStore(ctx, "graph", len(data))
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
// Options default to a discarding logger, so an explicit one always wins.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil || opts.Logger == discard {
		opts.Logger = r.Logger
	}
}

func kindName(f dia.Format, err error) string {
	if err != nil {
		return ""
	}
	return f.String()
}
