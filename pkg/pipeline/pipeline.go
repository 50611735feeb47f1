// Package pipeline runs the decode → convert → export pipeline shared by
// the CLI and the HTTP service.
//
// # Architecture
//
// The pipeline has three stages:
//
//  1. Decode: gunzip the input if needed and parse the XML tree
//  2. Convert: turn a Dia diagram or a shape template into a flat ODG
//     document with [diagram.Assembler]
//  3. Export: write the connectivity graph as JSON, DOT, SVG or PNG
//
// A [Runner] adds caching around the convert stage and reports every
// stage through the [observability] hooks.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Name:    "network.dia",
//	    Data:    data,
//	    Formats: []string{pipeline.FormatODG, pipeline.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fodg := res.Artifacts[pipeline.FormatODG]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/diaconv/pkg/cache"
	"github.com/matzehuels/diaconv/pkg/dia"
	"github.com/matzehuels/diaconv/pkg/errors"
	"github.com/matzehuels/diaconv/pkg/fonts"
	"github.com/matzehuels/diaconv/pkg/graph"
	"github.com/matzehuels/diaconv/pkg/route"
	"github.com/matzehuels/diaconv/pkg/stencil"
)

// Output formats.
const (
	FormatODG   = "fodg" // flat ODF drawing
	FormatGraph = "json" // connectivity graph
	FormatDOT   = "dot"
	FormatSVG   = "svg"
	FormatPNG   = "png"
)

// DefaultName is used when the input has no name.
const DefaultName = "diagram"

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatODG:   true,
	FormatGraph: true,
	FormatDOT:   true,
	FormatSVG:   true,
	FormatPNG:   true,
}

// discard is the default logger. A Runner replaces it with its own.
var discard = log.New(io.Discard)

// Options configures one pipeline run. The JSON form is accepted by the
// HTTP service; the document itself travels separately.
type Options struct {
	// Name labels the input in logs and becomes the document title.
	Name string `json:"name,omitempty"`

	// Data is the Dia file or shape template, gzip-compressed or not.
	Data []byte `json:"-"`

	// Formats lists the outputs to produce. Empty means fodg only.
	Formats []string `json:"formats,omitempty"`

	// Indent pretty prints the ODG XML.
	Indent bool `json:"indent,omitempty"`

	// Refresh skips the cache lookup. The result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Detailed adds the shape kind to graph node labels.
	Detailed bool `json:"detailed,omitempty"`

	// BaseDir resolves relative image paths.
	BaseDir string `json:"-"`

	// Router tunes connector routing. The zero value means the defaults.
	Router route.Config `json:"router,omitempty"`

	// Runtime options (not serialized)
	Templates *stencil.Library `json:"-"`
	Fonts     fonts.Measurer   `json:"-"`
	Logger    *log.Logger      `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies the run in logs and service responses.
	ID string

	// Kind is the kind of input that was converted.
	Kind dia.Format

	// InputHash is the content hash of the input.
	InputHash string

	// Graph is the connectivity graph. It is empty for shape templates.
	Graph graph.Graph

	// Artifacts contains the outputs keyed by format.
	Artifacts map[string][]byte

	// Diagnostics lists the non-fatal problems found while converting.
	Diagnostics []string

	// Stats contains counts and timings.
	Stats Stats

	// CacheInfo records which stages were served from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Shapes      int
	Routed      int
	Degraded    int
	PageWidth   float64 // mm
	PageHeight  float64 // mm
	DecodeTime  time.Duration
	ConvertTime time.Duration
	ExportTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ConvertHit bool // document came from cache
	GraphHit   bool // graph came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, formatList())
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatList() string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Data) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "input is empty")
	}
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.Router.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "router")
	}
	o.validated = true
	return nil
}

// SetDefaults fills in the optional fields.
func (o *Options) SetDefaults() {
	if o.Name == "" {
		o.Name = DefaultName
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatODG}
	}
	if o.Router == (route.Config{}) {
		o.Router = route.DefaultConfig()
	}
	if o.Fonts == nil {
		o.Fonts = fonts.Heuristic{}
	}
	if o.Logger == nil {
		o.Logger = discard
	}
}

// Wants reports whether format was requested.
func (o *Options) Wants(format string) bool {
	return slices.Contains(o.Formats, format)
}

// NeedsGraph reports whether any requested format is a graph export.
func (o *Options) NeedsGraph() bool {
	return slices.ContainsFunc(o.Formats, func(f string) bool { return f != FormatODG })
}

// DocumentKeyOpts returns the cache key options for the converted document.
func (o *Options) DocumentKeyOpts() cache.DocumentKeyOpts {
	rc := o.Router
	k := cache.DocumentKeyOpts{
		Router: fmt.Sprintf("%g/%g/%g/%g", rc.MinClearance, rc.MaxSmallBadness, rc.ExtraSegmentBadness, rc.MaxBadness),
		Fonts:  fmt.Sprintf("%T", o.Fonts),
		Indent: o.Indent,
	}
	if o.Templates != nil {
		k.Templates = cache.Fingerprint(o.Templates.Names())
	}
	return k
}
