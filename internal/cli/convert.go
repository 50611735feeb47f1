package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/diaconv/pkg/pipeline"
	"github.com/matzehuels/diaconv/pkg/stencil"
)

// odgExt is the extension of converted documents.
const odgExt = ".fodg"

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	output    string   // output file, or directory for several inputs
	shapeDirs []string // extra template directories
	graph     string   // graph exports written next to the document
	jobs      int      // parallel conversions
	noCache   bool
	refresh   bool
	indent    bool
	detailed  bool
}

// convertJob is one input and where its outputs go.
type convertJob struct {
	input  string // path, or "-" for stdin
	output string // .fodg path, or "-" for stdout
	res    *pipeline.Result
	err    error
}

func (c *CLI) convertCommand() *cobra.Command {
	opts := convertOpts{jobs: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "convert [file...]",
		Short: "Convert Dia diagrams or shape templates to flat ODG",
		Long: `Convert Dia diagrams (.dia) or shape templates (.shape) to flat OpenDocument
drawings (.fodg).

Each input is written next to itself with a .fodg extension unless -o names a
file (one input) or a directory (several inputs). Use "-" to read stdin and
write stdout.`,
		Example: `  diaconv convert network.dia
  diaconv convert -o out/ --shapes ~/.dia/shapes *.dia
  diaconv convert --graph svg,json network.dia
  zcat network.dia | diaconv convert - > network.fodg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (one input) or directory")
	cmd.Flags().StringSliceVar(&opts.shapeDirs, "shapes", nil, "directory of .shape templates (repeatable)")
	cmd.Flags().StringVar(&opts.graph, "graph", "", "also export the connectivity graph: json, dot, svg, png (comma-separated)")
	cmd.RegisterFlagCompletionFunc("graph", completeGraphFormats)
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "number of parallel conversions")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the output cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "convert again even if cached")
	cmd.Flags().BoolVar(&opts.indent, "indent", false, "pretty print the XML (overrides config)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "add shape kinds to graph labels")

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, inputs []string, opts convertOpts) error {
	graphFormats := parseFormats(opts.graph)
	for _, f := range graphFormats {
		if f == pipeline.FormatODG {
			return fmt.Errorf("--graph: %s is always written", f)
		}
	}
	if err := pipeline.ValidateFormats(graphFormats); err != nil {
		return err
	}
	jobs, err := planJobs(inputs, opts.output, c.Config.Output.Dir)
	if err != nil {
		return err
	}

	lib, err := c.loadTemplates(ctx, opts.shapeDirs)
	if err != nil {
		return err
	}
	measurer, err := c.Config.Measurer()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	base := pipeline.Options{
		Formats:   append([]string{pipeline.FormatODG}, graphFormats...),
		Indent:    opts.indent || c.Config.Output.Indent,
		Refresh:   opts.refresh,
		Detailed:  opts.detailed,
		Router:    c.Config.Router,
		Templates: lib,
		Fonts:     measurer,
	}

	sw := startStopwatch(c.Logger)
	var bar *batchProgress
	if len(jobs) > 1 {
		bar = startBatchProgress(ctx, os.Stderr, len(jobs))
	}

	var g errgroup.Group
	g.SetLimit(max(opts.jobs, 1))
	for _, job := range jobs {
		g.Go(func() error {
			job.res, job.err = c.convertOne(ctx, runner, job, base)
			if bar != nil {
				bar.finish(job.err)
			}
			return nil
		})
	}
	g.Wait()
	if bar != nil {
		bar.Stop()
	}

	failed := 0
	for _, job := range jobs {
		if job.err != nil {
			failed++
			printError("%s: %s", job.input, ErrorMessage(job.err))
			continue
		}
		if job.output == "-" {
			continue
		}
		printSuccess("%s", job.input)
		printFile(job.output)
		for _, f := range graphFormats {
			printFile(withExt(job.output, "."+f))
		}
		printStats(job.res)
		for _, d := range job.res.Diagnostics {
			printDetail("%s", d)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(jobs))
	}
	if len(jobs) > 1 {
		sw.info("Converted %d files", len(jobs))
	}
	return nil
}

// convertOne reads one input, converts it and writes every artifact.
func (c *CLI) convertOne(ctx context.Context, runner *pipeline.Runner, job *convertJob, base pipeline.Options) (*pipeline.Result, error) {
	opts := base
	var err error
	if job.input == "-" {
		opts.Name = "stdin"
		opts.Data, err = io.ReadAll(os.Stdin)
	} else {
		opts.Name = filepath.Base(job.input)
		opts.BaseDir = filepath.Dir(job.input)
		opts.Data, err = os.ReadFile(job.input)
	}
	if err != nil {
		return nil, err
	}

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return nil, err
	}

	if job.output == "-" {
		_, err := os.Stdout.Write(res.Artifacts[pipeline.FormatODG])
		return res, err
	}
	for format, data := range res.Artifacts {
		path := job.output
		if format != pipeline.FormatODG {
			path = withExt(job.output, "."+format)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// planJobs decides where every input is written. An output ending in a
// separator or naming an existing directory is a directory; it is
// required for several inputs. Without an output, files go to defaultDir
// or next to their input.
func planJobs(inputs []string, output, defaultDir string) ([]*convertJob, error) {
	dir := ""
	switch {
	case output == "":
		dir = defaultDir
	case strings.HasSuffix(output, string(os.PathSeparator)) || strings.HasSuffix(output, "/"):
		dir = output
	default:
		if info, err := os.Stat(output); err == nil && info.IsDir() {
			dir = output
		}
	}
	if output != "" && dir == "" && len(inputs) > 1 {
		return nil, fmt.Errorf("-o must be a directory when converting %d files", len(inputs))
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	jobs := make([]*convertJob, 0, len(inputs))
	for _, in := range inputs {
		job := &convertJob{input: in}
		switch {
		case in == "-":
			job.output = "-"
			if output != "" {
				job.output = output
				if dir != "" {
					job.output = filepath.Join(dir, "stdin"+odgExt)
				}
			}
		case dir != "":
			job.output = filepath.Join(dir, withExt(filepath.Base(in), odgExt))
		case output != "":
			job.output = output
		default:
			job.output = withExt(in, odgExt)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// withExt replaces the extension of path, treating ".dia.gz" as one.
func withExt(path, ext string) string {
	trimmed := strings.TrimSuffix(path, ".gz")
	switch e := filepath.Ext(trimmed); strings.ToLower(e) {
	case ".dia", stencil.Extension, odgExt, ".json":
		trimmed = strings.TrimSuffix(trimmed, e)
	default:
		trimmed = path
	}
	return trimmed + ext
}
