package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/diaconv/pkg/graph"
	"github.com/matzehuels/diaconv/pkg/pipeline"
)

// graphCommand renders a connectivity graph saved by convert --graph json.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		formats  string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph <graph.json>",
		Short: "Render a saved connectivity graph",
		Long: `Render a connectivity graph written by "convert --graph json" as DOT, SVG
or PNG. Outputs are written next to the input unless -o is given.`,
		Example: `  diaconv convert --graph json network.dia
  diaconv graph network.json --format svg,png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := parseFormats(formats)
			if err := pipeline.ValidateFormats(fs); err != nil {
				return err
			}
			for _, f := range fs {
				if f == pipeline.FormatODG || f == pipeline.FormatGraph {
					return fmt.Errorf("--format: %s cannot be rendered from a graph", f)
				}
			}
			if output != "" && len(fs) > 1 {
				return fmt.Errorf("-o needs exactly one format, got %d", len(fs))
			}

			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return err
			}
			sw := startStopwatch(c.Logger)
			out, err := pipeline.Export(g, pipeline.Options{Formats: fs, Detailed: detailed})
			if err != nil {
				return err
			}
			for _, f := range fs {
				path := output
				if path == "" {
					path = withExt(args[0], "."+f)
				}
				if err := os.WriteFile(path, out[f], 0o644); err != nil {
					return err
				}
				printFile(path)
			}
			sw.debug("rendered %d nodes, %d edges", len(g.Nodes), len(g.Edges))
			return nil
		},
	}

	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatSVG, "output formats: dot, svg, png (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (one format only)")
	cmd.RegisterFlagCompletionFunc("format", completeGraphFormats)
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add shape kinds to labels")

	return cmd
}
