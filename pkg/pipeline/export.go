package pipeline

import (
	"github.com/matzehuels/diaconv/pkg/errors"
	"github.com/matzehuels/diaconv/pkg/graph"
	"github.com/matzehuels/diaconv/pkg/render/nodelink"
)

// Export renders g in every requested graph format. The document format
// is skipped; it is produced by [Convert].
func Export(g graph.Graph, opts Options) (map[string][]byte, error) {
	out := make(map[string][]byte)
	var dot string
	for _, f := range opts.Formats {
		var data []byte
		var err error
		switch f {
		case FormatODG:
			continue
		case FormatGraph:
			data, err = graph.MarshalGraph(g)
		case FormatDOT, FormatSVG, FormatPNG:
			if dot == "" {
				dot = nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})
			}
			switch f {
			case FormatDOT:
				data = []byte(dot)
			case FormatSVG:
				data, err = nodelink.RenderSVG(dot)
			default:
				data, err = nodelink.RenderPNG(dot)
			}
		default:
			return nil, ValidateFormat(f)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "export %s", f)
		}
		out[f] = data
	}
	return out, nil
}
