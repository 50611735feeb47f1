package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/diaconv/pkg/dia"
)

// sniffLimit is how much of each file detect reads.
const sniffLimit = 4 << 10

func (c *CLI) detectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file...>",
		Short: "Report whether files are Dia diagrams or shape templates",
		Example: `  diaconv detect network.dia router.shape
  diaconv detect ~/.dia/shapes/*.shape`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unknown := 0
			for _, path := range args {
				format, gzipped, err := detectFile(path)
				if err != nil {
					printError("%s: %v", path, err)
					unknown++
					continue
				}
				if format == dia.Unknown {
					unknown++
					printWarning("%s: not a Dia file", path)
					continue
				}
				note := ""
				if gzipped {
					note = StyleDim.Render(" (gzip)")
				}
				fmt.Printf("%s  %s%s\n", StyleHighlight.Render(fmt.Sprintf("%-7s", format)), path, note)
			}
			if unknown > 0 {
				return fmt.Errorf("%d of %d files not recognised", unknown, len(args))
			}
			return nil
		},
	}
}

// detectFile sniffs the start of path. Detect looks through gzip itself,
// so a short compressed prefix is enough.
func detectFile(path string) (dia.Format, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return dia.Unknown, false, err
	}
	defer f.Close()

	head, err := io.ReadAll(io.LimitReader(f, sniffLimit))
	if err != nil {
		return dia.Unknown, false, err
	}
	return dia.Detect(head), dia.IsGzip(head), nil
}
