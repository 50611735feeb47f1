package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/diaconv/pkg/diagram"
	"github.com/matzehuels/diaconv/pkg/errors"
	"github.com/matzehuels/diaconv/pkg/markup"
	"github.com/matzehuels/diaconv/pkg/stencil"
)

// shapesCommand groups the template library commands.
func (c *CLI) shapesCommand() *cobra.Command {
	var dirs []string

	cmd := &cobra.Command{
		Use:   "shapes",
		Short: "Inspect the shape template library",
	}
	cmd.PersistentFlags().StringSliceVar(&dirs, "shapes", nil, "directory of .shape templates (repeatable)")

	cmd.AddCommand(c.shapesListCommand(&dirs))
	cmd.AddCommand(c.shapesPreviewCommand(&dirs))
	cmd.AddCommand(c.shapesBrowseCommand(&dirs))

	return cmd
}

func (c *CLI) shapesListCommand(dirs *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the loaded shape templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := c.loadTemplates(cmd.Context(), *dirs)
			if err != nil {
				return err
			}
			if lib.Len() == 0 {
				printInfo("No shape templates loaded")
				printDetail("Add directories with --shapes or templates.dirs in the config file")
				return nil
			}
			fmt.Println(shapeTable(lib).Render())
			printDetail("%d templates", lib.Len())
			return nil
		},
	}
}

func (c *CLI) shapesPreviewCommand(dirs *[]string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "preview <name>",
		Short: "Write a document showing one shape template",
		Example: `  diaconv shapes preview --shapes ~/.dia/shapes "Cisco - Router"
  diaconv shapes preview -o router.fodg "Cisco - Router"`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeShapeNames(dirs),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := c.loadTemplates(cmd.Context(), *dirs)
			if err != nil {
				return err
			}
			t, ok := lib.Lookup(args[0])
			if !ok {
				return errors.New(errors.ErrCodeTemplateNotFound, "no shape template named %q", args[0])
			}
			if output == "" {
				output = withExt(sanitizeName(t.Name()), odgExt)
			}
			return c.writePreview(cmd.Context(), t, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <name>.fodg)")
	return cmd
}

func (c *CLI) shapesBrowseCommand(dirs *[]string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse shape templates interactively",
		Long:  "Browse the template library and write a preview of the selected shape.",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := c.loadTemplates(cmd.Context(), *dirs)
			if err != nil {
				return err
			}
			if lib.Len() == 0 {
				printInfo("No shape templates loaded")
				return nil
			}
			p := tea.NewProgram(NewShapeListModel(lib))
			final, err := p.Run()
			if err != nil {
				return err
			}
			m, ok := final.(ShapeListModel)
			if !ok || m.Selected == nil {
				printDetail("No selection made")
				return nil
			}
			out := output
			if out == "" {
				out = withExt(sanitizeName(m.Selected.Name()), odgExt)
			}
			return c.writePreview(cmd.Context(), m.Selected, out)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "preview file (default <name>.fodg)")
	return cmd
}

// writePreview converts t alone to path.
func (c *CLI) writePreview(ctx context.Context, t *stencil.Template, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	measurer, err := c.Config.Measurer()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	var opts []markup.XMLOption
	if c.Config.Output.Indent {
		opts = append(opts, markup.WithIndent("  "))
	}
	a := diagram.New(diagram.WithLogger(c.Logger), diagram.WithFontMetrics(measurer))
	if _, err := a.ConvertShape(t, markup.NewXMLSink(bw, opts...)); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	printSuccess("%s", t.Name())
	printFile(path)
	return f.Close()
}

// shapeTable renders the library as a table, one template per row.
func shapeTable(lib *stencil.Library) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	var rows [][]string
	for _, name := range lib.Names() {
		t, _ := lib.Lookup(name)
		rows = append(rows, shapeRow(t))
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Points", "Text", "Aspect").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})
}

func shapeRow(t *stencil.Template) []string {
	text := "—"
	if t.HasTextBox() {
		text = "✓"
	}
	aspect := strconv.FormatFloat(t.AspectRatio(), 'f', 2, 64)
	return []string{t.Name(), strconv.Itoa(t.ConnectionPointCount()), text, aspect}
}

// sanitizeName turns a template name into a file name.
func sanitizeName(name string) string {
	b := []byte(name)
	for i, ch := range b {
		switch ch {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			b[i] = '_'
		}
	}
	return string(b)
}
