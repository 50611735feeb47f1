package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/diaconv/pkg/pipeline"
)

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Print a shell completion script",
		Long: `Print a shell completion script for diaconv.

Shape template names complete from the configured template directories,
so "diaconv shapes preview Cisco<TAB>" lists the Cisco shapes.`,
		Example: `  source <(diaconv completion bash)
  diaconv completion zsh > "${fpath[1]}/_diaconv"
  diaconv completion fish > ~/.config/fish/completions/diaconv.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
}

// completeShapeNames completes template names loaded from the
// --shapes directories and the configuration.
func (c *CLI) completeShapeNames(dirs *[]string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		lib, err := c.loadTemplates(cmd.Context(), *dirs)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var names []string
		for _, n := range lib.Names() {
			if strings.HasPrefix(strings.ToLower(n), strings.ToLower(toComplete)) {
				names = append(names, n)
			}
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeGraphFormats completes the last element of a comma-separated
// format list.
func completeGraphFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done, _ := splitLast(toComplete)
	var out []string
	for _, f := range []string{pipeline.FormatGraph, pipeline.FormatDOT, pipeline.FormatSVG, pipeline.FormatPNG} {
		out = append(out, done+f)
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// splitLast splits "json,d" into "json," and "d".
func splitLast(list string) (string, string) {
	i := strings.LastIndex(list, ",")
	return list[:i+1], list[i+1:]
}
