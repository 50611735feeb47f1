package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/diaconv/pkg/buildinfo"
	"github.com/matzehuels/diaconv/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Persistent flags:
//   - --verbose (-v): debug logging, including pipeline and cache events
//   - --config: config file (default $XDG_CONFIG_HOME/diaconv/config.toml)
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "diaconv",
		Short: "diaconv converts Dia diagrams to OpenDocument drawings",
		Long: `diaconv converts Dia diagrams (.dia, plain or gzip-compressed) and Dia shape
templates (.shape) to flat OpenDocument drawings (.fodg) that LibreOffice
Draw opens directly. Zigzag lines between shapes become real connectors.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				hooks := observability.NewLogHooks(c.Logger)
				observability.SetPipelineHooks(hooks)
				observability.SetCacheHooks(hooks)
			}
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/diaconv/config.toml)")

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.detectCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.shapesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
