package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/diaconv/pkg/config"
)

// configCommand shows the effective configuration.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Long:  "Print the configuration after defaults, the config file and DIACONV_* environment variables are applied.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Config.WriteTOML(os.Stdout)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			fmt.Println(path)
			return nil
		},
	})

	return cmd
}
