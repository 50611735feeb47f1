package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/diaconv/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear converted documents kept on disk",
		Long: `Converted documents and graphs are cached by the hash of their input, so
converting an unchanged diagram again is instant. Only the file backend can
be inspected here; Redis and MongoDB expire entries on their own.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached entry",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				fc, err := c.fileCache()
				if err != nil {
					return err
				}
				n, err := fc.Clear()
				if err != nil {
					return err
				}
				if n == 0 {
					printInfo("Cache is empty")
					return nil
				}
				printSuccess("Cleared %d cached entries", n)
				printDetail("%s", fc.Dir())
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				if !isFileBackend(c.Config.Cache.Backend) {
					return fmt.Errorf("cache backend %q has no directory", c.Config.Cache.Backend)
				}
				fmt.Println(c.Config.Cache.Dir)
				return nil
			},
		},
		&cobra.Command{
			Use:   "info",
			Short: "Show the backend, entry count and size",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				fc, err := c.fileCache()
				if err != nil {
					return err
				}
				n, size, err := fc.Usage()
				if err != nil {
					return err
				}
				printInfo("%s %s", StyleHighlight.Render("file"), fc.Dir())
				printDetail("%d entries, %s", n, formatBytes(size))
				return nil
			},
		},
	)
	return cmd
}

// fileCache opens the configured file cache. Other backends are reported
// with a warning and an error.
func (c *CLI) fileCache() (*cache.FileCache, error) {
	b := c.Config.Cache.Backend
	if !isFileBackend(b) {
		printWarning("Backend %q expires entries on its own", b)
		return nil, fmt.Errorf("cache backend %q is not a directory", b)
	}
	return openFileCache(c.Config.Cache.Dir)
}

func openFileCache(dir string) (*cache.FileCache, error) {
	ch, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return ch.(*cache.FileCache), nil
}

func isFileBackend(b string) bool {
	return b == "" || b == cache.BackendFile
}

// formatBytes renders n with a binary unit, as in "1.5 MiB".
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
