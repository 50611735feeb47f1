package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/diaconv/pkg/cache"
	"github.com/matzehuels/diaconv/pkg/config"
	"github.com/matzehuels/diaconv/pkg/pipeline"
	"github.com/matzehuels/diaconv/pkg/stencil"
)

// Log levels for [New].
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds what every command shares: the logger and the effective
// configuration.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and the built-in
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig replaces the built-in configuration with the file and
// environment settings.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, c.Config.Keyer(), c.Logger), nil
}

// openCache opens the configured cache. An unreachable backend is logged
// and replaced by no cache, so conversions still run.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	ch, err := cache.Open(ctx, c.Config.CacheOptions())
	if err != nil {
		c.Logger.Warn("cache disabled", "backend", c.Config.Cache.Backend, "err", err)
		return cache.NewNullCache(), nil
	}
	return ch, nil
}

// loadTemplates reads the configured template directories plus extra.
func (c *CLI) loadTemplates(ctx context.Context, extra []string) (*stencil.Library, error) {
	cfg := *c.Config
	cfg.Templates.Dirs = append(append([]string(nil), cfg.Templates.Dirs...), extra...)
	sw := startStopwatch(c.Logger)
	lib, err := cfg.LoadTemplates(ctx, c.Logger)
	if err != nil {
		return nil, err
	}
	if len(cfg.Templates.Dirs) > 0 {
		sw.debug("loaded %d shape templates", lib.Len())
	}
	return lib, nil
}

// parseFormats splits a comma-separated list, dropping blanks.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
