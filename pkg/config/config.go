// Package config loads diaconv settings.
//
// Sources, lowest to highest precedence:
//
//  1. built-in defaults ([Default])
//  2. a TOML or YAML file, by default $XDG_CONFIG_HOME/diaconv/config.toml
//  3. DIACONV_* environment variables
//
// Environment variable names follow the field path, for example
// DIACONV_CACHE_BACKEND, DIACONV_SERVER_ADDR or DIACONV_ROUTER_MAXBADNESS.
package config

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/diaconv/pkg/cache"
	"github.com/matzehuels/diaconv/pkg/errors"
	"github.com/matzehuels/diaconv/pkg/fonts"
	"github.com/matzehuels/diaconv/pkg/route"
	"github.com/matzehuels/diaconv/pkg/stencil"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "diaconv"

// Config holds all diaconv settings.
type Config struct {
	Router    route.Config    `toml:"router" yaml:"router" json:"router" envconfig:"ROUTER"`
	Output    OutputConfig    `toml:"output" yaml:"output" json:"output" envconfig:"OUTPUT"`
	Fonts     FontsConfig     `toml:"fonts" yaml:"fonts" json:"fonts" envconfig:"FONTS"`
	Templates TemplatesConfig `toml:"templates" yaml:"templates" json:"templates" envconfig:"TEMPLATES"`
	Cache     CacheConfig     `toml:"cache" yaml:"cache" json:"cache" envconfig:"CACHE"`
	Server    ServerConfig    `toml:"server" yaml:"server" json:"server" envconfig:"SERVER"`
}

// OutputConfig controls how documents are written.
type OutputConfig struct {
	// Indent pretty prints the ODG XML.
	Indent bool `toml:"indent" yaml:"indent" json:"indent"`

	// Dir receives converted files when no -o is given. Empty means next
	// to the input.
	Dir string `toml:"dir" yaml:"dir" json:"dir,omitempty"`
}

// FontsConfig selects the text measurer.
type FontsConfig struct {
	// Heuristic measures by average character width instead of loading
	// fonts.
	Heuristic bool `toml:"heuristic" yaml:"heuristic" json:"heuristic"`

	// Dir holds extra .ttf/.otf files. The Go fonts are always available.
	Dir string `toml:"dir" yaml:"dir" json:"dir,omitempty"`
}

// TemplatesConfig lists the shape template directories.
type TemplatesConfig struct {
	Dirs []string `toml:"dirs" yaml:"dirs" json:"dirs,omitempty"`
}

// CacheConfig selects the output cache backend.
type CacheConfig struct {
	Backend    string `toml:"backend" yaml:"backend" json:"backend"`
	Dir        string `toml:"dir" yaml:"dir" json:"dir,omitempty"`
	URL        string `toml:"url" yaml:"url" json:"url,omitempty"`
	Database   string `toml:"database" yaml:"database" json:"database,omitempty"`
	Collection string `toml:"collection" yaml:"collection" json:"collection,omitempty"`

	// Prefix scopes every key, so deployments can share a Redis or
	// MongoDB backend.
	Prefix string `toml:"prefix" yaml:"prefix" json:"prefix,omitempty"`
}

// ServerConfig configures diaconv serve.
type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr" json:"addr"`

	// MaxUpload bounds request bodies, in bytes.
	MaxUpload int64 `toml:"max_upload" yaml:"max_upload" json:"max_upload" envconfig:"MAX_UPLOAD"`

	// Timeout bounds one conversion request.
	Timeout time.Duration `toml:"timeout" yaml:"timeout" json:"timeout"`
}

// Default values.
const (
	DefaultAddr      = ":8080"
	DefaultMaxUpload = 32 << 20
	DefaultTimeout   = 30 * time.Second
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Router: route.DefaultConfig(),
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			Dir:     DefaultCacheDir(),
		},
		Server: ServerConfig{
			Addr:      DefaultAddr,
			MaxUpload: DefaultMaxUpload,
			Timeout:   DefaultTimeout,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/diaconv/config.toml, or the
// platform equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "diaconv", "config.toml")
}

// DefaultCacheDir returns the per-user cache directory for diaconv.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "diaconv")
}

// Load reads the file at path over the defaults, applies environment
// overrides and validates the result. An empty path means [DefaultPath],
// which may be missing; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.decode(path, data); err != nil {
				return nil, err
			}
		case os.IsNotExist(err) && !explicit:
		default:
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode unmarshals data over c, choosing the format by extension.
func (c *Config) decode(path string, data []byte) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		_, err = toml.Decode(string(data), c)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	if err := c.Router.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "router")
	}
	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis, cache.BackendMongo:
		if c.Cache.URL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache: backend %q needs a url", c.Cache.Backend)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache: unknown backend %q", c.Cache.Backend)
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server: addr is empty")
	}
	if c.Server.MaxUpload <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server: max_upload must be > 0, got %d", c.Server.MaxUpload)
	}
	if c.Server.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server: timeout must be >= 0, got %s", c.Server.Timeout)
	}
	return nil
}

// WriteTOML writes c in the config file format.
func (c *Config) WriteTOML(w io.Writer) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Keyer returns the cache keyer, scoped by Cache.Prefix when it is set.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.Prefix)
}

// CacheOptions returns the options for [cache.Open].
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:    c.Cache.Backend,
		Dir:        c.Cache.Dir,
		URL:        c.Cache.URL,
		Database:   c.Cache.Database,
		Collection: c.Cache.Collection,
	}
}

// Measurer builds the configured text measurer.
func (c *Config) Measurer() (fonts.Measurer, error) {
	if c.Fonts.Heuristic {
		return fonts.Heuristic{}, nil
	}
	p, err := fonts.NewProvider()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load fonts")
	}
	if c.Fonts.Dir != "" {
		if _, err := p.LoadDir(c.Fonts.Dir); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "font directory %s", c.Fonts.Dir)
		}
	}
	return p, nil
}

// LoadTemplates reads every configured template directory into one
// library. Directories later in the list win on name clashes.
func (c *Config) LoadTemplates(ctx context.Context, logger *log.Logger) (*stencil.Library, error) {
	lib := stencil.NewLibrary(stencil.WithLogger(logger))
	for _, dir := range c.Templates.Dirs {
		n, err := lib.LoadDir(ctx, dir)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded shape templates", "dir", dir, "count", n)
	}
	return lib, nil
}
