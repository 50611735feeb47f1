package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/diaconv/pkg/cache"
	"github.com/matzehuels/diaconv/pkg/errors"
	"github.com/matzehuels/diaconv/pkg/fonts"
	"github.com/matzehuels/diaconv/pkg/route"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Router != route.DefaultConfig() {
		t.Errorf("Router = %+v, want defaults", cfg.Router)
	}
	if cfg.Cache.Backend != cache.BackendFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, cache.BackendFile)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		body  string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "toml",
			file: "config.toml",
			body: "[router]\nmax_badness = 500\n\n[cache]\nbackend = \"none\"\n\n[server]\ntimeout = \"5s\"\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Router.MaxBadness != 500 {
					t.Errorf("Router.MaxBadness = %v, want 500", cfg.Router.MaxBadness)
				}
				// Keys missing from the file keep their defaults.
				if cfg.Router.ExtraSegmentBadness != 10 {
					t.Errorf("Router.ExtraSegmentBadness = %v, want 10", cfg.Router.ExtraSegmentBadness)
				}
				if cfg.Cache.Backend != cache.BackendNone {
					t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, cache.BackendNone)
				}
				if cfg.Server.Timeout != 5*time.Second {
					t.Errorf("Server.Timeout = %v, want 5s", cfg.Server.Timeout)
				}
			},
		},
		{
			name: "yaml",
			file: "config.yaml",
			body: "output:\n  indent: true\ntemplates:\n  dirs: [a, b]\nserver:\n  addr: \":9000\"\n",
			check: func(t *testing.T, cfg *Config) {
				if !cfg.Output.Indent {
					t.Error("Output.Indent = false, want true")
				}
				if len(cfg.Templates.Dirs) != 2 || cfg.Templates.Dirs[1] != "b" {
					t.Errorf("Templates.Dirs = %v, want [a b]", cfg.Templates.Dirs)
				}
				if cfg.Server.Addr != ":9000" {
					t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, ":9000")
				}
				if cfg.Server.MaxUpload != DefaultMaxUpload {
					t.Errorf("Server.MaxUpload = %d, want %d", cfg.Server.MaxUpload, DefaultMaxUpload)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.body))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		code errors.Code
	}{
		{"missing explicit file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.toml") }, errors.ErrCodeFileNotFound},
		{"bad toml", func(t *testing.T) string { return writeFile(t, "c.toml", "[router\n") }, errors.ErrCodeInvalidConfig},
		{"bad yaml", func(t *testing.T) string { return writeFile(t, "c.yml", "router: [1, 2\n") }, errors.ErrCodeInvalidConfig},
		{"unknown backend", func(t *testing.T) string { return writeFile(t, "c.toml", "[cache]\nbackend = \"s3\"\n") }, errors.ErrCodeInvalidConfig},
		{"redis without url", func(t *testing.T) string { return writeFile(t, "c.toml", "[cache]\nbackend = \"redis\"\n") }, errors.ErrCodeInvalidConfig},
		{"negative router", func(t *testing.T) string { return writeFile(t, "c.toml", "[router]\nmin_clearance = -1\n") }, errors.ErrCodeInvalidConfig},
		{"zero upload", func(t *testing.T) string { return writeFile(t, "c.toml", "[server]\nmax_upload = 0\n") }, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestLoadDefaultPathMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DIACONV_CACHE_BACKEND", "none")
	t.Setenv("DIACONV_ROUTER_MAXBADNESS", "250")
	t.Setenv("DIACONV_SERVER_MAX_UPLOAD", "1024")
	t.Setenv("DIACONV_TEMPLATES_DIRS", "x,y")

	// The environment wins over the file.
	cfg, err := Load(writeFile(t, "c.toml", "[router]\nmax_badness = 500\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Cache.Backend != cache.BackendNone {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, cache.BackendNone)
	}
	if cfg.Router.MaxBadness != 250 {
		t.Errorf("Router.MaxBadness = %v, want 250", cfg.Router.MaxBadness)
	}
	if cfg.Server.MaxUpload != 1024 {
		t.Errorf("Server.MaxUpload = %d, want 1024", cfg.Server.MaxUpload)
	}
	if len(cfg.Templates.Dirs) != 2 {
		t.Errorf("Templates.Dirs = %v, want [x y]", cfg.Templates.Dirs)
	}
}

func TestWriteTOMLRoundTrip(t *testing.T) {
	want := Default()
	want.Output.Indent = true
	want.Templates.Dirs = []string{"/usr/share/dia/shapes"}

	var buf bytes.Buffer
	if err := want.WriteTOML(&buf); err != nil {
		t.Fatalf("WriteTOML() error = %v", err)
	}
	got, err := Load(writeFile(t, "c.toml", buf.String()))
	if err != nil {
		t.Fatalf("Load() error = %v\n%s", err, buf.String())
	}
	if got.Router != want.Router || got.Server != want.Server || got.Cache != want.Cache {
		t.Errorf("Load(WriteTOML()) = %+v, want %+v", got, want)
	}
	if !got.Output.Indent || len(got.Templates.Dirs) != 1 {
		t.Errorf("Output, Templates = %+v, %+v", got.Output, got.Templates)
	}
}

func TestKeyer(t *testing.T) {
	cfg := Default()
	plain := cfg.Keyer().GraphKey("abc", cache.DocumentKeyOpts{})
	if want := cache.NewDefaultKeyer().GraphKey("abc", cache.DocumentKeyOpts{}); plain != want {
		t.Errorf("GraphKey = %s, want %s", plain, want)
	}
	cfg.Cache.Prefix = "staging:"
	if got, want := cfg.Keyer().GraphKey("abc", cache.DocumentKeyOpts{}), "staging:"+plain; got != want {
		t.Errorf("scoped GraphKey = %s, want %s", got, want)
	}
}

func TestMeasurer(t *testing.T) {
	cfg := Default()
	cfg.Fonts.Heuristic = true
	m, err := cfg.Measurer()
	if err != nil {
		t.Fatalf("Measurer() error = %v", err)
	}
	if _, ok := m.(fonts.Heuristic); !ok {
		t.Errorf("Measurer() = %T, want fonts.Heuristic", m)
	}

	cfg.Fonts.Heuristic = false
	m, err = cfg.Measurer()
	if err != nil {
		t.Fatalf("Measurer() error = %v", err)
	}
	if _, ok := m.(*fonts.Provider); !ok {
		t.Errorf("Measurer() = %T, want *fonts.Provider", m)
	}

	cfg.Fonts.Dir = filepath.Join(t.TempDir(), "missing")
	if _, err := cfg.Measurer(); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Measurer() error = %v, want code %v", err, errors.ErrCodeFileNotFound)
	}
}

func TestLoadTemplates(t *testing.T) {
	dir := t.TempDir()
	shape := `<shape><name>Net - Hub</name><svg><rect width="1" height="1"/></svg></shape>`
	if err := os.WriteFile(filepath.Join(dir, "hub.shape"), []byte(shape), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	cfg.Templates.Dirs = []string{dir}

	lib, err := cfg.LoadTemplates(context.Background(), log.New(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}
	if _, ok := lib.Lookup("Net - Hub"); !ok {
		t.Error("Lookup(\"Net - Hub\") = false, want true")
	}

	cfg.Templates.Dirs = []string{filepath.Join(dir, "missing")}
	if _, err := cfg.LoadTemplates(context.Background(), log.New(&bytes.Buffer{})); err == nil {
		t.Error("LoadTemplates() with a missing dir succeeded")
	}
}
