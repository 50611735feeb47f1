package stencil

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/diaconv/pkg/dia"
	"github.com/matzehuels/diaconv/pkg/errors"
	"github.com/matzehuels/diaconv/pkg/markup"
)

// Extension is the file extension of shape templates.
const Extension = ".shape"

// Library maps shape names to templates. Load it once, then share it:
// lookups are safe for concurrent use.
type Library struct {
	mu        sync.RWMutex
	templates map[string]*Template
	logger    *log.Logger
}

// NewLibrary returns an empty library.
func NewLibrary(opts ...Option) *Library {
	o := buildOptions(opts)
	return &Library{templates: make(map[string]*Template), logger: o.logger}
}

// Add registers t under its name, replacing an earlier template of the
// same name.
func (l *Library) Add(t *Template) error {
	if err := errors.ValidateShapeName(t.Name()); err != nil {
		return err
	}
	l.mu.Lock()
	l.templates[t.Name()] = t
	l.mu.Unlock()
	return nil
}

// Lookup returns the template registered under name.
func (l *Library) Lookup(name string) (*Template, bool) {
	if l == nil {
		return nil, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.templates[name]
	return t, ok
}

// Len returns the number of templates.
func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.templates)
}

// Names returns the template names in sorted order.
func (l *Library) Names() []string {
	if l == nil {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.templates))
	for name := range l.templates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LoadFile parses one .shape file and adds it to the library.
func (l *Library) LoadFile(path string) (*Template, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "shape file %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()

	r, err := dia.Open(f)
	if err != nil {
		return nil, err
	}
	root, err := markup.Parse(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	t, err := Parse(root, WithLogger(l.logger))
	if err != nil {
		return nil, err
	}
	if err := l.Add(t); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadDir scans dir recursively for .shape files and adds every template
// that parses. Files that fail are logged and skipped. It returns the
// number of templates loaded.
func (l *Library) LoadDir(ctx context.Context, dir string) (int, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeFileNotFound, err, "shape directory %s", dir)
	}
	if !info.IsDir() {
		return 0, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", dir)
	}

	loaded := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			l.logger.Warn("cannot read shape path", "path", path, "err", err)
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), Extension) {
			return nil
		}
		t, err := l.LoadFile(path)
		if err != nil {
			l.logger.Warn("could not parse shape", "path", path, "err", err)
			return nil
		}
		l.logger.Debug("loaded shape", "name", t.Name(), "path", path)
		loaded++
		return nil
	})
	if err != nil {
		return loaded, errors.Wrap(errors.ErrCodeTimeout, err, "scan %s", dir)
	}
	return loaded, nil
}
