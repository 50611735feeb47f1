package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Hash returns the hex SHA-256 of data. Uploads are hashed as received,
// so a gzipped diagram and its plain form are different inputs.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Fingerprint hashes an ordered list of names into one key component.
// Names are NUL separated so ["ab"] and ["a", "b"] differ.
func Fingerprint(names []string) string {
	h := sha256.New()
	for _, n := range names {
		h.Write([]byte(n))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// hashKey returns kind:sha256(json(parts)). parts are strings and
// option structs, which always marshal.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}

// Keyer derives cache keys. Keys of different kinds never collide.
type Keyer interface {
	// DocumentKey names a converted document.
	DocumentKey(inputHash string, opts DocumentKeyOpts) string

	// GraphKey names the connectivity graph of a document. Options that
	// only change the XML text, such as Indent, are ignored.
	GraphKey(inputHash string, opts DocumentKeyOpts) string
}

// DocumentKeyOpts holds everything besides the input that changes a
// converted document.
type DocumentKeyOpts struct {
	// Templates is a fingerprint of the loaded shape templates, such as
	// the hash of their sorted names.
	Templates string `json:"templates,omitempty"`

	// Router is the router configuration in a stable form.
	Router string `json:"router,omitempty"`

	// Fonts names the text measurer.
	Fonts string `json:"fonts,omitempty"`

	// Indent is set when the XML is pretty printed.
	Indent bool `json:"indent,omitempty"`
}

// DefaultKeyer produces keys of the form kind:sha256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DocumentKey hashes the input hash with opts.
func (DefaultKeyer) DocumentKey(inputHash string, opts DocumentKeyOpts) string {
	return hashKey("odg", inputHash, opts)
}

// GraphKey hashes the input hash with opts, leaving out Indent.
func (DefaultKeyer) GraphKey(inputHash string, opts DocumentKeyOpts) string {
	opts.Indent = false
	return hashKey("graph", inputHash, opts)
}

var _ Keyer = DefaultKeyer{}

// ScopedKeyer prefixes the keys of another Keyer, so that staging and
// production can share one Redis or MongoDB backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer scopes inner (the default keyer if nil) to prefix. A
// colon is appended to prefix unless it already ends in one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return ScopedKeyer{inner: inner, prefix: prefix}
}

func (k ScopedKeyer) DocumentKey(inputHash string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(inputHash, opts)
}

func (k ScopedKeyer) GraphKey(inputHash string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.GraphKey(inputHash, opts)
}

var _ Keyer = ScopedKeyer{}
