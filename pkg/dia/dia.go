// Package dia opens Dia files.
//
// Dia saves diagrams as XML, gzip-compressed by default. [Open] and
// [Decompress] hide the compression; [Detect] sniffs the start of a file
// to tell diagrams from standalone .shape templates.
package dia

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/matzehuels/diaconv/pkg/errors"
)

// Format is the kind of document found by [Detect].
type Format int

const (
	Unknown Format = iota
	Diagram
	Shape
)

func (f Format) String() string {
	switch f {
	case Diagram:
		return "diagram"
	case Shape:
		return "shape"
	}
	return "unknown"
}

// sniffLen is how many leading bytes Detect inspects.
const sniffLen = 64

var (
	diagramMarker = []byte("<dia:diagram ")
	shapeMarker   = []byte("<shape ")
)

// IsGzip reports whether data starts with the gzip magic number.
func IsGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

// Open returns a reader over the uncompressed content of r. Plain XML
// passes through unchanged.
func Open(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil || !IsGzip(magic) {
		return br, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid gzip stream")
	}
	return zr, nil
}

// Decompress returns the uncompressed content of data.
func Decompress(data []byte) ([]byte, error) {
	if !IsGzip(data) {
		return data, nil
	}
	r, err := Open(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid gzip stream")
	}
	return out, nil
}

// Detect reports whether data holds a Dia diagram ("<dia:diagram " within
// the first 64 uncompressed bytes) or a shape template ("<shape ").
func Detect(data []byte) Format {
	head := data
	if IsGzip(data) {
		r, err := Open(bytes.NewReader(data))
		if err != nil {
			return Unknown
		}
		buf := make([]byte, sniffLen)
		n, _ := io.ReadFull(r, buf)
		head = buf[:n]
	}
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	switch {
	case bytes.Contains(head, diagramMarker):
		return Diagram
	case bytes.Contains(head, shapeMarker):
		return Shape
	}
	return Unknown
}
