package pipeline

import (
	"bytes"

	"github.com/matzehuels/diaconv/pkg/dia"
	"github.com/matzehuels/diaconv/pkg/errors"
	"github.com/matzehuels/diaconv/pkg/markup"
)

// Decode uncompresses data and parses it. The kind is taken from the
// root element, so documents with a long prolog are recognized too.
func Decode(name string, data []byte) (markup.Node, dia.Format, error) {
	raw, err := dia.Decompress(data)
	if err != nil {
		return nil, dia.Unknown, err
	}
	root, err := markup.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, dia.Unknown, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s: malformed XML", name)
	}
	switch markup.LocalName(root.Tag()) {
	case "diagram":
		return root, dia.Diagram, nil
	case "shape":
		return root, dia.Shape, nil
	}
	return nil, dia.Unknown, errors.New(errors.ErrCodeUnsupportedDocument,
		"%s: neither a Dia diagram nor a shape template (root element is <%s>)", name, root.Tag())
}
