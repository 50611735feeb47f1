package markup

// Writer wraps a [Sink] and keeps the first error, so emitters can write a
// run of elements and check once at the end.
type Writer struct {
	sink Sink
	err  error
}

// NewWriter returns a Writer emitting to s.
func NewWriter(s Sink) *Writer { return &Writer{sink: s} }

func (w *Writer) Start(tag string, attrs Attrs) {
	if w.err == nil {
		w.err = w.sink.StartElement(tag, attrs)
	}
}

func (w *Writer) Text(text string) {
	if w.err == nil && text != "" {
		w.err = w.sink.Characters(text)
	}
}

func (w *Writer) End(tag string) {
	if w.err == nil {
		w.err = w.sink.EndElement(tag)
	}
}

// Leaf writes an element without content.
func (w *Writer) Leaf(tag string, attrs Attrs) {
	w.Start(tag, attrs)
	w.End(tag)
}

// Err returns the first error reported by the sink.
func (w *Writer) Err() error { return w.err }
