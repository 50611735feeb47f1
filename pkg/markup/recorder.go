package markup

import (
	"maps"
	"strings"
)

// EventKind identifies a recorded sink call.
type EventKind int

const (
	StartDocumentEvent EventKind = iota
	StartElementEvent
	CharactersEvent
	EndElementEvent
	EndDocumentEvent
)

// Event is one recorded sink call.
type Event struct {
	Kind  EventKind
	Tag   string
	Attrs Attrs
	Text  string
}

// Recorder is a [Sink] that keeps every event in memory.
type Recorder struct {
	Events []Event
}

func (r *Recorder) StartDocument() error {
	r.Events = append(r.Events, Event{Kind: StartDocumentEvent})
	return nil
}

func (r *Recorder) StartElement(tag string, attrs Attrs) error {
	r.Events = append(r.Events, Event{Kind: StartElementEvent, Tag: tag, Attrs: maps.Clone(attrs)})
	return nil
}

func (r *Recorder) Characters(text string) error {
	r.Events = append(r.Events, Event{Kind: CharactersEvent, Text: text})
	return nil
}

func (r *Recorder) EndElement(tag string) error {
	r.Events = append(r.Events, Event{Kind: EndElementEvent, Tag: tag})
	return nil
}

func (r *Recorder) EndDocument() error {
	r.Events = append(r.Events, Event{Kind: EndDocumentEvent})
	return nil
}

// Elements returns the start events with the given tag, in order.
func (r *Recorder) Elements(tag string) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Kind == StartElementEvent && e.Tag == tag {
			out = append(out, e)
		}
	}
	return out
}

// Text returns all character data joined in order.
func (r *Recorder) Text() string {
	var sb strings.Builder
	for _, e := range r.Events {
		if e.Kind == CharactersEvent {
			sb.WriteString(e.Text)
		}
	}
	return sb.String()
}

// Replay sends the recorded events to s.
func (r *Recorder) Replay(s Sink) error {
	for _, e := range r.Events {
		var err error
		switch e.Kind {
		case StartDocumentEvent:
			err = s.StartDocument()
		case StartElementEvent:
			err = s.StartElement(e.Tag, e.Attrs)
		case CharactersEvent:
			err = s.Characters(e.Text)
		case EndElementEvent:
			err = s.EndElement(e.Tag)
		case EndDocumentEvent:
			err = s.EndDocument()
		}
		if err != nil {
			return err
		}
	}
	return nil
}
