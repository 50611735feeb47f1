// Package markup reads input trees and writes output documents.
//
// The converter never touches XML bytes directly. Input arrives as a tree
// of [Node] values built by [Parse]; output leaves as a stream of events
// sent to a [Sink].
//
// # Input
//
// [Parse] keeps tag and attribute names exactly as written, prefix
// included ("dia:object", "svg:rect"), which is how Dia and .shape files
// are matched. Files declared as ISO-8859-1 or another IANA charset are
// transcoded to UTF-8 while reading.
//
// # Output
//
// [XMLSink] serializes events with sorted attributes, optionally indented.
// [Recorder] keeps events in memory for tests and for deferred replay, and
// [Writer] wraps any sink so a run of calls can be checked for errors
// once:
//
//	w := markup.NewWriter(markup.NewXMLSink(out))
//	w.Start("draw:rect", markup.Attrs{"svg:x": "1cm"})
//	w.End("draw:rect")
//	if err := w.Err(); err != nil {
//	    return err
//	}
package markup
