// Package shape models the objects of a Dia diagram and writes them as
// ODF drawing shapes.
//
// # Lifecycle
//
// A diagram is converted in four passes, and every shape finishes a pass
// before any shape starts the next:
//
//  1. Import reads a dia:object through an [ImportContext], which interns
//     the graphic and paragraph styles and records the shape by id.
//  2. ResizeIfNarrow grows boxes whose text would not fit, using the font
//     metrics of the paragraph style.
//  3. AdjustConnections moves connector ends onto the glue points of the
//     shapes they join and asks the router whether a zigzag line can
//     become an ODF standard connector.
//  4. Write emits the shape through a [markup.Writer].
//
// # Coordinates
//
// Dia measures from the printable area of the page, ODF from the page
// corner. Import adds the left and top margin to every coordinate, so
// shapes hold page coordinates in cm. [Shape.SnapConnectionPoint] is the
// exception: it answers in diagram coordinates because connector corner
// points are kept in diagram coordinates until they are written.
//
// # Kinds
//
// Built-in Dia types map to a [Kind] through [KindOf]. Other types are
// looked up in the context's template library and drawn by a
// [stencil.Template]; types with no template become boxes and a
// diagnostic is recorded.
package shape
