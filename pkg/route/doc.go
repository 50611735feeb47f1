// Package route lays out orthogonal connectors between two anchors.
//
// An [Anchor] is a position plus a [Direction] bitmask saying which way a
// connector may leave or enter it. For every allowed pair of start and end
// directions the [Router] moves the start to the origin and rotates the
// scene so the start faces North. That collapses the sixteen pairs into
// three layouts: the end faces North too (parallel), faces South
// (opposite), or faces East or West (orthogonal).
//
// Each candidate is scored with a badness function: every segment costs
// ExtraSegmentBadness, and each segment adds its Manhattan length minus
// the minimum clearance, or a steep penalty when it is shorter than the
// clearance. The lowest score wins; a later candidate only replaces the
// current best when it improves on it by more than a small epsilon, so
// ties keep the first candidate in North, East, South, West order.
//
// # Validation
//
// [Router.Route] accepts the winner only when it has the number of points
// the caller asked for and starts and ends exactly on the anchors.
// Otherwise it returns [ErrHintMismatch] or [ErrEndpointMismatch], and the
// caller falls back to a free polyline.
//
// # Tuning
//
// The constants live in [Config]. [DefaultConfig] returns the values Dia
// itself routes with; they can be overridden from the diaconv config file.
package route
