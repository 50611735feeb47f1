// Package style interns ODF styles by value.
//
// Converters generate one property set per shape, but most shapes in a
// diagram look alike. An [Interner] compares every new set with the ones
// it has seen in the same [Family] and hands out the existing name on a
// match, so each distinct look is written once.
//
// # Families and Names
//
// Graphic styles are named gr1, gr2, ...; paragraph styles P1, P2, ....
// Names count every entry of the family, including reserved ones such as
// the text-box style [TextBoxStyle], so registering it first shifts the
// sequence by one.
//
// Stroke dashes start with the four Dia presets (DIA_20_Dashed,
// DIA_20_Dash_20_Dot, DIA_20_Dash_20_Dot_20_Dot, DIA_20_Dotted). A dash
// with any other length becomes DIA_20_Line_20_1, DIA_20_Line_20_2, ....
//
// Markers are named after Dia arrow types ([ArrowName]) and are registered
// on first use by [Interner.Marker].
//
// # Text
//
// Paragraph styles compare text and paragraph properties together. Before
// a paragraph style is interned its font size is corrected for Dia's
// convention of measuring fonts by line height, using the configured
// [fonts.Measurer]. The same measurer backs [Interner.AdvanceWidth] and
// [Interner.LineMetrics], which lets shapes size themselves around their
// text.
package style
