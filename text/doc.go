// Package text provides the text primitives shared by the renderers and the
// layout analysis.
//
// # Fragments
//
// A [TextFragment] is a positioned run of glyphs as reported by a PDF text
// layer. Fragments use PDF coordinates: X grows to the right and Y is the
// baseline, growing upward from the bottom of the page.
//
// # Canonical Text
//
// [Canonicalize] is the normalization pass applied to every block text
// before it is compared, deduplicated or emitted:
//
//	text.Canonicalize("  ﬁnal   report\n", true) // "final report"
//
// [Words], [DistinctWords] and [MeanWordLength] provide the lexical
// statistics used by the noise filters.
package text
