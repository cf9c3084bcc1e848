// Package model provides the data structures shared by the renderers, the
// layout analysis and the exporters.
//
// # Rendered Documents
//
// A renderer turns a file into a [Document]: an ordered list of [Page]
// values, each holding [Block] values made of [Line] values made of [Span]
// values. A span is a run of text sharing one font size. Blocks without
// lines (images, decorations) are legal and are ignored by the analysis.
//
// Coordinates use a top-left origin with Y growing downward, so a block's
// [Rect.Y0] is its top edge.
//
// # Outline Records
//
// The analysis produces an [OutlineRecord]: a title and an ordered list of
// [HeadingEntry] values. A [HeadingLevel] marshals as "H1".."H4":
//
//	{"title": "Report", "outline": [{"level": "H1", "text": "Intro", "page": 0}]}
package model
