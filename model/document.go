package model

import "strings"

// Document is the renderer output for one input file
type Document struct {
	// Source is the path the document was rendered from (informational)
	Source string

	// Pages in input order; Page.Index matches the position in this slice
	Pages []Page
}

// Page is one rendered page
type Page struct {
	Index  int     // 0-based page number
	Width  float64 // Page width in points
	Height float64 // Page height in points
	Blocks []Block // Blocks in renderer order
}

// Block is a layout unit on a page: a paragraph, a heading, or an image
// container. Blocks without lines carry no text.
type Block struct {
	Index int // 0-based position on the page as set by the renderer; analysis uses slice position
	BBox  Rect
	Lines []Line
}

// Line is an ordered run of spans on one baseline
type Line struct {
	BBox  Rect
	Spans []Span
}

// Span is a contiguous run of text sharing one font size within a line
type Span struct {
	Text string
	Size float64
	BBox Rect
}

// BlockID identifies a block by its page position and its position on the page
type BlockID struct {
	Page  int
	Block int
}

// PageCount returns the number of pages
func (d *Document) PageCount() int {
	if d == nil {
		return 0
	}
	return len(d.Pages)
}

// HasText reports whether any span in the document carries non-blank text
func (d *Document) HasText() bool {
	if d == nil {
		return false
	}
	for _, p := range d.Pages {
		for _, b := range p.Blocks {
			for _, l := range b.Lines {
				for _, s := range l.Spans {
					if strings.TrimSpace(s.Text) != "" {
						return true
					}
				}
			}
		}
	}
	return false
}

// Spans returns all spans of the block in line order
func (b Block) Spans() []Span {
	var spans []Span
	for _, l := range b.Lines {
		spans = append(spans, l.Spans...)
	}
	return spans
}
