package layout

import "github.com/tsawler/outliner/model"

const testPageHeight = 800.0

// testBlock describes a single-line, single-span block for fixtures
type testBlock struct {
	text string
	size float64
	top  float64
}

// makeBlock creates a block with one line per entry in spans
func makeBlock(index int, top float64, spans ...model.Span) model.Block {
	b := model.Block{Index: index}
	y := top
	for _, s := range spans {
		s.BBox = model.NewRect(50, y, 300, y+s.Size)
		b.Lines = append(b.Lines, model.Line{BBox: s.BBox, Spans: []model.Span{s}})
		b.BBox = b.BBox.Union(s.BBox)
		y += s.Size * 1.2
	}
	return b
}

// makePage creates a page of the standard test height from block specs
func makePage(index int, blocks ...testBlock) model.Page {
	p := model.Page{Index: index, Width: 600, Height: testPageHeight}
	for i, tb := range blocks {
		p.Blocks = append(p.Blocks, makeBlock(i, tb.top, model.Span{Text: tb.text, Size: tb.size}))
	}
	return p
}

func makeDocument(pages ...model.Page) *model.Document {
	return &model.Document{Source: "test.pdf", Pages: pages}
}

const bodyText = "The quick brown fox jumps over the lazy dog near the river bank"
