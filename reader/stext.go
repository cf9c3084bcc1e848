package reader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tsawler/outliner/model"
)

// MuPDF "stext.json" structures. MuPDF reports one font per line, so each
// line becomes a single span.
type stextDocument struct {
	Pages []stextPage `json:"pages"`
}

type stextPage struct {
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Blocks []stextBlock `json:"blocks"`
}

type stextBlock struct {
	Type  string      `json:"type"`
	BBox  stextBBox   `json:"bbox"`
	Lines []stextLine `json:"lines"`
}

type stextBBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (b stextBBox) rect() model.Rect {
	return model.NewRect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

type stextLine struct {
	WMode int       `json:"wmode"`
	BBox  stextBBox `json:"bbox"`
	Font  stextFont `json:"font"`
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	Text  string    `json:"text"`
}

type stextFont struct {
	Name   string  `json:"name"`
	Family string  `json:"family"`
	Weight string  `json:"weight"`
	Style  string  `json:"style"`
	Size   float64 `json:"size"`
}

// DecodeStext reads MuPDF stext JSON into a document. Coordinates are kept
// as MuPDF reports them (top-left origin). Non-text blocks keep their slot
// with no lines. A page without a height takes the bottom edge of its
// lowest block.
func DecodeStext(r io.Reader) (*model.Document, error) {
	var raw stextDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode stext json: %w", err)
	}

	doc := &model.Document{Pages: make([]model.Page, 0, len(raw.Pages))}
	for i, p := range raw.Pages {
		page := model.Page{
			Index:  i,
			Width:  p.Width,
			Height: p.Height,
			Blocks: make([]model.Block, 0, len(p.Blocks)),
		}

		extent := 0.0
		for j, b := range p.Blocks {
			block := model.Block{Index: j, BBox: b.BBox.rect()}
			extent = max(extent, block.BBox.Bottom())

			if b.Type == "" || b.Type == "text" {
				for _, l := range b.Lines {
					bbox := l.BBox.rect()
					block.Lines = append(block.Lines, model.Line{
						BBox:  bbox,
						Spans: []model.Span{{Text: l.Text, Size: l.Font.Size, BBox: bbox}},
					})
				}
			}
			page.Blocks = append(page.Blocks, block)
		}

		if page.Height <= 0 {
			page.Height = extent
		}
		doc.Pages = append(doc.Pages, page)
	}

	return doc, nil
}

// StextRenderer reads documents that were already rendered to stext JSON
type StextRenderer struct{}

// Render decodes the stext JSON file at path
func (StextRenderer) Render(ctx context.Context, path string) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, renderError(path, "open", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, renderError(path, "open", err)
	}
	defer f.Close()

	doc, err := DecodeStext(f)
	if err != nil {
		return nil, renderError(path, "decode", err)
	}
	doc.Source = path
	return doc, nil
}
