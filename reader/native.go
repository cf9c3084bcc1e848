package reader

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tsawler/outliner/layout"
	"github.com/tsawler/outliner/model"
	"github.com/tsawler/outliner/text"
)

// defaultPageHeight is US Letter, used when no page box can be read
const defaultPageHeight = 792.0

var disableConfigDir sync.Once

// pageSize is the width and height of one page in points
type pageSize struct {
	width, height float64
}

// NativeRenderer renders PDFs in process. Glyph runs come from
// github.com/ledongthuc/pdf, page boxes from pdfcpu, and the block structure
// from layout.BlockDetector.
type NativeRenderer struct {
	detector *layout.BlockDetector
}

// NewNativeRenderer creates a native renderer with default block detection
func NewNativeRenderer() *NativeRenderer {
	return NewNativeRendererWithConfig(layout.DefaultBlockConfig())
}

// NewNativeRendererWithConfig creates a native renderer with custom block detection
func NewNativeRendererWithConfig(config layout.BlockConfig) *NativeRenderer {
	return &NativeRenderer{detector: layout.NewBlockDetectorWithConfig(config)}
}

// Render reads the PDF at path. Panics raised while parsing malformed files
// are returned as render errors.
func (r *NativeRenderer) Render(ctx context.Context, path string) (doc *model.Document, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = renderError(path, "parse", fmt.Errorf("pdf parser panic: %v", rec))
		}
	}()

	sizes, _ := pageSizes(path)

	f, pr, err := pdf.Open(path)
	if err != nil {
		return nil, renderError(path, "open", err)
	}
	defer f.Close()

	numPages := pr.NumPage()
	doc = &model.Document{Source: path, Pages: make([]model.Page, 0, numPages)}

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, renderError(path, "parse", err)
		}

		p := pr.Page(i)
		page := model.Page{Index: i - 1}
		if i-1 < len(sizes) {
			page.Width, page.Height = sizes[i-1].width, sizes[i-1].height
		}

		if !p.V.IsNull() {
			if page.Height <= 0 {
				page.Width, page.Height = mediaBox(p)
			}
			page.Blocks = r.detector.Detect(fragments(p.Content().Text), page.Height)
		}

		if page.Height <= 0 {
			page.Height = defaultPageHeight
		}
		doc.Pages = append(doc.Pages, page)
	}

	return doc, nil
}

// fragments converts the library's glyph runs
func fragments(texts []pdf.Text) []text.TextFragment {
	frags := make([]text.TextFragment, 0, len(texts))
	for _, t := range texts {
		if t.S == "" || t.FontSize <= 0 {
			continue
		}
		frags = append(frags, text.TextFragment{
			Text:     t.S,
			X:        t.X,
			Y:        t.Y,
			Width:    t.W,
			Height:   t.FontSize,
			FontName: t.Font,
			FontSize: t.FontSize,
		})
	}
	return frags
}

// pageSizes reads the media box of every page with pdfcpu in relaxed mode.
// Callers fall back to the page's own MediaBox when this fails.
func pageSizes(path string) (sizes []pageSize, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			sizes, err = nil, fmt.Errorf("pdfcpu panic: %v", rec)
		}
	}()

	disableConfigDir.Do(api.DisableConfigDir)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	dims, err := api.PageDims(f, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}

	sizes = make([]pageSize, len(dims))
	for i, d := range dims {
		sizes[i] = pageSize{width: d.Width, height: d.Height}
	}
	return sizes, nil
}

// mediaBox reads the page's own MediaBox entry
func mediaBox(p pdf.Page) (width, height float64) {
	box := p.V.Key("MediaBox")
	if box.Len() != 4 {
		return 0, 0
	}
	x0, y0 := box.Index(0).Float64(), box.Index(1).Float64()
	x1, y1 := box.Index(2).Float64(), box.Index(3).Float64()
	return x1 - x0, y1 - y0
}
