package outliner

import (
	"context"
	"fmt"

	"github.com/tsawler/outliner/layout"
	"github.com/tsawler/outliner/model"
	"github.com/tsawler/outliner/reader"
)

// Extractor provides a fluent interface for extracting outlines.
// Each configuration method returns a new Extractor instance, making it
// safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	filename string
	doc      *model.Document
	hasDoc   bool // true for FromDocument; doc may still be nil

	// Configuration
	options extractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		doc:      e.doc,
		hasDoc:   e.hasDoc,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Renderer sets the renderer used for PDF inputs. The default is the pure Go
// native renderer.
//
// Example:
//
//	record, _, err := outliner.Open("doc.pdf").Renderer(&reader.MuPDFRenderer{}).Outline()
func (e *Extractor) Renderer(r reader.Renderer) *Extractor {
	newExt := e.clone()
	newExt.options.renderer = r
	return newExt
}

// Config replaces the heuristic configuration. An invalid configuration is
// reported by the terminal operation.
func (e *Extractor) Config(cfg layout.Config) *Extractor {
	newExt := e.clone()
	if err := cfg.Validate(); err != nil && newExt.err == nil {
		newExt.err = err
	}
	newExt.options.config = cfg
	newExt.options = newExt.options.clone()
	return newExt
}

// Context sets the context that bounds rendering.
func (e *Extractor) Context(ctx context.Context) *Extractor {
	newExt := e.clone()
	if ctx == nil {
		ctx = context.Background()
	}
	newExt.options.ctx = ctx
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Document renders the input and returns the page/block/line/span document.
func (e *Extractor) Document() (*model.Document, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	doc, err := e.document()
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	if !doc.HasText() {
		warnings = append(warnings, noTextWarning(e.filename))
	}
	return doc, warnings, nil
}

// Analysis renders the input and returns the outline together with the
// intermediate values it was derived from (body size, level map, title
// blocks, unnormalized headings).
func (e *Extractor) Analysis() (*layout.Analysis, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}

	doc, err := e.document()
	if err != nil {
		return nil, nil, err
	}

	analysis := layout.NewAnalyzerWithConfig(e.options.config).Analyze(doc)
	return analysis, warningsFor(e.filename, doc, analysis.Record), nil
}

// Outline renders the input and returns its title and heading outline.
//
// Example:
//
//	record, warnings, err := outliner.Open("document.pdf").Outline()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, h := range record.Outline {
//	    fmt.Printf("%s %s (page %d)\n", h.Level, h.Text, h.Page)
//	}
func (e *Extractor) Outline() (model.OutlineRecord, []Warning, error) {
	analysis, warnings, err := e.Analysis()
	if err != nil {
		return model.OutlineRecord{}, nil, err
	}
	return analysis.Record, warnings, nil
}

// document returns the in-memory document or renders the file
func (e *Extractor) document() (*model.Document, error) {
	if e.hasDoc {
		if e.doc == nil {
			return &model.Document{}, nil
		}
		return e.doc, nil
	}
	if e.filename == "" {
		return nil, fmt.Errorf("no filename specified")
	}

	ctx := e.options.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return reader.Dispatch(e.options.pdfRenderer()).Render(ctx, e.filename)
}

func noTextWarning(source string) Warning {
	return Warning{
		Code:    WarningNoText,
		Message: fmt.Sprintf("%s: no extractable text (the document may be scanned)", displayName(source)),
	}
}

func warningsFor(source string, doc *model.Document, record model.OutlineRecord) []Warning {
	if !doc.HasText() {
		return []Warning{noTextWarning(source)}
	}

	var warnings []Warning
	if record.Title == "" {
		warnings = append(warnings, Warning{
			Code:    WarningNoTitle,
			Message: fmt.Sprintf("%s: no title found on the first pages", displayName(source)),
		})
	}
	if len(record.Outline) == 0 {
		warnings = append(warnings, Warning{
			Code:    WarningNoHeadings,
			Message: fmt.Sprintf("%s: no text is larger than the body text", displayName(source)),
		})
	}
	return warnings
}

func displayName(source string) string {
	if source == "" {
		return "document"
	}
	return source
}
