// Package outliner provides a fluent API for inferring the title and heading
// outline of a document from its typography.
//
// Basic usage:
//
//	record, warnings, err := outliner.Open("document.pdf").Outline()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", outliner.FormatWarnings(warnings))
//	}
//
// With options:
//
//	cfg := layout.DefaultConfig()
//	cfg.TitlePages = 1
//	record, _, err := outliner.Open("report.pdf").
//	    Renderer(&reader.MuPDFRenderer{}).
//	    Config(cfg).
//	    Context(ctx).
//	    Outline()
//
// For lower-level access, the reader, layout and export packages can be used
// directly.
package outliner

import (
	"github.com/tsawler/outliner/model"
)

// Open returns an Extractor for the file at filename. Nothing is read until
// a terminal operation such as Outline() is called.
//
// Example:
//
//	record, warnings, err := outliner.Open("document.pdf").Outline()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromDocument creates an Extractor for a document that was already
// rendered. The Renderer and Context options have no effect on it.
//
// Example:
//
//	doc, err := reader.NewNativeRenderer().Render(ctx, "document.pdf")
//	if err != nil {
//	    // handle error
//	}
//	record, _, err := outliner.FromDocument(doc).Outline()
func FromDocument(doc *model.Document) *Extractor {
	return &Extractor{
		doc:      doc,
		hasDoc:   true,
		filename: sourceOf(doc),
		options:  defaultOptions(),
	}
}

func sourceOf(doc *model.Document) string {
	if doc == nil {
		return ""
	}
	return doc.Source
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	doc := outliner.Must(reader.NewNativeRenderer().Render(ctx, "document.pdf"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustOutline is a helper that wraps a call to Outline() or Analysis() and
// panics if the error is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	record := outliner.MustOutline(outliner.Open("document.pdf").Outline())
func MustOutline[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
