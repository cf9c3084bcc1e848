package outliner

import (
	"context"

	"github.com/tsawler/outliner/layout"
	"github.com/tsawler/outliner/reader"
)

// extractOptions holds configuration for outline extraction.
type extractOptions struct {
	// Renderer for PDF inputs; stext JSON inputs are always decoded directly
	renderer reader.Renderer

	// Heuristic knobs
	config layout.Config

	// Context bounding rendering
	ctx context.Context
}

// defaultOptions returns the default extraction options.
func defaultOptions() extractOptions {
	return extractOptions{
		renderer: nil, // nil means the native renderer
		config:   layout.DefaultConfig(),
		ctx:      context.Background(),
	}
}

// clone creates a deep copy of extractOptions.
func (o extractOptions) clone() extractOptions {
	newOpts := extractOptions{
		renderer: o.renderer,
		config:   o.config,
		ctx:      o.ctx,
	}

	// Deep copy labels slice
	if o.config.MetadataLabels != nil {
		newOpts.config.MetadataLabels = make([]string, len(o.config.MetadataLabels))
		copy(newOpts.config.MetadataLabels, o.config.MetadataLabels)
	}

	return newOpts
}

// pdfRenderer returns the configured renderer or the native default.
func (o extractOptions) pdfRenderer() reader.Renderer {
	if o.renderer == nil {
		return reader.NewNativeRenderer()
	}
	return o.renderer
}
