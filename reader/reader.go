package reader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tsawler/outliner/format"
	"github.com/tsawler/outliner/layout"
	"github.com/tsawler/outliner/model"
)

// Renderer turns an input file into a page/block/line/span document
type Renderer interface {
	Render(ctx context.Context, path string) (*model.Document, error)
}

// RendererFunc adapts a function to the Renderer interface
type RendererFunc func(ctx context.Context, path string) (*model.Document, error)

// Render calls f(ctx, path)
func (f RendererFunc) Render(ctx context.Context, path string) (*model.Document, error) {
	return f(ctx, path)
}

// Renderer names accepted by New
const (
	KindNative = "native"
	KindMuPDF  = "mutool"
)

// Options configures the renderers built by New
type Options struct {
	// MutoolPath is the mutool executable (default: "mutool" from PATH)
	MutoolPath string

	// Attempts is the number of times a failed mutool spawn is tried (default: 3)
	Attempts uint

	// Delay is the pause between spawn attempts (default: 200ms)
	Delay time.Duration

	// Blocks configures glyph grouping for the native renderer
	Blocks layout.BlockConfig
}

// DefaultOptions returns the default renderer options
func DefaultOptions() Options {
	return Options{
		MutoolPath: "mutool",
		Attempts:   3,
		Delay:      200 * time.Millisecond,
		Blocks:     layout.DefaultBlockConfig(),
	}
}

// New builds the renderer registered under kind
func New(kind string, opts Options) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindNative, "":
		return NewNativeRendererWithConfig(opts.Blocks), nil
	case KindMuPDF, "mupdf":
		return &MuPDFRenderer{
			Path:     opts.MutoolPath,
			Attempts: opts.Attempts,
			Delay:    opts.Delay,
		}, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q (want %s or %s)", kind, KindNative, KindMuPDF)
	}
}

// ForFile picks the renderer for path: pre-rendered stext JSON is decoded
// directly, PDFs go to pdfRenderer.
func ForFile(path string, pdfRenderer Renderer) (Renderer, error) {
	f, err := format.DetectFile(path)
	if err != nil {
		return nil, renderError(path, "detect", err)
	}

	switch f {
	case format.PDF:
		return pdfRenderer, nil
	case format.StextJSON:
		return StextRenderer{}, nil
	default:
		return nil, renderError(path, "detect", ErrUnsupportedFormat)
	}
}

// Dispatch returns a Renderer that routes every file through ForFile
func Dispatch(pdfRenderer Renderer) Renderer {
	return RendererFunc(func(ctx context.Context, path string) (*model.Document, error) {
		r, err := ForFile(path, pdfRenderer)
		if err != nil {
			return nil, err
		}
		return r.Render(ctx, path)
	})
}
