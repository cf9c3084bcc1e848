package reader

import (
	"errors"
	"fmt"
)

// ErrRender is matched by every error returned from a Renderer
var ErrRender = errors.New("render failed")

// ErrUnsupportedFormat is returned when no renderer handles a file
var ErrUnsupportedFormat = errors.New("unsupported format")

// RenderError describes a failure to turn one file into a document.
// errors.Is(err, ErrRender) is true for every RenderError.
type RenderError struct {
	Path string // Input file
	Op   string // Stage that failed: "open", "parse", "exec", "decode", ...
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Is makes every RenderError match ErrRender
func (e *RenderError) Is(target error) bool {
	return target == ErrRender
}

func renderError(path, op string, err error) error {
	return &RenderError{Path: path, Op: op, Err: err}
}
