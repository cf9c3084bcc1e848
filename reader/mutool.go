package reader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/tsawler/outliner/model"
)

// MuPDFRenderer renders PDFs by running "mutool draw -F stext.json".
// Failures to start the process are retried; a mutool run that exits with
// an error is not.
type MuPDFRenderer struct {
	// Path is the mutool executable (default: "mutool")
	Path string

	// Attempts is the number of spawn attempts (default: 3)
	Attempts uint

	// Delay is the pause between spawn attempts (default: 200ms)
	Delay time.Duration
}

func (r *MuPDFRenderer) binary() string {
	if r.Path == "" {
		return "mutool"
	}
	return r.Path
}

func (r *MuPDFRenderer) attempts() uint {
	if r.Attempts == 0 {
		return 3
	}
	return r.Attempts
}

func (r *MuPDFRenderer) delay() time.Duration {
	if r.Delay <= 0 {
		return 200 * time.Millisecond
	}
	return r.Delay
}

// Render runs mutool on path and decodes its stext JSON output
func (r *MuPDFRenderer) Render(ctx context.Context, path string) (*model.Document, error) {
	var stdout bytes.Buffer

	err := retry.Do(
		func() error {
			stdout.Reset()
			var stderr bytes.Buffer

			// -q: quiet
			// -F stext.json: structured text as JSON
			// -o -: write to stdout
			cmd := exec.CommandContext(ctx, r.binary(),
				"draw",
				"-q",
				"-F", "stext.json",
				"-o", "-",
				path,
			)
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr

			err := cmd.Run()
			if err == nil {
				return nil
			}

			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return retry.Unrecoverable(fmt.Errorf("mutool failed: %w: %s", err, strings.TrimSpace(stderr.String())))
			}
			if errors.Is(err, exec.ErrNotFound) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(r.attempts()),
		retry.Delay(r.delay()),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, renderError(path, "exec", err)
	}

	doc, err := DecodeStext(&stdout)
	if err != nil {
		return nil, renderError(path, "decode", err)
	}
	doc.Source = path
	return doc, nil
}
