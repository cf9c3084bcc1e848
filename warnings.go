package outliner

import (
	"strings"
)

// WarningCode identifies a kind of warning
type WarningCode string

const (
	// WarningNoText means the document has no extractable text, which
	// usually means a scanned document
	WarningNoText WarningCode = "no_text"

	// WarningNoTitle means no block qualified as the title
	WarningNoTitle WarningCode = "no_title"

	// WarningNoHeadings means no text is larger than the body text
	WarningNoHeadings WarningCode = "no_headings"
)

// Warning describes a degenerate but valid result. Warnings never replace
// errors: a document with warnings still produced a record.
type Warning struct {
	Code    WarningCode
	Message string
}

func (w Warning) String() string {
	return w.Message
}

// FormatWarnings joins warning messages into one line
func FormatWarnings(warnings []Warning) string {
	msgs := make([]string, len(warnings))
	for i, w := range warnings {
		msgs[i] = w.Message
	}
	return strings.Join(msgs, "; ")
}

// HasWarning reports whether warnings contains code
func HasWarning(warnings []Warning, code WarningCode) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
