// Package export writes outline records as JSON, YAML, Markdown, or HTML and
// validates records against the published output schema.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/outliner/model"
)

// Format is an output format
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists every supported format
var Formats = []Format{FormatJSON, FormatYAML, FormatMarkdown, FormatHTML}

// ParseFormat parses a format name; "md", "yml" and "htm" are accepted aliases
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown output format: %q", s)
	}
}

// Extension returns the file extension used for the format
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	default:
		return ".json"
	}
}

// Write encodes record to w in the given format
func Write(w io.Writer, format Format, record model.OutlineRecord) error {
	record = withOutline(record)

	switch format {
	case FormatJSON:
		return WriteJSON(w, record)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(record)
	case FormatMarkdown:
		return WriteMarkdown(w, record)
	case FormatHTML:
		return WriteHTML(w, record)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// WriteJSON writes the record with four-space indentation and without HTML
// escaping, so non-ASCII text and characters like "&" are written as-is
func WriteJSON(w io.Writer, record model.OutlineRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(withOutline(record))
}

// withOutline makes sure the outline encodes as an array, never null
func withOutline(record model.OutlineRecord) model.OutlineRecord {
	if record.Outline == nil {
		record.Outline = []model.HeadingEntry{}
	}
	return record
}
