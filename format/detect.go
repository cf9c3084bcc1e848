// Package format provides input format detection for the outliner.
package format

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// StextJSON indicates MuPDF structured text output ("mutool draw -F stext.json").
	StextJSON
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case StextJSON:
		return "StextJSON"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case StextJSON:
		return ".json"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return PDF
	case ".json":
		return StextJSON
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading bytes to determine format.
// Returns Unknown if the format cannot be determined from the bytes alone.
func DetectFromMagic(data []byte) Format {
	// PDF magic: %PDF
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return PDF
	}

	if detectStextMagic(data) {
		return StextJSON
	}

	return Unknown
}

// detectStextMagic checks if the data looks like a MuPDF stext JSON object
func detectStextMagic(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(data) == 0 || data[0] != '{' {
		return false
	}
	return bytes.Contains(data, []byte(`"pages"`))
}

// DetectFromReader inspects the first bytes of the content.
func DetectFromReader(r io.Reader) (Format, error) {
	magic := make([]byte, 512)
	n, err := io.ReadFull(r, magic)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return Unknown, err
	}
	return DetectFromMagic(magic[:n]), nil
}

// DetectFile detects the format of the file at path by content, falling back
// to the extension when the content is not conclusive.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	detected, err := DetectFromReader(f)
	if err != nil {
		return Unknown, fmt.Errorf("failed to read file: %w", err)
	}
	if detected != Unknown {
		return detected, nil
	}
	return Detect(path), nil
}
