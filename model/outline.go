package model

import (
	"fmt"
	"strconv"
	"strings"
)

// HeadingLevel represents the hierarchical level of a heading (H1-H4)
type HeadingLevel int

const (
	LevelUnknown HeadingLevel = iota
	H1                        // Top-level section
	H2                        // Section
	H3                        // Subsection
	H4                        // Deepest level; larger sizes beyond the fourth rank collapse here
)

// MaxLevel is the deepest level an outline may contain
const MaxLevel = H4

// String returns the label used in outline records ("H1".."H4").
// Out-of-range levels render as "H<n>" so that they stay visible in logs.
func (l HeadingLevel) String() string {
	if l == LevelUnknown {
		return "unknown"
	}
	return "H" + strconv.Itoa(int(l))
}

// Valid reports whether l is one of H1..H4
func (l HeadingLevel) Valid() bool {
	return l >= H1 && l <= MaxLevel
}

// ParseHeadingLevel parses labels such as "H2" or "h2"
func ParseHeadingLevel(s string) (HeadingLevel, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || (s[0] != 'H' && s[0] != 'h') {
		return LevelUnknown, fmt.Errorf("invalid heading level %q", s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 1 {
		return LevelUnknown, fmt.Errorf("invalid heading level %q", s)
	}
	return HeadingLevel(n), nil
}

// MarshalText implements encoding.TextMarshaler
func (l HeadingLevel) MarshalText() ([]byte, error) {
	if l == LevelUnknown {
		return nil, fmt.Errorf("cannot marshal unknown heading level")
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (l *HeadingLevel) UnmarshalText(b []byte) error {
	level, err := ParseHeadingLevel(string(b))
	if err != nil {
		return err
	}
	*l = level
	return nil
}

// HeadingEntry is one detected heading
type HeadingEntry struct {
	Level HeadingLevel `json:"level" yaml:"level"`
	Text  string       `json:"text" yaml:"text"`
	Page  int          `json:"page" yaml:"page"` // 0-based
}

// OutlineRecord is the structure inferred for one document
type OutlineRecord struct {
	Title   string         `json:"title" yaml:"title"`
	Outline []HeadingEntry `json:"outline" yaml:"outline"`
}

// EmptyRecord returns the record produced for documents without usable text
func EmptyRecord() OutlineRecord {
	return OutlineRecord{Title: "", Outline: []HeadingEntry{}}
}

// HeadingCount returns the number of outline entries
func (r OutlineRecord) HeadingCount() int {
	return len(r.Outline)
}

// IsEmpty reports whether the record has neither a title nor headings
func (r OutlineRecord) IsEmpty() bool {
	return r.Title == "" && len(r.Outline) == 0
}

// AtLevel returns the entries at the given level in outline order
func (r OutlineRecord) AtLevel(level HeadingLevel) []HeadingEntry {
	var result []HeadingEntry
	for _, h := range r.Outline {
		if h.Level == level {
			result = append(result, h)
		}
	}
	return result
}
