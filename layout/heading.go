package layout

import (
	"strings"

	"github.com/tsawler/outliner/model"
	"github.com/tsawler/outliner/text"
)

// HeadingClassifier decides which blocks are headings and at which level.
// It keeps the set of texts already accepted, so one classifier serves
// exactly one document.
type HeadingClassifier struct {
	config Config
	stats  FontStats
	labels map[string]struct{}
	seen   map[string]bool
}

// NewHeadingClassifier creates a classifier for one document
func NewHeadingClassifier(stats FontStats, config Config) *HeadingClassifier {
	return &HeadingClassifier{
		config: config,
		stats:  stats,
		labels: config.metadataLabelSet(),
		seen:   make(map[string]bool),
	}
}

// Classify returns the heading entry for b, or false when b is body text,
// noise, or a repeat of an earlier heading
func (c *HeadingClassifier) Classify(b BlockSummary) (model.HeadingEntry, bool) {
	if b.Text == "" || c.seen[b.Text] {
		return model.HeadingEntry{}, false
	}

	words := b.Words()
	if len(words) == 0 || c.isMetadataLabel(words[0]) {
		return model.HeadingEntry{}, false
	}
	if !hasDistinctWords(words, c.config.MinDistinctWordRatio) {
		return model.HeadingEntry{}, false
	}
	if text.MeanWordLength(words) < c.config.MinMeanWordLength {
		return model.HeadingEntry{}, false
	}

	if b.MaxSize <= c.stats.BodySize {
		return model.HeadingEntry{}, false
	}

	c.seen[b.Text] = true
	return model.HeadingEntry{
		Level: c.stats.Levels.Level(b.MaxSize),
		Text:  b.Text,
		Page:  b.ID.Page,
	}, true
}

// isMetadataLabel reports whether word is a form label such as "Email:"
func (c *HeadingClassifier) isMetadataLabel(word string) bool {
	_, ok := c.labels[normalizeLabel(word)]
	return ok
}

// ClassifyHeadings walks blocks in document order and returns the raw,
// un-normalized heading entries. Title blocks are skipped.
func ClassifyHeadings(blocks []BlockSummary, stats FontStats, title TitleResult, cfg Config) []model.HeadingEntry {
	classifier := NewHeadingClassifier(stats, cfg)

	var headings []model.HeadingEntry
	for _, b := range blocks {
		if title.Consumed[b.ID] {
			continue
		}
		if entry, ok := classifier.Classify(b); ok {
			headings = append(headings, entry)
		}
	}
	return headings
}

// normalizeLabel lowercases s and strips surrounding colons and spaces
func normalizeLabel(s string) string {
	return strings.TrimSpace(strings.Trim(strings.ToLower(s), ": "))
}
