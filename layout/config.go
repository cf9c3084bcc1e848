package layout

import (
	"errors"
	"fmt"
)

// MaxLevels is the number of distinct heading sizes that receive their own
// level. Larger sizes beyond this rank share the deepest level.
const MaxLevels = 4

// ErrInvalidConfig is returned by Config.Validate
var ErrInvalidConfig = errors.New("invalid layout config")

// Config holds the policy knobs of the outline heuristic
type Config struct {
	// TitlePages is the number of leading pages searched for the title
	// Default: 2
	TitlePages int

	// TitleTopFraction is the fraction of the page height, measured from the
	// top, in which a title block must start
	// Default: 0.6
	TitleTopFraction float64

	// TitleSizeTolerance is the maximum difference (in rounded points) between
	// the largest title candidate and the other candidates merged into the title
	// Default: 1
	TitleSizeTolerance int

	// MinDistinctWordRatio rejects text whose distinct word count is below
	// floor(words * ratio); it filters watermarks and repeated tokens
	// Default: 0.5
	MinDistinctWordRatio float64

	// MinMeanWordLength rejects heading candidates whose mean word length in
	// runes is below this value; it filters glyph runs and page furniture
	// Default: 3
	MinMeanWordLength float64

	// DefaultBodySize is used when a document has no text at all
	// Default: 10
	DefaultBodySize int

	// MetadataLabels are first words that mark a block as a form label
	// rather than a heading (compared case-insensitively)
	// Default: address, phone, email, website, contact, date, fax, url
	MetadataLabels []string

	// UnicodeNormalize applies NFKC before whitespace collapse
	// Default: false
	UnicodeNormalize bool
}

// DefaultConfig returns the tuned default configuration
func DefaultConfig() Config {
	return Config{
		TitlePages:           2,
		TitleTopFraction:     0.6,
		TitleSizeTolerance:   1,
		MinDistinctWordRatio: 0.5,
		MinMeanWordLength:    3,
		DefaultBodySize:      10,
		MetadataLabels: []string{
			"address", "phone", "email", "website",
			"contact", "date", "fax", "url",
		},
		UnicodeNormalize: false,
	}
}

// Validate checks that every knob is within its meaningful range
func (c Config) Validate() error {
	if c.TitlePages < 0 {
		return fmt.Errorf("%w: title pages must not be negative, got %d", ErrInvalidConfig, c.TitlePages)
	}
	if c.TitleTopFraction < 0 || c.TitleTopFraction > 1 {
		return fmt.Errorf("%w: title top fraction must be within [0,1], got %v", ErrInvalidConfig, c.TitleTopFraction)
	}
	if c.TitleSizeTolerance < 0 {
		return fmt.Errorf("%w: title size tolerance must not be negative, got %d", ErrInvalidConfig, c.TitleSizeTolerance)
	}
	if c.MinDistinctWordRatio < 0 || c.MinDistinctWordRatio > 1 {
		return fmt.Errorf("%w: distinct word ratio must be within [0,1], got %v", ErrInvalidConfig, c.MinDistinctWordRatio)
	}
	if c.MinMeanWordLength < 0 {
		return fmt.Errorf("%w: mean word length must not be negative, got %v", ErrInvalidConfig, c.MinMeanWordLength)
	}
	if c.DefaultBodySize <= 0 {
		return fmt.Errorf("%w: default body size must be positive, got %d", ErrInvalidConfig, c.DefaultBodySize)
	}
	return nil
}

// metadataLabelSet returns the labels as a lookup set
func (c Config) metadataLabelSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.MetadataLabels))
	for _, l := range c.MetadataLabels {
		set[normalizeLabel(l)] = struct{}{}
	}
	return set
}
