package layout

import (
	"math"

	"github.com/tsawler/outliner/model"
	"github.com/tsawler/outliner/text"
)

// SizeSample is one span's contribution to the font size histogram
type SizeSample struct {
	// Size is the rounded font size
	Size int

	// Weight is the number of runes in the trimmed span text
	Weight int
}

// BlockSummary is the per-block view used by the title detector and the
// heading classifier
type BlockSummary struct {
	// ID identifies the block within the document
	ID model.BlockID

	// MaxSize is the largest rounded span size in the block
	MaxSize int

	// Text is the canonical text of the block (trimmed spans joined with
	// spaces, whitespace collapsed)
	Text string

	// BBox is the block's bounding box
	BBox model.Rect

	// PageHeight is the height of the page the block sits on
	PageHeight float64
}

// Aggregate is the flattened view of a document
type Aggregate struct {
	// Samples in document order, one per span with non-blank text
	Samples []SizeSample

	// Blocks that carry at least one span, in document order
	Blocks []BlockSummary
}

// RoundSize rounds a font size to the integer grouping key.
// Halves round to even, so 12.5 and 11.5 both become 12.
func RoundSize(size float64) int {
	return int(math.RoundToEven(size))
}

// AggregateDocument flattens the page/block/line/span tree of doc.
// Blocks without lines or without spans are skipped.
func AggregateDocument(doc *model.Document, cfg Config) Aggregate {
	var agg Aggregate
	if doc == nil {
		return agg
	}

	for pageIdx, page := range doc.Pages {
		for blockIdx, block := range page.Blocks {
			spans := block.Spans()
			if len(spans) == 0 {
				continue
			}

			pieces := make([]string, 0, len(spans))
			maxSize := math.Inf(-1)
			for _, s := range spans {
				if w := text.RuneCount(s.Text); w > 0 {
					agg.Samples = append(agg.Samples, SizeSample{Size: RoundSize(s.Size), Weight: w})
				}
				if s.Size > maxSize {
					maxSize = s.Size
				}
				pieces = append(pieces, s.Text)
			}

			agg.Blocks = append(agg.Blocks, BlockSummary{
				ID:         model.BlockID{Page: pageIdx, Block: blockIdx},
				MaxSize:    RoundSize(maxSize),
				Text:       text.Canonicalize(text.JoinSpans(pieces), cfg.UnicodeNormalize),
				BBox:       block.BBox,
				PageHeight: page.Height,
			})
		}
	}

	return agg
}

// Words returns the words of the block text
func (b BlockSummary) Words() []string {
	return text.Words(b.Text)
}
