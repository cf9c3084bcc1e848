package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/outliner/model"
	"github.com/tsawler/outliner/text"
)

// BlockConfig holds configuration for block detection
type BlockConfig struct {
	// LineHeightTolerance is the Y-distance tolerance for grouping fragments into lines
	// as a fraction of fragment height (default: 0.5)
	LineHeightTolerance float64

	// HorizontalGapThreshold is the minimum horizontal gap to consider fragments separate
	// as a fraction of average font size (default: 3.0)
	HorizontalGapThreshold float64

	// VerticalGapThreshold is the minimum vertical gap to start a new block
	// as a fraction of average line height (default: 1.5)
	VerticalGapThreshold float64

	// WordGapRatio is the gap between two fragments, as a fraction of their
	// height, above which a space is inserted when they are joined (default: 0.1)
	WordGapRatio float64

	// SizeTolerance is the largest font size difference for two neighbouring
	// fragments to share a span (default: 0.01)
	SizeTolerance float64

	// MinBlockWidth is the minimum width for a valid block (default: 1 point)
	MinBlockWidth float64

	// MinBlockHeight is the minimum height for a valid block (default: 1 point)
	MinBlockHeight float64

	// MergeOverlappingBlocks controls whether overlapping blocks should be merged
	MergeOverlappingBlocks bool

	// DetectRTL joins lines written mostly in right-to-left scripts from
	// right to left, so their span text is in reading order
	DetectRTL bool
}

// DefaultBlockConfig returns sensible default configuration
func DefaultBlockConfig() BlockConfig {
	return BlockConfig{
		LineHeightTolerance:    0.5,
		HorizontalGapThreshold: 3.0,
		VerticalGapThreshold:   1.5,
		WordGapRatio:           0.1,
		SizeTolerance:          0.01,
		MinBlockWidth:          1.0,
		MinBlockHeight:         1.0,
		MergeOverlappingBlocks: true,
		DetectRTL:              true,
	}
}

// BlockDetector groups positioned glyph runs into the page/block/line/span
// tree used by the outline pipeline.
//
// Fragments are in PDF user space (origin bottom-left, Y is the baseline).
// The emitted blocks use page space with the origin at the top-left.
type BlockDetector struct {
	config BlockConfig
}

// NewBlockDetector creates a new block detector with default configuration
func NewBlockDetector() *BlockDetector {
	return &BlockDetector{
		config: DefaultBlockConfig(),
	}
}

// NewBlockDetectorWithConfig creates a block detector with custom configuration
func NewBlockDetectorWithConfig(config BlockConfig) *BlockDetector {
	return &BlockDetector{
		config: config,
	}
}

// fragmentBlock is a block under construction, still in PDF user space
type fragmentBlock struct {
	lines [][]text.TextFragment
	bbox  pdfBox
}

// pdfBox is a rectangle in PDF user space (Y grows upward)
type pdfBox struct {
	left, bottom, right, top float64
}

func (b pdfBox) width() float64  { return b.right - b.left }
func (b pdfBox) height() float64 { return b.top - b.bottom }

// Detect groups fragments into blocks, top to bottom, and converts them to
// page space using pageHeight
func (d *BlockDetector) Detect(fragments []text.TextFragment, pageHeight float64) []model.Block {
	if len(fragments) == 0 {
		return nil
	}

	// Step 1: Group fragments into lines
	lines := d.groupIntoLines(fragments)

	// Step 2: Group lines into blocks based on vertical gaps
	blocks := d.groupLinesIntoBlocks(lines)

	// Step 3: Optionally merge overlapping blocks
	if d.config.MergeOverlappingBlocks {
		blocks = d.mergeOverlappingBlocks(blocks)
	}

	// Step 4: Sort blocks in reading order
	d.sortBlocksInReadingOrder(blocks)

	// Step 5: Validate blocks
	blocks = d.validateBlocks(blocks)
	if len(blocks) == 0 {
		return nil
	}

	result := make([]model.Block, len(blocks))
	for i, b := range blocks {
		result[i] = d.toModelBlock(b, i, pageHeight)
	}
	return result
}

// isBlank reports whether every fragment in the block is whitespace
func (b fragmentBlock) isBlank() bool {
	for _, line := range b.lines {
		for _, f := range line {
			if strings.TrimSpace(f.Text) != "" {
				return false
			}
		}
	}
	return true
}

// groupIntoLines groups fragments into horizontal lines based on Y position
func (d *BlockDetector) groupIntoLines(fragments []text.TextFragment) [][]text.TextFragment {
	// Sort fragments by Y (descending, top to bottom in PDF coords) then X
	sorted := make([]text.TextFragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		yDiff := sorted[i].Y - sorted[j].Y
		tolerance := (sorted[i].Height + sorted[j].Height) / 2 * d.config.LineHeightTolerance
		if math.Abs(yDiff) > tolerance {
			return yDiff > 0
		}
		return sorted[i].X < sorted[j].X
	})

	var lines [][]text.TextFragment
	var currentLine []text.TextFragment

	for _, frag := range sorted {
		if len(currentLine) == 0 {
			currentLine = append(currentLine, frag)
			continue
		}

		lastFrag := currentLine[len(currentLine)-1]
		tolerance := (frag.Height + lastFrag.Height) / 2 * d.config.LineHeightTolerance

		if math.Abs(frag.Y-lastFrag.Y) <= tolerance {
			currentLine = append(currentLine, frag)
		} else {
			lines = append(lines, currentLine)
			currentLine = []text.TextFragment{frag}
		}
	}

	if len(currentLine) > 0 {
		lines = append(lines, currentLine)
	}

	for i := range lines {
		line := lines[i]
		sort.SliceStable(line, func(a, b int) bool {
			return line[a].X < line[b].X
		})
	}

	return lines
}

// groupLinesIntoBlocks groups lines into blocks based on vertical gaps
func (d *BlockDetector) groupLinesIntoBlocks(lines [][]text.TextFragment) []fragmentBlock {
	if len(lines) == 0 {
		return nil
	}

	var blocks []fragmentBlock
	current := fragmentBlock{lines: [][]text.TextFragment{lines[0]}}

	for i := 1; i < len(lines); i++ {
		prevLine := lines[i-1]
		currLine := lines[i]

		prev, curr := lineBox(prevLine), lineBox(currLine)

		// Distance between bottom of prev and top of curr
		gap := prev.bottom - curr.top
		threshold := (lineHeight(prevLine) + lineHeight(currLine)) / 2 * d.config.VerticalGapThreshold

		hasHorizontalOverlap := prev.right > curr.left && curr.right > prev.left

		largeHorizontalGap := horizontalGap(prev, curr) > averageFontSize(prevLine)*d.config.HorizontalGapThreshold

		// A change of font size always starts a new block, so a heading
		// never shares a block with the paragraph under it
		sizeChange := math.Abs(averageFontSize(prevLine)-averageFontSize(currLine)) > d.config.SizeTolerance

		if gap > threshold || !hasHorizontalOverlap || largeHorizontalGap || sizeChange {
			blocks = append(blocks, finalizeBlock(current))
			current = fragmentBlock{lines: [][]text.TextFragment{currLine}}
		} else {
			current.lines = append(current.lines, currLine)
		}
	}

	blocks = append(blocks, finalizeBlock(current))
	return blocks
}

// finalizeBlock computes the bounding box of a block
func finalizeBlock(block fragmentBlock) fragmentBlock {
	for i, line := range block.lines {
		box := lineBox(line)
		if i == 0 {
			block.bbox = box
			continue
		}
		block.bbox = unionBox(block.bbox, box)
	}
	return block
}

// horizontalGap returns 0 if the boxes overlap horizontally, otherwise the
// distance between them
func horizontalGap(a, b pdfBox) float64 {
	if a.right > b.left && b.right > a.left {
		return 0
	}
	if b.left > a.right {
		return b.left - a.right
	}
	return a.left - b.right
}

// mergeOverlappingBlocks merges blocks that significantly overlap
func (d *BlockDetector) mergeOverlappingBlocks(blocks []fragmentBlock) []fragmentBlock {
	if len(blocks) <= 1 {
		return blocks
	}

	merged := make([]fragmentBlock, 0, len(blocks))
	used := make([]bool, len(blocks))

	for i := 0; i < len(blocks); i++ {
		if used[i] {
			continue
		}

		current := blocks[i]
		for j := i + 1; j < len(blocks); j++ {
			if used[j] {
				continue
			}
			if blocksOverlap(current.bbox, blocks[j].bbox) {
				current = mergeBlocks(current, blocks[j])
				used[j] = true
			}
		}

		merged = append(merged, current)
	}

	return merged
}

// blocksOverlap reports whether the intersection exceeds 30% of the smaller box
func blocksOverlap(a, b pdfBox) bool {
	left := max(a.left, b.left)
	right := min(a.right, b.right)
	bottom := max(a.bottom, b.bottom)
	top := min(a.top, b.top)

	if left >= right || bottom >= top {
		return false
	}

	intersection := (right - left) * (top - bottom)
	smaller := min(a.width()*a.height(), b.width()*b.height())
	return intersection > smaller*0.3
}

// mergeBlocks merges two blocks into one, keeping lines top to bottom
func mergeBlocks(a, b fragmentBlock) fragmentBlock {
	lines := make([][]text.TextFragment, 0, len(a.lines)+len(b.lines))
	lines = append(lines, a.lines...)
	lines = append(lines, b.lines...)

	sort.SliceStable(lines, func(i, j int) bool {
		return lineBox(lines[i]).top > lineBox(lines[j]).top
	})

	return finalizeBlock(fragmentBlock{lines: lines})
}

// sortBlocksInReadingOrder sorts blocks in top-to-bottom, left-to-right order
func (d *BlockDetector) sortBlocksInReadingOrder(blocks []fragmentBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		yDiff := blocks[i].bbox.top - blocks[j].bbox.top
		if math.Abs(yDiff) > 10 { // Tolerance for "same row"
			return yDiff > 0
		}
		return blocks[i].bbox.left < blocks[j].bbox.left
	})
}

// validateBlocks filters out empty and degenerate blocks
func (d *BlockDetector) validateBlocks(blocks []fragmentBlock) []fragmentBlock {
	var valid []fragmentBlock
	for _, block := range blocks {
		if len(block.lines) == 0 || block.isBlank() {
			continue
		}
		if block.bbox.width() < d.config.MinBlockWidth ||
			block.bbox.height() < d.config.MinBlockHeight {
			continue
		}
		valid = append(valid, block)
	}
	return valid
}

// toModelBlock converts a block to page space. Neighbouring fragments of the
// same size on a line are joined into one span.
func (d *BlockDetector) toModelBlock(b fragmentBlock, index int, pageHeight float64) model.Block {
	block := model.Block{
		Index: index,
		BBox:  toPageRect(b.bbox, pageHeight),
	}

	for _, line := range b.lines {
		ml := model.Line{BBox: toPageRect(lineBox(line), pageHeight)}

		rtl := d.config.DetectRTL && lineDirection(line) == text.RTL
		if rtl {
			line = reversed(line)
		}

		var sb strings.Builder
		start := 0
		flush := func(end int) {
			run := line[start:end]
			ml.Spans = append(ml.Spans, model.Span{
				Text: sb.String(),
				Size: run[0].FontSize,
				BBox: toPageRect(lineBox(run), pageHeight),
			})
			sb.Reset()
		}

		for i, frag := range line {
			if i > 0 {
				prev := line[i-1]
				if math.Abs(frag.FontSize-prev.FontSize) > d.config.SizeTolerance {
					flush(i)
					start = i
				} else if needsSpace(prev, frag, d.config.WordGapRatio, rtl) {
					sb.WriteByte(' ')
				}
			}
			sb.WriteString(frag.Text)
		}
		flush(len(line))

		block.Lines = append(block.Lines, ml)
	}

	return block
}

// needsSpace reports whether a word gap separates prev and next that neither
// fragment already spells out. In a right-to-left line next lies to the left
// of prev.
func needsSpace(prev, next text.TextFragment, ratio float64, rtl bool) bool {
	if strings.HasSuffix(prev.Text, " ") || strings.HasPrefix(next.Text, " ") {
		return false
	}
	gap := next.X - prev.Right()
	if rtl {
		gap = prev.X - next.Right()
	}
	return gap > next.Height*ratio
}

// lineDirection returns the dominant direction of the line's text
func lineDirection(line []text.TextFragment) text.Direction {
	var sb strings.Builder
	for _, f := range line {
		sb.WriteString(f.Text)
	}
	return text.DetectDirection(sb.String())
}

// reversed returns a reversed copy of line
func reversed(line []text.TextFragment) []text.TextFragment {
	out := make([]text.TextFragment, len(line))
	for i, f := range line {
		out[len(line)-1-i] = f
	}
	return out
}

// toPageRect flips a PDF user space box into top-left page space
func toPageRect(b pdfBox, pageHeight float64) model.Rect {
	return model.NewRect(b.left, pageHeight-b.top, b.right, pageHeight-b.bottom)
}

// lineBox returns the bounding box of a run of fragments
func lineBox(line []text.TextFragment) pdfBox {
	if len(line) == 0 {
		return pdfBox{}
	}
	box := pdfBox{left: line[0].X, bottom: line[0].Y, right: line[0].Right(), top: line[0].Top()}
	for _, f := range line[1:] {
		box = unionBox(box, pdfBox{left: f.X, bottom: f.Y, right: f.Right(), top: f.Top()})
	}
	return box
}

func unionBox(a, b pdfBox) pdfBox {
	return pdfBox{
		left:   min(a.left, b.left),
		bottom: min(a.bottom, b.bottom),
		right:  max(a.right, b.right),
		top:    max(a.top, b.top),
	}
}

// lineHeight returns the average height of fragments in a line
func lineHeight(line []text.TextFragment) float64 {
	if len(line) == 0 {
		return 0
	}
	total := 0.0
	for _, f := range line {
		total += f.Height
	}
	return total / float64(len(line))
}

// averageFontSize returns the average font size in a line
func averageFontSize(line []text.TextFragment) float64 {
	if len(line) == 0 {
		return 12.0 // Default
	}
	total := 0.0
	for _, f := range line {
		total += f.FontSize
	}
	return total / float64(len(line))
}
