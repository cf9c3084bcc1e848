package layout

import (
	"github.com/tsawler/outliner/model"
)

// Analysis is the full result of analyzing one document, including the
// intermediate values that explain how the outline was derived.
type Analysis struct {
	// Record is the title and normalized outline
	Record model.OutlineRecord

	// BodySize is the estimated body text size (rounded points)
	BodySize int

	// Levels maps heading font sizes to their raw levels
	Levels LevelMap

	// TitleBlocks are the blocks that formed the title, in document order
	TitleBlocks []model.BlockID

	// RawHeadings are the classifier's entries before normalization
	RawHeadings []model.HeadingEntry

	// Stats contains counts gathered during analysis
	Stats AnalysisStats
}

// AnalysisStats contains counts gathered during analysis
type AnalysisStats struct {
	PageCount   int
	BlockCount  int
	SampleCount int
	CharCount   int
}

// Analyzer runs the outline pipeline: aggregation, font statistics, title
// detection, heading classification, and level normalization.
// An Analyzer holds only its configuration, so it is safe for concurrent use;
// all per-document state lives inside a single Analyze call.
type Analyzer struct {
	config Config
}

// NewAnalyzer creates an analyzer with the default configuration.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(DefaultConfig())
}

// NewAnalyzerWithConfig creates an analyzer with the specified configuration.
func NewAnalyzerWithConfig(config Config) *Analyzer {
	return &Analyzer{config: config}
}

// Config returns the analyzer's configuration
func (a *Analyzer) Config() Config {
	return a.config
}

// Analyze derives the outline of doc. A nil document, or one without pages,
// yields an empty record.
func (a *Analyzer) Analyze(doc *model.Document) *Analysis {
	result := &Analysis{
		Record: model.EmptyRecord(),
		Levels: LevelMap{},
	}

	if doc.PageCount() == 0 {
		result.BodySize = a.config.DefaultBodySize
		return result
	}
	result.Stats.PageCount = doc.PageCount()

	// Step 1: Flatten spans and blocks
	agg := AggregateDocument(doc, a.config)
	result.Stats.BlockCount = len(agg.Blocks)
	result.Stats.SampleCount = len(agg.Samples)
	for _, s := range agg.Samples {
		result.Stats.CharCount += s.Weight
	}

	// Step 2: Body size and level map
	stats := EstimateFontStats(agg.Samples, a.config)
	result.BodySize = stats.BodySize
	result.Levels = stats.Levels

	// Step 3: Title
	title := DetectTitle(agg.Blocks, a.config)
	result.Record.Title = title.Title
	result.TitleBlocks = title.Blocks()

	// Step 4: Headings
	result.RawHeadings = ClassifyHeadings(agg.Blocks, stats, title, a.config)

	// Step 5: Contiguous levels
	result.Record.Outline = NormalizeLevels(result.RawHeadings)

	return result
}

// Outline is shorthand for Analyze(doc).Record
func (a *Analyzer) Outline(doc *model.Document) model.OutlineRecord {
	return a.Analyze(doc).Record
}
