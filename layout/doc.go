// Package layout infers a document outline from typography alone.
//
// The input is a [model.Document] (pages of blocks of lines of spans, each
// span carrying its font size). Nothing else is consulted: there is no tag
// tree, no bold/italic detection, no semantic analysis.
//
// # Pipeline
//
// The [Analyzer] runs five stages in order:
//
//   - [AggregateDocument] flattens the document into weighted size samples
//     and per-block summaries
//   - [EstimateFontStats] picks the body size (the most common rounded size,
//     weighted by character count) and ranks larger sizes into a [LevelMap]
//   - [DetectTitle] takes the largest text near the top of the first pages
//   - [ClassifyHeadings] keeps larger-than-body blocks that survive the noise
//     filters, once per distinct text
//   - [NormalizeLevels] makes the levels contiguous, starting at H1
//
// Basic use:
//
//	analyzer := layout.NewAnalyzer()
//	record := analyzer.Outline(doc)
//
// For diagnostics:
//
//	result := analyzer.Analyze(doc)
//	fmt.Println(result.BodySize, result.Levels, result.TitleBlocks)
//
// # Configuration
//
// The thresholds are policy knobs on [Config]:
//
//	cfg := layout.DefaultConfig()
//	cfg.TitleTopFraction = 0.5
//	analyzer := layout.NewAnalyzerWithConfig(cfg)
//
// # Block Detection
//
// Renderers that only produce positioned glyph runs use [BlockDetector] to
// build the line and block structure:
//
//	blocks := layout.NewBlockDetector().Detect(fragments, pageHeight)
package layout
