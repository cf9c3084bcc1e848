package layout

import "github.com/tsawler/outliner/model"

// NormalizeLevels turns raw heading entries into a contiguous hierarchy.
//
// Entries whose text was already seen are dropped (the first occurrence wins,
// even when that occurrence is itself dropped for having no level). Levels
// deeper than H4 are clamped to H4, entries without a valid level are
// dropped, and if no H1 remains every level is shifted up so the shallowest
// level present becomes H1. The input slice is not modified.
func NormalizeLevels(entries []model.HeadingEntry) []model.HeadingEntry {
	cleaned := make([]model.HeadingEntry, 0, len(entries))
	seen := make(map[string]bool, len(entries))

	for _, e := range entries {
		if seen[e.Text] {
			continue
		}
		seen[e.Text] = true

		if e.Level < model.H1 {
			continue
		}
		if e.Level > model.MaxLevel {
			e.Level = model.MaxLevel
		}
		cleaned = append(cleaned, e)
	}

	if len(cleaned) == 0 {
		return cleaned
	}

	shallowest := model.MaxLevel
	for _, e := range cleaned {
		if e.Level < shallowest {
			shallowest = e.Level
		}
	}

	if shift := shallowest - model.H1; shift > 0 {
		for i := range cleaned {
			cleaned[i].Level -= shift
		}
	}

	return cleaned
}
