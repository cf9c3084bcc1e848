package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/outliner/model"
	"github.com/tsawler/outliner/text"
)

// TitleResult is the outcome of title detection
type TitleResult struct {
	// Title is the space-joined text of the title blocks, or "" when no block
	// qualified
	Title string

	// Consumed holds the blocks that make up the title. The heading
	// classifier never looks at them.
	Consumed map[model.BlockID]bool
}

// Blocks returns the consumed block IDs in document order
func (r TitleResult) Blocks() []model.BlockID {
	ids := make([]model.BlockID, 0, len(r.Consumed))
	for id := range r.Consumed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Page != ids[j].Page {
			return ids[i].Page < ids[j].Page
		}
		return ids[i].Block < ids[j].Block
	})
	return ids
}

type titleCandidate struct {
	size int
	top  float64
	text string
	id   model.BlockID
}

// DetectTitle picks the title from the largest text near the top of the
// first pages. Candidates are ranked by size (largest first) and then by
// vertical position (topmost first); every candidate within
// cfg.TitleSizeTolerance of the largest size joins the title in rank order.
func DetectTitle(blocks []BlockSummary, cfg Config) TitleResult {
	result := TitleResult{Consumed: make(map[model.BlockID]bool)}

	var candidates []titleCandidate
	for _, b := range blocks {
		if b.ID.Page >= cfg.TitlePages {
			continue
		}
		if b.BBox.Top() > b.PageHeight*cfg.TitleTopFraction {
			continue
		}
		if b.Text == "" || !hasDistinctWords(b.Words(), cfg.MinDistinctWordRatio) {
			continue
		}
		candidates = append(candidates, titleCandidate{
			size: b.MaxSize,
			top:  b.BBox.Top(),
			text: b.Text,
			id:   b.ID,
		})
	}

	if len(candidates) == 0 {
		return result
	}

	// Stable so that equal (size, top) pairs keep document order
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].size != candidates[j].size {
			return candidates[i].size > candidates[j].size
		}
		return candidates[i].top < candidates[j].top
	})

	topSize := candidates[0].size
	parts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if absInt(c.size-topSize) > cfg.TitleSizeTolerance {
			break
		}
		parts = append(parts, c.text)
		result.Consumed[c.id] = true
	}

	result.Title = strings.TrimSpace(strings.Join(parts, " "))
	return result
}

// hasDistinctWords rejects repeated-token text such as watermarks: the number
// of distinct words must reach floor(len(words) * ratio)
func hasDistinctWords(words []string, ratio float64) bool {
	required := int(math.Floor(float64(len(words)) * ratio))
	return text.DistinctWords(words) >= required
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
