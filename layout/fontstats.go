package layout

import (
	"sort"

	"github.com/tsawler/outliner/model"
)

// SizeHistogram counts characters per rounded font size.
// It remembers the order in which sizes were first seen so that ties are
// resolved deterministically.
type SizeHistogram struct {
	counts map[int]int
	order  []int
}

// NewSizeHistogram builds a histogram from weighted samples
func NewSizeHistogram(samples []SizeSample) *SizeHistogram {
	h := &SizeHistogram{counts: make(map[int]int)}
	for _, s := range samples {
		h.Add(s.Size, s.Weight)
	}
	return h
}

// Add records weight characters at the given size
func (h *SizeHistogram) Add(size, weight int) {
	if weight <= 0 {
		return
	}
	if _, ok := h.counts[size]; !ok {
		h.order = append(h.order, size)
	}
	h.counts[size] += weight
}

// Count returns the number of characters recorded at size
func (h *SizeHistogram) Count(size int) int {
	return h.counts[size]
}

// Len returns the number of distinct sizes
func (h *SizeHistogram) Len() int {
	return len(h.order)
}

// Mode returns the size with the most characters. Among equally frequent
// sizes the one seen first wins. ok is false for an empty histogram.
func (h *SizeHistogram) Mode() (size int, ok bool) {
	best := 0
	for _, s := range h.order {
		if c := h.counts[s]; c > best {
			best = c
			size = s
			ok = true
		}
	}
	return size, ok
}

// SizesAbove returns the distinct sizes strictly greater than threshold,
// largest first
func (h *SizeHistogram) SizesAbove(threshold int) []int {
	var sizes []int
	for _, s := range h.order {
		if s > threshold {
			sizes = append(sizes, s)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	return sizes
}

// LevelMap maps rounded font sizes to heading levels
type LevelMap map[int]model.HeadingLevel

// NewLevelMap assigns H1..H4 to the first MaxLevels sizes of a descending list
func NewLevelMap(descending []int) LevelMap {
	m := make(LevelMap)
	for i, size := range descending {
		if i >= MaxLevels {
			break
		}
		m[size] = model.HeadingLevel(i + 1)
	}
	return m
}

// Level returns the level for size. Sizes that did not make the top ranks
// fall back to the deepest level.
func (m LevelMap) Level(size int) model.HeadingLevel {
	if level, ok := m[size]; ok {
		return level
	}
	return model.MaxLevel
}

// Sizes returns the mapped sizes ordered from H1 downward
func (m LevelMap) Sizes() []int {
	sizes := make([]int, 0, len(m))
	for s := range m {
		sizes = append(sizes, s)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	return sizes
}

// FontStats is the document-wide typography summary
type FontStats struct {
	// BodySize is the most common rounded font size
	BodySize int

	// Levels maps heading sizes to levels
	Levels LevelMap
}

// EstimateFontStats derives the body size and the level map from samples.
// With no samples the body size is cfg.DefaultBodySize and the map is empty.
func EstimateFontStats(samples []SizeSample, cfg Config) FontStats {
	h := NewSizeHistogram(samples)
	body, ok := h.Mode()
	if !ok {
		return FontStats{BodySize: cfg.DefaultBodySize, Levels: LevelMap{}}
	}
	return FontStats{
		BodySize: body,
		Levels:   NewLevelMap(h.SizesAbove(body)),
	}
}
