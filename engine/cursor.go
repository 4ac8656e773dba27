package engine

import (
	"go-pianoroll/debug"
	"go-pianoroll/timing"
)

// PageMap assigns a page number to every measure index. Layout is
// many-to-one; measures missing from the provided table get sequential
// pages (measuresPerPage each), a heuristic rather than a guarantee - the
// printed measure numbers it ultimately derives from are not unique.
type PageMap struct {
	pages []int
}

// NewPageMap builds the full measure->page table from the layout's partial
// one.
func NewPageMap(table map[int]int, numMeasures, measuresPerPage int) *PageMap {
	if measuresPerPage <= 0 {
		measuresPerPage = 4
	}
	pages := make([]int, numMeasures)
	misses := 0
	for i := 0; i < numMeasures; i++ {
		if p, ok := table[i]; ok {
			pages[i] = p
		} else {
			pages[i] = i / measuresPerPage
			misses++
		}
	}
	if misses > 0 && len(table) > 0 {
		debug.Log("cursor", "page map missing %d of %d measures, filled sequentially", misses, numMeasures)
	}
	return &PageMap{pages: pages}
}

// Page returns the page for a measure index, clamped into range.
func (pm *PageMap) Page(measureIndex int) int {
	if len(pm.pages) == 0 {
		return 0
	}
	if measureIndex < 0 {
		measureIndex = 0
	}
	if measureIndex >= len(pm.pages) {
		measureIndex = len(pm.pages) - 1
	}
	return pm.pages[measureIndex]
}

// PageCount returns the number of distinct pages.
func (pm *PageMap) PageCount() int {
	count := 0
	for _, p := range pm.pages {
		if p+1 > count {
			count = p + 1
		}
	}
	return count
}

// CursorMapper resolves music time to a score position: measure index,
// seconds into that measure, and page.
type CursorMapper struct {
	measures    *timing.MeasureIndex
	pages       *PageMap
	currentPage int
}

// NewCursorMapper creates a mapper starting on the first page.
func NewCursorMapper(measures *timing.MeasureIndex, pages *PageMap) *CursorMapper {
	return &CursorMapper{
		measures:    measures,
		pages:       pages,
		currentPage: pages.Page(0),
	}
}

// Position resolves music time without touching sink state.
func (c *CursorMapper) Position(musicNow float64) (measureIndex int, intraSec float64, page int) {
	m := c.measures.MeasureForTime(musicNow)
	intraSec = musicNow - m.StartSec
	if intraSec < 0 {
		intraSec = 0
	}
	if intraSec > m.EndSec-m.StartSec {
		intraSec = m.EndSec - m.StartSec
	}
	return m.Index, intraSec, c.pages.Page(m.Index)
}

// CurrentPage returns the page last emitted to the sink.
func (c *CursorMapper) CurrentPage() int {
	return c.currentPage
}

// Update pushes the cursor for this frame. A page change is emitted before
// the cursor position so the sink never places a cursor on a stale page.
func (c *CursorMapper) Update(musicNow float64, sink CursorSink) {
	idx, intra, page := c.Position(musicNow)
	if page != c.currentPage {
		c.currentPage = page
		sink.PageChanged(page)
	}
	sink.SetCursor(idx, intra, page)
}
