package tui

// CursorView is the CursorSink: it remembers the latest score position so
// the header can show measure/page and flag page turns.
type CursorView struct {
	measureIndex int
	intraSec     float64
	page         int

	// pageFlash counts frames left to highlight a fresh page turn.
	pageFlash int
}

// NewCursorView creates a cursor view on page 0.
func NewCursorView() *CursorView {
	return &CursorView{}
}

// SetCursor implements engine.CursorSink.
func (c *CursorView) SetCursor(measureIndex int, intraMeasureSec float64, page int) {
	c.measureIndex = measureIndex
	c.intraSec = intraMeasureSec
	c.page = page
}

// PageChanged implements engine.CursorSink. It always arrives before the
// SetCursor for the new page.
func (c *CursorView) PageChanged(page int) {
	c.page = page
	c.pageFlash = 30
}

// Position returns the latest cursor state.
func (c *CursorView) Position() (measureIndex int, intraSec float64, page int) {
	return c.measureIndex, c.intraSec, c.page
}

// TickFlash advances the page-turn highlight and reports whether it is lit.
func (c *CursorView) TickFlash() bool {
	if c.pageFlash > 0 {
		c.pageFlash--
		return true
	}
	return false
}
