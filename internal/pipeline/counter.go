package pipeline

// FaceCounter tallies faces observed so far for the preview overlay.
// It is display-only: the exported sequence never reads it, and it is
// never reconciled with the sequence's true face total. It resets only
// when a new Runner is constructed.
type FaceCounter struct {
	total int
}

// Add increments the tally. Negative increments are ignored, keeping
// the total monotonically non-decreasing.
func (c *FaceCounter) Add(n int) {
	if n > 0 {
		c.total += n
	}
}

// Total returns the running tally.
func (c *FaceCounter) Total() int {
	return c.total
}
