package cpu

// Cycles accumulates the cost of a single Step. It is reset at the
// start of every Step and never carried across calls.
type Cycles struct {
	n int
}

// Reset zeroes the accumulator.
func (c *Cycles) Reset() {
	c.n = 0
}

// Add charges n cycles.
func (c *Cycles) Add(n int) {
	c.n += n
}

// Total returns the cycles charged since the last Reset.
func (c *Cycles) Total() int {
	return c.n
}
