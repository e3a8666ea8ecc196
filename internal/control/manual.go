package control

// Manual applies an increment set from outside the loop. Each value is
// applied once and then cleared, so a single key press nudges the rate
// by exactly one increment.
type Manual struct {
	pending float64
}

func NewManual() *Manual {
	return &Manual{}
}

// Push queues an increment for the next step.
func (c *Manual) Push(delta float64) {
	c.pending += delta
}

func (c *Manual) Pending() float64 {
	return c.pending
}

func (c *Manual) Compute(percentage, effectiveRate float64, step int) float64 {
	u := c.pending
	c.pending = 0
	return u
}
