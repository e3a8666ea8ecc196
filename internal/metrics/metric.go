package metrics

import (
	"math"

	"github.com/san-kum/plague/internal/plague"
)

// Metric accumulates a scalar over the steps of a run.
type Metric interface {
	Name() string
	Observe(s plague.Step, index int)
	Value() float64
	Reset()
}

type PeakPercentage struct {
	peak float64
	seen bool
}

func NewPeakPercentage() *PeakPercentage { return &PeakPercentage{} }

func (m *PeakPercentage) Name() string { return "peak_percentage" }

func (m *PeakPercentage) Observe(s plague.Step, index int) {
	if !m.seen || s.Percentage > m.peak {
		m.peak = s.Percentage
		m.seen = true
	}
}

func (m *PeakPercentage) Value() float64 { return m.peak }

func (m *PeakPercentage) Reset() {
	m.peak = 0
	m.seen = false
}

type ControlEffort struct {
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort { return &ControlEffort{} }

func (c *ControlEffort) Name() string { return "control_effort" }

// Observe skips index 0; the initial sample carries no applied control.
func (c *ControlEffort) Observe(s plague.Step, index int) {
	if index == 0 {
		return
	}
	c.sum += math.Abs(s.Control)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// CumulativeRate is the running integral of the nominal rate.
type CumulativeRate struct {
	total float64
}

func NewCumulativeRate() *CumulativeRate { return &CumulativeRate{} }

func (c *CumulativeRate) Name() string { return "cumulative_rate" }

func (c *CumulativeRate) Observe(s plague.Step, index int) {
	c.total += s.Rate * plague.Dt
}

func (c *CumulativeRate) Value() float64 { return c.total }

func (c *CumulativeRate) Reset() { c.total = 0 }

func Defaults() []Metric {
	return []Metric{
		NewPeakPercentage(),
		NewControlEffort(),
		NewCumulativeRate(),
	}
}
