package plague

import "math"

const (
	// Dt is the simulated time, in days, covered by one Spread call.
	Dt = 0.1

	// MaxRate bounds the nominal infection rate from above.
	MaxRate = 0.6

	// MaxPercentage bounds the infected percentage from above.
	MaxPercentage = 1.0

	decayCoefficient = 0.5
)

// Step is one sample of the simulation. The three fields always advance
// together, so the history can never fall out of lockstep.
type Step struct {
	Percentage float64
	Rate       float64
	Control    float64
}

// Model is the infection state of a single simulation run. The zero value
// is not usable; call New.
type Model struct {
	steps []Step
}

func New() *Model {
	return &Model{
		steps: []Step{{}},
	}
}

// Decay is the natural disappearance rate at infected percentage p.
func Decay(p float64) float64 {
	return decayCoefficient * p * p
}

// Day converts a step index into simulated days.
func Day(i int) float64 {
	return float64(i) * Dt
}

// Spread applies controlDelta to the current infection rate and advances
// the model by one step of Dt days.
func (m *Model) Spread(controlDelta float64) {
	prev := m.steps[len(m.steps)-1]

	rate := math.Max(0, math.Min(MaxRate, prev.Rate+controlDelta))
	effective := rate - Decay(prev.Percentage)

	// only the upper bound is enforced
	p := math.Min(MaxPercentage, prev.Percentage+effective*Dt)

	m.steps = append(m.steps, Step{
		Percentage: p,
		Rate:       rate,
		Control:    controlDelta,
	})
}

// Status returns the latest infected percentage and the effective rate
// net of decay.
func (m *Model) Status() (percentage, effectiveRate float64) {
	last := m.steps[len(m.steps)-1]
	return last.Percentage, last.Rate - Decay(last.Percentage)
}

func (m *Model) Len() int { return len(m.steps) }

func (m *Model) Last() Step { return m.steps[len(m.steps)-1] }

// Steps returns a copy of the recorded history.
func (m *Model) Steps() []Step {
	c := make([]Step, len(m.steps))
	copy(c, m.steps)
	return c
}

// History returns the recorded history as three independent sequences.
func (m *Model) History() History {
	return NewHistory(m.steps)
}
