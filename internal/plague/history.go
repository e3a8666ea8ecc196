package plague

import "fmt"

// History is a read-only snapshot of a run, split into the three curves
// consumed by reporters. All slices have the same length.
type History struct {
	Percentages []float64
	Rates       []float64
	Controls    []float64
}

func NewHistory(steps []Step) History {
	h := History{
		Percentages: make([]float64, len(steps)),
		Rates:       make([]float64, len(steps)),
		Controls:    make([]float64, len(steps)),
	}
	for i, s := range steps {
		h.Percentages[i] = s.Percentage
		h.Rates[i] = s.Rate
		h.Controls[i] = s.Control
	}
	return h
}

func (h History) Len() int { return len(h.Percentages) }

// Days returns the time axis of the history.
func (h History) Days() []float64 {
	days := make([]float64, h.Len())
	for i := range days {
		days[i] = Day(i)
	}
	return days
}

// Steps rebuilds the per-step records.
func (h History) Steps() []Step {
	steps := make([]Step, h.Len())
	for i := range steps {
		steps[i] = Step{
			Percentage: h.Percentages[i],
			Rate:       h.Rates[i],
			Control:    h.Controls[i],
		}
	}
	return steps
}

// Validate reports whether the three curves have equal, non-zero length.
func (h History) Validate() error {
	n := len(h.Percentages)
	if n == 0 {
		return ErrEmptyHistory
	}
	if len(h.Rates) != n || len(h.Controls) != n {
		return fmt.Errorf("%w: percentages=%d rates=%d controls=%d",
			ErrLengthMismatch, n, len(h.Rates), len(h.Controls))
	}
	return nil
}
