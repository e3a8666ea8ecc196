package control

// Schedule replays a fixed sequence of increments, one per step, then
// returns zero once the sequence is exhausted.
type Schedule struct {
	deltas []float64
}

func NewSchedule(deltas []float64) *Schedule {
	c := make([]float64, len(deltas))
	copy(c, deltas)
	return &Schedule{deltas: c}
}

func (s *Schedule) Len() int { return len(s.deltas) }

func (s *Schedule) Compute(percentage, effectiveRate float64, step int) float64 {
	if step < 0 || step >= len(s.deltas) {
		return 0
	}
	return s.deltas[step]
}
