package report

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/plague/internal/plague"
)

var (
	ErrSteadyStateRange = errors.New("report: steady-state index out of range")
	ErrNonFinite        = errors.New("report: non-finite value in history")
)

type Reporter interface {
	Report(h plague.History, steadyState int, cost float64) error
}

// curve is one panel of a chart.
type curve struct {
	title  string
	ylabel string
	values []float64
}

func curves(h plague.History) []curve {
	return []curve{
		{"infected population percentage over days", "infected population %", h.Percentages},
		{"infection rate over days", "infection rate (%/day)", h.Rates},
		{"infection rate control over days", "infection rate control (%/day)", h.Controls},
	}
}

func check(h plague.History, steadyState int) error {
	if err := h.Validate(); err != nil {
		return err
	}
	if steadyState < 0 || steadyState >= h.Len() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrSteadyStateRange, steadyState, h.Len())
	}
	for _, c := range curves(h) {
		if i := firstNonFinite(c.values); i >= 0 {
			return fmt.Errorf("%w: %s at day %.1f is %v", ErrNonFinite, c.ylabel, plague.Day(i), c.values[i])
		}
	}
	return nil
}

// firstNonFinite returns the index of the first NaN or Inf, or -1.
func firstNonFinite(values []float64) int {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}
