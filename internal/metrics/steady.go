package metrics

import (
	"math"

	"github.com/san-kum/plague/internal/plague"
)

const (
	DefaultTolerance = 1e-3
	DefaultWindow    = 10
)

// SteadyState returns the first index from which every remaining sample
// stays within tolerance of the final value, provided at least window
// samples remain. If the curve never settles the last index is returned.
func SteadyState(values []float64, tolerance float64, window int) int {
	n := len(values)
	if n == 0 {
		return 0
	}
	if window < 1 {
		window = 1
	}

	final := values[n-1]
	idx := n - 1
	for i := n - 1; i >= 0; i-- {
		if math.Abs(values[i]-final) > tolerance {
			break
		}
		idx = i
	}

	if n-idx < window {
		return n - 1
	}
	return idx
}

// InfectionCost integrates the rate curve from index 0 through upTo.
func InfectionCost(rates []float64, upTo int) float64 {
	if len(rates) == 0 || upTo < 0 {
		return 0
	}
	if upTo >= len(rates) {
		upTo = len(rates) - 1
	}

	cost := 0.0
	for _, r := range rates[:upTo+1] {
		cost += r * plague.Dt
	}
	return cost
}
