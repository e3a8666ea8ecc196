package plague

import "errors"

// The model itself never fails. These are returned when a History is
// rebuilt from outside data, e.g. a stored run.
var (
	ErrEmptyHistory = errors.New("plague: empty history")

	ErrLengthMismatch = errors.New("plague: history curves differ in length")
)
