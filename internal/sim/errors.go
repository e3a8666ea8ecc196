package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/plague/internal/plague"
)

var (
	// ErrInvalidSteps indicates a step count outside (0, MaxSteps].
	ErrInvalidSteps = errors.New("sim: invalid step count")

	// ErrNoController indicates a runner built without a controller.
	ErrNoController = errors.New("sim: no controller")
)

// RunError wraps an error with the step at which the run stopped.
type RunError struct {
	Step    int
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("step %d (day %.1f): %v", e.Step, plague.Day(e.Step), e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
