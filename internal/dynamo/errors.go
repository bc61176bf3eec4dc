package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidArgument indicates a precondition violation such as a
	// non-positive timestep.
	ErrInvalidArgument = errors.New("dynamo: invalid argument")

	// ErrInvalidSpec indicates a physical spec that violates its invariants.
	ErrInvalidSpec = errors.New("dynamo: invalid physical spec")

	// ErrUnknownProfile indicates a robot profile name with no definition.
	ErrUnknownProfile = errors.New("dynamo: unknown robot profile")

	// ErrUnknownIntegrator indicates an integration rule name with no implementation.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrUnknownSupervisor indicates a supervisor name with no implementation.
	ErrUnknownSupervisor = errors.New("dynamo: unknown supervisor")

	// ErrUnknownPreset indicates a scenario preset name with no definition.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrInvalidState indicates a pose that became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// StepError wraps an error with simulation context.
type StepError struct {
	Step    int
	Time    float64
	Agent   int
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f) agent %d: %v", e.Step, e.Time, e.Agent, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
