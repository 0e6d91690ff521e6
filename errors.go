package ascent

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyAtmosphere is returned when an atmosphere without any row is queried.
	ErrEmptyAtmosphere = errors.New("ascent: atmosphere table is empty")
	// ErrUnsortedAtmosphere is returned when atmosphere rows are not ascending by altitude.
	ErrUnsortedAtmosphere = errors.New("ascent: atmosphere rows not sorted by altitude")
	// ErrInvalidStage is returned for a stage configuration with negative or missing values.
	ErrInvalidStage = errors.New("ascent: invalid stage configuration")
	// ErrNoStages is returned when a rocket is built without any stage.
	ErrNoStages = errors.New("ascent: rocket requires at least one stage")
	// ErrInvalidBody is returned for a body with a non positive radius or mass.
	ErrInvalidBody = errors.New("ascent: invalid body")
	// ErrInvalidConfig is returned for unusable simulation or scenario parameters.
	ErrInvalidConfig = errors.New("ascent: invalid configuration")
	// ErrDiverged is returned when the state becomes NaN or infinite.
	ErrDiverged = errors.New("ascent: state diverged")
)

// SimulationError wraps an error raised during a run with the step it happened at.
type SimulationError struct {
	Step uint64
	Time float64
	Err  error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.3fs): %s", e.Step, e.Time, e.Err)
}

func (e *SimulationError) Unwrap() error {
	return e.Err
}
