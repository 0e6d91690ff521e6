package integrator

import "fmt"

// SemiImplicitEuler is the symplectic Euler integrator of a second order system.
// The state is laid out as [q..., q'...]: the velocities are updated first from the
// accelerations, and the positions from the updated velocities.
type SemiImplicitEuler struct {
	X0         float64    // The initial x0.
	StepSize   float64    // The step size.
	Integrator Integrable // What is to be integrated.
}

// NewSemiImplicitEuler returns a new SemiImplicitEuler integrator instance.
func NewSemiImplicitEuler(x0 float64, stepSize float64, inte Integrable) *SemiImplicitEuler {
	if stepSize <= 0 {
		panic("config StepSize must be positive")
	}
	if inte == nil {
		panic("config Integrator may not be nil")
	}
	return &SemiImplicitEuler{X0: x0, StepSize: stepSize, Integrator: inte}
}

// Solve integrates until the Integrable stops.
// Returns the number of iterations performed and the last X_i, or an error.
func (e *SemiImplicitEuler) Solve() (uint64, float64, error) {
	iterNum := uint64(0)
	xi := e.X0
	for !e.Integrator.Stop(iterNum) {
		state := e.Integrator.GetState()
		if len(state)%2 != 0 {
			return iterNum, xi, fmt.Errorf("state of odd length %d is not a second order system", len(state))
		}
		f := e.Integrator.Func(xi, state)
		if len(f) != len(state) {
			return iterNum, xi, fmt.Errorf("derivative has %d components for a state of %d", len(f), len(state))
		}
		n := len(state) / 2
		newState := make([]float64, len(state))
		for i := 0; i < n; i++ {
			newState[n+i] = state[n+i] + f[n+i]*e.StepSize
			newState[i] = state[i] + newState[n+i]*e.StepSize
		}
		e.Integrator.SetState(iterNum, newState)

		xi += e.StepSize
		iterNum++
	}
	return iterNum, xi, nil
}
