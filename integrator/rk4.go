package integrator

import "fmt"

// RK4 is the classical fourth order Runge Kutta integrator.
type RK4 struct {
	X0         float64    // The initial x0.
	StepSize   float64    // The step size.
	Integrator Integrable // What is to be integrated.
}

// NewRK4 returns a new RK4 integrator instance.
func NewRK4(x0 float64, stepSize float64, inte Integrable) *RK4 {
	if stepSize <= 0 {
		panic("config StepSize must be positive")
	}
	if inte == nil {
		panic("config Integrator may not be nil")
	}
	return &RK4{X0: x0, StepSize: stepSize, Integrator: inte}
}

// derivative evaluates the Integrable and checks the dimension of the result.
func (r *RK4) derivative(x float64, state []float64) ([]float64, error) {
	f := r.Integrator.Func(x, state)
	if len(f) != len(state) {
		return nil, fmt.Errorf("derivative has %d components for a state of %d", len(f), len(state))
	}
	return f, nil
}

// Solve integrates until the Integrable stops.
// Returns the number of iterations performed and the last X_i, or an error.
func (r *RK4) Solve() (uint64, float64, error) {
	h := r.StepSize
	iterNum := uint64(0)
	xi := r.X0
	for !r.Integrator.Stop(iterNum) {
		state := r.Integrator.GetState()
		probe := make([]float64, len(state))
		// Each stage probes the state along the previous slope.
		stages := []struct {
			dx, weight float64
		}{{0, 1}, {h / 2, 2}, {h / 2, 2}, {h, 1}}
		sum := make([]float64, len(state))
		var k []float64
		for s, stage := range stages {
			for i := range state {
				probe[i] = state[i]
				if s > 0 {
					probe[i] += k[i] * stage.dx
				}
			}
			var err error
			if k, err = r.derivative(xi+stage.dx, probe); err != nil {
				return iterNum, xi, err
			}
			for i, y := range k {
				sum[i] += stage.weight * y
			}
		}
		newState := make([]float64, len(state))
		for i := range state {
			newState[i] = state[i] + h/6*sum[i]
		}
		r.Integrator.SetState(iterNum, newState)

		xi += h
		iterNum++
	}
	return iterNum, xi, nil
}
