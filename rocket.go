package ascent

import (
	"fmt"
	"math"
	"strings"
)

// DefaultDragCoefficient is the drag coefficient of a rocket. Really this depends on the velocity.
const DefaultDragCoefficient = 0.30

// Rocket is a stack of stages, index 0 being the bottom stage which is burnt first.
// Only the active stage produces thrust. Stages below the active one have been jettisoned.
type Rocket struct {
	Position        Vector3 // m, from the center of the body
	Velocity        Vector3 // m/s
	Orientation     Vector3 // unit vector of the thrust direction
	DragCoefficient float64
	stages          []*Stage
	current         int
	throttle        float64
	maxForce        float64
}

// NewRocket returns a new rocket with a closed throttle. The orientation is normalized.
func NewRocket(stages []*Stage, maxStructuralForce float64, position, orientation Vector3) (*Rocket, error) {
	if len(stages) == 0 {
		return nil, ErrNoStages
	}
	for i, s := range stages {
		if s == nil {
			return nil, fmt.Errorf("%w: stage %d is nil", ErrInvalidStage, i)
		}
		if s.Jettisoned() {
			return nil, fmt.Errorf("%w: stage %d (%s) already jettisoned", ErrInvalidStage, i, s.Name())
		}
	}
	if orientation.IsZero() {
		return nil, fmt.Errorf("%w: zero orientation", ErrInvalidConfig)
	}
	if maxStructuralForce <= 0 {
		return nil, fmt.Errorf("%w: max structural force must be positive", ErrInvalidConfig)
	}
	cpy := make([]*Stage, len(stages))
	copy(cpy, stages)
	return &Rocket{
		Position:        position,
		Orientation:     orientation.Unit(),
		DragCoefficient: DefaultDragCoefficient,
		stages:          cpy,
		maxForce:        maxStructuralForce,
	}, nil
}

func (r *Rocket) String() string {
	names := make([]string, len(r.stages))
	for i, s := range r.stages {
		names[i] = s.Name()
		if s.Jettisoned() {
			names[i] = "[" + names[i] + "]"
		}
	}
	return fmt.Sprintf("rocket %s, stage %d, %.0f kg", strings.Join(names, " / "), r.current, r.Mass())
}

// Stages returns the stages of the rocket, bottom first.
func (r *Rocket) Stages() []*Stage {
	return r.stages
}

// ActiveStage returns the stage currently burning.
func (r *Rocket) ActiveStage() *Stage {
	return r.stages[r.current]
}

// CurrentStageIndex returns the index of the active stage.
func (r *Rocket) CurrentStageIndex() int {
	return r.current
}

// MaxStructuralForce returns the force (N) above which the vehicle breaks up.
func (r *Rocket) MaxStructuralForce() float64 {
	return r.maxForce
}

// Throttle returns the commanded throttle.
func (r *Rocket) Throttle() float64 {
	return r.throttle
}

// SetThrottle commands the throttle of the active stage, bounded to [0, 1].
func (r *Rocket) SetThrottle(throttle float64) {
	r.throttle = clamp01(throttle)
	r.ActiveStage().SetThrottle(r.throttle)
}

// Mass returns the mass of all the stages still attached.
func (r *Rocket) Mass() float64 {
	mass := 0.0
	for _, s := range r.stages {
		if !s.Jettisoned() {
			mass += s.Mass()
		}
	}
	return mass
}

// DragArea returns the widest cross section of the stages still attached.
func (r *Rocket) DragArea() float64 {
	area := 0.0
	for _, s := range r.stages {
		if !s.Jettisoned() {
			area = math.Max(area, s.DragSurface())
		}
	}
	return area
}

// Drag returns the drag force for the air density (kg/m³), opposite to the velocity.
func (r *Rocket) Drag(density float64) Vector3 {
	return r.dragAt(density, r.Velocity)
}

func (r *Rocket) dragAt(density float64, velocity Vector3) Vector3 {
	v := velocity.Norm()
	if v == 0 {
		return Vector3{}
	}
	f := -0.5 * density * v * v * r.DragCoefficient * r.DragArea()
	return velocity.Scaled(f / v)
}

// Thrust returns the thrust of the active stage along the orientation.
func (r *Rocket) Thrust(pExternal float64) Vector3 {
	return r.Orientation.Scaled(r.ActiveStage().Thrust(pExternal))
}

// Burn consumes the propellant of the active stage for dt seconds and returns what is left of it.
func (r *Rocket) Burn(dt float64) float64 {
	return r.ActiveStage().Burn(dt)
}

// Advance jettisons the active stage when it is empty, configured to be dropped and not the last
// stage. The next stage becomes active with the commanded throttle. Returns whether it staged.
func (r *Rocket) Advance() bool {
	active := r.ActiveStage()
	if !active.Depleted() || !active.JettisonAfterUse() || r.current == len(r.stages)-1 {
		return false
	}
	active.jettisoned = true
	r.current++
	r.ActiveStage().SetThrottle(r.throttle)
	return true
}
