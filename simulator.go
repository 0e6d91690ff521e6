package ascent

import (
	"errors"
	"fmt"
	"math"
	"strings"

	kitlog "github.com/go-kit/kit/log"
	"github.com/launchsim/ascent/integrator"
)

// IntegratorKind selects the stepper of a simulation.
type IntegratorKind uint8

const (
	// SemiImplicitEuler updates the velocity then the position from the new velocity.
	SemiImplicitEuler IntegratorKind = iota + 1
	// RK4 is the classical Runge Kutta. Mass, throttle and staging stay piecewise constant per step.
	RK4
)

func (k IntegratorKind) String() string {
	switch k {
	case SemiImplicitEuler:
		return "euler"
	case RK4:
		return "rk4"
	default:
		panic(fmt.Errorf("unknown integrator %d", k))
	}
}

// IntegratorFromString returns the integrator from its name.
func IntegratorFromString(name string) (IntegratorKind, error) {
	switch strings.ToLower(name) {
	case "euler", "semi-implicit-euler", "symplectic", "":
		return SemiImplicitEuler, nil
	case "rk4":
		return RK4, nil
	default:
		return 0, fmt.Errorf("%w: unknown integrator '%s'", ErrInvalidConfig, name)
	}
}

// Outcome is how a run terminated.
type Outcome uint8

const (
	// StructuralFailure means the sum of the force magnitudes exceeded what the airframe holds.
	StructuralFailure Outcome = iota + 1
	// HardLanding means the rocket went through the ground faster than the soft landing velocity.
	HardLanding
	// SoftLanding means the rocket touched the ground slowly enough.
	SoftLanding
	// IterationLimitReached means the run was still flying after the maximum number of steps.
	IterationLimitReached
	// Aborted means the per step callback requested to stop.
	Aborted
)

func (o Outcome) String() string {
	switch o {
	case StructuralFailure:
		return "structural_failure"
	case HardLanding:
		return "hard_landing"
	case SoftLanding:
		return "soft_landing"
	case IterationLimitReached:
		return "iteration_limit_reached"
	case Aborted:
		return "aborted"
	default:
		panic(fmt.Errorf("unknown outcome %d", o))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// RUD returns whether the vehicle was lost.
func (o Outcome) RUD() bool {
	return o == StructuralFailure || o == HardLanding
}

// SimConfig configures a run.
type SimConfig struct {
	Step                float64 // s
	MaxIterations       uint64
	GroundTolerance     float64 // m below the surface before ground contact is declared
	SoftLandingVelocity float64 // m/s
	RecordEvery         uint64  // keep one record every that many steps
	LogEvery            uint64  // log the status every that many steps, 0 to disable
	Integrator          IntegratorKind
	Guidance            GuidanceConfig
}

// DefaultSimConfig returns a 10 ms step run of at most 500k steps.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Step:                0.01,
		MaxIterations:       500000,
		GroundTolerance:     1,
		SoftLandingVelocity: 5,
		RecordEvery:         1,
		LogEvery:            5000,
		Integrator:          SemiImplicitEuler,
		Guidance:            DefaultGuidanceConfig(),
	}
}

// Validate returns an error if the run cannot be performed.
func (c SimConfig) Validate() error {
	if !(c.Step > 0) {
		return fmt.Errorf("%w: step must be positive", ErrInvalidConfig)
	}
	if c.MaxIterations == 0 {
		return fmt.Errorf("%w: max iterations must be positive", ErrInvalidConfig)
	}
	if c.GroundTolerance < 0 || c.SoftLandingVelocity < 0 {
		return fmt.Errorf("%w: negative ground tolerance or soft landing velocity", ErrInvalidConfig)
	}
	if c.RecordEvery == 0 {
		return fmt.Errorf("%w: record every must be at least 1", ErrInvalidConfig)
	}
	if c.Integrator != SemiImplicitEuler && c.Integrator != RK4 {
		return fmt.Errorf("%w: unknown integrator %d", ErrInvalidConfig, c.Integrator)
	}
	return c.Guidance.Validate()
}

// Result is the final state of a run.
type Result struct {
	Outcome    Outcome        `json:"outcome"`
	Step       uint64         `json:"step"`
	Time       float64        `json:"time"`
	Position   Vector3        `json:"position"`
	Velocity   Vector3        `json:"velocity"`
	Altitude   float64        `json:"altitude"`
	Mass       float64        `json:"mass"`
	StageIndex int            `json:"stage"`
	MaxForce   float64        `json:"max_force"`
	MECO       bool           `json:"meco"`
	Orbit      *Orbit         `json:"orbit,omitempty"` // nil for a purely vertical trajectory
	Telemetry  []Record       `json:"telemetry,omitempty"`
	Staging    []StagingEvent `json:"staging,omitempty"`
}

func (r *Result) String() string {
	return fmt.Sprintf("%s at step %d (t=%.2fs, alt=%.3fkm, v=%.1fm/s, mass=%.0fkg)", r.Outcome, r.Step, r.Time, r.Altitude/1e3, r.Velocity.Norm(), r.Mass)
}

// forceSample are the forces of the first evaluation of a step.
type forceSample struct {
	thrust, drag, weight Vector3
}

func (f forceSample) magnitudes() float64 {
	return f.thrust.Norm() + f.drag.Norm() + f.weight.Norm()
}

// Simulator flies a Rocket about a Body. It implements integrator.Integrable.
// A Simulator performs a single run: the rocket it flies is mutated.
type Simulator struct {
	Body   *Body
	Rocket *Rocket
	Sinks  []TelemetrySink   // receive every retained record
	OnStep func(Record) bool // called after every step, return false to abort

	conf     SimConfig
	guidance *Guidance
	logger   kitlog.Logger

	step     uint64
	time     float64
	sampled  bool
	sample   forceSample
	maxForce float64
	outcome  Outcome
	done     bool
	ran      bool
	err      error
	trace    Trace
	staging  []StagingEvent
}

// NewSimulator returns a new Simulator.
func NewSimulator(body *Body, rocket *Rocket, conf SimConfig, logger kitlog.Logger) (*Simulator, error) {
	if body == nil || rocket == nil {
		return nil, fmt.Errorf("%w: missing body or rocket", ErrInvalidConfig)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	guidance, err := NewGuidance(conf.Guidance, logger)
	if err != nil {
		return nil, err
	}
	return &Simulator{Body: body, Rocket: rocket, conf: conf, guidance: guidance, logger: logger}, nil
}

// Config returns the configuration of this run.
func (s *Simulator) Config() SimConfig {
	return s.conf
}

// LogStatus logs the status of the flight.
func (s *Simulator) LogStatus() {
	s.logger.Log("level", "info", "subsys", "sim", "step", s.step, "t", s.time, "alt(km)", s.Body.Altitude(s.Rocket.Position)/1e3, "v(m/s)", s.Rocket.Velocity.Norm(), "mass(kg)", s.Rocket.Mass(), "stage", s.Rocket.CurrentStageIndex())
}

// Run flies the rocket until a termination condition is met.
// Outcomes such as a structural failure are not errors: an error is only returned when the
// physics cannot be evaluated.
func (s *Simulator) Run() (*Result, error) {
	if s.ran {
		return nil, errors.New("ascent: simulator already ran")
	}
	s.ran = true
	s.logger.Log("level", "notice", "subsys", "sim", "status", "lift off", "rocket", s.Rocket, "integrator", s.conf.Integrator, "step", s.conf.Step)

	var solver integrator.Solver
	switch s.conf.Integrator {
	case RK4:
		solver = integrator.NewRK4(0, s.conf.Step, s)
	default:
		solver = integrator.NewSemiImplicitEuler(0, s.conf.Step, s)
	}
	if _, _, err := solver.Solve(); err != nil {
		return nil, &SimulationError{Step: s.step, Time: s.time, Err: err}
	}
	if s.err != nil {
		s.logger.Log("level", "critical", "subsys", "sim", "status", "failed", "err", s.err)
		return nil, s.err
	}

	res := &Result{
		Outcome:    s.outcome,
		Step:       s.step,
		Time:       s.time,
		Position:   s.Rocket.Position,
		Velocity:   s.Rocket.Velocity,
		Altitude:   s.Body.Altitude(s.Rocket.Position),
		Mass:       s.Rocket.Mass(),
		StageIndex: s.Rocket.CurrentStageIndex(),
		MaxForce:   s.maxForce,
		MECO:       s.guidance.MECO(),
		Telemetry:  s.trace.Records,
		Staging:    s.staging,
	}
	if orbit, err := NewOrbitFromRV(res.Position, res.Velocity, s.Body); err == nil {
		res.Orbit = orbit
		s.logger.Log("level", "info", "subsys", "sim", "orbit", orbit)
	}
	lvl := "notice"
	if s.outcome.RUD() {
		lvl = "critical"
	}
	s.logger.Log("level", lvl, "subsys", "sim", "status", "finished", "outcome", s.outcome, "step", s.step, "t", s.time, "alt(km)", res.Altitude/1e3, "v(m/s)", res.Velocity.Norm(), "max force(N)", s.maxForce)
	return res, nil
}

// GetState returns the position and velocity as [x y z vx vy vz].
func (s *Simulator) GetState() []float64 {
	p, v := s.Rocket.Position, s.Rocket.Velocity
	return []float64{p.X, p.Y, p.Z, v.X, v.Y, v.Z}
}

// Stop terminates the run or orients the rocket for step i.
func (s *Simulator) Stop(i uint64) bool {
	if s.done || s.err != nil {
		return true
	}
	if i >= s.conf.MaxIterations {
		s.outcome = IterationLimitReached
		s.done = true
		return true
	}
	s.guidance.Orient(s.Body, s.Rocket)
	return false
}

// Func returns the derivative of the state at time t. The forces of the first evaluation of a
// step are the ones the structural check and the telemetry use.
func (s *Simulator) Func(t float64, state []float64) []float64 {
	fDot := make([]float64, 6)
	if s.err != nil {
		return fDot
	}
	pos := Vector3{state[0], state[1], state[2]}
	vel := Vector3{state[3], state[4], state[5]}
	pressure, density, err := s.Body.AirPressureAndDensity(pos)
	if err != nil {
		s.err = &SimulationError{Step: s.step + 1, Time: t, Err: err}
		return fDot
	}
	mass := s.Rocket.Mass()
	f := forceSample{
		thrust: s.Rocket.Thrust(pressure),
		drag:   s.Rocket.dragAt(density, vel),
		weight: s.Body.GravitationalAcceleration(pos).Scaled(mass),
	}
	if !s.sampled {
		s.sample = f
		s.sampled = true
	}
	acc := f.thrust.Plus(f.drag).Plus(f.weight).Scaled(1 / mass)
	fDot[0], fDot[1], fDot[2] = vel.X, vel.Y, vel.Z
	fDot[3], fDot[4], fDot[5] = acc.X, acc.Y, acc.Z
	return fDot
}

// SetState applies the integrated state of iteration i then checks the termination conditions,
// burns the propellant and stages.
func (s *Simulator) SetState(i uint64, state []float64) {
	s.sampled = false
	if s.err != nil {
		return
	}
	s.step = i + 1
	s.time = float64(s.step) * s.conf.Step
	for _, v := range state {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			s.err = &SimulationError{Step: s.step, Time: s.time, Err: ErrDiverged}
			return
		}
	}
	s.Rocket.Position = Vector3{state[0], state[1], state[2]}
	s.Rocket.Velocity = Vector3{state[3], state[4], state[5]}

	forces := s.sample.magnitudes()
	s.maxForce = math.Max(s.maxForce, forces)
	if forces > s.Rocket.MaxStructuralForce() {
		s.outcome = StructuralFailure
		s.done = true
		s.logger.Log("level", "critical", "subsys", "sim", "RUD", "structural failure", "step", s.step, "force(N)", forces, "max(N)", s.Rocket.MaxStructuralForce())
		return
	}

	if s.Rocket.Position.Norm() < s.Body.Radius-s.conf.GroundTolerance {
		s.done = true
		if speed := s.Rocket.Velocity.Norm(); speed <= s.conf.SoftLandingVelocity {
			s.outcome = SoftLanding
			s.logger.Log("level", "notice", "subsys", "sim", "landed", s.Body.Name, "step", s.step, "v(m/s)", speed)
		} else {
			s.outcome = HardLanding
			s.logger.Log("level", "critical", "subsys", "sim", "RUD", "impact", "step", s.step, "v(m/s)", speed)
		}
		return
	}

	from := s.Rocket.CurrentStageIndex()
	s.Rocket.Burn(s.conf.Step)
	if s.Rocket.Advance() {
		ev := StagingEvent{Step: s.step, Time: s.time, From: from, To: s.Rocket.CurrentStageIndex(), Name: s.Rocket.Stages()[from].Name()}
		s.staging = append(s.staging, ev)
		s.logger.Log("level", "notice", "subsys", "prop", "jettisoned", ev.Name, "step", s.step, "t", s.time, "alt(km)", s.Body.Altitude(s.Rocket.Position)/1e3)
	}

	rec := s.record()
	if s.step%s.conf.RecordEvery == 0 {
		s.trace.Record(rec)
		for _, sink := range s.Sinks {
			sink.Record(rec)
		}
	}
	if s.conf.LogEvery > 0 && s.step%s.conf.LogEvery == 0 {
		s.LogStatus()
	}
	if s.OnStep != nil && !s.OnStep(rec) {
		s.outcome = Aborted
		s.done = true
		s.logger.Log("level", "warning", "subsys", "sim", "status", "aborted", "step", s.step)
	}
}

func (s *Simulator) record() Record {
	_, _, φ := s.Rocket.Position.Spherical()
	return Record{
		Step:        s.step,
		Time:        s.time,
		Altitude:    s.Body.Altitude(s.Rocket.Position) / 1e3,
		Drag:        s.sample.drag.Norm() / 1e3,
		Thrust:      s.sample.thrust.Norm() / 1e3,
		Velocity:    s.Rocket.Velocity.Norm(),
		Azimuth:     Rad2deg(φ),
		Mass:        s.Rocket.Mass(),
		StageIndex:  s.Rocket.CurrentStageIndex(),
		Throttle:    s.Rocket.Throttle(),
		Position:    s.Rocket.Position,
		VelocityVec: s.Rocket.Velocity,
	}
}
