package ascent

import (
	"fmt"
	"math"
)

// StageConfig is the static description of a stage.
type StageConfig struct {
	Name             string
	DryMass          float64     // kg
	PropellantMass   float64     // kg
	BurnTime         float64     // s at full throttle until the propellant is used up
	Thrust           ThrustModel // nil means no engine
	Diameter         float64     // m
	JettisonAfterUse bool
}

// Stage is one propulsion and propellant unit of a rocket.
type Stage struct {
	name                  string
	dryMass               float64
	propellantMass        float64
	propellantMassAtStart float64
	burnRate              float64 // kg/s at full throttle
	thrustModel           ThrustModel
	diameter              float64
	throttle              float64
	jettisonAfterUse      bool
	jettisoned            bool
}

// NewStage returns a new stage with a closed throttle.
func NewStage(conf StageConfig) (*Stage, error) {
	checks := []struct {
		name string
		val  float64
	}{{"dry mass", conf.DryMass}, {"propellant mass", conf.PropellantMass}, {"burn time", conf.BurnTime}, {"diameter", conf.Diameter}}
	for _, c := range checks {
		if c.val < 0 || math.IsNaN(c.val) {
			return nil, fmt.Errorf("%w: %s: %s is %g", ErrInvalidStage, conf.Name, c.name, c.val)
		}
	}
	if conf.DryMass <= 0 {
		return nil, fmt.Errorf("%w: %s has no dry mass", ErrInvalidStage, conf.Name)
	}
	model := conf.Thrust
	if model == nil {
		model = ConstantThrust{}
	}
	s := &Stage{
		name:                  conf.Name,
		dryMass:               conf.DryMass,
		propellantMass:        conf.PropellantMass,
		propellantMassAtStart: conf.PropellantMass,
		thrustModel:           model,
		diameter:              conf.Diameter,
		jettisonAfterUse:      conf.JettisonAfterUse,
	}
	if conf.BurnTime != 0 {
		s.burnRate = conf.PropellantMass / conf.BurnTime
	}
	return s, nil
}

// NewStages builds a stage per configuration, bottom stage first.
func NewStages(confs []StageConfig) ([]*Stage, error) {
	stages := make([]*Stage, len(confs))
	for i, conf := range confs {
		s, err := NewStage(conf)
		if err != nil {
			return nil, err
		}
		stages[i] = s
	}
	return stages, nil
}

func (s *Stage) String() string {
	return fmt.Sprintf("%s (dry %.0f kg, propellant %.0f/%.0f kg, %s)", s.name, s.dryMass, s.propellantMass, s.propellantMassAtStart, s.thrustModel)
}

// Name returns the human readable name of the stage.
func (s *Stage) Name() string { return s.name }

// DryMass returns the mass without propellant.
func (s *Stage) DryMass() float64 { return s.dryMass }

// PropellantMass returns the propellant left.
func (s *Stage) PropellantMass() float64 { return s.propellantMass }

// PropellantMassAtStart returns the propellant loaded at construction.
func (s *Stage) PropellantMassAtStart() float64 { return s.propellantMassAtStart }

// Mass returns the dry mass plus the propellant left.
func (s *Stage) Mass() float64 { return s.dryMass + s.propellantMass }

// BurnRate returns the mass flow at full throttle.
func (s *Stage) BurnRate() float64 { return s.burnRate }

// ThrustModel returns the thrust model of the stage.
func (s *Stage) ThrustModel() ThrustModel { return s.thrustModel }

// Diameter returns the diameter in meters.
func (s *Stage) Diameter() float64 { return s.diameter }

// DragSurface returns the cross section of the stage.
func (s *Stage) DragSurface() float64 {
	return math.Pi * math.Pow(s.diameter/2, 2)
}

// Throttle returns the throttle in [0, 1].
func (s *Stage) Throttle() float64 { return s.throttle }

// SetThrottle sets the throttle, bounded to [0, 1].
func (s *Stage) SetThrottle(throttle float64) {
	s.throttle = clamp01(throttle)
}

// JettisonAfterUse returns whether this stage is dropped once empty.
func (s *Stage) JettisonAfterUse() bool { return s.jettisonAfterUse }

// Jettisoned returns whether this stage was dropped.
func (s *Stage) Jettisoned() bool { return s.jettisoned }

// Depleted returns whether the propellant is used up.
func (s *Stage) Depleted() bool {
	return s.propellantMass <= 0
}

// MassFlow returns the current propellant consumption in kg/s.
func (s *Stage) MassFlow() float64 {
	if s.Depleted() {
		return 0
	}
	return s.throttle * s.burnRate
}

// Thrust returns the thrust in Newtons for the external pressure pExternal in Pascal.
func (s *Stage) Thrust(pExternal float64) float64 {
	if s.Depleted() {
		return 0
	}
	return s.thrustModel.thrust(s.throttle, s.MassFlow(), pExternal)
}

// Burn consumes the propellant for dt seconds and returns the propellant left.
func (s *Stage) Burn(dt float64) float64 {
	s.propellantMass -= s.MassFlow() * dt
	if s.propellantMass < 0 {
		s.propellantMass = 0
	}
	return s.propellantMass
}
