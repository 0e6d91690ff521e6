package ascent

import (
	"fmt"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/viper"
)

// J2000 is the default launch epoch.
var J2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// LaunchConfig is where and when the rocket lifts off.
type LaunchConfig struct {
	Latitude, Longitude float64 // degrees
	Altitude            float64 // m
	InheritRotation     bool    // start with the surface velocity of the pad
	Epoch               time.Time
}

// Scenario is a ready to run simulation read from a configuration file.
type Scenario struct {
	Body     *Body
	Rocket   *Rocket
	Launch   LaunchConfig
	Sim      SimConfig
	Export   ExportConfig
	Stations []*Station
}

// stageEntry is a [[vehicle.stages]] entry. A positive isp selects the Isp thrust model.
type stageEntry struct {
	Name           string  `mapstructure:"name"`
	DryMass        float64 `mapstructure:"dry_mass"`
	PropellantMass float64 `mapstructure:"propellant_mass"`
	BurnTime       float64 `mapstructure:"burn_time"`
	Thrust         float64 `mapstructure:"thrust"`
	Isp            float64 `mapstructure:"isp"`
	ExitDiameter   float64 `mapstructure:"exit_diameter"`
	Diameter       float64 `mapstructure:"diameter"`
	Jettison       bool    `mapstructure:"jettison"`
}

func (s stageEntry) config() StageConfig {
	conf := StageConfig{
		Name:             s.Name,
		DryMass:          s.DryMass,
		PropellantMass:   s.PropellantMass,
		BurnTime:         s.BurnTime,
		Thrust:           ConstantThrust{s.Thrust},
		Diameter:         s.Diameter,
		JettisonAfterUse: s.Jettison,
	}
	if s.Isp > 0 {
		conf.Thrust = NewIspThrust(s.Isp, s.ExitDiameter)
	}
	return conf
}

func setScenarioDefaults(v *viper.Viper) {
	sim := DefaultSimConfig()
	gd := sim.Guidance
	v.SetDefault("body.name", "earth")
	v.SetDefault("vehicle.engines", StaticEngines.String())
	v.SetDefault("vehicle.drag_coefficient", DefaultDragCoefficient)
	v.SetDefault("launch.inherit_rotation", true)
	v.SetDefault("guidance.pitch_start_altitude", gd.PitchStartAltitude)
	v.SetDefault("guidance.pitch_end_altitude", gd.PitchEndAltitude)
	v.SetDefault("guidance.pitch_angle", gd.PitchAngle)
	v.SetDefault("guidance.meco_velocity", gd.MECOVelocity)
	v.SetDefault("guidance.throttle", gd.Throttle)
	v.SetDefault("simulation.step", sim.Step)
	v.SetDefault("simulation.max_iterations", sim.MaxIterations)
	v.SetDefault("simulation.ground_tolerance", sim.GroundTolerance)
	v.SetDefault("simulation.soft_landing_velocity", sim.SoftLandingVelocity)
	v.SetDefault("simulation.record_every", sim.RecordEvery)
	v.SetDefault("simulation.log_every", sim.LogEvery)
	v.SetDefault("simulation.integrator", sim.Integrator.String())
}

// LoadScenario reads the scenario file at path (TOML, YAML or JSON, per its extension).
func LoadScenario(path string, logger kitlog.Logger) (*Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ScenarioFromViper(v, logger)
}

// ScenarioFromViper builds a scenario from an already loaded configuration.
func ScenarioFromViper(v *viper.Viper, logger kitlog.Logger) (*Scenario, error) {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	setScenarioDefaults(v)

	body, err := bodyFromViper(v, logger)
	if err != nil {
		return nil, err
	}

	launch := LaunchConfig{
		Latitude:        v.GetFloat64("launch.latitude"),
		Longitude:       v.GetFloat64("launch.longitude"),
		Altitude:        v.GetFloat64("launch.altitude"),
		InheritRotation: v.GetBool("launch.inherit_rotation"),
		Epoch:           confReadJDEorTime(v, "launch.epoch"),
	}
	position := body.LaunchSite(launch.Latitude*deg2rad, launch.Longitude*deg2rad, launch.Altitude)

	rocket, err := rocketFromViper(v, position)
	if err != nil {
		return nil, err
	}
	if launch.InheritRotation {
		rocket.Velocity = body.SurfaceVelocity(position)
	}

	integ, err := IntegratorFromString(v.GetString("simulation.integrator"))
	if err != nil {
		return nil, err
	}
	sim := SimConfig{
		Step:                v.GetFloat64("simulation.step"),
		MaxIterations:       v.GetUint64("simulation.max_iterations"),
		GroundTolerance:     v.GetFloat64("simulation.ground_tolerance"),
		SoftLandingVelocity: v.GetFloat64("simulation.soft_landing_velocity"),
		RecordEvery:         v.GetUint64("simulation.record_every"),
		LogEvery:            v.GetUint64("simulation.log_every"),
		Integrator:          integ,
		Guidance: GuidanceConfig{
			PitchStartAltitude: v.GetFloat64("guidance.pitch_start_altitude"),
			PitchEndAltitude:   v.GetFloat64("guidance.pitch_end_altitude"),
			PitchAngle:         v.GetFloat64("guidance.pitch_angle"),
			MECOVelocity:       v.GetFloat64("guidance.meco_velocity"),
			Throttle:           v.GetFloat64("guidance.throttle"),
		},
	}
	if err := sim.Validate(); err != nil {
		return nil, err
	}

	var entries []stationEntry
	if err := v.UnmarshalKey("stations", &entries); err != nil {
		return nil, fmt.Errorf("%w: stations: %s", ErrInvalidConfig, err)
	}
	var stations []*Station
	for _, entry := range entries {
		st, err := entry.station(body)
		if err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}

	sc := &Scenario{
		Body:   body,
		Rocket: rocket,
		Launch: launch,
		Sim:    sim,
		Export: ExportConfig{
			CSV:   v.GetString("export.csv"),
			XYZV:  v.GetString("export.xyzv"),
			JSON:  v.GetString("export.json"),
			Epoch: launch.Epoch,
		},
		Stations: stations,
	}
	logger.Log("level", "info", "subsys", "config", "body", body.Name, "rocket", rocket, "lat", launch.Latitude, "lon", launch.Longitude, "step", sim.Step, "integrator", sim.Integrator, "stations", len(stations))
	return sc, nil
}

// Simulator returns a new simulator of this scenario. A scenario can only be run once.
func (s *Scenario) Simulator(logger kitlog.Logger) (*Simulator, error) {
	return NewSimulator(s.Body, s.Rocket, s.Sim, logger)
}

func bodyFromViper(v *viper.Viper, logger kitlog.Logger) (*Body, error) {
	name := v.GetString("body.name")
	custom := v.IsSet("body.radius") || v.IsSet("body.mass") || v.IsSet("body.rotation_period") || v.IsSet("body.atmosphere")
	preset, err := BodyFromName(name, logger)
	if !custom {
		return preset, err
	}
	radius, mass, period := v.GetFloat64("body.radius"), v.GetFloat64("body.mass"), v.GetFloat64("body.rotation_period")
	if preset != nil {
		name = preset.Name
		if !v.IsSet("body.radius") {
			radius = preset.Radius
		}
		if !v.IsSet("body.mass") {
			mass = preset.Mass
		}
		if !v.IsSet("body.rotation_period") {
			period = preset.RotationPeriod
		}
	}
	var atmo *Atmosphere
	if path := v.GetString("body.atmosphere"); path != "" {
		rows, err := LoadAtmosphereTable(path)
		if err != nil {
			return nil, err
		}
		if atmo, err = NewAtmosphere(rows, logger); err != nil {
			return nil, err
		}
	} else if preset != nil {
		atmo = preset.Atmosphere()
	} else {
		return nil, fmt.Errorf("%w: body '%s' requires an atmosphere table", ErrInvalidConfig, name)
	}
	return NewBody(name, radius, mass, period, atmo)
}

func rocketFromViper(v *viper.Viper, position Vector3) (*Rocket, error) {
	engines, err := EngineModelFromString(v.GetString("vehicle.engines"))
	if err != nil {
		return nil, err
	}
	var confs []StageConfig
	var maxForce float64
	if preset := v.GetString("vehicle.preset"); preset != "" {
		if confs, maxForce, err = VehicleStages(preset, v.GetFloat64("vehicle.payload"), engines); err != nil {
			return nil, err
		}
	} else {
		var entries []stageEntry
		if err := v.UnmarshalKey("vehicle.stages", &entries); err != nil {
			return nil, fmt.Errorf("%w: vehicle.stages: %s", ErrInvalidConfig, err)
		}
		for _, entry := range entries {
			confs = append(confs, entry.config())
		}
	}
	if v.IsSet("vehicle.max_force") {
		maxForce = v.GetFloat64("vehicle.max_force")
	}
	stages, err := NewStages(confs)
	if err != nil {
		return nil, err
	}
	rocket, err := NewRocket(stages, maxForce, position, position)
	if err != nil {
		return nil, err
	}
	rocket.DragCoefficient = v.GetFloat64("vehicle.drag_coefficient")
	return rocket, nil
}

// confReadJDEorTime reads a date either as a Julian date or as a time.
func confReadJDEorTime(v *viper.Viper, key string) time.Time {
	if !v.IsSet(key) {
		return J2000
	}
	if jde := v.GetFloat64(key); jde != 0 {
		return julian.JDToTime(jde)
	}
	return v.GetTime(key).UTC()
}
