package ascent

import (
	"fmt"
	"strings"
)

// EngineModel selects how the engines of a vehicle family compute their thrust.
type EngineModel uint8

const (
	// StaticEngines use the published sea level thrust whatever the altitude.
	StaticEngines EngineModel = iota + 1
	// VacuumIspEngines derive the thrust from the vacuum Isp and the nozzle exit back pressure.
	VacuumIspEngines
)

func (m EngineModel) String() string {
	switch m {
	case StaticEngines:
		return "static"
	case VacuumIspEngines:
		return "isp"
	default:
		panic(fmt.Errorf("unknown engine model %d", m))
	}
}

// EngineModelFromString returns the engine model from its name.
func EngineModelFromString(name string) (EngineModel, error) {
	switch strings.ToLower(name) {
	case "static", "":
		return StaticEngines, nil
	case "isp", "vacuum":
		return VacuumIspEngines, nil
	default:
		return 0, fmt.Errorf("%w: unknown engine model '%s'", ErrInvalidConfig, name)
	}
}

// Payload fairing diameters of the Atlas V family, in meters.
const (
	Fairing42 = 4.2
	Fairing54 = 5.4
)

// AtlasVMaxStructuralForce is a guess: the engines do 3 MN at sea level and 4 MN in vacuum.
const AtlasVMaxStructuralForce = 10e6

// AtlasVFirstStage returns the common core booster with its RD-180.
func AtlasVFirstStage(engines EngineModel) StageConfig {
	conf := StageConfig{
		Name:             "Atlas V 401 First Stage",
		DryMass:          21054,
		PropellantMass:   284089,
		BurnTime:         253,
		Thrust:           ConstantThrust{3827e3},
		Diameter:         3.81,
		JettisonAfterUse: true,
	}
	if engines == VacuumIspEngines {
		conf.Thrust = NewIspThrust(337.8, 1.445)
	}
	return conf
}

// AtlasVCentaur returns the Centaur upper stage with a single RL10A-4-2.
func AtlasVCentaur(engines EngineModel) StageConfig {
	conf := StageConfig{
		Name:             "Atlas V Centaur Upper Stage",
		DryMass:          2316,
		PropellantMass:   20830,
		BurnTime:         842,
		Thrust:           ConstantThrust{99.2e3},
		Diameter:         3.05,
		JettisonAfterUse: true,
	}
	if engines == VacuumIspEngines {
		conf.Thrust = NewIspThrust(450.5, 2.21)
	}
	return conf
}

// AtlasVPayload returns the payload under a fairing of the given diameter. It is never jettisoned.
func AtlasVPayload(mass, fairing float64) StageConfig {
	return StageConfig{
		Name:     fmt.Sprintf("%.1f Meter Fairing Payload", fairing),
		DryMass:  mass,
		Diameter: fairing,
	}
}

// AtlasV401Stages returns the stage configurations of an Atlas V 401 lifting payload kg.
// The 401 can do 8.9 t to a 407 km LEO at 51.6 degrees.
func AtlasV401Stages(payload float64, engines EngineModel) []StageConfig {
	return []StageConfig{
		AtlasVFirstStage(engines),
		AtlasVCentaur(engines),
		AtlasVPayload(payload, Fairing42),
	}
}

// NewAtlasV401 returns a ready to fly Atlas V 401.
func NewAtlasV401(payload float64, engines EngineModel, position, orientation Vector3) (*Rocket, error) {
	stages, err := NewStages(AtlasV401Stages(payload, engines))
	if err != nil {
		return nil, err
	}
	return NewRocket(stages, AtlasVMaxStructuralForce, position, orientation)
}

// VehicleStages returns the stage configurations of a named vehicle preset.
func VehicleStages(preset string, payload float64, engines EngineModel) ([]StageConfig, float64, error) {
	switch strings.ToLower(preset) {
	case "atlasv401", "atlas-v-401", "atlas_v_401":
		return AtlasV401Stages(payload, engines), AtlasVMaxStructuralForce, nil
	default:
		return nil, 0, fmt.Errorf("%w: unknown vehicle preset '%s'", ErrInvalidConfig, preset)
	}
}
