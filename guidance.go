package ascent

import (
	"fmt"

	kitlog "github.com/go-kit/kit/log"
)

// GuidanceConfig holds the thresholds of the open loop steering program.
// Altitudes are in meters, PitchAngle in degrees from the local vertical.
type GuidanceConfig struct {
	PitchStartAltitude float64
	PitchEndAltitude   float64
	PitchAngle         float64
	MECOVelocity       float64 // m/s, main engine cut off above that speed
	Throttle           float64 // commanded until MECO
}

// DefaultGuidanceConfig returns the steering program tuned for the Atlas V 401.
func DefaultGuidanceConfig() GuidanceConfig {
	return GuidanceConfig{
		PitchStartAltitude: 1e3,
		PitchEndAltitude:   120e3,
		PitchAngle:         70,
		MECOVelocity:       7800,
		Throttle:           1,
	}
}

// Validate returns an error if the program cannot be flown.
func (c GuidanceConfig) Validate() error {
	if c.PitchStartAltitude < 0 || c.PitchEndAltitude <= c.PitchStartAltitude {
		return fmt.Errorf("%w: pitch program from %g m to %g m", ErrInvalidConfig, c.PitchStartAltitude, c.PitchEndAltitude)
	}
	if c.PitchAngle < 0 || c.PitchAngle > 90 {
		return fmt.Errorf("%w: pitch angle %g not in [0, 90] degrees", ErrInvalidConfig, c.PitchAngle)
	}
	if c.MECOVelocity <= 0 {
		return fmt.Errorf("%w: MECO velocity must be positive", ErrInvalidConfig)
	}
	if c.Throttle < 0 || c.Throttle > 1 {
		return fmt.Errorf("%w: throttle %g not in [0, 1]", ErrInvalidConfig, c.Throttle)
	}
	return nil
}

// Guidance flies a GuidanceConfig. The MECO is latched: once cut, the engines stay off.
type Guidance struct {
	conf   GuidanceConfig
	meco   bool
	logger kitlog.Logger
}

// NewGuidance returns a new Guidance.
func NewGuidance(conf GuidanceConfig, logger kitlog.Logger) (*Guidance, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Guidance{conf: conf, logger: logger}, nil
}

// Config returns the steering program.
func (g *Guidance) Config() GuidanceConfig {
	return g.conf
}

// MECO returns whether the main engines were cut off.
func (g *Guidance) MECO() bool {
	return g.meco
}

// PitchAngle returns the angle from the local vertical (radians) commanded at the given altitude.
func (g *Guidance) PitchAngle(altitude float64) float64 {
	switch {
	case altitude <= g.conf.PitchStartAltitude:
		return 0
	case altitude >= g.conf.PitchEndAltitude:
		return Deg2rad(g.conf.PitchAngle)
	default:
		frac := (altitude - g.conf.PitchStartAltitude) / (g.conf.PitchEndAltitude - g.conf.PitchStartAltitude)
		return Deg2rad(g.conf.PitchAngle) * frac
	}
}

// Orient points the rocket and sets its throttle for the next step.
func (g *Guidance) Orient(body *Body, rocket *Rocket) {
	up := rocket.Position.Unit()
	if pitch := g.PitchAngle(body.Altitude(rocket.Position)); pitch == 0 {
		rocket.Orientation = up
	} else {
		east := localEast(body, rocket.Position, up)
		axis := up.Cross(east)
		rocket.Orientation = up.Rotated(pitch, axis)
	}

	if !g.meco && rocket.Velocity.Norm() > g.conf.MECOVelocity {
		g.meco = true
		g.logger.Log("level", "notice", "subsys", "gnc", "event", "MECO", "velocity", rocket.Velocity.Norm(), "altitude(km)", body.Altitude(rocket.Position)/1e3)
	}
	if g.meco {
		rocket.SetThrottle(0)
	} else {
		rocket.SetThrottle(g.conf.Throttle)
	}
}

// localEast returns the horizontal direction of the body rotation at position.
func localEast(body *Body, position, up Vector3) Vector3 {
	if east := body.SurfaceVelocity(position); !east.IsZero() {
		return east.Unit()
	}
	for _, ref := range []Vector3{{0, 0, 1}, {1, 0, 0}} {
		if east := ref.Cross(up); east.Norm() > 1e-12 {
			return east.Unit()
		}
	}
	// Unreachable: up cannot be parallel to both references.
	return Vector3{0, 1, 0}
}
