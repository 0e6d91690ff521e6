package ascent

import (
	"fmt"
	"math"
	"strings"

	kitlog "github.com/go-kit/kit/log"
)

const (
	// EarthRadius is the mean Earth radius in meters.
	EarthRadius = 6.38e6
	// EarthMass is in kilograms.
	EarthMass = 5.972e24
	// EarthRotationPeriod is the sidereal day in seconds.
	EarthRotationPeriod = 86164.0905
)

// Body is a gravitating, possibly rotating, body with an atmosphere.
// It is not modified during a simulation.
type Body struct {
	Name           string
	Radius         float64 // m
	Mass           float64 // kg
	RotationPeriod float64 // s, zero for a non rotating body
	atmosphere     *Atmosphere
}

// NewBody returns a new Body.
func NewBody(name string, radius, mass, rotationPeriod float64, atmosphere *Atmosphere) (*Body, error) {
	if radius <= 0 || mass <= 0 {
		return nil, fmt.Errorf("%w: radius=%g mass=%g", ErrInvalidBody, radius, mass)
	}
	if rotationPeriod < 0 {
		return nil, fmt.Errorf("%w: negative rotation period %g", ErrInvalidBody, rotationPeriod)
	}
	if atmosphere == nil {
		return nil, fmt.Errorf("%w: %s has no atmosphere model", ErrInvalidBody, name)
	}
	return &Body{name, radius, mass, rotationPeriod, atmosphere}, nil
}

// Earth returns the Earth with the embedded reference atmosphere.
func Earth(logger kitlog.Logger) (*Body, error) {
	rows, err := EarthAtmosphereRows()
	if err != nil {
		return nil, err
	}
	atmo, err := NewAtmosphere(rows, logger)
	if err != nil {
		return nil, err
	}
	return NewBody("Earth", EarthRadius, EarthMass, EarthRotationPeriod, atmo)
}

// BodyFromName returns the body from its name.
func BodyFromName(name string, logger kitlog.Logger) (*Body, error) {
	switch strings.ToLower(name) {
	case "earth":
		return Earth(logger)
	default:
		return nil, fmt.Errorf("%w: undefined body '%s'", ErrInvalidBody, name)
	}
}

// String implements the Stringer interface.
func (b *Body) String() string {
	return b.Name + " body"
}

// Atmosphere returns the atmosphere model of this body.
func (b *Body) Atmosphere() *Atmosphere {
	return b.atmosphere
}

// GM returns the gravitational parameter in m³/s².
func (b *Body) GM() float64 {
	return G * b.Mass
}

// SurfaceGravity returns the magnitude of the gravity at the radius of the body.
func (b *Body) SurfaceGravity() float64 {
	return b.GM() / (b.Radius * b.Radius)
}

// Altitude returns the height of position above the surface.
func (b *Body) Altitude(position Vector3) float64 {
	return position.Norm() - b.Radius
}

// GravitationalAcceleration returns the acceleration due to gravity at position, measured from
// the center of the body, pointing to the center.
func (b *Body) GravitationalAcceleration(position Vector3) Vector3 {
	r := position.Norm()
	return position.Unit().Scaled(-b.GM() / (r * r))
}

// AirPressureAndDensity returns the air pressure (Pa) and density (kg/m³) at position.
func (b *Body) AirPressureAndDensity(position Vector3) (pressure, density float64, err error) {
	return b.atmosphere.Lookup(b.Altitude(position))
}

// SurfaceVelocity returns the velocity of the ground due to the rotation of the body.
// Only the equatorial speed is modeled: the magnitude is 2πR/T whatever the latitude, in
// the direction of +z × position.
func (b *Body) SurfaceVelocity(position Vector3) Vector3 {
	if b.RotationPeriod == 0 {
		return Vector3{}
	}
	dir := Vector3{0, 0, 1}.Cross(position)
	if dir.IsZero() {
		return Vector3{}
	}
	return dir.Unit().Scaled(2 * math.Pi * b.Radius / b.RotationPeriod)
}

// RotationAngle returns the angle in radians the body turned by t seconds after lift off.
func (b *Body) RotationAngle(t float64) float64 {
	if b.RotationPeriod == 0 {
		return 0
	}
	return math.Mod(2*math.Pi*t/b.RotationPeriod, 2*math.Pi)
}

// AngularVelocity returns the rotation vector of the body, along +z.
func (b *Body) AngularVelocity() Vector3 {
	if b.RotationPeriod == 0 {
		return Vector3{}
	}
	return Vector3{0, 0, 2 * math.Pi / b.RotationPeriod}
}

// LaunchSite returns the position at the given latitude and longitude (radians) and altitude (m).
func (b *Body) LaunchSite(latitude, longitude, altitude float64) Vector3 {
	return FromSpherical(b.Radius+altitude, math.Pi/2-latitude, longitude)
}
