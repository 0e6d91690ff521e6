package ascent

import (
	"fmt"
	"math"
	"time"
)

const eccentricityε = 5e-5

// KarmanLine is the conventional edge of space on Earth, in meters.
const KarmanLine = 100e3

// Orbit is the osculating two body orbit of a state about a body.
// Angles are in radians, distances in meters.
type Orbit struct {
	SemiMajorAxis float64 `json:"sma"` // negative for hyperbolic trajectories
	Eccentricity  float64 `json:"ecc"`
	Inclination   float64 `json:"inc"`
	RAAN          float64 `json:"raan"`
	ArgPeriapsis  float64 `json:"argp"`
	TrueAnomaly   float64 `json:"nu"`
	body          *Body
}

// NewOrbitFromRV returns the orbital elements of the position and velocity about body.
// Circular and equatorial orbits leave the undefined angles at zero.
func NewOrbitFromRV(position, velocity Vector3, body *Body) (*Orbit, error) {
	r, v := position.Norm(), velocity.Norm()
	if r == 0 {
		return nil, fmt.Errorf("%w: orbit of a state at the center of %s", ErrInvalidConfig, body.Name)
	}
	μ := body.GM()
	h := position.Cross(velocity)
	if h.IsZero() {
		return nil, fmt.Errorf("%w: rectilinear trajectory has no orbital plane", ErrInvalidConfig)
	}
	n := Vector3{0, 0, 1}.Cross(h)
	ξ := v*v/2 - μ/r
	rv := position.Dot(velocity)
	eVec := position.Scaled(v*v - μ/r).Minus(velocity.Scaled(rv)).Scaled(1 / μ)
	e := eVec.Norm()

	o := &Orbit{SemiMajorAxis: -μ / (2 * ξ), Eccentricity: e, body: body}
	o.Inclination = math.Acos(clampUnit(h.Z / h.Norm()))
	if n.Norm() > 0 {
		o.RAAN = math.Acos(clampUnit(n.X / n.Norm()))
		if n.Y < 0 {
			o.RAAN = 2*math.Pi - o.RAAN
		}
	}
	if e > eccentricityε {
		if n.Norm() > 0 {
			o.ArgPeriapsis = math.Acos(clampUnit(n.Dot(eVec) / (n.Norm() * e)))
			if eVec.Z < 0 {
				o.ArgPeriapsis = 2*math.Pi - o.ArgPeriapsis
			}
		}
		o.TrueAnomaly = math.Acos(clampUnit(eVec.Dot(position) / (e * r)))
		if rv < 0 {
			o.TrueAnomaly = 2*math.Pi - o.TrueAnomaly
		}
	}
	return o, nil
}

// clampUnit brings rounding errors back into the domain of acos.
func clampUnit(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}

// Bound returns whether this is a closed orbit.
func (o *Orbit) Bound() bool {
	return o.Eccentricity < 1
}

// Energy returns the specific mechanical energy in J/kg.
func (o *Orbit) Energy() float64 {
	return -o.body.GM() / (2 * o.SemiMajorAxis)
}

// SemiParameter returns the semi latus rectum p.
func (o *Orbit) SemiParameter() float64 {
	return o.SemiMajorAxis * (1 - o.Eccentricity*o.Eccentricity)
}

// Periapsis returns the periapsis radius.
func (o *Orbit) Periapsis() float64 {
	return o.SemiMajorAxis * (1 - o.Eccentricity)
}

// Apoapsis returns the apoapsis radius, +Inf for an open trajectory.
func (o *Orbit) Apoapsis() float64 {
	if !o.Bound() {
		return math.Inf(1)
	}
	return o.SemiMajorAxis * (1 + o.Eccentricity)
}

// PeriapsisAltitude returns the periapsis height above the surface. It is negative when the trajectory hits the body.
func (o *Orbit) PeriapsisAltitude() float64 {
	return o.Periapsis() - o.body.Radius
}

// ApoapsisAltitude returns the apoapsis height above the surface.
func (o *Orbit) ApoapsisAltitude() float64 {
	return o.Apoapsis() - o.body.Radius
}

// Period returns the orbital period, zero for an open trajectory.
func (o *Orbit) Period() time.Duration {
	if !o.Bound() {
		return 0
	}
	return time.Duration(2 * math.Pi * math.Sqrt(math.Pow(o.SemiMajorAxis, 3)/o.body.GM()) * float64(time.Second))
}

// CircularizationΔv returns the prograde burn (m/s) at apoapsis which circularizes the orbit.
// It is NaN for an open trajectory.
func (o *Orbit) CircularizationΔv() float64 {
	if !o.Bound() {
		return math.NaN()
	}
	μ, rA := o.body.GM(), o.Apoapsis()
	vA := math.Sqrt(μ * (2/rA - 1/o.SemiMajorAxis))
	return math.Sqrt(μ/rA) - vA
}

// Orbiting returns whether the periapsis stays above the given altitude, typically the top of the
// sensible atmosphere.
func (o *Orbit) Orbiting(minAltitude float64) bool {
	return o.Bound() && o.PeriapsisAltitude() > minAltitude
}

func (o *Orbit) String() string {
	return fmt.Sprintf("a=%.1fkm e=%.5f i=%.3f Ω=%.3f ω=%.3f ν=%.3f (alt %.1fkm x %.1fkm)", o.SemiMajorAxis/1e3, o.Eccentricity, Rad2deg(o.Inclination), Rad2deg(o.RAAN), Rad2deg(o.ArgPeriapsis), Rad2deg(o.TrueAnomaly), o.PeriapsisAltitude()/1e3, o.ApoapsisAltitude()/1e3)
}

// Radii2ae returns the semi major axis and the eccentricity from the apoapsis and periapsis radii.
func Radii2ae(rA, rP float64) (a, e float64) {
	if rA < rP {
		panic("periapsis cannot be greater than apoapsis")
	}
	a = (rP + rA) / 2
	e = (rA - rP) / (rA + rP)
	return
}
