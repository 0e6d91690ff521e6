package ascent

import (
	"math"
)

const (
	// G is the gravitational constant in N·(m/kg)².
	G = 6.67384e-11
	// Kb is the Boltzmann constant in J/K.
	Kb = 1.3806e-23
	// R is the ideal gas constant in J/(mol·K).
	R = 8.314
	// G0 is the standard gravity used to convert specific impulse to exhaust velocity, in m/s².
	G0 = 9.81

	deg2rad = math.Pi / 180
)

// Deg2rad converts degrees to radians, and enforced only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees, and enforced only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}

// clamp01 bounds v to [0, 1].
func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
