package ascent

import (
	"fmt"
	"math"
)

// ThrustModel defines how a stage turns propellant into thrust.
// Available models are ConstantThrust and IspThrust.
type ThrustModel interface {
	// thrust returns the thrust in Newtons for the given throttle, mass flow (kg/s)
	// and external pressure (Pa).
	thrust(throttle, massFlow, pExternal float64) float64
	fmt.Stringer
}

/* Available thrust models */

// ConstantThrust delivers a fixed thrust scaled by the throttle. Really only valid at sea level.
type ConstantThrust struct {
	Force float64 // N at full throttle
}

func (t ConstantThrust) thrust(throttle, massFlow, pExternal float64) float64 {
	return t.Force * throttle
}

func (t ConstantThrust) String() string {
	return fmt.Sprintf("constant %.1f kN", t.Force/1e3)
}

// IspThrust derives the thrust from the vacuum specific impulse, corrected for the
// back pressure on the nozzle exit: F = Isp·g0·ṁ - Ae·p.
// An idle engine with propellant left inside the atmosphere thrusts backwards.
type IspThrust struct {
	IspVacuum float64 // s
	ExitArea  float64 // m²
}

// NewIspThrust returns an IspThrust for a nozzle of the given exit diameter (m).
func NewIspThrust(ispVacuum, exitDiameter float64) IspThrust {
	return IspThrust{ispVacuum, math.Pi * math.Pow(exitDiameter/2, 2)}
}

func (t IspThrust) thrust(throttle, massFlow, pExternal float64) float64 {
	return t.IspVacuum*G0*massFlow - t.ExitArea*pExternal
}

func (t IspThrust) String() string {
	return fmt.Sprintf("Isp %.1f s, exit %.3f m²", t.IspVacuum, t.ExitArea)
}
