package ascent

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ProfilePoint is the environment of a body at an altitude.
type ProfilePoint struct {
	Altitude float64 // m
	Gravity  float64 // m/s²
	Pressure float64 // Pa
	Density  float64 // kg/m³
}

// Profile samples gravity, pressure and density from the surface up to maxAltitude in steps intervals.
// The samples are taken above the north pole, which is the same everywhere for a spherical body.
func Profile(body *Body, maxAltitude float64, steps int) ([]ProfilePoint, error) {
	if steps <= 0 || maxAltitude <= 0 {
		return nil, fmt.Errorf("%w: profile up to %g m in %d steps", ErrInvalidConfig, maxAltitude, steps)
	}
	points := make([]ProfilePoint, 0, steps+1)
	for i := 0; i <= steps; i++ {
		alt := float64(i) * maxAltitude / float64(steps)
		pos := Vector3{0, 0, body.Radius + alt}
		p, rho, err := body.AirPressureAndDensity(pos)
		if err != nil {
			return nil, err
		}
		points = append(points, ProfilePoint{alt, body.GravitationalAcceleration(pos).Norm(), p, rho})
	}
	return points, nil
}

// WriteProfileCSV writes the profile as CSV with a header.
func WriteProfileCSV(w io.Writer, points []ProfilePoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"altitude_m", "gravity_mps2", "pressure_pa", "density_kgm3"}); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			strconv.FormatFloat(p.Altitude, 'f', 1, 64),
			strconv.FormatFloat(p.Gravity, 'f', 6, 64),
			strconv.FormatFloat(p.Pressure, 'g', 8, 64),
			strconv.FormatFloat(p.Density, 'g', 8, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
