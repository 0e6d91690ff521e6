package ascent

import (
	"fmt"
	"math"

	kitlog "github.com/go-kit/kit/log"
)

// AtmosphereRow is one row of a tabulated atmosphere.
type AtmosphereRow struct {
	Altitude        float64 // km
	Temperature     float64 // K
	LogDensity      float64 // log10 of the number density in m⁻³
	MolecularWeight float64 // g/mol
}

// Atmosphere interpolates pressure and density from a table sorted by altitude.
// The table is copied on construction and never modified afterwards.
type Atmosphere struct {
	rows                     []AtmosphereRow
	warnedAbove, warnedBelow bool
	logger                   kitlog.Logger
}

// NewAtmosphere returns a new Atmosphere from the provided rows. An empty table is accepted,
// but every lookup on it fails.
func NewAtmosphere(rows []AtmosphereRow, logger kitlog.Logger) (*Atmosphere, error) {
	for i := 1; i < len(rows); i++ {
		if rows[i].Altitude < rows[i-1].Altitude {
			return nil, fmt.Errorf("%w: row %d at %f km follows %f km", ErrUnsortedAtmosphere, i, rows[i].Altitude, rows[i-1].Altitude)
		}
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	cpy := make([]AtmosphereRow, len(rows))
	copy(cpy, rows)
	return &Atmosphere{rows: cpy, logger: logger}, nil
}

// Len returns the number of rows.
func (a *Atmosphere) Len() int {
	return len(a.rows)
}

// Bounds returns the lowest and highest tabulated altitudes in meters.
func (a *Atmosphere) Bounds() (lowest, highest float64) {
	if len(a.rows) == 0 {
		return 0, 0
	}
	return a.rows[0].Altitude * 1e3, a.rows[len(a.rows)-1].Altitude * 1e3
}

// Lookup returns the air pressure (Pa) and the mass density (kg/m³) at the given altitude in meters.
// Altitudes outside of the table are clamped to the closest row; the first clamp on each side is logged.
func (a *Atmosphere) Lookup(altitude float64) (pressure, density float64, err error) {
	if len(a.rows) == 0 {
		return 0, 0, ErrEmptyAtmosphere
	}
	altitude /= 1e3
	first, last := a.rows[0], a.rows[len(a.rows)-1]
	if altitude > last.Altitude {
		if !a.warnedAbove {
			a.warnedAbove = true
			a.logger.Log("level", "warning", "subsys", "atmo", "message", "altitude above table, clamping", "altitude(km)", altitude, "max(km)", last.Altitude)
		}
		altitude = last.Altitude
	} else if altitude < first.Altitude {
		if !a.warnedBelow {
			a.warnedBelow = true
			a.logger.Log("level", "warning", "subsys", "atmo", "message", "altitude below table, clamping", "altitude(km)", altitude, "min(km)", first.Altitude)
		}
		altitude = first.Altitude
	}

	previous := first
	for _, row := range a.rows {
		if altitude <= row.Altitude {
			temp, logN, molWeight := interpolate(altitude, previous, row)
			n := math.Pow(10, logN)
			return n * temp * Kb, n * Kb / R * molWeight / 1000, nil
		}
		previous = row
	}
	// Unreachable once the altitude is clamped, unless the table holds NaNs.
	return 0, 0, fmt.Errorf("ascent: no atmosphere row brackets %f km", altitude)
}

// interpolate returns the temperature, log10 density and molecular weight between ra and rb.
func interpolate(altitude float64, ra, rb AtmosphereRow) (temp, logN, molWeight float64) {
	part := 0.0
	if delta := rb.Altitude - ra.Altitude; delta != 0 {
		part = (altitude - ra.Altitude) / delta
	}
	temp = ra.Temperature + (rb.Temperature-ra.Temperature)*part
	logN = ra.LogDensity + (rb.LogDensity-ra.LogDensity)*part
	molWeight = ra.MolecularWeight + (rb.MolecularWeight-ra.MolecularWeight)*part
	return
}
