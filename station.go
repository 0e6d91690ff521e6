package ascent

import (
	"fmt"
	"math"
	"strings"

	kitlog "github.com/go-kit/kit/log"
)

// Station is a ground station following the ascent. Its position is fixed on the surface of the body
// which coincides with the inertial frame at lift off.
type Station struct {
	Name          string
	Latitude      float64 // radians
	Longitude     float64 // radians
	Altitude      float64 // m
	ElevationMask float64 // degrees
	body          *Body
	fixed         Vector3 // body fixed position
}

// NewStation returns a new station. Angles are in degrees.
func NewStation(name string, body *Body, latitude, longitude, altitude, elevationMask float64) (*Station, error) {
	if body == nil {
		return nil, fmt.Errorf("%w: station %s has no body", ErrInvalidConfig, name)
	}
	if math.Abs(latitude) > 90 || elevationMask < -90 || elevationMask > 90 {
		return nil, fmt.Errorf("%w: station %s at latitude %g with a %g deg mask", ErrInvalidConfig, name, latitude, elevationMask)
	}
	lat, long := latitude*deg2rad, longitude*deg2rad
	return &Station{name, lat, long, altitude, elevationMask, body, body.LaunchSite(lat, long, altitude)}, nil
}

func (s *Station) String() string {
	return fmt.Sprintf("%s (%f,%f); alt = %f m; el = %f deg", s.Name, s.Latitude/deg2rad, s.Longitude/deg2rad, s.Altitude, s.ElevationMask)
}

// toFixed converts an inertial position and velocity at t seconds after lift off to the body fixed frame.
func (s *Station) toFixed(position, velocity Vector3, t float64) (Vector3, Vector3) {
	rot := r3(s.body.RotationAngle(t))
	vRel := velocity.Minus(s.body.AngularVelocity().Cross(position))
	return mxv33(rot, position), mxv33(rot, vRel)
}

// RangeElAz returns the range (m), elevation and azimuth (degrees) of an inertial position at
// t seconds after lift off. The azimuth is measured from the north, towards the east.
func (s *Station) RangeElAz(position Vector3, t float64) (ρ, el, az float64) {
	rFixed, _ := s.toFixed(position, Vector3{}, t)
	ρVec := rFixed.Minus(s.fixed)
	ρ = ρVec.Norm()
	if ρ == 0 {
		return 0, 90, 0
	}
	rSEZ := mxv33(r2(math.Pi/2-s.Latitude), mxv33(r3(s.Longitude), ρVec))
	el = math.Asin(rSEZ.Z/ρ) / deg2rad
	az = Rad2deg(math.Atan2(rSEZ.Y, -rSEZ.X))
	return
}

// Measurement is what a station sees of a telemetry record.
type Measurement struct {
	Step      uint64  `json:"step"`
	Time      float64 `json:"time"`
	Range     float64 `json:"range"`      // m
	RangeRate float64 `json:"range_rate"` // m/s
	Elevation float64 `json:"elevation"`  // degrees
	Azimuth   float64 `json:"azimuth"`    // degrees
	Visible   bool    `json:"visible"`
}

// PerformMeasurement returns the station measurement of the record.
func (s *Station) PerformMeasurement(r Record) Measurement {
	rFixed, vFixed := s.toFixed(r.Position, r.VelocityVec, r.Time)
	ρVec := rFixed.Minus(s.fixed)
	ρ, el, az := s.RangeElAz(r.Position, r.Time)
	m := Measurement{Step: r.Step, Time: r.Time, Range: ρ, Elevation: el, Azimuth: az, Visible: el >= s.ElevationMask}
	if ρ > 0 {
		m.RangeRate = ρVec.Dot(vFixed) / ρ
	}
	return m
}

// Tracker is a TelemetrySink measuring every record from a station and logging the acquisition and loss of signal.
type Tracker struct {
	Station      *Station
	Measurements []Measurement
	logger       kitlog.Logger
	visible      bool
	los          *Measurement
}

// NewTracker returns a new Tracker.
func NewTracker(station *Station, logger kitlog.Logger) *Tracker {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Tracker{Station: station, logger: kitlog.With(logger, "subsys", "station", "station", station.Name)}
}

// Record implements TelemetrySink.
func (t *Tracker) Record(r Record) {
	m := t.Station.PerformMeasurement(r)
	t.Measurements = append(t.Measurements, m)
	switch {
	case m.Visible && !t.visible:
		t.logger.Log("level", "notice", "event", "AOS", "t", m.Time, "el", m.Elevation, "range(km)", m.Range/1e3)
	case !m.Visible && t.visible:
		t.logger.Log("level", "notice", "event", "LOS", "t", m.Time, "az", m.Azimuth, "range(km)", m.Range/1e3)
		if t.los == nil {
			los := m
			t.los = &los
		}
	}
	t.visible = m.Visible
}

// LossOfSignal returns the first measurement where the vehicle went below the elevation mask.
func (t *Tracker) LossOfSignal() (Measurement, bool) {
	if t.los == nil {
		return Measurement{}, false
	}
	return *t.los, true
}

// stationEntry is a [[stations]] entry. A builtin name selects one of the launch range stations.
type stationEntry struct {
	Builtin       string  `mapstructure:"builtin"`
	Name          string  `mapstructure:"name"`
	Latitude      float64 `mapstructure:"latitude"`
	Longitude     float64 `mapstructure:"longitude"`
	Altitude      float64 `mapstructure:"altitude"`
	ElevationMask float64 `mapstructure:"elevation_mask"`
}

func (s stationEntry) station(body *Body) (*Station, error) {
	if s.Builtin != "" {
		return BuiltinStationFromName(s.Builtin, body)
	}
	return NewStation(s.Name, body, s.Latitude, s.Longitude, s.Altitude, s.ElevationMask)
}

// BuiltinStationFromName returns the station of a launch range by name.
func BuiltinStationFromName(name string, body *Body) (*Station, error) {
	switch strings.ToLower(name) {
	case "ksc", "cape":
		return NewStation("KSC", body, 28.5244, -80.6508, 3, 5)
	case "vafb", "vandenberg":
		return NewStation("VAFB", body, 34.7420, -120.5724, 112, 5)
	case "kourou":
		return NewStation("Kourou", body, 5.2360, -52.7686, 10, 5)
	default:
		return nil, fmt.Errorf("%w: unknown station '%s'", ErrInvalidConfig, name)
	}
}
