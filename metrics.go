package ascent

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink exposes the latest telemetry record as Prometheus gauges.
type PrometheusSink struct {
	altitude prometheus.Gauge
	velocity prometheus.Gauge
	mass     prometheus.Gauge
	drag     prometheus.Gauge
	thrust   prometheus.Gauge
	stage    prometheus.Gauge
	throttle prometheus.Gauge
	steps    prometheus.Counter
}

// NewPrometheusSink registers the ascent metrics on reg.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	s := &PrometheusSink{
		altitude: prometheus.NewGauge(prometheus.GaugeOpts{Name: "ascent_altitude_meters", Help: "Altitude above the surface."}),
		velocity: prometheus.NewGauge(prometheus.GaugeOpts{Name: "ascent_velocity_mps", Help: "Inertial speed."}),
		mass:     prometheus.NewGauge(prometheus.GaugeOpts{Name: "ascent_mass_kg", Help: "Mass of the stages still attached."}),
		drag:     prometheus.NewGauge(prometheus.GaugeOpts{Name: "ascent_drag_newton", Help: "Aerodynamic drag."}),
		thrust:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "ascent_thrust_newton", Help: "Thrust of the active stage."}),
		stage:    prometheus.NewGauge(prometheus.GaugeOpts{Name: "ascent_stage_index", Help: "Index of the active stage."}),
		throttle: prometheus.NewGauge(prometheus.GaugeOpts{Name: "ascent_throttle", Help: "Commanded throttle."}),
		steps:    prometheus.NewCounter(prometheus.CounterOpts{Name: "ascent_steps_total", Help: "Records received."}),
	}
	for _, c := range []prometheus.Collector{s.altitude, s.velocity, s.mass, s.drag, s.thrust, s.stage, s.throttle, s.steps} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Record implements TelemetrySink.
func (s *PrometheusSink) Record(r Record) {
	s.altitude.Set(r.Altitude * 1e3)
	s.velocity.Set(r.Velocity)
	s.mass.Set(r.Mass)
	s.drag.Set(r.Drag * 1e3)
	s.thrust.Set(r.Thrust * 1e3)
	s.stage.Set(float64(r.StageIndex))
	s.throttle.Set(r.Throttle)
	s.steps.Inc()
}
