package ascent

import "fmt"

// Record is the telemetry of one simulation step.
type Record struct {
	Step        uint64  `json:"step"`
	Time        float64 `json:"time"`         // s since lift off
	Altitude    float64 `json:"altitude_km"`  // km
	Drag        float64 `json:"drag_kN"`      // kN
	Thrust      float64 `json:"thrust_kN"`    // kN
	Velocity    float64 `json:"velocity_mps"` // m/s
	Azimuth     float64 `json:"azimuth_deg"`  // degrees
	Mass        float64 `json:"mass_kg"`
	StageIndex  int     `json:"stage"`
	Throttle    float64 `json:"throttle"`
	Position    Vector3 `json:"position"`
	VelocityVec Vector3 `json:"velocity"`
}

func (r Record) String() string {
	return fmt.Sprintf("t=%.2fs alt=%.3fkm v=%.1fm/s drag=%.1fkN thrust=%.1fkN mass=%.0fkg stage=%d", r.Time, r.Altitude, r.Velocity, r.Drag, r.Thrust, r.Mass, r.StageIndex)
}

// StagingEvent records a jettison.
type StagingEvent struct {
	Step uint64  `json:"step"`
	Time float64 `json:"time"`
	From int     `json:"from"`
	To   int     `json:"to"`
	Name string  `json:"jettisoned"`
}

// TelemetrySink receives the retained records of a run, in order.
type TelemetrySink interface {
	Record(Record)
}

// Trace is an in-memory TelemetrySink.
type Trace struct {
	Records []Record
}

// Record implements TelemetrySink.
func (t *Trace) Record(r Record) {
	t.Records = append(t.Records, r)
}

// Last returns the latest record and false if the trace is empty.
func (t *Trace) Last() (Record, bool) {
	if len(t.Records) == 0 {
		return Record{}, false
	}
	return t.Records[len(t.Records)-1], true
}

// MaxDrag returns the record of maximum drag, i.e. Max-Q for a constant drag coefficient.
func (t *Trace) MaxDrag() (Record, bool) {
	var best Record
	found := false
	for _, r := range t.Records {
		if !found || r.Drag > best.Drag {
			best = r
			found = true
		}
	}
	return best, found
}
