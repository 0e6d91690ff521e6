package ascent

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/soniakeys/meeus/v3/julian"
)

// telemetryHeader are the columns of WriteTelemetryCSV.
var telemetryHeader = []string{"step", "time", "jd", "altitude_km", "drag_kN", "thrust_kN", "velocity_mps", "azimuth_deg", "mass_kg", "stage", "throttle"}

// recordJD returns the Julian date of a record of a run started at epoch.
func recordJD(epoch time.Time, r Record) float64 {
	return julian.TimeToJD(epoch.Add(time.Duration(r.Time * float64(time.Second))))
}

// WriteTelemetryCSV writes the records as CSV after a commented header, epoch being the lift off date.
func WriteTelemetryCSV(w io.Writer, records []Record, epoch time.Time) error {
	if _, err := fmt.Fprintf(w, "# Lift off (UTC): %s\n# Altitude in km, forces in kN, velocity in m/s, azimuth in degrees\n", epoch.UTC()); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(telemetryHeader); err != nil {
		return err
	}
	f := func(v float64, prec int) string { return strconv.FormatFloat(v, 'f', prec, 64) }
	for _, r := range records {
		row := []string{
			strconv.FormatUint(r.Step, 10),
			f(r.Time, 3),
			f(recordJD(epoch, r), 8),
			f(r.Altitude, 6),
			f(r.Drag, 6),
			f(r.Thrust, 6),
			f(r.Velocity, 6),
			f(r.Azimuth, 6),
			f(r.Mass, 3),
			strconv.Itoa(r.StageIndex),
			f(r.Throttle, 3),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTelemetryXYZV writes the records as Cosmographia interpolated states: <jd> <x> <y> <z> <vx> <vy> <vz>
// with the positions in km and the velocities in km/s.
func WriteTelemetryXYZV(w io.Writer, records []Record, epoch time.Time) error {
	if _, err := fmt.Fprintf(w, `# Lift off (UTC): %s
# Records are <jd> <x> <y> <z> <vel x> <vel y> <vel z>
#   Time is a UTC Julian date
#   Position in km
#   Velocity in km/sec
`, epoch.UTC()); err != nil {
		return err
	}
	for _, r := range records {
		p, v := r.Position.Scaled(1e-3), r.VelocityVec.Scaled(1e-3)
		if _, err := fmt.Fprintf(w, "%f %f %f %f %f %f %f\n", recordJD(epoch, r), p.X, p.Y, p.Z, v.X, v.Y, v.Z); err != nil {
			return err
		}
	}
	return nil
}

// WriteResultJSON writes the result as indented JSON.
func WriteResultJSON(w io.Writer, res *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// ExportConfig lists the files to write at the end of a run. Empty paths are skipped.
type ExportConfig struct {
	CSV   string
	XYZV  string
	JSON  string
	Epoch time.Time
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return c.CSV == "" && c.XYZV == "" && c.JSON == ""
}

// Export writes the configured files.
func (c ExportConfig) Export(res *Result, logger kitlog.Logger) error {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	writers := []struct {
		path  string
		write func(io.Writer) error
	}{
		{c.CSV, func(w io.Writer) error { return WriteTelemetryCSV(w, res.Telemetry, c.Epoch) }},
		{c.XYZV, func(w io.Writer) error { return WriteTelemetryXYZV(w, res.Telemetry, c.Epoch) }},
		{c.JSON, func(w io.Writer) error { return WriteResultJSON(w, res) }},
	}
	for _, wr := range writers {
		if wr.path == "" {
			continue
		}
		if err := writeFile(wr.path, wr.write); err != nil {
			return err
		}
		logger.Log("level", "info", "subsys", "export", "file", wr.path, "records", len(res.Telemetry))
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
