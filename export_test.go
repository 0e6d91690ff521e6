package ascent

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gonum/floats"
)

func exportRecords() []Record {
	return []Record{
		{Step: 1, Time: 0.01, Altitude: 0.001, Thrust: 3827, Velocity: 0.5, Mass: 328189, Throttle: 1, Position: Vector3{6381000, 0, 0}, VelocityVec: Vector3{0.5, 0, 0}},
		{Step: 8640000, Time: 86400, Altitude: 200, Drag: 0.25, Velocity: 7800, Azimuth: 90, Mass: 12000, StageIndex: 1, Position: Vector3{0, 6580000, 0}, VelocityVec: Vector3{-7800, 0, 0}},
	}
}

func TestRecordJD(t *testing.T) {
	if jd := recordJD(J2000, Record{}); !floats.EqualWithinAbs(jd, 2451545.0, 1e-9) {
		t.Fatalf("J2000 is JD %f", jd)
	}
	if jd := recordJD(J2000, Record{Time: 43200}); !floats.EqualWithinAbs(jd, 2451545.5, 1e-8) {
		t.Fatalf("half a day after J2000 is JD %f", jd)
	}
}

func TestWriteTelemetryCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTelemetryCSV(&buf, exportRecords(), J2000); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "# Lift off (UTC): 2000-01-01 12:00:00") {
		t.Fatalf("unexpected preamble:\n%s", buf.String())
	}
	r := csv.NewReader(&buf)
	r.Comment = '#'
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected a header and two rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != "step,time,jd,altitude_km,drag_kN,thrust_kN,velocity_mps,azimuth_deg,mass_kg,stage,throttle" {
		t.Fatalf("header %v", rows[0])
	}
	last := rows[2]
	if last[0] != "8640000" || last[9] != "1" || last[2] != "2451546.00000000" {
		t.Fatalf("row %v", last)
	}
	if alt, _ := strconv.ParseFloat(last[3], 64); alt != 200 {
		t.Fatalf("altitude %s", last[3])
	}
	if thrust, _ := strconv.ParseFloat(rows[1][5], 64); thrust != 3827 {
		t.Fatalf("thrust %s", rows[1][5])
	}
}

func TestWriteTelemetryXYZV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTelemetryXYZV(&buf, exportRecords(), J2000); err != nil {
		t.Fatal(err)
	}
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	if len(lines) != 2 {
		t.Fatalf("expected two states, got %d", len(lines))
	}
	if lines[1] != "2451546.000000 0.000000 6580.000000 0.000000 -7.800000 0.000000 0.000000" {
		t.Fatalf("state %q", lines[1])
	}
	if fields := strings.Fields(lines[0]); len(fields) != 7 || fields[1] != "6381.000000" {
		t.Fatalf("state %q", lines[0])
	}
}

func TestWriteResultJSON(t *testing.T) {
	res := &Result{Outcome: StructuralFailure, Step: 9, Time: 1.125, Telemetry: exportRecords(), Staging: []StagingEvent{{Step: 8, Time: 1, From: 0, To: 1, Name: "booster"}}}
	var buf bytes.Buffer
	if err := WriteResultJSON(&buf, res); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Outcome   string           `json:"outcome"`
		Step      uint64           `json:"step"`
		Telemetry []map[string]any `json:"telemetry"`
		Staging   []StagingEvent   `json:"staging"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Outcome != "structural_failure" || decoded.Step != 9 {
		t.Fatalf("decoded %+v", decoded)
	}
	if len(decoded.Telemetry) != 2 || decoded.Telemetry[1]["altitude_km"] != 200. {
		t.Fatalf("telemetry %v", decoded.Telemetry)
	}
	if len(decoded.Staging) != 1 || decoded.Staging[0].Name != "booster" {
		t.Fatalf("staging %v", decoded.Staging)
	}
}

func TestExportConfig(t *testing.T) {
	if !(ExportConfig{}).IsUseless() {
		t.Fatal("empty export config should be useless")
	}
	dir := t.TempDir()
	conf := ExportConfig{
		CSV:   filepath.Join(dir, "flight.csv"),
		JSON:  filepath.Join(dir, "result.json"),
		Epoch: J2000,
	}
	if conf.IsUseless() {
		t.Fatal("export config is not useless")
	}
	logger := newCountingLogger()
	if err := conf.Export(&Result{Outcome: SoftLanding, Telemetry: exportRecords()}, logger); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{conf.CSV, conf.JSON} {
		if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
			t.Fatalf("%s was not written: %v", path, err)
		}
	}
	if logger.levels["info"] != 2 {
		t.Fatalf("expected two export logs, got %v", logger.levels)
	}
	conf.XYZV = filepath.Join(dir, "missing", "flight.xyzv")
	if err := conf.Export(&Result{Outcome: SoftLanding}, nil); err == nil {
		t.Fatal("writing into a missing directory should fail")
	}
}
