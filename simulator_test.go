package ascent

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/gonum/floats"
)

// ballast returns an engineless rocket of 1 t at altitude h above the body, at rest.
func ballast(t *testing.T, body *Body, h float64) *Rocket {
	stages, err := NewStages([]StageConfig{{Name: "ballast", DryMass: 1000, Diameter: 1}})
	if err != nil {
		t.Fatal(err)
	}
	pos := body.LaunchSite(0, 0, h)
	rocket, err := NewRocket(stages, 1e9, pos, pos)
	if err != nil {
		t.Fatal(err)
	}
	rocket.DragCoefficient = 0
	return rocket
}

func testSimConfig(step float64) SimConfig {
	conf := DefaultSimConfig()
	conf.Step = step
	conf.MaxIterations = 10000000
	conf.GroundTolerance = 0
	conf.LogEvery = 0
	return conf
}

func TestSimulatorFreeFall(t *testing.T) {
	const h = 100.
	for _, integ := range []IntegratorKind{SemiImplicitEuler, RK4} {
		earth := testBody(t)
		conf := testSimConfig(1e-3)
		conf.Integrator = integ
		sim, err := NewSimulator(earth, ballast(t, earth, h), conf, nil)
		if err != nil {
			t.Fatal(err)
		}
		res, err := sim.Run()
		if err != nil {
			t.Fatal(err)
		}
		if res.Outcome != HardLanding {
			t.Fatalf("%s: outcome %s", integ, res.Outcome)
		}
		g := earth.SurfaceGravity()
		if exp := math.Sqrt(2 * g * h); !floats.EqualWithinRel(res.Velocity.Norm(), exp, 1e-3) {
			t.Fatalf("%s: impact velocity %f != %f", integ, res.Velocity.Norm(), exp)
		}
		if exp := math.Sqrt(2 * h / g); !floats.EqualWithinRel(res.Time, exp, 1e-3) {
			t.Fatalf("%s: fall time %f != %f", integ, res.Time, exp)
		}
		if res.Time != float64(res.Step)*conf.Step {
			t.Fatal("time is not step·dt")
		}
		if !res.Outcome.RUD() {
			t.Fatal("a hard landing is a RUD")
		}
		if res.Orbit != nil {
			t.Fatalf("%s: a vertical fall has no orbit", integ)
		}
	}
}

func TestSimulatorSoftLanding(t *testing.T) {
	earth := testBody(t)
	sim, _ := NewSimulator(earth, ballast(t, earth, 1), testSimConfig(1e-3), nil)
	res, err := sim.Run()
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != SoftLanding || res.Velocity.Norm() > 5 {
		t.Fatalf("outcome %s at %f m/s", res.Outcome, res.Velocity.Norm())
	}
	if _, err := sim.Run(); err == nil {
		t.Fatal("a simulator only runs once")
	}
}

func TestSimulatorGroundTolerance(t *testing.T) {
	earth := testBody(t)
	conf := testSimConfig(0.01)
	conf.GroundTolerance = 1
	conf.MaxIterations = 10
	sim, _ := NewSimulator(earth, ballast(t, earth, 0), conf, nil)
	res, err := sim.Run()
	if err != nil {
		t.Fatal(err)
	}
	// Sinking a few millimeters below the surface is within the tolerance.
	if res.Outcome != IterationLimitReached || res.Step != 10 || res.Altitude >= 0 {
		t.Fatalf("outcome %s at step %d, altitude %f", res.Outcome, res.Step, res.Altitude)
	}
	if len(res.Telemetry) != 10 || res.Telemetry[9].Step != 10 {
		t.Fatalf("%d records", len(res.Telemetry))
	}
}

func TestSimulatorStructuralFailureStep(t *testing.T) {
	earth := testBody(t)
	stages, err := NewStages([]StageConfig{
		{Name: "small", DryMass: 100, PropellantMass: 8, BurnTime: 1, Thrust: ConstantThrust{10e3}, Diameter: 1, JettisonAfterUse: true},
		{Name: "huge", DryMass: 100, PropellantMass: 100, BurnTime: 10, Thrust: ConstantThrust{1e6}, Diameter: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	pos := earth.LaunchSite(0, 0, 0)
	rocket, err := NewRocket(stages, 50e3, pos, pos)
	if err != nil {
		t.Fatal(err)
	}
	conf := testSimConfig(0.125)
	conf.Guidance = GuidanceConfig{PitchStartAltitude: 1e6, PitchEndAltitude: 2e6, MECOVelocity: 1e9, Throttle: 1}
	sim, _ := NewSimulator(earth, rocket, conf, nil)
	res, err := sim.Run()
	if err != nil {
		t.Fatal(err)
	}
	// The first stage burns 1 kg per step and is jettisoned at the end of step 8:
	// the second stage thrust breaks the vehicle on step 9.
	if res.Outcome != StructuralFailure || res.Step != 9 {
		t.Fatalf("outcome %s at step %d", res.Outcome, res.Step)
	}
	if len(res.Staging) != 1 || res.Staging[0].Step != 8 || res.Staging[0].Name != "small" {
		t.Fatalf("staging %+v", res.Staging)
	}
	if len(res.Telemetry) != 8 {
		t.Fatalf("%d records", len(res.Telemetry))
	}
	if res.MaxForce <= 1e6 {
		t.Fatalf("max force %f", res.MaxForce)
	}
	for _, rec := range res.Telemetry {
		stage := 0
		if rec.Step == 8 {
			stage = 1
		}
		if rec.Thrust != 10 || rec.StageIndex != stage {
			t.Fatalf("record %s", rec)
		}
	}
}

func TestSimulatorRecordsAndAbort(t *testing.T) {
	earth := testBody(t)
	conf := testSimConfig(0.01)
	conf.RecordEvery = 5
	sim, _ := NewSimulator(earth, ballast(t, earth, 1000), conf, nil)
	trace := &Trace{}
	sim.Sinks = append(sim.Sinks, trace)
	calls := 0
	sim.OnStep = func(rec Record) bool {
		calls++
		return rec.Step < 23
	}
	res, err := sim.Run()
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != Aborted || res.Step != 23 || calls != 23 {
		t.Fatalf("outcome %s at step %d after %d calls", res.Outcome, res.Step, calls)
	}
	if len(res.Telemetry) != 4 || !reflect.DeepEqual(trace.Records, res.Telemetry) {
		t.Fatalf("records %v", res.Telemetry)
	}
	for i, rec := range trace.Records {
		if rec.Step != uint64(5*(i+1)) {
			t.Fatalf("record %d at step %d", i, rec.Step)
		}
	}
	last, _ := trace.Last()
	if !floats.EqualWithinAbs(last.Time, 0.2, 1e-12) || last.Mass != 1000 || last.Altitude >= 1 || last.Drag != 0 {
		t.Fatalf("last record %s", last)
	}
}

func TestSimulatorEmptyAtmosphere(t *testing.T) {
	empty, _ := NewAtmosphere(nil, nil)
	body, _ := NewBody("Airless", EarthRadius, EarthMass, 0, empty)
	sim, _ := NewSimulator(body, ballast(t, body, 10), testSimConfig(0.01), nil)
	res, err := sim.Run()
	if res != nil || !errors.Is(err, ErrEmptyAtmosphere) {
		t.Fatalf("expected ErrEmptyAtmosphere, got %v", err)
	}
	var simErr *SimulationError
	if !errors.As(err, &simErr) || simErr.Step != 1 {
		t.Fatalf("expected a SimulationError at step 1, got %v", err)
	}
}

func TestSimulatorAtlasV401(t *testing.T) {
	earth := testBody(t)
	run := func() *Result {
		pos := earth.LaunchSite(0, 0, 0)
		rocket, err := NewAtlasV401(8900, StaticEngines, pos, pos)
		if err != nil {
			t.Fatal(err)
		}
		conf := testSimConfig(0.01)
		conf.MaxIterations = 26000
		conf.RecordEvery = 100
		sim, err := NewSimulator(earth, rocket, conf, nil)
		if err != nil {
			t.Fatal(err)
		}
		res, err := sim.Run()
		if err != nil {
			t.Fatal(err)
		}
		return res
	}
	res := run()
	if res.Outcome != IterationLimitReached || res.MECO {
		t.Fatalf("result %s", res)
	}
	if len(res.Staging) != 1 || res.Staging[0].From != 0 || res.Staging[0].To != 1 {
		t.Fatalf("staging %+v", res.Staging)
	}
	if !floats.EqualWithinAbs(res.Staging[0].Time, 253, 0.02) {
		t.Fatalf("first stage burn out at %f s", res.Staging[0].Time)
	}
	if res.Altitude < 100e3 || res.MaxForce > AtlasVMaxStructuralForce {
		t.Fatalf("result %s, max force %f", res, res.MaxForce)
	}
	if res.StageIndex != 1 || res.Mass >= 2316+20830+8900 {
		t.Fatalf("stage %d mass %f", res.StageIndex, res.Mass)
	}
	if res.Orbit == nil || res.Orbit.Orbiting(KarmanLine) {
		t.Fatalf("the first stage alone is suborbital: %s", res.Orbit)
	}
	maxQ, _ := (&Trace{Records: res.Telemetry}).MaxDrag()
	if maxQ.Drag <= 0 || maxQ.Altitude > 30 {
		t.Fatalf("max Q %s", maxQ)
	}
	if again := run(); !reflect.DeepEqual(res, again) {
		t.Fatal("runs are not deterministic")
	}
}

func TestSimConfigValidate(t *testing.T) {
	if err := DefaultSimConfig().Validate(); err != nil {
		t.Fatal(err)
	}
	mods := []func(*SimConfig){
		func(c *SimConfig) { c.Step = 0 },
		func(c *SimConfig) { c.Step = math.NaN() },
		func(c *SimConfig) { c.MaxIterations = 0 },
		func(c *SimConfig) { c.GroundTolerance = -1 },
		func(c *SimConfig) { c.RecordEvery = 0 },
		func(c *SimConfig) { c.Integrator = 0 },
		func(c *SimConfig) { c.Guidance.Throttle = -1 },
	}
	for i, mod := range mods {
		conf := DefaultSimConfig()
		mod(&conf)
		if err := conf.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("modification %d: expected ErrInvalidConfig, got %v", i, err)
		}
	}
	if _, err := NewSimulator(nil, nil, DefaultSimConfig(), nil); err == nil {
		t.Fatal("missing body should fail")
	}
}

func TestEnumStrings(t *testing.T) {
	for o, exp := range map[Outcome]string{StructuralFailure: "structural_failure", HardLanding: "hard_landing", SoftLanding: "soft_landing", IterationLimitReached: "iteration_limit_reached", Aborted: "aborted"} {
		if o.String() != exp {
			t.Fatalf("%d: %s != %s", o, o, exp)
		}
	}
	for _, name := range []string{"euler", "rk4"} {
		if k, err := IntegratorFromString(name); err != nil || k.String() != name {
			t.Fatalf("integrator %s: %v", name, err)
		}
	}
	if _, err := IntegratorFromString("dopri"); err == nil {
		t.Fatal("unknown integrator should fail")
	}
	assertPanic(t, func() {
		_ = Outcome(0).String()
	})
	assertPanic(t, func() {
		_ = IntegratorKind(9).String()
	})
}
