package ascent

import (
	"errors"
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestBodySurfaceGravity(t *testing.T) {
	earth := testBody(t)
	g := earth.SurfaceGravity()
	if g < 9.78 || g > 9.82 {
		t.Fatalf("surface gravity %f m/s²", g)
	}
	if !floats.EqualWithinRel(g, G*EarthMass/(EarthRadius*EarthRadius), 1e-14) {
		t.Fatal("surface gravity is not GM/R²")
	}
	for _, pos := range []Vector3{{EarthRadius, 0, 0}, {0, -EarthRadius, 0}, FromSpherical(EarthRadius, 1, 2)} {
		acc := earth.GravitationalAcceleration(pos)
		if !floats.EqualWithinRel(acc.Norm(), g, 1e-12) {
			t.Fatalf("gravity at %s is %f", pos, acc.Norm())
		}
		if !vectorsEqual(acc.Unit(), pos.Unit().Neg()) {
			t.Fatalf("gravity at %s does not point to the center", pos)
		}
	}
	// Inverse square of the distance from the center.
	far := earth.GravitationalAcceleration(Vector3{0, 0, 2 * EarthRadius})
	if !floats.EqualWithinRel(far.Norm(), g/4, 1e-12) {
		t.Fatalf("gravity at 2R is %f", far.Norm())
	}
}

func TestBodySurfaceVelocity(t *testing.T) {
	day, err := NewBody("Day", 6.38e6, EarthMass, 24*3600, testBody(t).Atmosphere())
	if err != nil {
		t.Fatal(err)
	}
	pos := Vector3{day.Radius, 0, 0}
	v := day.SurfaceVelocity(pos)
	if v.Norm() < 460 || v.Norm() > 465 {
		t.Fatalf("equatorial speed %f m/s", v.Norm())
	}
	if !vectorsEqual(v.Unit(), Vector3{0, 1, 0}) {
		t.Fatalf("surface velocity should point east: %s", v)
	}
	if !floats.EqualWithinAbs(v.Dot(pos), 0, 1e-6) {
		t.Fatal("surface velocity is not tangential")
	}
	// On the axis of rotation, the ground does not move.
	if !day.SurfaceVelocity(Vector3{0, 0, day.Radius}).IsZero() {
		t.Fatal("pole should not move")
	}
	still, _ := NewBody("Still", 1e6, 1e22, 0, day.Atmosphere())
	if !still.SurfaceVelocity(pos).IsZero() {
		t.Fatal("a body without rotation should not move")
	}
}

func TestBodyAltitudeAndAir(t *testing.T) {
	earth := testBody(t)
	pos := earth.LaunchSite(Deg2rad(28.5), Deg2rad(279.4), 0)
	if !floats.EqualWithinAbs(earth.Altitude(pos), 0, 1e-6) {
		t.Fatalf("launch site altitude %f", earth.Altitude(pos))
	}
	_, θ, φ := pos.Spherical()
	if ok, err := anglesEqual(θ, math.Pi/2-Deg2rad(28.5)); !ok {
		t.Fatalf("latitude: %s", err)
	}
	if ok, err := anglesEqual(φ, Deg2rad(279.4)); !ok {
		t.Fatalf("longitude: %s", err)
	}
	p, rho, err := earth.AirPressureAndDensity(pos)
	if err != nil {
		t.Fatal(err)
	}
	p0, rho0, _ := earth.Atmosphere().Lookup(0)
	if !floats.EqualWithinRel(p, p0, 1e-6) || !floats.EqualWithinRel(rho, rho0, 1e-6) {
		t.Fatal("air at the launch site is not the sea level air")
	}
}

func TestNewBodyErrors(t *testing.T) {
	atmo := testBody(t).Atmosphere()
	for _, tc := range []struct {
		radius, mass, period float64
		atmo                 *Atmosphere
	}{
		{0, 1, 1, atmo},
		{1, -1, 1, atmo},
		{1, 1, -1, atmo},
		{1, 1, 1, nil},
	} {
		if _, err := NewBody("bad", tc.radius, tc.mass, tc.period, tc.atmo); !errors.Is(err, ErrInvalidBody) {
			t.Fatalf("expected ErrInvalidBody for %+v, got %v", tc, err)
		}
	}
	if _, err := BodyFromName("Vesta", nil); err == nil {
		t.Fatal("unknown body should fail")
	}
	if earth, err := BodyFromName("EARTH", nil); err != nil || earth.Name != "Earth" {
		t.Fatalf("earth not found: %v", err)
	}
}
