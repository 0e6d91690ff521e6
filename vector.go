package ascent

import (
	"fmt"
	"math"

	"github.com/gonum/floats"
)

// Vector3 is a three component vector, in meters, m/s or newtons depending on use.
// The value methods never modify their operands; the pointer methods mutate the
// receiver and return it so calls can be chained.
type Vector3 struct {
	X, Y, Z float64
}

// NewVector3 returns a new vector.
func NewVector3(x, y, z float64) Vector3 {
	return Vector3{x, y, z}
}

// FromSpherical returns the Cartesian vector of the provided spherical coordinates,
// where θ is the inclination from +z and φ the azimuth.
func FromSpherical(r, θ, φ float64) Vector3 {
	sθ, cθ := math.Sincos(θ)
	sφ, cφ := math.Sincos(φ)
	return Vector3{r * sθ * cφ, r * sθ * sφ, r * cθ}
}

// Norm returns the magnitude of the vector.
func (v Vector3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// IsZero returns whether all components are zero.
func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Plus returns v+o.
func (v Vector3) Plus(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Minus returns v-o.
func (v Vector3) Minus(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scaled returns v*k.
func (v Vector3) Scaled(k float64) Vector3 {
	return Vector3{v.X * k, v.Y * k, v.Z * k}
}

// Neg returns -v.
func (v Vector3) Neg() Vector3 {
	return Vector3{-v.X, -v.Y, -v.Z}
}

// Dot returns the inner product.
func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns v x o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X}
}

// Unit returns the unit vector of v. It panics if v has no length.
func (v Vector3) Unit() Vector3 {
	u := v
	return *u.Normalize()
}

// Rotated returns v rotated by angle (radians) about axis, right hand rule.
func (v Vector3) Rotated(angle float64, axis Vector3) Vector3 {
	u := v
	return *u.Rotate(angle, &axis)
}

// Spherical returns the radius, the inclination θ from +z and the azimuth φ.
// The zero vector returns all zeros.
func (v Vector3) Spherical() (r, θ, φ float64) {
	r = v.Norm()
	if r == 0 {
		return 0, 0, 0
	}
	θ = math.Acos(v.Z / r)
	φ = math.Atan2(v.Y, v.X)
	return
}

// Equals returns whether both vectors are equal component wise within the absolute tolerance.
func (v Vector3) Equals(o Vector3, tol float64) bool {
	return floats.EqualWithinAbs(v.X, o.X, tol) && floats.EqualWithinAbs(v.Y, o.Y, tol) && floats.EqualWithinAbs(v.Z, o.Z, tol)
}

// Slice returns the components as a new slice.
func (v Vector3) Slice() []float64 {
	return []float64{v.X, v.Y, v.Z}
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g,%g,%g)", v.X, v.Y, v.Z)
}

// Add adds o to v.
func (v *Vector3) Add(o Vector3) *Vector3 {
	v.X += o.X
	v.Y += o.Y
	v.Z += o.Z
	return v
}

// Sub subtracts o from v.
func (v *Vector3) Sub(o Vector3) *Vector3 {
	v.X -= o.X
	v.Y -= o.Y
	v.Z -= o.Z
	return v
}

// Mult scales v by factor.
func (v *Vector3) Mult(factor float64) *Vector3 {
	v.X *= factor
	v.Y *= factor
	v.Z *= factor
	return v
}

// Assign copies o into v.
func (v *Vector3) Assign(o Vector3) *Vector3 {
	*v = o
	return v
}

// Zero sets all components to zero.
func (v *Vector3) Zero() *Vector3 {
	*v = Vector3{}
	return v
}

// Normalize scales v to unit length.
// Normalizing a zero vector is a caller error and panics.
func (v *Vector3) Normalize() *Vector3 {
	n := v.Norm()
	if n == 0 {
		panic("cannot normalize a zero length vector")
	}
	return v.Mult(1 / n)
}

// Rotate rotates v by angle (radians) about axis. The axis is normalized in place first.
func (v *Vector3) Rotate(angle float64, axis *Vector3) *Vector3 {
	axis.Normalize()
	*v = mxv33(quaternionRotation(angle, *axis), *v)
	return v
}
