package ascent

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// quaternionRotation returns the rotation matrix of the unit quaternion
// q = (cos(θ/2), sin(θ/2)·axis). The axis must be a unit vector.
func quaternionRotation(θ float64, axis Vector3) *mat64.Dense {
	s, c := math.Sincos(θ / 2)
	a, b, cc, d := c, axis.X*s, axis.Y*s, axis.Z*s
	aa, bb, c2, dd := a*a, b*b, cc*cc, d*d
	bc, ad, ac, ab, bd, cd := b*cc, a*d, a*cc, a*b, b*d, cc*d
	return mat64.NewDense(3, 3, []float64{aa + bb - c2 - dd, 2 * (bc - ad), 2 * (bd + ac),
		2 * (bc + ad), aa + c2 - bb - dd, 2 * (cd - ab),
		2 * (bd - ac), 2 * (cd + ab), aa + dd - bb - c2})
}

// mxv33 multiplies a 3x3 matrix with a vector. Note that there is no dimension check!
func mxv33(m *mat64.Dense, v Vector3) Vector3 {
	vVec := mat64.NewVector(3, v.Slice())
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return Vector3{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// r2 is the frame rotation about the 2nd axis.
func r2(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// r3 is the frame rotation about the 3rd axis.
func r3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}
