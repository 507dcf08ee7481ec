// Package vmath provides the small numeric primitives shared by the geometry
// generators and the frame pipeline: 3D vectors, interpolation helpers, a
// deterministic value-noise field and a hashed per-index random source.
package vmath

import "math"

// Phi is the golden ratio.
const Phi = 1.6180339887498949

// GoldenAngle is the golden angle in radians, used by the phyllotaxis and
// Vogel samplers.
const GoldenAngle = 2.3999632297286533

// Vec3 represents a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 creates a new Vec3.
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors.
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar.
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude of the vector.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns a unit vector in the same direction. The zero vector is
// returned unchanged.
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{}
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

// Mix linearly interpolates between two vectors.
func Mix(a, b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// Clamp limits v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Smoothstep is the cubic Hermite ramp 3t²-2t³ between edge0 and edge1.
// Equal edges degenerate to a hard step.
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := Clamp01((x - edge0) / math.Max(1e-6, edge1-edge0))
	return t * t * (3.0 - 2.0*t)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RandForIndex returns a deterministic pseudo-random value in [0,1) derived
// from an integer index and a salt. Points carry a stable seed so the same
// point always rolls the same number.
func RandForIndex(index, salt int) float64 {
	s := float64(index)*12.9898 + float64(salt)*78.233
	x := math.Sin(s) * 43758.5453
	return x - math.Floor(x)
}

// hashLattice folds three lattice coordinates into a repeatable value in
// [0,1]. The integer recurrence matches the noise used by the geometry
// defaults, so identical inputs keep producing identical clouds.
func hashLattice(ix, iy, iz int64) float64 {
	n := ix*15731 + iy*789221 + iz*1376312589
	n = (n << 13) ^ n
	return (1.0-float64((n*(n*n*15731+789221)+1376312589)&0x7FFFFFFF)/1073741824.0)*0.5 + 0.5
}

// ValueNoise3 samples a smooth trilinear value-noise field at (x, y, z).
// The result is in [0, 1].
func ValueNoise3(x, y, z float64) float64 {
	xi := math.Floor(x)
	yi := math.Floor(y)
	zi := math.Floor(z)
	xf := x - xi
	yf := y - yi
	zf := z - zi

	ix, iy, iz := int64(xi), int64(yi), int64(zi)

	c000 := hashLattice(ix, iy, iz)
	c100 := hashLattice(ix+1, iy, iz)
	c010 := hashLattice(ix, iy+1, iz)
	c110 := hashLattice(ix+1, iy+1, iz)
	c001 := hashLattice(ix, iy, iz+1)
	c101 := hashLattice(ix+1, iy, iz+1)
	c011 := hashLattice(ix, iy+1, iz+1)
	c111 := hashLattice(ix+1, iy+1, iz+1)

	smooth := func(t float64) float64 { return t * t * (3.0 - 2.0*t) }
	u := smooth(xf)
	v := smooth(yf)
	w := smooth(zf)

	x00 := Lerp(c000, c100, u)
	x10 := Lerp(c010, c110, u)
	x01 := Lerp(c001, c101, u)
	x11 := Lerp(c011, c111, u)
	y0 := Lerp(x00, x10, v)
	y1 := Lerp(x01, x11, v)
	return Lerp(y0, y1, w)
}

// SphericalAngles returns the polar angle theta in [0,π] and azimuth phi in
// [0,2π) of a point. The origin maps to the north pole direction.
func SphericalAngles(x, y, z float64) (theta, phi float64) {
	r := math.Sqrt(x*x + y*y + z*z)
	if r == 0 {
		r = 1
	}
	theta = math.Acos(Clamp(y/r, -1, 1))
	phi = math.Atan2(z, x)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return theta, phi
}
