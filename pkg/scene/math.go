package scene

import (
	"math"

	"github.com/golang/geo/r3"
)

// Mat4 is a 4x4 affine/projective matrix indexed as m[row][col].
type Mat4 [4][4]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[i][k] * o[k][j]
			}
			r[i][j] = sum
		}
	}
	return r
}

// Translation returns a matrix translating by v.
func Translation(v r3.Vector) Mat4 {
	m := Identity()
	m[0][3], m[1][3], m[2][3] = v.X, v.Y, v.Z
	return m
}

// Scaling returns a uniform scale matrix.
func Scaling(s float64) Mat4 {
	m := Identity()
	m[0][0], m[1][1], m[2][2] = s, s, s
	return m
}

// TransformPoint applies m to v (w=1) and performs the perspective divide.
func (m Mat4) TransformPoint(v r3.Vector) r3.Vector {
	x := m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3]
	y := m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3]
	z := m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3]
	w := m[3][0]*v.X + m[3][1]*v.Y + m[3][2]*v.Z + m[3][3]
	if w == 0 {
		return r3.Vector{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}
	}
	return r3.Vector{X: x / w, Y: y / w, Z: z / w}
}

// TransformDirection applies the linear part of m to v (w=0).
func (m Mat4) TransformDirection(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Inverse returns the inverse of m. ok is false when m is singular.
func (m Mat4) Inverse() (Mat4, bool) {
	// Gauss-Jordan elimination with partial pivoting.
	a := m
	inv := Identity()
	for col := 0; col < 4; col++ {
		pivot := col
		for row := col + 1; row < 4; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return Mat4{}, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		p := a[col][col]
		for j := 0; j < 4; j++ {
			a[col][j] /= p
			inv[col][j] /= p
		}
		for row := 0; row < 4; row++ {
			if row == col {
				continue
			}
			f := a[row][col]
			for j := 0; j < 4; j++ {
				a[row][j] -= f * a[col][j]
				inv[row][j] -= f * inv[col][j]
			}
		}
	}
	return inv, true
}

// Euler is an XYZ-order rotation in radians.
type Euler struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Matrix returns the rotation matrix Rx * Ry * Rz.
func (e Euler) Matrix() Mat4 {
	a, b := math.Cos(e.X), math.Sin(e.X)
	c, d := math.Cos(e.Y), math.Sin(e.Y)
	f, g := math.Cos(e.Z), math.Sin(e.Z)

	ae, af, be, bf := a*f, a*g, b*f, b*g

	m := Identity()
	m[0][0] = c * f
	m[0][1] = -c * g
	m[0][2] = d
	m[1][0] = af + be*d
	m[1][1] = ae - bf*d
	m[1][2] = -b * c
	m[2][0] = bf - ae*d
	m[2][1] = be + af*d
	m[2][2] = a * c
	return m
}

// EulerFromMatrix extracts XYZ-order angles from the rotation part of m.
func EulerFromMatrix(m Mat4) Euler {
	var e Euler
	e.Y = math.Asin(clamp(m[0][2], -1, 1))
	if math.Abs(m[0][2]) < 0.9999999 {
		e.X = math.Atan2(-m[1][2], m[2][2])
		e.Z = math.Atan2(-m[0][1], m[0][0])
	} else {
		// Gimbal lock
		e.X = math.Atan2(m[2][1], m[1][1])
		e.Z = 0
	}
	return e
}

// lookRotation builds a rotation whose +Z axis points along (eye - target).
// Cameras look down -Z, so they use lookRotation(position, target);
// regular objects face a point with lookRotation(target, position).
func lookRotation(eye, target, up r3.Vector) Mat4 {
	z := eye.Sub(target)
	if z.Norm2() == 0 {
		z.Z = 1
	}
	z = z.Normalize()

	x := up.Cross(z)
	if x.Norm2() == 0 {
		// up and z are parallel, nudge z
		if math.Abs(up.Z) == 1 {
			z.X += 0.0001
		} else {
			z.Z += 0.0001
		}
		z = z.Normalize()
		x = up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)

	m := Identity()
	m[0][0], m[1][0], m[2][0] = x.X, x.Y, x.Z
	m[0][1], m[1][1], m[2][1] = y.X, y.Y, y.Z
	m[0][2], m[1][2], m[2][2] = z.X, z.Y, z.Z
	return m
}

// finite reports whether every component of v is a real number.
func finite(v r3.Vector) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Degenerate reports whether v cannot be used as a world position.
func Degenerate(v r3.Vector) bool {
	return !finite(v) || v.Norm2() == 0
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Vec3 is the JSON form of a vector.
type Vec3 [3]float64

// ToVec3 converts an r3.Vector for serialization.
func ToVec3(v r3.Vector) Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}
