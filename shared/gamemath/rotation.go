package gamemath

import "math"

// Quat is a unit quaternion orientation. The zero value is not a valid
// rotation; use Identity.
type Quat struct {
	X, Y, Z, W float64
}

var Identity = Quat{W: 1}

// AxisAngle builds a rotation of angle radians around axis.
func AxisAngle(axis Vec3, angle float64) Quat {
	a := axis.Normalized()
	s := math.Sin(angle / 2)
	return Quat{X: a.X * s, Y: a.Y * s, Z: a.Z * s, W: math.Cos(angle / 2)}
}

// Euler builds a rotation from pitch (X), yaw (Y) and roll (Z) in degrees,
// applied in Z, X, Y order.
func Euler(pitch, yaw, roll float64) Quat {
	toRad := math.Pi / 180
	qx := AxisAngle(Right, pitch*toRad)
	qy := AxisAngle(Up, yaw*toRad)
	qz := AxisAngle(Forward, roll*toRad)
	return qy.Mul(qx).Mul(qz)
}

// Mul composes q then r applied in local space (q * r).
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Normalized returns q scaled to unit length. A degenerate quaternion
// normalizes to Identity.
func (q Quat) Normalized() Quat {
	l := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return Identity
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Forward is the direction the rotation faces (+Z rotated).
func (q Quat) Forward() Vec3 {
	return q.Rotate(Forward)
}

// Up is the local up axis (+Y rotated).
func (q Quat) Up() Vec3 {
	return q.Rotate(Up)
}

// Slerp interpolates between two orientations along the shortest arc.
func Slerp(a, b Quat, t float64) Quat {
	cos := a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
	if cos < 0 {
		b = Quat{-b.X, -b.Y, -b.Z, -b.W}
		cos = -cos
	}
	if cos > 0.9995 {
		return Quat{
			X: a.X + (b.X-a.X)*t,
			Y: a.Y + (b.Y-a.Y)*t,
			Z: a.Z + (b.Z-a.Z)*t,
			W: a.W + (b.W-a.W)*t,
		}.Normalized()
	}
	theta := math.Acos(cos)
	sin := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sin
	wb := math.Sin(t*theta) / sin
	return Quat{
		X: a.X*wa + b.X*wb,
		Y: a.Y*wa + b.Y*wb,
		Z: a.Z*wa + b.Z*wb,
		W: a.W*wa + b.W*wb,
	}
}
