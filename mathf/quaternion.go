package mathf

// Quat is a unit quaternion x,y,z,w (vector part first, scalar last —
// the convention spec section 9's Open Question resolution settled on
// for the unified drone-dynamics model).
type Quat struct {
	X, Y, Z, W float32
}

// IdentityQ is the identity rotation.
var IdentityQ = Quat{0, 0, 0, 1}

// QFromAxisAngle builds a unit quaternion representing a rotation of
// angle radians about axis (which need not be normalized; the zero
// vector yields the identity quaternion).
func QFromAxisAngle(axis Vec3, angle float32) Quat {
	u := Vec3{}
	u.Unit(&axis)
	if u.AeqZ() {
		return IdentityQ
	}
	s := Sin(angle * 0.5)
	return Quat{u.X * s, u.Y * s, u.Z * s, Cos(angle * 0.5)}
}

// Len returns the norm of q.
func (q *Quat) Len() float32 { return Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W) }

// Normalize sets q to a unit quaternion pointing the same way and
// returns q. If q has near-zero norm it is set to identity.
func (q *Quat) Normalize() *Quat {
	l := q.Len()
	if l < Epsilon {
		*q = IdentityQ
		return q
	}
	inv := 1 / l
	q.X, q.Y, q.Z, q.W = q.X*inv, q.Y*inv, q.Z*inv, q.W*inv
	return q
}

// IsFinite reports whether every component of q is finite.
func (q *Quat) IsFinite() bool {
	return IsFinite(q.X) && IsFinite(q.Y) && IsFinite(q.Z) && IsFinite(q.W)
}

// Mul sets q = a*b (Hamilton product, applying b then a) and returns q.
func (q *Quat) Mul(a, b *Quat) *Quat {
	x := a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y
	y := a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X
	z := a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W
	w := a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z
	q.X, q.Y, q.Z, q.W = x, y, z, w
	return q
}

// Conjugate sets q = conjugate(a) (inverse, for unit quaternions) and
// returns q.
func (q *Quat) Conjugate(a *Quat) *Quat {
	q.X, q.Y, q.Z, q.W = -a.X, -a.Y, -a.Z, a.W
	return q
}

// RotateVec sets v to a rotated by q (v = q * (a,0) * conj(q), computed
// via the optimized cross-product form) and returns v. a must not
// alias v.
func (q *Quat) RotateVec(v *Vec3, a *Vec3) *Vec3 {
	qv := Vec3{q.X, q.Y, q.Z}
	t := Vec3{}
	t.Cross(&qv, a)
	t.Scale(&t, 2)
	u := Vec3{}
	u.Cross(&qv, &t)
	r := Vec3{}
	r.Scale(&t, q.W)
	v.Add(a, &r)
	v.Add(v, &u)
	return v
}

// ToMat3 sets m to the rotation matrix equivalent to q and returns m.
func (q *Quat) ToMat3(m *Mat3) *Mat3 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	x2, y2, z2 := x+x, y+y, z+z
	xx, xy, xz := x*x2, x*y2, x*z2
	yy, yz, zz := y*y2, y*z2, z*z2
	wx, wy, wz := w*x2, w*y2, w*z2

	*m = Mat3{
		M00: 1 - (yy + zz), M01: xy - wz, M02: xz + wy,
		M10: xy + wz, M11: 1 - (xx + zz), M12: yz - wx,
		M20: xz - wy, M21: yz + wx, M22: 1 - (xx + yy),
	}
	return m
}

// QFromMat3 builds the unit quaternion equivalent to the rotation
// matrix m, using Shepperd's method for numerical stability across all
// rotations.
func QFromMat3(m *Mat3) Quat {
	trace := m.M00 + m.M11 + m.M22
	var q Quat
	switch {
	case trace > 0:
		s := Sqrt(trace+1) * 2
		q.W = 0.25 * s
		q.X = (m.M21 - m.M12) / s
		q.Y = (m.M02 - m.M20) / s
		q.Z = (m.M10 - m.M01) / s
	case m.M00 > m.M11 && m.M00 > m.M22:
		s := Sqrt(1+m.M00-m.M11-m.M22) * 2
		q.W = (m.M21 - m.M12) / s
		q.X = 0.25 * s
		q.Y = (m.M01 + m.M10) / s
		q.Z = (m.M02 + m.M20) / s
	case m.M11 > m.M22:
		s := Sqrt(1+m.M11-m.M00-m.M22) * 2
		q.W = (m.M02 - m.M20) / s
		q.X = (m.M01 + m.M10) / s
		q.Y = 0.25 * s
		q.Z = (m.M12 + m.M21) / s
	default:
		s := Sqrt(1+m.M22-m.M00-m.M11) * 2
		q.W = (m.M10 - m.M01) / s
		q.X = (m.M02 + m.M20) / s
		q.Y = (m.M12 + m.M21) / s
		q.Z = 0.25 * s
	}
	q.Normalize()
	return q
}

// Derivative computes q_dot = 1/2 * G(q)^T * omega_body, the standard
// quaternion kinematic relation, and stores it in qd. G(q) is the 3x4
// quaternion Jacobian; applying its transpose to the body angular
// velocity is equivalent to the Hamilton product q * (omega, 0) * 0.5
// used here directly for clarity.
func (qd *Quat) Derivative(q *Quat, omegaBody *Vec3) *Quat {
	omegaQ := Quat{omegaBody.X, omegaBody.Y, omegaBody.Z, 0}
	qd.Mul(q, &omegaQ)
	qd.X *= 0.5
	qd.Y *= 0.5
	qd.Z *= 0.5
	qd.W *= 0.5
	return qd
}

// ConstraintCorrect subtracts a small correction against the
// |q|^2 - 1 = 0 unit-norm constraint before renormalization, damping
// numerical drift that accumulates across many Euler steps. gain is
// typically small (e.g. 0.5) relative to the integration step.
func (q *Quat) ConstraintCorrect(gain float32) *Quat {
	c := (q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W - 1) * gain
	q.X -= q.X * c
	q.Y -= q.Y * c
	q.Z -= q.Z * c
	q.W -= q.W * c
	return q
}
