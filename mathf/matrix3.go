package mathf

// Mat3 is a 3x3 matrix of 32 bit floats, stored row-major.
type Mat3 struct {
	M00, M01, M02 float32
	M10, M11, M12 float32
	M20, M21, M22 float32
}

// Diag3 builds a diagonal matrix from x, y, z.
func Diag3(x, y, z float32) Mat3 {
	return Mat3{
		M00: x, M11: y, M22: z,
	}
}

// Identity3 is the 3x3 identity matrix.
var Identity3 = Diag3(1, 1, 1)

// Transpose sets m = a^T and returns m.
func (m *Mat3) Transpose(a *Mat3) *Mat3 {
	*m = Mat3{
		M00: a.M00, M01: a.M10, M02: a.M20,
		M10: a.M01, M11: a.M11, M12: a.M21,
		M20: a.M02, M21: a.M12, M22: a.M22,
	}
	return m
}

// MulM sets m = a*b and returns m. a and b must not alias m.
func (m *Mat3) MulM(a, b *Mat3) *Mat3 {
	m.M00 = a.M00*b.M00 + a.M01*b.M10 + a.M02*b.M20
	m.M01 = a.M00*b.M01 + a.M01*b.M11 + a.M02*b.M21
	m.M02 = a.M00*b.M02 + a.M01*b.M12 + a.M02*b.M22

	m.M10 = a.M10*b.M00 + a.M11*b.M10 + a.M12*b.M20
	m.M11 = a.M10*b.M01 + a.M11*b.M11 + a.M12*b.M21
	m.M12 = a.M10*b.M02 + a.M11*b.M12 + a.M12*b.M22

	m.M20 = a.M20*b.M00 + a.M21*b.M10 + a.M22*b.M20
	m.M21 = a.M20*b.M01 + a.M21*b.M11 + a.M22*b.M21
	m.M22 = a.M20*b.M02 + a.M21*b.M12 + a.M22*b.M22
	return m
}

// MulV sets v = m*a and returns v. a must not alias v.
func (m *Mat3) MulV(v *Vec3, a *Vec3) *Vec3 {
	x := m.M00*a.X + m.M01*a.Y + m.M02*a.Z
	y := m.M10*a.X + m.M11*a.Y + m.M12*a.Z
	z := m.M20*a.X + m.M21*a.Y + m.M22*a.Z
	v.X, v.Y, v.Z = x, y, z
	return v
}

// Add sets m = a+b and returns m.
func (m *Mat3) Add(a, b *Mat3) *Mat3 {
	m.M00, m.M01, m.M02 = a.M00+b.M00, a.M01+b.M01, a.M02+b.M02
	m.M10, m.M11, m.M12 = a.M10+b.M10, a.M11+b.M11, a.M12+b.M12
	m.M20, m.M21, m.M22 = a.M20+b.M20, a.M21+b.M21, a.M22+b.M22
	return m
}

// Sub sets m = a-b and returns m.
func (m *Mat3) Sub(a, b *Mat3) *Mat3 {
	m.M00, m.M01, m.M02 = a.M00-b.M00, a.M01-b.M01, a.M02-b.M02
	m.M10, m.M11, m.M12 = a.M10-b.M10, a.M11-b.M11, a.M12-b.M12
	m.M20, m.M21, m.M22 = a.M20-b.M20, a.M21-b.M21, a.M22-b.M22
	return m
}

// Scale sets m = a*s and returns m.
func (m *Mat3) Scale(a *Mat3, s float32) *Mat3 {
	m.M00, m.M01, m.M02 = a.M00*s, a.M01*s, a.M02*s
	m.M10, m.M11, m.M12 = a.M10*s, a.M11*s, a.M12*s
	m.M20, m.M21, m.M22 = a.M20*s, a.M21*s, a.M22*s
	return m
}

// Det returns the determinant of m.
func (m *Mat3) Det() float32 {
	return m.M00*(m.M11*m.M22-m.M12*m.M21) -
		m.M01*(m.M10*m.M22-m.M12*m.M20) +
		m.M02*(m.M10*m.M21-m.M11*m.M20)
}

// Hat sets m to the skew-symmetric cross-product matrix of v (the hat
// map: Hat(v)*x == v cross x for all x) and returns m.
func (m *Mat3) Hat(v *Vec3) *Mat3 {
	*m = Mat3{
		M00: 0, M01: -v.Z, M02: v.Y,
		M10: v.Z, M11: 0, M12: -v.X,
		M20: -v.Y, M21: v.X, M22: 0,
	}
	return m
}

// Vee sets v to the inverse of Hat: given a skew-symmetric matrix m,
// recovers the generating vector. m is assumed skew-symmetric; only
// the entries M21, M02 and M10 are read.
func (v *Vec3) Vee(m *Mat3) *Vec3 {
	v.X, v.Y, v.Z = m.M21, m.M02, m.M10
	return v
}

// Solve3 solves a*x = b for x via Cramer's rule, returning (x, ok). ok
// is false when a is singular (|det| below Epsilon), in which case x is
// the zero vector and the caller should treat this as a Numeric error.
func Solve3(a *Mat3, b *Vec3) (x Vec3, ok bool) {
	det := a.Det()
	if Abs(det) < Epsilon {
		return Vec3{}, false
	}
	inv := 1 / det
	// Cramer's rule: replace each column of a with b in turn.
	ax := Mat3{
		M00: b.X, M01: a.M01, M02: a.M02,
		M10: b.Y, M11: a.M11, M12: a.M12,
		M20: b.Z, M21: a.M21, M22: a.M22,
	}
	ay := Mat3{
		M00: a.M00, M01: b.X, M02: a.M02,
		M10: a.M10, M11: b.Y, M12: a.M12,
		M20: a.M20, M21: b.Z, M22: a.M22,
	}
	az := Mat3{
		M00: a.M00, M01: a.M01, M02: b.X,
		M10: a.M10, M11: a.M11, M12: b.Y,
		M20: a.M20, M21: a.M21, M22: b.Z,
	}
	x = Vec3{ax.Det() * inv, ay.Det() * inv, az.Det() * inv}
	return x, true
}
