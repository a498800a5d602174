package mathf

// Vec3 is a 3 element vector of 32 bit floats. Methods follow the
// output-parameter convention: the receiver is the destination, the
// arguments are the operands, and the receiver is also returned so
// calls can be chained. This avoids allocating a new vector on every
// operation in hot per-tick loops.
type Vec3 struct {
	X, Y, Z float32
}

// V3 creates a vector with the given components.
func V3(x, y, z float32) Vec3 { return Vec3{x, y, z} }

// Zero3 is the zero vector.
var Zero3 = Vec3{}

// Set assigns x, y, z to v and returns v.
func (v *Vec3) Set(x, y, z float32) *Vec3 {
	v.X, v.Y, v.Z = x, y, z
	return v
}

// SetV assigns a's components to v and returns v.
func (v *Vec3) SetV(a *Vec3) *Vec3 { return v.Set(a.X, a.Y, a.Z) }

// Eq reports whether v and a are bit-identical.
func (v *Vec3) Eq(a *Vec3) bool { return v.X == a.X && v.Y == a.Y && v.Z == a.Z }

// Aeq reports whether v and a are almost-equal componentwise.
func (v *Vec3) Aeq(a *Vec3) bool { return Aeq(v.X, a.X) && Aeq(v.Y, a.Y) && Aeq(v.Z, a.Z) }

// AeqTolV reports whether v and a are almost-equal componentwise within
// an explicit tolerance, for tests that need a looser bound than
// Epsilon (e.g. comparing an integrated trajectory against an
// analytic expectation).
func (v *Vec3) AeqTolV(a *Vec3, tol float32) bool {
	return AeqTol(v.X, a.X, tol) && AeqTol(v.Y, a.Y, tol) && AeqTol(v.Z, a.Z, tol)
}

// AeqZ reports whether v is almost the zero vector.
func (v *Vec3) AeqZ() bool { return AeqZ(v.X) && AeqZ(v.Y) && AeqZ(v.Z) }

// IsFinite reports whether every component of v is finite.
func (v *Vec3) IsFinite() bool { return IsFinite(v.X) && IsFinite(v.Y) && IsFinite(v.Z) }

// Add sets v = a+b and returns v.
func (v *Vec3) Add(a, b *Vec3) *Vec3 {
	v.X, v.Y, v.Z = a.X+b.X, a.Y+b.Y, a.Z+b.Z
	return v
}

// Sub sets v = a-b and returns v.
func (v *Vec3) Sub(a, b *Vec3) *Vec3 {
	v.X, v.Y, v.Z = a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return v
}

// Neg sets v = -a and returns v.
func (v *Vec3) Neg(a *Vec3) *Vec3 {
	v.X, v.Y, v.Z = -a.X, -a.Y, -a.Z
	return v
}

// Scale sets v = a*s and returns v.
func (v *Vec3) Scale(a *Vec3, s float32) *Vec3 {
	v.X, v.Y, v.Z = a.X*s, a.Y*s, a.Z*s
	return v
}

// AddScaled sets v = a + b*s and returns v.
func (v *Vec3) AddScaled(a, b *Vec3, s float32) *Vec3 {
	v.X, v.Y, v.Z = a.X+b.X*s, a.Y+b.Y*s, a.Z+b.Z*s
	return v
}

// MulElem sets v = a (componentwise) * b and returns v.
func (v *Vec3) MulElem(a, b *Vec3) *Vec3 {
	v.X, v.Y, v.Z = a.X*b.X, a.Y*b.Y, a.Z*b.Z
	return v
}

// Dot returns a . b.
func (v *Vec3) Dot(a *Vec3) float32 { return v.X*a.X + v.Y*a.Y + v.Z*a.Z }

// Cross sets v = a x b and returns v. a and b must not alias v.
func (v *Vec3) Cross(a, b *Vec3) *Vec3 {
	x := a.Y*b.Z - a.Z*b.Y
	y := a.Z*b.X - a.X*b.Z
	z := a.X*b.Y - a.Y*b.X
	v.X, v.Y, v.Z = x, y, z
	return v
}

// LenSqr returns the squared length of v.
func (v *Vec3) LenSqr() float32 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

// Len returns the length of v.
func (v *Vec3) Len() float32 { return Sqrt(v.LenSqr()) }

// Unit sets v = a normalized and returns v. If a is the zero vector, v
// is set to the zero vector.
func (v *Vec3) Unit(a *Vec3) *Vec3 {
	l := a.Len()
	if l < Epsilon {
		v.Set(0, 0, 0)
		return v
	}
	return v.Scale(a, 1/l)
}

// Lerp sets v = a + (b-a)*t and returns v.
func (v *Vec3) Lerp(a, b *Vec3, t float32) *Vec3 {
	v.X = a.X + (b.X-a.X)*t
	v.Y = a.Y + (b.Y-a.Y)*t
	v.Z = a.Z + (b.Z-a.Z)*t
	return v
}

// Clone returns a copy of v.
func (v Vec3) Clone() Vec3 { return v }

// Add3 is a convenience value-returning add, used where chaining
// output-parameter calls would be noisier than the result is worth
// (e.g. one-off accumulation in wrench assembly).
func Add3(a, b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

// Sub3 is the value-returning counterpart of Sub.
func Sub3(a, b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

// Scale3 is the value-returning counterpart of Scale.
func Scale3(a Vec3, s float32) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

// Cross3 is the value-returning counterpart of Cross.
func Cross3(a, b Vec3) Vec3 {
	return Vec3{a.Y*b.Z - a.Z*b.Y, a.Z*b.X - a.X*b.Z, a.X*b.Y - a.Y*b.X}
}

// Dot3 is the value-returning counterpart of Dot.
func Dot3(a, b Vec3) float32 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
