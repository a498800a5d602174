// Package mathf is a fixed-precision 32-bit math kernel: vectors,
// quaternions, 3x3 matrices, hat/vee maps, and a small 3x3 linear
// solve. It has no dependencies outside the standard library — the
// genericity the rest of this module buys with third-party libraries
// is deliberately not spent here; this layer is payload-free arithmetic
// and every example repo that does collision or flight math hand-rolls
// it the same way.
package mathf

import "math"

// Various math constants and helpers, scaled to float32.
const (
	Pi     float32 = math.Pi
	TwoPi  float32 = Pi * 2
	HalfPi float32 = Pi * 0.5

	// Epsilon is used to decide when a float32 is close enough to a
	// target value that the difference doesn't matter.
	Epsilon float32 = 1e-6
)

// Aeq (~=) reports whether a and b are close enough that the
// difference doesn't matter.
func Aeq(a, b float32) bool { return Abs(a-b) < Epsilon }

// AeqZ (~=0) reports whether x is close enough to zero.
func AeqZ(x float32) bool { return Abs(x) < Epsilon }

// AeqTol is Aeq with an explicit tolerance.
func AeqTol(a, b, tol float32) bool { return Abs(a-b) < tol }

func Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func Sqrt(x float32) float32 { return float32(math.Sqrt(float64(x))) }
func Pow(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}
func Sin(x float32) float32  { return float32(math.Sin(float64(x))) }
func Cos(x float32) float32  { return float32(math.Cos(float64(x))) }
func Atan2(y, x float32) float32 {
	return float32(math.Atan2(float64(y), float64(x)))
}
func Asin(x float32) float32 { return float32(math.Asin(float64(x))) }

// Clamp returns s bounded to [lb, ub].
func Clamp(s, lb, ub float32) float32 {
	switch {
	case s < lb:
		return lb
	case s > ub:
		return ub
	}
	return s
}

// Sign returns -1, 0, or 1 according to the sign of x.
func Sign(x float32) float32 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// IsFinite reports whether x is neither NaN nor +/-Inf.
func IsFinite(x float32) bool {
	f := float64(x)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
