package trajectory

import (
	"gonum.org/v1/gonum/mat"

	"github.com/quadrocore/dynamics/control"
	"github.com/quadrocore/dynamics/errs"
	"github.com/quadrocore/dynamics/mathf"
)

// MinSnap is the minimum-snap polynomial trajectory spec section 6
// names: "7th-order per segment, boundary conditions continuous up to
// jerk, endpoints at rest." Interior waypoint velocity/acceleration/
// jerk are estimated from neighboring segments by finite difference
// (a Hermite-spline construction) rather than solved from a full
// snap-minimizing quadratic program across all segments; each segment
// is then an exactly-determined 8-unknown boundary value problem,
// solved with `gonum.org/v1/gonum/mat`, reusing the allocation
// package's dependency.
type MinSnap struct {
	starts   []float32 // cumulative segment start times, length = segments+1.
	segments []minSnapSegment
}

type minSnapSegment struct {
	duration float32
	coeffs   [8]mathf.Vec3
}

// NewMinSnap builds a minimum-snap trajectory through waypoints,
// spending durations[i] seconds on the segment from waypoints[i] to
// waypoints[i+1]. len(durations) must equal len(waypoints)-1.
func NewMinSnap(waypoints []mathf.Vec3, durations []float32) (*MinSnap, error) {
	n := len(waypoints)
	if n < 2 {
		return nil, errs.New(errs.Validation, 60, "minimum-snap trajectory needs at least 2 waypoints, got %d", n)
	}
	if len(durations) != n-1 {
		return nil, errs.New(errs.Validation, 61, "expected %d segment durations, got %d", n-1, len(durations))
	}
	for i, d := range durations {
		if d <= 0 {
			return nil, errs.New(errs.Validation, 62, "segment %d duration must be positive, got %v", i, d)
		}
	}

	vel := make([]mathf.Vec3, n)
	acc := make([]mathf.Vec3, n)
	jerk := make([]mathf.Vec3, n)

	for i := 1; i < n-1; i++ {
		dPrev := durations[i-1]
		dNext := durations[i]
		var secantPrev, secantNext mathf.Vec3
		secantPrev.Sub(&waypoints[i], &waypoints[i-1]).Scale(&secantPrev, 1/dPrev)
		secantNext.Sub(&waypoints[i+1], &waypoints[i]).Scale(&secantNext, 1/dNext)
		vel[i].Add(&secantPrev, &secantNext).Scale(&vel[i], 0.5)
	}
	for i := 1; i < n-1; i++ {
		span := durations[i-1] + durations[i]
		acc[i].Sub(&vel[i+1], &vel[i-1]).Scale(&acc[i], 1/span)
	}
	for i := 1; i < n-1; i++ {
		span := durations[i-1] + durations[i]
		jerk[i].Sub(&acc[i+1], &acc[i-1]).Scale(&jerk[i], 1/span)
	}

	starts := make([]float32, n)
	for i := 1; i < n; i++ {
		starts[i] = starts[i-1] + durations[i-1]
	}

	segments := make([]minSnapSegment, n-1)
	for k := 0; k < n-1; k++ {
		coeffs, err := solveHermiteSegment(durations[k],
			waypoints[k], vel[k], acc[k], jerk[k],
			waypoints[k+1], vel[k+1], acc[k+1], jerk[k+1])
		if err != nil {
			return nil, err
		}
		segments[k] = minSnapSegment{duration: durations[k], coeffs: coeffs}
	}

	return &MinSnap{starts: starts, segments: segments}, nil
}

// solveHermiteSegment solves the 8x8 linear system matching position,
// velocity, acceleration, and jerk at both endpoints of a degree-7
// polynomial p(s) = sum_j coeffs[j]*s^j, s in [0, duration].
func solveHermiteSegment(duration float32, p0, v0, a0, j0, p1, v1, a1, j1 mathf.Vec3) ([8]mathf.Vec3, error) {
	var coeffs [8]mathf.Vec3
	t := float64(duration)

	rows := make([]float64, 0, 64)
	appendRow := func(order int, at float64) {
		for j := 0; j < 8; j++ {
			rows = append(rows, basisDerivative(j, order, at))
		}
	}
	appendRow(0, 0)
	appendRow(1, 0)
	appendRow(2, 0)
	appendRow(3, 0)
	appendRow(0, t)
	appendRow(1, t)
	appendRow(2, t)
	appendRow(3, t)

	a := mat.NewDense(8, 8, rows)
	b := mat.NewDense(8, 3, []float64{
		float64(p0.X), float64(p0.Y), float64(p0.Z),
		float64(v0.X), float64(v0.Y), float64(v0.Z),
		float64(a0.X), float64(a0.Y), float64(a0.Z),
		float64(j0.X), float64(j0.Y), float64(j0.Z),
		float64(p1.X), float64(p1.Y), float64(p1.Z),
		float64(v1.X), float64(v1.Y), float64(v1.Z),
		float64(a1.X), float64(a1.Y), float64(a1.Z),
		float64(j1.X), float64(j1.Y), float64(j1.Z),
	})

	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		return coeffs, errs.New(errs.Numeric, 63, "minimum-snap segment of duration %v is singular: %v", duration, err)
	}
	for j := 0; j < 8; j++ {
		coeffs[j] = mathf.V3(float32(x.At(j, 0)), float32(x.At(j, 1)), float32(x.At(j, 2)))
	}
	return coeffs, nil
}

// basisDerivative returns the `order`-th derivative of s^j evaluated
// at s=at: d^order/ds^order [s^j].
func basisDerivative(j, order int, at float64) float64 {
	if j < order {
		return 0
	}
	coef := 1.0
	for k := 0; k < order; k++ {
		coef *= float64(j - k)
	}
	power := j - order
	v := coef
	for p := 0; p < power; p++ {
		v *= at
	}
	return v
}

// Update evaluates the trajectory at t, clamping to the first or last
// segment outside [0, total duration].
func (m *MinSnap) Update(t float32) control.FlatOutput {
	k := 0
	for k < len(m.segments)-1 && t >= m.starts[k+1] {
		k++
	}
	seg := m.segments[k]
	s := t - m.starts[k]
	if s < 0 {
		s = 0
	}
	if s > seg.duration {
		s = seg.duration
	}

	return control.FlatOutput{
		Position:     evalPoly(seg.coeffs[:], 0, s),
		Velocity:     evalPoly(seg.coeffs[:], 1, s),
		Acceleration: evalPoly(seg.coeffs[:], 2, s),
		Jerk:         evalPoly(seg.coeffs[:], 3, s),
		Snap:         evalPoly(seg.coeffs[:], 4, s),
	}
}

func evalPoly(coeffs []mathf.Vec3, order int, s float32) mathf.Vec3 {
	var out mathf.Vec3
	for j := order; j < len(coeffs); j++ {
		w := float32(basisDerivative(j, order, float64(s)))
		out.X += coeffs[j].X * w
		out.Y += coeffs[j].Y * w
		out.Z += coeffs[j].Z * w
	}
	return out
}
