// Package control implements control allocation (spec section 3) and
// the SE(3) geometric controller (spec 4.6). No teacher file
// implements SE(3) control; the controller pipeline is authored
// directly from spec 4.6, restyled into gazed-vu's terser idiom (no
// teaching comments carried over), using
// ep-eaglepoint-ai-bd's flight_dynamics.go as a secondary domain
// reference for quaternion/attitude-error conventions.
package control

import (
	"gonum.org/v1/gonum/mat"

	"github.com/quadrocore/dynamics/errs"
	"github.com/quadrocore/dynamics/mathf"
	"github.com/quadrocore/dynamics/rotor"
)

// Allocation is the 4xN control-allocation matrix and its
// (pseudo-)inverse, built once from a rotor layout (spec section 3:
// "row 0 is ones (thrust), row 1 is rotor y (roll), row 2 is -rotor x
// (pitch), row 3 is (k_m/k_eta)*direction (yaw)").
type Allocation struct {
	n       int
	a       *mat.Dense // 4 x n.
	inverse *mat.Dense // n x 4.
}

// NewAllocation builds the allocation matrix for the given rotors and
// computes its inverse: an exact 4x4 matrix inverse for the
// common N=4 case (avoiding SVD overhead on the controller's hot
// path), otherwise a general SVD-based pseudo-inverse.
func NewAllocation(rotors []rotor.Params) (*Allocation, error) {
	n := len(rotors)
	if n < 4 {
		return nil, errs.New(errs.Validation, 40, "control allocation needs at least 4 rotors, got %d", n)
	}

	a := mat.NewDense(4, n, nil)
	for i, r := range rotors {
		if r.ThrustCoeff <= 0 {
			return nil, errs.New(errs.Validation, 41, "rotor %d thrust coefficient must be positive, got %v", i, r.ThrustCoeff)
		}
		a.Set(0, i, 1)
		a.Set(1, i, float64(r.Position.Y))
		a.Set(2, i, float64(-r.Position.X))
		a.Set(3, i, float64(r.ReactionTorque/r.ThrustCoeff)*float64(r.Spin))
	}

	inv, err := invertAllocation(a, n)
	if err != nil {
		return nil, err
	}
	return &Allocation{n: n, a: a, inverse: inv}, nil
}

func invertAllocation(a *mat.Dense, n int) (*mat.Dense, error) {
	if n == 4 {
		var square mat.Dense
		square.CloneFrom(a)
		var inv mat.Dense
		if err := inv.Inverse(&square); err != nil {
			return nil, errs.New(errs.Numeric, 42, "singular control allocation matrix: %v", err)
		}
		return &inv, nil
	}

	var svd mat.SVD
	ok := svd.Factorize(a, mat.SVDFull)
	if !ok {
		return nil, errs.New(errs.Numeric, 43, "control allocation SVD factorization failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	// Pseudo-inverse: V * Sigma^+ * U^T, Sigma^+ the reciprocal of each
	// non-negligible singular value.
	sigmaPlus := mat.NewDense(n, 4, nil)
	for i, s := range values {
		if s > mathf.Epsilon {
			sigmaPlus.Set(i, i, 1/s)
		}
	}
	var vSigma mat.Dense
	vSigma.Mul(&v, sigmaPlus)
	var inv mat.Dense
	inv.Mul(&vSigma, u.T())
	return &inv, nil
}

// N returns the number of rotors this allocation was built for.
func (al *Allocation) N() int { return al.n }

// Forces maps (collective thrust, body moments) to n per-rotor
// pseudo-forces f_i such that T_i = f_i (spec 4.6 step 8: "f =
// A^-1 . (u1, u2)").
func (al *Allocation) Forces(thrust float32, moment mathf.Vec3) []float32 {
	cmd := mat.NewVecDense(4, []float64{float64(thrust), float64(moment.X), float64(moment.Y), float64(moment.Z)})
	var out mat.VecDense
	out.MulVec(al.inverse, cmd)
	forces := make([]float32, al.n)
	for i := 0; i < al.n; i++ {
		forces[i] = float32(out.AtVec(i))
	}
	return forces
}

// Command maps n per-rotor forces back to (thrust, moment) = A * f,
// used by tests to check the round-trip law A^-1 * A * x = x.
func (al *Allocation) Command(forces []float32) (thrust float32, moment mathf.Vec3) {
	f := mat.NewVecDense(al.n, nil)
	for i, v := range forces {
		f.SetVec(i, float64(v))
	}
	var out mat.VecDense
	out.MulVec(al.a, f)
	return float32(out.AtVec(0)), mathf.V3(float32(out.AtVec(1)), float32(out.AtVec(2)), float32(out.AtVec(3)))
}
