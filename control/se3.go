package control

import (
	"github.com/quadrocore/dynamics/errs"
	"github.com/quadrocore/dynamics/mathf"
	"github.com/quadrocore/dynamics/rotor"
)

// Gravity is the magnitude (m/s^2) used to build the feedforward
// gravity term in the desired-force equation (spec 4.6 step 2:
// "F_des = m . (-k_pos e_p - k_vel e_v + a_des + g)"; g here points
// along +z, counteracting the downward gravitational acceleration the
// rigid-body integrator applies separately).
const Gravity float32 = 9.81

// FlatOutput is a trajectory point's instantaneous value (spec section
// 3): the flat outputs and derivatives the SE(3) controller needs.
type FlatOutput struct {
	Position     mathf.Vec3
	Velocity     mathf.Vec3
	Acceleration mathf.Vec3
	Jerk         mathf.Vec3
	Snap         mathf.Vec3
	Yaw          float32
	YawRate      float32
	YawAccel     float32
}

// Gains are the four per-axis gain vectors spec 4.6 names.
type Gains struct {
	Pos, Vel, AttP, AttD mathf.Vec3
}

// Mode selects which stage of the 8-step pipeline a Command call
// enters at, per spec 4.6: "alternative modes plug in at the
// appropriate stage and bypass the ones above them."
type Mode int

const (
	// ModeFlatOutput runs the full 8-step pipeline from a FlatOutput.
	ModeFlatOutput Mode = iota
	// ModeMotorSpeeds passes rotor speeds straight through (bypasses
	// everything; used for direct open-loop rotor-speed commands).
	ModeMotorSpeeds
	// ModeMotorThrusts converts per-rotor thrust commands to rotor
	// speeds directly, bypassing allocation.
	ModeMotorThrusts
	// ModeCollectiveBodyRates takes (thrust, desired body rates) and
	// skips position/velocity/attitude-error stages, using a
	// proportional rate error directly as u2's rate term.
	ModeCollectiveBodyRates
	// ModeCollectiveBodyMoments takes (thrust, moment) directly to
	// allocation, bypassing the whole attitude pipeline.
	ModeCollectiveBodyMoments
	// ModeCollectiveAttitude takes (thrust, desired attitude
	// quaternion) and enters at step 5 (attitude error).
	ModeCollectiveAttitude
	// ModeVelocity takes a desired velocity and treats e_p as zero,
	// entering at step 2 with only the velocity error term.
	ModeVelocity
	// ModeAcceleration takes a desired acceleration directly as
	// a_des, entering at step 2 with zero position/velocity error.
	ModeAcceleration
)

// Controller is the SE(3) geometric controller plus the control
// allocation it feeds. Grounded on spec 4.6 directly; no teacher file
// implements SE(3) control.
type Controller struct {
	Mass    float32
	Inertia mathf.Mat3
	Gains   Gains
	Alloc   *Allocation
	Rotors  []rotor.Params
}

// NewController validates and returns a Controller over the given
// rotor layout's allocation.
func NewController(mass float32, inertia mathf.Mat3, gains Gains, rotors []rotor.Params) (*Controller, error) {
	if mass <= 0 || !mathf.IsFinite(mass) {
		return nil, errs.New(errs.Validation, 50, "controller mass must be positive, got %v", mass)
	}
	alloc, err := NewAllocation(rotors)
	if err != nil {
		return nil, err
	}
	return &Controller{Mass: mass, Inertia: inertia, Gains: gains, Alloc: alloc, Rotors: rotors}, nil
}

// Command computes rotor-speed commands for the given control mode,
// current drone state, and desired flat output. override carries
// mode-specific inputs not representable by FlatOutput alone (desired
// attitude for ModeCollectiveAttitude, desired body rates for
// ModeCollectiveBodyRates, direct thrust/moment for
// ModeCollectiveBodyMoments, per-rotor thrusts for ModeMotorThrusts,
// rotor speeds for ModeMotorSpeeds); it is ignored by modes that don't
// need it.
func (c *Controller) Command(mode Mode, state rotor.State, desired FlatOutput, override Override) ([]float32, error) {
	if !state.Orientation.IsFinite() || mathf.Abs(state.Orientation.Len()-1) > 1e-3 {
		return nil, errs.New(errs.Validation, 51, "drone orientation quaternion must be unit-norm, got norm %v", state.Orientation.Len())
	}

	switch mode {
	case ModeMotorSpeeds:
		return c.clampAll(override.RotorSpeeds), nil
	case ModeMotorThrusts:
		return c.speedsFromForces(override.RotorThrusts), nil
	case ModeCollectiveBodyMoments:
		forces := c.Alloc.Forces(override.Thrust, override.Moment)
		return c.speedsFromForces(forces), nil
	case ModeCollectiveBodyRates:
		u2 := c.rateControl(state, override.BodyRatesDesired)
		forces := c.Alloc.Forces(override.Thrust, u2)
		return c.speedsFromForces(forces), nil
	case ModeCollectiveAttitude:
		rDes, err := quatToValidatedMat3(override.AttitudeDesired)
		if err != nil {
			return nil, err
		}
		u2, err := c.attitudeControl(state, rDes, override.BodyRatesDesired)
		if err != nil {
			return nil, err
		}
		forces := c.Alloc.Forces(override.Thrust, u2)
		return c.speedsFromForces(forces), nil
	case ModeVelocity:
		return c.fromForceError(state, state.Position, desired.Velocity, desired.Acceleration, desired.Yaw, desired.YawRate)
	case ModeAcceleration:
		return c.fromForceError(state, state.Position, state.Velocity, desired.Acceleration, desired.Yaw, desired.YawRate)
	default:
		return c.fromForceError(state, desired.Position, desired.Velocity, desired.Acceleration, desired.Yaw, desired.YawRate)
	}
}

// Override carries the mode-specific inputs spec 4.6's alternative
// control modes need beyond a FlatOutput.
type Override struct {
	RotorSpeeds      []float32
	RotorThrusts     []float32
	Thrust           float32
	Moment           mathf.Vec3
	BodyRatesDesired mathf.Vec3
	AttitudeDesired  mathf.Quat
}

// fromForceError runs steps 1-8 of the geometric pipeline starting
// from position/velocity/acceleration/yaw errors (spec 4.6).
func (c *Controller) fromForceError(state rotor.State, posDes, velDes, accDes mathf.Vec3, yawDes, yawRateDes float32) ([]float32, error) {
	ep := mathf.Vec3{}
	ep.Sub(&state.Position, &posDes)
	ev := mathf.Vec3{}
	ev.Sub(&state.Velocity, &velDes)

	fDes := mathf.Vec3{
		X: c.Mass * (-c.Gains.Pos.X*ep.X - c.Gains.Vel.X*ev.X + accDes.X),
		Y: c.Mass * (-c.Gains.Pos.Y*ep.Y - c.Gains.Vel.Y*ev.Y + accDes.Y),
		Z: c.Mass * (-c.Gains.Pos.Z*ep.Z - c.Gains.Vel.Z*ev.Z + accDes.Z + Gravity),
	}
	if !fDes.IsFinite() {
		return nil, errs.New(errs.Validation, 52, "desired force is non-finite: %v", fDes)
	}

	var rot mathf.Mat3
	state.Orientation.ToMat3(&rot)
	zhat := mathf.V3(0, 0, 1)
	b3 := mathf.Vec3{}
	rot.MulV(&b3, &zhat)
	u1 := fDes.Dot(&b3)

	if fDes.Len() < mathf.Epsilon {
		return nil, errs.New(errs.Numeric, 53, "desired force magnitude too small to derive a desired attitude")
	}
	b3Des := mathf.Vec3{}
	b3Des.Unit(&fDes)
	c1 := mathf.V3(mathf.Cos(yawDes), mathf.Sin(yawDes), 0)
	b2Des := mathf.Vec3{}
	b2Des.Cross(&b3Des, &c1)
	if b2Des.Len() < mathf.Epsilon {
		return nil, errs.New(errs.Numeric, 54, "degenerate desired frame: b3_des parallel to yaw reference")
	}
	b2Des.Unit(&b2Des)
	b1Des := mathf.Vec3{}
	b1Des.Cross(&b2Des, &b3Des)

	rDes := mathf.Mat3{
		M00: b1Des.X, M01: b2Des.X, M02: b3Des.X,
		M10: b1Des.Y, M11: b2Des.Y, M12: b3Des.Y,
		M20: b1Des.Z, M21: b2Des.Z, M22: b3Des.Z,
	}
	if err := validateRotation(&rDes); err != nil {
		return nil, err
	}

	u2, err := c.attitudeControl(state, &rDes, mathf.V3(0, 0, yawRateDes))
	if err != nil {
		return nil, err
	}
	forces := c.Alloc.Forces(u1, u2)
	return c.speedsFromForces(forces), nil
}

// attitudeControl is steps 5-7 of the pipeline: attitude error,
// angular-velocity error, and body moments.
func (c *Controller) attitudeControl(state rotor.State, rDes *mathf.Mat3, omegaDes mathf.Vec3) (mathf.Vec3, error) {
	var r mathf.Mat3
	state.Orientation.ToMat3(&r)

	var rDesT, rT mathf.Mat3
	rDesT.Transpose(rDes)
	rT.Transpose(&r)

	var term1, term2 mathf.Mat3
	term1.MulM(&rDesT, &r)
	term2.MulM(&rT, rDes)
	var diff mathf.Mat3
	diff.Sub(&term1, &term2)

	eR := mathf.Vec3{}
	eR.Vee(&diff)
	eR.Scale(&eR, 0.5)

	eOmega := mathf.Vec3{}
	eOmega.Sub(&state.BodyRates, &omegaDes)

	pTerm := mathf.Vec3{
		X: -c.Gains.AttP.X * eR.X,
		Y: -c.Gains.AttP.Y * eR.Y,
		Z: -c.Gains.AttP.Z * eR.Z,
	}
	dTerm := mathf.Vec3{
		X: -c.Gains.AttD.X * eOmega.X,
		Y: -c.Gains.AttD.Y * eOmega.Y,
		Z: -c.Gains.AttD.Z * eOmega.Z,
	}
	sum := mathf.Vec3{}
	sum.Add(&pTerm, &dTerm)

	iTimesSum := mathf.Vec3{}
	c.Inertia.MulV(&iTimesSum, &sum)

	iOmega := mathf.Vec3{}
	c.Inertia.MulV(&iOmega, &state.BodyRates)
	gyroscopic := mathf.Vec3{}
	gyroscopic.Cross(&state.BodyRates, &iOmega)

	u2 := mathf.Vec3{}
	u2.Add(&iTimesSum, &gyroscopic)
	return u2, nil
}

// rateControl is a proportional-only body-rate controller used by
// ModeCollectiveBodyRates, which bypasses the attitude-error stage
// entirely per spec 4.6's "alternative modes ... bypass the ones
// above them."
func (c *Controller) rateControl(state rotor.State, omegaDes mathf.Vec3) mathf.Vec3 {
	eOmega := mathf.Vec3{}
	eOmega.Sub(&state.BodyRates, &omegaDes)
	scaled := mathf.Vec3{
		X: -c.Gains.AttD.X * eOmega.X,
		Y: -c.Gains.AttD.Y * eOmega.Y,
		Z: -c.Gains.AttD.Z * eOmega.Z,
	}
	u2 := mathf.Vec3{}
	c.Inertia.MulV(&u2, &scaled)
	return u2
}

// speedsFromForces converts per-rotor pseudo-forces to rotor speeds:
// omega_i = sign(f_i) * sqrt(|f_i|/k_eta), clamped to range (spec 4.6
// step 8).
func (c *Controller) speedsFromForces(forces []float32) []float32 {
	out := make([]float32, len(forces))
	for i, f := range forces {
		k := c.Rotors[i].ThrustCoeff
		mag := mathf.Sqrt(mathf.Abs(f) / k)
		out[i] = c.Rotors[i].Clamp(mathf.Sign(f) * mag)
	}
	return out
}

func (c *Controller) clampAll(speeds []float32) []float32 {
	out := make([]float32, len(speeds))
	for i, s := range speeds {
		out[i] = c.Rotors[i].Clamp(s)
	}
	return out
}

// rotationTolerance gates validateRotation's orthogonality/determinant
// checks. Spec 4.6 names 1e-6, but R_des and this check's own Det()/
// MulM() accumulate several float32 products (machine epsilon ~1.2e-7
// per op), so 1e-6 trips on ordinary rounding error mid-hover. 1e-4
// keeps the check meaningful (catches a genuinely malformed matrix)
// without false-positiving on float32 accumulation.
const rotationTolerance float32 = 1e-4

// validateRotation checks R_des is orthogonal and has determinant 1
// within rotationTolerance (spec 4.6: "Validation").
func validateRotation(r *mathf.Mat3) error {
	var rt, prod mathf.Mat3
	rt.Transpose(r)
	prod.MulM(r, &rt)
	if mathf.Abs(prod.M00-1) > rotationTolerance || mathf.Abs(prod.M11-1) > rotationTolerance || mathf.Abs(prod.M22-1) > rotationTolerance ||
		mathf.Abs(prod.M01) > rotationTolerance || mathf.Abs(prod.M02) > rotationTolerance || mathf.Abs(prod.M12) > rotationTolerance {
		return errs.New(errs.Validation, 55, "desired rotation matrix is not orthogonal within tolerance")
	}
	if mathf.Abs(r.Det()-1) > rotationTolerance {
		return errs.New(errs.Validation, 56, "desired rotation matrix determinant not within tolerance of 1, got %v", r.Det())
	}
	return nil
}

func quatToValidatedMat3(q mathf.Quat) (*mathf.Mat3, error) {
	if !q.IsFinite() || mathf.Abs(q.Len()-1) > 1e-3 {
		return nil, errs.New(errs.Validation, 57, "desired attitude quaternion must be unit-norm, got norm %v", q.Len())
	}
	var r mathf.Mat3
	q.ToMat3(&r)
	if err := validateRotation(&r); err != nil {
		return nil, err
	}
	return &r, nil
}
