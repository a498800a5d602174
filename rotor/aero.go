package rotor

import "github.com/quadrocore/dynamics/mathf"

// forRotor holds one rotor's body-frame thrust+drag force and its
// reaction/flapping moment, the two quantities Wrench sums across all
// rotors (spec 4.5).
type forRotor struct {
	force mathf.Vec3 // T_i + H_i, body frame.
	yaw   mathf.Vec3 // M_yaw_i, body frame.
	flap  mathf.Vec3 // M_flap_i, body frame.
}

// perRotor computes rotor i's local airspeed, thrust, induced drag,
// translational-lift augmentation, flapping moment, and reaction
// torque, per the formulas in spec 4.5.
func perRotor(p *Params, speed float32, bodyRates, airVelocityBody mathf.Vec3, aero bool) forRotor {
	rXw := mathf.Vec3{}
	rXw.Cross(&bodyRates, &p.Position)
	a := mathf.Vec3{}
	a.Add(&airVelocityBody, &rXw)

	t := mathf.V3(0, 0, p.ThrustCoeff*speed*speed)

	var h mathf.Vec3
	if aero {
		h = mathf.V3(-speed*p.InducedDrag*a.X, -speed*p.InducedDrag*a.Y, -speed*p.InflowCoeff*a.Z)
		t.Z += p.TransLift * (a.X*a.X + a.Y*a.Y)
	}

	force := mathf.Vec3{}
	force.Add(&t, &h)

	yaw := mathf.V3(0, 0, p.ReactionTorque*speed*speed*float32(p.Spin))

	var flap mathf.Vec3
	if aero {
		zhat := mathf.V3(0, 0, 1)
		aXz := mathf.Vec3{}
		aXz.Cross(&a, &zhat)
		flap.Scale(&aXz, -p.FlapCoeff*speed)
	}

	return forRotor{force: force, yaw: yaw, flap: flap}
}

// Wrench assembles the body-frame force and moment produced by every
// rotor, plus (when aero is enabled) parasitic airframe drag, and
// rotates both into world frame via orientation (spec 4.5: "F_world =
// R . F_body, M_world = R . M_body"; gravity is added by the
// rigid-body integrator, not here).
func Wrench(rotors []Params, speeds []float32, bodyRates, airVelocityBody mathf.Vec3, drag AirframeDrag, aero bool, orientation mathf.Quat) (forceWorld, momentWorld mathf.Vec3) {
	var fBody, mBody mathf.Vec3
	for i := range rotors {
		r := perRotor(&rotors[i], speeds[i], bodyRates, airVelocityBody, aero)
		fBody.Add(&fBody, &r.force)

		rXf := mathf.Vec3{}
		rXf.Cross(&rotors[i].Position, &r.force)
		mBody.Add(&mBody, &rXf)
		mBody.Add(&mBody, &r.yaw)
		mBody.Add(&mBody, &r.flap)
	}

	if aero {
		speed := airVelocityBody.Len()
		parasitic := mathf.Vec3{
			X: drag.X * airVelocityBody.X,
			Y: drag.Y * airVelocityBody.Y,
			Z: drag.Z * airVelocityBody.Z,
		}
		parasitic.Scale(&parasitic, speed)
		fBody.Sub(&fBody, &parasitic)
	}

	orientation.RotateVec(&forceWorld, &fBody)
	orientation.RotateVec(&momentWorld, &mBody)
	return forceWorld, momentWorld
}
