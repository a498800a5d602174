package rotor

import "github.com/quadrocore/dynamics/mathf"

// State is the drone's internal state, per spec section 3: position,
// velocity, orientation (unified to the x,y,z,w quaternion
// convention), body-frame angular rates, the locally sampled wind
// vector, and rotor speeds. Pose/velocity are mirrored with the owning
// rigid body each tick via SyncFromPhysics (spec section 6).
type State struct {
	Position    mathf.Vec3
	Velocity    mathf.Vec3
	Orientation mathf.Quat
	BodyRates   mathf.Vec3
	Wind        mathf.Vec3
	RotorSpeeds []float32
}

// NewState returns a drone state at the origin, identity orientation,
// and the given rotor count's speeds all at zero.
func NewState(nRotors int) State {
	return State{Orientation: mathf.IdentityQ, RotorSpeeds: make([]float32, nRotors)}
}

// SyncFromPhysics overwrites the drone-layer pose/twist fields from the
// rigid-body's published state (spec section 6: "state interchange
// with rigid body"). AngularVelocityBody is body-frame, matching
// BodyRates.
func (s *State) SyncFromPhysics(positionWorld mathf.Vec3, orientationWorld mathf.Quat, linearVelocityWorld, angularVelocityBody mathf.Vec3) {
	s.Position = positionWorld
	s.Orientation = orientationWorld
	s.Velocity = linearVelocityWorld
	s.BodyRates = angularVelocityBody
}

// ReadPhysics is the dual getter of SyncFromPhysics (spec section 6).
func (s *State) ReadPhysics() (positionWorld mathf.Vec3, orientationWorld mathf.Quat, linearVelocityWorld, angularVelocityBody mathf.Vec3) {
	return s.Position, s.Orientation, s.Velocity, s.BodyRates
}

// AirVelocityBody returns the drone's velocity relative to the wind,
// rotated into body frame — the "a_i" hub airspeed input every rotor's
// aerodynamic formula in spec 4.5 builds on (before adding the
// rotor-local omega x r term, which perRotor adds itself).
func (s *State) AirVelocityBody() mathf.Vec3 {
	rel := mathf.Vec3{}
	rel.Sub(&s.Velocity, &s.Wind)
	body := mathf.Vec3{}
	conj := mathf.Quat{}
	conj.Conjugate(&s.Orientation)
	conj.RotateVec(&body, &rel)
	return body
}
