// Package rotor implements per-rotor aerodynamics (thrust, induced
// drag, flapping moment, translational lift), body-wrench assembly,
// first-order rotor-speed dynamics, and quaternion kinematics with
// drift correction — spec section 4.5. Grounded structurally on
// CameronSima-CAMSim's true_rk4_integrator.go (integrator struct
// shape, quaternion-derivative helper), adapted from RK4 to the
// explicit Euler step spec 4.5 names, and on
// original_source/DroneSim/Physics/CPU-Compute/BodySystem.cpp for the
// per-rotor force-accumulation structuring used to resolve the spec's
// "unify to the Eigen-equivalent model" Open Question: state here is
// quaternion x,y,z,w, body-frame angular velocity, world force via
// R*F_body.
package rotor

import "github.com/quadrocore/dynamics/mathf"

// Spin is a rotor's spin direction, used in the reaction-torque term.
type Spin int32

const (
	CW  Spin = -1
	CCW Spin = 1
)

// Params is one rotor's fixed physical parameters (spec section 3).
type Params struct {
	ThrustCoeff    float32 // k_eta
	ReactionTorque float32 // k_m
	InducedDrag    float32 // k_d
	InflowCoeff    float32 // k_z
	TransLift      float32 // k_h
	FlapCoeff      float32 // k_flap

	Position mathf.Vec3 // body frame.
	Spin     Spin

	MinSpeed, MaxSpeed float32 // rad/s.

	// TimeConstant is tau_m, the first-order rotor-speed time constant.
	TimeConstant float32
}

// Clamp bounds speed to [MinSpeed, MaxSpeed].
func (p *Params) Clamp(speed float32) float32 {
	return mathf.Clamp(speed, p.MinSpeed, p.MaxSpeed)
}

// AirframeDrag is the vehicle's parasitic-drag coefficients (one per
// body axis), used only when aerodynamics is enabled (spec 4.5: "the
// last term is parasitic drag, only when aero is enabled").
type AirframeDrag struct {
	X, Y, Z float32
}
