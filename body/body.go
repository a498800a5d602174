// Package body implements the rigid-body store: per-entity pose,
// velocity, inertia (body and world frame), force/torque accumulators,
// material, and sleep state. Grounded on gazed-vu's physics/body.go
// (updateInertiaTensor, integrateVelocities, applyDamping,
// clearForces, setMaterial) and physics/shape.go's per-shape inertia
// formulas, restyled around the ecs package's generic dense store
// instead of the teacher's bespoke bid-indexed slice.
package body

import (
	"github.com/quadrocore/dynamics/ecs"
	"github.com/quadrocore/dynamics/errs"
	"github.com/quadrocore/dynamics/mathf"
)

// RigidBody is one physically simulated body. Static bodies have
// InverseMass == 0, Active == false, and are never moved by
// Integrate.
type RigidBody struct {
	Position    mathf.Vec3
	Orientation mathf.Quat

	LinearVelocity  mathf.Vec3 // world frame.
	AngularVelocity mathf.Vec3 // body frame.

	Mass                float32
	InverseMass         float32
	LocalInverseInertia mathf.Mat3
	WorldInverseInertia mathf.Mat3

	Force  mathf.Vec3
	Torque mathf.Vec3

	Friction    float32
	Restitution float32

	Active   bool
	IsStatic bool
}

// NewDynamic returns a dynamic rigid body with the given mass and
// local-frame inverse inertia tensor (typically diagonal, built from a
// collider's inertia formula). Mass must be positive.
func NewDynamic(mass float32, localInverseInertia mathf.Mat3, friction, restitution float32) (*RigidBody, error) {
	if mass <= 0 || !mathf.IsFinite(mass) {
		return nil, errs.New(errs.Validation, 10, "dynamic body mass must be positive, got %v", mass)
	}
	return &RigidBody{
		Orientation:         mathf.IdentityQ,
		Mass:                mass,
		InverseMass:         1 / mass,
		LocalInverseInertia: localInverseInertia,
		WorldInverseInertia: localInverseInertia,
		Friction:            friction,
		Restitution:         restitution,
		Active:              true,
	}, nil
}

// NewStatic returns an immovable body: mass=0, inverse_mass=0,
// active=false, per spec section 3's static invariant.
func NewStatic(friction, restitution float32) *RigidBody {
	return &RigidBody{
		Orientation: mathf.IdentityQ,
		Friction:    friction,
		Restitution: restitution,
		IsStatic:    true,
		Active:      false,
	}
}

// ApplyCentralForce accumulates a world-space force acting through the
// center of mass (no resulting torque).
func (b *RigidBody) ApplyCentralForce(forceWorld mathf.Vec3) {
	if b.IsStatic {
		return
	}
	b.Force.Add(&b.Force, &forceWorld)
}

// ApplyTorque accumulates a world-space torque.
func (b *RigidBody) ApplyTorque(torqueWorld mathf.Vec3) {
	if b.IsStatic {
		return
	}
	b.Torque.Add(&b.Torque, &torqueWorld)
}

// ApplyForceAtPoint accumulates a world-space force applied at a
// world-space point, producing both a linear force and the resulting
// torque about the center of mass.
func (b *RigidBody) ApplyForceAtPoint(forceWorld, pointWorld mathf.Vec3) {
	if b.IsStatic {
		return
	}
	b.Force.Add(&b.Force, &forceWorld)
	r := mathf.Vec3{}
	r.Sub(&pointWorld, &b.Position)
	t := mathf.Vec3{}
	t.Cross(&r, &forceWorld)
	b.Torque.Add(&b.Torque, &t)
}

// ClearForces zeros the force and torque accumulators, as done each
// tick after integration (spec 4.7 phase 13).
func (b *RigidBody) ClearForces() {
	b.Force = mathf.Vec3{}
	b.Torque = mathf.Vec3{}
}

// UpdateWorldInverseInertia recomputes WorldInverseInertia = R *
// LocalInverseInertia * R^T from the current orientation, as required
// every integration step (spec section 3).
func (b *RigidBody) UpdateWorldInverseInertia() {
	if b.IsStatic {
		b.WorldInverseInertia = mathf.Mat3{}
		return
	}
	var r, rt, tmp mathf.Mat3
	b.Orientation.ToMat3(&r)
	rt.Transpose(&r)
	tmp.MulM(&r, &b.LocalInverseInertia)
	b.WorldInverseInertia.MulM(&tmp, &rt)
}

// Integrate advances linear and angular state by dt using symplectic
// Euler: velocities are updated from accumulated forces/torques first
// (the caller is expected to have already applied gravity and wrench
// forces into Force/Torque before calling Integrate), then pose is
// advanced from the updated velocities. Orientation is renormalized
// and drift-corrected against the unit-quaternion constraint after
// the update. Static bodies are left untouched.
func (b *RigidBody) Integrate(dt float32) {
	if b.IsStatic || dt <= 0 {
		return
	}

	// Linear: v += F/m * dt; x += v * dt.
	accel := mathf.Vec3{}
	accel.Scale(&b.Force, b.InverseMass)
	b.LinearVelocity.AddScaled(&b.LinearVelocity, &accel, dt)
	b.Position.AddScaled(&b.Position, &b.LinearVelocity, dt)

	// Angular: omega_dot = I_world^-1 * torque; omega += omega_dot*dt.
	angAccel := mathf.Vec3{}
	b.WorldInverseInertia.MulV(&angAccel, &b.Torque)
	b.AngularVelocity.AddScaled(&b.AngularVelocity, &angAccel, dt)

	// Quaternion kinematics: q_dot = 1/2 G(q)^T * omega_body.
	qd := mathf.Quat{}
	qd.Derivative(&b.Orientation, &b.AngularVelocity)
	b.Orientation.X += qd.X * dt
	b.Orientation.Y += qd.Y * dt
	b.Orientation.Z += qd.Z * dt
	b.Orientation.W += qd.W * dt
	b.Orientation.ConstraintCorrect(0.5)
	b.Orientation.Normalize()

	b.UpdateWorldInverseInertia()
}

// Sleep zeroes velocities and clears Active when both linear and
// angular speed are below the given thresholds (spec 4.7 phase 12).
// Static bodies are never put to sleep (they are already inactive).
func (b *RigidBody) Sleep(linearThreshold, angularThreshold float32) {
	if b.IsStatic {
		return
	}
	if b.LinearVelocity.Len() < linearThreshold && b.AngularVelocity.Len() < angularThreshold {
		b.Active = false
		b.LinearVelocity = mathf.Vec3{}
		b.AngularVelocity = mathf.Vec3{}
	}
}

// VelocityAtWorldPoint returns the velocity of the material point of b
// currently located at pointWorld: v + omega_world x r, where r is the
// offset from the center of mass and omega_world is the angular
// velocity expressed in world frame (AngularVelocity is body-frame, so
// it is rotated first).
func (b *RigidBody) VelocityAtWorldPoint(pointWorld mathf.Vec3) mathf.Vec3 {
	r := mathf.Vec3{}
	r.Sub(&pointWorld, &b.Position)
	omegaWorld := mathf.Vec3{}
	b.Orientation.RotateVec(&omegaWorld, &b.AngularVelocity)
	rel := mathf.Vec3{}
	rel.Cross(&omegaWorld, &r)
	out := mathf.Vec3{}
	out.Add(&b.LinearVelocity, &rel)
	return out
}

// Store is the dense entity-keyed collection of rigid bodies.
type Store = ecs.Store[RigidBody]

// NewStore returns an empty rigid-body store.
func NewStore() *Store { return ecs.NewStore[RigidBody]() }
