package solver

import (
	"github.com/quadrocore/dynamics/body"
	"github.com/quadrocore/dynamics/mathf"
)

// DefaultIterations is the default number of velocity iterations run
// per tick (spec 4.4: "default 8, minimum 4").
const DefaultIterations = 8

// MinIterations is the floor Resolve clamps Iterations to.
const MinIterations = 4

// RestitutionVelocityThreshold is the normal-velocity threshold, signed
// so that approach is negative; restitution is applied only when the
// closing speed exceeds its magnitude, to suppress jitter at rest (spec
// 4.4 step 3: "only if v_n < -1 m/s").
const RestitutionVelocityThreshold float32 = -1.0

// DefaultBaumgarte and DefaultSlop are the penetration-bias constants
// spec 4.4 names as typical values.
const (
	DefaultBaumgarte float32 = 0.2
	DefaultSlop      float32 = 0.01
)

// Config holds the tunable constants Resolve uses.
type Config struct {
	Iterations int
	Baumgarte  float32
	Slop       float32
}

// DefaultConfig returns the spec's named default constants.
func DefaultConfig() Config {
	return Config{Iterations: DefaultIterations, Baumgarte: DefaultBaumgarte, Slop: DefaultSlop}
}

func (c Config) iterations() int {
	if c.Iterations < MinIterations {
		return MinIterations
	}
	return c.Iterations
}

// effectiveMass computes 1 / (mA^-1 + mB^-1 + n^T [IA^-1(rA x n) x rA + IB^-1(rB x n) x rB])
// for the given axis n (normal or a tangent), per spec 4.4 step 1. ok
// is false when the denominator is degenerate (both bodies static or
// the axis contributes zero effective mass), in which case the caller
// should skip this axis.
func effectiveMass(a, b *body.RigidBody, ra, rb, axis mathf.Vec3) (float32, bool) {
	denom := a.InverseMass + b.InverseMass

	raXn := mathf.Vec3{}
	raXn.Cross(&ra, &axis)
	iaTerm := mathf.Vec3{}
	a.WorldInverseInertia.MulV(&iaTerm, &raXn)
	iaCross := mathf.Vec3{}
	iaCross.Cross(&iaTerm, &ra)

	rbXn := mathf.Vec3{}
	rbXn.Cross(&rb, &axis)
	ibTerm := mathf.Vec3{}
	b.WorldInverseInertia.MulV(&ibTerm, &rbXn)
	ibCross := mathf.Vec3{}
	ibCross.Cross(&ibTerm, &rb)

	angular := mathf.Vec3{}
	angular.Add(&iaCross, &ibCross)
	denom += axis.Dot(&angular)

	if denom < mathf.Epsilon {
		return 0, false
	}
	return 1 / denom, true
}

// velocityAlongAxis returns axis . ((vB + wB x rB) - (vA + wA x rA)),
// the relative closing velocity of the two contact points along axis
// (world-frame angular velocities, since RigidBody.AngularVelocity is
// body-frame).
func velocityAlongAxis(a, b *body.RigidBody, ra, rb, axis mathf.Vec3) float32 {
	wa := mathf.Vec3{}
	a.Orientation.RotateVec(&wa, &a.AngularVelocity)
	wb := mathf.Vec3{}
	b.Orientation.RotateVec(&wb, &b.AngularVelocity)

	relA := mathf.Vec3{}
	relA.Cross(&wa, &ra)
	va := mathf.Vec3{}
	va.Add(&a.LinearVelocity, &relA)

	relB := mathf.Vec3{}
	relB.Cross(&wb, &rb)
	vb := mathf.Vec3{}
	vb.Add(&b.LinearVelocity, &relB)

	rel := mathf.Vec3{}
	rel.Sub(&vb, &va)
	return rel.Dot(&axis)
}

// applyImpulse applies +lambda*axis to b's linear/angular velocity and
// -lambda*axis to a's, at contact offsets ra/rb, mutating both bodies
// in place. Static bodies (InverseMass == 0, WorldInverseInertia == 0)
// are naturally unaffected since every term they contribute is zero.
func applyImpulse(a, b *body.RigidBody, ra, rb, axis mathf.Vec3, lambda float32) {
	impulse := mathf.Vec3{}
	impulse.Scale(&axis, lambda)

	dva := mathf.Vec3{}
	dva.Scale(&impulse, a.InverseMass)
	a.LinearVelocity.Sub(&a.LinearVelocity, &dva)

	raXi := mathf.Vec3{}
	raXi.Cross(&ra, &impulse)
	dwa := mathf.Vec3{}
	a.WorldInverseInertia.MulV(&dwa, &raXi)
	// AngularVelocity is body-frame; rotate the world-frame delta back.
	dwaBody := mathf.Vec3{}
	conjA := mathf.Quat{}
	conjA.Conjugate(&a.Orientation)
	conjA.RotateVec(&dwaBody, &dwa)
	a.AngularVelocity.Sub(&a.AngularVelocity, &dwaBody)

	dvb := mathf.Vec3{}
	dvb.Scale(&impulse, b.InverseMass)
	b.LinearVelocity.Add(&b.LinearVelocity, &dvb)

	rbXi := mathf.Vec3{}
	rbXi.Cross(&rb, &impulse)
	dwb := mathf.Vec3{}
	b.WorldInverseInertia.MulV(&dwb, &rbXi)
	dwbBody := mathf.Vec3{}
	conjB := mathf.Quat{}
	conjB.Conjugate(&b.Orientation)
	conjB.RotateVec(&dwbBody, &dwb)
	b.AngularVelocity.Add(&b.AngularVelocity, &dwbBody)
}

// Resolve runs cfg's velocity-iteration count over contacts, with
// warm-starting: accumulated impulses from the previous call are
// re-applied before the iterations begin (spec 4.4: "warm starts
// re-apply the accumulated impulses at the start of the step"). dt is
// the step used for the Baumgarte bias. a and b index into bodies by
// each contact's BodyA/BodyB.
func Resolve(cfg Config, contacts []Contact, bodies []*body.RigidBody, dt float32) {
	if dt <= 0 || len(contacts) == 0 {
		return
	}

	ra := make([]mathf.Vec3, len(contacts))
	rb := make([]mathf.Vec3, len(contacts))
	for i := range contacts {
		c := &contacts[i]
		a, b := bodies[c.BodyA], bodies[c.BodyB]
		ra[i].Sub(&c.PointA, &a.Position)
		rb[i].Sub(&c.PointB, &b.Position)
		if c.Tangent1 == (mathf.Vec3{}) && c.Tangent2 == (mathf.Vec3{}) {
			c.BuildTangents()
		}
	}

	// Warm start: re-apply last frame's accumulated impulses.
	for i := range contacts {
		c := &contacts[i]
		a, b := bodies[c.BodyA], bodies[c.BodyB]
		if c.AccumNormal != 0 {
			applyImpulse(a, b, ra[i], rb[i], c.Normal, c.AccumNormal)
		}
		if c.AccumTangent1 != 0 {
			applyImpulse(a, b, ra[i], rb[i], c.Tangent1, c.AccumTangent1)
		}
		if c.AccumTangent2 != 0 {
			applyImpulse(a, b, ra[i], rb[i], c.Tangent2, c.AccumTangent2)
		}
	}

	iterations := cfg.iterations()
	for iter := 0; iter < iterations; iter++ {
		for i := range contacts {
			c := &contacts[i]
			a, b := bodies[c.BodyA], bodies[c.BodyB]
			resolveNormal(cfg, c, a, b, ra[i], rb[i], dt)
			resolveFriction(c, a, b, ra[i], rb[i])
		}
	}
}

func resolveNormal(cfg Config, c *Contact, a, b *body.RigidBody, ra, rb mathf.Vec3, dt float32) {
	mn, ok := effectiveMass(a, b, ra, rb, c.Normal)
	if !ok {
		return
	}

	over := c.Penetration - cfg.Slop
	bias := float32(0)
	if over > 0 {
		bias = (cfg.Baumgarte / dt) * over
	}

	// c.Normal points from B to A, so velocityAlongAxis's (vB-vA).n is
	// positive on approach. The target post-solve velocity along n is
	// always -bias (see the lambda derivation below), so a fast
	// approach wants a positive bias to push the bodies apart harder.
	vn := velocityAlongAxis(a, b, ra, rb, c.Normal)
	if vn > -RestitutionVelocityThreshold {
		e := 0.5 * (a.Restitution + b.Restitution)
		bias += e * vn
	}

	// vn_new = vn + lambda/mn = vn - (vn+bias) = -bias, so a
	// separating impulse (vn_new <= 0) always has lambda <= 0 here;
	// the accumulator is clamped the same way.
	lambda := -mn * (vn + bias)
	newAccum := c.AccumNormal + lambda
	if newAccum > 0 {
		newAccum = 0
	}
	delta := newAccum - c.AccumNormal
	c.AccumNormal = newAccum

	applyImpulse(a, b, ra, rb, c.Normal, delta)
}

func resolveFriction(c *Contact, a, b *body.RigidBody, ra, rb mathf.Vec3) {
	mu := 0.5 * (a.Friction + b.Friction)
	limit := -mu * c.AccumNormal // AccumNormal is <= 0; limit is the non-negative friction bound.

	resolveFrictionAxis(c.Tangent1, &c.AccumTangent1, limit, a, b, ra, rb)
	resolveFrictionAxis(c.Tangent2, &c.AccumTangent2, limit, a, b, ra, rb)
}

func resolveFrictionAxis(axis mathf.Vec3, accum *float32, limit float32, a, b *body.RigidBody, ra, rb mathf.Vec3) {
	mt, ok := effectiveMass(a, b, ra, rb, axis)
	if !ok {
		return
	}
	vt := velocityAlongAxis(a, b, ra, rb, axis)
	lambda := -mt * vt
	newAccum := mathf.Clamp(*accum+lambda, -limit, limit)
	delta := newAccum - *accum
	*accum = newAccum
	applyImpulse(a, b, ra, rb, axis, delta)
}
