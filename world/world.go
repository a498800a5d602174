// Package world wires the entity registry, rigid-body store, collider
// store, broad-phase tree, narrow phase, contact solver, rotor
// aerodynamics, and SE(3) controller into the single ordered tick spec
// section 4.7 describes. Grounded structurally on gazed-vu's
// simulation.go component-manager pattern (create/get/dispose against
// a dense entity-keyed store) and config.go's functional-options
// constructor, generalized from a single physics-body manager to the
// several stores one World owns.
package world

import (
	"github.com/quadrocore/dynamics/body"
	"github.com/quadrocore/dynamics/broadphase"
	"github.com/quadrocore/dynamics/collider"
	"github.com/quadrocore/dynamics/control"
	"github.com/quadrocore/dynamics/ecs"
	"github.com/quadrocore/dynamics/errs"
	"github.com/quadrocore/dynamics/mathf"
	"github.com/quadrocore/dynamics/rotor"
	"github.com/quadrocore/dynamics/trajectory"
	"github.com/quadrocore/dynamics/wind"
)

// World owns every store one simulation needs and drives them through
// the ordered tick. There is no global state: every method hangs off
// a *World value, so a process can run several independent worlds.
type World struct {
	cfg Config

	registry  *ecs.Registry
	bodies    *body.Store
	colliders *collider.Store
	drones    *ecs.Store[Drone]

	tree   *broadphase.Tree
	leaves map[ecs.ID]broadphase.NodeID

	// contactCache carries warm-start accumulated impulses across
	// ticks, keyed by the canonical (lower-id, higher-id) entity pair
	// (spec 4.4: "accumulated impulses persist across ticks, keyed by
	// contact identity").
	contactCache map[contactKey]cachedImpulse

	simTime float32
}

type contactKey struct{ lo, hi ecs.ID }

func canonicalKey(a, b ecs.ID) contactKey {
	if a <= b {
		return contactKey{lo: a, hi: b}
	}
	return contactKey{lo: b, hi: a}
}

type cachedImpulse struct {
	normal, tangent1, tangent2 float32
}

// defaultFriction/defaultRestitution seed the few convenience
// constructors that don't take a material explicitly.
const (
	defaultFriction    = 0.5
	defaultRestitution = 0.1
)

// New returns an empty World configured by attrs.
func New(attrs ...Attr) *World {
	cfg := newConfig(attrs...)
	return &World{
		cfg:          cfg,
		registry:     ecs.NewRegistry(),
		bodies:       body.NewStore(),
		colliders:    collider.NewStore(),
		drones:       ecs.NewStore[Drone](),
		tree:         broadphase.New(cfg.AABBMargin),
		leaves:       make(map[ecs.ID]broadphase.NodeID),
		contactCache: make(map[contactKey]cachedImpulse),
	}
}

// invertDiagonal inverts a diagonal inertia tensor componentwise.
// Every collider-derived inertia tensor in this module is diagonal
// (box/sphere/hull-bbox formulas in collider.Inertia); a caller
// supplying a custom tensor for CreateDrone is expected to keep that
// invariant too.
func invertDiagonal(m mathf.Mat3) mathf.Mat3 {
	inv := func(x float32) float32 {
		if x == 0 {
			return 0
		}
		return 1 / x
	}
	return mathf.Diag3(inv(m.M00), inv(m.M11), inv(m.M22))
}

// CreateBox creates a dynamic box-collider entity. On any failure the
// reserved entity id and any partial component insertion are rolled
// back; no partial state is left behind (spec section 7).
func (w *World) CreateBox(mass float32, halfExtents, position mathf.Vec3, orientation mathf.Quat, friction, restitution float32) (ecs.ID, error) {
	id := w.registry.Create()

	col, err := collider.NewBox(halfExtents, id, mathf.Vec3{})
	if err != nil {
		w.registry.Remove(id)
		return 0, err
	}
	rb, err := body.NewDynamic(mass, col.Inertia(mass), friction, restitution)
	if err != nil {
		w.registry.Remove(id)
		return 0, err
	}
	rb.Position = position
	rb.Orientation = orientation
	w.bodies.Insert(id, *rb)
	w.colliders.Insert(id, *col)
	w.insertLeaf(id, col, rb)
	return id, nil
}

// CreateSphere creates a dynamic sphere-collider entity.
func (w *World) CreateSphere(mass, radius float32, position mathf.Vec3, orientation mathf.Quat, friction, restitution float32) (ecs.ID, error) {
	id := w.registry.Create()

	col, err := collider.NewSphere(radius, id, mathf.Vec3{})
	if err != nil {
		w.registry.Remove(id)
		return 0, err
	}
	rb, err := body.NewDynamic(mass, col.Inertia(mass), friction, restitution)
	if err != nil {
		w.registry.Remove(id)
		return 0, err
	}
	rb.Position = position
	rb.Orientation = orientation
	w.bodies.Insert(id, *rb)
	w.colliders.Insert(id, *col)
	w.insertLeaf(id, col, rb)
	return id, nil
}

// CreateStaticBox creates an immovable box-collider entity, e.g. the
// ground plane in spec scenario 2.
func (w *World) CreateStaticBox(halfExtents, position mathf.Vec3, orientation mathf.Quat, friction, restitution float32) (ecs.ID, error) {
	id := w.registry.Create()

	col, err := collider.NewBox(halfExtents, id, mathf.Vec3{})
	if err != nil {
		w.registry.Remove(id)
		return 0, err
	}
	rb := body.NewStatic(friction, restitution)
	rb.Position = position
	rb.Orientation = orientation
	w.bodies.Insert(id, *rb)
	w.colliders.Insert(id, *col)
	w.insertLeaf(id, col, rb)
	return id, nil
}

func (w *World) insertLeaf(id ecs.ID, col *collider.Collider, rb *body.RigidBody) {
	min, max := col.WorldAABB(rb.Position, rb.Orientation, w.cfg.AABBMargin)
	w.leaves[id] = w.tree.Insert(min, max, broadphase.Leaf{Kind: int(col.Kind), Index: uint32(id)})
}

// CreateDrone creates a collider-free dynamic body carrying a Drone
// component: rotor state/integrator, an SE(3) controller built over
// rotors/gains, and the given trajectory and wind model (wind.None{}
// and trajectory.Hover{} if either is nil).
func (w *World) CreateDrone(mass float32, inertia mathf.Mat3, rotors []rotor.Params, gains control.Gains, drag rotor.AirframeDrag, traj trajectory.Trajectory, windModel wind.Model) (ecs.ID, error) {
	id := w.registry.Create()

	rb, err := body.NewDynamic(mass, invertDiagonal(inertia), defaultFriction, defaultRestitution)
	if err != nil {
		w.registry.Remove(id)
		return 0, err
	}
	ctrl, err := control.NewController(mass, inertia, gains, rotors)
	if err != nil {
		w.registry.Remove(id)
		return 0, err
	}

	if traj == nil {
		traj = trajectory.Hover{}
	}
	if windModel == nil {
		windModel = wind.None{}
	}

	w.bodies.Insert(id, *rb)
	w.drones.Insert(id, Drone{
		State:      rotor.NewState(len(rotors)),
		Integrator: rotor.NewIntegrator(rotors),
		Controller: ctrl,
		Drag:       drag,
		Mode:       control.ModeFlatOutput,
		Trajectory: traj,
		Wind:       windModel,
	})
	return id, nil
}

// RemoveEntity tears down every component the entity carries (broad-
// phase leaf, collider, drone, rigid body) and releases the id back to
// the registry. Spec section 4.1's "remove(id): requires is_alive(id);
// invalidates every component before the id itself goes invalid."
func (w *World) RemoveEntity(id ecs.ID) error {
	if !w.registry.IsAlive(id) {
		return errs.New(errs.Liveness, 15, "remove_entity: entity %d is not alive", id)
	}
	if leaf, ok := w.leaves[id]; ok {
		w.tree.Remove(leaf)
		delete(w.leaves, id)
	}
	if w.colliders.Has(id) {
		w.colliders.Remove(id)
	}
	if w.drones.Has(id) {
		w.drones.Remove(id)
	}
	if w.bodies.Has(id) {
		w.bodies.Remove(id)
	}
	return w.registry.Remove(id)
}

// ReadPose returns the entity's world-frame position and orientation.
func (w *World) ReadPose(id ecs.ID) (mathf.Vec3, mathf.Quat, error) {
	rb, ok := w.bodies.Get(id)
	if !ok {
		return mathf.Vec3{}, mathf.Quat{}, errs.New(errs.Liveness, 16, "read_pose: entity %d has no rigid body", id)
	}
	return rb.Position, rb.Orientation, nil
}

// ReadTwist returns the entity's world-frame linear velocity and
// body-frame angular velocity.
func (w *World) ReadTwist(id ecs.ID) (mathf.Vec3, mathf.Vec3, error) {
	rb, ok := w.bodies.Get(id)
	if !ok {
		return mathf.Vec3{}, mathf.Vec3{}, errs.New(errs.Liveness, 17, "read_twist: entity %d has no rigid body", id)
	}
	return rb.LinearVelocity, rb.AngularVelocity, nil
}

// SetControlMode switches a drone entity's control mode for
// subsequent ticks (spec section 6).
func (w *World) SetControlMode(id ecs.ID, mode control.Mode) error {
	d, ok := w.drones.Get(id)
	if !ok {
		return errs.New(errs.Liveness, 18, "set_control_mode: entity %d is not a drone", id)
	}
	d.Mode = mode
	return nil
}

// SetOverride sets the mode-specific control inputs (desired
// attitude, body rates, direct thrust/moment, ...) a non-flat-output
// mode consumes.
func (w *World) SetOverride(id ecs.ID, override control.Override) error {
	d, ok := w.drones.Get(id)
	if !ok {
		return errs.New(errs.Liveness, 19, "set_override: entity %d is not a drone", id)
	}
	d.Override = override
	return nil
}

// SetTrajectory installs a new trajectory source for a drone entity.
func (w *World) SetTrajectory(id ecs.ID, traj trajectory.Trajectory) error {
	d, ok := w.drones.Get(id)
	if !ok {
		return errs.New(errs.Liveness, 20, "set_trajectory: entity %d is not a drone", id)
	}
	d.Trajectory = traj
	return nil
}

// SetWind installs a new wind model for a drone entity.
func (w *World) SetWind(id ecs.ID, windModel wind.Model) error {
	d, ok := w.drones.Get(id)
	if !ok {
		return errs.New(errs.Liveness, 21, "set_wind: entity %d is not a drone", id)
	}
	d.Wind = windModel
	return nil
}

// ApplyForce accumulates a world-space force at the entity's center of
// mass, consumed on the next Tick (spec section 6).
func (w *World) ApplyForce(id ecs.ID, forceWorld mathf.Vec3) error {
	rb, ok := w.bodies.Get(id)
	if !ok {
		return errs.New(errs.Liveness, 22, "apply_force: entity %d has no rigid body", id)
	}
	rb.ApplyCentralForce(forceWorld)
	return nil
}

// ApplyTorque accumulates a world-space torque, consumed on the next
// Tick.
func (w *World) ApplyTorque(id ecs.ID, torqueWorld mathf.Vec3) error {
	rb, ok := w.bodies.Get(id)
	if !ok {
		return errs.New(errs.Liveness, 23, "apply_torque: entity %d has no rigid body", id)
	}
	rb.ApplyTorque(torqueWorld)
	return nil
}

// Snapshot bundles an entity's pose, twist, and — for drone entities —
// rotor speeds and control mode into a single read, per SPEC_FULL's
// supplement to the external-interface section.
type Snapshot struct {
	Position        mathf.Vec3
	Orientation     mathf.Quat
	LinearVelocity  mathf.Vec3
	AngularVelocity mathf.Vec3

	IsDrone     bool
	RotorSpeeds []float32
	Mode        control.Mode
}

// Snapshot returns the entity's current bundled state.
func (w *World) Snapshot(id ecs.ID) (Snapshot, error) {
	rb, ok := w.bodies.Get(id)
	if !ok {
		return Snapshot{}, errs.New(errs.Liveness, 24, "snapshot: entity %d has no rigid body", id)
	}
	snap := Snapshot{
		Position:        rb.Position,
		Orientation:     rb.Orientation,
		LinearVelocity:  rb.LinearVelocity,
		AngularVelocity: rb.AngularVelocity,
	}
	if d, ok := w.drones.Get(id); ok {
		snap.IsDrone = true
		snap.RotorSpeeds = append([]float32(nil), d.State.RotorSpeeds...)
		snap.Mode = d.Mode
	}
	return snap, nil
}

// SimTime returns the cumulative simulated time, advanced by cfg.TimeStep
// on every Tick call.
func (w *World) SimTime() float32 { return w.simTime }

