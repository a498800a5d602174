package world

import (
	"log/slog"

	"github.com/quadrocore/dynamics/body"
	"github.com/quadrocore/dynamics/broadphase"
	"github.com/quadrocore/dynamics/collider"
	"github.com/quadrocore/dynamics/ecs"
	"github.com/quadrocore/dynamics/errs"
	"github.com/quadrocore/dynamics/narrowphase"
	"github.com/quadrocore/dynamics/rotor"
	"github.com/quadrocore/dynamics/solver"
)

// Tick advances the world by one fixed Δt = cfg.TimeStep, running spec
// 4.7's fourteen ordered phases: drone sync/wind/trajectory/control/
// dynamics/wrench application, broad-phase refit and pair enumeration,
// narrow phase, contact solving, integration, sleep, force clearing,
// and (implicitly — state is always readable) publish. A non-positive
// TimeStep makes Tick a no-op.
func (w *World) Tick() {
	dt := w.cfg.TimeStep
	if dt <= 0 {
		return
	}
	t := w.simTime

	w.stepDrones(t, dt)
	w.applyGravity()
	w.refitBroadphase()
	pairs := w.tree.Pairs()
	contacts, keys, bodyPtrs := w.buildContacts(pairs)
	w.resolveContacts(contacts, keys, bodyPtrs, dt)
	w.integrateBodies(dt)
	w.sleepBodies()
	w.clearForces()

	w.simTime += dt
}

// stepDrones runs phases 1-6 for every drone entity: sync pose/twist
// from the rigid body, sample wind, evaluate the trajectory, run the
// SE(3) controller, step rotor-speed dynamics, and apply the
// resulting wrench back to the rigid body. Independent drones are
// data-parallel (spec section 5); a failure on one drone is logged
// and leaves that drone's wrench unapplied for this tick rather than
// aborting the others.
func (w *World) stepDrones(t, dt float32) {
	ids := w.drones.IDs()
	dense := w.drones.Dense()
	parallelRange(len(ids), func(i int) {
		id := ids[i]
		d := &dense[i]
		rb, ok := w.bodies.Get(id)
		if !ok {
			slog.Warn("drone entity has no rigid body", "kind", errs.Liveness, "entity", id)
			return
		}
		if err := w.stepDrone(d, rb, t, dt); err != nil {
			slog.Warn("drone tick step failed", "entity", id, "error", err)
		}
	})
}

func (w *World) stepDrone(d *Drone, rb *body.RigidBody, t, dt float32) error {
	d.State.SyncFromPhysics(rb.Position, rb.Orientation, rb.LinearVelocity, rb.AngularVelocity)
	d.State.Wind = d.Wind.Update(t, d.State.Position)

	desired := d.Trajectory.Update(t)

	cmd, err := d.Controller.Command(d.Mode, d.State, desired, d.Override)
	if err != nil {
		return err
	}

	speeds, err := d.Integrator.Step(d.State.RotorSpeeds, cmd, dt)
	if err != nil {
		return err
	}
	d.State.RotorSpeeds = speeds

	forceWorld, momentWorld := rotor.Wrench(
		d.Integrator.Rotors, speeds, d.State.BodyRates,
		d.State.AirVelocityBody(), d.Drag, w.cfg.Aero, d.State.Orientation,
	)
	rb.ApplyCentralForce(forceWorld)
	rb.ApplyTorque(momentWorld)
	return nil
}

// applyGravity applies the configured gravitational acceleration to
// every active dynamic body, drone or not (spec scenario 1: free fall
// applies to any dynamic body, not only drones).
func (w *World) applyGravity() {
	w.bodies.Each(func(_ ecs.ID, rb *body.RigidBody) {
		if rb.IsStatic || !rb.Active {
			return
		}
		g := w.cfg.Gravity
		g.X *= rb.Mass
		g.Y *= rb.Mass
		g.Z *= rb.Mass
		rb.ApplyCentralForce(g)
	})
}

// refitBroadphase recomputes and pushes each collider's fattened world
// AABB into the tree (spec 4.7 phase 7).
func (w *World) refitBroadphase() {
	w.colliders.Each(func(id ecs.ID, col *collider.Collider) {
		rb, ok := w.bodies.Get(col.BodyIndex)
		if !ok {
			return
		}
		min, max := col.WorldAABB(rb.Position, rb.Orientation, w.cfg.AABBMargin)
		if leaf, ok := w.leaves[id]; ok {
			w.tree.Update(leaf, min, max)
		}
	})
}

// buildContacts enumerates broad-phase pairs, narrow-phases each one,
// and returns the resulting solver contacts alongside the canonical
// pair key (for warm-start lookup) and a body-index slice Resolve can
// index Contact.BodyA/BodyB against. Static-static pairs and pairs
// with no narrow-phase intersection are skipped; an EPA convergence
// failure is logged and the pair dropped for this tick rather than
// crashing it (spec section 7: Numeric errors degrade to "no contact",
// never a crash).
func (w *World) buildContacts(pairs []broadphase.Pair) ([]solver.Contact, []contactKey, []*body.RigidBody) {
	dense := w.bodies.Dense()
	ids := w.bodies.IDs()
	index := make(map[ecs.ID]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	bodyPtrs := make([]*body.RigidBody, len(dense))
	for i := range dense {
		bodyPtrs[i] = &dense[i]
	}

	var contacts []solver.Contact
	var keys []contactKey

	for _, pair := range pairs {
		leafA, _, _ := w.tree.Leaf(pair.A)
		leafB, _, _ := w.tree.Leaf(pair.B)
		idA, idB := ecs.ID(leafA.Index), ecs.ID(leafB.Index)

		colA, okA := w.colliders.Get(idA)
		colB, okB := w.colliders.Get(idB)
		if !okA || !okB {
			continue
		}
		rbA, okA2 := w.bodies.Get(colA.BodyIndex)
		rbB, okB2 := w.bodies.Get(colB.BodyIndex)
		if !okA2 || !okB2 {
			continue
		}
		if (rbA.IsStatic || !rbA.Active) && (rbB.IsStatic || !rbB.Active) {
			continue
		}

		bodyA := narrowphase.Body{Position: rbA.Position, Orientation: rbA.Orientation, Shape: colA}
		bodyB := narrowphase.Body{Position: rbB.Position, Orientation: rbB.Orientation, Shape: colB}

		hit, simplex := narrowphase.Intersects(bodyA, bodyB)
		if !hit {
			continue
		}
		epaContact, ok := narrowphase.EPA(bodyA, bodyB, simplex)
		if !ok {
			slog.Warn("epa failed to converge", "kind", errs.Numeric, "entity_a", idA, "entity_b", idB)
			continue
		}

		key := canonicalKey(idA, idB)
		c := solver.Contact{
			BodyA:       index[colA.BodyIndex],
			BodyB:       index[colB.BodyIndex],
			PointA:      epaContact.PointA,
			PointB:      epaContact.PointB,
			Normal:      epaContact.Normal,
			Penetration: epaContact.Penetration,
		}
		c.BuildTangents()
		if cached, ok := w.contactCache[key]; ok {
			c.AccumNormal = cached.normal
			c.AccumTangent1 = cached.tangent1
			c.AccumTangent2 = cached.tangent2
		}

		contacts = append(contacts, c)
		keys = append(keys, key)
	}

	return contacts, keys, bodyPtrs
}

// resolveContacts runs the sequential-impulse solver over this tick's
// contacts and writes the resulting accumulated impulses back into the
// warm-start cache, keyed by contact identity (spec 4.4). Cache
// entries for pairs that no longer collide are left stale rather than
// pruned — cheap to carry, harmless once the pair is gone — a
// documented simplification rather than an eagerly swept cache.
func (w *World) resolveContacts(contacts []solver.Contact, keys []contactKey, bodies []*body.RigidBody, dt float32) {
	if len(contacts) == 0 {
		return
	}
	cfg := solver.Config{Iterations: w.cfg.SolverIterations, Baumgarte: w.cfg.Baumgarte, Slop: w.cfg.Slop}
	solver.Resolve(cfg, contacts, bodies, dt)

	for i, key := range keys {
		w.contactCache[key] = cachedImpulse{
			normal:   contacts[i].AccumNormal,
			tangent1: contacts[i].AccumTangent1,
			tangent2: contacts[i].AccumTangent2,
		}
	}
}

// integrateBodies advances every dynamic body's pose and velocity by
// dt (spec 4.7 phase 11). Bodies are independent, so this fans out
// across GOMAXPROCS workers.
func (w *World) integrateBodies(dt float32) {
	dense := w.bodies.Dense()
	parallelRange(len(dense), func(i int) { dense[i].Integrate(dt) })
}

// sleepBodies zeroes and deactivates bodies below the configured
// linear/angular speed thresholds (spec 4.7 phase 12).
func (w *World) sleepBodies() {
	dense := w.bodies.Dense()
	parallelRange(len(dense), func(i int) { dense[i].Sleep(w.cfg.SleepLinear, w.cfg.SleepAngular) })
}

// clearForces zeroes every body's force/torque accumulator after
// integration (spec 4.7 phase 13).
func (w *World) clearForces() {
	dense := w.bodies.Dense()
	parallelRange(len(dense), func(i int) { dense[i].ClearForces() })
}
