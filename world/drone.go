package world

import (
	"github.com/quadrocore/dynamics/control"
	"github.com/quadrocore/dynamics/rotor"
	"github.com/quadrocore/dynamics/trajectory"
	"github.com/quadrocore/dynamics/wind"
)

// Drone is the component bundle a multirotor entity carries in
// addition to its rigid body: rotor state/integrator, the SE(3)
// controller and the mode/override it runs in, a trajectory source,
// and a wind model to sample each tick. Keyed by the same ecs.ID as
// the entity's body.Store entry, rather than a separate BodyID field
// — the ECS substrate already lets one id carry components across
// several Store[T] instances.
type Drone struct {
	State      rotor.State
	Integrator *rotor.Integrator
	Controller *control.Controller
	Drag       rotor.AirframeDrag

	Mode       control.Mode
	Override   control.Override
	Trajectory trajectory.Trajectory
	Wind       wind.Model
}
