// Package trajectory implements the trajectory abstraction spec
// section 6 names: an `update(t) -> FlatOutput` interface with hover,
// circular, chaotic, and minimum-snap-polynomial implementations.
package trajectory

import (
	"github.com/quadrocore/dynamics/control"
	"github.com/quadrocore/dynamics/mathf"
)

// Trajectory evaluates a flat-output setpoint at simulated time t.
type Trajectory interface {
	Update(t float32) control.FlatOutput
}

// Hover is a constant-position setpoint with zero higher derivatives
// and fixed yaw.
type Hover struct {
	Position mathf.Vec3
	Yaw      float32
}

func (h Hover) Update(t float32) control.FlatOutput {
	return control.FlatOutput{Position: h.Position, Yaw: h.Yaw}
}
