package trajectory

import (
	"github.com/quadrocore/dynamics/control"
	"github.com/quadrocore/dynamics/mathf"
)

// Circular is a constant-speed horizontal orbit about Center at
// Radius, completing one revolution every 1/Frequency seconds. When
// YawFollowsVelocity is set, yaw tracks the direction of travel
// instead of holding Yaw fixed.
type Circular struct {
	Center             mathf.Vec3
	Radius             float32
	Frequency          float32 // Hz.
	Yaw                float32
	YawFollowsVelocity bool
}

func (c Circular) Update(t float32) control.FlatOutput {
	omega := mathf.TwoPi * c.Frequency
	theta := omega * t

	sin, cos := mathf.Sin(theta), mathf.Cos(theta)
	r := c.Radius

	pos := mathf.V3(c.Center.X+r*cos, c.Center.Y+r*sin, c.Center.Z)
	vel := mathf.V3(-r*omega*sin, r*omega*cos, 0)
	acc := mathf.V3(-r*omega*omega*cos, -r*omega*omega*sin, 0)
	jerk := mathf.V3(r*omega*omega*omega*sin, -r*omega*omega*omega*cos, 0)
	snap := mathf.V3(r*omega*omega*omega*omega*cos, r*omega*omega*omega*omega*sin, 0)

	out := control.FlatOutput{
		Position:     pos,
		Velocity:     vel,
		Acceleration: acc,
		Jerk:         jerk,
		Snap:         snap,
		Yaw:          c.Yaw,
	}
	if c.YawFollowsVelocity {
		out.Yaw = mathf.Atan2(vel.Y, vel.X)
		out.YawRate = omega
	}
	return out
}
