// Package wind implements the wind/gust models spec section 6 names:
// none (zero), constant, sinusoidal, and Dryden turbulence. No pack
// repo models wind or atmospheric turbulence; this package is authored
// directly from the spec's military-specification altitude-regime
// description, reusing the `distuv.Normal` white-noise generator
// already wired in for rotor-speed process noise (see
// rotor.Integrator).
package wind

import "github.com/quadrocore/dynamics/mathf"

// Model is the minimal wind abstraction spec section 6 names: a
// time/position-dependent world-frame wind vector.
type Model interface {
	Update(t float32, position mathf.Vec3) mathf.Vec3
}

// None is the zero-wind model.
type None struct{}

func (None) Update(t float32, position mathf.Vec3) mathf.Vec3 { return mathf.Vec3{} }

// Constant is a fixed wind vector, independent of time and position.
type Constant struct {
	Vector mathf.Vec3
}

func (c Constant) Update(t float32, position mathf.Vec3) mathf.Vec3 { return c.Vector }

// Sinusoidal is a per-axis amplitude/frequency/phase oscillation (spec
// section 6: "per-axis amplitude, frequency, phase").
type Sinusoidal struct {
	Amplitude mathf.Vec3
	Frequency mathf.Vec3 // Hz, per axis.
	Phase     mathf.Vec3 // radians, per axis.
}

func (s Sinusoidal) Update(t float32, position mathf.Vec3) mathf.Vec3 {
	return mathf.Vec3{
		X: s.Amplitude.X * mathf.Sin(mathf.TwoPi*s.Frequency.X*t+s.Phase.X),
		Y: s.Amplitude.Y * mathf.Sin(mathf.TwoPi*s.Frequency.Y*t+s.Phase.Y),
		Z: s.Amplitude.Z * mathf.Sin(mathf.TwoPi*s.Frequency.Z*t+s.Phase.Z),
	}
}
