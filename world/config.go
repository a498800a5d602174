package world

import (
	"github.com/quadrocore/dynamics/broadphase"
	"github.com/quadrocore/dynamics/mathf"
	"github.com/quadrocore/dynamics/solver"
)

// Config holds the tunables a World is built with. Grounded on
// gazed-vu's config.go functional-options pattern (`type Attr
// func(*Config)`, defaulted struct, bound-checked constructor
// closures).
type Config struct {
	Gravity          mathf.Vec3
	TimeStep         float32
	SolverIterations int
	AABBMargin       float32
	SleepLinear      float32
	SleepAngular     float32
	Baumgarte        float32
	Slop             float32
	Aero             bool
}

// defaultConfig mirrors gazed-vu's configDefaults: reasonable values
// so a World runs even if no Attr is supplied.
var defaultConfig = Config{
	Gravity:          mathf.V3(0, 0, -9.81),
	TimeStep:         0.01,
	SolverIterations: solver.DefaultIterations,
	AABBMargin:       broadphase.DefaultMargin,
	SleepLinear:      0.05,
	SleepAngular:     0.05,
	Baumgarte:        solver.DefaultBaumgarte,
	Slop:             solver.DefaultSlop,
	Aero:             true,
}

// Attr configures optional World attributes.
//
//	w := world.New(
//	    world.Gravity(mathf.V3(0, 0, -9.81)),
//	    world.TimeStep(0.005),
//	    world.SolverIterations(12),
//	)
type Attr func(*Config)

// Gravity sets the world-frame gravitational acceleration applied
// to every active dynamic body each tick.
func Gravity(g mathf.Vec3) Attr {
	return func(c *Config) { c.Gravity = g }
}

// TimeStep sets the fixed per-tick Δt. Non-positive values are
// ignored, keeping the default.
func TimeStep(dt float32) Attr {
	return func(c *Config) {
		if dt > 0 {
			c.TimeStep = dt
		}
	}
}

// SolverIterations sets the contact solver's velocity-iteration count,
// clamped to solver.MinIterations by the solver itself if set lower.
func SolverIterations(n int) Attr {
	return func(c *Config) { c.SolverIterations = n }
}

// AABBMargin sets the broad-phase tree's fat-AABB inflation.
func AABBMargin(margin float32) Attr {
	return func(c *Config) {
		if margin > 0 {
			c.AABBMargin = margin
		}
	}
}

// SleepThresholds sets the linear/angular speed thresholds below which
// an active body is put to sleep (spec 4.7 phase 12).
func SleepThresholds(linear, angular float32) Attr {
	return func(c *Config) {
		if linear >= 0 {
			c.SleepLinear = linear
		}
		if angular >= 0 {
			c.SleepAngular = angular
		}
	}
}

// Baumgarte sets the penetration-bias coefficient the solver uses.
func Baumgarte(b float32) Attr {
	return func(c *Config) { c.Baumgarte = b }
}

// Slop sets the penetration slop the solver tolerates before applying
// a bias.
func Slop(s float32) Attr {
	return func(c *Config) { c.Slop = s }
}

// DisableAero turns off rotor aerodynamic drag/flapping/translational
// lift terms, leaving only bare thrust and reaction torque.
func DisableAero() Attr {
	return func(c *Config) { c.Aero = false }
}

func newConfig(attrs ...Attr) Config {
	cfg := defaultConfig
	for _, a := range attrs {
		a(&cfg)
	}
	return cfg
}
