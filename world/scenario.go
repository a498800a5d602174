package world

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/quadrocore/dynamics/control"
	"github.com/quadrocore/dynamics/errs"
	"github.com/quadrocore/dynamics/mathf"
	"github.com/quadrocore/dynamics/rotor"
)

// Scenario is the declarative YAML form of a world: top-level tunables
// plus a flat list of bodies to create. It exists for cmd/simcli and
// for tests that want a scene on disk rather than built up in Go, not
// as a save/restore format for a running World.
type Scenario struct {
	Gravity          [3]float32      `yaml:"gravity"`
	TimeStep         float32         `yaml:"time_step"`
	SolverIterations int             `yaml:"solver_iterations"`
	Bodies           []BodyScenario  `yaml:"bodies"`
	Drones           []DroneScenario `yaml:"drones"`
}

// BodyScenario describes one rigid-body entity. Kind selects which
// World.Create* constructor is used; HalfExtents is read for
// "box"/"static_box", Radius for "sphere".
type BodyScenario struct {
	Kind        string     `yaml:"kind"`
	Mass        float32    `yaml:"mass"`
	Position    [3]float32 `yaml:"position"`
	HalfExtents [3]float32 `yaml:"half_extents"`
	Radius      float32    `yaml:"radius"`
	Friction    float32    `yaml:"friction"`
	Restitution float32    `yaml:"restitution"`
}

// DroneScenario describes one multirotor entity: mass, diagonal
// inertia, rotor layout, and gains. Trajectory and wind are left at
// their CreateDrone defaults (hover, no wind); callers wanting a
// specific trajectory call World.SetTrajectory after loading.
type DroneScenario struct {
	Mass    float32         `yaml:"mass"`
	Inertia [3]float32      `yaml:"inertia"` // diagonal Ixx, Iyy, Izz.
	Gains   GainsScenario   `yaml:"gains"`
	Rotors  []RotorScenario `yaml:"rotors"`
}

type GainsScenario struct {
	Pos  [3]float32 `yaml:"pos"`
	Vel  [3]float32 `yaml:"vel"`
	AttP [3]float32 `yaml:"att_p"`
	AttD [3]float32 `yaml:"att_d"`
}

type RotorScenario struct {
	ThrustCoeff    float32    `yaml:"thrust_coeff"`
	ReactionTorque float32    `yaml:"reaction_torque"`
	InducedDrag    float32    `yaml:"induced_drag"`
	InflowCoeff    float32    `yaml:"inflow_coeff"`
	TransLift      float32    `yaml:"trans_lift"`
	FlapCoeff      float32    `yaml:"flap_coeff"`
	Position       [3]float32 `yaml:"position"`
	CW             bool       `yaml:"cw"`
	MinSpeed       float32    `yaml:"min_speed"`
	MaxSpeed       float32    `yaml:"max_speed"`
	TimeConstant   float32    `yaml:"time_constant"`
}

// LoadScenario decodes a Scenario from r.
func LoadScenario(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return nil, errs.New(errs.Configuration, 5, "scenario: invalid yaml: %v", err)
	}
	return &s, nil
}

// NewFromScenario builds a World from a decoded Scenario, creating
// every listed body and drone. It returns the first creation error
// encountered (spec section 7: "creation fails, no partial state left
// behind" — the already-created entities remain, but the returned
// World is nil so the caller cannot mistake it for a complete one).
func NewFromScenario(s *Scenario) (*World, error) {
	attrs := []Attr{Gravity(mathf.V3(s.Gravity[0], s.Gravity[1], s.Gravity[2]))}
	if s.TimeStep > 0 {
		attrs = append(attrs, TimeStep(s.TimeStep))
	}
	if s.SolverIterations > 0 {
		attrs = append(attrs, SolverIterations(s.SolverIterations))
	}
	w := New(attrs...)

	for i, b := range s.Bodies {
		pos := mathf.V3(b.Position[0], b.Position[1], b.Position[2])
		switch b.Kind {
		case "box":
			he := mathf.V3(b.HalfExtents[0], b.HalfExtents[1], b.HalfExtents[2])
			if _, err := w.CreateBox(b.Mass, he, pos, mathf.IdentityQ, b.Friction, b.Restitution); err != nil {
				return nil, err
			}
		case "sphere":
			if _, err := w.CreateSphere(b.Mass, b.Radius, pos, mathf.IdentityQ, b.Friction, b.Restitution); err != nil {
				return nil, err
			}
		case "static_box":
			he := mathf.V3(b.HalfExtents[0], b.HalfExtents[1], b.HalfExtents[2])
			if _, err := w.CreateStaticBox(he, pos, mathf.IdentityQ, b.Friction, b.Restitution); err != nil {
				return nil, err
			}
		default:
			return nil, errs.New(errs.Configuration, 6, "scenario: body %d has unknown kind %q", i, b.Kind)
		}
	}

	for i, d := range s.Drones {
		inertia := mathf.Diag3(d.Inertia[0], d.Inertia[1], d.Inertia[2])
		gains := control.Gains{
			Pos:  mathf.V3(d.Gains.Pos[0], d.Gains.Pos[1], d.Gains.Pos[2]),
			Vel:  mathf.V3(d.Gains.Vel[0], d.Gains.Vel[1], d.Gains.Vel[2]),
			AttP: mathf.V3(d.Gains.AttP[0], d.Gains.AttP[1], d.Gains.AttP[2]),
			AttD: mathf.V3(d.Gains.AttD[0], d.Gains.AttD[1], d.Gains.AttD[2]),
		}
		rotors := make([]rotor.Params, len(d.Rotors))
		for j, r := range d.Rotors {
			spin := rotor.CCW
			if r.CW {
				spin = rotor.CW
			}
			rotors[j] = rotor.Params{
				ThrustCoeff:    r.ThrustCoeff,
				ReactionTorque: r.ReactionTorque,
				InducedDrag:    r.InducedDrag,
				InflowCoeff:    r.InflowCoeff,
				TransLift:      r.TransLift,
				FlapCoeff:      r.FlapCoeff,
				Position:       mathf.V3(r.Position[0], r.Position[1], r.Position[2]),
				Spin:           spin,
				MinSpeed:       r.MinSpeed,
				MaxSpeed:       r.MaxSpeed,
				TimeConstant:   r.TimeConstant,
			}
		}
		if _, err := w.CreateDrone(d.Mass, inertia, rotors, gains, rotor.AirframeDrag{}, nil, nil); err != nil {
			return nil, errs.New(errs.Configuration, 7, "scenario: drone %d: %v", i, err)
		}
	}

	return w, nil
}
