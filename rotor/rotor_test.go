package rotor

import (
	"testing"

	"github.com/quadrocore/dynamics/mathf"
)

func hummingbirdRotors() []Params {
	const arm = 0.17 * 0.70710678 // 0.17 * sqrt(2)/2, per spec scenario 3.
	return []Params{
		{ThrustCoeff: 5.57e-6, ReactionTorque: 1e-7, Position: mathf.V3(arm, -arm, 0), Spin: CW, MinSpeed: 0, MaxSpeed: 900, TimeConstant: 0.02},
		{ThrustCoeff: 5.57e-6, ReactionTorque: 1e-7, Position: mathf.V3(-arm, arm, 0), Spin: CW, MinSpeed: 0, MaxSpeed: 900, TimeConstant: 0.02},
		{ThrustCoeff: 5.57e-6, ReactionTorque: 1e-7, Position: mathf.V3(arm, arm, 0), Spin: CCW, MinSpeed: 0, MaxSpeed: 900, TimeConstant: 0.02},
		{ThrustCoeff: 5.57e-6, ReactionTorque: 1e-7, Position: mathf.V3(-arm, -arm, 0), Spin: CCW, MinSpeed: 0, MaxSpeed: 900, TimeConstant: 0.02},
	}
}

// TestZeroSpeedZeroWrench covers the spec's boundary behavior: "zero
// rotor speeds produce zero thrust and zero reaction torque."
func TestZeroSpeedZeroWrench(t *testing.T) {
	rotors := hummingbirdRotors()
	speeds := make([]float32, len(rotors))
	f, m := Wrench(rotors, speeds, mathf.Vec3{}, mathf.Vec3{}, AirframeDrag{}, true, mathf.IdentityQ)
	if !f.AeqZ() {
		t.Fatalf("expected zero force at zero rotor speed, got %v", f)
	}
	if !m.AeqZ() {
		t.Fatalf("expected zero moment at zero rotor speed, got %v", m)
	}
}

// TestHoverThrustMatchesWeight checks that the four equal hover speeds
// produce collective thrust close to mg, per scenario 3's hover speed
// formula sqrt(mg/(4*k_eta)).
func TestHoverThrustMatchesWeight(t *testing.T) {
	rotors := hummingbirdRotors()
	const mass = 0.5
	const g = 9.81
	hoverSpeed := mathf.Sqrt(mass * g / (4 * rotors[0].ThrustCoeff))

	speeds := []float32{hoverSpeed, hoverSpeed, hoverSpeed, hoverSpeed}
	f, _ := Wrench(rotors, speeds, mathf.Vec3{}, mathf.Vec3{}, AirframeDrag{}, false, mathf.IdentityQ)
	if mathf.Abs(f.Z-mass*g) > 0.05*mass*g {
		t.Fatalf("expected hover thrust near %v N, got %v", mass*g, f.Z)
	}
}

// TestSymmetricHoverZeroMoment checks that four matched rotors produce
// no net moment (the layout is balanced in roll/pitch/yaw at equal
// speed, given two CW and two CCW rotors).
func TestSymmetricHoverZeroMoment(t *testing.T) {
	rotors := hummingbirdRotors()
	speeds := []float32{400, 400, 400, 400}
	_, m := Wrench(rotors, speeds, mathf.Vec3{}, mathf.Vec3{}, AirframeDrag{}, false, mathf.IdentityQ)
	if m.Len() > 1e-3 {
		t.Fatalf("expected near-zero net moment at equal hover speeds, got %v", m)
	}
}

func TestIntegratorStepsTowardCommand(t *testing.T) {
	rotors := hummingbirdRotors()
	it := NewIntegrator(rotors)
	speeds := make([]float32, 4)
	cmd := []float32{500, 500, 500, 500}
	var err error
	for i := 0; i < 200; i++ {
		speeds, err = it.Step(speeds, cmd, 0.01)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	for i, s := range speeds {
		if mathf.Abs(s-500) > 5 {
			t.Fatalf("rotor %d expected to converge near 500, got %v", i, s)
		}
	}
}

// TestIntegratorClampsToRange covers the spec section 3 invariant:
// rotor_speeds in [min, max] after every step, even when commanded
// beyond range.
func TestIntegratorClampsToRange(t *testing.T) {
	rotors := hummingbirdRotors()
	it := NewIntegrator(rotors)
	speeds := make([]float32, 4)
	cmd := []float32{10000, 10000, 10000, 10000}
	var err error
	for i := 0; i < 500; i++ {
		speeds, err = it.Step(speeds, cmd, 0.01)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for j, s := range speeds {
			if s > rotors[j].MaxSpeed+1e-3 {
				t.Fatalf("rotor %d exceeded MaxSpeed: %v > %v", j, s, rotors[j].MaxSpeed)
			}
		}
	}
}

func TestIntegratorRejectsLengthMismatch(t *testing.T) {
	it := NewIntegrator(hummingbirdRotors())
	_, err := it.Step([]float32{0, 0}, []float32{0, 0}, 0.01)
	if err == nil {
		t.Fatal("expected a Validation error on mismatched slice lengths")
	}
}
