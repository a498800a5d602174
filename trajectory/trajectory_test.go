package trajectory

import (
	"math/rand"
	"testing"

	"github.com/quadrocore/dynamics/mathf"
)

func TestHoverIsConstant(t *testing.T) {
	h := Hover{Position: mathf.V3(1, 2, 3), Yaw: 0.5}
	for _, tt := range []float32{0, 1, 100} {
		out := h.Update(tt)
		if out.Position != h.Position {
			t.Fatalf("t=%v: expected constant position %v, got %v", tt, h.Position, out.Position)
		}
		if out.Velocity != (mathf.Vec3{}) {
			t.Fatalf("t=%v: expected zero velocity, got %v", tt, out.Velocity)
		}
	}
}

// TestCircularStaysOnRadius covers spec scenario 4: a circular
// trajectory's horizontal distance from center matches Radius at all
// times.
func TestCircularStaysOnRadius(t *testing.T) {
	c := Circular{Center: mathf.V3(0, 0, 1), Radius: 2, Frequency: 0.1}
	for tt := float32(0); tt <= 5; tt += 0.5 {
		out := c.Update(tt)
		dx := out.Position.X - c.Center.X
		dy := out.Position.Y - c.Center.Y
		dist := mathf.Sqrt(dx*dx + dy*dy)
		if mathf.Abs(dist-c.Radius) > 1e-3 {
			t.Fatalf("t=%v: expected distance %v from center, got %v", tt, c.Radius, dist)
		}
		if out.Position.Z != c.Center.Z {
			t.Fatalf("t=%v: expected constant altitude %v, got %v", tt, c.Center.Z, out.Position.Z)
		}
	}
}

func TestCircularYawFollowsVelocity(t *testing.T) {
	c := Circular{Center: mathf.V3(0, 0, 1), Radius: 2, Frequency: 0.1, YawFollowsVelocity: true}
	out := c.Update(0)
	expected := mathf.Atan2(out.Velocity.Y, out.Velocity.X)
	if mathf.Abs(out.Yaw-expected) > 1e-5 {
		t.Fatalf("expected yaw to track velocity direction %v, got %v", expected, out.Yaw)
	}
}

func TestChaoticStaysWithinBounds(t *testing.T) {
	min := mathf.V3(-5, -5, 0)
	max := mathf.V3(5, 5, 3)
	c := NewChaotic(min, max, 6, 2, rand.NewSource(7))
	for tt := float32(0); tt < 20; tt += 0.25 {
		out := c.Update(tt)
		if out.Position.X < min.X-1e-3 || out.Position.X > max.X+1e-3 {
			t.Fatalf("t=%v: x %v out of bounds [%v,%v]", tt, out.Position.X, min.X, max.X)
		}
		if out.Position.Z < min.Z-1e-3 || out.Position.Z > max.Z+1e-3 {
			t.Fatalf("t=%v: z %v out of bounds [%v,%v]", tt, out.Position.Z, min.Z, max.Z)
		}
	}
}

func TestChaoticLoops(t *testing.T) {
	c := NewChaotic(mathf.V3(0, 0, 0), mathf.V3(1, 1, 1), 4, 1, rand.NewSource(1))
	total := float32(1 * 3) // 4 points -> 3 segments of 1s each.
	a := c.Update(0.1)
	b := c.Update(0.1 + total)
	if !a.Position.Aeq(&b.Position) {
		t.Fatalf("expected the path to loop after one full traversal, got %v vs %v", a.Position, b.Position)
	}
}

func TestMinSnapHitsWaypoints(t *testing.T) {
	waypoints := []mathf.Vec3{
		mathf.V3(0, 0, 0),
		mathf.V3(1, 0, 1),
		mathf.V3(2, 1, 1),
	}
	durations := []float32{2, 2}
	ms, err := NewMinSnap(waypoints, durations)
	if err != nil {
		t.Fatal(err)
	}

	for i, wp := range waypoints {
		tt := float32(0)
		for j := 0; j < i; j++ {
			tt += durations[j]
		}
		out := ms.Update(tt)
		if !out.Position.AeqTolV(&wp, 1e-3) {
			t.Fatalf("waypoint %d: expected position %v at t=%v, got %v", i, wp, tt, out.Position)
		}
	}
}

func TestMinSnapRestsAtEndpoints(t *testing.T) {
	waypoints := []mathf.Vec3{mathf.V3(0, 0, 0), mathf.V3(1, 1, 1)}
	durations := []float32{3}
	ms, err := NewMinSnap(waypoints, durations)
	if err != nil {
		t.Fatal(err)
	}
	start := ms.Update(0)
	end := ms.Update(3)
	if !start.Velocity.AeqZ() || !end.Velocity.AeqZ() {
		t.Fatalf("expected zero velocity at both endpoints, got start=%v end=%v", start.Velocity, end.Velocity)
	}
}

func TestMinSnapRejectsMismatchedDurations(t *testing.T) {
	_, err := NewMinSnap([]mathf.Vec3{{}, {}, {}}, []float32{1})
	if err == nil {
		t.Fatal("expected an error for a duration count mismatch")
	}
}
