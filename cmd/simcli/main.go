// Command simcli drives a dynamics.World for a fixed number of ticks,
// printing one drone's pose and rotor speeds every 50 ticks. It is a demo harness,
// not a product: scenario loading and pacing are deliberately minimal.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/quadrocore/dynamics/control"
	"github.com/quadrocore/dynamics/ecs"
	"github.com/quadrocore/dynamics/mathf"
	"github.com/quadrocore/dynamics/rotor"
	"github.com/quadrocore/dynamics/trajectory"
	"github.com/quadrocore/dynamics/world"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to a YAML scenario file (default: a single hovering demo drone)")
	ticks := flag.Int("ticks", 500, "number of fixed ticks to run")
	realtime := flag.Bool("realtime", false, "pace ticks to wall-clock time instead of running as fast as possible")
	flag.Parse()

	w, droneID, err := buildWorld(*scenarioPath)
	if err != nil {
		slog.Error("failed to build world", "error", err)
		os.Exit(1)
	}

	for i := 0; i < *ticks; i++ {
		start := time.Now()
		w.Tick()

		if i%50 == 0 {
			printSnapshot(w, droneID, i)
		}
		if *realtime {
			pace(start, 10*time.Millisecond)
		}
	}
	printSnapshot(w, droneID, *ticks)
}

func buildWorld(scenarioPath string) (*world.World, ecs.ID, error) {
	if scenarioPath != "" {
		f, err := os.Open(scenarioPath)
		if err != nil {
			return nil, 0, err
		}
		defer f.Close()
		scenario, err := world.LoadScenario(f)
		if err != nil {
			return nil, 0, err
		}
		w, err := world.NewFromScenario(scenario)
		return w, 0, err
	}

	w := world.New(world.TimeStep(0.01), world.DisableAero())
	const arm = 0.25
	rotors := []rotor.Params{
		{ThrustCoeff: 1e-5, ReactionTorque: 1e-7, Position: mathf.V3(arm, 0, 0), Spin: rotor.CCW, MaxSpeed: 900, TimeConstant: 0.02},
		{ThrustCoeff: 1e-5, ReactionTorque: 1e-7, Position: mathf.V3(0, arm, 0), Spin: rotor.CW, MaxSpeed: 900, TimeConstant: 0.02},
		{ThrustCoeff: 1e-5, ReactionTorque: 1e-7, Position: mathf.V3(-arm, 0, 0), Spin: rotor.CCW, MaxSpeed: 900, TimeConstant: 0.02},
		{ThrustCoeff: 1e-5, ReactionTorque: 1e-7, Position: mathf.V3(0, -arm, 0), Spin: rotor.CW, MaxSpeed: 900, TimeConstant: 0.02},
	}
	gains := control.Gains{
		Pos:  mathf.V3(6, 6, 6),
		Vel:  mathf.V3(4, 4, 4),
		AttP: mathf.V3(8, 8, 8),
		AttD: mathf.V3(2, 2, 2),
	}
	inertia := mathf.Diag3(0.02, 0.02, 0.04)
	id, err := w.CreateDrone(1.2, inertia, rotors, gains, rotor.AirframeDrag{},
		trajectory.Hover{Position: mathf.V3(0, 0, 3)}, nil)
	return w, id, err
}

func printSnapshot(w *world.World, id ecs.ID, tick int) {
	snap, err := w.Snapshot(id)
	if err != nil {
		slog.Warn("snapshot failed", "tick", tick, "error", err)
		return
	}
	fmt.Printf("tick %5d  pos=(%.3f, %.3f, %.3f)  rotor_speeds=%v\n",
		tick, snap.Position.X, snap.Position.Y, snap.Position.Z, snap.RotorSpeeds)
}
