package trajectory

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/quadrocore/dynamics/control"
	"github.com/quadrocore/dynamics/mathf"
)

// Chaotic is a piecewise-linear path between randomly drawn control
// points, spec section 6's "chaotic" trajectory. Each segment is
// traversed in SegmentDuration seconds; velocity is the constant
// per-segment slope, and acceleration/jerk/snap are zero everywhere
// the path is differentiable (the corners are not smooth, matching
// the spec's plain piecewise-linear description).
type Chaotic struct {
	points          []mathf.Vec3
	segmentDuration float32
}

// NewChaotic draws numPoints control points uniformly within
// [min, max] (componentwise) and returns a Chaotic trajectory that
// walks between them, looping once the last point is reached.
func NewChaotic(min, max mathf.Vec3, numPoints int, segmentDuration float32, src rand.Source) Chaotic {
	if numPoints < 2 {
		numPoints = 2
	}
	ux := distuv.Uniform{Min: float64(min.X), Max: float64(max.X), Src: src}
	uy := distuv.Uniform{Min: float64(min.Y), Max: float64(max.Y), Src: src}
	uz := distuv.Uniform{Min: float64(min.Z), Max: float64(max.Z), Src: src}

	points := make([]mathf.Vec3, numPoints)
	for i := range points {
		points[i] = mathf.V3(float32(ux.Rand()), float32(uy.Rand()), float32(uz.Rand()))
	}
	return Chaotic{points: points, segmentDuration: segmentDuration}
}

func (c Chaotic) Update(t float32) control.FlatOutput {
	n := len(c.points)
	if n < 2 || c.segmentDuration <= 0 {
		if n == 1 {
			return control.FlatOutput{Position: c.points[0]}
		}
		return control.FlatOutput{}
	}

	segments := n - 1
	total := c.segmentDuration * float32(segments)
	local := t
	for local >= total {
		local -= total
	}
	for local < 0 {
		local += total
	}

	idx := int(local / c.segmentDuration)
	if idx >= segments {
		idx = segments - 1
	}
	frac := (local - float32(idx)*c.segmentDuration) / c.segmentDuration

	p0, p1 := c.points[idx], c.points[idx+1]
	var pos, vel mathf.Vec3
	pos.Set(
		p0.X+(p1.X-p0.X)*frac,
		p0.Y+(p1.Y-p0.Y)*frac,
		p0.Z+(p1.Z-p0.Z)*frac,
	)
	vel.Set(
		(p1.X-p0.X)/c.segmentDuration,
		(p1.Y-p0.Y)/c.segmentDuration,
		(p1.Z-p0.Z)/c.segmentDuration,
	)

	yaw := mathf.Atan2(vel.Y, vel.X)
	return control.FlatOutput{Position: pos, Velocity: vel, Yaw: yaw}
}
