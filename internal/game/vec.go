package game

import "math"

// Vec3 is a game-logic position. The rendering collaborator keeps its own
// transforms; nothing here is a screen coordinate.
type Vec3 struct {
	X, Y, Z float64
}

// Origin is the player's fixed position.
var Origin = Vec3{}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Dist returns the Euclidean distance between v and o.
func (v Vec3) Dist(o Vec3) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	dz := v.Z - o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Lerp returns the point t of the way from v to o, with t clamped to [0,1].
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	t = clamp01(t)
	return Vec3{
		X: v.X + (o.X-v.X)*t,
		Y: v.Y + (o.Y-v.Y)*t,
		Z: v.Z + (o.Z-v.Z)*t,
	}
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
