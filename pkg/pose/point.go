// Package pose defines the landmark geometry consumed by exercise tracking.
//
// A pose-estimation collaborator (MediaPipe or equivalent) delivers one Frame
// per video frame; this package turns named joint triplets into angles in
// degrees. Angle computation is pure and never fails: degenerate input maps
// to a sentinel so the frame loop can keep running on bad frames.
package pose

import "math"

// Point is a 2D landmark coordinate. Values may be in pixel or normalized
// space; angles are scale-invariant so either works.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DegenerateAngle is returned by Angle when the vertex coincides with one of
// the outer points. Stage logic tolerates it as "no reading this frame".
const DegenerateAngle = 0.0

// Angle returns the angle at vertex formed by the segments vertex→a and
// vertex→b, in degrees in [0, 180].
func Angle(a, vertex, b Point) float64 {
	if a == vertex || b == vertex {
		return DegenerateAngle
	}

	rad := math.Atan2(b.Y-vertex.Y, b.X-vertex.X) - math.Atan2(a.Y-vertex.Y, a.X-vertex.X)
	deg := math.Abs(rad * 180.0 / math.Pi)
	if deg > 180.0 {
		deg = 360.0 - deg
	}
	return deg
}
