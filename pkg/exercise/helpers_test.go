package exercise

import (
	"math"

	"github.com/formsense/go-formcoach/pkg/pose"
)

// rightArmFrame builds a frame whose right-arm flexion angle is deg and
// whose drift angle is zero: shoulder, elbow, and hip on a vertical line,
// wrist rotated deg away from the upper arm.
func rightArmFrame(deg float64) pose.Frame {
	rad := (deg - 90) * math.Pi / 180
	elbow := pose.Point{X: 0, Y: 1}
	return pose.Frame{
		pose.RightShoulder: {X: 0, Y: 0},
		pose.RightElbow:    elbow,
		pose.RightWrist:    {X: elbow.X + math.Cos(rad), Y: elbow.Y + math.Sin(rad)},
		pose.RightHip:      {X: 0, Y: 2},
	}
}

// rightArmFrameWithDrift additionally swings the elbow off the torso line by
// driftDeg at the shoulder, keeping the requested flexion angle.
func rightArmFrameWithDrift(flexDeg, driftDeg float64) pose.Frame {
	// Upper arm direction rotated driftDeg from straight down.
	armRad := (90 - driftDeg) * math.Pi / 180
	shoulder := pose.Point{X: 0, Y: 0}
	elbow := pose.Point{X: math.Cos(armRad), Y: math.Sin(armRad)}

	// Wrist rotated flexDeg from the elbow→shoulder direction.
	backRad := math.Atan2(shoulder.Y-elbow.Y, shoulder.X-elbow.X)
	wristRad := backRad + flexDeg*math.Pi/180
	return pose.Frame{
		pose.RightShoulder: shoulder,
		pose.RightElbow:    elbow,
		pose.RightWrist:    {X: elbow.X + math.Cos(wristRad), Y: elbow.Y + math.Sin(wristRad)},
		pose.RightHip:      {X: 0, Y: 2},
	}
}
