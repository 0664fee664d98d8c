package exercise

import "github.com/formsense/go-formcoach/pkg/pose"

// Exercise tags understood by the coach prompt builder.
const (
	TypeHammerCurl = "hammer_curl"
)

// TrackResult is the per-frame output of the dual-limb tracker.
type TrackResult struct {
	Limbs [pose.NumSides]LimbReading
}

// Reading returns the reading for side s.
func (r TrackResult) Reading(s pose.Side) LimbReading {
	return r.Limbs[s]
}

// Reps returns the rep count credited to the set: the max of both limbs,
// so an athlete favoring one arm is not double-counted.
func (r TrackResult) Reps() int {
	right := r.Limbs[pose.Right].Reps
	left := r.Limbs[pose.Left].Reps
	if left > right {
		return left
	}
	return right
}

// HasWarning reports whether any limb produced a misalignment warning.
func (r TrackResult) HasWarning() bool {
	for _, l := range r.Limbs {
		if l.Warning != "" {
			return true
		}
	}
	return false
}

// CurlTracker tracks the dual-limb curl: one stage machine per limb, both
// fed from the same frame. All state is owned by the tracker and touched
// only by the single frame-processing call sequence, so no locking.
type CurlTracker struct {
	thresholds Thresholds
	limbs      [pose.NumSides]LimbState
}

// NewCurlTracker creates a tracker with the given thresholds.
// Zero threshold fields fall back to the hammer curl defaults.
func NewCurlTracker(t Thresholds) *CurlTracker {
	ct := &CurlTracker{thresholds: t.withDefaults()}
	ct.limbs[pose.Right].Side = pose.Right
	ct.limbs[pose.Left].Side = pose.Left
	return ct
}

// Thresholds returns the active thresholds.
func (c *CurlTracker) Thresholds() Thresholds {
	return c.thresholds
}

// Update consumes one landmark frame and advances both limb machines.
// Degenerate angle readings (sentinel 0) are fed through unchanged: the
// frame may mis-stage but never faults the tracker.
func (c *CurlTracker) Update(frame pose.Frame) TrackResult {
	var result TrackResult
	for _, side := range []pose.Side{pose.Right, pose.Left} {
		flexion := frame.FlexionAngle(side)
		drift := frame.DriftAngle(side)
		result.Limbs[side] = c.limbs[side].update(flexion, drift, c.thresholds)
	}
	return result
}

// State returns a copy of the current per-limb state.
func (c *CurlTracker) State(s pose.Side) LimbState {
	return c.limbs[s]
}

// Reset clears both limbs for a new session.
func (c *CurlTracker) Reset() {
	for i := range c.limbs {
		c.limbs[i].reset()
	}
}

// ResetReps clears both rep counters at a set boundary, keeping stages so a
// mid-movement athlete is not re-staged.
func (c *CurlTracker) ResetReps() {
	for i := range c.limbs {
		c.limbs[i].resetReps()
	}
}
