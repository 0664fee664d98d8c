package exercise

import (
	"fmt"
	"math"
	"time"

	"github.com/formsense/go-formcoach/pkg/pose"
)

// Mode selects what the session is coaching for.
type Mode string

const (
	// ModeWorkout is normal rep-counting operation.
	ModeWorkout Mode = "workout"

	// ModeTestPosture gives corrective feedback until form is clean.
	ModeTestPosture Mode = "test_posture"
)

// IsValid reports whether m is a recognised mode.
func (m Mode) IsValid() bool {
	return m == ModeWorkout || m == ModeTestPosture
}

// Faults is the ordered list of human-readable fault codes for one frame.
// Empty means the form is acceptable.
type Faults []string

// Equal reports whether two fault lists are identical, element for element.
func (f Faults) Equal(other Faults) bool {
	if len(f) != len(other) {
		return false
	}
	for i := range f {
		if f[i] != other[i] {
			return false
		}
	}
	return true
}

// notReturningMargin is how far below the start threshold the flexion angle
// must sit before the arm counts as "not returning to start".
const notReturningMargin = 10.0

// Validate checks both limbs against the thresholds and returns the fault
// list for this frame. Stateless per call; readiness is tracked separately.
// Limbs with no pose signal are skipped.
//
// Checks per limb, in order:
//   - drift magnitude above the drift threshold
//   - stuck mid-curl: stage Up but flexion still above FlexDown
//   - expected at rest (any other stage) but flexion more than
//     notReturningMargin below FlexUp
func Validate(result TrackResult, t Thresholds) Faults {
	t = t.withDefaults()

	var faults Faults
	for _, side := range []pose.Side{pose.Right, pose.Left} {
		r := result.Reading(side)
		if r.Stage == StageNone && r.Flexion == 0 {
			continue
		}
		name := title(side)

		if math.Abs(r.Drift) > t.Drift {
			faults = append(faults, fmt.Sprintf("%s elbow drifting (shoulder-elbow-hip angle %.1f degrees)", name, r.Drift))
		}
		switch {
		case r.Stage == StageUp && r.Flexion >= t.FlexDown:
			faults = append(faults, fmt.Sprintf("%s arm not fully curled", name))
		case r.Stage != StageUp && r.Flexion < t.FlexUp-notReturningMargin:
			faults = append(faults, fmt.Sprintf("%s arm not returning to start position", name))
		}
	}
	return faults
}

// readyStreak is the number of consecutive clean frames that flips readiness.
const readyStreak = 3

// emitInterval is the minimum gap before repeating an identical fault list.
const emitInterval = 5 * time.Second

// ReadinessTracker tracks form correctness in test-posture mode. A streak of
// clean frames marks the athlete ready to start; any fault resets it. Fault
// emission is throttled so identical corrective phrases are not repeated
// every frame.
type ReadinessTracker struct {
	streak     int
	lastFaults Faults
	lastEmit   time.Time

	now func() time.Time
}

// NewReadinessTracker creates a tracker. Entering (or re-entering) test mode
// means creating a fresh tracker or calling Reset.
func NewReadinessTracker() *ReadinessTracker {
	return &ReadinessTracker{now: time.Now}
}

// Observe consumes one frame's fault list. It returns true when the faults
// should be surfaced to the athlete: either the list changed since the last
// emission or the emit interval elapsed.
func (rt *ReadinessTracker) Observe(faults Faults) bool {
	if len(faults) == 0 {
		rt.streak++
		return false
	}

	rt.streak = 0

	nowT := rt.now()
	if !faults.Equal(rt.lastFaults) || nowT.Sub(rt.lastEmit) > emitInterval {
		rt.lastEmit = nowT
		rt.lastFaults = append(Faults(nil), faults...)
		return true
	}
	return false
}

// Streak returns the current count of consecutive clean frames.
func (rt *ReadinessTracker) Streak() int {
	return rt.streak
}

// Ready reports whether the athlete has held clean form long enough to
// start the workout. A single faulted frame drops it back to false.
func (rt *ReadinessTracker) Ready() bool {
	return rt.streak >= readyStreak
}

// Reset clears streak and throttle state for test mode re-entry.
func (rt *ReadinessTracker) Reset() {
	rt.streak = 0
	rt.lastFaults = nil
	rt.lastEmit = time.Time{}
}
