package exercise

import (
	"fmt"
	"math"

	"github.com/formsense/go-formcoach/pkg/pose"
)

// LimbState is the per-limb tracking state. Owned by the tracker for the
// session's lifetime; reset only on explicit session reset.
type LimbState struct {
	Side        pose.Side
	Stage       Stage
	Reps        int
	LastFlexion float64
}

// LimbReading is the per-frame output for one limb.
type LimbReading struct {
	Side    pose.Side
	Stage   Stage
	Reps    int
	Flexion float64
	Drift   float64

	// Counted is true only on the frame where the Up→Down edge fired.
	Counted bool

	// Warning is a non-blocking misalignment message for this frame only.
	// Empty when the elbow is tracking the torso.
	Warning string
}

// update advances the stage machine for one frame.
//
// The transition table is strict and order matters:
//
//	any  | flexion > FlexUp              | Flex
//	Flex | FlexDown < flexion < FlexUp   | Up
//	Up   | flexion < FlexDown            | Down, rep counted
//
// Frames that satisfy no guard leave stage and counter unchanged. The rep
// counter increments exactly once per full Flex→Up→Down cycle, only on the
// Up→Down edge.
func (l *LimbState) update(flexion, drift float64, t Thresholds) LimbReading {
	counted := false

	switch {
	case flexion > t.FlexUp:
		l.Stage = StageFlex
	case flexion > t.FlexDown && flexion < t.FlexUp && l.Stage == StageFlex:
		l.Stage = StageUp
	case flexion < t.FlexDown && l.Stage == StageUp:
		l.Stage = StageDown
		l.Reps++
		counted = true
	}
	l.LastFlexion = flexion

	var warning string
	if math.Abs(drift) > t.Drift {
		warning = fmt.Sprintf("%s shoulder-elbow-hip misalignment, angle %.2f degrees", title(l.Side), drift)
	}

	return LimbReading{
		Side:    l.Side,
		Stage:   l.Stage,
		Reps:    l.Reps,
		Flexion: flexion,
		Drift:   drift,
		Counted: counted,
		Warning: warning,
	}
}

// reset clears stage and counter for a new set or session.
func (l *LimbState) reset() {
	l.Stage = StageNone
	l.Reps = 0
	l.LastFlexion = 0
}

// resetReps clears the rep counter but keeps the current stage, for the
// between-sets counter reset.
func (l *LimbState) resetReps() {
	l.Reps = 0
}

func title(s pose.Side) string {
	if s == pose.Left {
		return "Left"
	}
	return "Right"
}
