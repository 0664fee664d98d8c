// Package exercise implements per-frame repetition tracking and posture
// validation for the dual-limb curl pattern. Single-limb exercises are the
// degenerate one-arm case of the same tracker.
package exercise

// Stage is the discrete phase of a repetition cycle.
type Stage int

const (
	// StageNone is the initial state before any threshold has been crossed.
	StageNone Stage = iota

	// StageFlex is the extended start position (flexion above the upper threshold).
	StageFlex

	// StageUp is the concentric phase between thresholds.
	StageUp

	// StageDown is the contracted bottom position. Entering it counts the rep.
	StageDown
)

// String returns the stage name as shown to dashboards and prompts.
func (s Stage) String() string {
	switch s {
	case StageFlex:
		return "Flex"
	case StageUp:
		return "Up"
	case StageDown:
		return "Down"
	default:
		return "None"
	}
}

// Thresholds holds the angle boundaries driving stage transitions and the
// drift warning. Zero values are replaced by defaults.
type Thresholds struct {
	// FlexUp is the flexion angle above which the limb is at full extension.
	FlexUp float64

	// FlexDown is the flexion angle below which the limb is fully curled.
	FlexDown float64

	// Drift is the shoulder-elbow-hip magnitude above which the elbow is
	// considered drifting off the torso.
	Drift float64
}

// Default angle thresholds for the hammer curl, in degrees.
const (
	DefaultFlexUp   = 155.0
	DefaultFlexDown = 47.0
	DefaultDrift    = 40.0
)

// DefaultThresholds returns the hammer curl defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{FlexUp: DefaultFlexUp, FlexDown: DefaultFlexDown, Drift: DefaultDrift}
}

// withDefaults fills zero fields with the package defaults.
func (t Thresholds) withDefaults() Thresholds {
	if t.FlexUp == 0 {
		t.FlexUp = DefaultFlexUp
	}
	if t.FlexDown == 0 {
		t.FlexDown = DefaultFlexDown
	}
	if t.Drift == 0 {
		t.Drift = DefaultDrift
	}
	return t
}
