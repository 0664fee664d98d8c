package coach

import (
	"fmt"
	"math"
	"strings"

	"github.com/formsense/go-formcoach/pkg/exercise"
	"github.com/formsense/go-formcoach/pkg/pose"
)

// imbalanceThreshold is the left/right flexion difference, in degrees, worth
// pointing out to the model.
const imbalanceThreshold = 20.0

const basePrompt = `You are an elite personal trainer with expertise in biomechanics and injury prevention.
Analyze real-time posture data and provide IMMEDIATE, SPECIFIC voice coaching.

COACHING STRATEGY:
1. If WARNING present, address it FIRST (safety critical)
2. If at starting position, cue the next movement phase
3. If mid-movement, check form quality
4. If completing a rep, give brief encouragement OR a correction

VOICE RULES:
- Maximum 15 words
- Use action verbs (push, squeeze, drive, engage)
- Be SPECIFIC with body parts
- Mix corrections with motivation
- Vary your responses, don't be repetitive`

const hammerCurlPrompt = basePrompt + `

HAMMER CURL BIOMECHANICS:
DANGER ZONES (priority corrections):
- Elbow drift forward: momentum takes over, "Pin elbows to sides"
- Shoulder shrug: trap dominance, "Shoulders down and back"
- Swinging: back strain risk, "Stop swinging, control the weight"

FORM OPTIMIZATION:
- Starting: cue "Arms fully extended, shoulders stable"
- Curl up: check "Squeeze biceps, slow and controlled"
- Peak: cue "Hold and squeeze"
- Lower: encourage "Resist on the way down"

PERFECT FORM INDICATORS:
- Elbows stationary
- Smooth tempo
- Full range both directions`

// SystemPrompt returns the exercise-specific coaching persona.
func SystemPrompt(exerciseType string) string {
	switch exerciseType {
	case exercise.TypeHammerCurl:
		return hammerCurlPrompt
	default:
		return basePrompt
	}
}

// Snapshot is everything the prompt builder needs about the current frame
// and session. It is a value type so the arbiter can hand it to the
// generation goroutine without sharing state.
type Snapshot struct {
	Exercise string
	Result   exercise.TrackResult

	Rep      int
	GoalReps int
	Set      int
	GoalSets int
}

// classHint maps a priority class to the urgency line injected into the
// prompt, steering the model toward the right register.
func classHint(c Class) string {
	switch c {
	case ClassUrgent:
		return "SAFETY ISSUE DETECTED - Address immediately!"
	case ClassMilestone:
		return "New rep completed - Encourage and check form"
	case ClassTechnique:
		return "Movement phase changed - Provide technique cue"
	case ClassEncouragement:
		return "Quiet stretch - Offer brief motivation"
	default:
		return ""
	}
}

// BuildPrompt formats the posture snapshot into the user message for one
// generation round trip.
func BuildPrompt(c Class, snap Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Current Exercise: %s\n", strings.ToUpper(snap.Exercise))
	if hint := classHint(c); hint != "" {
		b.WriteString(hint + "\n")
	}

	if snap.GoalReps > 0 {
		fmt.Fprintf(&b, "Rep: %d/%d\n", snap.Rep, snap.GoalReps)
	} else {
		fmt.Fprintf(&b, "Rep: %d\n", snap.Rep)
	}
	if snap.GoalSets > 0 {
		fmt.Fprintf(&b, "Set: %d/%d\n", snap.Set, snap.GoalSets)
	}

	right := snap.Result.Reading(pose.Right)
	left := snap.Result.Reading(pose.Left)

	b.WriteString("Posture Data:\n")
	fmt.Fprintf(&b, "- Right arm angle: %.1f degrees\n", right.Flexion)
	fmt.Fprintf(&b, "- Left arm angle: %.1f degrees\n", left.Flexion)
	fmt.Fprintf(&b, "- Right stage: %s\n", right.Stage)
	fmt.Fprintf(&b, "- Left stage: %s\n", left.Stage)

	if diff := math.Abs(right.Flexion - left.Flexion); diff > imbalanceThreshold {
		fmt.Fprintf(&b, "- Imbalanced: %.0f degree difference between arms\n", diff)
	}

	if right.Warning != "" {
		fmt.Fprintf(&b, "- Warning right: %s\n", right.Warning)
	}
	if left.Warning != "" {
		fmt.Fprintf(&b, "- Warning left: %s\n", left.Warning)
	}

	b.WriteString("\nProvide a brief coaching tip (max 15 words):")
	return b.String()
}

// BuildReportPrompt formats a finished session into the post-workout
// analysis prompt.
func BuildReportPrompt(exerciseType string, sets, reps, durationSeconds, warnings int) string {
	var b strings.Builder
	b.WriteString("Analyze this workout session and provide a brief performance report.\n\n")
	b.WriteString("Workout Summary:\n")
	fmt.Fprintf(&b, "- Exercise: %s\n", strings.ToUpper(exerciseType))
	fmt.Fprintf(&b, "- Sets completed: %d\n", sets)
	fmt.Fprintf(&b, "- Total reps: %d\n", reps)
	fmt.Fprintf(&b, "- Duration: %d seconds\n", durationSeconds)
	fmt.Fprintf(&b, "- Form warnings: %d\n", warnings)
	b.WriteString(`
Provide:
1. One sentence performance summary
2. One key strength
3. One area for improvement
4. One specific tip for next session

Keep total response under 100 words, clear and motivating.`)
	return b.String()
}

// ReportSystemPrompt is the persona for post-workout reports.
const ReportSystemPrompt = "You are a professional fitness coach providing post-workout analysis."
