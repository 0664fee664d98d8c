package coach

import (
	"fmt"
	"math/rand"
)

// FallbackPhrase is spoken when a stock phrase pool is somehow empty.
// Generation failures do not fall back to it; they simply stay silent.
const FallbackPhrase = "Keep going! Focus on your form."

// Stock phrase pools for milestone checkpoints. These bypass generation
// entirely so the user hears them with no model latency.
var (
	firstRepPhrases = []string{
		"First rep done, nice and controlled!",
		"That's one! Keep that tempo.",
		"Great start, keep your elbows pinned.",
	}

	halfwayPhrases = []string{
		"Halfway there, stay strong!",
		"You're at the halfway mark, keep pushing!",
		"Half done! Form still looks sharp.",
	}

	setCompletePhrases = []string{
		"Set complete! Shake it out and breathe.",
		"That's the set! Good work, take your rest.",
		"Set done! Strong finish.",
	}

	workoutCompletePhrases = []string{
		"Workout complete! Great session today.",
		"That's a wrap! All sets done, well earned.",
		"You finished every set. Excellent work!",
	}

	encouragementPhrases = []string{
		"Looking good, keep it up!",
		"Nice steady pace, stay with it.",
		"You've got this, keep moving.",
		"Solid work, don't stop now.",
	}
)

// pick returns a random phrase from the pool.
func pick(pool []string) string {
	if len(pool) == 0 {
		return FallbackPhrase
	}
	return pool[rand.Intn(len(pool))]
}

// countdownPhrase announces the final reps of a set.
func countdownPhrase(remaining int) string {
	switch remaining {
	case 1:
		return "Last one, make it count!"
	case 2:
		return "Two to go, finish strong!"
	default:
		return fmt.Sprintf("%d reps to go!", remaining)
	}
}

// checkpointPhrase returns a stock phrase for the given rep count against the
// goal, or "" when this rep is not a checkpoint. Checkpoints: the first rep,
// the halfway rep, and the final-two countdown. A zero goal disables the
// goal-relative checkpoints.
func checkpointPhrase(rep, goal int) string {
	if rep == 1 {
		return pick(firstRepPhrases)
	}
	if goal <= 0 {
		return ""
	}
	if remaining := goal - rep; remaining >= 1 && remaining <= 2 {
		return countdownPhrase(remaining)
	}
	if goal >= 4 && rep == goal/2 {
		return pick(halfwayPhrases)
	}
	return ""
}

// SetCompletePhrase announces a finished set.
func SetCompletePhrase() string { return pick(setCompletePhrases) }

// WorkoutCompletePhrase announces the end of the whole workout.
func WorkoutCompletePhrase() string { return pick(workoutCompletePhrases) }
