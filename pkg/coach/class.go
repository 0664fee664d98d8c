// Package coach decides when a coaching utterance fires and what it says.
//
// The arbiter evaluates four priority classes in fixed order each frame;
// the first matching, cooldown-eligible class wins and all others are
// skipped for that frame. Milestone checkpoints use stock phrases; everything
// else goes through the text-generation collaborator.
package coach

import "time"

// Class is a feedback priority class, in strict precedence order.
type Class int

const (
	// ClassUrgent fires when any limb warning is present. Safety first.
	ClassUrgent Class = iota

	// ClassMilestone fires when the rep count changed.
	ClassMilestone

	// ClassTechnique fires when the movement stage changed.
	ClassTechnique

	// ClassEncouragement is the fallback after a long quiet stretch.
	ClassEncouragement

	// ClassNone means no feedback this frame. Not an error.
	ClassNone
)

// String returns the class tag used in prompts and wire messages.
func (c Class) String() string {
	switch c {
	case ClassUrgent:
		return "urgent"
	case ClassMilestone:
		return "milestone"
	case ClassTechnique:
		return "technique"
	case ClassEncouragement:
		return "encouragement"
	default:
		return "none"
	}
}

// Default cooldowns. Encouragement waits out twice the base cooldown.
const (
	DefaultBaseCooldown   = 6 * time.Second
	DefaultUrgentCooldown = 3 * time.Second
)

// Config holds arbiter tuning.
type Config struct {
	// BaseCooldown is the minimum gap between non-urgent emissions.
	BaseCooldown time.Duration

	// UrgentCooldown is the minimum gap between urgent emissions.
	UrgentCooldown time.Duration

	// GenerateTimeout bounds each text-generation round trip.
	GenerateTimeout time.Duration
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	if c.BaseCooldown == 0 {
		c.BaseCooldown = DefaultBaseCooldown
	}
	if c.UrgentCooldown == 0 {
		c.UrgentCooldown = DefaultUrgentCooldown
	}
	if c.GenerateTimeout == 0 {
		c.GenerateTimeout = 10 * time.Second
	}
	return c
}
