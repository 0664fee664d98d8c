package coach

import (
	"context"
	"sync"
	"time"

	"github.com/formsense/go-formcoach/internal/log"
	"github.com/formsense/go-formcoach/pkg/exercise"
	"github.com/formsense/go-formcoach/pkg/llm"
	"github.com/formsense/go-formcoach/pkg/pose"
)

// Feedback is one arbitrated coaching utterance.
type Feedback struct {
	Text  string
	Class Class
	At    time.Time
}

// Urgent reports whether the utterance should preempt queued speech.
func (f *Feedback) Urgent() bool {
	return f.Class == ClassUrgent
}

// Arbiter throttles and prioritizes coaching feedback.
//
// Each Evaluate call classifies the frame into the highest-priority class
// whose trigger holds and whose cooldown has elapsed. Urgent feedback runs
// its own shorter cooldown so a safety cue can land soon after a milestone;
// every other class shares the base cooldown. Triggers persist across
// blocked frames: a rep or stage change that arrives mid-cooldown still
// fires once the window reopens, because the spoken rep and stage only
// advance when feedback actually goes out. The one exception is the first
// stage a session observes, which is recorded silently so the athlete's
// starting position never triggers a technique cue.
type Arbiter struct {
	cfg Config
	gen llm.Generator

	// now is swappable for tests.
	now func() time.Time

	mu           sync.Mutex
	lastFeedback time.Time
	lastUrgent   time.Time
	repSpoken    int
	stageSpoken  exercise.Stage
}

// NewArbiter creates an arbiter using gen for non-template feedback.
func NewArbiter(gen llm.Generator, cfg Config) *Arbiter {
	return &Arbiter{
		cfg:       cfg.withDefaults(),
		gen:       gen,
		now:       time.Now,
		repSpoken: -1,
	}
}

// Evaluate classifies the snapshot and, if a class fires, produces the
// utterance. It returns (nil, nil) when the frame warrants no feedback.
//
// Generation failures leave the arbiter untouched: cooldowns and the spoken
// rep/stage markers only advance on success, so the same trigger is retried
// on the next eligible frame.
func (a *Arbiter) Evaluate(ctx context.Context, snap Snapshot) (*Feedback, error) {
	a.mu.Lock()
	now := a.now()
	class := a.classify(snap, now)
	if class == ClassNone {
		a.mu.Unlock()
		return nil, nil
	}

	// Milestone checkpoints and encouragement speak stock phrases with no
	// model latency.
	var text string
	switch class {
	case ClassMilestone:
		text = checkpointPhrase(snap.Rep, snap.GoalReps)
	case ClassEncouragement:
		text = pick(encouragementPhrases)
	}
	if text != "" {
		fb := a.commit(text, class, snap, now)
		a.mu.Unlock()
		return fb, nil
	}
	a.mu.Unlock()

	// Everything else goes through the model, outside the lock so a slow
	// round trip never blocks classification of later frames.
	genCtx, cancel := context.WithTimeout(ctx, a.cfg.GenerateTimeout)
	defer cancel()

	text, err := a.gen.Generate(genCtx, llm.Request{
		System: SystemPrompt(snap.Exercise),
		Prompt: BuildPrompt(class, snap),
	})
	if err != nil {
		log.Warn("coach: feedback generation failed", "class", class.String(), "error", err)
		return nil, err
	}

	a.mu.Lock()
	fb := a.commit(text, class, snap, a.now())
	a.mu.Unlock()
	return fb, nil
}

// Announce speaks a stock phrase for a session-level event (set or workout
// completion). Events bypass cooldown checks but still advance the feedback
// clock so routine coaching stays quiet right after.
func (a *Arbiter) Announce(text string, class Class) *Feedback {
	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.now()
	a.lastFeedback = now
	return &Feedback{Text: text, Class: class, At: now}
}

// Reset clears all cooldowns and spoken markers, for a fresh session.
func (a *Arbiter) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastFeedback = time.Time{}
	a.lastUrgent = time.Time{}
	a.repSpoken = -1
	a.stageSpoken = exercise.StageNone
}

// classify picks the highest-priority class whose trigger holds and whose
// cooldown has elapsed. Callers hold a.mu.
func (a *Arbiter) classify(snap Snapshot, now time.Time) Class {
	urgentReady := a.lastUrgent.IsZero() || now.Sub(a.lastUrgent) >= a.cfg.UrgentCooldown
	baseReady := a.lastFeedback.IsZero() || now.Sub(a.lastFeedback) >= a.cfg.BaseCooldown

	if urgentReady && snap.Result.HasWarning() {
		return ClassUrgent
	}
	if baseReady && snap.Rep > 0 && snap.Rep != a.repSpoken {
		return ClassMilestone
	}
	if stage := repStage(snap.Result); stage != exercise.StageNone {
		if a.stageSpoken == exercise.StageNone {
			// The first stage a session observes is the athlete's starting
			// position, not a transition worth a cue.
			a.stageSpoken = stage
		} else if baseReady && stage != a.stageSpoken {
			return ClassTechnique
		}
	}
	if !a.lastFeedback.IsZero() && now.Sub(a.lastFeedback) > 2*a.cfg.BaseCooldown {
		return ClassEncouragement
	}
	return ClassNone
}

// commit records a successful emission and builds the Feedback. Callers
// hold a.mu.
func (a *Arbiter) commit(text string, class Class, snap Snapshot, now time.Time) *Feedback {
	a.lastFeedback = now
	if class == ClassUrgent {
		a.lastUrgent = now
	}
	a.repSpoken = snap.Rep
	a.stageSpoken = repStage(snap.Result)
	return &Feedback{Text: text, Class: class, At: now}
}

// repStage picks the stage that represents the movement phase for coaching.
// The right arm leads; when it has no pose the left arm stands in.
func repStage(r exercise.TrackResult) exercise.Stage {
	right := r.Reading(pose.Right)
	if right.Stage != exercise.StageNone {
		return right.Stage
	}
	return r.Reading(pose.Left).Stage
}
