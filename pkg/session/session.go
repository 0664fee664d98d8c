// Package session owns one workout: it feeds landmark frames through the
// rep tracker, runs posture validation, asks the coach arbiter for feedback,
// and hands the aggregate result to the configured sink when the workout
// ends.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/formsense/go-formcoach/internal/log"
	"github.com/formsense/go-formcoach/pkg/coach"
	"github.com/formsense/go-formcoach/pkg/exercise"
	"github.com/formsense/go-formcoach/pkg/pose"
	"github.com/formsense/go-formcoach/pkg/protocol"
)

// Default workout goals, matching a short guided session.
const (
	DefaultGoalReps = 10
	DefaultGoalSets = 3
)

// Speaker voices feedback. *speech.Dispatcher satisfies it.
type Speaker interface {
	Speak(text string, priority bool)
}

// Publisher pushes protocol messages to connected dashboard clients.
type Publisher interface {
	Publish(msg *protocol.Message)
}

// Config sets up one session.
type Config struct {
	Exercise   string
	Mode       exercise.Mode
	GoalReps   int
	GoalSets   int
	Thresholds exercise.Thresholds
}

func (c Config) withDefaults() Config {
	if c.Exercise == "" {
		c.Exercise = exercise.TypeHammerCurl
	}
	if c.Mode == "" {
		c.Mode = exercise.ModeWorkout
	}
	if c.GoalReps == 0 {
		c.GoalReps = DefaultGoalReps
	}
	if c.GoalSets == 0 {
		c.GoalSets = DefaultGoalSets
	}
	return c
}

// Update is the outcome of processing one frame.
type Update struct {
	Result   exercise.TrackResult
	Faults   exercise.Faults
	Feedback *coach.Feedback

	ReadyToStart     bool
	SetCompleted     bool
	WorkoutCompleted bool
}

// Session is one tracked workout. ProcessFrame must be called from a single
// goroutine; Status, Stop, and mode switches are safe from others.
type Session struct {
	id      string
	arbiter *coach.Arbiter
	speaker Speaker
	sink    ResultSink
	pub     Publisher

	mu        sync.Mutex
	cfg       Config
	mode      exercise.Mode
	tracker   *exercise.CurlTracker
	ready     *exercise.ReadinessTracker
	startedAt time.Time
	last      exercise.TrackResult
	faults    exercise.Faults
	setsDone  int
	warnings  int
	complete  bool
	recorded  bool

	now func() time.Time
}

// New creates a running session. speaker, sink, and pub may be nil.
func New(cfg Config, arbiter *coach.Arbiter, speaker Speaker, sink ResultSink, pub Publisher) *Session {
	cfg = cfg.withDefaults()
	if sink == nil {
		sink = DiscardResults{}
	}
	s := &Session{
		id:      uuid.NewString(),
		arbiter: arbiter,
		speaker: speaker,
		sink:    sink,
		pub:     pub,
		cfg:     cfg,
		mode:    cfg.Mode,
		tracker: exercise.NewCurlTracker(cfg.Thresholds),
		ready:   exercise.NewReadinessTracker(),
		now:     time.Now,
	}
	s.startedAt = s.now()
	log.Info("session: started",
		"session_id", s.id,
		"exercise", cfg.Exercise,
		"mode", string(cfg.Mode),
		"goal_reps", cfg.GoalReps,
		"goal_sets", cfg.GoalSets,
	)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Mode returns the current coaching mode.
func (s *Session) Mode() exercise.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches between workout and test-posture coaching. Entering test
// mode resets the readiness streak; leaving it drops the last fault list so
// the status surface does not report stale corrections.
func (s *Session) SetMode(m exercise.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m == s.mode {
		return
	}
	s.mode = m
	if m == exercise.ModeTestPosture {
		s.ready.Reset()
	} else {
		s.faults = nil
	}
	log.Info("session: mode changed", "session_id", s.id, "mode", string(m))
}

// ProcessFrame advances the session with one landmark frame.
func (s *Session) ProcessFrame(ctx context.Context, frame pose.Frame) Update {
	s.mu.Lock()
	if s.complete {
		s.mu.Unlock()
		return Update{WorkoutCompleted: true}
	}

	result := s.tracker.Update(frame)
	s.last = result
	if result.HasWarning() {
		s.warnings++
	}

	if s.mode == exercise.ModeTestPosture {
		update := s.testPostureLocked(result)
		s.mu.Unlock()
		return update
	}

	// Set boundary check comes before coaching so the completion phrase is
	// not raced by a milestone for the same rep.
	if s.cfg.GoalReps > 0 && result.Reps() >= s.cfg.GoalReps {
		update := s.completeSetLocked(ctx, result)
		s.mu.Unlock()
		return update
	}

	snap := coach.Snapshot{
		Exercise: s.cfg.Exercise,
		Result:   result,
		Rep:      result.Reps(),
		GoalReps: s.cfg.GoalReps,
		Set:      s.setsDone + 1,
		GoalSets: s.cfg.GoalSets,
	}
	s.mu.Unlock()

	// Arbitration may block on a generation round trip; never under the lock.
	fb, err := s.arbiter.Evaluate(ctx, snap)
	if err != nil || fb == nil {
		return Update{Result: result}
	}

	s.deliver(fb)
	return Update{Result: result, Feedback: fb}
}

// testPostureLocked validates form and tracks readiness. Callers hold s.mu.
func (s *Session) testPostureLocked(result exercise.TrackResult) Update {
	faults := exercise.Validate(result, s.tracker.Thresholds())
	s.faults = faults
	emit := s.ready.Observe(faults)

	update := Update{
		Result:       result,
		Faults:       faults,
		ReadyToStart: s.ready.Ready(),
	}
	if emit && s.speaker != nil {
		s.speaker.Speak(strings.Join(faults, ". "), false)
	}
	return update
}

// completeSetLocked handles a finished set, possibly the whole workout.
// Callers hold s.mu.
func (s *Session) completeSetLocked(ctx context.Context, result exercise.TrackResult) Update {
	s.setsDone++
	s.tracker.ResetReps()

	update := Update{Result: result, SetCompleted: true}

	if s.cfg.GoalSets > 0 && s.setsDone >= s.cfg.GoalSets {
		s.complete = true
		update.WorkoutCompleted = true
		update.Feedback = s.arbiter.Announce(coach.WorkoutCompletePhrase(), coach.ClassMilestone)
		s.recordLocked(ctx)
	} else {
		update.Feedback = s.arbiter.Announce(coach.SetCompletePhrase(), coach.ClassMilestone)
	}

	log.Info("session: set complete",
		"session_id", s.id,
		"sets_done", s.setsDone,
		"workout_complete", update.WorkoutCompleted,
	)
	s.deliver(update.Feedback)
	return update
}

// deliver speaks and broadcasts one feedback event.
func (s *Session) deliver(fb *coach.Feedback) {
	if fb == nil {
		return
	}
	if s.speaker != nil {
		s.speaker.Speak(fb.Text, fb.Urgent())
	}
	if s.pub != nil {
		msg, err := protocol.NewMessage(protocol.TypeFeedback, protocol.FeedbackData{
			Text:     fb.Text,
			Class:    fb.Class.String(),
			Priority: fb.Urgent(),
		})
		if err == nil {
			s.pub.Publish(msg)
		}
	}
}

// Status returns a snapshot for the API and dashboard.
func (s *Session) Status() protocol.StatusData {
	s.mu.Lock()
	defer s.mu.Unlock()

	limbs := make([]protocol.LimbStatus, 0, pose.NumSides)
	for _, side := range []pose.Side{pose.Right, pose.Left} {
		r := s.last.Reading(side)
		limbs = append(limbs, protocol.LimbStatus{
			Side:    side.String(),
			Stage:   r.Stage.String(),
			Reps:    r.Reps,
			Angle:   r.Flexion,
			Warning: r.Warning,
		})
	}

	return protocol.StatusData{
		SessionID:     s.id,
		Exercise:      s.cfg.Exercise,
		Mode:          string(s.mode),
		Limbs:         limbs,
		Faults:        s.faults,
		CorrectStreak: s.ready.Streak(),
		ReadyToStart:  s.ready.Ready(),
		CurrentSet:    s.setsDone + 1,
		GoalSets:      s.cfg.GoalSets,
		GoalReps:      s.cfg.GoalReps,
	}
}

// Stop ends the session early and records the partial result. Calling Stop
// on a completed session is a no-op returning the recorded result.
func (s *Session) Stop(ctx context.Context) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.complete = true
	return s.recordLocked(ctx)
}

// recordLocked builds the aggregate result and hands it to the sink once.
// Callers hold s.mu.
func (s *Session) recordLocked(ctx context.Context) Result {
	currentReps := s.tracker.State(pose.Right).Reps
	if left := s.tracker.State(pose.Left).Reps; left > currentReps {
		currentReps = left
	}
	sets := s.setsDone
	if currentReps > 0 {
		sets++
	}

	res := Result{
		SessionID:     s.id,
		Exercise:      s.cfg.Exercise,
		SetsCompleted: sets,
		TotalReps:     s.setsDone*s.cfg.GoalReps + currentReps,
		Warnings:      s.warnings,
		StartedAt:     s.startedAt,
		Duration:      s.now().Sub(s.startedAt),
	}

	if s.recorded {
		return res
	}
	s.recorded = true

	if err := s.sink.Record(ctx, res); err != nil {
		log.Error("session: record result", "session_id", s.id, "error", err)
	}
	if s.pub != nil {
		msg, err := protocol.NewMessage(protocol.TypeResult, protocol.ResultData{
			SessionID:       res.SessionID,
			Exercise:        res.Exercise,
			SetsCompleted:   res.SetsCompleted,
			TotalReps:       res.TotalReps,
			DurationSeconds: int(res.Duration.Seconds()),
		})
		if err == nil {
			s.pub.Publish(msg)
		}
	}
	return res
}
