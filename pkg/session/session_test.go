package session

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/formsense/go-formcoach/pkg/coach"
	"github.com/formsense/go-formcoach/pkg/exercise"
	"github.com/formsense/go-formcoach/pkg/llm"
	"github.com/formsense/go-formcoach/pkg/pose"
)

// armFrame builds a frame whose right-arm flexion is deg with the elbow
// tracking the torso.
func armFrame(deg float64) pose.Frame {
	rad := (deg - 90) * math.Pi / 180
	elbow := pose.Point{X: 0, Y: 1}
	return pose.Frame{
		pose.RightShoulder: {X: 0, Y: 0},
		pose.RightElbow:    elbow,
		pose.RightWrist:    {X: elbow.X + math.Cos(rad), Y: elbow.Y + math.Sin(rad)},
		pose.RightHip:      {X: 0, Y: 2},
	}
}

// repCycle is one full Flex→Up→Down rep.
var repCycle = []float64{160, 100, 40}

type recordSpeaker struct {
	mu    sync.Mutex
	texts []string
}

func (r *recordSpeaker) Speak(text string, priority bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
}

func (r *recordSpeaker) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.texts)
}

type captureSink struct {
	mu      sync.Mutex
	results []Result
}

func (c *captureSink) Record(ctx context.Context, res Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, res)
	return nil
}

func (c *captureSink) all() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Result(nil), c.results...)
}

func newTestArbiter() *coach.Arbiter {
	return coach.NewArbiter(llm.NewMock(), coach.Config{})
}

func TestSessionWorkoutCompletes(t *testing.T) {
	sink := &captureSink{}
	s := New(Config{GoalReps: 2, GoalSets: 2}, newTestArbiter(), nil, sink, nil)
	ctx := context.Background()

	var sets, workouts int
	for cycle := 0; cycle < 4; cycle++ {
		for _, deg := range repCycle {
			u := s.ProcessFrame(ctx, armFrame(deg))
			if u.SetCompleted {
				sets++
			}
			if u.WorkoutCompleted {
				workouts++
			}
		}
	}

	if sets != 2 {
		t.Errorf("set completions = %d, want 2", sets)
	}
	if workouts != 1 {
		t.Errorf("workout completions = %d, want 1", workouts)
	}

	results := sink.all()
	if len(results) != 1 {
		t.Fatalf("recorded results = %d, want exactly 1", len(results))
	}
	res := results[0]
	if res.SetsCompleted != 2 {
		t.Errorf("SetsCompleted = %d, want 2", res.SetsCompleted)
	}
	if res.TotalReps != 4 {
		t.Errorf("TotalReps = %d, want 4", res.TotalReps)
	}

	// A completed session ignores further frames and Stop records nothing new.
	if u := s.ProcessFrame(ctx, armFrame(160)); !u.WorkoutCompleted {
		t.Error("frames after completion must report WorkoutCompleted")
	}
	s.Stop(ctx)
	if len(sink.all()) != 1 {
		t.Error("Stop after completion must not record a second result")
	}
}

func TestSessionPartialStop(t *testing.T) {
	sink := &captureSink{}
	s := New(Config{GoalReps: 5, GoalSets: 3}, newTestArbiter(), nil, sink, nil)
	ctx := context.Background()

	// One finished rep, then the athlete quits.
	for _, deg := range repCycle {
		s.ProcessFrame(ctx, armFrame(deg))
	}
	res := s.Stop(ctx)

	if res.TotalReps != 1 {
		t.Errorf("TotalReps = %d, want 1", res.TotalReps)
	}
	if res.SetsCompleted != 1 {
		t.Errorf("SetsCompleted = %d, a partial set still counts as attempted", res.SetsCompleted)
	}
	if len(sink.all()) != 1 {
		t.Errorf("recorded results = %d, want 1", len(sink.all()))
	}
}

func TestSessionTestPostureMode(t *testing.T) {
	speaker := &recordSpeaker{}
	s := New(Config{Mode: exercise.ModeTestPosture}, newTestArbiter(), speaker, nil, nil)
	ctx := context.Background()

	// Mid-range arm: faulted, corrective phrase spoken once.
	u := s.ProcessFrame(ctx, armFrame(100))
	if len(u.Faults) == 0 {
		t.Fatal("mid-range arm must produce posture faults")
	}
	if u.ReadyToStart {
		t.Error("faulted frame cannot be ready")
	}
	if speaker.count() != 1 {
		t.Fatalf("spoken corrections = %d, want 1", speaker.count())
	}

	// Identical faults on the next frame are throttled.
	s.ProcessFrame(ctx, armFrame(100))
	if speaker.count() != 1 {
		t.Errorf("spoken corrections = %d, identical faults must be throttled", speaker.count())
	}

	// Three clean frames in a row flip readiness.
	for i := 0; i < 3; i++ {
		u = s.ProcessFrame(ctx, armFrame(170))
	}
	if !u.ReadyToStart {
		t.Error("three clean frames must set ReadyToStart")
	}

	status := s.Status()
	if !status.ReadyToStart || status.CorrectStreak != 3 {
		t.Errorf("status readiness = %v/%d, want true/3", status.ReadyToStart, status.CorrectStreak)
	}
	if status.Mode != string(exercise.ModeTestPosture) {
		t.Errorf("status mode = %q", status.Mode)
	}
}

func TestSessionSetModeResetsReadiness(t *testing.T) {
	s := New(Config{Mode: exercise.ModeTestPosture}, newTestArbiter(), nil, nil, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s.ProcessFrame(ctx, armFrame(170))
	}
	if !s.Status().ReadyToStart {
		t.Fatal("setup: expected readiness")
	}

	s.SetMode(exercise.ModeWorkout)
	s.SetMode(exercise.ModeTestPosture)
	if s.Status().ReadyToStart {
		t.Error("re-entering test mode must reset readiness")
	}
}

func TestSessionSetModeClearsFaults(t *testing.T) {
	s := New(Config{Mode: exercise.ModeTestPosture}, newTestArbiter(), nil, nil, nil)
	ctx := context.Background()

	s.ProcessFrame(ctx, armFrame(100))
	if len(s.Status().Faults) == 0 {
		t.Fatal("setup: expected posture faults")
	}

	s.SetMode(exercise.ModeWorkout)
	if faults := s.Status().Faults; len(faults) != 0 {
		t.Errorf("faults = %v, must clear when leaving test mode", faults)
	}
}

func TestSessionStatus(t *testing.T) {
	s := New(Config{GoalReps: 8, GoalSets: 2}, newTestArbiter(), nil, nil, nil)
	ctx := context.Background()

	for _, deg := range repCycle {
		s.ProcessFrame(ctx, armFrame(deg))
	}

	status := s.Status()
	if status.SessionID != s.ID() {
		t.Errorf("SessionID = %q, want %q", status.SessionID, s.ID())
	}
	if status.GoalReps != 8 || status.GoalSets != 2 || status.CurrentSet != 1 {
		t.Errorf("goals = %d/%d set %d, want 8/2 set 1", status.GoalReps, status.GoalSets, status.CurrentSet)
	}
	if len(status.Limbs) != 2 {
		t.Fatalf("limbs = %d, want 2", len(status.Limbs))
	}
	var right *int
	for i := range status.Limbs {
		if status.Limbs[i].Side == "right" {
			right = &status.Limbs[i].Reps
		}
	}
	if right == nil || *right != 1 {
		t.Errorf("right limb reps = %v, want 1", right)
	}
}
