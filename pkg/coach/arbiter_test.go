package coach

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/formsense/go-formcoach/pkg/exercise"
	"github.com/formsense/go-formcoach/pkg/llm"
	"github.com/formsense/go-formcoach/pkg/pose"
)

// snap builds a workout snapshot. warning marks the right limb as drifting.
func snap(stage exercise.Stage, rep int, warning bool) Snapshot {
	s := Snapshot{
		Exercise: exercise.TypeHammerCurl,
		Rep:      rep,
		GoalReps: 10,
		Set:      1,
		GoalSets: 3,
	}
	s.Result.Limbs[pose.Right].Stage = stage
	s.Result.Limbs[pose.Right].Reps = rep
	if warning {
		s.Result.Limbs[pose.Right].Warning = "Right shoulder-elbow-hip misalignment, angle 55.00 degrees"
	}
	return s
}

// testArbiter returns an arbiter with a controllable clock.
func testArbiter(gen llm.Generator) (*Arbiter, *time.Time) {
	a := NewArbiter(gen, Config{})
	now := time.Unix(5000, 0)
	a.now = func() time.Time { return now }
	return a, &now
}

func TestArbiterUrgentCooldown(t *testing.T) {
	mock := llm.NewMock()
	a, now := testArbiter(mock)
	ctx := context.Background()
	warn := snap(exercise.StageUp, 0, true)

	fb, err := a.Evaluate(ctx, warn)
	if err != nil || fb == nil {
		t.Fatalf("t=0: feedback = %v, err = %v, want urgent feedback", fb, err)
	}
	if fb.Class != ClassUrgent {
		t.Fatalf("t=0: class = %s, want urgent", fb.Class)
	}

	*now = now.Add(2 * time.Second)
	if fb, _ := a.Evaluate(ctx, warn); fb != nil {
		t.Errorf("t=2s: feedback = %q, want silence inside urgent cooldown", fb.Text)
	}

	*now = now.Add(2 * time.Second)
	fb, err = a.Evaluate(ctx, warn)
	if err != nil || fb == nil || fb.Class != ClassUrgent {
		t.Errorf("t=4s: feedback = %v, err = %v, want urgent again", fb, err)
	}
}

func TestArbiterUrgentBeatsMilestone(t *testing.T) {
	mock := llm.NewMock()
	a, _ := testArbiter(mock)

	// Warning and a fresh rep on the same frame: safety wins.
	s := snap(exercise.StageDown, 1, true)
	fb, err := a.Evaluate(context.Background(), s)
	if err != nil || fb == nil {
		t.Fatalf("feedback = %v, err = %v", fb, err)
	}
	if fb.Class != ClassUrgent {
		t.Errorf("class = %s, want urgent over milestone", fb.Class)
	}
}

func TestArbiterMilestoneCheckpointSkipsGeneration(t *testing.T) {
	mock := llm.NewMock()
	a, _ := testArbiter(mock)

	fb, err := a.Evaluate(context.Background(), snap(exercise.StageDown, 1, false))
	if err != nil || fb == nil {
		t.Fatalf("feedback = %v, err = %v", fb, err)
	}
	if fb.Class != ClassMilestone {
		t.Errorf("class = %s, want milestone", fb.Class)
	}
	if fb.Text == "" {
		t.Error("checkpoint must carry a stock phrase")
	}
	if mock.CallCount() != 0 {
		t.Errorf("generator called %d times for a checkpoint rep, want 0", mock.CallCount())
	}
}

func TestArbiterMilestoneMidSetUsesGenerator(t *testing.T) {
	mock := llm.NewMock()
	a, now := testArbiter(mock)
	ctx := context.Background()

	// Rep 3 of 10 is not a checkpoint, so the model writes the phrase.
	fb, err := a.Evaluate(ctx, snap(exercise.StageDown, 3, false))
	if err != nil || fb == nil || fb.Class != ClassMilestone {
		t.Fatalf("feedback = %v, err = %v, want generated milestone", fb, err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("generator calls = %d, want 1", mock.CallCount())
	}

	// The same rep stays spoken-for even after the cooldown.
	*now = now.Add(DefaultBaseCooldown + time.Second)
	if fb, _ := a.Evaluate(ctx, snap(exercise.StageDown, 3, false)); fb != nil {
		t.Errorf("feedback = %q, rep 3 was already spoken", fb.Text)
	}
}

func TestArbiterGenerationFailureKeepsTrigger(t *testing.T) {
	boom := errors.New("backend down")
	mock := llm.MockWithError(boom)
	a, _ := testArbiter(mock)
	ctx := context.Background()

	s := snap(exercise.StageDown, 3, false)
	fb, err := a.Evaluate(ctx, s)
	if fb != nil {
		t.Fatalf("feedback = %q, want none on generation failure", fb.Text)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped backend error", err)
	}

	// Cooldowns did not advance, so the recovered backend is retried at once.
	mock.GenerateFunc = func(ctx context.Context, req llm.Request) (string, error) {
		return "Strong rep, keep the tempo.", nil
	}
	fb, err = a.Evaluate(ctx, s)
	if err != nil || fb == nil || fb.Class != ClassMilestone {
		t.Errorf("retry: feedback = %v, err = %v, want milestone", fb, err)
	}
}

func TestArbiterTechniqueOnStageChange(t *testing.T) {
	mock := llm.NewMock()
	a, now := testArbiter(mock)
	ctx := context.Background()

	// The first observed stage is the starting position, not a transition.
	if fb, err := a.Evaluate(ctx, snap(exercise.StageFlex, 0, false)); err != nil || fb != nil {
		t.Fatalf("session start: feedback = %v, err = %v, want silence", fb, err)
	}

	fb, err := a.Evaluate(ctx, snap(exercise.StageUp, 0, false))
	if err != nil || fb == nil || fb.Class != ClassTechnique {
		t.Fatalf("stage change: feedback = %v, err = %v, want technique", fb, err)
	}

	// Same stage inside the cooldown window: silence.
	if fb, _ := a.Evaluate(ctx, snap(exercise.StageUp, 0, false)); fb != nil {
		t.Errorf("unchanged stage spoke: %q", fb.Text)
	}

	*now = now.Add(DefaultBaseCooldown + time.Second)
	fb, err = a.Evaluate(ctx, snap(exercise.StageDown, 0, false))
	if err != nil || fb == nil || fb.Class != ClassTechnique {
		t.Errorf("stage change: feedback = %v, err = %v, want technique", fb, err)
	}
}

func TestArbiterEncouragementAfterQuiet(t *testing.T) {
	mock := llm.NewMock()
	a, now := testArbiter(mock)
	ctx := context.Background()

	// A first-rep checkpoint breaks the ice and starts the feedback clock.
	s := snap(exercise.StageDown, 1, false)
	if fb, err := a.Evaluate(ctx, s); err != nil || fb == nil {
		t.Fatalf("setup feedback = %v, err = %v", fb, err)
	}
	calls := mock.CallCount()

	// Nothing changes for 13 seconds; the coach breaks the silence with a
	// stock phrase.
	*now = now.Add(13 * time.Second)
	fb, err := a.Evaluate(ctx, s)
	if err != nil || fb == nil {
		t.Fatalf("feedback = %v, err = %v, want encouragement", fb, err)
	}
	if fb.Class != ClassEncouragement {
		t.Errorf("class = %s, want encouragement", fb.Class)
	}
	if mock.CallCount() != calls {
		t.Error("encouragement must not hit the generator")
	}
}

func TestArbiterReset(t *testing.T) {
	mock := llm.NewMock()
	a, _ := testArbiter(mock)
	ctx := context.Background()

	if fb, _ := a.Evaluate(ctx, snap(exercise.StageDown, 1, false)); fb == nil {
		t.Fatal("setup: expected milestone")
	}
	a.Reset()

	// After reset the same rep is fresh again.
	fb, err := a.Evaluate(ctx, snap(exercise.StageDown, 1, false))
	if err != nil || fb == nil || fb.Class != ClassMilestone {
		t.Errorf("post-reset feedback = %v, err = %v, want milestone", fb, err)
	}
}
